package exporter

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/kongrotanaminiapp/qrcodegenerator/internal/codegen"
)

// FileExporter writes the artifact as a PNG into Dir, named
// {qr|barcode}_{unixMillis}.png. This is the standard download path.
type FileExporter struct {
	Dir string
	Log *slog.Logger
}

// Export implements Exporter.
func (e *FileExporter) Export(ctx context.Context, art *codegen.Artifact) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	data, err := art.PNG()
	if err != nil {
		return "", err
	}

	if err := os.MkdirAll(e.Dir, 0o755); err != nil {
		return "", fmt.Errorf("creating output dir %s: %w", e.Dir, err)
	}

	path := filepath.Join(e.Dir, art.Filename())
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("writing %s: %w", path, err)
	}

	if e.Log != nil {
		e.Log.Info("artifact saved", "path", path, "bytes", len(data))
	}
	return path, nil
}
