// Package exporter turns a finished artifact into something the user
// can keep: a saved PNG file, or a share flow through a mini-app host
// bridge. Which variant runs is decided by injection, never by probing
// ambient state.
package exporter

import (
	"context"
	"errors"

	"github.com/kongrotanaminiapp/qrcodegenerator/internal/codegen"
)

// ErrCancelled is returned when the user declines the host save prompt.
var ErrCancelled = errors.New("export cancelled by user")

// Exporter saves a finished artifact somewhere user-visible and returns
// the destination (a file path or a temporary URL).
type Exporter interface {
	Export(ctx context.Context, art *codegen.Artifact) (string, error)
}
