package main

import (
	"context"
	"fmt"
	"image/color"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"

	"github.com/kongrotanaminiapp/qrcodegenerator/internal/codegen"
	"github.com/kongrotanaminiapp/qrcodegenerator/internal/config"
	"github.com/kongrotanaminiapp/qrcodegenerator/internal/exporter"
	"github.com/kongrotanaminiapp/qrcodegenerator/internal/handlers"
)

var version = "v0.1.0"

func main() {
	root := &cobra.Command{
		Use:   "qrgen",
		Short: "QR and barcode generator with color and icon customization",
	}

	// --- serve command -------------------------------------------------------
	var configPath string
	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the generator web UI and API",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(configPath)
		},
	}
	serveCmd.Flags().StringVarP(&configPath, "config", "c", "config.yaml", "Path to config file")
	root.AddCommand(serveCmd)

	// --- generate command ----------------------------------------------------
	var genFlags generateFlags
	genCmd := &cobra.Command{
		Use:   "generate [text]",
		Short: "Generate a single code straight to a PNG file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGenerate(args[0], genFlags)
		},
	}
	genCmd.Flags().StringVarP(&genFlags.codeType, "type", "t", "qr", "Code type: qr or barcode")
	genCmd.Flags().StringVar(&genFlags.fg, "fg", "#000000", "Foreground color (#RRGGBB)")
	genCmd.Flags().StringVar(&genFlags.bg, "bg", "#ffffff", "Background color (#RRGGBB)")
	genCmd.Flags().StringVar(&genFlags.gradient, "gradient", "", "Gradient end color (#RRGGBB)")
	genCmd.Flags().StringVar(&genFlags.iconPath, "icon", "", "Path to a center icon image (QR only)")
	genCmd.Flags().StringVarP(&genFlags.outDir, "out", "o", "", "Output directory (default from config)")
	genCmd.Flags().IntVar(&genFlags.size, "size", 0, "QR canvas size in pixels (default from config)")
	genCmd.Flags().StringVarP(&genFlags.configPath, "config", "c", "config.yaml", "Path to config file")
	root.AddCommand(genCmd)

	// --- version command -----------------------------------------------------
	root.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("qrgen %s\n", version)
		},
	})

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

// runServe wires the generator, blob store and handlers into a gin
// server with graceful shutdown.
func runServe(configPath string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	log := newLogger(cfg.LogLevel)
	slog.SetDefault(log)
	log.Info("starting qrgen", "version", version, "port", cfg.Port)

	gen := codegen.NewGenerator(codegen.Options{
		CanvasSize:    cfg.CanvasSize,
		MaskThreshold: cfg.MaskThreshold,
		IconFraction:  cfg.IconFraction,
	}, log)
	blobs := exporter.NewBlobStore()
	share := &exporter.BridgeExporter{
		Host:        exporter.WebHost{},
		Blobs:       blobs,
		RevokeDelay: cfg.BlobRevoke.Duration,
		Log:         log,
	}

	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Logger())
	r.Use(gin.Recovery())

	h := handlers.New(gen, blobs, share, log)
	h.Register(r)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      r,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		log.Info("HTTP server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("HTTP server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("HTTP server shutdown error", "error", err)
	}
	return nil
}

type generateFlags struct {
	codeType   string
	fg         string
	bg         string
	gradient   string
	iconPath   string
	outDir     string
	size       int
	configPath string
}

// runGenerate is the one-shot CLI path: generate, wait for the icon
// overlay to settle, save through the file exporter. Flags left at
// their zero value fall back to the config file.
func runGenerate(text string, flags generateFlags) error {
	cfg, err := config.Load(flags.configPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	log := newLogger(cfg.LogLevel)

	if flags.outDir == "" {
		flags.outDir = cfg.OutputDir
	}
	if flags.size == 0 {
		flags.size = cfg.CanvasSize
	}

	req := codegen.Request{
		Text:       text,
		Type:       codegen.CodeType(flags.codeType),
		Foreground: codegen.ColorOrDefault(flags.fg, color.RGBA{0, 0, 0, 255}),
		Background: codegen.ColorOrDefault(flags.bg, color.RGBA{255, 255, 255, 255}),
	}
	if flags.gradient != "" {
		if end, err := codegen.ParseHexColor(flags.gradient); err == nil {
			req.GradientEnd = &end
		} else {
			log.Warn("ignoring invalid gradient color", "value", flags.gradient)
		}
	}
	if flags.iconPath != "" && req.Type == codegen.TypeQR {
		data, err := os.ReadFile(flags.iconPath)
		if err != nil {
			return fmt.Errorf("read icon: %w", err)
		}
		req.Icon = data
	}

	gen := codegen.NewGenerator(codegen.Options{
		CanvasSize:    flags.size,
		MaskThreshold: cfg.MaskThreshold,
		IconFraction:  cfg.IconFraction,
	}, log)

	art, err := gen.Generate(context.Background(), req)
	if err != nil {
		return fmt.Errorf("generate: %w", err)
	}
	<-art.IconDone

	// The icon overlay may have swapped in a new artifact.
	art, err = gen.Current()
	if err != nil {
		return err
	}

	fe := &exporter.FileExporter{Dir: flags.outDir, Log: log}
	path, err := fe.Export(context.Background(), art)
	if err != nil {
		return fmt.Errorf("export: %w", err)
	}
	fmt.Println("Saved:", path)
	return nil
}

func newLogger(level string) *slog.Logger {
	var logLevel slog.Level
	switch level {
	case "debug":
		logLevel = slog.LevelDebug
	case "warn":
		logLevel = slog.LevelWarn
	case "error":
		logLevel = slog.LevelError
	default:
		logLevel = slog.LevelInfo
	}
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: logLevel}))
}
