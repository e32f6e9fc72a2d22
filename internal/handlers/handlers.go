// Package handlers wires the generation pipeline to the HTTP surface.
package handlers

import (
	"log/slog"

	"github.com/gin-gonic/gin"

	"github.com/kongrotanaminiapp/qrcodegenerator/internal/codegen"
	"github.com/kongrotanaminiapp/qrcodegenerator/internal/exporter"
)

// Handler holds the dependencies of the HTTP handlers. The share
// exporter is optional: it is only present when a host bridge was
// configured, and its absence simply hides the share flow.
type Handler struct {
	Gen   *codegen.Generator
	Blobs *exporter.BlobStore
	Share exporter.Exporter
	Log   *slog.Logger
}

// New returns a Handler around the given generator.
func New(gen *codegen.Generator, blobs *exporter.BlobStore, share exporter.Exporter, log *slog.Logger) *Handler {
	if log == nil {
		log = slog.Default()
	}
	return &Handler{Gen: gen, Blobs: blobs, Share: share, Log: log}
}

// Register mounts all routes on r.
func (h *Handler) Register(r *gin.Engine) {
	r.GET("/", h.HomePage)

	api := r.Group("/api")
	{
		api.POST("/generate", h.Generate)
		api.GET("/download", h.Download)
		api.GET("/preview", h.Preview)
		api.GET("/status", h.Status)
		api.POST("/share", h.ShareArtifact)
		api.POST("/htmx/color", h.ColorSync)
	}

	r.GET("/blob/:id", h.ServeBlob)
}
