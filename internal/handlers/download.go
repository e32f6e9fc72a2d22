package handlers

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/kongrotanaminiapp/qrcodegenerator/internal/codegen"
	"github.com/kongrotanaminiapp/qrcodegenerator/internal/exporter"
)

// Download serves the current artifact as a file attachment. Invoking
// it before any generation is a guarded-against state: logged, no file,
// no user-facing prompt beyond the status code.
func (h *Handler) Download(c *gin.Context) {
	art, err := h.Gen.Current()
	if err != nil {
		if errors.Is(err, codegen.ErrNoArtifact) {
			h.Log.Error("download requested with no rendered artifact")
		} else {
			h.Log.Error("fetching artifact failed", "error", err)
		}
		c.Status(http.StatusNotFound)
		return
	}

	data, err := art.PNG()
	if err != nil {
		h.Log.Error("encoding artifact failed", "error", err)
		c.Status(http.StatusInternalServerError)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", art.Filename()))
	c.Data(http.StatusOK, "image/png", data)
}

// Preview re-serves the current artifact inline, picking up a late icon
// overlay that landed after the generate response was sent.
func (h *Handler) Preview(c *gin.Context) {
	art, err := h.Gen.Current()
	if err != nil {
		c.Status(http.StatusNotFound)
		return
	}
	data, err := art.PNG()
	if err != nil {
		h.Log.Error("encoding artifact failed", "error", err)
		c.Status(http.StatusInternalServerError)
		return
	}
	c.Data(http.StatusOK, "image/png", data)
}

// Status reports where the most recent generation is in the pipeline.
func (h *Handler) Status(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"state": string(h.Gen.State())})
}

// ShareArtifact runs the host-integrated save flow when a host bridge
// is configured.
func (h *Handler) ShareArtifact(c *gin.Context) {
	if h.Share == nil {
		c.JSON(http.StatusNotImplemented, gin.H{"error": "No host bridge available"})
		return
	}

	art, err := h.Gen.Current()
	if err != nil {
		h.Log.Error("share requested with no rendered artifact")
		c.Status(http.StatusNotFound)
		return
	}

	url, err := h.Share.Export(c.Request.Context(), art)
	if err != nil {
		if errors.Is(err, exporter.ErrCancelled) {
			c.JSON(http.StatusOK, gin.H{"status": "cancelled"})
			return
		}
		h.Log.Error("share failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to share code"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok", "url": url})
}

// ServeBlob serves a temporary blob handle until it is revoked.
func (h *Handler) ServeBlob(c *gin.Context) {
	if h.Blobs == nil {
		c.Status(http.StatusNotFound)
		return
	}
	data, ok := h.Blobs.Get(c.Param("id"))
	if !ok {
		c.Status(http.StatusNotFound)
		return
	}
	c.Data(http.StatusOK, "image/png", data)
}
