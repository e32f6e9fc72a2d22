package handlers

import (
	"errors"
	"image/color"
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/kongrotanaminiapp/qrcodegenerator/internal/codegen"
)

// maxIconBytes caps uploaded icon size. Oversized icons degrade to no
// icon rather than failing the generation.
const maxIconBytes = 4 << 20

// Generate runs one generation from the submitted form and streams the
// displayable PNG back. Empty text aborts before any work; any internal
// failure maps to one generic message with detail only in the logs.
func (h *Handler) Generate(c *gin.Context) {
	text := c.PostForm("text")
	if strings.TrimSpace(text) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Please enter some text to encode"})
		return
	}

	codeType := codegen.CodeType(c.DefaultPostForm("type", string(codegen.TypeQR)))

	req := codegen.Request{
		Text:       text,
		Type:       codeType,
		Foreground: codegen.ColorOrDefault(c.PostForm("fg"), color.RGBA{0, 0, 0, 255}),
		Background: codegen.ColorOrDefault(c.PostForm("bg"), color.RGBA{255, 255, 255, 255}),
	}

	// The gradient end only participates when it parses as a strict
	// 6-digit hex color.
	if g := c.PostForm("gradient"); g != "" {
		if end, err := codegen.ParseHexColor(g); err == nil {
			req.GradientEnd = &end
		}
	}

	if codeType == codegen.TypeQR {
		req.Icon = h.readIcon(c)
	}

	art, err := h.Gen.Generate(c.Request.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, codegen.ErrEmptyText):
			c.JSON(http.StatusBadRequest, gin.H{"error": "Please enter some text to encode"})
		case errors.Is(err, codegen.ErrUnknownType):
			c.JSON(http.StatusBadRequest, gin.H{"error": "Unknown code type"})
		default:
			h.Log.Error("generation failed", "type", codeType, "error", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate code"})
		}
		return
	}

	data, err := art.PNG()
	if err != nil {
		h.Log.Error("encoding artifact failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate code"})
		return
	}

	c.Header("X-Code-Type", string(art.Type))
	c.Data(http.StatusOK, "image/png", data)
}

// readIcon pulls the optional icon upload out of the multipart form.
// Every failure here is non-fatal: the generation continues without an
// icon.
func (h *Handler) readIcon(c *gin.Context) []byte {
	fh, err := c.FormFile("icon")
	if err != nil {
		return nil
	}
	if fh.Size > maxIconBytes {
		h.Log.Warn("icon upload too large, ignoring", "size", fh.Size)
		return nil
	}
	f, err := fh.Open()
	if err != nil {
		h.Log.Warn("icon upload unreadable, ignoring", "error", err)
		return nil
	}
	defer f.Close()

	data, err := io.ReadAll(io.LimitReader(f, maxIconBytes))
	if err != nil {
		h.Log.Warn("icon upload unreadable, ignoring", "error", err)
		return nil
	}
	return data
}
