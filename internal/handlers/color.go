package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/kongrotanaminiapp/qrcodegenerator/internal/binding"
)

// ColorSync validates one side of a hex/picker pair and returns the
// value the paired field should take. A write that is not a strict
// #RRGGBB color leaves the pair unchanged.
func (h *Handler) ColorSync(c *gin.Context) {
	current := strings.TrimSpace(c.PostForm("current"))
	proposed := strings.TrimSpace(c.PostForm("value"))

	hexField, picker := binding.NewColorPair(current)

	field := hexField
	if c.PostForm("view") == "picker" {
		field = picker
	}

	if !field.Set(proposed) {
		c.JSON(http.StatusOK, gin.H{"ok": false, "value": hexField.Get()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "value": picker.Get()})
}
