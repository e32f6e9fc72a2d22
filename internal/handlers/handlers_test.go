package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"image/png"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kongrotanaminiapp/qrcodegenerator/internal/codegen"
	"github.com/kongrotanaminiapp/qrcodegenerator/internal/exporter"
)

func newTestRouter(t *testing.T, share exporter.Exporter) (*gin.Engine, *Handler) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	gen := codegen.NewGenerator(codegen.DefaultOptions(), slog.New(slog.NewTextHandler(io.Discard, nil)))
	h := New(gen, exporter.NewBlobStore(), share, slog.New(slog.NewTextHandler(io.Discard, nil)))

	r := gin.New()
	h.Register(r)
	return r, h
}

// postForm posts multipart form fields to path and returns the recorder.
func postForm(t *testing.T, r *gin.Engine, path string, fields map[string]string) *httptest.ResponseRecorder {
	t.Helper()

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	for k, v := range fields {
		require.NoError(t, mw.WriteField(k, v))
	}
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, path, &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func get(r *gin.Engine, path string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestGenerateBarcode(t *testing.T) {
	r, _ := newTestRouter(t, nil)

	w := postForm(t, r, "/api/generate", map[string]string{
		"text": "ABC-12345",
		"type": "barcode",
	})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "image/png", w.Header().Get("Content-Type"))

	img, err := png.Decode(bytes.NewReader(w.Body.Bytes()))
	require.NoError(t, err)
	assert.Greater(t, img.Bounds().Dx(), 0)

	// A successful generation reveals the download.
	dl := get(r, "/api/download")
	require.Equal(t, http.StatusOK, dl.Code)
	assert.Regexp(t, `attachment; filename="barcode_\d+\.png"`, dl.Header().Get("Content-Disposition"))
}

func TestGenerateEmptyText(t *testing.T) {
	r, _ := newTestRouter(t, nil)

	w := postForm(t, r, "/api/generate", map[string]string{
		"text": "   ",
		"type": "qr",
	})
	require.Equal(t, http.StatusBadRequest, w.Code)

	// Nothing was generated, so the download stays unavailable.
	dl := get(r, "/api/download")
	assert.Equal(t, http.StatusNotFound, dl.Code)
}

func TestDownloadWithoutGeneration(t *testing.T) {
	r, _ := newTestRouter(t, nil)

	w := get(r, "/api/download")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Empty(t, w.Body.Bytes())
}

func TestGenerateQRWithGradient(t *testing.T) {
	r, _ := newTestRouter(t, nil)

	w := postForm(t, r, "/api/generate", map[string]string{
		"text":     "https://example.com",
		"type":     "qr",
		"fg":       "#000000",
		"bg":       "#ffffff",
		"gradient": "#ff0000",
	})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "qr", w.Header().Get("X-Code-Type"))

	_, err := png.Decode(bytes.NewReader(w.Body.Bytes()))
	require.NoError(t, err)
}

func TestStatus(t *testing.T) {
	r, _ := newTestRouter(t, nil)

	w := get(r, "/api/status")
	require.Equal(t, http.StatusOK, w.Code)

	var resp map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "idle", resp["state"])
}

func TestColorSync(t *testing.T) {
	r, _ := newTestRouter(t, nil)

	sync := func(view, current, value string) map[string]any {
		form := url.Values{"view": {view}, "current": {current}, "value": {value}}
		req := httptest.NewRequest(http.MethodPost, "/api/htmx/color", strings.NewReader(form.Encode()))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		require.Equal(t, http.StatusOK, w.Code)

		var resp map[string]any
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		return resp
	}

	resp := sync("hex", "#000000", "#A1B2C3")
	assert.Equal(t, true, resp["ok"])
	assert.Equal(t, "#a1b2c3", resp["value"])

	resp = sync("hex", "#336699", "oops")
	assert.Equal(t, false, resp["ok"])
	assert.Equal(t, "#336699", resp["value"])
}

func TestShareWithoutBridge(t *testing.T) {
	r, _ := newTestRouter(t, nil)

	w := postForm(t, r, "/api/share", nil)
	assert.Equal(t, http.StatusNotImplemented, w.Code)
}

// confirmingHost always presses the affirmative button.
type confirmingHost struct{ opened []string }

func (h *confirmingHost) ShowPopup(_ context.Context, p exporter.Popup) (string, error) {
	return p.Buttons[0].ID, nil
}

func (h *confirmingHost) OpenURL(_ context.Context, u string) error {
	h.opened = append(h.opened, u)
	return nil
}

func TestShareThroughBridge(t *testing.T) {
	blobs := exporter.NewBlobStore()
	host := &confirmingHost{}

	gin.SetMode(gin.TestMode)
	gen := codegen.NewGenerator(codegen.DefaultOptions(), slog.New(slog.NewTextHandler(io.Discard, nil)))
	share := &exporter.BridgeExporter{Host: host, Blobs: blobs, RevokeDelay: time.Minute}
	h := New(gen, blobs, share, slog.New(slog.NewTextHandler(io.Discard, nil)))
	r := gin.New()
	h.Register(r)

	// Generate first, then share.
	w := postForm(t, r, "/api/generate", map[string]string{"text": "hi", "type": "qr"})
	require.Equal(t, http.StatusOK, w.Code)

	sw := postForm(t, r, "/api/share", nil)
	require.Equal(t, http.StatusOK, sw.Code)

	var resp map[string]string
	require.NoError(t, json.Unmarshal(sw.Body.Bytes(), &resp))
	require.Equal(t, "ok", resp["status"])
	require.Equal(t, []string{resp["url"]}, host.opened)

	// The temporary URL serves the PNG until it is revoked.
	bw := get(r, resp["url"])
	require.Equal(t, http.StatusOK, bw.Code)
	_, err := png.Decode(bytes.NewReader(bw.Body.Bytes()))
	assert.NoError(t, err)
}
