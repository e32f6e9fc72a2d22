package exporter

import (
	"context"
	"log/slog"
	"time"

	"github.com/kongrotanaminiapp/qrcodegenerator/internal/codegen"
)

// Host is the surface a chat-app mini-app host exposes: a confirmation
// popup and an URL opener for handing a blob to the host's save flow.
type Host interface {
	// ShowPopup presents p and returns the id of the pressed button.
	ShowPopup(ctx context.Context, p Popup) (string, error)
	// OpenURL asks the host to open (and thereby save/share) url.
	OpenURL(ctx context.Context, url string) error
}

// Popup describes a host confirmation dialog.
type Popup struct {
	Title   string
	Message string
	Buttons []PopupButton
}

// PopupButton is one choice in a Popup.
type PopupButton struct {
	ID   string
	Text string
}

// saveButtonID marks the affirmative choice of the save prompt.
const saveButtonID = "save"

// WebHost adapts the bridge flow to the plain web UI: the user's share
// click is itself the confirmation, and the browser follows the
// returned blob URL on its own, so the popup auto-confirms and OpenURL
// has nothing to do.
type WebHost struct{}

func (WebHost) ShowPopup(context.Context, Popup) (string, error) { return saveButtonID, nil }

func (WebHost) OpenURL(context.Context, string) error { return nil }

// BridgeExporter runs the host-integrated save flow: register the PNG
// as a temporary blob, ask the user to confirm, hand the blob URL to
// the host, and revoke the handle after a bounded delay — or
// immediately when the user cancels.
type BridgeExporter struct {
	Host        Host
	Blobs       *BlobStore
	RevokeDelay time.Duration
	Log         *slog.Logger
}

// Export implements Exporter.
func (e *BridgeExporter) Export(ctx context.Context, art *codegen.Artifact) (string, error) {
	data, err := art.PNG()
	if err != nil {
		return "", err
	}

	id, url := e.Blobs.Put(data)

	pressed, err := e.Host.ShowPopup(ctx, Popup{
		Title:   "Save Image",
		Message: "Save the generated code to your device?",
		Buttons: []PopupButton{
			{ID: saveButtonID, Text: "Save Image"},
			{ID: "cancel", Text: "Cancel"},
		},
	})
	if err != nil {
		e.Blobs.Revoke(id)
		return "", err
	}
	if pressed != saveButtonID {
		e.Blobs.Revoke(id)
		return "", ErrCancelled
	}

	if err := e.Host.OpenURL(ctx, url); err != nil {
		e.Blobs.Revoke(id)
		return "", err
	}

	// The host fetches asynchronously; keep the handle alive briefly.
	delay := e.RevokeDelay
	if delay <= 0 {
		delay = 3 * time.Second
	}
	e.Blobs.RevokeAfter(id, delay)

	if e.Log != nil {
		e.Log.Info("artifact handed to host", "url", url, "revoke_after", delay)
	}
	return url, nil
}
