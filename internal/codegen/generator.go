package codegen

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/png"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"
)

// State tracks where the most recent generation is in the pipeline.
type State string

const (
	StateIdle        State = "idle"
	StateEncoding    State = "encoding"
	StateMasking     State = "masking"
	StateCompositing State = "compositing"
	StateIconPending State = "icon_pending"
	StateReady       State = "ready"
)

// Options carries the compositor tunables.
type Options struct {
	// CanvasSize is the edge length of the QR canvas in pixels.
	CanvasSize int
	// MaskThreshold is the per-channel brightness above which a pixel
	// counts as a light module.
	MaskThreshold uint8
	// IconFraction is the width fraction of the canvas covered by the
	// center icon and its quiet zone.
	IconFraction float64
}

// DefaultOptions returns the reference tunables: a 256px canvas, the
// 200-brightness cutoff and a quarter-width icon.
func DefaultOptions() Options {
	return Options{
		CanvasSize:    256,
		MaskThreshold: DefaultMaskThreshold,
		IconFraction:  0.25,
	}
}

// Artifact is the one visible and exportable product of a generation.
type Artifact struct {
	Image     *image.RGBA
	Type      CodeType
	CreatedAt time.Time

	// IconDone is closed once the icon overlay has settled: applied,
	// discarded as stale, failed to decode, or skipped because the
	// request carried no icon. The artifact is displayable before then.
	IconDone <-chan struct{}
}

// PNG encodes the artifact as a PNG byte stream.
func (a *Artifact) PNG() ([]byte, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, a.Image); err != nil {
		return nil, fmt.Errorf("encode png: %w", err)
	}
	return buf.Bytes(), nil
}

// Filename returns the export name, {qr|barcode}_{unixMillis}.png.
func (a *Artifact) Filename() string {
	return fmt.Sprintf("%s_%d.png", a.Type, a.CreatedAt.UnixMilli())
}

// Generator runs generation requests one at a time and owns the single
// currently-displayed artifact. The artifact is replace-only: late icon
// overlays draw onto a copy and swap it in, and every asynchronous
// callback carries the generation id it was spawned for so a newer
// request silently invalidates it.
type Generator struct {
	opts Options
	log  *slog.Logger

	lastID atomic.Uint64

	mu      sync.Mutex
	state   State
	current *Artifact
}

// NewGenerator returns a Generator with the given tunables.
func NewGenerator(opts Options, log *slog.Logger) *Generator {
	if log == nil {
		log = slog.Default()
	}
	if opts.CanvasSize <= 0 {
		opts.CanvasSize = DefaultOptions().CanvasSize
	}
	if opts.IconFraction <= 0 {
		opts.IconFraction = DefaultOptions().IconFraction
	}
	return &Generator{opts: opts, log: log, state: StateIdle}
}

// State reports the pipeline state of the most recent request.
func (g *Generator) State() State {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.state
}

// Current returns the currently-displayed artifact, or ErrNoArtifact
// when nothing has been generated yet.
func (g *Generator) Current() (*Artifact, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.current == nil {
		return nil, ErrNoArtifact
	}
	return g.current, nil
}

// Generate runs the full pipeline for one request and installs the
// result as the current artifact. The returned artifact is displayable
// immediately; a QR icon, when present, lands as a best-effort late
// overlay (wait on Artifact.IconDone if you need it).
func (g *Generator) Generate(ctx context.Context, req Request) (*Artifact, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	id := g.lastID.Add(1)
	g.setState(StateEncoding)

	var art *Artifact
	switch req.Type {
	case TypeBarcode:
		img, err := RenderBarcode(req.Text, BarcodeOptions{
			BarWidth:   g.opts.CanvasSize * 2,
			BarHeight:  g.opts.CanvasSize / 2,
			Foreground: req.Foreground,
			Background: req.Background,
			ShowText:   true,
			Threshold:  g.opts.MaskThreshold,
		})
		if err != nil {
			g.setState(StateIdle)
			return nil, err
		}
		art = g.newArtifact(img, TypeBarcode, closedChan())

	case TypeQR:
		base, err := EncodeQRBase(req.Text, g.opts.CanvasSize)
		if err != nil {
			g.setState(StateIdle)
			return nil, err
		}

		g.setState(StateMasking)
		g.setState(StateCompositing)
		final := Composite(base, req.Foreground, req.Background, req.GradientEnd, g.opts.MaskThreshold)

		if len(req.Icon) > 0 {
			done := make(chan struct{})
			art = g.newArtifact(final, TypeQR, done)
			g.install(art, StateIconPending)
			go g.applyIcon(id, art, req, done)
			return art, nil
		}
		art = g.newArtifact(final, TypeQR, closedChan())
	}

	g.install(art, StateReady)
	return art, nil
}

func (g *Generator) newArtifact(img *image.RGBA, t CodeType, done <-chan struct{}) *Artifact {
	return &Artifact{Image: img, Type: t, CreatedAt: time.Now(), IconDone: done}
}

func (g *Generator) install(art *Artifact, s State) {
	g.mu.Lock()
	g.current = art
	g.state = s
	g.mu.Unlock()
}

func (g *Generator) setState(s State) {
	g.mu.Lock()
	g.state = s
	g.mu.Unlock()
}

// applyIcon is the single asynchronous suspension point of the
// pipeline. It decodes the icon, re-checks that its generation is still
// the latest one, and swaps in a copy of the artifact with the overlay
// drawn. A decode failure degrades to no icon and is never surfaced to
// the user.
func (g *Generator) applyIcon(id uint64, art *Artifact, req Request, done chan struct{}) {
	defer close(done)

	icon, err := DecodeIcon(req.Icon)
	if err != nil {
		g.log.Warn("icon decode failed, keeping artifact without icon", "error", err)
		g.mu.Lock()
		if id == g.lastID.Load() && g.current == art {
			g.state = StateReady
		}
		g.mu.Unlock()
		return
	}

	next := &Artifact{
		Image:     cloneRGBA(art.Image),
		Type:      art.Type,
		CreatedAt: art.CreatedAt,
		IconDone:  art.IconDone,
	}
	OverlayIcon(next.Image, icon, req.Background, g.opts.IconFraction)

	g.mu.Lock()
	defer g.mu.Unlock()
	if id != g.lastID.Load() || g.current != art {
		g.log.Debug("discarding stale icon overlay", "generation", id)
		return
	}
	g.current = next
	g.state = StateReady
}

func closedChan() <-chan struct{} {
	ch := make(chan struct{})
	close(ch)
	return ch
}
