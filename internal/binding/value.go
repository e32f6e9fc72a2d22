// Package binding implements the two-field color synchronization of the
// generator form as a small observable value: a hex text field and a
// color picker are two views over one underlying color, each validating
// and normalizing on write.
package binding

import (
	"strings"
	"sync"

	"github.com/kongrotanaminiapp/qrcodegenerator/internal/codegen"
)

// Value is an observable #rrggbb color. Writes go through a view;
// subscribers see every accepted write.
type Value struct {
	mu   sync.Mutex
	hex  string
	subs []func(hex string)
}

// NewValue returns a Value holding the given initial color. The initial
// value is not validated; it is the form's server-rendered default.
func NewValue(initial string) *Value {
	return &Value{hex: strings.ToLower(initial)}
}

// Get returns the current normalized color.
func (v *Value) Get() string {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.hex
}

// Subscribe registers fn to run on every accepted write.
func (v *Value) Subscribe(fn func(hex string)) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.subs = append(v.subs, fn)
}

// set stores an already-normalized color and notifies subscribers.
func (v *Value) set(hex string) {
	v.mu.Lock()
	v.hex = hex
	subs := make([]func(string), len(v.subs))
	copy(subs, v.subs)
	v.mu.Unlock()

	for _, fn := range subs {
		fn(hex)
	}
}

// Field is one view over a Value. Both the hex text field and the color
// picker use the same validation: a write propagates only when it is a
// strict #RRGGBB color, case-insensitive; anything else leaves the
// underlying value untouched.
type Field struct {
	value *Value
}

// Set validates and normalizes s. It reports whether the write was
// accepted and propagated to the paired view.
func (f *Field) Set(s string) bool {
	if _, err := codegen.ParseHexColor(s); err != nil {
		return false
	}
	f.value.set(strings.ToLower(s))
	return true
}

// Get returns the current value as seen by this view.
func (f *Field) Get() string {
	return f.value.Get()
}

// Subscribe registers fn on the underlying value; it runs on every
// accepted write through either view.
func (f *Field) Subscribe(fn func(hex string)) {
	f.value.Subscribe(fn)
}

// NewColorPair returns the two synchronized views (hex field, picker)
// over a single color value.
func NewColorPair(initial string) (hex, picker *Field) {
	v := NewValue(initial)
	return &Field{value: v}, &Field{value: v}
}
