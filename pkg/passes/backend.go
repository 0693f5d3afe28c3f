// Package passes detects the active renderer and enumerates its output passes.
//
// Every renderer is handled by one [Backend] from a closed set: Arnold,
// Redshift, and a fallback for everything else. [For] selects the backend
// once from the detected [scene.RendererID]; callers never branch on
// renderer names themselves.
//
// Enumeration is best effort. Per-node attribute reads that fail fall back to
// documented defaults and are logged at debug level; they never abort the
// enumeration. A backend whose plugin is not loaded enumerates nothing.
//
// Every non-empty enumeration holds exactly one beauty pass, first.
package passes

import (
	"io"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/scenebridge/pkg/host"
	"github.com/matzehuels/scenebridge/pkg/scene"
)

// Mode is a render settings profile.
type Mode string

// Render modes.
const (
	// Preview is a fast low-fidelity render of the beauty pass.
	Preview Mode = "preview"
	// Full renders one isolated pass with animation and frame padding on.
	Full Mode = "full"
)

// Setting is one attribute write applied before a render.
type Setting struct {
	Node  string
	Attr  string
	Value any
}

// Isolation describes the outcome of Backend.Isolate.
type Isolation struct {
	// Enabled lists the nodes left enabled.
	Enabled []string
	// Synthesized is the node created when nothing matched, if any.
	Synthesized string
}

// Backend is the per-renderer pass capability.
type Backend interface {
	// ID returns the renderer identity this backend serves.
	ID() scene.RendererID

	// Available reports whether the renderer plugin is loaded.
	Available() bool

	// Enumerate lists the renderer's passes, beauty first.
	// An unavailable backend returns an empty slice.
	Enumerate() []scene.PassDescriptor

	// Isolate leaves only the passes named pass enabled, creating one when
	// none exists and the renderer supports it.
	Isolate(pass string) (Isolation, error)

	// DefaultSettings returns renderer-specific overrides for mode.
	DefaultSettings(mode Mode) []Setting
}

// For returns the backend serving id. Renderers without a dedicated backend
// get the render-layer fallback.
func For(h host.Host, id scene.RendererID, logger *log.Logger) Backend {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	switch id {
	case scene.Arnold:
		return &arnold{h: h, logger: logger}
	case scene.Redshift:
		return &redshift{h: h, logger: logger}
	default:
		return &fallback{h: h, id: id, logger: logger}
	}
}
