package passes

import (
	"io"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/scenebridge/pkg/host"
	"github.com/matzehuels/scenebridge/pkg/scene"
)

// Resolver answers renderer questions about one host.
type Resolver struct {
	Host   host.Host
	Logger *log.Logger
}

// NewResolver returns a Resolver for h. A nil logger discards output.
func NewResolver(h host.Host, logger *log.Logger) *Resolver {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Resolver{Host: h, Logger: logger}
}

// Detect returns the active renderer.
func (r *Resolver) Detect() scene.RendererID {
	return Detect(r.Host)
}

// Backend returns the backend for the active renderer.
func (r *Resolver) Backend() Backend {
	return For(r.Host, r.Detect(), r.Logger)
}

// Enumerate lists the passes of renderer id.
func (r *Resolver) Enumerate(id scene.RendererID) []scene.PassDescriptor {
	return For(r.Host, id, r.Logger).Enumerate()
}

// Report builds the pass report for the active renderer. In-scene passes
// carry the resolved output directory as their output path.
func (r *Resolver) Report() *scene.RenderPassReport {
	id := r.Detect()
	settings := ReadSettings(r.Host, r.Logger)
	passes := r.Enumerate(id)
	for i := range passes {
		if passes[i].Provenance == scene.InScene {
			passes[i].OutputPath = settings.OutputDir
		}
	}
	r.Logger.Debug("render passes", "renderer", id, "passes", len(passes))
	return &scene.RenderPassReport{
		Renderer: id,
		Passes:   passes,
		Settings: settings,
	}
}
