package passes

import (
	"github.com/charmbracelet/log"

	"github.com/matzehuels/scenebridge/pkg/host"
	"github.com/matzehuels/scenebridge/pkg/scene"
)

const (
	renderLayerType    = "renderLayer"
	defaultRenderLayer = "defaultRenderLayer"
)

// fallback serves renderers without a per-pass model. Its passes are the
// beauty image plus one per renderable non-default render layer.
type fallback struct {
	h      host.Host
	id     scene.RendererID
	logger *log.Logger
}

func (f *fallback) ID() scene.RendererID { return f.id }

func (f *fallback) Available() bool { return true }

func (f *fallback) Enumerate() []scene.PassDescriptor {
	passes := []scene.PassDescriptor{beautyPass()}
	for _, layer := range f.h.ListByType(renderLayerType) {
		if layer == defaultRenderLayer {
			continue
		}
		if !host.Get[bool](f.h, layer, "renderable").OrLog(f.logger, false) {
			continue
		}
		passes = append(passes, scene.PassDescriptor{
			Name:       layer,
			Node:       layer,
			DataType:   scene.DataRGBA,
			Enabled:    true,
			Provenance: scene.InScene,
		})
	}
	return EnsureBeauty(passes)
}

// Isolate makes only the render layer named pass renderable. Layers are
// never created; when none matches the scene is left untouched.
func (f *fallback) Isolate(pass string) (Isolation, error) {
	layers := f.h.ListByType(renderLayerType)
	found := false
	for _, layer := range layers {
		if layer == pass {
			found = true
			break
		}
	}
	if !found {
		f.logger.Warn("no render layer matches pass, rendering all layers", "renderer", f.id, "pass", pass)
		return Isolation{}, nil
	}

	var iso Isolation
	for _, layer := range layers {
		match := layer == pass
		if err := f.h.SetAttr(layer, "renderable", match); err != nil {
			f.logger.Warn("toggle render layer failed", "layer", layer, "error", err)
			continue
		}
		if match {
			iso.Enabled = append(iso.Enabled, layer)
		}
	}
	return iso, nil
}

func (f *fallback) DefaultSettings(Mode) []Setting {
	return nil
}
