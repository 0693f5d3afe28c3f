package passes

import (
	"strings"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/scenebridge/pkg/errors"
	"github.com/matzehuels/scenebridge/pkg/host"
	"github.com/matzehuels/scenebridge/pkg/scene"
)

const (
	arnoldPlugin     = "mtoa"
	arnoldAOVType    = "aiAOV"
	arnoldOptions    = "defaultArnoldRenderOptions"
	arnoldPrefix     = "aiAOV_"
	arnoldFilter     = "gaussian"
	arnoldFilterAttr = "filterType"
)

type arnold struct {
	h      host.Host
	logger *log.Logger
}

func (a *arnold) ID() scene.RendererID { return scene.Arnold }

func (a *arnold) Available() bool { return a.h.PluginLoaded(arnoldPlugin) }

func (a *arnold) Enumerate() []scene.PassDescriptor {
	if !a.Available() {
		a.logger.Warn("renderer plugin not loaded", "plugin", arnoldPlugin, "code", errors.ErrCodeBackendUnavailable)
		return []scene.PassDescriptor{}
	}

	var passes []scene.PassDescriptor
	seen := make(map[string]bool)
	for _, node := range a.h.ListByType(arnoldAOVType) {
		name := host.Get[string](a.h, node, "name").OrLog(a.logger, node)
		passes = append(passes, scene.PassDescriptor{
			Name:       name,
			Node:       node,
			DataType:   dataTypeFromEnum(host.Get[int](a.h, node, "type").OrLog(a.logger, 0)),
			Enabled:    host.Get[bool](a.h, node, "enabled").OrLog(a.logger, true),
			Provenance: scene.InScene,
			Filter:     host.Get[string](a.h, node, arnoldFilterAttr).OrLog(a.logger, arnoldFilter),
		})
		seen[strings.ToLower(name)] = true
	}

	for _, e := range StandardCatalog {
		if seen[strings.ToLower(e.Name)] {
			continue
		}
		passes = append(passes, scene.PassDescriptor{
			Name:       e.Name,
			DataType:   e.DataType,
			Provenance: scene.Available,
			Filter:     arnoldFilter,
		})
	}

	return EnsureBeauty(passes)
}

func (a *arnold) Isolate(pass string) (Isolation, error) {
	if !a.Available() {
		return Isolation{}, errors.New(errors.ErrCodeBackendUnavailable, "arnold plugin %q not loaded", arnoldPlugin)
	}
	iso := isolateNodes(a.h, a.logger, arnoldAOVType, pass)
	if len(iso.Enabled) > 0 {
		return iso, nil
	}

	node, err := synthesize(a.h, arnoldAOVType, arnoldPrefix+pass, map[string]any{
		"name":           pass,
		"enabled":        true,
		"type":           enumFromDataType(CatalogType(pass)),
		arnoldFilterAttr: arnoldFilter,
	})
	if err != nil {
		return Isolation{}, err
	}
	a.logger.Info("created pass", "renderer", scene.Arnold, "pass", pass, "node", node)
	return Isolation{Enabled: []string{node}, Synthesized: node}, nil
}

func (a *arnold) DefaultSettings(mode Mode) []Setting {
	gi := 1
	if mode == Preview {
		gi = 0
	}
	return []Setting{
		{arnoldOptions, "AASamples", 1},
		{arnoldOptions, "GIDiffuseSamples", gi},
		{arnoldOptions, "GISpecularSamples", gi},
		{arnoldOptions, "GITransmissionSamples", gi},
	}
}

// isolateNodes enables the nodes of nodeType whose logical name or node name
// equals pass and disables the rest.
func isolateNodes(h host.Host, logger *log.Logger, nodeType, pass string) Isolation {
	var iso Isolation
	for _, node := range h.ListByType(nodeType) {
		name := host.Get[string](h, node, "name").OrLog(logger, node)
		match := name == pass || node == pass
		if err := h.SetAttr(node, "enabled", match); err != nil {
			logger.Warn("toggle pass failed", "node", node, "error", err)
			continue
		}
		if match {
			iso.Enabled = append(iso.Enabled, node)
		}
	}
	return iso
}

// synthesize creates a pass node and writes attrs onto it.
func synthesize(h host.Host, nodeType, name string, attrs map[string]any) (string, error) {
	node, err := h.CreateNode(nodeType, name)
	if err != nil {
		return "", errors.Wrap(errors.ErrCodeInternal, err, "create %s %s", nodeType, name)
	}
	for _, attr := range []string{"name", "type", "aovType", arnoldFilterAttr, "enabled"} {
		v, ok := attrs[attr]
		if !ok {
			continue
		}
		if err := h.SetAttr(node, attr, v); err != nil {
			return "", errors.Wrap(errors.ErrCodeInternal, err, "set %s.%s", node, attr)
		}
	}
	return node, nil
}
