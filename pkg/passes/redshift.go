package passes

import (
	"github.com/charmbracelet/log"

	"github.com/matzehuels/scenebridge/pkg/errors"
	"github.com/matzehuels/scenebridge/pkg/host"
	"github.com/matzehuels/scenebridge/pkg/scene"
)

const (
	redshiftPlugin  = "redshift4maya"
	redshiftAOVType = "RedshiftAOV"
	redshiftOptions = "redshiftOptions"
	redshiftPrefix  = "rsAov_"
)

// redshiftTypes maps Redshift aovType tokens to data types. Unlisted tokens are RGB.
var redshiftTypes = map[string]scene.DataType{
	"Beauty":         scene.DataRGBA,
	"Depth":          scene.DataFloat,
	"Z":              scene.DataFloat,
	"Motion Vectors": scene.DataVector,
	"Normals":        scene.DataVector,
	"Bump Normals":   scene.DataVector,
	"World Position": scene.DataVector,
	"ObjectID":       scene.DataInt,
	"Cryptomatte":    scene.DataRGBA,
	"Shadows":        scene.DataRGBA,
}

func redshiftDataType(token string) scene.DataType {
	if token == "" {
		return scene.DataRGBA
	}
	if dt, ok := redshiftTypes[token]; ok {
		return dt
	}
	return scene.DataRGB
}

type redshift struct {
	h      host.Host
	logger *log.Logger
}

func (r *redshift) ID() scene.RendererID { return scene.Redshift }

func (r *redshift) Available() bool { return r.h.PluginLoaded(redshiftPlugin) }

func (r *redshift) Enumerate() []scene.PassDescriptor {
	if !r.Available() {
		r.logger.Warn("renderer plugin not loaded", "plugin", redshiftPlugin, "code", errors.ErrCodeBackendUnavailable)
		return []scene.PassDescriptor{}
	}

	var passes []scene.PassDescriptor
	for _, node := range r.h.ListByType(redshiftAOVType) {
		passes = append(passes, scene.PassDescriptor{
			Name:       host.Get[string](r.h, node, "name").OrLog(r.logger, node),
			Node:       node,
			DataType:   redshiftDataType(host.Get[string](r.h, node, "aovType").OrLog(r.logger, "")),
			Enabled:    host.Get[bool](r.h, node, "enabled").OrLog(r.logger, true),
			Provenance: scene.InScene,
		})
	}
	if len(passes) == 0 {
		// Redshift writes its beauty output even with no AOV nodes.
		return []scene.PassDescriptor{beautyPass()}
	}
	return EnsureBeauty(passes)
}

func (r *redshift) Isolate(pass string) (Isolation, error) {
	if !r.Available() {
		return Isolation{}, errors.New(errors.ErrCodeBackendUnavailable, "redshift plugin %q not loaded", redshiftPlugin)
	}
	iso := isolateNodes(r.h, r.logger, redshiftAOVType, pass)
	if len(iso.Enabled) > 0 {
		return iso, nil
	}

	node, err := synthesize(r.h, redshiftAOVType, redshiftPrefix+pass, map[string]any{
		"name":    pass,
		"enabled": true,
		"aovType": pass,
	})
	if err != nil {
		return Isolation{}, err
	}
	r.logger.Info("created pass", "renderer", scene.Redshift, "pass", pass, "node", node)
	return Isolation{Enabled: []string{node}, Synthesized: node}, nil
}

func (r *redshift) DefaultSettings(Mode) []Setting {
	return []Setting{
		{redshiftOptions, "unifiedMinSamples", 1},
		{redshiftOptions, "unifiedMaxSamples", 1},
	}
}
