// Package materials reads shader assignments and flat shader properties.
//
// Material data is read-only and best effort: missing attributes are left out
// of the property set, and objects without a connected shader resolve to no
// material.
package materials

import (
	"io"
	"sort"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/scenebridge/pkg/host"
	"github.com/matzehuels/scenebridge/pkg/scene"
)

// DefaultMaterial is reported for objects with no connected shader.
const DefaultMaterial = "lambert1"

const shadingEngineType = "shadingEngine"

// reserved shading groups every scene has; they are never reported.
var reserved = map[string]bool{
	"initialShadingGroup": true,
	"initialParticleSE":   true,
}

// textureAttrs are the shader inputs checked for file textures.
var textureAttrs = []string{"color", "diffuse", "normalCamera", "specularColor"}

// Collaborator resolves materials for scene objects.
type Collaborator interface {
	// MaterialFor returns the shader assigned to node, a transform or shape.
	MaterialFor(node string) (string, bool)
	// PropertiesOf returns the flat property set of a shader.
	PropertiesOf(shader string) scene.MaterialProperties
}

// Catalog is the host-backed Collaborator. It also lists every material.
type Catalog struct {
	Host   host.Host
	Logger *log.Logger
}

var _ Collaborator = (*Catalog)(nil)

// New returns a Catalog for h. A nil logger discards output.
func New(h host.Host, logger *log.Logger) *Catalog {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Catalog{Host: h, Logger: logger}
}

// MaterialFor implements Collaborator.
func (c *Catalog) MaterialFor(node string) (string, bool) {
	shape := node
	if c.Host.NodeType(node) == "transform" {
		shapes := c.Host.Shapes(node)
		if len(shapes) == 0 {
			return "", false
		}
		shape = shapes[0]
	}
	for _, sg := range c.Host.Connections(shape, shadingEngineType) {
		if shader, ok := c.surfaceShader(sg); ok {
			return shader, true
		}
	}
	return "", false
}

// MaterialOr returns the material for node, or DefaultMaterial.
func MaterialOr(c Collaborator, node string) string {
	if c == nil {
		return DefaultMaterial
	}
	if m, ok := c.MaterialFor(node); ok {
		return m
	}
	return DefaultMaterial
}

func (c *Catalog) surfaceShader(sg string) (string, bool) {
	shaders := c.Host.Connections(sg+".surfaceShader", "")
	if len(shaders) == 0 {
		return "", false
	}
	return shaders[0], true
}

func (c *Catalog) vector(shader, attr string) []float64 {
	v, err := host.Get[[]float64](c.Host, shader, attr).Get()
	if err != nil || len(v) == 0 {
		return nil
	}
	return append([]float64(nil), v...)
}

func (c *Catalog) scalar(shader, attr string) *float64 {
	v, err := host.Get[float64](c.Host, shader, attr).Get()
	if err != nil {
		return nil
	}
	return &v
}

// PropertiesOf implements Collaborator.
func (c *Catalog) PropertiesOf(shader string) scene.MaterialProperties {
	props := scene.MaterialProperties{
		Color:     c.vector(shader, "color"),
		Diffuse:   c.scalar(shader, "diffuse"),
		Specular:  c.vector(shader, "specularColor"),
		Roughness: c.scalar(shader, "roughness"),
		Metalness: c.scalar(shader, "metalness"),
		Opacity:   c.vector(shader, "opacity"),
		Emission:  c.vector(shader, "emissionColor"),
		Textures:  make(map[string]string),
	}
	for _, attr := range textureAttrs {
		files := c.Host.Connections(shader+"."+attr, "file")
		if len(files) == 0 {
			continue
		}
		path := host.Get[string](c.Host, files[0], "fileTextureName").OrLog(c.Logger, "")
		if path != "" {
			props.Textures[attr] = path
		}
	}
	return props
}

// All returns one record per non-reserved shading group with a shader, in
// scene order.
func (c *Catalog) All() []scene.MaterialRecord {
	var out []scene.MaterialRecord
	for _, sg := range c.Host.ListByType(shadingEngineType) {
		if reserved[sg] {
			continue
		}
		shader, ok := c.surfaceShader(sg)
		if !ok {
			c.Logger.Debug("shading group without surface shader", "sg", sg)
			continue
		}
		out = append(out, scene.MaterialRecord{
			Name:            shader,
			ShadingEngine:   sg,
			Type:            c.Host.NodeType(shader),
			AssignedObjects: c.assigned(sg),
			Properties:      c.PropertiesOf(shader),
		})
	}
	return out
}

// assigned returns the members of sg, with mesh shapes replaced by their
// transform, sorted and deduplicated.
func (c *Catalog) assigned(sg string) []string {
	seen := make(map[string]bool)
	out := []string{}
	for _, m := range c.Host.Members(sg) {
		name := m
		if c.Host.NodeType(m) == "mesh" {
			if parent, ok := c.Host.Parent(m); ok {
				name = parent
			}
		}
		if !seen[name] {
			seen[name] = true
			out = append(out, name)
		}
	}
	sort.Strings(out)
	return out
}
