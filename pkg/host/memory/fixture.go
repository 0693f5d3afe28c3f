package memory

import (
	"bytes"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/matzehuels/scenebridge/pkg/errors"
	"github.com/matzehuels/scenebridge/pkg/host"
)

// Fixture is the file form of a scene. JSON fixtures use the same keys.
//
//	scene: /projects/shot010/scenes/shot010.ma
//	time: {current: 1, start: 1, end: 24}
//	plugins: [mtoa]
//	nodes:
//	  - {name: cam1, type: transform, attrs: {translateZ: 10}}
//	  - {name: camShape1, type: camera, parent: cam1, attrs: {focalLength: 50}}
type Fixture struct {
	Scene       string              `yaml:"scene"`
	UpAxis      string              `yaml:"up_axis"`
	Units       map[string]string   `yaml:"units"`
	Time        FixtureTime         `yaml:"time"`
	Workspace   FixtureWorkspace    `yaml:"workspace"`
	Plugins     []string            `yaml:"plugins"`
	Selection   []string            `yaml:"selection"`
	Nodes       []FixtureNode       `yaml:"nodes"`
	Connections [][]string          `yaml:"connections"`
	Sets        map[string][]string `yaml:"sets"`
}

// FixtureTime holds the time cursor and playback range.
type FixtureTime struct {
	Current *float64 `yaml:"current"`
	Start   *float64 `yaml:"start"`
	End     *float64 `yaml:"end"`
}

// FixtureWorkspace holds the project root and its file rules.
type FixtureWorkspace struct {
	Root  string            `yaml:"root"`
	Rules map[string]string `yaml:"rules"`
}

// FixtureNode describes one node.
type FixtureNode struct {
	Name   string           `yaml:"name"`
	Type   string           `yaml:"type"`
	Parent string           `yaml:"parent"`
	Attrs  map[string]any   `yaml:"attrs"`
	Keys   map[string][]Key `yaml:"keys"`
	Mesh   *FixtureMesh     `yaml:"mesh"`
}

// FixtureMesh holds mesh topology statistics.
type FixtureMesh struct {
	Vertices  int      `yaml:"vertices"`
	Faces     int      `yaml:"faces"`
	Triangles int      `yaml:"triangles"`
	UVSets    []string `yaml:"uv_sets"`
}

// Decode reads a YAML or JSON fixture.
func Decode(r io.Reader) (*Fixture, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	var f Fixture
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&f); err != nil && err != io.EOF {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "decode scene fixture")
	}
	return &f, nil
}

// Build materializes the fixture into a new Host.
func (f *Fixture) Build() (*Host, error) {
	h := New()
	if f.Scene != "" {
		h.SetSceneName(f.Scene)
	}
	if f.UpAxis != "" {
		h.SetUpAxis(f.UpAxis)
	}
	for kind, unit := range f.Units {
		h.SetUnit(kind, unit)
	}
	start, end := h.PlaybackRange()
	if f.Time.Start != nil {
		start = *f.Time.Start
	}
	if f.Time.End != nil {
		end = *f.Time.End
	}
	h.SetPlaybackRange(start, end)
	if f.Time.Current != nil {
		h.time = *f.Time.Current
	} else {
		h.time = start
	}
	h.SetWorkspace(f.Workspace.Root, f.Workspace.Rules)
	for _, p := range f.Plugins {
		h.LoadPlugin(p)
	}

	for i, n := range f.Nodes {
		if n.Name == "" {
			return nil, errors.New(errors.ErrCodeInvalidInput, "node %d has no name", i)
		}
		h.AddNode(n.Name, n.Type, n.Parent, n.Attrs)
		for attr, keys := range n.Keys {
			h.SetKeys(n.Name, attr, keys)
		}
		if n.Mesh != nil {
			h.SetMeshStats(n.Name, host.MeshStats{
				Vertices:  n.Mesh.Vertices,
				Faces:     n.Mesh.Faces,
				Triangles: n.Mesh.Triangles,
				UVSets:    n.Mesh.UVSets,
			})
		}
	}
	parents := make(map[string]string, len(f.Nodes))
	for _, n := range f.Nodes {
		if n.Parent == "" {
			continue
		}
		if !h.Exists(n.Parent) {
			return nil, errors.New(errors.ErrCodeInvalidInput, "node %q: unknown parent %q", n.Name, n.Parent)
		}
		parents[n.Name] = n.Parent
	}
	if err := checkHierarchy(parents); err != nil {
		return nil, err
	}

	for i, c := range f.Connections {
		if len(c) != 2 {
			return nil, errors.New(errors.ErrCodeInvalidInput, "connection %d: want [src, dst], got %d plugs", i, len(c))
		}
		h.Connect(c[0], c[1])
	}
	for set, members := range f.Sets {
		h.AddMembers(set, members...)
	}
	h.Select(f.Selection...)
	return h, nil
}

// checkHierarchy rejects parent chains that revisit a node.
func checkHierarchy(parents map[string]string) error {
	done := make(map[string]bool, len(parents))
	for name := range parents {
		seen := make(map[string]bool)
		for n := name; n != "" && !done[n]; n = parents[n] {
			if seen[n] {
				return errors.New(errors.ErrCodeInvalidInput, "node %q: parent cycle through %q", name, n)
			}
			seen[n] = true
		}
		for n := range seen {
			done[n] = true
		}
	}
	return nil
}

// Load reads a fixture file and builds a Host from it.
func Load(path string) (*Host, error) {
	file, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "open scene %s", path)
		}
		return nil, fmt.Errorf("open scene: %w", err)
	}
	defer file.Close()

	f, err := Decode(file)
	if err != nil {
		return nil, err
	}
	return f.Build()
}
