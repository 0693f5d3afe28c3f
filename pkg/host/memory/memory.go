// Package memory provides an in-memory [host.Host].
//
// It stands in for the authoring application in tests and in the CLI, where
// scenes are described by YAML or JSON fixtures (see [Load]). The behavior
// mirrors the parts of a live host the extractor depends on:
//
//   - keyed attributes are evaluated at the current time with linear
//     interpolation, clamped outside the key range
//   - world transforms are cached per node and stay stale across time changes
//     until [Host.MarkDirty] is called
//   - [Host.CreateNode] renames on collision
package memory

import (
	"fmt"
	"sort"
	"strings"

	"github.com/matzehuels/scenebridge/pkg/errors"
	"github.com/matzehuels/scenebridge/pkg/host"
)

// Key is one keyframe of an animated attribute.
type Key struct {
	Frame float64 `yaml:"frame" json:"frame"`
	Value float64 `yaml:"value" json:"value"`
}

type node struct {
	name   string
	typ    string
	parent string
	attrs  map[string]any
	keys   map[string][]Key
	mesh   *host.MeshStats
}

type connection struct {
	src, dst string
}

// Host is an in-memory scene. The zero value is not usable; call [New].
type Host struct {
	nodes map[string]*node
	order []string

	time       float64
	start, end float64

	selection   []string
	connections []connection
	members     map[string][]string
	plugins     map[string]bool

	sceneName string
	upAxis    string
	units     map[string]string
	workspace string
	rules     map[string]string

	cache map[string]host.Transform

	// OnTimeChange, when set, runs after every successful SetCurrentTime.
	// Tests use it to mutate the scene mid-sample.
	OnTimeChange func(h *Host, t float64)
}

var _ host.Host = (*Host)(nil)

// New returns an empty scene holding the global render nodes every session has.
func New() *Host {
	h := &Host{
		nodes:   make(map[string]*node),
		members: make(map[string][]string),
		plugins: make(map[string]bool),
		units: map[string]string{
			host.UnitLinear:  "cm",
			host.UnitAngular: "deg",
			host.UnitTime:    "film",
		},
		rules:  map[string]string{"images": "images"},
		upAxis: "y",
		time:   1,
		start:  1,
		end:    24,
		cache:  make(map[string]host.Transform),
	}
	h.AddNode("defaultRenderGlobals", "renderGlobals", "", map[string]any{
		"currentRenderer":   "mayaSoftware",
		"imageFormat":       32,
		"animation":         false,
		"extensionPadding":  1,
		"putFrameBeforeExt": true,
		"startFrame":        1.0,
		"endFrame":          10.0,
		"byFrameStep":       1.0,
		"imageFilePrefix":   "",
	})
	h.AddNode("defaultResolution", "resolution", "", map[string]any{
		"width":             1920,
		"height":            1080,
		"deviceAspectRatio": 1.7777777777777777,
	})
	h.AddNode("defaultRenderLayer", "renderLayer", "", map[string]any{
		"renderable": true,
	})
	return h
}

func shortName(name string) string {
	if i := strings.LastIndex(name, "|"); i >= 0 {
		return name[i+1:]
	}
	return name
}

func (h *Host) lookup(name string) (*node, bool) {
	n, ok := h.nodes[shortName(name)]
	return n, ok
}

// AddNode adds a node or, if the name exists, merges attrs into it.
func (h *Host) AddNode(name, nodeType, parent string, attrs map[string]any) {
	if n, ok := h.nodes[name]; ok {
		for k, v := range attrs {
			n.attrs[k] = normalize(v)
		}
		if nodeType != "" {
			n.typ = nodeType
		}
		if parent != "" {
			n.parent = parent
		}
		return
	}
	n := &node{
		name:   name,
		typ:    nodeType,
		parent: parent,
		attrs:  make(map[string]any, len(attrs)),
		keys:   make(map[string][]Key),
	}
	for k, v := range attrs {
		n.attrs[k] = normalize(v)
	}
	h.nodes[name] = n
	h.order = append(h.order, name)
}

// SetKeys replaces the keyframes of node.attr.
func (h *Host) SetKeys(name, attr string, keys []Key) {
	n, ok := h.lookup(name)
	if !ok {
		return
	}
	sorted := append([]Key(nil), keys...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Frame < sorted[j].Frame })
	n.keys[attr] = sorted
}

// SetMeshStats attaches topology statistics to a mesh shape.
func (h *Host) SetMeshStats(name string, stats host.MeshStats) {
	if n, ok := h.lookup(name); ok {
		s := stats
		n.mesh = &s
	}
}

// Connect connects src to dst. Both are "node.attr" plugs.
func (h *Host) Connect(src, dst string) {
	h.connections = append(h.connections, connection{src, dst})
}

// AddMembers adds members to a set node.
func (h *Host) AddMembers(set string, members ...string) {
	h.members[set] = append(h.members[set], members...)
}

// Select replaces the active selection.
func (h *Host) Select(nodes ...string) {
	h.selection = append([]string(nil), nodes...)
}

// LoadPlugin marks a plugin as loaded.
func (h *Host) LoadPlugin(name string) {
	h.plugins[name] = true
}

// SetPlaybackRange sets the playback range.
func (h *Host) SetPlaybackRange(start, end float64) {
	h.start, h.end = start, end
}

// SetSceneName sets the scene file path.
func (h *Host) SetSceneName(name string) {
	h.sceneName = name
}

// SetUpAxis sets the up axis.
func (h *Host) SetUpAxis(axis string) {
	h.upAxis = axis
}

// SetUnit sets the unit of the given kind.
func (h *Host) SetUnit(kind, unit string) {
	h.units[kind] = unit
}

// SetWorkspace sets the workspace root and file rules.
func (h *Host) SetWorkspace(root string, rules map[string]string) {
	h.workspace = root
	for k, v := range rules {
		h.rules[k] = v
	}
}

// DeleteNode removes a node, its descendants and their connections.
func (h *Host) DeleteNode(name string) {
	doomed := map[string]bool{shortName(name): true}
	for changed := true; changed; {
		changed = false
		for _, n := range h.nodes {
			if doomed[n.parent] && !doomed[n.name] {
				doomed[n.name] = true
				changed = true
			}
		}
	}

	order := h.order[:0]
	for _, name := range h.order {
		if doomed[name] {
			delete(h.nodes, name)
			delete(h.cache, name)
			continue
		}
		order = append(order, name)
	}
	h.order = order

	conns := h.connections[:0]
	for _, c := range h.connections {
		if doomed[plugNode(c.src)] || doomed[plugNode(c.dst)] {
			continue
		}
		conns = append(conns, c)
	}
	h.connections = conns

	for set, ms := range h.members {
		kept := ms[:0]
		for _, m := range ms {
			if !doomed[shortName(m)] {
				kept = append(kept, m)
			}
		}
		h.members[set] = kept
	}
}

// GetAttr implements [host.AttributeStore].
func (h *Host) GetAttr(name, attr string) (any, error) {
	n, ok := h.lookup(name)
	if !ok {
		return nil, errors.New(errors.ErrCodeAttributeMissing, "no node %q", name)
	}
	if keys := n.keys[attr]; len(keys) > 0 {
		return interpolate(keys, h.time), nil
	}
	v, ok := n.attrs[attr]
	if !ok {
		return nil, errors.New(errors.ErrCodeAttributeMissing, "%s has no attribute %q", name, attr)
	}
	return v, nil
}

// SetAttr implements [host.AttributeStore]. Writing a keyed attribute drops its keys.
func (h *Host) SetAttr(name, attr string, value any) error {
	n, ok := h.lookup(name)
	if !ok {
		return errors.New(errors.ErrCodeNodeUnavailable, "no node %q", name)
	}
	delete(n.keys, attr)
	n.attrs[attr] = normalize(value)
	h.invalidate(n.name)
	return nil
}

// CurrentTime implements [host.TimeCursor].
func (h *Host) CurrentTime() float64 {
	return h.time
}

// SetCurrentTime implements [host.TimeCursor]. Cached transforms are not invalidated.
func (h *Host) SetCurrentTime(t float64) error {
	h.time = t
	if h.OnTimeChange != nil {
		h.OnTimeChange(h, t)
	}
	return nil
}

// PlaybackRange implements [host.TimeCursor].
func (h *Host) PlaybackRange() (float64, float64) {
	return h.start, h.end
}

// Exists implements [host.Graph].
func (h *Host) Exists(name string) bool {
	_, ok := h.lookup(name)
	return ok
}

// NodeType implements [host.Graph].
func (h *Host) NodeType(name string) string {
	if n, ok := h.lookup(name); ok {
		return n.typ
	}
	return ""
}

// ListByType implements [host.Graph]. Nodes are returned in creation order.
func (h *Host) ListByType(nodeType string) []string {
	var out []string
	for _, name := range h.order {
		if h.nodes[name].typ == nodeType {
			out = append(out, name)
		}
	}
	return out
}

// Selection implements [host.Graph].
func (h *Host) Selection() []string {
	var out []string
	for _, s := range h.selection {
		if h.Exists(s) {
			out = append(out, shortName(s))
		}
	}
	return out
}

// Parent implements [host.Graph].
func (h *Host) Parent(name string) (string, bool) {
	n, ok := h.lookup(name)
	if !ok || n.parent == "" {
		return "", false
	}
	return n.parent, true
}

// Shapes implements [host.Graph]: the non-transform children of a node.
func (h *Host) Shapes(name string) []string {
	short := shortName(name)
	var out []string
	for _, child := range h.order {
		n := h.nodes[child]
		if n.parent == short && n.typ != "transform" {
			out = append(out, child)
		}
	}
	return out
}

// FullPath implements [host.Graph].
func (h *Host) FullPath(name string) string {
	n, ok := h.lookup(name)
	if !ok {
		return ""
	}
	parts := []string{n.name}
	for p := n.parent; p != ""; {
		pn, ok := h.nodes[p]
		if !ok {
			break
		}
		parts = append(parts, pn.name)
		p = pn.parent
	}
	for i, j := 0, len(parts)-1; i < j; i, j = i+1, j-1 {
		parts[i], parts[j] = parts[j], parts[i]
	}
	return "|" + strings.Join(parts, "|")
}

func plugNode(plug string) string {
	if i := strings.Index(plug, "."); i >= 0 {
		return shortName(plug[:i])
	}
	return shortName(plug)
}

func plugAttr(plug string) string {
	if i := strings.Index(plug, "."); i >= 0 {
		return plug[i+1:]
	}
	return ""
}

// plugMatches reports whether plug is query, or belongs to query when query is a bare node.
func plugMatches(query, plug string) bool {
	if plugNode(query) != plugNode(plug) {
		return false
	}
	attr := plugAttr(query)
	return attr == "" || attr == plugAttr(plug)
}

// Connections implements [host.Graph].
func (h *Host) Connections(plug, nodeType string) []string {
	var out []string
	seen := make(map[string]bool)
	add := func(other string) {
		name := plugNode(other)
		if seen[name] {
			return
		}
		if nodeType != "" && h.NodeType(name) != nodeType {
			return
		}
		seen[name] = true
		out = append(out, name)
	}
	for _, c := range h.connections {
		if plugMatches(plug, c.src) {
			add(c.dst)
		}
		if plugMatches(plug, c.dst) {
			add(c.src)
		}
	}
	return out
}

// Members implements [host.Graph].
func (h *Host) Members(set string) []string {
	return append([]string(nil), h.members[shortName(set)]...)
}

// CreateNode implements [host.Graph].
func (h *Host) CreateNode(nodeType, name string) (string, error) {
	if name == "" {
		name = nodeType
	}
	final := name
	for i := 1; h.Exists(final); i++ {
		final = fmt.Sprintf("%s%d", name, i)
	}
	h.AddNode(final, nodeType, "", nil)
	return final, nil
}

// MarkDirty implements [host.Graph].
func (h *Host) MarkDirty(name string) error {
	n, ok := h.lookup(name)
	if !ok {
		return errors.New(errors.ErrCodeNodeUnavailable, "no node %q", name)
	}
	h.invalidate(n.name)
	return nil
}

func (h *Host) invalidate(name string) {
	delete(h.cache, name)
	for _, n := range h.nodes {
		if n.parent == name {
			h.invalidate(n.name)
		}
	}
}

// WorldTransform implements [host.Evaluator].
func (h *Host) WorldTransform(name string) (host.Transform, error) {
	n, ok := h.lookup(name)
	if !ok {
		return host.Transform{}, errors.New(errors.ErrCodeNodeUnavailable, "no node %q", name)
	}
	if t, ok := h.cache[n.name]; ok {
		return t, nil
	}
	world := h.worldMatrix(n)
	t := decompose(world)
	h.cache[n.name] = t
	return t, nil
}

// MeshStats implements [host.Evaluator].
func (h *Host) MeshStats(shape string) (host.MeshStats, error) {
	n, ok := h.lookup(shape)
	if !ok {
		return host.MeshStats{}, errors.New(errors.ErrCodeNodeUnavailable, "no node %q", shape)
	}
	if n.mesh == nil {
		return host.MeshStats{}, errors.New(errors.ErrCodeAttributeMissing, "%s has no mesh data", shape)
	}
	stats := *n.mesh
	stats.UVSets = append([]string(nil), stats.UVSets...)
	return stats, nil
}

// SceneName implements [host.Environment].
func (h *Host) SceneName() string { return h.sceneName }

// UpAxis implements [host.Environment].
func (h *Host) UpAxis() string { return h.upAxis }

// Unit implements [host.Environment].
func (h *Host) Unit(kind string) string { return h.units[kind] }

// WorkspaceRoot implements [host.Environment].
func (h *Host) WorkspaceRoot() string { return h.workspace }

// FileRule implements [host.Environment].
func (h *Host) FileRule(name string) string { return h.rules[name] }

// PluginLoaded implements [host.Environment].
func (h *Host) PluginLoaded(name string) bool { return h.plugins[name] }

func interpolate(keys []Key, t float64) float64 {
	if t <= keys[0].Frame {
		return keys[0].Value
	}
	last := keys[len(keys)-1]
	if t >= last.Frame {
		return last.Value
	}
	for i := 1; i < len(keys); i++ {
		a, b := keys[i-1], keys[i]
		if t <= b.Frame {
			if b.Frame == a.Frame {
				return b.Value
			}
			f := (t - a.Frame) / (b.Frame - a.Frame)
			return a.Value + f*(b.Value-a.Value)
		}
	}
	return last.Value
}

// normalize maps decoded fixture values onto the types host.Get understands.
func normalize(v any) any {
	switch x := v.(type) {
	case []any:
		out := make([]float64, 0, len(x))
		for _, e := range x {
			switch n := e.(type) {
			case int:
				out = append(out, float64(n))
			case float64:
				out = append(out, n)
			default:
				return v
			}
		}
		return out
	case [3]float64:
		return x[:]
	case int64:
		return int(x)
	case float32:
		return float64(x)
	}
	return v
}
