// Package host defines the scene-query capability the extractor consumes.
//
// The authoring application is reached only through the small interfaces in
// this package. Every component receives a [Host] explicitly; nothing reaches
// for a process-wide scene. Tests use the in-memory implementation in
// pkg/host/memory.
//
// Node names are opaque strings. A name may be a short name or a full
// pipe-separated path ("|group1|pCube1"); implementations resolve both.
package host

// AttributeStore reads and writes node attributes.
//
// GetAttr returns an ATTRIBUTE_MISSING error when the node or the attribute
// does not exist. Values are bool, int, float64, string, or a []float64 for
// compound numeric attributes.
type AttributeStore interface {
	GetAttr(node, attr string) (any, error)
	SetAttr(node, attr string, value any) error
}

// TimeCursor is the host's global current time.
type TimeCursor interface {
	CurrentTime() float64
	SetCurrentTime(t float64) error
	PlaybackRange() (start, end float64)
}

// Graph answers structural questions about the scene graph.
type Graph interface {
	Exists(node string) bool
	NodeType(node string) string
	ListByType(nodeType string) []string
	Selection() []string
	Parent(node string) (string, bool)
	Shapes(node string) []string
	FullPath(node string) string

	// Connections returns the nodes of nodeType connected to plug ("node.attr")
	// in either direction. An empty nodeType matches every type.
	Connections(plug, nodeType string) []string

	// Members returns the members of a set node (for example a shading group).
	Members(set string) []string

	// CreateNode creates a node and returns its name, which may differ from
	// the requested name when that name is taken.
	CreateNode(nodeType, name string) (string, error)

	// MarkDirty forces re-evaluation of the node's cached world transform.
	MarkDirty(node string) error
}

// Transform is a world-space evaluation of a node.
type Transform struct {
	Matrix      [16]float64
	Translation [3]float64
	Rotation    [3]float64 // degrees
}

// MeshStats summarizes a mesh shape.
type MeshStats struct {
	Vertices  int
	Faces     int
	Triangles int
	UVSets    []string
}

// Evaluator computes derived values from the scene graph.
type Evaluator interface {
	WorldTransform(node string) (Transform, error)
	MeshStats(shape string) (MeshStats, error)
}

// Unit kinds accepted by Environment.Unit.
const (
	UnitLinear  = "linear"
	UnitAngular = "angle"
	UnitTime    = "time"
)

// Environment describes the host session.
type Environment interface {
	SceneName() string
	UpAxis() string
	Unit(kind string) string
	WorkspaceRoot() string
	FileRule(name string) string
	PluginLoaded(name string) bool
}

// Host is the full capability set.
type Host interface {
	AttributeStore
	TimeCursor
	Graph
	Evaluator
	Environment
}
