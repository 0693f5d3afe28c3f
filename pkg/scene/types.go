package scene

// Snapshot is a normalized description of a scene at extraction time.
// A Snapshot is created fresh by every extraction and is not modified afterwards.
type Snapshot struct {
	SchemaVersion string            `json:"schema_version"`
	SceneInfo     SceneInfo         `json:"scene_info"`
	Cameras       []CameraRecord    `json:"cameras"`
	Meshes        []MeshRecord      `json:"meshes"`
	Lights        []LightRecord     `json:"lights"`
	Locators      []LocatorRecord   `json:"locators"`
	RenderPasses  *RenderPassReport `json:"render_passes,omitempty"`
	Materials     []MaterialRecord  `json:"materials,omitempty"`
}

// SceneInfo holds global scene metadata.
type SceneInfo struct {
	CurrentFrame float64 `json:"current_frame"`
	FrameRange   [2]int  `json:"frame_range"`
	FPS          float64 `json:"fps"`
	TimeUnit     string  `json:"time_unit,omitempty"`
	SceneFile    string  `json:"scene_file"`
	UpAxis       string  `json:"up_axis,omitempty"`
	LinearUnit   string  `json:"linear_unit,omitempty"`
	AngularUnit  string  `json:"angular_unit,omitempty"`
}

// FramePose is the world-space pose of a node at one integer frame.
// Rotation is in degrees.
type FramePose struct {
	Frame       int        `json:"frame"`
	Translation [3]float64 `json:"translation"`
	Rotation    [3]float64 `json:"rotation"`
}

// Matrix is a world matrix flattened row by row, translation in elements 12..14.
type Matrix [16]float64

// Translation returns the translation part of m.
func (m Matrix) Translation() [3]float64 {
	return [3]float64{m[12], m[13], m[14]}
}

// Entity type tags.
const (
	TypeCamera  = "camera"
	TypeMesh    = "mesh"
	TypeLocator = "locator"
)

// Light type tags, in extraction order.
var LightTypes = []string{
	"pointLight",
	"directionalLight",
	"spotLight",
	"areaLight",
	"ambientLight",
}

// CameraRecord describes one camera.
type CameraRecord struct {
	Name                   string      `json:"name"`
	FullPath               string      `json:"full_path,omitempty"`
	ShapeName              string      `json:"shape_name"`
	Type                   string      `json:"type"`
	Transform              Matrix      `json:"transform"`
	FocalLength            float64     `json:"focal_length"`
	HorizontalFilmAperture float64     `json:"horizontal_film_aperture"`
	VerticalFilmAperture   float64     `json:"vertical_film_aperture"`
	NearClip               float64     `json:"near_clip"`
	FarClip                float64     `json:"far_clip"`
	Renderable             bool        `json:"renderable"`
	Orthographic           bool        `json:"orthographic"`
	Visible                bool        `json:"visible"`
	Material               string      `json:"material,omitempty"`
	Animation              []FramePose `json:"animation,omitempty"`
}

// MeshGeometry summarizes mesh topology.
type MeshGeometry struct {
	VertexCount   int      `json:"vertex_count"`
	FaceCount     int      `json:"face_count"`
	TriangleCount int      `json:"triangle_count"`
	UVSets        []string `json:"uv_sets"`
	HasUVs        bool     `json:"has_uvs"`
}

// MeshRecord describes one renderable mesh.
type MeshRecord struct {
	Name      string       `json:"name"`
	FullPath  string       `json:"full_path,omitempty"`
	ShapeName string       `json:"shape_name"`
	Type      string       `json:"type"`
	Transform Matrix       `json:"transform"`
	Geometry  MeshGeometry `json:"geometry"`
	Material  string       `json:"material"`
	Visible   bool         `json:"visible"`
	Animation []FramePose  `json:"animation,omitempty"`
}

// LightRecord describes one light.
type LightRecord struct {
	Name      string     `json:"name"`
	FullPath  string     `json:"full_path,omitempty"`
	ShapeName string     `json:"shape_name"`
	Type      string     `json:"type"`
	Transform Matrix     `json:"transform"`
	Color     [3]float64 `json:"color"`
	Intensity float64    `json:"intensity"`
	Enabled   bool       `json:"enabled"`
	Visible   bool       `json:"visible"`
}

// LocatorRecord describes one locator (null) node.
type LocatorRecord struct {
	Name      string      `json:"name"`
	FullPath  string      `json:"full_path,omitempty"`
	ShapeName string      `json:"shape_name"`
	Type      string      `json:"type"`
	Transform Matrix      `json:"transform"`
	Visible   bool        `json:"visible"`
	Animation []FramePose `json:"animation,omitempty"`
}

// MaterialProperties is the flat property set copied from a shader.
// Scalar properties are pointers so absent and zero stay distinguishable.
type MaterialProperties struct {
	Color     []float64         `json:"color,omitempty"`
	Diffuse   *float64          `json:"diffuse,omitempty"`
	Specular  []float64         `json:"specular,omitempty"`
	Roughness *float64          `json:"roughness,omitempty"`
	Metalness *float64          `json:"metalness,omitempty"`
	Opacity   []float64         `json:"opacity,omitempty"`
	Emission  []float64         `json:"emission,omitempty"`
	Textures  map[string]string `json:"textures"`
}

// MaterialRecord describes one shader and the objects it is assigned to.
type MaterialRecord struct {
	Name            string             `json:"name"`
	ShadingEngine   string             `json:"shading_engine"`
	Type            string             `json:"type"`
	AssignedObjects []string           `json:"assigned_objects"`
	Properties      MaterialProperties `json:"properties"`
}

// Counts returns the number of cameras, meshes, lights and locators.
func (s *Snapshot) Counts() (cameras, meshes, lights, locators int) {
	return len(s.Cameras), len(s.Meshes), len(s.Lights), len(s.Locators)
}

// Normalized returns a copy of s with empty optional lists set to nil, the
// form they take after a JSON round trip. s is not modified.
func (s Snapshot) Normalized() Snapshot {
	if len(s.Materials) == 0 {
		s.Materials = nil
	} else {
		s.Materials = append([]MaterialRecord(nil), s.Materials...)
		for i := range s.Materials {
			p := &s.Materials[i].Properties
			p.Color = nilIfEmpty(p.Color)
			p.Specular = nilIfEmpty(p.Specular)
			p.Opacity = nilIfEmpty(p.Opacity)
			p.Emission = nilIfEmpty(p.Emission)
		}
	}
	if s.Cameras != nil {
		s.Cameras = append([]CameraRecord{}, s.Cameras...)
		for i := range s.Cameras {
			s.Cameras[i].Animation = nilIfEmpty(s.Cameras[i].Animation)
		}
	}
	if s.Meshes != nil {
		s.Meshes = append([]MeshRecord{}, s.Meshes...)
		for i := range s.Meshes {
			s.Meshes[i].Animation = nilIfEmpty(s.Meshes[i].Animation)
		}
	}
	if s.Locators != nil {
		s.Locators = append([]LocatorRecord{}, s.Locators...)
		for i := range s.Locators {
			s.Locators[i].Animation = nilIfEmpty(s.Locators[i].Animation)
		}
	}
	return s
}

func nilIfEmpty[T any](s []T) []T {
	if len(s) == 0 {
		return nil
	}
	return s
}
