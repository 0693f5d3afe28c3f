package scene

import "strings"

// RendererID identifies a rendering backend.
// Values outside the known constants carry the host's raw renderer token.
type RendererID string

// Known renderer identities.
const (
	Arnold       RendererID = "Arnold"
	Redshift     RendererID = "Redshift"
	VRay         RendererID = "V-Ray"
	MentalRay    RendererID = "Mental Ray"
	MayaSoftware RendererID = "Maya Software"
	MayaHardware RendererID = "Maya Hardware 2.0"
)

var knownRenderers = map[RendererID]bool{
	Arnold:       true,
	Redshift:     true,
	VRay:         true,
	MentalRay:    true,
	MayaSoftware: true,
	MayaHardware: true,
}

// Known reports whether id is one of the canonical renderer identities.
func (id RendererID) Known() bool {
	return knownRenderers[id]
}

// String returns the identity as written to exports.
func (id RendererID) String() string {
	return string(id)
}

// DataType is the channel layout of a render pass.
type DataType string

// Pass data types.
const (
	DataRGBA   DataType = "RGBA"
	DataRGB    DataType = "RGB"
	DataVector DataType = "VECTOR"
	DataFloat  DataType = "FLOAT"
	DataInt    DataType = "INT"
)

// Provenance records where a pass descriptor came from.
type Provenance string

// Pass provenances.
const (
	// InScene passes are backed by a node in the scene.
	InScene Provenance = "in_scene"
	// Available passes come from the renderer's standard catalog and are not yet materialized.
	Available Provenance = "available"
	// Default passes are synthesized by this package (the beauty pass when none exists).
	Default Provenance = "default"
)

// BeautyName is the logical name of a synthesized beauty pass.
const BeautyName = "beauty"

// PassDescriptor describes one render output pass (AOV).
type PassDescriptor struct {
	Name       string     `json:"name"`
	Node       string     `json:"node,omitempty"`
	DataType   DataType   `json:"data_type"`
	Enabled    bool       `json:"enabled"`
	Provenance Provenance `json:"provenance"`
	Filter     string     `json:"filter,omitempty"`
	OutputPath string     `json:"output_path,omitempty"`
}

// IsBeauty reports whether the descriptor has the beauty identity.
func (p PassDescriptor) IsBeauty() bool {
	return IsBeauty(p.Name)
}

// IsBeauty reports whether name is a beauty pass name ("beauty" or "RGBA").
func IsBeauty(name string) bool {
	return strings.EqualFold(name, BeautyName) || strings.EqualFold(name, string(DataRGBA))
}

// Resolution is the output image size.
type Resolution struct {
	Width       int     `json:"width"`
	Height      int     `json:"height"`
	AspectRatio float64 `json:"aspect_ratio"`
}

// RenderSettings holds the global render attributes relevant to output resolution.
type RenderSettings struct {
	Resolution   Resolution `json:"resolution"`
	FramePadding int        `json:"frame_padding"`
	ImageFormat  string     `json:"image_format"`
	OutputDir    string     `json:"output_dir"`
	Animation    bool       `json:"animation"`
	StartFrame   float64    `json:"start_frame"`
	EndFrame     float64    `json:"end_frame"`
	ByFrame      float64    `json:"by_frame"`
}

// RenderPassReport is the renderer identity plus its enumerated passes.
type RenderPassReport struct {
	Renderer RendererID       `json:"renderer"`
	Passes   []PassDescriptor `json:"aovs"`
	Settings RenderSettings   `json:"render_settings"`
}

// Beauty returns the beauty descriptor of the report, if any.
func (r *RenderPassReport) Beauty() (PassDescriptor, bool) {
	for _, p := range r.Passes {
		if p.IsBeauty() {
			return p, true
		}
	}
	return PassDescriptor{}, false
}

// Enabled returns the enabled passes in report order.
func (r *RenderPassReport) Enabled() []PassDescriptor {
	var out []PassDescriptor
	for _, p := range r.Passes {
		if p.Enabled {
			out = append(out, p)
		}
	}
	return out
}
