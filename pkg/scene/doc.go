// Package scene defines the normalized scene description exchanged with the
// compositing pipeline.
//
// This package is the single source of truth for the interchange data model.
// It holds no host access and no extraction logic; builders live in
// pkg/extract and persistence lives in pkg/io.
//
// # Core Types
//
//   - [Snapshot]: one extraction of a scene (metadata plus entity records)
//   - [CameraRecord], [MeshRecord], [LightRecord], [LocatorRecord]: per-entity records
//   - [FramePose]: one baked world-space pose at an integer frame
//   - [RenderPassReport], [PassDescriptor], [RenderSettings]: renderer output passes
//   - [MaterialRecord]: shader assignment and flat properties
//
// # Renderer Identity
//
// [RendererID] is a string type. Known renderers use the canonical constants
// ([Arnold], [Redshift], ...). Any other value is the passthrough of the
// host's raw renderer token, so consumers must tolerate unknown identities:
//
//	if !report.Renderer.Known() {
//	    // fall back to beauty-only handling
//	}
//
// # Beauty Identity
//
// A pass is the beauty pass when its logical name is "beauty" or "RGBA"
// (compared case-insensitively). See [IsBeauty].
//
// # JSON
//
// All types carry snake_case JSON tags. Optional collections use omitempty
// and are left nil when empty so that encoding and decoding produce equal
// values.
package scene
