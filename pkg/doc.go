// Package pkg provides the core libraries of Scenebridge, a bridge between a
// DCC host scene and downstream tools.
//
// # Overview
//
// Scenebridge reads a live scene through a narrow host interface, turns it
// into a versioned snapshot, and drives single-pass renders with predictable
// output names. The pkg directory is organized as follows:
//
//  1. [scene] - snapshot data model and render pass types
//  2. [host] - host verbs, typed attribute reads, and the state [host.Recorder]
//  3. [host/memory] - in-memory host and YAML/JSON scene fixtures
//  4. [sampler] - per-frame world transform baking
//  5. [passes] - renderer detection and per-renderer pass backends
//  6. [materials] - shading group and material catalog
//  7. [extract] - snapshot builder and cached runner
//  8. [output] - pass isolation, render pipeline and output resolution
//  9. [io] - interchange envelope export, import and validation
//  10. [cache], [errors], [observability], [buildinfo] - supporting packages
//
// # Data flow
//
//	host.Host
//	    ↓
//	[extract] (cameras, meshes, lights, locators; [sampler] bakes animation)
//	    ↓            ↘
//	[passes]      [materials]
//	    ↓
//	scene.Snapshot → [io] → envelope JSON
//
// Rendering goes the other way: [output.Pipeline] records every attribute it
// changes on the host, isolates the requested pass, invokes the renderer and
// resolves the written file before restoring the scene.
//
// # Quick Start
//
//	h, _ := memory.Load("shot010.yaml")
//	snap, _ := extract.Extract(ctx, h, extract.Options{IncludePasses: true})
//	env, _ := io.Export("exports/shot010.json", snap)
//
// [scene]: https://pkg.go.dev/github.com/matzehuels/scenebridge/pkg/scene
// [host]: https://pkg.go.dev/github.com/matzehuels/scenebridge/pkg/host
// [host.Recorder]: https://pkg.go.dev/github.com/matzehuels/scenebridge/pkg/host#Recorder
// [host/memory]: https://pkg.go.dev/github.com/matzehuels/scenebridge/pkg/host/memory
// [sampler]: https://pkg.go.dev/github.com/matzehuels/scenebridge/pkg/sampler
// [passes]: https://pkg.go.dev/github.com/matzehuels/scenebridge/pkg/passes
// [materials]: https://pkg.go.dev/github.com/matzehuels/scenebridge/pkg/materials
// [extract]: https://pkg.go.dev/github.com/matzehuels/scenebridge/pkg/extract
// [output]: https://pkg.go.dev/github.com/matzehuels/scenebridge/pkg/output
// [output.Pipeline]: https://pkg.go.dev/github.com/matzehuels/scenebridge/pkg/output#Pipeline
// [io]: https://pkg.go.dev/github.com/matzehuels/scenebridge/pkg/io
// [cache]: https://pkg.go.dev/github.com/matzehuels/scenebridge/pkg/cache
// [errors]: https://pkg.go.dev/github.com/matzehuels/scenebridge/pkg/errors
// [observability]: https://pkg.go.dev/github.com/matzehuels/scenebridge/pkg/observability
// [buildinfo]: https://pkg.go.dev/github.com/matzehuels/scenebridge/pkg/buildinfo
package pkg
