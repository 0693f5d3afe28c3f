// Package io reads and writes scene snapshots as versioned JSON documents.
//
// # Format
//
// Every document is an [Envelope] wrapping one [scene.Snapshot]:
//
//	{
//	  "export_info": {
//	    "timestamp": "2026-10-18T09:30:00Z",
//	    "exporter_version": "0.1.0",
//	    "export_id": "5c1e..."
//	  },
//	  "scene_data": {
//	    "schema_version": "0.2.0",
//	    "scene_info": {...},
//	    "cameras": [...],
//	    "meshes": [...],
//	    "lights": [...],
//	    "locators": [...]
//	  }
//	}
//
// Output is indented with two spaces and HTML characters are not escaped.
//
// # Export
//
// [Export] writes to a temporary file next to the target and renames it into
// place, so readers never observe a partial document. Parent directories are
// created as needed.
//
// # Import
//
// [ReadJSON] and [Import] decode the document into a generic map first and
// run [Validate] on it. Only a document that passes validation is decoded
// into typed structures.
//
// # Validation
//
// [Validate] checks the minimal key set: scene_data must hold schema_version,
// scene_info, cameras and meshes, and schema_version must be a non-empty
// string. Failures are SCHEMA_INVALID errors naming the missing key.
//
// [ValidateStrict] adds a JSON Schema check of the nested records and
// requires schema_version to be a semantic version within [SupportedSchemas].
//
// Round trip: Import(Export(s)).SceneData equals s.Normalized(), which is s
// itself unless s holds empty optional lists. Only export_info differs
// between repeated exports of the same snapshot.
package io
