package io

import (
	"time"

	"github.com/google/uuid"

	"github.com/matzehuels/scenebridge/pkg/scene"
)

// ExporterVersion is the version of the envelope format written by this package.
const ExporterVersion = "0.1.0"

// ExportInfo describes one write of a snapshot.
type ExportInfo struct {
	Timestamp       time.Time `json:"timestamp"`
	ExporterVersion string    `json:"exporter_version"`
	ExportID        string    `json:"export_id,omitempty"`
}

// Envelope is the persisted document.
type Envelope struct {
	ExportInfo ExportInfo     `json:"export_info"`
	SceneData  scene.Snapshot `json:"scene_data"`
}

// NewEnvelope wraps snap with fresh export information. Empty optional
// lists are stored as nil so the envelope equals its own JSON round trip.
func NewEnvelope(snap *scene.Snapshot) *Envelope {
	return &Envelope{
		ExportInfo: ExportInfo{
			Timestamp:       time.Now().UTC(),
			ExporterVersion: ExporterVersion,
			ExportID:        uuid.NewString(),
		},
		SceneData: snap.Normalized(),
	}
}
