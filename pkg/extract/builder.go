// Package extract builds scene snapshots from a host.
//
// A [Builder] walks the host's cameras, meshes, lights and locators under one
// of two traversal policies and assembles a [scene.Snapshot]:
//
//   - [Exhaustive] visits every node of those types. Intermediate mesh shapes
//     are skipped. Animation is baked only when requested.
//   - [Selection] visits nodes under the current selection. Cameras must also
//     be renderable and perspective. Cameras, meshes and locators are always
//     baked.
//
// Hidden nodes are included with visible=false. A node that disappears while
// being baked fails the whole extraction with NODE_UNAVAILABLE.
package extract

import (
	"context"
	"fmt"
	"io"
	"math"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/scenebridge/pkg/errors"
	"github.com/matzehuels/scenebridge/pkg/host"
	"github.com/matzehuels/scenebridge/pkg/materials"
	"github.com/matzehuels/scenebridge/pkg/observability"
	"github.com/matzehuels/scenebridge/pkg/passes"
	"github.com/matzehuels/scenebridge/pkg/sampler"
	"github.com/matzehuels/scenebridge/pkg/scene"
)

// fpsByUnit maps host time units to frames per second.
var fpsByUnit = map[string]float64{
	"game":  15,
	"film":  24,
	"pal":   25,
	"ntsc":  30,
	"show":  48,
	"palf":  50,
	"ntscf": 60,
}

// DefaultFPS is used for unrecognized time units.
const DefaultFPS = 24

// FPS returns the frame rate of a host time unit.
func FPS(unit string) float64 {
	if fps, ok := fpsByUnit[unit]; ok {
		return fps
	}
	return DefaultFPS
}

// materialLister is implemented by collaborators that can list every material.
type materialLister interface {
	All() []scene.MaterialRecord
}

// Builder assembles snapshots from a host.
type Builder struct {
	Host      host.Host
	Materials materials.Collaborator
	Logger    *log.Logger
}

// New returns a Builder backed by the host's own material catalog.
func New(h host.Host, logger *log.Logger) *Builder {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Builder{
		Host:      h,
		Materials: materials.New(h, logger),
		Logger:    logger,
	}
}

// Extract builds a new snapshot. The host's time cursor is unchanged afterwards.
func (b *Builder) Extract(ctx context.Context, opts Options) (snap *scene.Snapshot, err error) {
	if opts.Logger == nil && b.Logger != nil {
		opts.Logger = b.Logger
	}
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}
	logger := opts.Logger

	start := time.Now()
	observability.Extract().OnExtractStart(ctx, string(opts.Policy))
	defer func() {
		entities := 0
		if snap != nil {
			c, m, l, loc := snap.Counts()
			entities = c + m + l + loc
		}
		observability.Extract().OnExtractComplete(ctx, string(opts.Policy), entities, time.Since(start), err)
	}()

	w := &walk{
		b:       b,
		opts:    opts,
		logger:  logger,
		sampler: sampler.New(b.Host, logger),
	}
	if opts.Policy == Selection {
		w.selected = b.selectedTransforms()
		logger.Debug("selection", "transforms", len(w.selected))
	}

	info := b.sceneInfo()
	w.frames = info.FrameRange
	if opts.FrameRange != nil {
		w.frames = *opts.FrameRange
	}

	snap = &scene.Snapshot{
		SchemaVersion: opts.SchemaVersion,
		SceneInfo:     info,
		Cameras:       []scene.CameraRecord{},
		Meshes:        []scene.MeshRecord{},
		Lights:        []scene.LightRecord{},
		Locators:      []scene.LocatorRecord{},
	}

	if snap.Cameras, err = w.cameras(ctx); err != nil {
		return nil, err
	}
	if snap.Meshes, err = w.meshes(ctx); err != nil {
		return nil, err
	}
	if snap.Lights, err = w.lights(); err != nil {
		return nil, err
	}
	if snap.Locators, err = w.locators(ctx); err != nil {
		return nil, err
	}

	if opts.IncludePasses {
		snap.RenderPasses = passes.NewResolver(b.Host, logger).Report()
	}
	if opts.IncludeMaterials {
		if l, ok := b.Materials.(materialLister); ok {
			snap.Materials = l.All()
		} else {
			logger.Warn("material collaborator cannot list materials")
		}
	}

	c, m, l, loc := snap.Counts()
	logger.Debug("extracted scene",
		"policy", opts.Policy,
		"cameras", c,
		"meshes", m,
		"lights", l,
		"locators", loc,
		"duration", time.Since(start))
	return snap, nil
}

func (b *Builder) sceneInfo() scene.SceneInfo {
	start, end := b.Host.PlaybackRange()
	unit := b.Host.Unit(host.UnitTime)
	return scene.SceneInfo{
		CurrentFrame: b.Host.CurrentTime(),
		FrameRange:   [2]int{int(math.Round(start)), int(math.Round(end))},
		FPS:          FPS(unit),
		TimeUnit:     unit,
		SceneFile:    b.Host.SceneName(),
		UpAxis:       b.Host.UpAxis(),
		LinearUnit:   b.Host.Unit(host.UnitLinear),
		AngularUnit:  b.Host.Unit(host.UnitAngular),
	}
}

// selectedTransforms maps the selection to transforms. Selected shapes
// stand for their parent.
func (b *Builder) selectedTransforms() map[string]bool {
	out := make(map[string]bool)
	for _, node := range b.Host.Selection() {
		if b.Host.NodeType(node) != "transform" {
			if parent, ok := b.Host.Parent(node); ok {
				node = parent
			}
		}
		out[node] = true
	}
	return out
}

// Extract builds a snapshot from h with a default Builder.
func Extract(ctx context.Context, h host.Host, opts Options) (*scene.Snapshot, error) {
	return New(h, opts.Logger).Extract(ctx, opts)
}

func wrapNode(err error, node string) error {
	if errors.GetCode(err) != "" {
		return err
	}
	return errors.Wrap(errors.ErrCodeNodeUnavailable, err, "read %s", node)
}
