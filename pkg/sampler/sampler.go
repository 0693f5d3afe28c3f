// Package sampler bakes world-space node poses over a frame range.
//
// Sampling steps the host's global time cursor, so it is bracketed: the
// cursor is saved before the first frame and restored on every exit path.
// A bake either returns one pose per frame or fails as a whole.
package sampler

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/scenebridge/pkg/errors"
	"github.com/matzehuels/scenebridge/pkg/host"
	"github.com/matzehuels/scenebridge/pkg/observability"
	"github.com/matzehuels/scenebridge/pkg/scene"
)

// Sampler bakes node transforms against a host.
type Sampler struct {
	Host   host.Host
	Logger *log.Logger
}

// New returns a Sampler for h. A nil logger discards output.
func New(h host.Host, logger *log.Logger) *Sampler {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Sampler{Host: h, Logger: logger}
}

// Sample returns the world-space pose of node at every integer frame in
// [start, end], in increasing frame order.
//
// Each frame forces re-evaluation by marking the node dirty before reading
// its world transform. If the node disappears mid-bake the error carries
// code NODE_UNAVAILABLE and no poses are returned.
func (s *Sampler) Sample(ctx context.Context, node string, start, end int) (poses []scene.FramePose, err error) {
	if err := errors.ValidateFrameRange(start, end); err != nil {
		return nil, err
	}

	frames := end - start + 1
	began := time.Now()
	observability.Extract().OnBakeStart(ctx, node, frames)

	saved := s.Host.CurrentTime()
	defer func() {
		if rerr := s.Host.SetCurrentTime(saved); rerr != nil && err == nil {
			poses, err = nil, fmt.Errorf("restore time cursor: %w", rerr)
		}
		observability.Extract().OnBakeComplete(ctx, node, frames, time.Since(began), err)
	}()

	out := make([]scene.FramePose, 0, frames)
	for f := start; f <= end; f++ {
		pose, err := s.poseAt(node, f)
		if err != nil {
			s.Logger.Debug("bake aborted", "node", node, "frame", f, "error", err)
			return nil, err
		}
		out = append(out, pose)
	}

	s.Logger.Debug("baked", "node", node, "frames", frames)
	return out, nil
}

func (s *Sampler) poseAt(node string, frame int) (scene.FramePose, error) {
	if err := s.Host.SetCurrentTime(float64(frame)); err != nil {
		return scene.FramePose{}, fmt.Errorf("set time %d: %w", frame, err)
	}
	if !s.Host.Exists(node) {
		return scene.FramePose{}, errors.New(errors.ErrCodeNodeUnavailable, "node %q vanished at frame %d", node, frame)
	}
	if err := s.Host.MarkDirty(node); err != nil {
		return scene.FramePose{}, errors.Wrap(errors.ErrCodeNodeUnavailable, err, "mark %s dirty at frame %d", node, frame)
	}
	tr, err := s.Host.WorldTransform(node)
	if err != nil {
		return scene.FramePose{}, errors.Wrap(errors.ErrCodeNodeUnavailable, err, "evaluate %s at frame %d", node, frame)
	}
	return scene.FramePose{
		Frame:       frame,
		Translation: tr.Translation,
		Rotation:    tr.Rotation,
	}, nil
}

// Sample bakes node over [start, end] with a default Sampler.
func Sample(ctx context.Context, h host.Host, node string, start, end int) ([]scene.FramePose, error) {
	return New(h, nil).Sample(ctx, node, start, end)
}
