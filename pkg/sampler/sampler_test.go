package sampler

import (
	"context"
	"math"
	"testing"

	"github.com/matzehuels/scenebridge/pkg/errors"
	"github.com/matzehuels/scenebridge/pkg/host/memory"
)

func animatedScene() *memory.Host {
	h := memory.New()
	h.AddNode("ball", "transform", "", nil)
	h.SetKeys("ball", "translateX", []memory.Key{{Frame: 1, Value: 0}, {Frame: 10, Value: 90}})
	h.SetKeys("ball", "rotateY", []memory.Key{{Frame: 1, Value: 0}, {Frame: 10, Value: 45}})
	h.SetCurrentTime(7)
	return h
}

func TestSample(t *testing.T) {
	tests := []struct {
		name       string
		start, end int
	}{
		{"single frame", 3, 3},
		{"full range", 1, 10},
		{"beyond keys", -2, 14},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := animatedScene()
			poses, err := Sample(context.Background(), h, "ball", tt.start, tt.end)
			if err != nil {
				t.Fatalf("Sample() error = %v", err)
			}
			if want := tt.end - tt.start + 1; len(poses) != want {
				t.Fatalf("len(poses) = %d, want %d", len(poses), want)
			}
			for i, p := range poses {
				if p.Frame != tt.start+i {
					t.Errorf("poses[%d].Frame = %d, want %d", i, p.Frame, tt.start+i)
				}
			}
			if h.CurrentTime() != 7 {
				t.Errorf("CurrentTime() = %v, want 7", h.CurrentTime())
			}
		})
	}
}

func TestSampleForcesEvaluation(t *testing.T) {
	h := animatedScene()
	// prime the transform cache at the current time
	if _, err := h.WorldTransform("ball"); err != nil {
		t.Fatal(err)
	}

	poses, err := Sample(context.Background(), h, "ball", 1, 10)
	if err != nil {
		t.Fatal(err)
	}
	for _, p := range poses {
		want := float64(p.Frame-1) * 10
		if math.Abs(p.Translation[0]-want) > 1e-9 {
			t.Errorf("frame %d translateX = %v, want %v", p.Frame, p.Translation[0], want)
		}
	}
	if got := poses[9].Rotation[1]; math.Abs(got-45) > 1e-6 {
		t.Errorf("frame 10 rotateY = %v, want 45", got)
	}
}

func TestSampleInvalidRange(t *testing.T) {
	h := animatedScene()
	h.OnTimeChange = func(*memory.Host, float64) {
		t.Error("time cursor touched for an invalid range")
	}

	poses, err := Sample(context.Background(), h, "ball", 5, 1)
	if !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("error = %v, want code %v", err, errors.ErrCodeInvalidInput)
	}
	if poses != nil {
		t.Errorf("poses = %v, want nil", poses)
	}
}

func TestSampleNodeVanishes(t *testing.T) {
	h := animatedScene()
	h.OnTimeChange = func(h *memory.Host, now float64) {
		if now == 4 {
			h.DeleteNode("ball")
		}
	}

	poses, err := Sample(context.Background(), h, "ball", 1, 10)
	if !errors.Is(err, errors.ErrCodeNodeUnavailable) {
		t.Fatalf("error = %v, want code %v", err, errors.ErrCodeNodeUnavailable)
	}
	if poses != nil {
		t.Errorf("poses = %v, want nil on failure", poses)
	}
	if h.CurrentTime() != 7 {
		t.Errorf("CurrentTime() after failure = %v, want 7", h.CurrentTime())
	}
}

func TestSampleMissingNode(t *testing.T) {
	h := animatedScene()
	if _, err := Sample(context.Background(), h, "ghost", 1, 2); !errors.Is(err, errors.ErrCodeNodeUnavailable) {
		t.Errorf("error = %v, want code %v", err, errors.ErrCodeNodeUnavailable)
	}
}
