package output

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/scenebridge/pkg/errors"
	"github.com/matzehuels/scenebridge/pkg/host"
	"github.com/matzehuels/scenebridge/pkg/observability"
	"github.com/matzehuels/scenebridge/pkg/passes"
	"github.com/matzehuels/scenebridge/pkg/scene"
)

// Job is one pass render request.
type Job struct {
	Pass   string `json:"pass"`
	Camera string `json:"camera"`
	Frame  int    `json:"frame"`

	// OutputPath is where the caller wants the image. Its extension, if any,
	// is replaced by the render's own naming.
	OutputPath string `json:"output_path"`

	// Width and Height default to the scene resolution.
	Width  int `json:"width,omitempty"`
	Height int `json:"height,omitempty"`
}

// Pipeline renders single passes against a host.
type Pipeline struct {
	Host     host.Host
	Invoker  Invoker
	Resolver *Resolver
	Logger   *log.Logger
}

// NewPipeline returns a Pipeline. A nil logger discards output.
func NewPipeline(h host.Host, inv Invoker, logger *log.Logger) *Pipeline {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Pipeline{
		Host:     h,
		Invoker:  inv,
		Resolver: NewResolver(logger),
		Logger:   logger,
	}
}

// Run renders job and resolves the written file. Every attribute the
// pipeline changes and the time cursor are restored before it returns.
// Invoker failures are logged; a missing file is reported through
// Resolution.Warning.
func (p *Pipeline) Run(ctx context.Context, job Job) (res Resolution, err error) {
	if err := errors.ValidatePassName(job.Pass); err != nil {
		return Resolution{}, err
	}
	if err := errors.ValidateOutputPath(job.OutputPath); err != nil {
		return Resolution{}, err
	}

	rec := host.NewRecorder(p.Host)
	defer func() {
		if rerr := rec.Restore(); rerr != nil {
			p.Logger.Warn("scene state not fully restored", "error", rerr)
			if err == nil {
				err = fmt.Errorf("restore scene state: %w", rerr)
			}
		}
	}()

	id := passes.Detect(rec)
	backend := passes.For(rec, id, p.Logger)
	mode := ModeFor(job.Pass)
	p.Logger.Debug("render job", "renderer", id, "pass", job.Pass, "mode", mode, "frame", job.Frame)

	p.apply(rec, CommonSettings(mode))
	p.apply(rec, backend.DefaultSettings(mode))

	if mode == passes.Full {
		if _, err := Isolate(ctx, backend, job.Pass); err != nil {
			if errors.IsFatal(err) {
				return Resolution{}, err
			}
			p.Logger.Warn("pass not isolated", "pass", job.Pass, "error", err)
		}
	} else {
		p.disableAll(rec, backend)
	}

	if err := rec.SetCurrentTime(float64(job.Frame)); err != nil {
		return Resolution{}, fmt.Errorf("set frame %d: %w", job.Frame, err)
	}

	if err := os.MkdirAll(filepath.Dir(job.OutputPath), 0o755); err != nil {
		return Resolution{}, errors.Wrap(errors.ErrCodeInvalidPath, err, "create output directory")
	}
	prefix := strings.TrimSuffix(job.OutputPath, filepath.Ext(job.OutputPath))
	if err := rec.SetAttr(passes.RenderGlobals, "imageFilePrefix", prefix); err != nil {
		return Resolution{}, fmt.Errorf("set image prefix: %w", err)
	}

	if _, err := p.Resolver.Clean(prefix, job.Frame, Extension(mode)); err != nil {
		p.Logger.Warn("stale output not removed", "prefix", prefix, "error", err)
	}

	p.invoke(ctx, rec, backend, mode, job, prefix)

	return p.Resolver.Resolve(ctx, job.Pass, prefix, job.Frame, Extension(mode)), nil
}

func (p *Pipeline) apply(rec *host.Recorder, settings []passes.Setting) {
	for _, s := range settings {
		if err := rec.SetAttr(s.Node, s.Attr, s.Value); err != nil {
			p.Logger.Debug("render setting not applied", "plug", s.Node+"."+s.Attr, "error", err)
		}
	}
}

// disableAll turns off every pass node so only the beauty image renders.
func (p *Pipeline) disableAll(rec *host.Recorder, b passes.Backend) {
	if !hasPassNodes(b.ID()) {
		return
	}
	for _, d := range b.Enumerate() {
		if d.Node == "" || d.Provenance != scene.InScene {
			continue
		}
		if err := rec.SetAttr(d.Node, "enabled", false); err != nil {
			p.Logger.Debug("pass not disabled", "node", d.Node, "error", err)
		}
	}
}

func (p *Pipeline) invoke(ctx context.Context, rec *host.Recorder, b passes.Backend, mode passes.Mode, job Job, prefix string) {
	if p.Invoker == nil {
		p.Logger.Warn("no render invoker configured")
		return
	}
	req := Request{
		Renderer: b.ID(),
		Camera:   job.Camera,
		Width:    job.Width,
		Height:   job.Height,
		Prefix:   prefix,
		Frame:    job.Frame,
		Scene:    rec.SceneName(),
	}
	if req.Width <= 0 || req.Height <= 0 {
		res := passes.ReadSettings(rec, p.Logger).Resolution
		req.Width, req.Height = res.Width, res.Height
	}

	start := time.Now()
	observability.Render().OnRenderStart(ctx, string(b.ID()), job.Pass, string(mode))
	err := p.Invoker.Render(ctx, req)
	observability.Render().OnRenderComplete(ctx, string(b.ID()), job.Pass, time.Since(start), err)
	if err != nil {
		p.Logger.Warn("render failed", "pass", job.Pass, "frame", job.Frame, "error", err)
		return
	}
	p.Logger.Debug("render finished", "pass", job.Pass, "duration", time.Since(start))
}
