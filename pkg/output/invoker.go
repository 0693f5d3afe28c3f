package output

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os/exec"
	"strconv"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/mattn/go-shellwords"

	"github.com/matzehuels/scenebridge/pkg/errors"
	"github.com/matzehuels/scenebridge/pkg/scene"
)

// Request describes one render of the current scene state.
type Request struct {
	Renderer scene.RendererID
	Camera   string
	Width    int
	Height   int
	Prefix   string
	Frame    int
	Scene    string
}

// Invoker renders the current frame. It is opaque to this package; its
// errors are logged by the pipeline and never returned.
type Invoker interface {
	Render(ctx context.Context, req Request) error
}

// InvokerFunc adapts a function to Invoker.
type InvokerFunc func(ctx context.Context, req Request) error

// Render implements Invoker.
func (f InvokerFunc) Render(ctx context.Context, req Request) error { return f(ctx, req) }

// DefaultCommand is the batch render command line used when none is configured.
const DefaultCommand = "Render -r {renderer} -cam {camera} -x {width} -y {height} -im {prefix} -s {frame} -e {frame} {scene}"

// rendererTokens are the batch renderer names for known renderers.
var rendererTokens = map[scene.RendererID]string{
	scene.Arnold:       "arnold",
	scene.Redshift:     "redshift",
	scene.VRay:         "vray",
	scene.MentalRay:    "mr",
	scene.MayaSoftware: "sw",
	scene.MayaHardware: "hw2",
}

// RendererToken returns the batch renderer name for id. Unknown renderers
// use their raw token.
func RendererToken(id scene.RendererID) string {
	if t, ok := rendererTokens[id]; ok {
		return t
	}
	return string(id)
}

// CommandInvoker runs an external command built from a template. The
// template is split into words like a shell would, then the placeholders
// {camera} {width} {height} {prefix} {frame} {renderer} {scene} are
// substituted inside each word.
type CommandInvoker struct {
	Template string
	Dir      string
	Stdout   io.Writer
	Stderr   io.Writer
	Logger   *log.Logger
}

// NewCommandInvoker checks template and returns an invoker for it. An empty
// template uses DefaultCommand.
func NewCommandInvoker(template string, logger *log.Logger) (*CommandInvoker, error) {
	if template == "" {
		template = DefaultCommand
	}
	words, err := shellwords.Parse(template)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "parse render command")
	}
	if len(words) == 0 {
		return nil, errors.New(errors.ErrCodeInvalidInput, "render command is empty")
	}
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &CommandInvoker{Template: template, Logger: logger}, nil
}

// Args returns the expanded command line for req.
func (c *CommandInvoker) Args(req Request) ([]string, error) {
	words, err := shellwords.Parse(c.Template)
	if err != nil {
		return nil, fmt.Errorf("parse render command: %w", err)
	}
	if len(words) == 0 {
		return nil, fmt.Errorf("render command is empty")
	}
	r := strings.NewReplacer(
		"{camera}", req.Camera,
		"{width}", strconv.Itoa(req.Width),
		"{height}", strconv.Itoa(req.Height),
		"{prefix}", req.Prefix,
		"{frame}", strconv.Itoa(req.Frame),
		"{renderer}", RendererToken(req.Renderer),
		"{scene}", req.Scene,
	)
	for i, w := range words {
		words[i] = r.Replace(w)
	}
	return words, nil
}

// Render implements Invoker.
func (c *CommandInvoker) Render(ctx context.Context, req Request) error {
	args, err := c.Args(req)
	if err != nil {
		return err
	}
	cmd := exec.CommandContext(ctx, args[0], args[1:]...)
	cmd.Dir = c.Dir
	cmd.Stdout = c.Stdout

	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	if c.Stderr != nil {
		cmd.Stderr = io.MultiWriter(&stderr, c.Stderr)
	}

	if c.Logger != nil {
		c.Logger.Debug("run render command", "args", args)
	}
	if err := cmd.Run(); err != nil {
		if msg := strings.TrimSpace(stderr.String()); msg != "" {
			return fmt.Errorf("%s: %w: %s", args[0], err, msg)
		}
		return fmt.Errorf("%s: %w", args[0], err)
	}
	return nil
}
