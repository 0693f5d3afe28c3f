package cli

import (
	"context"
	"fmt"
	"io"
	"math"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/matzehuels/scenebridge/pkg/output"
)

// renderOpts holds the command-line flags for the render command.
type renderOpts struct {
	pass    string
	camera  string
	frame   int
	output  string
	command string
	width   int
	height  int
}

// renderCommand creates the render command.
func (c *CLI) renderCommand() *cobra.Command {
	opts := renderOpts{pass: "beauty"}

	cmd := &cobra.Command{
		Use:   "render [scene]",
		Short: "Render one pass of one frame",
		Long: `Render a single pass of a single frame and report the file it wrote.

The beauty pass renders as a PNG preview with every other pass disabled. Any
other pass renders as an EXR with only that pass enabled. Scene state changed
for the render is restored afterwards.

The render command is a template; {renderer}, {camera}, {width}, {height},
{prefix}, {frame} and {scene} are replaced before it runs. Render failures are
logged and the best-guess output path is still reported.`,
		Example: `  scenebridge render shot010.yaml --pass diffuse --camera shotCam --frame 12
  scenebridge render shot010.yaml --command "kick -i {scene} -o {prefix}.{frame}.exr"`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			frameSet := cmd.Flags().Changed("frame")
			return c.runRender(cmd.Context(), cmd.OutOrStdout(), cmd.ErrOrStderr(), args[0], opts, frameSet)
		},
	}

	cmd.Flags().StringVarP(&opts.pass, "pass", "p", opts.pass, "pass to render")
	cmd.Flags().StringVarP(&opts.camera, "camera", "c", "", "render camera (default from config)")
	cmd.Flags().IntVarP(&opts.frame, "frame", "f", 0, "frame to render (default current frame)")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output path without frame number (default <render_dir>/<scene>/<pass>)")
	cmd.Flags().StringVar(&opts.command, "command", "", "render command template (default from config)")
	cmd.Flags().IntVar(&opts.width, "width", 0, "image width (default scene resolution)")
	cmd.Flags().IntVar(&opts.height, "height", 0, "image height (default scene resolution)")

	return cmd
}

func (c *CLI) runRender(ctx context.Context, out, status io.Writer, path string, opts renderOpts, frameSet bool) error {
	logger := loggerFromContext(ctx)

	h, _, err := loadScene(path)
	if err != nil {
		return err
	}

	tmpl := opts.command
	if tmpl == "" {
		tmpl = c.Config.Render.Command
	}
	inv, err := output.NewCommandInvoker(tmpl, logger)
	if err != nil {
		return err
	}

	job := output.Job{
		Pass:       opts.pass,
		Camera:     opts.camera,
		Frame:      opts.frame,
		OutputPath: opts.output,
		Width:      opts.width,
		Height:     opts.height,
	}
	if job.Camera == "" {
		job.Camera = c.Config.Render.Camera
	}
	if !frameSet {
		job.Frame = int(math.Round(h.CurrentTime()))
	}
	if job.OutputPath == "" {
		job.OutputPath = filepath.Join(c.Config.Render.OutputDir, sceneStem(path), opts.pass)
	}

	spin := newSpinner(ctx, status, fmt.Sprintf("Rendering %s frame %d...", job.Pass, job.Frame))
	spin.Start()
	prog := newProgress(logger)
	res, err := output.NewPipeline(h, inv, logger).Run(ctx, job)
	spin.Stop()
	if err != nil {
		return err
	}
	prog.done(fmt.Sprintf("Rendered %s", job.Pass))

	if res.Warning != nil {
		printWarning(out, "No output found for %s frame %d", job.Pass, job.Frame)
		printDetail(out, "Expected: %s", res.Path)
		return nil
	}
	printSuccess(out, "Rendered %s frame %d", job.Pass, job.Frame)
	if len(res.Candidates) > 1 {
		printDetail(out, "%d candidates matched; picked the closest name", len(res.Candidates))
	}
	printFile(out, res.Path)
	return nil
}
