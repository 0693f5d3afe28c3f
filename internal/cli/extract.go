package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/matzehuels/scenebridge/pkg/cache"
	"github.com/matzehuels/scenebridge/pkg/extract"
	sceneio "github.com/matzehuels/scenebridge/pkg/io"
	"github.com/matzehuels/scenebridge/pkg/scene"
)

// extractOpts holds the command-line flags for the extract command.
type extractOpts struct {
	output      string
	policy      string
	dryRun      bool
	noPasses    bool
	noMaterials bool
	bake        bool
	frame       float64
	frameRange  []int
	noCache     bool
}

// extractCommand creates the extract command.
func (c *CLI) extractCommand() *cobra.Command {
	var opts extractOpts

	cmd := &cobra.Command{
		Use:   "extract [scene]",
		Short: "Export a scene snapshot to an interchange JSON file",
		Long: `Extract cameras, meshes, lights and locators from a scene, together with
the active renderer's passes and the material catalog, and write them as a
versioned interchange file.

The exhaustive policy visits every node. The selection policy visits only
nodes under the current selection and always bakes animation.`,
		Example: `  scenebridge extract shot010.yaml
  scenebridge extract shot010.yaml --policy selection -o exports/shot010.json
  scenebridge extract shot010.yaml --bake --frame-range 1,48 --no-materials`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Flags().Changed("frame-range") && len(opts.frameRange) != 2 {
				return fmt.Errorf("--frame-range needs exactly two frames, got %d", len(opts.frameRange))
			}
			frameSet := cmd.Flags().Changed("frame")
			return c.runExtract(cmd.Context(), cmd.OutOrStdout(), args[0], opts, frameSet)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (default <output_dir>/<scene>_export.json)")
	cmd.Flags().StringVar(&opts.policy, "policy", "", "traversal policy: exhaustive, selection (default from config)")
	cmd.Flags().BoolVar(&opts.dryRun, "dry-run", false, "extract and summarize without writing a file")
	cmd.Flags().BoolVar(&opts.noPasses, "no-passes", false, "omit render passes")
	cmd.Flags().BoolVar(&opts.noMaterials, "no-materials", false, "omit the material catalog")
	cmd.Flags().BoolVar(&opts.bake, "bake", false, "bake per-frame animation")
	cmd.Flags().Float64Var(&opts.frame, "frame", 0, "set the current frame before extracting")
	cmd.Flags().IntSliceVar(&opts.frameRange, "frame-range", nil, "bake range as start,end (default playback range)")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "bypass the snapshot cache")

	return cmd
}

func (c *CLI) runExtract(ctx context.Context, out io.Writer, path string, opts extractOpts, frameSet bool) error {
	logger := loggerFromContext(ctx)
	prog := newProgress(logger)

	h, hash, err := loadScene(path)
	if err != nil {
		return err
	}
	if frameSet {
		if err := h.SetCurrentTime(opts.frame); err != nil {
			return fmt.Errorf("set frame: %w", err)
		}
		hash = cache.Hash([]byte(fmt.Sprintf("%s@%g", hash, opts.frame)))
	}

	policy := opts.policy
	if policy == "" {
		policy = c.Config.Extract.Policy
	}
	xopts := extract.Options{
		Policy:           extract.Policy(policy),
		IncludePasses:    c.Config.Extract.Passes && !opts.noPasses,
		IncludeMaterials: c.Config.Extract.Materials && !opts.noMaterials,
		Bake:             opts.bake,
		Logger:           logger,
	}
	if len(opts.frameRange) == 2 {
		xopts.FrameRange = &[2]int{opts.frameRange[0], opts.frameRange[1]}
	}

	store, err := c.newCache(opts.noCache)
	if err != nil {
		return err
	}
	defer store.Close()

	runner := extract.NewRunner(extract.New(h, logger), store, nil, logger)
	snap, cached, err := runner.Extract(ctx, hash, xopts)
	if err != nil {
		return err
	}
	cams, meshes, lights, locs := snap.Counts()
	prog.done(fmt.Sprintf("Extracted %d entities", cams+meshes+lights+locs))

	if opts.dryRun {
		printInfo(out, "Dry run: %s", sceneStem(path))
		printStats(out, cams, meshes, lights, locs, cached)
		printSnapshotDetails(out, snap)
		return nil
	}

	target := opts.output
	if target == "" {
		target = filepath.Join(c.Config.Extract.OutputDir, sceneStem(path)+"_export.json")
	}
	env, err := sceneio.Export(target, snap)
	if err != nil {
		return err
	}

	printSuccess(out, "Exported %s", sceneStem(path))
	printStats(out, cams, meshes, lights, locs, cached)
	printSnapshotDetails(out, snap)
	printKeyValue(out, "export id", env.ExportInfo.ExportID)
	if info, err := os.Stat(target); err == nil {
		printKeyValue(out, "size", formatBytes(info.Size()))
	}
	printFile(out, target)
	printNextStep(out, "Validate", "scenebridge validate --strict "+target)
	return nil
}

func printSnapshotDetails(out io.Writer, snap *scene.Snapshot) {
	printKeyValue(out, "schema", snap.SchemaVersion)
	info := snap.SceneInfo
	printKeyValue(out, "frames", fmt.Sprintf("%d-%d @ %g fps", info.FrameRange[0], info.FrameRange[1], info.FPS))
	if snap.RenderPasses != nil {
		printKeyValue(out, "renderer", snap.RenderPasses.Renderer.String())
		printKeyValue(out, "passes", fmt.Sprintf("%d (%d enabled)", len(snap.RenderPasses.Passes), len(snap.RenderPasses.Enabled())))
	}
	if snap.Materials != nil {
		printKeyValue(out, "materials", fmt.Sprintf("%d", len(snap.Materials)))
	}
}
