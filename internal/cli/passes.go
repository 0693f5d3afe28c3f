package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/matzehuels/scenebridge/pkg/passes"
	"github.com/matzehuels/scenebridge/pkg/scene"
)

// passesCommand creates the passes command.
func (c *CLI) passesCommand() *cobra.Command {
	var (
		renderer string
		asJSON   bool
	)

	cmd := &cobra.Command{
		Use:   "passes [scene]",
		Short: "List the render passes of a scene",
		Long: `List the passes (AOVs) of the active renderer, or of --renderer when given,
with their data type, enabled state and provenance.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var id scene.RendererID
			if renderer != "" {
				id = passes.ParseRenderer(renderer)
			}
			return runPasses(cmd.Context(), cmd.OutOrStdout(), args[0], id, asJSON)
		},
	}

	cmd.Flags().StringVar(&renderer, "renderer", "", "enumerate this renderer instead of the active one")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the pass report as JSON")

	return cmd
}

func runPasses(ctx context.Context, out io.Writer, path string, renderer scene.RendererID, asJSON bool) error {
	logger := loggerFromContext(ctx)

	h, _, err := loadScene(path)
	if err != nil {
		return err
	}

	r := passes.NewResolver(h, logger)
	report := r.Report()
	if renderer != "" && renderer != report.Renderer {
		report.Renderer = renderer
		report.Passes = r.Enumerate(renderer)
	}

	if asJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(report)
	}

	res := report.Settings.Resolution
	printKeyValue(out, "renderer", report.Renderer.String())
	printKeyValue(out, "resolution", fmt.Sprintf("%dx%d", res.Width, res.Height))
	if len(report.Passes) == 0 {
		printWarning(out, "No passes found")
		return nil
	}

	rows := make([][]string, len(report.Passes))
	enabled := make(map[int]bool)
	for i, p := range report.Passes {
		rows[i] = []string{p.Name, string(p.DataType), strconv.FormatBool(p.Enabled), string(p.Provenance), p.Node}
		enabled[i] = p.Enabled
	}
	printTable(out, []string{"Pass", "Type", "Enabled", "Provenance", "Node"}, rows, enabled)
	return nil
}
