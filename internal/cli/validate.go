package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/matzehuels/scenebridge/pkg/errors"
	sceneio "github.com/matzehuels/scenebridge/pkg/io"
)

// validateCommand creates the validate command.
func (c *CLI) validateCommand() *cobra.Command {
	var strict bool

	cmd := &cobra.Command{
		Use:   "validate [file]",
		Short: "Check an interchange file",
		Long: `Check that an interchange file has every required key. With --strict the
document is also validated against the envelope JSON schema and its schema
version must be supported.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(cmd.OutOrStdout(), args[0], strict)
		},
	}

	cmd.Flags().BoolVar(&strict, "strict", false, "validate against the JSON schema and check the schema version")

	return cmd
}

func runValidate(out io.Writer, path string, strict bool) error {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return errors.Wrap(errors.ErrCodeFileNotFound, err, "file not found: %s", path)
		}
		return fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	doc, err := sceneio.Decode(f)
	if err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}

	check := sceneio.Validate
	if strict {
		check = sceneio.ValidateStrict
	}
	if err := check(doc); err != nil {
		printError(out, "%s is not valid", path)
		printDetail(out, "%v", err)
		return err
	}

	printSuccess(out, "%s is valid", path)
	if data, ok := doc["scene_data"].(map[string]any); ok {
		if v, ok := data["schema_version"].(string); ok {
			printKeyValue(out, "schema", v)
		}
	}
	if info, ok := doc["export_info"].(map[string]any); ok {
		if v, ok := info["exporter_version"].(string); ok {
			printKeyValue(out, "exporter", v)
		}
	}
	return nil
}
