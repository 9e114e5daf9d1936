package cli

import (
	"fmt"
	"log/slog"

	json "github.com/goccy/go-json"
	"github.com/spf13/cobra"

	"github.com/stacx-labs/stacx/internal/branding"
	"github.com/stacx-labs/stacx/internal/item"
	"github.com/stacx-labs/stacx/internal/validate"
)

func init() {
	rootCmd.AddCommand(validateCmd)
}

var validateCmd = &cobra.Command{
	Use:   "validate <file>...",
	Short: "Validate STAC Items against the core and extension schemas",
	Long: fmt.Sprintf(`Validate one or more STAC Item documents (JSON or YAML).

The core item schema is always applied. The schema of every known
extension listed in stac_extensions is applied as well.

Example:
  %[1]s validate item.json
  %[1]s validate scenes/*.json`, branding.CLIName()),
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		v, err := validate.Default()
		if err != nil {
			return fmt.Errorf("loading schemas: %w", err)
		}

		out := cmd.OutOrStdout()
		failed := 0
		for _, path := range args {
			res, err := checkFile(v, path)
			if err != nil {
				return err
			}
			if res.Valid {
				fmt.Fprintf(out, "PASS %s\n", path)
				continue
			}
			failed++
			fmt.Fprintf(out, "FAIL %s\n", path)
			for _, issue := range res.Issues {
				fmt.Fprintf(out, "  - %s\n", issue)
			}
		}

		if failed > 0 {
			return fmt.Errorf("%d of %d item(s) failed validation", failed, len(args))
		}
		return nil
	},
}

// checkFile parses an item in either supported format and validates its
// JSON form.
func checkFile(v *validate.SchemaValidator, path string) (*validate.Result, error) {
	it, err := item.ParseFile(path)
	if err != nil {
		return nil, err
	}
	data, err := json.Marshal(it.ToMap())
	if err != nil {
		return nil, fmt.Errorf("marshaling item %s: %w", it.ID, err)
	}

	res, err := v.Check(data)
	if err != nil {
		return nil, fmt.Errorf("validating %s: %w", path, err)
	}
	slog.Debug("validated item", "path", path, "id", it.ID, "valid", res.Valid, "issues", len(res.Issues))
	return res, nil
}
