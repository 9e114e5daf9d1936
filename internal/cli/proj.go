package cli

import (
	"fmt"
	"log/slog"

	json "github.com/goccy/go-json"
	"github.com/spf13/cobra"

	"github.com/stacx-labs/stacx/internal/branding"
	"github.com/stacx-labs/stacx/internal/item"
	"github.com/stacx-labs/stacx/internal/projection"
	"github.com/stacx-labs/stacx/internal/validate"
)

var (
	projAsset    string
	projValidate bool
)

func init() {
	for _, c := range []*cobra.Command{projGetCmd, projSetCmd, projUnsetCmd} {
		c.Flags().StringVar(&projAsset, "asset", "", "Operate on the named asset instead of the item properties")
		projCmd.AddCommand(c)
	}
	for _, c := range []*cobra.Command{projSetCmd, projUnsetCmd} {
		c.Flags().BoolVar(&projValidate, "validate", false, "Validate the item before writing it")
	}
	rootCmd.AddCommand(projCmd)
}

var projCmd = &cobra.Command{
	Use:   "proj",
	Short: "Read and write projection extension fields",
	Long: fmt.Sprintf(`Read and write the projection extension fields of a STAC Item:
epsg, wkt2, projjson, geometry, bbox, centroid, shape and transform.

The item must declare the projection extension (see "%[1]s ext enable").`, branding.CLIName()),
}

var projGetCmd = &cobra.Command{
	Use:   "get <file> [field]",
	Short: "Print projection fields as JSON",
	Args:  cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		it, err := item.ParseFile(args[0])
		if err != nil {
			return err
		}
		proj, err := accessor(it)
		if err != nil {
			return err
		}

		var out any
		if len(args) == 2 {
			f, err := projection.ParseField(args[1])
			if err != nil {
				return err
			}
			if out, err = proj.Get(f); err != nil {
				return err
			}
		} else {
			all := make(map[string]any)
			for _, f := range projection.Fields() {
				v, err := proj.Get(f)
				if err != nil {
					return err
				}
				if v != nil {
					all[f.Key()] = v
				}
			}
			out = all
		}

		data, err := json.MarshalIndent(out, "", "  ")
		if err != nil {
			return fmt.Errorf("marshaling output: %w", err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), string(data))
		return nil
	},
}

var projSetCmd = &cobra.Command{
	Use:   "set <file> <field> <json-value>",
	Short: "Set a projection field",
	Long: fmt.Sprintf(`Set a projection field to a JSON value. The value is stored as given;
use --validate to check the item against the schemas before it is written.

Example:
  %[1]s proj set item.json epsg 32614
  %[1]s proj set item.json centroid '{"lat": 34.6, "lon": -101.3}'
  %[1]s proj set item.json shape '[8391, 8311]' --asset B1`, branding.CLIName()),
	Args: cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		f, err := projection.ParseField(args[1])
		if err != nil {
			return err
		}
		var value any
		if err := json.Unmarshal([]byte(args[2]), &value); err != nil {
			return fmt.Errorf("parsing value for %s: %w", f.Key(), err)
		}

		return editItem(args[0], func(it *item.Item) error {
			proj, err := accessor(it)
			if err != nil {
				return err
			}
			if err := proj.Set(f, value); err != nil {
				return err
			}
			if err := maybeValidate(it); err != nil {
				return err
			}
			slog.Debug("projection field set", "item", it.ID, "asset", projAsset, "field", f.Key())
			fmt.Fprintf(cmd.OutOrStdout(), "Set %s on %s.\n", f.Key(), target(it))
			return nil
		})
	},
}

var projUnsetCmd = &cobra.Command{
	Use:   "unset <file> <field>",
	Short: "Remove a projection field",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		f, err := projection.ParseField(args[1])
		if err != nil {
			return err
		}
		return editItem(args[0], func(it *item.Item) error {
			proj, err := accessor(it)
			if err != nil {
				return err
			}
			if err := proj.Unset(f); err != nil {
				return err
			}
			if err := maybeValidate(it); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Removed %s from %s.\n", f.Key(), target(it))
			return nil
		})
	},
}

func accessor(it *item.Item) (*projection.Extension, error) {
	if projAsset == "" {
		return projection.ForItem(it), nil
	}
	return projection.ForAsset(it, projAsset)
}

func maybeValidate(it *item.Item) error {
	if !projValidate {
		return nil
	}
	v, err := validate.Default()
	if err != nil {
		return fmt.Errorf("loading schemas: %w", err)
	}
	return validate.ValidateItem(v, it)
}

func target(it *item.Item) string {
	if projAsset != "" {
		return fmt.Sprintf("item %s asset %s", it.ID, projAsset)
	}
	return "item " + it.ID
}
