package cli

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/stacx-labs/stacx/internal/branding"
	"github.com/stacx-labs/stacx/internal/extension"
	"github.com/stacx-labs/stacx/internal/item"
)

func init() {
	extCmd.AddCommand(extListCmd)
	extCmd.AddCommand(extEnableCmd)
	extCmd.AddCommand(extDisableCmd)
	rootCmd.AddCommand(extCmd)
}

var extCmd = &cobra.Command{
	Use:     "ext",
	Aliases: []string{"extension"},
	Short:   "Manage the extensions an item declares",
	Long: `Manage the stac_extensions list of a STAC Item.

Extensions may be named by identifier ("projection"), property prefix
("proj") or schema URI.`,
}

var extListCmd = &cobra.Command{
	Use:   "list <file>",
	Short: "List the extensions declared by an item",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		it, err := item.ParseFile(args[0])
		if err != nil {
			return err
		}

		if len(it.StacExtensions) == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "No extensions declared.")
			return nil
		}

		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "EXTENSION\tPREFIX\tSCHEMA")
		for _, entry := range it.StacExtensions {
			d, ok := extension.Default.Lookup(entry)
			if !ok {
				fmt.Fprintf(w, "%s\t%s\t%s\n", "(unknown)", "-", entry)
				continue
			}
			fmt.Fprintf(w, "%s\t%s\t%s\n", d.ID, d.Prefix, entry)
		}
		return w.Flush()
	},
}

var extEnableCmd = &cobra.Command{
	Use:   "enable <file> <extension>",
	Short: "Declare an extension on an item",
	Long: fmt.Sprintf(`Add an extension's schema URI to the item's stac_extensions.
Enabling an extension that is already declared changes nothing.

Example:
  %[1]s ext enable item.json projection`, branding.CLIName()),
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return editItem(args[0], func(it *item.Item) error {
			if err := extension.Enable(it, args[1]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Extension %q enabled on %s.\n", args[1], it.ID)
			return nil
		})
	},
}

var extDisableCmd = &cobra.Command{
	Use:   "disable <file> <extension>",
	Short: "Remove an extension declaration from an item",
	Long: `Remove every stac_extensions entry referring to the extension.
Fields in the extension's namespace are left in place.`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return editItem(args[0], func(it *item.Item) error {
			if err := extension.Disable(it, args[1]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Extension %q disabled on %s.\n", args[1], it.ID)
			return nil
		})
	},
}

// editItem loads the item at path, applies fn and writes the item back
// in place, preserving the file's permissions.
func editItem(path string, fn func(it *item.Item) error) error {
	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("reading item %s: %w", path, err)
	}
	it, err := item.ParseFile(path)
	if err != nil {
		return err
	}
	if err := fn(it); err != nil {
		return err
	}
	if err := item.WriteFile(path, it); err != nil {
		return err
	}
	return os.Chmod(path, info.Mode().Perm())
}
