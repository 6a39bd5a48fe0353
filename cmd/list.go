package cmd

import (
	"fmt"
	"sort"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/lumen-ui/lumen/internal/registry"
	"github.com/lumen-ui/lumen/internal/types"
)

var listCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"l", "ls"},
	Short:   "List components declared in the configured manifests",
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		reg, err := loadRegistry(cfg)
		if err != nil {
			return err
		}

		all := reg.GetAll()
		sort.Slice(all, func(i, j int) bool {
			if all[i].Kind != all[j].Kind {
				return all[i].Kind < all[j].Kind
			}
			return all[i].Name < all[j].Name
		})

		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "NAME\tKIND\tBINDABLES\tGO NAME")
		for _, ct := range all {
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\n",
				ct.Name, ct.Kind, bindableList(ct), registry.ExportedName(ct.Name))
		}
		return w.Flush()
	},
}

func bindableList(ct *types.ComponentType) string {
	if len(ct.Bindables) == 0 {
		return "-"
	}
	attrs := make([]string, 0, len(ct.Bindables))
	for _, b := range ct.Bindables {
		attrs = append(attrs, b.Attribute)
	}
	return strings.Join(attrs, ",")
}

func init() {
	rootCmd.AddCommand(listCmd)
}
