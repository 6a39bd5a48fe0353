package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/lumen-ui/lumen/internal/dom"
	"github.com/lumen-ui/lumen/internal/lifecycle"
	"github.com/lumen-ui/lumen/internal/registry"
	"github.com/lumen-ui/lumen/internal/runtime"
	"github.com/lumen-ui/lumen/internal/types"
)

var (
	renderProps  map[string]string
	renderOutput string
)

var renderCmd = &cobra.Command{
	Use:     "render <element>",
	Aliases: []string{"r"},
	Short:   "Render one declared element to HTML",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		reg, err := loadRegistry(cfg)
		if err != nil {
			return err
		}

		name := registry.CanonicalName(args[0])
		if _, ok := reg.Get(types.ResourceElement, name); !ok {
			return fmt.Errorf("element %q is not declared in any manifest", name)
		}

		engine := runtime.NewRenderingEngine(nil, nil, newLogger(cfg))
		factory, err := engine.GetViewFactory(previewDefinition(reg, name, renderProps), nil)
		if err != nil {
			return err
		}

		view, err := factory.Create(nil, nil)
		if err != nil {
			return err
		}
		if err := view.Bind(lifecycle.NewScope(propsContext(renderProps))); err != nil {
			return err
		}
		if err := view.Attach(); err != nil {
			return err
		}

		markup, err := dom.SerializeString(view.Nodes().Nodes())
		if err != nil {
			return err
		}

		if renderOutput != "" {
			return os.WriteFile(renderOutput, []byte(markup+"\n"), 0o644)
		}
		fmt.Fprintln(cmd.OutOrStdout(), markup)
		return nil
	},
}

// propsContext widens string props into a binding context for the outer
// scope.
func propsContext(props map[string]string) map[string]any {
	ctx := make(map[string]any, len(props))
	for k, v := range props {
		ctx[k] = v
	}
	return ctx
}

func init() {
	renderCmd.Flags().StringToStringVarP(&renderProps, "prop", "p", nil, "attribute to set on the element (key=value, repeatable)")
	renderCmd.Flags().StringVarP(&renderOutput, "output", "o", "", "write HTML to file instead of stdout")
	rootCmd.AddCommand(renderCmd)
}
