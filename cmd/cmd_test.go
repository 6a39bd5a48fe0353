package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lumen-ui/lumen/internal/config"
	"github.com/lumen-ui/lumen/internal/registry"
	"github.com/lumen-ui/lumen/internal/types"
)

const cmdTestManifest = `
components:
  - name: greeting-card
    kind: element
    template: |
      <div class="card"><p text.bind="message"></p></div>
    bindables:
      - property: message
        attribute: message
`

func writeManifest(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "components.yml")
	require.NoError(t, os.WriteFile(path, []byte(cmdTestManifest), 0o644))
	return path
}

func testCfg(manifests ...string) *config.Config {
	return &config.Config{
		Server:      config.ServerConfig{Host: "localhost", Port: 8120},
		Manifests:   config.ManifestsConfig{Paths: manifests},
		Development: config.DevelopmentConfig{HotReload: false},
		Logging:     config.LoggingConfig{Level: "error", Format: "text"},
	}
}

func TestLoadRegistryFromManifest(t *testing.T) {
	reg, err := loadRegistry(testCfg(writeManifest(t)))
	require.NoError(t, err)

	ct, ok := reg.Get(types.ResourceElement, "greeting-card")
	require.True(t, ok)
	assert.Equal(t, "greeting-card", ct.Name)
}

func TestLoadRegistryMissingManifest(t *testing.T) {
	_, err := loadRegistry(testCfg("does-not-exist.yml"))
	require.Error(t, err)
}

func TestPreviewDefinitionMarkup(t *testing.T) {
	reg := registry.NewResourceRegistry()
	def := previewDefinition(reg, "greeting-card", map[string]string{
		"message": "hi",
		"class":   "wide",
	})

	assert.Equal(t, `<greeting-card class="wide" message="hi"></greeting-card>`, def.Template)
	assert.Equal(t, "render:greeting-card", def.Name)
}

// executeCommand runs the CLI with a clean slate. The command tree and its
// flag values are package globals, so viper state and parsed flag values
// must be reset between runs: slice and map flags accumulate across Execute
// calls otherwise.
func executeCommand(t *testing.T, args ...string) (string, error) {
	t.Helper()
	viper.Reset()
	resetFlagState()
	t.Cleanup(func() {
		viper.Reset()
		resetFlagState()
	})

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), err
}

func resetFlagState() {
	renderProps = map[string]string{}
	renderOutput = ""
	commands := append([]*cobra.Command{rootCmd}, rootCmd.Commands()...)
	for _, cmd := range commands {
		for _, set := range []*pflag.FlagSet{cmd.Flags(), cmd.PersistentFlags()} {
			set.VisitAll(func(f *pflag.Flag) {
				if sv, ok := f.Value.(pflag.SliceValue); ok {
					_ = sv.Replace(nil)
				}
				f.Changed = false
			})
		}
	}
}

func TestRenderCommand(t *testing.T) {
	path := writeManifest(t)

	out, err := executeCommand(t, "render", "greeting-card", "-m", path, "-p", "message=Hello")
	require.NoError(t, err)

	assert.Contains(t, out, `data-lumen-element="greeting-card"`)
	assert.Contains(t, out, ">Hello</p>")
}

func TestListCommand(t *testing.T) {
	path := writeManifest(t)

	out, err := executeCommand(t, "list", "-m", path)
	require.NoError(t, err)

	assert.Contains(t, out, "greeting-card")
	assert.Contains(t, out, "GreetingCard")
}

func TestCommandsDoNotAccumulateManifestFlags(t *testing.T) {
	// The first run's manifest is deleted before the second run; a leaked
	// --manifest value would make the list load fail on the stale path.
	first := writeManifest(t)
	_, err := executeCommand(t, "render", "greeting-card", "-m", first, "-p", "message=Hello")
	require.NoError(t, err)
	require.NoError(t, os.Remove(first))

	second := writeManifest(t)
	out, err := executeCommand(t, "list", "-m", second)
	require.NoError(t, err)
	assert.Contains(t, out, "greeting-card")
}

func TestRenderUnknownElement(t *testing.T) {
	path := writeManifest(t)

	_, err := executeCommand(t, "render", "no-such-thing", "-m", path)
	require.Error(t, err)
}
