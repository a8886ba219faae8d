// Command pokedex is a command-line client for PokeAPI built on the shared
// pokedex cache.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	pokedex "github.com/ferro-labs/pokedex"
	"github.com/ferro-labs/pokedex/internal/logging"
)

const (
	outputJSON = "json"
	outputText = "text"
)

type rootOptions struct {
	configPath string
	baseURL    string
	logLevel   string
	output     string
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}
	root := &cobra.Command{
		Use:          "pokedex",
		Short:        "Query PokeAPI through a deduplicating cache",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if opts.output != outputJSON && opts.output != outputText {
				return fmt.Errorf("--output must be %q or %q", outputJSON, outputText)
			}
			logging.SetupWriter(cmd.ErrOrStderr(), opts.logLevel, "text")
			return nil
		},
	}

	flags := root.PersistentFlags()
	flags.StringVar(&opts.configPath, "config", os.Getenv("POKEDEX_CONFIG"), "config file (JSON or YAML)")
	flags.StringVar(&opts.baseURL, "base-url", "", "override upstream base URL")
	flags.StringVar(&opts.logLevel, "log-level", "warn", "log level (debug|info|warn|error)")
	flags.StringVarP(&opts.output, "output", "o", outputText, "output format (json|text)")

	root.AddCommand(
		newGetCmd(opts),
		newListCmd(opts),
		newSearchCmd(opts),
		newEvolutionCmd(opts),
		newMoveCmd(opts),
		newValidateCmd(),
		newVersionCmd(),
	)
	return root
}

// client loads the configured client, applying flag overrides on top of
// the config file.
func (o *rootOptions) client() (*pokedex.Client, error) {
	cfg := pokedex.DefaultConfig()
	if o.configPath != "" {
		loaded, err := pokedex.LoadConfig(o.configPath)
		if err != nil {
			return nil, err
		}
		cfg = *loaded
	}
	if o.baseURL != "" {
		cfg.Upstream.BaseURL = o.baseURL
	}
	return pokedex.New(cfg)
}
