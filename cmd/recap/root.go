package main

import (
	"fmt"

	"github.com/cockroachdb/errors"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/suykerbuyk/recap/internal/config"
	"github.com/suykerbuyk/recap/internal/help"
	"github.com/suykerbuyk/recap/internal/logging"
	"github.com/suykerbuyk/recap/internal/render"
)

var (
	verbose bool

	// Set by PersistentPreRunE before any command runs.
	cfg    config.Config
	logger *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:           "recap",
	Short:         help.TopLevel.Synopsis,
	Version:       help.Version,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		logger = logging.New(verbose)
		loaded, err := config.Load()
		if err != nil {
			return errors.Wrap(err, "load config")
		}
		cfg = loaded
		return nil
	},
}

func init() {
	render.Version = help.Version
	rootCmd.SetVersionTemplate("recap {{.Version}}\n")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Log debug output to stderr")
	rootCmd.CompletionOptions.DisableDefaultCmd = true
	rootCmd.SetHelpFunc(printHelp)
}

// printHelp renders help from the shared command reference so --help and
// the man pages never drift apart.
func printHelp(cmd *cobra.Command, _ []string) {
	out := cmd.OutOrStdout()
	if cmd == rootCmd {
		fmt.Fprint(out, help.FormatUsage(help.TopLevel, help.Subcommands))
		return
	}
	if c, ok := help.Lookup(cmd.Name()); ok {
		fmt.Fprint(out, help.FormatTerminal(c))
		return
	}
	fmt.Fprint(out, cmd.UsageString())
}
