package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/suykerbuyk/recap/internal/help"
)

var versionCmd = newCommand(help.CmdVersion, func(cmd *cobra.Command, args []string) error {
	fmt.Fprintf(cmd.OutOrStdout(), "recap %s\n", help.Version)
	return nil
})

func init() {
	versionCmd.Args = cobra.NoArgs
	rootCmd.AddCommand(versionCmd)
}
