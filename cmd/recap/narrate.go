package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/suykerbuyk/recap/internal/help"
	"github.com/suykerbuyk/recap/internal/session"
)

var narrateCmd = newCommand(help.CmdNarrate, runNarrate)

func init() {
	narrateCmd.Args = cobra.NoArgs
	addRunFlags(narrateCmd)
	rootCmd.AddCommand(narrateCmd)
}

func runNarrate(cmd *cobra.Command, args []string) error {
	rc := runConfig(cmd)
	res, err := session.Run(cmd.Context(), rc, runOptions(rc))
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), res.Narrative)
	return nil
}
