package main

import (
	"github.com/spf13/cobra"

	"github.com/suykerbuyk/recap/internal/help"
	"github.com/suykerbuyk/recap/internal/hook"
)

var uninstallCmd = newCommand(help.CmdUninstall, func(cmd *cobra.Command, args []string) error {
	return hook.Uninstall()
})

func init() {
	uninstallCmd.Args = cobra.NoArgs
	rootCmd.AddCommand(uninstallCmd)
}
