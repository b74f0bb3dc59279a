package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/suykerbuyk/recap/internal/config"
	"github.com/suykerbuyk/recap/internal/help"
	"github.com/suykerbuyk/recap/internal/hook"
)

var installCmd = newCommand(help.CmdInstall, runInstall)

func init() {
	installCmd.Args = cobra.NoArgs
	rootCmd.AddCommand(installCmd)
}

func runInstall(cmd *cobra.Command, args []string) error {
	if err := hook.Install(); err != nil {
		return err
	}
	path, err := config.WriteDefault(cfg.StateDir)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.ErrOrStderr(), "config: %s\n", config.CompressHome(path))
	return nil
}
