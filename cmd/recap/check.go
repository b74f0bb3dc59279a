package main

import (
	"fmt"
	"os"

	"github.com/cockroachdb/errors"
	"github.com/spf13/cobra"

	"github.com/suykerbuyk/recap/internal/check"
	"github.com/suykerbuyk/recap/internal/help"
)

var checkDir string

var checkCmd = newCommand(help.CmdCheck, runCheck)

func init() {
	checkCmd.Args = cobra.NoArgs
	checkCmd.Flags().StringVar(&checkDir, "dir", "", "Working tree to check (default: current directory)")
	rootCmd.AddCommand(checkCmd)
}

func runCheck(cmd *cobra.Command, args []string) error {
	dir := checkDir
	if dir == "" {
		var err error
		if dir, err = os.Getwd(); err != nil {
			return errors.Wrap(err, "get working directory")
		}
	}

	report := check.Run(cmd.Context(), cfg, dir)
	fmt.Fprint(cmd.OutOrStdout(), report.Format())
	if report.HasFailures() {
		return &exitError{code: 1}
	}
	return nil
}
