package main

import (
	"github.com/spf13/cobra"

	"github.com/suykerbuyk/recap/internal/help"
	"github.com/suykerbuyk/recap/internal/hook"
)

var hookOpts hook.Options

var hookCmd = newCommand(help.CmdHook, func(cmd *cobra.Command, args []string) error {
	return hook.Handle(cmd.Context(), cfg, hookOpts, logger)
})

func init() {
	hookCmd.Args = cobra.NoArgs
	hookCmd.Flags().StringVar(&hookOpts.Event, "event", "", "Override the hook event type (default: read from stdin)")
	hookCmd.Flags().BoolVar(&hookOpts.Chat, "chat", false, "Export the session transcript to chat.json in the hook log dir")
	rootCmd.AddCommand(hookCmd)
}
