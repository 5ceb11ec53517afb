package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"oledstat/internal/services/sabnzbd"
)

func newQueueCommand(ctx *commandContext) *cobra.Command {
	queueCmd := &cobra.Command{
		Use:   "queue",
		Short: "Control the SABnzbd download queue",
	}

	queueCmd.AddCommand(newQueueActionCommand(ctx, "pause", "Pause the SABnzbd queue", "Queue paused",
		func(c *sabnzbd.Client, cmdCtx context.Context) error { return c.Pause(cmdCtx) }))
	queueCmd.AddCommand(newQueueActionCommand(ctx, "resume", "Resume the SABnzbd queue", "Queue resumed",
		func(c *sabnzbd.Client, cmdCtx context.Context) error { return c.Resume(cmdCtx) }))

	return queueCmd
}

func newQueueActionCommand(ctx *commandContext, use, short, done string, action func(*sabnzbd.Client, context.Context) error) *cobra.Command {
	return &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.serviceConfig()
			if err != nil {
				return err
			}
			if err := action(sabnzbd.NewConfiguredClient(cfg), cmd.Context()); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), done)
			return nil
		},
	}
}
