package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"oledstat/internal/display"
)

func newPrintCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "print [line...]",
		Short: "Draw up to four lines of text once and exit",
		Long: "Clear the display and draw the given lines at fixed positions.\n" +
			"Missing lines are left blank and extra lines are ignored. The text stays on\n" +
			"the display after the command exits.",
		Args: cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			screen, err := display.Open(cfg.Display, cmd.OutOrStdout())
			if err != nil {
				return fmt.Errorf("open display: %w", err)
			}
			defer screen.Close()

			if err := display.ShowStandalone(screen, args); err != nil {
				return fmt.Errorf("draw: %w", err)
			}
			return nil
		},
	}
}
