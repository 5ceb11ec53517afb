package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"oledstat/internal/services/sabnzbd"
	"oledstat/internal/services/tautulli"
	"oledstat/internal/status"
)

func newStatusCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Fetch SABnzbd and Tautulli once and show what the display would draw",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.serviceConfig()
			if err != nil {
				return err
			}

			var (
				queue    *sabnzbd.QueueState
				activity *tautulli.Activity
			)
			group, groupCtx := errgroup.WithContext(cmd.Context())
			group.Go(func() error {
				q, err := sabnzbd.NewConfiguredClient(cfg).Queue(groupCtx)
				if err != nil {
					return fmt.Errorf("sabnzbd: %w", err)
				}
				queue = q
				return nil
			})
			group.Go(func() error {
				a, err := tautulli.NewConfiguredClient(cfg).Activity(groupCtx)
				if err != nil {
					return fmt.Errorf("tautulli: %w", err)
				}
				activity = a
				return nil
			})
			if err := group.Wait(); err != nil {
				return err
			}

			lines, err := status.Compose(queue, activity)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			writeStatusReport(out, lines, queue, activity, shouldColorize(out))
			return nil
		},
	}
}

func writeStatusReport(out io.Writer, lines status.Lines, queue *sabnzbd.QueueState, activity *tautulli.Activity, colorize bool) {
	for _, line := range renderSectionHeader("Display", colorize) {
		fmt.Fprintln(out, line)
	}
	for _, line := range lines.Array() {
		fmt.Fprintf(out, "%s%q\n", statusIndent, line)
	}
	fmt.Fprintln(out)

	for _, line := range renderSectionHeader("SABnzbd", colorize) {
		fmt.Fprintln(out, line)
	}
	queueKind := statusInfo
	switch {
	case queue.IsDownloading():
		queueKind = statusOK
	case queue.Paused():
		queueKind = statusWarn
	}
	fmt.Fprintln(out, renderStatusLine("Status", queueKind, queue.Status(), colorize))
	if queue.IsDownloading() {
		fmt.Fprintln(out, renderStatusLine("Speed", statusInfo, strings.TrimSpace(queue.Speed()), colorize))
		fmt.Fprintln(out, renderStatusLine("Remaining", statusInfo, fmt.Sprintf("%s (%s)", queue.TimeLeft(), queue.SizeLeft()), colorize))
	}
	if slots := queue.Slots(); len(slots) > 0 {
		rows := make([][]string, 0, len(slots))
		for _, slot := range slots {
			rows = append(rows, []string{slot.Filename, slot.Status, slot.Percentage + "%", slot.TimeLeft, slot.SizeLeft})
		}
		fmt.Fprintln(out, renderTable(
			[]string{"Name", "Status", "Done", "Time Left", "Size Left"},
			rows,
			[]columnAlignment{alignLeft, alignLeft, alignRight, alignRight, alignRight},
		))
	}
	fmt.Fprintln(out)

	for _, line := range renderSectionHeader("Tautulli", colorize) {
		fmt.Fprintln(out, line)
	}
	fmt.Fprintln(out, renderStatusLine("Streams", statusInfo, fmt.Sprintf("%d (%d playing)", activity.StreamCount(), activity.ActiveStreams()), colorize))
	if sessions := activity.Sessions(); len(sessions) > 0 {
		rows := make([][]string, 0, len(sessions))
		for _, s := range sessions {
			rows = append(rows, []string{s.FriendlyName, s.FullTitle, s.State, s.Player, s.ProgressPercent + "%"})
		}
		fmt.Fprintln(out, renderTable(
			[]string{"User", "Title", "State", "Player", "Progress"},
			rows,
			[]columnAlignment{alignLeft, alignLeft, alignLeft, alignLeft, alignRight},
		))
	}
}
