package cmd

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/jasurbek-jolanboyev/drivesmart-uzbekistan/internal/store"
)

var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Reset learner progress and statistics",
	Long: "Clear all question progress and statistics. Settings are kept.\n" +
		"A snapshot is saved first and can be brought back with --undo.",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		yes, _ := cmd.Flags().GetBool("yes")
		undo, _ := cmd.Flags().GetBool("undo")

		a, err := openApp(ctx, appConfig)
		if err != nil {
			return err
		}
		defer a.Close()

		snaps := a.store.SnapshotRepo()
		if undo {
			snap, err := snaps.Latest(ctx)
			if err != nil {
				return fmt.Errorf("load snapshot: %w", err)
			}
			if snap == nil {
				return errors.New("no snapshot to restore")
			}
			if err := store.Restore(ctx, snap, a.progress, a.store.StatsRepo()); err != nil {
				return fmt.Errorf("restore snapshot: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Restored %d question records from %s.\n",
				len(snap.Data.Progress), snap.Timestamp.Local().Format("2006-01-02 15:04"))
			return nil
		}

		if !yes {
			return errors.New("this deletes all progress; run again with --yes to confirm")
		}
		if err := store.Reset(ctx, a.progress, a.store.StatsRepo(), snaps, time.Now()); err != nil {
			return fmt.Errorf("reset: %w", err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), "Progress reset. Run `drivesmart reset --undo` to restore it.")
		return nil
	},
}

func init() {
	resetCmd.Flags().Bool("yes", false, "Confirm the reset")
	resetCmd.Flags().Bool("undo", false, "Restore the most recent snapshot")
}
