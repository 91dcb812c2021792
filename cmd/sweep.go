package cmd

import (
	"io"
	"time"

	"cinema-ticketing/internal/cache"
	"cinema-ticketing/internal/event"
	"cinema-ticketing/internal/usecase"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

var olderThan time.Duration

var sweepCmd = &cobra.Command{
	Use:   "sweep",
	Short: "Run one-off booking maintenance",
}

var cancelPendingCmd = &cobra.Command{
	Use:   "cancel-pending",
	Short: "Cancel pending bookings and release their seats",
	Long: `Cancels every pending booking, or only those older than --older-than.
Each booking is handled on its own; one failure does not stop the rest.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runSweep(cmd, func(svc *usecase.Service) (*usecase.BatchResult, error) {
			if olderThan > 0 {
				return svc.Booking.CancelPendingOlderThan(cmd.Context(), olderThan)
			}
			return svc.Booking.CancelAllPending(cmd.Context())
		})
	},
}

var clearCancelledCmd = &cobra.Command{
	Use:   "clear-cancelled",
	Short: "Delete cancelled bookings that hold no seats",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runSweep(cmd, func(svc *usecase.Service) (*usecase.BatchResult, error) {
			return svc.Booking.ClearCancelledBookings(cmd.Context())
		})
	},
}

func init() {
	cancelPendingCmd.Flags().DurationVar(&olderThan, "older-than", 0, "only bookings created at least this long ago, e.g. 15m")
	sweepCmd.AddCommand(cancelPendingCmd, clearCancelledCmd)
}

func runSweep(cmd *cobra.Command, run func(*usecase.Service) (*usecase.BatchResult, error)) error {
	rt, err := bootstrap(cmd.Context())
	if err != nil {
		return err
	}
	defer rt.Close()

	redisClient := cache.NewRedisClient(rt.config.Redis, rt.log)
	if redisClient != nil {
		defer redisClient.Close()
	}
	publisher := event.New(rt.config.Event, rt.log)
	defer publisher.Close()

	svc := usecase.NewService(rt.repo, cache.NewSeatCache(redisClient, rt.config.Redis.TTL, rt.log), publisher, rt.config, rt.log)

	result, err := run(svc)
	if result == nil {
		return err
	}
	renderBatch(cmd.OutOrStdout(), result)
	return err
}

// renderBatch prints one row per booking the batch looked at.
func renderBatch(out io.Writer, result *usecase.BatchResult) {
	t := table.NewWriter()
	t.SetOutputMirror(out)
	t.AppendHeader(table.Row{"Booking", "Outcome", "Error"})
	t.SetColumnConfigs([]table.ColumnConfig{
		{Number: 3, WidthMax: 60},
	})

	for _, id := range result.Succeeded {
		t.AppendRow(table.Row{id, "done", ""})
	}
	for _, id := range result.Skipped {
		t.AppendRow(table.Row{id, "skipped", ""})
	}
	for _, f := range result.Failed {
		t.AppendRow(table.Row{f.BookingID, "failed", f.Err.Error()})
	}
	t.AppendFooter(table.Row{"Total", len(result.Succeeded) + len(result.Skipped) + len(result.Failed), ""})
	t.Render()
}
