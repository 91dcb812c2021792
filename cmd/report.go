package cmd

import (
	"io"
	"time"

	"cinema-ticketing/internal/data/entity"
	"cinema-ticketing/internal/usecase"
	"cinema-ticketing/pkg/utils"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Print listings from the store",
}

var pendingUsersCmd = &cobra.Command{
	Use:   "pending-users",
	Short: "Users holding at least one pending booking",
	RunE: func(cmd *cobra.Command, args []string) error {
		rt, err := bootstrap(cmd.Context())
		if err != nil {
			return err
		}
		defer rt.Close()

		users, err := usecase.NewReportService(rt.repo, rt.log).UsersWithPendingBookings(cmd.Context())
		if err != nil {
			return err
		}
		renderUsers(cmd.OutOrStdout(), users)
		return nil
	},
}

var showsAtCmd = &cobra.Command{
	Use:   "shows-at DATE TIME",
	Short: "Shows starting at an exact moment, e.g. shows-at 2024-06-01 18:30:00",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		date, err := utils.ParseDate(args[0])
		if err != nil {
			return err
		}
		clock, err := utils.ParseClock(args[1])
		if err != nil {
			return err
		}
		startsAt := date.Add(clock)

		rt, err := bootstrap(cmd.Context())
		if err != nil {
			return err
		}
		defer rt.Close()

		listings, err := usecase.NewReportService(rt.repo, rt.log).ShowsStartingAt(cmd.Context(), startsAt)
		if err != nil {
			return err
		}
		renderShows(cmd.OutOrStdout(), listings)
		return nil
	},
}

var moviesCmd = &cobra.Command{
	Use:   "movies",
	Short: "Movies whose title contains a phrase, released on or after a date",
	RunE: func(cmd *cobra.Command, args []string) error {
		title, _ := cmd.Flags().GetString("title")
		raw, _ := cmd.Flags().GetString("released-after")
		after, err := utils.ParseDate(raw)
		if err != nil {
			return err
		}

		rt, err := bootstrap(cmd.Context())
		if err != nil {
			return err
		}
		defer rt.Close()

		movies, err := usecase.NewReportService(rt.repo, rt.log).MoviesByTitleReleasedAfter(cmd.Context(), title, after)
		if err != nil {
			return err
		}
		renderMovies(cmd.OutOrStdout(), movies)
		return nil
	},
}

func init() {
	moviesCmd.Flags().String("title", "love", "case-insensitive title phrase")
	moviesCmd.Flags().String("released-after", "2010-01-01", "earliest release date, inclusive")
	reportCmd.AddCommand(pendingUsersCmd, showsAtCmd, moviesCmd)
}

func renderUsers(out io.Writer, users []*entity.User) {
	t := table.NewWriter()
	t.SetOutputMirror(out)
	t.AppendHeader(table.Row{"ID", "Name", "Email"})
	for _, u := range users {
		t.AppendRow(table.Row{u.ID, u.Name, u.Email})
	}
	t.Render()
}

func renderShows(out io.Writer, listings []entity.ShowListing) {
	rowConfigAutoMerge := table.RowConfig{AutoMerge: true}
	t := table.NewWriter()
	t.SetOutputMirror(out)
	t.AppendHeader(table.Row{"Cinema", "Theater", "Movie", "Starts", "Ends"}, rowConfigAutoMerge)
	t.SetColumnConfigs([]table.ColumnConfig{
		{Number: 1, AutoMerge: true, WidthMax: 20},
	})
	for _, l := range listings {
		t.AppendRow(table.Row{
			l.CinemaName,
			l.TheaterName,
			l.MovieTitle,
			l.StartsAt.Format(time.TimeOnly),
			l.EndsAt.Format(time.TimeOnly),
		}, rowConfigAutoMerge)
	}
	t.Render()
}

func renderMovies(out io.Writer, movies []*entity.Movie) {
	t := table.NewWriter()
	t.SetOutputMirror(out)
	t.AppendHeader(table.Row{"ID", "Title", "Released", "Runtime", "Language"})
	for _, m := range movies {
		t.AppendRow(table.Row{m.ID, m.Title, m.ReleaseDate.Format(time.DateOnly), m.Duration(), m.Language})
	}
	t.AppendFooter(table.Row{"", "Total", len(movies)})
	t.Render()
}
