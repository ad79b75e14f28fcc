package cmd

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/example/deskbooker/internal/appspace"
	"github.com/example/deskbooker/internal/booking"
	"github.com/example/deskbooker/internal/timewindow"
)

type bookOptions struct {
	daysAhead int
	start     string
	end       string
}

func addBookFlags(cmd *cobra.Command, o *bookOptions) {
	cmd.Flags().IntVar(&o.daysAhead, "days-ahead", -1, "book this many days ahead (default from config)")
	cmd.Flags().StringVar(&o.start, "start", "", "reservation start HH:MM (default from config)")
	cmd.Flags().StringVar(&o.end, "end", "", "reservation end HH:MM (default from config)")
}

func newBookCmd() *cobra.Command {
	var opts bookOptions
	c := &cobra.Command{
		Use:   "book",
		Short: "Book the desk for the target day",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBook(cmd, opts)
		},
	}
	addBookFlags(c, &opts)
	return c
}

func runBook(cmd *cobra.Command, opts bookOptions) error {
	ctx := cmd.Context()
	env, err := setup(ctx, cmd, "book")
	if err != nil {
		return err
	}

	daysAhead := env.cfg.Booking.DaysAhead
	if opts.daysAhead >= 0 {
		daysAhead = opts.daysAhead
	}
	start, end := env.cfg.BookingHours()
	start = overrideHourMinute(env, "start", opts.start, start)
	end = overrideHourMinute(env, "end", opts.end, end)

	o := &booking.Orchestrator{
		Client: env.client,
		Creds:  env.creds,
		Organizer: appspace.Organizer{
			ID:    env.cfg.User.ID,
			Name:  env.cfg.User.Name,
			Email: env.cfg.User.Email,
		},
		ResourceID: env.cfg.Desk.ResourceID,
		DeskName:   env.cfg.Desk.Name,
		Location:   env.cfg.Location,
		DaysAhead:  daysAhead,
		Start:      start,
		End:        end,
		Log:        env.log,
	}
	return o.Run(ctx, time.Now())
}

// overrideHourMinute applies a flag value over the configured one,
// keeping the fallback when the flag is absent or malformed.
func overrideHourMinute(env runEnv, name, value string, fallback timewindow.HourMinute) timewindow.HourMinute {
	if value == "" {
		return fallback
	}
	hm, ok := timewindow.ParseHourMinute(value)
	if !ok {
		env.log.Warn().Str("flag", name).Str("value", value).Msg("ignoring malformed HH:MM flag")
		return fallback
	}
	return hm
}
