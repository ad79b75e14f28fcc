package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/example/deskbooker/internal/checkin"
)

func newCheckinCmd() *cobra.Command {
	var exitZeroOnEarly bool
	c := &cobra.Command{
		Use:   "checkin",
		Short: "Check in to today's desk reservation",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			env, err := setup(ctx, cmd, "checkin")
			if err != nil {
				return err
			}

			o := &checkin.Orchestrator{
				Client:     env.client,
				Creds:      env.creds,
				ResourceID: env.cfg.Desk.ResourceID,
				DeskName:   env.cfg.Desk.Name,
				Location:   env.cfg.Location,
				Window:     env.cfg.CheckinWindow(),
				Log:        env.log,
			}

			res, err := o.Run(ctx, time.Now())
			switch res {
			case checkin.Success:
				return nil
			case checkin.Early:
				// Exiting non-zero here is deliberate: it makes the
				// external scheduler retry once the window opens.
				if exitZeroOnEarly || env.cfg.Checkin.ExitZeroOnEarly {
					env.log.Info().Msg("too early to check in, exiting clean")
					return nil
				}
				return fmt.Errorf("check-in window not open yet, retry later")
			default:
				return err
			}
		},
	}
	c.Flags().BoolVar(&exitZeroOnEarly, "exit-zero-on-early", false, "exit 0 when the check-in window has not opened yet")
	return c
}
