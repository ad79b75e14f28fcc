// Package checkin locates today's desk reservation and checks in to it
// when the check-in window is open.
package checkin

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/example/deskbooker/internal/appspace"
	"github.com/example/deskbooker/internal/timewindow"
	"github.com/example/deskbooker/internal/token"
)

// Result is the three-way outcome of a check-in run. Early is neither
// success nor failure: the window has not opened yet and the caller
// decides the exit behavior.
type Result int

const (
	Success Result = iota
	Early
	Failed
)

func (r Result) String() string {
	switch r {
	case Success:
		return "success"
	case Early:
		return "early"
	default:
		return "failed"
	}
}

// eligible are the statuses from which the remote service accepts a
// check-in.
var eligible = map[string]bool{
	appspace.StatusCheckin: true,
	appspace.StatusPending: true,
}

// Client is the slice of the reservation API this orchestrator needs.
type Client interface {
	ListEvents(ctx context.Context, creds token.Credentials, from, to time.Time, statuses []string) []appspace.Event
	CheckIn(ctx context.Context, creds token.Credentials, eventID, resourceID string) error
}

type Orchestrator struct {
	Client Client
	Creds  token.Credentials

	ResourceID string
	DeskName   string
	Location   *time.Location

	// Window is the half-width of the check-in window around the event
	// start time.
	Window time.Duration

	Log zerolog.Logger
}

// Run attempts to check in to today's reservation for the desk.
// The error return is non-nil only for Failed results.
func (o *Orchestrator) Run(ctx context.Context, now time.Time) (Result, error) {
	localNow := now.In(o.Location)
	today := timewindow.TargetDate(now, 0, o.Location)
	from, to := timewindow.DayRange(today, o.Location)

	// No status filter: the API is unreliable about pre-filtering, so
	// eligibility is judged locally from the returned statuses.
	events := o.Client.ListEvents(ctx, o.Creds, from, to, nil)
	if len(events) == 0 {
		return Failed, fmt.Errorf("no reservations found for today")
	}

	var target *appspace.Event
	for i := range events {
		if events[i].HasResource(o.ResourceID) {
			target = &events[i]
			break
		}
	}
	if target == nil {
		return Failed, fmt.Errorf("no reservation found for desk %s", o.DeskName)
	}

	o.Log.Info().
		Str("event", target.ID).
		Str("status", target.EventStatus).
		Str("start", target.StartAt).
		Msg("found today's reservation")

	if target.EventStatus == appspace.StatusActive {
		o.Log.Info().Msg("already checked in")
		return Success, nil
	}

	if start, ok := target.StartTime(); ok {
		opens := start.Add(-o.Window).In(o.Location)
		closes := start.Add(o.Window).In(o.Location)
		switch {
		case localNow.Before(opens):
			o.Log.Info().Time("opens", opens).Msg("check-in window not open yet")
			return Early, nil
		case localNow.After(closes):
			// The service's own window enforcement is authoritative;
			// attempt anyway and let it decide.
			o.Log.Warn().Time("closed", closes).Msg("check-in window looks closed, attempting anyway")
		}
	}

	if !eligible[target.EventStatus] {
		return Failed, fmt.Errorf("cannot check in, event status is %s", target.EventStatus)
	}

	if err := o.Client.CheckIn(ctx, o.Creds, target.ID, o.ResourceID); err != nil {
		return Failed, err
	}
	o.Log.Info().Str("desk", o.DeskName).Msg("checked in")
	return Success, nil
}
