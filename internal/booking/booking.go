// Package booking decides whether and how to create the desk
// reservation for the target day.
package booking

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/example/deskbooker/internal/appspace"
	"github.com/example/deskbooker/internal/timewindow"
	"github.com/example/deskbooker/internal/token"
)

// Client is the slice of the reservation API this orchestrator needs.
type Client interface {
	ListEvents(ctx context.Context, creds token.Credentials, from, to time.Time, statuses []string) []appspace.Event
	LockResource(ctx context.Context, creds token.Credentials, resourceID string, from, to time.Time) bool
	CreateReservation(ctx context.Context, creds token.Credentials, w timewindow.Window, resourceID string, org appspace.Organizer) appspace.CreateResult
}

type Orchestrator struct {
	Client    Client
	Creds     token.Credentials
	Organizer appspace.Organizer

	ResourceID string
	DeskName   string
	Location   *time.Location
	DaysAhead  int
	Start      timewindow.HourMinute
	End        timewindow.HourMinute

	Log zerolog.Logger
}

// Run executes one booking attempt. A nil return covers genuine
// creation as well as the deliberate no-ops (weekend, already booked,
// conflict reconciled to our own reservation).
func (o *Orchestrator) Run(ctx context.Context, now time.Time) error {
	date := timewindow.TargetDate(now, o.DaysAhead, o.Location)

	if !timewindow.IsWeekday(date) {
		o.Log.Info().Str("date", date.Format("2006-01-02")).Stringer("weekday", date.Weekday()).
			Msg("skipping weekend, nothing to book")
		return nil
	}

	if ev, ok := o.existingReservation(ctx, date); ok {
		o.Log.Info().Str("date", date.Format("2006-01-02")).Str("event", ev.ID).Str("desk", o.DeskName).
			Msg("reservation already exists, skipping")
		return nil
	}

	w := timewindow.BuildWindow(date, o.Start, o.End, o.Location)
	o.Log.Info().
		Str("desk", o.DeskName).
		Str("date", date.Format("Monday, January 2, 2006")).
		Str("start", timewindow.FormatAPI(w.StartUTC)).
		Str("end", timewindow.FormatAPI(w.EndUTC)).
		Msg("booking desk")

	// Advisory only; a refused lock must not stop the attempt.
	o.Client.LockResource(ctx, o.Creds, o.ResourceID, w.StartUTC, w.EndUTC)

	res := o.Client.CreateReservation(ctx, o.Creds, w, o.ResourceID, o.Organizer)
	switch res.Kind {
	case appspace.CreateCreated:
		o.Log.Info().Str("reservation", res.ID).Str("status", res.Status).Msg("reservation created")
		return nil

	case appspace.CreateConflict:
		// A 409 does not prove a third party holds the desk; the
		// service reports conflict even when we already do. Re-check.
		o.Log.Warn().Str("body", res.Body).Msg("conflict reported, reconciling")
		if ev, ok := o.existingReservation(ctx, date); ok {
			o.Log.Info().Str("event", ev.ID).Msg("conflict reconciled to our own reservation")
			return nil
		}
		return fmt.Errorf("desk %s is taken on %s", o.DeskName, date.Format("2006-01-02"))

	case appspace.CreateUnauthorized:
		return fmt.Errorf("unauthorized: session token rejected, re-capture %s", token.EnvSessionToken)

	case appspace.CreateTransportError:
		return fmt.Errorf("reservation request failed: %w", res.Err)

	default:
		return fmt.Errorf("reservation rejected (status=%d): %s", res.HTTPStatus, res.Body)
	}
}

func (o *Orchestrator) existingReservation(ctx context.Context, date time.Time) (appspace.Event, bool) {
	from, to := timewindow.DayRange(date, o.Location)
	for _, ev := range o.Client.ListEvents(ctx, o.Creds, from, to, appspace.BookingStatuses) {
		if ev.HasResource(o.ResourceID) {
			return ev, true
		}
	}
	return appspace.Event{}, false
}
