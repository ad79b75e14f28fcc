package appspace

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/example/deskbooker/internal/timewindow"
	"github.com/example/deskbooker/internal/token"
)

// Client talks to the Appspace reservation API using a session token
// captured from an authenticated browser session.
type Client struct {
	baseURL  string
	timezone string
	hc       *http.Client
	log      zerolog.Logger
}

func New(baseURL, timezone string, log zerolog.Logger) *Client {
	return &Client{
		baseURL:  strings.TrimRight(baseURL, "/"),
		timezone: timezone,
		hc:       &http.Client{Timeout: 30 * time.Second},
		log:      log,
	}
}

type eventsResponse struct {
	Items []Event `json:"items"`
}

// ListEvents fetches the authenticated user's events in [from, to].
// Any failure yields an empty slice; list queries are advisory and the
// orchestrators treat "no events" and "could not list" the same way.
func (c *Client) ListEvents(ctx context.Context, creds token.Credentials, from, to time.Time, statuses []string) []Event {
	query := map[string]string{
		"sort":                "startAt",
		"includesourceobject": "true",
		"startAt":             timewindow.FormatAPI(from),
		"endAt":               timewindow.FormatAPI(to),
		"page":                "1",
		"start":               "0",
		"limit":               "20",
		"pagecount":           "20",
	}
	if len(statuses) > 0 {
		query["status"] = strings.Join(statuses, ", ")
	}

	status, body, err := c.do(ctx, creds, http.MethodGet, "/reservation/users/me/events", query, nil)
	if err != nil {
		c.log.Warn().Err(err).Msg("could not list events")
		return nil
	}
	if status != http.StatusOK {
		c.log.Warn().Int("status", status).Str("body", string(body)).Msg("event list rejected")
		return nil
	}

	var res eventsResponse
	if err := json.Unmarshal(body, &res); err != nil {
		c.log.Warn().Err(err).Msg("event list undecodable")
		return nil
	}
	return res.Items
}

type lockRequest struct {
	ResourceIDs []string `json:"resourceIds"`
	From        string   `json:"from"`
	To          string   `json:"to"`
}

// LockResource places a best-effort advisory lock on the resource for
// the window. Failure never blocks reservation creation.
func (c *Client) LockResource(ctx context.Context, creds token.Credentials, resourceID string, from, to time.Time) bool {
	body, err := json.Marshal(lockRequest{
		ResourceIDs: []string{resourceID},
		From:        timewindow.FormatAPI(from),
		To:          timewindow.FormatAPI(to),
	})
	if err != nil {
		c.log.Warn().Err(err).Msg("lock request failed")
		return false
	}
	status, resBody, err := c.do(ctx, creds, http.MethodPost, "/reservation/locks/resources", nil, body)
	if err != nil {
		c.log.Warn().Err(err).Msg("lock request failed")
		return false
	}
	if status != http.StatusNoContent {
		c.log.Warn().Int("status", status).Str("body", string(resBody)).Msg("resource lock refused")
		return false
	}
	c.log.Info().Str("resource", resourceID).Msg("resource locked")
	return true
}

// Organizer identifies the reservation owner.
type Organizer struct {
	ID    string
	Name  string
	Email string
}

type attendee struct {
	DisplayName    string   `json:"displayName"`
	Email          string   `json:"email"`
	ResourceIDs    []string `json:"resourceIds"`
	AttendanceType string   `json:"attendanceType"`
	UserID         string   `json:"userId"`
	ID             string   `json:"id"`
}

type createRequest struct {
	ResourceIDs      []string   `json:"resourceIds"`
	EffectiveStartAt string     `json:"effectiveStartAt"`
	EffectiveEndAt   string     `json:"effectiveEndAt"`
	Organizer        organizer  `json:"organizer"`
	Sensitivity      string     `json:"sensitivity"`
	AvailabilityType string     `json:"organizerAvailabilityType"`
	Attendees        []attendee `json:"attendees"`
	Visitors         []struct{} `json:"visitors"`
	VisitPurpose     string     `json:"visitPurpose"`
	IsAllDay         bool       `json:"isAllDay"`
	StartTimeZone    string     `json:"startTimeZone"`
	EndTimeZone      string     `json:"endTimeZone"`
}

type organizer struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type createResponse struct {
	ID     string `json:"id"`
	Status string `json:"status"`
}

// CreateReservation books resourceID for the window on behalf of org.
// The outcome is classified, never raised: callers branch on Kind.
func (c *Client) CreateReservation(ctx context.Context, creds token.Credentials, w timewindow.Window, resourceID string, org Organizer) CreateResult {
	payload := createRequest{
		ResourceIDs:      []string{resourceID},
		EffectiveStartAt: timewindow.FormatAPI(w.StartUTC),
		EffectiveEndAt:   timewindow.FormatAPI(w.EndUTC),
		Organizer:        organizer{ID: org.ID, Name: org.Name},
		Sensitivity:      "Public",
		AvailabilityType: "Busy",
		Attendees: []attendee{{
			DisplayName:    org.Name,
			Email:          org.Email,
			ResourceIDs:    []string{resourceID},
			AttendanceType: "InPerson",
			UserID:         org.ID,
			ID:             org.ID,
		}},
		Visitors:      []struct{}{},
		IsAllDay:      false,
		StartTimeZone: c.timezone,
		EndTimeZone:   c.timezone,
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return CreateResult{Kind: CreateTransportError, Err: err}
	}

	status, resBody, err := c.do(ctx, creds, http.MethodPost, "/reservation/reservations", nil, body)
	if err != nil {
		return CreateResult{Kind: CreateTransportError, Err: err}
	}

	switch status {
	case http.StatusCreated:
		var res createResponse
		_ = json.Unmarshal(resBody, &res)
		return CreateResult{Kind: CreateCreated, ID: res.ID, Status: res.Status}
	case http.StatusConflict:
		return CreateResult{Kind: CreateConflict, HTTPStatus: status, Body: string(resBody)}
	case http.StatusUnauthorized:
		return CreateResult{Kind: CreateUnauthorized, HTTPStatus: status, Body: string(resBody)}
	default:
		return CreateResult{Kind: CreateFailed, HTTPStatus: status, Body: string(resBody)}
	}
}

type checkinRequest struct {
	ResourceIDs []string `json:"resourceIds"`
}

// CheckIn submits a check-in for the event. The API acknowledges with
// 202 Accepted.
func (c *Client) CheckIn(ctx context.Context, creds token.Credentials, eventID, resourceID string) error {
	body, err := json.Marshal(checkinRequest{ResourceIDs: []string{resourceID}})
	if err != nil {
		return err
	}
	status, resBody, err := c.do(ctx, creds, http.MethodPost, "/reservation/events/"+eventID+"/checkin", nil, body)
	if err != nil {
		return fmt.Errorf("check-in request failed: %w", err)
	}
	if status != http.StatusAccepted {
		return fmt.Errorf("check-in rejected (status=%d): %s", status, string(resBody))
	}
	return nil
}

func (c *Client) do(ctx context.Context, creds token.Credentials, method, path string, query map[string]string, body []byte) (int, []byte, error) {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return 0, nil, err
	}
	req.Header.Set("Accept", "application/json, text/plain, */*")
	req.Header.Set("token", creds.SessionToken)
	req.Header.Set("x-appspace-request-timezone", c.timezone)
	if body != nil {
		req.Header.Set("Content-Type", "application/json;charset=UTF-8")
	}

	if query != nil {
		q := req.URL.Query()
		for k, v := range query {
			q.Set(k, v)
		}
		req.URL.RawQuery = q.Encode()
	}

	res, err := c.hc.Do(req)
	if err != nil {
		return 0, nil, err
	}
	defer res.Body.Close()
	b, err := io.ReadAll(res.Body)
	if err != nil {
		return res.StatusCode, nil, err
	}
	return res.StatusCode, b, nil
}
