package token

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"
)

const (
	EnvSessionToken = "APPSPACE_SESSION_TOKEN"
	EnvRefreshToken = "APPSPACE_REFRESH_TOKEN"
)

// Credentials is the in-process credential record. It is read once at
// startup and, at most, replaced once by a successful refresh.
type Credentials struct {
	SessionToken string
	RefreshToken string
}

// Load reads credentials from the environment. A missing session token
// is fatal misconfiguration; a missing refresh token is not.
func Load() (Credentials, error) {
	session := os.Getenv(EnvSessionToken)
	if session == "" {
		return Credentials{}, fmt.Errorf("%s environment variable not set", EnvSessionToken)
	}
	return Credentials{
		SessionToken: session,
		RefreshToken: os.Getenv(EnvRefreshToken),
	}, nil
}

// Inspect parses the session token without verifying it and logs the
// subject and expiry. Session tokens are not guaranteed to be JWTs, so
// parse failures only get a debug line.
func (c Credentials) Inspect(log zerolog.Logger) {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(c.SessionToken, claims); err != nil {
		log.Debug().Err(err).Msg("session token is not a parseable JWT")
		return
	}
	ev := log.Info()
	if sub, err := claims.GetSubject(); err == nil && sub != "" {
		ev = ev.Str("subject", sub)
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		ev.Msg("session token loaded")
		return
	}
	ev.Time("expires", exp.Time).Msg("session token loaded")
	switch {
	case exp.Before(time.Now()):
		log.Warn().Time("expired", exp.Time).Msg("session token is expired")
	case exp.Before(time.Now().Add(24 * time.Hour)):
		log.Warn().Time("expires", exp.Time).Msg("session token expires within 24h")
	}
}

// Refresher exchanges a refresh token for a renewed session token via
// the authorization endpoint. Best-effort only.
type Refresher struct {
	BaseURL   string
	Timezone  string
	SubjectID string
	HTTP      *http.Client
	Log       zerolog.Logger
}

type refreshRequest struct {
	SubjectID   string `json:"subjectId"`
	SubjectType string `json:"subjectType"`
	GrantType   string `json:"grantType"`
}

type refreshResponse struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

// TryRefresh returns renewed credentials on success and the original
// credentials unchanged on any failure. It never returns an error: a
// failed refresh is a warning, not a reason to abort the run.
func (r *Refresher) TryRefresh(ctx context.Context, creds Credentials) Credentials {
	if creds.RefreshToken == "" {
		return creds
	}

	body, err := json.Marshal(refreshRequest{
		SubjectID:   r.SubjectID,
		SubjectType: "UserStreaming",
		GrantType:   "createToken",
	})
	if err != nil {
		r.Log.Warn().Err(err).Msg("token refresh failed")
		return creds
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.BaseURL+"/authorization/token", bytes.NewReader(body))
	if err != nil {
		r.Log.Warn().Err(err).Msg("token refresh failed")
		return creds
	}
	req.Header.Set("Content-Type", "application/json;charset=UTF-8")
	req.Header.Set("Accept", "application/json, text/plain, */*")
	req.Header.Set("token", creds.SessionToken)
	req.Header.Set("x-appspace-request-timezone", r.Timezone)

	res, err := r.HTTP.Do(req)
	if err != nil {
		r.Log.Warn().Err(err).Msg("token refresh failed")
		return creds
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(res.Body)
		r.Log.Warn().Int("status", res.StatusCode).Str("body", string(b)).Msg("token refresh rejected")
		return creds
	}

	var rr refreshResponse
	if err := json.NewDecoder(res.Body).Decode(&rr); err != nil {
		r.Log.Warn().Err(err).Msg("token refresh response undecodable")
		return creds
	}

	renewed := creds
	if rr.AccessToken != "" {
		renewed.SessionToken = rr.AccessToken
	}
	if rr.RefreshToken != "" {
		renewed.RefreshToken = rr.RefreshToken
	}
	r.Log.Info().Msg("session token refreshed")
	return renewed
}
