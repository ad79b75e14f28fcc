package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/example/deskbooker/internal/timewindow"
)

const validConfig = `
[api]
base_url = "https://corp.cloud.appspace.com/api/v3"
timezone = "America/New_York"

[user]
id    = "0b7f4f61-7d08-4d14-b748-10359ab2bcf5"
email = "jane.doe@example.com"

[desk]
resource_id = "3a1b388a-08ec-4e16-acde-cebd64ebc86d"
name        = "08W-125-G"

[booking]
days_ahead = 5
start      = "08:00"
end        = "16:00"
`

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "deskbooker.toml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoad(t *testing.T) {
	cfg, err := Load(writeConfig(t, validConfig))
	require.NoError(t, err)

	require.Equal(t, "https://corp.cloud.appspace.com/api/v3", cfg.API.BaseURL)
	require.Equal(t, 5, cfg.Booking.DaysAhead)
	require.Equal(t, "08W-125-G", cfg.Desk.Name)
	require.NotNil(t, cfg.Location)
	require.Equal(t, "America/New_York", cfg.Location.String())

	// name defaults to the email local part
	require.Equal(t, "jane.doe", cfg.User.Name)

	start, end := cfg.BookingHours()
	require.Equal(t, timewindow.HourMinute{Hour: 8}, start)
	require.Equal(t, timewindow.HourMinute{Hour: 16}, end)

	// untouched sections keep defaults
	require.Equal(t, 30, cfg.Checkin.WindowMinutes)
	require.False(t, cfg.Checkin.ExitZeroOnEarly)
	require.Equal(t, "info", cfg.Logs.Level)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.toml"))
	require.Error(t, err)
}

func TestValidateErrors(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*Config)
	}{
		{"missing user id", func(c *Config) { c.User.ID = "" }},
		{"user id not uuid", func(c *Config) { c.User.ID = "jane" }},
		{"missing email", func(c *Config) { c.User.Email = "" }},
		{"missing resource id", func(c *Config) { c.Desk.ResourceID = "" }},
		{"resource id not uuid", func(c *Config) { c.Desk.ResourceID = "desk-1" }},
		{"negative days ahead", func(c *Config) { c.Booking.DaysAhead = -1 }},
		{"start after end", func(c *Config) { c.Booking.Start = "18:00"; c.Booking.End = "09:00" }},
		{"zero checkin window", func(c *Config) { c.Checkin.WindowMinutes = 0 }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg, err := Load(writeConfig(t, validConfig))
			require.NoError(t, err)
			tc.mutate(&cfg)
			require.Error(t, cfg.Validate())
		})
	}
}

func TestBookingHoursFallback(t *testing.T) {
	cfg, err := Load(writeConfig(t, validConfig))
	require.NoError(t, err)

	cfg.Booking.Start = "25:99"
	cfg.Booking.End = "garbage"
	start, end := cfg.BookingHours()
	require.Equal(t, timewindow.HourMinute{Hour: 9, Minute: 30}, start)
	require.Equal(t, timewindow.HourMinute{Hour: 17, Minute: 30}, end)
}

func TestResolvePath(t *testing.T) {
	require.Equal(t, "explicit.toml", ResolvePath("explicit.toml"))

	t.Setenv(EnvPath, "/etc/deskbooker.toml")
	require.Equal(t, "/etc/deskbooker.toml", ResolvePath(""))

	t.Setenv(EnvPath, "")
	require.Equal(t, DefaultPath, ResolvePath(""))
}
