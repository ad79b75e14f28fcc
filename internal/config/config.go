package config

import (
	"fmt"
	"os"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/google/uuid"

	"github.com/example/deskbooker/internal/timewindow"
)

const (
	DefaultPath = "deskbooker.toml"
	EnvPath     = "DESKBOOKER_CONFIG"

	defaultBaseURL       = "https://example.cloud.appspace.com/api/v3"
	defaultTimezone      = "America/New_York"
	defaultDaysAhead     = 7
	defaultStart         = "09:30"
	defaultEnd           = "17:30"
	defaultWindowMinutes = 30
	defaultLogLevel      = "info"
)

type Config struct {
	API     API     `toml:"api"`
	User    User    `toml:"user"`
	Desk    Desk    `toml:"desk"`
	Booking Booking `toml:"booking"`
	Checkin Checkin `toml:"checkin"`
	Logs    Logs    `toml:"logs"`

	// Resolved from API.Timezone in Load.
	Location *time.Location `toml:"-"`
}

type API struct {
	BaseURL  string `toml:"base_url"`
	Timezone string `toml:"timezone"`
}

type User struct {
	ID    string `toml:"id"`
	Name  string `toml:"name"`
	Email string `toml:"email"`
}

type Desk struct {
	ResourceID string `toml:"resource_id"`
	Name       string `toml:"name"`
}

type Booking struct {
	DaysAhead int    `toml:"days_ahead"`
	Start     string `toml:"start"`
	End       string `toml:"end"`
}

type Checkin struct {
	WindowMinutes   int  `toml:"window_minutes"`
	ExitZeroOnEarly bool `toml:"exit_zero_on_early"`
}

type Logs struct {
	Level string `toml:"level"`
}

func defaults() Config {
	return Config{
		API:     API{BaseURL: defaultBaseURL, Timezone: defaultTimezone},
		Booking: Booking{DaysAhead: defaultDaysAhead, Start: defaultStart, End: defaultEnd},
		Checkin: Checkin{WindowMinutes: defaultWindowMinutes},
		Logs:    Logs{Level: defaultLogLevel},
	}
}

// ResolvePath picks the config file path: explicit flag value, then the
// DESKBOOKER_CONFIG environment variable, then the default.
func ResolvePath(flagValue string) string {
	if flagValue != "" {
		return flagValue
	}
	if v := os.Getenv(EnvPath); v != "" {
		return v
	}
	return DefaultPath
}

// Load reads the TOML file at path on top of the built-in defaults and
// validates the result.
func Load(path string) (Config, error) {
	cfg := defaults()
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return Config{}, fmt.Errorf("load config %s: %w", path, err)
	}
	if err := cfg.finish(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c *Config) finish() error {
	if c.User.Name == "" && c.User.Email != "" {
		c.User.Name = localPart(c.User.Email)
	}
	loc, err := time.LoadLocation(c.API.Timezone)
	if err != nil {
		return fmt.Errorf("invalid timezone %q: %w", c.API.Timezone, err)
	}
	c.Location = loc
	return c.Validate()
}

func (c *Config) Validate() error {
	if c.API.BaseURL == "" {
		return fmt.Errorf("api.base_url is required")
	}
	if c.User.ID == "" {
		return fmt.Errorf("user.id is required")
	}
	if _, err := uuid.Parse(c.User.ID); err != nil {
		return fmt.Errorf("user.id is not a valid UUID: %w", err)
	}
	if c.User.Email == "" {
		return fmt.Errorf("user.email is required")
	}
	if c.Desk.ResourceID == "" {
		return fmt.Errorf("desk.resource_id is required")
	}
	if _, err := uuid.Parse(c.Desk.ResourceID); err != nil {
		return fmt.Errorf("desk.resource_id is not a valid UUID: %w", err)
	}
	if c.Booking.DaysAhead < 0 {
		return fmt.Errorf("booking.days_ahead must be >= 0")
	}
	start, end := c.BookingHours()
	if !lessHM(start, end) {
		return fmt.Errorf("booking.start %s must be before booking.end %s", start, end)
	}
	if c.Checkin.WindowMinutes < 1 {
		return fmt.Errorf("checkin.window_minutes must be >= 1")
	}
	return nil
}

// BookingHours returns the configured start/end of day, falling back to
// the defaults when the configured strings do not parse. The fallback is
// deliberate: a malformed override must not stop a scheduled run.
func (c *Config) BookingHours() (start, end timewindow.HourMinute) {
	var ok bool
	if start, ok = timewindow.ParseHourMinute(c.Booking.Start); !ok {
		start, _ = timewindow.ParseHourMinute(defaultStart)
	}
	if end, ok = timewindow.ParseHourMinute(c.Booking.End); !ok {
		end, _ = timewindow.ParseHourMinute(defaultEnd)
	}
	return start, end
}

// CheckinWindow returns the half-width of the check-in window.
func (c *Config) CheckinWindow() time.Duration {
	return time.Duration(c.Checkin.WindowMinutes) * time.Minute
}

func lessHM(a, b timewindow.HourMinute) bool {
	if a.Hour != b.Hour {
		return a.Hour < b.Hour
	}
	return a.Minute < b.Minute
}

func localPart(email string) string {
	for i := 0; i < len(email); i++ {
		if email[i] == '@' {
			return email[:i]
		}
	}
	return email
}
