package constants

import "time"

const (
	AppName            = "blockytime"
	DefaultKeyringUser = "api-token"
	DefaultConfigDir   = "~/.config/blockytime"
	Version            = "v0.3.0"

	// DateFormat is the standard date format used throughout the application (YYYY-MM-DD)
	DateFormat = "2006-01-02"

	// TimeFormat is the standard time format used throughout the application (HH:MM)
	TimeFormat = "15:04"

	// API defaults
	DefaultAPIBasePath = "/api/v1"
	DefaultAPIURL      = "http://localhost:5000" + DefaultAPIBasePath
	TokenEnvVar        = "BLOCKYTIME_API_TOKEN"
	DefaultTimeout     = 10 * time.Second
	RequestIDHeader    = "X-Request-ID"

	// BlockCacheTTL only de-duplicates bursts of identical reads (re-renders, refresh storms).
	BlockCacheTTL = time.Second

	// LongPressThreshold separates a tap (toggle) from a press-and-drag (range select).
	LongPressThreshold = 200 * time.Millisecond

	// Grid constants
	MinutesPerDay    = 24 * 60
	QuarterMinutes   = 15
	HalfHourMinutes  = 30
	HoursPerDay      = 24
	DefaultGridDays  = 3
	MaxGridDays      = 7
	DefaultTimezone  = "Local"
	DefaultTrendDays = 14
)
