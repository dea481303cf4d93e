package models

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Precision is the grid granularity configured on the server.
type Precision int

const (
	PrecisionRough Precision = iota
	PrecisionHalfHour
	PrecisionQuarterHour
)

var precisionNames = map[Precision]string{
	PrecisionRough:       "ROUGH",
	PrecisionHalfHour:    "HALF_HOUR",
	PrecisionQuarterHour: "QUARTER_HOUR",
}

func (p Precision) String() string {
	if name, ok := precisionNames[p]; ok {
		return name
	}
	return fmt.Sprintf("Precision(%d)", int(p))
}

// IsHalfHour reports whether grid cells pair up into half-hour units.
// ROUGH has no distinct behaviour and is rendered at quarter-hour granularity.
func (p Precision) IsHalfHour() bool {
	return p == PrecisionHalfHour
}

// CellMinutes is the width of one grid cell in minutes.
func (p Precision) CellMinutes() int {
	if p.IsHalfHour() {
		return 30
	}
	return 15
}

// ParsePrecision accepts the enum names case-insensitively.
func ParsePrecision(s string) (Precision, error) {
	norm := strings.ToUpper(strings.TrimSpace(s))
	for p, name := range precisionNames {
		if name == norm {
			return p, nil
		}
	}
	return 0, fmt.Errorf("unknown time precision %q", s)
}

// UnmarshalJSON normalises both wire forms (0/1/2 and the enum names).
func (p *Precision) UnmarshalJSON(data []byte) error {
	var n int
	if err := json.Unmarshal(data, &n); err == nil {
		if _, ok := precisionNames[Precision(n)]; !ok {
			return fmt.Errorf("unknown time precision %d", n)
		}
		*p = Precision(n)
		return nil
	}

	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("time precision must be a number or string, got %s", data)
	}
	parsed, err := ParsePrecision(s)
	if err != nil {
		return err
	}
	*p = parsed
	return nil
}

func (p Precision) MarshalJSON() ([]byte, error) {
	return json.Marshal(int(p))
}

// ServerConfig is the client-relevant configuration published by the server.
type ServerConfig struct {
	MainTimePrecision Precision `json:"mainTimePrecision"`
	DisablePixelate   bool      `json:"disablePixelate"`
	SpecialTimePeriod [][2]int  `json:"specialTimePeriod"`
}
