// Package blockid identifies a single quarter-hour cell of the time grid and
// encodes it as the string key used by the selection set.
package blockid

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/julianstephens/blockytime/internal/constants"
)

var (
	// ErrMalformedKey is returned when a key does not have the date-hour-minute shape.
	ErrMalformedKey = errors.New("malformed block key")
	// ErrOutOfRange is returned when a key is well formed but names a cell that cannot exist.
	ErrOutOfRange = errors.New("block key out of range")
)

// ID is one quarter-hour cell. The date is zone-naive (YYYY-MM-DD).
type ID struct {
	Date   string
	Hour   int
	Minute int
}

// New builds an ID and validates it.
func New(date string, hour, minute int) (ID, error) {
	id := ID{Date: date, Hour: hour, Minute: minute}
	if err := id.Validate(); err != nil {
		return ID{}, err
	}
	return id, nil
}

// Format returns the canonical key "{date}-{hour}-{minute}". Hour and minute
// are not zero padded.
func Format(id ID) string {
	return id.Date + "-" + strconv.Itoa(id.Hour) + "-" + strconv.Itoa(id.Minute)
}

// Key is shorthand for Format(id).
func (id ID) Key() string {
	return Format(id)
}

func (id ID) String() string {
	return fmt.Sprintf("%s %02d:%02d", id.Date, id.Hour, id.Minute)
}

// Parse is the inverse of Format. The date segment itself contains two
// hyphens, so a valid key splits into exactly five parts.
func Parse(key string) (ID, error) {
	parts := strings.Split(key, "-")
	if len(parts) != 5 {
		return ID{}, fmt.Errorf("%w: %q has %d segments, want 5", ErrMalformedKey, key, len(parts))
	}

	date := parts[0] + "-" + parts[1] + "-" + parts[2]
	hour, err := strconv.Atoi(parts[3])
	if err != nil {
		return ID{}, fmt.Errorf("%w: %q: invalid hour %q", ErrMalformedKey, key, parts[3])
	}
	minute, err := strconv.Atoi(parts[4])
	if err != nil {
		return ID{}, fmt.Errorf("%w: %q: invalid minute %q", ErrMalformedKey, key, parts[4])
	}

	id := ID{Date: date, Hour: hour, Minute: minute}
	if err := id.Validate(); err != nil {
		return ID{}, fmt.Errorf("%q: %w", key, err)
	}
	return id, nil
}

// MustParse is like Parse but panics on error.
func MustParse(key string) ID {
	id, err := Parse(key)
	if err != nil {
		panic(err)
	}
	return id
}

// Validate reports whether the ID names a real quarter-hour cell.
func (id ID) Validate() error {
	if _, err := time.Parse(constants.DateFormat, id.Date); err != nil {
		return fmt.Errorf("%w: date %q is not YYYY-MM-DD", ErrMalformedKey, id.Date)
	}
	if id.Hour < 0 || id.Hour >= constants.HoursPerDay {
		return fmt.Errorf("%w: hour %d", ErrOutOfRange, id.Hour)
	}
	switch id.Minute {
	case 0, 15, 30, 45:
	default:
		return fmt.Errorf("%w: minute %d", ErrOutOfRange, id.Minute)
	}
	return nil
}

// Minutes returns the minutes since midnight of the cell start.
func (id ID) Minutes() int {
	return id.Hour*60 + id.Minute
}

// AtMinutes returns the cell on the same date starting at the given minute of day.
func (id ID) AtMinutes(mins int) ID {
	return ID{Date: id.Date, Hour: mins / 60, Minute: mins % 60}
}

// Pair returns the other quarter of the half-hour unit this cell belongs to:
// :00 pairs with :15 and :30 pairs with :45, always within the same hour.
func (id ID) Pair() ID {
	if id.Minute%30 == 0 {
		return ID{Date: id.Date, Hour: id.Hour, Minute: id.Minute + 15}
	}
	return ID{Date: id.Date, Hour: id.Hour, Minute: id.Minute - 15}
}

// HalfHourStart returns the first quarter of the cell's half-hour unit.
func (id ID) HalfHourStart() ID {
	return ID{Date: id.Date, Hour: id.Hour, Minute: id.Minute - id.Minute%30}
}

// Before reports whether id starts chronologically before other.
func (id ID) Before(other ID) bool {
	if id.Date != other.Date {
		return id.Date < other.Date
	}
	return id.Minutes() < other.Minutes()
}

// Time returns the instant the cell starts in loc.
func (id ID) Time(loc *time.Location) (time.Time, error) {
	day, err := time.ParseInLocation(constants.DateFormat, id.Date, loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: date %q", ErrMalformedKey, id.Date)
	}
	return time.Date(day.Year(), day.Month(), day.Day(), id.Hour, id.Minute, 0, 0, loc), nil
}

// Unix returns the cell start as unix seconds in loc.
func (id ID) Unix(loc *time.Location) (int64, error) {
	t, err := id.Time(loc)
	if err != nil {
		return 0, err
	}
	return t.Unix(), nil
}

// FromTime returns the quarter-hour cell containing t, using t's location.
func FromTime(t time.Time) ID {
	return ID{
		Date:   t.Format(constants.DateFormat),
		Hour:   t.Hour(),
		Minute: t.Minute() - t.Minute()%constants.QuarterMinutes,
	}
}

// FromUnix returns the cell containing the unix timestamp, viewed in loc.
func FromUnix(sec int64, loc *time.Location) ID {
	return FromTime(time.Unix(sec, 0).In(loc))
}
