package engine

import (
	"encoding/json"
	"time"
)

// =============================================================================
// DATE - Concrete date abstraction for contract timelines
// =============================================================================

// DateFormat is the canonical date representation used throughout the system.
const DateFormat = "2006-01-02"

// dateHourFormat is used when the intake clerk recorded the drop-off hour.
// Hour precision only matters for the Florida 6-hour storage exemption.
const dateHourFormat = "2006-01-02 15:04"

type Date struct {
	Time        time.Time
	Granularity Granularity
}

type Granularity int

const (
	GranularityDay Granularity = iota
	GranularityHour
)

// Constructors
func NewDate(year int, month time.Month, day int) Date {
	return Date{Time: time.Date(year, month, day, 0, 0, 0, 0, time.UTC), Granularity: GranularityDay}
}

func NewDateHour(year int, month time.Month, day, hour, minute int) Date {
	return Date{Time: time.Date(year, month, day, hour, minute, 0, 0, time.UTC), Granularity: GranularityHour}
}

func Today() Date {
	now := time.Now()
	return NewDate(now.Year(), now.Month(), now.Day())
}

// ParseDate accepts the canonical day format and the optional hour format.
func ParseDate(s string) (Date, error) {
	if t, err := time.Parse(DateFormat, s); err == nil {
		return Date{Time: t, Granularity: GranularityDay}, nil
	}
	t, err := time.Parse(dateHourFormat, s)
	if err != nil {
		return Date{}, err
	}
	return Date{Time: t, Granularity: GranularityHour}, nil
}

// Comparison (normalized to the coarser of day/hour precision)
func (d Date) Before(other Date) bool        { return d.normalize().Before(other.normalize()) }
func (d Date) Equal(other Date) bool         { return d.normalize().Equal(other.normalize()) }
func (d Date) After(other Date) bool         { return d.normalize().After(other.normalize()) }
func (d Date) BeforeOrEqual(other Date) bool { return d.Before(other) || d.Equal(other) }
func (d Date) AfterOrEqual(other Date) bool  { return d.After(other) || d.Equal(other) }

func (d Date) normalize() time.Time {
	switch d.Granularity {
	case GranularityHour:
		return time.Date(d.Time.Year(), d.Time.Month(), d.Time.Day(), d.Time.Hour(), d.Time.Minute(), 0, 0, time.UTC)
	default:
		return time.Date(d.Time.Year(), d.Time.Month(), d.Time.Day(), 0, 0, 0, 0, time.UTC)
	}
}

// dayOnly truncates to midnight regardless of granularity. Whole-day counts
// ignore the recorded hour (the exemption check is the only hour-aware rule).
func (d Date) dayOnly() time.Time {
	return time.Date(d.Time.Year(), d.Time.Month(), d.Time.Day(), 0, 0, 0, 0, time.UTC)
}

// Arithmetic
func (d Date) AddDays(n int) Date {
	return Date{Time: d.Time.AddDate(0, 0, n), Granularity: d.Granularity}
}

// Properties
func (d Date) Year() int         { return d.Time.Year() }
func (d Date) Month() time.Month { return d.Time.Month() }
func (d Date) Day() int          { return d.Time.Day() }
func (d Date) IsZero() bool      { return d.Time.IsZero() }

func (d Date) String() string {
	if d.IsZero() {
		return ""
	}
	if d.Granularity == GranularityHour {
		return d.Time.Format(dateHourFormat)
	}
	return d.Time.Format(DateFormat)
}

// DaysBetween returns whole calendar days from one date to another.
// Hours are ignored: a vehicle that arrived at 11pm and is evaluated at
// 1am the next day has been stored for one day.
func DaysBetween(from, to Date) int {
	return int(to.dayOnly().Sub(from.dayOnly()).Hours() / 24)
}

// HoursBetween returns elapsed hours at full precision. Used only for the
// 6-hour storage exemption check.
func HoursBetween(from, to Date) float64 {
	return to.normalize().Sub(from.normalize()).Hours()
}

// =============================================================================
// JSON - dates travel as strings; empty string means unset
// =============================================================================

func (d Date) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.String())
}

func (d *Date) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	if s == "" {
		*d = Date{}
		return nil
	}
	parsed, err := ParseDate(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}
