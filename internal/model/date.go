package model

import (
	"encoding/json"
	"fmt"
	"time"
)

// DateLayout is the wire format for all document and entry dates.
const DateLayout = "2006-01-02"

// Date is a calendar day without a time component.
type Date struct {
	time.Time
}

// NewDate returns the Date for year, month, day.
func NewDate(year int, month time.Month, day int) Date {
	return Date{time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

// ParseDate parses a YYYY-MM-DD string. Full RFC 3339 timestamps are accepted
// and truncated to their day.
func ParseDate(s string) (Date, error) {
	t, err := time.Parse(DateLayout, s)
	if err == nil {
		return Date{t}, nil
	}
	ts, tsErr := time.Parse(time.RFC3339, s)
	if tsErr != nil {
		return Date{}, fmt.Errorf("parsing date %q: %w", s, err)
	}
	return NewDate(ts.Year(), ts.Month(), ts.Day()), nil
}

// Today returns the current local day.
func Today() Date {
	now := time.Now()
	return NewDate(now.Year(), now.Month(), now.Day())
}

func (d Date) String() string {
	if d.IsZero() {
		return ""
	}
	return d.Format(DateLayout)
}

// Before reports whether d is strictly earlier than other.
func (d Date) Before(other Date) bool {
	return d.Time.Before(other.Time)
}

func (d Date) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.String())
}

func (d *Date) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("date must be a string: %w", err)
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
