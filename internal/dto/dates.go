package dto

import (
	"errors"
	"strings"
	"time"
)

// DateLayout is the wire format of project start and end dates.
const DateLayout = "2006-01-02"

var errInvalidDate = errors.New("invalid date")

// ParseDate accepts a calendar date or an RFC 3339 timestamp. Calendar dates
// are interpreted as midnight UTC.
func ParseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if t, err := time.Parse(DateLayout, s); err == nil {
		return t, nil
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t.UTC(), nil
	}
	return time.Time{}, errInvalidDate
}

// FormatDate renders t as a calendar date, or nil.
func FormatDate(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := t.UTC().Format(DateLayout)
	return &s
}
