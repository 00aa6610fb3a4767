package domain

import (
	"strings"
	"time"

	"gdbot/internal/domain/entities"
)

// DateLayout is the storage and display format of a recruitment's date.
const DateLayout = "2006/01/02 15:04"

// ParseScheduledAt parses s in loc. Any parse failure is ErrInvalidDate.
func ParseScheduledAt(s string, loc *time.Location) (time.Time, error) {
	t, err := time.ParseInLocation(DateLayout, strings.TrimSpace(s), loc)
	if err != nil {
		return time.Time{}, ErrInvalidDate
	}
	return t, nil
}

func FormatScheduledAt(t time.Time) string {
	return t.Format(DateLayout)
}

// ValidateFields normalizes f and checks it can be stored. now carries the
// reference zone the date is interpreted in.
func ValidateFields(f entities.Fields, now time.Time) (entities.Fields, error) {
	f.DateStr = strings.TrimSpace(f.DateStr)
	f.Place = strings.TrimSpace(f.Place)
	f.Message = strings.TrimSpace(f.Message)
	f.Industry = strings.TrimSpace(f.Industry)

	at, err := ParseScheduledAt(f.DateStr, now.Location())
	if err != nil {
		return f, err
	}
	if at.Before(now) {
		return f, ErrDateTimeInPast
	}
	if f.Capacity < 1 {
		return f, ErrInvalidCapacity
	}
	if f.Place == "" {
		return f, ErrInvalidPlace
	}
	return f, nil
}
