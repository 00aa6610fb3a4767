package discord

import (
	"fmt"
	"strings"
	"time"
)

const dayLayout = "2006/01/02"

// NormalizeDay accepts a date typed into the form's date modal, either
// YYYY/MM/DD or the short MM/DD, with one or two digit parts and '/' or '-'
// separators, and returns it as YYYY/MM/DD. A short date that has already
// passed this year rolls over to next year.
func NormalizeDay(input string, now time.Time) (string, error) {
	s := strings.ReplaceAll(strings.TrimSpace(input), "-", "/")
	parts := strings.Split(s, "/")

	var year, month, day int
	switch len(parts) {
	case 3:
		if _, err := fmt.Sscanf(s, "%d/%d/%d", &year, &month, &day); err != nil {
			return "", fmt.Errorf("invalid date %q", input)
		}
	case 2:
		if _, err := fmt.Sscanf(s, "%d/%d", &month, &day); err != nil {
			return "", fmt.Errorf("invalid date %q", input)
		}
		year = now.Year()
	default:
		return "", fmt.Errorf("invalid date %q", input)
	}

	t := time.Date(year, time.Month(month), day, 0, 0, 0, 0, now.Location())
	if t.Year() != year || int(t.Month()) != month || t.Day() != day {
		return "", fmt.Errorf("date out of range %q", input)
	}
	if len(parts) == 2 {
		today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
		if t.Before(today) {
			t = t.AddDate(1, 0, 0)
		}
	}
	return t.Format(dayLayout), nil
}
