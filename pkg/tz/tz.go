// Package tz resolves the reference time zone of recruitment dates.
package tz

import (
	"fmt"
	"time"
	_ "time/tzdata"
)

// Default is the zone recruitment dates are written in.
const Default = "Asia/Tokyo"

// Load returns the named location, or Default when name is empty. The IANA
// database is embedded, so this works in minimal containers too.
func Load(name string) (*time.Location, error) {
	if name == "" {
		name = Default
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return nil, fmt.Errorf("tz: load %s: %w", name, err)
	}
	return loc, nil
}
