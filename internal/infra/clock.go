package infra

import (
	"fmt"
	"time"
)

// Clock yields business timestamps in one fixed civil time zone so that
// ledger entries sort and report consistently no matter where the server
// runs. Services take it as a dependency; tests substitute a frozen one.
type Clock interface {
	Now() time.Time
}

type businessClock struct {
	loc *time.Location
}

// NewClock loads the configured IANA zone once at startup.
func NewClock(tz string) (Clock, error) {
	loc, err := time.LoadLocation(tz)
	if err != nil {
		return nil, fmt.Errorf("clock: load zone %q: %w", tz, err)
	}
	return &businessClock{loc: loc}, nil
}

func (c *businessClock) Now() time.Time {
	return time.Now().In(c.loc)
}
