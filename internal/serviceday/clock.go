// Package serviceday maps timestamps to the civil date that partitions all
// capacity, waitlist, blocking and history computations.
package serviceday

import (
	"errors"
	"fmt"
	"time"
	_ "time/tzdata"

	"github.com/m04kA/SMC-DropInService/internal/domain"
)

var (
	ErrInvalidTimestamp = errors.New("serviceday: invalid timestamp")
	ErrInvalidDay       = errors.New("serviceday: invalid service day")
	ErrUnknownTimezone  = errors.New("serviceday: unknown timezone")
)

// Clock converts instants to service days in one fixed location
type Clock struct {
	loc *time.Location
	now func() time.Time
}

// New returns a clock for the named IANA timezone using the system time
func New(timezone string) (*Clock, error) {
	if timezone == "" {
		timezone = domain.DefaultTimezone
	}
	loc, err := time.LoadLocation(timezone)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrUnknownTimezone, timezone, err)
	}
	return &Clock{loc: loc, now: time.Now}, nil
}

// NewFixed returns a clock frozen at now, for tests
func NewFixed(timezone string, now time.Time) (*Clock, error) {
	c, err := New(timezone)
	if err != nil {
		return nil, err
	}
	c.now = func() time.Time { return now }
	return c, nil
}

// Set moves a clock to a new instant; intended for tests
func (c *Clock) Set(now time.Time) {
	c.now = func() time.Time { return now }
}

func (c *Clock) Location() *time.Location {
	return c.loc
}

func (c *Clock) Now() time.Time {
	return c.now()
}

// ToServiceDay returns the YYYY-MM-DD date of t in the clock's timezone.
// The zero time is rejected rather than treated as today.
func (c *Clock) ToServiceDay(t time.Time) (string, error) {
	if t.IsZero() {
		return "", ErrInvalidTimestamp
	}
	return t.In(c.loc).Format(domain.DateFormat), nil
}

// Today is ToServiceDay(Now())
func (c *Clock) Today() string {
	return c.now().In(c.loc).Format(domain.DateFormat)
}

// ParseDay validates a service day supplied by a caller and returns it normalized
func ParseDay(s string) (string, error) {
	t, err := time.Parse(domain.DateFormat, s)
	if err != nil {
		return "", fmt.Errorf("%w: %q", ErrInvalidDay, s)
	}
	return t.Format(domain.DateFormat), nil
}
