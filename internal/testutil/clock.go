package testutil

import (
	"testing"
	"time"

	"github.com/m04kA/SMC-DropInService/internal/serviceday"
)

// Morning is 10:00 Pacific on 2025-01-15
var Morning = time.Date(2025, 1, 15, 18, 0, 0, 0, time.UTC)

// FixedClock returns a Pacific clock frozen at at
func FixedClock(t *testing.T, at time.Time) *serviceday.Clock {
	t.Helper()
	clock, err := serviceday.NewFixed("America/Los_Angeles", at)
	if err != nil {
		t.Fatalf("fixed clock: %v", err)
	}
	return clock
}
