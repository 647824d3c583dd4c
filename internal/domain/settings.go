package domain

import (
	"fmt"
	"time"
)

// Settings are staff-editable values read live on every operation
type Settings struct {
	MaxOnsiteLaundrySlots int
	OffsiteLaundryEnabled bool
	UpdatedAt             time.Time
}

// DefaultSettings is used until staff save settings for the first time
func DefaultSettings() *Settings {
	return &Settings{
		MaxOnsiteLaundrySlots: DefaultMaxOnsiteLaundrySlots,
		OffsiteLaundryEnabled: true,
	}
}

func (s *Settings) Validate() error {
	if s.MaxOnsiteLaundrySlots < MinOnsiteLaundrySlots || s.MaxOnsiteLaundrySlots > MaxOnsiteLaundrySlots {
		return fmt.Errorf("%w: maxOnsiteLaundrySlots must be between %d and %d",
			ErrInvalidInput, MinOnsiteLaundrySlots, MaxOnsiteLaundrySlots)
	}
	return nil
}
