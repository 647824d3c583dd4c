package domain

import (
	"fmt"
	"time"
)

// ServiceType identifies a slotted drop-in service
type ServiceType string

const (
	ServiceShower  ServiceType = "shower"
	ServiceLaundry ServiceType = "laundry"
)

// ParseServiceType validates a service type coming from a caller
func ParseServiceType(s string) (ServiceType, error) {
	switch st := ServiceType(s); st {
	case ServiceShower, ServiceLaundry:
		return st, nil
	default:
		return "", fmt.Errorf("%w: unknown service type %q", ErrInvalidInput, s)
	}
}

// LaundryType distinguishes machine loads done on site from bags sent out
type LaundryType string

const (
	LaundryOnsite  LaundryType = "onsite"
	LaundryOffsite LaundryType = "offsite"
)

// ParseLaundryType validates a laundry type coming from a caller
func ParseLaundryType(s string) (LaundryType, error) {
	switch lt := LaundryType(s); lt {
	case LaundryOnsite, LaundryOffsite:
		return lt, nil
	default:
		return "", fmt.Errorf("%w: unknown laundry type %q", ErrInvalidInput, s)
	}
}

// Booking is one guest's claim on a service for a service day.
// Rows are never deleted; cancellation is a status.
type Booking struct {
	ID          string
	GuestID     string
	ServiceType ServiceType
	Date        string  // service day, YYYY-MM-DD
	SlotID      *string // nil for waitlisted showers and offsite laundry
	LaundryType *LaundryType
	Status      BookingStatus
	BagNumber   *string

	CreatedAt   time.Time
	LastUpdated time.Time
}

// Clone returns a deep copy so callers can mutate it without touching the original
func (b *Booking) Clone() *Booking {
	c := *b
	if b.SlotID != nil {
		slot := *b.SlotID
		c.SlotID = &slot
	}
	if b.LaundryType != nil {
		lt := *b.LaundryType
		c.LaundryType = &lt
	}
	if b.BagNumber != nil {
		bag := *b.BagNumber
		c.BagNumber = &bag
	}
	return &c
}

func (b *Booking) IsCancelled() bool {
	return b.Status == StatusCancelled
}

func (b *Booking) IsWaitlisted() bool {
	return b.ServiceType == ServiceShower && b.SlotID == nil && b.Status == StatusWaitlisted
}

func (b *Booking) IsOffsite() bool {
	return b.ServiceType == ServiceLaundry && b.LaundryType != nil && *b.LaundryType == LaundryOffsite
}

func (b *Booking) HasBagNumber() bool {
	return b.BagNumber != nil && *b.BagNumber != ""
}

// Slot returns the slot id or an empty string for unslotted bookings
func (b *Booking) Slot() string {
	if b.SlotID == nil {
		return ""
	}
	return *b.SlotID
}

// EffectiveLaundryType treats a laundry booking without an explicit type as onsite
func (b *Booking) EffectiveLaundryType() LaundryType {
	if b.LaundryType == nil {
		return LaundryOnsite
	}
	return *b.LaundryType
}
