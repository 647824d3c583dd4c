// Package catalog enumerates the bookable slots of every service.
package catalog

import (
	"errors"
	"fmt"

	"github.com/m04kA/SMC-DropInService/internal/domain"
)

var (
	ErrEmptyCatalog    = errors.New("catalog: slot list is empty")
	ErrDuplicateSlot   = errors.New("catalog: duplicate slot id")
	ErrInvalidCapacity = errors.New("catalog: capacity must be positive")
)

// DefaultShowerSlots are the half-hour shower starts of a regular day
var DefaultShowerSlots = []string{
	"07:30", "08:00", "08:30", "09:00", "09:30", "10:00", "10:30", "11:00", "11:30",
	"12:00", "12:30", "13:00", "13:30", "14:00", "14:30", "15:00", "15:30", "16:00",
}

// DefaultLaundrySlots are the onsite machine windows of a regular day
var DefaultLaundrySlots = []string{
	"07:30 - 08:30",
	"08:00 - 09:00",
	"08:30 - 09:45",
	"09:00 - 10:15",
	"09:30 - 11:45",
}

// Catalog holds the fixed slot lists. Laundry capacity comes from live settings.
type Catalog struct {
	showerSlots    []string
	showerCapacity int
	laundrySlots   []string
}

func New(showerSlots []string, showerCapacity int, laundrySlots []string) (*Catalog, error) {
	if err := validateSlots(showerSlots); err != nil {
		return nil, fmt.Errorf("shower: %w", err)
	}
	if err := validateSlots(laundrySlots); err != nil {
		return nil, fmt.Errorf("laundry: %w", err)
	}
	if showerCapacity <= 0 {
		return nil, ErrInvalidCapacity
	}

	return &Catalog{
		showerSlots:    append([]string(nil), showerSlots...),
		showerCapacity: showerCapacity,
		laundrySlots:   append([]string(nil), laundrySlots...),
	}, nil
}

// Default returns the catalog with built-in slot lists
func Default() *Catalog {
	c, _ := New(DefaultShowerSlots, domain.DefaultShowerCapacity, DefaultLaundrySlots)
	return c
}

// Definition resolves the slot definition for a service. For laundry the
// capacity is settings.MaxOnsiteLaundrySlots and offsite has no slots.
func (c *Catalog) Definition(serviceType domain.ServiceType, laundryType domain.LaundryType, settings *domain.Settings) (domain.SlotDefinition, error) {
	switch serviceType {
	case domain.ServiceShower:
		return domain.SlotDefinition{
			ServiceType: domain.ServiceShower,
			SlotIDs:     append([]string(nil), c.showerSlots...),
			Capacity:    c.showerCapacity,
			Slotted:     true,
		}, nil

	case domain.ServiceLaundry:
		if laundryType == domain.LaundryOffsite {
			return domain.SlotDefinition{
				ServiceType: domain.ServiceLaundry,
				LaundryType: domain.LaundryOffsite,
			}, nil
		}

		capacity := domain.DefaultMaxOnsiteLaundrySlots
		if settings != nil && settings.MaxOnsiteLaundrySlots > 0 {
			capacity = settings.MaxOnsiteLaundrySlots
		}
		return domain.SlotDefinition{
			ServiceType: domain.ServiceLaundry,
			LaundryType: domain.LaundryOnsite,
			SlotIDs:     append([]string(nil), c.laundrySlots...),
			Capacity:    capacity,
			Slotted:     true,
		}, nil

	default:
		return domain.SlotDefinition{}, fmt.Errorf("%w: unknown service type %q", domain.ErrInvalidInput, serviceType)
	}
}

// HasSlot reports whether slotID is bookable for the service at all
func (c *Catalog) HasSlot(serviceType domain.ServiceType, slotID string) bool {
	switch serviceType {
	case domain.ServiceShower:
		return contains(c.showerSlots, slotID)
	case domain.ServiceLaundry:
		return contains(c.laundrySlots, slotID)
	default:
		return false
	}
}

func validateSlots(slots []string) error {
	if len(slots) == 0 {
		return ErrEmptyCatalog
	}
	seen := make(map[string]struct{}, len(slots))
	for _, s := range slots {
		if _, ok := seen[s]; ok {
			return fmt.Errorf("%w: %q", ErrDuplicateSlot, s)
		}
		seen[s] = struct{}{}
	}
	return nil
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
