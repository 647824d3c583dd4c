package domain

// SlotDefinition is the ordered set of bookable slots for a service on any day
type SlotDefinition struct {
	ServiceType ServiceType
	LaundryType LaundryType // empty for showers
	SlotIDs     []string
	Capacity    int
	Slotted     bool // false for offsite laundry, which has no slots or capacity
}

// Contains reports whether slotID belongs to the definition
func (d SlotDefinition) Contains(slotID string) bool {
	for _, id := range d.SlotIDs {
		if id == slotID {
			return true
		}
	}
	return false
}

// SlotAvailability is the live state of one slot on one day
type SlotAvailability struct {
	SlotID   string `json:"slotId"`
	Occupied int    `json:"occupied"`
	Capacity int    `json:"capacity"`
	Blocked  bool   `json:"blocked"`
}

// IsAvailable reports whether the slot can take a new booking
func (s SlotAvailability) IsAvailable() bool {
	return !s.Blocked && s.Occupied < s.Capacity
}

// Remaining returns free seats, ignoring blocking
func (s SlotAvailability) Remaining() int {
	if s.Occupied >= s.Capacity {
		return 0
	}
	return s.Capacity - s.Occupied
}

// AvailabilitySnapshot is the availability of every slot of a service on one day,
// in catalog order
type AvailabilitySnapshot struct {
	ServiceType   ServiceType        `json:"serviceType"`
	Date          string             `json:"date"`
	Slots         []SlotAvailability `json:"slots"`
	WaitlistCount int                `json:"waitlistCount"`
}

// BuildAvailability combines a definition with the day's bookings and blocked slots.
// blocked holds the slot ids blocked for the definition's service on that day.
func BuildAvailability(def SlotDefinition, date string, bookings []*Booking, blocked map[string]bool) *AvailabilitySnapshot {
	occupied := OccupancyBySlot(bookings)

	snapshot := &AvailabilitySnapshot{
		ServiceType: def.ServiceType,
		Date:        date,
		Slots:       make([]SlotAvailability, 0, len(def.SlotIDs)),
	}

	for _, id := range def.SlotIDs {
		snapshot.Slots = append(snapshot.Slots, SlotAvailability{
			SlotID:   id,
			Occupied: occupied[id],
			Capacity: def.Capacity,
			Blocked:  blocked[id],
		})
	}

	if def.ServiceType == ServiceShower {
		snapshot.WaitlistCount = len(WaitlistOrder(bookings))
	}

	return snapshot
}
