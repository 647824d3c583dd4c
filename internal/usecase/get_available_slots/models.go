package get_available_slots

import "github.com/m04kA/SMC-DropInService/internal/domain"

// Request asks for the availability of one service on one service day.
// An empty Date means today. Laundry availability covers onsite slots only.
type Request struct {
	ServiceType domain.ServiceType
	Date        string
}

// Response lists every catalog slot in catalog order
type Response struct {
	ServiceType   domain.ServiceType
	Date          string
	Slots         []Slot
	WaitlistCount int
	Cached        bool
}

// Slot is the availability of one slot
type Slot struct {
	SlotID    string
	Occupied  int
	Capacity  int
	Remaining int
	Blocked   bool
	Available bool
}

func fromSnapshot(s *domain.AvailabilitySnapshot, cached bool) *Response {
	resp := &Response{
		ServiceType:   s.ServiceType,
		Date:          s.Date,
		Slots:         make([]Slot, 0, len(s.Slots)),
		WaitlistCount: s.WaitlistCount,
		Cached:        cached,
	}
	for _, slot := range s.Slots {
		resp.Slots = append(resp.Slots, Slot{
			SlotID:    slot.SlotID,
			Occupied:  slot.Occupied,
			Capacity:  slot.Capacity,
			Remaining: slot.Remaining(),
			Blocked:   slot.Blocked,
			Available: slot.IsAvailable(),
		})
	}
	return resp
}
