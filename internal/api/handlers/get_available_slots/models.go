package get_available_slots

import (
	getAvailableSlots "github.com/m04kA/SMC-DropInService/internal/usecase/get_available_slots"
)

// AvailableSlotsResponse HTTP response model
type AvailableSlotsResponse struct {
	ServiceType   string         `json:"serviceType"`
	Date          string         `json:"date"`
	Slots         []SlotResponse `json:"slots"`
	WaitlistCount int            `json:"waitlistCount"`
}

// SlotResponse is one slot; Available is false for full and for blocked slots
type SlotResponse struct {
	SlotID    string `json:"slotId"`
	Occupied  int    `json:"occupied"`
	Capacity  int    `json:"capacity"`
	Remaining int    `json:"remaining"`
	Blocked   bool   `json:"blocked"`
	Available bool   `json:"available"`
}

func FromUseCaseResponse(resp *getAvailableSlots.Response) *AvailableSlotsResponse {
	slots := make([]SlotResponse, 0, len(resp.Slots))
	for _, s := range resp.Slots {
		slots = append(slots, SlotResponse{
			SlotID:    s.SlotID,
			Occupied:  s.Occupied,
			Capacity:  s.Capacity,
			Remaining: s.Remaining,
			Blocked:   s.Blocked,
			Available: s.Available,
		})
	}

	return &AvailableSlotsResponse{
		ServiceType:   string(resp.ServiceType),
		Date:          resp.Date,
		Slots:         slots,
		WaitlistCount: resp.WaitlistCount,
	}
}
