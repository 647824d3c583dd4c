package models

import (
	"time"

	"github.com/m04kA/SMC-DropInService/internal/domain"
)

// BookingResponse is the public view of a booking
type BookingResponse struct {
	ID               string    `json:"id"`
	GuestID          string    `json:"guestId"`
	ServiceType      string    `json:"serviceType"`
	Date             string    `json:"date"`
	SlotID           *string   `json:"slotId"`
	LaundryType      *string   `json:"laundryType,omitempty"`
	Status           string    `json:"status"`
	BagNumber        *string   `json:"bagNumber,omitempty"`
	WaitlistPosition *int      `json:"waitlistPosition,omitempty"`
	CreatedAt        time.Time `json:"createdAt"`
	LastUpdated      time.Time `json:"lastUpdated"`
}

// BookingListResponse wraps a list of bookings
type BookingListResponse struct {
	Bookings []BookingResponse `json:"bookings"`
	Total    int               `json:"total"`
}

// UpdateBagNumberRequest sets a laundry bag number
type UpdateBagNumberRequest struct {
	BagNumber string `json:"bagNumber"`
}

// FromDomainBooking converts a booking; position is set only for waitlisted showers
func FromDomainBooking(b *domain.Booking, position int) *BookingResponse {
	resp := &BookingResponse{
		ID:          b.ID,
		GuestID:     b.GuestID,
		ServiceType: string(b.ServiceType),
		Date:        b.Date,
		SlotID:      b.SlotID,
		Status:      string(b.Status),
		BagNumber:   b.BagNumber,
		CreatedAt:   b.CreatedAt,
		LastUpdated: b.LastUpdated,
	}
	if b.LaundryType != nil {
		lt := string(*b.LaundryType)
		resp.LaundryType = &lt
	}
	if position > 0 {
		p := position
		resp.WaitlistPosition = &p
	}
	return resp
}

// FromDomainBookingList converts bookings, attaching positions by booking id
func FromDomainBookingList(bookings []*domain.Booking, positions map[string]int) *BookingListResponse {
	resp := &BookingListResponse{
		Bookings: make([]BookingResponse, 0, len(bookings)),
		Total:    len(bookings),
	}
	for _, b := range bookings {
		resp.Bookings = append(resp.Bookings, *FromDomainBooking(b, positions[b.ID]))
	}
	return resp
}
