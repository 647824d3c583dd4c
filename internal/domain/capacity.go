package domain

import (
	"fmt"
	"sort"
)

// OccupiesSlot is the single capacity policy per service.
// Laundry rows hold their machine slot even after cancellation; cancelled
// showers free it. Unslotted rows never occupy anything.
func OccupiesSlot(b *Booking) bool {
	if b.SlotID == nil {
		return false
	}

	switch b.ServiceType {
	case ServiceLaundry:
		return true
	case ServiceShower:
		return b.Status != StatusCancelled
	default:
		return false
	}
}

// CountOccupancy counts bookings occupying slotID, skipping excludeID so a
// booking being moved does not compete with itself
func CountOccupancy(bookings []*Booking, slotID, excludeID string) int {
	count := 0
	for _, b := range bookings {
		if b.ID == excludeID || b.Slot() != slotID {
			continue
		}
		if OccupiesSlot(b) {
			count++
		}
	}
	return count
}

// OccupancyBySlot counts occupying bookings per slot id
func OccupancyBySlot(bookings []*Booking) map[string]int {
	occupied := make(map[string]int)
	for _, b := range bookings {
		if OccupiesSlot(b) {
			occupied[*b.SlotID]++
		}
	}
	return occupied
}

// WaitlistOrder returns waitlisted showers ordered by creation time, id breaking ties
func WaitlistOrder(bookings []*Booking) []*Booking {
	waiting := make([]*Booking, 0)
	for _, b := range bookings {
		if b.IsWaitlisted() {
			waiting = append(waiting, b)
		}
	}

	sort.SliceStable(waiting, func(i, j int) bool {
		if waiting[i].CreatedAt.Equal(waiting[j].CreatedAt) {
			return waiting[i].ID < waiting[j].ID
		}
		return waiting[i].CreatedAt.Before(waiting[j].CreatedAt)
	})

	return waiting
}

// WaitlistPositions maps booking id to its 1-based waitlist position
func WaitlistPositions(bookings []*Booking) map[string]int {
	positions := make(map[string]int)
	for i, b := range WaitlistOrder(bookings) {
		positions[b.ID] = i + 1
	}
	return positions
}

// CheckSlot decides whether slotID of def can take one more booking.
// excludeID is the booking being moved, if any.
func CheckSlot(def SlotDefinition, slotID string, blocked bool, bookings []*Booking, excludeID string) error {
	if !def.Contains(slotID) {
		return fmt.Errorf("%w: %s %q", ErrUnknownSlot, def.ServiceType, slotID)
	}
	if blocked {
		return fmt.Errorf("%w: %s %s", ErrSlotBlocked, def.ServiceType, slotID)
	}
	if occupied := CountOccupancy(bookings, slotID, excludeID); occupied >= def.Capacity {
		return fmt.Errorf("%w: %s %s has %d/%d taken", ErrSlotFull, def.ServiceType, slotID, occupied, def.Capacity)
	}
	return nil
}
