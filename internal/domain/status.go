package domain

import "fmt"

// BookingStatus is the lifecycle state of a booking.
// Shower, onsite laundry and offsite laundry use disjoint sets, except that
// "done" and "cancelled" are shared.
type BookingStatus string

const (
	StatusWaitlisted BookingStatus = "waitlisted"
	StatusBooked     BookingStatus = "booked"
	StatusDone       BookingStatus = "done"
	StatusCancelled  BookingStatus = "cancelled"

	StatusWaiting  BookingStatus = "waiting"
	StatusWasher   BookingStatus = "washer"
	StatusDryer    BookingStatus = "dryer"
	StatusPickedUp BookingStatus = "picked_up"

	StatusPending         BookingStatus = "pending"
	StatusTransported     BookingStatus = "transported"
	StatusReturned        BookingStatus = "returned"
	StatusOffsitePickedUp BookingStatus = "offsite_picked_up"
)

// showerTransitions lists every allowed move for showers.
// waitlisted -> booked is only reachable by assigning a slot.
var showerTransitions = map[BookingStatus][]BookingStatus{
	StatusWaitlisted: {StatusCancelled},
	StatusBooked:     {StatusDone, StatusCancelled},
	StatusDone:       {StatusBooked},
}

var onsiteStatuses = []BookingStatus{StatusWaiting, StatusWasher, StatusDryer, StatusDone, StatusPickedUp}

var offsiteStatuses = []BookingStatus{StatusPending, StatusTransported, StatusReturned, StatusOffsitePickedUp}

// ParseBookingStatus validates a status string against every known status
func ParseBookingStatus(s string) (BookingStatus, error) {
	st := BookingStatus(s)
	switch st {
	case StatusWaitlisted, StatusBooked, StatusDone, StatusCancelled,
		StatusWaiting, StatusWasher, StatusDryer, StatusPickedUp,
		StatusPending, StatusTransported, StatusReturned, StatusOffsitePickedUp:
		return st, nil
	default:
		return "", fmt.Errorf("%w: unknown status %q", ErrInvalidInput, s)
	}
}

// StatusesFor returns the non-cancelled statuses a booking of this kind can hold
func StatusesFor(serviceType ServiceType, laundryType LaundryType) []BookingStatus {
	switch serviceType {
	case ServiceShower:
		return []BookingStatus{StatusWaitlisted, StatusBooked, StatusDone}
	case ServiceLaundry:
		if laundryType == LaundryOffsite {
			return offsiteStatuses
		}
		return onsiteStatuses
	default:
		return nil
	}
}

// InitialStatus is the status a new booking starts in
func InitialStatus(serviceType ServiceType, laundryType LaundryType) BookingStatus {
	if serviceType == ServiceShower {
		return StatusBooked
	}
	if laundryType == LaundryOffsite {
		return StatusPending
	}
	return StatusWaiting
}

// CanTransition reports whether staff may move b to the target status.
// Laundry moves freely within its type's set; cancelled is terminal everywhere.
func CanTransition(b *Booking, to BookingStatus) bool {
	if b.Status == StatusCancelled || b.Status == to {
		return false
	}

	switch b.ServiceType {
	case ServiceShower:
		for _, next := range showerTransitions[b.Status] {
			if next == to {
				return true
			}
		}
		return false
	case ServiceLaundry:
		if to == StatusCancelled {
			return true
		}
		return containsStatus(StatusesFor(ServiceLaundry, b.EffectiveLaundryType()), to)
	default:
		return false
	}
}

// RequiresBagNumber reports whether moving a booking to the target status
// needs a bag number on record
func RequiresBagNumber(b *Booking, to BookingStatus) bool {
	return b.ServiceType == ServiceLaundry && to != StatusCancelled
}

func containsStatus(list []BookingStatus, s BookingStatus) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
