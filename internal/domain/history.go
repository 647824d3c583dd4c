package domain

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// ActionType names the mutation a history entry records
type ActionType string

const (
	ActionBookingCreated     ActionType = "booking_created"
	ActionWaitlistAdded      ActionType = "waitlist_added"
	ActionBookingCancelled   ActionType = "booking_cancelled"
	ActionBookingRescheduled ActionType = "booking_rescheduled"
	ActionSlotAssigned       ActionType = "slot_assigned"
	ActionStatusChanged      ActionType = "status_changed"
	ActionBagNumberUpdated   ActionType = "bag_number_updated"
	ActionSlotBlocked        ActionType = "slot_blocked"
	ActionSlotUnblocked      ActionType = "slot_unblocked"
)

// InverseOp is the compensating operation applied by undo
type InverseOp string

const (
	InverseCancelBooking  InverseOp = "cancel_booking"
	InverseRestoreBooking InverseOp = "restore_booking"
	InverseBlockSlot      InverseOp = "block_slot"
	InverseUnblockSlot    InverseOp = "unblock_slot"
)

// BookingRestore holds the previous values of the fields a mutation changed.
// Only fields whose Restore flag is set are written back.
type BookingRestore struct {
	Status *BookingStatus `json:"status,omitempty"`

	RestoreSlot bool    `json:"restoreSlot,omitempty"`
	SlotID      *string `json:"slotId,omitempty"`

	RestoreLaundryType bool         `json:"restoreLaundryType,omitempty"`
	LaundryType        *LaundryType `json:"laundryType,omitempty"`

	RestoreBagNumber bool    `json:"restoreBagNumber,omitempty"`
	BagNumber        *string `json:"bagNumber,omitempty"`
}

// ApplyTo returns a copy of b with the recorded previous values written back
func (r *BookingRestore) ApplyTo(b *Booking) *Booking {
	restored := b.Clone()
	if r.Status != nil {
		restored.Status = *r.Status
	}
	if r.RestoreSlot {
		restored.SlotID = cloneString(r.SlotID)
	}
	if r.RestoreLaundryType {
		if r.LaundryType == nil {
			restored.LaundryType = nil
		} else {
			lt := *r.LaundryType
			restored.LaundryType = &lt
		}
	}
	if r.RestoreBagNumber {
		restored.BagNumber = cloneString(r.BagNumber)
	}
	return restored
}

// SlotRef identifies a blocked slot for block/unblock inverses
type SlotRef struct {
	ServiceType ServiceType `json:"serviceType"`
	SlotID      string      `json:"slotId"`
	Date        string      `json:"date"`
}

// Inverse is everything undo needs to reverse one action
type Inverse struct {
	Op        InverseOp       `json:"op"`
	BookingID string          `json:"bookingId,omitempty"`
	Restore   *BookingRestore `json:"restore,omitempty"`
	Slot      *SlotRef        `json:"slot,omitempty"`
}

func (i *Inverse) Validate() error {
	switch i.Op {
	case InverseCancelBooking:
		if i.BookingID == "" {
			return fmt.Errorf("%w: inverse %s without booking id", ErrInvalidInput, i.Op)
		}
	case InverseRestoreBooking:
		if i.BookingID == "" || i.Restore == nil {
			return fmt.Errorf("%w: inverse %s without booking state", ErrInvalidInput, i.Op)
		}
	case InverseBlockSlot, InverseUnblockSlot:
		if i.Slot == nil {
			return fmt.Errorf("%w: inverse %s without slot", ErrInvalidInput, i.Op)
		}
	default:
		return fmt.Errorf("%w: unknown inverse op %q", ErrInvalidInput, i.Op)
	}
	return nil
}

func (i *Inverse) Marshal() ([]byte, error) {
	return json.Marshal(i)
}

func UnmarshalInverse(data []byte) (*Inverse, error) {
	var inv Inverse
	if err := json.Unmarshal(data, &inv); err != nil {
		return nil, err
	}
	return &inv, nil
}

// ActionHistoryEntry is one reversible mutation.
// ServiceDay is derived from CreatedAt and decides what "today" lists.
type ActionHistoryEntry struct {
	ID          string
	ActionType  ActionType
	Description string
	BookingID   *string
	ServiceDay  string
	Inverse     Inverse
	CreatedAt   time.Time
	UndoneAt    *time.Time
}

func (e *ActionHistoryEntry) IsUndone() bool {
	return e.UndoneAt != nil
}

// NewHistoryEntry builds an entry for a mutation made at the given instant.
// Descriptions longer than MaxDescriptionLength are cut.
func NewHistoryEntry(action ActionType, description string, bookingID *string, serviceDay string, inverse Inverse, at time.Time) *ActionHistoryEntry {
	if runes := []rune(description); len(runes) > MaxDescriptionLength {
		description = string(runes[:MaxDescriptionLength])
	}
	return &ActionHistoryEntry{
		ID:          uuid.NewString(),
		ActionType:  action,
		Description: description,
		BookingID:   cloneString(bookingID),
		ServiceDay:  serviceDay,
		Inverse:     inverse,
		CreatedAt:   at,
	}
}

// Describe renders a short human-readable label for a booking
func Describe(b *Booking) string {
	label := string(b.ServiceType)
	if b.ServiceType == ServiceLaundry {
		label = fmt.Sprintf("%s laundry", b.EffectiveLaundryType())
	}
	if b.SlotID != nil {
		label = fmt.Sprintf("%s %s", label, *b.SlotID)
	}
	return fmt.Sprintf("%s for guest %s on %s", label, b.GuestID, b.Date)
}

// RestoreStatus snapshots status for a status-only change
func RestoreStatus(b *Booking) *BookingRestore {
	status := b.Status
	return &BookingRestore{Status: &status}
}

// RestorePlacement snapshots slot, laundry type and status before a reschedule
func RestorePlacement(b *Booking) *BookingRestore {
	r := RestoreStatus(b)
	r.RestoreSlot = true
	r.SlotID = cloneString(b.SlotID)
	r.RestoreLaundryType = b.ServiceType == ServiceLaundry
	if b.LaundryType != nil {
		lt := *b.LaundryType
		r.LaundryType = &lt
	}
	return r
}

// RestoreBag snapshots the bag number, optionally with status
func RestoreBag(b *Booking, withStatus bool) *BookingRestore {
	r := &BookingRestore{RestoreBagNumber: true, BagNumber: cloneString(b.BagNumber)}
	if withStatus {
		status := b.Status
		r.Status = &status
	}
	return r
}

func cloneString(s *string) *string {
	if s == nil {
		return nil
	}
	v := *s
	return &v
}
