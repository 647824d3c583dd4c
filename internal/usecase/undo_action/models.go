package undo_action

import (
	"time"

	"github.com/m04kA/SMC-DropInService/internal/domain"
)

// Request undoes one history entry. StaffID is recorded on re-created blocked slots.
type Request struct {
	EntryID string
	StaffID string
}

// Response describes what the undo touched. Booking is nil for block/unblock entries.
type Response struct {
	EntryID     string
	ActionType  domain.ActionType
	Description string
	UndoneAt    time.Time
	Booking     *domain.Booking
}
