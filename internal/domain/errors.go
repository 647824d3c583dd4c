package domain

import "errors"

var (
	ErrSlotFull          = errors.New("slot is full")
	ErrSlotBlocked       = errors.New("slot is blocked")
	ErrUnknownSlot       = errors.New("slot is not in the catalog")
	ErrInvalidTransition = errors.New("status transition is not allowed")
	ErrBagNumberRequired = errors.New("bag number is required")
	ErrOffsiteDisabled   = errors.New("offsite laundry is disabled")
	ErrAlreadyUndone     = errors.New("action has already been undone")
	ErrNotFound          = errors.New("not found")
	ErrInvalidInput      = errors.New("invalid input")

	// ErrStorage hides repository failures from callers
	ErrStorage = errors.New("storage error")
)
