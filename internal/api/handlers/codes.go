package handlers

// Error codes shared by the handlers
const (
	CodeInvalidInput      = "invalid_input"
	CodeNotFound          = "not_found"
	CodeUnauthorized      = "unauthorized"
	CodeForbidden         = "forbidden"
	CodeInternal          = "internal_error"
	CodeSlotFull          = "slot_full"
	CodeSlotBlocked       = "slot_blocked"
	CodeUnknownSlot       = "unknown_slot"
	CodeInvalidTransition = "invalid_transition"
	CodeBagNumberRequired = "bag_number_required"
	CodeOffsiteDisabled   = "offsite_disabled"
	CodeAlreadyUndone     = "already_undone"
)

// Messages reused by several handlers
const (
	MsgInvalidRequestBody = "invalid request body"
	MsgSlotFull           = "slot is full, add the guest to the waitlist?"
	MsgSlotBlocked        = "this slot is blocked for the day, pick another slot"
	MsgUnknownSlot        = "no such slot for this service"
	MsgOffsiteDisabled    = "offsite laundry is turned off in settings"
	MsgBookingNotFound    = "booking not found"
)
