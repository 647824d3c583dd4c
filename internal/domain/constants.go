package domain

// Capacity defaults
const (
	DefaultShowerCapacity        = 2
	DefaultMaxOnsiteLaundrySlots = 5
	MinOnsiteLaundrySlots        = 1
	MaxOnsiteLaundrySlots        = 100
)

// Validation limits
const (
	MaxGuestIDLength     = 64
	MaxBagNumberLength   = 32
	MaxDescriptionLength = 255
)

// Time format constants
const (
	DateFormat = "2006-01-02" // YYYY-MM-DD
)

// DefaultTimezone is the civil timezone that defines a service day
const DefaultTimezone = "America/Los_Angeles"
