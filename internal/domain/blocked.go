package domain

import "time"

// BlockedSlot withdraws one slot of one service on one day from new bookings.
// Existing bookings for the slot are unaffected.
type BlockedSlot struct {
	ServiceType ServiceType
	SlotID      string
	Date        string
	CreatedBy   string
	CreatedAt   time.Time
}

// BlockedSet indexes blocked slot ids for a single service and day
func BlockedSet(slots []*BlockedSlot, serviceType ServiceType) map[string]bool {
	set := make(map[string]bool, len(slots))
	for _, s := range slots {
		if s.ServiceType == serviceType {
			set[s.SlotID] = true
		}
	}
	return set
}
