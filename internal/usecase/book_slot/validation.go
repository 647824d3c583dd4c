package book_slot

import (
	"fmt"
	"strings"

	"github.com/m04kA/SMC-DropInService/internal/domain"
	"github.com/m04kA/SMC-DropInService/internal/serviceday"
)

// validateRequest normalizes the request in place
func validateRequest(req *Request) error {
	req.GuestID = strings.TrimSpace(req.GuestID)
	if req.GuestID == "" {
		return fmt.Errorf("%w: guest id is required", ErrInvalidInput)
	}
	if len(req.GuestID) > domain.MaxGuestIDLength {
		return fmt.Errorf("%w: guest id longer than %d characters", ErrInvalidInput, domain.MaxGuestIDLength)
	}

	date, err := serviceday.ParseDay(req.Date)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidDate, err)
	}
	req.Date = date

	if req.SlotID != nil {
		slot := strings.TrimSpace(*req.SlotID)
		req.SlotID = &slot
		if slot == "" {
			req.SlotID = nil
		}
	}

	switch req.ServiceType {
	case domain.ServiceShower:
		if req.LaundryType != nil {
			return fmt.Errorf("%w: laundry type given for a shower", ErrInvalidInput)
		}
		if req.SlotID == nil {
			return fmt.Errorf("%w: shower slot is required", ErrInvalidInput)
		}

	case domain.ServiceLaundry:
		if req.LaundryType == nil {
			onsite := domain.LaundryOnsite
			req.LaundryType = &onsite
		}
		switch *req.LaundryType {
		case domain.LaundryOnsite:
			if req.SlotID == nil {
				return fmt.Errorf("%w: onsite laundry slot is required", ErrInvalidInput)
			}
		case domain.LaundryOffsite:
			if req.SlotID != nil {
				return fmt.Errorf("%w: offsite laundry has no slots", ErrInvalidInput)
			}
		default:
			return fmt.Errorf("%w: unknown laundry type %q", ErrInvalidInput, *req.LaundryType)
		}

	default:
		return fmt.Errorf("%w: unknown service type %q", ErrInvalidInput, req.ServiceType)
	}

	return nil
}
