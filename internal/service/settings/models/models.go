package models

import (
	"time"

	"github.com/m04kA/SMC-DropInService/internal/domain"
)

// UpdateSettingsRequest is a partial update; nil fields keep their value
type UpdateSettingsRequest struct {
	MaxOnsiteLaundrySlots *int  `json:"maxOnsiteLaundrySlots,omitempty"`
	OffsiteLaundryEnabled *bool `json:"offsiteLaundryEnabled,omitempty"`
}

// SettingsResponse carries the effective settings
type SettingsResponse struct {
	MaxOnsiteLaundrySlots int        `json:"maxOnsiteLaundrySlots"`
	OffsiteLaundryEnabled bool       `json:"offsiteLaundryEnabled"`
	UpdatedAt             *time.Time `json:"updatedAt,omitempty"`
	IsDefault             bool       `json:"isDefault"`
}

// FromDomainSettings converts settings to a response; zero UpdatedAt means defaults
func FromDomainSettings(s *domain.Settings) *SettingsResponse {
	resp := &SettingsResponse{
		MaxOnsiteLaundrySlots: s.MaxOnsiteLaundrySlots,
		OffsiteLaundryEnabled: s.OffsiteLaundryEnabled,
		IsDefault:             s.UpdatedAt.IsZero(),
	}
	if !s.UpdatedAt.IsZero() {
		updated := s.UpdatedAt
		resp.UpdatedAt = &updated
	}
	return resp
}
