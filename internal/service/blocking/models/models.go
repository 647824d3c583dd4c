package models

import (
	"time"

	"github.com/m04kA/SMC-DropInService/internal/domain"
)

// SlotRequest names one slot of one service on one service day
type SlotRequest struct {
	ServiceType string `json:"serviceType"`
	SlotID      string `json:"slotId"`
	Date        string `json:"date"`
}

// BlockedSlotResponse is one blocked slot
type BlockedSlotResponse struct {
	ServiceType string     `json:"serviceType"`
	SlotID      string     `json:"slotId"`
	Date        string     `json:"date"`
	CreatedBy   string     `json:"createdBy,omitempty"`
	CreatedAt   *time.Time `json:"createdAt,omitempty"`
}

// BlockResponse reports the blocked slot; Created is false when it was already blocked
type BlockResponse struct {
	BlockedSlotResponse
	Created bool `json:"created"`
}

type BlockedSlotListResponse struct {
	Date  string                 `json:"date"`
	Slots []*BlockedSlotResponse `json:"slots"`
}

func FromDomainBlockedSlot(s *domain.BlockedSlot) *BlockedSlotResponse {
	resp := &BlockedSlotResponse{
		ServiceType: string(s.ServiceType),
		SlotID:      s.SlotID,
		Date:        s.Date,
		CreatedBy:   s.CreatedBy,
	}
	if !s.CreatedAt.IsZero() {
		created := s.CreatedAt
		resp.CreatedAt = &created
	}
	return resp
}

func FromDomainBlockedSlotList(date string, slots []*domain.BlockedSlot) *BlockedSlotListResponse {
	resp := &BlockedSlotListResponse{
		Date:  date,
		Slots: make([]*BlockedSlotResponse, 0, len(slots)),
	}
	for _, s := range slots {
		resp.Slots = append(resp.Slots, FromDomainBlockedSlot(s))
	}
	return resp
}
