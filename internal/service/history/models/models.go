package models

import (
	"time"

	"github.com/m04kA/SMC-DropInService/internal/domain"
)

// EntryResponse is one history entry as staff see it
type EntryResponse struct {
	ID          string     `json:"id"`
	ActionType  string     `json:"actionType"`
	Description string     `json:"description"`
	BookingID   *string    `json:"bookingId,omitempty"`
	ServiceDay  string     `json:"serviceDay"`
	CreatedAt   time.Time  `json:"createdAt"`
	UndoneAt    *time.Time `json:"undoneAt,omitempty"`
	CanUndo     bool       `json:"canUndo"`
}

type EntryListResponse struct {
	ServiceDay string           `json:"serviceDay"`
	Entries    []*EntryResponse `json:"entries"`
}

// ClearResponse reports how many entries were deleted
type ClearResponse struct {
	Deleted int64   `json:"deleted"`
	Day     *string `json:"day,omitempty"`
}

func FromDomainEntry(e *domain.ActionHistoryEntry) *EntryResponse {
	return &EntryResponse{
		ID:          e.ID,
		ActionType:  string(e.ActionType),
		Description: e.Description,
		BookingID:   e.BookingID,
		ServiceDay:  e.ServiceDay,
		CreatedAt:   e.CreatedAt,
		UndoneAt:    e.UndoneAt,
		CanUndo:     !e.IsUndone(),
	}
}

func FromDomainEntryList(day string, entries []*domain.ActionHistoryEntry) *EntryListResponse {
	resp := &EntryListResponse{
		ServiceDay: day,
		Entries:    make([]*EntryResponse, 0, len(entries)),
	}
	for _, e := range entries {
		resp.Entries = append(resp.Entries, FromDomainEntry(e))
	}
	return resp
}
