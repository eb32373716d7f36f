package domain

import (
	"time"

	"github.com/google/uuid"
)

const (
	PollStatusActive   = "active"
	PollStatusInactive = "inactive"
)

type Poll struct {
	ID            uuid.UUID `json:"id"`
	Title         string    `json:"title"`
	Statement     string    `json:"statement,omitempty"`
	Options       []string  `json:"options"`
	StartDate     time.Time `json:"start_date"`
	EndDate       time.Time `json:"end_date"`
	CreatorID     uuid.UUID `json:"creator_id"`
	CreatorName   string    `json:"creator_name"`
	CreatorAvatar string    `json:"creator_avatar,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
	Status        string    `json:"status"`
	Flagged       bool      `json:"flagged"`
}

// HasOption reports whether text is one of the poll's options.
func (p *Poll) HasOption(text string) bool {
	for _, opt := range p.Options {
		if opt == text {
			return true
		}
	}
	return false
}

// PollPatch carries a partial update for a poll. Nil fields are left
// untouched by the store.
type PollPatch struct {
	Title     *string    `json:"title,omitempty"`
	Statement *string    `json:"statement,omitempty"`
	Options   []string   `json:"options,omitempty"`
	StartDate *time.Time `json:"start_date,omitempty"`
	EndDate   *time.Time `json:"end_date,omitempty"`
	Status    *string    `json:"status,omitempty"`
	Flagged   *bool      `json:"flagged,omitempty"`
}

// PollFilter selects polls by the conjunction of its non-nil fields.
type PollFilter struct {
	Status    *string
	Flagged   *bool
	CreatorID *uuid.UUID
}
