package domain

import "github.com/google/uuid"

// Tally is the per-option vote breakdown for a poll. Options nobody voted
// for are absent from Counts; callers default to zero.
type Tally struct {
	PollID uuid.UUID      `json:"poll_id"`
	Counts map[string]int `json:"counts"`
	Total  int            `json:"total"`
}
