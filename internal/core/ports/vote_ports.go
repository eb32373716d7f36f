package ports

import (
	"context"

	"github.com/google/uuid"
	"github.com/votease/api/internal/core/domain"
)

// VoteRepository persists the vote ledger. Create must be conditional on the
// (poll, user) pair being absent: a second insert for the same pair fails with
// domain.ErrAlreadyVoted without any prior read.
type VoteRepository interface {
	Create(ctx context.Context, vote *domain.Vote) error
	GetByPollAndUser(ctx context.Context, pollID, userID uuid.UUID) (*domain.Vote, error)
	Delete(ctx context.Context, pollID, userID uuid.UUID) error
	DeleteByPoll(ctx context.Context, pollID uuid.UUID) error
	CountByOption(ctx context.Context, pollID uuid.UUID) (map[string]int, error)
}

type VoteService interface {
	Cast(ctx context.Context, userID, pollID uuid.UUID, option string) error
	Undo(ctx context.Context, userID, pollID uuid.UUID) error
	Counts(ctx context.Context, pollID uuid.UUID) (map[string]int, error)
	Total(ctx context.Context, pollID uuid.UUID) (int, error)
	UserVote(ctx context.Context, userID, pollID uuid.UUID) (*domain.Vote, error)
}
