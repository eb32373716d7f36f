package ports

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/votease/api/internal/core/domain"
)

type PollRepository interface {
	Save(ctx context.Context, poll *domain.Poll) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Poll, error)
	Update(ctx context.Context, id uuid.UUID, patch domain.PollPatch) error
	Delete(ctx context.Context, id uuid.UUID) error
	Find(ctx context.Context, filter domain.PollFilter) ([]*domain.Poll, error)
}

type CreatePollInput struct {
	Title     string
	Statement string
	Options   []string
	StartDate time.Time
	EndDate   time.Time
}

type PollService interface {
	Create(ctx context.Context, userID uuid.UUID, input CreatePollInput) (*domain.Poll, error)
	Get(ctx context.Context, id uuid.UUID) (*domain.Poll, error)
	Edit(ctx context.Context, userID, pollID uuid.UUID, patch domain.PollPatch) error
	Delete(ctx context.Context, userID, pollID uuid.UUID) error
	View(ctx context.Context, filter domain.PollFilter) ([]*domain.Poll, error)
	Flag(ctx context.Context, userID, pollID uuid.UUID, flagType string) error
	IsAdmin(ctx context.Context, userID uuid.UUID) bool
}
