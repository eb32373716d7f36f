package services

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/votease/api/internal/core/domain"
	"github.com/votease/api/internal/core/ports"
)

type voteService struct {
	pollRepo ports.PollRepository
	voteRepo ports.VoteRepository
}

func NewVoteService(pollRepo ports.PollRepository, voteRepo ports.VoteRepository) ports.VoteService {
	return &voteService{
		pollRepo: pollRepo,
		voteRepo: voteRepo,
	}
}

// Cast records the user's vote. Uniqueness per (user, poll) is enforced by
// the repository's conditional insert, so two concurrent casts cannot both
// land; the loser gets domain.ErrAlreadyVoted.
func (s *voteService) Cast(ctx context.Context, userID, pollID uuid.UUID, option string) error {
	poll, err := s.pollRepo.GetByID(ctx, pollID)
	if err != nil {
		return err
	}

	if !poll.HasOption(option) {
		return domain.ErrInvalidOption
	}

	vote := &domain.Vote{
		ID:        uuid.New(),
		PollID:    pollID,
		UserID:    userID,
		Option:    option,
		CreatedAt: time.Now(),
	}

	return s.voteRepo.Create(ctx, vote)
}

func (s *voteService) Undo(ctx context.Context, userID, pollID uuid.UUID) error {
	if _, err := s.voteRepo.GetByPollAndUser(ctx, pollID, userID); err != nil {
		return err
	}

	return s.voteRepo.Delete(ctx, pollID, userID)
}

func (s *voteService) Counts(ctx context.Context, pollID uuid.UUID) (map[string]int, error) {
	return s.voteRepo.CountByOption(ctx, pollID)
}

func (s *voteService) Total(ctx context.Context, pollID uuid.UUID) (int, error) {
	counts, err := s.Counts(ctx, pollID)
	if err != nil {
		return 0, err
	}

	total := 0
	for _, n := range counts {
		total += n
	}
	return total, nil
}

func (s *voteService) UserVote(ctx context.Context, userID, pollID uuid.UUID) (*domain.Vote, error) {
	return s.voteRepo.GetByPollAndUser(ctx, pollID, userID)
}
