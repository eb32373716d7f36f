package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/votease/api/internal/core/domain"
	"github.com/votease/api/internal/core/ports"
)

type pollService struct {
	pollRepo ports.PollRepository
	voteRepo ports.VoteRepository
	userRepo ports.UserRepository
}

func NewPollService(pollRepo ports.PollRepository, voteRepo ports.VoteRepository, userRepo ports.UserRepository) ports.PollService {
	return &pollService{
		pollRepo: pollRepo,
		voteRepo: voteRepo,
		userRepo: userRepo,
	}
}

// IsAdmin reports whether the user holds the admin role. A missing user or a
// failed lookup counts as not-admin rather than an error.
func (s *pollService) IsAdmin(ctx context.Context, userID uuid.UUID) bool {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil || user == nil {
		return false
	}
	return user.IsAdmin()
}

func (s *pollService) Create(ctx context.Context, userID uuid.UUID, input ports.CreatePollInput) (*domain.Poll, error) {
	if strings.TrimSpace(input.Title) == "" {
		return nil, fmt.Errorf("%w: title is required", domain.ErrInvalidPoll)
	}

	var options []string
	for _, opt := range input.Options {
		if strings.TrimSpace(opt) == "" {
			continue
		}
		options = append(options, opt)
	}
	if len(options) < 2 {
		return nil, fmt.Errorf("%w: at least two options are required", domain.ErrInvalidPoll)
	}

	if !input.StartDate.Before(input.EndDate) {
		return nil, fmt.Errorf("%w: start date must precede end date", domain.ErrInvalidPoll)
	}

	creator, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get creator: %w", err)
	}
	if creator == nil {
		return nil, domain.ErrUserNotFound
	}

	poll := &domain.Poll{
		ID:        uuid.New(),
		Title:     input.Title,
		Statement: input.Statement,
		Options:   options,
		StartDate: input.StartDate,
		EndDate:   input.EndDate,
		CreatorID: userID,
		// Snapshot of the creator profile at creation time; later profile
		// edits do not propagate to existing polls.
		CreatorName:   creator.Name,
		CreatorAvatar: creator.Avatar,
		CreatedAt:     time.Now(),
		Status:        domain.PollStatusActive,
		Flagged:       false,
	}

	if err := s.pollRepo.Save(ctx, poll); err != nil {
		return nil, err
	}

	return poll, nil
}

func (s *pollService) Get(ctx context.Context, id uuid.UUID) (*domain.Poll, error) {
	return s.pollRepo.GetByID(ctx, id)
}

// Edit merges the patch into the poll. Cross-field invariants are not
// re-checked here; only creation validates the date window.
func (s *pollService) Edit(ctx context.Context, userID, pollID uuid.UUID, patch domain.PollPatch) error {
	poll, err := s.pollRepo.GetByID(ctx, pollID)
	if err != nil {
		return err
	}

	if poll.CreatorID != userID && !s.IsAdmin(ctx, userID) {
		return domain.ErrPermissionDenied
	}

	return s.pollRepo.Update(ctx, pollID, patch)
}

// Delete removes the poll and its votes. Votes go first so a failure leaves
// the poll visible rather than orphaning its ledger.
func (s *pollService) Delete(ctx context.Context, userID, pollID uuid.UUID) error {
	poll, err := s.pollRepo.GetByID(ctx, pollID)
	if err != nil {
		return err
	}

	if poll.CreatorID != userID && !s.IsAdmin(ctx, userID) {
		return domain.ErrPermissionDenied
	}

	if err := s.voteRepo.DeleteByPoll(ctx, pollID); err != nil {
		return fmt.Errorf("failed to delete poll votes: %w", err)
	}

	return s.pollRepo.Delete(ctx, pollID)
}

func (s *pollService) View(ctx context.Context, filter domain.PollFilter) ([]*domain.Poll, error) {
	return s.pollRepo.Find(ctx, filter)
}

func (s *pollService) Flag(ctx context.Context, userID, pollID uuid.UUID, flagType string) error {
	if !s.IsAdmin(ctx, userID) {
		return domain.ErrPermissionDenied
	}

	if _, err := s.pollRepo.GetByID(ctx, pollID); err != nil {
		return err
	}

	var patch domain.PollPatch
	switch flagType {
	case "flagged":
		flagged, status := true, domain.PollStatusInactive
		patch = domain.PollPatch{Flagged: &flagged, Status: &status}
	case "active":
		flagged, status := false, domain.PollStatusActive
		patch = domain.PollPatch{Flagged: &flagged, Status: &status}
	default:
		return domain.ErrInvalidFlagType
	}

	return s.pollRepo.Update(ctx, pollID, patch)
}
