package services

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/votease/api/internal/core/domain"
	"github.com/votease/api/internal/core/ports"
)

type voteFixture struct {
	pollRepo *fakePollRepo
	voteRepo *fakeVoteRepo
	svc      ports.VoteService
	poll     *domain.Poll
	userA    uuid.UUID
	userB    uuid.UUID
}

func newVoteFixture(t *testing.T) *voteFixture {
	t.Helper()

	pollRepo := newFakePollRepo()
	voteRepo := newFakeVoteRepo()

	poll := &domain.Poll{
		ID:        uuid.New(),
		Title:     "Favorite color?",
		Options:   []string{"Red", "Blue"},
		StartDate: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
		EndDate:   time.Date(2025, 1, 2, 0, 0, 0, 0, time.UTC),
		CreatorID: uuid.New(),
		CreatedAt: time.Now(),
		Status:    domain.PollStatusActive,
	}
	require.NoError(t, pollRepo.Save(context.Background(), poll))

	return &voteFixture{
		pollRepo: pollRepo,
		voteRepo: voteRepo,
		svc:      NewVoteService(pollRepo, voteRepo),
		poll:     poll,
		userA:    uuid.New(),
		userB:    uuid.New(),
	}
}

func TestCastVote(t *testing.T) {
	f := newVoteFixture(t)
	ctx := context.Background()

	require.NoError(t, f.svc.Cast(ctx, f.userA, f.poll.ID, "Red"))

	vote, err := f.svc.UserVote(ctx, f.userA, f.poll.ID)
	require.NoError(t, err)
	assert.Equal(t, "Red", vote.Option)
	assert.Equal(t, f.poll.ID, vote.PollID)
	assert.Equal(t, f.userA, vote.UserID)
}

func TestCastVoteRejectsDuplicates(t *testing.T) {
	f := newVoteFixture(t)
	ctx := context.Background()

	require.NoError(t, f.svc.Cast(ctx, f.userA, f.poll.ID, "Red"))

	// Same option and a different option both count as duplicates; the
	// caller must undo first.
	err := f.svc.Cast(ctx, f.userA, f.poll.ID, "Red")
	assert.ErrorIs(t, err, domain.ErrAlreadyVoted)

	err = f.svc.Cast(ctx, f.userA, f.poll.ID, "Blue")
	assert.ErrorIs(t, err, domain.ErrAlreadyVoted)

	total, err := f.svc.Total(ctx, f.poll.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, total)
}

func TestCastVoteValidation(t *testing.T) {
	f := newVoteFixture(t)
	ctx := context.Background()

	err := f.svc.Cast(ctx, f.userA, f.poll.ID, "Green")
	assert.ErrorIs(t, err, domain.ErrInvalidOption)

	err = f.svc.Cast(ctx, f.userA, uuid.New(), "Red")
	assert.ErrorIs(t, err, domain.ErrPollNotFound)
}

func TestUndoVote(t *testing.T) {
	f := newVoteFixture(t)
	ctx := context.Background()

	err := f.svc.Undo(ctx, f.userA, f.poll.ID)
	assert.ErrorIs(t, err, domain.ErrVoteNotFound)

	require.NoError(t, f.svc.Cast(ctx, f.userA, f.poll.ID, "Red"))
	require.NoError(t, f.svc.Undo(ctx, f.userA, f.poll.ID))

	_, err = f.svc.UserVote(ctx, f.userA, f.poll.ID)
	assert.ErrorIs(t, err, domain.ErrVoteNotFound)

	// Undo returns the pair to Unvoted, so casting again succeeds.
	require.NoError(t, f.svc.Cast(ctx, f.userA, f.poll.ID, "Blue"))
}

func TestTotalMatchesCounts(t *testing.T) {
	f := newVoteFixture(t)
	ctx := context.Background()

	users := []uuid.UUID{f.userA, f.userB, uuid.New(), uuid.New()}
	options := []string{"Red", "Blue", "Red", "Red"}

	for i, userID := range users {
		require.NoError(t, f.svc.Cast(ctx, userID, f.poll.ID, options[i]))
	}
	require.NoError(t, f.svc.Undo(ctx, users[2], f.poll.ID))

	counts, err := f.svc.Counts(ctx, f.poll.ID)
	require.NoError(t, err)

	total, err := f.svc.Total(ctx, f.poll.ID)
	require.NoError(t, err)

	sum := 0
	for _, n := range counts {
		sum += n
	}
	assert.Equal(t, sum, total)
	assert.Equal(t, map[string]int{"Red": 2, "Blue": 1}, counts)
}

// TestVotingScenario walks the end-to-end tally sequence: two voters, one
// retraction, zero-vote options absent from the counts.
func TestVotingScenario(t *testing.T) {
	f := newVoteFixture(t)
	ctx := context.Background()

	require.NoError(t, f.svc.Cast(ctx, f.userA, f.poll.ID, "Red"))

	counts, err := f.svc.Counts(ctx, f.poll.ID)
	require.NoError(t, err)
	assert.Equal(t, map[string]int{"Red": 1}, counts)

	require.NoError(t, f.svc.Cast(ctx, f.userB, f.poll.ID, "Blue"))

	total, err := f.svc.Total(ctx, f.poll.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, total)

	require.NoError(t, f.svc.Undo(ctx, f.userA, f.poll.ID))

	counts, err = f.svc.Counts(ctx, f.poll.ID)
	require.NoError(t, err)
	assert.Equal(t, map[string]int{"Blue": 1}, counts)
}
