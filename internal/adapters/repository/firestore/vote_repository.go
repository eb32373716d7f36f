package firestore

import (
	"context"
	"fmt"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/google/uuid"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/votease/api/internal/core/domain"
	"github.com/votease/api/internal/core/ports"
)

type voteDoc struct {
	ID        string    `firestore:"id"`
	PollID    string    `firestore:"pollId"`
	UserID    string    `firestore:"userId"`
	Option    string    `firestore:"option"`
	CreatedAt time.Time `firestore:"createdAt"`
}

type voteRepository struct {
	client *firestore.Client
}

func NewVoteRepository(client *firestore.Client) ports.VoteRepository {
	return &voteRepository{
		client: client,
	}
}

// voteDocID derives the vote's document identity from the (poll, user) pair,
// so a second vote for the same pair collides on create instead of racing a
// prior existence check.
func voteDocID(pollID, userID uuid.UUID) string {
	return pollID.String() + "_" + userID.String()
}

func (r *voteRepository) Create(ctx context.Context, vote *domain.Vote) error {
	doc := voteDoc{
		ID:        vote.ID.String(),
		PollID:    vote.PollID.String(),
		UserID:    vote.UserID.String(),
		Option:    vote.Option,
		CreatedAt: vote.CreatedAt,
	}

	_, err := r.client.Collection(votesCollection).Doc(voteDocID(vote.PollID, vote.UserID)).Create(ctx, doc)
	if err != nil {
		if status.Code(err) == codes.AlreadyExists {
			return domain.ErrAlreadyVoted
		}
		return fmt.Errorf("failed to save vote: %w", err)
	}

	return nil
}

func (r *voteRepository) GetByPollAndUser(ctx context.Context, pollID, userID uuid.UUID) (*domain.Vote, error) {
	snap, err := r.client.Collection(votesCollection).Doc(voteDocID(pollID, userID)).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, domain.ErrVoteNotFound
		}
		return nil, fmt.Errorf("failed to get vote: %w", err)
	}

	return voteFromSnap(snap)
}

func (r *voteRepository) Delete(ctx context.Context, pollID, userID uuid.UUID) error {
	ref := r.client.Collection(votesCollection).Doc(voteDocID(pollID, userID))
	if _, err := ref.Get(ctx); err != nil {
		if status.Code(err) == codes.NotFound {
			return domain.ErrVoteNotFound
		}
		return fmt.Errorf("failed to get vote: %w", err)
	}

	if _, err := ref.Delete(ctx); err != nil {
		return fmt.Errorf("failed to delete vote: %w", err)
	}

	return nil
}

func (r *voteRepository) DeleteByPoll(ctx context.Context, pollID uuid.UUID) error {
	iter := r.client.Collection(votesCollection).Where("pollId", "==", pollID.String()).Documents(ctx)
	defer iter.Stop()

	for {
		snap, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return fmt.Errorf("failed to list poll votes: %w", err)
		}

		if _, err := snap.Ref.Delete(ctx); err != nil {
			return fmt.Errorf("failed to delete poll votes: %w", err)
		}
	}

	return nil
}

func (r *voteRepository) CountByOption(ctx context.Context, pollID uuid.UUID) (map[string]int, error) {
	iter := r.client.Collection(votesCollection).Where("pollId", "==", pollID.String()).Documents(ctx)
	defer iter.Stop()

	counts := make(map[string]int)
	for {
		snap, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to count votes: %w", err)
		}

		var doc voteDoc
		if err := snap.DataTo(&doc); err != nil {
			return nil, fmt.Errorf("failed to decode vote: %w", err)
		}
		counts[doc.Option]++
	}

	return counts, nil
}

func voteFromSnap(snap *firestore.DocumentSnapshot) (*domain.Vote, error) {
	var doc voteDoc
	if err := snap.DataTo(&doc); err != nil {
		return nil, fmt.Errorf("failed to decode vote: %w", err)
	}

	id, err := uuid.Parse(doc.ID)
	if err != nil {
		return nil, fmt.Errorf("invalid vote id %q: %w", doc.ID, err)
	}
	pollID, err := uuid.Parse(doc.PollID)
	if err != nil {
		return nil, fmt.Errorf("invalid poll id %q: %w", doc.PollID, err)
	}
	userID, err := uuid.Parse(doc.UserID)
	if err != nil {
		return nil, fmt.Errorf("invalid user id %q: %w", doc.UserID, err)
	}

	return &domain.Vote{
		ID:        id,
		PollID:    pollID,
		UserID:    userID,
		Option:    doc.Option,
		CreatedAt: doc.CreatedAt,
	}, nil
}
