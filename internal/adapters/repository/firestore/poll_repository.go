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

type pollDoc struct {
	Title         string    `firestore:"title"`
	Statement     string    `firestore:"statement"`
	Options       []string  `firestore:"options"`
	StartDate     time.Time `firestore:"startDate"`
	EndDate       time.Time `firestore:"endDate"`
	CreatorID     string    `firestore:"creatorId"`
	CreatorName   string    `firestore:"creatorName"`
	CreatorAvatar string    `firestore:"creatorAvatar"`
	CreatedAt     time.Time `firestore:"createdAt"`
	Status        string    `firestore:"status"`
	Flagged       bool      `firestore:"flagged"`
}

type pollRepository struct {
	client *firestore.Client
}

func NewPollRepository(client *firestore.Client) ports.PollRepository {
	return &pollRepository{
		client: client,
	}
}

func (r *pollRepository) Save(ctx context.Context, poll *domain.Poll) error {
	doc := pollDoc{
		Title:         poll.Title,
		Statement:     poll.Statement,
		Options:       poll.Options,
		StartDate:     poll.StartDate,
		EndDate:       poll.EndDate,
		CreatorID:     poll.CreatorID.String(),
		CreatorName:   poll.CreatorName,
		CreatorAvatar: poll.CreatorAvatar,
		CreatedAt:     poll.CreatedAt,
		Status:        poll.Status,
		Flagged:       poll.Flagged,
	}

	_, err := r.client.Collection(pollsCollection).Doc(poll.ID.String()).Create(ctx, doc)
	if err != nil {
		return fmt.Errorf("failed to insert poll: %w", err)
	}

	return nil
}

func (r *pollRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Poll, error) {
	snap, err := r.client.Collection(pollsCollection).Doc(id.String()).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, domain.ErrPollNotFound
		}
		return nil, fmt.Errorf("failed to get poll: %w", err)
	}

	return pollFromSnap(snap)
}

func (r *pollRepository) Update(ctx context.Context, id uuid.UUID, patch domain.PollPatch) error {
	updates := []firestore.Update{}

	if patch.Title != nil {
		updates = append(updates, firestore.Update{Path: "title", Value: *patch.Title})
	}
	if patch.Statement != nil {
		updates = append(updates, firestore.Update{Path: "statement", Value: *patch.Statement})
	}
	if patch.Options != nil {
		updates = append(updates, firestore.Update{Path: "options", Value: patch.Options})
	}
	if patch.StartDate != nil {
		updates = append(updates, firestore.Update{Path: "startDate", Value: *patch.StartDate})
	}
	if patch.EndDate != nil {
		updates = append(updates, firestore.Update{Path: "endDate", Value: *patch.EndDate})
	}
	if patch.Status != nil {
		updates = append(updates, firestore.Update{Path: "status", Value: *patch.Status})
	}
	if patch.Flagged != nil {
		updates = append(updates, firestore.Update{Path: "flagged", Value: *patch.Flagged})
	}

	if len(updates) == 0 {
		return nil
	}

	_, err := r.client.Collection(pollsCollection).Doc(id.String()).Update(ctx, updates)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return domain.ErrPollNotFound
		}
		return fmt.Errorf("failed to update poll: %w", err)
	}

	return nil
}

func (r *pollRepository) Delete(ctx context.Context, id uuid.UUID) error {
	ref := r.client.Collection(pollsCollection).Doc(id.String())
	if _, err := ref.Get(ctx); err != nil {
		if status.Code(err) == codes.NotFound {
			return domain.ErrPollNotFound
		}
		return fmt.Errorf("failed to get poll: %w", err)
	}

	if _, err := ref.Delete(ctx); err != nil {
		return fmt.Errorf("failed to delete poll: %w", err)
	}

	return nil
}

func (r *pollRepository) Find(ctx context.Context, filter domain.PollFilter) ([]*domain.Poll, error) {
	q := r.client.Collection(pollsCollection).Query

	if filter.Status != nil {
		q = q.Where("status", "==", *filter.Status)
	}
	if filter.Flagged != nil {
		q = q.Where("flagged", "==", *filter.Flagged)
	}
	if filter.CreatorID != nil {
		q = q.Where("creatorId", "==", filter.CreatorID.String())
	}

	iter := q.Documents(ctx)
	defer iter.Stop()

	var polls []*domain.Poll
	for {
		snap, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to find polls: %w", err)
		}

		poll, err := pollFromSnap(snap)
		if err != nil {
			return nil, err
		}
		polls = append(polls, poll)
	}

	return polls, nil
}

func pollFromSnap(snap *firestore.DocumentSnapshot) (*domain.Poll, error) {
	var doc pollDoc
	if err := snap.DataTo(&doc); err != nil {
		return nil, fmt.Errorf("failed to decode poll: %w", err)
	}

	id, err := uuid.Parse(snap.Ref.ID)
	if err != nil {
		return nil, fmt.Errorf("invalid poll id %q: %w", snap.Ref.ID, err)
	}

	creatorID, err := uuid.Parse(doc.CreatorID)
	if err != nil {
		return nil, fmt.Errorf("invalid creator id %q: %w", doc.CreatorID, err)
	}

	return &domain.Poll{
		ID:            id,
		Title:         doc.Title,
		Statement:     doc.Statement,
		Options:       doc.Options,
		StartDate:     doc.StartDate,
		EndDate:       doc.EndDate,
		CreatorID:     creatorID,
		CreatorName:   doc.CreatorName,
		CreatorAvatar: doc.CreatorAvatar,
		CreatedAt:     doc.CreatedAt,
		Status:        doc.Status,
		Flagged:       doc.Flagged,
	}, nil
}
