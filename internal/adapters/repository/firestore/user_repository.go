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

type userDoc struct {
	Email        string    `firestore:"email"`
	Name         string    `firestore:"name"`
	Avatar       string    `firestore:"avatar"`
	Role         string    `firestore:"role"`
	Provider     string    `firestore:"provider"`
	PasswordHash string    `firestore:"passwordHash"`
	CreatedAt    time.Time `firestore:"createdAt"`
}

type UserRepository struct {
	client *firestore.Client
}

func NewUserRepository(client *firestore.Client) ports.UserRepository {
	return &UserRepository{client: client}
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	iter := r.client.Collection(usersCollection).Where("email", "==", email).Limit(1).Documents(ctx)
	defer iter.Stop()

	snap, err := iter.Next()
	if err == iterator.Done {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user by email: %w", err)
	}

	return userFromSnap(snap)
}

func (r *UserRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	snap, err := r.client.Collection(usersCollection).Doc(id.String()).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	return userFromSnap(snap)
}

func (r *UserRepository) Create(ctx context.Context, user *domain.User) error {
	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}
	if user.CreatedAt.IsZero() {
		user.CreatedAt = time.Now()
	}

	doc := userDoc{
		Email:        user.Email,
		Name:         user.Name,
		Avatar:       user.Avatar,
		Role:         user.Role,
		Provider:     user.Provider,
		PasswordHash: user.PasswordHash,
		CreatedAt:    user.CreatedAt,
	}

	_, err := r.client.Collection(usersCollection).Doc(user.ID.String()).Create(ctx, doc)
	if err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}

	return nil
}

func (r *UserRepository) UpdateProfile(ctx context.Context, id uuid.UUID, update domain.ProfileUpdate) error {
	updates := []firestore.Update{}

	if update.Name != nil {
		updates = append(updates, firestore.Update{Path: "name", Value: *update.Name})
	}
	if update.Avatar != nil {
		updates = append(updates, firestore.Update{Path: "avatar", Value: *update.Avatar})
	}

	if len(updates) == 0 {
		return nil
	}

	_, err := r.client.Collection(usersCollection).Doc(id.String()).Update(ctx, updates)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return domain.ErrUserNotFound
		}
		return fmt.Errorf("failed to update user profile: %w", err)
	}

	return nil
}

func userFromSnap(snap *firestore.DocumentSnapshot) (*domain.User, error) {
	var doc userDoc
	if err := snap.DataTo(&doc); err != nil {
		return nil, fmt.Errorf("failed to decode user: %w", err)
	}

	id, err := uuid.Parse(snap.Ref.ID)
	if err != nil {
		return nil, fmt.Errorf("invalid user id %q: %w", snap.Ref.ID, err)
	}

	return &domain.User{
		ID:           id,
		Email:        doc.Email,
		Name:         doc.Name,
		Avatar:       doc.Avatar,
		Role:         doc.Role,
		Provider:     doc.Provider,
		PasswordHash: doc.PasswordHash,
		CreatedAt:    doc.CreatedAt,
	}, nil
}
