package firestore

import (
	"context"
	"fmt"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/google/uuid"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/votease/api/internal/core/domain"
	"github.com/votease/api/internal/core/ports"
)

type refreshTokenDoc struct {
	ID        string    `firestore:"id"`
	UserID    string    `firestore:"userId"`
	ExpiresAt time.Time `firestore:"expiresAt"`
	Revoked   bool      `firestore:"revoked"`
	CreatedAt time.Time `firestore:"createdAt"`
}

type AuthRepository struct {
	client *firestore.Client
}

func NewAuthRepository(client *firestore.Client) ports.AuthRepository {
	return &AuthRepository{client: client}
}

// StoreRefreshToken keys the document by the token hash, so lookup by hash
// is a single read and the hash itself never needs a secondary index.
func (r *AuthRepository) StoreRefreshToken(ctx context.Context, token *domain.RefreshToken) error {
	if token.ID == uuid.Nil {
		token.ID = uuid.New()
	}
	if token.CreatedAt.IsZero() {
		token.CreatedAt = time.Now()
	}

	doc := refreshTokenDoc{
		ID:        token.ID.String(),
		UserID:    token.UserID.String(),
		ExpiresAt: token.ExpiresAt,
		Revoked:   token.Revoked,
		CreatedAt: token.CreatedAt,
	}

	_, err := r.client.Collection(refreshTokensCollection).Doc(token.TokenHash).Create(ctx, doc)
	if err != nil {
		return fmt.Errorf("failed to store refresh token: %w", err)
	}

	return nil
}

func (r *AuthRepository) GetRefreshTokenByHash(ctx context.Context, tokenHash string) (*domain.RefreshToken, error) {
	snap, err := r.client.Collection(refreshTokensCollection).Doc(tokenHash).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get refresh token: %w", err)
	}

	var doc refreshTokenDoc
	if err := snap.DataTo(&doc); err != nil {
		return nil, fmt.Errorf("failed to decode refresh token: %w", err)
	}

	id, err := uuid.Parse(doc.ID)
	if err != nil {
		return nil, fmt.Errorf("invalid refresh token id %q: %w", doc.ID, err)
	}
	userID, err := uuid.Parse(doc.UserID)
	if err != nil {
		return nil, fmt.Errorf("invalid user id %q: %w", doc.UserID, err)
	}

	return &domain.RefreshToken{
		ID:        id,
		UserID:    userID,
		TokenHash: snap.Ref.ID,
		ExpiresAt: doc.ExpiresAt,
		Revoked:   doc.Revoked,
		CreatedAt: doc.CreatedAt,
	}, nil
}

func (r *AuthRepository) RevokeRefreshToken(ctx context.Context, id string) error {
	iter := r.client.Collection(refreshTokensCollection).Where("id", "==", id).Limit(1).Documents(ctx)
	defer iter.Stop()

	snaps, err := iter.GetAll()
	if err != nil {
		return fmt.Errorf("failed to find refresh token: %w", err)
	}
	if len(snaps) == 0 {
		return nil
	}

	_, err = snaps[0].Ref.Update(ctx, []firestore.Update{{Path: "revoked", Value: true}})
	if err != nil {
		return fmt.Errorf("failed to revoke refresh token: %w", err)
	}

	return nil
}
