package ports

import (
	"context"

	"github.com/votease/api/internal/core/domain"
)

type AuthRepository interface {
	StoreRefreshToken(ctx context.Context, token *domain.RefreshToken) error
	GetRefreshTokenByHash(ctx context.Context, tokenHash string) (*domain.RefreshToken, error)
	RevokeRefreshToken(ctx context.Context, id string) error
}

// TokenPair is the result of a successful login or refresh.
type TokenPair struct {
	AccessToken  string
	RefreshToken string
}

type AuthService interface {
	Signup(ctx context.Context, email, password string) (TokenPair, error)
	Login(ctx context.Context, email, password string) (TokenPair, error)
	LoginWithGoogle(ctx context.Context, googleToken string) (TokenPair, error)
	RefreshAccessToken(ctx context.Context, refreshToken string) (TokenPair, error)
	Logout(ctx context.Context, refreshToken string) error
}

type TokenPayload struct {
	Email  string
	Name   string
	Avatar string
}

type TokenVerifier interface {
	Verify(ctx context.Context, token string, clientID string) (*TokenPayload, error)
}
