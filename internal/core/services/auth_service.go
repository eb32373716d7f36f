package services

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/votease/api/internal/core/domain"
	"github.com/votease/api/internal/core/ports"
)

const (
	accessTokenTTL  = 15 * time.Minute
	refreshTokenTTL = 7 * 24 * time.Hour
)

type AuthService struct {
	userRepo            ports.UserRepository
	authRepo            ports.AuthRepository
	googleTokenVerifier ports.TokenVerifier
	jwtSecret           []byte
	googleClientID      string
	adminEmail          string
}

func NewAuthService(userRepo ports.UserRepository, authRepo ports.AuthRepository, googleTokenVerifier ports.TokenVerifier) *AuthService {
	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		fmt.Println("Warning: JWT_SECRET not set")
	}

	return &AuthService{
		userRepo:            userRepo,
		authRepo:            authRepo,
		googleTokenVerifier: googleTokenVerifier,
		jwtSecret:           []byte(secret),
		googleClientID:      os.Getenv("GOOGLE_CLIENT_ID"),
		adminEmail:          os.Getenv("ADMIN_EMAIL"),
	}
}

// Signup registers a new email/password user and logs them in.
func (s *AuthService) Signup(ctx context.Context, email, password string) (ports.TokenPair, error) {
	if email == "" || password == "" {
		return ports.TokenPair{}, domain.ErrInvalidCredentials
	}

	existing, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		return ports.TokenPair{}, fmt.Errorf("failed to get user: %w", err)
	}
	if existing != nil {
		return ports.TokenPair{}, domain.ErrEmailTaken
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return ports.TokenPair{}, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &domain.User{
		Email: email,
		// Default display name, same as the signup form pre-fills.
		Name:         strings.SplitN(email, "@", 2)[0],
		Role:         s.roleFor(email),
		Provider:     domain.ProviderEmail,
		PasswordHash: string(hash),
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return ports.TokenPair{}, fmt.Errorf("failed to create user: %w", err)
	}

	return s.issueTokens(ctx, user)
}

// Login authenticates an email/password user.
func (s *AuthService) Login(ctx context.Context, email, password string) (ports.TokenPair, error) {
	user, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		return ports.TokenPair{}, fmt.Errorf("failed to get user: %w", err)
	}
	if user == nil || user.PasswordHash == "" {
		return ports.TokenPair{}, domain.ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return ports.TokenPair{}, domain.ErrInvalidCredentials
	}

	return s.issueTokens(ctx, user)
}

// LoginWithGoogle verifies a Google ID token and signs the user in, creating
// their account on first login.
func (s *AuthService) LoginWithGoogle(ctx context.Context, googleToken string) (ports.TokenPair, error) {
	payload, err := s.googleTokenVerifier.Verify(ctx, googleToken, s.googleClientID)
	if err != nil {
		return ports.TokenPair{}, fmt.Errorf("invalid google token: %w", err)
	}

	user, err := s.userRepo.GetByEmail(ctx, payload.Email)
	if err != nil {
		return ports.TokenPair{}, fmt.Errorf("failed to get user: %w", err)
	}

	if user == nil {
		user = &domain.User{
			Email:    payload.Email,
			Name:     payload.Name,
			Avatar:   payload.Avatar,
			Role:     s.roleFor(payload.Email),
			Provider: domain.ProviderGoogle,
		}
		if err := s.userRepo.Create(ctx, user); err != nil {
			return ports.TokenPair{}, fmt.Errorf("failed to create user: %w", err)
		}
	}

	return s.issueTokens(ctx, user)
}

func (s *AuthService) RefreshAccessToken(ctx context.Context, refreshToken string) (ports.TokenPair, error) {
	tokenHash := s.hashToken(refreshToken)

	rtEntity, err := s.authRepo.GetRefreshTokenByHash(ctx, tokenHash)
	if err != nil {
		return ports.TokenPair{}, fmt.Errorf("failed to get refresh token: %w", err)
	}
	if rtEntity == nil {
		return ports.TokenPair{}, errors.New("refresh token not found")
	}

	if rtEntity.Revoked {
		return ports.TokenPair{}, errors.New("refresh token revoked")
	}
	if rtEntity.ExpiresAt.Before(time.Now()) {
		return ports.TokenPair{}, errors.New("refresh token expired")
	}

	user, err := s.userRepo.GetByID(ctx, rtEntity.UserID)
	if err != nil {
		return ports.TokenPair{}, fmt.Errorf("failed to get user: %w", err)
	}
	if user == nil {
		return ports.TokenPair{}, domain.ErrUserNotFound
	}

	accessToken, err := s.generateAccessToken(user)
	if err != nil {
		return ports.TokenPair{}, fmt.Errorf("failed to generate access token: %w", err)
	}

	// The refresh token itself is not rotated until expiry.
	return ports.TokenPair{AccessToken: accessToken, RefreshToken: refreshToken}, nil
}

func (s *AuthService) Logout(ctx context.Context, refreshToken string) error {
	tokenHash := s.hashToken(refreshToken)

	rtEntity, err := s.authRepo.GetRefreshTokenByHash(ctx, tokenHash)
	if err != nil {
		return fmt.Errorf("failed to get refresh token: %w", err)
	}
	if rtEntity == nil {
		return nil
	}

	return s.authRepo.RevokeRefreshToken(ctx, rtEntity.ID.String())
}

func (s *AuthService) roleFor(email string) string {
	if s.adminEmail != "" && email == s.adminEmail {
		return domain.RoleAdmin
	}
	return domain.RoleUser
}

func (s *AuthService) issueTokens(ctx context.Context, user *domain.User) (ports.TokenPair, error) {
	accessToken, err := s.generateAccessToken(user)
	if err != nil {
		return ports.TokenPair{}, fmt.Errorf("failed to generate access token: %w", err)
	}

	refreshToken, err := s.generateRefreshToken()
	if err != nil {
		return ports.TokenPair{}, fmt.Errorf("failed to generate refresh token: %w", err)
	}

	rtEntity := &domain.RefreshToken{
		UserID:    user.ID,
		TokenHash: s.hashToken(refreshToken),
		ExpiresAt: time.Now().Add(refreshTokenTTL),
		Revoked:   false,
	}

	if err := s.authRepo.StoreRefreshToken(ctx, rtEntity); err != nil {
		return ports.TokenPair{}, fmt.Errorf("failed to store refresh token: %w", err)
	}

	return ports.TokenPair{AccessToken: accessToken, RefreshToken: refreshToken}, nil
}

func (s *AuthService) generateAccessToken(user *domain.User) (string, error) {
	claims := jwt.MapClaims{
		"sub":   user.ID.String(),
		"email": user.Email,
		"role":  user.Role,
		"exp":   time.Now().Add(accessTokenTTL).Unix(),
		"iat":   time.Now().Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.jwtSecret)
}

func (s *AuthService) generateRefreshToken() (string, error) {
	b := make([]byte, 32)
	_, err := rand.Read(b)
	if err != nil {
		return "", err
	}
	return base64.URLEncoding.EncodeToString(b), nil
}

func (s *AuthService) hashToken(token string) string {
	hash := sha256.Sum256([]byte(token))
	return hex.EncodeToString(hash[:])
}
