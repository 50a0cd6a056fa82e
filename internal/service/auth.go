package service

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"

	"gudangsewa-backend/internal/domain"
	"gudangsewa-backend/internal/logger"
	"gudangsewa-backend/internal/repository"
	"gudangsewa-backend/internal/security"
)

// ErrInvalidCredentials deliberately hides whether the username or the
// password was wrong.
var ErrInvalidCredentials = errors.New("invalid username or password")

type authService struct {
	store  repository.Store
	tokens security.TokenManager
}

func NewAuthService(store repository.Store, tokens security.TokenManager) AuthService {
	return &authService{store: store, tokens: tokens}
}

func (s *authService) Login(ctx context.Context, username, password string) (string, *domain.Borrower, error) {
	b, err := s.store.Borrowers().GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return "", nil, ErrInvalidCredentials
		}
		return "", nil, fmt.Errorf("load borrower: %w", err)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(b.Password), []byte(password)); err != nil {
		return "", nil, ErrInvalidCredentials
	}

	token, err := s.tokens.GenerateAccessToken(b.Username, b.Role)
	if err != nil {
		return "", nil, fmt.Errorf("generate access token: %w", err)
	}

	logger.Info("Borrower logged in", "username", b.Username, "role", b.Role)
	return token, b, nil
}
