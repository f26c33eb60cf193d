package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/spec-kit/reclamos-service/internal/auth"
	"github.com/spec-kit/reclamos-service/internal/domain"
	apperrors "github.com/spec-kit/reclamos-service/pkg/util"
)

// UserDirectory resolves operator accounts from whichever backend is active.
type UserDirectory interface {
	GetByUsername(ctx context.Context, username string) (*domain.User, error)
	GetByID(ctx context.Context, id string) (*domain.User, error)
}

// AuthService coordinates operator login.
type AuthService struct {
	users    UserDirectory
	tokenMgr *auth.TokenManager
	logger   *zap.Logger
}

// NewAuthService builds the service.
func NewAuthService(users UserDirectory, tokenMgr *auth.TokenManager, logger *zap.Logger) *AuthService {
	return &AuthService{users: users, tokenMgr: tokenMgr, logger: logger}
}

// Login authenticates an operator and issues a JWT.
func (s *AuthService) Login(ctx context.Context, username, password string) (*domain.User, string, time.Time, error) {
	user, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		return nil, "", time.Time{}, err
	}
	if user == nil || !user.Active {
		return nil, "", time.Time{}, apperrors.NewUnauthorized("invalid credentials")
	}
	if err := auth.ComparePassword(user.PasswordHash, password); err != nil {
		s.logger.Warn("failed login attempt", zap.String("username", username))
		return nil, "", time.Time{}, apperrors.NewUnauthorized("invalid credentials")
	}

	token, exp, err := s.tokenMgr.GenerateToken(user)
	if err != nil {
		return nil, "", time.Time{}, err
	}
	return user, token, exp, nil
}

// CurrentUser resolves the user behind a validated token subject.
func (s *AuthService) CurrentUser(ctx context.Context, id string) (*domain.User, error) {
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, apperrors.NewNotFound("user", map[string]any{"id": id})
	}
	return user, nil
}
