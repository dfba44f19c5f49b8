package service

import (
	"context"
	"crypto/subtle"
	"errors"

	"intentbot/internal/dto"
	"intentbot/pkg/auth"
	"intentbot/pkg/config"

	"go.uber.org/zap"
)

var ErrInvalidCredentials = errors.New("invalid credentials")

// AuthService authenticates the single configured administrator.
type AuthService struct {
	admin      config.AdminConfig
	jwtManager *auth.JWTManager
	logger     *zap.Logger
}

func NewAuthService(admin config.AdminConfig, jwtManager *auth.JWTManager, logger *zap.Logger) *AuthService {
	return &AuthService{
		admin:      admin,
		jwtManager: jwtManager,
		logger:     logger,
	}
}

// Login checks the credentials and issues an access token. Login is disabled
// while no admin password hash is configured.
func (s *AuthService) Login(_ context.Context, req *dto.LoginRequest) (*dto.AuthResponse, error) {
	if s.admin.PasswordHash == "" {
		s.logger.Warn("Login attempted but ADMIN_PASSWORD_HASH is not set")
		return nil, ErrInvalidCredentials
	}
	if subtle.ConstantTimeCompare([]byte(req.Username), []byte(s.admin.Username)) != 1 {
		return nil, ErrInvalidCredentials
	}
	if !auth.CheckPasswordHash(req.Password, s.admin.PasswordHash) {
		return nil, ErrInvalidCredentials
	}

	accessToken, err := s.jwtManager.GenerateToken(req.Username)
	if err != nil {
		return nil, err
	}

	return &dto.AuthResponse{
		AccessToken: accessToken,
		TokenType:   "Bearer",
		ExpiresIn:   int64(s.jwtManager.GetTokenDuration().Seconds()),
	}, nil
}
