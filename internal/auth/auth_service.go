package auth

import (
	"context"
	"errors"
	"os"
	"strconv"
	"time"

	autherrors "defisalary/internal/auth/errors"
	"defisalary/internal/shared/ethaddr"

	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const defaultTokenTTL = time.Hour

type Service interface {
	Login(ctx context.Context, req LoginRequest) (TokenResponse, error)
}

type service struct {
	repo   Repository
	logger *zap.Logger
}

func NewService(repo Repository, logger ...*zap.Logger) Service {
	l := zap.L().Named("auth.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("auth.service")
	}
	return &service{repo: repo, logger: l}
}

func (s *service) Login(ctx context.Context, req LoginRequest) (TokenResponse, error) {
	if !ethaddr.IsValid(req.Address) {
		return TokenResponse{}, autherrors.ErrInvalidCredentials
	}
	address := ethaddr.Normalize(req.Address)

	operator, err := s.repo.FindByAddress(ctx, address)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			// Same error as a bad password so login does not leak which
			// addresses are registered.
			return TokenResponse{}, autherrors.ErrInvalidCredentials
		}
		return TokenResponse{}, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(operator.PasswordHash), []byte(req.Password)); err != nil {
		s.logger.Warn("login rejected", zap.String("address", address))
		return TokenResponse{}, autherrors.ErrInvalidCredentials
	}

	expiresAt := time.Now().Add(tokenTTL())
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"address":     operator.Address,
		"operator_id": operator.ID.String(),
		"iat":         time.Now().Unix(),
		"exp":         expiresAt.Unix(),
	})

	signed, err := token.SignedString([]byte(os.Getenv("JWT_SECRET")))
	if err != nil {
		return TokenResponse{}, err
	}

	s.logger.Info("operator logged in", zap.String("address", address))
	return TokenResponse{
		AccessToken: signed,
		ExpiresAt:   expiresAt.UTC().Format(time.RFC3339),
	}, nil
}

func tokenTTL() time.Duration {
	if v := os.Getenv("JWT_TTL_MINUTES"); v != "" {
		if minutes, err := strconv.Atoi(v); err == nil && minutes > 0 {
			return time.Duration(minutes) * time.Minute
		}
	}
	return defaultTokenTTL
}
