package auth

import (
	"context"
	"fmt"
	"time"

	"github.com/patrickmn/go-cache"
	"golang.org/x/crypto/bcrypt"

	"github.com/sovouthea1111/hr-system-api/internal/model"
	"github.com/sovouthea1111/hr-system-api/internal/repository"
	"github.com/sovouthea1111/hr-system-api/pkg/auth"
)

const (
	claimCacheTTL     = 5 * time.Minute
	claimCacheCleanup = 15 * time.Minute
)

type Service interface {
	Login(ctx context.Context, req *model.LoginRequest) (*model.LoginResponse, error)
	ValidateToken(ctx context.Context, token string) (*model.TokenClaims, error)
}

type service struct {
	users      repository.UserRepository
	jwt        auth.JWTService
	claimCache *cache.Cache
}

func NewService(users repository.UserRepository, jwtSvc auth.JWTService) Service {
	return &service{
		users:      users,
		jwt:        jwtSvc,
		claimCache: cache.New(claimCacheTTL, claimCacheCleanup),
	}
}

func (s *service) Login(ctx context.Context, req *model.LoginRequest) (*model.LoginResponse, error) {
	user, err := s.users.GetByEmail(ctx, req.Email)
	if err != nil {
		return nil, fmt.Errorf("invalid credentials")
	}

	if user.Status != model.UserStatusActive {
		return nil, fmt.Errorf("account is not active")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, fmt.Errorf("invalid credentials")
	}

	token, err := s.jwt.GenerateToken(user)
	if err != nil {
		return nil, fmt.Errorf("failed to generate token: %w", err)
	}

	return &model.LoginResponse{Token: token, User: user}, nil
}

// ValidateToken parses and verifies a JWT, caching claims for the cache TTL
// so hot sessions skip signature verification on every request.
func (s *service) ValidateToken(_ context.Context, token string) (*model.TokenClaims, error) {
	if cached, ok := s.claimCache.Get(token); ok {
		return cached.(*model.TokenClaims), nil
	}

	claims, err := s.jwt.ValidateToken(token)
	if err != nil {
		return nil, fmt.Errorf("failed to validate token: %w", err)
	}

	s.claimCache.Set(token, claims, cache.DefaultExpiration)
	return claims, nil
}
