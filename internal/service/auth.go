package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/prashika-mel/storefront/internal/hash"
	"github.com/prashika-mel/storefront/internal/models"
	"github.com/prashika-mel/storefront/internal/repo"
	"github.com/prashika-mel/storefront/internal/tokens"
)

const (
	accessTTL  = 15 * time.Minute
	refreshTTL = 7 * 24 * time.Hour
)

type AuthService struct {
	Repo          *repo.GormRepo
	JWTSecret     []byte
	RefreshSecret []byte
}

type LoginResult struct {
	AccessToken  string
	RefreshToken string
	AccessExp    time.Time
	RefreshExp   time.Time
	IsAdmin      bool
}

func (s *AuthService) Register(ctx context.Context, username, email, password string) (*models.User, error) {
	if strings.TrimSpace(username) == "" || strings.TrimSpace(password) == "" || strings.TrimSpace(email) == "" {
		return nil, fmt.Errorf("%w: username, email and password required", ErrValidation)
	}

	pwHash, err := hash.HashPassword(password)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		Username:     username,
		Email:        email,
		PasswordHash: pwHash,
		Role:         "user",
	}

	if err := s.Repo.CreateUser(ctx, user); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, fmt.Errorf("%w: user already exists", ErrConflict)
		}
		return nil, err
	}
	return user, nil
}

func (s *AuthService) Login(ctx context.Context, username, password string) (*LoginResult, error) {
	if strings.TrimSpace(username) == "" || strings.TrimSpace(password) == "" {
		return nil, fmt.Errorf("%w: username and password required", ErrValidation)
	}

	user, err := s.Repo.GetUserByUsername(ctx, username)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("%w: invalid username or password", ErrNotFound)
	}
	if err != nil {
		return nil, err
	}

	if !hash.CheckPassword(user.PasswordHash, password) {
		return nil, fmt.Errorf("%w: invalid username or password", ErrNotFound)
	}

	accessExp := time.Now().Add(accessTTL).UTC()
	accessToken, err := tokens.CreateAccessToken(s.JWTSecret, user.ID.String(), user.Role, accessExp)
	if err != nil {
		return nil, err
	}

	refreshExp := time.Now().Add(refreshTTL).UTC()
	refreshToken, err := tokens.CreateRefreshToken(s.RefreshSecret, user.ID.String(), refreshExp)
	if err != nil {
		return nil, err
	}

	return &LoginResult{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		AccessExp:    accessExp,
		RefreshExp:   refreshExp,
		IsAdmin:      user.Role == "admin",
	}, nil
}
