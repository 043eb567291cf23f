package service

import (
	"context"
	"errors"
	"log/slog"

	"github.com/google/uuid"

	"todos/internal/core/domain"
	"todos/internal/core/model/request"
	"todos/internal/core/port"
	"todos/internal/core/util"
)

type AuthService struct {
	repo port.UserRepository
}

func NewAuthService(repo port.UserRepository) *AuthService {
	return &AuthService{repo: repo}
}

func (a *AuthService) Registration(ctx context.Context, params *request.SignUpRequest) (domain.User, error) {
	existing, err := a.repo.GetByEmail(ctx, params.Email)

	if err != nil && !errors.Is(err, domain.ErrUserNotFound) {
		return domain.User{}, err
	}

	if existing.Email != "" {
		return domain.User{}, domain.ErrEmailTaken
	}

	encrypted, err := util.GenerateEncrypt(params.Password)

	if err != nil {
		slog.Error("Failed to encrypt password", "error", err)
		return domain.User{}, err
	}

	user, err := a.repo.Create(ctx, domain.User{
		UUID:              uuid.New(),
		Name:              params.Name,
		Email:             params.Email,
		EncryptedPassword: encrypted,
	})

	if err != nil {
		slog.Error("Failed to create user", "error", err)
		return domain.User{}, err
	}

	return user, nil
}

func (a *AuthService) Authenticate(ctx context.Context, params *request.LoginRequest) (domain.User, error) {
	user, err := a.repo.GetByEmail(ctx, params.Email)

	if err != nil {
		return domain.User{}, domain.ErrInvalidCredentials
	}

	if err := util.ComparePassword(params.Password, user.EncryptedPassword); err != nil {
		return domain.User{}, domain.ErrInvalidCredentials
	}

	return user, nil
}
