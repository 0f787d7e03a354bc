package service

import (
	"context"
	"errors"
	"fmt"

	"ragrids/internal/auth"
	apperrors "ragrids/internal/errors"
	"ragrids/internal/model"
	"ragrids/internal/repository"
)

// AdminRegistration is the input of an admin registration.
type AdminRegistration struct {
	Name     string
	Email    string
	Mobile   string
	Password string
}

// AdminService handles admin authentication operations.
type AdminService interface {
	Register(ctx context.Context, in AdminRegistration) (*model.Admin, error)
	Login(ctx context.Context, email, password string) (token string, admin *model.Admin, err error)
}

type adminService struct {
	repo   repository.AdminRepository
	hasher auth.PasswordHasher
	tokens *auth.JWTService
}

// NewAdminService creates a new admin authentication service.
func NewAdminService(repo repository.AdminRepository, hasher auth.PasswordHasher, tokens *auth.JWTService) AdminService {
	return &adminService{
		repo:   repo,
		hasher: hasher,
		tokens: tokens,
	}
}

// Register creates a new admin with a hashed password.
func (s *adminService) Register(ctx context.Context, in AdminRegistration) (*model.Admin, error) {
	existing, err := s.repo.FindByEmail(ctx, in.Email)
	if err == nil && existing != nil {
		return nil, apperrors.ErrEmailRegistered
	}
	if err != nil && !errors.Is(err, repository.ErrNotFound) {
		return nil, fmt.Errorf("check admin existence: %w", err)
	}

	hashed, err := s.hasher.Hash(in.Password)
	if err != nil {
		return nil, err
	}

	admin := &model.Admin{
		Name:         in.Name,
		Email:        in.Email,
		Mobile:       in.Mobile,
		PasswordHash: hashed,
	}
	if err := s.repo.Create(ctx, admin); err != nil {
		if errors.Is(err, repository.ErrDuplicateEmail) {
			return nil, apperrors.ErrEmailRegistered
		}
		return nil, fmt.Errorf("create admin: %w", err)
	}
	return admin, nil
}

// Login verifies the admin's credentials and mints an admin token.
func (s *adminService) Login(ctx context.Context, email, password string) (string, *model.Admin, error) {
	if email == "" || password == "" {
		return "", nil, apperrors.ErrMissingCredentials
	}

	admin, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return "", nil, apperrors.ErrPrincipalNotFound
		}
		return "", nil, fmt.Errorf("find admin: %w", err)
	}

	if !s.hasher.Verify(admin.PasswordHash, password) {
		return "", nil, apperrors.ErrInvalidCredentials
	}

	token, err := s.tokens.GenerateToken(admin.ID, admin.Email)
	if err != nil {
		return "", nil, fmt.Errorf("generate token: %w", err)
	}
	return token, admin, nil
}
