package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"ragrids/internal/auth"
	"ragrids/internal/cache"
	apperrors "ragrids/internal/errors"
	"ragrids/internal/logging"
	"ragrids/internal/model"
	"ragrids/internal/notify"
	"ragrids/internal/repository"
)

const (
	userCacheTTL      = 5 * time.Minute
	customersCacheTTL = time.Minute
	customersCacheKey = "customers:all"
	notifyTimeout     = 30 * time.Second
)

// UserRegistration is the input of a customer registration.
type UserRegistration struct {
	Name        string
	Email       string
	Mobile      string
	Password    string
	CompanyName string
	District    string
}

// UserService exposes customer operations.
type UserService interface {
	Register(ctx context.Context, in UserRegistration) (*model.User, error)
	Login(ctx context.Context, email, password string) (token string, user *model.User, err error)
	GetProfile(ctx context.Context, id string) (*model.User, error)
	UpdateProfile(ctx context.Context, id string, patch model.ProfilePatch) (*model.User, error)
	ListCustomers(ctx context.Context) ([]model.User, error)
}

// UserServiceOptions tunes a UserService.
type UserServiceOptions struct {
	// EmptyCustomersNotFound makes ListCustomers fail with ErrNoCustomers on
	// an empty collection instead of returning an empty slice.
	EmptyCustomersNotFound bool
}

type userService struct {
	repo     repository.UserRepository
	hasher   auth.PasswordHasher
	tokens   *auth.JWTService
	cache    *cache.Client
	notifier notify.Notifier
	opts     UserServiceOptions

	// goAsync runs fire-and-forget work. Tests swap it for a synchronous call.
	goAsync func(func())
}

// NewUserService builds a UserService with repository and cache.
func NewUserService(
	repo repository.UserRepository,
	hasher auth.PasswordHasher,
	tokens *auth.JWTService,
	cache *cache.Client,
	notifier notify.Notifier,
	opts UserServiceOptions,
) UserService {
	return &userService{
		repo:     repo,
		hasher:   hasher,
		tokens:   tokens,
		cache:    cache,
		notifier: notifier,
		opts:     opts,
		goAsync:  func(fn func()) { go fn() },
	}
}

func userCacheKey(id string) string {
	return fmt.Sprintf("user:%s", id)
}

func (s *userService) invalidate(ctx context.Context, id string) {
	keys := []string{customersCacheKey}
	if id != "" {
		keys = append(keys, userCacheKey(id))
	}
	_ = s.cache.Delete(ctx, keys...)
}

// Register creates a customer and sends the welcome mail in the background.
func (s *userService) Register(ctx context.Context, in UserRegistration) (*model.User, error) {
	existing, err := s.repo.FindByEmail(ctx, in.Email)
	if err == nil && existing != nil {
		return nil, apperrors.ErrEmailRegistered
	}
	if err != nil && !errors.Is(err, repository.ErrNotFound) {
		return nil, fmt.Errorf("check user existence: %w", err)
	}

	hashed, err := s.hasher.Hash(in.Password)
	if err != nil {
		return nil, err
	}

	user := &model.User{
		Name:         in.Name,
		Email:        in.Email,
		Mobile:       in.Mobile,
		PasswordHash: hashed,
		CompanyName:  in.CompanyName,
		District:     in.District,
	}
	if err := s.repo.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicateEmail) {
			return nil, apperrors.ErrEmailRegistered
		}
		return nil, fmt.Errorf("create user: %w", err)
	}
	user.EnsureFiles()
	s.invalidate(ctx, "")

	s.sendWelcome(ctx, user)
	return user, nil
}

// sendWelcome never blocks the caller and never fails the registration.
func (s *userService) sendWelcome(ctx context.Context, user *model.User) {
	if s.notifier == nil {
		return
	}
	logger := logging.FromContext(ctx)
	msg := notify.RegistrationMessage(user.Name, user.Email, user.CompanyName)
	bg := context.WithoutCancel(ctx)
	s.goAsync(func() {
		sendCtx, cancel := context.WithTimeout(bg, notifyTimeout)
		defer cancel()
		if err := s.notifier.Send(sendCtx, msg); err != nil {
			logger.Error().Err(err).Str("user_id", user.ID).Msg("registration email failed")
			return
		}
		logger.Debug().Str("user_id", user.ID).Msg("registration email sent")
	})
}

// Login verifies the customer's credentials and mints a user token.
func (s *userService) Login(ctx context.Context, email, password string) (string, *model.User, error) {
	if email == "" || password == "" {
		return "", nil, apperrors.ErrMissingCredentials
	}

	user, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return "", nil, apperrors.ErrPrincipalNotFound
		}
		return "", nil, fmt.Errorf("find user: %w", err)
	}

	if !s.hasher.Verify(user.PasswordHash, password) {
		return "", nil, apperrors.ErrInvalidCredentials
	}

	token, err := s.tokens.GenerateToken(user.ID, user.Email)
	if err != nil {
		return "", nil, fmt.Errorf("generate token: %w", err)
	}
	return token, user, nil
}

// GetProfile reads a customer through the cache.
func (s *userService) GetProfile(ctx context.Context, id string) (*model.User, error) {
	if data, _ := s.cache.Get(ctx, userCacheKey(id)); data != nil {
		var cached model.User
		if err := json.Unmarshal(data, &cached); err == nil {
			cached.EnsureFiles()
			return &cached, nil
		}
	}

	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, fmt.Errorf("find user: %w", err)
	}

	if payload, err := json.Marshal(user); err == nil {
		_ = s.cache.Set(ctx, userCacheKey(id), payload, userCacheTTL)
	}
	return user, nil
}

// UpdateProfile applies a partial update. Email uniqueness is enforced by
// the store in the same write.
func (s *userService) UpdateProfile(ctx context.Context, id string, patch model.ProfilePatch) (*model.User, error) {
	user, err := s.repo.UpdateProfile(ctx, id, patch)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrNotFound):
			return nil, apperrors.ErrUserNotFound
		case errors.Is(err, repository.ErrDuplicateEmail):
			return nil, apperrors.ErrEmailInUse
		default:
			return nil, fmt.Errorf("update profile: %w", err)
		}
	}
	s.invalidate(ctx, id)
	return user, nil
}

// ListCustomers returns every customer without credentials.
func (s *userService) ListCustomers(ctx context.Context) ([]model.User, error) {
	users, cached := s.cachedCustomers(ctx)
	if !cached {
		var err error
		users, err = s.repo.List(ctx)
		if err != nil {
			return nil, fmt.Errorf("list customers: %w", err)
		}
		if payload, err := json.Marshal(users); err == nil {
			_ = s.cache.Set(ctx, customersCacheKey, payload, customersCacheTTL)
		}
	}

	if len(users) == 0 {
		if s.opts.EmptyCustomersNotFound {
			return nil, apperrors.ErrNoCustomers
		}
		return []model.User{}, nil
	}
	return users, nil
}

func (s *userService) cachedCustomers(ctx context.Context) ([]model.User, bool) {
	data, _ := s.cache.Get(ctx, customersCacheKey)
	if data == nil {
		return nil, false
	}
	var users []model.User
	if err := json.Unmarshal(data, &users); err != nil {
		return nil, false
	}
	for i := range users {
		users[i].EnsureFiles()
	}
	return users, true
}
