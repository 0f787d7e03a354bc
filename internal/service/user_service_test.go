package service

import (
	"context"
	"errors"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"ragrids/internal/auth"
	apperrors "ragrids/internal/errors"
	"ragrids/internal/model"
	"ragrids/internal/notify"
	"ragrids/internal/repository"
	"ragrids/internal/testutil"
)

type userFixture struct {
	repo     *MockUserRepository
	notifier *MockNotifier
	tokens   *auth.JWTService
	mr       *miniredis.Miniredis
	svc      *userService
}

func newUserFixture(t *testing.T, opts UserServiceOptions) *userFixture {
	t.Helper()

	repo := new(MockUserRepository)
	notifier := new(MockNotifier)
	tokens := auth.NewJWTService(auth.KindUser, "test-secret")
	client, mr := testutil.Cache(t)

	svc := NewUserService(repo, auth.NewBcryptHasher(), tokens, client, notifier, opts).(*userService)
	svc.goAsync = func(fn func()) { fn() }

	return &userFixture{repo: repo, notifier: notifier, tokens: tokens, mr: mr, svc: svc}
}

func strPtr(s string) *string { return &s }

func TestUserService_Register(t *testing.T) {
	input := UserRegistration{
		Name:        "Ravi",
		Email:       "ravi@solar.in",
		Mobile:      "+919876543210",
		Password:    "Str0ng!pass",
		CompanyName: "Sunrise Solar",
		District:    "Pune",
	}

	t.Run("successful registration sends welcome mail", func(t *testing.T) {
		f := newUserFixture(t, UserServiceOptions{})
		f.repo.On("FindByEmail", mock.Anything, "ravi@solar.in").Return(nil, repository.ErrNotFound)
		f.repo.On("Create", mock.Anything, mock.AnythingOfType("*model.User")).Return(nil)
		f.notifier.On("Send", mock.Anything, mock.MatchedBy(func(msg notify.Message) bool {
			return msg.To == "ravi@solar.in"
		})).Return(nil)
		require.NoError(t, f.mr.Set(customersCacheKey, "[]"))

		user, err := f.svc.Register(context.Background(), input)

		require.NoError(t, err)
		assert.Equal(t, "Sunrise Solar", user.CompanyName)
		assert.Equal(t, "Pune", user.District)
		assert.NotNil(t, user.Files)
		assert.False(t, f.mr.Exists(customersCacheKey))
		f.repo.AssertExpectations(t)
		f.notifier.AssertExpectations(t)
	})

	t.Run("mail failure does not fail registration", func(t *testing.T) {
		f := newUserFixture(t, UserServiceOptions{})
		f.repo.On("FindByEmail", mock.Anything, "ravi@solar.in").Return(nil, repository.ErrNotFound)
		f.repo.On("Create", mock.Anything, mock.AnythingOfType("*model.User")).Return(nil)
		f.notifier.On("Send", mock.Anything, mock.Anything).Return(errors.New("smtp down"))

		user, err := f.svc.Register(context.Background(), input)

		require.NoError(t, err)
		assert.NotNil(t, user)
		f.notifier.AssertExpectations(t)
	})

	t.Run("mail is sent after the request context ends", func(t *testing.T) {
		f := newUserFixture(t, UserServiceOptions{})
		f.repo.On("FindByEmail", mock.Anything, "ravi@solar.in").Return(nil, repository.ErrNotFound)
		f.repo.On("Create", mock.Anything, mock.AnythingOfType("*model.User")).Return(nil)

		var pending func()
		f.svc.goAsync = func(fn func()) { pending = fn }
		f.notifier.On("Send", mock.MatchedBy(func(ctx context.Context) bool {
			return ctx.Err() == nil
		}), mock.Anything).Return(nil)

		ctx, cancel := context.WithCancel(context.Background())
		_, err := f.svc.Register(ctx, input)
		require.NoError(t, err)
		cancel()

		require.NotNil(t, pending)
		pending()
		f.notifier.AssertExpectations(t)
	})

	t.Run("email already registered", func(t *testing.T) {
		f := newUserFixture(t, UserServiceOptions{})
		f.repo.On("FindByEmail", mock.Anything, "ravi@solar.in").Return(&model.User{Email: "ravi@solar.in"}, nil)

		user, err := f.svc.Register(context.Background(), input)

		assert.ErrorIs(t, err, apperrors.ErrEmailRegistered)
		assert.Nil(t, user)
		f.notifier.AssertNotCalled(t, "Send", mock.Anything, mock.Anything)
	})

	t.Run("lost race on unique index", func(t *testing.T) {
		f := newUserFixture(t, UserServiceOptions{})
		f.repo.On("FindByEmail", mock.Anything, "ravi@solar.in").Return(nil, repository.ErrNotFound)
		f.repo.On("Create", mock.Anything, mock.AnythingOfType("*model.User")).Return(repository.ErrDuplicateEmail)

		_, err := f.svc.Register(context.Background(), input)

		assert.ErrorIs(t, err, apperrors.ErrEmailRegistered)
		f.notifier.AssertNotCalled(t, "Send", mock.Anything, mock.Anything)
	})
}

func TestUserService_Login(t *testing.T) {
	hashed, err := bcrypt.GenerateFromPassword([]byte("Str0ng!pass"), auth.BcryptCost)
	require.NoError(t, err)
	stored := &model.User{ID: "user-1", Email: "ravi@solar.in", PasswordHash: string(hashed)}

	tests := []struct {
		name          string
		email         string
		password      string
		setupMock     func(*MockUserRepository)
		expectedError error
	}{
		{
			name:     "successful login",
			email:    "ravi@solar.in",
			password: "Str0ng!pass",
			setupMock: func(m *MockUserRepository) {
				m.On("FindByEmail", mock.Anything, "ravi@solar.in").Return(stored, nil)
			},
		},
		{
			name:          "missing email",
			password:      "Str0ng!pass",
			setupMock:     func(m *MockUserRepository) {},
			expectedError: apperrors.ErrMissingCredentials,
		},
		{
			name:     "unknown email",
			email:    "nobody@solar.in",
			password: "Str0ng!pass",
			setupMock: func(m *MockUserRepository) {
				m.On("FindByEmail", mock.Anything, "nobody@solar.in").Return(nil, repository.ErrNotFound)
			},
			expectedError: apperrors.ErrPrincipalNotFound,
		},
		{
			name:     "wrong password",
			email:    "ravi@solar.in",
			password: "nope",
			setupMock: func(m *MockUserRepository) {
				m.On("FindByEmail", mock.Anything, "ravi@solar.in").Return(stored, nil)
			},
			expectedError: apperrors.ErrInvalidCredentials,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newUserFixture(t, UserServiceOptions{})
			tt.setupMock(f.repo)

			token, user, err := f.svc.Login(context.Background(), tt.email, tt.password)

			if tt.expectedError != nil {
				assert.ErrorIs(t, err, tt.expectedError)
				assert.Empty(t, token)
				assert.Nil(t, user)
			} else {
				require.NoError(t, err)
				assert.Equal(t, "user-1", user.ID)

				claims, err := f.tokens.ValidateToken(token)
				require.NoError(t, err)
				assert.Equal(t, auth.KindUser, claims.Kind)

				// a user token never opens the admin namespace
				admin := auth.NewJWTService(auth.KindAdmin, "test-secret")
				_, err = admin.ValidateToken(token)
				assert.Error(t, err)
			}

			f.repo.AssertExpectations(t)
		})
	}
}

func TestUserService_GetProfile(t *testing.T) {
	t.Run("reads through the cache", func(t *testing.T) {
		f := newUserFixture(t, UserServiceOptions{})
		f.repo.On("FindByID", mock.Anything, "user-1").
			Return(&model.User{ID: "user-1", Email: "ravi@solar.in", Files: []model.FileRef{}}, nil).Once()

		first, err := f.svc.GetProfile(context.Background(), "user-1")
		require.NoError(t, err)
		second, err := f.svc.GetProfile(context.Background(), "user-1")
		require.NoError(t, err)

		assert.Equal(t, first.Email, second.Email)
		assert.True(t, f.mr.Exists("user:user-1"))
		f.repo.AssertNumberOfCalls(t, "FindByID", 1)
	})

	t.Run("unknown id", func(t *testing.T) {
		f := newUserFixture(t, UserServiceOptions{})
		f.repo.On("FindByID", mock.Anything, "missing").Return(nil, repository.ErrNotFound)

		_, err := f.svc.GetProfile(context.Background(), "missing")

		assert.ErrorIs(t, err, apperrors.ErrUserNotFound)
	})
}

func TestUserService_UpdateProfile(t *testing.T) {
	patch := model.ProfilePatch{Email: strPtr("new@solar.in")}

	tests := []struct {
		name          string
		repoUser      *model.User
		repoErr       error
		expectedError error
	}{
		{
			name:     "successful update",
			repoUser: &model.User{ID: "user-1", Email: "new@solar.in"},
		},
		{
			name:          "email taken",
			repoErr:       repository.ErrDuplicateEmail,
			expectedError: apperrors.ErrEmailInUse,
		},
		{
			name:          "unknown id",
			repoErr:       repository.ErrNotFound,
			expectedError: apperrors.ErrUserNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newUserFixture(t, UserServiceOptions{})
			f.repo.On("UpdateProfile", mock.Anything, "user-1", patch).Return(tt.repoUser, tt.repoErr)
			require.NoError(t, f.mr.Set("user:user-1", `{"id":"user-1"}`))
			require.NoError(t, f.mr.Set(customersCacheKey, "[]"))

			user, err := f.svc.UpdateProfile(context.Background(), "user-1", patch)

			if tt.expectedError != nil {
				assert.ErrorIs(t, err, tt.expectedError)
				assert.Nil(t, user)
				assert.True(t, f.mr.Exists("user:user-1"))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, "new@solar.in", user.Email)
			assert.False(t, f.mr.Exists("user:user-1"))
			assert.False(t, f.mr.Exists(customersCacheKey))
		})
	}
}

func TestUserService_ListCustomers(t *testing.T) {
	t.Run("empty collection is not found by default", func(t *testing.T) {
		f := newUserFixture(t, UserServiceOptions{EmptyCustomersNotFound: true})
		f.repo.On("List", mock.Anything).Return([]model.User{}, nil)

		users, err := f.svc.ListCustomers(context.Background())

		assert.ErrorIs(t, err, apperrors.ErrNoCustomers)
		assert.Nil(t, users)
	})

	t.Run("empty collection as empty list", func(t *testing.T) {
		f := newUserFixture(t, UserServiceOptions{})
		f.repo.On("List", mock.Anything).Return([]model.User{}, nil)

		users, err := f.svc.ListCustomers(context.Background())

		require.NoError(t, err)
		assert.NotNil(t, users)
		assert.Empty(t, users)
	})

	t.Run("cached after first read", func(t *testing.T) {
		f := newUserFixture(t, UserServiceOptions{EmptyCustomersNotFound: true})
		f.repo.On("List", mock.Anything).Return([]model.User{
			{ID: "u1", Email: "a@solar.in"},
			{ID: "u2", Email: "b@solar.in", Files: []model.FileRef{{URL: "http://x/y.pdf"}}},
		}, nil).Once()

		_, err := f.svc.ListCustomers(context.Background())
		require.NoError(t, err)
		users, err := f.svc.ListCustomers(context.Background())
		require.NoError(t, err)

		require.Len(t, users, 2)
		assert.NotNil(t, users[0].Files)
		assert.Equal(t, "http://x/y.pdf", users[1].Files[0].URL)
		f.repo.AssertNumberOfCalls(t, "List", 1)
	})

	t.Run("store failure", func(t *testing.T) {
		f := newUserFixture(t, UserServiceOptions{})
		f.repo.On("List", mock.Anything).Return(nil, errors.New("timeout"))

		_, err := f.svc.ListCustomers(context.Background())

		require.Error(t, err)
		assert.NotErrorIs(t, err, apperrors.ErrNoCustomers)
	})
}
