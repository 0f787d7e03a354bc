package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ragrids/internal/model"
	"ragrids/internal/testutil"
)

func strPtr(s string) *string { return &s }

func newUser(email string) *model.User {
	return &model.User{
		Name:         "A",
		Email:        email,
		Mobile:       "9876543210",
		PasswordHash: "hash",
		CompanyName:  "C",
		District:     "D",
	}
}

func TestUserRepository_CreateAndFind(t *testing.T) {
	repo := NewUserRepository(testutil.SQLiteDB(t))
	ctx := context.Background()

	user := newUser("a@x.com")
	require.NoError(t, repo.Create(ctx, user))
	assert.NotEmpty(t, user.ID)

	byEmail, err := repo.FindByEmail(ctx, "a@x.com")
	require.NoError(t, err)
	assert.Equal(t, user.ID, byEmail.ID)
	assert.NotNil(t, byEmail.Files)
	assert.Empty(t, byEmail.Files)

	byID, err := repo.FindByID(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, "a@x.com", byID.Email)

	_, err = repo.FindByEmail(ctx, "missing@x.com")
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = repo.FindByID(ctx, "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestUserRepository_CreateDuplicateEmail(t *testing.T) {
	repo := NewUserRepository(testutil.SQLiteDB(t))
	ctx := context.Background()

	original := newUser("dup@x.com")
	require.NoError(t, repo.Create(ctx, original))

	err := repo.Create(ctx, &model.User{Name: "B", Email: "dup@x.com", Mobile: "9123456789", PasswordHash: "other"})
	assert.ErrorIs(t, err, ErrDuplicateEmail)

	stored, err := repo.FindByEmail(ctx, "dup@x.com")
	require.NoError(t, err)
	assert.Equal(t, original.ID, stored.ID)
	assert.Equal(t, "A", stored.Name)
}

func TestUserRepository_UpdateProfile(t *testing.T) {
	tests := []struct {
		name      string
		id        func(u *model.User) string
		patch     model.ProfilePatch
		wantErr   error
		checkUser func(t *testing.T, u *model.User)
	}{
		{
			name:  "district only leaves other fields",
			id:    func(u *model.User) string { return u.ID },
			patch: model.ProfilePatch{District: strPtr("New")},
			checkUser: func(t *testing.T, u *model.User) {
				assert.Equal(t, "New", u.District)
				assert.Equal(t, "first@x.com", u.Email)
				assert.Equal(t, "9876543210", u.Mobile)
				assert.Equal(t, "C", u.CompanyName)
			},
		},
		{
			name:  "same email is not a conflict",
			id:    func(u *model.User) string { return u.ID },
			patch: model.ProfilePatch{Email: strPtr("first@x.com"), CompanyName: strPtr("C2")},
			checkUser: func(t *testing.T, u *model.User) {
				assert.Equal(t, "C2", u.CompanyName)
			},
		},
		{
			name:    "email taken by another user",
			id:      func(u *model.User) string { return u.ID },
			patch:   model.ProfilePatch{Email: strPtr("second@x.com")},
			wantErr: ErrDuplicateEmail,
		},
		{
			name:    "unknown id",
			id:      func(*model.User) string { return "missing" },
			patch:   model.ProfilePatch{District: strPtr("New")},
			wantErr: ErrNotFound,
		},
		{
			name:  "empty patch returns current record",
			id:    func(u *model.User) string { return u.ID },
			patch: model.ProfilePatch{},
			checkUser: func(t *testing.T, u *model.User) {
				assert.Equal(t, "D", u.District)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := NewUserRepository(testutil.SQLiteDB(t))
			ctx := context.Background()

			first := newUser("first@x.com")
			require.NoError(t, repo.Create(ctx, first))
			require.NoError(t, repo.Create(ctx, newUser("second@x.com")))

			updated, err := repo.UpdateProfile(ctx, tt.id(first), tt.patch)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, updated)

				stored, err := repo.FindByID(ctx, first.ID)
				require.NoError(t, err)
				assert.Equal(t, "first@x.com", stored.Email)
				return
			}
			require.NoError(t, err)
			tt.checkUser(t, updated)
		})
	}
}

func TestUserRepository_AppendFileKeepsOrder(t *testing.T) {
	repo := NewUserRepository(testutil.SQLiteDB(t))
	ctx := context.Background()

	user := newUser("files@x.com")
	require.NoError(t, repo.Create(ctx, user))

	_, err := repo.AppendFile(ctx, user.ID, model.FileRef{URL: "https://cdn/1.pdf", OriginalName: "bill.pdf"})
	require.NoError(t, err)
	updated, err := repo.AppendFile(ctx, user.ID, model.FileRef{URL: "https://cdn/2.png", OriginalName: "roof.png", FileType: "image"})
	require.NoError(t, err)

	require.Len(t, updated.Files, 2)
	assert.Equal(t, "bill.pdf", updated.Files[0].OriginalName)
	assert.Equal(t, "roof.png", updated.Files[1].OriginalName)

	_, err = repo.AppendFile(ctx, "missing", model.FileRef{URL: "https://cdn/3.pdf"})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestUserRepository_ListOrderedByCreation(t *testing.T) {
	gormDB := testutil.SQLiteDB(t)
	repo := NewUserRepository(gormDB)
	ctx := context.Background()

	users, err := repo.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, users)

	older := newUser("older@x.com")
	older.CreatedAt = time.Now().Add(-time.Hour)
	require.NoError(t, repo.Create(ctx, newUser("newer@x.com")))
	require.NoError(t, repo.Create(ctx, older))

	users, err = repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, users, 2)
	assert.Equal(t, "older@x.com", users[0].Email)
	assert.Equal(t, "newer@x.com", users[1].Email)
}

func TestAdminRepository(t *testing.T) {
	gormDB := testutil.SQLiteDB(t)
	admins := NewAdminRepository(gormDB)
	users := NewUserRepository(gormDB)
	ctx := context.Background()

	admin := &model.Admin{Name: "Root", Email: "shared@x.com", Mobile: "9876543210", PasswordHash: "hash"}
	require.NoError(t, admins.Create(ctx, admin))

	// the same email may exist once per principal kind
	require.NoError(t, users.Create(ctx, newUser("shared@x.com")))

	err := admins.Create(ctx, &model.Admin{Name: "Other", Email: "shared@x.com", Mobile: "9876543210", PasswordHash: "hash"})
	assert.ErrorIs(t, err, ErrDuplicateEmail)

	found, err := admins.FindByEmail(ctx, "shared@x.com")
	require.NoError(t, err)
	assert.Equal(t, admin.ID, found.ID)

	found, err = admins.FindByID(ctx, admin.ID)
	require.NoError(t, err)
	assert.Equal(t, "Root", found.Name)

	_, err = admins.FindByEmail(ctx, "nobody@x.com")
	assert.ErrorIs(t, err, ErrNotFound)
}
