package repository

import (
	"context"

	"gorm.io/gorm"

	"ragrids/internal/model"
)

type userRepository struct {
	db *gorm.DB
}

// NewUserRepository builds a GORM-backed repository.
func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) withFiles(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).Preload("Files", func(db *gorm.DB) *gorm.DB {
		return db.Order("position ASC")
	})
}

func (r *userRepository) Create(ctx context.Context, user *model.User) error {
	return translateGormError(r.db.WithContext(ctx).Create(user).Error)
}

func (r *userRepository) FindByID(ctx context.Context, id string) (*model.User, error) {
	var user model.User
	if err := r.withFiles(ctx).Where("id = ?", id).First(&user).Error; err != nil {
		return nil, translateGormError(err)
	}
	user.EnsureFiles()
	return &user, nil
}

func (r *userRepository) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	var user model.User
	if err := r.withFiles(ctx).Where("email = ?", email).First(&user).Error; err != nil {
		return nil, translateGormError(err)
	}
	user.EnsureFiles()
	return &user, nil
}

func (r *userRepository) List(ctx context.Context) ([]model.User, error) {
	var users []model.User
	if err := r.withFiles(ctx).Order("created_at ASC").Find(&users).Error; err != nil {
		return nil, err
	}
	for i := range users {
		users[i].EnsureFiles()
	}
	return users, nil
}

func (r *userRepository) UpdateProfile(ctx context.Context, id string, patch model.ProfilePatch) (*model.User, error) {
	var updated *model.User
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if !patch.Empty() {
			if err := tx.Model(&model.User{}).Where("id = ?", id).Updates(patch.Columns()).Error; err != nil {
				return translateGormError(err)
			}
		}
		txRepo := &userRepository{db: tx}
		user, err := txRepo.FindByID(ctx, id)
		if err != nil {
			return err
		}
		updated = user
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

func (r *userRepository) AppendFile(ctx context.Context, id string, file model.FileRef) (*model.User, error) {
	var updated *model.User
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&model.User{}).Where("id = ?", id).Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			return ErrNotFound
		}

		var last struct{ Max *int }
		if err := tx.Model(&model.FileRef{}).Select("MAX(position) AS max").Where("user_id = ?", id).Scan(&last).Error; err != nil {
			return err
		}
		file.ID = 0
		file.UserID = id
		if last.Max != nil {
			file.Position = *last.Max + 1
		}
		if err := tx.Create(&file).Error; err != nil {
			return err
		}

		txRepo := &userRepository{db: tx}
		user, err := txRepo.FindByID(ctx, id)
		if err != nil {
			return err
		}
		updated = user
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}
