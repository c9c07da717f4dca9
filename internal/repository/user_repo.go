package repository

import (
	"context"

	"github.com/venky2821/finalproject/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type UserRepository interface {
	Create(ctx context.Context, u *model.User) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.User, error)
	FindByEmail(ctx context.Context, email string) (*model.User, error)
	FindByUsername(ctx context.Context, username string) (*model.User, error)
	Update(ctx context.Context, u *model.User) error
	SetResetToken(ctx context.Context, id uuid.UUID, token *string) error

	RecordLogin(ctx context.Context, a *model.LoginActivity) error
	LastLogin(ctx context.Context, userID uuid.UUID) (*model.LoginActivity, error)
	ListLogins(ctx context.Context, userID uuid.UUID, limit int) ([]model.LoginActivity, error)
}

type userRepo struct{ db *gorm.DB }

func NewUserRepository(db *gorm.DB) UserRepository { return &userRepo{db: db} }

func (r *userRepo) Create(ctx context.Context, u *model.User) error {
	return r.db.WithContext(ctx).Create(u).Error
}

func (r *userRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.User, error) {
	var u model.User
	err := r.db.WithContext(ctx).Preload("Role").First(&u, "id = ?", id).Error
	return &u, err
}

func (r *userRepo) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	var u model.User
	err := r.db.WithContext(ctx).Preload("Role").Where("email = ?", email).First(&u).Error
	return &u, err
}

func (r *userRepo) FindByUsername(ctx context.Context, username string) (*model.User, error) {
	var u model.User
	err := r.db.WithContext(ctx).Where("username = ?", username).First(&u).Error
	return &u, err
}

func (r *userRepo) Update(ctx context.Context, u *model.User) error {
	return r.db.WithContext(ctx).Omit("Role").Save(u).Error
}

func (r *userRepo) SetResetToken(ctx context.Context, id uuid.UUID, token *string) error {
	return r.db.WithContext(ctx).Model(&model.User{}).Where("id = ?", id).Update("reset_token", token).Error
}

func (r *userRepo) RecordLogin(ctx context.Context, a *model.LoginActivity) error {
	return r.db.WithContext(ctx).Create(a).Error
}

func (r *userRepo) LastLogin(ctx context.Context, userID uuid.UUID) (*model.LoginActivity, error) {
	var a model.LoginActivity
	err := r.db.WithContext(ctx).Where("user_id = ?", userID).Order("timestamp DESC").First(&a).Error
	return &a, err
}

func (r *userRepo) ListLogins(ctx context.Context, userID uuid.UUID, limit int) ([]model.LoginActivity, error) {
	var out []model.LoginActivity
	err := r.db.WithContext(ctx).Where("user_id = ?", userID).
		Order("timestamp DESC").Limit(limit).Find(&out).Error
	return out, err
}
