package repository

import (
	"context"

	"github.com/venky2821/finalproject/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ── Reviews ──────────────────────────────────────────────────────────────────

type ReviewRepository interface {
	Create(ctx context.Context, r *model.Review) error
	ListByApproval(ctx context.Context, a model.Approval) ([]model.Review, error)
	ListAll(ctx context.Context) ([]model.Review, error)
	// SetApproval returns gorm.ErrRecordNotFound when no review has that id.
	SetApproval(ctx context.Context, id uuid.UUID, a model.Approval) error
}

type reviewRepo struct{ db *gorm.DB }

func NewReviewRepository(db *gorm.DB) ReviewRepository { return &reviewRepo{db: db} }

func (r *reviewRepo) Create(ctx context.Context, rv *model.Review) error {
	return r.db.WithContext(ctx).Create(rv).Error
}

func (r *reviewRepo) ListByApproval(ctx context.Context, a model.Approval) ([]model.Review, error) {
	var out []model.Review
	err := r.db.WithContext(ctx).Where("approved = ?", a).Order("created_at DESC").Find(&out).Error
	return out, err
}

func (r *reviewRepo) ListAll(ctx context.Context) ([]model.Review, error) {
	var out []model.Review
	err := r.db.WithContext(ctx).Order("created_at DESC").Find(&out).Error
	return out, err
}

func (r *reviewRepo) SetApproval(ctx context.Context, id uuid.UUID, a model.Approval) error {
	return setApproval(r.db.WithContext(ctx).Model(&model.Review{}), id, a)
}

// ── Photos ───────────────────────────────────────────────────────────────────

type PhotoRepository interface {
	Create(ctx context.Context, p *model.Photo) error
	// ListApproved returns approved photos that have an uploader, optionally
	// narrowed to one category.
	ListApproved(ctx context.Context, category string) ([]model.Photo, error)
	ListAll(ctx context.Context) ([]model.Photo, error)
	SetApproval(ctx context.Context, id uuid.UUID, a model.Approval) error
	Categories(ctx context.Context) ([]string, error)
}

type photoRepo struct{ db *gorm.DB }

func NewPhotoRepository(db *gorm.DB) PhotoRepository { return &photoRepo{db: db} }

func (r *photoRepo) Create(ctx context.Context, p *model.Photo) error {
	return r.db.WithContext(ctx).Create(p).Error
}

func (r *photoRepo) ListApproved(ctx context.Context, category string) ([]model.Photo, error) {
	q := r.db.WithContext(ctx).
		Where("approved = ? AND uploaded_by IS NOT NULL", model.ApprovalApproved)
	if category != "" {
		q = q.Where("category = ?", category)
	}
	var out []model.Photo
	err := q.Order("created_at DESC").Find(&out).Error
	return out, err
}

func (r *photoRepo) ListAll(ctx context.Context) ([]model.Photo, error) {
	var out []model.Photo
	err := r.db.WithContext(ctx).Order("created_at DESC").Find(&out).Error
	return out, err
}

func (r *photoRepo) SetApproval(ctx context.Context, id uuid.UUID, a model.Approval) error {
	return setApproval(r.db.WithContext(ctx).Model(&model.Photo{}), id, a)
}

func (r *photoRepo) Categories(ctx context.Context) ([]string, error) {
	var out []string
	err := r.db.WithContext(ctx).Model(&model.Photo{}).
		Where("category IS NOT NULL AND category <> ''").
		Distinct().Order("category ASC").
		Pluck("category", &out).Error
	return out, err
}

func setApproval(q *gorm.DB, id uuid.UUID, a model.Approval) error {
	res := q.Where("id = ?", id).Update("approved", a)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// ── Wishlist ─────────────────────────────────────────────────────────────────

type WishlistRepository interface {
	Add(ctx context.Context, item *model.WishlistItem) error
	Exists(ctx context.Context, userID, productID uuid.UUID) (bool, error)
	// Remove reports whether a row was deleted.
	Remove(ctx context.Context, userID, productID uuid.UUID) (bool, error)
	List(ctx context.Context, userID uuid.UUID) ([]model.WishlistItem, error)
}

type wishlistRepo struct{ db *gorm.DB }

func NewWishlistRepository(db *gorm.DB) WishlistRepository { return &wishlistRepo{db: db} }

func (r *wishlistRepo) Add(ctx context.Context, item *model.WishlistItem) error {
	return r.db.WithContext(ctx).Create(item).Error
}

func (r *wishlistRepo) Exists(ctx context.Context, userID, productID uuid.UUID) (bool, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&model.WishlistItem{}).
		Where("user_id = ? AND product_id = ?", userID, productID).
		Count(&n).Error
	return n > 0, err
}

func (r *wishlistRepo) Remove(ctx context.Context, userID, productID uuid.UUID) (bool, error) {
	res := r.db.WithContext(ctx).
		Where("user_id = ? AND product_id = ?", userID, productID).
		Delete(&model.WishlistItem{})
	return res.RowsAffected > 0, res.Error
}

func (r *wishlistRepo) List(ctx context.Context, userID uuid.UUID) ([]model.WishlistItem, error) {
	var out []model.WishlistItem
	err := r.db.WithContext(ctx).Preload("Product.Images").
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&out).Error
	return out, err
}
