package repository

import (
	"context"
	"time"

	"github.com/venky2821/finalproject/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// BatchQuery filters batches. Received bounds are inclusive calendar dates.
type BatchQuery struct {
	Status         string
	ProductID      *uuid.UUID
	ReceivedBefore *time.Time // received_date <= ReceivedBefore
	ReceivedAfter  *time.Time // received_date >= ReceivedAfter
}

type BatchRepository interface {
	Create(ctx context.Context, b *model.Batch) error
	FindByNumber(ctx context.Context, number string) (*model.Batch, error)
	List(ctx context.Context, q BatchQuery) ([]model.Batch, error)
	ListExpiringBy(ctx context.Context, date time.Time) ([]model.Batch, error)
	ProductsByBatchNumber(ctx context.Context, number string) ([]model.Product, error)
}

type batchRepo struct{ db *gorm.DB }

func NewBatchRepository(db *gorm.DB) BatchRepository { return &batchRepo{db: db} }

func (r *batchRepo) Create(ctx context.Context, b *model.Batch) error {
	return r.db.WithContext(ctx).Create(b).Error
}

func (r *batchRepo) FindByNumber(ctx context.Context, number string) (*model.Batch, error) {
	var b model.Batch
	err := r.db.WithContext(ctx).Preload("Product").Where("batch_number = ?", number).First(&b).Error
	return &b, err
}

func (r *batchRepo) List(ctx context.Context, q BatchQuery) ([]model.Batch, error) {
	db := r.db.WithContext(ctx).Preload("Product")
	if q.Status != "" {
		db = db.Where("batch_status = ?", q.Status)
	}
	if q.ProductID != nil {
		db = db.Where("product_id = ?", *q.ProductID)
	}
	if q.ReceivedBefore != nil {
		db = db.Where("received_date <= ?", *q.ReceivedBefore)
	}
	if q.ReceivedAfter != nil {
		db = db.Where("received_date >= ?", *q.ReceivedAfter)
	}

	var batches []model.Batch
	err := db.Order("received_date ASC, batch_number ASC").Find(&batches).Error
	return batches, err
}

func (r *batchRepo) ListExpiringBy(ctx context.Context, date time.Time) ([]model.Batch, error) {
	var batches []model.Batch
	err := r.db.WithContext(ctx).Preload("Product").
		Where("expiration_date IS NOT NULL AND expiration_date <= ?", date).
		Order("expiration_date ASC").
		Find(&batches).Error
	return batches, err
}

func (r *batchRepo) ProductsByBatchNumber(ctx context.Context, number string) ([]model.Product, error) {
	var products []model.Product
	err := r.db.WithContext(ctx).
		Joins("JOIN batches ON batches.product_id = products.id").
		Where("batches.batch_number = ?", number).
		Preload("Images").
		Find(&products).Error
	return products, err
}
