package repository

import (
	"context"

	"github.com/venky2821/finalproject/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ProductRepository defines the data access contract for the catalog.
// Services depend on this interface so unit tests can swap in stubs.
type ProductRepository interface {
	Create(ctx context.Context, p *model.Product) error
	CreateTx(tx *gorm.DB, p *model.Product) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Product, error)
	FindByName(ctx context.Context, name string) (*model.Product, error)
	FindByNameTx(tx *gorm.DB, name string) (*model.Product, error)
	List(ctx context.Context) ([]model.Product, error)
	ListBelowThreshold(ctx context.Context) ([]model.Product, error)
	AddImages(ctx context.Context, images []model.ProductImage) error

	// AdjustStockTx applies both deltas in one conditional UPDATE and returns
	// the row as it is after the change. ErrStockConflict means either counter
	// would have gone negative.
	AdjustStockTx(tx *gorm.DB, id uuid.UUID, stockDelta, reservedDelta int) (*model.Product, error)

	// DB exposes the underlying *gorm.DB so services can open transactions.
	DB() *gorm.DB
}

type productRepo struct{ db *gorm.DB }

func NewProductRepository(db *gorm.DB) ProductRepository { return &productRepo{db: db} }

func (r *productRepo) Create(ctx context.Context, p *model.Product) error {
	return r.db.WithContext(ctx).Create(p).Error
}

func (r *productRepo) CreateTx(tx *gorm.DB, p *model.Product) error {
	return tx.Create(p).Error
}

func (r *productRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Product, error) {
	var p model.Product
	err := r.db.WithContext(ctx).Preload("Images").First(&p, "id = ?", id).Error
	return &p, err
}

func (r *productRepo) FindByName(ctx context.Context, name string) (*model.Product, error) {
	return r.FindByNameTx(r.db.WithContext(ctx), name)
}

func (r *productRepo) FindByNameTx(tx *gorm.DB, name string) (*model.Product, error) {
	var p model.Product
	err := tx.Preload("Images").Where("name = ?", name).First(&p).Error
	return &p, err
}

func (r *productRepo) List(ctx context.Context) ([]model.Product, error) {
	var products []model.Product
	err := r.db.WithContext(ctx).Preload("Images").Order("name ASC").Find(&products).Error
	return products, err
}

func (r *productRepo) ListBelowThreshold(ctx context.Context) ([]model.Product, error) {
	var products []model.Product
	err := r.db.WithContext(ctx).
		Where("stock_level < reorder_threshold").
		Order("name ASC").
		Find(&products).Error
	return products, err
}

func (r *productRepo) AddImages(ctx context.Context, images []model.ProductImage) error {
	if len(images) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(&images).Error
}

func (r *productRepo) AdjustStockTx(tx *gorm.DB, id uuid.UUID, stockDelta, reservedDelta int) (*model.Product, error) {
	var p model.Product
	res := tx.Model(&p).
		Clauses(clause.Returning{}).
		Where("id = ?", id).
		Where("stock_level + ? >= 0 AND reserved_stock + ? >= 0", stockDelta, reservedDelta).
		Updates(map[string]interface{}{
			"stock_level":    gorm.Expr("stock_level + ?", stockDelta),
			"reserved_stock": gorm.Expr("reserved_stock + ?", reservedDelta),
		})
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, ErrStockConflict
	}
	return &p, nil
}

func (r *productRepo) DB() *gorm.DB { return r.db }
