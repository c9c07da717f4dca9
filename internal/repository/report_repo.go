package repository

import (
	"context"
	"time"

	"github.com/venky2821/finalproject/internal/model"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Period is a half-open time window [From, To). Nil bounds are open.
type Period struct {
	From *time.Time
	To   *time.Time
}

type SalesRow struct {
	Name      string
	Price     decimal.Decimal
	TotalSold int64
}

type MovementVolumeRow struct {
	Name       string
	StockLevel int
	Moved      int64
}

// ReportRepository runs the read-only aggregates behind the reports.
// Sales only count items of completed orders.
type ReportRepository interface {
	TopSelling(ctx context.Context, p Period, limit int) ([]SalesRow, error)
	SalesByProduct(ctx context.Context, p Period) ([]SalesRow, error)
	MovementVolume(ctx context.Context, p Period) ([]MovementVolumeRow, error)
}

type reportRepo struct{ db *gorm.DB }

func NewReportRepository(db *gorm.DB) ReportRepository { return &reportRepo{db: db} }

func (r *reportRepo) sales(ctx context.Context, p Period) *gorm.DB {
	q := r.db.WithContext(ctx).Model(&model.OrderItem{}).
		Select("products.name AS name, products.price AS price, SUM(order_items.quantity) AS total_sold").
		Joins("JOIN products ON products.id = order_items.product_id").
		Joins("JOIN orders ON orders.id = order_items.order_id").
		Where("orders.status = ?", model.OrderCompleted)
	if p.From != nil {
		q = q.Where("order_items.created_at >= ?", *p.From)
	}
	if p.To != nil {
		q = q.Where("order_items.created_at < ?", *p.To)
	}
	return q.Group("products.id, products.name, products.price")
}

func (r *reportRepo) TopSelling(ctx context.Context, p Period, limit int) ([]SalesRow, error) {
	var rows []SalesRow
	err := r.sales(ctx, p).Order("total_sold DESC, products.name ASC").Limit(limit).Scan(&rows).Error
	return rows, err
}

func (r *reportRepo) SalesByProduct(ctx context.Context, p Period) ([]SalesRow, error) {
	var rows []SalesRow
	err := r.sales(ctx, p).Order("products.name ASC").Scan(&rows).Error
	return rows, err
}

func (r *reportRepo) MovementVolume(ctx context.Context, p Period) ([]MovementVolumeRow, error) {
	join := "LEFT JOIN stock_movements ON stock_movements.product_id = products.id"
	var args []interface{}
	if p.From != nil {
		join += " AND stock_movements.timestamp >= ?"
		args = append(args, *p.From)
	}
	if p.To != nil {
		join += " AND stock_movements.timestamp < ?"
		args = append(args, *p.To)
	}

	var rows []MovementVolumeRow
	err := r.db.WithContext(ctx).Model(&model.Product{}).
		Select("products.name AS name, products.stock_level AS stock_level, COALESCE(SUM(ABS(stock_movements.quantity)), 0) AS moved").
		Joins(join, args...).
		Where("products.stock_level > 0").
		Group("products.id, products.name, products.stock_level").
		Order("products.name ASC").
		Scan(&rows).Error
	return rows, err
}
