package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Product is a catalog entry. StockLevel counts units free to reserve,
// ReservedStock counts units held by reserved orders awaiting approval.
type Product struct {
	ID               uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Name             string          `gorm:"uniqueIndex;not null"`
	Category         string          `gorm:"not null;default:''"`
	StockLevel       int             `gorm:"not null;default:0;check:chk_products_stock_level,stock_level >= 0"`
	ReservedStock    int             `gorm:"not null;default:0;check:chk_products_reserved_stock,reserved_stock >= 0"`
	ReorderThreshold int             `gorm:"not null;default:0"`
	CostPrice        decimal.Decimal `gorm:"type:decimal(10,2);not null;default:0"`
	Price            decimal.Decimal `gorm:"type:decimal(10,2);not null;default:0"`
	SupplierID       *uuid.UUID      `gorm:"type:uuid;index"`
	ImageURL         string          `gorm:"not null;default:''"`
	CreatedAt        time.Time
	UpdatedAt        time.Time

	Supplier *Supplier      `gorm:"foreignKey:SupplierID"`
	Images   []ProductImage `gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE"`
}

// ProductImage is an additional picture attached to a product.
type ProductImage struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	ProductID uuid.UUID `gorm:"type:uuid;not null;index"`
	ImageURL  string    `gorm:"not null"`
	CreatedAt time.Time
}
