package model

import (
	"time"

	"github.com/google/uuid"
)

// MovementType classifies a StockMovement.
type MovementType string

const (
	MovementReserve      MovementType = "reserve"
	MovementSale         MovementType = "sale"
	MovementRelease      MovementType = "release"
	MovementRestock      MovementType = "restock"
	MovementInitialStock MovementType = "initial_stock"
	MovementSupply       MovementType = "supply"
	MovementAdjustment   MovementType = "adjustment"
)

// StockMovement records every change to a product's stock_level or
// reserved_stock. Rows are only ever inserted.
type StockMovement struct {
	ID           uuid.UUID    `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	ProductID    uuid.UUID    `gorm:"type:uuid;not null;index"`
	MovementType MovementType `gorm:"type:varchar(20);not null;index"`
	Quantity     int          `gorm:"not null"` // positive = in, negative = out
	StockBefore  int          `gorm:"not null"`
	StockAfter   int          `gorm:"not null"`
	Reason       string
	OrderID      *uuid.UUID `gorm:"type:uuid;index"`
	Timestamp    time.Time  `gorm:"not null;autoCreateTime;index"`

	Product *Product `gorm:"foreignKey:ProductID"`
}
