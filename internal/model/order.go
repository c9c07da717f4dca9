package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// OrderStatus is the persisted state of an Order. Transitions between
// states live in service/order_state.go.
type OrderStatus string

const (
	OrderPending   OrderStatus = "pending"
	OrderReserved  OrderStatus = "reserved"
	OrderCompleted OrderStatus = "completed"
	OrderRejected  OrderStatus = "rejected"
	OrderCancelled OrderStatus = "cancelled"
)

type Order struct {
	ID              uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	CustomerName    string          `gorm:"not null;index"`
	UserID          uuid.UUID       `gorm:"type:uuid;not null;index"`
	TotalPrice      decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	Status          OrderStatus     `gorm:"type:varchar(16);not null;default:'pending';index"`
	RejectionReason *string
	// SourceOrderID points at the completed order a reorder was copied from.
	SourceOrderID *uuid.UUID `gorm:"type:uuid"`
	CreatedAt     time.Time  `gorm:"index"`
	UpdatedAt     time.Time

	Items []OrderItem `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
}

// OrderItem.Price is the line price at order time (unit price × quantity).
type OrderItem struct {
	ID        uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	OrderID   uuid.UUID       `gorm:"type:uuid;not null;index"`
	ProductID uuid.UUID       `gorm:"type:uuid;not null;index"`
	Quantity  int             `gorm:"not null"`
	Price     decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	CreatedAt time.Time       `gorm:"index"`

	Product *Product `gorm:"foreignKey:ProductID"`
}
