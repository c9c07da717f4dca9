package model

import (
	"time"

	"github.com/google/uuid"
)

// BatchStatus values. Nothing in the system moves a batch between them
// automatically; they are set on receipt and by hand.
type BatchStatus string

const (
	BatchActive  BatchStatus = "Active"
	BatchExpired BatchStatus = "Expired"
	BatchSoldOut BatchStatus = "Sold Out"
)

func (s BatchStatus) Valid() bool {
	switch s {
	case BatchActive, BatchExpired, BatchSoldOut:
		return true
	}
	return false
}

// Batch is one receipt of inventory for a product.
// ReceivedDate and ExpirationDate are calendar dates (time part is midnight UTC).
type Batch struct {
	ID               uuid.UUID   `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	BatchNumber      string      `gorm:"uniqueIndex;not null"`
	ProductID        uuid.UUID   `gorm:"type:uuid;not null;index"`
	SupplierID       uuid.UUID   `gorm:"type:uuid;not null;index"`
	QuantityReceived int         `gorm:"not null"`
	ReceivedDate     time.Time   `gorm:"type:date;not null;index"`
	ExpirationDate   *time.Time  `gorm:"type:date"`
	Status           BatchStatus `gorm:"column:batch_status;type:varchar(16);not null;default:'Active'"`
	CreatedAt        time.Time
	UpdatedAt        time.Time

	Product  *Product  `gorm:"foreignKey:ProductID"`
	Supplier *Supplier `gorm:"foreignKey:SupplierID"`
}
