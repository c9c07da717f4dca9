package model

import (
	"time"

	"github.com/google/uuid"
)

type Supplier struct {
	ID            uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Name          string    `gorm:"not null"`
	ContactPerson string    `gorm:"not null"`
	Phone         string    `gorm:"type:varchar(20);not null"`
	Email         string    `gorm:"uniqueIndex;not null"`
	Address       string    `gorm:"not null"`
	CreatedAt     time.Time
	UpdatedAt     time.Time
}
