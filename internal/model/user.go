package model

import (
	"time"

	"github.com/google/uuid"
)

// RoleID keeps the fixed integer ids the roles table has always used.
type RoleID int

const (
	RoleAdmin    RoleID = 1
	RoleCustomer RoleID = 2
	RoleSupplier RoleID = 3
)

type Role struct {
	ID   RoleID `gorm:"primaryKey;autoIncrement:false"`
	Name string `gorm:"uniqueIndex;not null"`
}

// DefaultRoles are seeded at startup.
var DefaultRoles = []Role{
	{ID: RoleAdmin, Name: "Admin"},
	{ID: RoleCustomer, Name: "Customer"},
	{ID: RoleSupplier, Name: "Supplier"},
}

type User struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Email        string    `gorm:"uniqueIndex;not null"`
	Username     string    `gorm:"uniqueIndex;not null"`
	PasswordHash string    `gorm:"not null"`
	// PasswordHistory holds the most recent bcrypt hashes, oldest first.
	PasswordHistory []string `gorm:"serializer:json;type:text"`
	IsActive        bool     `gorm:"not null;default:true"`
	ResetToken      *string
	RoleID          RoleID `gorm:"not null;default:2"`
	CreatedAt       time.Time
	UpdatedAt       time.Time

	Role *Role `gorm:"foreignKey:RoleID"`
}

type LoginActivity struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	UserID    uuid.UUID `gorm:"type:uuid;not null;index"`
	Timestamp time.Time `gorm:"not null;autoCreateTime;index"`
	IPAddress string
	UserAgent string
}

// TableName keeps the historical singular table name.
func (LoginActivity) TableName() string { return "login_activity" }
