package model

import (
	"time"

	"github.com/google/uuid"
)

// Approval is the moderation state shared by reviews and photos.
type Approval int

const (
	ApprovalRejected Approval = -1
	ApprovalPending  Approval = 0
	ApprovalApproved Approval = 1
)

type Review struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	UserID      uuid.UUID `gorm:"type:uuid;not null;index"`
	Rating      int       `gorm:"not null;check:chk_reviews_rating,rating BETWEEN 1 AND 5"`
	ReviewText  string    `gorm:"not null"`
	ReviewPhoto *string
	Approved    Approval `gorm:"not null;default:0;index"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

type Photo struct {
	ID         uuid.UUID  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	URL        string     `gorm:"not null"`
	Category   *string    `gorm:"index"`
	UploadedBy *uuid.UUID `gorm:"type:uuid;index"`
	Approved   Approval   `gorm:"not null;default:0;index"`
	CreatedAt  time.Time
}

// WishlistItem is unique per (user, product).
type WishlistItem struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	UserID    uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_wishlist_user_product"`
	ProductID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_wishlist_user_product"`
	CreatedAt time.Time

	Product *Product `gorm:"foreignKey:ProductID"`
}

func (WishlistItem) TableName() string { return "wishlist" }

// All lists every table, in creation order, for AutoMigrate.
func All() []interface{} {
	return []interface{}{
		&Role{},
		&User{},
		&LoginActivity{},
		&Supplier{},
		&Product{},
		&ProductImage{},
		&Batch{},
		&Order{},
		&OrderItem{},
		&StockMovement{},
		&Review{},
		&Photo{},
		&WishlistItem{},
	}
}
