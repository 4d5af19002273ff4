package model

import (
	"time"

	"gorm.io/gorm"
)

// CartItem holds one product for one user. Uniqueness per (user, product)
// is enforced by the add-to-cart upsert, not by a database constraint.
type CartItem struct {
	ID        uint           `gorm:"primarykey" json:"id"`
	UserID    string         `gorm:"type:uuid;not null;index" json:"user_id"`
	ProductID uint           `gorm:"not null;index" json:"product_id"`
	Quantity  int            `gorm:"not null;default:1" json:"quantity"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	// Relationships
	User    Profile `gorm:"foreignKey:UserID" json:"-"`
	Product Product `gorm:"foreignKey:ProductID" json:"product,omitempty"`
}

func (CartItem) TableName() string {
	return "cart_items"
}
