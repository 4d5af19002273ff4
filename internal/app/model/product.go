package model

import (
	"time"

	"github.com/lib/pq"
	"gorm.io/gorm"
)

// Product is a cocktail in the catalog. Stock is an admin-managed display
// field; checkout does not decrement it.
type Product struct {
	ID             uint           `gorm:"primarykey" json:"id"`
	Name           string         `gorm:"not null" json:"name"`
	Description    string         `gorm:"type:text" json:"description"`
	Price          float64        `gorm:"not null" json:"price"`
	ImageURL       string         `json:"image_url,omitempty"`
	CategoryID     uint           `gorm:"not null;index" json:"category_id"`
	Ingredients    pq.StringArray `gorm:"type:text[]" json:"ingredients"`
	AlcoholContent float64        `json:"alcohol_content,omitempty"` // ABV percentage
	VolumeML       int            `json:"volume_ml,omitempty"`
	Stock          int            `gorm:"default:0" json:"stock"`
	IsFeatured     bool           `gorm:"default:false" json:"is_featured"`
	IsAvailable    bool           `gorm:"default:true" json:"is_available"`
	CreatedAt      time.Time      `json:"created_at"`
	UpdatedAt      time.Time      `json:"updated_at"`
	DeletedAt      gorm.DeletedAt `gorm:"index" json:"-"`

	// Relationships
	Category   Category    `gorm:"foreignKey:CategoryID" json:"category,omitempty"`
	CartItems  []CartItem  `gorm:"foreignKey:ProductID" json:"-"`
	OrderItems []OrderItem `gorm:"foreignKey:ProductID" json:"-"`
}

func (Product) TableName() string {
	return "products"
}
