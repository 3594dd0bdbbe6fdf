package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type Product struct {
	ID        uint            `gorm:"primaryKey" json:"id"`
	HotelID   uint            `gorm:"not null;index" json:"hotel_id"`
	Name      string          `gorm:"not null" json:"name"`
	Unit      string          `gorm:"type:varchar(16)" json:"unit"`
	Stock     decimal.Decimal `gorm:"type:numeric(14,3);not null;default:0" json:"stock"`
	Price     decimal.Decimal `gorm:"type:numeric(12,2);not null;default:0" json:"price"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

type Food struct {
	ID          uint             `gorm:"primaryKey" json:"id"`
	HotelID     uint             `gorm:"not null;index" json:"hotel_id"`
	Name        string           `gorm:"not null" json:"name"`
	Cost        decimal.Decimal  `gorm:"type:numeric(12,2);not null;default:0" json:"cost"`
	IsAvailable bool             `gorm:"not null;default:false" json:"is_available"`
	Ingredients []FoodIngredient `gorm:"foreignKey:FoodID" json:"ingredients,omitempty"`
	CreatedAt   time.Time        `json:"created_at"`
	UpdatedAt   time.Time        `json:"updated_at"`
}

type FoodIngredient struct {
	ID        uint            `gorm:"primaryKey" json:"id"`
	FoodID    uint            `gorm:"not null;index" json:"food_id"`
	ProductID uint            `gorm:"not null;index" json:"product_id"`
	Quantity  decimal.Decimal `gorm:"type:numeric(14,3);not null" json:"quantity"`
	Product   *Product        `gorm:"foreignKey:ProductID" json:"product,omitempty"`
}

type Menu struct {
	ID          uint            `gorm:"primaryKey" json:"id"`
	HotelID     uint            `gorm:"not null;index" json:"hotel_id"`
	Name        string          `gorm:"not null" json:"name"`
	Cost        decimal.Decimal `gorm:"type:numeric(12,2);not null;default:0" json:"cost"`
	IsAvailable bool            `gorm:"not null;default:false" json:"is_available"`
	Foods       []Food          `gorm:"many2many:menu_foods" json:"foods,omitempty"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

type Recipe struct {
	ID          uint            `gorm:"primaryKey" json:"id"`
	HotelID     uint            `gorm:"not null;index" json:"hotel_id"`
	Name        string          `gorm:"not null" json:"name"`
	Cost        decimal.Decimal `gorm:"type:numeric(12,2);not null;default:0" json:"cost"`
	IsAvailable bool            `gorm:"not null;default:false" json:"is_available"`
	Menus       []Menu          `gorm:"many2many:recipe_menus" json:"menus,omitempty"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

type FoodOrder struct {
	ID        uint            `gorm:"primaryKey" json:"id"`
	HotelID   uint            `gorm:"not null;index" json:"hotel_id"`
	MenuID    uint            `gorm:"not null;index" json:"menu_id"`
	Quantity  int             `gorm:"not null" json:"quantity"`
	Cost      decimal.Decimal `gorm:"type:numeric(12,2);not null;default:0" json:"cost"`
	CreatedAt time.Time       `json:"created_at"`

	Menu *Menu `gorm:"foreignKey:MenuID" json:"menu,omitempty"`
}
