package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type Category struct {
	ID        uint      `json:"category_id" gorm:"primaryKey"`
	Name      string    `json:"category_name" gorm:"uniqueIndex;not null"`
	CreatedAt time.Time `json:"created_at"`
}

type Meal struct {
	ID           uint            `json:"meal_id" gorm:"primaryKey"`
	Name         string          `json:"name" gorm:"not null"`
	Description  string          `json:"description"`
	Price        decimal.Decimal `json:"price" gorm:"type:decimal(12,2);not null"`
	CategoryID   *uint           `json:"category_id"`
	Category     *Category       `json:"-" gorm:"foreignKey:CategoryID"`
	CategoryName string          `json:"category_name,omitempty" gorm:"-"`
	MealTime     string          `json:"meal_time"` // Breakfast, Lunch, Dinner, LateNight...
	ImageURL     string          `json:"image_url"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
}
