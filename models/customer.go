package models

import (
	"strings"
	"time"
)

type Customer struct {
	ID              uint      `json:"customer_id" gorm:"primaryKey"`
	FirstName       string    `json:"first_name" gorm:"not null"`
	LastName        string    `json:"last_name"`
	Email           *string   `json:"email" gorm:"uniqueIndex"`
	Phone           string    `json:"phone"`
	Address         string    `json:"address"`
	Username        string    `json:"username"`
	PasswordHash    string    `json:"-"`
	Age             *int      `json:"age"`
	HealthCondition string    `json:"health_condition"`
	ProfileImageURL string    `json:"profile_image_url"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// DisplayName joins first and last name, trimmed.
func (c Customer) DisplayName() string {
	return JoinName(c.FirstName, c.LastName)
}

// JoinName is the display form used wherever a customer is shown by name.
func JoinName(first, last string) string {
	return strings.TrimSpace(first + " " + last)
}
