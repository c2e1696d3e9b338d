package models

import "time"

type TableStatus string

const (
	TableAvailable TableStatus = "available"
	TableReserved  TableStatus = "reserved"
)

// Valid reports whether s is one of the two table states.
func (s TableStatus) Valid() bool {
	return s == TableAvailable || s == TableReserved
}

type Table struct {
	ID        uint        `json:"table_id" gorm:"primaryKey"`
	Number    int         `json:"table_number" gorm:"not null"`
	Capacity  int         `json:"capacity" gorm:"not null"`
	Status    TableStatus `json:"status" gorm:"not null;default:'available'"`
	CreatedAt time.Time   `json:"created_at"`
}

// Reservation books a table for a customer. Creating one is the only writer
// that moves a table to reserved; nothing moves it back automatically.
type Reservation struct {
	ID         uint      `json:"reservation_id" gorm:"primaryKey"`
	CustomerID uint      `json:"customer_id" gorm:"not null"`
	TableID    uint      `json:"table_id" gorm:"not null"`
	ReservedAt time.Time `json:"reservation_datetime" gorm:"not null"`
	Notes      string    `json:"notes"`
	CreatedAt  time.Time `json:"created_at"`
}
