package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// OrderStatus is the lifecycle state of an order.
type OrderStatus string

const (
	StatusPending   OrderStatus = "pending"
	StatusPreparing OrderStatus = "preparing"
	StatusOnWay     OrderStatus = "onway"
	StatusDelivered OrderStatus = "delivered"
	StatusCanceled  OrderStatus = "canceled"
)

// AllStatuses lists every status in lifecycle order.
var AllStatuses = []OrderStatus{StatusPending, StatusPreparing, StatusOnWay, StatusDelivered, StatusCanceled}

// Valid reports whether s is one of the five known statuses.
func (s OrderStatus) Valid() bool {
	for _, known := range AllStatuses {
		if s == known {
			return true
		}
	}
	return false
}

// Order is a single request for one meal. The total is never stored; see Total.
type Order struct {
	ID         uint                `json:"order_id" gorm:"primaryKey"`
	CustomerID uint                `json:"customer_id" gorm:"not null;index"`
	Customer   *Customer           `json:"-" gorm:"foreignKey:CustomerID"`
	MealID     uint                `json:"meal_id" gorm:"not null"`
	Meal       *Meal               `json:"-" gorm:"foreignKey:MealID"`
	Quantity   int                 `json:"quantity" gorm:"not null;default:1"`
	Price      decimal.NullDecimal `json:"price" gorm:"type:decimal(12,2)"` // captured at order time
	Status     OrderStatus         `json:"status" gorm:"not null;default:'pending'"`
	Revision   int                 `json:"revision" gorm:"not null;default:1"`
	CreatedAt  time.Time           `json:"order_datetime" gorm:"index"`
}

// Total derives the order total from its price and quantity.
func (o Order) Total() decimal.NullDecimal {
	return ComputeTotal(o.Price, o.Quantity)
}

// ComputeTotal returns price × quantity, or null when the price is unset.
func ComputeTotal(price decimal.NullDecimal, quantity int) decimal.NullDecimal {
	if !price.Valid {
		return decimal.NullDecimal{}
	}
	return NullPrice(price.Decimal.Mul(decimal.NewFromInt(int64(quantity))))
}

// NewOrder is the input to order creation. Zero quantity and empty status
// fall back to 1 and pending.
type NewOrder struct {
	CustomerID uint
	MealID     uint
	Quantity   int
	Price      decimal.NullDecimal
	Status     OrderStatus
}

// OrderPatch is a sparse update. Only fields that are Set are written.
type OrderPatch struct {
	CustomerID       Optional[uint]
	MealID           Optional[uint]
	Quantity         Optional[int]
	Price            Optional[decimal.NullDecimal]
	Status           Optional[OrderStatus]
	ExpectedRevision Optional[int]
}

// Empty reports whether the patch touches no order field.
func (p OrderPatch) Empty() bool {
	return !p.CustomerID.Set && !p.MealID.Set && !p.Quantity.Set && !p.Price.Set && !p.Status.Set
}

// Apply merges the patch over o and returns the merged record.
func (p OrderPatch) Apply(o Order) Order {
	o.CustomerID = p.CustomerID.Or(o.CustomerID)
	o.MealID = p.MealID.Or(o.MealID)
	o.Quantity = p.Quantity.Or(o.Quantity)
	o.Price = p.Price.Or(o.Price)
	o.Status = p.Status.Or(o.Status)
	return o
}

// Columns lists the database columns the patch writes.
func (p OrderPatch) Columns() []string {
	var cols []string
	if p.CustomerID.Set {
		cols = append(cols, "customer_id")
	}
	if p.MealID.Set {
		cols = append(cols, "meal_id")
	}
	if p.Quantity.Set {
		cols = append(cols, "quantity")
	}
	if p.Price.Set {
		cols = append(cols, "price")
	}
	if p.Status.Set {
		cols = append(cols, "status")
	}
	return cols
}

// EnrichedOrder is an order joined with customer and meal display data.
type EnrichedOrder struct {
	ID              uint                `json:"order_id"`
	CustomerID      uint                `json:"customer_id"`
	CustomerName    string              `json:"customer_name"`
	CustomerPhone   string              `json:"phone"`
	CustomerAddress string              `json:"address"`
	MealID          uint                `json:"meal_id"`
	MealName        string              `json:"meal_name"`
	Quantity        int                 `json:"quantity"`
	Price           decimal.NullDecimal `json:"price"`
	Total           decimal.NullDecimal `json:"total"`
	Status          OrderStatus         `json:"status"`
	Revision        int                 `json:"revision"`
	CreatedAt       time.Time           `json:"order_datetime"`
}

// Enrich builds the read view of o. Missing references yield empty names.
func Enrich(o Order) EnrichedOrder {
	e := EnrichedOrder{
		ID:         o.ID,
		CustomerID: o.CustomerID,
		MealID:     o.MealID,
		Quantity:   o.Quantity,
		Price:      o.Price,
		Total:      o.Total(),
		Status:     o.Status,
		Revision:   o.Revision,
		CreatedAt:  o.CreatedAt,
	}
	if o.Customer != nil {
		e.CustomerName = o.Customer.DisplayName()
		e.CustomerPhone = o.Customer.Phone
		e.CustomerAddress = o.Customer.Address
	}
	if o.Meal != nil {
		e.MealName = o.Meal.Name
	}
	return e
}
