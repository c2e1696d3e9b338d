// Package projections derives read-only views from enriched orders. Nothing
// here is stored; every call recomputes from the rows it is given.
package projections

import (
	"smart-restaurant-api/models"

	"github.com/shopspring/decimal"
)

// OrderLine is one order reduced for the customer history view.
type OrderLine struct {
	OrderID   uint                `json:"order_id"`
	Meal      string              `json:"meal"`
	Price     decimal.NullDecimal `json:"price"`
	Quantity  int                 `json:"quantity"`
	Total     decimal.NullDecimal `json:"total"`
	Status    models.OrderStatus  `json:"status"`
	OrderDate string              `json:"order_date"`
	OrderTime string              `json:"order_time"`
}

// CustomerWithOrders is a customer and their orders, newest first.
type CustomerWithOrders struct {
	models.Customer
	Orders []OrderLine `json:"orders"`
}

// CustomersWithOrders attaches each customer's orders to it. Customers keep
// the order they are given; orders are expected newest first, as
// OrderRepository.List returns them, and keep that order within a customer.
func CustomersWithOrders(customers []models.Customer, orders []models.EnrichedOrder) []CustomerWithOrders {
	byCustomer := make(map[uint][]OrderLine, len(customers))
	for _, o := range orders {
		byCustomer[o.CustomerID] = append(byCustomer[o.CustomerID], Line(o))
	}
	out := make([]CustomerWithOrders, 0, len(customers))
	for _, c := range customers {
		lines := byCustomer[c.ID]
		if lines == nil {
			lines = []OrderLine{}
		}
		out = append(out, CustomerWithOrders{Customer: c, Orders: lines})
	}
	return out
}

// Line splits the order timestamp into a UTC date and HH:MM time.
func Line(o models.EnrichedOrder) OrderLine {
	at := o.CreatedAt.UTC()
	return OrderLine{
		OrderID:   o.ID,
		Meal:      o.MealName,
		Price:     o.Price,
		Quantity:  o.Quantity,
		Total:     o.Total,
		Status:    o.Status,
		OrderDate: at.Format(dateLayout),
		OrderTime: at.Format(clockLayout),
	}
}
