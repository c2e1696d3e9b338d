package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"smart-restaurant-api/middleware"
	"smart-restaurant-api/models"
	"smart-restaurant-api/projections"
	"smart-restaurant-api/repository"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

type CreateOrderRequest struct {
	CustomerID json.RawMessage     `json:"customer_id"`
	MealID     json.RawMessage     `json:"meal_id"`
	Quantity   json.RawMessage     `json:"quantity"`
	Price      decimal.NullDecimal `json:"price"`
	Status     models.OrderStatus  `json:"status"`
}

// UpdateOrderRequest carries only the keys the client sent.
type UpdateOrderRequest struct {
	CustomerID       models.Optional[json.RawMessage]     `json:"customer_id"`
	MealID           models.Optional[json.RawMessage]     `json:"meal_id"`
	Quantity         models.Optional[json.RawMessage]     `json:"quantity"`
	Price            models.Optional[decimal.NullDecimal] `json:"price"`
	Status           models.Optional[models.OrderStatus]  `json:"status"`
	ExpectedRevision models.Optional[int]                 `json:"expected_revision"`
}

func (r UpdateOrderRequest) patch() (models.OrderPatch, error) {
	p := models.OrderPatch{
		Price:            r.Price,
		Status:           r.Status,
		ExpectedRevision: r.ExpectedRevision,
	}
	if r.CustomerID.Set {
		id, err := parseRef("customer_id", r.CustomerID.Value)
		if err != nil {
			return p, err
		}
		p.CustomerID = models.SetTo(id)
	}
	if r.MealID.Set {
		id, err := parseRef("meal_id", r.MealID.Value)
		if err != nil {
			return p, err
		}
		p.MealID = models.SetTo(id)
	}
	if r.Quantity.Set {
		q, err := parseNumber(r.Quantity.Value)
		if err != nil || q <= 0 {
			return p, &repository.ValidationError{Field: "quantity", Reason: "must be a positive integer"}
		}
		p.Quantity = models.SetTo(int(q))
	}
	return p, nil
}

// quantityOrDefault treats a missing or unreadable quantity as 1.
func quantityOrDefault(raw json.RawMessage) int {
	if len(raw) == 0 {
		return 1
	}
	q, err := parseNumber(raw)
	if err != nil || q <= 0 {
		return 1
	}
	return int(q)
}

// filterFromQuery reads the dashboard filters: date, from, to, status, q.
func filterFromQuery(c *gin.Context) (projections.Filter, bool) {
	f, err := projections.ParseFilter(c.Query("date"), c.Query("from"), c.Query("to"), c.Query("status"), c.Query("q"))
	if err != nil {
		badRequest(c, err.Error())
		return projections.Filter{}, false
	}
	return f, true
}

// ListOrders returns enriched orders, newest first, narrowed by the query filters
func (h *Handler) ListOrders(c *gin.Context) {
	f, ok := filterFromQuery(c)
	if !ok {
		return
	}
	orders, err := h.orders.List(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, f.Apply(orders))
}

// GetOrder returns a single enriched order
func (h *Handler) GetOrder(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	order, err := h.orders.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, order)
}

// CreateOrder places an order. Quantity falls back to 1 and status to pending.
func (h *Handler) CreateOrder(c *gin.Context) {
	var req CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}
	customerID, err := parseRef("customer_id", req.CustomerID)
	if err != nil {
		respondError(c, err)
		return
	}
	mealID, err := parseRef("meal_id", req.MealID)
	if err != nil {
		respondError(c, err)
		return
	}

	order, err := h.orders.Create(c.Request.Context(), models.NewOrder{
		CustomerID: customerID,
		MealID:     mealID,
		Quantity:   quantityOrDefault(req.Quantity),
		Price:      req.Price,
		Status:     req.Status,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, order)
}

// UpdateOrder applies a partial update. Only keys present in the body change.
func (h *Handler) UpdateOrder(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req UpdateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid JSON body: "+err.Error())
		return
	}
	patch, err := req.patch()
	if err != nil {
		respondError(c, err)
		return
	}
	order, err := h.orders.Update(c.Request.Context(), id, patch)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, order)
}

// DeleteOrder removes an order. A missing id is not an error.
func (h *Handler) DeleteOrder(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	if _, err := h.orders.Delete(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// OrdersSummary aggregates the filtered orders for the admin dashboard
func (h *Handler) OrdersSummary(c *gin.Context) {
	f, ok := filterFromQuery(c)
	if !ok {
		return
	}
	top := projections.DefaultTopN
	if raw := c.Query("top"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			badRequest(c, "top must be a positive integer")
			return
		}
		top = n
	}
	rankBy := projections.RankByTotal
	if raw := c.Query("rank_by"); raw != "" {
		rankBy = projections.RankBy(raw)
		if !rankBy.Valid() {
			badRequest(c, "rank_by must be total or quantity")
			return
		}
	}

	orders, err := h.orders.List(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, projections.Summarize(f.Apply(orders), top, rankBy))
}

// CustomersWithOrders lists every customer with their order history
func (h *Handler) CustomersWithOrders(c *gin.Context) {
	ctx := c.Request.Context()
	customers, err := h.catalog.ListCustomers(ctx)
	if err != nil {
		respondError(c, err)
		return
	}
	orders, err := h.orders.List(ctx)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, projections.CustomersWithOrders(customers, orders))
}

// MyOrders returns the authenticated customer's orders
func (h *Handler) MyOrders(c *gin.Context) {
	orders, err := h.orders.ListByCustomer(c.Request.Context(), middleware.GetCustomerID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"count": len(orders), "orders": orders})
}
