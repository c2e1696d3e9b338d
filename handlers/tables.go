package handlers

import (
	"net/http"
	"strings"
	"time"

	"smart-restaurant-api/models"
	"smart-restaurant-api/repository"

	"github.com/gin-gonic/gin"
)

type CreateTableRequest struct {
	Number   int `json:"table_number" binding:"required"`
	Capacity int `json:"capacity" binding:"required"`
}

type TableStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

type CreateReservationRequest struct {
	CustomerID uint   `json:"customer_id" binding:"required"`
	TableID    uint   `json:"table_id" binding:"required"`
	ReservedAt string `json:"reservation_datetime" binding:"required"`
	Notes      string `json:"notes"`
}

// reservationLayouts are tried in order; the booking form sends datetime-local values.
var reservationLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
}

func parseReservationTime(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	for _, layout := range reservationLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), true
		}
	}
	return time.Time{}, false
}

func (h *Handler) ListTables(c *gin.Context) {
	tables, err := h.catalog.ListTables(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, tables)
}

func (h *Handler) ListAvailableTables(c *gin.Context) {
	tables, err := h.catalog.ListAvailableTables(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, tables)
}

func (h *Handler) CreateTable(c *gin.Context) {
	var req CreateTableRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}
	table := models.Table{Number: req.Number, Capacity: req.Capacity}
	if err := h.catalog.CreateTable(c.Request.Context(), &table); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, table)
}

// UpdateTableStatus is the manual override for releasing or holding a table.
// Status is matched case-insensitively.
func (h *Handler) UpdateTableStatus(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req TableStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}
	status := models.TableStatus(strings.ToLower(strings.TrimSpace(req.Status)))
	table, err := h.catalog.SetTableStatus(c.Request.Context(), id, status)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, table)
}

// CreateReservation books a table and marks it reserved
func (h *Handler) CreateReservation(c *gin.Context) {
	var req CreateReservationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}
	at, ok := parseReservationTime(req.ReservedAt)
	if !ok {
		badRequest(c, "reservation_datetime must be an ISO 8601 date and time")
		return
	}
	res, err := h.catalog.CreateReservation(c.Request.Context(), repository.NewReservation{
		CustomerID: req.CustomerID,
		TableID:    req.TableID,
		ReservedAt: at,
		Notes:      req.Notes,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, res)
}
