package handlers

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"smart-restaurant-api/logger"
	"smart-restaurant-api/middleware"
	"smart-restaurant-api/recommend"
	"smart-restaurant-api/repository"
	"smart-restaurant-api/statemachine"
	"smart-restaurant-api/storage"

	"github.com/gin-gonic/gin"
)

// Handler carries the collaborators every endpoint needs. Nothing is global.
type Handler struct {
	orders         repository.Orders
	catalog        *repository.CatalogStore
	disk           storage.Disk
	tokens         *middleware.Tokens
	policy         statemachine.Policy
	recommender    *recommend.Recommender
	uploadMaxBytes int64
	now            func() time.Time
}

type Deps struct {
	Orders         repository.Orders
	Catalog        *repository.CatalogStore
	Disk           storage.Disk
	Tokens         *middleware.Tokens
	Policy         statemachine.Policy
	UploadMaxBytes int64
}

func New(d Deps) *Handler {
	policy := d.Policy
	if policy == nil {
		policy = statemachine.Permissive{}
	}
	return &Handler{
		orders:         d.Orders,
		catalog:        d.Catalog,
		disk:           d.Disk,
		tokens:         d.Tokens,
		policy:         policy,
		recommender:    recommend.New(d.Catalog, d.Orders),
		uploadMaxBytes: d.UploadMaxBytes,
		now:            time.Now,
	}
}

// respondError maps the repository error taxonomy onto HTTP statuses.
// Store failures are logged and reported without driver detail.
func respondError(c *gin.Context, err error) {
	var (
		validation *repository.ValidationError
		notFound   *repository.NotFoundError
		conflict   *repository.ConflictError
	)
	switch {
	case errors.As(err, &validation):
		c.JSON(http.StatusBadRequest, gin.H{"error": validation.Error()})
	case errors.As(err, &notFound):
		c.JSON(http.StatusNotFound, gin.H{"error": notFound.Error()})
	case errors.As(err, &conflict):
		c.JSON(http.StatusConflict, gin.H{
			"error":            conflict.Error(),
			"current_revision": conflict.Actual,
		})
	default:
		logger.FromCtx(c.Request.Context()).Error("request failed",
			"route", c.FullPath(),
			"error", err,
		)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Server error"})
	}
}

func badRequest(c *gin.Context, msg string) {
	c.JSON(http.StatusBadRequest, gin.H{"error": msg})
}

// pathID parses a numeric path parameter, answering 400 when it is not one.
func pathID(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		badRequest(c, "invalid "+name+": must be a positive number")
		return 0, false
	}
	return uint(id), true
}

// parseRef reads a required reference id sent as 7 or "7".
func parseRef(field string, raw json.RawMessage) (uint, error) {
	if len(raw) == 0 || string(bytes.TrimSpace(raw)) == "null" {
		return 0, &repository.ValidationError{Field: field, Reason: "is required"}
	}
	v, err := parseNumber(raw)
	if err != nil || v <= 0 {
		return 0, &repository.ValidationError{Field: field, Reason: "must be a positive number"}
	}
	return uint(v), nil
}

func parseNumber(data []byte) (int64, error) {
	data = bytes.TrimSpace(data)
	var s string
	if len(data) > 0 && data[0] == '"' {
		if err := json.Unmarshal(data, &s); err != nil {
			return 0, err
		}
	} else {
		s = string(data)
	}
	return strconv.ParseInt(strings.TrimSpace(s), 10, 64)
}
