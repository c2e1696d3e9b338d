package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"smart-restaurant-api/middleware"
	"smart-restaurant-api/models"
	"smart-restaurant-api/repository"

	"github.com/gin-gonic/gin"
)

type CreateCustomerRequest struct {
	FirstName       string `json:"first_name" binding:"required"`
	LastName        string `json:"last_name"`
	Email           string `json:"email"`
	Phone           string `json:"phone"`
	Address         string `json:"address"`
	Username        string `json:"username"`
	Age             *int   `json:"age"`
	HealthCondition string `json:"health_condition"`
}

type UpdateCustomerRequest struct {
	FirstName       models.Optional[string] `json:"first_name"`
	LastName        models.Optional[string] `json:"last_name"`
	Email           models.Optional[string] `json:"email"`
	Phone           models.Optional[string] `json:"phone"`
	Address         models.Optional[string] `json:"address"`
	Username        models.Optional[string] `json:"username"`
	Age             models.Optional[*int]   `json:"age"`
	HealthCondition models.Optional[string] `json:"health_condition"`
}

// ListCustomers returns every customer, newest first
func (h *Handler) ListCustomers(c *gin.Context) {
	customers, err := h.catalog.ListCustomers(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, customers)
}

func (h *Handler) GetCustomer(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	customer, err := h.catalog.GetCustomer(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, customer)
}

// CreateCustomer is the admin entry point; customers sign up via Register
func (h *Handler) CreateCustomer(c *gin.Context) {
	var req CreateCustomerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}
	customer := models.Customer{
		FirstName:       req.FirstName,
		LastName:        req.LastName,
		Phone:           req.Phone,
		Address:         req.Address,
		Username:        req.Username,
		Age:             req.Age,
		HealthCondition: req.HealthCondition,
	}
	if req.Email != "" {
		customer.Email = &req.Email
	}
	if err := h.catalog.CreateCustomer(c.Request.Context(), &customer); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, customer)
}

func (h *Handler) UpdateCustomer(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req UpdateCustomerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid JSON body: "+err.Error())
		return
	}
	customer, err := h.catalog.UpdateCustomer(c.Request.Context(), id, repository.CustomerPatch{
		FirstName:       req.FirstName,
		LastName:        req.LastName,
		Email:           req.Email,
		Phone:           req.Phone,
		Address:         req.Address,
		Username:        req.Username,
		Age:             req.Age,
		HealthCondition: req.HealthCondition,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, customer)
}

// DeleteCustomer removes the customer and their picture; their orders stay
func (h *Handler) DeleteCustomer(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	ctx := c.Request.Context()
	current, err := h.catalog.GetCustomer(ctx, id)
	var notFound *repository.NotFoundError
	if err != nil && !errors.As(err, &notFound) {
		respondError(c, err)
		return
	}
	n, err := h.catalog.DeleteCustomer(ctx, id)
	if err != nil {
		respondError(c, err)
		return
	}
	if n > 0 && current.ProfileImageURL != "" {
		h.release(ctx, current.ProfileImageURL)
	}
	c.Status(http.StatusNoContent)
}

// UpdateCustomerProfile handles the settings form for a customer by path id
func (h *Handler) UpdateCustomerProfile(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	h.updateProfile(c, id)
}

// UpdateMyProfile handles the settings form for the authenticated customer
func (h *Handler) UpdateMyProfile(c *gin.Context) {
	h.updateProfile(c, middleware.GetCustomerID(c))
}

// updateProfile reads a multipart or urlencoded form. Blank fields are left
// unchanged, and an optional profile_image replaces the current picture.
func (h *Handler) updateProfile(c *gin.Context, id uint) {
	var patch repository.CustomerPatch
	text := map[string]*models.Optional[string]{
		"first_name":       &patch.FirstName,
		"last_name":        &patch.LastName,
		"email":            &patch.Email,
		"phone":            &patch.Phone,
		"address":          &patch.Address,
		"username":         &patch.Username,
		"health_condition": &patch.HealthCondition,
	}
	for field, opt := range text {
		if v := strings.TrimSpace(c.PostForm(field)); v != "" {
			*opt = models.SetTo(v)
		}
	}
	if v := strings.TrimSpace(c.PostForm("age")); v != "" {
		age, err := strconv.Atoi(v)
		if err != nil || age < 0 {
			badRequest(c, "age must be a non-negative integer")
			return
		}
		patch.Age = models.SetTo(&age)
	}

	ctx := c.Request.Context()
	img, err := h.saveUpload(c, "profile_image", "profiles")
	if err != nil {
		respondError(c, err)
		return
	}
	var previous string
	if img != nil {
		current, err := h.catalog.GetCustomer(ctx, id)
		if err != nil {
			h.discard(ctx, img)
			respondError(c, err)
			return
		}
		previous = current.ProfileImageURL
		patch.ProfileImageURL = models.SetTo(img.url)
	}

	customer, err := h.catalog.UpdateCustomer(ctx, id, patch)
	if err != nil {
		h.discard(ctx, img)
		respondError(c, err)
		return
	}
	if img != nil && previous != "" && previous != img.url {
		h.release(ctx, previous)
	}
	c.JSON(http.StatusOK, customer)
}
