package handlers

import (
	"errors"
	"net/http"
	"strings"

	"smart-restaurant-api/middleware"
	"smart-restaurant-api/models"
	"smart-restaurant-api/repository"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
)

type RegisterRequest struct {
	FirstName string `json:"first_name" binding:"required"`
	LastName  string `json:"last_name"`
	Email     string `json:"email" binding:"required,email"`
	Password  string `json:"password" binding:"required,min=6"`
	Username  string `json:"username"`
	Phone     string `json:"phone"`
	Address   string `json:"address"`
	Age       *int   `json:"age"`
	Health    string `json:"health"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// Register creates a new customer account
func (h *Handler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to hash password"})
		return
	}

	email := strings.TrimSpace(req.Email)
	customer := models.Customer{
		FirstName:       req.FirstName,
		LastName:        req.LastName,
		Email:           &email,
		Phone:           req.Phone,
		Address:         req.Address,
		Username:        req.Username,
		PasswordHash:    string(hash),
		Age:             req.Age,
		HealthCondition: req.Health,
	}
	if err := h.catalog.CreateCustomer(c.Request.Context(), &customer); err != nil {
		respondError(c, err)
		return
	}

	token, err := h.tokens.GenerateToken(customer.ID, email)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate token"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message":  "Account created successfully",
		"token":    token,
		"customer": customer,
	})
}

// Login authenticates a customer and returns a JWT
func (h *Handler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	customer, err := h.catalog.FindCustomerByEmail(c.Request.Context(), req.Email)
	var notFound *repository.NotFoundError
	if errors.As(err, &notFound) {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid email or password"})
		return
	}
	if err != nil {
		respondError(c, err)
		return
	}

	if customer.PasswordHash == "" ||
		bcrypt.CompareHashAndPassword([]byte(customer.PasswordHash), []byte(req.Password)) != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid email or password"})
		return
	}

	token, err := h.tokens.GenerateToken(customer.ID, req.Email)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate token"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":  "Login successful",
		"token":    token,
		"customer": customer,
	})
}

// GetProfile returns the authenticated customer's profile
func (h *Handler) GetProfile(c *gin.Context) {
	customer, err := h.catalog.GetCustomer(c.Request.Context(), middleware.GetCustomerID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"customer": customer})
}
