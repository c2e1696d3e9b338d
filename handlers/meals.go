package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"smart-restaurant-api/models"
	"smart-restaurant-api/repository"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

// ListMeals returns the menu with category names, newest first
func (h *Handler) ListMeals(c *gin.Context) {
	meals, err := h.catalog.ListMeals(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, meals)
}

func (h *Handler) GetMeal(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	meal, err := h.catalog.GetMeal(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, meal)
}

// CreateMeal reads a multipart form: name, description, price, category_id,
// meal_time and an optional image.
func (h *Handler) CreateMeal(c *gin.Context) {
	name := strings.TrimSpace(c.PostForm("name"))
	rawPrice := strings.TrimSpace(c.PostForm("price"))
	if name == "" || rawPrice == "" {
		badRequest(c, "name and price are required")
		return
	}
	price, err := decimal.NewFromString(rawPrice)
	if err != nil {
		badRequest(c, "price must be a number")
		return
	}
	categoryID, err := formCategory(c.PostForm("category_id"))
	if err != nil {
		respondError(c, err)
		return
	}

	meal := models.Meal{
		Name:        name,
		Description: c.PostForm("description"),
		Price:       price,
		CategoryID:  categoryID,
		MealTime:    c.PostForm("meal_time"),
	}
	img, err := h.saveUpload(c, "image", "meals")
	if err != nil {
		respondError(c, err)
		return
	}
	if img != nil {
		meal.ImageURL = img.url
	}

	if err := h.catalog.CreateMeal(c.Request.Context(), &meal); err != nil {
		h.discard(c.Request.Context(), img)
		respondError(c, err)
		return
	}
	created, err := h.catalog.GetMeal(c.Request.Context(), meal.ID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, created)
}

// UpdateMeal changes only the form fields that were sent. The image is kept
// unless a new one is uploaded, in which case the old file is removed.
func (h *Handler) UpdateMeal(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var patch repository.MealPatch
	if v, ok := c.GetPostForm("name"); ok {
		patch.Name = models.SetTo(strings.TrimSpace(v))
	}
	if v, ok := c.GetPostForm("description"); ok {
		patch.Description = models.SetTo(v)
	}
	if v, ok := c.GetPostForm("price"); ok {
		price, err := decimal.NewFromString(strings.TrimSpace(v))
		if err != nil {
			badRequest(c, "price must be a number")
			return
		}
		patch.Price = models.SetTo(price)
	}
	if v, ok := c.GetPostForm("category_id"); ok {
		categoryID, err := formCategory(v)
		if err != nil {
			respondError(c, err)
			return
		}
		patch.CategoryID = models.SetTo(categoryID)
	}
	if v, ok := c.GetPostForm("meal_time"); ok {
		patch.MealTime = models.SetTo(v)
	}

	ctx := c.Request.Context()
	img, err := h.saveUpload(c, "image", "meals")
	if err != nil {
		respondError(c, err)
		return
	}
	var previous string
	if img != nil {
		current, err := h.catalog.GetMeal(ctx, id)
		if err != nil {
			h.discard(ctx, img)
			respondError(c, err)
			return
		}
		previous = current.ImageURL
		patch.ImageURL = models.SetTo(img.url)
	}

	meal, err := h.catalog.UpdateMeal(ctx, id, patch)
	if err != nil {
		h.discard(ctx, img)
		respondError(c, err)
		return
	}
	if img != nil && previous != "" && previous != img.url {
		h.release(ctx, previous)
	}
	c.JSON(http.StatusOK, meal)
}

func (h *Handler) DeleteMeal(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	ctx := c.Request.Context()
	current, err := h.catalog.GetMeal(ctx, id)
	var notFound *repository.NotFoundError
	if err != nil && !errors.As(err, &notFound) {
		respondError(c, err)
		return
	}
	n, err := h.catalog.DeleteMeal(ctx, id)
	if err != nil {
		respondError(c, err)
		return
	}
	if n > 0 && current.ImageURL != "" {
		h.release(ctx, current.ImageURL)
	}
	c.Status(http.StatusNoContent)
}

// formCategory reads an optional category id. Blank means no category.
func formCategory(raw string) (*uint, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || id == 0 {
		return nil, &repository.ValidationError{Field: "category_id", Reason: "must be a positive number"}
	}
	v := uint(id)
	return &v, nil
}

type CreateCategoryRequest struct {
	Name string `json:"category_name" binding:"required"`
}

func (h *Handler) ListCategories(c *gin.Context) {
	cats, err := h.catalog.ListCategories(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, cats)
}

func (h *Handler) CreateCategory(c *gin.Context) {
	var req CreateCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}
	cat := models.Category{Name: req.Name}
	if err := h.catalog.CreateCategory(c.Request.Context(), &cat); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, cat)
}
