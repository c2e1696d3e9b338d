package repository

import (
	"context"
	"strings"

	"smart-restaurant-api/models"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// MealPatch is a sparse meal update. Image is only replaced when a new one is uploaded.
type MealPatch struct {
	Name        models.Optional[string]
	Description models.Optional[string]
	Price       models.Optional[decimal.Decimal]
	CategoryID  models.Optional[*uint]
	MealTime    models.Optional[string]
	ImageURL    models.Optional[string]
}

func (s *CatalogStore) ListMeals(ctx context.Context) ([]models.Meal, error) {
	var meals []models.Meal
	if err := s.db.WithContext(ctx).Preload("Category").Order("id DESC").Find(&meals).Error; err != nil {
		return nil, &StoreError{Op: "list meals", Err: err}
	}
	for i := range meals {
		fillCategoryName(&meals[i])
	}
	return meals, nil
}

func (s *CatalogStore) GetMeal(ctx context.Context, id uint) (models.Meal, error) {
	var m models.Meal
	if err := s.db.WithContext(ctx).Preload("Category").First(&m, id).Error; err != nil {
		return m, storeErr("get meal", "meal", id, err)
	}
	fillCategoryName(&m)
	return m, nil
}

func (s *CatalogStore) CreateMeal(ctx context.Context, m *models.Meal) error {
	if strings.TrimSpace(m.Name) == "" {
		return invalid("name", "is required")
	}
	if m.Price.IsNegative() {
		return invalid("price", "must not be negative")
	}
	m.Price = models.RoundPrice(m.Price)
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := categoryExists(tx, m.CategoryID); err != nil {
			return err
		}
		return tx.Omit("Category").Create(m).Error
	})
	if err != nil {
		return storeErr("create meal", "meal", 0, err)
	}
	return nil
}

func (s *CatalogStore) UpdateMeal(ctx context.Context, id uint, patch MealPatch) (models.Meal, error) {
	values := map[string]any{}
	if patch.Name.Set {
		if strings.TrimSpace(patch.Name.Value) == "" {
			return models.Meal{}, invalid("name", "must not be empty")
		}
		values["name"] = patch.Name.Value
	}
	if patch.Description.Set {
		values["description"] = patch.Description.Value
	}
	if patch.Price.Set {
		if patch.Price.Value.IsNegative() {
			return models.Meal{}, invalid("price", "must not be negative")
		}
		values["price"] = models.RoundPrice(patch.Price.Value)
	}
	if patch.CategoryID.Set {
		values["category_id"] = patch.CategoryID.Value
	}
	if patch.MealTime.Set {
		values["meal_time"] = patch.MealTime.Value
	}
	if patch.ImageURL.Set {
		values["image_url"] = patch.ImageURL.Value
	}
	if len(values) == 0 {
		return models.Meal{}, invalid("", "no updatable fields provided")
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var current models.Meal
		if err := tx.First(&current, id).Error; err != nil {
			return err
		}
		if patch.CategoryID.Set {
			if err := categoryExists(tx, patch.CategoryID.Value); err != nil {
				return err
			}
		}
		return tx.Model(&current).Updates(values).Error
	})
	if err != nil {
		return models.Meal{}, storeErr("update meal", "meal", id, err)
	}
	return s.GetMeal(ctx, id)
}

// DeleteMeal removes the meal. Orders that reference it keep their id and
// read back with an empty meal name.
func (s *CatalogStore) DeleteMeal(ctx context.Context, id uint) (int64, error) {
	res := s.db.WithContext(ctx).Delete(&models.Meal{}, id)
	if res.Error != nil {
		return 0, &StoreError{Op: "delete meal", Err: res.Error}
	}
	return res.RowsAffected, nil
}

// ── Categories ──────────────────────────────────────────────────────────────

func (s *CatalogStore) ListCategories(ctx context.Context) ([]models.Category, error) {
	var cats []models.Category
	if err := s.db.WithContext(ctx).Order("name ASC").Find(&cats).Error; err != nil {
		return nil, &StoreError{Op: "list categories", Err: err}
	}
	return cats, nil
}

func (s *CatalogStore) CreateCategory(ctx context.Context, c *models.Category) error {
	c.Name = strings.TrimSpace(c.Name)
	if c.Name == "" {
		return invalid("category_name", "is required")
	}
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var n int64
		if err := tx.Model(&models.Category{}).Where("name = ?", c.Name).Count(&n).Error; err != nil {
			return err
		}
		if n > 0 {
			return invalid("category_name", "already exists")
		}
		return tx.Create(c).Error
	})
	return storeErr("create category", "category", 0, err)
}

func categoryExists(tx *gorm.DB, id *uint) error {
	if id == nil {
		return nil
	}
	var n int64
	if err := tx.Model(&models.Category{}).Where("id = ?", *id).Count(&n).Error; err != nil {
		return err
	}
	if n == 0 {
		return invalid("category_id", "unknown category")
	}
	return nil
}

func fillCategoryName(m *models.Meal) {
	if m.Category != nil {
		m.CategoryName = m.Category.Name
	}
}
