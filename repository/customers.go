package repository

import (
	"context"
	"strings"

	"smart-restaurant-api/models"

	"gorm.io/gorm"
)

// CustomerPatch is a sparse profile update.
type CustomerPatch struct {
	FirstName       models.Optional[string]
	LastName        models.Optional[string]
	Email           models.Optional[string]
	Phone           models.Optional[string]
	Address         models.Optional[string]
	Username        models.Optional[string]
	Age             models.Optional[*int]
	HealthCondition models.Optional[string]
	ProfileImageURL models.Optional[string]
}

func (p CustomerPatch) values() map[string]any {
	v := map[string]any{}
	if p.FirstName.Set {
		v["first_name"] = p.FirstName.Value
	}
	if p.LastName.Set {
		v["last_name"] = p.LastName.Value
	}
	if p.Email.Set {
		v["email"] = nullableEmail(p.Email.Value)
	}
	if p.Phone.Set {
		v["phone"] = p.Phone.Value
	}
	if p.Address.Set {
		v["address"] = p.Address.Value
	}
	if p.Username.Set {
		v["username"] = p.Username.Value
	}
	if p.Age.Set {
		v["age"] = p.Age.Value
	}
	if p.HealthCondition.Set {
		v["health_condition"] = p.HealthCondition.Value
	}
	if p.ProfileImageURL.Set {
		v["profile_image_url"] = p.ProfileImageURL.Value
	}
	return v
}

func nullableEmail(email string) *string {
	email = strings.TrimSpace(email)
	if email == "" {
		return nil
	}
	return &email
}

// CatalogStore owns customers, meals, categories, tables and reservations.
type CatalogStore struct {
	db *gorm.DB
}

func NewCatalogStore(db *gorm.DB) *CatalogStore {
	return &CatalogStore{db: db}
}

// ── Customers ───────────────────────────────────────────────────────────────

func (s *CatalogStore) ListCustomers(ctx context.Context) ([]models.Customer, error) {
	var customers []models.Customer
	if err := s.db.WithContext(ctx).Order("id DESC").Find(&customers).Error; err != nil {
		return nil, &StoreError{Op: "list customers", Err: err}
	}
	return customers, nil
}

func (s *CatalogStore) GetCustomer(ctx context.Context, id uint) (models.Customer, error) {
	var c models.Customer
	err := s.db.WithContext(ctx).First(&c, id).Error
	return c, storeErr("get customer", "customer", id, err)
}

// FindCustomerByEmail returns NotFoundError when no customer has the email.
func (s *CatalogStore) FindCustomerByEmail(ctx context.Context, email string) (models.Customer, error) {
	var c models.Customer
	err := s.db.WithContext(ctx).Where("email = ?", strings.TrimSpace(email)).First(&c).Error
	return c, storeErr("find customer", "customer", 0, err)
}

// CreateCustomer inserts c. First name is required; a taken email is a validation error.
func (s *CatalogStore) CreateCustomer(ctx context.Context, c *models.Customer) error {
	if strings.TrimSpace(c.FirstName) == "" {
		return invalid("first_name", "is required")
	}
	if c.Email != nil {
		c.Email = nullableEmail(*c.Email)
	}
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if c.Email != nil {
			if err := emailFree(tx, *c.Email, 0); err != nil {
				return err
			}
		}
		return tx.Create(c).Error
	})
	return storeErr("create customer", "customer", 0, err)
}

// UpdateCustomer applies a profile patch and returns the stored customer.
func (s *CatalogStore) UpdateCustomer(ctx context.Context, id uint, patch CustomerPatch) (models.Customer, error) {
	values := patch.values()
	if len(values) == 0 {
		return models.Customer{}, invalid("", "no updatable fields provided")
	}
	if patch.FirstName.Set && strings.TrimSpace(patch.FirstName.Value) == "" {
		return models.Customer{}, invalid("first_name", "must not be empty")
	}
	var c models.Customer
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&c, id).Error; err != nil {
			return err
		}
		if email, ok := values["email"].(*string); ok && email != nil {
			if err := emailFree(tx, *email, id); err != nil {
				return err
			}
		}
		if err := tx.Model(&c).Updates(values).Error; err != nil {
			return err
		}
		return tx.First(&c, id).Error
	})
	return c, storeErr("update customer", "customer", id, err)
}

// DeleteCustomer removes the customer only. Their orders are left in place.
func (s *CatalogStore) DeleteCustomer(ctx context.Context, id uint) (int64, error) {
	res := s.db.WithContext(ctx).Delete(&models.Customer{}, id)
	if res.Error != nil {
		return 0, &StoreError{Op: "delete customer", Err: res.Error}
	}
	return res.RowsAffected, nil
}

func emailFree(tx *gorm.DB, email string, except uint) error {
	var n int64
	q := tx.Model(&models.Customer{}).Where("email = ?", email)
	if except != 0 {
		q = q.Where("id <> ?", except)
	}
	if err := q.Count(&n).Error; err != nil {
		return err
	}
	if n > 0 {
		return invalid("email", "already registered")
	}
	return nil
}
