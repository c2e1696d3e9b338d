package repository

import (
	"context"
	"time"

	"smart-restaurant-api/models"
	"smart-restaurant-api/statemachine"

	"gorm.io/gorm"
)

// Orders is the order store used by the HTTP layer and the projections.
type Orders interface {
	Create(ctx context.Context, in models.NewOrder) (models.EnrichedOrder, error)
	Update(ctx context.Context, id uint, patch models.OrderPatch) (models.EnrichedOrder, error)
	SetStatus(ctx context.Context, id uint, status models.OrderStatus) (models.EnrichedOrder, error)
	Delete(ctx context.Context, id uint) (int64, error)
	Get(ctx context.Context, id uint) (models.EnrichedOrder, error)
	List(ctx context.Context) ([]models.EnrichedOrder, error)
	ListByCustomer(ctx context.Context, customerID uint) ([]models.EnrichedOrder, error)
}

// Recorder observes order writes. *metrics.Metrics implements it.
type Recorder interface {
	OrderCreated(status models.OrderStatus)
	StatusChanged(from, to models.OrderStatus)
	OrderDeleted()
}

type nopRecorder struct{}

func (nopRecorder) OrderCreated(models.OrderStatus)                      {}
func (nopRecorder) StatusChanged(models.OrderStatus, models.OrderStatus) {}
func (nopRecorder) OrderDeleted()                                        {}

// OrderRepository persists orders with gorm. Concurrent updates without an
// expected revision are last-write-wins.
type OrderRepository struct {
	db       *gorm.DB
	policy   statemachine.Policy
	recorder Recorder
	now      func() time.Time
}

type OrderOption func(*OrderRepository)

// WithPolicy sets the status transition policy. Default is permissive.
func WithPolicy(p statemachine.Policy) OrderOption {
	return func(r *OrderRepository) { r.policy = p }
}

// WithRecorder attaches a write observer.
func WithRecorder(rec Recorder) OrderOption {
	return func(r *OrderRepository) { r.recorder = rec }
}

// WithClock overrides the creation timestamp source.
func WithClock(now func() time.Time) OrderOption {
	return func(r *OrderRepository) { r.now = now }
}

func NewOrderRepository(db *gorm.DB, opts ...OrderOption) *OrderRepository {
	r := &OrderRepository{
		db:       db,
		policy:   statemachine.Permissive{},
		recorder: nopRecorder{},
		now:      func() time.Time { return time.Now().UTC() },
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Create persists a new order and returns its enriched form.
func (r *OrderRepository) Create(ctx context.Context, in models.NewOrder) (models.EnrichedOrder, error) {
	if in.CustomerID == 0 {
		return models.EnrichedOrder{}, invalid("customer_id", "is required")
	}
	if in.MealID == 0 {
		return models.EnrichedOrder{}, invalid("meal_id", "is required")
	}
	quantity := in.Quantity
	if quantity <= 0 {
		quantity = 1
	}
	status := in.Status
	if status == "" {
		status = models.StatusPending
	}
	if !status.Valid() {
		return models.EnrichedOrder{}, invalid("status", "unknown status "+string(status))
	}
	if in.Price.Valid && in.Price.Decimal.IsNegative() {
		return models.EnrichedOrder{}, invalid("price", "must not be negative")
	}

	order := models.Order{
		CustomerID: in.CustomerID,
		MealID:     in.MealID,
		Quantity:   quantity,
		Price:      models.RoundNullPrice(in.Price),
		Status:     status,
		Revision:   1,
		CreatedAt:  r.now(),
	}
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := checkReferences(tx, &order.CustomerID, &order.MealID); err != nil {
			return err
		}
		return tx.Create(&order).Error
	})
	if err != nil {
		return models.EnrichedOrder{}, storeErr("create order", "order", 0, err)
	}
	r.recorder.OrderCreated(order.Status)
	return r.Get(ctx, order.ID)
}

// Update applies a sparse patch. The response is re-read from the store so
// the total reflects the merged record.
func (r *OrderRepository) Update(ctx context.Context, id uint, patch models.OrderPatch) (models.EnrichedOrder, error) {
	if patch.Empty() {
		return models.EnrichedOrder{}, invalid("", "no updatable fields provided")
	}
	if err := validatePatch(patch); err != nil {
		return models.EnrichedOrder{}, err
	}
	if patch.Price.Set {
		patch.Price.Value = models.RoundNullPrice(patch.Price.Value)
	}

	var previous models.OrderStatus
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var current models.Order
		if err := tx.First(&current, id).Error; err != nil {
			return err
		}
		if patch.ExpectedRevision.Set && patch.ExpectedRevision.Value != current.Revision {
			return &ConflictError{ID: id, Expected: patch.ExpectedRevision.Value, Actual: current.Revision}
		}
		previous = current.Status

		merged := patch.Apply(current)
		if patch.Status.Set {
			if err := r.policy.CanTransition(current.Status, merged.Status); err != nil {
				return invalid("status", err.Error())
			}
		}
		var customerID, mealID *uint
		if patch.CustomerID.Set {
			customerID = &merged.CustomerID
		}
		if patch.MealID.Set {
			mealID = &merged.MealID
		}
		if err := checkReferences(tx, customerID, mealID); err != nil {
			return err
		}

		values := map[string]any{"revision": gorm.Expr("revision + 1")}
		for _, col := range patch.Columns() {
			switch col {
			case "customer_id":
				values[col] = merged.CustomerID
			case "meal_id":
				values[col] = merged.MealID
			case "quantity":
				values[col] = merged.Quantity
			case "price":
				values[col] = merged.Price
			case "status":
				values[col] = merged.Status
			}
		}

		q := tx.Model(&models.Order{}).Where("id = ?", id)
		if patch.ExpectedRevision.Set {
			q = q.Where("revision = ?", current.Revision)
		}
		res := q.Updates(values)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			if patch.ExpectedRevision.Set {
				return &ConflictError{ID: id, Expected: current.Revision, Actual: current.Revision + 1}
			}
			return &NotFoundError{Entity: "order", ID: id}
		}
		return nil
	})
	if err != nil {
		return models.EnrichedOrder{}, storeErr("update order", "order", id, err)
	}
	if patch.Status.Set {
		r.recorder.StatusChanged(previous, patch.Status.Value)
	}
	return r.Get(ctx, id)
}

// SetStatus writes only the status field.
func (r *OrderRepository) SetStatus(ctx context.Context, id uint, status models.OrderStatus) (models.EnrichedOrder, error) {
	return r.Update(ctx, id, models.OrderPatch{Status: models.SetTo(status)})
}

// Delete removes the order. Deleting a missing id affects zero rows and is not an error.
func (r *OrderRepository) Delete(ctx context.Context, id uint) (int64, error) {
	res := r.db.WithContext(ctx).Delete(&models.Order{}, id)
	if res.Error != nil {
		return 0, &StoreError{Op: "delete order", Err: res.Error}
	}
	if res.RowsAffected > 0 {
		r.recorder.OrderDeleted()
	}
	return res.RowsAffected, nil
}

func (r *OrderRepository) Get(ctx context.Context, id uint) (models.EnrichedOrder, error) {
	var order models.Order
	if err := r.enriched(ctx).First(&order, id).Error; err != nil {
		return models.EnrichedOrder{}, storeErr("get order", "order", id, err)
	}
	return models.Enrich(order), nil
}

// List returns every order, newest first.
func (r *OrderRepository) List(ctx context.Context) ([]models.EnrichedOrder, error) {
	var orders []models.Order
	if err := r.enriched(ctx).Order("created_at DESC, id DESC").Find(&orders).Error; err != nil {
		return nil, &StoreError{Op: "list orders", Err: err}
	}
	return enrichAll(orders), nil
}

// ListByCustomer returns one customer's orders, newest first.
func (r *OrderRepository) ListByCustomer(ctx context.Context, customerID uint) ([]models.EnrichedOrder, error) {
	var orders []models.Order
	err := r.enriched(ctx).
		Where("customer_id = ?", customerID).
		Order("created_at DESC, id DESC").
		Find(&orders).Error
	if err != nil {
		return nil, &StoreError{Op: "list customer orders", Err: err}
	}
	return enrichAll(orders), nil
}

func (r *OrderRepository) enriched(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).Preload("Customer").Preload("Meal")
}

func enrichAll(orders []models.Order) []models.EnrichedOrder {
	out := make([]models.EnrichedOrder, 0, len(orders))
	for _, o := range orders {
		out = append(out, models.Enrich(o))
	}
	return out
}

func validatePatch(p models.OrderPatch) error {
	if p.CustomerID.Set && p.CustomerID.Value == 0 {
		return invalid("customer_id", "must be a positive number")
	}
	if p.MealID.Set && p.MealID.Value == 0 {
		return invalid("meal_id", "must be a positive number")
	}
	if p.Quantity.Set && p.Quantity.Value <= 0 {
		return invalid("quantity", "must be a positive integer")
	}
	if p.Price.Set && p.Price.Value.Valid && p.Price.Value.Decimal.IsNegative() {
		return invalid("price", "must not be negative")
	}
	if p.Status.Set && !p.Status.Value.Valid() {
		return invalid("status", "unknown status "+string(p.Status.Value))
	}
	return nil
}

// checkReferences verifies that the referenced customer and meal exist. Nil ids are skipped.
func checkReferences(tx *gorm.DB, customerID, mealID *uint) error {
	if customerID != nil {
		var n int64
		if err := tx.Model(&models.Customer{}).Where("id = ?", *customerID).Count(&n).Error; err != nil {
			return err
		}
		if n == 0 {
			return invalid("customer_id", "unknown customer")
		}
	}
	if mealID != nil {
		var n int64
		if err := tx.Model(&models.Meal{}).Where("id = ?", *mealID).Count(&n).Error; err != nil {
			return err
		}
		if n == 0 {
			return invalid("meal_id", "unknown meal")
		}
	}
	return nil
}
