package repository

import (
	"context"
	"testing"
	"time"

	"smart-restaurant-api/models"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCatalogStore_CustomerEmailUnique(t *testing.T) {
	s := NewCatalogStore(openTestDB(t))
	ctx := context.Background()

	email := " lina@example.com "
	a := models.Customer{FirstName: "Lina", Email: &email}
	require.NoError(t, s.CreateCustomer(ctx, &a))
	assert.Equal(t, "lina@example.com", *a.Email)

	dup := "lina@example.com"
	err := s.CreateCustomer(ctx, &models.Customer{FirstName: "Other", Email: &dup})
	var ve *ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "email", ve.Field)

	// customers without an email never collide
	require.NoError(t, s.CreateCustomer(ctx, &models.Customer{FirstName: "X"}))
	require.NoError(t, s.CreateCustomer(ctx, &models.Customer{FirstName: "Y"}))

	found, err := s.FindCustomerByEmail(ctx, "lina@example.com")
	require.NoError(t, err)
	assert.Equal(t, a.ID, found.ID)

	err = s.CreateCustomer(ctx, &models.Customer{})
	assert.ErrorAs(t, err, &ve)
}

func TestCatalogStore_UpdateCustomer(t *testing.T) {
	s := NewCatalogStore(openTestDB(t))
	ctx := context.Background()
	c := models.Customer{FirstName: "Lina", Phone: "1"}
	require.NoError(t, s.CreateCustomer(ctx, &c))

	age := 41
	got, err := s.UpdateCustomer(ctx, c.ID, CustomerPatch{
		Address: models.SetTo("Aqaba"),
		Age:     models.SetTo(&age),
	})
	require.NoError(t, err)
	assert.Equal(t, "Aqaba", got.Address)
	assert.Equal(t, "1", got.Phone)
	require.NotNil(t, got.Age)
	assert.Equal(t, 41, *got.Age)

	_, err = s.UpdateCustomer(ctx, c.ID, CustomerPatch{})
	var ve *ValidationError
	assert.ErrorAs(t, err, &ve)

	_, err = s.UpdateCustomer(ctx, c.ID, CustomerPatch{FirstName: models.SetTo("  ")})
	assert.ErrorAs(t, err, &ve)

	_, err = s.UpdateCustomer(ctx, 404, CustomerPatch{Phone: models.SetTo("2")})
	var nf *NotFoundError
	assert.ErrorAs(t, err, &nf)

	n, err := s.DeleteCustomer(ctx, c.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)
	_, err = s.GetCustomer(ctx, c.ID)
	assert.ErrorAs(t, err, &nf)
}

func TestCatalogStore_Meals(t *testing.T) {
	s := NewCatalogStore(openTestDB(t))
	ctx := context.Background()

	cat := models.Category{Name: "Desserts"}
	require.NoError(t, s.CreateCategory(ctx, &cat))
	var ve *ValidationError
	assert.ErrorAs(t, s.CreateCategory(ctx, &models.Category{Name: "Desserts"}), &ve)

	missing := uint(99)
	assert.ErrorAs(t, s.CreateMeal(ctx, &models.Meal{Name: "Cake", Price: decimal.NewFromInt(3), CategoryID: &missing}), &ve)
	assert.ErrorAs(t, s.CreateMeal(ctx, &models.Meal{Name: "Cake", Price: decimal.NewFromInt(-3)}), &ve)

	m := models.Meal{Name: "Cake", Price: decimal.RequireFromString("3.25"), CategoryID: &cat.ID}
	require.NoError(t, s.CreateMeal(ctx, &m))

	got, err := s.GetMeal(ctx, m.ID)
	require.NoError(t, err)
	assert.Equal(t, "Desserts", got.CategoryName)
	assert.True(t, got.Price.Equal(decimal.RequireFromString("3.25")))

	got, err = s.UpdateMeal(ctx, m.ID, MealPatch{Price: models.SetTo(decimal.NewFromInt(4)), CategoryID: models.SetTo[*uint](nil)})
	require.NoError(t, err)
	assert.True(t, got.Price.Equal(decimal.NewFromInt(4)))
	assert.Nil(t, got.CategoryID)
	assert.Equal(t, "Cake", got.Name)

	_, err = s.UpdateMeal(ctx, 404, MealPatch{Name: models.SetTo("x")})
	var nf *NotFoundError
	assert.ErrorAs(t, err, &nf)
}

func TestCatalogStore_ReservationsReserveTables(t *testing.T) {
	s := NewCatalogStore(openTestDB(t))
	ctx := context.Background()

	t1 := models.Table{Number: 2, Capacity: 4}
	t2 := models.Table{Number: 1, Capacity: 2}
	require.NoError(t, s.CreateTable(ctx, &t1))
	require.NoError(t, s.CreateTable(ctx, &t2))

	free, err := s.ListAvailableTables(ctx)
	require.NoError(t, err)
	require.Len(t, free, 2)
	assert.Equal(t, 1, free[0].Number)

	at := time.Date(2025, 5, 1, 20, 0, 0, 0, time.UTC)
	_, err = s.CreateReservation(ctx, NewReservation{CustomerID: 1, TableID: t1.ID, ReservedAt: at})
	require.NoError(t, err)

	free, err = s.ListAvailableTables(ctx)
	require.NoError(t, err)
	require.Len(t, free, 1)
	assert.Equal(t, t2.ID, free[0].ID)

	_, err = s.CreateReservation(ctx, NewReservation{CustomerID: 1, TableID: 404, ReservedAt: at})
	var nf *NotFoundError
	assert.ErrorAs(t, err, &nf)

	_, err = s.SetTableStatus(ctx, t1.ID, "broken")
	var ve *ValidationError
	assert.ErrorAs(t, err, &ve)

	tbl, err := s.SetTableStatus(ctx, t1.ID, models.TableAvailable)
	require.NoError(t, err)
	assert.Equal(t, models.TableAvailable, tbl.Status)

	all, err := s.ListTables(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 2)
}
