package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"smart-restaurant-api/models"
	"smart-restaurant-api/statemachine"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/glebarez/sqlite"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:                                   logger.Default.LogMode(logger.Silent),
		DisableForeignKeyConstraintWhenMigrating: true,
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, db.AutoMigrate(
		&models.Customer{}, &models.Category{}, &models.Meal{},
		&models.Order{}, &models.Table{}, &models.Reservation{},
	))
	return db
}

type fixture struct {
	customer models.Customer
	meal     models.Meal
}

func seed(t *testing.T, db *gorm.DB) fixture {
	t.Helper()
	f := fixture{
		customer: models.Customer{FirstName: "Omar", LastName: "Zaid", Phone: "0790000000", Address: "Amman"},
		meal:     models.Meal{Name: "Mansaf", Price: decimal.NewFromInt(500)},
	}
	require.NoError(t, db.Create(&f.customer).Error)
	require.NoError(t, db.Create(&f.meal).Error)
	return f
}

type countingRecorder struct {
	created []models.OrderStatus
	changes [][2]models.OrderStatus
	deleted int
}

func (r *countingRecorder) OrderCreated(s models.OrderStatus) { r.created = append(r.created, s) }
func (r *countingRecorder) StatusChanged(from, to models.OrderStatus) {
	r.changes = append(r.changes, [2]models.OrderStatus{from, to})
}
func (r *countingRecorder) OrderDeleted() { r.deleted++ }

func price(v int64) decimal.NullDecimal { return models.NullPrice(decimal.NewFromInt(v)) }

func TestOrderRepository_CreateDefaultsAndEnrichment(t *testing.T) {
	db := openTestDB(t)
	f := seed(t, db)
	at := time.Date(2025, 3, 14, 9, 30, 0, 0, time.UTC)
	rec := &countingRecorder{}
	repo := NewOrderRepository(db, WithClock(func() time.Time { return at }), WithRecorder(rec))

	o, err := repo.Create(context.Background(), models.NewOrder{CustomerID: f.customer.ID, MealID: f.meal.ID, Price: price(500)})
	require.NoError(t, err)

	assert.Equal(t, 1, o.Quantity)
	assert.Equal(t, models.StatusPending, o.Status)
	assert.Equal(t, 1, o.Revision)
	assert.True(t, o.CreatedAt.Equal(at))
	assert.Equal(t, "Omar Zaid", o.CustomerName)
	assert.Equal(t, "0790000000", o.CustomerPhone)
	assert.Equal(t, "Mansaf", o.MealName)
	assert.True(t, o.Total.Decimal.Equal(decimal.NewFromInt(500)))
	assert.Equal(t, []models.OrderStatus{models.StatusPending}, rec.created)
}

func TestOrderRepository_CreateValidation(t *testing.T) {
	db := openTestDB(t)
	f := seed(t, db)
	repo := NewOrderRepository(db)

	cases := map[string]models.NewOrder{
		"no customer":      {MealID: f.meal.ID},
		"no meal":          {CustomerID: f.customer.ID},
		"unknown customer": {CustomerID: 42, MealID: f.meal.ID},
		"unknown meal":     {CustomerID: f.customer.ID, MealID: 42},
		"bad status":       {CustomerID: f.customer.ID, MealID: f.meal.ID, Status: "PLACED"},
		"negative price":   {CustomerID: f.customer.ID, MealID: f.meal.ID, Price: price(-1)},
	}
	for name, in := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := repo.Create(context.Background(), in)
			var ve *ValidationError
			assert.ErrorAs(t, err, &ve)
		})
	}

	var n int64
	require.NoError(t, db.Model(&models.Order{}).Count(&n).Error)
	assert.Zero(t, n)
}

func TestOrderRepository_UpdateRecomputesTotal(t *testing.T) {
	db := openTestDB(t)
	f := seed(t, db)
	repo := NewOrderRepository(db)
	ctx := context.Background()

	o, err := repo.Create(ctx, models.NewOrder{CustomerID: f.customer.ID, MealID: f.meal.ID, Quantity: 3, Price: price(500)})
	require.NoError(t, err)
	require.Equal(t, "1500", o.Total.Decimal.String())

	o, err = repo.Update(ctx, o.ID, models.OrderPatch{Quantity: models.SetTo(5)})
	require.NoError(t, err)
	assert.Equal(t, "2500", o.Total.Decimal.String())
	assert.Equal(t, 2, o.Revision)

	o, err = repo.Update(ctx, o.ID, models.OrderPatch{Status: models.SetTo(models.StatusOnWay)})
	require.NoError(t, err)
	assert.Equal(t, "2500", o.Total.Decimal.String())
	assert.Equal(t, 5, o.Quantity)

	o, err = repo.Update(ctx, o.ID, models.OrderPatch{Price: models.SetTo(decimal.NullDecimal{})})
	require.NoError(t, err)
	assert.False(t, o.Total.Valid)
	assert.Equal(t, models.StatusOnWay, o.Status)
}

func TestOrderRepository_UpdateErrors(t *testing.T) {
	db := openTestDB(t)
	f := seed(t, db)
	repo := NewOrderRepository(db)
	ctx := context.Background()
	o, err := repo.Create(ctx, models.NewOrder{CustomerID: f.customer.ID, MealID: f.meal.ID})
	require.NoError(t, err)

	_, err = repo.Update(ctx, o.ID, models.OrderPatch{})
	var ve *ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "no updatable fields provided", ve.Error())

	_, err = repo.Update(ctx, 999, models.OrderPatch{Quantity: models.SetTo(2)})
	var nf *NotFoundError
	assert.ErrorAs(t, err, &nf)

	_, err = repo.Update(ctx, o.ID, models.OrderPatch{MealID: models.SetTo(uint(999))})
	assert.ErrorAs(t, err, &ve)

	_, err = repo.Update(ctx, o.ID, models.OrderPatch{Quantity: models.SetTo(0)})
	assert.ErrorAs(t, err, &ve)

	got, err := repo.Get(ctx, o.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, got.Revision)
}

func TestOrderRepository_ExpectedRevision(t *testing.T) {
	db := openTestDB(t)
	f := seed(t, db)
	repo := NewOrderRepository(db)
	ctx := context.Background()
	o, err := repo.Create(ctx, models.NewOrder{CustomerID: f.customer.ID, MealID: f.meal.ID})
	require.NoError(t, err)

	o, err = repo.Update(ctx, o.ID, models.OrderPatch{Status: models.SetTo(models.StatusPreparing), ExpectedRevision: models.SetTo(1)})
	require.NoError(t, err)
	assert.Equal(t, 2, o.Revision)

	_, err = repo.Update(ctx, o.ID, models.OrderPatch{Status: models.SetTo(models.StatusCanceled), ExpectedRevision: models.SetTo(1)})
	var ce *ConflictError
	require.ErrorAs(t, err, &ce)
	assert.Equal(t, 2, ce.Actual)
	assert.Equal(t, 1, ce.Expected)

	got, err := repo.Get(ctx, o.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusPreparing, got.Status)
}

func TestOrderRepository_Policies(t *testing.T) {
	db := openTestDB(t)
	f := seed(t, db)
	ctx := context.Background()
	rec := &countingRecorder{}

	permissive := NewOrderRepository(db, WithRecorder(rec))
	o, err := permissive.Create(ctx, models.NewOrder{CustomerID: f.customer.ID, MealID: f.meal.ID, Status: models.StatusDelivered})
	require.NoError(t, err)
	o, err = permissive.SetStatus(ctx, o.ID, models.StatusPending)
	require.NoError(t, err)
	assert.Equal(t, models.StatusPending, o.Status)
	assert.Equal(t, [][2]models.OrderStatus{{models.StatusDelivered, models.StatusPending}}, rec.changes)

	strict := NewOrderRepository(db, WithPolicy(statemachine.Strict{}))
	_, err = strict.SetStatus(ctx, o.ID, models.StatusDelivered)
	var ve *ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "status", ve.Field)

	o, err = strict.SetStatus(ctx, o.ID, models.StatusPreparing)
	require.NoError(t, err)
	assert.Equal(t, models.StatusPreparing, o.Status)
}

func TestOrderRepository_DeleteIsIdempotent(t *testing.T) {
	db := openTestDB(t)
	f := seed(t, db)
	rec := &countingRecorder{}
	repo := NewOrderRepository(db, WithRecorder(rec))
	ctx := context.Background()
	o, err := repo.Create(ctx, models.NewOrder{CustomerID: f.customer.ID, MealID: f.meal.ID})
	require.NoError(t, err)

	n, err := repo.Delete(ctx, o.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)

	n, err = repo.Delete(ctx, o.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 0, n)
	assert.Equal(t, 1, rec.deleted)

	_, err = repo.Get(ctx, o.ID)
	var nf *NotFoundError
	assert.ErrorAs(t, err, &nf)
}

func TestOrderRepository_ListNewestFirst(t *testing.T) {
	db := openTestDB(t)
	f := seed(t, db)
	other := models.Customer{FirstName: "Sara"}
	require.NoError(t, db.Create(&other).Error)

	clock := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	repo := NewOrderRepository(db, WithClock(func() time.Time {
		clock = clock.Add(time.Minute)
		return clock
	}))
	ctx := context.Background()
	for _, cid := range []uint{f.customer.ID, other.ID, f.customer.ID} {
		_, err := repo.Create(ctx, models.NewOrder{CustomerID: cid, MealID: f.meal.ID})
		require.NoError(t, err)
	}

	all, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, []uint{3, 2, 1}, []uint{all[0].ID, all[1].ID, all[2].ID})

	mine, err := repo.ListByCustomer(ctx, f.customer.ID)
	require.NoError(t, err)
	require.Len(t, mine, 2)
	assert.Equal(t, uint(3), mine[0].ID)

	// orders outlive the customer they reference
	require.NoError(t, db.Delete(&models.Customer{}, other.ID).Error)
	got, err := repo.Get(ctx, 2)
	require.NoError(t, err)
	assert.Empty(t, got.CustomerName)
	assert.Equal(t, "Mansaf", got.MealName)
}

func newMockRepo(t *testing.T) (*OrderRepository, sqlmock.Sqlmock) {
	t.Helper()
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })

	db, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{
		Logger:                 logger.Default.LogMode(logger.Silent),
		SkipDefaultTransaction: true,
	})
	require.NoError(t, err)
	return NewOrderRepository(db), mock
}

func TestOrderRepository_StoreFailures(t *testing.T) {
	repo, mock := newMockRepo(t)
	ctx := context.Background()
	boom := errors.New("connection reset")

	mock.ExpectQuery(`SELECT \* FROM "orders"`).WillReturnError(boom)
	_, err := repo.List(ctx)
	var se *StoreError
	require.ErrorAs(t, err, &se)
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, "list orders", se.Op)

	mock.ExpectExec(`DELETE FROM "orders"`).WillReturnError(boom)
	_, err = repo.Delete(ctx, 1)
	assert.ErrorAs(t, err, &se)

	mock.ExpectQuery(`SELECT \* FROM "orders"`).WillReturnRows(sqlmock.NewRows([]string{"id"}))
	_, err = repo.Get(ctx, 7)
	var nf *NotFoundError
	require.ErrorAs(t, err, &nf)
	assert.Equal(t, uint(7), nf.ID)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestOrderRepository_TransactionalStoreFailures(t *testing.T) {
	repo, mock := newMockRepo(t)
	ctx := context.Background()
	boom := errors.New("connection reset")

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT count\(\*\) FROM "customers"`).WillReturnError(boom)
	mock.ExpectRollback()
	_, err := repo.Create(ctx, models.NewOrder{CustomerID: 1, MealID: 2})
	var se *StoreError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, "create order", se.Op)
	assert.ErrorIs(t, err, boom)

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT \* FROM "orders"`).WillReturnError(boom)
	mock.ExpectRollback()
	_, err = repo.Update(ctx, 1, models.OrderPatch{Status: models.SetTo(models.StatusOnWay)})
	require.ErrorAs(t, err, &se)
	assert.Equal(t, "update order", se.Op)
	assert.ErrorIs(t, err, boom)

	mock.ExpectBegin().WillReturnError(boom)
	_, err = repo.Update(ctx, 1, models.OrderPatch{Quantity: models.SetTo(2)})
	assert.ErrorAs(t, err, &se)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestOrderRepository_PricesKeepTwoPlaces(t *testing.T) {
	db := openTestDB(t)
	f := seed(t, db)
	repo := NewOrderRepository(db)
	ctx := context.Background()

	o, err := repo.Create(ctx, models.NewOrder{
		CustomerID: f.customer.ID,
		MealID:     f.meal.ID,
		Quantity:   2,
		Price:      models.NullPrice(decimal.RequireFromString("1.005")),
	})
	require.NoError(t, err)
	assert.Equal(t, "1.01", o.Price.Decimal.String())
	assert.Equal(t, "2.02", o.Total.Decimal.String())

	o, err = repo.Update(ctx, o.ID, models.OrderPatch{Price: models.SetTo(models.NullPrice(decimal.RequireFromString("0.125")))})
	require.NoError(t, err)
	assert.Equal(t, "0.13", o.Price.Decimal.String())
	assert.Equal(t, "0.26", o.Total.Decimal.String())

	s := NewCatalogStore(db)
	m := models.Meal{Name: "Soup", Price: decimal.RequireFromString("3.255")}
	require.NoError(t, s.CreateMeal(ctx, &m))
	got, err := s.GetMeal(ctx, m.ID)
	require.NoError(t, err)
	assert.Equal(t, "3.26", got.Price.String())
}
