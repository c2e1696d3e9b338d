package repository

import (
	"context"
	"time"

	"smart-restaurant-api/models"

	"gorm.io/gorm"
)

func (s *CatalogStore) ListTables(ctx context.Context) ([]models.Table, error) {
	var tables []models.Table
	if err := s.db.WithContext(ctx).Order("id ASC").Find(&tables).Error; err != nil {
		return nil, &StoreError{Op: "list tables", Err: err}
	}
	return tables, nil
}

// ListAvailableTables returns tables not currently reserved, by table number.
func (s *CatalogStore) ListAvailableTables(ctx context.Context) ([]models.Table, error) {
	var tables []models.Table
	err := s.db.WithContext(ctx).
		Where("status = ?", models.TableAvailable).
		Order("number ASC").
		Find(&tables).Error
	if err != nil {
		return nil, &StoreError{Op: "list available tables", Err: err}
	}
	return tables, nil
}

func (s *CatalogStore) CreateTable(ctx context.Context, t *models.Table) error {
	if t.Number <= 0 {
		return invalid("table_number", "is required")
	}
	if t.Capacity <= 0 {
		return invalid("capacity", "must be positive")
	}
	t.Status = models.TableAvailable
	if err := s.db.WithContext(ctx).Create(t).Error; err != nil {
		return &StoreError{Op: "create table", Err: err}
	}
	return nil
}

// SetTableStatus is the manual override staff use to release a table.
func (s *CatalogStore) SetTableStatus(ctx context.Context, id uint, status models.TableStatus) (models.Table, error) {
	if !status.Valid() {
		return models.Table{}, invalid("status", "must be available or reserved")
	}
	var t models.Table
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&t, id).Error; err != nil {
			return err
		}
		t.Status = status
		return tx.Model(&t).Update("status", status).Error
	})
	return t, storeErr("set table status", "table", id, err)
}

// NewReservation is the input to CreateReservation.
type NewReservation struct {
	CustomerID uint
	TableID    uint
	ReservedAt time.Time
	Notes      string
}

// CreateReservation books the table and marks it reserved in one transaction.
func (s *CatalogStore) CreateReservation(ctx context.Context, in NewReservation) (models.Reservation, error) {
	if in.CustomerID == 0 {
		return models.Reservation{}, invalid("customer_id", "is required")
	}
	if in.TableID == 0 {
		return models.Reservation{}, invalid("table_id", "is required")
	}
	if in.ReservedAt.IsZero() {
		return models.Reservation{}, invalid("reservation_datetime", "is required")
	}
	res := models.Reservation{
		CustomerID: in.CustomerID,
		TableID:    in.TableID,
		ReservedAt: in.ReservedAt,
		Notes:      in.Notes,
	}
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var table models.Table
		if err := tx.First(&table, in.TableID).Error; err != nil {
			return err
		}
		if err := tx.Create(&res).Error; err != nil {
			return err
		}
		return tx.Model(&table).Update("status", models.TableReserved).Error
	})
	return res, storeErr("create reservation", "table", in.TableID, err)
}
