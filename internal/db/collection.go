package db

import (
	"context"
	"errors"

	"github.com/ukydev/car-maintenance-tracker/internal/models"
)

// ErrNotFound is returned when no record has the requested identifier.
var ErrNotFound = errors.New("record not found")

// CarCollection defines the interface for car data operations.
type CarCollection interface {
	InsertCar(ctx context.Context, car models.Car) (models.Car, error)
	FindCars(ctx context.Context) ([]models.Car, error)
	FindCarByID(ctx context.Context, id int64) (models.Car, error)
	UpdateCar(ctx context.Context, id int64, car models.Car) (models.Car, error)
	DeleteCar(ctx context.Context, id int64) error
}

// MaintenanceCollection defines the interface for maintenance data operations.
type MaintenanceCollection interface {
	InsertMaintenance(ctx context.Context, record models.Maintenance) (models.Maintenance, error)
	FindMaintenance(ctx context.Context) ([]models.Maintenance, error)
	FindMaintenanceByCarID(ctx context.Context, carID int64) ([]models.Maintenance, error)
	FindMaintenanceByID(ctx context.Context, id int64) (models.Maintenance, error)
	UpdateMaintenance(ctx context.Context, id int64, record models.Maintenance) (models.Maintenance, error)
	DeleteMaintenance(ctx context.Context, id int64) error
}
