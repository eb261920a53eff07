package services

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/ukydev/car-maintenance-tracker/internal/costs"
	"github.com/ukydev/car-maintenance-tracker/internal/db"
	"github.com/ukydev/car-maintenance-tracker/internal/metrics"
	"github.com/ukydev/car-maintenance-tracker/internal/models"
	"github.com/ukydev/car-maintenance-tracker/internal/validation"
)

// MaintenanceService applies the maintenance business rules on top of a
// MaintenanceCollection.
type MaintenanceService struct {
	records db.MaintenanceCollection
	metrics *metrics.Metrics
	log     *logrus.Entry
}

// NewMaintenanceService wires the service. m may be nil.
func NewMaintenanceService(records db.MaintenanceCollection, m *metrics.Metrics, log *logrus.Entry) *MaintenanceService {
	return &MaintenanceService{
		records: records,
		metrics: m,
		log:     log.WithField("service", metrics.EntityMaintenance),
	}
}

// Calculate previews the cost of a maintenance operation. Nothing is stored.
func (s *MaintenanceService) Calculate(req costs.Request) costs.Result {
	return costs.Calculate(req)
}

// Save validates the record, recomputes its total and stores it. When
// validation fails a *validation.Error is returned and nothing is stored.
func (s *MaintenanceService) Save(ctx context.Context, record models.Maintenance) (models.Maintenance, error) {
	if err := validation.ValidateMaintenance(record); err != nil {
		s.metrics.ValidationFailed(metrics.EntityMaintenance)
		s.log.WithError(err).WithField("car_id", record.CarID).Warn("Rejected maintenance record")
		return models.Maintenance{}, err
	}

	record.RecalculateTotal()
	if record.CreatedAt.IsZero() {
		record.CreatedAt = models.Now()
	}

	saved, err := s.records.InsertMaintenance(ctx, record)
	if err != nil {
		return models.Maintenance{}, fmt.Errorf("failed to insert maintenance: %w", err)
	}

	s.metrics.RecordSaved(metrics.EntityMaintenance)
	s.log.WithFields(logrus.Fields{
		"maintenance_id": saved.ID,
		"car_id":         saved.CarID,
		"total_cost":     saved.TotalCost.String(),
	}).Info("Saved maintenance record")
	return saved, nil
}

// Update replaces an existing record, recomputing its total. Save rules are
// not applied here. A zero createdAt keeps the stored one.
func (s *MaintenanceService) Update(ctx context.Context, id int64, record models.Maintenance) (models.Maintenance, error) {
	record.RecalculateTotal()
	if record.CreatedAt.IsZero() {
		if existing, err := s.records.FindMaintenanceByID(ctx, id); err == nil {
			record.CreatedAt = existing.CreatedAt
		}
	}
	updated, err := s.records.UpdateMaintenance(ctx, id, record)
	if err != nil {
		return models.Maintenance{}, err
	}
	s.log.WithField("maintenance_id", id).Info("Updated maintenance record")
	return updated, nil
}

// List returns every record, newest date first.
func (s *MaintenanceService) List(ctx context.Context) ([]models.Maintenance, error) {
	return s.records.FindMaintenance(ctx)
}

// ListByCar returns one car's records, newest date first.
func (s *MaintenanceService) ListByCar(ctx context.Context, carID int64) ([]models.Maintenance, error) {
	return s.records.FindMaintenanceByCarID(ctx, carID)
}

// Get returns one record or db.ErrNotFound.
func (s *MaintenanceService) Get(ctx context.Context, id int64) (models.Maintenance, error) {
	return s.records.FindMaintenanceByID(ctx, id)
}

// Delete removes a record; unknown ids are ignored.
func (s *MaintenanceService) Delete(ctx context.Context, id int64) error {
	return s.records.DeleteMaintenance(ctx, id)
}
