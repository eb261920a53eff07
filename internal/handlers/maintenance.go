package handlers

import (
	"net/http"

	"github.com/sirupsen/logrus"
	"github.com/ukydev/car-maintenance-tracker/internal/costs"
	"github.com/ukydev/car-maintenance-tracker/internal/metrics"
	"github.com/ukydev/car-maintenance-tracker/internal/models"
	"github.com/ukydev/car-maintenance-tracker/internal/services"
	"github.com/ukydev/car-maintenance-tracker/internal/validation"
)

// MaintenanceHandler serves the maintenance endpoints
type MaintenanceHandler struct {
	service *services.MaintenanceService
	metrics *metrics.Metrics
	log     logrus.FieldLogger
}

// NewMaintenanceHandler creates a new maintenance handler
func NewMaintenanceHandler(service *services.MaintenanceService, m *metrics.Metrics, log logrus.FieldLogger) *MaintenanceHandler {
	return &MaintenanceHandler{service: service, metrics: m, log: log}
}

// Calculate previews the cost of a maintenance operation
func (h *MaintenanceHandler) Calculate(w http.ResponseWriter, r *http.Request) {
	var req costs.Request
	if err := decodeJSON(r, &req); err != nil {
		w.WriteHeader(http.StatusBadRequest)
		return
	}
	writeJSON(w, http.StatusOK, h.service.Calculate(req))
}

// Save validates and stores a maintenance record
func (h *MaintenanceHandler) Save(w http.ResponseWriter, r *http.Request) {
	var record models.Maintenance
	if err := decodeJSON(r, &record); err != nil {
		w.WriteHeader(http.StatusBadRequest)
		return
	}
	if err := validation.ValidateMaintenancePayload(record); err != nil {
		h.metrics.ValidationFailed(metrics.EntityMaintenance)
		writeError(w, r, h.log, err)
		return
	}

	saved, err := h.service.Save(r.Context(), record)
	if err != nil {
		writeError(w, r, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, saved)
}

// List returns every maintenance record, newest date first
func (h *MaintenanceHandler) List(w http.ResponseWriter, r *http.Request) {
	records, err := h.service.List(r.Context())
	if err != nil {
		writeError(w, r, h.log, err)
		return
	}
	writeRecords(w, records)
}

// ListByCar returns the records of one car
func (h *MaintenanceHandler) ListByCar(w http.ResponseWriter, r *http.Request) {
	carID, err := pathID(r, "carId")
	if err != nil {
		writeError(w, r, h.log, err)
		return
	}
	records, err := h.service.ListByCar(r.Context(), carID)
	if err != nil {
		writeError(w, r, h.log, err)
		return
	}
	writeRecords(w, records)
}

// Get returns one maintenance record
func (h *MaintenanceHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, h.log, err)
		return
	}
	record, err := h.service.Get(r.Context(), id)
	if err != nil {
		writeError(w, r, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, record)
}

// Update replaces a maintenance record
func (h *MaintenanceHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, h.log, err)
		return
	}
	var record models.Maintenance
	if err := decodeJSON(r, &record); err != nil {
		w.WriteHeader(http.StatusBadRequest)
		return
	}

	updated, err := h.service.Update(r.Context(), id, record)
	if err != nil {
		writeError(w, r, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

// Delete removes a maintenance record
func (h *MaintenanceHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, h.log, err)
		return
	}
	if err := h.service.Delete(r.Context(), id); err != nil {
		writeError(w, r, h.log, err)
		return
	}
	w.WriteHeader(http.StatusOK)
}

func writeRecords(w http.ResponseWriter, records []models.Maintenance) {
	if records == nil {
		records = []models.Maintenance{}
	}
	writeJSON(w, http.StatusOK, records)
}
