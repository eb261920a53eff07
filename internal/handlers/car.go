package handlers

import (
	"net/http"

	"github.com/sirupsen/logrus"
	"github.com/ukydev/car-maintenance-tracker/internal/db"
	"github.com/ukydev/car-maintenance-tracker/internal/metrics"
	"github.com/ukydev/car-maintenance-tracker/internal/models"
	"github.com/ukydev/car-maintenance-tracker/internal/validation"
)

// CarHandler serves the car endpoints
type CarHandler struct {
	cars    db.CarCollection
	metrics *metrics.Metrics
	log     logrus.FieldLogger
}

// NewCarHandler creates a new car handler
func NewCarHandler(cars db.CarCollection, m *metrics.Metrics, log logrus.FieldLogger) *CarHandler {
	return &CarHandler{cars: cars, metrics: m, log: log}
}

// List returns every car
func (h *CarHandler) List(w http.ResponseWriter, r *http.Request) {
	cars, err := h.cars.FindCars(r.Context())
	if err != nil {
		writeError(w, r, h.log, err)
		return
	}
	if cars == nil {
		cars = []models.Car{}
	}
	writeJSON(w, http.StatusOK, cars)
}

// Get returns one car
func (h *CarHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, h.log, err)
		return
	}
	car, err := h.cars.FindCarByID(r.Context(), id)
	if err != nil {
		writeError(w, r, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, car)
}

// Create stores a new car. A car without id gets the next free one.
func (h *CarHandler) Create(w http.ResponseWriter, r *http.Request) {
	car, ok := h.decodeCar(w, r)
	if !ok {
		return
	}
	if car.CreatedAt.IsZero() {
		car.CreatedAt = models.Now()
	}

	saved, err := h.cars.InsertCar(r.Context(), car)
	if err != nil {
		writeError(w, r, h.log, err)
		return
	}
	h.metrics.RecordSaved(metrics.EntityCar)
	h.log.WithFields(logrus.Fields{"car_id": saved.ID, "name": saved.Name()}).Info("Saved car")
	writeJSON(w, http.StatusOK, saved)
}

// Update replaces an existing car
func (h *CarHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, h.log, err)
		return
	}
	car, ok := h.decodeCar(w, r)
	if !ok {
		return
	}

	existing, err := h.cars.FindCarByID(r.Context(), id)
	if err != nil {
		writeError(w, r, h.log, err)
		return
	}
	if car.CreatedAt.IsZero() {
		car.CreatedAt = existing.CreatedAt
	}

	updated, err := h.cars.UpdateCar(r.Context(), id, car)
	if err != nil {
		writeError(w, r, h.log, err)
		return
	}
	h.log.WithField("car_id", id).Info("Updated car")
	writeJSON(w, http.StatusOK, updated)
}

// Delete removes a car; unknown ids succeed too
func (h *CarHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, h.log, err)
		return
	}
	if err := h.cars.DeleteCar(r.Context(), id); err != nil {
		writeError(w, r, h.log, err)
		return
	}
	w.WriteHeader(http.StatusOK)
}

func (h *CarHandler) decodeCar(w http.ResponseWriter, r *http.Request) (models.Car, bool) {
	var car models.Car
	if err := decodeJSON(r, &car); err != nil {
		w.WriteHeader(http.StatusBadRequest)
		return models.Car{}, false
	}
	if err := validation.ValidateCar(car); err != nil {
		h.metrics.ValidationFailed(metrics.EntityCar)
		writeError(w, r, h.log, err)
		return models.Car{}, false
	}
	return car, true
}
