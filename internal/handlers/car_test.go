package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/ukydev/car-maintenance-tracker/internal/db"
	"github.com/ukydev/car-maintenance-tracker/internal/models"
	"github.com/ukydev/car-maintenance-tracker/internal/validation"
)

func TestCarHandler_List(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(http.MethodGet, "/api/cars", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))

	cars := decodeBody[[]map[string]any](t, w)
	require.Len(t, cars, 3)
	assert.Equal(t, "Toyota Camry", cars[0]["name"])
	assert.Equal(t, "Lada", cars[1]["brand"])
	assert.Equal(t, "5UXWX7C5*BA", cars[2]["vin"])
	assert.NotNil(t, cars[0]["createdAt"])
}

func TestCarHandler_Get(t *testing.T) {
	env := newTestEnv(t)

	t.Run("existing car", func(t *testing.T) {
		w := env.do(http.MethodGet, "/api/cars/2", "")
		require.Equal(t, http.StatusOK, w.Code)
		car := decodeBody[models.Car](t, w)
		assert.Equal(t, int64(2), car.ID)
		assert.Equal(t, "Work Car", car.Nickname)
	})

	t.Run("missing car", func(t *testing.T) {
		w := env.do(http.MethodGet, "/api/cars/99", "")
		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.Empty(t, w.Body.String())
	})

	t.Run("non numeric id", func(t *testing.T) {
		w := env.do(http.MethodGet, "/api/cars/abc", "")
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestCarHandler_Create(t *testing.T) {
	env := newTestEnv(t)

	t.Run("assigns the next id", func(t *testing.T) {
		w := env.do(http.MethodPost, "/api/cars", `{"brand":"Kia","model":"Rio","year":2022,"mileage":1200,"price":15000}`)
		require.Equal(t, http.StatusOK, w.Code)

		car := decodeBody[models.Car](t, w)
		assert.Equal(t, int64(4), car.ID)
		assert.False(t, car.CreatedAt.IsZero())
		require.NotNil(t, car.Price)
		assert.Equal(t, 15000, *car.Price)
		assert.Equal(t, 4, env.cars.Len())
	})

	t.Run("invalid payload", func(t *testing.T) {
		w := env.do(http.MethodPost, "/api/cars", `{"brand":" ","model":"X","year":1800,"vin":"SHORT","mileage":-1}`)
		require.Equal(t, http.StatusBadRequest, w.Code)

		response := decodeBody[ValidationErrorResponse](t, w)
		assert.Equal(t, []string{
			"Brand is required",
			"Year must be at least 1900",
			"Invalid VIN format",
			"Mileage cannot be negative",
		}, response.Errors)
		assert.Contains(t, response.Message, "Validation failed: ")
		assert.Equal(t, 4, env.cars.Len())
	})

	t.Run("missing mileage", func(t *testing.T) {
		w := env.do(http.MethodPost, "/api/cars", `{"brand":"Kia","model":"Rio","year":2022}`)
		require.Equal(t, http.StatusBadRequest, w.Code)

		response := decodeBody[ValidationErrorResponse](t, w)
		assert.Equal(t, []string{validation.ReasonCarMileageRequired}, response.Errors)
		assert.Equal(t, 4, env.cars.Len())
	})

	t.Run("malformed JSON", func(t *testing.T) {
		w := env.do(http.MethodPost, "/api/cars", `{"brand":`)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestCarHandler_Update(t *testing.T) {
	env := newTestEnv(t)

	t.Run("replaces the car", func(t *testing.T) {
		before, err := env.cars.FindCarByID(t.Context(), 1)
		require.NoError(t, err)

		w := env.do(http.MethodPut, "/api/cars/1", `{"brand":"Toyota","model":"Camry","year":2020,"mileage":61000}`)
		require.Equal(t, http.StatusOK, w.Code)

		car := decodeBody[models.Car](t, w)
		assert.Equal(t, int64(1), car.ID)
		require.NotNil(t, car.Mileage)
		assert.Equal(t, 61000, *car.Mileage)
		assert.Empty(t, car.Nickname)
		assert.True(t, car.CreatedAt.Equal(before.CreatedAt.Time))
	})

	t.Run("missing car", func(t *testing.T) {
		w := env.do(http.MethodPut, "/api/cars/99", `{"brand":"Toyota","model":"Camry","year":2020,"mileage":1}`)
		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.Empty(t, w.Body.String())
		assert.Equal(t, 3, env.cars.Len())
	})

	t.Run("invalid payload", func(t *testing.T) {
		w := env.do(http.MethodPut, "/api/cars/1", `{"brand":"Toyota","model":"","year":2020}`)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestCarHandler_Delete(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(http.MethodDelete, "/api/cars/1", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, w.Body.String())

	w = env.do(http.MethodGet, "/api/cars/1", "")
	assert.Equal(t, http.StatusNotFound, w.Code)

	// Deleting again is not an error.
	w = env.do(http.MethodDelete, "/api/cars/1", "")
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestCarHandler_StoreFailure(t *testing.T) {
	logger, hook := test.NewNullLogger()
	cars := new(MockCarCollection)
	handler := NewCarHandler(cars, nil, logger)

	cars.On("FindCars", mock.Anything).Return(nil, assert.AnError)
	cars.On("FindCarByID", mock.Anything, int64(7)).Return(models.Car{}, db.ErrNotFound)

	w := httptest.NewRecorder()
	handler.List(w, httptest.NewRequest(http.MethodGet, "/api/cars", nil))
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Empty(t, w.Body.String())
	require.NotNil(t, hook.LastEntry())
	assert.Equal(t, assert.AnError, hook.LastEntry().Data["error"])

	req := mux.SetURLVars(httptest.NewRequest(http.MethodGet, "/api/cars/7", nil), map[string]string{"id": "7"})
	w = httptest.NewRecorder()
	handler.Get(w, req)
	assert.Equal(t, http.StatusNotFound, w.Code)

	cars.AssertExpectations(t)
}
