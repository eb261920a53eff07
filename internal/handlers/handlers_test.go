package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/ukydev/car-maintenance-tracker/internal/auth"
	"github.com/ukydev/car-maintenance-tracker/internal/db"
	"github.com/ukydev/car-maintenance-tracker/internal/metrics"
	"github.com/ukydev/car-maintenance-tracker/internal/models"
	"github.com/ukydev/car-maintenance-tracker/internal/services"
)

const (
	demoEmail    = "demo@cartech.com"
	demoPassword = "demo123"
	demoName     = "Demo User"
)

var (
	demoAuthOnce sync.Once
	demoAuth     *auth.Service
	demoAuthErr  error
)

// testAuthService hashes the demo password once for the whole package.
func testAuthService(t *testing.T) *auth.Service {
	t.Helper()
	demoAuthOnce.Do(func() {
		demoAuth, demoAuthErr = auth.NewService(auth.Identity{Email: demoEmail, Password: demoPassword, Name: demoName})
	})
	require.NoError(t, demoAuthErr)
	return demoAuth
}

type testEnv struct {
	handler http.Handler
	cars    *db.CarStore
	records *db.MaintenanceStore
	metrics *metrics.Metrics
}

func newTestEnv(t *testing.T, opts ...func(*RouterConfig)) *testEnv {
	t.Helper()
	logger, _ := test.NewNullLogger()

	cars := db.NewCarStore()
	require.NoError(t, db.SeedDemoCars(context.Background(), cars))
	records := db.NewMaintenanceStore()
	m := metrics.New()

	cfg := RouterConfig{
		BasePath:       "/api",
		AllowedOrigins: []string{"http://localhost:3000", "http://127.0.0.1:3000", "file://"},
		Auth:           testAuthService(t),
		Cars:           cars,
		Maintenance:    services.NewMaintenanceService(records, m, logger.WithField("test", t.Name())),
		Metrics:        m,
		Log:            logger,
	}
	for _, opt := range opts {
		opt(&cfg)
	}
	return &testEnv{handler: NewRouter(cfg), cars: cars, records: records, metrics: m}
}

func (e *testEnv) do(method, path, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	e.handler.ServeHTTP(w, req)
	return w
}

func decodeBody[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v), w.Body.String())
	return v
}

// MockCarCollection is a mock implementation of CarCollection
type MockCarCollection struct {
	mock.Mock
}

func (m *MockCarCollection) InsertCar(ctx context.Context, car models.Car) (models.Car, error) {
	args := m.Called(ctx, car)
	return args.Get(0).(models.Car), args.Error(1)
}

func (m *MockCarCollection) FindCars(ctx context.Context) ([]models.Car, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Car), args.Error(1)
}

func (m *MockCarCollection) FindCarByID(ctx context.Context, id int64) (models.Car, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(models.Car), args.Error(1)
}

func (m *MockCarCollection) UpdateCar(ctx context.Context, id int64, car models.Car) (models.Car, error) {
	args := m.Called(ctx, id, car)
	return args.Get(0).(models.Car), args.Error(1)
}

func (m *MockCarCollection) DeleteCar(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}
