package db

import (
	"context"
	"sort"
	"sync"

	"github.com/ukydev/car-maintenance-tracker/internal/models"
)

var _ CarCollection = (*CarStore)(nil)

// CarStore keeps car records in memory. The zero value is not usable; use
// NewCarStore.
type CarStore struct {
	mu     sync.RWMutex
	cars   map[int64]models.Car
	nextID int64
}

// NewCarStore creates an empty store whose first generated id is 1.
func NewCarStore() *CarStore {
	return &CarStore{
		cars:   make(map[int64]models.Car),
		nextID: 1,
	}
}

// InsertCar stores a car. A zero id is replaced by the next generated id; an
// explicit id is kept and the generator moves past it.
func (s *CarStore) InsertCar(ctx context.Context, car models.Car) (models.Car, error) {
	car = car.Clone()

	s.mu.Lock()
	defer s.mu.Unlock()

	if car.ID == 0 {
		car.ID = s.nextID
		s.nextID++
	} else if car.ID >= s.nextID {
		s.nextID = car.ID + 1
	}
	s.cars[car.ID] = car
	return car.Clone(), nil
}

// FindCars returns every car ordered by id.
func (s *CarStore) FindCars(ctx context.Context) ([]models.Car, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	cars := make([]models.Car, 0, len(s.cars))
	for _, car := range s.cars {
		cars = append(cars, car.Clone())
	}
	sort.Slice(cars, func(i, j int) bool { return cars[i].ID < cars[j].ID })
	return cars, nil
}

// FindCarByID finds a car by its ID.
func (s *CarStore) FindCarByID(ctx context.Context, id int64) (models.Car, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	car, ok := s.cars[id]
	if !ok {
		return models.Car{}, ErrNotFound
	}
	return car.Clone(), nil
}

// UpdateCar replaces the car stored under id. The stored record always
// carries id, whatever the payload said.
func (s *CarStore) UpdateCar(ctx context.Context, id int64, car models.Car) (models.Car, error) {
	car = car.Clone()
	car.ID = id

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.cars[id]; !ok {
		return models.Car{}, ErrNotFound
	}
	s.cars[id] = car
	return car.Clone(), nil
}

// DeleteCar removes a car. Deleting an unknown id is a no-op.
func (s *CarStore) DeleteCar(ctx context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.cars, id)
	return nil
}

// Len reports how many cars are stored.
func (s *CarStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.cars)
}
