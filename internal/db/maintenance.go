package db

import (
	"context"
	"sort"
	"sync"

	"github.com/ukydev/car-maintenance-tracker/internal/models"
)

var _ MaintenanceCollection = (*MaintenanceStore)(nil)

// MaintenanceStore keeps maintenance records in memory.
type MaintenanceStore struct {
	mu      sync.RWMutex
	records map[int64]models.Maintenance
	nextID  int64
}

// NewMaintenanceStore creates an empty store whose first generated id is 1.
func NewMaintenanceStore() *MaintenanceStore {
	return &MaintenanceStore{
		records: make(map[int64]models.Maintenance),
		nextID:  1,
	}
}

// InsertMaintenance stores a record, generating an id when it has none.
func (s *MaintenanceStore) InsertMaintenance(ctx context.Context, record models.Maintenance) (models.Maintenance, error) {
	record = record.Clone()

	s.mu.Lock()
	defer s.mu.Unlock()

	if record.ID == 0 {
		record.ID = s.nextID
		s.nextID++
	} else if record.ID >= s.nextID {
		s.nextID = record.ID + 1
	}
	s.records[record.ID] = record
	return record.Clone(), nil
}

// FindMaintenance returns every record, newest date first.
func (s *MaintenanceStore) FindMaintenance(ctx context.Context) ([]models.Maintenance, error) {
	return s.collect(func(models.Maintenance) bool { return true }), nil
}

// FindMaintenanceByCarID returns the records of one car, newest date first.
func (s *MaintenanceStore) FindMaintenanceByCarID(ctx context.Context, carID int64) ([]models.Maintenance, error) {
	return s.collect(func(m models.Maintenance) bool { return m.CarID == carID }), nil
}

// FindMaintenanceByID finds a maintenance record by its ID.
func (s *MaintenanceStore) FindMaintenanceByID(ctx context.Context, id int64) (models.Maintenance, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	record, ok := s.records[id]
	if !ok {
		return models.Maintenance{}, ErrNotFound
	}
	return record.Clone(), nil
}

// UpdateMaintenance replaces the record stored under id.
func (s *MaintenanceStore) UpdateMaintenance(ctx context.Context, id int64, record models.Maintenance) (models.Maintenance, error) {
	record = record.Clone()
	record.ID = id

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.records[id]; !ok {
		return models.Maintenance{}, ErrNotFound
	}
	s.records[id] = record
	return record.Clone(), nil
}

// DeleteMaintenance removes a record. Deleting an unknown id is a no-op.
func (s *MaintenanceStore) DeleteMaintenance(ctx context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.records, id)
	return nil
}

// Len reports how many records are stored.
func (s *MaintenanceStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.records)
}

func (s *MaintenanceStore) collect(keep func(models.Maintenance) bool) []models.Maintenance {
	s.mu.RLock()
	out := make([]models.Maintenance, 0, len(s.records))
	for _, record := range s.records {
		if keep(record) {
			out = append(out, record.Clone())
		}
	}
	s.mu.RUnlock()

	SortByDateDesc(out)
	return out
}

// SortByDateDesc orders records by their dd.MM.yyyy date text, greatest
// first, with ties broken by ascending id.
//
// The comparison is lexical. Because the day comes first, "15.01.2024"
// sorts ahead of "01.02.2024"; only records within the same month and year
// come out in true chronological order.
func SortByDateDesc(records []models.Maintenance) {
	sort.SliceStable(records, func(i, j int) bool {
		if records[i].Date != records[j].Date {
			return records[i].Date > records[j].Date
		}
		return records[i].ID < records[j].ID
	})
}
