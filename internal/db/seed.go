package db

import (
	"context"
	"fmt"

	"github.com/ukydev/car-maintenance-tracker/internal/models"
)

// DemoCars are loaded at startup so the demo is never empty. The BMW VIN is
// intentionally short; seeds bypass payload validation.
var DemoCars = []models.Car{
	{ID: 1, Brand: "Toyota", Model: "Camry", Year: 2020, VIN: "1HGBH41JXMN109186", Mileage: km(50000), Nickname: "Family Car", Img: "🚗"},
	{ID: 2, Brand: "Lada", Model: "Vesta", Year: 2019, VIN: "2T1BURHE0JC123456", Mileage: km(75000), Nickname: "Work Car", Img: "🚙"},
	{ID: 3, Brand: "BMW", Model: "X5", Year: 2021, VIN: "5UXWX7C5*BA", Mileage: km(30000), Nickname: "Luxury Car", Img: "🚘"},
}

func km(v int) *int { return &v }

// SeedDemoCars inserts DemoCars into cars. Generated ids continue after the
// highest seed id.
func SeedDemoCars(ctx context.Context, cars CarCollection) error {
	now := models.Now()
	for _, car := range DemoCars {
		car.CreatedAt = now
		if _, err := cars.InsertCar(ctx, car); err != nil {
			return fmt.Errorf("failed to seed car %d: %w", car.ID, err)
		}
	}
	return nil
}
