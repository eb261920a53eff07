package models

import (
	"encoding/json"
	"strings"
)

// Car represents a vehicle tracked by the demo user.
type Car struct {
	ID        int64     `json:"id"`
	Brand     string    `json:"brand"`
	Model     string    `json:"model"`
	Year      int       `json:"year"`
	VIN       string    `json:"vin,omitempty"`
	Mileage   *int      `json:"mileage"` // in kilometers
	Nickname  string    `json:"nickname,omitempty"`
	Img       string    `json:"img,omitempty"` // icon tag shown by the UI
	Price     *int      `json:"price,omitempty"`
	CreatedAt Timestamp `json:"createdAt"`
}

// Name returns the display name derived from brand and model.
func (c Car) Name() string {
	return strings.TrimSpace(c.Brand + " " + c.Model)
}

// Clone returns a copy that shares no memory with c.
func (c Car) Clone() Car {
	if c.Mileage != nil {
		m := *c.Mileage
		c.Mileage = &m
	}
	if c.Price != nil {
		p := *c.Price
		c.Price = &p
	}
	return c
}

// MarshalJSON adds the derived name to the encoded car.
func (c Car) MarshalJSON() ([]byte, error) {
	type car Car
	return json.Marshal(struct {
		car
		Name string `json:"name"`
	}{car: car(c), Name: c.Name()})
}
