package models

import (
	"github.com/shopspring/decimal"
)

// DateLayout documents the dd.MM.yyyy format of Maintenance.Date. Dates are
// stored and compared as text; they are never parsed.
const DateLayout = "02.01.2006"

// Maintenance represents a service operation performed on a car.
type Maintenance struct {
	ID              int64               `json:"id"`
	CarID           int64               `json:"carId"`
	Date            string              `json:"date"`
	Mileage         *int                `json:"mileage"` // in kilometers
	OperationName   string              `json:"operationName"`
	Consumables     []ConsumableItem    `json:"consumables"`
	WorkCost        decimal.NullDecimal `json:"workCost"` // labor
	TotalCost       decimal.Decimal     `json:"totalCost"`
	ServiceRecordID *int64              `json:"serviceRecordId,omitempty"`
	CreatedAt       Timestamp           `json:"createdAt"`
}

// SetConsumables replaces the consumable list and recomputes the total.
func (m *Maintenance) SetConsumables(items []ConsumableItem) {
	m.Consumables = items
	m.RecalculateTotal()
}

// SetWorkCost replaces the labor cost and recomputes the total.
func (m *Maintenance) SetWorkCost(cost decimal.NullDecimal) {
	m.WorkCost = cost
	m.RecalculateTotal()
}

// RecalculateTotal applies the save-time rule: the sum of each consumable's
// already computed total plus the labor cost. Items without a total are
// skipped and a missing labor cost counts as zero. Nothing is clamped here.
func (m *Maintenance) RecalculateTotal() {
	total := decimal.Zero
	for _, item := range m.Consumables {
		if item.TotalCost.Valid {
			total = total.Add(item.TotalCost.Decimal)
		}
	}
	if m.WorkCost.Valid {
		total = total.Add(m.WorkCost.Decimal)
	}
	m.TotalCost = total
}

// Clone returns a copy that shares no memory with m.
func (m Maintenance) Clone() Maintenance {
	if m.Mileage != nil {
		v := *m.Mileage
		m.Mileage = &v
	}
	if m.ServiceRecordID != nil {
		v := *m.ServiceRecordID
		m.ServiceRecordID = &v
	}
	if m.Consumables != nil {
		items := make([]ConsumableItem, len(m.Consumables))
		for i, item := range m.Consumables {
			items[i] = item.Clone()
		}
		m.Consumables = items
	}
	return m
}
