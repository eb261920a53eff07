// Package costs estimates maintenance costs from consumable line items and
// labor before anything is saved.
package costs

import (
	"strings"

	"github.com/shopspring/decimal"
	"github.com/ukydev/car-maintenance-tracker/internal/models"
)

// Request is the input of a cost preview.
type Request struct {
	Consumables []models.ConsumableItem `json:"consumables"`
	WorkCost    decimal.NullDecimal     `json:"workCost"`
}

// Result is a normalized cost preview.
type Result struct {
	Consumables []models.ConsumableItem `json:"consumables"`
	WorkCost    decimal.Decimal         `json:"workCost"`
	TotalCost   decimal.Decimal         `json:"totalCost"`
}

// Calculate normalizes the request and totals it.
//
// Items with a blank name are dropped. For the rest a missing or negative
// cost becomes 0 and a missing or sub-1 quantity becomes 1. A missing or
// negative labor cost becomes 0. The caller's items are not modified.
func Calculate(req Request) Result {
	kept := make([]models.ConsumableItem, 0, len(req.Consumables))
	sum := decimal.Zero

	for _, item := range req.Consumables {
		if strings.TrimSpace(item.Name) == "" {
			continue
		}
		item = item.Clone()
		if !item.Cost.Valid || item.Cost.Decimal.IsNegative() {
			item.Cost = decimal.NewNullDecimal(decimal.Zero)
		}
		if item.Quantity == nil || *item.Quantity < 1 {
			one := 1
			item.Quantity = &one
		}
		item.Recalculate()
		sum = sum.Add(item.TotalCost.Decimal)
		kept = append(kept, item)
	}

	workCost := ClampNonNegative(req.WorkCost)
	return Result{
		Consumables: kept,
		WorkCost:    workCost,
		TotalCost:   sum.Add(workCost),
	}
}

// ClampNonNegative turns a missing or negative amount into zero.
func ClampNonNegative(amount decimal.NullDecimal) decimal.Decimal {
	if !amount.Valid || amount.Decimal.IsNegative() {
		return decimal.Zero
	}
	return amount.Decimal
}
