package models

import (
	"encoding/json"

	"github.com/shopspring/decimal"
)

// ConsumableItem is a priced line item (oil, filter, pads...) used during a
// maintenance operation. It has no identity outside its Maintenance record.
type ConsumableItem struct {
	Name      string              `json:"name"`
	Item      string              `json:"item,omitempty"`
	Cost      decimal.NullDecimal `json:"cost"`
	Quantity  *int                `json:"quantity"`
	TotalCost decimal.NullDecimal `json:"totalCost"`
}

// NewConsumableItem builds an item with its total already computed.
func NewConsumableItem(name, item string, cost decimal.Decimal, quantity int) ConsumableItem {
	c := ConsumableItem{Name: name, Item: item}
	c.Cost = decimal.NewNullDecimal(cost)
	c.Quantity = &quantity
	c.Recalculate()
	return c
}

// SetCost replaces the unit cost and recomputes the total.
func (c *ConsumableItem) SetCost(cost decimal.NullDecimal) {
	c.Cost = cost
	c.Recalculate()
}

// SetQuantity replaces the quantity and recomputes the total.
func (c *ConsumableItem) SetQuantity(quantity *int) {
	c.Quantity = quantity
	c.Recalculate()
}

// Recalculate sets TotalCost to Cost × Quantity. When either is missing the
// previous total is left untouched.
func (c *ConsumableItem) Recalculate() {
	if !c.Cost.Valid || c.Quantity == nil {
		return
	}
	c.TotalCost = decimal.NewNullDecimal(c.Cost.Decimal.Mul(decimal.NewFromInt(int64(*c.Quantity))))
}

// Clone returns a copy that shares no memory with c.
func (c ConsumableItem) Clone() ConsumableItem {
	if c.Quantity != nil {
		q := *c.Quantity
		c.Quantity = &q
	}
	return c
}

// UnmarshalJSON decodes the item and derives its total from the decoded
// cost and quantity, so a client-supplied totalCost never wins over them.
func (c *ConsumableItem) UnmarshalJSON(data []byte) error {
	type item ConsumableItem
	var decoded item
	if err := json.Unmarshal(data, &decoded); err != nil {
		return err
	}
	*c = ConsumableItem(decoded)
	c.Recalculate()
	return nil
}
