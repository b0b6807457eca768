package domain

import (
	catalog "restaurant-pos/internal/catalog/domain"
	"restaurant-pos/pkg/money"
)

// OrderLineItem is one priced, quantified entry within an order. Name
// and kitchen type are snapshots taken at composition time; later
// catalog edits never reach back into a composed line.
type OrderLineItem struct {
	ID             string               `json:"id"`
	Name           string               `json:"name"`
	UnitPriceCents money.Cents          `json:"unit_price_cents"`
	Quantity       int                  `json:"quantity"`
	Instructions   string               `json:"instructions,omitempty"`
	Options        []catalog.ItemOption `json:"options,omitempty"`
	Extras         []AddExtra           `json:"extras,omitempty"`
	Changes        []ItemChange         `json:"changes,omitempty"`
	IsToGo         bool                 `json:"is_to_go"`
	IsAppetizer    bool                 `json:"is_appetizer"`
	KitchenType    catalog.KitchenType  `json:"kitchen_type"`
}

// LineTotalCents is the unit price times quantity.
func (li OrderLineItem) LineTotalCents() money.Cents {
	return li.UnitPriceCents.Mul(li.Quantity)
}

// UpdateQuantity returns the collection with the matching line item's
// quantity replaced. A quantity of zero or less removes the item
// outright so submitted orders never carry ghost entries. An unknown
// id is a no-op: the UI can race a removal against a quantity tap.
func UpdateQuantity(items []OrderLineItem, lineItemID string, quantity int) []OrderLineItem {
	if quantity <= 0 {
		return RemoveLineItem(items, lineItemID)
	}
	out := make([]OrderLineItem, len(items))
	copy(out, items)
	for i := range out {
		if out[i].ID == lineItemID {
			out[i].Quantity = quantity
			break
		}
	}
	return out
}

// RemoveLineItem returns the collection without the matching item.
// Unknown ids are a no-op.
func RemoveLineItem(items []OrderLineItem, lineItemID string) []OrderLineItem {
	out := make([]OrderLineItem, 0, len(items))
	for _, li := range items {
		if li.ID != lineItemID {
			out = append(out, li)
		}
	}
	return out
}
