package domain

import (
	"fmt"

	"github.com/google/uuid"

	catalog "restaurant-pos/internal/catalog/domain"
)

// ComposeLineItem turns a resolved menu item plus a user selection
// into a priced line item. It is pure: no I/O, no side effects beyond
// the returned value. The resolved slice must carry every option
// group the item declares and every option those groups reference;
// anything missing, and any stray key in the selection, surfaces as a
// NotFoundError rather than being silently ignored.
func ComposeLineItem(resolved catalog.ResolvedItem, sel Selection) (OrderLineItem, error) {
	item := resolved.Item

	quantity := sel.Quantity
	if quantity == 0 {
		quantity = 1
	}
	if quantity < 0 {
		return OrderLineItem{}, ValidationError{
			Field:   "quantity",
			Message: fmt.Sprintf("quantity must be at least 1, got %d", quantity),
		}
	}

	declared := make(map[string]bool, len(item.OptionGroupIDs))
	for _, gid := range item.OptionGroupIDs {
		declared[gid] = true
	}
	for gid := range sel.Options {
		if !declared[gid] {
			return OrderLineItem{}, NotFoundError{Kind: "option_group", ID: gid}
		}
	}

	var chosen []catalog.ItemOption
	for _, gid := range item.OptionGroupIDs {
		group, ok := resolved.Groups[gid]
		if !ok {
			return OrderLineItem{}, NotFoundError{Kind: "option_group", ID: gid}
		}
		picks := sel.Options[gid]

		if len(picks) < group.MinSelection {
			return OrderLineItem{}, ValidationError{
				Field: group.Name,
				Message: fmt.Sprintf("requires at least %d selection(s), got %d",
					group.MinSelection, len(picks)),
			}
		}
		// The toggle step already caps selections; this guards against
		// selections built some other way.
		if group.Bounded() && len(picks) > group.MaxSelection {
			return OrderLineItem{}, ValidationError{
				Field: group.Name,
				Message: fmt.Sprintf("allows at most %d selection(s), got %d",
					group.MaxSelection, len(picks)),
			}
		}

		for _, oid := range picks {
			if !group.Contains(oid) {
				return OrderLineItem{}, NotFoundError{Kind: "option", ID: oid}
			}
			opt, ok := resolved.Options[oid]
			if !ok {
				return OrderLineItem{}, NotFoundError{Kind: "option", ID: oid}
			}
			chosen = append(chosen, opt)
		}
	}

	unit := item.PriceCents
	for _, opt := range chosen {
		unit += opt.PriceCents
	}
	for _, ex := range sel.Extras {
		unit += ex.PriceCents
	}
	for _, ch := range sel.Changes {
		unit += ch.PriceCents
	}

	return OrderLineItem{
		ID:             uuid.NewString(),
		Name:           item.Name,
		UnitPriceCents: unit,
		Quantity:       quantity,
		Instructions:   sel.Instructions,
		Options:        chosen,
		Extras:         sel.Extras,
		Changes:        sel.Changes,
		IsToGo:         sel.Flag == FlagToGo,
		IsAppetizer:    sel.Flag == FlagAppetizer,
		KitchenType:    item.KitchenType,
	}, nil
}
