package domain

import (
	"fmt"

	"restaurant-pos/pkg/money"
)

// KitchenType routes a dish to a kitchen station on the printed ticket.
type KitchenType string

const (
	KitchenA KitchenType = "A"
	KitchenB KitchenType = "B"
	KitchenC KitchenType = "C"
	KitchenZ KitchenType = "Z"
)

// FoodCategory groups menu items on the ordering screen.
type FoodCategory struct {
	ID       string   `json:"id"`
	Name     string   `json:"name"`
	ItemIDs  []string `json:"item_ids,omitempty"`
	Position int      `json:"position"`
}

// MenuItem is immutable reference data owned by the catalog.
type MenuItem struct {
	ID             string      `json:"id"`
	Name           string      `json:"name"`
	PriceCents     money.Cents `json:"price_cents"`
	KitchenType    KitchenType `json:"kitchen_type"`
	OptionGroupIDs []string    `json:"option_group_ids,omitempty"`
	CategoryIDs    []string    `json:"category_ids,omitempty"`
}

// OptionGroup is a cluster of related choices with selection bounds.
// MaxSelection of 0 means unbounded.
type OptionGroup struct {
	ID           string   `json:"id"`
	Name         string   `json:"name"`
	MinSelection int      `json:"min_selection"`
	MaxSelection int      `json:"max_selection"`
	OptionIDs    []string `json:"option_ids,omitempty"`
}

// Bounded reports whether the group caps the number of selections.
func (g OptionGroup) Bounded() bool { return g.MaxSelection > 0 }

// Contains reports whether the option belongs to this group.
func (g OptionGroup) Contains(optionID string) bool {
	for _, id := range g.OptionIDs {
		if id == optionID {
			return true
		}
	}
	return false
}

// Validate checks the group's structural invariant.
func (g OptionGroup) Validate() error {
	if g.MinSelection < 0 {
		return fmt.Errorf("option group %q: min_selection %d is negative", g.Name, g.MinSelection)
	}
	if g.Bounded() && g.MinSelection > g.MaxSelection {
		return fmt.Errorf("option group %q: min_selection %d exceeds max_selection %d",
			g.Name, g.MinSelection, g.MaxSelection)
	}
	return nil
}

// ItemOption is one selectable choice with a price delta.
type ItemOption struct {
	ID         string      `json:"id"`
	Name       string      `json:"name"`
	PriceCents money.Cents `json:"price_cents"`
	GroupIDs   []string    `json:"group_ids,omitempty"`
}

// Menu is the full catalog bundle the client renders, tagged with the
// version it was assembled from.
type Menu struct {
	Version    int64          `json:"version"`
	Categories []FoodCategory `json:"categories"`
	Items      []MenuItem     `json:"items"`
	Groups     []OptionGroup  `json:"option_groups"`
	Options    []ItemOption   `json:"options"`
}

// ResolvedItem is one menu item together with exactly the option
// groups and options the composer needs to price a selection.
type ResolvedItem struct {
	Item    MenuItem
	Groups  map[string]OptionGroup
	Options map[string]ItemOption
}
