package domain

import (
	catalog "restaurant-pos/internal/catalog/domain"
	"restaurant-pos/pkg/money"
)

// SpecialFlag marks a dine-in line item as an appetizer or packed to
// go. The UI offers it only for dine-in, but the composer accepts it
// regardless.
type SpecialFlag string

const (
	FlagNone      SpecialFlag = ""
	FlagAppetizer SpecialFlag = "appetizer"
	FlagToGo      SpecialFlag = "to_go"
)

// AddExtra is a user-authored add-on not present in the catalog.
// The price delta may be any sign.
type AddExtra struct {
	Description string      `json:"description"`
	PriceCents  money.Cents `json:"price_cents"`
}

// ItemChange swaps one component of a dish for another.
type ItemChange struct {
	From       string      `json:"from"`
	To         string      `json:"to"`
	PriceCents money.Cents `json:"price_cents"`
}

// Selection accumulates a user's choices for one menu item before
// composition. Options maps option-group id to the chosen option ids
// in the order they were picked.
type Selection struct {
	Quantity     int
	Options      map[string][]string
	Instructions string
	Extras       []AddExtra
	Changes      []ItemChange
	Flag         SpecialFlag
}

// Toggle applies one tap on an option. Groups capped at one selection
// behave like radio buttons: the new choice replaces any prior one.
// Multi-select groups toggle membership, except that choosing a new
// option while the group is already full is silently ignored — the
// existing picks win, first come first served.
func (s *Selection) Toggle(group catalog.OptionGroup, optionID string) {
	if s.Options == nil {
		s.Options = make(map[string][]string)
	}
	current := s.Options[group.ID]

	if group.MaxSelection == 1 {
		s.Options[group.ID] = []string{optionID}
		return
	}

	for i, id := range current {
		if id == optionID {
			s.Options[group.ID] = append(current[:i:i], current[i+1:]...)
			return
		}
	}
	if group.Bounded() && len(current) >= group.MaxSelection {
		return
	}
	s.Options[group.ID] = append(current, optionID)
}
