package domain

import "fmt"

// ValidationError reports a user-correctable problem with a selection
// or draft order. The caller re-prompts; nothing is retried.
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// NotFoundError reports a reference to catalog data that was not in
// the resolved slice handed to the composer. This is a data-integrity
// problem, not something the user can fix.
type NotFoundError struct {
	Kind string // "option_group", "option", "menu_item", "order", "line_item", "table"
	ID   string
}

func (e NotFoundError) Error() string {
	return fmt.Sprintf("%s %q not found", e.Kind, e.ID)
}

// InvalidTransitionError reports an illegal order-status transition.
type InvalidTransitionError struct {
	From Status
	To   Status
}

func (e InvalidTransitionError) Error() string {
	return fmt.Sprintf("cannot transition order from %s to %s", e.From, e.To)
}
