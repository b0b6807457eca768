package domain

import (
	"errors"
	"reflect"
	"testing"
)

func twoItems() []OrderLineItem {
	return []OrderLineItem{
		{ID: "li-1", Name: "Spring Rolls", UnitPriceCents: 500, Quantity: 2},
		{ID: "li-2", Name: "Chow Mein", UnitPriceCents: 1250, Quantity: 1},
	}
}

func TestUpdateQuantity(t *testing.T) {
	tests := []struct {
		name     string
		id       string
		quantity int
		wantIDs  []string
		wantQty  map[string]int
	}{
		{"replace quantity", "li-1", 5, []string{"li-1", "li-2"}, map[string]int{"li-1": 5}},
		{"zero removes", "li-1", 0, []string{"li-2"}, nil},
		{"negative removes", "li-2", -3, []string{"li-1"}, nil},
		{"unknown id is a no-op", "li-9", 4, []string{"li-1", "li-2"}, map[string]int{"li-1": 2, "li-2": 1}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := UpdateQuantity(twoItems(), tt.id, tt.quantity)

			var ids []string
			for _, li := range got {
				ids = append(ids, li.ID)
			}
			if !reflect.DeepEqual(ids, tt.wantIDs) {
				t.Errorf("ids = %v, want %v", ids, tt.wantIDs)
			}
			for id, want := range tt.wantQty {
				for _, li := range got {
					if li.ID == id && li.Quantity != want {
						t.Errorf("item %s quantity = %d, want %d", id, li.Quantity, want)
					}
				}
			}
		})
	}
}

func TestUpdateQuantity_UnknownIDReturnsEqualCollection(t *testing.T) {
	items := twoItems()
	got := UpdateQuantity(items, "li-9", 7)
	if !reflect.DeepEqual(got, items) {
		t.Errorf("collection changed on unknown id: %v", got)
	}
}

func TestRemoveLineItem(t *testing.T) {
	got := RemoveLineItem(twoItems(), "li-2")
	if len(got) != 1 || got[0].ID != "li-1" {
		t.Errorf("items = %v, want only li-1", got)
	}
	got = RemoveLineItem(got, "nope")
	if len(got) != 1 {
		t.Errorf("unknown id should be a no-op, got %v", got)
	}
}

func TestOrderSubtotalNeverStale(t *testing.T) {
	o := NewDraft(TakeOut)
	o.AddItem(OrderLineItem{ID: "li-1", UnitPriceCents: 500, Quantity: 2})
	o.AddItem(OrderLineItem{ID: "li-2", UnitPriceCents: 1200, Quantity: 1})
	if o.SubtotalCents != 2200 {
		t.Fatalf("subtotal = %d, want 2200", o.SubtotalCents)
	}

	o.UpdateQuantity("li-1", 4)
	if o.SubtotalCents != 3200 {
		t.Errorf("subtotal after quantity change = %d, want 3200", o.SubtotalCents)
	}

	o.RemoveItem("li-2")
	if o.SubtotalCents != 2000 {
		t.Errorf("subtotal after removal = %d, want 2000", o.SubtotalCents)
	}

	o.UpdateQuantity("li-1", 0)
	if o.SubtotalCents != 0 || len(o.Items) != 0 {
		t.Errorf("subtotal = %d items = %d, want empty order", o.SubtotalCents, len(o.Items))
	}
}

func TestAggregateTotals_Identity(t *testing.T) {
	tests := []struct {
		name  string
		items []OrderLineItem
	}{
		{"empty", nil},
		{"single", []OrderLineItem{{UnitPriceCents: 999, Quantity: 3}}},
		{"mixed", []OrderLineItem{
			{UnitPriceCents: 1234, Quantity: 1},
			{UnitPriceCents: 57, Quantity: 9},
			{UnitPriceCents: 2500, Quantity: 2},
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := AggregateTotals(tt.items, DefaultTaxRates)
			if got.TotalCents != got.SubtotalCents+got.PSTCents+got.GSTCents {
				t.Errorf("total %d != subtotal %d + pst %d + gst %d",
					got.TotalCents, got.SubtotalCents, got.PSTCents, got.GSTCents)
			}
		})
	}
}

func TestAggregateTotals_ConfiguredRates(t *testing.T) {
	items := []OrderLineItem{{UnitPriceCents: 10000, Quantity: 1}}
	got := AggregateTotals(items, TaxRates{PST: 700, GST: 500})
	if got.PSTCents != 700 || got.GSTCents != 500 || got.TotalCents != 11200 {
		t.Errorf("totals = %+v, want 700/500/11200", got)
	}
}

func TestTransition(t *testing.T) {
	tests := []struct {
		name   string
		from   Status
		to     Status
		wantOK bool
	}{
		{"pending to in progress", StatusPending, StatusInProgress, true},
		{"pending to canceled", StatusPending, StatusCanceled, true},
		{"pending to completed", StatusPending, StatusCompleted, false},
		{"in progress to completed", StatusInProgress, StatusCompleted, true},
		{"in progress to canceled", StatusInProgress, StatusCanceled, true},
		{"in progress to pending", StatusInProgress, StatusPending, false},
		{"completed is terminal", StatusCompleted, StatusInProgress, false},
		{"canceled is terminal", StatusCanceled, StatusInProgress, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			o := &Order{Status: tt.from}
			err := o.Transition(tt.to)
			if tt.wantOK {
				if err != nil {
					t.Fatalf("Transition(%s -> %s) failed: %v", tt.from, tt.to, err)
				}
				if o.Status != tt.to {
					t.Errorf("status = %s, want %s", o.Status, tt.to)
				}
				return
			}
			var ite InvalidTransitionError
			if !errors.As(err, &ite) {
				t.Fatalf("expected InvalidTransitionError, got %v", err)
			}
			if o.Status != tt.from {
				t.Errorf("status mutated on illegal transition: %s", o.Status)
			}
		})
	}
}

func TestTransition_CompletedThenReopen(t *testing.T) {
	o := &Order{Status: StatusInProgress}
	if err := o.Transition(StatusCompleted); err != nil {
		t.Fatalf("complete failed: %v", err)
	}
	if err := o.Transition(StatusInProgress); err == nil {
		t.Fatal("expected error reopening a completed order")
	}
}
