package application

import (
	"fmt"
	"sort"
	"strings"

	catalog "restaurant-pos/internal/catalog/domain"
	"restaurant-pos/internal/order/domain"
)

// Ticket is the rendered text for one kitchen station.
type Ticket struct {
	Station catalog.KitchenType
	Body    string
}

// RenderTickets splits an order across kitchen stations and renders
// one ticket per station, stations in stable order.
func RenderTickets(req domain.PrintRequest) []Ticket {
	byStation := make(map[catalog.KitchenType][]domain.OrderLineItem)
	for _, li := range req.Order.Items {
		byStation[li.KitchenType] = append(byStation[li.KitchenType], li)
	}

	stations := make([]catalog.KitchenType, 0, len(byStation))
	for st := range byStation {
		stations = append(stations, st)
	}
	sort.Slice(stations, func(i, j int) bool { return stations[i] < stations[j] })

	tickets := make([]Ticket, 0, len(stations))
	for _, st := range stations {
		tickets = append(tickets, Ticket{
			Station: st,
			Body:    renderStation(req, st, byStation[st]),
		})
	}
	return tickets
}

func renderStation(req domain.PrintRequest, station catalog.KitchenType, items []domain.OrderLineItem) string {
	o := req.Order
	var b strings.Builder

	fmt.Fprintf(&b, "== STATION %s ==\n", station)
	fmt.Fprintf(&b, "order %s  %s\n", shortID(o.ID), o.Type)
	switch {
	case o.TableNumber != nil:
		fmt.Fprintf(&b, "table %d", *o.TableNumber)
		if o.Guests > 0 {
			fmt.Fprintf(&b, "  guests %d", o.Guests)
		}
		b.WriteString("\n")
	case o.CustomerName != "":
		fmt.Fprintf(&b, "for %s\n", o.CustomerName)
	}
	if o.IsPreorder && o.PreorderAt != nil {
		fmt.Fprintf(&b, "preorder %s\n", o.PreorderAt.Format("15:04"))
	} else if o.ReadyMinutes > 0 {
		fmt.Fprintf(&b, "ready in %d min\n", o.ReadyMinutes)
	}
	b.WriteString("----\n")

	for _, li := range items {
		fmt.Fprintf(&b, "%dx %s\n", li.Quantity, li.Name)
		if li.IsAppetizer {
			b.WriteString("   * APPETIZER FIRST\n")
		}
		if li.IsToGo {
			b.WriteString("   * TO GO\n")
		}
		for _, opt := range li.Options {
			fmt.Fprintf(&b, "   + %s\n", opt.Name)
		}
		for _, ex := range li.Extras {
			fmt.Fprintf(&b, "   + %s\n", ex.Description)
		}
		for _, ch := range li.Changes {
			fmt.Fprintf(&b, "   ~ %s -> %s\n", ch.From, ch.To)
		}
		if li.Instructions != "" {
			fmt.Fprintf(&b, "   ! %s\n", li.Instructions)
		}
	}

	b.WriteString("----\n")
	fmt.Fprintf(&b, "subtotal %s  total %s\n", req.Totals.SubtotalCents, req.Totals.TotalCents)
	return b.String()
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
