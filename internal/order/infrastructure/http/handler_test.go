package http

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"restaurant-pos/internal/catalog/domain"
	"restaurant-pos/internal/order/application"
	orderdomain "restaurant-pos/internal/order/domain"
	tabledomain "restaurant-pos/internal/table/domain"
	"restaurant-pos/pkg/logging"
)

type stubRepo struct {
	orders    map[string]orderdomain.Order
	submitErr error
}

func (r *stubRepo) Submit(_ context.Context, o orderdomain.Order, _ application.EventRecord, _ application.TableAction) error {
	if r.submitErr != nil {
		return r.submitErr
	}
	r.orders[o.ID] = o
	return nil
}

func (r *stubRepo) Get(_ context.Context, id string) (orderdomain.Order, error) {
	o, ok := r.orders[id]
	if !ok {
		return orderdomain.Order{}, orderdomain.NotFoundError{Kind: "order", ID: id}
	}
	return o, nil
}

func (r *stubRepo) List(_ context.Context, _ application.ListFilter) ([]orderdomain.Order, error) {
	var out []orderdomain.Order
	for _, o := range r.orders {
		out = append(out, o)
	}
	return out, nil
}

func (r *stubRepo) Update(_ context.Context, o orderdomain.Order, _ application.EventRecord, _ application.TableAction) error {
	if _, ok := r.orders[o.ID]; !ok {
		return orderdomain.NotFoundError{Kind: "order", ID: o.ID}
	}
	r.orders[o.ID] = o
	return nil
}

type stubResolver struct{}

func (stubResolver) Resolve(_ context.Context, itemID string) (domain.ResolvedItem, error) {
	if itemID != "itm-soup" {
		return domain.ResolvedItem{}, orderdomain.NotFoundError{Kind: "menu_item", ID: itemID}
	}
	return domain.ResolvedItem{
		Item: domain.MenuItem{
			ID: "itm-soup", Name: "Wonton Soup", PriceCents: 1095,
			KitchenType: domain.KitchenA, OptionGroupIDs: []string{"grp-size"},
		},
		Groups: map[string]domain.OptionGroup{
			"grp-size": {ID: "grp-size", Name: "Size", MinSelection: 1, MaxSelection: 1, OptionIDs: []string{"opt-small", "opt-large"}},
		},
		Options: map[string]domain.ItemOption{
			"opt-small": {ID: "opt-small", Name: "Small"},
			"opt-large": {ID: "opt-large", Name: "Large", PriceCents: 200},
		},
	}, nil
}

type stubSeen struct{ seen map[string]bool }

func (s *stubSeen) Seen(_ context.Context, key string) (bool, error) {
	if s.seen[key] {
		return true, nil
	}
	s.seen[key] = true
	return false, nil
}

func newTestServer(t *testing.T) (*httptest.Server, *stubRepo) {
	t.Helper()
	repo := &stubRepo{orders: make(map[string]orderdomain.Order)}
	svc := application.NewService(logging.New("test"), repo, stubResolver{}, &stubSeen{seen: make(map[string]bool)},
		application.Config{
			Rates:       orderdomain.DefaultTaxRates,
			OrdersTopic: "pos.orders",
			PrintTopic:  "pos.print",
		})
	srv := httptest.NewServer(NewHandler(logging.New("test"), svc).Routes())
	t.Cleanup(srv.Close)
	return srv, repo
}

const submitBody = `{
	"order_type": "dine_in",
	"table_number": 3,
	"guests": 2,
	"staff": {"id": "st-1", "name": "Dana"},
	"lines": [{
		"menu_item_id": "itm-soup",
		"quantity": 2,
		"options": {"grp-size": ["opt-large"]}
	}]
}`

func TestCreateOrder(t *testing.T) {
	srv, repo := newTestServer(t)

	resp, err := http.Post(srv.URL+"/", "application/json", strings.NewReader(submitBody))
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("status = %d, want 201", resp.StatusCode)
	}

	var body orderResp
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatal(err)
	}
	if body.Order.Status != orderdomain.StatusInProgress {
		t.Errorf("status = %s, want in_progress", body.Order.Status)
	}
	if body.Order.SubtotalCents != 2590 {
		t.Errorf("subtotal = %d, want 2590", body.Order.SubtotalCents)
	}
	if body.Totals.TotalCents == 0 {
		t.Error("totals missing from response")
	}
	if len(repo.orders) != 1 {
		t.Fatalf("persisted %d orders, want 1", len(repo.orders))
	}
}

func TestCreateOrderValidation(t *testing.T) {
	srv, repo := newTestServer(t)

	// Dine-in without a table number.
	body := strings.Replace(submitBody, `"table_number": 3,`, "", 1)
	resp, err := http.Post(srv.URL+"/", "application/json", strings.NewReader(body))
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", resp.StatusCode)
	}
	if len(repo.orders) != 0 {
		t.Error("invalid order reached the repository")
	}
}

func TestCreateOrderUnknownMenuItem(t *testing.T) {
	srv, _ := newTestServer(t)

	body := strings.Replace(submitBody, "itm-soup", "itm-gone", 1)
	resp, err := http.Post(srv.URL+"/", "application/json", strings.NewReader(body))
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusUnprocessableEntity {
		t.Errorf("status = %d, want 422", resp.StatusCode)
	}
}

func TestCreateOrderOccupiedTableConflicts(t *testing.T) {
	srv, repo := newTestServer(t)
	repo.submitErr = tabledomain.ConflictError{Number: 3, Message: "already occupied"}

	resp, err := http.Post(srv.URL+"/", "application/json", strings.NewReader(submitBody))
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusConflict {
		t.Errorf("status = %d, want 409", resp.StatusCode)
	}
	var body map[string]string
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(body["error"], "occupied") {
		t.Errorf("error = %q, want the occupancy reason", body["error"])
	}
}

func TestCreateOrderMissingTable(t *testing.T) {
	srv, repo := newTestServer(t)
	repo.submitErr = orderdomain.NotFoundError{Kind: "table", ID: "99"}

	resp, err := http.Post(srv.URL+"/", "application/json", strings.NewReader(submitBody))
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("status = %d, want 404", resp.StatusCode)
	}
}

func TestCreateTakeOutDefaultsReadyMinutes(t *testing.T) {
	srv, _ := newTestServer(t)

	body := `{
		"order_type": "take_out",
		"customer_name": "Sam",
		"staff": {"id": "st-1", "name": "Dana"},
		"lines": [{"menu_item_id": "itm-soup", "options": {"grp-size": ["opt-small"]}}]
	}`
	resp, err := http.Post(srv.URL+"/", "application/json", strings.NewReader(body))
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("status = %d, want 201", resp.StatusCode)
	}
	var got orderResp
	if err := json.NewDecoder(resp.Body).Decode(&got); err != nil {
		t.Fatal(err)
	}
	if got.Order.ReadyMinutes != 20 {
		t.Errorf("ready_minutes = %d, want the 20 minute default", got.Order.ReadyMinutes)
	}
}

func TestCreateTakeOutPreorderSkipsReadyDefault(t *testing.T) {
	srv, _ := newTestServer(t)

	body := `{
		"order_type": "take_out",
		"customer_name": "Sam",
		"is_preorder": true,
		"preorder_at": "2026-09-01T18:30:00Z",
		"staff": {"id": "st-1", "name": "Dana"},
		"lines": [{"menu_item_id": "itm-soup", "options": {"grp-size": ["opt-small"]}}]
	}`
	resp, err := http.Post(srv.URL+"/", "application/json", strings.NewReader(body))
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("status = %d, want 201", resp.StatusCode)
	}
	var got orderResp
	if err := json.NewDecoder(resp.Body).Decode(&got); err != nil {
		t.Fatal(err)
	}
	if !got.Order.IsPreorder || got.Order.ReadyMinutes != 0 {
		t.Errorf("preorder=%v ready_minutes=%d, want preorder with no countdown",
			got.Order.IsPreorder, got.Order.ReadyMinutes)
	}
}

func TestCreateOrderDuplicateRequest(t *testing.T) {
	srv, repo := newTestServer(t)

	for i, want := range []int{http.StatusCreated, http.StatusConflict} {
		req, err := http.NewRequest(http.MethodPost, srv.URL+"/", strings.NewReader(submitBody))
		if err != nil {
			t.Fatal(err)
		}
		req.Header.Set("Idempotency-Key", "req-1")
		resp, err := http.DefaultClient.Do(req)
		if err != nil {
			t.Fatal(err)
		}
		resp.Body.Close()
		if resp.StatusCode != want {
			t.Errorf("attempt %d: status = %d, want %d", i+1, resp.StatusCode, want)
		}
	}
	if len(repo.orders) != 1 {
		t.Errorf("persisted %d orders, want 1", len(repo.orders))
	}
}

func submitOne(t *testing.T, srv *httptest.Server) string {
	t.Helper()
	resp, err := http.Post(srv.URL+"/", "application/json", strings.NewReader(submitBody))
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	var body orderResp
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatal(err)
	}
	return body.Order.ID
}

func TestAdjustQuantity(t *testing.T) {
	srv, repo := newTestServer(t)
	id := submitOne(t, srv)

	var itemID string
	for _, o := range repo.orders {
		itemID = o.Items[0].ID
	}

	req, err := http.NewRequest(http.MethodPatch, srv.URL+"/"+id+"/items/"+itemID,
		strings.NewReader(`{"quantity": 5}`))
	if err != nil {
		t.Fatal(err)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}

	var body orderResp
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatal(err)
	}
	if body.Order.Items[0].Quantity != 5 {
		t.Errorf("quantity = %d, want 5", body.Order.Items[0].Quantity)
	}
	if body.Order.SubtotalCents != 6475 {
		t.Errorf("subtotal = %d, want 6475", body.Order.SubtotalCents)
	}
}

func TestCancelCompletedOrderConflicts(t *testing.T) {
	srv, _ := newTestServer(t)
	id := submitOne(t, srv)

	resp, err := http.Post(srv.URL+"/"+id+"/complete", "application/json", nil)
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("complete status = %d, want 200", resp.StatusCode)
	}

	resp, err = http.Post(srv.URL+"/"+id+"/cancel", "application/json", nil)
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusConflict {
		t.Errorf("cancel status = %d, want 409", resp.StatusCode)
	}
}

func TestGetMissingOrder(t *testing.T) {
	srv, _ := newTestServer(t)

	resp, err := http.Get(srv.URL + "/nope")
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("status = %d, want 404", resp.StatusCode)
	}
}
