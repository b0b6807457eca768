package http

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"restaurant-pos/internal/catalog/application"
	"restaurant-pos/internal/catalog/domain"
	"restaurant-pos/pkg/logging"
)

type stubRepo struct {
	version int64
}

func (r *stubRepo) Version(context.Context) (int64, error) { return r.version, nil }

func (r *stubRepo) BumpVersion(context.Context) (int64, error) {
	r.version++
	return r.version, nil
}

func (r *stubRepo) LoadMenu(context.Context) (domain.Menu, error) {
	return domain.Menu{
		Items: []domain.MenuItem{{ID: "itm-soup", Name: "Wonton Soup", PriceCents: 1095, KitchenType: domain.KitchenA}},
	}, nil
}

type noCache struct{}

func (noCache) Get(context.Context, int64) (domain.Menu, bool, error) { return domain.Menu{}, false, nil }
func (noCache) Set(context.Context, domain.Menu) error                { return nil }

func newTestServer(t *testing.T) (*httptest.Server, *stubRepo) {
	t.Helper()
	repo := &stubRepo{version: 1}
	svc := application.NewService(logging.New("test"), repo, noCache{})
	srv := httptest.NewServer(NewHandler(logging.New("test"), svc).Routes())
	t.Cleanup(srv.Close)
	return srv, repo
}

func TestGetMenu(t *testing.T) {
	srv, _ := newTestServer(t)

	resp, err := http.Get(srv.URL + "/")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}

	var menu domain.Menu
	if err := json.NewDecoder(resp.Body).Decode(&menu); err != nil {
		t.Fatal(err)
	}
	if menu.Version != 1 {
		t.Errorf("version = %d, want 1", menu.Version)
	}
	if len(menu.Items) != 1 || menu.Items[0].ID != "itm-soup" {
		t.Errorf("items = %+v, want the stub item", menu.Items)
	}
}

func TestBumpMenuVersion(t *testing.T) {
	srv, repo := newTestServer(t)

	resp, err := http.Post(srv.URL+"/version", "application/json", nil)
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}

	var body map[string]int64
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatal(err)
	}
	if body["version"] != 2 {
		t.Errorf("version = %d, want 2", body["version"])
	}
	if repo.version != 2 {
		t.Errorf("stored version = %d, want 2", repo.version)
	}
}
