package application

import (
	"context"
	"errors"
	"log/slog"
	"testing"

	"restaurant-pos/internal/catalog/domain"
	orderdomain "restaurant-pos/internal/order/domain"
)

type mockRepo struct {
	version   int64
	menu      domain.Menu
	loadCalls int
}

func (m *mockRepo) Version(ctx context.Context) (int64, error) { return m.version, nil }
func (m *mockRepo) BumpVersion(ctx context.Context) (int64, error) {
	m.version++
	return m.version, nil
}
func (m *mockRepo) LoadMenu(ctx context.Context) (domain.Menu, error) {
	m.loadCalls++
	return m.menu, nil
}

type mockCache struct {
	byVersion map[int64]domain.Menu
}

func newMockCache() *mockCache {
	return &mockCache{byVersion: make(map[int64]domain.Menu)}
}

func (m *mockCache) Get(ctx context.Context, version int64) (domain.Menu, bool, error) {
	menu, ok := m.byVersion[version]
	return menu, ok, nil
}

func (m *mockCache) Set(ctx context.Context, menu domain.Menu) error {
	m.byVersion[menu.Version] = menu
	return nil
}

func testMenu() domain.Menu {
	return domain.Menu{
		Categories: []domain.FoodCategory{
			{ID: "c-2", Name: "Mains", Position: 2},
			{ID: "c-1", Name: "Appetizers", Position: 1},
		},
		Items: []domain.MenuItem{
			{ID: "item-1", Name: "Wonton Soup", PriceCents: 1000, KitchenType: domain.KitchenA,
				OptionGroupIDs: []string{"g-size"}},
		},
		Groups: []domain.OptionGroup{
			{ID: "g-size", Name: "Size", MinSelection: 1, MaxSelection: 1,
				OptionIDs: []string{"opt-small", "opt-large"}},
		},
		Options: []domain.ItemOption{
			{ID: "opt-small", Name: "Small"},
			{ID: "opt-large", Name: "Large", PriceCents: 200},
		},
	}
}

func TestMenu_CachesByVersion(t *testing.T) {
	repo := &mockRepo{version: 3, menu: testMenu()}
	cache := newMockCache()
	svc := NewService(slog.Default(), repo, cache)

	first, err := svc.Menu(context.Background())
	if err != nil {
		t.Fatalf("menu failed: %v", err)
	}
	if first.Version != 3 {
		t.Errorf("version = %d, want 3", first.Version)
	}
	if first.Categories[0].ID != "c-1" {
		t.Errorf("categories not sorted by position: %v", first.Categories)
	}

	if _, err := svc.Menu(context.Background()); err != nil {
		t.Fatalf("second menu failed: %v", err)
	}
	if repo.loadCalls != 1 {
		t.Errorf("load calls = %d, want 1 (second read served from cache)", repo.loadCalls)
	}

	// Version bump invalidates.
	if _, err := repo.BumpVersion(context.Background()); err != nil {
		t.Fatal(err)
	}
	if _, err := svc.Menu(context.Background()); err != nil {
		t.Fatalf("menu after bump failed: %v", err)
	}
	if repo.loadCalls != 2 {
		t.Errorf("load calls = %d, want 2 after version bump", repo.loadCalls)
	}
}

func TestMenu_RejectsBrokenGroupInvariant(t *testing.T) {
	menu := testMenu()
	menu.Groups[0].MinSelection = 3 // exceeds MaxSelection 1
	repo := &mockRepo{version: 1, menu: menu}
	svc := NewService(slog.Default(), repo, newMockCache())

	if _, err := svc.Menu(context.Background()); err == nil {
		t.Fatal("expected catalog integrity error")
	}
}

func TestResolve(t *testing.T) {
	repo := &mockRepo{version: 1, menu: testMenu()}
	svc := NewService(slog.Default(), repo, newMockCache())

	resolved, err := svc.Resolve(context.Background(), "item-1")
	if err != nil {
		t.Fatalf("resolve failed: %v", err)
	}
	if resolved.Item.Name != "Wonton Soup" {
		t.Errorf("item = %q", resolved.Item.Name)
	}
	if _, ok := resolved.Groups["g-size"]; !ok {
		t.Error("missing declared option group")
	}
	if _, ok := resolved.Options["opt-large"]; !ok {
		t.Error("missing group option")
	}

	_, err = svc.Resolve(context.Background(), "item-9")
	var nfe orderdomain.NotFoundError
	if !errors.As(err, &nfe) || nfe.Kind != "menu_item" {
		t.Errorf("expected menu_item NotFoundError, got %v", err)
	}
}

func TestResolve_DanglingGroupReference(t *testing.T) {
	menu := testMenu()
	menu.Items[0].OptionGroupIDs = []string{"g-missing"}
	repo := &mockRepo{version: 1, menu: menu}
	svc := NewService(slog.Default(), repo, newMockCache())

	_, err := svc.Resolve(context.Background(), "item-1")
	var nfe orderdomain.NotFoundError
	if !errors.As(err, &nfe) || nfe.Kind != "option_group" {
		t.Errorf("expected option_group NotFoundError, got %v", err)
	}
}
