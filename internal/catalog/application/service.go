package application

import (
	"context"
	"fmt"
	"log/slog"
	"sort"

	"restaurant-pos/internal/catalog/domain"
	orderdomain "restaurant-pos/internal/order/domain"
)

// Service serves the menu bundle and resolves catalog slices for the
// order composer. Reads go through a versioned cache: bumping the
// stored menu version invalidates stale copies the moment the catalog
// is edited.
type Service struct {
	log   *slog.Logger
	repo  Repository
	cache Cache
}

func NewService(log *slog.Logger, repo Repository, cache Cache) *Service {
	return &Service{log: log, repo: repo, cache: cache}
}

// Menu returns the full catalog bundle at the current version.
func (s *Service) Menu(ctx context.Context) (domain.Menu, error) {
	version, err := s.repo.Version(ctx)
	if err != nil {
		return domain.Menu{}, fmt.Errorf("menu version: %w", err)
	}

	if cached, ok, err := s.cache.Get(ctx, version); err != nil {
		// A broken cache degrades to a database read.
		s.log.Warn("menu cache read failed", "err", err)
	} else if ok {
		return cached, nil
	}

	menu, err := s.repo.LoadMenu(ctx)
	if err != nil {
		return domain.Menu{}, fmt.Errorf("load menu: %w", err)
	}
	menu.Version = version
	sort.Slice(menu.Categories, func(i, j int) bool {
		return menu.Categories[i].Position < menu.Categories[j].Position
	})

	for _, g := range menu.Groups {
		if err := g.Validate(); err != nil {
			return domain.Menu{}, fmt.Errorf("catalog integrity: %w", err)
		}
	}

	if err := s.cache.Set(ctx, menu); err != nil {
		s.log.Warn("menu cache write failed", "err", err)
	}
	return menu, nil
}

// Resolve returns one menu item plus exactly the option groups and
// options it declares — the slice ComposeLineItem consumes.
func (s *Service) Resolve(ctx context.Context, itemID string) (domain.ResolvedItem, error) {
	menu, err := s.Menu(ctx)
	if err != nil {
		return domain.ResolvedItem{}, err
	}

	var item *domain.MenuItem
	for i := range menu.Items {
		if menu.Items[i].ID == itemID {
			item = &menu.Items[i]
			break
		}
	}
	if item == nil {
		return domain.ResolvedItem{}, orderdomain.NotFoundError{Kind: "menu_item", ID: itemID}
	}

	groupsByID := make(map[string]domain.OptionGroup, len(menu.Groups))
	for _, g := range menu.Groups {
		groupsByID[g.ID] = g
	}
	optionsByID := make(map[string]domain.ItemOption, len(menu.Options))
	for _, o := range menu.Options {
		optionsByID[o.ID] = o
	}

	resolved := domain.ResolvedItem{
		Item:    *item,
		Groups:  make(map[string]domain.OptionGroup),
		Options: make(map[string]domain.ItemOption),
	}
	for _, gid := range item.OptionGroupIDs {
		group, ok := groupsByID[gid]
		if !ok {
			return domain.ResolvedItem{}, orderdomain.NotFoundError{Kind: "option_group", ID: gid}
		}
		resolved.Groups[gid] = group
		for _, oid := range group.OptionIDs {
			opt, ok := optionsByID[oid]
			if !ok {
				return domain.ResolvedItem{}, orderdomain.NotFoundError{Kind: "option", ID: oid}
			}
			resolved.Options[oid] = opt
		}
	}
	return resolved, nil
}

// BumpVersion advances the menu version after catalog edits, which
// invalidates every cached bundle.
func (s *Service) BumpVersion(ctx context.Context) (int64, error) {
	return s.repo.BumpVersion(ctx)
}
