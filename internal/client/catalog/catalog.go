// Package catalog mirrors the server's menu items.
//
// Local state changes only after the server has confirmed an operation. A
// failed operation leaves the list as it was, records one shared error
// message and returns the error to the caller.
package catalog

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"sync"

	"github.com/dmitrijs2005/fooddelivery/internal/client/client"
	"github.com/dmitrijs2005/fooddelivery/internal/client/models"
	"github.com/dmitrijs2005/fooddelivery/internal/client/observe"
	"github.com/dmitrijs2005/fooddelivery/internal/logging"
)

const (
	msgFetch  = "failed to fetch menu items"
	msgCreate = "failed to create menu item"
	msgUpdate = "failed to update menu item"
	msgDelete = "failed to delete menu item"
)

// PageSize is the number of menu items on one page.
const PageSize = 6

// SortKey orders a view. The empty value sorts by name.
type SortKey string

const (
	SortByName  SortKey = "name"
	SortByPrice SortKey = "price"
)

// Query describes one view of the menu. Page is 1-based; values below 1
// are treated as 1.
type Query struct {
	Search string
	SortBy SortKey
	Page   int
}

// Page is one page of a view.
type Page struct {
	Items      []models.MenuItem
	Page       int
	TotalPages int
}

// State is the catalog as seen by observers.
type State struct {
	Items   []models.MenuItem
	Loading bool
	Err     string
}

type Store struct {
	api client.MenuAPI
	log logging.Logger

	mu      sync.RWMutex
	items   []models.MenuItem
	loading bool
	errMsg  string
	// fetchSeq is the number of the most recently issued fetch. Only that
	// fetch may apply its response.
	fetchSeq uint64
	// mutations counts confirmed creates, updates and deletes. A fetch that
	// was issued before one of them carries a stale snapshot.
	mutations uint64

	subs observe.Subscribers[State]
}

func New(api client.MenuAPI, log logging.Logger) *Store {
	return &Store{api: api, log: log.With("store", "catalog")}
}

// Fetch replaces the local list with the server's.
//
// When fetches overlap, only the one issued last is applied; earlier
// responses are dropped whenever they arrive. Loading stays true until the
// last issued fetch has completed. A response that predates a confirmed
// mutation does not replace the list.
func (s *Store) Fetch(ctx context.Context) error {
	s.mu.Lock()
	s.fetchSeq++
	seq := s.fetchSeq
	gen := s.mutations
	s.loading = true
	s.mu.Unlock()
	s.notify()

	items, err := s.api.ListMenuItems(ctx)

	s.mu.Lock()
	if seq != s.fetchSeq {
		s.mu.Unlock()
		s.log.Debug(ctx, "dropping superseded menu fetch", "seq", seq, "error", err)
		if err != nil {
			return fmt.Errorf("%s: %w", msgFetch, err)
		}
		return nil
	}
	s.loading = false
	stale := gen != s.mutations
	if err != nil {
		s.errMsg = msgFetch
	} else {
		if !stale {
			s.items = items
		}
		s.errMsg = ""
	}
	s.mu.Unlock()
	s.notify()

	if err != nil {
		s.log.Error(ctx, msgFetch, "op", "fetch", "error", err)
		return fmt.Errorf("%s: %w", msgFetch, err)
	}
	if stale {
		s.log.Debug(ctx, "dropping menu fetch older than a confirmed change", "seq", seq)
		return nil
	}
	s.log.Debug(ctx, "menu fetched", "items", len(items))
	return nil
}

// Create sends draft to the server and appends the created record.
func (s *Store) Create(ctx context.Context, draft models.MenuItemDraft) (models.MenuItem, error) {
	if err := draft.Validate(); err != nil {
		return models.MenuItem{}, fmt.Errorf("%w: %w", client.ErrInvalidRequest, err)
	}

	item, err := s.api.CreateMenuItem(ctx, draft)
	if err != nil {
		return models.MenuItem{}, s.fail(ctx, "create", msgCreate, err)
	}

	s.mu.Lock()
	s.items = append(s.items, item)
	s.mutations++
	s.mu.Unlock()
	s.notify()

	s.log.Info(ctx, "menu item created", "id", item.ID)
	return item, nil
}

// Update sends patch for item id and merges the fields the server returned
// over the local record: confirmed fields win, fields the server did not
// send keep their local value.
func (s *Store) Update(ctx context.Context, id int64, patch models.MenuItemPatch) (models.MenuItem, error) {
	if err := patch.Validate(); err != nil {
		return models.MenuItem{}, fmt.Errorf("%w: %w", client.ErrInvalidRequest, err)
	}

	confirmed, err := s.api.UpdateMenuItem(ctx, id, patch)
	if err != nil {
		return models.MenuItem{}, s.fail(ctx, "update", msgUpdate, err)
	}

	s.mu.Lock()
	merged := confirmed.Apply(models.MenuItem{ID: id})
	if i := s.index(id); i >= 0 {
		merged = confirmed.Apply(s.items[i])
		s.items[i] = merged
	}
	s.mutations++
	s.mu.Unlock()
	s.notify()

	s.log.Info(ctx, "menu item updated", "id", id)
	return merged, nil
}

// Delete removes item id on the server, then locally.
func (s *Store) Delete(ctx context.Context, id int64) error {
	if err := s.api.DeleteMenuItem(ctx, id); err != nil {
		return s.fail(ctx, "delete", msgDelete, err)
	}

	s.mu.Lock()
	if i := s.index(id); i >= 0 {
		s.items = slices.Delete(s.items, i, i+1)
	}
	s.mutations++
	s.mu.Unlock()
	s.notify()

	s.log.Info(ctx, "menu item deleted", "id", id)
	return nil
}

// Items returns a copy of the cached list.
func (s *Store) Items() []models.MenuItem {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.items)
}

// Item looks up a cached record.
func (s *Store) Item(id int64) (models.MenuItem, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if i := s.index(id); i >= 0 {
		return s.items[i], true
	}
	return models.MenuItem{}, false
}

// Query filters by a case-insensitive name search, sorts, and cuts out
// the requested page. A page past the end is empty.
func (s *Store) Query(q Query) Page {
	s.mu.RLock()
	view := slices.Clone(s.items)
	s.mu.RUnlock()

	search := strings.ToLower(q.Search)
	view = slices.DeleteFunc(view, func(it models.MenuItem) bool {
		return !strings.Contains(strings.ToLower(it.Name), search)
	})

	switch q.SortBy {
	case SortByPrice:
		slices.SortStableFunc(view, func(a, b models.MenuItem) int { return cmp.Compare(a.Price, b.Price) })
	default:
		slices.SortStableFunc(view, func(a, b models.MenuItem) int {
			return cmp.Or(
				cmp.Compare(strings.ToLower(a.Name), strings.ToLower(b.Name)),
				cmp.Compare(a.Name, b.Name),
			)
		})
	}

	page := max(q.Page, 1)
	totalPages := (len(view) + PageSize - 1) / PageSize
	from := min((page-1)*PageSize, len(view))
	to := min(from+PageSize, len(view))

	return Page{Items: view[from:to], Page: page, TotalPages: totalPages}
}

func (s *Store) Loading() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loading
}

// Err returns the message of the last failure, or "" once a fetch
// has succeeded since.
func (s *Store) Err() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.errMsg
}

func (s *Store) Subscribe(fn func(State)) (unsubscribe func()) {
	return s.subs.Subscribe(fn)
}

func (s *Store) fail(ctx context.Context, op, msg string, err error) error {
	s.mu.Lock()
	s.errMsg = msg
	s.mu.Unlock()
	s.notify()

	var se *client.StatusError
	if errors.As(err, &se) {
		s.log.Error(ctx, msg, "op", op, "status", se.Status, "error", err)
	} else {
		s.log.Error(ctx, msg, "op", op, "error", err)
	}
	return fmt.Errorf("%s: %w", msg, err)
}

func (s *Store) index(id int64) int {
	return slices.IndexFunc(s.items, func(it models.MenuItem) bool { return it.ID == id })
}

func (s *Store) notify() {
	s.mu.RLock()
	st := State{Items: slices.Clone(s.items), Loading: s.loading, Err: s.errMsg}
	s.mu.RUnlock()
	s.subs.Notify(st)
}
