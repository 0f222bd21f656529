// Package orders keeps the order history and turns the cart into orders.
package orders

import (
	"context"
	"fmt"
	"slices"
	"sync"

	"github.com/dmitrijs2005/fooddelivery/internal/client/client"
	"github.com/dmitrijs2005/fooddelivery/internal/client/models"
	"github.com/dmitrijs2005/fooddelivery/internal/common"
	"github.com/dmitrijs2005/fooddelivery/internal/logging"
)

// Cart is what placing an order needs from the cart store.
type Cart interface {
	Lines() []models.CartLine
	Total() float64
	Clear()
}

type Store struct {
	api client.OrderAPI
	log logging.Logger

	mu     sync.RWMutex
	orders []models.Order
}

func New(api client.OrderAPI, log logging.Logger) *Store {
	return &Store{api: api, log: log.With("store", "orders")}
}

// Fetch reloads the history. On failure the previous history is kept.
func (s *Store) Fetch(ctx context.Context) error {
	list, err := s.api.ListOrders(ctx)
	if err != nil {
		s.log.Error(ctx, "failed to fetch orders", "op", "fetch", "error", err)
		return fmt.Errorf("failed to fetch orders: %w", err)
	}

	s.mu.Lock()
	s.orders = list
	s.mu.Unlock()
	return nil
}

// Place submits the cart's current lines and total as an order. The cart
// is cleared only after the server has accepted the order.
func (s *Store) Place(ctx context.Context, cart Cart) (models.Order, error) {
	lines := cart.Lines()
	if len(lines) == 0 {
		return models.Order{}, common.ErrEmptyCart
	}

	order, err := s.api.PlaceOrder(ctx, models.OrderRequest{Items: lines, Total: cart.Total()})
	if err != nil {
		s.log.Error(ctx, "failed to place order", "op", "place", "lines", len(lines), "error", err)
		return models.Order{}, fmt.Errorf("failed to place order: %w", err)
	}

	s.mu.Lock()
	s.orders = append(s.orders, order)
	s.mu.Unlock()
	cart.Clear()

	s.log.Info(ctx, "order placed", "id", order.ID, "total", order.Total)
	return order, nil
}

// Orders returns a copy of the history.
func (s *Store) Orders() []models.Order {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.orders)
}
