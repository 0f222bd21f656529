package cli

import (
	"context"
	"fmt"
)

func (a *App) placeOrder(ctx context.Context, args []string) error {
	order, err := a.orders.Place(ctx, a.cart)
	if err != nil {
		return err
	}
	a.println(fmt.Sprintf("Order %d placed, total %s.", order.ID, money(order.Total)))
	return nil
}

func (a *App) listOrders(ctx context.Context, args []string) error {
	err := a.orders.Fetch(ctx)
	a.printOrders(a.orders.Orders())
	return err
}
