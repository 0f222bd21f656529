package cli

import (
	"context"
	"fmt"
	"strconv"

	"github.com/dmitrijs2005/fooddelivery/internal/client/models"
)

func (a *App) showCart(ctx context.Context, args []string) error {
	lines := a.cart.Lines()
	if len(lines) == 0 {
		a.println("The cart is empty.")
		return nil
	}
	a.printLines(lines)
	a.println("Total:", money(a.cart.Total()))
	return nil
}

func (a *App) cartAdd(ctx context.Context, args []string) error {
	id, err := argID(args, 0, "cart-add <id>")
	if err != nil {
		return err
	}
	item, err := a.menuItem(ctx, id)
	if err != nil {
		return err
	}
	a.cart.Add(models.LineFromMenuItem(item))
	a.println(fmt.Sprintf("Added %s. Cart total: %s", item.Name, money(a.cart.Total())))
	return nil
}

func (a *App) cartQuantity(ctx context.Context, args []string) error {
	const usage = "cart-qty <id> <n>"
	id, err := argID(args, 0, usage)
	if err != nil {
		return err
	}
	if len(args) < 2 {
		return usageError(usage)
	}
	n, err := strconv.Atoi(args[1])
	if err != nil {
		return usageError(usage)
	}
	a.cart.UpdateQuantity(id, n)
	return a.showCart(ctx, nil)
}

func (a *App) cartRemove(ctx context.Context, args []string) error {
	id, err := argID(args, 0, "cart-rm <id>")
	if err != nil {
		return err
	}
	a.cart.Remove(id)
	return a.showCart(ctx, nil)
}

func (a *App) cartClear(ctx context.Context, args []string) error {
	a.cart.Clear()
	a.println("Cart cleared.")
	return nil
}
