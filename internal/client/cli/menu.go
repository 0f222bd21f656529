package cli

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/dmitrijs2005/fooddelivery/internal/client/catalog"
	"github.com/dmitrijs2005/fooddelivery/internal/client/client"
	"github.com/dmitrijs2005/fooddelivery/internal/client/models"
)

const menuUsage = "menu [sort=name|price] [page=N] [search...]"

// parseMenuQuery reads key=value options; every other word is search text.
func parseMenuQuery(args []string) (catalog.Query, error) {
	q := catalog.Query{SortBy: catalog.SortByName, Page: 1}
	var search []string
	for _, arg := range args {
		key, value, ok := strings.Cut(arg, "=")
		switch {
		case ok && key == "sort":
			switch k := catalog.SortKey(value); k {
			case catalog.SortByName, catalog.SortByPrice:
				q.SortBy = k
			default:
				return q, usageError(menuUsage)
			}
		case ok && key == "page":
			n, err := strconv.Atoi(value)
			if err != nil || n < 1 {
				return q, usageError(menuUsage)
			}
			q.Page = n
		default:
			search = append(search, arg)
		}
	}
	q.Search = strings.Join(search, " ")
	return q, nil
}

// menu refreshes the catalog and prints one page of it. If the refresh
// fails the cached items are still shown.
func (a *App) menu(ctx context.Context, args []string) error {
	q, err := parseMenuQuery(args)
	if err != nil {
		return err
	}
	fetchErr := a.catalog.Fetch(ctx)

	page := a.catalog.Query(q)
	switch {
	case len(page.Items) > 0:
		a.printMenu(page.Items)
		a.println(fmt.Sprintf("Page %d of %d", page.Page, page.TotalPages))
	case len(a.catalog.Items()) > 0:
		a.println("No matching menu items.")
	default:
		a.printMenu(nil)
	}
	return fetchErr
}

func (a *App) menuAdd(ctx context.Context, args []string) error {
	name, err := getSimpleText(a.reader, "Enter name", a.out)
	if err != nil {
		return err
	}
	description, err := getSimpleText(a.reader, "Enter description", a.out)
	if err != nil {
		return err
	}
	rawPrice, err := getSimpleText(a.reader, "Enter price", a.out)
	if err != nil {
		return err
	}
	price, err := parsePrice(rawPrice)
	if err != nil {
		return err
	}

	item, err := a.catalog.Create(ctx, models.MenuItemDraft{Name: name, Description: description, Price: price})
	if err != nil {
		return err
	}
	a.println(fmt.Sprintf("Created menu item %d.", item.ID))
	return nil
}

// menuEdit prompts for each field showing the current value; an empty
// answer keeps it. Only changed fields are sent.
func (a *App) menuEdit(ctx context.Context, args []string) error {
	id, err := argID(args, 0, "menu-edit <id>")
	if err != nil {
		return err
	}
	current, err := a.menuItem(ctx, id)
	if err != nil {
		return err
	}

	var patch models.MenuItemPatch
	name, err := getSimpleText(a.reader, fmt.Sprintf("Name [%s]", current.Name), a.out)
	if err != nil {
		return err
	}
	if name != "" && name != current.Name {
		patch.Name = &name
	}
	description, err := getSimpleText(a.reader, fmt.Sprintf("Description [%s]", current.Description), a.out)
	if err != nil {
		return err
	}
	if description != "" && description != current.Description {
		patch.Description = &description
	}
	rawPrice, err := getSimpleText(a.reader, fmt.Sprintf("Price [%s]", money(current.Price)), a.out)
	if err != nil {
		return err
	}
	if rawPrice != "" {
		price, err := parsePrice(rawPrice)
		if err != nil {
			return err
		}
		if price != current.Price {
			patch.Price = &price
		}
	}

	if patch.IsEmpty() {
		a.println("Nothing to change.")
		return nil
	}
	updated, err := a.catalog.Update(ctx, id, patch)
	if err != nil {
		return err
	}
	a.printMenu([]models.MenuItem{updated})
	return nil
}

func (a *App) menuDelete(ctx context.Context, args []string) error {
	id, err := argID(args, 0, "menu-del <id>")
	if err != nil {
		return err
	}
	if err := a.catalog.Delete(ctx, id); err != nil {
		return err
	}
	a.println(fmt.Sprintf("Deleted menu item %d.", id))
	return nil
}

// menuItem looks id up in the catalog, fetching it once on a miss.
func (a *App) menuItem(ctx context.Context, id int64) (models.MenuItem, error) {
	if it, ok := a.catalog.Item(id); ok {
		return it, nil
	}
	if err := a.catalog.Fetch(ctx); err != nil {
		return models.MenuItem{}, err
	}
	if it, ok := a.catalog.Item(id); ok {
		return it, nil
	}
	return models.MenuItem{}, fmt.Errorf("menu item %d: %w", id, client.ErrNotFound)
}

func parsePrice(s string) (float64, error) {
	price, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid price %q", s)
	}
	return price, nil
}
