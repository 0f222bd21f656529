package cli

import (
	"fmt"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/dmitrijs2005/fooddelivery/internal/client/models"
)

func money(v float64) string {
	return fmt.Sprintf("%.2f", v)
}

func (a *App) table(header string, rows func(w *tabwriter.Writer)) {
	w := tabwriter.NewWriter(a.out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, header)
	rows(w)
	_ = w.Flush()
}

func (a *App) printMenu(items []models.MenuItem) {
	if len(items) == 0 {
		a.println("The menu is empty.")
		return
	}
	a.table("ID\tNAME\tPRICE\tDESCRIPTION", func(w *tabwriter.Writer) {
		for _, it := range items {
			fmt.Fprintf(w, "%d\t%s\t%s\t%s\n", it.ID, it.Name, money(it.Price), it.Description)
		}
	})
}

func (a *App) printLines(lines []models.CartLine) {
	a.table("ID\tNAME\tPRICE\tQTY\tSUBTOTAL", func(w *tabwriter.Writer) {
		for _, l := range lines {
			fmt.Fprintf(w, "%d\t%s\t%s\t%d\t%s\n", l.ID, l.Name, money(l.Price), l.Quantity, money(l.LineTotal()))
		}
	})
}

func (a *App) printOrders(list []models.Order) {
	if len(list) == 0 {
		a.println("No orders yet.")
		return
	}
	a.table("ID\tPLACED\tITEMS\tTOTAL", func(w *tabwriter.Writer) {
		for _, o := range list {
			names := make([]string, 0, len(o.Items))
			for _, l := range o.Items {
				names = append(names, fmt.Sprintf("%dx %s", l.Quantity, l.Name))
			}
			fmt.Fprintf(w, "%d\t%s\t%s\t%s\n", o.ID, o.CreatedAt.Local().Format(time.DateTime), strings.Join(names, ", "), money(o.Total))
		}
	})
}

func (a *App) printTasks(list []models.Task) {
	a.table("ID\tSTATUS\tCREATED\tTITLE", func(w *tabwriter.Writer) {
		for _, t := range list {
			fmt.Fprintf(w, "%d\t%s\t%s\t%s\n", t.ID, t.Status, t.CreatedAt.Local().Format(time.DateOnly), t.Title)
		}
	})
}
