package cli

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/dmitrijs2005/fooddelivery/internal/client/models"
	"github.com/dmitrijs2005/fooddelivery/internal/client/tasks"
)

const tasksUsage = "tasks [status=all|pending|completed] [sort=title|createdAt|status] [page=N] [search...]"

// parseTaskQuery reads key=value options; every other word is search text.
func parseTaskQuery(args []string) (tasks.Query, error) {
	q := tasks.Query{Status: tasks.StatusAll, SortBy: tasks.SortByCreatedAt, Page: 1}
	var search []string
	for _, arg := range args {
		key, value, ok := strings.Cut(arg, "=")
		if !ok {
			search = append(search, arg)
			continue
		}
		switch key {
		case "status":
			switch f := tasks.StatusFilter(value); f {
			case tasks.StatusAll, tasks.StatusPending, tasks.StatusCompleted:
				q.Status = f
			default:
				return q, usageError(tasksUsage)
			}
		case "sort":
			switch k := tasks.SortKey(value); k {
			case tasks.SortByTitle, tasks.SortByCreatedAt, tasks.SortByStatus:
				q.SortBy = k
			default:
				return q, usageError(tasksUsage)
			}
		case "page":
			n, err := strconv.Atoi(value)
			if err != nil || n < 1 {
				return q, usageError(tasksUsage)
			}
			q.Page = n
		default:
			search = append(search, arg)
		}
	}
	q.Search = strings.Join(search, " ")
	return q, nil
}

func (a *App) listTasks(ctx context.Context, args []string) error {
	q, err := parseTaskQuery(args)
	if err != nil {
		return err
	}
	fetchErr := a.tasks.Fetch(ctx)

	page := a.tasks.Query(q)
	if len(page.Tasks) == 0 {
		a.println("No tasks.")
	} else {
		a.printTasks(page.Tasks)
		a.println(fmt.Sprintf("Page %d of %d", page.Page, page.TotalPages))
	}
	return fetchErr
}

func (a *App) taskAdd(ctx context.Context, args []string) error {
	title, err := getSimpleText(a.reader, "Enter title", a.out)
	if err != nil {
		return err
	}
	description, err := GetMultiline(a.reader, "Enter description", a.out)
	if err != nil {
		return err
	}
	task, err := a.tasks.Create(ctx, models.TaskDraft{Title: title, Description: description})
	if err != nil {
		return err
	}
	a.println(fmt.Sprintf("Created task %d.", task.ID))
	return nil
}

func (a *App) taskDone(ctx context.Context, args []string) error {
	id, err := argID(args, 0, "task-done <id>")
	if err != nil {
		return err
	}
	if _, ok := a.tasks.Task(id); !ok {
		if err := a.tasks.Fetch(ctx); err != nil {
			return err
		}
	}
	if _, err := a.tasks.Complete(ctx, id); err != nil {
		return err
	}
	a.println(fmt.Sprintf("Task %d completed.", id))
	return nil
}

func (a *App) taskDelete(ctx context.Context, args []string) error {
	id, err := argID(args, 0, "task-del <id>")
	if err != nil {
		return err
	}
	if err := a.tasks.Delete(ctx, id); err != nil {
		return err
	}
	a.println(fmt.Sprintf("Deleted task %d.", id))
	return nil
}
