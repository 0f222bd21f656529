package cli

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strconv"
	"strings"
)

var errUnknownCommand = errors.New("unknown command")

type command struct {
	name  string
	usage string
	help  string
	// public commands bypass the access gate.
	public bool
	run    func(a *App, ctx context.Context, args []string) error
}

func commandList() []command {
	return []command{
		{name: "help", usage: "help", help: "show available commands", public: true, run: (*App).help},
		{name: "login", usage: "login [username]", help: "sign in", public: true, run: (*App).login},
		{name: "logout", usage: "logout", help: "sign out", public: true, run: (*App).logout},
		{name: "whoami", usage: "whoami", help: "show the signed-in user", run: (*App).whoami},

		{name: "menu", usage: menuUsage, help: "list menu items", run: (*App).menu},
		{name: "menu-add", usage: "menu-add", help: "create a menu item", run: (*App).menuAdd},
		{name: "menu-edit", usage: "menu-edit <id>", help: "change a menu item", run: (*App).menuEdit},
		{name: "menu-del", usage: "menu-del <id>", help: "delete a menu item", run: (*App).menuDelete},

		{name: "cart", usage: "cart", help: "show the cart", run: (*App).showCart},
		{name: "cart-add", usage: "cart-add <id>", help: "add one unit of a menu item", run: (*App).cartAdd},
		{name: "cart-qty", usage: "cart-qty <id> <n>", help: "set a quantity (0 removes)", run: (*App).cartQuantity},
		{name: "cart-rm", usage: "cart-rm <id>", help: "remove a line", run: (*App).cartRemove},
		{name: "cart-clear", usage: "cart-clear", help: "empty the cart", run: (*App).cartClear},

		{name: "order", usage: "order", help: "place an order from the cart", run: (*App).placeOrder},
		{name: "orders", usage: "orders", help: "list placed orders", run: (*App).listOrders},

		{name: "tasks", usage: "tasks [status=..] [sort=..] [page=N] [search...]", help: "list tasks", run: (*App).listTasks},
		{name: "task-add", usage: "task-add", help: "create a task", run: (*App).taskAdd},
		{name: "task-done", usage: "task-done <id>", help: "mark a task completed", run: (*App).taskDone},
		{name: "task-del", usage: "task-del <id>", help: "delete a task", run: (*App).taskDelete},

		{name: "exit", usage: "exit", help: "leave the program", public: true},
	}
}

func lookupCommand(name string) (command, bool) {
	list := commandList()
	i := slices.IndexFunc(list, func(c command) bool { return c.name == name && c.run != nil })
	if i < 0 {
		return command{}, false
	}
	return list[i], true
}

// Execute runs one command. Protected commands go through the gate; a
// refused command starts a login, and the login resumes it on success.
func (a *App) Execute(ctx context.Context, name string, args []string) error {
	c, ok := lookupCommand(name)
	if !ok {
		return errUnknownCommand
	}

	if !c.public {
		dest := strings.Join(append([]string{name}, args...), " ")
		if d := a.gate.Check(dest); !d.Allowed {
			a.log.Debug(ctx, "command refused by gate", "command", name, "redirect", d.Redirect)
			a.println("Please log in first.")
			return a.login(ctx, nil)
		}
	}
	return c.run(a, ctx, args)
}

// resume runs the command the gate remembered, if any.
func (a *App) resume(ctx context.Context) error {
	parts := strings.Fields(a.gate.ReturnTo(""))
	if len(parts) == 0 {
		return nil
	}
	return a.Execute(ctx, parts[0], parts[1:])
}

func (a *App) help(ctx context.Context, args []string) error {
	a.println("Available commands:")
	for _, c := range commandList() {
		if !c.public && !a.isLoggedIn() {
			continue
		}
		a.println(fmt.Sprintf("  %-28s %s", c.usage, c.help))
	}
	if !a.isLoggedIn() {
		a.println("Log in to see more.")
	}
	return nil
}

type usageError string

func (e usageError) Error() string { return "usage: " + string(e) }

// argID parses args[i] as an id, reporting usage on failure.
func argID(args []string, i int, usage string) (int64, error) {
	if len(args) <= i {
		return 0, usageError(usage)
	}
	id, err := strconv.ParseInt(args[i], 10, 64)
	if err != nil || id <= 0 {
		return 0, usageError(usage)
	}
	return id, nil
}
