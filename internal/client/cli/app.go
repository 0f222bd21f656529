package cli

import (
	"bufio"
	"context"
	"database/sql"
	"fmt"
	"io"
	"os"

	"github.com/dmitrijs2005/fooddelivery/internal/client/cart"
	"github.com/dmitrijs2005/fooddelivery/internal/client/catalog"
	"github.com/dmitrijs2005/fooddelivery/internal/client/client"
	"github.com/dmitrijs2005/fooddelivery/internal/client/config"
	"github.com/dmitrijs2005/fooddelivery/internal/client/gate"
	"github.com/dmitrijs2005/fooddelivery/internal/client/orders"
	"github.com/dmitrijs2005/fooddelivery/internal/client/repositories/metadata"
	"github.com/dmitrijs2005/fooddelivery/internal/client/session"
	"github.com/dmitrijs2005/fooddelivery/internal/client/tasks"
	"github.com/dmitrijs2005/fooddelivery/internal/common"
	"github.com/dmitrijs2005/fooddelivery/internal/logging"
	"golang.org/x/oauth2"
)

type App struct {
	config *config.Config
	log    logging.Logger
	db     *sql.DB
	creds  *metadata.CredentialStore

	session *session.Store
	cart    *cart.Store
	catalog *catalog.Store
	orders  *orders.Store
	tasks   *tasks.Store
	gate    *gate.Gate

	reader *bufio.Reader
	out    io.Writer
}

// NewApp opens the local database and builds the stores on top of an HTTP
// API client for c.ServerURL.
func NewApp(ctx context.Context, c *config.Config) (*App, error) {
	log := logging.New(os.Stderr, c.LogLevel)

	db, err := client.InitDatabase(ctx, c.DBPath)
	if err != nil {
		log.Error(ctx, "error initializing database", "path", c.DBPath, "error", err)
		return nil, err
	}

	a := &App{config: c, log: log, db: db, reader: bufio.NewReader(os.Stdin), out: os.Stdout}

	// The session is the token source, but it needs the API client to log
	// in, so the source is bound late.
	src := client.TokenSourceFunc(func() (*oauth2.Token, error) { return a.session.Token() })
	api, err := client.NewHTTPClient(c.ServerURL,
		client.WithTokenSource(src),
		client.WithTimeout(c.RequestTimeout),
		client.WithLogger(log),
	)
	if err != nil {
		_ = db.Close()
		return nil, err
	}

	a.wire(api, metadata.NewCredentialStore(db))
	return a, nil
}

func (a *App) wire(api client.Client, creds *metadata.CredentialStore) {
	a.creds = creds
	a.session = session.New(api, creds, a.log)
	a.cart = cart.New()
	a.catalog = catalog.New(api, a.log)
	a.orders = orders.New(api, a.log)
	a.tasks = tasks.New(api, a.log)
	a.gate = gate.New(a.session, common.LoginPath)
}

// Run restores the previous session and serves the REPL until the user
// exits or input ends.
func (a *App) Run(ctx context.Context) {
	defer a.Close()

	if err := a.session.Restore(ctx); err != nil {
		a.println("Previous session could not be restored, please log in.")
	} else if u, ok := a.session.User(); ok {
		a.println("Welcome back,", u.Username)
	}

	a.println("Food delivery back office (type 'help' for commands)")
	runREPL(ctx, a, a.getStatus, a.reader)
}

// Close releases the local database.
func (a *App) Close() {
	if a.db == nil {
		return
	}
	if err := a.db.Close(); err != nil {
		a.log.Error(context.Background(), "closing database", "error", err)
	}
	a.db = nil
}

func (a *App) isLoggedIn() bool {
	return a.session.IsAuthenticated()
}

func (a *App) getStatus() string {
	u, ok := a.session.User()
	if !ok {
		return "(anonymous)"
	}
	if n := a.cart.Count(); n > 0 {
		return fmt.Sprintf("(%s, cart: %d)", u.Username, n)
	}
	return fmt.Sprintf("(%s)", u.Username)
}

func (a *App) println(args ...any) {
	fmt.Fprintln(a.out, args...)
}
