// Package apitest runs an in-memory implementation of the food delivery
// API for tests. It issues real HS256 JWTs, enforces bearer auth on every
// route except login, records requests and can be told to fail calls.
package apitest

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sort"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/dmitrijs2005/fooddelivery/internal/client/models"
	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
	"golang.org/x/oauth2"
)

const userKey = "user"

// Request is what the server saw for one call.
type Request struct {
	Method        string
	Path          string
	Authorization string
	RequestID     string
	Body          []byte
}

type account struct {
	user     models.User
	password string
}

type claims struct {
	UserID   int64  `json:"uid"`
	Username string `json:"username"`
	jwt.RegisteredClaims
}

// Server is the fake API. Zero values are not usable; call NewServer.
type Server struct {
	*httptest.Server

	// PartialUpdates makes PUT /api/menu-items/{id} answer with only the
	// id and the fields that were sent, instead of the full record.
	PartialUpdates bool

	// TokenTTL is the lifetime of tokens issued by login.
	TokenTTL time.Duration

	mu       sync.Mutex
	secret   []byte
	accounts map[string]account
	menu     []models.MenuItem
	orders   []models.Order
	tasks    []models.Task
	nextID   int64
	failures map[string][]int
	requests []Request
}

// NewServer starts a server and stops it when the test ends.
func NewServer(t testing.TB) *Server {
	t.Helper()

	s := &Server{
		TokenTTL: time.Hour,
		secret:   []byte("apitest-secret"),
		accounts: make(map[string]account),
		nextID:   100,
		failures: make(map[string][]int),
	}
	s.Server = httptest.NewServer(s.routes())
	t.Cleanup(s.Close)
	return s
}

func (s *Server) routes() *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Use(s.record, s.injectFailures)

	e.POST("/api/login", s.login)
	e.GET("/api/user", s.currentUser, s.requireAuth)

	e.GET("/api/menu-items", s.listMenu, s.requireAuth)
	e.POST("/api/menu-items", s.createMenu, s.requireAuth)
	e.PUT("/api/menu-items/:id", s.updateMenu, s.requireAuth)
	e.DELETE("/api/menu-items/:id", s.deleteMenu, s.requireAuth)

	e.GET("/api/orders", s.listOrders, s.requireAuth)
	e.POST("/api/orders", s.placeOrder, s.requireAuth)

	e.GET("/api/tasks", s.listTasks, s.requireAuth)
	e.POST("/api/tasks", s.createTask, s.requireAuth)
	e.PUT("/api/tasks/:id", s.updateTask, s.requireAuth)
	e.DELETE("/api/tasks/:id", s.deleteTask, s.requireAuth)
	return e
}

// AddUser registers an account that can log in.
func (s *Server) AddUser(id int64, username, password string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.accounts[username] = account{user: models.User{ID: id, Username: username}, password: password}
}

// SeedMenu replaces the menu.
func (s *Server) SeedMenu(items ...models.MenuItem) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.menu = append([]models.MenuItem(nil), items...)
}

// SeedTasks replaces the task list.
func (s *Server) SeedTasks(tasks ...models.Task) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tasks = append([]models.Task(nil), tasks...)
}

// Menu returns a copy of the server-side menu.
func (s *Server) Menu() []models.MenuItem {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]models.MenuItem(nil), s.menu...)
}

// Orders returns a copy of the placed orders.
func (s *Server) Orders() []models.Order {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]models.Order(nil), s.orders...)
}

// FailNext makes the next call to method+path answer with status.
// Calls queue up: FailNext twice fails the next two calls.
func (s *Server) FailNext(method, path string, status int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := method + " " + path
	s.failures[key] = append(s.failures[key], status)
}

// Requests returns every request seen so far.
func (s *Server) Requests() []Request {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Request(nil), s.requests...)
}

// LastRequest returns the most recent request to method+path.
func (s *Server) LastRequest(method, path string) (Request, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := len(s.requests) - 1; i >= 0; i-- {
		if r := s.requests[i]; r.Method == method && r.Path == path {
			return r, true
		}
	}
	return Request{}, false
}

// IssueToken signs a token for user valid for ttl (negative ttl yields an
// already expired token).
func (s *Server) IssueToken(user models.User, ttl time.Duration) string {
	c := claims{
		UserID:   user.ID,
		Username: user.Username,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatInt(user.ID, 10),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(ttl)),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, c).SignedString(s.secret)
	if err != nil {
		panic(err)
	}
	return signed
}

// TokenSource returns a source that always yields a valid token for user,
// for tests that start out signed in.
func (s *Server) TokenSource(user models.User) oauth2.TokenSource {
	return oauth2.StaticTokenSource(&oauth2.Token{AccessToken: s.IssueToken(user, s.TokenTTL), TokenType: "Bearer"})
}

func (s *Server) record(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		r := c.Request()
		var body []byte
		if r.Body != nil {
			var raw json.RawMessage
			if err := json.NewDecoder(r.Body).Decode(&raw); err == nil {
				body = raw
			}
			r.Body = readCloser(body)
		}

		s.mu.Lock()
		s.requests = append(s.requests, Request{
			Method:        r.Method,
			Path:          r.URL.Path,
			Authorization: r.Header.Get("Authorization"),
			RequestID:     r.Header.Get("X-Request-ID"),
			Body:          body,
		})
		s.mu.Unlock()

		return next(c)
	}
}

func (s *Server) injectFailures(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		key := c.Request().Method + " " + c.Request().URL.Path

		s.mu.Lock()
		queue := s.failures[key]
		status := 0
		if len(queue) > 0 {
			status, s.failures[key] = queue[0], queue[1:]
		}
		s.mu.Unlock()

		if status != 0 {
			return c.JSON(status, map[string]string{"error": http.StatusText(status)})
		}
		return next(c)
	}
}

func (s *Server) requireAuth(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		raw, ok := strings.CutPrefix(c.Request().Header.Get("Authorization"), "Bearer ")
		if !ok || raw == "" {
			return c.JSON(http.StatusUnauthorized, map[string]string{"error": "missing token"})
		}

		parsed := new(claims)
		_, err := jwt.ParseWithClaims(raw, parsed, func(*jwt.Token) (any, error) {
			return s.secret, nil
		}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
		if err != nil {
			return c.JSON(http.StatusUnauthorized, map[string]string{"error": "invalid token"})
		}

		c.Set(userKey, models.User{ID: parsed.UserID, Username: parsed.Username})
		return next(c)
	}
}

func (s *Server) login(c echo.Context) error {
	var req models.LoginRequest
	if err := json.NewDecoder(c.Request().Body).Decode(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid body"})
	}

	s.mu.Lock()
	acc, ok := s.accounts[req.Username]
	s.mu.Unlock()
	if !ok || acc.password != req.Password {
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": "invalid credentials"})
	}

	return c.JSON(http.StatusOK, models.LoginResponse{Token: s.IssueToken(acc.user, s.TokenTTL), User: acc.user})
}

func (s *Server) currentUser(c echo.Context) error {
	return c.JSON(http.StatusOK, c.Get(userKey).(models.User))
}

func (s *Server) listMenu(c echo.Context) error {
	return c.JSON(http.StatusOK, s.Menu())
}

func (s *Server) createMenu(c echo.Context) error {
	var draft models.MenuItemDraft
	if err := json.NewDecoder(c.Request().Body).Decode(&draft); err != nil || draft.Validate() != nil {
		return c.JSON(http.StatusUnprocessableEntity, map[string]string{"error": "invalid menu item"})
	}

	s.mu.Lock()
	s.nextID++
	item := models.MenuItem{ID: s.nextID, Name: draft.Name, Description: draft.Description, Price: draft.Price}
	s.menu = append(s.menu, item)
	s.mu.Unlock()

	return c.JSON(http.StatusCreated, item)
}

func (s *Server) updateMenu(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid id"})
	}
	var patch models.MenuItemPatch
	if err := json.NewDecoder(c.Request().Body).Decode(&patch); err != nil || patch.Validate() != nil {
		return c.JSON(http.StatusUnprocessableEntity, map[string]string{"error": "invalid menu item"})
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for i, item := range s.menu {
		if item.ID != id {
			continue
		}
		s.menu[i] = patch.Apply(item)
		if s.PartialUpdates {
			patch.ID = &id
			return c.JSON(http.StatusOK, patch)
		}
		return c.JSON(http.StatusOK, s.menu[i])
	}
	return c.JSON(http.StatusNotFound, map[string]string{"error": "menu item not found"})
}

func (s *Server) deleteMenu(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid id"})
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for i, item := range s.menu {
		if item.ID == id {
			s.menu = append(s.menu[:i], s.menu[i+1:]...)
			return c.NoContent(http.StatusNoContent)
		}
	}
	return c.JSON(http.StatusNotFound, map[string]string{"error": "menu item not found"})
}

func (s *Server) listOrders(c echo.Context) error {
	return c.JSON(http.StatusOK, s.Orders())
}

func (s *Server) placeOrder(c echo.Context) error {
	var req models.OrderRequest
	if err := json.NewDecoder(c.Request().Body).Decode(&req); err != nil || len(req.Items) == 0 {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid order"})
	}

	s.mu.Lock()
	s.nextID++
	order := models.Order{ID: s.nextID, Items: req.Items, Total: req.Total, CreatedAt: time.Now().UTC()}
	s.orders = append(s.orders, order)
	s.mu.Unlock()

	return c.JSON(http.StatusCreated, order)
}

func (s *Server) listTasks(c echo.Context) error {
	s.mu.Lock()
	tasks := append([]models.Task(nil), s.tasks...)
	s.mu.Unlock()
	sort.SliceStable(tasks, func(i, j int) bool { return tasks[i].ID < tasks[j].ID })
	return c.JSON(http.StatusOK, tasks)
}

func (s *Server) createTask(c echo.Context) error {
	var draft models.TaskDraft
	if err := json.NewDecoder(c.Request().Body).Decode(&draft); err != nil || draft.Validate() != nil {
		return c.JSON(http.StatusUnprocessableEntity, map[string]string{"error": "invalid task"})
	}

	s.mu.Lock()
	s.nextID++
	task := models.Task{ID: s.nextID, Title: draft.Title, Description: draft.Description, Status: models.TaskPending, CreatedAt: time.Now().UTC()}
	s.tasks = append(s.tasks, task)
	s.mu.Unlock()

	return c.JSON(http.StatusCreated, task)
}

func (s *Server) updateTask(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid id"})
	}
	var in models.Task
	if err := json.NewDecoder(c.Request().Body).Decode(&in); err != nil || in.Validate() != nil {
		return c.JSON(http.StatusUnprocessableEntity, map[string]string{"error": "invalid task"})
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for i, task := range s.tasks {
		if task.ID == id {
			task.Title, task.Description, task.Status = in.Title, in.Description, in.Status
			s.tasks[i] = task
			return c.JSON(http.StatusOK, task)
		}
	}
	return c.JSON(http.StatusNotFound, map[string]string{"error": "task not found"})
}

func (s *Server) deleteTask(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid id"})
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for i, task := range s.tasks {
		if task.ID == id {
			s.tasks = append(s.tasks[:i], s.tasks[i+1:]...)
			return c.NoContent(http.StatusNoContent)
		}
	}
	return c.JSON(http.StatusNotFound, map[string]string{"error": "task not found"})
}
