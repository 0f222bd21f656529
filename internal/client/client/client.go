package client

import (
	"context"

	"github.com/dmitrijs2005/fooddelivery/internal/client/models"
)

// AuthAPI authenticates and resolves the current identity.
type AuthAPI interface {
	Login(ctx context.Context, username, password string) (models.LoginResponse, error)
	CurrentUser(ctx context.Context) (models.User, error)
}

// MenuAPI manages the remote menu-items resource.
//
// UpdateMenuItem returns the server's answer as a patch: only the fields the
// server actually sent back are set.
type MenuAPI interface {
	ListMenuItems(ctx context.Context) ([]models.MenuItem, error)
	CreateMenuItem(ctx context.Context, draft models.MenuItemDraft) (models.MenuItem, error)
	UpdateMenuItem(ctx context.Context, id int64, patch models.MenuItemPatch) (models.MenuItemPatch, error)
	DeleteMenuItem(ctx context.Context, id int64) error
}

// OrderAPI lists and places orders.
type OrderAPI interface {
	ListOrders(ctx context.Context) ([]models.Order, error)
	PlaceOrder(ctx context.Context, req models.OrderRequest) (models.Order, error)
}

// TaskAPI manages the remote tasks resource.
type TaskAPI interface {
	ListTasks(ctx context.Context) ([]models.Task, error)
	CreateTask(ctx context.Context, draft models.TaskDraft) (models.Task, error)
	UpdateTask(ctx context.Context, task models.Task) (models.Task, error)
	DeleteTask(ctx context.Context, id int64) error
}

// Client is the full remote API surface.
type Client interface {
	AuthAPI
	MenuAPI
	OrderAPI
	TaskAPI
}
