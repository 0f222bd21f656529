package models

import (
	"errors"
	"strings"
)

var (
	ErrEmptyName     = errors.New("name must not be empty")
	ErrNegativePrice = errors.New("price must not be negative")
)

// MenuItem is a server-side menu record. ID is assigned by the server.
type MenuItem struct {
	ID          int64   `json:"id"`
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Price       float64 `json:"price"`
}

// MenuItemDraft is a menu item that has not been created yet.
type MenuItemDraft struct {
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Price       float64 `json:"price"`
}

// Validate reports whether the draft can be sent to the server.
func (d MenuItemDraft) Validate() error {
	if strings.TrimSpace(d.Name) == "" {
		return ErrEmptyName
	}
	if d.Price < 0 {
		return ErrNegativePrice
	}
	return nil
}

// MenuItemPatch carries a partial menu item. A nil field is absent.
//
// It is used both for update requests and for decoding the server's
// answer to them, so that only fields the server confirmed take part in
// reconciliation.
type MenuItemPatch struct {
	ID          *int64   `json:"id,omitempty"`
	Name        *string  `json:"name,omitempty"`
	Description *string  `json:"description,omitempty"`
	Price       *float64 `json:"price,omitempty"`
}

// Validate checks the fields that are present.
func (p MenuItemPatch) Validate() error {
	if p.Name != nil && strings.TrimSpace(*p.Name) == "" {
		return ErrEmptyName
	}
	if p.Price != nil && *p.Price < 0 {
		return ErrNegativePrice
	}
	return nil
}

// IsEmpty reports whether no field is set.
func (p MenuItemPatch) IsEmpty() bool {
	return p.Name == nil && p.Description == nil && p.Price == nil
}

// Apply performs a shallow merge: every field present in p overwrites the
// corresponding field of item, absent fields keep item's value. The ID of
// item is never changed.
func (p MenuItemPatch) Apply(item MenuItem) MenuItem {
	if p.Name != nil {
		item.Name = *p.Name
	}
	if p.Description != nil {
		item.Description = *p.Description
	}
	if p.Price != nil {
		item.Price = *p.Price
	}
	return item
}
