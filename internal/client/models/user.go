// Package models defines client-side data models used by the food delivery
// client: the signed-in user, menu items, cart lines, orders and tasks.
package models

import (
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"
)

// User is the authenticated identity returned by the server.
type User struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
}

// LoginRequest is the body of POST /api/login.
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// LoginResponse is the body returned by a successful login.
type LoginResponse struct {
	Token string `json:"token"`
	User  User   `json:"user"`
}

// MinPasswordLength is the shortest password the login form accepts.
const MinPasswordLength = 6

var (
	ErrEmptyUsername = errors.New("username is required")
	ErrShortPassword = fmt.Errorf("password must be at least %d characters long", MinPasswordLength)
)

// Validate rejects credentials that cannot be right before they are sent.
func (r LoginRequest) Validate() error {
	if strings.TrimSpace(r.Username) == "" {
		return ErrEmptyUsername
	}
	if utf8.RuneCountInString(r.Password) < MinPasswordLength {
		return ErrShortPassword
	}
	return nil
}
