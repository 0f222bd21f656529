package common

import "errors"

var (
	// ErrEmptyCart is returned when an order is placed from an empty cart.
	ErrEmptyCart = errors.New("cart is empty")

	// ErrTokenExpired marks a token whose expiry has already passed.
	ErrTokenExpired = errors.New("token expired")
)
