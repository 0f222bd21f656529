package models

import "time"

// Order is a placed order as recorded by the server.
type Order struct {
	ID        int64      `json:"id"`
	Items     []CartLine `json:"items"`
	Total     float64    `json:"total"`
	CreatedAt time.Time  `json:"createdAt"`
}

// OrderRequest is the body of POST /api/orders.
type OrderRequest struct {
	Items []CartLine `json:"items"`
	Total float64    `json:"total"`
}
