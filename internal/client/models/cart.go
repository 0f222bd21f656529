package models

// CartLine is one menu item and its selected quantity.
type CartLine struct {
	ID       int64   `json:"id"`
	Name     string  `json:"name"`
	Price    float64 `json:"price"`
	Quantity int     `json:"quantity"`
}

// LineTotal returns price multiplied by quantity.
func (l CartLine) LineTotal() float64 {
	return l.Price * float64(l.Quantity)
}

// LineFromMenuItem builds a cart line with quantity 1 for item.
func LineFromMenuItem(item MenuItem) CartLine {
	return CartLine{ID: item.ID, Name: item.Name, Price: item.Price, Quantity: 1}
}
