package dto

import "github.com/shopspring/decimal"

type AddItemRequest struct {
	ProductID int `json:"product_id" validate:"required,min=1"`
}

// UpdateAmountRequest keeps Amount as a pointer so an explicit zero reaches
// the cart, which treats non-positive amounts as a no-op.
type UpdateAmountRequest struct {
	Amount *int `json:"amount" validate:"required"`
}

type LineItem struct {
	ID       int             `json:"id"`
	Title    string          `json:"title"`
	Price    decimal.Decimal `json:"price"`
	Image    string          `json:"image"`
	Amount   int             `json:"amount"`
	Subtotal decimal.Decimal `json:"subtotal"`
}

// Cart is the rendered cart. TotalItems counts distinct products; TotalUnits
// sums their amounts.
type Cart struct {
	Items      []LineItem      `json:"items"`
	TotalItems int             `json:"total_items"`
	TotalUnits int             `json:"total_units"`
	Subtotal   decimal.Decimal `json:"subtotal"`
}
