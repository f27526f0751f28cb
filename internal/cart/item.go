package cart

import (
	"encoding/json"
	"fmt"

	"github.com/angelmondragon/rocketshoes-cart/internal/catalog"
	"github.com/shopspring/decimal"
)

// LineItem is one product entry in the cart. Its JSON form is the product
// record served by the catalog plus the amount held in the cart.
type LineItem struct {
	ID     int             `json:"id"`
	Title  string          `json:"title"`
	Price  decimal.Decimal `json:"price"`
	Image  string          `json:"image"`
	Amount int             `json:"amount"`
}

// Subtotal is price times amount.
func (i LineItem) Subtotal() decimal.Decimal {
	return i.Price.Mul(decimal.NewFromInt(int64(i.Amount)))
}

// Subtotal sums the line subtotals of items.
func Subtotal(items []LineItem) decimal.Decimal {
	total := decimal.Zero
	for _, item := range items {
		total = total.Add(item.Subtotal())
	}
	return total
}

func newLineItem(p *catalog.Product) LineItem {
	return LineItem{
		ID:     p.ID,
		Title:  p.Title,
		Price:  p.Price,
		Image:  p.Image,
		Amount: 1,
	}
}

func indexOf(items []LineItem, productID int) int {
	for i := range items {
		if items[i].ID == productID {
			return i
		}
	}
	return -1
}

func cloneItems(items []LineItem) []LineItem {
	out := make([]LineItem, len(items))
	copy(out, items)
	return out
}

func encodeItems(items []LineItem) (string, error) {
	if items == nil {
		items = []LineItem{}
	}
	b, err := json.Marshal(items)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// decodeItems parses a stored cart and rejects payloads that break the cart
// invariants: one entry per id and amounts of at least one.
func decodeItems(raw string) ([]LineItem, error) {
	var items []LineItem
	if err := json.Unmarshal([]byte(raw), &items); err != nil {
		return nil, err
	}
	seen := make(map[int]struct{}, len(items))
	for _, item := range items {
		if item.Amount < 1 {
			return nil, fmt.Errorf("item %d has amount %d", item.ID, item.Amount)
		}
		if _, dup := seen[item.ID]; dup {
			return nil, fmt.Errorf("item %d appears more than once", item.ID)
		}
		seen[item.ID] = struct{}{}
	}
	if items == nil {
		items = []LineItem{}
	}
	return items, nil
}
