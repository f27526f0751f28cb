package cart

import (
	cartdto "github.com/angelmondragon/rocketshoes-cart/api/controllers/cart/dto"
	"github.com/angelmondragon/rocketshoes-cart/internal/cart"
	pkgerrors "github.com/angelmondragon/rocketshoes-cart/pkg/errors"
)

func newCartView(items []cart.LineItem) cartdto.Cart {
	view := cartdto.Cart{
		Items:      make([]cartdto.LineItem, 0, len(items)),
		TotalItems: len(items),
		Subtotal:   cart.Subtotal(items),
	}
	for _, item := range items {
		view.TotalUnits += item.Amount
		view.Items = append(view.Items, cartdto.LineItem{
			ID:       item.ID,
			Title:    item.Title,
			Price:    item.Price,
			Image:    item.Image,
			Amount:   item.Amount,
			Subtotal: item.Subtotal(),
		})
	}
	return view
}

// resultError maps a rejected operation to the typed error rendered to the
// client. The message is the user-facing notice.
func resultError(res cart.Result) error {
	if res.Committed() || res.Outcome == cart.OutcomeIgnored {
		return nil
	}
	details := map[string]any{"product_id": res.ProductID}
	msg := res.Notice()

	switch res.Outcome {
	case cart.OutcomeNotFound:
		return pkgerrors.New(pkgerrors.CodeNotFound, msg)
	case cart.OutcomeOutOfStock:
		return pkgerrors.New(pkgerrors.CodeOutOfStock, msg).WithDetails(details)
	case cart.OutcomeFetchFailed:
		return pkgerrors.Wrap(pkgerrors.CodeDependency, res.Err, msg).WithDetails(details)
	case cart.OutcomeStorageFailed:
		return pkgerrors.Wrap(pkgerrors.CodeStorage, res.Err, msg)
	}
	return pkgerrors.Wrap(pkgerrors.CodeInternal, res.Err, "unknown cart outcome")
}
