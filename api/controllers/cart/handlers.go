package cart

import (
	"context"
	"net/http"

	cartdto "github.com/angelmondragon/rocketshoes-cart/api/controllers/cart/dto"
	"github.com/angelmondragon/rocketshoes-cart/api/responses"
	"github.com/angelmondragon/rocketshoes-cart/api/validators"
	"github.com/angelmondragon/rocketshoes-cart/internal/cart"
	pkgerrors "github.com/angelmondragon/rocketshoes-cart/pkg/errors"
	"github.com/angelmondragon/rocketshoes-cart/pkg/logger"
)

const productIDParam = "productID"

// Service is the part of the cart store the handlers need.
type Service interface {
	Items() []cart.LineItem
	Add(ctx context.Context, productID int) cart.Result
	Remove(ctx context.Context, productID int) cart.Result
	UpdateAmount(ctx context.Context, in cart.UpdateAmountInput) cart.Result
}

// CartFetch renders the current cart.
func CartFetch(svc Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "cart service unavailable"))
			return
		}
		responses.WriteSuccess(w, newCartView(svc.Items()))
	}
}

// CartAddItem adds one unit of a product.
func CartAddItem(svc Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "cart service unavailable"))
			return
		}

		var payload cartdto.AddItemRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		writeResult(w, r, logg, svc.Add(r.Context(), payload.ProductID))
	}
}

// CartUpdateAmount sets the amount of a product already in the cart.
func CartUpdateAmount(svc Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "cart service unavailable"))
			return
		}

		productID, err := validators.ParsePathID(r, productIDParam)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload cartdto.UpdateAmountRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		writeResult(w, r, logg, svc.UpdateAmount(r.Context(), toUpdateAmountInput(productID, payload)))
	}
}

// CartRemoveItem removes a product from the cart.
func CartRemoveItem(svc Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "cart service unavailable"))
			return
		}

		productID, err := validators.ParsePathID(r, productIDParam)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		writeResult(w, r, logg, svc.Remove(r.Context(), productID))
	}
}

func writeResult(w http.ResponseWriter, r *http.Request, logg *logger.Logger, res cart.Result) {
	if err := resultError(res); err != nil {
		responses.WriteError(r.Context(), logg, w, err)
		return
	}
	responses.WriteSuccess(w, newCartView(res.Items))
}
