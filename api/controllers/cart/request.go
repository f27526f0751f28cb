package cart

import (
	cartdto "github.com/angelmondragon/rocketshoes-cart/api/controllers/cart/dto"
	"github.com/angelmondragon/rocketshoes-cart/internal/cart"
)

func toUpdateAmountInput(productID int, payload cartdto.UpdateAmountRequest) cart.UpdateAmountInput {
	return cart.UpdateAmountInput{
		ProductID: productID,
		Amount:    *payload.Amount,
	}
}
