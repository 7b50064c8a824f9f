package checkout

import (
	"context"

	"github.com/lunapos/checkout-service/internal/checkout/dto"
	"github.com/lunapos/checkout-service/internal/model"
)

type UseCase interface {
	// Checkout converts a cart into a committed sale, or fails with zero
	// side effects. No automatic retry: a rejected cart may be stale and
	// must be resubmitted by the caller.
	Checkout(ctx context.Context, input *dto.CheckoutInput) (*model.Sale, error)
}
