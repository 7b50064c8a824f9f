package usecase

import (
	"context"
	"errors"
	"time"

	"github.com/lunapos/checkout-service/internal/checkout"
	"github.com/lunapos/checkout-service/internal/checkout/dto"
	"github.com/lunapos/checkout-service/internal/metrics"
	"github.com/lunapos/checkout-service/internal/model"
	"go.uber.org/zap"
)

type checkoutUseCase struct {
	repo    checkout.Repository
	metrics *metrics.Metrics
	logger  *zap.Logger
}

func NewCheckoutUseCase(repo checkout.Repository, m *metrics.Metrics, log *zap.Logger) checkout.UseCase {
	return &checkoutUseCase{
		repo:    repo,
		metrics: m,
		logger:  log,
	}
}

func (uc *checkoutUseCase) Checkout(ctx context.Context, input *dto.CheckoutInput) (*model.Sale, error) {
	start := time.Now()

	if err := validate(input); err != nil {
		uc.observe("rejected", start)
		return nil, err
	}

	sale, err := uc.repo.CreateSale(ctx, input)
	if err != nil {
		uc.observe(outcome(err), start)
		uc.logger.Warn("checkout failed",
			zap.String("payment_method", string(input.PaymentMethod)),
			zap.Int("cart_lines", len(input.Cart)),
			zap.Error(err),
		)
		return nil, err
	}

	uc.observe("committed", start)
	uc.logger.Info("checkout committed",
		zap.String("receipt_number", sale.ReceiptNumber),
		zap.Int64("total_cents", sale.TotalCents),
		zap.String("payment_method", string(sale.PaymentMethod)),
	)
	return sale, nil
}

// validate covers the static preconditions; stock, price and credit checks
// need current state and run against locked rows inside the repository.
func validate(input *dto.CheckoutInput) error {
	if len(input.Cart) == 0 {
		return model.ErrEmptyCart
	}
	for _, line := range input.Cart {
		if line.ProductID == "" || line.Quantity < 1 || line.DiscountCents < 0 {
			return model.ErrInvalidInput
		}
	}
	if !input.PaymentMethod.Valid() {
		return model.ErrInvalidInput
	}
	if input.DiscountCents < 0 || input.AmountPaidCents < 0 {
		return model.ErrInvalidInput
	}
	if input.PaymentMethod.RequiresCreditPosting() {
		if input.CustomerID == nil || *input.CustomerID == "" {
			return model.ErrCustomerRequired
		}
	}
	return nil
}

func (uc *checkoutUseCase) observe(status string, start time.Time) {
	if uc.metrics == nil {
		return
	}
	uc.metrics.CheckoutTotal.WithLabelValues(status).Inc()
	uc.metrics.CheckoutDuration.Observe(time.Since(start).Seconds())
}

func outcome(err error) string {
	var stockErr *model.InsufficientStockError
	var payErr *model.InsufficientPaymentError
	var limitErr *model.CreditLimitExceededError

	switch {
	case errors.Is(err, model.ErrConflict):
		return "conflict"
	case errors.As(err, &stockErr), errors.As(err, &payErr), errors.As(err, &limitErr),
		errors.Is(err, model.ErrEmptyCart), errors.Is(err, model.ErrInvalidInput),
		errors.Is(err, model.ErrProductNotFound), errors.Is(err, model.ErrProductInactive),
		errors.Is(err, model.ErrCustomerNotFound), errors.Is(err, model.ErrCustomerInactive),
		errors.Is(err, model.ErrCustomerRequired):
		return "rejected"
	default:
		return "error"
	}
}
