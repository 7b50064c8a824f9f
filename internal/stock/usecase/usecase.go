package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/lunapos/checkout-service/internal/cache"
	"github.com/lunapos/checkout-service/internal/metrics"
	"github.com/lunapos/checkout-service/internal/model"
	"github.com/lunapos/checkout-service/internal/stock"
	"github.com/lunapos/checkout-service/internal/stock/dto"
)

type stockUseCase struct {
	repo    stock.Repository
	cache   *cache.RedisClient
	metrics *metrics.Metrics
	logger  *zap.Logger
}

func NewStockUseCase(repo stock.Repository, c *cache.RedisClient, m *metrics.Metrics, log *zap.Logger) stock.UseCase {
	return &stockUseCase{
		repo:    repo,
		cache:   c,
		metrics: m,
		logger:  log,
	}
}

func (uc *stockUseCase) PostMovement(ctx context.Context, input *dto.PostMovementInput) (*model.StockMovement, error) {
	if input.ProductID == "" || input.Quantity < 1 {
		return nil, model.ErrInvalidInput
	}
	if !input.Direction.Valid() || !input.Reason.Valid() {
		return nil, model.ErrInvalidInput
	}
	// Sale entries carry a sale reference and are written inside the
	// checkout transaction, never through this path.
	if input.Reason == model.ReasonSale {
		return nil, fmt.Errorf("%w: sale movements are posted by checkout", model.ErrInvalidInput)
	}

	release, err := uc.lockProduct(ctx, input.ProductID)
	if err != nil {
		return nil, err
	}
	defer release()

	movement := &model.StockMovement{
		ID:        uuid.New().String(),
		ProductID: input.ProductID,
		Direction: input.Direction,
		Quantity:  input.Quantity,
		Reason:    input.Reason,
		CreatedAt: time.Now().UTC(),
	}
	if input.Note != "" {
		movement.Note = &input.Note
	}
	if input.ReferenceType != "" {
		movement.ReferenceType = &input.ReferenceType
	}
	if input.ReferenceID != "" {
		movement.ReferenceID = &input.ReferenceID
	}
	if input.ActorID != "" {
		movement.ActorID = &input.ActorID
	}

	posted, err := uc.repo.PostMovement(ctx, movement)
	if err != nil {
		return nil, err
	}

	if uc.metrics != nil {
		uc.metrics.MovementsTotal.WithLabelValues(string(posted.Reason)).Inc()
	}
	uc.logger.Info("stock movement posted",
		zap.String("product_id", posted.ProductID),
		zap.String("reason", string(posted.Reason)),
		zap.String("direction", string(posted.Direction)),
		zap.Int("quantity", posted.Quantity),
	)
	return posted, nil
}

// lockProduct takes a short per-product advisory lease ahead of the DB
// transaction, trimming serialization retries when several terminals adjust
// the same product. The DB transaction remains the correctness boundary, so
// running without Redis only costs extra conflicts.
func (uc *stockUseCase) lockProduct(ctx context.Context, productID string) (func(), error) {
	if uc.cache == nil {
		return func() {}, nil
	}

	lockKey := "lock:stock:" + productID
	lockValue := uuid.New().String()

	acquired := false
	for i := 0; i < 3; i++ {
		ok, err := uc.cache.AcquireLock(ctx, lockKey, lockValue, 5*time.Second)
		if err != nil {
			uc.logger.Error("failed to acquire stock lock", zap.Error(err))
			break
		}
		if ok {
			acquired = true
			break
		}
		time.Sleep(100 * time.Millisecond)
	}
	if !acquired {
		uc.logger.Warn("proceeding without stock lock", zap.String("product_id", productID))
		return func() {}, nil
	}
	return func() { _ = uc.cache.ReleaseLock(ctx, lockKey, lockValue) }, nil
}

func (uc *stockUseCase) GetProduct(ctx context.Context, id string) (*model.Product, error) {
	if id == "" {
		return nil, model.ErrInvalidInput
	}
	return uc.repo.GetProduct(ctx, id)
}

func (uc *stockUseCase) ListMovements(ctx context.Context, filters *dto.MovementFilters) ([]model.StockMovement, int, error) {
	if filters.Page < 1 {
		filters.Page = 1
	}
	if filters.PageSize < 1 || filters.PageSize > 200 {
		filters.PageSize = 50
	}
	return uc.repo.ListMovements(ctx, filters)
}

func (uc *stockUseCase) ListLowStock(ctx context.Context, page, pageSize int) ([]model.Product, int, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 200 {
		pageSize = 50
	}
	return uc.repo.ListLowStock(ctx, page, pageSize)
}

func (uc *stockUseCase) Reconcile(ctx context.Context, productID string) (*dto.ReconcileResult, error) {
	if productID == "" {
		return nil, model.ErrInvalidInput
	}

	product, err := uc.repo.GetProduct(ctx, productID)
	if err != nil {
		return nil, err
	}
	folded, err := uc.repo.FoldQuantity(ctx, productID)
	if err != nil {
		return nil, err
	}

	result := &dto.ReconcileResult{
		ProductID:      productID,
		LedgerQuantity: folded,
		CachedQuantity: product.Quantity,
		Consistent:     folded == product.Quantity,
	}
	if !result.Consistent {
		uc.logger.Error("stock ledger divergence",
			zap.String("product_id", productID),
			zap.Int("ledger_quantity", folded),
			zap.Int("cached_quantity", product.Quantity),
		)
	}
	return result, nil
}
