package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jmoiron/sqlx"

	"github.com/lunapos/checkout-service/internal/checkout/dto"
	"github.com/lunapos/checkout-service/internal/model"
	"github.com/lunapos/checkout-service/internal/receipt"
)

type PGRepository struct {
	DB *sqlx.DB
}

func NewPGRepository(db *sqlx.DB) *PGRepository {
	return &PGRepository{DB: db}
}

// CreateSale runs the checkout commit. Everything from stock validation to
// the sale insert happens inside one transaction with the touched product
// and customer rows locked FOR UPDATE, so two concurrent checkouts on the
// same product can never both pass the stock check. Checkouts on disjoint
// rows only meet at the receipt counter, where the row lock makes the
// second allocator wait briefly, never abort.
func (r *PGRepository) CreateSale(ctx context.Context, input *dto.CheckoutInput) (*model.Sale, error) {
	tx, err := r.DB.BeginTxx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin checkout transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	sale, err := r.createSaleTx(ctx, tx, input)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		if isSerializationFailure(err) {
			return nil, model.ErrConflict
		}
		return nil, fmt.Errorf("failed to commit checkout: %w", err)
	}
	return sale, nil
}

func (r *PGRepository) createSaleTx(ctx context.Context, tx *sqlx.Tx, input *dto.CheckoutInput) (*model.Sale, error) {
	now := time.Now().UTC()

	productIDs := make([]string, 0, len(input.Cart))
	seen := make(map[string]bool, len(input.Cart))
	for _, line := range input.Cart {
		if !seen[line.ProductID] {
			seen[line.ProductID] = true
			productIDs = append(productIDs, line.ProductID)
		}
	}

	query, args, err := sqlx.In(`SELECT * FROM products WHERE id IN (?) FOR UPDATE`, productIDs)
	if err != nil {
		return nil, err
	}
	query = tx.Rebind(query)

	var products []model.Product
	if err := tx.SelectContext(ctx, &products, query, args...); err != nil {
		if isSerializationFailure(err) {
			return nil, model.ErrConflict
		}
		return nil, fmt.Errorf("failed to lock products: %w", err)
	}

	productMap := make(map[string]*model.Product, len(products))
	for i := range products {
		productMap[products[i].ID] = &products[i]
	}

	// Validate availability against the locked rows, aggregating duplicate
	// cart lines for the same product.
	needed := make(map[string]int, len(productIDs))
	for _, line := range input.Cart {
		needed[line.ProductID] += line.Quantity
	}
	for _, id := range productIDs {
		p, ok := productMap[id]
		if !ok {
			return nil, fmt.Errorf("%w: %s", model.ErrProductNotFound, id)
		}
		if !p.IsActive {
			return nil, fmt.Errorf("%w: %s", model.ErrProductInactive, id)
		}
		if needed[id] > p.Quantity {
			return nil, &model.InsufficientStockError{
				ProductID: id,
				Requested: needed[id],
				Available: p.Quantity,
			}
		}
	}

	// Prices are taken from the locked rows, not from the request.
	var subtotal int64
	items := make([]model.SaleItem, 0, len(input.Cart))
	for i, line := range input.Cart {
		p := productMap[line.ProductID]
		gross := int64(line.Quantity) * p.PriceCents
		if line.DiscountCents > gross {
			return nil, fmt.Errorf("%w: line discount exceeds line total", model.ErrInvalidInput)
		}
		lineSubtotal := gross - line.DiscountCents
		subtotal += lineSubtotal
		items = append(items, model.SaleItem{
			ID:             uuid.New().String(),
			LineNo:         i + 1,
			ProductID:      line.ProductID,
			Quantity:       line.Quantity,
			UnitPriceCents: p.PriceCents,
			DiscountCents:  line.DiscountCents,
			SubtotalCents:  lineSubtotal,
		})
	}

	total := subtotal - input.DiscountCents
	if total < 0 {
		total = 0
	}

	// An attached customer must exist for any payment method; only credit
	// sales touch the balance and need the row locked.
	var customer *model.Customer
	if input.CustomerID != nil {
		query := `SELECT * FROM customers WHERE id = $1`
		if input.PaymentMethod.RequiresCreditPosting() {
			query += ` FOR UPDATE`
		}
		var c model.Customer
		err := tx.GetContext(ctx, &c, query, *input.CustomerID)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return nil, fmt.Errorf("%w: %s", model.ErrCustomerNotFound, *input.CustomerID)
			}
			return nil, fmt.Errorf("failed to load customer: %w", err)
		}
		if input.PaymentMethod.RequiresCreditPosting() {
			if !c.IsActive {
				return nil, fmt.Errorf("%w: %s", model.ErrCustomerInactive, c.ID)
			}
			if c.CreditLimitCents > 0 && c.CreditBalanceCents+total > c.CreditLimitCents {
				return nil, &model.CreditLimitExceededError{
					LimitCents:   c.CreditLimitCents,
					BalanceCents: c.CreditBalanceCents,
					TotalCents:   total,
				}
			}
			customer = &c
		}
	}
	if !input.PaymentMethod.RequiresCreditPosting() && input.AmountPaidCents < total {
		return nil, &model.InsufficientPaymentError{
			TotalCents: total,
			PaidCents:  input.AmountPaidCents,
		}
	}

	// Receipt allocation rides on the same transaction: the per-day counter
	// row serializes concurrent checkouts on the number, and a rollback
	// releases the claimed value.
	day := receipt.DayKey(now)
	var seq int64
	err = tx.GetContext(ctx, &seq, `
		INSERT INTO receipt_counters (day, last_seq) VALUES ($1, 1)
		ON CONFLICT (day) DO UPDATE SET last_seq = receipt_counters.last_seq + 1
		RETURNING last_seq
	`, day)
	if err != nil {
		return nil, fmt.Errorf("failed to allocate receipt number: %w", err)
	}

	saleID := uuid.New().String()
	receiptNumber := receipt.Format(day, seq)

	// Step 2: stock decrement plus one ledger entry per cart line.
	running := make(map[string]int, len(productMap))
	for id, p := range productMap {
		running[id] = p.Quantity
	}
	for _, item := range items {
		before := running[item.ProductID]
		after := before - item.Quantity
		running[item.ProductID] = after

		_, err := tx.ExecContext(ctx, `
			UPDATE products SET quantity = quantity - $1, updated_at = $2 WHERE id = $3
		`, item.Quantity, now, item.ProductID)
		if err != nil {
			return nil, fmt.Errorf("failed to decrement stock: %w", err)
		}

		movement := &model.StockMovement{
			ID:             uuid.New().String(),
			ProductID:      item.ProductID,
			Direction:      model.DirectionOut,
			Quantity:       item.Quantity,
			Reason:         model.ReasonSale,
			QuantityBefore: before,
			QuantityAfter:  after,
			ReferenceType:  strPtr("sale"),
			ReferenceID:    &saleID,
			ActorID:        strPtr(input.CashierID),
			CreatedAt:      now,
		}
		_, err = tx.NamedExecContext(ctx, `
			INSERT INTO stock_movements (
				id, product_id, direction, quantity, reason, note,
				quantity_before, quantity_after, reference_type, reference_id,
				actor_id, created_at
			) VALUES (
				:id, :product_id, :direction, :quantity, :reason, :note,
				:quantity_before, :quantity_after, :reference_type, :reference_id,
				:actor_id, :created_at
			)
		`, movement)
		if err != nil {
			return nil, fmt.Errorf("failed to append stock movement: %w", err)
		}
	}

	// Step 3: credit posting for credit sales.
	if customer != nil {
		newBalance := customer.CreditBalanceCents + total
		_, err := tx.ExecContext(ctx, `
			UPDATE customers SET credit_balance_cents = $1, updated_at = $2 WHERE id = $3
		`, newBalance, now, customer.ID)
		if err != nil {
			return nil, fmt.Errorf("failed to update credit balance: %w", err)
		}

		creditTx := &model.CreditTransaction{
			ID:                uuid.New().String(),
			CustomerID:        customer.ID,
			Type:              model.CreditPurchase,
			AmountCents:       total,
			BalanceAfterCents: newBalance,
			SaleID:            &saleID,
			Reference:         &receiptNumber,
			CreatedAt:         now,
		}
		_, err = tx.NamedExecContext(ctx, `
			INSERT INTO credit_transactions (
				id, customer_id, type, amount_cents, balance_after_cents,
				sale_id, reference, description, created_at
			) VALUES (
				:id, :customer_id, :type, :amount_cents, :balance_after_cents,
				:sale_id, :reference, :description, :created_at
			)
		`, creditTx)
		if err != nil {
			return nil, fmt.Errorf("failed to append credit transaction: %w", err)
		}
	}

	// Step 4: the sale record itself.
	amountPaid := input.AmountPaidCents
	change := amountPaid - total
	if input.PaymentMethod.RequiresCreditPosting() {
		amountPaid = 0
		change = 0
	}
	if change < 0 {
		change = 0
	}

	sale := &model.Sale{
		ID:              saleID,
		ReceiptNumber:   receiptNumber,
		SubtotalCents:   subtotal,
		DiscountCents:   input.DiscountCents,
		TotalCents:      total,
		PaymentMethod:   input.PaymentMethod,
		AmountPaidCents: amountPaid,
		ChangeCents:     change,
		CustomerID:      input.CustomerID,
		CashierID:       input.CashierID,
		CreatedAt:       now,
	}
	_, err = tx.NamedExecContext(ctx, `
		INSERT INTO sales (
			id, receipt_number, subtotal_cents, discount_cents, total_cents,
			payment_method, amount_paid_cents, change_cents, customer_id,
			cashier_id, created_at
		) VALUES (
			:id, :receipt_number, :subtotal_cents, :discount_cents, :total_cents,
			:payment_method, :amount_paid_cents, :change_cents, :customer_id,
			:cashier_id, :created_at
		)
	`, sale)
	if err != nil {
		return nil, fmt.Errorf("failed to insert sale: %w", err)
	}

	for i := range items {
		items[i].SaleID = saleID
		_, err := tx.NamedExecContext(ctx, `
			INSERT INTO sale_items (
				id, sale_id, line_no, product_id, quantity, unit_price_cents,
				discount_cents, subtotal_cents
			) VALUES (
				:id, :sale_id, :line_no, :product_id, :quantity, :unit_price_cents,
				:discount_cents, :subtotal_cents
			)
		`, items[i])
		if err != nil {
			return nil, fmt.Errorf("failed to insert sale item: %w", err)
		}
	}
	sale.Items = items

	return sale, nil
}

func isSerializationFailure(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		// serialization_failure, deadlock_detected
		return pgErr.Code == "40001" || pgErr.Code == "40P01"
	}
	return false
}

func strPtr(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
