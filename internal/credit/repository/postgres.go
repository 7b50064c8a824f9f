package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"

	"github.com/lunapos/checkout-service/internal/credit/dto"
	"github.com/lunapos/checkout-service/internal/model"
)

type PGRepository struct {
	DB *sqlx.DB
	// AllowNegativeBalance lets payments and adjustments push a customer's
	// balance below zero, turning the overflow into a prepaid credit.
	AllowNegativeBalance bool
}

func NewPGRepository(db *sqlx.DB, allowNegative bool) *PGRepository {
	return &PGRepository{DB: db, AllowNegativeBalance: allowNegative}
}

func (r *PGRepository) GetCustomer(ctx context.Context, id string) (*model.Customer, error) {
	var c model.Customer
	err := r.DB.GetContext(ctx, &c, `SELECT * FROM customers WHERE id = $1`, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: %s", model.ErrCustomerNotFound, id)
		}
		return nil, err
	}
	return &c, nil
}

func (r *PGRepository) PostTransaction(ctx context.Context, entry *model.CreditTransaction) (*model.CreditTransaction, error) {
	tx, err := r.DB.BeginTxx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback() }()

	var c model.Customer
	err = tx.GetContext(ctx, &c, `SELECT * FROM customers WHERE id = $1 FOR UPDATE`, entry.CustomerID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: %s", model.ErrCustomerNotFound, entry.CustomerID)
		}
		return nil, err
	}
	if !c.IsActive {
		return nil, model.ErrCustomerInactive
	}

	entry.BalanceAfterCents = c.CreditBalanceCents + entry.AmountCents
	if entry.BalanceAfterCents < 0 && !r.AllowNegativeBalance {
		return nil, model.ErrOverpayment
	}

	_, err = tx.ExecContext(ctx, `
		UPDATE customers SET credit_balance_cents = $1, updated_at = $2 WHERE id = $3
	`, entry.BalanceAfterCents, entry.CreatedAt, entry.CustomerID)
	if err != nil {
		return nil, fmt.Errorf("failed to update customer balance: %w", err)
	}

	_, err = tx.NamedExecContext(ctx, `
		INSERT INTO credit_transactions (
			id, customer_id, type, amount_cents, balance_after_cents,
			sale_id, reference, description, created_at
		) VALUES (
			:id, :customer_id, :type, :amount_cents, :balance_after_cents,
			:sale_id, :reference, :description, :created_at
		)
	`, entry)
	if err != nil {
		return nil, fmt.Errorf("failed to append credit transaction: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit credit transaction: %w", err)
	}
	return entry, nil
}

func (r *PGRepository) ListTransactions(ctx context.Context, f *dto.TransactionFilters) ([]model.CreditTransaction, int, error) {
	conditions := []string{}
	args := map[string]interface{}{}

	if f.CustomerID != "" {
		conditions = append(conditions, "customer_id = :customer_id")
		args["customer_id"] = f.CustomerID
	}
	if f.Type != "" {
		conditions = append(conditions, "type = :type")
		args["type"] = f.Type
	}
	if f.StartDate != nil {
		conditions = append(conditions, "created_at >= :start_date")
		args["start_date"] = *f.StartDate
	}
	if f.EndDate != nil {
		conditions = append(conditions, "created_at < :end_date")
		args["end_date"] = *f.EndDate
	}

	whereClause := ""
	if len(conditions) > 0 {
		whereClause = " WHERE " + strings.Join(conditions, " AND ")
	}

	var count int
	countQuery := "SELECT count(*) FROM credit_transactions" + whereClause
	rows, err := r.DB.NamedQueryContext(ctx, countQuery, args)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	if rows.Next() {
		if err := rows.Scan(&count); err != nil {
			return nil, 0, err
		}
	}

	query := "SELECT * FROM credit_transactions" + whereClause + " ORDER BY created_at DESC"
	if f.PageSize > 0 {
		offset := (f.Page - 1) * f.PageSize
		query += fmt.Sprintf(" LIMIT %d OFFSET %d", f.PageSize, offset)
	}

	nstmt, err := r.DB.PrepareNamedContext(ctx, query)
	if err != nil {
		return nil, 0, err
	}
	defer nstmt.Close()

	var items []model.CreditTransaction
	err = nstmt.SelectContext(ctx, &items, args)
	return items, count, err
}

func (r *PGRepository) Summary(ctx context.Context) (*dto.CreditSummary, error) {
	var summary dto.CreditSummary
	err := r.DB.QueryRowxContext(ctx, `
		SELECT COALESCE(SUM(credit_balance_cents), 0), count(*)
		FROM customers
		WHERE credit_balance_cents > 0
	`).Scan(&summary.OutstandingCents, &summary.Debtors)
	if err != nil {
		return nil, err
	}
	return &summary, nil
}

func (r *PGRepository) FoldBalance(ctx context.Context, customerID string) (int64, error) {
	var folded int64
	err := r.DB.GetContext(ctx, &folded, `
		SELECT COALESCE(SUM(amount_cents), 0)
		FROM credit_transactions
		WHERE customer_id = $1
	`, customerID)
	return folded, err
}
