package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"

	"github.com/lunapos/checkout-service/internal/model"
	"github.com/lunapos/checkout-service/internal/stock/dto"
)

type PGRepository struct {
	DB *sqlx.DB
}

func NewPGRepository(db *sqlx.DB) *PGRepository {
	return &PGRepository{DB: db}
}

func (r *PGRepository) GetProduct(ctx context.Context, id string) (*model.Product, error) {
	var p model.Product
	err := r.DB.GetContext(ctx, &p, `SELECT * FROM products WHERE id = $1`, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: %s", model.ErrProductNotFound, id)
		}
		return nil, err
	}
	return &p, nil
}

func (r *PGRepository) PostMovement(ctx context.Context, movement *model.StockMovement) (*model.StockMovement, error) {
	tx, err := r.DB.BeginTxx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback() }()

	var p model.Product
	err = tx.GetContext(ctx, &p, `SELECT * FROM products WHERE id = $1 FOR UPDATE`, movement.ProductID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: %s", model.ErrProductNotFound, movement.ProductID)
		}
		return nil, err
	}

	movement.QuantityBefore = p.Quantity
	movement.QuantityAfter = p.Quantity + movement.Delta()
	if movement.QuantityAfter < 0 {
		return nil, &model.InsufficientStockError{
			ProductID: movement.ProductID,
			Requested: movement.Quantity,
			Available: p.Quantity,
		}
	}

	_, err = tx.ExecContext(ctx, `
		UPDATE products SET quantity = $1, updated_at = $2 WHERE id = $3
	`, movement.QuantityAfter, movement.CreatedAt, movement.ProductID)
	if err != nil {
		return nil, fmt.Errorf("failed to update product quantity: %w", err)
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

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit stock movement: %w", err)
	}
	return movement, nil
}

func (r *PGRepository) ListMovements(ctx context.Context, f *dto.MovementFilters) ([]model.StockMovement, int, error) {
	conditions := []string{}
	args := map[string]interface{}{}

	if f.ProductID != "" {
		conditions = append(conditions, "product_id = :product_id")
		args["product_id"] = f.ProductID
	}
	if f.Reason != "" {
		conditions = append(conditions, "reason = :reason")
		args["reason"] = f.Reason
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
	countQuery := "SELECT count(*) FROM stock_movements" + whereClause
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

	query := "SELECT * FROM stock_movements" + whereClause + " ORDER BY created_at DESC"
	if f.PageSize > 0 {
		offset := (f.Page - 1) * f.PageSize
		query += fmt.Sprintf(" LIMIT %d OFFSET %d", f.PageSize, offset)
	}

	nstmt, err := r.DB.PrepareNamedContext(ctx, query)
	if err != nil {
		return nil, 0, err
	}
	defer nstmt.Close()

	var items []model.StockMovement
	err = nstmt.SelectContext(ctx, &items, args)
	return items, count, err
}

func (r *PGRepository) ListLowStock(ctx context.Context, page, pageSize int) ([]model.Product, int, error) {
	var count int
	err := r.DB.GetContext(ctx, &count, `
		SELECT count(*) FROM products
		WHERE is_active = true AND min_stock > 0 AND quantity <= min_stock
	`)
	if err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * pageSize
	var items []model.Product
	err = r.DB.SelectContext(ctx, &items, `
		SELECT * FROM products
		WHERE is_active = true AND min_stock > 0 AND quantity <= min_stock
		ORDER BY quantity ASC, name
		LIMIT $1 OFFSET $2
	`, pageSize, offset)
	return items, count, err
}

func (r *PGRepository) FoldQuantity(ctx context.Context, productID string) (int, error) {
	var folded int
	err := r.DB.GetContext(ctx, &folded, `
		SELECT COALESCE(SUM(CASE WHEN direction = 'out' THEN -quantity ELSE quantity END), 0)
		FROM stock_movements
		WHERE product_id = $1
	`, productID)
	return folded, err
}
