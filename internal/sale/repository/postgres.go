package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"

	"github.com/lunapos/checkout-service/internal/model"
	"github.com/lunapos/checkout-service/internal/sale/dto"
)

type PGRepository struct {
	DB *sqlx.DB
}

func NewPGRepository(db *sqlx.DB) *PGRepository {
	return &PGRepository{DB: db}
}

func (r *PGRepository) GetByReceipt(ctx context.Context, receiptNumber string) (*model.Sale, error) {
	var s model.Sale
	err := r.DB.GetContext(ctx, &s, `SELECT * FROM sales WHERE receipt_number = $1`, receiptNumber)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: %s", model.ErrSaleNotFound, receiptNumber)
		}
		return nil, err
	}

	err = r.DB.SelectContext(ctx, &s.Items, `
		SELECT * FROM sale_items WHERE sale_id = $1 ORDER BY line_no
	`, s.ID)
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *PGRepository) List(ctx context.Context, f *dto.SaleFilters) ([]model.Sale, int, error) {
	conditions := []string{}
	args := map[string]interface{}{}

	if f.CustomerID != "" {
		conditions = append(conditions, "customer_id = :customer_id")
		args["customer_id"] = f.CustomerID
	}
	if f.PaymentMethod != "" {
		conditions = append(conditions, "payment_method = :payment_method")
		args["payment_method"] = f.PaymentMethod
	}
	if f.CashierID != "" {
		conditions = append(conditions, "cashier_id = :cashier_id")
		args["cashier_id"] = f.CashierID
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
	countQuery := "SELECT count(*) FROM sales" + whereClause
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

	query := "SELECT * FROM sales" + whereClause + " ORDER BY created_at DESC"
	if f.PageSize > 0 {
		offset := (f.Page - 1) * f.PageSize
		query += fmt.Sprintf(" LIMIT %d OFFSET %d", f.PageSize, offset)
	}

	nstmt, err := r.DB.PrepareNamedContext(ctx, query)
	if err != nil {
		return nil, 0, err
	}
	defer nstmt.Close()

	var items []model.Sale
	err = nstmt.SelectContext(ctx, &items, args)
	return items, count, err
}
