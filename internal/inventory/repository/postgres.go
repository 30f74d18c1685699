package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/fekuna/omnipos-sales-service/internal/inventory"
	"github.com/fekuna/omnipos-sales-service/internal/inventory/dto"
	"github.com/fekuna/omnipos-sales-service/internal/model"
	"github.com/jmoiron/sqlx"
)

type PGRepository struct {
	DB *sqlx.DB
}

func NewPGRepository(db *sqlx.DB) *PGRepository {
	return &PGRepository{DB: db}
}

func (r *PGRepository) AdjustStockWithMovement(ctx context.Context, m *model.StockMovement) (*model.Product, error) {
	tx, err := r.DB.BeginTxx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	// 1. Lock product
	var p model.Product
	err = tx.GetContext(ctx, &p, `SELECT * FROM products WHERE id = $1 AND business = $2 FOR UPDATE`, m.ProductID, m.Business)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, inventory.ErrProductNotFound
		}
		return nil, err
	}

	m.QuantityBefore = p.Stock
	m.QuantityAfter = p.Stock + m.QuantityChange
	if m.QuantityAfter < 0 {
		return nil, inventory.ErrInsufficientStock
	}

	// 2. Update stock
	_, err = tx.ExecContext(ctx, `UPDATE products SET stock = $1, updated_at = $2 WHERE id = $3`, m.QuantityAfter, m.CreatedAt, p.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to update stock: %w", err)
	}

	// 3. Log movement
	insertLogQuery := `
        INSERT INTO stock_movements (
            id, business, product_id, sale_id, movement_type, quantity_change,
            quantity_before, quantity_after, notes, created_by, created_at
        )
        VALUES (
            :id, :business, :product_id, :sale_id, :movement_type, :quantity_change,
            :quantity_before, :quantity_after, :notes, :created_by, :created_at
        )
    `
	if _, err := tx.NamedExecContext(ctx, insertLogQuery, m); err != nil {
		return nil, fmt.Errorf("failed to log movement: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}
	p.Stock = m.QuantityAfter
	p.UpdatedAt = m.CreatedAt
	return &p, nil
}

func (r *PGRepository) ListMovements(ctx context.Context, f *dto.MovementFilters) ([]model.StockMovement, int, error) {
	var items []model.StockMovement
	var count int

	conditions := []string{}
	args := map[string]interface{}{}

	if f.Business != "" {
		conditions = append(conditions, "business = :business")
		args["business"] = f.Business
	}
	if f.ProductID != "" {
		conditions = append(conditions, "product_id = :product_id")
		args["product_id"] = f.ProductID
	}
	if f.SaleID != "" {
		conditions = append(conditions, "sale_id = :sale_id")
		args["sale_id"] = f.SaleID
	}
	if f.MovementType != "" {
		conditions = append(conditions, "movement_type = :movement_type")
		args["movement_type"] = f.MovementType
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

	if err := nstmt.SelectContext(ctx, &items, args); err != nil {
		return nil, 0, err
	}
	return items, count, nil
}
