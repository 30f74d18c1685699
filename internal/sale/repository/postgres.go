package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sort"
	"strings"

	accountRepo "github.com/fekuna/omnipos-sales-service/internal/account/repository"
	"github.com/fekuna/omnipos-sales-service/internal/model"
	"github.com/fekuna/omnipos-sales-service/internal/pkg/postgres"
	"github.com/fekuna/omnipos-sales-service/internal/sale"
	"github.com/fekuna/omnipos-sales-service/internal/sale/dto"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

type PGRepository struct {
	DB *sqlx.DB
}

func NewPGRepository(db *sqlx.DB) *PGRepository {
	return &PGRepository{DB: db}
}

const insertSaleQuery = `
    INSERT INTO sales (
        id, business, customer_id, customer_name, seller_id, seller_name, status,
        subtotal, discount, tax, total, payment_method, notes, idempotency_key, created_at
    )
    VALUES (
        :id, :business, :customer_id, :customer_name, :seller_id, :seller_name, :status,
        :subtotal, :discount, :tax, :total, :payment_method, :notes, :idempotency_key, :created_at
    )
    RETURNING sale_number
`

const insertItemsQuery = `
    INSERT INTO sale_items (
        id, sale_id, product_id, product_code, product_name, quantity, unit_price, discount, total, created_at
    )
    VALUES (
        :id, :sale_id, :product_id, :product_code, :product_name, :quantity, :unit_price, :discount, :total, :created_at
    )
`

const insertStockMovementQuery = `
    INSERT INTO stock_movements (
        id, business, product_id, sale_id, movement_type, quantity_change,
        quantity_before, quantity_after, notes, created_by, created_at
    )
    VALUES (
        :id, :business, :product_id, :sale_id, :movement_type, :quantity_change,
        :quantity_before, :quantity_after, :notes, :created_by, :created_at
    )
`

func (r *PGRepository) CommitSale(ctx context.Context, s *model.Sale, opts sale.CommitOptions) (*sale.CommitResult, error) {
	tx, err := r.DB.BeginTxx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	// 1. Header
	query, args, err := tx.BindNamed(insertSaleQuery, s)
	if err != nil {
		return nil, err
	}
	if err := tx.QueryRowxContext(ctx, query, args...).Scan(&s.SaleNumber); err != nil {
		if postgres.IsUniqueViolation(err) && postgres.ConstraintName(err) == "sales_idempotency_key_key" {
			// The aborted tx can no longer read; look the winner up outside it.
			_ = tx.Rollback()
			existing, lookupErr := r.FindByIdempotencyKey(ctx, s.IdempotencyKey)
			if lookupErr != nil {
				return nil, lookupErr
			}
			if existing != nil {
				return &sale.CommitResult{Sale: existing, Replayed: true}, nil
			}
		}
		return nil, fmt.Errorf("failed to insert sale: %w", err)
	}

	// 2. Items
	if len(s.Items) > 0 {
		if _, err := tx.NamedExecContext(ctx, insertItemsQuery, s.Items); err != nil {
			return nil, fmt.Errorf("failed to insert sale items: %w", err)
		}
	}

	res := &sale.CommitResult{Sale: s}

	// 3. Stock
	if opts.DecrementStock {
		changes, err := decrementStockTx(ctx, tx, s)
		if err != nil {
			return nil, err
		}
		res.Stock = changes
	}

	// 4. Ledger
	if s.PaymentMethod == model.PaymentAccount {
		if s.CustomerID == nil {
			return nil, sale.ErrAccountNeedsCustomer
		}
		m := &model.AccountMovement{
			ID:          uuid.New().String(),
			CustomerID:  *s.CustomerID,
			SaleID:      &s.ID,
			Type:        model.MovementSale,
			Amount:      s.Total,
			Description: fmt.Sprintf("Venta #%d", s.SaleNumber),
			CreatedBy:   &s.SellerID,
			CreatedAt:   s.CreatedAt,
		}
		if err := accountRepo.AppendMovementTx(ctx, tx, m); err != nil {
			return nil, err
		}
		res.Movement = m
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return res, nil
}

// decrementStockTx never refuses a sale for lack of stock; stock may go negative.
// Rows are updated in product id order so concurrent sales lock them in the same order.
func decrementStockTx(ctx context.Context, tx *sqlx.Tx, s *model.Sale) ([]sale.StockChange, error) {
	qty := map[string]int{}
	for _, it := range s.Items {
		qty[it.ProductID] += it.Quantity
	}
	ids := make([]string, 0, len(qty))
	for id := range qty {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	changes := make([]sale.StockChange, 0, len(ids))
	movements := make([]model.StockMovement, 0, len(ids))
	for _, id := range ids {
		var row struct {
			Code     string `db:"code"`
			Name     string `db:"name"`
			Stock    int    `db:"stock"`
			MinStock int    `db:"min_stock"`
		}
		err := tx.QueryRowxContext(ctx, `
            UPDATE products SET stock = stock - $1, updated_at = $2
            WHERE id = $3 AND business = $4
            RETURNING code, name, stock, min_stock
        `, qty[id], s.CreatedAt, id, s.Business).StructScan(&row)
		if errors.Is(err, sql.ErrNoRows) {
			// product deleted after it was added to the cart; the sale line still stands
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("failed to decrement stock: %w", err)
		}

		before := row.Stock + qty[id]
		changes = append(changes, sale.StockChange{
			ProductID: id,
			Code:      row.Code,
			Name:      row.Name,
			Before:    before,
			After:     row.Stock,
			MinStock:  row.MinStock,
		})
		movements = append(movements, model.StockMovement{
			ID:             uuid.New().String(),
			Business:       s.Business,
			ProductID:      id,
			SaleID:         &s.ID,
			MovementType:   model.StockMovementSale,
			QuantityChange: -qty[id],
			QuantityBefore: before,
			QuantityAfter:  row.Stock,
			Notes:          fmt.Sprintf("Venta #%d", s.SaleNumber),
			CreatedBy:      &s.SellerID,
			CreatedAt:      s.CreatedAt,
		})
	}

	if len(movements) > 0 {
		if _, err := tx.NamedExecContext(ctx, insertStockMovementQuery, movements); err != nil {
			return nil, fmt.Errorf("failed to log stock movements: %w", err)
		}
	}
	return changes, nil
}

func (r *PGRepository) FindByID(ctx context.Context, id string) (*model.Sale, error) {
	return r.findOne(ctx, "id = $1", id)
}

func (r *PGRepository) FindByNumber(ctx context.Context, business model.Business, number int64) (*model.Sale, error) {
	return r.findOne(ctx, "business = $1 AND sale_number = $2", business, number)
}

func (r *PGRepository) FindByIdempotencyKey(ctx context.Context, key string) (*model.Sale, error) {
	return r.findOne(ctx, "idempotency_key = $1", key)
}

func (r *PGRepository) findOne(ctx context.Context, where string, args ...interface{}) (*model.Sale, error) {
	var s model.Sale
	err := r.DB.GetContext(ctx, &s, "SELECT * FROM sales WHERE "+where+" LIMIT 1", args...)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	if err := r.DB.SelectContext(ctx, &s.Items, `SELECT * FROM sale_items WHERE sale_id = $1 ORDER BY created_at, id`, s.ID); err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *PGRepository) FindAll(ctx context.Context, f *dto.SaleFilters) ([]model.Sale, int, error) {
	var sales []model.Sale
	var count int

	conditions := []string{}
	args := map[string]interface{}{}

	if f.Business != "" {
		conditions = append(conditions, "business = :business")
		args["business"] = f.Business
	}
	if f.CustomerID != "" {
		conditions = append(conditions, "customer_id = :customer_id")
		args["customer_id"] = f.CustomerID
	}
	if f.SellerID != "" {
		conditions = append(conditions, "seller_id = :seller_id")
		args["seller_id"] = f.SellerID
	}
	if f.Status != "" {
		conditions = append(conditions, "status = :status")
		args["status"] = f.Status
	}
	if f.PaymentMethod != "" {
		conditions = append(conditions, "payment_method = :payment_method")
		args["payment_method"] = f.PaymentMethod
	}
	if f.From != nil {
		conditions = append(conditions, "created_at >= :from")
		args["from"] = *f.From
	}
	if f.To != nil {
		conditions = append(conditions, "created_at < :to")
		args["to"] = *f.To
	}

	whereClause := ""
	if len(conditions) > 0 {
		whereClause = " WHERE " + strings.Join(conditions, " AND ")
	}

	rows, err := r.DB.NamedQueryContext(ctx, "SELECT count(*) FROM sales"+whereClause, args)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	if rows.Next() {
		if err := rows.Scan(&count); err != nil {
			return nil, 0, err
		}
	}

	query := "SELECT * FROM sales" + whereClause + " ORDER BY sale_number DESC"
	if f.PageSize > 0 {
		offset := (f.Page - 1) * f.PageSize
		query += fmt.Sprintf(" LIMIT %d OFFSET %d", f.PageSize, offset)
	}

	nstmt, err := r.DB.PrepareNamedContext(ctx, query)
	if err != nil {
		return nil, 0, err
	}
	defer nstmt.Close()

	if err := nstmt.SelectContext(ctx, &sales, args); err != nil {
		return nil, 0, err
	}
	return sales, count, nil
}
