package repository

import (
	"context"

	"github.com/fekuna/omnipos-sales-service/internal/model"
	"github.com/fekuna/omnipos-sales-service/internal/report"
	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"
)

type PGRepository struct {
	DB *sqlx.DB
}

func NewPGRepository(db *sqlx.DB) *PGRepository {
	return &PGRepository{DB: db}
}

func (r *PGRepository) CompletedSales(ctx context.Context, business model.Business, rg report.Range) ([]report.SaleRow, error) {
	var rows []report.SaleRow
	err := r.DB.SelectContext(ctx, &rows, `
        SELECT id, total, payment_method, created_at
        FROM sales
        WHERE business = $1 AND status = 'completed' AND created_at >= $2 AND created_at < $3
        ORDER BY created_at
    `, business, rg.From, rg.To)
	return rows, err
}

func (r *PGRepository) Revenue(ctx context.Context, business model.Business, rg report.Range) (decimal.Decimal, error) {
	var total decimal.Decimal
	err := r.DB.GetContext(ctx, &total, `
        SELECT COALESCE(SUM(total), 0)
        FROM sales
        WHERE business = $1 AND status = 'completed' AND created_at >= $2 AND created_at < $3
    `, business, rg.From, rg.To)
	return total, err
}

func (r *PGRepository) ProductSales(ctx context.Context, business model.Business, rg report.Range) ([]report.ProductSales, error) {
	var rows []report.ProductSales
	err := r.DB.SelectContext(ctx, &rows, `
        SELECT si.product_id,
               MAX(si.product_code) AS code,
               MAX(si.product_name) AS name,
               SUM(si.quantity) AS quantity,
               SUM(si.total) AS revenue
        FROM sale_items si
        JOIN sales s ON s.id = si.sale_id
        WHERE s.business = $1 AND s.status = 'completed' AND s.created_at >= $2 AND s.created_at < $3
        GROUP BY si.product_id
    `, business, rg.From, rg.To)
	return rows, err
}

func (r *PGRepository) Counts(ctx context.Context, business model.Business) (*report.Counts, error) {
	var c report.Counts
	err := r.DB.GetContext(ctx, &c, `
        SELECT
            (SELECT count(*) FROM products WHERE business = $1) AS products,
            (SELECT count(*) FROM products WHERE business = $1 AND active AND stock <= min_stock) AS low_stock,
            (SELECT count(*) FROM customers WHERE business = $1) AS customers
    `, business)
	if err != nil {
		return nil, err
	}
	return &c, nil
}
