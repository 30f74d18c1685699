package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/fekuna/omnipos-sales-service/internal/model"
	"github.com/fekuna/omnipos-sales-service/internal/product/dto"
	"github.com/jmoiron/sqlx"
)

type PGRepository struct {
	DB *sqlx.DB
}

func NewPGRepository(db *sqlx.DB) *PGRepository {
	return &PGRepository{DB: db}
}

func (r *PGRepository) Create(ctx context.Context, p *model.Product) error {
	query := `
        INSERT INTO products (
            id, business, category_id, code, name, description, image_url,
            purchase_price, sale_price, stock, min_stock, active, created_at, updated_at
        )
        VALUES (
            :id, :business, :category_id, :code, :name, :description, :image_url,
            :purchase_price, :sale_price, :stock, :min_stock, :active, :created_at, :updated_at
        )
    `
	_, err := r.DB.NamedExecContext(ctx, query, p)
	return err
}

func (r *PGRepository) FindByID(ctx context.Context, id string) (*model.Product, error) {
	var product model.Product
	query := `SELECT * FROM products WHERE id = $1 LIMIT 1`
	err := r.DB.GetContext(ctx, &product, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &product, nil
}

func (r *PGRepository) FindByIDs(ctx context.Context, ids []string) ([]model.Product, error) {
	if len(ids) == 0 {
		return []model.Product{}, nil
	}

	query, args, err := sqlx.In(`SELECT * FROM products WHERE id IN (?)`, ids)
	if err != nil {
		return nil, err
	}
	query = r.DB.Rebind(query)

	var items []model.Product
	err = r.DB.SelectContext(ctx, &items, query, args...)
	return items, err
}

func (r *PGRepository) FindAll(ctx context.Context, f *dto.ProductFilters) ([]model.Product, int, error) {
	var products []model.Product
	var count int

	conditions := []string{}
	args := map[string]interface{}{}

	if f.Business != "" {
		conditions = append(conditions, "business = :business")
		args["business"] = f.Business
	}
	if f.CategoryID != "" {
		conditions = append(conditions, "category_id = :category_id")
		args["category_id"] = f.CategoryID
	}
	if f.Active != nil {
		conditions = append(conditions, "active = :active")
		args["active"] = *f.Active
	}
	if f.InStock {
		conditions = append(conditions, "stock > 0")
	}
	if f.SearchQuery != "" {
		conditions = append(conditions, "(code ILIKE :search OR name ILIKE :search OR description ILIKE :search)")
		args["search"] = "%" + f.SearchQuery + "%"
	}

	whereClause := ""
	if len(conditions) > 0 {
		whereClause = " WHERE " + strings.Join(conditions, " AND ")
	}

	countQuery := "SELECT count(*) FROM products" + whereClause
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

	orderBy := "name ASC"
	if f.SortBy != "" {
		// whitelist, never interpolate user input
		switch f.SortBy {
		case "name":
			orderBy = "name"
		case "price":
			orderBy = "sale_price"
		case "stock":
			orderBy = "stock"
		case "created_at":
			orderBy = "created_at"
		}
		if strings.ToLower(f.SortOrder) == "desc" {
			orderBy += " DESC"
		} else {
			orderBy += " ASC"
		}
	}

	query := fmt.Sprintf("SELECT * FROM products%s ORDER BY %s", whereClause, orderBy)
	if f.PageSize > 0 {
		offset := (f.Page - 1) * f.PageSize
		query += fmt.Sprintf(" LIMIT %d OFFSET %d", f.PageSize, offset)
	}

	nstmt, err := r.DB.PrepareNamedContext(ctx, query)
	if err != nil {
		return nil, 0, err
	}
	defer nstmt.Close()

	if err := nstmt.SelectContext(ctx, &products, args); err != nil {
		return nil, 0, err
	}
	return products, count, nil
}

func (r *PGRepository) Update(ctx context.Context, p *model.Product) error {
	query := `
        UPDATE products
        SET category_id = :category_id,
            code = :code,
            name = :name,
            description = :description,
            image_url = :image_url,
            purchase_price = :purchase_price,
            sale_price = :sale_price,
            min_stock = :min_stock,
            active = :active,
            updated_at = :updated_at
        WHERE id = :id AND business = :business
    `
	_, err := r.DB.NamedExecContext(ctx, query, p)
	return err
}

func (r *PGRepository) Delete(ctx context.Context, id string) error {
	_, err := r.DB.ExecContext(ctx, "DELETE FROM products WHERE id = $1", id)
	return err
}

func (r *PGRepository) IsCodeUnique(ctx context.Context, business model.Business, code, excludeID string) (bool, error) {
	var count int
	query := `SELECT count(*) FROM products WHERE business = $1 AND code = $2`
	args := []interface{}{business, code}
	if excludeID != "" {
		query += ` AND id != $3`
		args = append(args, excludeID)
	}

	if err := r.DB.GetContext(ctx, &count, query, args...); err != nil {
		return false, err
	}
	return count == 0, nil
}

func (r *PGRepository) ListLowStock(ctx context.Context, business model.Business, limit int) ([]model.Product, error) {
	query := `
        SELECT * FROM products
        WHERE business = $1 AND active = true AND stock <= min_stock
        ORDER BY stock ASC, name ASC
    `
	args := []interface{}{business}
	if limit > 0 {
		query += ` LIMIT $2`
		args = append(args, limit)
	}

	var items []model.Product
	err := r.DB.SelectContext(ctx, &items, query, args...)
	return items, err
}
