package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/fekuna/omnipos-sales-service/internal/customer/dto"
	"github.com/fekuna/omnipos-sales-service/internal/model"
	"github.com/jmoiron/sqlx"
)

type PGRepository struct {
	DB *sqlx.DB
}

func NewPGRepository(db *sqlx.DB) *PGRepository {
	return &PGRepository{DB: db}
}

func (r *PGRepository) Create(ctx context.Context, c *model.Customer) error {
	query := `
        INSERT INTO customers (
            id, business, code, name, email, phone, tax_id, address, city,
            active, credit_limit, current_balance, created_at, updated_at
        )
        VALUES (
            :id, :business, :code, :name, :email, :phone, :tax_id, :address, :city,
            :active, :credit_limit, :current_balance, :created_at, :updated_at
        )
    `
	_, err := r.DB.NamedExecContext(ctx, query, c)
	return err
}

func (r *PGRepository) FindByID(ctx context.Context, id string) (*model.Customer, error) {
	var c model.Customer
	err := r.DB.GetContext(ctx, &c, `SELECT * FROM customers WHERE id = $1 LIMIT 1`, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &c, nil
}

func (r *PGRepository) FindAll(ctx context.Context, f *dto.CustomerFilters) ([]model.Customer, int, error) {
	var customers []model.Customer
	var count int

	conditions := []string{}
	args := map[string]interface{}{}

	if f.Business != "" {
		conditions = append(conditions, "business = :business")
		args["business"] = f.Business
	}
	if f.Active != nil {
		conditions = append(conditions, "active = :active")
		args["active"] = *f.Active
	}
	if f.WithBalance {
		conditions = append(conditions, "current_balance <> 0")
	}
	if f.SearchQuery != "" {
		conditions = append(conditions, "(code ILIKE :search OR name ILIKE :search OR email ILIKE :search OR phone ILIKE :search)")
		args["search"] = "%" + f.SearchQuery + "%"
	}

	whereClause := ""
	if len(conditions) > 0 {
		whereClause = " WHERE " + strings.Join(conditions, " AND ")
	}

	rows, err := r.DB.NamedQueryContext(ctx, "SELECT count(*) FROM customers"+whereClause, args)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	if rows.Next() {
		if err := rows.Scan(&count); err != nil {
			return nil, 0, err
		}
	}

	query := "SELECT * FROM customers" + whereClause + " ORDER BY name ASC"
	if f.PageSize > 0 {
		offset := (f.Page - 1) * f.PageSize
		query += fmt.Sprintf(" LIMIT %d OFFSET %d", f.PageSize, offset)
	}

	nstmt, err := r.DB.PrepareNamedContext(ctx, query)
	if err != nil {
		return nil, 0, err
	}
	defer nstmt.Close()

	if err := nstmt.SelectContext(ctx, &customers, args); err != nil {
		return nil, 0, err
	}
	return customers, count, nil
}

func (r *PGRepository) Update(ctx context.Context, c *model.Customer) error {
	query := `
        UPDATE customers
        SET code = :code,
            name = :name,
            email = :email,
            phone = :phone,
            tax_id = :tax_id,
            address = :address,
            city = :city,
            active = :active,
            credit_limit = :credit_limit,
            updated_at = :updated_at
        WHERE id = :id AND business = :business
    `
	_, err := r.DB.NamedExecContext(ctx, query, c)
	return err
}

func (r *PGRepository) IsCodeUnique(ctx context.Context, business model.Business, code, excludeID string) (bool, error) {
	var count int
	query := `SELECT count(*) FROM customers WHERE business = $1 AND code = $2`
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

func (r *PGRepository) Count(ctx context.Context, business model.Business) (int, error) {
	var count int
	err := r.DB.GetContext(ctx, &count, `SELECT count(*) FROM customers WHERE business = $1`, business)
	return count, err
}
