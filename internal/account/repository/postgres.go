package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/fekuna/omnipos-sales-service/internal/account"
	"github.com/fekuna/omnipos-sales-service/internal/account/dto"
	"github.com/fekuna/omnipos-sales-service/internal/model"
	"github.com/fekuna/omnipos-sales-service/internal/money"
	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"
)

type PGRepository struct {
	DB *sqlx.DB
}

func NewPGRepository(db *sqlx.DB) *PGRepository {
	return &PGRepository{DB: db}
}

func (r *PGRepository) AppendMovement(ctx context.Context, m *model.AccountMovement) error {
	tx, err := r.DB.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if err := AppendMovementTx(ctx, tx, m); err != nil {
		return err
	}
	return tx.Commit()
}

// AppendMovementTx applies m inside the caller's transaction. The customer row stays
// locked until that transaction ends, so concurrent writers queue instead of losing updates.
func AppendMovementTx(ctx context.Context, tx *sqlx.Tx, m *model.AccountMovement) error {
	var current decimal.Decimal
	err := tx.GetContext(ctx, &current, `SELECT current_balance FROM customers WHERE id = $1 FOR UPDATE`, m.CustomerID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return account.ErrCustomerNotFound
		}
		return fmt.Errorf("failed to lock customer: %w", err)
	}

	m.Amount = money.Round(m.Amount)
	m.BalanceAfter = money.Round(current.Add(m.Amount))

	insertQuery := `
        INSERT INTO account_movements (
            id, customer_id, sale_id, type, amount, balance_after, description, created_by, created_at
        )
        VALUES (
            :id, :customer_id, :sale_id, :type, :amount, :balance_after, :description, :created_by, :created_at
        )
    `
	if _, err := tx.NamedExecContext(ctx, insertQuery, m); err != nil {
		return fmt.Errorf("failed to insert movement: %w", err)
	}

	_, err = tx.ExecContext(ctx,
		`UPDATE customers SET current_balance = $1, updated_at = $2 WHERE id = $3`,
		m.BalanceAfter, m.CreatedAt, m.CustomerID,
	)
	if err != nil {
		return fmt.Errorf("failed to update balance: %w", err)
	}
	return nil
}

func (r *PGRepository) ListMovements(ctx context.Context, f *dto.MovementFilters) ([]model.AccountMovement, int, error) {
	var items []model.AccountMovement
	var count int

	conditions := []string{"customer_id = :customer_id"}
	args := map[string]interface{}{"customer_id": f.CustomerID}

	if f.Type != "" {
		conditions = append(conditions, "type = :type")
		args["type"] = f.Type
	}

	whereClause := " WHERE " + strings.Join(conditions, " AND ")

	rows, err := r.DB.NamedQueryContext(ctx, "SELECT count(*) FROM account_movements"+whereClause, args)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	if rows.Next() {
		if err := rows.Scan(&count); err != nil {
			return nil, 0, err
		}
	}

	// seq breaks ties between movements written in the same instant
	query := "SELECT id, customer_id, sale_id, type, amount, balance_after, description, created_by, created_at FROM account_movements" +
		whereClause + " ORDER BY seq DESC"
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

func (r *PGRepository) History(ctx context.Context, customerID string) ([]model.AccountMovement, error) {
	var items []model.AccountMovement
	err := r.DB.SelectContext(ctx, &items, `
        SELECT id, customer_id, sale_id, type, amount, balance_after, description, created_by, created_at
        FROM account_movements
        WHERE customer_id = $1
        ORDER BY seq ASC
    `, customerID)
	return items, err
}
