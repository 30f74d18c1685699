package migrations

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
)

// Schema is applied in order; every statement is idempotent.
var Schema = []string{
	`CREATE TABLE IF NOT EXISTS categories (
        id TEXT PRIMARY KEY,
        business TEXT NOT NULL CHECK (business IN ('bendeck_tools', 'lusqtoff')),
        name TEXT NOT NULL,
        description TEXT,
        created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
        updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
    )`,
	`CREATE TABLE IF NOT EXISTS products (
        id TEXT PRIMARY KEY,
        business TEXT NOT NULL CHECK (business IN ('bendeck_tools', 'lusqtoff')),
        category_id TEXT REFERENCES categories(id) ON DELETE SET NULL,
        code TEXT NOT NULL,
        name TEXT NOT NULL,
        description TEXT,
        image_url TEXT,
        purchase_price NUMERIC(14,2) NOT NULL DEFAULT 0,
        sale_price NUMERIC(14,2) NOT NULL DEFAULT 0,
        stock INTEGER NOT NULL DEFAULT 0,
        min_stock INTEGER NOT NULL DEFAULT 0,
        active BOOLEAN NOT NULL DEFAULT true,
        created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
        updated_at TIMESTAMPTZ NOT NULL DEFAULT now(),
        UNIQUE (business, code)
    )`,
	`CREATE INDEX IF NOT EXISTS products_low_stock_idx ON products (business, stock) WHERE active`,
	`CREATE TABLE IF NOT EXISTS customers (
        id TEXT PRIMARY KEY,
        business TEXT NOT NULL CHECK (business IN ('bendeck_tools', 'lusqtoff')),
        code TEXT NOT NULL,
        name TEXT NOT NULL,
        email TEXT,
        phone TEXT,
        tax_id TEXT,
        address TEXT,
        city TEXT,
        active BOOLEAN NOT NULL DEFAULT true,
        credit_limit NUMERIC(14,2) NOT NULL DEFAULT 0 CHECK (credit_limit >= 0),
        current_balance NUMERIC(14,2) NOT NULL DEFAULT 0,
        created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
        updated_at TIMESTAMPTZ NOT NULL DEFAULT now(),
        UNIQUE (business, code)
    )`,
	`CREATE TABLE IF NOT EXISTS sales (
        id TEXT PRIMARY KEY,
        sale_number BIGSERIAL NOT NULL UNIQUE,
        business TEXT NOT NULL CHECK (business IN ('bendeck_tools', 'lusqtoff')),
        customer_id TEXT REFERENCES customers(id),
        customer_name TEXT,
        seller_id TEXT NOT NULL,
        seller_name TEXT NOT NULL DEFAULT '',
        status TEXT NOT NULL CHECK (status IN ('pending', 'completed', 'cancelled')),
        subtotal NUMERIC(14,2) NOT NULL,
        discount NUMERIC(14,2) NOT NULL DEFAULT 0,
        tax NUMERIC(14,2) NOT NULL DEFAULT 0,
        total NUMERIC(14,2) NOT NULL,
        payment_method TEXT NOT NULL CHECK (payment_method IN ('cash', 'card', 'transfer', 'account')),
        notes TEXT,
        idempotency_key TEXT NOT NULL,
        created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
        CONSTRAINT sales_idempotency_key_key UNIQUE (idempotency_key),
        CONSTRAINT sales_account_needs_customer CHECK (payment_method <> 'account' OR customer_id IS NOT NULL)
    )`,
	`CREATE INDEX IF NOT EXISTS sales_business_created_idx ON sales (business, created_at)`,
	`CREATE TABLE IF NOT EXISTS sale_items (
        id TEXT PRIMARY KEY,
        sale_id TEXT NOT NULL REFERENCES sales(id) ON DELETE CASCADE,
        product_id TEXT NOT NULL,
        product_code TEXT NOT NULL,
        product_name TEXT NOT NULL,
        quantity INTEGER NOT NULL CHECK (quantity > 0),
        unit_price NUMERIC(14,2) NOT NULL,
        discount NUMERIC(5,2) NOT NULL DEFAULT 0 CHECK (discount BETWEEN 0 AND 100),
        total NUMERIC(14,2) NOT NULL,
        created_at TIMESTAMPTZ NOT NULL DEFAULT now()
    )`,
	`CREATE INDEX IF NOT EXISTS sale_items_sale_idx ON sale_items (sale_id)`,
	`CREATE TABLE IF NOT EXISTS account_movements (
        seq BIGSERIAL UNIQUE,
        id TEXT PRIMARY KEY,
        customer_id TEXT NOT NULL REFERENCES customers(id),
        sale_id TEXT REFERENCES sales(id),
        type TEXT NOT NULL CHECK (type IN ('sale', 'payment', 'credit')),
        amount NUMERIC(14,2) NOT NULL,
        balance_after NUMERIC(14,2) NOT NULL,
        description TEXT NOT NULL DEFAULT '',
        created_by TEXT,
        created_at TIMESTAMPTZ NOT NULL DEFAULT now()
    )`,
	`CREATE INDEX IF NOT EXISTS account_movements_customer_idx ON account_movements (customer_id, seq)`,
	`CREATE TABLE IF NOT EXISTS stock_movements (
        id TEXT PRIMARY KEY,
        business TEXT NOT NULL,
        product_id TEXT NOT NULL,
        sale_id TEXT REFERENCES sales(id),
        movement_type TEXT NOT NULL,
        quantity_change INTEGER NOT NULL,
        quantity_before INTEGER NOT NULL,
        quantity_after INTEGER NOT NULL,
        notes TEXT NOT NULL DEFAULT '',
        created_by TEXT,
        created_at TIMESTAMPTZ NOT NULL DEFAULT now()
    )`,
	`CREATE INDEX IF NOT EXISTS stock_movements_product_idx ON stock_movements (product_id, created_at)`,
	`CREATE TABLE IF NOT EXISTS notifications (
        id TEXT PRIMARY KEY,
        business TEXT,
        user_id TEXT,
        title TEXT NOT NULL,
        message TEXT NOT NULL,
        type TEXT NOT NULL DEFAULT 'info',
        read BOOLEAN NOT NULL DEFAULT false,
        created_at TIMESTAMPTZ NOT NULL DEFAULT now()
    )`,
	`CREATE INDEX IF NOT EXISTS notifications_business_created_idx ON notifications (business, created_at DESC)`,
}

// Run applies Schema inside one transaction.
func Run(ctx context.Context, db *sqlx.DB) error {
	tx, err := db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	for i, stmt := range Schema {
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("migration %d: %w", i, err)
		}
	}
	return tx.Commit()
}
