package account

import (
	"context"

	"github.com/fekuna/omnipos-sales-service/internal/account/dto"
	"github.com/fekuna/omnipos-sales-service/internal/model"
)

type Repository interface {
	// AppendMovement sets m.BalanceAfter from the customer's locked current balance,
	// inserts m and stores the new balance on the customer, all-or-nothing.
	AppendMovement(ctx context.Context, m *model.AccountMovement) error
	ListMovements(ctx context.Context, filters *dto.MovementFilters) ([]model.AccountMovement, int, error)
	// History returns every movement of the customer, oldest first.
	History(ctx context.Context, customerID string) ([]model.AccountMovement, error)
}
