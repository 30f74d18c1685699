package customer

import (
	"context"

	"github.com/fekuna/omnipos-sales-service/internal/customer/dto"
	"github.com/fekuna/omnipos-sales-service/internal/model"
)

type Repository interface {
	Create(ctx context.Context, customer *model.Customer) error
	FindByID(ctx context.Context, id string) (*model.Customer, error)
	FindAll(ctx context.Context, filters *dto.CustomerFilters) ([]model.Customer, int, error)
	// Update never writes current_balance; balances move through the account ledger only.
	Update(ctx context.Context, customer *model.Customer) error
	IsCodeUnique(ctx context.Context, business model.Business, code, excludeID string) (bool, error)
	Count(ctx context.Context, business model.Business) (int, error)
}
