package account

import (
	"context"
	"errors"
	"fmt"

	"github.com/fekuna/omnipos-sales-service/internal/account/dto"
	"github.com/fekuna/omnipos-sales-service/internal/model"
)

var (
	ErrInvalidAmount    = errors.New("amount must be greater than zero")
	ErrCustomerNotFound = errors.New("customer not found")
	ErrLockNotObtained  = errors.New("customer account is busy, please retry")
)

const (
	DefaultPaymentDescription = "Pago recibido"
	DefaultChargeDescription  = "Cargo a cuenta"
)

// LockKey is the distributed lock that fences every balance change of a customer.
func LockKey(customerID string) string {
	return fmt.Sprintf("lock:account:%s", customerID)
}

type UseCase interface {
	RecordPayment(ctx context.Context, input *dto.ManualMovementInput) (*model.AccountMovement, error)
	RecordCharge(ctx context.Context, input *dto.ManualMovementInput) (*model.AccountMovement, error)
	ListMovements(ctx context.Context, business model.Business, filters *dto.MovementFilters) ([]model.AccountMovement, int, error)
	GetCreditStatus(ctx context.Context, business model.Business, customerID string) (*CreditStatus, error)
	VerifyLedger(ctx context.Context, business model.Business, customerID string) (*LedgerReport, error)
}
