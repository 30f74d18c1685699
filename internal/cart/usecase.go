package cart

import (
	"context"
	"errors"

	"github.com/fekuna/omnipos-sales-service/internal/cart/dto"
	"github.com/shopspring/decimal"
)

var (
	ErrProductNotFound  = errors.New("product not found")
	ErrProductInactive  = errors.New("product is not active")
	ErrCustomerNotFound = errors.New("customer not found")
	ErrCustomerInactive = errors.New("customer is not active")
	ErrNoSession        = errors.New("seller identity required")
)

// UseCase edits the session cart of the calling seller. Every mutation returns the cart as stored.
type UseCase interface {
	GetCart(ctx context.Context, s dto.Session) (*Cart, error)
	AddItem(ctx context.Context, s dto.Session, productID string, quantity int) (*Cart, error)
	RemoveItem(ctx context.Context, s dto.Session, productID string) (*Cart, error)
	UpdateQuantity(ctx context.Context, s dto.Session, productID string, quantity int) (*Cart, error)
	UpdateDiscount(ctx context.Context, s dto.Session, productID string, discount decimal.Decimal) (*Cart, error)
	// SetCustomer with an empty id deselects the customer.
	SetCustomer(ctx context.Context, s dto.Session, customerID string) (*Cart, error)
	SetPaymentMethod(ctx context.Context, s dto.Session, method string) (*Cart, error)
	SetNotes(ctx context.Context, s dto.Session, notes string) (*Cart, error)
	Clear(ctx context.Context, s dto.Session) error
}
