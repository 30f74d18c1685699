package sale

import (
	"context"
	"errors"

	"github.com/fekuna/omnipos-sales-service/internal/account"
	"github.com/fekuna/omnipos-sales-service/internal/cart"
	"github.com/fekuna/omnipos-sales-service/internal/model"
	"github.com/fekuna/omnipos-sales-service/internal/sale/dto"
)

var (
	ErrEmptyCart            = errors.New("cart is empty")
	ErrNoPaymentMethod      = errors.New("no payment method selected")
	ErrAccountNeedsCustomer = cart.ErrAccountNeedsCustomer
	ErrMissingSeller        = errors.New("seller identity is required")
	ErrInvalidBusiness      = errors.New("invalid business")
	ErrCheckoutFailed       = errors.New("could not process the sale, please retry")
	ErrNotFound             = errors.New("sale not found")
	ErrNoSessions           = errors.New("cart sessions are not configured")
)

type CheckoutResult struct {
	Sale    *model.Sale
	Receipt *Receipt
	// Credit is the advisory credit state after an account sale.
	Credit   *account.CreditStatus
	Replayed bool
	// CartCleared reports whether the seller's session cart was removed after CheckoutSession.
	CartCleared bool
}

type UseCase interface {
	Checkout(ctx context.Context, input *dto.CheckoutInput) (*CheckoutResult, error)
	// CheckoutSession checks out the seller's stored cart and clears it on success.
	// On failure the stored cart is left untouched.
	CheckoutSession(ctx context.Context, input *dto.SessionCheckoutInput) (*CheckoutResult, error)
	GetSale(ctx context.Context, business model.Business, id string) (*model.Sale, error)
	ListSales(ctx context.Context, filters *dto.SaleFilters) ([]model.Sale, int, error)
	GetReceipt(ctx context.Context, business model.Business, number int64) (*Receipt, error)
}
