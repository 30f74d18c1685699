package usecase

import (
	"context"

	"github.com/fekuna/omnipos-sales-service/internal/cart"
	"github.com/fekuna/omnipos-sales-service/internal/cart/dto"
	"github.com/fekuna/omnipos-sales-service/internal/model"
	"github.com/fekuna/omnipos-sales-service/internal/pkg/logger"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// ProductFinder is satisfied by product.Repository.
type ProductFinder interface {
	FindByID(ctx context.Context, id string) (*model.Product, error)
}

// CustomerFinder is satisfied by customer.Repository.
type CustomerFinder interface {
	FindByID(ctx context.Context, id string) (*model.Customer, error)
}

type cartUseCase struct {
	sessions  cart.SessionRepository
	products  ProductFinder
	customers CustomerFinder
	logger    logger.ZapLogger
}

func NewCartUseCase(sessions cart.SessionRepository, products ProductFinder, customers CustomerFinder, log logger.ZapLogger) cart.UseCase {
	return &cartUseCase{
		sessions:  sessions,
		products:  products,
		customers: customers,
		logger:    log,
	}
}

func (uc *cartUseCase) load(ctx context.Context, s dto.Session) (*cart.Cart, error) {
	if s.UserID == "" || !s.Business.Valid() {
		return nil, cart.ErrNoSession
	}
	c, err := uc.sessions.Get(ctx, s.Business, s.UserID)
	if err != nil {
		return nil, err
	}
	if c == nil {
		c = cart.New()
	}
	return c, nil
}

// mutate loads the cart, applies fn and saves the result.
func (uc *cartUseCase) mutate(ctx context.Context, s dto.Session, fn func(c *cart.Cart) error) (*cart.Cart, error) {
	c, err := uc.load(ctx, s)
	if err != nil {
		return nil, err
	}
	if err := fn(c); err != nil {
		return nil, err
	}
	if err := uc.sessions.Save(ctx, s.Business, s.UserID, c); err != nil {
		uc.logger.Error("failed to save cart", zap.String("user_id", s.UserID), zap.Error(err))
		return nil, err
	}
	return c, nil
}

func (uc *cartUseCase) GetCart(ctx context.Context, s dto.Session) (*cart.Cart, error) {
	return uc.load(ctx, s)
}

func (uc *cartUseCase) AddItem(ctx context.Context, s dto.Session, productID string, quantity int) (*cart.Cart, error) {
	if s.UserID == "" || !s.Business.Valid() {
		return nil, cart.ErrNoSession
	}
	p, err := uc.products.FindByID(ctx, productID)
	if err != nil {
		return nil, err
	}
	if p == nil || p.Business != s.Business {
		return nil, cart.ErrProductNotFound
	}
	if !p.Active {
		return nil, cart.ErrProductInactive
	}

	ref := cart.ProductRef{
		ID:        p.ID,
		Code:      p.Code,
		Name:      p.Name,
		SalePrice: p.SalePrice,
		Stock:     p.Stock,
	}
	return uc.mutate(ctx, s, func(c *cart.Cart) error {
		c.AddItem(ref, quantity)
		return nil
	})
}

func (uc *cartUseCase) RemoveItem(ctx context.Context, s dto.Session, productID string) (*cart.Cart, error) {
	return uc.mutate(ctx, s, func(c *cart.Cart) error {
		c.RemoveItem(productID)
		return nil
	})
}

func (uc *cartUseCase) UpdateQuantity(ctx context.Context, s dto.Session, productID string, quantity int) (*cart.Cart, error) {
	return uc.mutate(ctx, s, func(c *cart.Cart) error {
		c.UpdateQuantity(productID, quantity)
		return nil
	})
}

func (uc *cartUseCase) UpdateDiscount(ctx context.Context, s dto.Session, productID string, discount decimal.Decimal) (*cart.Cart, error) {
	return uc.mutate(ctx, s, func(c *cart.Cart) error {
		c.UpdateDiscount(productID, discount)
		return nil
	})
}

func (uc *cartUseCase) SetCustomer(ctx context.Context, s dto.Session, customerID string) (*cart.Cart, error) {
	var ref *cart.CustomerRef
	if customerID != "" {
		cu, err := uc.customers.FindByID(ctx, customerID)
		if err != nil {
			return nil, err
		}
		if cu == nil || cu.Business != s.Business {
			return nil, cart.ErrCustomerNotFound
		}
		if !cu.Active {
			return nil, cart.ErrCustomerInactive
		}
		ref = &cart.CustomerRef{
			ID:             cu.ID,
			Code:           cu.Code,
			Name:           cu.Name,
			CurrentBalance: cu.CurrentBalance,
			CreditLimit:    cu.CreditLimit,
		}
	}
	return uc.mutate(ctx, s, func(c *cart.Cart) error {
		c.SetCustomer(ref)
		return nil
	})
}

func (uc *cartUseCase) SetPaymentMethod(ctx context.Context, s dto.Session, method string) (*cart.Cart, error) {
	return uc.mutate(ctx, s, func(c *cart.Cart) error {
		return c.SetPaymentMethod(model.PaymentMethod(method))
	})
}

func (uc *cartUseCase) SetNotes(ctx context.Context, s dto.Session, notes string) (*cart.Cart, error) {
	return uc.mutate(ctx, s, func(c *cart.Cart) error {
		c.SetNotes(notes)
		return nil
	})
}

func (uc *cartUseCase) Clear(ctx context.Context, s dto.Session) error {
	if s.UserID == "" || !s.Business.Valid() {
		return cart.ErrNoSession
	}
	return uc.sessions.Delete(ctx, s.Business, s.UserID)
}
