package handler

import (
	"context"
	"errors"

	salesv1 "github.com/fekuna/omnipos-sales-service/api/sales/v1"
	"github.com/fekuna/omnipos-sales-service/internal/cart"
	"github.com/fekuna/omnipos-sales-service/internal/cart/dto"
	"github.com/fekuna/omnipos-sales-service/internal/pkg/grpcx"
	"github.com/fekuna/omnipos-sales-service/internal/pkg/logger"
	"go.uber.org/zap"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/emptypb"
)

var _ salesv1.CartServiceServer = (*CartHandler)(nil)

type CartHandler struct {
	uc     cart.UseCase
	logger logger.ZapLogger
}

func NewCartHandler(uc cart.UseCase, log logger.ZapLogger) *CartHandler {
	return &CartHandler{
		uc:     uc,
		logger: log,
	}
}

func session(ctx context.Context) (dto.Session, error) {
	business, userID, err := grpcx.Seller(ctx)
	if err != nil {
		return dto.Session{}, err
	}
	return dto.Session{Business: business, UserID: userID}, nil
}

func (h *CartHandler) GetCart(ctx context.Context, _ *emptypb.Empty) (*salesv1.CartResponse, error) {
	s, err := session(ctx)
	if err != nil {
		return nil, err
	}
	return h.respond("failed to get cart")(h.uc.GetCart(ctx, s))
}

func (h *CartHandler) AddItem(ctx context.Context, req *salesv1.AddItemRequest) (*salesv1.CartResponse, error) {
	s, err := session(ctx)
	if err != nil {
		return nil, err
	}
	return h.respond("failed to add item")(h.uc.AddItem(ctx, s, req.ProductID, int(req.Quantity)))
}

func (h *CartHandler) RemoveItem(ctx context.Context, req *salesv1.RemoveItemRequest) (*salesv1.CartResponse, error) {
	s, err := session(ctx)
	if err != nil {
		return nil, err
	}
	return h.respond("failed to remove item")(h.uc.RemoveItem(ctx, s, req.ProductID))
}

func (h *CartHandler) UpdateQuantity(ctx context.Context, req *salesv1.UpdateQuantityRequest) (*salesv1.CartResponse, error) {
	s, err := session(ctx)
	if err != nil {
		return nil, err
	}
	return h.respond("failed to update quantity")(h.uc.UpdateQuantity(ctx, s, req.ProductID, int(req.Quantity)))
}

func (h *CartHandler) UpdateDiscount(ctx context.Context, req *salesv1.UpdateDiscountRequest) (*salesv1.CartResponse, error) {
	s, err := session(ctx)
	if err != nil {
		return nil, err
	}
	discount, err := grpcx.Decimal("discount", req.Discount)
	if err != nil {
		return nil, err
	}
	return h.respond("failed to update discount")(h.uc.UpdateDiscount(ctx, s, req.ProductID, discount))
}

func (h *CartHandler) SetCustomer(ctx context.Context, req *salesv1.SetCustomerRequest) (*salesv1.CartResponse, error) {
	s, err := session(ctx)
	if err != nil {
		return nil, err
	}
	return h.respond("failed to set customer")(h.uc.SetCustomer(ctx, s, req.CustomerID))
}

func (h *CartHandler) SetPaymentMethod(ctx context.Context, req *salesv1.SetPaymentMethodRequest) (*salesv1.CartResponse, error) {
	s, err := session(ctx)
	if err != nil {
		return nil, err
	}
	return h.respond("failed to set payment method")(h.uc.SetPaymentMethod(ctx, s, req.PaymentMethod))
}

func (h *CartHandler) SetNotes(ctx context.Context, req *salesv1.SetNotesRequest) (*salesv1.CartResponse, error) {
	s, err := session(ctx)
	if err != nil {
		return nil, err
	}
	return h.respond("failed to set notes")(h.uc.SetNotes(ctx, s, req.Notes))
}

func (h *CartHandler) ClearCart(ctx context.Context, _ *emptypb.Empty) (*emptypb.Empty, error) {
	s, err := session(ctx)
	if err != nil {
		return nil, err
	}
	if err := h.uc.Clear(ctx, s); err != nil {
		return nil, h.toStatus("failed to clear cart", err)
	}
	return &emptypb.Empty{}, nil
}

// respond turns a use-case result into the wire cart or a gRPC status.
func (h *CartHandler) respond(msg string) func(*cart.Cart, error) (*salesv1.CartResponse, error) {
	return func(c *cart.Cart, err error) (*salesv1.CartResponse, error) {
		if err != nil {
			return nil, h.toStatus(msg, err)
		}
		return &salesv1.CartResponse{Cart: MapCart(c)}, nil
	}
}

func (h *CartHandler) toStatus(msg string, err error) error {
	if st, ok := grpcx.InvalidArgument(err); ok {
		return st
	}
	switch {
	case errors.Is(err, cart.ErrProductNotFound), errors.Is(err, cart.ErrCustomerNotFound):
		return status.Error(codes.NotFound, err.Error())
	case errors.Is(err, cart.ErrProductInactive), errors.Is(err, cart.ErrCustomerInactive),
		errors.Is(err, cart.ErrAccountNeedsCustomer):
		return status.Error(codes.FailedPrecondition, err.Error())
	case errors.Is(err, cart.ErrInvalidPaymentMethod):
		return status.Error(codes.InvalidArgument, err.Error())
	case errors.Is(err, cart.ErrNoSession):
		return status.Error(codes.Unauthenticated, err.Error())
	}
	h.logger.Error(msg, zap.Error(err))
	return status.Error(codes.Internal, err.Error())
}

func MapCart(c *cart.Cart) *salesv1.Cart {
	out := &salesv1.Cart{
		Items:         make([]*salesv1.CartLine, len(c.Items)),
		PaymentMethod: string(c.PaymentMethod),
		Notes:         c.Notes,
		Subtotal:      grpcx.Money(c.Subtotal()),
		Discount:      grpcx.Money(c.TotalDiscount()),
		Total:         grpcx.Money(c.Total()),
		ItemCount:     int32(c.ItemCount()),
	}
	for i, l := range c.Items {
		out.Items[i] = &salesv1.CartLine{
			ProductID: l.Product.ID,
			Code:      l.Product.Code,
			Name:      l.Product.Name,
			Stock:     int32(l.Product.Stock),
			Quantity:  int32(l.Quantity),
			UnitPrice: grpcx.Money(l.UnitPrice),
			Discount:  l.Discount.String(),
			Total:     grpcx.Money(l.Total),
		}
	}
	if c.Customer != nil {
		out.Customer = &salesv1.CartCustomer{
			ID:             c.Customer.ID,
			Code:           c.Customer.Code,
			Name:           c.Customer.Name,
			CurrentBalance: grpcx.Money(c.Customer.CurrentBalance),
			CreditLimit:    grpcx.Money(c.Customer.CreditLimit),
		}
	}
	return out
}
