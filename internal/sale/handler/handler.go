package handler

import (
	"context"
	"errors"
	"time"

	salesv1 "github.com/fekuna/omnipos-sales-service/api/sales/v1"
	accounthandler "github.com/fekuna/omnipos-sales-service/internal/account/handler"
	"github.com/fekuna/omnipos-sales-service/internal/auth"
	"github.com/fekuna/omnipos-sales-service/internal/model"
	"github.com/fekuna/omnipos-sales-service/internal/pkg/grpcx"
	"github.com/fekuna/omnipos-sales-service/internal/pkg/i18n"
	"github.com/fekuna/omnipos-sales-service/internal/pkg/logger"
	"github.com/fekuna/omnipos-sales-service/internal/sale"
	"github.com/fekuna/omnipos-sales-service/internal/sale/dto"
	"go.uber.org/zap"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

var _ salesv1.SaleServiceServer = (*SaleHandler)(nil)

type SaleHandler struct {
	uc     sale.UseCase
	bundle *i18n.Bundle
	locale string
	loc    *time.Location
	logger logger.ZapLogger
}

// NewSaleHandler renders receipts in locale unless a request asks for another language.
func NewSaleHandler(uc sale.UseCase, bundle *i18n.Bundle, locale string, loc *time.Location, log logger.ZapLogger) *SaleHandler {
	if loc == nil {
		loc = time.Local
	}
	return &SaleHandler{
		uc:     uc,
		bundle: bundle,
		locale: locale,
		loc:    loc,
		logger: log,
	}
}

func (h *SaleHandler) Checkout(ctx context.Context, req *salesv1.CheckoutRequest) (*salesv1.CheckoutResponse, error) {
	business, sellerID, err := grpcx.Seller(ctx)
	if err != nil {
		return nil, err
	}
	if req.IdempotencyKey == "" {
		return nil, status.Error(codes.InvalidArgument, "idempotency_key is required")
	}

	res, err := h.uc.CheckoutSession(ctx, &dto.SessionCheckoutInput{
		Business:       business,
		SellerID:       sellerID,
		SellerName:     auth.GetFullName(ctx),
		IdempotencyKey: req.IdempotencyKey,
	})
	if err != nil {
		return nil, h.toStatus("checkout failed", err)
	}

	return &salesv1.CheckoutResponse{
		Sale:        MapSale(res.Sale),
		Receipt:     h.mapReceipt(res.Receipt, h.locale),
		Credit:      accounthandler.MapCredit(res.Credit),
		Replayed:    res.Replayed,
		CartCleared: res.CartCleared,
	}, nil
}

func (h *SaleHandler) GetSale(ctx context.Context, req *salesv1.IDRequest) (*salesv1.SaleResponse, error) {
	business, err := grpcx.Business(ctx)
	if err != nil {
		return nil, err
	}
	s, err := h.uc.GetSale(ctx, business, req.ID)
	if err != nil {
		return nil, h.toStatus("failed to get sale", err)
	}
	return &salesv1.SaleResponse{Sale: MapSale(s)}, nil
}

func (h *SaleHandler) ListSales(ctx context.Context, req *salesv1.ListSalesRequest) (*salesv1.ListSalesResponse, error) {
	business, err := grpcx.Business(ctx)
	if err != nil {
		return nil, err
	}
	from, err := grpcx.Date("from", req.From, h.loc)
	if err != nil {
		return nil, err
	}
	to, err := grpcx.DateEnd("to", req.To, h.loc)
	if err != nil {
		return nil, err
	}

	sales, total, err := h.uc.ListSales(ctx, &dto.SaleFilters{
		Business:      business,
		CustomerID:    req.CustomerID,
		SellerID:      req.SellerID,
		Status:        model.SaleStatus(req.Status),
		PaymentMethod: model.PaymentMethod(req.PaymentMethod),
		From:          from,
		To:            to,
		Page:          int(req.Page.Page),
		PageSize:      int(req.PageSize),
	})
	if err != nil {
		return nil, h.toStatus("failed to list sales", err)
	}

	out := make([]*salesv1.Sale, len(sales))
	for i := range sales {
		out[i] = MapSale(&sales[i])
	}
	return &salesv1.ListSalesResponse{Sales: out, Total: int32(total), Page: req.Page}, nil
}

func (h *SaleHandler) GetReceipt(ctx context.Context, req *salesv1.GetReceiptRequest) (*salesv1.ReceiptResponse, error) {
	business, err := grpcx.Business(ctx)
	if err != nil {
		return nil, err
	}
	r, err := h.uc.GetReceipt(ctx, business, req.SaleNumber)
	if err != nil {
		return nil, h.toStatus("failed to get receipt", err)
	}
	lang := req.Language
	if lang == "" {
		lang = h.locale
	}
	return &salesv1.ReceiptResponse{Receipt: h.mapReceipt(r, lang)}, nil
}

func (h *SaleHandler) toStatus(msg string, err error) error {
	if st, ok := grpcx.InvalidArgument(err); ok {
		return st
	}
	switch {
	case errors.Is(err, sale.ErrNotFound):
		return status.Error(codes.NotFound, err.Error())
	case errors.Is(err, sale.ErrEmptyCart), errors.Is(err, sale.ErrNoPaymentMethod),
		errors.Is(err, sale.ErrAccountNeedsCustomer):
		return status.Error(codes.FailedPrecondition, err.Error())
	case errors.Is(err, sale.ErrMissingSeller), errors.Is(err, sale.ErrInvalidBusiness):
		return status.Error(codes.InvalidArgument, err.Error())
	case errors.Is(err, sale.ErrCheckoutFailed):
		// retryable with the same idempotency key
		h.logger.Warn(msg, zap.Error(err))
		return status.Error(codes.Unavailable, err.Error())
	case errors.Is(err, sale.ErrNoSessions):
		return status.Error(codes.Unimplemented, err.Error())
	}
	h.logger.Error(msg, zap.Error(err))
	return status.Error(codes.Internal, err.Error())
}

func (h *SaleHandler) mapReceipt(r *sale.Receipt, lang string) *salesv1.Receipt {
	if r == nil {
		return nil
	}
	tr := h.bundle.Translator(lang, h.locale)
	out := &salesv1.Receipt{
		SaleNumber:    r.SaleNumber,
		BusinessName:  r.BusinessName,
		Items:         make([]*salesv1.SaleItem, len(r.Items)),
		CustomerName:  r.CustomerName,
		PaymentMethod: string(r.PaymentMethod),
		PaymentLabel:  sale.PaymentLabel(r.PaymentMethod, tr),
		Subtotal:      grpcx.Money(r.Subtotal),
		Discount:      grpcx.Money(r.Discount),
		Total:         grpcx.Money(r.Total),
		SellerName:    r.SellerName,
		Notes:         r.Notes,
		IssuedAt:      grpcx.Time(r.IssuedAt),
		Text:          sale.RenderText(r, tr),
	}
	for i, it := range r.Items {
		out.Items[i] = &salesv1.SaleItem{
			ProductCode: it.Code,
			ProductName: it.Name,
			Quantity:    int32(it.Quantity),
			UnitPrice:   grpcx.Money(it.UnitPrice),
			Discount:    it.Discount.String(),
			Total:       grpcx.Money(it.Total),
		}
	}
	if r.BalanceAfter != nil {
		out.BalanceAfter = grpcx.Money(*r.BalanceAfter)
	}
	return out
}

func MapSale(s *model.Sale) *salesv1.Sale {
	out := &salesv1.Sale{
		ID:             s.ID,
		SaleNumber:     s.SaleNumber,
		Business:       string(s.Business),
		CustomerID:     grpcx.Deref(s.CustomerID),
		CustomerName:   grpcx.Deref(s.CustomerName),
		SellerID:       s.SellerID,
		SellerName:     s.SellerName,
		Status:         string(s.Status),
		Subtotal:       grpcx.Money(s.Subtotal),
		Discount:       grpcx.Money(s.Discount),
		Tax:            grpcx.Money(s.Tax),
		Total:          grpcx.Money(s.Total),
		PaymentMethod:  string(s.PaymentMethod),
		Notes:          grpcx.Deref(s.Notes),
		IdempotencyKey: s.IdempotencyKey,
		CreatedAt:      grpcx.Time(s.CreatedAt),
	}
	if len(s.Items) > 0 {
		out.Items = make([]*salesv1.SaleItem, len(s.Items))
		for i, it := range s.Items {
			out.Items[i] = &salesv1.SaleItem{
				ProductID:   it.ProductID,
				ProductCode: it.ProductCode,
				ProductName: it.ProductName,
				Quantity:    int32(it.Quantity),
				UnitPrice:   grpcx.Money(it.UnitPrice),
				Discount:    it.Discount.String(),
				Total:       grpcx.Money(it.Total),
			}
		}
	}
	return out
}
