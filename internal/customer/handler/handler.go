package handler

import (
	"context"
	"errors"

	salesv1 "github.com/fekuna/omnipos-sales-service/api/sales/v1"
	"github.com/fekuna/omnipos-sales-service/internal/customer"
	"github.com/fekuna/omnipos-sales-service/internal/customer/dto"
	"github.com/fekuna/omnipos-sales-service/internal/model"
	"github.com/fekuna/omnipos-sales-service/internal/pkg/grpcx"
	"github.com/fekuna/omnipos-sales-service/internal/pkg/logger"
	"go.uber.org/zap"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

var _ salesv1.CustomerServiceServer = (*CustomerHandler)(nil)

type CustomerHandler struct {
	uc     customer.UseCase
	logger logger.ZapLogger
}

func NewCustomerHandler(uc customer.UseCase, log logger.ZapLogger) *CustomerHandler {
	return &CustomerHandler{
		uc:     uc,
		logger: log,
	}
}

func (h *CustomerHandler) CreateCustomer(ctx context.Context, req *salesv1.CreateCustomerRequest) (*salesv1.CustomerResponse, error) {
	business, err := grpcx.Business(ctx)
	if err != nil {
		return nil, err
	}
	limit, err := grpcx.Decimal("credit_limit", req.CreditLimit)
	if err != nil {
		return nil, err
	}

	c, err := h.uc.CreateCustomer(ctx, &dto.CreateCustomerInput{
		Business:    business,
		Code:        req.Code,
		Name:        req.Name,
		Email:       req.Email,
		Phone:       req.Phone,
		TaxID:       req.TaxID,
		Address:     req.Address,
		City:        req.City,
		CreditLimit: limit,
	})
	if err != nil {
		return nil, h.toStatus("failed to create customer", err)
	}
	return &salesv1.CustomerResponse{Customer: MapCustomer(c)}, nil
}

func (h *CustomerHandler) GetCustomer(ctx context.Context, req *salesv1.IDRequest) (*salesv1.CustomerResponse, error) {
	business, err := grpcx.Business(ctx)
	if err != nil {
		return nil, err
	}
	c, err := h.uc.GetCustomer(ctx, business, req.ID)
	if err != nil {
		return nil, h.toStatus("failed to get customer", err)
	}
	return &salesv1.CustomerResponse{Customer: MapCustomer(c)}, nil
}

func (h *CustomerHandler) ListCustomers(ctx context.Context, req *salesv1.ListCustomersRequest) (*salesv1.ListCustomersResponse, error) {
	business, err := grpcx.Business(ctx)
	if err != nil {
		return nil, err
	}

	filters := &dto.CustomerFilters{
		Business:    business,
		SearchQuery: req.Query,
		WithBalance: req.WithBalance,
		Page:        int(req.Page.Page),
		PageSize:    int(req.PageSize),
	}
	if req.OnlyActive {
		active := true
		filters.Active = &active
	}

	customers, total, err := h.uc.ListCustomers(ctx, filters)
	if err != nil {
		return nil, h.toStatus("failed to list customers", err)
	}
	out := make([]*salesv1.Customer, len(customers))
	for i := range customers {
		out[i] = MapCustomer(&customers[i])
	}
	return &salesv1.ListCustomersResponse{Customers: out, Total: int32(total), Page: req.Page}, nil
}

func (h *CustomerHandler) UpdateCustomer(ctx context.Context, req *salesv1.UpdateCustomerRequest) (*salesv1.CustomerResponse, error) {
	business, err := grpcx.Business(ctx)
	if err != nil {
		return nil, err
	}
	limit, err := grpcx.Decimal("credit_limit", req.CreditLimit)
	if err != nil {
		return nil, err
	}

	c, err := h.uc.UpdateCustomer(ctx, &dto.UpdateCustomerInput{
		ID:          req.ID,
		Business:    business,
		Code:        req.Code,
		Name:        req.Name,
		Email:       req.Email,
		Phone:       req.Phone,
		TaxID:       req.TaxID,
		Address:     req.Address,
		City:        req.City,
		CreditLimit: limit,
		Active:      req.Active,
	})
	if err != nil {
		return nil, h.toStatus("failed to update customer", err)
	}
	return &salesv1.CustomerResponse{Customer: MapCustomer(c)}, nil
}

func (h *CustomerHandler) toStatus(msg string, err error) error {
	if st, ok := grpcx.InvalidArgument(err); ok {
		return st
	}
	switch {
	case errors.Is(err, customer.ErrNotFound):
		return status.Error(codes.NotFound, err.Error())
	case errors.Is(err, customer.ErrCodeTaken):
		return status.Error(codes.AlreadyExists, err.Error())
	}
	h.logger.Error(msg, zap.Error(err))
	return status.Error(codes.Internal, err.Error())
}

func MapCustomer(c *model.Customer) *salesv1.Customer {
	return &salesv1.Customer{
		ID:             c.ID,
		Business:       string(c.Business),
		Code:           c.Code,
		Name:           c.Name,
		Email:          grpcx.Deref(c.Email),
		Phone:          grpcx.Deref(c.Phone),
		TaxID:          grpcx.Deref(c.TaxID),
		Address:        grpcx.Deref(c.Address),
		City:           grpcx.Deref(c.City),
		Active:         c.Active,
		CreditLimit:    grpcx.Money(c.CreditLimit),
		CurrentBalance: grpcx.Money(c.CurrentBalance),
		CreatedAt:      grpcx.Time(c.CreatedAt),
		UpdatedAt:      grpcx.Time(c.UpdatedAt),
	}
}
