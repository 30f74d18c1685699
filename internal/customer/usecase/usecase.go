package usecase

import (
	"context"
	"time"

	"github.com/fekuna/omnipos-sales-service/internal/customer"
	"github.com/fekuna/omnipos-sales-service/internal/customer/dto"
	"github.com/fekuna/omnipos-sales-service/internal/model"
	"github.com/fekuna/omnipos-sales-service/internal/money"
	"github.com/fekuna/omnipos-sales-service/internal/pkg/logger"
	"github.com/fekuna/omnipos-sales-service/internal/pkg/postgres"
	"github.com/fekuna/omnipos-sales-service/internal/pkg/validate"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type customerUseCase struct {
	repo   customer.Repository
	logger logger.ZapLogger
}

func NewCustomerUseCase(repo customer.Repository, log logger.ZapLogger) customer.UseCase {
	return &customerUseCase{repo: repo, logger: log}
}

func (uc *customerUseCase) CreateCustomer(ctx context.Context, input *dto.CreateCustomerInput) (*model.Customer, error) {
	if err := validate.Struct(input); err != nil {
		return nil, err
	}
	if input.CreditLimit.IsNegative() {
		return nil, &validate.Error{Fields: map[string]string{"CreditLimit": "gte"}}
	}

	unique, err := uc.repo.IsCodeUnique(ctx, input.Business, input.Code, "")
	if err != nil {
		return nil, err
	}
	if !unique {
		return nil, customer.ErrCodeTaken
	}

	now := time.Now()
	c := &model.Customer{
		BaseModel:      model.BaseModel{ID: uuid.New().String(), CreatedAt: now, UpdatedAt: now},
		Business:       input.Business,
		Code:           input.Code,
		Name:           input.Name,
		Email:          optional(input.Email),
		Phone:          optional(input.Phone),
		TaxID:          optional(input.TaxID),
		Address:        optional(input.Address),
		City:           optional(input.City),
		Active:         true,
		CreditLimit:    money.Round(input.CreditLimit),
		CurrentBalance: money.Zero,
	}

	if err := uc.repo.Create(ctx, c); err != nil {
		if postgres.IsUniqueViolation(err) {
			return nil, customer.ErrCodeTaken
		}
		uc.logger.Error("failed to create customer", zap.String("code", input.Code), zap.Error(err))
		return nil, err
	}
	return c, nil
}

func (uc *customerUseCase) GetCustomer(ctx context.Context, business model.Business, id string) (*model.Customer, error) {
	c, err := uc.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if c == nil || c.Business != business {
		return nil, customer.ErrNotFound
	}
	return c, nil
}

func (uc *customerUseCase) ListCustomers(ctx context.Context, filters *dto.CustomerFilters) ([]model.Customer, int, error) {
	return uc.repo.FindAll(ctx, filters)
}

func (uc *customerUseCase) UpdateCustomer(ctx context.Context, input *dto.UpdateCustomerInput) (*model.Customer, error) {
	if err := validate.Struct(input); err != nil {
		return nil, err
	}
	if input.CreditLimit.IsNegative() {
		return nil, &validate.Error{Fields: map[string]string{"CreditLimit": "gte"}}
	}

	c, err := uc.GetCustomer(ctx, input.Business, input.ID)
	if err != nil {
		return nil, err
	}

	if c.Code != input.Code {
		unique, err := uc.repo.IsCodeUnique(ctx, input.Business, input.Code, c.ID)
		if err != nil {
			return nil, err
		}
		if !unique {
			return nil, customer.ErrCodeTaken
		}
	}

	c.Code = input.Code
	c.Name = input.Name
	c.Email = optional(input.Email)
	c.Phone = optional(input.Phone)
	c.TaxID = optional(input.TaxID)
	c.Address = optional(input.Address)
	c.City = optional(input.City)
	c.CreditLimit = money.Round(input.CreditLimit)
	c.Active = input.Active
	c.UpdatedAt = time.Now()

	if err := uc.repo.Update(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
