package dto

import (
	"time"

	"github.com/fekuna/omnipos-sales-service/internal/model"
)

type SaleFilters struct {
	Business      model.Business
	CustomerID    string
	SellerID      string
	Status        model.SaleStatus
	PaymentMethod model.PaymentMethod
	From          *time.Time
	To            *time.Time
	Page          int
	PageSize      int
}
