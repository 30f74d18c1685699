package dto

import (
	"time"

	"github.com/fekuna/omnipos-sales-service/internal/model"
)

type MovementFilters struct {
	Business     model.Business
	ProductID    string
	SaleID       string
	MovementType string
	StartDate    *time.Time
	EndDate      *time.Time
	Page         int
	PageSize     int
}
