package dto

import "github.com/fekuna/omnipos-sales-service/internal/model"

type MovementFilters struct {
	CustomerID string
	Type       model.MovementType
	Page       int
	PageSize   int
}
