package dto

import "github.com/fekuna/omnipos-sales-service/internal/model"

type CategoryFilters struct {
	Business    model.Business
	SearchQuery string
	Page        int
	PageSize    int
}
