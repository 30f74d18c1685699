package dto

import "github.com/fekuna/omnipos-sales-service/internal/model"

type ProductFilters struct {
	Business    model.Business
	CategoryID  string
	Active      *bool
	InStock     bool   // stock > 0
	SearchQuery string // code, name, description
	SortBy      string // name, price, stock, created_at
	SortOrder   string // asc, desc
	Page        int
	PageSize    int
}
