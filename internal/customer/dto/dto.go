package dto

import "github.com/fekuna/omnipos-sales-service/internal/model"

type CustomerFilters struct {
	Business    model.Business
	Active      *bool
	SearchQuery string // code, name, email, phone
	WithBalance bool   // current_balance <> 0
	Page        int
	PageSize    int
}
