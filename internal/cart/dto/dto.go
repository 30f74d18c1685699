package dto

import "github.com/fekuna/omnipos-sales-service/internal/model"

// Session identifies whose cart is being edited.
type Session struct {
	Business model.Business
	UserID   string
}
