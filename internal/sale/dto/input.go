package dto

import (
	"github.com/fekuna/omnipos-sales-service/internal/cart"
	"github.com/fekuna/omnipos-sales-service/internal/model"
)

type CheckoutInput struct {
	Business   model.Business
	SellerID   string
	SellerName string
	Cart       *cart.Cart
	// IdempotencyKey identifies one checkout attempt; retries must resend it.
	IdempotencyKey string
}

type SessionCheckoutInput struct {
	Business       model.Business
	SellerID       string
	SellerName     string
	IdempotencyKey string
}
