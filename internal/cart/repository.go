package cart

import (
	"context"
	"fmt"

	"github.com/fekuna/omnipos-sales-service/internal/model"
)

// SessionRepository keeps the open cart of each seller so a terminal can resume it.
type SessionRepository interface {
	// Get returns nil, nil when the seller has no open cart.
	Get(ctx context.Context, business model.Business, userID string) (*Cart, error)
	Save(ctx context.Context, business model.Business, userID string, c *Cart) error
	Delete(ctx context.Context, business model.Business, userID string) error
}

func SessionKey(business model.Business, userID string) string {
	return fmt.Sprintf("cart:%s:%s", business, userID)
}
