// Package grpcx holds the conversions every gRPC handler repeats.
package grpcx

import (
	"context"
	"fmt"
	"time"

	"github.com/fekuna/omnipos-sales-service/internal/auth"
	"github.com/fekuna/omnipos-sales-service/internal/model"
	"github.com/fekuna/omnipos-sales-service/internal/pkg/validate"
	"github.com/shopspring/decimal"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

const dateLayout = "2006-01-02"

// Business returns the caller's business or an Unauthenticated status.
func Business(ctx context.Context) (model.Business, error) {
	b := model.Business(auth.GetBusiness(ctx))
	if !b.Valid() {
		return "", status.Error(codes.Unauthenticated, "missing business")
	}
	return b, nil
}

// Seller returns the business and user id of the caller.
func Seller(ctx context.Context) (model.Business, string, error) {
	b, err := Business(ctx)
	if err != nil {
		return "", "", err
	}
	userID := auth.GetUserID(ctx)
	if userID == "" {
		return "", "", status.Error(codes.Unauthenticated, "missing user")
	}
	return b, userID, nil
}

func Time(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(time.RFC3339)
}

func Money(d decimal.Decimal) string {
	return d.StringFixed(2)
}

// Decimal parses an optional decimal field; empty means zero.
func Decimal(field, s string) (decimal.Decimal, error) {
	if s == "" {
		return decimal.Zero, nil
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, status.Error(codes.InvalidArgument, fmt.Sprintf("%s: invalid decimal %q", field, s))
	}
	return d, nil
}

// Date parses an optional YYYY-MM-DD or RFC 3339 value in loc.
func Date(field, s string, loc *time.Location) (*time.Time, error) {
	if s == "" {
		return nil, nil
	}
	if t, err := time.ParseInLocation(dateLayout, s, loc); err == nil {
		return &t, nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return nil, status.Error(codes.InvalidArgument, fmt.Sprintf("%s: invalid date %q", field, s))
	}
	return &t, nil
}

// DateEnd is Date for exclusive upper bounds: a bare day covers the whole day.
func DateEnd(field, s string, loc *time.Location) (*time.Time, error) {
	if s == "" {
		return nil, nil
	}
	if t, err := time.ParseInLocation(dateLayout, s, loc); err == nil {
		end := t.AddDate(0, 0, 1)
		return &end, nil
	}
	return Date(field, s, loc)
}

func Deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// Ptr returns nil for the empty string.
func Ptr(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

// InvalidArgument maps validation errors; ok is false for anything else.
func InvalidArgument(err error) (error, bool) {
	if validate.IsValidationError(err) {
		return status.Error(codes.InvalidArgument, err.Error()), true
	}
	return nil, false
}
