package grpcx

import (
	"context"
	"testing"
	"time"

	"github.com/fekuna/omnipos-sales-service/internal/auth"
	"github.com/fekuna/omnipos-sales-service/internal/money"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

func TestSeller(t *testing.T) {
	if _, _, err := Seller(context.Background()); status.Code(err) != codes.Unauthenticated {
		t.Fatalf("code = %s", status.Code(err))
	}
	ctx := auth.WithUser(context.Background(), auth.UserContext{Business: "lusqtoff", UserID: "u1"})
	b, u, err := Seller(ctx)
	if err != nil || b != "lusqtoff" || u != "u1" {
		t.Fatalf("Seller = %s %s %v", b, u, err)
	}
}

func TestDecimal(t *testing.T) {
	d, err := Decimal("amount", "")
	if err != nil || !d.IsZero() {
		t.Fatalf("empty = %s %v", d, err)
	}
	d, err = Decimal("amount", "12.5")
	if err != nil || Money(d) != "12.50" {
		t.Fatalf("12.5 = %s %v", Money(d), err)
	}
	if _, err := Decimal("amount", "doce"); status.Code(err) != codes.InvalidArgument {
		t.Fatalf("code = %s", status.Code(err))
	}
	if Money(money.MustParse("1250")) != "1250.00" {
		t.Errorf("Money(1250) = %s", Money(money.MustParse("1250")))
	}
}

func TestDate(t *testing.T) {
	loc := time.FixedZone("ART", -3*3600)
	d, err := Date("from", "2026-03-01", loc)
	if err != nil || d.Location() != loc || d.Day() != 1 {
		t.Fatalf("date = %v %v", d, err)
	}
	if d, _ := Date("from", "", loc); d != nil {
		t.Fatal("empty date must be nil")
	}
	if _, err := Date("from", "01/03/2026", loc); status.Code(err) != codes.InvalidArgument {
		t.Fatalf("code = %s", status.Code(err))
	}
}

func TestDateEnd(t *testing.T) {
	loc := time.FixedZone("ART", -3*3600)
	d, err := DateEnd("to", "2026-03-01", loc)
	if err != nil || !d.Equal(time.Date(2026, 3, 2, 0, 0, 0, 0, loc)) {
		t.Fatalf("end = %v %v", d, err)
	}
	exact := "2026-03-01T10:00:00Z"
	d, err = DateEnd("to", exact, loc)
	if err != nil || d.Format(time.RFC3339) != exact {
		t.Fatalf("timestamp end = %v %v", d, err)
	}
}
