package httpapi

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/fekuna/omnipos-sales-service/internal/auth"
	"github.com/fekuna/omnipos-sales-service/internal/model"
	"github.com/fekuna/omnipos-sales-service/internal/money"
	"github.com/fekuna/omnipos-sales-service/internal/pkg/i18n"
	"github.com/fekuna/omnipos-sales-service/internal/pkg/logger"
	"github.com/fekuna/omnipos-sales-service/internal/pkg/middleware"
	"github.com/fekuna/omnipos-sales-service/internal/report"
	"github.com/fekuna/omnipos-sales-service/internal/report/dto"
	"github.com/fekuna/omnipos-sales-service/internal/sale"
	"github.com/golang-jwt/jwt/v5"
)

const secret = "http-secret"

type fakeSales struct {
	sale.UseCase
}

func (fakeSales) GetReceipt(_ context.Context, business model.Business, number int64) (*sale.Receipt, error) {
	if business != model.BusinessLusqtoff || number != 7 {
		return nil, sale.ErrNotFound
	}
	return &sale.Receipt{
		SaleNumber:    7,
		BusinessName:  "Lusqtoff",
		PaymentMethod: model.PaymentCash,
		Subtotal:      money.MustParse("10"),
		Discount:      money.Zero,
		Total:         money.MustParse("10"),
		IssuedAt:      time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC),
	}, nil
}

type fakeReports struct {
	report.UseCase
	input *dto.SalesReportInput
	lang  string
}

func (f *fakeReports) ExportSalesReport(_ context.Context, in *dto.SalesReportInput, lang string, w io.Writer) error {
	f.input, f.lang = in, lang
	if in.Period == "yearly" {
		return report.ErrInvalidPeriod
	}
	_, err := w.Write([]byte("PK"))
	return err
}

func token(t *testing.T) string {
	t.Helper()
	raw, err := jwt.NewWithClaims(jwt.SigningMethodHS256, middleware.Claims{
		Business:         string(model.BusinessLusqtoff),
		Role:             auth.RoleSeller,
		RegisteredClaims: jwt.RegisteredClaims{Subject: "u1", ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour))},
	}).SignedString([]byte(secret))
	if err != nil {
		t.Fatal(err)
	}
	return raw
}

func newServer(reports *fakeReports) http.Handler {
	return NewRouter(Deps{
		Sales:    fakeSales{},
		Reports:  reports,
		Verifier: middleware.NewVerifier(secret),
		Bundle:   i18n.MustNewBundle(),
		Locale:   "es",
		Location: time.UTC,
		Logger:   logger.NewNop(),
	})
}

func get(t *testing.T, h http.Handler, path string, authorized bool) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if authorized {
		req.Header.Set("Authorization", "Bearer "+token(t))
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestRoutes(t *testing.T) {
	h := newServer(&fakeReports{})
	tests := []struct {
		name       string
		path       string
		authorized bool
		want       int
	}{
		{"health is public", "/healthz", false, http.StatusOK},
		{"receipt needs token", "/sales/7/receipt", false, http.StatusUnauthorized},
		{"receipt", "/sales/7/receipt", true, http.StatusOK},
		{"receipt of other number", "/sales/8/receipt", true, http.StatusNotFound},
		{"bad number", "/sales/abc/receipt", true, http.StatusBadRequest},
		{"export", "/reports/sales.xlsx?period=weekly", true, http.StatusOK},
		{"export bad date", "/reports/sales.xlsx?period=custom&from=02-03-2026", true, http.StatusBadRequest},
		{"export bad period", "/reports/sales.xlsx?period=yearly", true, http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if rec := get(t, h, tt.path, tt.authorized); rec.Code != tt.want {
				t.Fatalf("status = %d, want %d: %s", rec.Code, tt.want, rec.Body.String())
			}
		})
	}
}

func TestReceiptText(t *testing.T) {
	rec := get(t, newServer(&fakeReports{}), "/sales/7/receipt", true)
	body := rec.Body.String()
	if !strings.Contains(body, "Venta #7") || !strings.Contains(body, "Efectivo") {
		t.Fatalf("unexpected receipt:\n%s", body)
	}
	if ct := rec.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/plain") {
		t.Fatalf("content type = %q", ct)
	}
}

func TestExportPassesFilters(t *testing.T) {
	reports := &fakeReports{}
	rec := get(t, newServer(reports), "/reports/sales.xlsx?period=custom&from=2026-03-01&to=2026-03-05&lang=en", true)
	if rec.Code != http.StatusOK || rec.Header().Get("Content-Type") != xlsxContentType {
		t.Fatalf("status %d type %q", rec.Code, rec.Header().Get("Content-Type"))
	}
	in := reports.input
	if in.Business != model.BusinessLusqtoff || in.Period != "custom" || reports.lang != "en" {
		t.Fatalf("unexpected input %+v lang %s", in, reports.lang)
	}
	if in.From == nil || in.From.Day() != 1 || in.To == nil || in.To.Day() != 5 {
		t.Fatalf("unexpected range %v - %v", in.From, in.To)
	}
}
