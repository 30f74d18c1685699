// Package httpapi serves the plain-HTTP side of the service: printable receipts
// and the spreadsheet export, which do not fit a unary JSON RPC.
package httpapi

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/fekuna/omnipos-sales-service/internal/auth"
	"github.com/fekuna/omnipos-sales-service/internal/model"
	"github.com/fekuna/omnipos-sales-service/internal/pkg/i18n"
	"github.com/fekuna/omnipos-sales-service/internal/pkg/logger"
	"github.com/fekuna/omnipos-sales-service/internal/pkg/middleware"
	"github.com/fekuna/omnipos-sales-service/internal/pkg/validate"
	"github.com/fekuna/omnipos-sales-service/internal/report"
	"github.com/fekuna/omnipos-sales-service/internal/report/dto"
	"github.com/fekuna/omnipos-sales-service/internal/sale"
	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
)

const (
	xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	dateLayout      = "2006-01-02"
)

type Deps struct {
	Sales    sale.UseCase
	Reports  report.UseCase
	Verifier *middleware.Verifier
	Bundle   *i18n.Bundle
	Locale   string
	Location *time.Location
	Logger   logger.ZapLogger
}

type api struct {
	Deps
}

func NewRouter(d Deps) http.Handler {
	if d.Location == nil {
		d.Location = time.Local
	}
	a := &api{Deps: d}

	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.Recoverer)
	r.Use(a.requestLogger)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		_, _ = w.Write([]byte("ok"))
	})

	r.Group(func(r chi.Router) {
		r.Use(d.Verifier.HTTP)
		r.Get("/sales/{number}/receipt", a.receipt)
		r.Get("/reports/sales.xlsx", a.exportSales)
	})
	return r
}

func (a *api) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		a.Logger.Info("http request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", ww.Status()),
			zap.Duration("latency", time.Since(start)),
			zap.String("request_id", chimw.GetReqID(r.Context())),
		)
	})
}

func (a *api) lang(r *http.Request) string {
	if l := r.URL.Query().Get("lang"); l != "" {
		return l
	}
	return a.Locale
}

func (a *api) receipt(w http.ResponseWriter, r *http.Request) {
	number, err := strconv.ParseInt(chi.URLParam(r, "number"), 10, 64)
	if err != nil || number < 1 {
		http.Error(w, "invalid sale number", http.StatusBadRequest)
		return
	}

	rec, err := a.Sales.GetReceipt(r.Context(), model.Business(auth.GetBusiness(r.Context())), number)
	if err != nil {
		if errors.Is(err, sale.ErrNotFound) {
			http.Error(w, err.Error(), http.StatusNotFound)
			return
		}
		a.Logger.Error("failed to load receipt", zap.Int64("sale_number", number), zap.Error(err))
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte(sale.RenderText(rec, a.Bundle.Translator(a.lang(r), a.Locale))))
}

func (a *api) exportSales(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	input := &dto.SalesReportInput{
		Business: model.Business(auth.GetBusiness(r.Context())),
		Period:   q.Get("period"),
	}
	if input.Period == "" {
		input.Period = string(report.PeriodDaily)
	}
	var err error
	if input.From, err = a.parseDate(q.Get("from")); err != nil {
		http.Error(w, "from: "+err.Error(), http.StatusBadRequest)
		return
	}
	if input.To, err = a.parseDate(q.Get("to")); err != nil {
		http.Error(w, "to: "+err.Error(), http.StatusBadRequest)
		return
	}

	w.Header().Set("Content-Type", xlsxContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="ventas-%s-%s.xlsx"`, input.Business, input.Period))
	if err := a.Reports.ExportSalesReport(r.Context(), input, a.lang(r), w); err != nil {
		w.Header().Del("Content-Disposition")
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		switch {
		case validate.IsValidationError(err), errors.Is(err, report.ErrInvalidPeriod),
			errors.Is(err, report.ErrInvalidRange), errors.Is(err, report.ErrInvalidBusiness):
			http.Error(w, err.Error(), http.StatusBadRequest)
		default:
			a.Logger.Error("failed to export sales report", zap.Error(err))
			http.Error(w, "internal error", http.StatusInternalServerError)
		}
	}
}

func (a *api) parseDate(s string) (*time.Time, error) {
	if s == "" {
		return nil, nil
	}
	t, err := time.ParseInLocation(dateLayout, s, a.Location)
	if err != nil {
		return nil, fmt.Errorf("expected YYYY-MM-DD, got %q", s)
	}
	return &t, nil
}
