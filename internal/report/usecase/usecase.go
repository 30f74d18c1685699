package usecase

import (
	"context"
	"io"
	"time"

	"github.com/fekuna/omnipos-sales-service/internal/model"
	"github.com/fekuna/omnipos-sales-service/internal/pkg/i18n"
	"github.com/fekuna/omnipos-sales-service/internal/pkg/logger"
	"github.com/fekuna/omnipos-sales-service/internal/pkg/validate"
	"github.com/fekuna/omnipos-sales-service/internal/report"
	"github.com/fekuna/omnipos-sales-service/internal/report/dto"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

type reportUseCase struct {
	repo   report.Repository
	loc    *time.Location
	bundle *i18n.Bundle
	now    func() time.Time
	logger logger.ZapLogger
}

// NewReportUseCase computes day, week and month boundaries in loc (UTC when nil).
func NewReportUseCase(repo report.Repository, loc *time.Location, bundle *i18n.Bundle, log logger.ZapLogger) report.UseCase {
	if loc == nil {
		loc = time.UTC
	}
	return &reportUseCase{
		repo:   repo,
		loc:    loc,
		bundle: bundle,
		now:    time.Now,
		logger: log,
	}
}

func (uc *reportUseCase) Dashboard(ctx context.Context, business model.Business) (*report.Dashboard, error) {
	if !business.Valid() {
		return nil, report.ErrInvalidBusiness
	}
	now := uc.now()
	window := report.Range{From: report.DashboardWindow(now, uc.loc), To: now.Add(time.Nanosecond)}
	month := report.Range{From: report.StartOfMonth(now, uc.loc), To: window.To}

	var (
		sales    []report.SaleRow
		products []report.ProductSales
		counts   *report.Counts
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		sales, err = uc.repo.CompletedSales(gctx, business, window)
		return err
	})
	g.Go(func() (err error) {
		products, err = uc.repo.ProductSales(gctx, business, month)
		return err
	})
	g.Go(func() (err error) {
		counts, err = uc.repo.Counts(gctx, business)
		return err
	})
	if err := g.Wait(); err != nil {
		uc.logger.Error("failed to load dashboard", zap.String("business", string(business)), zap.Error(err))
		return nil, err
	}

	return report.BuildDashboard(business, now, uc.loc, sales, products, *counts), nil
}

func (uc *reportUseCase) SalesReport(ctx context.Context, input *dto.SalesReportInput) (*report.SalesReport, error) {
	if err := validate.Struct(input); err != nil {
		return nil, err
	}
	period := report.Period(input.Period)

	var custom *report.Range
	if period == report.PeriodCustom {
		if input.From == nil || input.To == nil {
			return nil, report.ErrInvalidRange
		}
		custom = &report.Range{From: *input.From, To: *input.To}
	}
	rg, err := report.PeriodRange(period, uc.now(), uc.loc, custom)
	if err != nil {
		return nil, err
	}

	sales, err := uc.repo.CompletedSales(ctx, input.Business, rg)
	if err != nil {
		return nil, err
	}
	previous, err := uc.repo.Revenue(ctx, input.Business, rg.Previous())
	if err != nil {
		return nil, err
	}
	products, err := uc.repo.ProductSales(ctx, input.Business, rg)
	if err != nil {
		return nil, err
	}

	return report.BuildSalesReport(input.Business, period, rg, sales, previous, products), nil
}

func (uc *reportUseCase) ExportSalesReport(ctx context.Context, input *dto.SalesReportInput, lang string, w io.Writer) error {
	rep, err := uc.SalesReport(ctx, input)
	if err != nil {
		return err
	}
	if err := report.WriteExcel(w, rep, uc.bundle.Translator(lang)); err != nil {
		uc.logger.Error("failed to write sales workbook", zap.String("business", string(input.Business)), zap.Error(err))
		return err
	}
	return nil
}
