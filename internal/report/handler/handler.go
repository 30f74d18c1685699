package handler

import (
	"context"
	"errors"
	"time"

	salesv1 "github.com/fekuna/omnipos-sales-service/api/sales/v1"
	"github.com/fekuna/omnipos-sales-service/internal/pkg/grpcx"
	"github.com/fekuna/omnipos-sales-service/internal/pkg/i18n"
	"github.com/fekuna/omnipos-sales-service/internal/pkg/logger"
	"github.com/fekuna/omnipos-sales-service/internal/report"
	"github.com/fekuna/omnipos-sales-service/internal/report/dto"
	"github.com/fekuna/omnipos-sales-service/internal/sale"
	"go.uber.org/zap"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/emptypb"
)

var _ salesv1.ReportServiceServer = (*ReportHandler)(nil)

type ReportHandler struct {
	uc     report.UseCase
	tr     *i18n.Translator
	loc    *time.Location
	logger logger.ZapLogger
}

func NewReportHandler(uc report.UseCase, tr *i18n.Translator, loc *time.Location, log logger.ZapLogger) *ReportHandler {
	if loc == nil {
		loc = time.Local
	}
	return &ReportHandler{
		uc:     uc,
		tr:     tr,
		loc:    loc,
		logger: log,
	}
}

func (h *ReportHandler) GetDashboard(ctx context.Context, _ *emptypb.Empty) (*salesv1.DashboardResponse, error) {
	business, err := grpcx.Business(ctx)
	if err != nil {
		return nil, err
	}
	d, err := h.uc.Dashboard(ctx, business)
	if err != nil {
		return nil, h.toStatus("failed to build dashboard", err)
	}

	return &salesv1.DashboardResponse{Dashboard: &salesv1.Dashboard{
		TodayRevenue: grpcx.Money(d.RevenueToday),
		TodaySales:   int32(d.SalesCountToday),
		WeekRevenue:  grpcx.Money(d.RevenueWeek),
		MonthRevenue: grpcx.Money(d.RevenueMonth),
		Products:     int32(d.Products),
		LowStock:     int32(d.LowStock),
		Customers:    int32(d.Customers),
		Daily:        mapBuckets(d.DailySales),
		Weekly:       mapBuckets(d.WeeklySales),
		TopProducts:  mapProducts(d.TopProducts),
		LeastSold:    mapProducts(d.LeastProducts),
	}}, nil
}

func (h *ReportHandler) GetSalesReport(ctx context.Context, req *salesv1.SalesReportRequest) (*salesv1.SalesReportResponse, error) {
	business, err := grpcx.Business(ctx)
	if err != nil {
		return nil, err
	}
	from, err := grpcx.Date("from", req.From, h.loc)
	if err != nil {
		return nil, err
	}
	to, err := grpcx.Date("to", req.To, h.loc)
	if err != nil {
		return nil, err
	}

	rep, err := h.uc.SalesReport(ctx, &dto.SalesReportInput{
		Business: business,
		Period:   req.Period,
		From:     from,
		To:       to,
	})
	if err != nil {
		return nil, h.toStatus("failed to build sales report", err)
	}

	methods := make([]*salesv1.MethodTotal, len(rep.PaymentMethods))
	for i, m := range rep.PaymentMethods {
		methods[i] = &salesv1.MethodTotal{
			Method: string(m.Method),
			Label:  sale.PaymentLabel(m.Method, h.tr),
			Total:  grpcx.Money(m.Total),
			Count:  int32(m.Count),
		}
	}

	return &salesv1.SalesReportResponse{Report: &salesv1.SalesReport{
		Period:          string(rep.Period),
		From:            grpcx.Time(rep.Range.From),
		To:              grpcx.Time(rep.Range.To),
		Buckets:         mapBuckets(rep.Buckets),
		Revenue:         grpcx.Money(rep.TotalRevenue),
		SalesCount:      int32(rep.TotalSales),
		AverageTicket:   grpcx.Money(rep.AverageTicket),
		PreviousRevenue: grpcx.Money(rep.PreviousRevenue),
		ChangePercent:   rep.RevenueChange.String(),
		PaymentMethods:  methods,
		TopProducts:     mapProducts(rep.TopProducts),
		LeastSold:       mapProducts(rep.LeastProducts),
	}}, nil
}

func (h *ReportHandler) toStatus(msg string, err error) error {
	if st, ok := grpcx.InvalidArgument(err); ok {
		return st
	}
	switch {
	case errors.Is(err, report.ErrInvalidPeriod), errors.Is(err, report.ErrInvalidRange),
		errors.Is(err, report.ErrInvalidBusiness):
		return status.Error(codes.InvalidArgument, err.Error())
	}
	h.logger.Error(msg, zap.Error(err))
	return status.Error(codes.Internal, err.Error())
}

func mapBuckets(in []report.Bucket) []*salesv1.Bucket {
	out := make([]*salesv1.Bucket, len(in))
	for i, b := range in {
		out[i] = &salesv1.Bucket{
			Label:   b.Label,
			Start:   grpcx.Time(b.Start),
			End:     grpcx.Time(b.End),
			Revenue: grpcx.Money(b.Total),
			Count:   int32(b.Count),
		}
	}
	return out
}

func mapProducts(in []report.ProductSales) []*salesv1.ProductSales {
	out := make([]*salesv1.ProductSales, len(in))
	for i, p := range in {
		out[i] = &salesv1.ProductSales{
			ProductID: p.ProductID,
			Code:      p.Code,
			Name:      p.Name,
			Quantity:  int32(p.Quantity),
			Revenue:   grpcx.Money(p.Revenue),
		}
	}
	return out
}
