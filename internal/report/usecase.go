package report

import (
	"context"
	"io"

	"github.com/fekuna/omnipos-sales-service/internal/model"
	"github.com/fekuna/omnipos-sales-service/internal/report/dto"
)

type UseCase interface {
	Dashboard(ctx context.Context, business model.Business) (*Dashboard, error)
	SalesReport(ctx context.Context, input *dto.SalesReportInput) (*SalesReport, error)
	// ExportSalesReport writes the report as an xlsx workbook.
	ExportSalesReport(ctx context.Context, input *dto.SalesReportInput, lang string, w io.Writer) error
}
