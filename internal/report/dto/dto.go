package dto

import (
	"time"

	"github.com/fekuna/omnipos-sales-service/internal/model"
)

type SalesReportInput struct {
	Business model.Business `validate:"required,oneof=bendeck_tools lusqtoff"`
	Period   string         `validate:"required,oneof=daily weekly monthly custom"`
	// From and To are read for the custom period; both days are included.
	From *time.Time
	To   *time.Time
}
