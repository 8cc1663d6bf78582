package services

import (
	"context"
	"io"

	"github.com/username/opodatkuvayco/backend/src/models"
)

// Report kinds, used as log and metric labels.
const (
	KindExtended  = "extended"
	KindShort     = "short"
	KindPrevious  = "previous"
	KindDividends = "dividends"
)

// ReportService turns an uploaded broker export into a tax report. Every call
// decodes its own copy of the upload.
type ReportService interface {
	FullReport(ctx context.Context, file io.Reader) (models.DealReport, error)
	ShortReport(ctx context.Context, file io.Reader) (models.ShortReport, error)
	PreviousDeals(ctx context.Context, file io.Reader) ([]models.OpenLot, error)
	Dividends(ctx context.Context, file io.Reader) (models.DividendReport, error)
}
