package services

import (
	"context"
	"io"
	"time"

	"github.com/username/opodatkuvayco/backend/src/logger"
	"github.com/username/opodatkuvayco/backend/src/models"
	"github.com/username/opodatkuvayco/backend/src/observability"
	"github.com/username/opodatkuvayco/backend/src/parsers"
	"github.com/username/opodatkuvayco/backend/src/processors"
)

type reportServiceImpl struct {
	parser            parsers.Parser
	stockProcessor    processors.StockProcessor
	dividendProcessor processors.DividendProcessor
	metrics           *observability.Metrics
}

func NewReportService(
	parser parsers.Parser,
	stockProcessor processors.StockProcessor,
	dividendProcessor processors.DividendProcessor,
	metrics *observability.Metrics,
) ReportService {
	return &reportServiceImpl{
		parser:            parser,
		stockProcessor:    stockProcessor,
		dividendProcessor: dividendProcessor,
		metrics:           metrics,
	}
}

// FullReport returns every matched deal with its local-currency valuation.
func (s *reportServiceImpl) FullReport(ctx context.Context, file io.Reader) (report models.DealReport, err error) {
	defer s.track(ctx, KindExtended, time.Now(), &err)

	trades, err := s.readTrades(file)
	if err != nil {
		return models.DealReport{}, err
	}
	report, err = s.stockProcessor.Realize(ctx, trades)
	if err != nil {
		return models.DealReport{}, err
	}
	s.metrics.RecordDeals(len(report.Deals))
	return report, nil
}

// ShortReport returns the full report collapsed to one line per ticker.
func (s *reportServiceImpl) ShortReport(ctx context.Context, file io.Reader) (short models.ShortReport, err error) {
	defer s.track(ctx, KindShort, time.Now(), &err)

	trades, err := s.readTrades(file)
	if err != nil {
		return models.ShortReport{}, err
	}
	report, err := s.stockProcessor.Realize(ctx, trades)
	if err != nil {
		return models.ShortReport{}, err
	}
	s.metrics.RecordDeals(len(report.Deals))
	return processors.ShortenReport(report), nil
}

// PreviousDeals returns the buy lots still open after matching. No rates are
// looked up.
func (s *reportServiceImpl) PreviousDeals(ctx context.Context, file io.Reader) (lots []models.OpenLot, err error) {
	defer s.track(ctx, KindPrevious, time.Now(), &err)

	trades, err := s.readTrades(file)
	if err != nil {
		return nil, err
	}
	return s.stockProcessor.OpenPositions(trades), nil
}

// Dividends returns the dividend report of the upload's corporate actions.
func (s *reportServiceImpl) Dividends(ctx context.Context, file io.Reader) (report models.DividendReport, err error) {
	defer s.track(ctx, KindDividends, time.Now(), &err)

	brokerReport, err := s.parse(file)
	if err != nil {
		return models.DividendReport{}, err
	}
	actions, err := parsers.CorporateActions(brokerReport)
	if err != nil {
		return models.DividendReport{}, models.InputMalformed("read corporate actions", err)
	}
	report, err = s.dividendProcessor.Calculate(ctx, actions)
	if err != nil {
		return models.DividendReport{}, err
	}
	return report, nil
}

func (s *reportServiceImpl) parse(file io.Reader) (*models.BrokerReport, error) {
	report, err := s.parser.Parse(file)
	if err != nil {
		return nil, models.InputMalformed("parse report", err)
	}
	return report, nil
}

func (s *reportServiceImpl) readTrades(file io.Reader) ([]models.Trade, error) {
	report, err := s.parse(file)
	if err != nil {
		return nil, err
	}
	trades, err := parsers.Trades(report)
	if err != nil {
		return nil, models.InputMalformed("read trades", err)
	}
	return trades, nil
}

// track logs the outcome of a report call and records its metrics.
func (s *reportServiceImpl) track(ctx context.Context, kind string, start time.Time, errp *error) {
	elapsed := time.Since(start)
	err := *errp
	s.metrics.RecordReport(kind, elapsed, err)

	log := logger.FromContext(ctx)
	if err != nil {
		log.Warn("Report failed", "kind", kind, "errorKind", models.KindOf(err).String(), "duration", elapsed, "error", err)
		return
	}
	log.Info("Report computed", "kind", kind, "duration", elapsed)
}
