package processors

import (
	"context"

	"github.com/username/opodatkuvayco/backend/src/logger"
	"github.com/username/opodatkuvayco/backend/src/models"
)

type stockProcessorImpl struct {
	converter CurrencyConverter
	valuator  *DealValuator
}

func NewStockProcessor(converter CurrencyConverter) StockProcessor {
	return &stockProcessorImpl{
		converter: converter,
		valuator:  NewDealValuator(converter),
	}
}

// Realize groups trades by ticker, matches each group and values every match.
// Matches are valued one at a time; the first failure aborts the report.
func (p *stockProcessorImpl) Realize(ctx context.Context, trades []models.Trade) (models.DealReport, error) {
	log := logger.FromContext(ctx)

	var deals []models.MatchedDeal
	for _, group := range GroupByTicker(trades) {
		book := MatchLots(group, p.converter.CanonicalDateKey)
		log.Debug("Matched ticker group", "ticker", book.Ticker, "trades", len(book.Trades), "matches", len(book.Matches), "openLots", len(book.Open))

		for _, m := range book.Matches {
			deal, err := p.valuator.Value(ctx, book, m)
			if err != nil {
				return models.DealReport{}, err
			}
			deals = append(deals, deal)
		}
	}
	return BuildDealReport(deals), nil
}

// OpenPositions returns every buy lot left after matching, ticker by ticker.
func (p *stockProcessorImpl) OpenPositions(trades []models.Trade) []models.OpenLot {
	lots := []models.OpenLot{}
	for _, group := range GroupByTicker(trades) {
		book := MatchLots(group, p.converter.CanonicalDateKey)
		lots = append(lots, book.OpenLots()...)
	}
	return lots
}
