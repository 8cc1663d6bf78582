package processors

import (
	"context"
	"fmt"

	"github.com/username/opodatkuvayco/backend/src/models"
)

// DividendActionType is the corporate-action type that carries dividends.
const DividendActionType = "dividend"

// dividendProcessorImpl implements the DividendProcessor interface.
type dividendProcessorImpl struct {
	converter CurrencyConverter
}

// NewDividendProcessor creates a new instance of DividendProcessor.
func NewDividendProcessor(converter CurrencyConverter) DividendProcessor {
	return &dividendProcessorImpl{converter: converter}
}

// FilterDividends keeps the corporate actions of the dividend type. Types are
// expected in the lower-case form the parsers produce.
func FilterDividends(actions []models.CorporateAction) []models.CorporateAction {
	var dividends []models.CorporateAction
	for _, a := range actions {
		if a.Type == DividendActionType {
			dividends = append(dividends, a)
		}
	}
	return dividends
}

// Calculate values every dividend in local currency. All rates are looked up
// as one concurrent batch; a single failed lookup fails the whole report.
// Tax and levy apply to the total whatever its sign.
func (p *dividendProcessorImpl) Calculate(ctx context.Context, actions []models.CorporateAction) (models.DividendReport, error) {
	dividends := FilterDividends(actions)
	records := make([]models.DividendRecord, len(dividends))

	err := joinAll(ctx, len(dividends), func(ctx context.Context, i int) error {
		d := dividends[i]
		rate, err := resolveRate(ctx, p.converter, d.Currency, d.Date)
		if err != nil {
			return fmt.Errorf("dividend %s on %s: %w", d.Ticker, d.RawDate, err)
		}
		records[i] = models.DividendRecord{
			Ticker:   d.Ticker,
			Currency: d.Currency,
			Date:     d.Date,
			Rate:     rate,
			Amount:   d.Amount,
			UAH:      d.Amount * rate,
		}
		return nil
	})
	if err != nil {
		return models.DividendReport{}, err
	}

	var total float64
	for _, r := range records {
		total += r.UAH
	}
	return models.DividendReport{
		Total: models.DividendTotals{
			SumUAH:      total,
			TaxFee:      total * DividendTaxRate,
			MilitaryFee: total * MilitaryLevyRate,
		},
		Dividends: records,
	}, nil
}
