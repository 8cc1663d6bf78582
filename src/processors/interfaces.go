package processors

import (
	"context"
	"time"

	"github.com/username/opodatkuvayco/backend/src/models"
)

// CurrencyConverter resolves the local-currency rate of a currency on a date.
type CurrencyConverter interface {
	// ResolveRate returns how many units of local currency one unit of
	// currency was worth on date. It fails when no rate is known.
	ResolveRate(ctx context.Context, currency string, date time.Time) (float64, error)
	// CanonicalDateKey returns the key under which two dates count as the
	// same day. It must not perform I/O.
	CanonicalDateKey(date time.Time) string
}

// StockProcessor matches trades into deals and values them.
type StockProcessor interface {
	// Realize returns the extended report of realized deals.
	Realize(ctx context.Context, trades []models.Trade) (models.DealReport, error)
	// OpenPositions returns buy quantity left unmatched. No rates are resolved.
	OpenPositions(trades []models.Trade) []models.OpenLot
}

// DividendProcessor values dividend corporate actions.
type DividendProcessor interface {
	Calculate(ctx context.Context, actions []models.CorporateAction) (models.DividendReport, error)
}

// resolveRate calls the converter and tags failures as rate-unresolvable.
func resolveRate(ctx context.Context, c CurrencyConverter, currency string, date time.Time) (float64, error) {
	rate, err := c.ResolveRate(ctx, currency, date)
	if err != nil {
		if models.KindOf(err) == models.KindUnknown {
			return 0, models.RateUnresolvable(currency, date, err)
		}
		return 0, err
	}
	return rate, nil
}
