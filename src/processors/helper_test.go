package processors

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/username/opodatkuvayco/backend/src/models"
	"github.com/username/opodatkuvayco/backend/src/utils"
)

// fakeConverter serves rates from a map keyed by "CUR|YYYYMMDD".
type fakeConverter struct {
	mu    sync.Mutex
	rates map[string]float64
	calls []string
}

func newFakeConverter(rates map[string]float64) *fakeConverter {
	return &fakeConverter{rates: rates}
}

var errNoRate = errors.New("no such rate")

func (f *fakeConverter) ResolveRate(_ context.Context, currency string, date time.Time) (float64, error) {
	key := currency + "|" + utils.CanonicalDateKey(date)
	f.mu.Lock()
	f.calls = append(f.calls, key)
	f.mu.Unlock()
	if currency == "UAH" {
		return 1, nil
	}
	rate, ok := f.rates[key]
	if !ok {
		return 0, fmt.Errorf("%s: %w", key, errNoRate)
	}
	return rate, nil
}

func (f *fakeConverter) CanonicalDateKey(date time.Time) string {
	return utils.CanonicalDateKey(date)
}

func (f *fakeConverter) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

func mustDate(t *testing.T, s string) time.Time {
	t.Helper()
	d, err := utils.ParseReportDate(s)
	if err != nil {
		t.Fatalf("bad test date %q: %v", s, err)
	}
	return d
}

func buy(t *testing.T, ticker string, q, p, commission float64, date string) models.Trade {
	return newTrade(t, models.OperationBuy, ticker, q, p, commission, date)
}

func sell(t *testing.T, ticker string, q, p, commission float64, date string) models.Trade {
	return newTrade(t, models.OperationSell, ticker, q, p, commission, date)
}

func newTrade(t *testing.T, op models.Operation, ticker string, q, p, commission float64, date string) models.Trade {
	t.Helper()
	return models.Trade{
		RawTicker:  ticker,
		Ticker:     NormalizeTicker(ticker),
		Operation:  op,
		Quantity:   q,
		Price:      p,
		Commission: commission,
		Currency:   "USD",
		Date:       mustDate(t, date),
		RawDate:    date,
	}
}

func matchedQuantities(book LotBook) []float64 {
	var qs []float64
	for _, m := range book.Matches {
		qs = append(qs, m.Quantity)
	}
	return qs
}

func openQuantities(book LotBook) []float64 {
	var qs []float64
	for _, i := range book.Open {
		qs = append(qs, book.Trades[i].Quantity)
	}
	return qs
}
