package processors

import (
	"strings"

	"github.com/username/opodatkuvayco/backend/src/models"
)

// NormalizeTicker strips the exchange suffix of an instrument code:
// "AAPL.US" becomes "AAPL". Codes without a dot are returned unchanged.
func NormalizeTicker(raw string) string {
	if i := strings.Index(raw, "."); i >= 0 {
		return raw[:i]
	}
	return raw
}

// TickerGroup is the ordered trade sequence of one ticker.
type TickerGroup struct {
	Ticker string
	Trades []models.Trade
}

// GroupByTicker buckets trades by normalized ticker. Buckets come out in the
// order their ticker first appears and keep the input order inside. Trades
// are copied, so matching a group never mutates the caller's slice.
func GroupByTicker(trades []models.Trade) []TickerGroup {
	index := make(map[string]int)
	var groups []TickerGroup
	for _, t := range trades {
		t.Ticker = NormalizeTicker(t.RawTicker)
		i, ok := index[t.Ticker]
		if !ok {
			i = len(groups)
			index[t.Ticker] = i
			groups = append(groups, TickerGroup{Ticker: t.Ticker})
		}
		groups[i].Trades = append(groups[i].Trades, t)
	}
	return groups
}
