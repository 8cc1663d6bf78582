package processors

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/username/opodatkuvayco/backend/src/logger"
	"github.com/username/opodatkuvayco/backend/src/utils"
)

// RateEntry is one observation of a rate table, in the NBU response shape.
type RateEntry struct {
	Currency string  `json:"cc"`
	Date     string  `json:"exchangedate"`
	Rate     float64 `json:"rate"`
}

// HistoricalRates is a CurrencyConverter over a fixed table of rates.
type HistoricalRates struct {
	localCurrency string
	rates         map[string]float64
}

// NewHistoricalRates indexes entries by currency and day.
func NewHistoricalRates(localCurrency string, entries []RateEntry) (*HistoricalRates, error) {
	h := &HistoricalRates{
		localCurrency: strings.ToUpper(localCurrency),
		rates:         make(map[string]float64, len(entries)),
	}
	for _, e := range entries {
		date, err := utils.ParseReportDate(e.Date)
		if err != nil {
			return nil, fmt.Errorf("invalid date in rate table for %s: %w", e.Currency, err)
		}
		h.rates[rateKey(e.Currency, h.CanonicalDateKey(date))] = e.Rate
	}
	return h, nil
}

// LoadHistoricalRates loads a rate table from the specified file path.
func LoadHistoricalRates(filePath, localCurrency string) (*HistoricalRates, error) {
	logger.L.Info("Loading historical exchange rates", "path", filePath)
	file, err := os.ReadFile(filePath)
	if err != nil {
		logger.L.Error("Error reading historical exchange rate file", "path", filePath, "error", err)
		return nil, fmt.Errorf("error reading historical exchange rate file '%s': %w", filePath, err)
	}

	var entries []RateEntry
	if err := json.Unmarshal(file, &entries); err != nil {
		logger.L.Error("Error unmarshalling historical exchange rates", "path", filePath, "error", err)
		return nil, fmt.Errorf("error unmarshalling historical exchange rates from '%s': %w", filePath, err)
	}
	h, err := NewHistoricalRates(localCurrency, entries)
	if err != nil {
		return nil, err
	}
	logger.L.Info("Historical exchange rates loaded successfully.", "path", filePath, "observationCount", len(h.rates))
	return h, nil
}

// ResolveRate implements CurrencyConverter.
func (h *HistoricalRates) ResolveRate(_ context.Context, currency string, date time.Time) (float64, error) {
	if strings.EqualFold(currency, h.localCurrency) {
		return 1.0, nil
	}
	dayKey := h.CanonicalDateKey(date)
	if rate, ok := h.rates[rateKey(currency, dayKey)]; ok {
		return rate, nil
	}
	logger.L.Warn("Exchange rate not found", "currency", currency, "date", dayKey)
	return 0, fmt.Errorf("exchange rate not found for %s on %s", currency, dayKey)
}

// CanonicalDateKey implements CurrencyConverter.
func (h *HistoricalRates) CanonicalDateKey(date time.Time) string {
	return utils.CanonicalDateKey(date)
}

func rateKey(currency, dayKey string) string {
	return strings.ToUpper(currency) + "|" + dayKey
}
