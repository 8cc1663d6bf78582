package services

import (
	"context"
	"fmt"

	"github.com/username/opodatkuvayco/backend/src/config"
	"github.com/username/opodatkuvayco/backend/src/database"
	"github.com/username/opodatkuvayco/backend/src/logger"
	"github.com/username/opodatkuvayco/backend/src/observability"
	"github.com/username/opodatkuvayco/backend/src/processors"
)

// NewConverter picks the rate source described by cfg: the historical rate
// file when one is configured, otherwise the NBU API with an optional SQLite
// rate store. The returned close function releases the store.
func NewConverter(cfg *config.AppConfig, metrics *observability.Metrics) (processors.CurrencyConverter, func() error, error) {
	noop := func() error { return nil }

	if cfg.HistoricalRatesPath != "" {
		rates, err := processors.LoadHistoricalRates(cfg.HistoricalRatesPath, cfg.LocalCurrency)
		if err != nil {
			return nil, noop, err
		}
		logger.L.Info("Using historical rate table", "path", cfg.HistoricalRatesPath)
		return rates, noop, nil
	}

	svcCfg := CurrencyServiceConfig{
		BaseURL:           cfg.NBUBaseURL,
		LocalCurrency:     cfg.LocalCurrency,
		RequestsPerSecond: cfg.NBURequestsPerSecond,
		Timeout:           cfg.NBUTimeout,
		CacheTTL:          cfg.RateCacheTTL,
		Metrics:           metrics,
	}
	closeFn := noop
	if cfg.RateDBPath != "" {
		db, err := database.Open(cfg.RateDBPath)
		if err != nil {
			return nil, noop, fmt.Errorf("opening rate store: %w", err)
		}
		store := database.NewRateStore(db)
		if n, err := store.Count(context.Background()); err != nil {
			logger.L.Warn("Could not count stored rates", "path", cfg.RateDBPath, "error", err)
		} else {
			logger.L.Info("Rate store opened", "path", cfg.RateDBPath, "storedRates", n)
		}
		svcCfg.Store = store
		closeFn = db.Close
	}
	logger.L.Info("Using NBU exchange rates", "baseURL", cfg.NBUBaseURL, "rateStore", cfg.RateDBPath != "")
	return NewCurrencyService(svcCfg), closeFn, nil
}
