package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"
	"time"

	"github.com/patrickmn/go-cache"
	"golang.org/x/net/publicsuffix"
	"golang.org/x/sync/singleflight"
	"golang.org/x/time/rate"

	"github.com/username/opodatkuvayco/backend/src/database"
	"github.com/username/opodatkuvayco/backend/src/logger"
	"github.com/username/opodatkuvayco/backend/src/models"
	"github.com/username/opodatkuvayco/backend/src/observability"
	"github.com/username/opodatkuvayco/backend/src/processors"
	"github.com/username/opodatkuvayco/backend/src/utils"
)

const nbuSource = "nbu"

// nbuRate is one element of the NBU exchange endpoint response.
type nbuRate struct {
	R030         int     `json:"r030"`
	Text         string  `json:"txt"`
	Rate         float64 `json:"rate"`
	Currency     string  `json:"cc"`
	ExchangeDate string  `json:"exchangedate"`
}

// RateStore persists resolved rates between runs. *database.RateStore
// satisfies it.
type RateStore interface {
	Get(ctx context.Context, currency, dayKey string) (float64, error)
	Put(ctx context.Context, currency, dayKey string, rate float64, source string) error
}

// CurrencyServiceConfig configures the NBU-backed converter.
type CurrencyServiceConfig struct {
	BaseURL           string
	LocalCurrency     string
	RequestsPerSecond float64
	Timeout           time.Duration
	CacheTTL          time.Duration
	Store             RateStore // Optional
	Metrics           *observability.Metrics
}

// currencyServiceImpl resolves rates from the National Bank of Ukraine.
// Lookups go memory cache, then the rate store, then the API. Concurrent
// lookups of the same currency and day share one upstream call.
type currencyServiceImpl struct {
	baseURL       string
	localCurrency string
	httpClient    http.Client
	limiter       *rate.Limiter
	cache         *cache.Cache
	group         singleflight.Group
	store         RateStore
	metrics       *observability.Metrics
}

// NewCurrencyService creates the NBU converter.
func NewCurrencyService(cfg CurrencyServiceConfig) processors.CurrencyConverter {
	jar, err := cookiejar.New(&cookiejar.Options{PublicSuffixList: publicsuffix.List})
	if err != nil {
		logger.L.Error("Failed to create cookie jar", "error", err)
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 20 * time.Second
	}
	rps := cfg.RequestsPerSecond
	if rps <= 0 {
		rps = 5
	}
	ttl := cfg.CacheTTL
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}

	return &currencyServiceImpl{
		baseURL:       strings.TrimRight(cfg.BaseURL, "/"),
		localCurrency: strings.ToUpper(cfg.LocalCurrency),
		httpClient: http.Client{
			Jar:     jar,
			Timeout: timeout,
		},
		limiter: rate.NewLimiter(rate.Limit(rps), 1),
		cache:   cache.New(ttl, 2*ttl),
		store:   cfg.Store,
		metrics: cfg.Metrics,
	}
}

// ResolveRate implements processors.CurrencyConverter.
func (s *currencyServiceImpl) ResolveRate(ctx context.Context, currency string, date time.Time) (float64, error) {
	currency = strings.ToUpper(strings.TrimSpace(currency))
	if currency == s.localCurrency {
		s.metrics.RecordRateLookup("local", nil)
		return 1.0, nil
	}
	if currency == "" {
		return 0, models.RateUnresolvable(currency, date, errors.New("empty currency code"))
	}

	dayKey := s.CanonicalDateKey(date)
	key := currency + "|" + dayKey
	if cached, found := s.cache.Get(key); found {
		s.metrics.RecordRateLookup("cache", nil)
		return cached.(float64), nil
	}

	if err := ctx.Err(); err != nil {
		return 0, models.RateUnresolvable(currency, date, err)
	}

	// The shared lookup outlives any single caller; the HTTP client timeout
	// bounds it. Each caller stops waiting when its own context ends.
	shared := context.WithoutCancel(ctx)
	ch := s.group.DoChan(key, func() (interface{}, error) {
		r, err := s.lookup(shared, currency, dayKey)
		if err == nil {
			s.cache.Set(key, r, cache.DefaultExpiration)
		}
		return r, err
	})
	select {
	case <-ctx.Done():
		return 0, models.RateUnresolvable(currency, date, ctx.Err())
	case res := <-ch:
		if res.Err != nil {
			return 0, models.RateUnresolvable(currency, date, res.Err)
		}
		return res.Val.(float64), nil
	}
}

// CanonicalDateKey implements processors.CurrencyConverter.
func (s *currencyServiceImpl) CanonicalDateKey(date time.Time) string {
	return utils.CanonicalDateKey(date)
}

func (s *currencyServiceImpl) lookup(ctx context.Context, currency, dayKey string) (float64, error) {
	log := logger.FromContext(ctx)

	if s.store != nil {
		stored, err := s.store.Get(ctx, currency, dayKey)
		if err == nil {
			s.metrics.RecordRateLookup("store", nil)
			return stored, nil
		}
		if !errors.Is(err, database.ErrRateNotStored) {
			log.Warn("Rate store lookup failed, falling back to NBU", "currency", currency, "date", dayKey, "error", err)
		}
	}

	start := time.Now()
	fetched, err := s.fetch(ctx, currency, dayKey)
	s.metrics.ObserveUpstreamLatency(nbuSource, time.Since(start))
	s.metrics.RecordRateLookup(nbuSource, err)
	if err != nil {
		log.Warn("NBU rate lookup failed", "currency", currency, "date", dayKey, "error", err)
		return 0, err
	}
	log.Debug("Fetched NBU rate", "currency", currency, "date", dayKey, "rate", fetched)

	if s.store != nil {
		if err := s.store.Put(ctx, currency, dayKey, fetched, nbuSource); err != nil {
			log.Warn("Failed to persist rate", "currency", currency, "date", dayKey, "error", err)
		}
	}
	return fetched, nil
}

// fetch calls the NBU statistics API for one currency and day.
func (s *currencyServiceImpl) fetch(ctx context.Context, currency, dayKey string) (float64, error) {
	if err := s.limiter.Wait(ctx); err != nil {
		return 0, fmt.Errorf("waiting for NBU rate limiter: %w", err)
	}

	rateURL := fmt.Sprintf("%s/NBUStatService/v1/statdirectory/exchange?valcode=%s&date=%s&json",
		s.baseURL, url.QueryEscape(currency), dayKey)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rateURL, nil)
	if err != nil {
		return 0, err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return 0, fmt.Errorf("failed to call NBU exchange API for %s on %s: %w", currency, dayKey, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return 0, fmt.Errorf("NBU exchange API returned status %d for %s on %s. Body: %s", resp.StatusCode, currency, dayKey, string(body))
	}

	var rates []nbuRate
	if err := json.NewDecoder(resp.Body).Decode(&rates); err != nil {
		return 0, fmt.Errorf("failed to decode NBU response for %s on %s: %w", currency, dayKey, err)
	}
	for _, r := range rates {
		if strings.EqualFold(r.Currency, currency) && r.Rate > 0 {
			return r.Rate, nil
		}
	}
	return 0, fmt.Errorf("NBU published no rate for %s on %s", currency, dayKey)
}
