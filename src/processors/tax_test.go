package processors

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/username/opodatkuvayco/backend/src/models"
)

func deal(ticker string, total, percent, purchaseUAH, saleUAH float64) models.MatchedDeal {
	return models.MatchedDeal{
		Ticker:   ticker,
		Purchase: models.DealLeg{UAH: purchaseUAH},
		Sale:     models.DealLeg{UAH: saleUAH},
		Total:    total,
		Percent:  models.Percent(percent),
	}
}

func TestTaxFeesAreFlooredAtZero(t *testing.T) {
	tests := []struct {
		name  string
		total float64
		tax   float64
		levy  float64
	}{
		{name: "loss", total: -500, tax: 0, levy: 0},
		{name: "zero", total: 0, tax: 0, levy: 0},
		{name: "gain", total: 1000, tax: 180, levy: 15},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.tax, TaxFee(tt.total), 1e-9)
			assert.InDelta(t, tt.levy, MilitaryFee(tt.total), 1e-9)
		})
	}
}

func TestBuildDealReportSortsByTickerAndTotals(t *testing.T) {
	report := BuildDealReport([]models.MatchedDeal{
		deal("MSFT", 100, 0.1, 1000, 1100),
		deal("AAPL", -300, -0.3, 1000, 700),
		deal("MSFT", 50, 0.05, 1000, 1050),
		deal("AAPL", 1150, 0.5, 2300, 3450),
	})

	require.Len(t, report.Deals, 4)
	assert.Equal(t, []string{"AAPL", "AAPL", "MSFT", "MSFT"}, []string{
		report.Deals[0].Ticker, report.Deals[1].Ticker, report.Deals[2].Ticker, report.Deals[3].Ticker,
	})
	// Same-ticker deals keep their order.
	assert.Equal(t, -300.0, report.Deals[0].Total)
	assert.Equal(t, 100.0, report.Deals[2].Total)

	assert.InDelta(t, 1000, report.Total, 1e-9)
	assert.InDelta(t, 180, report.TotalTaxFee, 1e-9)
	assert.InDelta(t, 15, report.TotalMilitaryFee, 1e-9)
}

func TestBuildDealReportNetLossOwesNothing(t *testing.T) {
	report := BuildDealReport([]models.MatchedDeal{
		deal("A", 200, 0.2, 1000, 1200),
		deal("B", -700, -0.7, 1000, 300),
	})
	assert.InDelta(t, -500, report.Total, 1e-9)
	assert.Zero(t, report.TotalTaxFee)
	assert.Zero(t, report.TotalMilitaryFee)
}

func TestBuildDealReportEmpty(t *testing.T) {
	report := BuildDealReport(nil)
	assert.NotNil(t, report.Deals)
	assert.Empty(t, report.Deals)
	assert.Zero(t, report.Total)
}

func TestShortenReportKeepsFirstPercent(t *testing.T) {
	report := BuildDealReport([]models.MatchedDeal{
		deal("X", 100, 0.10, 1000, 1100),
		deal("X", 50, 0.50, 100, 150),
		deal("Y", -20, -0.2, 100, 80),
	})

	short := ShortenReport(report)
	require.Len(t, short.Deals, 2)

	x := short.Deals[0]
	assert.Equal(t, "X", x.Ticker)
	assert.InDelta(t, 150, x.Total, 1e-9)
	assert.InDelta(t, 1100, x.PurchaseUAH, 1e-9)
	assert.InDelta(t, 1250, x.SaleUAH, 1e-9)
	assert.InDelta(t, 0.10, float64(x.Percent), 1e-12)

	y := short.Deals[1]
	assert.Equal(t, "Y", y.Ticker)
	assert.InDelta(t, -0.2, float64(y.Percent), 1e-12)

	assert.Equal(t, report.Total, short.Total)
	assert.Equal(t, report.TotalTaxFee, short.TotalTaxFee)
	assert.Equal(t, report.TotalMilitaryFee, short.TotalMilitaryFee)
}
