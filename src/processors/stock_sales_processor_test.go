package processors

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/username/opodatkuvayco/backend/src/models"
)

func TestRealizeBuildsSortedDeals(t *testing.T) {
	converter := newFakeConverter(map[string]float64{
		"USD|20230110": 27,
		"USD|20230301": 28,
	})
	trades := []models.Trade{
		buy(t, "MSFT.US", 10, 100, 5, "2023-01-10"),
		buy(t, "AAPL.US", 4, 50, 0, "2023-01-10"),
		sell(t, "MSFT.US", 10, 120, 6, "2023-03-01"),
		sell(t, "AAPL.US", 4, 40, 0, "2023-03-01"),
	}

	report, err := NewStockProcessor(converter).Realize(context.Background(), trades)
	require.NoError(t, err)
	require.Len(t, report.Deals, 2)

	assert.Equal(t, "AAPL", report.Deals[0].Ticker)
	assert.Equal(t, "MSFT", report.Deals[1].Ticker)
	assert.InDelta(t, 6297, report.Deals[1].Total, 1e-9)

	var total float64
	for _, d := range report.Deals {
		total += d.Total
	}
	assert.InDelta(t, total, report.Total, 1e-9)
	assert.InDelta(t, TaxFee(total), report.TotalTaxFee, 1e-9)
	assert.InDelta(t, MilitaryFee(total), report.TotalMilitaryFee, 1e-9)
}

func TestRealizeAbortsOnRateFailure(t *testing.T) {
	converter := newFakeConverter(map[string]float64{"USD|20230110": 27})
	trades := []models.Trade{
		buy(t, "X.US", 1, 100, 1, "2023-01-10"),
		sell(t, "X.US", 1, 110, 1, "2023-05-05"),
	}

	report, err := NewStockProcessor(converter).Realize(context.Background(), trades)
	require.Error(t, err)
	assert.Equal(t, models.KindRateUnresolvable, models.KindOf(err))
	assert.Empty(t, report.Deals)
}

func TestRealizeNoSalesNoLookups(t *testing.T) {
	converter := newFakeConverter(nil)
	report, err := NewStockProcessor(converter).Realize(context.Background(), []models.Trade{
		buy(t, "X.US", 1, 100, 1, "2023-01-10"),
	})
	require.NoError(t, err)
	assert.Empty(t, report.Deals)
	assert.Zero(t, converter.callCount())
}

func TestOpenPositions(t *testing.T) {
	converter := newFakeConverter(nil)
	lots := NewStockProcessor(converter).OpenPositions([]models.Trade{
		buy(t, "B.US", 5, 10, 1, "2023-01-10"),
		buy(t, "A.US", 3, 20, 2, "2023-01-11"),
		sell(t, "B.US", 2, 11, 1, "2023-02-01"),
	})

	require.Len(t, lots, 2)
	assert.Equal(t, "B", lots[0].Ticker)
	assert.Equal(t, 3.0, lots[0].Quantity)
	assert.InDelta(t, 0.6, lots[0].Commission, 1e-9)
	assert.Equal(t, models.OperationBuy, lots[0].Operation)
	assert.Equal(t, "2023-01-10", lots[0].Date)
	assert.Equal(t, "A", lots[1].Ticker)
	assert.Equal(t, 3.0, lots[1].Quantity)
	assert.Zero(t, converter.callCount())

	assert.NotNil(t, NewStockProcessor(converter).OpenPositions(nil))
}
