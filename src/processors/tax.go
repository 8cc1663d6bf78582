package processors

import (
	"sort"

	"github.com/username/opodatkuvayco/backend/src/models"
)

const (
	CapitalGainsTaxRate = 0.18
	DividendTaxRate     = 0.09
	MilitaryLevyRate    = 0.015
)

// TaxFee is the personal income tax on a realized total. Losses owe nothing.
func TaxFee(total float64) float64 {
	if total <= 0 {
		return 0
	}
	return total * CapitalGainsTaxRate
}

// MilitaryFee is the military levy on a realized total. Losses owe nothing.
func MilitaryFee(total float64) float64 {
	if total <= 0 {
		return 0
	}
	return total * MilitaryLevyRate
}

// BuildDealReport totals deals and orders them by ticker. Deals of the same
// ticker keep their matching order.
func BuildDealReport(deals []models.MatchedDeal) models.DealReport {
	sorted := append([]models.MatchedDeal{}, deals...)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Ticker < sorted[j].Ticker
	})

	var total float64
	for _, d := range sorted {
		total += d.Total
	}
	return models.DealReport{
		Total:            total,
		TotalTaxFee:      TaxFee(total),
		TotalMilitaryFee: MilitaryFee(total),
		Deals:            sorted,
	}
}

// ShortenReport collapses the deals of each ticker into one summary.
// The first deal of a ticker seeds its summary, percent included; later
// deals add their values and gain but leave percent as it was.
func ShortenReport(report models.DealReport) models.ShortReport {
	summaries := []models.DealSummary{}
	index := make(map[string]int)
	for _, d := range report.Deals {
		i, ok := index[d.Ticker]
		if !ok {
			index[d.Ticker] = len(summaries)
			summaries = append(summaries, models.DealSummary{
				Ticker:      d.Ticker,
				Total:       d.Total,
				Percent:     d.Percent,
				PurchaseUAH: d.Purchase.UAH,
				SaleUAH:     d.Sale.UAH,
			})
			continue
		}
		summaries[i].SaleUAH += d.Sale.UAH
		summaries[i].PurchaseUAH += d.Purchase.UAH
		summaries[i].Total += d.Total
	}
	return models.ShortReport{
		Total:            report.Total,
		TotalTaxFee:      report.TotalTaxFee,
		TotalMilitaryFee: report.TotalMilitaryFee,
		Deals:            summaries,
	}
}
