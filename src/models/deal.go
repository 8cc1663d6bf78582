package models

import (
	"encoding/json"
	"math"
	"time"
)

// DealLeg is the purchase or the sale side of a matched deal.
type DealLeg struct {
	Price      float64   `json:"price"`
	Commission float64   `json:"commission"`
	Date       time.Time `json:"date"`
	Rate       float64   `json:"rate"` // Local currency per unit of the trade currency
	Sum        float64   `json:"sum"`  // Price x quantity in the trade currency
	UAH        float64   `json:"uah"`  // Local currency value of the leg
}

// MatchedDeal pairs one purchase lot (or part of it) with one sale.
type MatchedDeal struct {
	Ticker   string  `json:"ticker"`
	Quantity float64 `json:"quantity"`
	Purchase DealLeg `json:"purchase"`
	Sale     DealLeg `json:"sale"`
	Total    float64 `json:"total"` // Sale.UAH - Purchase.UAH
	Percent  Percent `json:"percent"`
}

// Percent is a return ratio. It may hold NaN or ±Inf when the cost basis is
// zero; JSON has no spelling for those, so they are written as null.
type Percent float64

// IsFinite reports whether p is a regular number.
func (p Percent) IsFinite() bool {
	f := float64(p)
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}

// MarshalJSON implements json.Marshaler.
func (p Percent) MarshalJSON() ([]byte, error) {
	if !p.IsFinite() {
		return []byte("null"), nil
	}
	return json.Marshal(float64(p))
}

// DealReport is the extended capital-gains report.
type DealReport struct {
	Total            float64       `json:"total"`
	TotalTaxFee      float64       `json:"totalTaxFee"`
	TotalMilitaryFee float64       `json:"totalMilitaryFee"`
	Deals            []MatchedDeal `json:"deals"`
}

// DealSummary collapses every deal of a ticker.
type DealSummary struct {
	Ticker      string  `json:"ticker"`
	Total       float64 `json:"total"`
	Percent     Percent `json:"percent"`
	PurchaseUAH float64 `json:"purchaseUAH"`
	SaleUAH     float64 `json:"saleUAH"`
}

// ShortReport is the per-ticker capital-gains report.
type ShortReport struct {
	Total            float64       `json:"total"`
	TotalTaxFee      float64       `json:"totalTaxFee"`
	TotalMilitaryFee float64       `json:"totalMilitaryFee"`
	Deals            []DealSummary `json:"deals"`
}
