package models

import "time"

// DividendRecord is one dividend valued in local currency.
type DividendRecord struct {
	Ticker   string    `json:"ticker"`
	Currency string    `json:"currency"`
	Date     time.Time `json:"date"`
	Rate     float64   `json:"rate"`
	Amount   float64   `json:"price"`
	UAH      float64   `json:"uah"`
}

// DividendTotals holds the aggregate dividend income and the charges on it.
type DividendTotals struct {
	SumUAH      float64 `json:"sumUAH"`
	TaxFee      float64 `json:"taxFee"`
	MilitaryFee float64 `json:"militaryFee"`
}

// DividendReport is the result of the dividend pipeline.
type DividendReport struct {
	Total     DividendTotals   `json:"total"`
	Dividends []DividendRecord `json:"dividendsResult"`
}
