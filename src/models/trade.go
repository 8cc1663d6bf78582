package models

import "time"

// Operation is the direction of a trade as written by the broker.
type Operation string

const (
	OperationBuy  Operation = "buy"
	OperationSell Operation = "sell"
)

// Trade is one row of the broker's trade list after decoding.
// Quantity is the remaining quantity: the lot matcher decrements it in place
// and it never goes below zero.
type Trade struct {
	RawTicker  string    // Instrument code as exported, e.g. "AAPL.US"
	Ticker     string    // Normalized ticker used for grouping, e.g. "AAPL"
	Operation  Operation // buy or sell
	Quantity   float64
	Price      float64 // Unit price in Currency
	Commission float64 // Total commission of the trade in Currency
	Currency   string
	Date       time.Time
	RawDate    string // Date exactly as exported
}

// IsBuy reports whether the trade opens a long position.
func (t Trade) IsBuy() bool { return t.Operation == OperationBuy }

// IsSell reports whether the trade closes a position.
func (t Trade) IsSell() bool { return t.Operation == OperationSell }

// OpenLot is buy quantity left over once every sell of its ticker was matched.
// It keeps the shape of the broker's trade row so it can be fed back as the
// opening position of the next period.
type OpenLot struct {
	Ticker     string    `json:"instr_nm"`
	Operation  Operation `json:"operation"`
	Quantity   float64   `json:"q"`
	Price      float64   `json:"p"`
	Commission float64   `json:"commission"`
	Currency   string    `json:"curr_c"`
	Date       string    `json:"date"`
}

// CorporateAction is a decoded corporate-action row.
type CorporateAction struct {
	Type     string
	Ticker   string
	Currency string
	Date     time.Time
	RawDate  string
	Amount   float64
}
