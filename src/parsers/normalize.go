package parsers

import (
	"fmt"
	"strings"

	"github.com/username/opodatkuvayco/backend/src/models"
	"github.com/username/opodatkuvayco/backend/src/processors"
	"github.com/username/opodatkuvayco/backend/src/security/validation"
	"github.com/username/opodatkuvayco/backend/src/utils"
)

// Trades converts the raw trade rows of a report into engine trades, in
// document order. A row whose date cannot be read fails the whole report.
func Trades(report *models.BrokerReport) ([]models.Trade, error) {
	if report == nil {
		return nil, nil
	}
	trades := make([]models.Trade, 0, len(report.Trades.Detailed))
	for i, row := range report.Trades.Detailed {
		rawDate := validation.CleanField(row.Date)
		date, err := utils.ParseReportDate(rawDate)
		if err != nil {
			return nil, fmt.Errorf("trade %d (%s): %w", i, row.InstrNm, err)
		}
		ticker := validation.CleanField(row.InstrNm)
		if ticker == "" {
			return nil, fmt.Errorf("trade %d: missing instrument code", i)
		}
		quantity := row.Q.Float64()
		if quantity < 0 {
			return nil, fmt.Errorf("trade %d (%s): negative quantity %v", i, ticker, quantity)
		}
		trades = append(trades, models.Trade{
			RawTicker:  ticker,
			Operation:  models.Operation(validation.CleanCode(row.Operation)),
			Quantity:   quantity,
			Price:      row.P.Float64(),
			Commission: row.Commission.Float64(),
			Currency:   strings.ToUpper(validation.CleanField(row.CurrC)),
			Date:       date,
			RawDate:    rawDate,
		})
	}
	return trades, nil
}

// CorporateActions converts the raw corporate-action rows of a report. Only
// dividends need a readable date; other action types keep a zero Date.
func CorporateActions(report *models.BrokerReport) ([]models.CorporateAction, error) {
	if report == nil {
		return nil, nil
	}
	actions := make([]models.CorporateAction, 0, len(report.CorporateActions.Detailed))
	for i, row := range report.CorporateActions.Detailed {
		actionType := validation.CleanCode(row.TypeID)
		rawDate := validation.CleanField(row.Date)
		date, err := utils.ParseReportDate(rawDate)
		if err != nil && actionType == processors.DividendActionType {
			return nil, fmt.Errorf("corporate action %d (%s): %w", i, row.Ticker, err)
		}
		actions = append(actions, models.CorporateAction{
			Type:     actionType,
			Ticker:   validation.CleanField(row.Ticker),
			Currency: strings.ToUpper(validation.CleanField(row.Currency)),
			Date:     date,
			RawDate:  rawDate,
			Amount:   row.Amount.Float64(),
		})
	}
	return actions, nil
}
