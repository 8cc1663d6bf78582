package parsers

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/username/opodatkuvayco/backend/src/models"
	"github.com/username/opodatkuvayco/backend/src/processors"
)

const sampleReport = `{
  "date_start": "2023-01-01 00:00:00",
  "trades": {"detailed": [
    {"instr_nm": " AAPL.US ", "operation": "BUY", "q": 10, "p": "100.5", "commission": 5, "curr_c": "usd", "date": "2023-01-10 15:30:00"},
    {"instr_nm": "AAPL.US", "operation": "sell", "q": "10", "p": 120, "commission": null, "curr_c": "USD", "date": "2023-03-01"}
  ]},
  "corporate_actions": {"detailed": [
    {"type_id": "dividend", "ticker": "AAPL.US", "currency": "USD", "date": "2023-02-15", "amount": 12.5},
    {"type_id": "split", "ticker": "AAPL.US", "currency": "USD", "date": "", "amount": 0}
  ]}
}`

func TestGetParser(t *testing.T) {
	for _, source := range []string{"", "freedom", "Freedom"} {
		p, err := GetParser(source)
		require.NoError(t, err)
		assert.NotNil(t, p)
	}
	_, err := GetParser("degiro")
	assert.Error(t, err)
}

func TestParseAndNormalize(t *testing.T) {
	p, err := GetParser(DefaultSource)
	require.NoError(t, err)

	report, err := p.Parse(strings.NewReader(sampleReport))
	require.NoError(t, err)

	trades, err := Trades(report)
	require.NoError(t, err)
	require.Len(t, trades, 2)

	first := trades[0]
	assert.Equal(t, "AAPL.US", first.RawTicker)
	assert.Equal(t, models.OperationBuy, first.Operation)
	assert.Equal(t, 10.0, first.Quantity)
	assert.Equal(t, 100.5, first.Price)
	assert.Equal(t, 5.0, first.Commission)
	assert.Equal(t, "USD", first.Currency)
	assert.Equal(t, "2023-01-10 15:30:00", first.RawDate)
	assert.Equal(t, 15, first.Date.Hour())

	assert.Equal(t, models.OperationSell, trades[1].Operation)
	assert.Zero(t, trades[1].Commission)

	actions, err := CorporateActions(report)
	require.NoError(t, err)
	require.Len(t, actions, 2)
	assert.Equal(t, "dividend", actions[0].Type)
	assert.Equal(t, 12.5, actions[0].Amount)
	assert.True(t, actions[1].Date.IsZero())
}

func TestParseRejectsMalformedInput(t *testing.T) {
	p, err := GetParser(DefaultSource)
	require.NoError(t, err)

	inputs := map[string]string{
		"empty":        "   ",
		"not json":     "instr_nm;operation",
		"bad number":   `{"trades":{"detailed":[{"q":"ten"}]}}`,
		"invalid utf8": "{\"trades\":\xff}",
	}
	for name, in := range inputs {
		t.Run(name, func(t *testing.T) {
			_, err := p.Parse(strings.NewReader(in))
			assert.Error(t, err)
		})
	}
}

func TestParseAcceptsByteOrderMark(t *testing.T) {
	p, err := GetParser(DefaultSource)
	require.NoError(t, err)
	report, err := p.Parse(strings.NewReader("\ufeff" + sampleReport))
	require.NoError(t, err)
	assert.Len(t, report.Trades.Detailed, 2)
}

func TestTradesRejectsBadRows(t *testing.T) {
	tests := map[string]models.RawTrade{
		"bad date":          {InstrNm: "A.US", Operation: "buy", Q: 1, Date: "tomorrow"},
		"missing ticker":    {Operation: "buy", Q: 1, Date: "2023-01-10"},
		"negative quantity": {InstrNm: "A.US", Operation: "buy", Q: -1, Date: "2023-01-10"},
	}
	for name, row := range tests {
		t.Run(name, func(t *testing.T) {
			report := &models.BrokerReport{}
			report.Trades.Detailed = []models.RawTrade{row}
			_, err := Trades(report)
			assert.Error(t, err)
		})
	}
}

func TestCorporateActionsRejectsUndatedDividend(t *testing.T) {
	report := &models.BrokerReport{}
	report.CorporateActions.Detailed = []models.RawCorporateAction{{TypeID: "dividend", Ticker: "A.US", Date: "n/a"}}
	_, err := CorporateActions(report)
	assert.Error(t, err)
}

func TestCorporateActionsLowercasesType(t *testing.T) {
	report := &models.BrokerReport{}
	report.CorporateActions.Detailed = []models.RawCorporateAction{{TypeID: " Dividend ", Ticker: "A.US", Date: "2023-02-15"}}
	actions, err := CorporateActions(report)
	require.NoError(t, err)
	require.Len(t, actions, 1)
	assert.Equal(t, processors.DividendActionType, actions[0].Type)
}

func TestNilReport(t *testing.T) {
	trades, err := Trades(nil)
	assert.NoError(t, err)
	assert.Empty(t, trades)
}
