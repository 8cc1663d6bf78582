package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// BrokerReport is the uploaded broker export. Only the sections the tax
// report reads are declared; everything else in the document is ignored.
type BrokerReport struct {
	Trades struct {
		Detailed []RawTrade `json:"detailed"`
	} `json:"trades"`
	CorporateActions struct {
		Detailed []RawCorporateAction `json:"detailed"`
	} `json:"corporate_actions"`
}

// RawTrade is a trade row as it appears in the export.
type RawTrade struct {
	InstrNm    string `json:"instr_nm"`
	Operation  string `json:"operation"`
	Q          Number `json:"q"`
	P          Number `json:"p"`
	Commission Number `json:"commission"`
	CurrC      string `json:"curr_c"`
	Date       string `json:"date"`
}

// RawCorporateAction is a corporate-action row as it appears in the export.
type RawCorporateAction struct {
	TypeID   string `json:"type_id"`
	Ticker   string `json:"ticker"`
	Currency string `json:"currency"`
	Date     string `json:"date"`
	Amount   Number `json:"amount"`
}

// Number decodes a JSON number, a numeric string or null.
// Some exports quote amounts, others don't.
type Number float64

// UnmarshalJSON implements json.Unmarshaler.
func (n *Number) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*n = 0
		return nil
	}
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		s = strings.TrimSpace(s)
		if s == "" {
			*n = 0
			return nil
		}
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return fmt.Errorf("invalid numeric string %q: %w", s, err)
		}
		*n = Number(f)
		return nil
	}
	var f float64
	if err := json.Unmarshal(data, &f); err != nil {
		return err
	}
	*n = Number(f)
	return nil
}

// Float64 returns the value as a float64.
func (n Number) Float64() float64 { return float64(n) }
