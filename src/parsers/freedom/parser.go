package freedom

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"unicode/utf8"

	"github.com/username/opodatkuvayco/backend/src/logger"
	"github.com/username/opodatkuvayco/backend/src/models"
)

// utf8BOM is stripped when an export was saved by an editor that adds one.
var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// FreedomParser implements parsers.Parser for Freedom Finance JSON broker reports.
type FreedomParser struct{}

// NewParser creates a new instance of the FreedomParser.
func NewParser() *FreedomParser {
	return &FreedomParser{}
}

// Parse reads a whole export and decodes the trade and corporate-action sections.
func (p *FreedomParser) Parse(file io.Reader) (*models.BrokerReport, error) {
	content, err := io.ReadAll(file)
	if err != nil {
		return nil, fmt.Errorf("freedom parser: failed to read report: %w", err)
	}
	content = bytes.TrimPrefix(content, utf8BOM)
	if len(bytes.TrimSpace(content)) == 0 {
		return nil, errors.New("freedom parser: report is empty")
	}
	if !utf8.Valid(content) {
		return nil, errors.New("freedom parser: report is not valid UTF-8 text")
	}

	var report models.BrokerReport
	if err := json.Unmarshal(content, &report); err != nil {
		return nil, fmt.Errorf("freedom parser: failed to decode JSON: %w", err)
	}

	logger.L.Debug("Freedom Parser: decoded report", "trades", len(report.Trades.Detailed), "corporateActions", len(report.CorporateActions.Detailed))
	return &report, nil
}
