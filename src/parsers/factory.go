package parsers

import (
	"fmt"
	"strings"

	"github.com/username/opodatkuvayco/backend/src/parsers/freedom"
)

// DefaultSource is the broker assumed when an upload does not name one.
const DefaultSource = "freedom"

func GetParser(source string) (Parser, error) {
	switch strings.ToLower(strings.TrimSpace(source)) {
	case "", DefaultSource:
		return freedom.NewParser(), nil
	default:
		return nil, fmt.Errorf("no parser available for source: %s", source)
	}
}
