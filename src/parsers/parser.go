package parsers

import (
	"io"

	"github.com/username/opodatkuvayco/backend/src/models"
)

// Parser decodes an uploaded broker export.
type Parser interface {
	Parse(file io.Reader) (*models.BrokerReport, error)
}
