package validation

import (
	"bytes"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateClientContentType(t *testing.T) {
	tests := []struct {
		contentType string
		wantErr     bool
	}{
		{"application/json", false},
		{"application/json; charset=utf-8", false},
		{"TEXT/PLAIN", false},
		{"application/octet-stream", false},
		{"text/csv", true},
		{"image/png", true},
		{"", true},
	}
	for _, tt := range tests {
		t.Run(tt.contentType, func(t *testing.T) {
			err := ValidateClientContentType(tt.contentType)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestValidateFileContentByMagicBytes(t *testing.T) {
	file := bytes.NewReader([]byte("  {\"trades\":{\"detailed\":[]}}"))
	detected, err := ValidateFileContentByMagicBytes(file)
	require.NoError(t, err)
	assert.Equal(t, "text/plain", detected)

	// The reader is rewound for the parser.
	rest, err := io.ReadAll(file)
	require.NoError(t, err)
	assert.Equal(t, byte(' '), rest[0])
}

func TestValidateFileContentRejectsBinaryAndNonObjects(t *testing.T) {
	_, err := ValidateFileContentByMagicBytes(bytes.NewReader([]byte("\x89PNG\r\n\x1a\n\x00\x00")))
	assert.Error(t, err)

	_, err = ValidateFileContentByMagicBytes(bytes.NewReader([]byte("instr_nm,operation\nAAPL.US,buy\n")))
	assert.ErrorContains(t, err, "JSON object")

	_, err = ValidateFileContentByMagicBytes(nil)
	assert.Error(t, err)
}

func TestCleanField(t *testing.T) {
	assert.Equal(t, "AAPL.US", CleanField("  AAPL.US\u0000 "))
	assert.Equal(t, "buy", CleanCode(" BUY\n"))
	assert.Equal(t, "a\tb", StripUnprintable("a\tb\u200b"))
}
