package valueobjects

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewEmail_Normalizes(t *testing.T) {
	tests := []struct {
		input  string
		want   string
		domain string
	}{
		{"Jane.Doe@Example.COM", "jane.doe@example.com", "example.com"},
		{"  Support Team <help@Acme.io>  ", "help@acme.io", "acme.io"},
		{"ops@STRASSE.de", "ops@strasse.de", "strasse.de"},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			e, err := NewEmail(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.want, e.String())
			assert.Equal(t, tt.domain, e.Domain())
		})
	}
}

func TestNewEmail_Rejects(t *testing.T) {
	for _, input := range []string{"", "   ", "no-at-sign", "@example.com"} {
		_, err := NewEmail(input)
		assert.Error(t, err, input)
	}
}

func TestNormalizeDomain(t *testing.T) {
	assert.Equal(t, "example.com", NormalizeDomain(" Example.COM. "))
}
