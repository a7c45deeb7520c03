package i18n

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNegotiate(t *testing.T) {
	cases := []struct {
		name      string
		preferred string
		header    string
		want      Lang
	}{
		{name: "explicit preference wins", preferred: "en", header: "es-ES,es;q=0.9", want: English},
		{name: "header english", header: "en-US,en;q=0.8", want: English},
		{name: "header spanish region", header: "es-PA", want: Spanish},
		{name: "unsupported falls back to spanish", header: "de-DE", want: Spanish},
		{name: "garbage preference ignored", preferred: "fr", header: "en", want: English},
		{name: "empty", want: Spanish},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, Negotiate(tc.preferred, tc.header))
		})
	}
}

func TestTranslate(t *testing.T) {
	assert.Equal(t, "Consultar", T(Spanish, PriceInquire))
	assert.Equal(t, "Inquire", T(English, PriceInquire))
	assert.Equal(t, "missingKey", T(English, "missingKey"))
	assert.Equal(t, "Ago", MonthName(Spanish, 8))
	assert.Equal(t, "Aug", MonthName(English, 8))
	assert.Empty(t, MonthName(English, 13))
}
