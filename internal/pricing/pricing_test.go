package pricing

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/istmoglobal/storefront/internal/i18n"
)

func TestPresenterVisible(t *testing.T) {
	p := Presenter{ShowPrices: true, Lang: i18n.Spanish}
	amount := p.Amount(49.9)
	require.NotNil(t, amount)
	assert.InDelta(t, 49.9, *amount, 1e-9)
	assert.Equal(t, "$49.90", p.Label(49.9))
}

func TestPresenterHidden(t *testing.T) {
	p := Presenter{ShowPrices: false, Lang: i18n.Spanish}
	assert.Nil(t, p.Amount(10))
	assert.Equal(t, "Consultar", p.Label(10))

	p.Lang = i18n.English
	assert.Equal(t, "Inquire", p.Label(10))
}

func TestFormat(t *testing.T) {
	assert.Equal(t, "170.00", FormatFixed(170))
	assert.Equal(t, "50", FormatPlain(50))
	assert.Equal(t, "0.1", FormatPlain(0.1))
}
