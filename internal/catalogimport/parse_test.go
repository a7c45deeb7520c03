package catalogimport

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseMapsHeaders(t *testing.T) {
	doc := "\ufeffModelo,Marca,Precio,Medida\n" +
		"Pilot,Michelin,99.90,205/55R16\n" +
		"\n" +
		",,,\n" +
		"Scorpion,Pirelli\n"
	rows, err := Parse(strings.NewReader(doc))
	require.NoError(t, err)
	require.Len(t, rows, 2)

	assert.Equal(t, Row{Brand: "Michelin", Model: "Pilot", Price: "99.90", Size: "205/55R16"}, rows[0])
	assert.Equal(t, "Pirelli", rows[1].Brand)
	assert.Empty(t, rows[1].Size)
}

func TestParseEmptyDocument(t *testing.T) {
	rows, err := Parse(strings.NewReader(""))
	require.NoError(t, err)
	assert.Empty(t, rows)
}

func TestParseMalformed(t *testing.T) {
	_, err := Parse(strings.NewReader("Marca,Modelo\nMi\"chelin,Pilot\n"))
	assert.ErrorIs(t, err, ErrMalformed)
}

func TestTemplateRoundTrips(t *testing.T) {
	rows, err := Parse(strings.NewReader(string(Template())))
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "Ardent", rows[0].Brand)
	assert.Equal(t, "205/55 R16", rows[0].Size)
	assert.Equal(t, "https://picsum.photos/seed/tech/800/800", rows[0].TechSheet)
}

func TestParsePrice(t *testing.T) {
	assert.Equal(t, 45.0, parsePrice("45.00"))
	assert.Equal(t, 19.99, parsePrice("19.99"))
	assert.Equal(t, 0.0, parsePrice("abc"))
	assert.Equal(t, 0.0, parsePrice("NaN"))
	assert.Equal(t, 12.35, parsePrice("12.345"))
	assert.Equal(t, 8.0, parsePrice("7.999"))
}

func TestPercent(t *testing.T) {
	assert.Equal(t, 33, percent(1, 3))
	assert.Equal(t, 67, percent(2, 3))
	assert.Equal(t, 100, percent(3, 3))
	assert.Equal(t, 100, percent(0, 0))
}
