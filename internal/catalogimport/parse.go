// Package catalogimport bulk loads products from the spreadsheet export used
// by the sales team.
package catalogimport

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"
)

// Column headers of the import file.
const (
	ColBrand       = "Marca"
	ColModel       = "Modelo"
	ColCategory    = "Categoria"
	ColDescription = "Descripcion"
	ColSize        = "Medida"
	ColPrice       = "Precio"
	ColImage       = "ImagenURL"
	ColTechSheet   = "FichaTecnicaURL"
)

// Headers lists the template columns in order.
var Headers = []string{ColBrand, ColModel, ColCategory, ColDescription, ColSize, ColPrice, ColImage, ColTechSheet}

var templateExample = []string{
	"Ardent", "VANTI AS", "Passenger", "Neumático de alto rendimiento", "205/55 R16", "45.00",
	"https://picsum.photos/seed/tire1/800/800", "https://picsum.photos/seed/tech/800/800",
}

// TemplateFileName is the download name of the blank import template.
const TemplateFileName = "plantilla_importacion_productos.csv"

// ErrMalformed reports a file that cannot be read as CSV.
var ErrMalformed = errors.New("catalogimport: malformed csv")

// Row is one data line keyed by header.
type Row struct {
	Brand       string
	Model       string
	Category    string
	Description string
	Size        string
	Price       string
	Image       string
	TechSheet   string
}

// Parse reads a header based CSV document. Blank lines are skipped and
// missing columns read as empty strings.
func Parse(r io.Reader) ([]Row, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return []Row{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%w: header: %v", ErrMalformed, err)
	}
	index := make(map[string]int, len(header))
	for i, name := range header {
		if i == 0 {
			name = strings.TrimPrefix(name, "\ufeff")
		}
		index[strings.TrimSpace(name)] = i
	}
	field := func(record []string, col string) string {
		i, ok := index[col]
		if !ok || i >= len(record) {
			return ""
		}
		return record[i]
	}

	rows := make([]Row, 0)
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
		}
		if blank(record) {
			continue
		}
		rows = append(rows, Row{
			Brand:       field(record, ColBrand),
			Model:       field(record, ColModel),
			Category:    field(record, ColCategory),
			Description: field(record, ColDescription),
			Size:        field(record, ColSize),
			Price:       field(record, ColPrice),
			Image:       field(record, ColImage),
			TechSheet:   field(record, ColTechSheet),
		})
	}
	return rows, nil
}

func blank(record []string) bool {
	for _, v := range record {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}

// Template renders the header row plus one example line.
func Template() []byte {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	_ = w.Write(Headers)
	_ = w.Write(templateExample)
	w.Flush()
	return buf.Bytes()
}
