package main

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"

	"github.com/jhoicas/ventas-api/internal/domain/entity"
)

// catalog filas del CSV ya decodificadas.
type catalog struct {
	providers []entity.Provider
	clients   []entity.Client
	products  []entity.Product
}

// parseCatalog lee el CSV exportado desde Excel (Windows-1252, separador ';').
// Formato por tipo de fila:
//
//	PROVEEDOR;nombre;dirección
//	CLIENTE;nombres;apellidos;cédula;teléfono;email;dirección
//	PRODUCTO;nombre;descripción;precio
//
// Las líneas que empiezan con '#' y una cabecera "tipo;..." se ignoran.
func parseCatalog(r io.Reader) (*catalog, error) {
	reader := csv.NewReader(transform.NewReader(r, charmap.Windows1252.NewDecoder()))
	reader.Comma = ';'
	reader.Comment = '#'
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	out := &catalog{}
	for line := 1; ; line++ {
		rec, err := reader.Read()
		if errors.Is(err, io.EOF) {
			return out, nil
		}
		if err != nil {
			return nil, fmt.Errorf("línea %d: %w", line, err)
		}
		for i := range rec {
			rec[i] = strings.TrimSpace(rec[i])
		}
		switch strings.ToUpper(rec[0]) {
		case "TIPO", "":
			continue
		case "PROVEEDOR":
			if err := need(rec, 2, line); err != nil {
				return nil, err
			}
			out.providers = append(out.providers, entity.Provider{Name: rec[1], Address: field(rec, 2), Enabled: true})
		case "CLIENTE":
			if err := need(rec, 4, line); err != nil {
				return nil, err
			}
			out.clients = append(out.clients, entity.Client{
				FirstName:   rec[1],
				LastName:    rec[2],
				CardID:      rec[3],
				PhoneNumber: field(rec, 4),
				Email:       field(rec, 5),
				Address:     field(rec, 6),
			})
		case "PRODUCTO":
			if err := need(rec, 4, line); err != nil {
				return nil, err
			}
			price, err := decimal.NewFromString(strings.ReplaceAll(rec[3], ",", "."))
			if err != nil || price.IsNegative() {
				return nil, fmt.Errorf("línea %d: precio inválido %q", line, rec[3])
			}
			out.products = append(out.products, entity.Product{
				Name: rec[1], Description: rec[2], Price: price, Enabled: true,
			})
		default:
			return nil, fmt.Errorf("línea %d: tipo desconocido %q", line, rec[0])
		}
	}
}

func need(rec []string, n, line int) error {
	if len(rec) < n || rec[1] == "" {
		return fmt.Errorf("línea %d: se esperaban al menos %d columnas", line, n)
	}
	return nil
}

func field(rec []string, i int) string {
	if i < len(rec) {
		return rec[i]
	}
	return ""
}
