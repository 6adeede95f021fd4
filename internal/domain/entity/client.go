package entity

import "strings"

// Client cliente final (contraparte de las ventas).
type Client struct {
	ID          int64
	FirstName   string
	LastName    string
	CardID      string // documento de identidad
	PhoneNumber string
	Email       string
	Address     string
}

// FullName nombre y apellido separados por un espacio.
func (c *Client) FullName() string {
	return strings.TrimSpace(c.FirstName + " " + c.LastName)
}

// Summary vista reducida del cliente.
func (c *Client) Summary() *PartySummary {
	return &PartySummary{ID: c.ID, Name: c.FullName(), Document: c.CardID}
}

// PartySummary resumen de contraparte o actor (proveedor, cliente, usuario).
type PartySummary struct {
	ID       int64
	Name     string
	Document string
}
