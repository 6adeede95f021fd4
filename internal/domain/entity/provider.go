package entity

// Provider proveedor de mercadería (contraparte de los ingresos).
type Provider struct {
	ID      int64
	Name    string
	Address string
	Enabled bool
}

// Summary vista reducida del proveedor.
func (p *Provider) Summary() *PartySummary {
	return &PartySummary{ID: p.ID, Name: p.Name}
}
