package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados válidos para Material y Supplier.
const (
	StatusActive   = "ativo"
	StatusInactive = "inativo"
)

// Material representa un material almacenable y pedible del catálogo.
// Quantity solo se muta por la aprobación de pedidos o por reposición
// explícita; el invariante quantity >= 0 lo garantiza el decremento
// condicional en la capa de persistencia.
type Material struct {
	ID           string
	Name         string
	InternalCode string // código único interno
	Category     string
	Unit         string          // unidad de medida (un, kg, m3, saco...)
	Quantity     decimal.Decimal // cantidad actual en stock
	MinStock     decimal.Decimal // umbral mínimo, solo informativo
	Location     string          // ubicación física en el depósito
	UnitCost     decimal.Decimal
	SupplierID   string // opcional
	Status       string // ativo, inativo
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Active indica si el material puede agregarse a pedidos.
func (m *Material) Active() bool {
	return m.Status == StatusActive
}

// LowStock indica si la cantidad está en o por debajo del mínimo.
// Es una señal informativa: nunca bloquea una operación por sí sola.
func (m *Material) LowStock() bool {
	return m.Quantity.LessThanOrEqual(m.MinStock)
}
