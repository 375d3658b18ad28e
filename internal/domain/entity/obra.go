package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Obra representa una obra de construcción que origina pedidos de materiales.
// Dirección y presupuesto son inmutables después de la creación.
type Obra struct {
	ID        string
	Name      string
	Address   string
	Budget    decimal.Decimal // presupuesto planificado
	CreatedAt time.Time
	UpdatedAt time.Time
}
