package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados del ciclo de vida de un pedido.
// PENDING es el estado inicial; REJECTED y COMPLETED son terminales.
const (
	OrderPending   = "PENDING"
	OrderApproved  = "APPROVED"
	OrderCompleted = "COMPLETED"
	OrderRejected  = "REJECTED"
)

// Prioridades de pedido.
const (
	PriorityLow    = "LOW"
	PriorityMedium = "MEDIUM"
	PriorityHigh   = "HIGH"
)

// OrderLine es una línea de pedido. Name, Unit y UnitCost son snapshots del
// material al momento de agregar la línea: cambios posteriores de precio en
// el catálogo nunca alteran un pedido ya armado.
type OrderLine struct {
	MaterialID string
	Name       string
	Unit       string
	Quantity   decimal.Decimal
	UnitCost   decimal.Decimal
	Total      decimal.Decimal // Quantity * UnitCost al momento de agregar
	StockAtAdd decimal.Decimal // stock disponible al armar, señal informativa
	Note       string          // observación libre del solicitante
}

// Order representa un pedido de materiales de una obra (Pedido).
// El código visible (Code) no es clave de búsqueda; el ID interno sí.
type Order struct {
	ID              string
	Code            string // DDMM_HHMMSSRR, ver ordercode.Generate
	ObraID          string
	ObraName        string // snapshot del nombre de la obra
	RequesterID     string
	RequesterName   string // snapshot del solicitante
	Priority        string // LOW, MEDIUM, HIGH
	Status          string // PENDING, APPROVED, COMPLETED, REJECTED
	Lines           []OrderLine
	Note            string
	RejectionReason string
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// Subtotal es siempre la suma de los totales de línea vigentes; nunca se
// almacena de forma independiente que pueda quedar desactualizada.
func (o *Order) Subtotal() decimal.Decimal {
	sum := decimal.Zero
	for _, l := range o.Lines {
		sum = sum.Add(l.Total)
	}
	return sum
}

// Terminal indica si el pedido ya no admite transiciones.
func (o *Order) Terminal() bool {
	return o.Status == OrderCompleted || o.Status == OrderRejected
}

// LineIndex devuelve la posición de la línea para un material, o -1.
func (o *Order) LineIndex(materialID string) int {
	for i := range o.Lines {
		if o.Lines[i].MaterialID == materialID {
			return i
		}
	}
	return -1
}
