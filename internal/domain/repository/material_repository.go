package repository

import (
	"github.com/shopspring/decimal"

	"github.com/construtech/obras-api/internal/domain/entity"
)

// MaterialRepository define el puerto de persistencia para Material.
// Quantity no se toca vía Update: solo DecrementIfAvailable (aprobación de
// pedidos) y AddQuantity (reposición) la mutan.
type MaterialRepository interface {
	Create(material *entity.Material) error
	GetByID(id string) (*entity.Material, error)
	GetByInternalCode(code string) (*entity.Material, error)
	List(limit, offset int) ([]*entity.Material, error)
	Update(material *entity.Material) error

	// DecrementIfAvailable resta qty de forma condicional: solo si la
	// cantidad actual alcanza (quantity >= qty). Devuelve false sin mutar
	// nada cuando no alcanza. Es la precondición compare-and-swap que
	// garantiza quantity >= 0 ante aprobaciones concurrentes.
	DecrementIfAvailable(id string, qty decimal.Decimal) (bool, error)

	// AddQuantity suma qty al stock (reposición explícita).
	AddQuantity(id string, qty decimal.Decimal) error
}
