package orders

import (
	"context"

	"github.com/construtech/obras-api/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción de BD, pasando
// repositorios atados a esa tx. Garantiza que el decremento de stock y la
// transición de estado de la aprobación sean una unidad atómica.
type TxRunner interface {
	Run(ctx context.Context, fn func(
		orderRepo repository.OrderRepository,
		materialRepo repository.MaterialRepository,
	) error) error
}
