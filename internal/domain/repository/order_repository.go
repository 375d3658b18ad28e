package repository

import (
	"time"

	"github.com/construtech/obras-api/internal/domain/entity"
)

// OrderRepository define el puerto de persistencia para Order y sus líneas.
type OrderRepository interface {
	Create(order *entity.Order) error
	GetByID(id string) (*entity.Order, error)
	List(limit, offset int) ([]*entity.Order, error)
	ListByRequester(requesterID string, limit, offset int) ([]*entity.Order, error)
	ListByObra(obraID string, limit, offset int) ([]*entity.Order, error)

	// UpdateStatusIf cambia el estado solo si el registro aún está en el
	// estado esperado (guard optimista sobre status). Devuelve false sin
	// mutar nada cuando el estado ya cambió: el caller lo traduce a
	// ErrConcurrentModification.
	UpdateStatusIf(id, expected, next, reason string, at time.Time) (bool, error)
}
