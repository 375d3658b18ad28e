package memory

import (
	"time"

	"github.com/construtech/obras-api/internal/domain"
	"github.com/construtech/obras-api/internal/domain/entity"
	"github.com/construtech/obras-api/internal/domain/repository"
)

var _ repository.OrderRepository = (*OrderRepo)(nil)

// OrderRepo implementación en memoria de OrderRepository.
type OrderRepo struct {
	s *Store
}

// NewOrderRepository construye el adaptador sobre el store.
func NewOrderRepository(s *Store) *OrderRepo {
	return &OrderRepo{s: s}
}

func (r *OrderRepo) Create(order *entity.Order) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.orders[order.ID]; ok {
		return domain.ErrDuplicate
	}
	r.s.orders[order.ID] = cloneOrder(order)
	return nil
}

func (r *OrderRepo) GetByID(id string) (*entity.Order, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return r.s.getOrderLocked(id), nil
}

func (r *OrderRepo) List(limit, offset int) ([]*entity.Order, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return page(r.s.sortedOrdersLocked(), limit, offset), nil
}

func (r *OrderRepo) ListByRequester(requesterID string, limit, offset int) ([]*entity.Order, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	out := make([]*entity.Order, 0)
	for _, o := range r.s.sortedOrdersLocked() {
		if o.RequesterID == requesterID {
			out = append(out, o)
		}
	}
	return page(out, limit, offset), nil
}

func (r *OrderRepo) ListByObra(obraID string, limit, offset int) ([]*entity.Order, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	out := make([]*entity.Order, 0)
	for _, o := range r.s.sortedOrdersLocked() {
		if o.ObraID == obraID {
			out = append(out, o)
		}
	}
	return page(out, limit, offset), nil
}

func (r *OrderRepo) UpdateStatusIf(id, expected, next, reason string, at time.Time) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return r.s.updateOrderStatusIfLocked(id, expected, next, reason, at)
}

// Operaciones con el lock ya tomado, compartidas con los repos atados a tx.

func (s *Store) getOrderLocked(id string) *entity.Order {
	o, ok := s.orders[id]
	if !ok {
		return nil
	}
	return cloneOrder(o)
}

func (s *Store) updateOrderStatusIfLocked(id, expected, next, reason string, at time.Time) (bool, error) {
	o, ok := s.orders[id]
	if !ok {
		return false, nil
	}
	if o.Status != expected {
		return false, nil
	}
	o.Status = next
	if reason != "" {
		o.RejectionReason = reason
	}
	o.UpdatedAt = at
	return true, nil
}
