package memory

import (
	"context"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/construtech/obras-api/internal/application/orders"
	"github.com/construtech/obras-api/internal/domain"
	"github.com/construtech/obras-api/internal/domain/entity"
	"github.com/construtech/obras-api/internal/domain/repository"
)

var _ orders.TxRunner = (*TxRunner)(nil)

// TxRunner da semántica todo-o-nada sobre el store: toma el lock de
// escritura, saca un snapshot de materiales y pedidos, ejecuta fn con repos
// atados a ese estado y, si fn falla, restaura el snapshot. Equivale al
// Begin/Commit/Rollback del adaptador postgres.
type TxRunner struct {
	s *Store
}

// NewTxRunner construye el runner sobre el store.
func NewTxRunner(s *Store) *TxRunner {
	return &TxRunner{s: s}
}

// Run ejecuta fn de forma atómica y aislada respecto de otros callers.
func (r *TxRunner) Run(ctx context.Context, fn func(
	orderRepo repository.OrderRepository,
	materialRepo repository.MaterialRepository,
) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	snap := r.s.takeSnapshotLocked()
	if err := fn(&txOrderRepo{s: r.s}, &txMaterialRepo{s: r.s}); err != nil {
		r.s.restoreSnapshotLocked(snap)
		return err
	}
	return nil
}

// txOrderRepo y txMaterialRepo operan con el lock del store ya tomado por
// Run; nunca deben usarse fuera de una transacción.

type txOrderRepo struct {
	s *Store
}

var _ repository.OrderRepository = (*txOrderRepo)(nil)

func (r *txOrderRepo) Create(order *entity.Order) error {
	if _, ok := r.s.orders[order.ID]; ok {
		return domain.ErrDuplicate
	}
	r.s.orders[order.ID] = cloneOrder(order)
	return nil
}

func (r *txOrderRepo) GetByID(id string) (*entity.Order, error) {
	return r.s.getOrderLocked(id), nil
}

func (r *txOrderRepo) List(limit, offset int) ([]*entity.Order, error) {
	return page(r.s.sortedOrdersLocked(), limit, offset), nil
}

func (r *txOrderRepo) ListByRequester(requesterID string, limit, offset int) ([]*entity.Order, error) {
	out := make([]*entity.Order, 0)
	for _, o := range r.s.sortedOrdersLocked() {
		if o.RequesterID == requesterID {
			out = append(out, o)
		}
	}
	return page(out, limit, offset), nil
}

func (r *txOrderRepo) ListByObra(obraID string, limit, offset int) ([]*entity.Order, error) {
	out := make([]*entity.Order, 0)
	for _, o := range r.s.sortedOrdersLocked() {
		if o.ObraID == obraID {
			out = append(out, o)
		}
	}
	return page(out, limit, offset), nil
}

func (r *txOrderRepo) UpdateStatusIf(id, expected, next, reason string, at time.Time) (bool, error) {
	return r.s.updateOrderStatusIfLocked(id, expected, next, reason, at)
}

type txMaterialRepo struct {
	s *Store
}

var _ repository.MaterialRepository = (*txMaterialRepo)(nil)

func (r *txMaterialRepo) Create(material *entity.Material) error {
	return r.s.createMaterialLocked(material)
}

func (r *txMaterialRepo) GetByID(id string) (*entity.Material, error) {
	return r.s.getMaterialLocked(id), nil
}

func (r *txMaterialRepo) GetByInternalCode(code string) (*entity.Material, error) {
	for _, m := range r.s.materials {
		if m.InternalCode == code {
			return cloneMaterial(m), nil
		}
	}
	return nil, nil
}

func (r *txMaterialRepo) List(limit, offset int) ([]*entity.Material, error) {
	out := make([]*entity.Material, 0, len(r.s.materials))
	for _, m := range r.s.materials {
		out = append(out, cloneMaterial(m))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return page(out, limit, offset), nil
}

func (r *txMaterialRepo) Update(material *entity.Material) error {
	return r.s.updateMaterialLocked(material)
}

func (r *txMaterialRepo) DecrementIfAvailable(id string, qty decimal.Decimal) (bool, error) {
	return r.s.decrementIfAvailableLocked(id, qty)
}

func (r *txMaterialRepo) AddQuantity(id string, qty decimal.Decimal) error {
	m, ok := r.s.materials[id]
	if !ok {
		return domain.ErrNotFound
	}
	m.Quantity = m.Quantity.Add(qty)
	return nil
}
