package memory

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/construtech/obras-api/internal/domain"
	"github.com/construtech/obras-api/internal/domain/entity"
	"github.com/construtech/obras-api/internal/domain/repository"
)

var _ repository.MaterialRepository = (*MaterialRepo)(nil)

// MaterialRepo implementación en memoria de MaterialRepository.
type MaterialRepo struct {
	s *Store
}

// NewMaterialRepository construye el adaptador sobre el store.
func NewMaterialRepository(s *Store) *MaterialRepo {
	return &MaterialRepo{s: s}
}

func (r *MaterialRepo) Create(material *entity.Material) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return r.s.createMaterialLocked(material)
}

func (r *MaterialRepo) GetByID(id string) (*entity.Material, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return r.s.getMaterialLocked(id), nil
}

func (r *MaterialRepo) GetByInternalCode(code string) (*entity.Material, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	for _, m := range r.s.materials {
		if m.InternalCode == code {
			return cloneMaterial(m), nil
		}
	}
	return nil, nil
}

func (r *MaterialRepo) List(limit, offset int) ([]*entity.Material, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	out := make([]*entity.Material, 0, len(r.s.materials))
	for _, m := range r.s.materials {
		out = append(out, cloneMaterial(m))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return page(out, limit, offset), nil
}

// Update reemplaza los campos editables; la cantidad almacenada se
// conserva (solo se mueve por decremento condicional o reposición).
func (r *MaterialRepo) Update(material *entity.Material) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return r.s.updateMaterialLocked(material)
}

func (r *MaterialRepo) DecrementIfAvailable(id string, qty decimal.Decimal) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return r.s.decrementIfAvailableLocked(id, qty)
}

func (r *MaterialRepo) AddQuantity(id string, qty decimal.Decimal) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	m, ok := r.s.materials[id]
	if !ok {
		return domain.ErrNotFound
	}
	m.Quantity = m.Quantity.Add(qty)
	return nil
}

// Operaciones con el lock ya tomado, compartidas con los repos atados a tx.

func (s *Store) createMaterialLocked(material *entity.Material) error {
	if _, ok := s.materials[material.ID]; ok {
		return domain.ErrDuplicate
	}
	for _, m := range s.materials {
		if m.InternalCode == material.InternalCode {
			return domain.ErrDuplicate
		}
	}
	s.materials[material.ID] = cloneMaterial(material)
	return nil
}

func (s *Store) getMaterialLocked(id string) *entity.Material {
	m, ok := s.materials[id]
	if !ok {
		return nil
	}
	return cloneMaterial(m)
}

func (s *Store) updateMaterialLocked(material *entity.Material) error {
	current, ok := s.materials[material.ID]
	if !ok {
		return domain.ErrNotFound
	}
	next := cloneMaterial(material)
	next.Quantity = current.Quantity
	s.materials[material.ID] = next
	return nil
}

func (s *Store) decrementIfAvailableLocked(id string, qty decimal.Decimal) (bool, error) {
	m, ok := s.materials[id]
	if !ok {
		return false, nil
	}
	if m.Quantity.LessThan(qty) {
		return false, nil
	}
	m.Quantity = m.Quantity.Sub(qty)
	return true, nil
}
