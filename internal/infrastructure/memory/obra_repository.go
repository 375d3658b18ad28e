package memory

import (
	"sort"

	"github.com/construtech/obras-api/internal/domain"
	"github.com/construtech/obras-api/internal/domain/entity"
	"github.com/construtech/obras-api/internal/domain/repository"
)

var _ repository.ObraRepository = (*ObraRepo)(nil)

// ObraRepo implementación en memoria de ObraRepository.
type ObraRepo struct {
	s *Store
}

// NewObraRepository construye el adaptador sobre el store.
func NewObraRepository(s *Store) *ObraRepo {
	return &ObraRepo{s: s}
}

func (r *ObraRepo) Create(obra *entity.Obra) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.obras[obra.ID]; ok {
		return domain.ErrDuplicate
	}
	r.s.obras[obra.ID] = cloneObra(obra)
	return nil
}

func (r *ObraRepo) GetByID(id string) (*entity.Obra, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	o, ok := r.s.obras[id]
	if !ok {
		return nil, nil
	}
	return cloneObra(o), nil
}

func (r *ObraRepo) List(limit, offset int) ([]*entity.Obra, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	out := make([]*entity.Obra, 0, len(r.s.obras))
	for _, o := range r.s.obras {
		out = append(out, cloneObra(o))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return page(out, limit, offset), nil
}
