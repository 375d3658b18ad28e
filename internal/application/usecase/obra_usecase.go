package usecase

import (
	"time"

	"github.com/google/uuid"

	"github.com/construtech/obras-api/internal/application/dto"
	"github.com/construtech/obras-api/internal/application/policy"
	"github.com/construtech/obras-api/internal/domain"
	"github.com/construtech/obras-api/internal/domain/entity"
	"github.com/construtech/obras-api/internal/domain/repository"
)

// ObraUseCase casos de uso para obras. Solo alta y lectura: dirección y
// presupuesto son inmutables después de crear.
type ObraUseCase struct {
	repo repository.ObraRepository
}

// NewObraUseCase construye el caso de uso.
func NewObraUseCase(repo repository.ObraRepository) *ObraUseCase {
	return &ObraUseCase{repo: repo}
}

// Create crea una obra (solo admin).
func (uc *ObraUseCase) Create(actor entity.Actor, in dto.CreateObraRequest) (*dto.ObraResponse, error) {
	if !actor.IsAdmin() {
		return nil, domain.ErrUnauthorized
	}
	if in.Name == "" {
		return nil, domain.ErrInvalidInput
	}
	now := time.Now()
	obra := &entity.Obra{
		ID:        uuid.New().String(),
		Name:      in.Name,
		Address:   in.Address,
		Budget:    in.Budget,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := uc.repo.Create(obra); err != nil {
		return nil, err
	}
	return policy.ProjectObra(actor, obra), nil
}

// GetByID obtiene una obra proyectada según el rol.
func (uc *ObraUseCase) GetByID(actor entity.Actor, id string) (*dto.ObraResponse, error) {
	obra, err := uc.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if obra == nil {
		return nil, nil
	}
	return policy.ProjectObra(actor, obra), nil
}

// List lista obras proyectadas según el rol.
func (uc *ObraUseCase) List(actor entity.Actor, limit, offset int) (*dto.ObraListResponse, error) {
	obras, err := uc.repo.List(limit, offset)
	if err != nil {
		return nil, err
	}
	items := make([]*dto.ObraResponse, 0, len(obras))
	for _, o := range obras {
		items = append(items, policy.ProjectObra(actor, o))
	}
	return &dto.ObraListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: limit, Offset: offset, Total: len(items)},
	}, nil
}
