package usecase

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/construtech/obras-api/internal/application/dto"
	"github.com/construtech/obras-api/internal/application/policy"
	"github.com/construtech/obras-api/internal/domain"
	"github.com/construtech/obras-api/internal/domain/entity"
	"github.com/construtech/obras-api/internal/domain/repository"
	"github.com/construtech/obras-api/pkg/strutil"
)

// MaterialUseCase casos de uso CRUD para el catálogo de materiales.
// La cantidad en stock no se edita por acá: solo la aprobación de pedidos
// y la reposición explícita (Restock) la mueven.
type MaterialUseCase struct {
	repo repository.MaterialRepository
}

// NewMaterialUseCase construye el caso de uso.
func NewMaterialUseCase(repo repository.MaterialRepository) *MaterialUseCase {
	return &MaterialUseCase{repo: repo}
}

// Create crea un material del catálogo (requiere capacidad EditMaterials).
func (uc *MaterialUseCase) Create(actor entity.Actor, in dto.CreateMaterialRequest) (*dto.MaterialResponse, error) {
	if !policy.ForRole(actor.Role).EditMaterials {
		return nil, domain.ErrUnauthorized
	}
	if in.Name == "" || in.InternalCode == "" || in.Unit == "" {
		return nil, domain.ErrInvalidInput
	}
	if in.Quantity.IsNegative() || in.MinStock.IsNegative() || in.UnitCost.IsNegative() {
		return nil, domain.ErrInvalidInput
	}
	existing, err := uc.repo.GetByInternalCode(in.InternalCode)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, domain.ErrDuplicate
	}
	now := time.Now()
	material := &entity.Material{
		ID:           uuid.New().String(),
		Name:         in.Name,
		InternalCode: in.InternalCode,
		Category:     in.Category,
		Unit:         in.Unit,
		Quantity:     in.Quantity,
		MinStock:     in.MinStock,
		Location:     in.Location,
		UnitCost:     in.UnitCost,
		SupplierID:   in.SupplierID,
		Status:       entity.StatusActive,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := uc.repo.Create(material); err != nil {
		return nil, err
	}
	return policy.ProjectMaterial(actor, material), nil
}

// GetByID obtiene un material proyectado según el rol.
func (uc *MaterialUseCase) GetByID(actor entity.Actor, id string) (*dto.MaterialResponse, error) {
	material, err := uc.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if material == nil {
		return nil, nil
	}
	return policy.ProjectMaterial(actor, material), nil
}

// List lista materiales con filtro opcional q (insensible a acentos)
// sobre nombre, código interno y categoría.
func (uc *MaterialUseCase) List(actor entity.Actor, q string, limit, offset int) (*dto.MaterialListResponse, error) {
	materials, err := uc.repo.List(limit, offset)
	if err != nil {
		return nil, err
	}
	items := make([]*dto.MaterialResponse, 0, len(materials))
	for _, m := range materials {
		if q != "" &&
			!strutil.ContainsFold(m.Name, q) &&
			!strutil.ContainsFold(m.InternalCode, q) &&
			!strutil.ContainsFold(m.Category, q) {
			continue
		}
		items = append(items, policy.ProjectMaterial(actor, m))
	}
	return &dto.MaterialListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: limit, Offset: offset, Total: len(items)},
	}, nil
}

// Update actualiza los campos editables de un material.
func (uc *MaterialUseCase) Update(actor entity.Actor, id string, in dto.UpdateMaterialRequest) (*dto.MaterialResponse, error) {
	if !policy.ForRole(actor.Role).EditMaterials {
		return nil, domain.ErrUnauthorized
	}
	material, err := uc.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if material == nil {
		return nil, nil
	}
	if in.Name != nil {
		material.Name = *in.Name
	}
	if in.Category != nil {
		material.Category = *in.Category
	}
	if in.Unit != nil {
		material.Unit = *in.Unit
	}
	if in.MinStock != nil {
		if in.MinStock.IsNegative() {
			return nil, domain.ErrInvalidInput
		}
		material.MinStock = *in.MinStock
	}
	if in.Location != nil {
		material.Location = *in.Location
	}
	if in.UnitCost != nil {
		if in.UnitCost.IsNegative() {
			return nil, domain.ErrInvalidInput
		}
		material.UnitCost = *in.UnitCost
	}
	if in.Status != nil {
		if *in.Status != entity.StatusActive && *in.Status != entity.StatusInactive {
			return nil, domain.ErrInvalidInput
		}
		material.Status = *in.Status
	}
	material.UpdatedAt = time.Now()
	if err := uc.repo.Update(material); err != nil {
		return nil, err
	}
	return policy.ProjectMaterial(actor, material), nil
}

// Restock suma stock de forma explícita (reposición).
func (uc *MaterialUseCase) Restock(actor entity.Actor, id string, qty decimal.Decimal) (*dto.MaterialResponse, error) {
	if !policy.ForRole(actor.Role).EditMaterials {
		return nil, domain.ErrUnauthorized
	}
	if !qty.GreaterThan(decimal.Zero) {
		return nil, domain.ErrInvalidQuantity
	}
	material, err := uc.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if material == nil {
		return nil, domain.ErrNotFound
	}
	if err := uc.repo.AddQuantity(id, qty); err != nil {
		return nil, err
	}
	material, err = uc.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	return policy.ProjectMaterial(actor, material), nil
}

// Delete da de baja lógica un material: pasa a inactivo y deja de poder
// pedirse. No se borra la fila: los pedidos históricos lo referencian.
func (uc *MaterialUseCase) Delete(actor entity.Actor, id string) error {
	if !policy.ForRole(actor.Role).EditMaterials {
		return domain.ErrUnauthorized
	}
	material, err := uc.repo.GetByID(id)
	if err != nil {
		return err
	}
	if material == nil {
		return domain.ErrNotFound
	}
	material.Status = entity.StatusInactive
	material.UpdatedAt = time.Now()
	return uc.repo.Update(material)
}
