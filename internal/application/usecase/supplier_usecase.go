package usecase

import (
	"time"

	"github.com/google/uuid"

	"github.com/construtech/obras-api/internal/application/dto"
	"github.com/construtech/obras-api/internal/domain"
	"github.com/construtech/obras-api/internal/domain/entity"
	"github.com/construtech/obras-api/internal/domain/repository"
	"github.com/construtech/obras-api/pkg/strutil"
)

// SupplierUseCase casos de uso CRUD para proveedores. Independiente de los
// pedidos: no hay vinculación automática proveedor-pedido.
type SupplierUseCase struct {
	repo repository.SupplierRepository
}

// NewSupplierUseCase construye el caso de uso.
func NewSupplierUseCase(repo repository.SupplierRepository) *SupplierUseCase {
	return &SupplierUseCase{repo: repo}
}

// Create registra un proveedor (solo admin). CNPJ único.
func (uc *SupplierUseCase) Create(actor entity.Actor, in dto.CreateSupplierRequest) (*dto.SupplierResponse, error) {
	if !actor.IsAdmin() {
		return nil, domain.ErrUnauthorized
	}
	if in.CompanyName == "" || in.CNPJ == "" {
		return nil, domain.ErrInvalidInput
	}
	existing, _ := uc.repo.GetByCNPJ(in.CNPJ)
	if existing != nil {
		return nil, domain.ErrDuplicate
	}
	now := time.Now()
	supplier := &entity.Supplier{
		ID:                uuid.New().String(),
		CompanyName:       in.CompanyName,
		TradeName:         in.TradeName,
		CNPJ:              in.CNPJ,
		StateRegistration: in.StateRegistration,
		Phone:             in.Phone,
		Email:             in.Email,
		Website:           in.Website,
		ZipCode:           in.ZipCode,
		Address:           in.Address,
		Number:            in.Number,
		Complement:        in.Complement,
		District:          in.District,
		City:              in.City,
		State:             in.State,
		Categories:        in.Categories,
		AvgDeliveryDays:   in.AvgDeliveryDays,
		PaymentTerms:      in.PaymentTerms,
		Status:            entity.StatusActive,
		CreatedAt:         now,
		UpdatedAt:         now,
	}
	if err := uc.repo.Create(supplier); err != nil {
		return nil, err
	}
	return toSupplierResponse(supplier), nil
}

// GetByID obtiene un proveedor por ID.
func (uc *SupplierUseCase) GetByID(id string) (*dto.SupplierResponse, error) {
	supplier, err := uc.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if supplier == nil {
		return nil, nil
	}
	return toSupplierResponse(supplier), nil
}

// List lista proveedores con filtros opcionales por texto (insensible a
// acentos, sobre razón social y nombre fantasía) y categoría.
func (uc *SupplierUseCase) List(q, category string, limit, offset int) (*dto.SupplierListResponse, error) {
	suppliers, err := uc.repo.List(limit, offset)
	if err != nil {
		return nil, err
	}
	items := make([]*dto.SupplierResponse, 0, len(suppliers))
	for _, s := range suppliers {
		if q != "" && !strutil.ContainsFold(s.CompanyName, q) && !strutil.ContainsFold(s.TradeName, q) {
			continue
		}
		if category != "" && !hasCategory(s, category) {
			continue
		}
		items = append(items, toSupplierResponse(s))
	}
	return &dto.SupplierListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: limit, Offset: offset, Total: len(items)},
	}, nil
}

// Update actualiza los campos editables de un proveedor (solo admin).
func (uc *SupplierUseCase) Update(actor entity.Actor, id string, in dto.UpdateSupplierRequest) (*dto.SupplierResponse, error) {
	if !actor.IsAdmin() {
		return nil, domain.ErrUnauthorized
	}
	supplier, err := uc.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if supplier == nil {
		return nil, nil
	}
	if in.TradeName != nil {
		supplier.TradeName = *in.TradeName
	}
	if in.Phone != nil {
		supplier.Phone = *in.Phone
	}
	if in.Email != nil {
		supplier.Email = *in.Email
	}
	if in.Website != nil {
		supplier.Website = *in.Website
	}
	if in.Categories != nil {
		supplier.Categories = *in.Categories
	}
	if in.AvgDeliveryDays != nil {
		supplier.AvgDeliveryDays = *in.AvgDeliveryDays
	}
	if in.PaymentTerms != nil {
		supplier.PaymentTerms = *in.PaymentTerms
	}
	if in.Status != nil {
		if *in.Status != entity.StatusActive && *in.Status != entity.StatusInactive {
			return nil, domain.ErrInvalidInput
		}
		supplier.Status = *in.Status
	}
	supplier.UpdatedAt = time.Now()
	if err := uc.repo.Update(supplier); err != nil {
		return nil, err
	}
	return toSupplierResponse(supplier), nil
}

func hasCategory(s *entity.Supplier, category string) bool {
	for _, c := range s.Categories {
		if strutil.Fold(c) == strutil.Fold(category) {
			return true
		}
	}
	return false
}

func toSupplierResponse(s *entity.Supplier) *dto.SupplierResponse {
	return &dto.SupplierResponse{
		ID:                s.ID,
		CompanyName:       s.CompanyName,
		TradeName:         s.TradeName,
		CNPJ:              s.CNPJ,
		StateRegistration: s.StateRegistration,
		Phone:             s.Phone,
		Email:             s.Email,
		Website:           s.Website,
		ZipCode:           s.ZipCode,
		Address:           s.Address,
		Number:            s.Number,
		Complement:        s.Complement,
		District:          s.District,
		City:              s.City,
		State:             s.State,
		Categories:        s.Categories,
		AvgDeliveryDays:   s.AvgDeliveryDays,
		PaymentTerms:      s.PaymentTerms,
		Status:            s.Status,
		CreatedAt:         s.CreatedAt,
		UpdatedAt:         s.UpdatedAt,
	}
}
