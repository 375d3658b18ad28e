package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateMaterialRequest datos para crear un material (solo admin).
type CreateMaterialRequest struct {
	Name         string          `json:"name"`
	InternalCode string          `json:"internal_code"`
	Category     string          `json:"category"`
	Unit         string          `json:"unit"`
	Quantity     decimal.Decimal `json:"quantity"`
	MinStock     decimal.Decimal `json:"min_stock"`
	Location     string          `json:"location"`
	UnitCost     decimal.Decimal `json:"unit_cost"`
	SupplierID   string          `json:"supplier_id"`
}

// UpdateMaterialRequest campos actualizables. Quantity no está: el stock
// solo se mueve por aprobación de pedidos o reposición.
type UpdateMaterialRequest struct {
	Name     *string          `json:"name"`
	Category *string          `json:"category"`
	Unit     *string          `json:"unit"`
	MinStock *decimal.Decimal `json:"min_stock"`
	Location *string          `json:"location"`
	UnitCost *decimal.Decimal `json:"unit_cost"`
	Status   *string          `json:"status"`
}

// RestockRequest reposición explícita de stock (solo admin).
type RestockRequest struct {
	Quantity decimal.Decimal `json:"quantity"`
}

// MaterialResponse representación de un material. UnitCost y LowStock solo
// se incluyen para roles con visibilidad financiera (proyección de la
// política de visibilidad).
type MaterialResponse struct {
	ID           string           `json:"id"`
	Name         string           `json:"name"`
	InternalCode string           `json:"internal_code"`
	Category     string           `json:"category"`
	Unit         string           `json:"unit"`
	Quantity     decimal.Decimal  `json:"quantity"`
	MinStock     decimal.Decimal  `json:"min_stock"`
	Location     string           `json:"location"`
	UnitCost     *decimal.Decimal `json:"unit_cost,omitempty"`
	LowStock     *bool            `json:"low_stock,omitempty"`
	SupplierID   string           `json:"supplier_id,omitempty"`
	Status       string           `json:"status"`
	CreatedAt    time.Time        `json:"created_at"`
	UpdatedAt    time.Time        `json:"updated_at"`
}

// MaterialListResponse listado paginado de materiales.
type MaterialListResponse struct {
	Items []*MaterialResponse `json:"items"`
	Page  PageResponse        `json:"page"`
}
