package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateObraRequest datos para crear una obra (solo admin).
type CreateObraRequest struct {
	Name    string          `json:"name"`
	Address string          `json:"address"`
	Budget  decimal.Decimal `json:"budget"`
}

// ObraResponse representación de una obra. Budget solo se incluye para
// roles con visibilidad financiera.
type ObraResponse struct {
	ID        string           `json:"id"`
	Name      string           `json:"name"`
	Address   string           `json:"address"`
	Budget    *decimal.Decimal `json:"budget,omitempty"`
	CreatedAt time.Time        `json:"created_at"`
}

// ObraListResponse listado paginado de obras.
type ObraListResponse struct {
	Items []*ObraResponse `json:"items"`
	Page  PageResponse    `json:"page"`
}
