package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// OrderItemRequest una línea al crear un pedido.
type OrderItemRequest struct {
	MaterialID string          `json:"material_id"`
	Quantity   decimal.Decimal `json:"quantity"`
	Note       string          `json:"note"`
}

// CreateOrderRequest datos para armar y enviar un pedido.
type CreateOrderRequest struct {
	ObraID   string             `json:"obra_id"`
	Priority string             `json:"priority"`
	Note     string             `json:"note"`
	Items    []OrderItemRequest `json:"items"`
}

// RejectOrderRequest motivo opcional de rechazo.
type RejectOrderRequest struct {
	Reason string `json:"reason"`
}

// OrderLineView línea de pedido proyectada según el rol. UnitCost, Total y
// StockShort son punteros: quedan fuera del JSON para el rol user.
type OrderLineView struct {
	MaterialID string           `json:"material_id"`
	Name       string           `json:"name"`
	Unit       string           `json:"unit"`
	Quantity   decimal.Decimal  `json:"quantity"`
	UnitCost   *decimal.Decimal `json:"unit_cost,omitempty"`
	Total      *decimal.Decimal `json:"total,omitempty"`
	StockShort *bool            `json:"stock_short,omitempty"`
	Note       string           `json:"note,omitempty"`
}

// OrderView pedido proyectado según el rol del actor. Subtotal solo para
// roles con visibilidad financiera.
type OrderView struct {
	ID              string           `json:"id"`
	Code            string           `json:"code"`
	ObraID          string           `json:"obra_id"`
	ObraName        string           `json:"obra_name"`
	RequesterID     string           `json:"requester_id"`
	RequesterName   string           `json:"requester_name"`
	Priority        string           `json:"priority"`
	Status          string           `json:"status"`
	Lines           []OrderLineView  `json:"lines"`
	Subtotal        *decimal.Decimal `json:"subtotal,omitempty"`
	Note            string           `json:"note,omitempty"`
	RejectionReason string           `json:"rejection_reason,omitempty"`
	CreatedAt       time.Time        `json:"created_at"`
	UpdatedAt       time.Time        `json:"updated_at"`
}

// OrderListResponse listado paginado de pedidos proyectados.
type OrderListResponse struct {
	Items []*OrderView `json:"items"`
	Page  PageResponse `json:"page"`
}
