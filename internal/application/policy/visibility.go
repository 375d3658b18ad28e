// Package policy implementa la política de visibilidad por rol: qué campos
// de pedidos y materiales puede observar cada actor y qué operaciones puede
// disparar. Es una proyección pura: nunca muta las entidades subyacentes.
// Roles nuevos se agregan extendiendo la tabla de capacidades, sin tocar el
// ciclo de vida de los pedidos.
package policy

import (
	"github.com/construtech/obras-api/internal/application/dto"
	"github.com/construtech/obras-api/internal/domain"
	"github.com/construtech/obras-api/internal/domain/entity"
)

// Capabilities define qué puede hacer y ver un rol.
type Capabilities struct {
	ApproveOrders  bool // transicionar pedidos fuera de PENDING
	EditMaterials  bool // crear/editar catálogo y reponer stock
	ViewFinancials bool // costos unitarios, totales, subtotales, presupuestos
	ViewAllOrders  bool // pedidos de todos los solicitantes
}

var capabilitiesByRole = map[string]Capabilities{
	entity.RoleAdmin: {
		ApproveOrders:  true,
		EditMaterials:  true,
		ViewFinancials: true,
		ViewAllOrders:  true,
	},
	entity.RoleUser: {},
}

// ForRole devuelve las capacidades del rol. Rol desconocido: sin capacidades.
func ForRole(role string) Capabilities {
	return capabilitiesByRole[role]
}

// CanView indica si el actor puede observar el pedido: admin ve todo, un
// solicitante solo sus propios pedidos.
func CanView(actor entity.Actor, order *entity.Order) bool {
	if ForRole(actor.Role).ViewAllOrders {
		return true
	}
	return order.RequesterID == actor.ID
}

// ProjectOrder produce la vista del pedido para el actor. Para el rol user
// se omiten costo unitario, total de línea, subtotal y la señal de stock
// corto; la observación de línea es visible para ambos roles.
func ProjectOrder(actor entity.Actor, order *entity.Order) (*dto.OrderView, error) {
	if !CanView(actor, order) {
		return nil, domain.ErrUnauthorized
	}
	caps := ForRole(actor.Role)

	view := &dto.OrderView{
		ID:              order.ID,
		Code:            order.Code,
		ObraID:          order.ObraID,
		ObraName:        order.ObraName,
		RequesterID:     order.RequesterID,
		RequesterName:   order.RequesterName,
		Priority:        order.Priority,
		Status:          order.Status,
		Note:            order.Note,
		RejectionReason: order.RejectionReason,
		CreatedAt:       order.CreatedAt,
		UpdatedAt:       order.UpdatedAt,
	}

	view.Lines = make([]dto.OrderLineView, 0, len(order.Lines))
	for _, l := range order.Lines {
		lv := dto.OrderLineView{
			MaterialID: l.MaterialID,
			Name:       l.Name,
			Unit:       l.Unit,
			Quantity:   l.Quantity,
			Note:       l.Note,
		}
		if caps.ViewFinancials {
			unitCost := l.UnitCost
			total := l.Total
			short := l.Quantity.GreaterThan(l.StockAtAdd)
			lv.UnitCost = &unitCost
			lv.Total = &total
			lv.StockShort = &short
		}
		view.Lines = append(view.Lines, lv)
	}

	if caps.ViewFinancials {
		subtotal := order.Subtotal()
		view.Subtotal = &subtotal
	}
	return view, nil
}

// FilterOrders proyecta los pedidos observables por el actor, descartando
// en silencio los que no puede ver.
func FilterOrders(actor entity.Actor, orders []*entity.Order) []*dto.OrderView {
	views := make([]*dto.OrderView, 0, len(orders))
	for _, o := range orders {
		if !CanView(actor, o) {
			continue
		}
		v, err := ProjectOrder(actor, o)
		if err != nil {
			continue
		}
		views = append(views, v)
	}
	return views
}

// ProjectMaterial produce la vista del material para el actor: costo
// unitario y alerta de stock mínimo solo con visibilidad financiera.
func ProjectMaterial(actor entity.Actor, m *entity.Material) *dto.MaterialResponse {
	caps := ForRole(actor.Role)
	resp := &dto.MaterialResponse{
		ID:           m.ID,
		Name:         m.Name,
		InternalCode: m.InternalCode,
		Category:     m.Category,
		Unit:         m.Unit,
		Quantity:     m.Quantity,
		MinStock:     m.MinStock,
		Location:     m.Location,
		SupplierID:   m.SupplierID,
		Status:       m.Status,
		CreatedAt:    m.CreatedAt,
		UpdatedAt:    m.UpdatedAt,
	}
	if caps.ViewFinancials {
		unitCost := m.UnitCost
		low := m.LowStock()
		resp.UnitCost = &unitCost
		resp.LowStock = &low
	}
	return resp
}

// ProjectObra produce la vista de la obra: presupuesto solo con
// visibilidad financiera.
func ProjectObra(actor entity.Actor, o *entity.Obra) *dto.ObraResponse {
	resp := &dto.ObraResponse{
		ID:        o.ID,
		Name:      o.Name,
		Address:   o.Address,
		CreatedAt: o.CreatedAt,
	}
	if ForRole(actor.Role).ViewFinancials {
		budget := o.Budget
		resp.Budget = &budget
	}
	return resp
}
