package orders

import (
	"github.com/shopspring/decimal"

	"github.com/construtech/obras-api/internal/domain"
	"github.com/construtech/obras-api/internal/domain/entity"
	"github.com/construtech/obras-api/internal/domain/repository"
)

// Builder arma borradores de pedido contra el catálogo: agrega y quita
// líneas con snapshot de nombre/unidad/costo y recalcula el subtotal en
// cada mutación. La suficiencia de stock al armar es solo informativa
// (StockAtAdd en la línea); el chequeo vinculante ocurre en la aprobación.
type Builder struct {
	materialRepo repository.MaterialRepository
}

// NewBuilder construye el armador de pedidos.
func NewBuilder(materialRepo repository.MaterialRepository) *Builder {
	return &Builder{materialRepo: materialRepo}
}

// NewDraft crea un borrador de pedido para el actor. El borrador aún no
// tiene estado: lo recibe al enviarse (Submit).
func (b *Builder) NewDraft(actor entity.Actor, obraID, priority, note string) *entity.Order {
	if priority == "" {
		priority = entity.PriorityLow
	}
	return &entity.Order{
		ObraID:        obraID,
		RequesterID:   actor.ID,
		RequesterName: actor.Name,
		Priority:      priority,
		Note:          note,
	}
}

// AddLine agrega una línea al borrador, o actualiza la existente si el
// material ya estaba en el pedido. El costo unitario se congela al momento
// de agregar: cambios de precio posteriores en el catálogo no alteran el
// pedido.
func (b *Builder) AddLine(order *entity.Order, materialID string, qty decimal.Decimal, note string) error {
	if !qty.GreaterThan(decimal.Zero) {
		return domain.ErrInvalidQuantity
	}
	material, err := b.materialRepo.GetByID(materialID)
	if err != nil {
		return err
	}
	if material == nil || !material.Active() {
		return domain.ErrUnknownMaterial
	}

	line := entity.OrderLine{
		MaterialID: material.ID,
		Name:       material.Name,
		Unit:       material.Unit,
		Quantity:   qty,
		UnitCost:   material.UnitCost,
		Total:      qty.Mul(material.UnitCost),
		StockAtAdd: material.Quantity,
		Note:       note,
	}
	if i := order.LineIndex(material.ID); i >= 0 {
		order.Lines[i] = line
	} else {
		order.Lines = append(order.Lines, line)
	}
	return nil
}

// RemoveLine quita la línea en la posición dada.
func (b *Builder) RemoveLine(order *entity.Order, index int) error {
	if index < 0 || index >= len(order.Lines) {
		return domain.ErrInvalidInput
	}
	order.Lines = append(order.Lines[:index], order.Lines[index+1:]...)
	return nil
}
