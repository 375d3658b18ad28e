package orders

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/construtech/obras-api/internal/application/dto"
	"github.com/construtech/obras-api/internal/application/policy"
	"github.com/construtech/obras-api/internal/domain"
	"github.com/construtech/obras-api/internal/domain/entity"
	"github.com/construtech/obras-api/internal/domain/ordercode"
	"github.com/construtech/obras-api/internal/domain/repository"
)

// Lifecycle es el dueño de la máquina de estados del pedido
// (PENDING -> APPROVED|REJECTED, APPROVED -> COMPLETED) y de la
// transacción de ajuste de stock que dispara la aprobación.
type Lifecycle struct {
	txRunner     TxRunner
	orderRepo    repository.OrderRepository
	obraRepo     repository.ObraRepository
	materialRepo repository.MaterialRepository
	builder      *Builder
}

// NewLifecycle construye el caso de uso del ciclo de vida de pedidos.
func NewLifecycle(
	txRunner TxRunner,
	orderRepo repository.OrderRepository,
	obraRepo repository.ObraRepository,
	materialRepo repository.MaterialRepository,
) *Lifecycle {
	return &Lifecycle{
		txRunner:     txRunner,
		orderRepo:    orderRepo,
		obraRepo:     obraRepo,
		materialRepo: materialRepo,
		builder:      NewBuilder(materialRepo),
	}
}

func validPriority(p string) bool {
	switch p {
	case entity.PriorityLow, entity.PriorityMedium, entity.PriorityHigh:
		return true
	}
	return false
}

// Submit arma el pedido desde la petición, lo sella con ID, código visible
// y estado PENDING, y lo persiste. Requiere al menos una línea y una obra
// existente; un solicitante solo puede pedir para su obra asignada.
func (l *Lifecycle) Submit(ctx context.Context, actor entity.Actor, in dto.CreateOrderRequest) (*entity.Order, error) {
	if len(in.Items) == 0 {
		return nil, domain.ErrEmptyOrder
	}
	if in.Priority != "" && !validPriority(in.Priority) {
		return nil, domain.ErrInvalidInput
	}
	obra, err := l.obraRepo.GetByID(in.ObraID)
	if err != nil {
		return nil, err
	}
	if obra == nil {
		return nil, domain.ErrInvalidSite
	}
	if !actor.IsAdmin() && actor.ObraID != obra.ID {
		return nil, domain.ErrUnauthorized
	}

	order := l.builder.NewDraft(actor, obra.ID, in.Priority, in.Note)
	order.ObraName = obra.Name
	for _, item := range in.Items {
		if err := l.builder.AddLine(order, item.MaterialID, item.Quantity, item.Note); err != nil {
			return nil, err
		}
	}

	now := time.Now()
	order.ID = uuid.New().String()
	order.Code = ordercode.Generate(now)
	order.Status = entity.OrderPending
	order.CreatedAt = now
	order.UpdatedAt = now

	// Cabecera y líneas se persisten como unidad.
	err = l.txRunner.Run(ctx, func(
		orderRepo repository.OrderRepository,
		_ repository.MaterialRepository,
	) error {
		return orderRepo.Create(order)
	})
	if err != nil {
		return nil, err
	}
	return order, nil
}

// Approve aprueba un pedido PENDING: dentro de una sola transacción
// descuenta el stock de cada línea con un decremento condicional
// (quantity >= pedido, si no ErrInsufficientStock y rollback total) y
// transiciona el estado con guard optimista sobre PENDING. Dos aprobaciones
// concurrentes que comparten un material nunca pueden sobregirar el stock.
func (l *Lifecycle) Approve(ctx context.Context, actor entity.Actor, orderID string) error {
	if !policy.ForRole(actor.Role).ApproveOrders {
		return domain.ErrUnauthorized
	}
	now := time.Now()
	return l.txRunner.Run(ctx, func(
		orderRepo repository.OrderRepository,
		materialRepo repository.MaterialRepository,
	) error {
		order, err := orderRepo.GetByID(orderID)
		if err != nil {
			return err
		}
		if order == nil {
			return domain.ErrNotFound
		}
		if order.Status != entity.OrderPending {
			return domain.ErrInvalidTransition
		}
		for _, line := range order.Lines {
			ok, err := materialRepo.DecrementIfAvailable(line.MaterialID, line.Quantity)
			if err != nil {
				return err
			}
			if !ok {
				// El rollback de la tx deshace los decrementos anteriores:
				// ninguna cantidad queda parcialmente aplicada.
				return domain.ErrInsufficientStock
			}
		}
		ok, err := orderRepo.UpdateStatusIf(orderID, entity.OrderPending, entity.OrderApproved, "", now)
		if err != nil {
			return err
		}
		if !ok {
			return domain.ErrConcurrentModification
		}
		return nil
	})
}

// Reject rechaza un pedido PENDING sin efecto sobre el stock.
func (l *Lifecycle) Reject(ctx context.Context, actor entity.Actor, orderID, reason string) error {
	if !policy.ForRole(actor.Role).ApproveOrders {
		return domain.ErrUnauthorized
	}
	return l.transition(orderID, entity.OrderPending, entity.OrderRejected, reason)
}

// Complete marca la entrega de un pedido APPROVED; el stock ya fue
// descontado en la aprobación. Lo invoca el disparador externo de entrega.
func (l *Lifecycle) Complete(ctx context.Context, actor entity.Actor, orderID string) error {
	if !policy.ForRole(actor.Role).ApproveOrders {
		return domain.ErrUnauthorized
	}
	return l.transition(orderID, entity.OrderApproved, entity.OrderCompleted, "")
}

// transition aplica una transición con guard optimista: si el estado actual
// no es el esperado la transición es inválida; si el CAS falla, otro actor
// la ganó en el medio.
func (l *Lifecycle) transition(orderID, expected, next, reason string) error {
	order, err := l.orderRepo.GetByID(orderID)
	if err != nil {
		return err
	}
	if order == nil {
		return domain.ErrNotFound
	}
	if order.Status != expected {
		return domain.ErrInvalidTransition
	}
	ok, err := l.orderRepo.UpdateStatusIf(orderID, expected, next, reason, time.Now())
	if err != nil {
		return err
	}
	if !ok {
		return domain.ErrConcurrentModification
	}
	return nil
}

// Get devuelve el pedido proyectado según el rol del actor.
func (l *Lifecycle) Get(actor entity.Actor, orderID string) (*dto.OrderView, error) {
	order, err := l.orderRepo.GetByID(orderID)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, domain.ErrNotFound
	}
	return policy.ProjectOrder(actor, order)
}

// List devuelve los pedidos observables por el actor: todos para admin,
// solo los propios para un solicitante. Para admin, obraID no vacío
// restringe el listado a los pedidos de esa obra; para un solicitante el
// filtro se ignora (solo ve lo propio).
func (l *Lifecycle) List(actor entity.Actor, obraID string, limit, offset int) ([]*dto.OrderView, error) {
	var (
		found []*entity.Order
		err   error
	)
	switch {
	case !policy.ForRole(actor.Role).ViewAllOrders:
		found, err = l.orderRepo.ListByRequester(actor.ID, limit, offset)
	case obraID != "":
		found, err = l.orderRepo.ListByObra(obraID, limit, offset)
	default:
		found, err = l.orderRepo.List(limit, offset)
	}
	if err != nil {
		return nil, err
	}
	return policy.FilterOrders(actor, found), nil
}
