package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/construtech/obras-api/internal/domain"
	"github.com/construtech/obras-api/internal/domain/entity"
	"github.com/construtech/obras-api/internal/domain/repository"
)

var _ repository.OrderRepository = (*OrderRepo)(nil)

// OrderRepo implementación del puerto OrderRepository sobre PostgreSQL
// (usable con pool o tx). Las líneas viven en order_items y se guardan con
// los snapshots de nombre/unidad/costo tomados al armar el pedido.
type OrderRepo struct {
	q Querier
}

// NewOrderRepository construye el adaptador. Pasar pool o tx (Querier).
func NewOrderRepository(q Querier) *OrderRepo {
	return &OrderRepo{q: q}
}

const orderColumns = `id, code, obra_id, obra_name, requester_id, requester_name, priority, status, subtotal, note, rejection_reason, created_at, updated_at`

// Create persiste cabecera y líneas. Para que la escritura sea atómica
// debe invocarse con un Querier atado a una tx (ver TxRunner).
func (r *OrderRepo) Create(order *entity.Order) error {
	ctx := context.Background()
	query := `
		INSERT INTO orders (` + orderColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`
	_, err := r.q.Exec(ctx, query,
		order.ID, order.Code, order.ObraID, order.ObraName,
		order.RequesterID, order.RequesterName, order.Priority, order.Status,
		order.Subtotal(), order.Note, order.RejectionReason,
		order.CreatedAt, order.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert order: %w", err)
	}
	lineQuery := `
		INSERT INTO order_items (order_id, position, material_id, name, unit, quantity, unit_cost, total, stock_at_add, note)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`
	for i, l := range order.Lines {
		_, err := r.q.Exec(ctx, lineQuery,
			order.ID, i, l.MaterialID, l.Name, l.Unit,
			l.Quantity, l.UnitCost, l.Total, l.StockAtAdd, l.Note,
		)
		if err != nil {
			return fmt.Errorf("insert order item: %w", err)
		}
	}
	return nil
}

// GetByID obtiene un pedido con sus líneas.
func (r *OrderRepo) GetByID(id string) (*entity.Order, error) {
	ctx := context.Background()
	query := `SELECT ` + orderColumns + ` FROM orders WHERE id = $1`
	o, err := scanOrder(r.q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get order: %w", err)
	}
	linesByOrder, err := r.loadLines(ctx, []string{o.ID})
	if err != nil {
		return nil, err
	}
	o.Lines = linesByOrder[o.ID]
	return o, nil
}

// List lista pedidos, más recientes primero.
func (r *OrderRepo) List(limit, offset int) ([]*entity.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders ORDER BY created_at DESC LIMIT $1 OFFSET $2`
	return r.list(query, limit, offset)
}

// ListByRequester lista los pedidos de un solicitante.
func (r *OrderRepo) ListByRequester(requesterID string, limit, offset int) ([]*entity.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders WHERE requester_id = $3 ORDER BY created_at DESC LIMIT $1 OFFSET $2`
	return r.list(query, limit, offset, requesterID)
}

// ListByObra lista los pedidos de una obra.
func (r *OrderRepo) ListByObra(obraID string, limit, offset int) ([]*entity.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders WHERE obra_id = $3 ORDER BY created_at DESC LIMIT $1 OFFSET $2`
	return r.list(query, limit, offset, obraID)
}

// UpdateStatusIf transiciona el estado con guard optimista: el UPDATE solo
// aplica si el registro sigue en el estado esperado. Cero filas afectadas
// significa que otra operación ganó la carrera.
func (r *OrderRepo) UpdateStatusIf(id, expected, next, reason string, at time.Time) (bool, error) {
	query := `
		UPDATE orders
		SET status = $3,
		    rejection_reason = CASE WHEN $4 <> '' THEN $4 ELSE rejection_reason END,
		    updated_at = $5
		WHERE id = $1 AND status = $2`
	cmd, err := r.q.Exec(context.Background(), query, id, expected, next, reason, at)
	if err != nil {
		return false, fmt.Errorf("update order status: %w", err)
	}
	return cmd.RowsAffected() > 0, nil
}

func scanOrder(row pgx.Row) (*entity.Order, error) {
	var o entity.Order
	var subtotal any // persistido para reportes; el dominio lo recalcula de las líneas
	err := row.Scan(
		&o.ID, &o.Code, &o.ObraID, &o.ObraName, &o.RequesterID, &o.RequesterName,
		&o.Priority, &o.Status, &subtotal, &o.Note, &o.RejectionReason,
		&o.CreatedAt, &o.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &o, nil
}

func (r *OrderRepo) list(query string, limit, offset int, extra ...any) ([]*entity.Order, error) {
	ctx := context.Background()
	args := append([]any{limit, offset}, extra...)
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	defer rows.Close()

	var out []*entity.Order
	var ids []string
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, fmt.Errorf("scan order: %w", err)
		}
		out = append(out, o)
		ids = append(ids, o.ID)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return out, nil
	}
	linesByOrder, err := r.loadLines(ctx, ids)
	if err != nil {
		return nil, err
	}
	for _, o := range out {
		o.Lines = linesByOrder[o.ID]
	}
	return out, nil
}

func (r *OrderRepo) loadLines(ctx context.Context, orderIDs []string) (map[string][]entity.OrderLine, error) {
	query := `
		SELECT order_id, material_id, name, unit, quantity, unit_cost, total, stock_at_add, note
		FROM order_items
		WHERE order_id = ANY($1)
		ORDER BY order_id, position`
	rows, err := r.q.Query(ctx, query, orderIDs)
	if err != nil {
		return nil, fmt.Errorf("list order items: %w", err)
	}
	defer rows.Close()

	byOrder := make(map[string][]entity.OrderLine)
	for rows.Next() {
		var orderID string
		var l entity.OrderLine
		err := rows.Scan(&orderID, &l.MaterialID, &l.Name, &l.Unit,
			&l.Quantity, &l.UnitCost, &l.Total, &l.StockAtAdd, &l.Note)
		if err != nil {
			return nil, fmt.Errorf("scan order item: %w", err)
		}
		byOrder[orderID] = append(byOrder[orderID], l)
	}
	return byOrder, rows.Err()
}
