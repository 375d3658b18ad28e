package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/construtech/obras-api/internal/domain"
	"github.com/construtech/obras-api/internal/domain/entity"
	"github.com/construtech/obras-api/internal/domain/repository"
)

var _ repository.ObraRepository = (*ObraRepo)(nil)

// ObraRepo implementación del puerto ObraRepository sobre PostgreSQL.
type ObraRepo struct {
	q Querier
}

// NewObraRepository construye el adaptador. Pasar pool o tx (Querier).
func NewObraRepository(q Querier) *ObraRepo {
	return &ObraRepo{q: q}
}

// Create persiste una nueva obra.
func (r *ObraRepo) Create(obra *entity.Obra) error {
	query := `
		INSERT INTO obras (id, name, address, budget, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)`
	_, err := r.q.Exec(context.Background(), query,
		obra.ID, obra.Name, obra.Address, obra.Budget, obra.CreatedAt, obra.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert obra: %w", err)
	}
	return nil
}

// GetByID obtiene una obra por ID.
func (r *ObraRepo) GetByID(id string) (*entity.Obra, error) {
	query := `SELECT id, name, address, budget, created_at, updated_at FROM obras WHERE id = $1`
	var o entity.Obra
	err := r.q.QueryRow(context.Background(), query, id).Scan(
		&o.ID, &o.Name, &o.Address, &o.Budget, &o.CreatedAt, &o.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get obra: %w", err)
	}
	return &o, nil
}

// List lista obras ordenadas por nombre.
func (r *ObraRepo) List(limit, offset int) ([]*entity.Obra, error) {
	query := `SELECT id, name, address, budget, created_at, updated_at FROM obras ORDER BY name LIMIT $1 OFFSET $2`
	rows, err := r.q.Query(context.Background(), query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list obras: %w", err)
	}
	defer rows.Close()

	var out []*entity.Obra
	for rows.Next() {
		var o entity.Obra
		err := rows.Scan(&o.ID, &o.Name, &o.Address, &o.Budget, &o.CreatedAt, &o.UpdatedAt)
		if err != nil {
			return nil, fmt.Errorf("scan obra: %w", err)
		}
		out = append(out, &o)
	}
	return out, rows.Err()
}
