package repository

import "github.com/construtech/obras-api/internal/domain/entity"

// ObraRepository define el puerto de persistencia para Obra (DIP).
// No hay Update: dirección y presupuesto son inmutables tras la creación.
type ObraRepository interface {
	Create(obra *entity.Obra) error
	GetByID(id string) (*entity.Obra, error)
	List(limit, offset int) ([]*entity.Obra, error)
}
