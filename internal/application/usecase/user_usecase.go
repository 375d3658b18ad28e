package usecase

import (
	"github.com/construtech/obras-api/internal/application/dto"
	"github.com/construtech/obras-api/internal/domain"
	"github.com/construtech/obras-api/internal/domain/entity"
	"github.com/construtech/obras-api/internal/domain/repository"
)

// UserUseCase administración de usuarios (listar, activar/desactivar).
// El alta vive en auth.UseCase porque hashea credenciales.
type UserUseCase struct {
	repo repository.UserRepository
}

// NewUserUseCase construye el caso de uso.
func NewUserUseCase(repo repository.UserRepository) *UserUseCase {
	return &UserUseCase{repo: repo}
}

// List lista usuarios (solo admin).
func (uc *UserUseCase) List(actor entity.Actor, limit, offset int) (*dto.UserListResponse, error) {
	if !actor.IsAdmin() {
		return nil, domain.ErrUnauthorized
	}
	users, err := uc.repo.List(limit, offset)
	if err != nil {
		return nil, err
	}
	items := make([]*dto.UserResponse, 0, len(users))
	for _, u := range users {
		items = append(items, ToUserResponse(u))
	}
	return &dto.UserListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: limit, Offset: offset, Total: len(items)},
	}, nil
}

// UpdateStatus activa o desactiva un usuario (solo admin).
func (uc *UserUseCase) UpdateStatus(actor entity.Actor, id, status string) error {
	if !actor.IsAdmin() {
		return domain.ErrUnauthorized
	}
	if status != entity.UserActive && status != entity.UserInactive {
		return domain.ErrInvalidInput
	}
	user, err := uc.repo.GetByID(id)
	if err != nil {
		return err
	}
	if user == nil {
		return domain.ErrUserNotFound
	}
	return uc.repo.UpdateStatus(id, status)
}

// ToUserResponse mapea la entidad al DTO de respuesta (sin hash).
func ToUserResponse(u *entity.User) *dto.UserResponse {
	if u == nil {
		return nil
	}
	return &dto.UserResponse{
		ID:        u.ID,
		Name:      u.Name,
		Email:     u.Email,
		Role:      u.Role,
		ObraID:    u.ObraID,
		Status:    u.Status,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}
