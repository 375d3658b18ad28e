package auth

import (
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/construtech/obras-api/internal/application/dto"
	"github.com/construtech/obras-api/internal/application/usecase"
	"github.com/construtech/obras-api/internal/domain"
	"github.com/construtech/obras-api/internal/domain/entity"
	"github.com/construtech/obras-api/internal/domain/repository"
	"github.com/construtech/obras-api/pkg/jwt"
)

// JWTConfig configuración para generación de tokens.
type JWTConfig struct {
	Secret     string
	ExpMinutes int
	Issuer     string
}

// UseCase casos de uso de autenticación: alta de usuarios y login.
// El core no autentica por su cuenta: confía en el rol del token emitido.
type UseCase struct {
	userRepo repository.UserRepository
	obraRepo repository.ObraRepository
	jwtCfg   JWTConfig
}

// NewUseCase construye el caso de uso de auth.
func NewUseCase(userRepo repository.UserRepository, obraRepo repository.ObraRepository, jwtCfg JWTConfig) *UseCase {
	return &UseCase{userRepo: userRepo, obraRepo: obraRepo, jwtCfg: jwtCfg}
}

// RegisterUser crea un usuario (solo admin): hashea la contraseña con
// bcrypt y persiste. El rol se fija en la creación; si se asigna obra,
// debe existir.
func (uc *UseCase) RegisterUser(actor entity.Actor, in dto.RegisterRequest) (*dto.UserResponse, error) {
	if !actor.IsAdmin() {
		return nil, domain.ErrUnauthorized
	}
	if in.Email == "" || in.Password == "" {
		return nil, domain.ErrInvalidInput
	}
	role := in.Role
	if role == "" {
		role = entity.RoleUser
	}
	if role != entity.RoleAdmin && role != entity.RoleUser {
		return nil, domain.ErrInvalidInput
	}
	existing, err := uc.userRepo.FindByEmail(in.Email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, domain.ErrEmailAlreadyExists
	}
	if in.ObraID != "" {
		obra, err := uc.obraRepo.GetByID(in.ObraID)
		if err != nil {
			return nil, err
		}
		if obra == nil {
			return nil, domain.ErrInvalidSite
		}
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	name := in.Name
	if name == "" {
		name = in.Email
	}
	now := time.Now()
	user := &entity.User{
		ID:           uuid.New().String(),
		Name:         name,
		Email:        in.Email,
		PasswordHash: string(hash),
		Role:         role,
		ObraID:       in.ObraID,
		Status:       entity.UserActive,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := uc.userRepo.Create(user); err != nil {
		return nil, err
	}
	return usecase.ToUserResponse(user), nil
}

// Login verifica email/password, genera el JWT con rol y obra asignada, y
// retorna token + usuario.
func (uc *UseCase) Login(in dto.LoginRequest) (*dto.LoginResponse, error) {
	user, err := uc.userRepo.FindByEmail(in.Email)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, domain.ErrUserNotFound
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(in.Password)); err != nil {
		return nil, domain.ErrUnauthorized
	}
	if user.Status != entity.UserActive {
		return nil, domain.ErrForbidden
	}
	token, err := jwt.Generate(uc.jwtCfg.Secret, user.ID, user.Name, user.Role, user.ObraID, uc.jwtCfg.Issuer, uc.jwtCfg.ExpMinutes)
	if err != nil {
		return nil, err
	}
	return &dto.LoginResponse{
		Token: token,
		User:  *usecase.ToUserResponse(user),
	}, nil
}
