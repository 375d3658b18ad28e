package auth_test

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/construtech/obras-api/internal/application/auth"
	"github.com/construtech/obras-api/internal/application/dto"
	"github.com/construtech/obras-api/internal/domain"
	"github.com/construtech/obras-api/internal/domain/entity"
	"github.com/construtech/obras-api/internal/infrastructure/memory"
)

func newAuthUC(t *testing.T) (*auth.UseCase, *memory.UserRepo) {
	t.Helper()
	store := memory.NewStore()
	userRepo := memory.NewUserRepository(store)
	obraRepo := memory.NewObraRepository(store)
	now := time.Now()
	require.NoError(t, obraRepo.Create(&entity.Obra{
		ID:        "obra-1",
		Name:      "Residencial Teste",
		Budget:    decimal.RequireFromString("1000"),
		CreatedAt: now,
		UpdatedAt: now,
	}))
	uc := auth.NewUseCase(userRepo, obraRepo, auth.JWTConfig{
		Secret:     "secret-de-test",
		ExpMinutes: 60,
		Issuer:     "obras-api-test",
	})
	return uc, userRepo
}

func adminActor() entity.Actor { return entity.Actor{ID: "adm-1", Role: entity.RoleAdmin} }

func register(t *testing.T, uc *auth.UseCase, email, password, role, obraID string) *dto.UserResponse {
	t.Helper()
	out, err := uc.RegisterUser(adminActor(), dto.RegisterRequest{
		Name:     "Usuario de Test",
		Email:    email,
		Password: password,
		Role:     role,
		ObraID:   obraID,
	})
	require.NoError(t, err)
	return out
}

func TestRegisterUser_SoloAdmin(t *testing.T) {
	uc, _ := newAuthUC(t)
	_, err := uc.RegisterUser(entity.Actor{ID: "u-1", Role: entity.RoleUser}, dto.RegisterRequest{
		Email: "x@test.com", Password: "password123",
	})
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}

func TestRegisterUser_EmailDuplicado(t *testing.T) {
	uc, _ := newAuthUC(t)
	register(t, uc, "joao@test.com", "password123", entity.RoleUser, "obra-1")

	_, err := uc.RegisterUser(adminActor(), dto.RegisterRequest{
		Email: "joao@test.com", Password: "password123",
	})
	assert.ErrorIs(t, err, domain.ErrEmailAlreadyExists)
}

func TestRegisterUser_ObraInexistente(t *testing.T) {
	uc, _ := newAuthUC(t)
	_, err := uc.RegisterUser(adminActor(), dto.RegisterRequest{
		Email: "x@test.com", Password: "password123", ObraID: "obra-fantasma",
	})
	assert.ErrorIs(t, err, domain.ErrInvalidSite)
}

func TestRegisterUser_RolInvalido(t *testing.T) {
	uc, _ := newAuthUC(t)
	_, err := uc.RegisterUser(adminActor(), dto.RegisterRequest{
		Email: "x@test.com", Password: "password123", Role: "gerente",
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestRegisterUser_NuncaExponeElHash(t *testing.T) {
	uc, repo := newAuthUC(t)
	out := register(t, uc, "joao@test.com", "password123", entity.RoleUser, "obra-1")

	stored, err := repo.GetByID(out.ID)
	require.NoError(t, err)
	require.NotNil(t, stored)
	assert.NotEqual(t, "password123", stored.PasswordHash, "la contraseña nunca se guarda en plano")
	assert.NotEmpty(t, stored.PasswordHash)
}

func TestLogin_EmiteTokenConClaimsDelActor(t *testing.T) {
	uc, _ := newAuthUC(t)
	register(t, uc, "joao@test.com", "password123", entity.RoleUser, "obra-1")

	out, err := uc.Login(dto.LoginRequest{Email: "joao@test.com", Password: "password123"})
	require.NoError(t, err)
	assert.NotEmpty(t, out.Token)
	assert.Equal(t, "joao@test.com", out.User.Email)
	assert.Equal(t, entity.RoleUser, out.User.Role)
	assert.Equal(t, "obra-1", out.User.ObraID)
}

func TestLogin_CredencialesInvalidas(t *testing.T) {
	uc, _ := newAuthUC(t)
	register(t, uc, "joao@test.com", "password123", entity.RoleUser, "obra-1")

	_, err := uc.Login(dto.LoginRequest{Email: "joao@test.com", Password: "equivocada"})
	assert.ErrorIs(t, err, domain.ErrUnauthorized)

	_, err = uc.Login(dto.LoginRequest{Email: "nadie@test.com", Password: "password123"})
	assert.ErrorIs(t, err, domain.ErrUserNotFound)
}

func TestLogin_CuentaInactiva(t *testing.T) {
	uc, repo := newAuthUC(t)
	out := register(t, uc, "joao@test.com", "password123", entity.RoleUser, "obra-1")
	require.NoError(t, repo.UpdateStatus(out.ID, entity.UserInactive))

	_, err := uc.Login(dto.LoginRequest{Email: "joao@test.com", Password: "password123"})
	assert.ErrorIs(t, err, domain.ErrForbidden)
}
