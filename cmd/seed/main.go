// seed carga datos de demostración: dos obras, un catálogo inicial de
// materiales, proveedores y los usuarios admin/solicitante.
//
// Uso: go run ./cmd/seed
// Idempotencia best effort: los duplicados (código interno, CNPJ, email)
// se reportan y se saltan.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"

	"github.com/construtech/obras-api/internal/domain"
	"github.com/construtech/obras-api/internal/domain/entity"
	"github.com/construtech/obras-api/internal/infrastructure/postgres"
	"github.com/construtech/obras-api/pkg/config"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "cargar configuración: %v\n", err)
		os.Exit(1)
	}

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		fmt.Fprintf(os.Stderr, "conexión a PostgreSQL: %v\n", err)
		os.Exit(1)
	}
	defer pool.Close()

	obraRepo := postgres.NewObraRepository(pool)
	materialRepo := postgres.NewMaterialRepository(pool)
	supplierRepo := postgres.NewSupplierRepository(pool)
	userRepo := postgres.NewUserRepository(pool)

	now := time.Now()

	obras := []*entity.Obra{
		{
			ID:        uuid.New().String(),
			Name:      "Residencial Jardim das Flores",
			Address:   "Rua das Acácias 120, São Paulo",
			Budget:    decimal.RequireFromString("2500000"),
			CreatedAt: now,
			UpdatedAt: now,
		},
		{
			ID:        uuid.New().String(),
			Name:      "Edifício Comercial Centro",
			Address:   "Av. Paulista 900, São Paulo",
			Budget:    decimal.RequireFromString("5400000"),
			CreatedAt: now,
			UpdatedAt: now,
		},
	}
	for _, o := range obras {
		if err := obraRepo.Create(o); err != nil {
			report("obra", o.Name, err)
		} else {
			fmt.Printf("obra creada: %s (%s)\n", o.Name, o.ID)
		}
	}

	suppliers := []*entity.Supplier{
		{
			ID:              uuid.New().String(),
			CompanyName:     "Votorantim Cimentos S.A.",
			TradeName:       "Votorantim",
			CNPJ:            "01.637.895/0001-32",
			Phone:           "+55 11 4572-4000",
			Email:           "vendas@vcimentos.com.br",
			City:            "São Paulo",
			State:           "SP",
			Categories:      []string{"cimento", "argamassa"},
			AvgDeliveryDays: 3,
			PaymentTerms:    "30 dias",
			Status:          entity.StatusActive,
			CreatedAt:       now,
			UpdatedAt:       now,
		},
		{
			ID:              uuid.New().String(),
			CompanyName:     "Gerdau Aços Longos S.A.",
			TradeName:       "Gerdau",
			CNPJ:            "07.358.761/0001-69",
			Phone:           "+55 51 3323-2000",
			Email:           "comercial@gerdau.com.br",
			City:            "Porto Alegre",
			State:           "RS",
			Categories:      []string{"aco", "vergalhao"},
			AvgDeliveryDays: 7,
			PaymentTerms:    "45 dias",
			Status:          entity.StatusActive,
			CreatedAt:       now,
			UpdatedAt:       now,
		},
	}
	for _, s := range suppliers {
		if err := supplierRepo.Create(s); err != nil {
			report("proveedor", s.CompanyName, err)
		} else {
			fmt.Printf("proveedor creado: %s (%s)\n", s.CompanyName, s.ID)
		}
	}

	materials := []*entity.Material{
		{
			Name:         "Cimento Portland CP-II 50kg",
			InternalCode: "MAT-0001",
			Category:     "cimento",
			Unit:         "saco",
			Quantity:     decimal.RequireFromString("200"),
			MinStock:     decimal.RequireFromString("40"),
			Location:     "Galpão A / Prateleira 1",
			UnitCost:     decimal.RequireFromString("32.90"),
			SupplierID:   suppliers[0].ID,
		},
		{
			Name:         "Vergalhão CA-50 10mm",
			InternalCode: "MAT-0002",
			Category:     "aco",
			Unit:         "barra",
			Quantity:     decimal.RequireFromString("500"),
			MinStock:     decimal.RequireFromString("80"),
			Location:     "Pátio externo",
			UnitCost:     decimal.RequireFromString("45.50"),
			SupplierID:   suppliers[1].ID,
		},
		{
			Name:         "Concreto Usinado FCK 25",
			InternalCode: "MAT-0003",
			Category:     "concreto",
			Unit:         "m3",
			Quantity:     decimal.RequireFromString("60"),
			MinStock:     decimal.RequireFromString("10"),
			UnitCost:     decimal.RequireFromString("380.00"),
		},
		{
			Name:         "Areia Média Lavada",
			InternalCode: "MAT-0004",
			Category:     "agregado",
			Unit:         "m3",
			Quantity:     decimal.RequireFromString("120"),
			MinStock:     decimal.RequireFromString("20"),
			UnitCost:     decimal.RequireFromString("95.00"),
		},
	}
	for _, m := range materials {
		m.ID = uuid.New().String()
		m.Status = entity.StatusActive
		m.CreatedAt = now
		m.UpdatedAt = now
		if err := materialRepo.Create(m); err != nil {
			report("material", m.Name, err)
		} else {
			fmt.Printf("material creado: %s (%s)\n", m.Name, m.ID)
		}
	}

	users := []struct {
		name, email, password, role, obraID string
	}{
		{"Administrador", "admin@construtech.com.br", "admin12345", entity.RoleAdmin, ""},
		{"João Solicitante", "joao@construtech.com.br", "joao12345", entity.RoleUser, obras[0].ID},
	}
	for _, u := range users {
		hash, err := bcrypt.GenerateFromPassword([]byte(u.password), bcrypt.DefaultCost)
		if err != nil {
			fmt.Fprintf(os.Stderr, "hash de contraseña: %v\n", err)
			os.Exit(1)
		}
		user := &entity.User{
			ID:           uuid.New().String(),
			Name:         u.name,
			Email:        u.email,
			PasswordHash: string(hash),
			Role:         u.role,
			ObraID:       u.obraID,
			Status:       entity.UserActive,
			CreatedAt:    now,
			UpdatedAt:    now,
		}
		if err := userRepo.Create(user); err != nil {
			report("usuario", u.email, err)
		} else {
			fmt.Printf("usuario creado: %s (%s)\n", u.email, u.role)
		}
	}

	fmt.Println("seed completado")
}

func report(kind, name string, err error) {
	if errors.Is(err, domain.ErrDuplicate) || errors.Is(err, domain.ErrEmailAlreadyExists) {
		fmt.Printf("%s ya existe, se salta: %s\n", kind, name)
		return
	}
	fmt.Fprintf(os.Stderr, "crear %s %s: %v\n", kind, name, err)
	os.Exit(1)
}
