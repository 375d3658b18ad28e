package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/construtech/obras-api/internal/application/auth"
	"github.com/construtech/obras-api/internal/application/orders"
	"github.com/construtech/obras-api/internal/application/usecase"
	"github.com/construtech/obras-api/internal/domain/entity"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	AuthUC     *auth.UseCase
	ObraUC     *usecase.ObraUseCase
	MaterialUC *usecase.MaterialUseCase
	SupplierUC *usecase.SupplierUseCase
	UserUC     *usecase.UserUseCase
	Lifecycle  *orders.Lifecycle
	JWTSecret  string
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	adminOnly := RequireRole(entity.RoleAdmin)

	// Auth: login público, registro solo para admin autenticado.
	authGroup := api.Group("/auth")
	authHandler := NewAuthHandler(deps.AuthUC)
	authGroup.Post("/login", authHandler.Login)
	authGroup.Post("/register", AuthMiddleware(deps.JWTSecret), adminOnly, authHandler.Register)

	// Rutas protegidas (requieren Bearer Token)
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret))

	// Obras
	obras := protected.Group("/obras")
	obraHandler := NewObraHandler(deps.ObraUC)
	obras.Post("/", adminOnly, obraHandler.Create)
	obras.Get("/", obraHandler.List)
	obras.Get("/:id", obraHandler.GetByID)

	// Materials
	materials := protected.Group("/materials")
	materialHandler := NewMaterialHandler(deps.MaterialUC)
	materials.Post("/", adminOnly, materialHandler.Create)
	materials.Get("/", materialHandler.List)
	materials.Get("/:id", materialHandler.GetByID)
	materials.Put("/:id", adminOnly, materialHandler.Update)
	materials.Post("/:id/restock", adminOnly, materialHandler.Restock)
	materials.Delete("/:id", adminOnly, materialHandler.Delete)

	// Suppliers
	suppliers := protected.Group("/suppliers")
	supplierHandler := NewSupplierHandler(deps.SupplierUC)
	suppliers.Post("/", adminOnly, supplierHandler.Create)
	suppliers.Get("/", supplierHandler.List)
	suppliers.Get("/:id", supplierHandler.GetByID)
	suppliers.Put("/:id", adminOnly, supplierHandler.Update)

	// Orders: cualquier usuario autenticado envía y consulta los suyos;
	// las transiciones son de admin.
	ordersGroup := protected.Group("/orders")
	orderHandler := NewOrderHandler(deps.Lifecycle)
	ordersGroup.Post("/", orderHandler.Submit)
	ordersGroup.Get("/", orderHandler.List)
	ordersGroup.Get("/:id", orderHandler.GetByID)
	ordersGroup.Post("/:id/approve", adminOnly, orderHandler.Approve)
	ordersGroup.Post("/:id/reject", adminOnly, orderHandler.Reject)
	ordersGroup.Post("/:id/complete", adminOnly, orderHandler.Complete)

	// Users (administración de cuentas)
	users := protected.Group("/users", adminOnly)
	userHandler := NewUserHandler(deps.UserUC)
	users.Get("/", userHandler.List)
	users.Patch("/:id/status", userHandler.UpdateStatus)
}
