package domain

import "errors"

// Errores de dominio (sin dependencias externas).
// InsufficientStock y ConcurrentModification son recuperables: el caller debe
// re-leer y reintentar. InvalidTransition y Unauthorized son terminales para
// esa petición.
var (
	ErrNotFound               = errors.New("recurso no encontrado")
	ErrDuplicate              = errors.New("recurso duplicado")
	ErrInvalidInput           = errors.New("entrada inválida")
	ErrUnauthorized           = errors.New("el rol no permite esta operación")
	ErrForbidden              = errors.New("acceso denegado")
	ErrUserNotFound           = errors.New("usuario no encontrado")
	ErrEmailAlreadyExists     = errors.New("el email ya está registrado")
	ErrInvalidQuantity        = errors.New("la cantidad debe ser mayor a cero")
	ErrUnknownMaterial        = errors.New("material inexistente o inactivo")
	ErrEmptyOrder             = errors.New("el pedido no tiene ítems")
	ErrInvalidSite            = errors.New("obra inexistente")
	ErrInsufficientStock      = errors.New("stock insuficiente")
	ErrInvalidTransition      = errors.New("transición de estado inválida")
	ErrConcurrentModification = errors.New("el recurso fue modificado por otra operación")
)
