package domain

import "errors"

// Errores de dominio (sin dependencias externas).
// Todos son resultados recuperables que el caller decide cómo manejar;
// cualquier error dentro de una transacción multi-paso provoca rollback completo.
var (
	ErrNotFound          = errors.New("recurso no encontrado")
	ErrUserNotFound      = errors.New("usuario no encontrado")
	ErrUsernameTaken     = errors.New("el nombre de usuario ya está registrado")
	ErrInvalidInput      = errors.New("entrada inválida")
	ErrDuplicate         = errors.New("recurso duplicado")
	ErrUnauthorized      = errors.New("no autorizado")
	ErrForbidden         = errors.New("acceso denegado")
	ErrInsufficientStock = errors.New("stock insuficiente")
	ErrInconsistentStock = errors.New("inventario inconsistente: reservado excede lo registrado")
	ErrInvalidTransition = errors.New("transición de estado de pedido inválida")
	ErrTransactionFailed = errors.New("la transacción no pudo completarse")
)
