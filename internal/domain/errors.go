package domain

import "errors"

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound          = errors.New("recurso no encontrado")
	ErrInvalidInput      = errors.New("entrada inválida")
	ErrDuplicate         = errors.New("recurso duplicado")
	ErrUnauthorized      = errors.New("no autorizado")
	ErrForbidden         = errors.New("acceso denegado")
	ErrConflict          = errors.New("conflicto con el estado actual")
	ErrInsufficientStock = errors.New("stock insuficiente")
)

// Errores específicos de autenticación. El handler HTTP los colapsa todos en
// un 401 con mensaje genérico para no revelar si el identificador existe.
var (
	ErrInvalidCredentials = errors.New("credenciales inválidas")
	ErrInvalidCard        = errors.New("tarjeta RFID no válida o usuario inactivo")
	ErrAccountInactive    = errors.New("cuenta inactiva")
	ErrAccountLocked      = errors.New("cuenta bloqueada temporalmente")
)
