package repository

import (
	"time"

	"github.com/medicore/inventario-medico-api/internal/domain/entity"
)

// UserRepository define el puerto de persistencia para User (DIP).
type UserRepository interface {
	GetByID(id string) (*entity.User, error)
	// FindByIdentifier busca por username, email o employee_id (primer match).
	FindByIdentifier(identifier string) (*entity.User, error)
	// FindByRFID busca por código de tarjeta RFID.
	FindByRFID(code string) (*entity.User, error)
	// UpdateLoginState persiste solo los campos de seguimiento de login
	// (intentos fallidos, lock-until, último login). Update de una sola fila.
	UpdateLoginState(userID string, failedAttempts int, lockedUntil, lastLoginAt *time.Time) error
}
