package auth

import (
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"github.com/medicore/inventario-medico-api/internal/domain"
	"github.com/medicore/inventario-medico-api/internal/domain/entity"
	"github.com/medicore/inventario-medico-api/internal/domain/repository"
)

// Límites de bloqueo de cuenta por intentos fallidos.
const (
	maxFailedAttempts = 5
	lockDuration      = 15 * time.Minute
)

// AccountGuard valida el estado de la cuenta (activa, no bloqueada, rol
// conocido) y lleva el contador de intentos fallidos con bloqueo automático.
type AccountGuard struct {
	userRepo repository.UserRepository
	log      zerolog.Logger
}

// NewAccountGuard construye el guard.
func NewAccountGuard(userRepo repository.UserRepository, log zerolog.Logger) *AccountGuard {
	return &AccountGuard{userRepo: userRepo, log: log}
}

// ValidateAccountState verifica, en orden: flag activo, bloqueo vigente (si el
// bloqueo ya venció se limpia en memoria), rol conocido. Departamento faltante
// solo genera una advertencia, nunca bloquea.
func (g *AccountGuard) ValidateAccountState(user *entity.User, now time.Time) error {
	if !user.IsActive {
		g.log.Warn().Str("user_id", user.ID).Str("username", user.Username).
			Msg("usuario inactivo intentó acceso")
		return domain.ErrAccountInactive
	}

	if user.AccountLockedUntil != nil {
		if user.IsAccountLocked(now) {
			remaining := user.AccountLockedUntil.Sub(now)
			g.log.Warn().Str("user_id", user.ID).Str("username", user.Username).
				Float64("minutes_remaining", remaining.Minutes()).
				Msg("usuario con cuenta bloqueada intentó acceso")
			return domain.ErrAccountLocked
		}
		// El bloqueo ya venció: se limpia automáticamente.
		user.AccountLockedUntil = nil
		g.log.Info().Str("user_id", user.ID).Str("username", user.Username).
			Msg("cuenta desbloqueada automáticamente")
	}

	if !entity.IsValidRole(user.Role) {
		g.log.Error().Str("user_id", user.ID).Str("username", user.Username).
			Str("role", user.Role).Msg("usuario con rol inválido")
		return domain.ErrUnauthorized
	}

	if user.Department == "" {
		g.log.Warn().Str("user_id", user.ID).Str("username", user.Username).
			Msg("usuario sin departamento asignado")
	}

	return nil
}

// RecordFailedAttempt incrementa el contador de intentos fallidos y bloquea la
// cuenta 15 minutos al llegar al quinto. Persiste el nuevo estado (update de
// una sola fila).
func (g *AccountGuard) RecordFailedAttempt(user *entity.User, now time.Time) error {
	user.FailedLoginAttempts++

	g.log.Warn().Str("user_id", user.ID).Str("username", user.Username).
		Int("attempts", user.FailedLoginAttempts).
		Msg("intento de login fallido")

	if user.FailedLoginAttempts >= maxFailedAttempts {
		lockedUntil := now.Add(lockDuration)
		user.AccountLockedUntil = &lockedUntil
		g.log.Error().Str("user_id", user.ID).Str("username", user.Username).
			Time("locked_until", lockedUntil).
			Msg("cuenta bloqueada por exceso de intentos fallidos")
	}

	if err := g.userRepo.UpdateLoginState(user.ID, user.FailedLoginAttempts, user.AccountLockedUntil, user.LastLoginAt); err != nil {
		return fmt.Errorf("persistir intento fallido: %w", err)
	}
	return nil
}

// RecordSuccessfulLogin resetea el contador, limpia el bloqueo y estampa el
// último login. Persiste el nuevo estado.
func (g *AccountGuard) RecordSuccessfulLogin(user *entity.User, now time.Time) error {
	previous := user.FailedLoginAttempts
	user.FailedLoginAttempts = 0
	user.AccountLockedUntil = nil
	user.LastLoginAt = &now

	if err := g.userRepo.UpdateLoginState(user.ID, 0, nil, &now); err != nil {
		return fmt.Errorf("persistir login exitoso: %w", err)
	}

	if previous > 0 {
		g.log.Info().Str("user_id", user.ID).Str("username", user.Username).
			Int("previous_attempts", previous).
			Msg("intentos fallidos reseteados")
	}
	return nil
}
