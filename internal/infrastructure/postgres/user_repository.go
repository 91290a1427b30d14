package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/medicore/inventario-medico-api/internal/domain/entity"
	"github.com/medicore/inventario-medico-api/internal/domain/repository"
)

var _ repository.UserRepository = (*UserRepo)(nil)

const userColumns = `id, username, password_hash, full_name, email, role, department,
		employee_id, rfid_card_code, phone_number, is_active, created_at,
		last_login_at, failed_login_attempts, account_locked_until`

// UserRepo implementación del puerto UserRepository sobre PostgreSQL.
type UserRepo struct {
	q Querier
}

// NewUserRepository construye el adaptador de persistencia para usuarios. Pasar pool o tx (Querier).
func NewUserRepository(q Querier) *UserRepo {
	return &UserRepo{q: q}
}

// GetByID obtiene un usuario por ID, nil si no existe.
func (r *UserRepo) GetByID(id string) (*entity.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	return r.scanOne(query, id)
}

// FindByIdentifier busca por username, email o número de empleado (primer match).
func (r *UserRepo) FindByIdentifier(identifier string) (*entity.User, error) {
	query := `SELECT ` + userColumns + `
		FROM users WHERE username = $1 OR email = $1 OR employee_id = $1 LIMIT 1`
	return r.scanOne(query, identifier)
}

// FindByRFID busca por código de tarjeta RFID.
func (r *UserRepo) FindByRFID(code string) (*entity.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE rfid_card_code = $1`
	return r.scanOne(query, code)
}

// UpdateLoginState persiste los campos de seguimiento de login de un usuario.
func (r *UserRepo) UpdateLoginState(userID string, failedAttempts int, lockedUntil, lastLoginAt *time.Time) error {
	query := `
		UPDATE users
		SET failed_login_attempts = $2, account_locked_until = $3, last_login_at = $4
		WHERE id = $1`
	_, err := r.q.Exec(context.Background(), query, userID, failedAttempts, lockedUntil, lastLoginAt)
	if err != nil {
		return fmt.Errorf("update login state: %w", err)
	}
	return nil
}

func (r *UserRepo) scanOne(query string, arg any) (*entity.User, error) {
	var u entity.User
	err := r.q.QueryRow(context.Background(), query, arg).Scan(
		&u.ID, &u.Username, &u.PasswordHash, &u.FullName, &u.Email, &u.Role, &u.Department,
		&u.EmployeeID, &u.RFIDCardCode, &u.PhoneNumber, &u.IsActive, &u.CreatedAt,
		&u.LastLoginAt, &u.FailedLoginAttempts, &u.AccountLockedUntil,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get user: %w", err)
	}
	return &u, nil
}
