package auth_test

import (
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/medicore/inventario-medico-api/internal/application/auth"
	"github.com/medicore/inventario-medico-api/internal/application/dto"
	"github.com/medicore/inventario-medico-api/internal/domain"
	"github.com/medicore/inventario-medico-api/internal/domain/entity"
	pkgjwt "github.com/medicore/inventario-medico-api/pkg/jwt"
)

const (
	testSecret   = "test-secret-key-for-unit-tests"
	testPassword = "hospital-2024"
)

func newAuthUseCase(repo *fakeUserRepo) *auth.AuthUseCase {
	guard := auth.NewAccountGuard(repo, zerolog.Nop())
	return auth.NewAuthUseCase(repo, guard, auth.JWTConfig{
		Secret:     testSecret,
		ExpMinutes: 60,
		Issuer:     "inventario-medico-test",
	}, zerolog.Nop())
}

func doctorWithPassword(t *testing.T) *entity.User {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(testPassword), bcrypt.MinCost)
	require.NoError(t, err)

	return &entity.User{
		ID:           "00000000-0000-0000-0000-000000000010",
		Username:     "jperez",
		PasswordHash: string(hash),
		FullName:     "Juan Pérez",
		Email:        "jperez@hospital.test",
		Role:         entity.RoleDoctor,
		Department:   "Cardiología",
		EmployeeID:   "EMP-0042",
		RFIDCardCode: "RFID-AB12",
		IsActive:     true,
	}
}

func TestLoginByPassword_Exitoso(t *testing.T) {
	user := doctorWithPassword(t)
	repo := newFakeUserRepo(user)
	uc := newAuthUseCase(repo)

	out, err := uc.LoginByPassword(dto.LoginRequest{Identifier: "jperez", Password: testPassword})
	require.NoError(t, err)

	assert.True(t, out.Success)
	assert.NotEmpty(t, out.Token)
	require.NotNil(t, out.User)
	assert.Equal(t, "Juan Pérez", out.User.FullName)
	assert.Equal(t, entity.RoleDoctor, out.User.RoleName)
	assert.Equal(t, 1, out.User.RoleCode)
	assert.True(t, out.User.IsMedicalStaff)
	assert.True(t, out.User.CanDispenseControlledProducts)
	assert.NotNil(t, user.LastLoginAt, "debe estamparse el último login")

	// El token lleva los claims del usuario.
	claims, err := pkgjwt.Parse(testSecret, out.Token)
	require.NoError(t, err)
	assert.Equal(t, user.ID, claims.UserID)
	assert.Equal(t, entity.RoleDoctor, claims.Role)
	assert.Equal(t, "Cardiología", claims.Department)
	assert.True(t, claims.CanAccessControlledProducts)
}

// El identificador puede ser username, email o número de empleado.
func TestLoginByPassword_PorEmailYEmpleado(t *testing.T) {
	user := doctorWithPassword(t)
	uc := newAuthUseCase(newFakeUserRepo(user))

	for _, identifier := range []string{"jperez@hospital.test", "EMP-0042"} {
		out, err := uc.LoginByPassword(dto.LoginRequest{Identifier: identifier, Password: testPassword})
		require.NoError(t, err, identifier)
		assert.True(t, out.Success)
	}
}

func TestLoginByPassword_UsuarioDesconocido(t *testing.T) {
	uc := newAuthUseCase(newFakeUserRepo())

	_, err := uc.LoginByPassword(dto.LoginRequest{Identifier: "fantasma", Password: "x"})
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)
}

// Una contraseña incorrecta registra el intento; cinco seguidas bloquean.
func TestLoginByPassword_ContrasenaIncorrectaCuentaIntentos(t *testing.T) {
	user := doctorWithPassword(t)
	uc := newAuthUseCase(newFakeUserRepo(user))

	for i := 1; i <= 5; i++ {
		_, err := uc.LoginByPassword(dto.LoginRequest{Identifier: "jperez", Password: "incorrecta"})
		assert.ErrorIs(t, err, domain.ErrInvalidCredentials)
	}
	assert.Equal(t, 5, user.FailedLoginAttempts)
	require.NotNil(t, user.AccountLockedUntil, "cinco fallos deben bloquear la cuenta")

	// Ya bloqueada, falla aunque la contraseña sea correcta.
	_, err := uc.LoginByPassword(dto.LoginRequest{Identifier: "jperez", Password: testPassword})
	assert.ErrorIs(t, err, domain.ErrAccountLocked)
}

// El login exitoso resetea el contador de intentos acumulados.
func TestLoginByPassword_ExitoReseteaContador(t *testing.T) {
	user := doctorWithPassword(t)
	user.FailedLoginAttempts = 3
	uc := newAuthUseCase(newFakeUserRepo(user))

	out, err := uc.LoginByPassword(dto.LoginRequest{Identifier: "jperez", Password: testPassword})
	require.NoError(t, err)
	assert.True(t, out.Success)
	assert.Zero(t, user.FailedLoginAttempts)
}

func TestLoginByPassword_CuentaInactiva(t *testing.T) {
	user := doctorWithPassword(t)
	user.IsActive = false
	uc := newAuthUseCase(newFakeUserRepo(user))

	_, err := uc.LoginByPassword(dto.LoginRequest{Identifier: "jperez", Password: testPassword})
	assert.ErrorIs(t, err, domain.ErrAccountInactive)
}

func TestLoginByRFID_Exitoso(t *testing.T) {
	user := doctorWithPassword(t)
	uc := newAuthUseCase(newFakeUserRepo(user))

	out, err := uc.LoginByRFID(dto.RFIDLoginRequest{RFIDCode: "RFID-AB12"})
	require.NoError(t, err)
	assert.True(t, out.Success)
	assert.NotEmpty(t, out.Token)
}

// Una tarjeta no asignada no cuenta contra ninguna cuenta.
func TestLoginByRFID_TarjetaDesconocida(t *testing.T) {
	user := doctorWithPassword(t)
	uc := newAuthUseCase(newFakeUserRepo(user))

	_, err := uc.LoginByRFID(dto.RFIDLoginRequest{RFIDCode: "RFID-XXXX"})
	assert.ErrorIs(t, err, domain.ErrInvalidCard)
	assert.Zero(t, user.FailedLoginAttempts)
}

func TestLoginByRFID_CuentaBloqueada(t *testing.T) {
	now := time.Now()
	lockedUntil := now.Add(10 * time.Minute)
	user := doctorWithPassword(t)
	user.AccountLockedUntil = &lockedUntil
	uc := newAuthUseCase(newFakeUserRepo(user))

	_, err := uc.LoginByRFID(dto.RFIDLoginRequest{RFIDCode: "RFID-AB12"})
	assert.ErrorIs(t, err, domain.ErrAccountLocked)
}
