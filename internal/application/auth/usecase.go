package auth

import (
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/medicore/inventario-medico-api/internal/application/dto"
	"github.com/medicore/inventario-medico-api/internal/domain"
	"github.com/medicore/inventario-medico-api/internal/domain/entity"
	"github.com/medicore/inventario-medico-api/internal/domain/repository"
	pkgjwt "github.com/medicore/inventario-medico-api/pkg/jwt"
)

// JWTConfig configuración para generación de tokens.
type JWTConfig struct {
	Secret     string
	ExpMinutes int
	Issuer     string
}

// AuthUseCase casos de uso de autenticación: login por contraseña y por
// tarjeta RFID. Los fallos se devuelven como errores tipados de dominio; el
// handler HTTP los colapsa en un 401 genérico para evitar enumeración de
// usuarios.
type AuthUseCase struct {
	userRepo repository.UserRepository
	guard    *AccountGuard
	jwtCfg   JWTConfig
	log      zerolog.Logger
}

// NewAuthUseCase construye el caso de uso de auth.
func NewAuthUseCase(userRepo repository.UserRepository, guard *AccountGuard, jwtCfg JWTConfig, log zerolog.Logger) *AuthUseCase {
	return &AuthUseCase{userRepo: userRepo, guard: guard, jwtCfg: jwtCfg, log: log}
}

// LoginByPassword busca el usuario por username, email o employee_id, valida
// el estado de la cuenta, verifica la contraseña contra el hash bcrypt y emite
// el token. Un identificador desconocido no cuenta contra ninguna cuenta; una
// contraseña incorrecta sí registra el intento fallido.
func (uc *AuthUseCase) LoginByPassword(in dto.LoginRequest) (*dto.AuthResponse, error) {
	now := time.Now()

	user, err := uc.userRepo.FindByIdentifier(in.Identifier)
	if err != nil {
		return nil, fmt.Errorf("buscar usuario: %w", err)
	}
	if user == nil {
		uc.log.Debug().Str("identifier", in.Identifier).Msg("usuario no encontrado")
		return nil, domain.ErrInvalidCredentials
	}

	// Estado de la cuenta ANTES de validar la contraseña: una cuenta bloqueada
	// falla igual aunque la contraseña sea correcta.
	if err := uc.guard.ValidateAccountState(user, now); err != nil {
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(in.Password)); err != nil {
		if err := uc.guard.RecordFailedAttempt(user, now); err != nil {
			uc.log.Error().Err(err).Str("user_id", user.ID).Msg("registrar intento fallido")
		}
		return nil, domain.ErrInvalidCredentials
	}

	return uc.finishLogin(user, now, "Login exitoso")
}

// LoginByRFID busca el usuario por código de tarjeta. Una tarjeta que no
// corresponde a ningún usuario es simplemente inválida: no se cuenta contra
// ninguna cuenta.
func (uc *AuthUseCase) LoginByRFID(in dto.RFIDLoginRequest) (*dto.AuthResponse, error) {
	now := time.Now()

	user, err := uc.userRepo.FindByRFID(in.RFIDCode)
	if err != nil {
		return nil, fmt.Errorf("buscar usuario por RFID: %w", err)
	}
	if user == nil {
		uc.log.Debug().Msg("login RFID con código no asignado")
		return nil, domain.ErrInvalidCard
	}

	if err := uc.guard.ValidateAccountState(user, now); err != nil {
		return nil, err
	}

	return uc.finishLogin(user, now, "Login RFID exitoso")
}

// finishLogin registra el login exitoso, emite el token y arma la respuesta.
func (uc *AuthUseCase) finishLogin(user *entity.User, now time.Time, message string) (*dto.AuthResponse, error) {
	if err := uc.guard.RecordSuccessfulLogin(user, now); err != nil {
		uc.log.Error().Err(err).Str("user_id", user.ID).Msg("actualizar último login")
		// No se falla el login por esto.
	}

	token, expiresAt, err := pkgjwt.Generate(uc.jwtCfg.Secret, pkgjwt.TokenInput{
		UserID:                      user.ID,
		Username:                    user.Username,
		Role:                        user.Role,
		RoleCode:                    entity.RoleCode(user.Role),
		Department:                  user.Department,
		IsMedicalStaff:              user.IsMedicalStaff(),
		CanAccessControlledProducts: user.CanAccessControlledProducts(),
	}, uc.jwtCfg.Issuer, uc.jwtCfg.ExpMinutes)
	if err != nil {
		return nil, fmt.Errorf("generar token: %w", err)
	}

	uc.log.Info().Str("user_id", user.ID).Str("username", user.Username).
		Str("role", user.Role).Str("department", user.Department).
		Msg("login exitoso")

	return &dto.AuthResponse{
		Success:   true,
		Message:   message,
		Token:     token,
		ExpiresAt: &expiresAt,
		User: &dto.UserAuthDTO{
			ID:                            user.ID,
			Username:                      user.Username,
			FullName:                      user.FullName,
			RoleName:                      user.Role,
			RoleCode:                      entity.RoleCode(user.Role),
			Department:                    user.Department,
			IsMedicalStaff:                user.IsMedicalStaff(),
			CanDispenseNormalProducts:     user.IsMedicalStaff(),
			CanDispenseControlledProducts: user.CanAccessControlledProducts(),
		},
	}, nil
}
