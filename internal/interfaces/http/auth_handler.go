package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/medicore/inventario-medico-api/internal/application/auth"
	"github.com/medicore/inventario-medico-api/internal/application/dto"
	"github.com/medicore/inventario-medico-api/internal/domain"
)

// AuthHandler maneja login por contraseña y por tarjeta RFID.
type AuthHandler struct {
	uc *auth.AuthUseCase
}

// NewAuthHandler construye el handler de auth.
func NewAuthHandler(uc *auth.AuthUseCase) *AuthHandler {
	return &AuthHandler{uc: uc}
}

// Login godoc
// @Summary      Iniciar sesión con usuario y contraseña
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body  dto.LoginRequest  true  "identifier (username, email o n° empleado), password"
// @Success      200   {object}  dto.AuthResponse
// @Failure      401   {object}  dto.AuthResponse
// @Router       /api/auth/login [post]
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var in dto.LoginRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if in.Identifier == "" || in.Password == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "identifier y password son requeridos"})
	}
	out, err := h.uc.LoginByPassword(in)
	if err != nil {
		return h.authError(c, err)
	}
	return c.JSON(out)
}

// LoginRFID godoc
// @Summary      Iniciar sesión con tarjeta RFID
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body  dto.RFIDLoginRequest  true  "rfid_code"
// @Success      200   {object}  dto.AuthResponse
// @Failure      401   {object}  dto.AuthResponse
// @Router       /api/auth/login/rfid [post]
func (h *AuthHandler) LoginRFID(c *fiber.Ctx) error {
	var in dto.RFIDLoginRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if in.RFIDCode == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "rfid_code es requerido"})
	}
	out, err := h.uc.LoginByRFID(in)
	if err != nil {
		return h.authError(c, err)
	}
	return c.JSON(out)
}

// authError colapsa todos los fallos de autenticación en un 401 con el mismo
// mensaje genérico: la respuesta nunca revela si el identificador existe, si
// la contraseña falló o si la cuenta está bloqueada.
func (h *AuthHandler) authError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, domain.ErrInvalidCredentials),
		errors.Is(err, domain.ErrInvalidCard),
		errors.Is(err, domain.ErrAccountInactive),
		errors.Is(err, domain.ErrAccountLocked),
		errors.Is(err, domain.ErrUnauthorized):
		return c.Status(fiber.StatusUnauthorized).JSON(dto.AuthResponse{
			Success: false,
			Message: "Credenciales inválidas o cuenta no disponible",
		})
	default:
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: "error interno"})
	}
}
