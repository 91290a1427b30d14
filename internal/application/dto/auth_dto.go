package dto

import "time"

// LoginRequest entrada para login por contraseña. Identifier puede ser
// username, email o employee_id.
type LoginRequest struct {
	Identifier string `json:"identifier" validate:"required"`
	Password   string `json:"password" validate:"required"`
}

// RFIDLoginRequest entrada para login por tarjeta RFID.
type RFIDLoginRequest struct {
	RFIDCode string `json:"rfid_code" validate:"required"`
}

// UserAuthDTO resumen del usuario autenticado (sin datos sensibles).
type UserAuthDTO struct {
	ID                            string `json:"id"`
	Username                      string `json:"username"`
	FullName                      string `json:"full_name"`
	RoleName                      string `json:"role_name"`
	RoleCode                      int    `json:"role_code"`
	Department                    string `json:"department"`
	IsMedicalStaff                bool   `json:"is_medical_staff"`
	CanDispenseNormalProducts     bool   `json:"can_dispense_normal_products"`
	CanDispenseControlledProducts bool   `json:"can_dispense_controlled_products"`
}

// AuthResponse salida de ambos logins: misma forma en éxito y en fallo para no
// revelar qué campo del identificador coincidió.
type AuthResponse struct {
	Success   bool         `json:"success"`
	Message   string       `json:"message"`
	Token     string       `json:"token,omitempty"`
	ExpiresAt *time.Time   `json:"expires_at,omitempty"`
	User      *UserAuthDTO `json:"user,omitempty"`
}
