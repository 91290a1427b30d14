package entity

import "time"

// Roles válidos para User. Los códigos numéricos se conservan del sistema
// hospitalario original y viajan en el claim role_code del JWT.
const (
	RoleDoctor             = "Doctor"
	RoleNurse              = "Nurse"
	RolePharmacist         = "Pharmacist"
	RoleTechnician         = "Technician"
	RoleAdministrator      = "Administrator"
	RoleSuperAdministrator = "SuperAdministrator"
	RoleViewer             = "Viewer"
)

// roleCodes asigna el código numérico de cada rol.
var roleCodes = map[string]int{
	RoleDoctor:             1,
	RoleNurse:              2,
	RolePharmacist:         3,
	RoleTechnician:         4,
	RoleAdministrator:      5,
	RoleSuperAdministrator: 6,
	RoleViewer:             7,
}

// RoleCode devuelve el código numérico del rol, 0 si el rol no es conocido.
func RoleCode(role string) int {
	return roleCodes[role]
}

// IsValidRole indica si el rol pertenece al conjunto cerrado de roles del sistema.
func IsValidRole(role string) bool {
	_, ok := roleCodes[role]
	return ok
}

// RoleDescription descripción legible del rol para interfaces.
func RoleDescription(role string) string {
	switch role {
	case RoleDoctor:
		return "Médico"
	case RoleNurse:
		return "Enfermero/a"
	case RolePharmacist:
		return "Farmacéutico/a"
	case RoleTechnician:
		return "Técnico"
	case RoleAdministrator:
		return "Administrador"
	case RoleSuperAdministrator:
		return "Super Administrador"
	case RoleViewer:
		return "Solo Lectura"
	default:
		return "Rol Desconocido"
	}
}

// User representa un usuario del sistema hospitalario (médico, enfermero, etc.).
type User struct {
	ID                  string
	Username            string // único, usado para login
	PasswordHash        string // bcrypt hash, nunca texto plano
	FullName            string
	Email               string // único
	Role                string
	Department          string
	EmployeeID          string // identificación profesional, opcional
	RFIDCardCode        string // tarjeta RFID para acceso rápido, opcional
	PhoneNumber         string
	IsActive            bool
	CreatedAt           time.Time
	LastLoginAt         *time.Time
	FailedLoginAttempts int
	AccountLockedUntil  *time.Time
}

// IsAccountLocked indica si la cuenta está bloqueada: hay un lock-until y aún no pasó.
func (u *User) IsAccountLocked(now time.Time) bool {
	return u.AccountLockedUntil != nil && u.AccountLockedUntil.After(now)
}

// CanAccess indica si el usuario puede acceder al sistema.
func (u *User) CanAccess(now time.Time) bool {
	return u.IsActive && !u.IsAccountLocked(now)
}

// IsAdministrator indica si el usuario tiene permisos administrativos.
func (u *User) IsAdministrator() bool {
	return u.Role == RoleAdministrator || u.Role == RoleSuperAdministrator
}

// IsMedicalStaff indica si el usuario es personal médico (puede dispensar productos).
func (u *User) IsMedicalStaff() bool {
	return u.Role == RoleDoctor || u.Role == RoleNurse || u.Role == RolePharmacist
}

// CanAccessControlledProducts indica si el usuario puede acceder a productos
// controlados. Este conjunto alimenta el claim del JWT; el permiso para
// agregarlos al carrito lo decide catalog.CanDispenseControlled.
func (u *User) CanAccessControlledProducts() bool {
	return u.Role == RoleDoctor || u.Role == RolePharmacist || u.Role == RoleAdministrator
}
