// Package catalog contiene las reglas puras de acceso rol→producto.
// Un rol desconocido nunca tiene acceso.
package catalog

import "github.com/medicore/inventario-medico-api/internal/domain/entity"

// RoleCanAccess indica si un rol puede ver y agregar al carrito un producto.
// Independiente del stock: la UI distingue "restringido por rol" de "sin stock".
func RoleCanAccess(p *entity.Product, role string) bool {
	switch role {
	case entity.RoleTechnician, entity.RoleViewer:
		return !p.RequiresAuthorization && !p.IsControlled
	case entity.RoleNurse:
		return !p.IsControlled
	case entity.RoleDoctor, entity.RolePharmacist, entity.RoleAdministrator, entity.RoleSuperAdministrator:
		return true
	default:
		return false
	}
}

// CanDispenseControlled indica si el rol puede solicitar productos controlados.
// Nota: el claim CanAccessControlledProducts del token incluye Administrator;
// este conjunto (el que gobierna el carrito) incluye SuperAdministrator en su
// lugar, conservando ambas tablas del sistema original.
func CanDispenseControlled(role string) bool {
	return role == entity.RoleDoctor || role == entity.RolePharmacist || role == entity.RoleSuperAdministrator
}

// CanRequestAuthorized indica si el rol puede solicitar productos que
// requieren autorización especial.
func CanRequestAuthorized(role string) bool {
	return role != entity.RoleTechnician && role != entity.RoleViewer && entity.IsValidRole(role)
}
