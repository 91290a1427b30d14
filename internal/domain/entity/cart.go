package entity

import "time"

// Estados del carrito de dispensación. Active es el único estado mutable;
// Confirmed lo fija exclusivamente el motor de dispensación.
const (
	CartStatusActive    = "Active"
	CartStatusConfirmed = "Confirmed"
	CartStatusCancelled = "Cancelled"
	CartStatusExpired   = "Expired"
)

// Prioridades de dispensación.
const (
	PriorityNormal    = "Normal"
	PriorityUrgent    = "Urgent"
	PriorityEmergency = "Emergency"
)

var priorityCodes = map[string]int{
	PriorityNormal:    1,
	PriorityUrgent:    2,
	PriorityEmergency: 3,
}

// IsValidPriority indica si la prioridad pertenece al conjunto cerrado.
func IsValidPriority(p string) bool {
	_, ok := priorityCodes[p]
	return ok
}

// staleAfter tiempo activo tras el cual un carrito se considera abandonado.
const staleAfter = 2 * time.Hour

// Cart agrupa productos solicitados antes de la dispensación. Invariante: a lo
// sumo un carrito Active por usuario (índice único parcial en la DB).
type Cart struct {
	ID               string
	UserID           string
	Status           string
	Priority         string
	Purpose          string // ej: "Cirugía cardíaca"
	TargetDepartment string
	Notes            string
	CreatedAt        time.Time
	LastModifiedAt   time.Time
	ConfirmedAt      *time.Time // null hasta confirmación
	Items            []*CartItem
}

// IsActive indica si el carrito sigue en estado Active.
func (c *Cart) IsActive() bool { return c.Status == CartStatusActive }

// IsEmpty indica si el carrito no tiene items.
func (c *Cart) IsEmpty() bool { return len(c.Items) == 0 }

// IsStale indica si el carrito lleva más de 2 horas activo sin confirmarse.
// Señal informativa; ningún proceso actúa sobre ella.
func (c *Cart) IsStale(now time.Time) bool {
	return c.IsActive() && now.Sub(c.CreatedAt) > staleAfter
}

// StatusDescription descripción legible del estado para interfaces.
func (c *Cart) StatusDescription() string {
	switch c.Status {
	case CartStatusActive:
		return "Activo"
	case CartStatusConfirmed:
		return "Confirmado"
	case CartStatusCancelled:
		return "Cancelado"
	case CartStatusExpired:
		return "Expirado"
	default:
		return "Estado Desconocido"
	}
}

// PriorityDescription descripción legible de la prioridad.
func (c *Cart) PriorityDescription() string {
	switch c.Priority {
	case PriorityNormal:
		return "Normal"
	case PriorityUrgent:
		return "Urgente"
	case PriorityEmergency:
		return "Emergencia"
	default:
		return "Prioridad Desconocida"
	}
}
