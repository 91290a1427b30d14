package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Categorías de producto médico, con código numérico 1-8.
const (
	CategoryInstrumentalQuirurgico = "InstrumentalQuirurgico" // bisturís, pinzas
	CategoryMedicamentos           = "Medicamentos"
	CategoryMaterialCuracion       = "MaterialCuracion" // gasas, vendas
	CategoryProteccion             = "Proteccion"       // guantes, mascarillas
	CategoryEquipamiento           = "Equipamiento"
	CategoryConsumibles            = "Consumibles" // jeringas, agujas
	CategoryImplantes              = "Implantes"
	CategoryReactivos              = "Reactivos" // laboratorio
)

var categoryCodes = map[string]int{
	CategoryInstrumentalQuirurgico: 1,
	CategoryMedicamentos:           2,
	CategoryMaterialCuracion:       3,
	CategoryProteccion:             4,
	CategoryEquipamiento:           5,
	CategoryConsumibles:            6,
	CategoryImplantes:              7,
	CategoryReactivos:              8,
}

// Categories lista las categorías en orden de código.
func Categories() []string {
	return []string{
		CategoryInstrumentalQuirurgico,
		CategoryMedicamentos,
		CategoryMaterialCuracion,
		CategoryProteccion,
		CategoryEquipamiento,
		CategoryConsumibles,
		CategoryImplantes,
		CategoryReactivos,
	}
}

// CategoryCode devuelve el código numérico de la categoría, 0 si no es conocida.
func CategoryCode(category string) int {
	return categoryCodes[category]
}

// CategoryByCode devuelve la categoría para un código, "" si no existe.
func CategoryByCode(code int) string {
	for name, c := range categoryCodes {
		if c == code {
			return name
		}
	}
	return ""
}

// nearExpirationWindow ventana de aviso de expiración próxima.
const nearExpirationWindow = 30 * 24 * time.Hour

// Product representa un producto médico dispensable. El stock vive en la fila
// del producto (un solo almacén hospitalario) y solo lo mutan los movimientos.
type Product struct {
	ID                    string
	SKU                   string // código interno único
	Name                  string
	Category              string
	Price                 decimal.Decimal
	Stock                 int
	MinimumStock          int
	RFIDCode              string // opcional, único si existe
	ExpirationDate        time.Time
	ManufacturingDate     time.Time
	BatchNumber           string // opcional, trazabilidad por lote
	RequiresAuthorization bool   // requiere autorización especial para dispensarse
	IsControlled          bool   // medicamento controlado
	StorageConditions     string // ej: "Refrigerado 2-8°C"
	CreatedAt             time.Time
	UpdatedAt             time.Time
}

// IsExpired indica si el producto ya expiró.
func (p *Product) IsExpired(now time.Time) bool {
	return p.ExpirationDate.Before(now)
}

// IsNearExpiration indica si el producto expira dentro de los próximos 30 días.
func (p *Product) IsNearExpiration(now time.Time) bool {
	return !p.ExpirationDate.After(now.Add(nearExpirationWindow))
}

// IsLowStock indica si el stock está en o por debajo del mínimo.
func (p *Product) IsLowStock() bool {
	return p.Stock <= p.MinimumStock
}

// IsAvailable indica si el producto está disponible: hay stock y no expiró.
// El acceso a productos controlados es responsabilidad exclusiva del filtro de
// roles (catalog.RoleCanAccess); aquí no se excluyen.
func (p *Product) IsAvailable(now time.Time) bool {
	return p.Stock > 0 && !p.IsExpired(now)
}
