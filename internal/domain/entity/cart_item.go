package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// CartItem es una línea de producto solicitada dentro de un carrito.
// UnitPrice es una copia del precio al momento de agregar, para que la
// valoración del carrito no cambie si el precio del producto cambia.
type CartItem struct {
	ID        string
	CartID    string
	ProductID string
	Quantity  int // >= 1
	UnitPrice decimal.Decimal
	AddedAt   time.Time
	ItemNotes string // ej: "Para sala de operaciones 3"
}

// TotalPrice precio total de la línea (cantidad × precio unitario capturado).
func (i *CartItem) TotalPrice() decimal.Decimal {
	return i.UnitPrice.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// Los flags derivados se calculan contra el estado VIVO del producto referido,
// nunca se cachean en la línea. El snapshot (item + producto) lo carga el caso
// de uso y estas funciones son puras sobre él.

// HasSufficientStock indica si el stock actual alcanza para la cantidad pedida.
func (i *CartItem) HasSufficientStock(p *Product) bool {
	return p != nil && p.Stock >= i.Quantity
}

// IsProductExpired indica si el producto referido está expirado.
func (i *CartItem) IsProductExpired(p *Product, now time.Time) bool {
	return p != nil && p.IsExpired(now)
}

// RequiresAuthorization indica si el producto requiere autorización especial.
func (i *CartItem) RequiresAuthorization(p *Product) bool {
	return p != nil && p.RequiresAuthorization
}

// IsControlledProduct indica si el producto es controlado.
func (i *CartItem) IsControlledProduct(p *Product) bool {
	return p != nil && p.IsControlled
}

// IsNearExpiration indica si el producto referido está próximo a expirar.
func (i *CartItem) IsNearExpiration(p *Product, now time.Time) bool {
	return p != nil && p.IsNearExpiration(now)
}

// CanBeDispensed indica si la línea puede dispensarse de manera segura:
// stock suficiente, producto no expirado y disponible.
func (i *CartItem) CanBeDispensed(p *Product, now time.Time) bool {
	return i.HasSufficientStock(p) && !i.IsProductExpired(p, now) && p != nil && p.IsAvailable(now)
}

// WouldTriggerReorder indica si dispensar esta línea dejaría el stock en o por
// debajo del mínimo (disparador de reposición).
func (i *CartItem) WouldTriggerReorder(p *Product) bool {
	return p != nil && p.Stock-i.Quantity <= p.MinimumStock
}

// ItemStatus descripción del estado de la línea para interfaces.
func (i *CartItem) ItemStatus(p *Product, now time.Time) string {
	switch {
	case i.IsProductExpired(p, now):
		return "Producto expirado"
	case !i.HasSufficientStock(p):
		return "Stock insuficiente"
	case i.IsNearExpiration(p, now):
		return "Próximo a expirar"
	case i.IsControlledProduct(p):
		return "Producto controlado"
	case i.RequiresAuthorization(p):
		return "Requiere autorización"
	default:
		return "Disponible"
	}
}
