package repository

import "github.com/medicore/inventario-medico-api/internal/domain/entity"

// CartRepository define el puerto de persistencia para Cart y sus items.
// El carrito es dueño de sus items (borrado en cascada); las referencias a
// Product y User son restrict.
type CartRepository interface {
	// GetActiveByUser devuelve el carrito Active del usuario con sus items
	// cargados, o nil si no existe.
	GetActiveByUser(userID string) (*entity.Cart, error)
	// CreateActive crea un carrito Active para el usuario. Devuelve
	// domain.ErrConflict si ya existe uno (índice único parcial
	// carts_one_active_per_user); el caller relee y usa el ganador.
	CreateActive(cart *entity.Cart) error
	// Update persiste los campos mutables del carrito (estado, prioridad,
	// propósito, departamento, notas, timestamps).
	Update(cart *entity.Cart) error
	AddItem(item *entity.CartItem) error
	// UpdateItem persiste cantidad y notas de una línea.
	UpdateItem(item *entity.CartItem) error
	RemoveItem(itemID string) error
	// ClearItems elimina todas las líneas del carrito.
	ClearItems(cartID string) error
	// GetByID devuelve un carrito por ID con sus items, o nil si no existe.
	GetByID(id string) (*entity.Cart, error)
}
