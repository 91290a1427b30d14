package repository

import (
	"time"

	"github.com/medicore/inventario-medico-api/internal/domain/entity"
)

// ProductRepository define el puerto de persistencia para Product (DIP).
// Los listados restringen a stock > 0 y no expirado en la consulta; el filtro
// de roles se aplica después, en el caso de uso.
type ProductRepository interface {
	GetByID(id string) (*entity.Product, error)
	// ListByIDs carga varios productos de una vez (evita N+1 al armar la vista
	// del carrito).
	ListByIDs(ids []string) ([]*entity.Product, error)
	// ListAvailable lista productos con stock y sin expirar, ordenados por nombre.
	ListAvailable(now time.Time) ([]*entity.Product, error)
	// Search busca por substring case-insensitive en nombre o SKU, con tope de
	// resultados, sobre el mismo universo que ListAvailable.
	Search(term string, limit int, now time.Time) ([]*entity.Product, error)
	// ListByCategory lista disponibles de una categoría.
	ListByCategory(category string, now time.Time) ([]*entity.Product, error)
	// GetForUpdate carga un producto bloqueando la fila (SELECT FOR UPDATE).
	// Solo tiene sentido dentro de una transacción.
	GetForUpdate(id string) (*entity.Product, error)
	// UpdateStock fija el stock del producto. Lo usa únicamente el motor de
	// dispensación dentro de su transacción.
	UpdateStock(productID string, stock int) error
}
