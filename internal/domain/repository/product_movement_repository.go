package repository

import "github.com/medicore/inventario-medico-api/internal/domain/entity"

// ProductMovementRepository define el puerto del registro de auditoría de
// stock. Solo inserta: los movimientos nunca se actualizan ni se borran.
type ProductMovementRepository interface {
	Create(mov *entity.ProductMovement) error
}
