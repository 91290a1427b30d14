package postgres

import (
	"context"
	"fmt"

	"github.com/medicore/inventario-medico-api/internal/domain/entity"
	"github.com/medicore/inventario-medico-api/internal/domain/repository"
)

var _ repository.ProductMovementRepository = (*ProductMovementRepo)(nil)

// ProductMovementRepo implementación del registro de auditoría de stock sobre
// PostgreSQL. Append-only: solo inserta.
type ProductMovementRepo struct {
	q Querier
}

// NewProductMovementRepository construye el adaptador de movimientos. Pasar pool o tx (Querier).
func NewProductMovementRepository(q Querier) *ProductMovementRepo {
	return &ProductMovementRepo{q: q}
}

// Create inserta un movimiento de producto.
func (r *ProductMovementRepo) Create(mov *entity.ProductMovement) error {
	query := `
		INSERT INTO product_movements (id, product_id, user_id, type, quantity, timestamp,
			reason, department, batch_number, unit_cost, notes, is_automated)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`
	_, err := r.q.Exec(context.Background(), query,
		mov.ID, mov.ProductID, mov.UserID, mov.Type, mov.Quantity, mov.Timestamp,
		mov.Reason, mov.Department, mov.BatchNumber, mov.UnitCost, mov.Notes, mov.IsAutomated,
	)
	if err != nil {
		return fmt.Errorf("insert product movement: %w", err)
	}
	return nil
}
