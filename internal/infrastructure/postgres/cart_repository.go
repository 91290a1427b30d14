package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/medicore/inventario-medico-api/internal/domain"
	"github.com/medicore/inventario-medico-api/internal/domain/entity"
	"github.com/medicore/inventario-medico-api/internal/domain/repository"
)

var _ repository.CartRepository = (*CartRepo)(nil)

const cartColumns = `id, user_id, status, priority, purpose, target_department, notes,
		created_at, last_modified_at, confirmed_at`

// CartRepo implementación del puerto CartRepository sobre PostgreSQL (usable con pool o tx).
type CartRepo struct {
	q Querier
}

// NewCartRepository construye el adaptador de carritos. Pasar pool o tx (Querier).
func NewCartRepository(q Querier) *CartRepo {
	return &CartRepo{q: q}
}

// GetActiveByUser obtiene el carrito Active del usuario con sus items, nil si no existe.
func (r *CartRepo) GetActiveByUser(userID string) (*entity.Cart, error) {
	query := `SELECT ` + cartColumns + ` FROM carts WHERE user_id = $1 AND status = 'Active'`
	cart, err := r.scanCart(query, userID)
	if err != nil || cart == nil {
		return cart, err
	}
	if err := r.loadItems(cart); err != nil {
		return nil, err
	}
	return cart, nil
}

// GetByID obtiene un carrito por ID con sus items, nil si no existe.
func (r *CartRepo) GetByID(id string) (*entity.Cart, error) {
	query := `SELECT ` + cartColumns + ` FROM carts WHERE id = $1`
	cart, err := r.scanCart(query, id)
	if err != nil || cart == nil {
		return cart, err
	}
	if err := r.loadItems(cart); err != nil {
		return nil, err
	}
	return cart, nil
}

// CreateActive crea un carrito Active. El índice único parcial
// carts_one_active_per_user garantiza a lo sumo uno por usuario; si otro
// request ganó la carrera devuelve domain.ErrConflict para que el caller relea.
func (r *CartRepo) CreateActive(cart *entity.Cart) error {
	query := `
		INSERT INTO carts (id, user_id, status, priority, purpose, target_department, notes,
			created_at, last_modified_at, confirmed_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`
	_, err := r.q.Exec(context.Background(), query,
		cart.ID, cart.UserID, cart.Status, cart.Priority, cart.Purpose, cart.TargetDepartment,
		cart.Notes, cart.CreatedAt, cart.LastModifiedAt, cart.ConfirmedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrConflict
		}
		return fmt.Errorf("insert cart: %w", err)
	}
	return nil
}

// Update persiste los campos mutables del carrito.
func (r *CartRepo) Update(cart *entity.Cart) error {
	query := `
		UPDATE carts
		SET status = $2, priority = $3, purpose = $4, target_department = $5, notes = $6,
			last_modified_at = $7, confirmed_at = $8
		WHERE id = $1`
	_, err := r.q.Exec(context.Background(), query,
		cart.ID, cart.Status, cart.Priority, cart.Purpose, cart.TargetDepartment, cart.Notes,
		cart.LastModifiedAt, cart.ConfirmedAt,
	)
	if err != nil {
		return fmt.Errorf("update cart: %w", err)
	}
	return nil
}

// AddItem inserta una línea en el carrito.
func (r *CartRepo) AddItem(item *entity.CartItem) error {
	query := `
		INSERT INTO cart_items (id, cart_id, product_id, quantity, unit_price, added_at, item_notes)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`
	_, err := r.q.Exec(context.Background(), query,
		item.ID, item.CartID, item.ProductID, item.Quantity, item.UnitPrice, item.AddedAt, item.ItemNotes,
	)
	if err != nil {
		return fmt.Errorf("insert cart item: %w", err)
	}
	return nil
}

// UpdateItem persiste cantidad y notas de una línea.
func (r *CartRepo) UpdateItem(item *entity.CartItem) error {
	query := `UPDATE cart_items SET quantity = $2, item_notes = $3 WHERE id = $1`
	_, err := r.q.Exec(context.Background(), query, item.ID, item.Quantity, item.ItemNotes)
	if err != nil {
		return fmt.Errorf("update cart item: %w", err)
	}
	return nil
}

// RemoveItem elimina una línea.
func (r *CartRepo) RemoveItem(itemID string) error {
	_, err := r.q.Exec(context.Background(), `DELETE FROM cart_items WHERE id = $1`, itemID)
	if err != nil {
		return fmt.Errorf("delete cart item: %w", err)
	}
	return nil
}

// ClearItems elimina todas las líneas de un carrito.
func (r *CartRepo) ClearItems(cartID string) error {
	_, err := r.q.Exec(context.Background(), `DELETE FROM cart_items WHERE cart_id = $1`, cartID)
	if err != nil {
		return fmt.Errorf("clear cart items: %w", err)
	}
	return nil
}

func (r *CartRepo) scanCart(query string, arg any) (*entity.Cart, error) {
	var c entity.Cart
	err := r.q.QueryRow(context.Background(), query, arg).Scan(
		&c.ID, &c.UserID, &c.Status, &c.Priority, &c.Purpose, &c.TargetDepartment, &c.Notes,
		&c.CreatedAt, &c.LastModifiedAt, &c.ConfirmedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get cart: %w", err)
	}
	return &c, nil
}

func (r *CartRepo) loadItems(cart *entity.Cart) error {
	query := `
		SELECT id, cart_id, product_id, quantity, unit_price, added_at, item_notes
		FROM cart_items WHERE cart_id = $1 ORDER BY added_at`
	rows, err := r.q.Query(context.Background(), query, cart.ID)
	if err != nil {
		return fmt.Errorf("list cart items: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var item entity.CartItem
		err := rows.Scan(&item.ID, &item.CartID, &item.ProductID, &item.Quantity,
			&item.UnitPrice, &item.AddedAt, &item.ItemNotes)
		if err != nil {
			return fmt.Errorf("scan cart item: %w", err)
		}
		cart.Items = append(cart.Items, &item)
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("iterate cart items: %w", err)
	}
	return nil
}
