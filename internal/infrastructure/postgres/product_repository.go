package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/medicore/inventario-medico-api/internal/domain/entity"
	"github.com/medicore/inventario-medico-api/internal/domain/repository"
)

var _ repository.ProductRepository = (*ProductRepo)(nil)

const productColumns = `id, sku, name, category, price, stock, minimum_stock, rfid_code,
		expiration_date, manufacturing_date, batch_number, requires_authorization,
		is_controlled, storage_conditions, created_at, updated_at`

// ProductRepo implementación del puerto ProductRepository sobre PostgreSQL (usable con pool o tx).
type ProductRepo struct {
	q Querier
}

// NewProductRepository construye el adaptador de productos. Pasar pool o tx (Querier).
func NewProductRepository(q Querier) *ProductRepo {
	return &ProductRepo{q: q}
}

// GetByID obtiene un producto por ID, nil si no existe.
func (r *ProductRepo) GetByID(id string) (*entity.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE id = $1`
	row := r.q.QueryRow(context.Background(), query, id)
	return scanProduct(row)
}

// ListByIDs carga varios productos de una vez.
func (r *ProductRepo) ListByIDs(ids []string) ([]*entity.Product, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	query := `SELECT ` + productColumns + ` FROM products WHERE id = ANY($1)`
	rows, err := r.q.Query(context.Background(), query, ids)
	if err != nil {
		return nil, fmt.Errorf("list products by ids: %w", err)
	}
	return scanProducts(rows)
}

// ListAvailable lista productos con stock y sin expirar, ordenados por nombre.
func (r *ProductRepo) ListAvailable(now time.Time) ([]*entity.Product, error) {
	query := `SELECT ` + productColumns + `
		FROM products
		WHERE stock > 0 AND expiration_date >= $1
		ORDER BY name`
	rows, err := r.q.Query(context.Background(), query, now)
	if err != nil {
		return nil, fmt.Errorf("list available products: %w", err)
	}
	return scanProducts(rows)
}

// Search busca por substring case-insensitive en nombre o SKU sobre el mismo
// universo que ListAvailable, con tope de resultados.
func (r *ProductRepo) Search(term string, limit int, now time.Time) ([]*entity.Product, error) {
	query := `SELECT ` + productColumns + `
		FROM products
		WHERE stock > 0 AND expiration_date >= $1
		  AND (name ILIKE '%' || $2 || '%' OR sku ILIKE '%' || $2 || '%')
		ORDER BY name
		LIMIT $3`
	rows, err := r.q.Query(context.Background(), query, now, term, limit)
	if err != nil {
		return nil, fmt.Errorf("search products: %w", err)
	}
	return scanProducts(rows)
}

// ListByCategory lista disponibles de una categoría, ordenados por nombre.
func (r *ProductRepo) ListByCategory(category string, now time.Time) ([]*entity.Product, error) {
	query := `SELECT ` + productColumns + `
		FROM products
		WHERE category = $1 AND stock > 0 AND expiration_date >= $2
		ORDER BY name`
	rows, err := r.q.Query(context.Background(), query, category, now)
	if err != nil {
		return nil, fmt.Errorf("list products by category: %w", err)
	}
	return scanProducts(rows)
}

// GetForUpdate obtiene un producto bloqueando la fila (SELECT FOR UPDATE).
// Solo tiene sentido dentro de una transacción.
func (r *ProductRepo) GetForUpdate(id string) (*entity.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE id = $1 FOR UPDATE`
	row := r.q.QueryRow(context.Background(), query, id)
	return scanProduct(row)
}

// UpdateStock fija el stock de un producto.
func (r *ProductRepo) UpdateStock(productID string, stock int) error {
	query := `UPDATE products SET stock = $2, updated_at = now() WHERE id = $1`
	_, err := r.q.Exec(context.Background(), query, productID, stock)
	if err != nil {
		return fmt.Errorf("update stock: %w", err)
	}
	return nil
}

func scanProduct(row pgx.Row) (*entity.Product, error) {
	var p entity.Product
	err := row.Scan(
		&p.ID, &p.SKU, &p.Name, &p.Category, &p.Price, &p.Stock, &p.MinimumStock, &p.RFIDCode,
		&p.ExpirationDate, &p.ManufacturingDate, &p.BatchNumber, &p.RequiresAuthorization,
		&p.IsControlled, &p.StorageConditions, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("scan product: %w", err)
	}
	return &p, nil
}

func scanProducts(rows pgx.Rows) ([]*entity.Product, error) {
	defer rows.Close()
	var out []*entity.Product
	for rows.Next() {
		var p entity.Product
		err := rows.Scan(
			&p.ID, &p.SKU, &p.Name, &p.Category, &p.Price, &p.Stock, &p.MinimumStock, &p.RFIDCode,
			&p.ExpirationDate, &p.ManufacturingDate, &p.BatchNumber, &p.RequiresAuthorization,
			&p.IsControlled, &p.StorageConditions, &p.CreatedAt, &p.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan product: %w", err)
		}
		out = append(out, &p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate products: %w", err)
	}
	return out, nil
}
