package cart_test

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	appcart "github.com/medicore/inventario-medico-api/internal/application/cart"
	"github.com/medicore/inventario-medico-api/internal/domain"
	"github.com/medicore/inventario-medico-api/internal/domain/entity"
	"github.com/medicore/inventario-medico-api/internal/domain/repository"
)

// Fakes en memoria de los puertos de persistencia para los tests del paquete.

type fakeProductRepo struct {
	products map[string]*entity.Product
	// onGetForUpdate simula escrituras concurrentes que llegan justo antes de
	// que el bloqueo de fila tome efecto.
	onGetForUpdate func(id string)
}

func newFakeProductRepo(products ...*entity.Product) *fakeProductRepo {
	r := &fakeProductRepo{products: make(map[string]*entity.Product)}
	for _, p := range products {
		r.products[p.ID] = p
	}
	return r
}

func (r *fakeProductRepo) GetByID(id string) (*entity.Product, error) {
	return r.products[id], nil
}

func (r *fakeProductRepo) ListByIDs(ids []string) ([]*entity.Product, error) {
	var out []*entity.Product
	for _, id := range ids {
		if p, ok := r.products[id]; ok {
			out = append(out, p)
		}
	}
	return out, nil
}

func (r *fakeProductRepo) ListAvailable(now time.Time) ([]*entity.Product, error) {
	var out []*entity.Product
	for _, p := range r.products {
		if p.Stock > 0 && !p.IsExpired(now) {
			out = append(out, p)
		}
	}
	return out, nil
}

func (r *fakeProductRepo) Search(term string, limit int, now time.Time) ([]*entity.Product, error) {
	return r.ListAvailable(now)
}

func (r *fakeProductRepo) ListByCategory(category string, now time.Time) ([]*entity.Product, error) {
	var out []*entity.Product
	for _, p := range r.products {
		if p.Category == category && p.Stock > 0 && !p.IsExpired(now) {
			out = append(out, p)
		}
	}
	return out, nil
}

func (r *fakeProductRepo) GetForUpdate(id string) (*entity.Product, error) {
	if r.onGetForUpdate != nil {
		r.onGetForUpdate(id)
	}
	return r.products[id], nil
}

func (r *fakeProductRepo) UpdateStock(productID string, stock int) error {
	if p, ok := r.products[productID]; ok {
		p.Stock = stock
	}
	return nil
}

type fakeCartRepo struct {
	carts map[string]*entity.Cart // por ID
}

func newFakeCartRepo(carts ...*entity.Cart) *fakeCartRepo {
	r := &fakeCartRepo{carts: make(map[string]*entity.Cart)}
	for _, c := range carts {
		r.carts[c.ID] = c
	}
	return r
}

func (r *fakeCartRepo) GetActiveByUser(userID string) (*entity.Cart, error) {
	for _, c := range r.carts {
		if c.UserID == userID && c.Status == entity.CartStatusActive {
			return c, nil
		}
	}
	return nil, nil
}

func (r *fakeCartRepo) CreateActive(cart *entity.Cart) error {
	for _, c := range r.carts {
		if c.UserID == cart.UserID && c.Status == entity.CartStatusActive {
			return domain.ErrConflict
		}
	}
	r.carts[cart.ID] = cart
	return nil
}

func (r *fakeCartRepo) Update(cart *entity.Cart) error {
	r.carts[cart.ID] = cart
	return nil
}

// AddItem solo registra la inserción: igual que el repo real, no toca el
// agregado en memoria; mantenerlo es responsabilidad del caso de uso.
func (r *fakeCartRepo) AddItem(item *entity.CartItem) error {
	if _, ok := r.carts[item.CartID]; !ok {
		return domain.ErrNotFound
	}
	return nil
}

func (r *fakeCartRepo) UpdateItem(item *entity.CartItem) error { return nil }

func (r *fakeCartRepo) RemoveItem(itemID string) error {
	for _, c := range r.carts {
		for i, item := range c.Items {
			if item.ID == itemID {
				c.Items = append(c.Items[:i], c.Items[i+1:]...)
				return nil
			}
		}
	}
	return nil
}

func (r *fakeCartRepo) ClearItems(cartID string) error {
	if c, ok := r.carts[cartID]; ok {
		c.Items = nil
	}
	return nil
}

func (r *fakeCartRepo) GetByID(id string) (*entity.Cart, error) {
	return r.carts[id], nil
}

type fakeMovementRepo struct {
	movements []*entity.ProductMovement
}

func (r *fakeMovementRepo) Create(mov *entity.ProductMovement) error {
	r.movements = append(r.movements, mov)
	return nil
}

type fakeUserRepo struct {
	users map[string]*entity.User
}

func newFakeUserRepo(users ...*entity.User) *fakeUserRepo {
	r := &fakeUserRepo{users: make(map[string]*entity.User)}
	for _, u := range users {
		r.users[u.ID] = u
	}
	return r
}

func (r *fakeUserRepo) GetByID(id string) (*entity.User, error) { return r.users[id], nil }

func (r *fakeUserRepo) FindByIdentifier(identifier string) (*entity.User, error) {
	for _, u := range r.users {
		if u.Username == identifier || u.Email == identifier || u.EmployeeID == identifier {
			return u, nil
		}
	}
	return nil, nil
}

func (r *fakeUserRepo) FindByRFID(code string) (*entity.User, error) {
	for _, u := range r.users {
		if u.RFIDCardCode == code {
			return u, nil
		}
	}
	return nil, nil
}

func (r *fakeUserRepo) UpdateLoginState(userID string, failedAttempts int, lockedUntil, lastLoginAt *time.Time) error {
	return nil
}

// fakeTxRunner ejecuta el callback sobre los fakes y simula el rollback
// restaurando el estado previo cuando el callback devuelve error.
type fakeTxRunner struct {
	carts     *fakeCartRepo
	products  *fakeProductRepo
	movements *fakeMovementRepo
}

var _ appcart.TxRunner = (*fakeTxRunner)(nil)

func (r *fakeTxRunner) Run(_ context.Context, fn func(
	carts repository.CartRepository,
	products repository.ProductRepository,
	movements repository.ProductMovementRepository,
) error) error {
	stockBefore := make(map[string]int, len(r.products.products))
	for id, p := range r.products.products {
		stockBefore[id] = p.Stock
	}
	cartStateBefore := make(map[string]entity.Cart, len(r.carts.carts))
	for id, c := range r.carts.carts {
		cartStateBefore[id] = *c
	}
	movementsBefore := len(r.movements.movements)

	if err := fn(r.carts, r.products, r.movements); err != nil {
		for id, stock := range stockBefore {
			r.products.products[id].Stock = stock
		}
		for id, c := range cartStateBefore {
			restored := c
			r.carts.carts[id] = &restored
		}
		r.movements.movements = r.movements.movements[:movementsBefore]
		return err
	}
	return nil
}

// Constructores de entidades de prueba.

func testProduct(id, name string, stock int) *entity.Product {
	return &entity.Product{
		ID:             id,
		SKU:            "SKU-" + id,
		Name:           name,
		Category:       entity.CategoryConsumibles,
		Price:          decimal.NewFromInt(150),
		Stock:          stock,
		MinimumStock:   2,
		ExpirationDate: time.Now().Add(365 * 24 * time.Hour),
	}
}

func testNurse() *entity.User {
	return &entity.User{
		ID:         "00000000-0000-0000-0000-0000000000aa",
		Username:   "mgarcia",
		FullName:   "María García",
		Role:       entity.RoleNurse,
		Department: "Urgencias",
		IsActive:   true,
	}
}

func testDoctor() *entity.User {
	return &entity.User{
		ID:         "00000000-0000-0000-0000-0000000000bb",
		Username:   "jperez",
		FullName:   "Juan Pérez",
		Role:       entity.RoleDoctor,
		Department: "Cardiología",
		IsActive:   true,
	}
}
