package cart_test

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appcart "github.com/medicore/inventario-medico-api/internal/application/cart"
	"github.com/medicore/inventario-medico-api/internal/application/dto"
	"github.com/medicore/inventario-medico-api/internal/domain/entity"
)

type dispenseFixture struct {
	uc       *appcart.DispenseUseCase
	carts    *fakeCartRepo
	products *fakeProductRepo
	moves    *fakeMovementRepo
	user     *entity.User
}

// newDispenseFixture arma un carrito activo del usuario con una línea por
// producto (cantidades paralelas a products).
func newDispenseFixture(t *testing.T, user *entity.User, products []*entity.Product, quantities []int) *dispenseFixture {
	t.Helper()
	require.Equal(t, len(products), len(quantities))

	now := time.Now()
	cart := &entity.Cart{
		ID:             "cart-1",
		UserID:         user.ID,
		Status:         entity.CartStatusActive,
		Priority:       entity.PriorityNormal,
		CreatedAt:      now,
		LastModifiedAt: now,
	}
	for i, p := range products {
		cart.Items = append(cart.Items, &entity.CartItem{
			ID:        "item-" + p.ID,
			CartID:    cart.ID,
			ProductID: p.ID,
			Quantity:  quantities[i],
			UnitPrice: p.Price,
			AddedAt:   now,
		})
	}

	carts := newFakeCartRepo(cart)
	productRepo := newFakeProductRepo(products...)
	moves := &fakeMovementRepo{}
	runner := &fakeTxRunner{carts: carts, products: productRepo, movements: moves}
	uc := appcart.NewDispenseUseCase(runner, carts, productRepo, newFakeUserRepo(user), zerolog.Nop())

	return &dispenseFixture{uc: uc, carts: carts, products: productRepo, moves: moves, user: user}
}

func TestDispense_Exitoso(t *testing.T) {
	user := testNurse()
	p1 := testProduct("p1", "Jeringa 5ml", 10)
	p2 := testProduct("p2", "Gasas", 8)
	f := newDispenseFixture(t, user, []*entity.Product{p1, p2}, []int{3, 2})

	out, err := f.uc.DispenseActiveCart(context.Background(), user.ID, dto.DispenseCartRequest{})
	require.NoError(t, err)

	assert.True(t, out.Success)
	assert.Contains(t, out.Message, "Carrito dispensado exitosamente")

	// Stock descontado.
	assert.Equal(t, 7, p1.Stock)
	assert.Equal(t, 6, p2.Stock)

	// Carrito confirmado.
	cart, _ := f.carts.GetByID("cart-1")
	assert.Equal(t, entity.CartStatusConfirmed, cart.Status)
	require.NotNil(t, cart.ConfirmedAt)

	// Un movimiento StockOut por línea, con delta negativo y costo capturado.
	require.Len(t, f.moves.movements, 2)
	for _, mov := range f.moves.movements {
		assert.Equal(t, entity.MovementStockOut, mov.Type)
		assert.Negative(t, mov.Quantity)
		assert.Equal(t, user.ID, mov.UserID)
		assert.False(t, mov.IsAutomated)
		assert.True(t, mov.UnitCost.Equal(decimal.NewFromInt(150)))
	}
}

// Sin reason ni department en el request, el movimiento usa los defaults: la
// razón nombra al carrito y el departamento es el del usuario.
func TestDispense_DefaultsDeMovimiento(t *testing.T) {
	user := testNurse()
	p1 := testProduct("p1", "Jeringa 5ml", 10)
	f := newDispenseFixture(t, user, []*entity.Product{p1}, []int{1})

	out, err := f.uc.DispenseActiveCart(context.Background(), user.ID, dto.DispenseCartRequest{})
	require.NoError(t, err)
	require.True(t, out.Success)

	require.Len(t, f.moves.movements, 1)
	mov := f.moves.movements[0]
	assert.Equal(t, "Dispensación desde carrito #cart-1", mov.Reason)
	assert.Equal(t, "Urgencias", mov.Department)
	assert.Equal(t, "Carrito #cart-1", mov.Notes)
}

// Las notas del movimiento encadenan carrito origen, notas de la línea y
// notas del request, separadas por ". ".
func TestDispense_NotasDeMovimiento(t *testing.T) {
	user := testNurse()
	p1 := testProduct("p1", "Jeringa 5ml", 10)
	f := newDispenseFixture(t, user, []*entity.Product{p1}, []int{1})
	cart, _ := f.carts.GetByID("cart-1")
	cart.Items[0].ItemNotes = "Sala 3"

	out, err := f.uc.DispenseActiveCart(context.Background(), user.ID, dto.DispenseCartRequest{
		Notes: "Entrega urgente",
	})
	require.NoError(t, err)
	require.True(t, out.Success)

	require.Len(t, f.moves.movements, 1)
	assert.Equal(t, "Carrito #cart-1. Sala 3. Entrega urgente", f.moves.movements[0].Notes)
}

func TestDispense_RequestSobreescribeDefaults(t *testing.T) {
	user := testNurse()
	p1 := testProduct("p1", "Jeringa 5ml", 10)
	f := newDispenseFixture(t, user, []*entity.Product{p1}, []int{1})

	out, err := f.uc.DispenseActiveCart(context.Background(), user.ID, dto.DispenseCartRequest{
		Reason:     "Cirugía programada",
		Department: "Quirófano 2",
	})
	require.NoError(t, err)
	require.True(t, out.Success)

	mov := f.moves.movements[0]
	assert.Equal(t, "Cirugía programada", mov.Reason)
	assert.Equal(t, "Quirófano 2", mov.Department)

	cart, _ := f.carts.GetByID("cart-1")
	assert.Equal(t, "Cirugía programada", cart.Purpose)
	assert.Equal(t, "Quirófano 2", cart.TargetDepartment)
}

// Atomicidad: si una de tres líneas pierde stock entre la vista y el bloqueo
// de fila, la re-validación sobre la fila viva la detecta, ninguna línea se
// dispensa y nada cambia.
func TestDispense_TodoONada(t *testing.T) {
	user := testNurse()
	p1 := testProduct("p1", "Jeringa 5ml", 10)
	p2 := testProduct("p2", "Gasas", 2)
	p3 := testProduct("p3", "Guantes", 20)
	f := newDispenseFixture(t, user, []*entity.Product{p1, p2, p3}, []int{3, 2, 5})

	// Carrera: otro proceso consume las gasas después de la vista previa pero
	// antes de que el bloqueo de fila las alcance.
	f.products.onGetForUpdate = func(id string) {
		if id == "p2" {
			p2.Stock = 1
		}
	}

	out, err := f.uc.DispenseActiveCart(context.Background(), user.ID, dto.DispenseCartRequest{})
	require.NoError(t, err)

	assert.False(t, out.Success)
	assert.Contains(t, out.Message, "Error al dispensar")
	assert.Contains(t, out.Message, "Gasas")

	// Rollback total: la primera línea ya se había descontado y vuelve atrás;
	// ni stock, ni movimientos, ni estado del carrito cambian.
	assert.Equal(t, 10, p1.Stock)
	assert.Equal(t, 20, p3.Stock)
	assert.Empty(t, f.moves.movements)
	cart, _ := f.carts.GetByID("cart-1")
	assert.Equal(t, entity.CartStatusActive, cart.Status)
	assert.Nil(t, cart.ConfirmedAt)
}

func TestDispense_SinCarritoActivo(t *testing.T) {
	user := testNurse()
	carts := newFakeCartRepo()
	products := newFakeProductRepo()
	moves := &fakeMovementRepo{}
	runner := &fakeTxRunner{carts: carts, products: products, movements: moves}
	uc := appcart.NewDispenseUseCase(runner, carts, products, newFakeUserRepo(user), zerolog.Nop())

	out, err := uc.DispenseActiveCart(context.Background(), user.ID, dto.DispenseCartRequest{})
	require.NoError(t, err)
	assert.False(t, out.Success)
	assert.Equal(t, "No hay carrito activo o está vacío", out.Message)
}

func TestDispense_CarritoConProblemasNoDispensa(t *testing.T) {
	user := testNurse()
	expired := testProduct("p1", "Suero vencido", 10)
	expired.ExpirationDate = time.Now().Add(-24 * time.Hour)
	f := newDispenseFixture(t, user, []*entity.Product{expired}, []int{1})

	out, err := f.uc.DispenseActiveCart(context.Background(), user.ID, dto.DispenseCartRequest{})
	require.NoError(t, err)

	assert.False(t, out.Success)
	assert.Contains(t, out.Message, "No se puede dispensar el carrito")
	assert.Contains(t, out.Message, "1 producto(s) expirado(s)")
	assert.Equal(t, 10, expired.Stock)
	assert.Empty(t, f.moves.movements)
}

// Un usuario bloqueado o inactivo no dispensa aunque el carrito esté sano.
func TestDispense_UsuarioSinAcceso(t *testing.T) {
	user := testNurse()
	user.IsActive = false
	p1 := testProduct("p1", "Jeringa 5ml", 10)
	f := newDispenseFixture(t, user, []*entity.Product{p1}, []int{1})

	out, err := f.uc.DispenseActiveCart(context.Background(), user.ID, dto.DispenseCartRequest{})
	require.NoError(t, err)
	assert.False(t, out.Success)
	assert.Equal(t, 10, p1.Stock)
}

func TestCanUserDispense(t *testing.T) {
	user := testNurse()
	p1 := testProduct("p1", "Jeringa 5ml", 10)
	f := newDispenseFixture(t, user, []*entity.Product{p1}, []int{3})

	ok, summary, err := f.uc.CanUserDispense(user.ID)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "Todos los items listos para dispensación", summary)

	// El sondeo no tiene efectos.
	assert.Equal(t, 10, p1.Stock)
	assert.Empty(t, f.moves.movements)

	p1.Stock = 1
	ok, summary, err = f.uc.CanUserDispense(user.ID)
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Contains(t, summary, "stock insuficiente")
}
