package cart_test

import (
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appcart "github.com/medicore/inventario-medico-api/internal/application/cart"
	"github.com/medicore/inventario-medico-api/internal/application/dto"
	"github.com/medicore/inventario-medico-api/internal/domain/entity"
)

func newCartUseCase(carts *fakeCartRepo, products *fakeProductRepo, users *fakeUserRepo) *appcart.CartUseCase {
	return appcart.NewCartUseCase(carts, products, users, zerolog.Nop())
}

func TestAddItem_CreaCarritoYAgrega(t *testing.T) {
	user := testNurse()
	product := testProduct("p1", "Jeringa 5ml", 10)
	uc := newCartUseCase(newFakeCartRepo(), newFakeProductRepo(product), newFakeUserRepo(user))

	out, err := uc.AddItem(user.ID, dto.AddToCartRequest{
		ProductID: "p1", Quantity: 2, Purpose: "Curación", TargetDepartment: "Urgencias",
	})
	require.NoError(t, err)

	assert.True(t, out.Success)
	assert.Equal(t, "Producto agregado al carrito correctamente", out.Message)
	require.NotNil(t, out.Cart)
	assert.Equal(t, 1, out.Cart.TotalItems)
	assert.Equal(t, 2, out.Cart.TotalQuantity)
	assert.Equal(t, "Curación", out.Cart.Purpose)
	assert.Equal(t, entity.PriorityNormal, out.Cart.Priority)
	assert.True(t, out.Cart.CanBeConfirmed)
	assert.Equal(t, "300", out.Cart.TotalValue.String())
}

// Agregar el mismo producto dos veces suma cantidades en una sola línea y
// concatena las notas.
func TestAddItem_MismoProductoFusionaLineas(t *testing.T) {
	user := testNurse()
	product := testProduct("p1", "Jeringa 5ml", 10)
	uc := newCartUseCase(newFakeCartRepo(), newFakeProductRepo(product), newFakeUserRepo(user))

	_, err := uc.AddItem(user.ID, dto.AddToCartRequest{ProductID: "p1", Quantity: 2, ItemNotes: "Sala 1"})
	require.NoError(t, err)
	out, err := uc.AddItem(user.ID, dto.AddToCartRequest{ProductID: "p1", Quantity: 3, ItemNotes: "Sala 2"})
	require.NoError(t, err)

	require.Equal(t, 1, out.Cart.TotalItems, "debe fusionarse en una sola línea")
	assert.Equal(t, 5, out.Cart.TotalQuantity)
	assert.Equal(t, "Sala 1. Sala 2", out.Cart.Items[0].ItemNotes)
}

// Cada agregado produce exactamente una línea en el agregado: el caso de uso
// mantiene cart.Items y el repo solo persiste, sin duplicar.
func TestAddItem_UnaLineaPorProducto(t *testing.T) {
	user := testNurse()
	products := newFakeProductRepo(testProduct("p1", "Jeringa 5ml", 10), testProduct("p2", "Gasas", 8))
	uc := newCartUseCase(newFakeCartRepo(), products, newFakeUserRepo(user))

	out, err := uc.AddItem(user.ID, dto.AddToCartRequest{ProductID: "p1", Quantity: 2})
	require.NoError(t, err)
	require.Len(t, out.Cart.Items, 1)

	out, err = uc.AddItem(user.ID, dto.AddToCartRequest{ProductID: "p2", Quantity: 1})
	require.NoError(t, err)
	require.Len(t, out.Cart.Items, 2)

	view, err := uc.GetActiveCart(user.ID)
	require.NoError(t, err)
	assert.Len(t, view.Items, 2)
	assert.Equal(t, 3, view.TotalQuantity)
}

// La cantidad fusionada se valida contra el stock: 3+3 sobre stock 5 se rechaza
// y el carrito queda como estaba.
func TestAddItem_FusionExcedeStock(t *testing.T) {
	user := testNurse()
	product := testProduct("p1", "Guantes", 5)
	uc := newCartUseCase(newFakeCartRepo(), newFakeProductRepo(product), newFakeUserRepo(user))

	_, err := uc.AddItem(user.ID, dto.AddToCartRequest{ProductID: "p1", Quantity: 3})
	require.NoError(t, err)
	out, err := uc.AddItem(user.ID, dto.AddToCartRequest{ProductID: "p1", Quantity: 3})
	require.NoError(t, err)

	assert.False(t, out.Success)
	assert.Contains(t, out.Message, "Stock insuficiente")

	view, err := uc.GetActiveCart(user.ID)
	require.NoError(t, err)
	assert.Equal(t, 3, view.TotalQuantity, "la línea no debe cambiar tras el rechazo")
}

func TestAddItem_ProductoInexistente(t *testing.T) {
	user := testNurse()
	uc := newCartUseCase(newFakeCartRepo(), newFakeProductRepo(), newFakeUserRepo(user))

	out, err := uc.AddItem(user.ID, dto.AddToCartRequest{ProductID: "nope", Quantity: 1})
	require.NoError(t, err)
	assert.False(t, out.Success)
	assert.Equal(t, "Producto no encontrado", out.Message)
}

// Una enfermera no puede agregar productos controlados; un médico sí.
func TestAddItem_ProductoControladoSegunRol(t *testing.T) {
	nurse := testNurse()
	doctor := testDoctor()
	controlled := testProduct("p1", "Morfina 10mg", 10)
	controlled.IsControlled = true
	products := newFakeProductRepo(controlled)
	uc := newCartUseCase(newFakeCartRepo(), products, newFakeUserRepo(nurse, doctor))

	out, err := uc.AddItem(nurse.ID, dto.AddToCartRequest{ProductID: "p1", Quantity: 1})
	require.NoError(t, err)
	assert.False(t, out.Success)
	assert.Contains(t, out.Message, "producto controlado")

	out, err = uc.AddItem(doctor.ID, dto.AddToCartRequest{ProductID: "p1", Quantity: 1})
	require.NoError(t, err)
	assert.True(t, out.Success)
}

// Technician no puede solicitar productos con autorización especial.
func TestAddItem_AutorizacionEspecialSegunRol(t *testing.T) {
	tech := testNurse()
	tech.Role = entity.RoleTechnician
	authorized := testProduct("p1", "Implante de rodilla", 3)
	authorized.RequiresAuthorization = true
	uc := newCartUseCase(newFakeCartRepo(), newFakeProductRepo(authorized), newFakeUserRepo(tech))

	out, err := uc.AddItem(tech.ID, dto.AddToCartRequest{ProductID: "p1", Quantity: 1})
	require.NoError(t, err)
	assert.False(t, out.Success)
	assert.Contains(t, out.Message, "autorización especial")
}

func TestUpdateItemQuantity_CambiaCantidad(t *testing.T) {
	user := testNurse()
	product := testProduct("p1", "Jeringa 5ml", 10)
	uc := newCartUseCase(newFakeCartRepo(), newFakeProductRepo(product), newFakeUserRepo(user))

	out, err := uc.AddItem(user.ID, dto.AddToCartRequest{ProductID: "p1", Quantity: 2})
	require.NoError(t, err)
	itemID := out.Cart.Items[0].ID

	out, err = uc.UpdateItemQuantity(user.ID, itemID, 7)
	require.NoError(t, err)
	assert.True(t, out.Success)
	assert.Equal(t, 7, out.Cart.TotalQuantity)
}

// Cantidad cero equivale a eliminar la línea.
func TestUpdateItemQuantity_CeroEliminaLinea(t *testing.T) {
	user := testNurse()
	product := testProduct("p1", "Jeringa 5ml", 10)
	uc := newCartUseCase(newFakeCartRepo(), newFakeProductRepo(product), newFakeUserRepo(user))

	out, err := uc.AddItem(user.ID, dto.AddToCartRequest{ProductID: "p1", Quantity: 2})
	require.NoError(t, err)
	itemID := out.Cart.Items[0].ID

	out, err = uc.UpdateItemQuantity(user.ID, itemID, 0)
	require.NoError(t, err)
	assert.True(t, out.Success)
	assert.Equal(t, "Item eliminado del carrito correctamente", out.Message)
	assert.True(t, out.Cart.IsEmpty)
}

func TestUpdateItemQuantity_ExcedeStock(t *testing.T) {
	user := testNurse()
	product := testProduct("p1", "Guantes", 5)
	uc := newCartUseCase(newFakeCartRepo(), newFakeProductRepo(product), newFakeUserRepo(user))

	out, err := uc.AddItem(user.ID, dto.AddToCartRequest{ProductID: "p1", Quantity: 2})
	require.NoError(t, err)
	itemID := out.Cart.Items[0].ID

	out, err = uc.UpdateItemQuantity(user.ID, itemID, 6)
	require.NoError(t, err)
	assert.False(t, out.Success)
	assert.Contains(t, out.Message, "Stock insuficiente")
}

func TestRemoveItem_ItemInexistente(t *testing.T) {
	user := testNurse()
	product := testProduct("p1", "Jeringa 5ml", 10)
	uc := newCartUseCase(newFakeCartRepo(), newFakeProductRepo(product), newFakeUserRepo(user))

	_, err := uc.AddItem(user.ID, dto.AddToCartRequest{ProductID: "p1", Quantity: 1})
	require.NoError(t, err)

	out, err := uc.RemoveItem(user.ID, "item-fantasma")
	require.NoError(t, err)
	assert.False(t, out.Success)
	assert.Equal(t, "Item no encontrado en el carrito", out.Message)
}

func TestClearCart_VaciaElCarrito(t *testing.T) {
	user := testNurse()
	products := newFakeProductRepo(testProduct("p1", "Jeringa 5ml", 10), testProduct("p2", "Gasas", 8))
	uc := newCartUseCase(newFakeCartRepo(), products, newFakeUserRepo(user))

	_, err := uc.AddItem(user.ID, dto.AddToCartRequest{ProductID: "p1", Quantity: 1})
	require.NoError(t, err)
	_, err = uc.AddItem(user.ID, dto.AddToCartRequest{ProductID: "p2", Quantity: 2})
	require.NoError(t, err)

	out, err := uc.ClearCart(user.ID)
	require.NoError(t, err)
	assert.True(t, out.Success)
	assert.True(t, out.Cart.IsEmpty)
	assert.Equal(t, "Carrito vacío", out.Cart.StatusSummary)
}

// Sin carrito activo la vista es vacía, no un error.
func TestGetActiveCart_SinCarritoDevuelveVistaVacia(t *testing.T) {
	user := testNurse()
	uc := newCartUseCase(newFakeCartRepo(), newFakeProductRepo(), newFakeUserRepo(user))

	view, err := uc.GetActiveCart(user.ID)
	require.NoError(t, err)
	assert.True(t, view.IsEmpty)
	assert.Equal(t, entity.CartStatusActive, view.Status)
	assert.Empty(t, view.Items)
}

// La vista refleja el estado vivo del producto: si el stock cayó por debajo de
// lo pedido después de agregar, la línea deja de ser dispensable.
func TestGetActiveCart_FlagsContraEstadoVivo(t *testing.T) {
	user := testNurse()
	product := testProduct("p1", "Guantes", 10)
	products := newFakeProductRepo(product)
	uc := newCartUseCase(newFakeCartRepo(), products, newFakeUserRepo(user))

	_, err := uc.AddItem(user.ID, dto.AddToCartRequest{ProductID: "p1", Quantity: 8})
	require.NoError(t, err)

	// Otro proceso consumió stock.
	product.Stock = 3

	view, err := uc.GetActiveCart(user.ID)
	require.NoError(t, err)
	require.Len(t, view.Items, 1)
	assert.False(t, view.Items[0].HasSufficientStock)
	assert.False(t, view.Items[0].CanBeDispensed)
	assert.False(t, view.CanBeConfirmed)
	assert.Equal(t, 1, view.InsufficientStockCount)
	assert.Contains(t, view.StatusSummary, "Requiere atención")
	assert.Contains(t, view.StatusSummary, "1 producto(s) con stock insuficiente")
}

// Emergency viaja al carrito; prioridad inválida se ignora.
func TestAddItem_Prioridad(t *testing.T) {
	user := testNurse()
	product := testProduct("p1", "Jeringa 5ml", 10)
	uc := newCartUseCase(newFakeCartRepo(), newFakeProductRepo(product), newFakeUserRepo(user))

	out, err := uc.AddItem(user.ID, dto.AddToCartRequest{ProductID: "p1", Quantity: 1, Priority: entity.PriorityEmergency})
	require.NoError(t, err)
	assert.Equal(t, entity.PriorityEmergency, out.Cart.Priority)

	out, err = uc.AddItem(user.ID, dto.AddToCartRequest{ProductID: "p1", Quantity: 1, Priority: "Whenever"})
	require.NoError(t, err)
	assert.Equal(t, entity.PriorityEmergency, out.Cart.Priority, "prioridad desconocida no debe aplicarse")
}

// El precio unitario queda congelado al momento de agregar.
func TestAddItem_PrecioCapturado(t *testing.T) {
	user := testNurse()
	product := testProduct("p1", "Jeringa 5ml", 10)
	uc := newCartUseCase(newFakeCartRepo(), newFakeProductRepo(product), newFakeUserRepo(user))

	out, err := uc.AddItem(user.ID, dto.AddToCartRequest{ProductID: "p1", Quantity: 2})
	require.NoError(t, err)
	require.True(t, out.Success)

	product.Price = product.Price.Add(product.Price) // el precio del catálogo cambia

	view, err := uc.GetActiveCart(user.ID)
	require.NoError(t, err)
	assert.Equal(t, "150", view.Items[0].UnitPrice.String())
	assert.Equal(t, "300", view.TotalValue.String())
}
