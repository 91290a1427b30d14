package cart

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/medicore/inventario-medico-api/internal/application/dto"
	"github.com/medicore/inventario-medico-api/internal/domain"
	domcatalog "github.com/medicore/inventario-medico-api/internal/domain/catalog"
	"github.com/medicore/inventario-medico-api/internal/domain/entity"
	"github.com/medicore/inventario-medico-api/internal/domain/repository"
)

// CartUseCase gestiona el carrito de dispensación activo de cada usuario:
// agregar, actualizar, eliminar líneas y consultar la vista. Los fallos de
// validación se devuelven como CartResponse con Success=false; el error solo
// señala fallos de infraestructura.
type CartUseCase struct {
	cartRepo    repository.CartRepository
	productRepo repository.ProductRepository
	userRepo    repository.UserRepository
	log         zerolog.Logger
}

// NewCartUseCase construye el caso de uso del carrito.
func NewCartUseCase(
	cartRepo repository.CartRepository,
	productRepo repository.ProductRepository,
	userRepo repository.UserRepository,
	log zerolog.Logger,
) *CartUseCase {
	return &CartUseCase{
		cartRepo:    cartRepo,
		productRepo: productRepo,
		userRepo:    userRepo,
		log:         log,
	}
}

func failure(message string) *dto.CartResponse {
	return &dto.CartResponse{Success: false, Message: message}
}

// AddItem agrega un producto al carrito activo del usuario, creándolo si no
// existe. Si el producto ya está en el carrito se suma la cantidad a la línea
// existente y se validan juntas. El precio unitario se copia del producto al
// momento de agregar.
func (uc *CartUseCase) AddItem(userID string, req dto.AddToCartRequest) (*dto.CartResponse, error) {
	now := time.Now()

	user, err := uc.userRepo.GetByID(userID)
	if err != nil {
		return nil, fmt.Errorf("obtener usuario: %w", err)
	}
	if user == nil || !user.IsActive {
		return failure("Usuario no válido o inactivo"), nil
	}

	product, err := uc.productRepo.GetByID(req.ProductID)
	if err != nil {
		return nil, fmt.Errorf("obtener producto: %w", err)
	}
	if product == nil {
		return failure("Producto no encontrado"), nil
	}

	if product.IsControlled && !domcatalog.CanDispenseControlled(user.Role) {
		uc.log.Warn().Str("user_id", userID).Str("role", user.Role).Str("product_id", product.ID).
			Msg("intento de agregar producto controlado sin permisos")
		return failure(fmt.Sprintf(
			"No tiene permisos para solicitar '%s' (producto controlado). Solo médicos, farmacéuticos y super administradores.",
			product.Name)), nil
	}
	if product.RequiresAuthorization && !domcatalog.CanRequestAuthorized(user.Role) {
		uc.log.Warn().Str("user_id", userID).Str("role", user.Role).Str("product_id", product.ID).
			Msg("intento de agregar producto con autorización especial sin permisos")
		return failure(fmt.Sprintf("No tiene permisos para solicitar '%s' que requiere autorización especial.",
			product.Name)), nil
	}

	cart, err := uc.getOrCreateActiveCart(userID, now)
	if err != nil {
		return nil, err
	}

	// Si el producto ya está en el carrito, la cantidad efectiva a validar es
	// la suma de la existente más la solicitada.
	existing := findItemByProduct(cart, req.ProductID)
	effectiveQuantity := req.Quantity
	if existing != nil {
		effectiveQuantity += existing.Quantity
	}

	result := ValidateProduct(product, effectiveQuantity, now)
	if !result.OK {
		return failure(result.Message), nil
	}
	for _, w := range result.Warnings {
		uc.log.Warn().Str("user_id", userID).Str("product_id", product.ID).Msg(w)
	}

	if existing != nil {
		existing.Quantity = effectiveQuantity
		existing.ItemNotes = concatNotes(existing.ItemNotes, req.ItemNotes)
		if err := uc.cartRepo.UpdateItem(existing); err != nil {
			return nil, fmt.Errorf("actualizar item del carrito: %w", err)
		}
	} else {
		item := &entity.CartItem{
			ID:        uuid.New().String(),
			CartID:    cart.ID,
			ProductID: product.ID,
			Quantity:  req.Quantity,
			UnitPrice: product.Price,
			AddedAt:   now,
			ItemNotes: req.ItemNotes,
		}
		if err := uc.cartRepo.AddItem(item); err != nil {
			return nil, fmt.Errorf("agregar item al carrito: %w", err)
		}
		cart.Items = append(cart.Items, item)
	}

	if req.Purpose != "" {
		cart.Purpose = req.Purpose
	}
	if req.TargetDepartment != "" {
		cart.TargetDepartment = req.TargetDepartment
	}
	if req.Priority != "" && entity.IsValidPriority(req.Priority) {
		cart.Priority = req.Priority
	}
	cart.LastModifiedAt = now
	if err := uc.cartRepo.Update(cart); err != nil {
		return nil, fmt.Errorf("actualizar carrito: %w", err)
	}

	view, err := uc.buildView(cart, now)
	if err != nil {
		return nil, err
	}

	uc.log.Info().Str("user_id", userID).Str("cart_id", cart.ID).
		Str("product_id", product.ID).Int("quantity", req.Quantity).
		Msg("producto agregado al carrito")

	return &dto.CartResponse{
		Success: true,
		Message: "Producto agregado al carrito correctamente",
		Cart:    view,
	}, nil
}

// UpdateItemQuantity cambia la cantidad de una línea del carrito activo.
// Cantidad cero o negativa equivale a eliminar la línea.
func (uc *CartUseCase) UpdateItemQuantity(userID, itemID string, newQuantity int) (*dto.CartResponse, error) {
	if newQuantity <= 0 {
		return uc.RemoveItem(userID, itemID)
	}

	now := time.Now()
	cart, err := uc.cartRepo.GetActiveByUser(userID)
	if err != nil {
		return nil, fmt.Errorf("obtener carrito activo: %w", err)
	}
	if cart == nil {
		return failure("No se encontró un carrito activo"), nil
	}

	item := findItemByID(cart, itemID)
	if item == nil {
		return failure("Item no encontrado en el carrito"), nil
	}

	product, err := uc.productRepo.GetByID(item.ProductID)
	if err != nil {
		return nil, fmt.Errorf("obtener producto: %w", err)
	}
	if product == nil {
		return failure("Producto no encontrado"), nil
	}

	result := ValidateProduct(product, newQuantity, now)
	if !result.OK {
		return failure(result.Message), nil
	}
	for _, w := range result.Warnings {
		uc.log.Warn().Str("user_id", userID).Str("product_id", product.ID).Msg(w)
	}

	item.Quantity = newQuantity
	if err := uc.cartRepo.UpdateItem(item); err != nil {
		return nil, fmt.Errorf("actualizar item del carrito: %w", err)
	}

	cart.LastModifiedAt = now
	if err := uc.cartRepo.Update(cart); err != nil {
		return nil, fmt.Errorf("actualizar carrito: %w", err)
	}

	view, err := uc.buildView(cart, now)
	if err != nil {
		return nil, err
	}

	return &dto.CartResponse{
		Success: true,
		Message: "Cantidad actualizada correctamente",
		Cart:    view,
	}, nil
}

// RemoveItem elimina una línea del carrito activo.
func (uc *CartUseCase) RemoveItem(userID, itemID string) (*dto.CartResponse, error) {
	now := time.Now()
	cart, err := uc.cartRepo.GetActiveByUser(userID)
	if err != nil {
		return nil, fmt.Errorf("obtener carrito activo: %w", err)
	}
	if cart == nil {
		return failure("No se encontró un carrito activo"), nil
	}

	item := findItemByID(cart, itemID)
	if item == nil {
		return failure("Item no encontrado en el carrito"), nil
	}

	if err := uc.cartRepo.RemoveItem(itemID); err != nil {
		return nil, fmt.Errorf("eliminar item del carrito: %w", err)
	}
	removeItemFromCart(cart, itemID)

	cart.LastModifiedAt = now
	if err := uc.cartRepo.Update(cart); err != nil {
		return nil, fmt.Errorf("actualizar carrito: %w", err)
	}

	view, err := uc.buildView(cart, now)
	if err != nil {
		return nil, err
	}

	return &dto.CartResponse{
		Success: true,
		Message: "Item eliminado del carrito correctamente",
		Cart:    view,
	}, nil
}

// ClearCart elimina todas las líneas del carrito activo.
func (uc *CartUseCase) ClearCart(userID string) (*dto.CartResponse, error) {
	now := time.Now()
	cart, err := uc.cartRepo.GetActiveByUser(userID)
	if err != nil {
		return nil, fmt.Errorf("obtener carrito activo: %w", err)
	}
	if cart == nil {
		return failure("No se encontró un carrito activo"), nil
	}

	if err := uc.cartRepo.ClearItems(cart.ID); err != nil {
		return nil, fmt.Errorf("limpiar carrito: %w", err)
	}
	cart.Items = nil

	cart.LastModifiedAt = now
	if err := uc.cartRepo.Update(cart); err != nil {
		return nil, fmt.Errorf("actualizar carrito: %w", err)
	}

	uc.log.Info().Str("user_id", userID).Str("cart_id", cart.ID).Msg("carrito limpiado")

	return &dto.CartResponse{
		Success: true,
		Message: "Carrito limpiado correctamente",
		Cart:    BuildCartView(cart, nil, now),
	}, nil
}

// GetActiveCart devuelve la vista del carrito activo del usuario, o una vista
// vacía si no existe.
func (uc *CartUseCase) GetActiveCart(userID string) (*dto.CartDTO, error) {
	now := time.Now()
	cart, err := uc.cartRepo.GetActiveByUser(userID)
	if err != nil {
		return nil, fmt.Errorf("obtener carrito activo: %w", err)
	}
	if cart == nil {
		return EmptyCartView(), nil
	}
	return uc.buildView(cart, now)
}

// getOrCreateActiveCart devuelve el carrito activo del usuario, creando uno si
// no existe. Si dos peticiones crean a la vez, el índice único parcial deja un
// solo ganador y el perdedor lo relee.
func (uc *CartUseCase) getOrCreateActiveCart(userID string, now time.Time) (*entity.Cart, error) {
	cart, err := uc.cartRepo.GetActiveByUser(userID)
	if err != nil {
		return nil, fmt.Errorf("obtener carrito activo: %w", err)
	}
	if cart != nil {
		return cart, nil
	}

	cart = &entity.Cart{
		ID:             uuid.New().String(),
		UserID:         userID,
		Status:         entity.CartStatusActive,
		Priority:       entity.PriorityNormal,
		CreatedAt:      now,
		LastModifiedAt: now,
	}
	if err := uc.cartRepo.CreateActive(cart); err != nil {
		if errors.Is(err, domain.ErrConflict) {
			winner, rerr := uc.cartRepo.GetActiveByUser(userID)
			if rerr != nil {
				return nil, fmt.Errorf("releer carrito activo: %w", rerr)
			}
			if winner != nil {
				return winner, nil
			}
		}
		return nil, fmt.Errorf("crear carrito: %w", err)
	}

	uc.log.Info().Str("user_id", userID).Str("cart_id", cart.ID).Msg("carrito creado")
	return cart, nil
}

// buildView carga los productos referidos por las líneas y arma la vista.
func (uc *CartUseCase) buildView(cart *entity.Cart, now time.Time) (*dto.CartDTO, error) {
	products, err := loadProductsWith(uc.productRepo, cart)
	if err != nil {
		return nil, err
	}
	return BuildCartView(cart, products, now), nil
}

func findItemByProduct(cart *entity.Cart, productID string) *entity.CartItem {
	for _, item := range cart.Items {
		if item.ProductID == productID {
			return item
		}
	}
	return nil
}

func findItemByID(cart *entity.Cart, itemID string) *entity.CartItem {
	for _, item := range cart.Items {
		if item.ID == itemID {
			return item
		}
	}
	return nil
}

func removeItemFromCart(cart *entity.Cart, itemID string) {
	for i, item := range cart.Items {
		if item.ID == itemID {
			cart.Items = append(cart.Items[:i], cart.Items[i+1:]...)
			return
		}
	}
}

// concatNotes concatena notas nuevas a las existentes separadas por ". ".
func concatNotes(existing, added string) string {
	if added == "" {
		return existing
	}
	if existing == "" {
		return added
	}
	return existing + ". " + added
}
