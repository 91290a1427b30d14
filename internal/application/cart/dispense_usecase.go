package cart

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/medicore/inventario-medico-api/internal/application/dto"
	"github.com/medicore/inventario-medico-api/internal/domain/entity"
	"github.com/medicore/inventario-medico-api/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción de base de datos,
// entregándole repositorios ligados a esa transacción. Si la función devuelve
// error la transacción se revierte; si no, se confirma.
type TxRunner interface {
	Run(ctx context.Context, fn func(
		carts repository.CartRepository,
		products repository.ProductRepository,
		movements repository.ProductMovementRepository,
	) error) error
}

// errDispenseAborted marca un rechazo de negocio dentro de la transacción:
// fuerza el rollback pero el caller lo traduce a una respuesta estructurada.
var errDispenseAborted = errors.New("dispensación abortada")

// DispenseUseCase el motor de dispensación: convierte el carrito activo en una
// salida de stock atómica con registro de auditoría. Todo o nada: si una sola
// línea falla la re-validación, ningún stock cambia.
type DispenseUseCase struct {
	txRunner    TxRunner
	cartRepo    repository.CartRepository
	productRepo repository.ProductRepository
	userRepo    repository.UserRepository
	log         zerolog.Logger
}

// NewDispenseUseCase construye el motor de dispensación.
func NewDispenseUseCase(
	txRunner TxRunner,
	cartRepo repository.CartRepository,
	productRepo repository.ProductRepository,
	userRepo repository.UserRepository,
	log zerolog.Logger,
) *DispenseUseCase {
	return &DispenseUseCase{
		txRunner:    txRunner,
		cartRepo:    cartRepo,
		productRepo: productRepo,
		userRepo:    userRepo,
		log:         log,
	}
}

// DispenseActiveCart dispensa el carrito activo del usuario en una sola
// transacción: re-valida cada línea contra la fila viva del producto
// (bloqueada con FOR UPDATE), descuenta stock, registra un movimiento
// StockOut por línea y confirma el carrito. Cualquier fallo revierte todo.
func (uc *DispenseUseCase) DispenseActiveCart(ctx context.Context, userID string, req dto.DispenseCartRequest) (*dto.CartResponse, error) {
	now := time.Now()

	user, err := uc.userRepo.GetByID(userID)
	if err != nil {
		return nil, fmt.Errorf("obtener usuario: %w", err)
	}
	if user == nil || !user.CanAccess(now) {
		return failure("Usuario no válido o sin acceso para dispensar"), nil
	}

	var resp *dto.CartResponse

	err = uc.txRunner.Run(ctx, func(
		carts repository.CartRepository,
		products repository.ProductRepository,
		movements repository.ProductMovementRepository,
	) error {
		cart, err := carts.GetActiveByUser(userID)
		if err != nil {
			return fmt.Errorf("obtener carrito activo: %w", err)
		}
		if cart == nil || cart.IsEmpty() {
			resp = failure("No hay carrito activo o está vacío")
			return errDispenseAborted
		}

		snapshot, err := loadProductsWith(products, cart)
		if err != nil {
			return err
		}
		view := BuildCartView(cart, snapshot, now)
		if !view.CanBeConfirmed {
			resp = failure("No se puede dispensar el carrito: " + view.StatusSummary)
			return errDispenseAborted
		}

		reason := req.Reason
		if reason == "" {
			reason = fmt.Sprintf("Dispensación desde carrito #%s", cart.ID)
		}
		department := req.Department
		if department == "" {
			department = user.Department
		}
		// Las notas de cada movimiento arrancan nombrando al carrito origen
		// para que la auditoría sea rastreable por sí sola.
		notesPrefix := fmt.Sprintf("Carrito #%s", cart.ID)

		for _, item := range cart.Items {
			// Fila bloqueada: nadie más puede descontar este producto hasta
			// que la transacción termine.
			live, err := products.GetForUpdate(item.ProductID)
			if err != nil {
				return fmt.Errorf("bloquear producto %s: %w", item.ProductID, err)
			}
			if live == nil {
				resp = failure(fmt.Sprintf("El producto del item %s ya no existe", item.ID))
				return errDispenseAborted
			}

			result := ValidateProduct(live, item.Quantity, now)
			if !result.OK {
				resp = failure("Error al dispensar: " + result.Message)
				return errDispenseAborted
			}

			newStock := live.Stock - item.Quantity
			if err := products.UpdateStock(live.ID, newStock); err != nil {
				return fmt.Errorf("actualizar stock de %s: %w", live.ID, err)
			}

			movement := &entity.ProductMovement{
				ID:          uuid.New().String(),
				ProductID:   live.ID,
				UserID:      userID,
				Type:        entity.MovementStockOut,
				Quantity:    -item.Quantity,
				Timestamp:   now,
				Reason:      reason,
				Department:  department,
				BatchNumber: live.BatchNumber,
				UnitCost:    item.UnitPrice,
				Notes:       concatNotes(notesPrefix, concatNotes(item.ItemNotes, req.Notes)),
				IsAutomated: false,
			}
			if err := movements.Create(movement); err != nil {
				return fmt.Errorf("registrar movimiento de %s: %w", live.ID, err)
			}

			if newStock <= live.MinimumStock {
				uc.log.Warn().Str("product_id", live.ID).Str("product_name", live.Name).
					Int("stock", newStock).Int("minimum_stock", live.MinimumStock).
					Msg("stock bajo tras dispensación, requiere reposición")
			}
		}

		cart.Status = entity.CartStatusConfirmed
		cart.ConfirmedAt = &now
		cart.LastModifiedAt = now
		if req.Reason != "" {
			cart.Purpose = req.Reason
		}
		if req.Department != "" {
			cart.TargetDepartment = req.Department
		}
		if req.Notes != "" {
			cart.Notes = concatNotes(cart.Notes, req.Notes)
		}
		if err := carts.Update(cart); err != nil {
			return fmt.Errorf("confirmar carrito: %w", err)
		}

		resp = &dto.CartResponse{
			Success: true,
			Message: fmt.Sprintf("Carrito dispensado exitosamente. %d producto(s) por un valor total de $%s",
				view.TotalItems, view.TotalValue.StringFixed(2)),
			Cart: view,
		}
		return nil
	})

	if err != nil {
		if errors.Is(err, errDispenseAborted) {
			uc.log.Warn().Str("user_id", userID).Str("reason", resp.Message).
				Msg("dispensación rechazada")
			return resp, nil
		}
		return nil, fmt.Errorf("dispensar carrito: %w", err)
	}

	// La vista devuelta refleja el carrito confirmado, no el snapshot previo.
	cart, rerr := uc.cartRepo.GetByID(resp.Cart.ID)
	if rerr == nil && cart != nil {
		snapshot, perr := loadProductsWith(uc.productRepo, cart)
		if perr == nil {
			resp.Cart = BuildCartView(cart, snapshot, now)
		}
	}

	uc.log.Info().Str("user_id", userID).Str("cart_id", resp.Cart.ID).
		Int("items", resp.Cart.TotalItems).Str("total_value", resp.Cart.TotalValue.String()).
		Msg("carrito dispensado")

	return resp, nil
}

// CanUserDispense indica, sin efectos, si el carrito activo del usuario está
// en condiciones de dispensarse. Sondeo informativo: el veredicto real lo da
// la transacción de DispenseActiveCart.
func (uc *DispenseUseCase) CanUserDispense(userID string) (bool, string, error) {
	now := time.Now()

	user, err := uc.userRepo.GetByID(userID)
	if err != nil {
		return false, "", fmt.Errorf("obtener usuario: %w", err)
	}
	if user == nil || !user.CanAccess(now) {
		return false, "Usuario no válido o sin acceso para dispensar", nil
	}

	cart, err := uc.cartRepo.GetActiveByUser(userID)
	if err != nil {
		return false, "", fmt.Errorf("obtener carrito activo: %w", err)
	}
	if cart == nil || cart.IsEmpty() {
		return false, "No hay carrito activo o está vacío", nil
	}

	snapshot, err := loadProductsWith(uc.productRepo, cart)
	if err != nil {
		return false, "", err
	}
	view := BuildCartView(cart, snapshot, now)
	return view.CanBeConfirmed, view.StatusSummary, nil
}

// loadProductsWith carga en un mapa los productos referidos por las líneas.
func loadProductsWith(products repository.ProductRepository, cart *entity.Cart) (map[string]*entity.Product, error) {
	if len(cart.Items) == 0 {
		return nil, nil
	}
	ids := make([]string, 0, len(cart.Items))
	for _, item := range cart.Items {
		ids = append(ids, item.ProductID)
	}
	list, err := products.ListByIDs(ids)
	if err != nil {
		return nil, fmt.Errorf("cargar productos del carrito: %w", err)
	}
	byID := make(map[string]*entity.Product, len(list))
	for _, p := range list {
		byID[p.ID] = p
	}
	return byID, nil
}
