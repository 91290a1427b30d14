package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/medicore/inventario-medico-api/internal/application/cart"
	"github.com/medicore/inventario-medico-api/internal/application/dto"
	"github.com/medicore/inventario-medico-api/internal/domain"
)

// CartHandler expone el carrito de dispensación. Todas las rutas son
// protegidas y operan sobre el carrito activo del usuario del token.
type CartHandler struct {
	cartUC     *cart.CartUseCase
	dispenseUC *cart.DispenseUseCase
	voucherUC  *cart.VoucherUseCase
}

// NewCartHandler construye el handler del carrito.
func NewCartHandler(cartUC *cart.CartUseCase, dispenseUC *cart.DispenseUseCase, voucherUC *cart.VoucherUseCase) *CartHandler {
	return &CartHandler{cartUC: cartUC, dispenseUC: dispenseUC, voucherUC: voucherUC}
}

// AddItem godoc
// @Summary      Agregar un producto al carrito activo
// @Tags         cart
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body  dto.AddToCartRequest  true  "product_id, quantity y metadatos opcionales"
// @Success      200   {object}  dto.CartResponse
// @Failure      400   {object}  dto.CartResponse
// @Router       /api/cart/add [post]
func (h *CartHandler) AddItem(c *fiber.Ctx) error {
	var in dto.AddToCartRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if in.ProductID == "" || in.Quantity < 1 || in.Quantity > 100 {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "product_id es requerido y quantity debe estar entre 1 y 100"})
	}
	out, err := h.cartUC.AddItem(GetUserID(c), in)
	if err != nil {
		return internalError(c, err)
	}
	return cartResult(c, out)
}

// GetActive godoc
// @Summary      Obtener el carrito activo del usuario
// @Tags         cart
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  dto.CartDTO
// @Router       /api/cart [get]
func (h *CartHandler) GetActive(c *fiber.Ctx) error {
	out, err := h.cartUC.GetActiveCart(GetUserID(c))
	if err != nil {
		return internalError(c, err)
	}
	return c.JSON(out)
}

// UpdateItemQuantity godoc
// @Summary      Cambiar la cantidad de una línea (0 la elimina)
// @Tags         cart
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path  string                     true  "ID del item"
// @Param        body  body  dto.UpdateCartItemRequest  true  "new_quantity"
// @Success      200   {object}  dto.CartResponse
// @Failure      400   {object}  dto.CartResponse
// @Router       /api/cart/item/{id}/quantity [put]
func (h *CartHandler) UpdateItemQuantity(c *fiber.Ctx) error {
	var in dto.UpdateCartItemRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if in.NewQuantity < 0 || in.NewQuantity > 100 {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "new_quantity debe estar entre 0 y 100"})
	}
	out, err := h.cartUC.UpdateItemQuantity(GetUserID(c), c.Params("id"), in.NewQuantity)
	if err != nil {
		return internalError(c, err)
	}
	return cartResult(c, out)
}

// RemoveItem godoc
// @Summary      Eliminar una línea del carrito
// @Tags         cart
// @Produce      json
// @Security     BearerAuth
// @Param        id   path  string  true  "ID del item"
// @Success      200  {object}  dto.CartResponse
// @Failure      400  {object}  dto.CartResponse
// @Router       /api/cart/item/{id} [delete]
func (h *CartHandler) RemoveItem(c *fiber.Ctx) error {
	out, err := h.cartUC.RemoveItem(GetUserID(c), c.Params("id"))
	if err != nil {
		return internalError(c, err)
	}
	return cartResult(c, out)
}

// ClearCart godoc
// @Summary      Vaciar el carrito activo
// @Tags         cart
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  dto.CartResponse
// @Failure      400  {object}  dto.CartResponse
// @Router       /api/cart/clear [delete]
func (h *CartHandler) ClearCart(c *fiber.Ctx) error {
	out, err := h.cartUC.ClearCart(GetUserID(c))
	if err != nil {
		return internalError(c, err)
	}
	return cartResult(c, out)
}

// Dispense godoc
// @Summary      Dispensar el carrito activo (atómico, todo o nada)
// @Tags         cart
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body  dto.DispenseCartRequest  false  "reason, department, notes (opcionales)"
// @Success      200   {object}  dto.CartResponse
// @Failure      400   {object}  dto.CartResponse
// @Router       /api/cart/dispense [post]
func (h *CartHandler) Dispense(c *fiber.Ctx) error {
	var in dto.DispenseCartRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&in); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
		}
	}
	out, err := h.dispenseUC.DispenseActiveCart(c.Context(), GetUserID(c), in)
	if err != nil {
		return internalError(c, err)
	}
	return cartResult(c, out)
}

// CanDispense godoc
// @Summary      Consultar si el carrito activo puede dispensarse
// @Tags         cart
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  map[string]interface{}
// @Router       /api/cart/can-dispense [get]
func (h *CartHandler) CanDispense(c *fiber.Ctx) error {
	ok, summary, err := h.dispenseUC.CanUserDispense(GetUserID(c))
	if err != nil {
		return internalError(c, err)
	}
	return c.JSON(fiber.Map{
		"can_dispense":   ok,
		"status_summary": summary,
	})
}

// DownloadVoucher godoc
// @Summary      Descargar el comprobante PDF de un carrito dispensado
// @Tags         cart
// @Produce      application/pdf
// @Security     BearerAuth
// @Param        id   path  string  true  "ID del carrito"
// @Success      200  {file}    binary
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      403  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/cart/{id}/voucher [get]
func (h *CartHandler) DownloadVoucher(c *fiber.Ctx) error {
	pdfBytes, filename, err := h.voucherUC.DownloadVoucherPDF(c.Context(), GetUserID(c), c.Params("id"))
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrNotFound):
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "carrito no encontrado"})
		case errors.Is(err, domain.ErrForbidden):
			return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{Code: "FORBIDDEN", Message: "el carrito pertenece a otro usuario"})
		case errors.Is(err, domain.ErrInvalidInput):
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "el carrito aún no fue dispensado"})
		default:
			return internalError(c, err)
		}
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="`+filename+`"`)
	return c.Send(pdfBytes)
}

// cartResult traduce la respuesta estructurada del caso de uso: los rechazos
// de negocio viajan con Success=false y responden 400.
func cartResult(c *fiber.Ctx, out *dto.CartResponse) error {
	if !out.Success {
		return c.Status(fiber.StatusBadRequest).JSON(out)
	}
	return c.JSON(out)
}
