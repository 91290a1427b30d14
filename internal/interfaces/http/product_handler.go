package http

import (
	"errors"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/medicore/inventario-medico-api/internal/application/catalog"
	"github.com/medicore/inventario-medico-api/internal/application/dto"
	"github.com/medicore/inventario-medico-api/internal/domain"
)

// ProductHandler expone el catálogo de productos médicos. Todas las rutas son
// protegidas: el rol del token decide qué productos se ven.
type ProductHandler struct {
	uc *catalog.CatalogUseCase
}

// NewProductHandler construye el handler del catálogo.
func NewProductHandler(uc *catalog.CatalogUseCase) *ProductHandler {
	return &ProductHandler{uc: uc}
}

// ListAvailable godoc
// @Summary      Listar productos disponibles para el rol del usuario
// @Tags         products
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  dto.ProductListResponse
// @Router       /api/products/available [get]
func (h *ProductHandler) ListAvailable(c *fiber.Ctx) error {
	out, err := h.uc.ListAvailable(GetUserID(c), GetRole(c))
	if err != nil {
		return internalError(c, err)
	}
	return c.JSON(out)
}

// Search godoc
// @Summary      Buscar productos por nombre o SKU
// @Tags         products
// @Produce      json
// @Security     BearerAuth
// @Param        term  query     string  true  "término de búsqueda"
// @Success      200   {object}  dto.ProductListResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/products/search [get]
func (h *ProductHandler) Search(c *fiber.Ctx) error {
	out, err := h.uc.Search(c.Query("term"), GetRole(c))
	if err != nil {
		if errors.Is(err, domain.ErrInvalidInput) {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "el término de búsqueda es obligatorio"})
		}
		return internalError(c, err)
	}
	return c.JSON(out)
}

// GetByID godoc
// @Summary      Obtener un producto por ID
// @Tags         products
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "ID del producto"
// @Success      200  {object}  dto.MedicalProductDTO
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/products/{id} [get]
func (h *ProductHandler) GetByID(c *fiber.Ctx) error {
	product, err := h.uc.GetByID(c.Params("id"), GetUserID(c), GetRole(c))
	if err != nil {
		return internalError(c, err)
	}
	// No disponible y sin permisos de rol responden igual: el 404 no revela
	// la existencia de productos restringidos.
	if product == nil {
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "Producto no encontrado o no disponible"})
	}
	return c.JSON(product)
}

// ListByCategory godoc
// @Summary      Listar productos disponibles de una categoría
// @Tags         products
// @Produce      json
// @Security     BearerAuth
// @Param        code  path      int  true  "código de categoría (1-8)"
// @Success      200   {array}   dto.MedicalProductDTO
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/products/category/{code} [get]
func (h *ProductHandler) ListByCategory(c *fiber.Ctx) error {
	code, err := strconv.Atoi(c.Params("code"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "código de categoría inválido"})
	}
	out, err := h.uc.ListByCategory(code, GetRole(c))
	if err != nil {
		if errors.Is(err, domain.ErrInvalidInput) {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "categoría desconocida"})
		}
		return internalError(c, err)
	}
	return c.JSON(out)
}

// Categories godoc
// @Summary      Listar las categorías de productos médicos
// @Tags         products
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}  dto.CategoryDTO
// @Router       /api/products/categories [get]
func (h *ProductHandler) Categories(c *fiber.Ctx) error {
	return c.JSON(h.uc.Categories())
}

func internalError(c *fiber.Ctx, _ error) error {
	return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: "error interno"})
}
