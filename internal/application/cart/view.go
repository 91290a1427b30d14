package cart

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/medicore/inventario-medico-api/internal/application/dto"
	"github.com/medicore/inventario-medico-api/internal/domain/entity"
)

// BuildCartView construye la vista completa del carrito a partir de un
// snapshot: el carrito con sus líneas y el estado vivo de los productos
// referidos, indexados por ID. Función pura; todos los flags y agregados se
// recalculan aquí, nunca se persisten.
func BuildCartView(c *entity.Cart, products map[string]*entity.Product, now time.Time) *dto.CartDTO {
	view := &dto.CartDTO{
		ID:               c.ID,
		UserID:           c.UserID,
		Status:           c.Status,
		Priority:         c.Priority,
		Purpose:          c.Purpose,
		TargetDepartment: c.TargetDepartment,
		Notes:            c.Notes,
		CreatedAt:        c.CreatedAt,
		LastModifiedAt:   c.LastModifiedAt,
		ConfirmedAt:      c.ConfirmedAt,
		TotalValue:       decimal.Zero,
		IsEmpty:          c.IsEmpty(),
		IsStale:          c.IsStale(now),
		Items:            make([]dto.CartItemDTO, 0, len(c.Items)),
	}

	for _, item := range c.Items {
		p := products[item.ProductID]

		line := dto.CartItemDTO{
			ID:                    item.ID,
			ProductID:             item.ProductID,
			Quantity:              item.Quantity,
			UnitPrice:             item.UnitPrice,
			TotalPrice:            item.TotalPrice(),
			AddedAt:               item.AddedAt,
			ItemNotes:             item.ItemNotes,
			ItemStatus:            item.ItemStatus(p, now),
			CanBeDispensed:        item.CanBeDispensed(p, now),
			HasSufficientStock:    item.HasSufficientStock(p),
			IsProductExpired:      item.IsProductExpired(p, now),
			IsControlledProduct:   item.IsControlledProduct(p),
			RequiresAuthorization: item.RequiresAuthorization(p),
			IsNearExpiration:      item.IsNearExpiration(p, now),
			WouldTriggerReorder:   item.WouldTriggerReorder(p),
		}
		if p != nil {
			line.ProductName = p.Name
			line.ProductSKU = p.SKU
			line.ProductCategory = p.Category
			line.AvailableStock = p.Stock
			line.MinimumStock = p.MinimumStock
			line.BatchNumber = p.BatchNumber
			exp := p.ExpirationDate
			line.ExpirationDate = &exp
		}

		view.Items = append(view.Items, line)
		view.TotalQuantity += item.Quantity
		view.TotalValue = view.TotalValue.Add(item.TotalPrice())

		if line.IsProductExpired {
			view.ExpiredProductsCount++
		}
		if !line.HasSufficientStock {
			view.InsufficientStockCount++
		}
		if line.IsControlledProduct {
			view.ControlledProductsCount++
		}
		if !line.CanBeDispensed {
			view.ProblematicItemsCount++
		}
	}

	view.TotalItems = len(view.Items)
	view.HasProblems = view.ProblematicItemsCount > 0
	view.CanBeConfirmed = c.IsActive() && !view.IsEmpty && !view.HasProblems
	view.StatusSummary = statusSummary(c, view)

	return view
}

// statusSummary resumen legible del estado del carrito para interfaces.
func statusSummary(c *entity.Cart, view *dto.CartDTO) string {
	if !c.IsActive() {
		return fmt.Sprintf("Carrito %s", strings.ToLower(c.StatusDescription()))
	}
	if view.IsEmpty {
		return "Carrito vacío"
	}
	if !view.HasProblems {
		return "Todos los items listos para dispensación"
	}

	var parts []string
	if view.ExpiredProductsCount > 0 {
		parts = append(parts, fmt.Sprintf("%d producto(s) expirado(s)", view.ExpiredProductsCount))
	}
	if view.InsufficientStockCount > 0 {
		parts = append(parts, fmt.Sprintf("%d producto(s) con stock insuficiente", view.InsufficientStockCount))
	}
	if view.ControlledProductsCount > 0 {
		parts = append(parts, fmt.Sprintf("%d producto(s) controlado(s)", view.ControlledProductsCount))
	}
	return "Requiere atención: " + strings.Join(parts, ", ")
}

// EmptyCartView vista de "sin carrito activo" para usuarios que aún no
// agregaron productos.
func EmptyCartView() *dto.CartDTO {
	return &dto.CartDTO{
		Status:        entity.CartStatusActive,
		StatusSummary: "Carrito vacío",
		TotalValue:    decimal.Zero,
		IsEmpty:       true,
		Items:         []dto.CartItemDTO{},
	}
}
