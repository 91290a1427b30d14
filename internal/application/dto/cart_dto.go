package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// AddToCartRequest entrada para agregar un producto al carrito activo.
type AddToCartRequest struct {
	ProductID        string `json:"product_id" validate:"required,uuid"`
	Quantity         int    `json:"quantity" validate:"required,min=1,max=100"`
	ItemNotes        string `json:"item_notes" validate:"omitempty,max=500"`
	Purpose          string `json:"purpose" validate:"omitempty,max=500"`
	TargetDepartment string `json:"target_department" validate:"omitempty,max=100"`
	Priority         string `json:"priority" validate:"omitempty,oneof=Normal Urgent Emergency"`
}

// UpdateCartItemRequest entrada para cambiar la cantidad de una línea.
// Cantidad 0 equivale a eliminar la línea.
type UpdateCartItemRequest struct {
	NewQuantity int `json:"new_quantity" validate:"min=0,max=100"`
}

// DispenseCartRequest entrada para dispensar el carrito activo.
type DispenseCartRequest struct {
	Reason     string `json:"reason" validate:"omitempty,max=500"`
	Department string `json:"department" validate:"omitempty,max=100"`
	Notes      string `json:"notes" validate:"omitempty,max=1000"`
}

// CartItemDTO línea del carrito con sus flags de elegibilidad calculados
// contra el estado vivo del producto.
type CartItemDTO struct {
	ID                    string          `json:"id"`
	ProductID             string          `json:"product_id"`
	ProductName           string          `json:"product_name"`
	ProductSKU            string          `json:"product_sku"`
	ProductCategory       string          `json:"product_category"`
	Quantity              int             `json:"quantity"`
	UnitPrice             decimal.Decimal `json:"unit_price"`
	TotalPrice            decimal.Decimal `json:"total_price"`
	AddedAt               time.Time       `json:"added_at"`
	ItemNotes             string          `json:"item_notes,omitempty"`
	ItemStatus            string          `json:"item_status"`
	CanBeDispensed        bool            `json:"can_be_dispensed"`
	HasSufficientStock    bool            `json:"has_sufficient_stock"`
	IsProductExpired      bool            `json:"is_product_expired"`
	IsControlledProduct   bool            `json:"is_controlled_product"`
	RequiresAuthorization bool            `json:"requires_authorization"`
	IsNearExpiration      bool            `json:"is_near_expiration"`
	WouldTriggerReorder   bool            `json:"would_trigger_reorder"`
	AvailableStock        int             `json:"available_stock"`
	MinimumStock          int             `json:"minimum_stock"`
	ExpirationDate        *time.Time      `json:"expiration_date,omitempty"`
	BatchNumber           string          `json:"batch_number,omitempty"`
}

// CartDTO vista completa del carrito con agregados y flags recalculados tras
// cada mutación.
type CartDTO struct {
	ID                      string          `json:"id,omitempty"`
	UserID                  string          `json:"user_id,omitempty"`
	Status                  string          `json:"status,omitempty"`
	StatusSummary           string          `json:"status_summary,omitempty"`
	Priority                string          `json:"priority,omitempty"`
	Purpose                 string          `json:"purpose,omitempty"`
	TargetDepartment        string          `json:"target_department,omitempty"`
	Notes                   string          `json:"notes,omitempty"`
	CreatedAt               time.Time       `json:"created_at"`
	LastModifiedAt          time.Time       `json:"last_modified_at"`
	ConfirmedAt             *time.Time      `json:"confirmed_at,omitempty"`
	TotalItems              int             `json:"total_items"`
	TotalQuantity           int             `json:"total_quantity"`
	TotalValue              decimal.Decimal `json:"total_value"`
	IsEmpty                 bool            `json:"is_empty"`
	IsStale                 bool            `json:"is_stale"`
	CanBeConfirmed          bool            `json:"can_be_confirmed"`
	HasProblems             bool            `json:"has_problems"`
	ProblematicItemsCount   int             `json:"problematic_items_count"`
	ControlledProductsCount int             `json:"controlled_products_count"`
	ExpiredProductsCount    int             `json:"expired_products_count"`
	InsufficientStockCount  int             `json:"insufficient_stock_count"`
	Items                   []CartItemDTO   `json:"items"`
}

// CartResponse salida de toda mutación del carrito.
type CartResponse struct {
	Success bool     `json:"success"`
	Message string   `json:"message"`
	Cart    *CartDTO `json:"cart,omitempty"`
}
