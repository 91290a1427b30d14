package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// MedicalProductDTO salida de un producto del catálogo. CanBeAddedToCart
// refleja el filtro de roles para el rol del caller, independiente del stock.
type MedicalProductDTO struct {
	ID                    string          `json:"id"`
	Name                  string          `json:"name"`
	SKU                   string          `json:"sku"`
	Category              string          `json:"category"`
	CategoryCode          int             `json:"category_code"`
	Price                 decimal.Decimal `json:"price"`
	Stock                 int             `json:"stock"`
	MinimumStock          int             `json:"minimum_stock"`
	RFIDCode              string          `json:"rfid_code,omitempty"`
	ExpirationDate        time.Time       `json:"expiration_date"`
	ManufacturingDate     time.Time       `json:"manufacturing_date"`
	BatchNumber           string          `json:"batch_number,omitempty"`
	RequiresAuthorization bool            `json:"requires_authorization"`
	IsControlled          bool            `json:"is_controlled"`
	StorageConditions     string          `json:"storage_conditions,omitempty"`
	IsNearExpiration      bool            `json:"is_near_expiration"`
	IsExpired             bool            `json:"is_expired"`
	IsLowStock            bool            `json:"is_low_stock"`
	IsAvailable           bool            `json:"is_available"`
	CanBeAddedToCart      bool            `json:"can_be_added_to_cart"`
}

// ProductListResponse salida de los listados del catálogo.
type ProductListResponse struct {
	Success  bool                `json:"success"`
	Message  string              `json:"message"`
	Products []MedicalProductDTO `json:"products,omitempty"`
}

// CategoryDTO categoría de producto con su código.
type CategoryDTO struct {
	Code int    `json:"code"`
	Name string `json:"name"`
}
