package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Tipos de movimiento de producto médico, con código numérico 1-7.
const (
	MovementStockIn    = "StockIn"
	MovementStockOut   = "StockOut" // dispensación
	MovementAdjustment = "Adjustment"
	MovementTransfer   = "Transfer"
	MovementExpired    = "Expired"
	MovementDamaged    = "Damaged"
	MovementReturn     = "Return"
)

var movementCodes = map[string]int{
	MovementStockIn:    1,
	MovementStockOut:   2,
	MovementAdjustment: 3,
	MovementTransfer:   4,
	MovementExpired:    5,
	MovementDamaged:    6,
	MovementReturn:     7,
}

// MovementTypeCode devuelve el código numérico del tipo, 0 si no es conocido.
func MovementTypeCode(t string) int {
	return movementCodes[t]
}

// ProductMovement es el registro de auditoría inmutable de un cambio de stock.
// Append-only: nunca se actualiza ni se borra.
type ProductMovement struct {
	ID          string
	ProductID   string
	UserID      string // quién efectuó el movimiento
	Type        string
	Quantity    int // delta con signo: negativo para salidas
	Timestamp   time.Time
	Reason      string // ej: "Cirugía cardíaca", "Reposición de stock"
	Department  string
	BatchNumber string
	UnitCost    decimal.Decimal // costo unitario al momento del movimiento
	Notes       string
	IsAutomated bool
}

// TotalValue valor absoluto del movimiento (|cantidad| × costo unitario).
func (m *ProductMovement) TotalValue() decimal.Decimal {
	qty := m.Quantity
	if qty < 0 {
		qty = -qty
	}
	return m.UnitCost.Mul(decimal.NewFromInt(int64(qty)))
}

// IsStockReduction indica si el movimiento reduce stock.
func (m *ProductMovement) IsStockReduction() bool {
	return m.Type == MovementStockOut || m.Type == MovementExpired || m.Type == MovementDamaged
}

// IsStockIncrease indica si el movimiento aumenta stock.
func (m *ProductMovement) IsStockIncrease() bool {
	return m.Type == MovementStockIn || m.Type == MovementReturn
}

// MovementDescription descripción legible del tipo de movimiento.
func (m *ProductMovement) MovementDescription() string {
	switch m.Type {
	case MovementStockIn:
		return "Entrada de stock"
	case MovementStockOut:
		return "Dispensación"
	case MovementAdjustment:
		return "Ajuste de inventario"
	case MovementTransfer:
		return "Transferencia"
	case MovementExpired:
		return "Producto expirado"
	case MovementDamaged:
		return "Producto dañado"
	case MovementReturn:
		return "Devolución"
	default:
		return "Movimiento desconocido"
	}
}
