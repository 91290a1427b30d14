package cart

import (
	"fmt"
	"time"

	"github.com/medicore/inventario-medico-api/internal/domain/entity"
)

// ValidationResult resultado de validar una línea: un rechazo con mensaje
// específico, o éxito con advertencias no bloqueantes.
type ValidationResult struct {
	OK       bool
	Message  string
	Warnings []string
}

func validationError(format string, args ...any) ValidationResult {
	return ValidationResult{OK: false, Message: fmt.Sprintf(format, args...)}
}

// ValidateProduct valida una cantidad solicitada contra el estado vivo del
// producto. La comparten agregar/actualizar y la re-validación del motor de
// dispensación. Rechaza por expiración (el mensaje nombra la fecha) o stock
// insuficiente (el mensaje indica disponible vs solicitado); advierte por
// expiración próxima o stock resultante en o bajo el mínimo.
func ValidateProduct(p *entity.Product, requestedQuantity int, now time.Time) ValidationResult {
	if p.IsExpired(now) {
		return validationError("El producto '%s' ha expirado el %s", p.Name, p.ExpirationDate.Format("02/01/2006"))
	}

	if p.Stock < requestedQuantity {
		return validationError("Stock insuficiente para '%s'. Disponible: %d, Solicitado: %d",
			p.Name, p.Stock, requestedQuantity)
	}

	var warnings []string
	if p.IsNearExpiration(now) {
		warnings = append(warnings, fmt.Sprintf("El producto '%s' está próximo a expirar (%s)",
			p.Name, p.ExpirationDate.Format("02/01/2006")))
	}
	if p.Stock-requestedQuantity <= p.MinimumStock {
		warnings = append(warnings, fmt.Sprintf("El stock de '%s' quedará bajo: resultante %d, mínimo %d",
			p.Name, p.Stock-requestedQuantity, p.MinimumStock))
	}

	return ValidationResult{OK: true, Warnings: warnings}
}
