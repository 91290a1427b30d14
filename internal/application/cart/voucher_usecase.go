package cart

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/medicore/inventario-medico-api/internal/domain"
	"github.com/medicore/inventario-medico-api/internal/domain/entity"
	"github.com/medicore/inventario-medico-api/internal/domain/repository"
)

// VoucherLine línea del comprobante con los datos congelados al momento de la
// dispensación (precio unitario capturado en la línea del carrito).
type VoucherLine struct {
	ProductName string
	ProductSKU  string
	BatchNumber string
	Quantity    int
	UnitPrice   decimal.Decimal
	TotalPrice  decimal.Decimal
}

// VoucherPDFGenerator puerto del generador del comprobante de dispensación.
type VoucherPDFGenerator interface {
	GenerateVoucherPDF(ctx context.Context, cart *entity.Cart, user *entity.User, lines []VoucherLine) ([]byte, error)
}

// VoucherUseCase genera el comprobante PDF de un carrito ya dispensado.
// Solo carritos Confirmed tienen comprobante, y solo para su dueño.
type VoucherUseCase struct {
	cartRepo    repository.CartRepository
	productRepo repository.ProductRepository
	userRepo    repository.UserRepository
	generator   VoucherPDFGenerator
	log         zerolog.Logger
}

// NewVoucherUseCase construye el caso de uso del comprobante.
func NewVoucherUseCase(
	cartRepo repository.CartRepository,
	productRepo repository.ProductRepository,
	userRepo repository.UserRepository,
	generator VoucherPDFGenerator,
	log zerolog.Logger,
) *VoucherUseCase {
	return &VoucherUseCase{
		cartRepo:    cartRepo,
		productRepo: productRepo,
		userRepo:    userRepo,
		generator:   generator,
		log:         log,
	}
}

// DownloadVoucherPDF genera el comprobante de una dispensación.
//
// Retorna:
//   - (pdfBytes, filename, nil) si todo sale bien.
//   - domain.ErrNotFound        si el carrito no existe.
//   - domain.ErrForbidden       si el carrito no pertenece al usuario.
//   - domain.ErrInvalidInput    si el carrito aún no fue dispensado.
func (uc *VoucherUseCase) DownloadVoucherPDF(ctx context.Context, userID, cartID string) (pdfBytes []byte, filename string, err error) {
	cart, err := uc.cartRepo.GetByID(cartID)
	if err != nil {
		return nil, "", fmt.Errorf("voucher: obtener carrito: %w", err)
	}
	if cart == nil {
		return nil, "", domain.ErrNotFound
	}
	if cart.UserID != userID {
		return nil, "", domain.ErrForbidden
	}
	if cart.Status != entity.CartStatusConfirmed {
		return nil, "", fmt.Errorf("%w: el carrito está en estado %s, solo los carritos dispensados tienen comprobante",
			domain.ErrInvalidInput, cart.StatusDescription())
	}

	user, err := uc.userRepo.GetByID(cart.UserID)
	if err != nil {
		return nil, "", fmt.Errorf("voucher: obtener usuario: %w", err)
	}
	if user == nil {
		return nil, "", fmt.Errorf("voucher: usuario %s del carrito no existe: %w", cart.UserID, domain.ErrNotFound)
	}

	products, err := loadProductsWith(uc.productRepo, cart)
	if err != nil {
		return nil, "", err
	}

	lines := make([]VoucherLine, 0, len(cart.Items))
	for _, item := range cart.Items {
		line := VoucherLine{
			Quantity:   item.Quantity,
			UnitPrice:  item.UnitPrice,
			TotalPrice: item.TotalPrice(),
		}
		if p := products[item.ProductID]; p != nil {
			line.ProductName = p.Name
			line.ProductSKU = p.SKU
			line.BatchNumber = p.BatchNumber
		}
		lines = append(lines, line)
	}

	pdfBytes, err = uc.generator.GenerateVoucherPDF(ctx, cart, user, lines)
	if err != nil {
		return nil, "", fmt.Errorf("voucher: generar pdf: %w", err)
	}

	confirmed := time.Now()
	if cart.ConfirmedAt != nil {
		confirmed = *cart.ConfirmedAt
	}
	filename = fmt.Sprintf("comprobante_%s_%s.pdf", cart.ID[:8], confirmed.Format("20060102"))

	uc.log.Info().Str("user_id", userID).Str("cart_id", cartID).Msg("comprobante de dispensación generado")

	return pdfBytes, filename, nil
}
