package catalog

import (
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/medicore/inventario-medico-api/internal/application/dto"
	"github.com/medicore/inventario-medico-api/internal/domain"
	domcatalog "github.com/medicore/inventario-medico-api/internal/domain/catalog"
	"github.com/medicore/inventario-medico-api/internal/domain/entity"
	"github.com/medicore/inventario-medico-api/internal/domain/repository"
)

// searchLimit tope de resultados de búsqueda.
const searchLimit = 25

// CatalogUseCase consultas del catálogo de productos. Todas restringen a
// stock > 0 y no expirado en la consulta y aplican el filtro de roles como
// post-filtro; cada DTO lleva can_be_added_to_cart para el rol del caller.
type CatalogUseCase struct {
	productRepo repository.ProductRepository
	log         zerolog.Logger
}

// NewCatalogUseCase construye el caso de uso del catálogo.
func NewCatalogUseCase(productRepo repository.ProductRepository, log zerolog.Logger) *CatalogUseCase {
	return &CatalogUseCase{productRepo: productRepo, log: log}
}

// ListAvailable lista los productos disponibles visibles para el rol.
func (uc *CatalogUseCase) ListAvailable(userID, role string) (*dto.ProductListResponse, error) {
	now := time.Now()
	products, err := uc.productRepo.ListAvailable(now)
	if err != nil {
		return nil, fmt.Errorf("listar productos disponibles: %w", err)
	}

	out := uc.filterAndMap(products, role, now)

	uc.log.Info().Str("user_id", userID).Str("role", role).Int("count", len(out)).
		Msg("productos disponibles obtenidos")

	return &dto.ProductListResponse{
		Success:  true,
		Message:  "Productos obtenidos correctamente",
		Products: out,
	}, nil
}

// Search busca por substring case-insensitive en nombre o SKU, con tope de 25
// resultados. Un término en blanco es un error de validación.
func (uc *CatalogUseCase) Search(term, role string) (*dto.ProductListResponse, error) {
	if strings.TrimSpace(term) == "" {
		return nil, fmt.Errorf("%w: el término de búsqueda es obligatorio", domain.ErrInvalidInput)
	}

	now := time.Now()
	products, err := uc.productRepo.Search(strings.TrimSpace(term), searchLimit, now)
	if err != nil {
		return nil, fmt.Errorf("buscar productos: %w", err)
	}

	out := uc.filterAndMap(products, role, now)

	return &dto.ProductListResponse{
		Success:  true,
		Message:  fmt.Sprintf("Se encontraron %d productos", len(out)),
		Products: out,
	}, nil
}

// GetByID devuelve un producto si existe, tiene stock, no expiró y el rol
// puede verlo; nil en cualquier otro caso.
func (uc *CatalogUseCase) GetByID(productID, userID, role string) (*dto.MedicalProductDTO, error) {
	product, err := uc.productRepo.GetByID(productID)
	if err != nil {
		return nil, fmt.Errorf("obtener producto: %w", err)
	}
	now := time.Now()
	if product == nil || product.IsExpired(now) || product.Stock <= 0 {
		return nil, nil
	}
	if !domcatalog.RoleCanAccess(product, role) {
		uc.log.Warn().Str("user_id", userID).Str("role", role).Str("product_id", productID).
			Msg("usuario sin permisos intentó acceder a producto")
		return nil, nil
	}
	out := mapProduct(product, role, now)
	return &out, nil
}

// ListByCategory lista los disponibles de una categoría (por código numérico).
func (uc *CatalogUseCase) ListByCategory(categoryCode int, role string) ([]dto.MedicalProductDTO, error) {
	category := entity.CategoryByCode(categoryCode)
	if category == "" {
		return nil, fmt.Errorf("%w: categoría desconocida", domain.ErrInvalidInput)
	}

	now := time.Now()
	products, err := uc.productRepo.ListByCategory(category, now)
	if err != nil {
		return nil, fmt.Errorf("listar por categoría: %w", err)
	}
	return uc.filterAndMap(products, role, now), nil
}

// Categories lista las categorías con su código.
func (uc *CatalogUseCase) Categories() []dto.CategoryDTO {
	names := entity.Categories()
	out := make([]dto.CategoryDTO, 0, len(names))
	for _, name := range names {
		out = append(out, dto.CategoryDTO{Code: entity.CategoryCode(name), Name: name})
	}
	return out
}

func (uc *CatalogUseCase) filterAndMap(products []*entity.Product, role string, now time.Time) []dto.MedicalProductDTO {
	out := make([]dto.MedicalProductDTO, 0, len(products))
	for _, p := range products {
		if !domcatalog.RoleCanAccess(p, role) {
			continue
		}
		out = append(out, mapProduct(p, role, now))
	}
	return out
}

func mapProduct(p *entity.Product, role string, now time.Time) dto.MedicalProductDTO {
	return dto.MedicalProductDTO{
		ID:                    p.ID,
		Name:                  p.Name,
		SKU:                   p.SKU,
		Category:              p.Category,
		CategoryCode:          entity.CategoryCode(p.Category),
		Price:                 p.Price,
		Stock:                 p.Stock,
		MinimumStock:          p.MinimumStock,
		RFIDCode:              p.RFIDCode,
		ExpirationDate:        p.ExpirationDate,
		ManufacturingDate:     p.ManufacturingDate,
		BatchNumber:           p.BatchNumber,
		RequiresAuthorization: p.RequiresAuthorization,
		IsControlled:          p.IsControlled,
		StorageConditions:     p.StorageConditions,
		IsNearExpiration:      p.IsNearExpiration(now),
		IsExpired:             p.IsExpired(now),
		IsLowStock:            p.IsLowStock(),
		IsAvailable:           p.IsAvailable(now),
		CanBeAddedToCart:      domcatalog.RoleCanAccess(p, role),
	}
}
