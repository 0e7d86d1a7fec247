// internal/domain/catalog/service.go
package catalog

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/your-org/pos-backend/internal/domain/cart"
	"gorm.io/gorm"
)

// ErrProductNotFound is returned when no active product has the requested id or code
var ErrProductNotFound = errors.New("product not found")

// Service handles catalog lookups for the POS
type Service struct {
	db *gorm.DB
}

// NewService creates a new catalog service
func NewService(db *gorm.DB) *Service {
	return &Service{
		db: db,
	}
}

// GetProduct loads an active product with its unit and packages as a cart descriptor
func (s *Service) GetProduct(ctx context.Context, id int) (cart.Product, error) {
	var product Product
	err := s.withDetails(ctx).
		Where("id = ? AND is_active = ?", id, true).
		First(&product).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return cart.Product{}, ErrProductNotFound
	}
	if err != nil {
		return cart.Product{}, fmt.Errorf("failed to load product %d: %w", id, err)
	}

	return toValidProduct(product)
}

// GetProductByCode loads an active product by its scan code
func (s *Service) GetProductByCode(ctx context.Context, code string) (cart.Product, error) {
	var product Product
	err := s.withDetails(ctx).
		Where("code = ? AND is_active = ?", code, true).
		First(&product).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return cart.Product{}, ErrProductNotFound
	}
	if err != nil {
		return cart.Product{}, fmt.Errorf("failed to load product %q: %w", code, err)
	}

	return toValidProduct(product)
}

// Search returns active products whose name or code contains query
func (s *Service) Search(ctx context.Context, query string, limit int) ([]cart.Product, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}

	var products []Product
	like := "%" + query + "%"
	if err := s.withDetails(ctx).
		Where("is_active = ?", true).
		Where("name ILIKE ? OR code ILIKE ?", like, like).
		Order("name ASC").
		Limit(limit).
		Find(&products).Error; err != nil {
		return nil, fmt.Errorf("failed to search products: %w", err)
	}

	out := make([]cart.Product, 0, len(products))
	for _, p := range products {
		out = append(out, ToCartProduct(p))
	}
	return out, nil
}

// UnitCatalog loads every active unit grouped by family
func (s *Service) UnitCatalog(ctx context.Context) (cart.UnitCatalog, error) {
	var units []Unit
	if err := s.db.WithContext(ctx).Where("is_active = ?", true).Find(&units).Error; err != nil {
		return nil, fmt.Errorf("failed to load units: %w", err)
	}
	return BuildUnitCatalog(units), nil
}

func (s *Service) withDetails(ctx context.Context) *gorm.DB {
	return s.db.WithContext(ctx).
		Preload("Unit").
		Preload("Packages", func(db *gorm.DB) *gorm.DB {
			return db.Where("is_active = ?", true).Order("id ASC")
		})
}

// ToCartProduct maps a catalog row onto the descriptor the cart engine consumes
func ToCartProduct(p Product) cart.Product {
	out := cart.Product{
		ID:            int(p.ID),
		Name:          p.Name,
		Code:          p.Code,
		SalePrice:     p.SalePrice,
		PurchasePrice: p.PurchasePrice,
		Packages:      make([]cart.Package, 0, len(p.Packages)),
	}

	if p.TrackStock {
		stock := p.StockQuantity
		out.CurrentStock = &stock
	}

	if p.UnitID != nil {
		unitID := int(*p.UnitID)
		out.UnitID = &unitID
		if p.Unit != nil {
			out.UnitFamily = p.Unit.Family
		}
	}

	for _, pkg := range p.Packages {
		mapped := cart.Package{
			ID:                 int(pkg.ID),
			DisplayName:        pkg.Name,
			QuantityPerPackage: pkg.QuantityPerPackage,
			PurchasePrice:      pkg.PurchasePrice,
			SalePrice:          pkg.SalePrice,
		}
		if pkg.StockQuantity != nil {
			stock := *pkg.StockQuantity
			mapped.AvailableStock = &stock
		}
		out.Packages = append(out.Packages, mapped)
	}

	return out
}

// BuildUnitCatalog groups units by family, smallest factor first
func BuildUnitCatalog(units []Unit) cart.UnitCatalog {
	catalog := cart.UnitCatalog{}
	for _, u := range units {
		catalog[u.Family] = append(catalog[u.Family], cart.Unit{
			ID:           int(u.ID),
			Name:         u.Name,
			Abbreviation: u.Abbreviation,
			FactorToBase: u.FactorToBase,
		})
	}

	for family := range catalog {
		members := catalog[family]
		sort.SliceStable(members, func(i, j int) bool {
			return members[i].FactorToBase.LessThan(members[j].FactorToBase)
		})
	}
	return catalog
}

func toValidProduct(p Product) (cart.Product, error) {
	product := ToCartProduct(p)
	if err := product.Validate(); err != nil {
		return cart.Product{}, fmt.Errorf("product %d has invalid catalog data: %w", p.ID, err)
	}
	return product, nil
}
