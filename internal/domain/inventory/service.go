// internal/domain/inventory/service.go
package inventory

import (
	"context"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/your-org/pos-backend/internal/domain/cart"
	"github.com/your-org/pos-backend/internal/domain/catalog"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var (
	// ErrInsufficientStock is returned when stock dropped below a sale quantity before checkout
	ErrInsufficientStock = errors.New("insufficient stock")
	// ErrProductMissing is returned when a submitted product no longer exists
	ErrProductMissing = errors.New("product no longer exists")
	// ErrPackageMissing is returned when a submitted package is not attached to its product
	ErrPackageMissing = errors.New("package no longer exists")
	// ErrUnitMismatch is returned when a line unit cannot be converted into the stock unit
	ErrUnitMismatch = errors.New("unit is not convertible to the stock unit")
)

// Service handles stock levels and their movement history
type Service struct {
	db *gorm.DB
}

// NewService creates a new inventory service
func NewService(db *gorm.DB) *Service {
	return &Service{
		db: db,
	}
}

// StockChange is one cart line leaving or entering stock. Quantity is counted in
// UnitID, or in packages when PackageID is set.
type StockChange struct {
	ProductID int
	Quantity  decimal.Decimal
	UnitID    *int
	PackageID *int
}

// ApplyRequest describes the stock effect of a finalized transaction
type ApplyRequest struct {
	Mode        cart.Mode
	ReferenceID uint
	CashierID   uint
	Changes     []StockChange
}

// Apply moves stock for every change inside tx. Rows are locked so concurrent
// checkouts of the same product serialize.
func (s *Service) Apply(tx *gorm.DB, req *ApplyRequest) ([]Movement, error) {
	movementType, reason := DirectionFor(req.Mode)
	movements := make([]Movement, 0, len(req.Changes))

	for _, change := range req.Changes {
		var product catalog.Product
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("id = ?", change.ProductID).
			First(&product).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: %d", ErrProductMissing, change.ProductID)
		}
		if err != nil {
			return nil, fmt.Errorf("failed to lock product %d: %w", change.ProductID, err)
		}

		if !product.TrackStock {
			continue
		}

		quantity, err := s.stockQuantity(tx, product, change)
		if err != nil {
			return nil, err
		}

		next, err := NextQuantity(movementType, product.StockQuantity, quantity)
		if err != nil {
			return nil, fmt.Errorf("product %d: %w", change.ProductID, err)
		}

		if err := tx.Model(&catalog.Product{}).
			Where("id = ?", product.ID).
			Update("stock_quantity", next).Error; err != nil {
			return nil, fmt.Errorf("failed to update stock for product %d: %w", product.ID, err)
		}

		movement := Movement{
			ProductID:        product.ID,
			MovementType:     movementType,
			Reason:           reason,
			Quantity:         quantity,
			PreviousQuantity: product.StockQuantity,
			NewQuantity:      next,
			ReferenceType:    "transaction",
			ReferenceID:      req.ReferenceID,
			CashierID:        req.CashierID,
		}
		if err := tx.Create(&movement).Error; err != nil {
			return nil, fmt.Errorf("failed to record stock movement: %w", err)
		}
		movements = append(movements, movement)
	}

	return movements, nil
}

// stockQuantity loads the package or units a change refers to and converts it
func (s *Service) stockQuantity(tx *gorm.DB, product catalog.Product, change StockChange) (decimal.Decimal, error) {
	if change.PackageID != nil {
		var pkg catalog.ProductPackage
		err := tx.Where("id = ? AND product_id = ?", *change.PackageID, product.ID).First(&pkg).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return decimal.Zero, fmt.Errorf("%w: package %d of product %d", ErrPackageMissing, *change.PackageID, product.ID)
		}
		if err != nil {
			return decimal.Zero, fmt.Errorf("failed to load package %d: %w", *change.PackageID, err)
		}
		return StockQuantity(change.Quantity, &pkg, nil, nil)
	}

	if change.UnitID == nil || product.UnitID == nil || uint(*change.UnitID) == *product.UnitID {
		return change.Quantity, nil
	}

	var units []catalog.Unit
	if err := tx.Where("id IN ?", []uint{uint(*change.UnitID), *product.UnitID}).Find(&units).Error; err != nil {
		return decimal.Zero, fmt.Errorf("failed to load units: %w", err)
	}

	var lineUnit, stockUnit *catalog.Unit
	for i := range units {
		switch units[i].ID {
		case uint(*change.UnitID):
			lineUnit = &units[i]
		case *product.UnitID:
			stockUnit = &units[i]
		}
	}
	if lineUnit == nil || stockUnit == nil {
		return decimal.Zero, fmt.Errorf("%w: unit %d for product %d", ErrUnitMismatch, *change.UnitID, product.ID)
	}
	return StockQuantity(change.Quantity, nil, lineUnit, stockUnit)
}

// StockQuantity converts a line quantity into the unit the product is stocked in.
// A package line counts packages; otherwise the quantity is scaled between the
// line unit and the stock unit. Missing or zero factors count as 1.
func StockQuantity(quantity decimal.Decimal, pkg *catalog.ProductPackage, lineUnit, stockUnit *catalog.Unit) (decimal.Decimal, error) {
	if pkg != nil {
		return quantity.Mul(factorOrOne(pkg.QuantityPerPackage)), nil
	}
	if lineUnit == nil || stockUnit == nil || lineUnit.ID == stockUnit.ID {
		return quantity, nil
	}
	if lineUnit.Family != stockUnit.Family {
		return decimal.Zero, fmt.Errorf("%w: %s to %s", ErrUnitMismatch, lineUnit.Abbreviation, stockUnit.Abbreviation)
	}
	return quantity.Mul(factorOrOne(lineUnit.FactorToBase)).Div(factorOrOne(stockUnit.FactorToBase)), nil
}

func factorOrOne(factor decimal.Decimal) decimal.Decimal {
	if !factor.IsPositive() {
		return decimal.NewFromInt(1)
	}
	return factor
}

// History returns the latest movements for a product, newest first
func (s *Service) History(ctx context.Context, productID uint, limit int) ([]Movement, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}

	var movements []Movement
	if err := s.db.WithContext(ctx).
		Where("product_id = ?", productID).
		Order("created_at DESC, id DESC").
		Limit(limit).
		Find(&movements).Error; err != nil {
		return nil, fmt.Errorf("failed to retrieve stock movements: %w", err)
	}
	return movements, nil
}

// DirectionFor maps a cart mode to the stock movement it causes
func DirectionFor(mode cart.Mode) (MovementType, MovementReason) {
	if mode == cart.ModePurchases {
		return MovementTypeInbound, ReasonPurchase
	}
	return MovementTypeOutbound, ReasonSale
}

// NextQuantity computes the stock level after a movement
func NextQuantity(movementType MovementType, previous, quantity decimal.Decimal) (decimal.Decimal, error) {
	switch movementType {
	case MovementTypeInbound:
		return previous.Add(quantity), nil
	case MovementTypeOutbound:
		if previous.LessThan(quantity) {
			return decimal.Zero, fmt.Errorf("%w: available %s, requested %s", ErrInsufficientStock, previous, quantity)
		}
		return previous.Sub(quantity), nil
	default:
		return decimal.Zero, fmt.Errorf("invalid movement type: %s", movementType)
	}
}
