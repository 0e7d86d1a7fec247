// internal/domain/cart/entity.go
package cart

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Mode binds a cart to the sales or purchases side of the business
type Mode string

const (
	ModeSales     Mode = "sales"
	ModePurchases Mode = "purchases"
)

// ParseMode converts a raw mode string into a Mode
func ParseMode(raw string) (Mode, error) {
	switch Mode(raw) {
	case ModeSales, ModePurchases:
		return Mode(raw), nil
	}
	return "", fmt.Errorf("unknown cart mode %q", raw)
}

// Unit is one unit of measure inside a unit family
type Unit struct {
	ID           int             `json:"id" validate:"required,gt=0"`
	Name         string          `json:"name" validate:"required"`
	Abbreviation string          `json:"abbreviation"`
	FactorToBase decimal.Decimal `json:"factor_to_base"`
}

// UnitCatalog groups interchangeable units by family name
type UnitCatalog map[string][]Unit

// Lookup finds a unit inside the given family
func (c UnitCatalog) Lookup(family string, unitID int) (Unit, bool) {
	for _, u := range c[family] {
		if u.ID == unitID {
			return u, true
		}
	}
	return Unit{}, false
}

// Package is a fixed-price bundle of a product
type Package struct {
	ID                 int              `json:"id" validate:"required,gt=0"`
	DisplayName        string           `json:"display_name" validate:"required"`
	QuantityPerPackage decimal.Decimal  `json:"quantity_per_package"`
	PurchasePrice      decimal.Decimal  `json:"purchase_price"`
	SalePrice          decimal.Decimal  `json:"sale_price"`
	AvailableStock     *decimal.Decimal `json:"available_stock,omitempty"`
}

// Product is the catalog descriptor a line is built from
type Product struct {
	ID            int              `json:"id" validate:"required,gt=0"`
	Name          string           `json:"name" validate:"required,max=255"`
	Code          string           `json:"code" validate:"max=100"`
	SalePrice     decimal.Decimal  `json:"sale_price"`
	PurchasePrice decimal.Decimal  `json:"purchase_price"`
	CurrentStock  *decimal.Decimal `json:"current_stock,omitempty"`
	UnitID        *int             `json:"unit_id,omitempty"`
	UnitFamily    string           `json:"unit_family,omitempty" validate:"required_with=UnitID"`
	Packages      []Package        `json:"packages" validate:"dive"`
}

// LineItem is one product entry in the cart
type LineItem struct {
	ID                int              `json:"id"`
	ProductID         int              `json:"product_id"`
	Name              string           `json:"name"`
	Code              string           `json:"code"`
	Quantity          decimal.Decimal  `json:"quantity"`
	UnitID            *int             `json:"unit_id,omitempty"`
	UnitFamily        string           `json:"unit_family,omitempty"`
	UnitPrice         decimal.Decimal  `json:"unit_price"`
	SelectedPackageID *int             `json:"selected_package_id"`
	Packages          []Package        `json:"packages"`
	Price             decimal.Decimal  `json:"price"`
	Total             decimal.Decimal  `json:"total"`
	CurrentStock      *decimal.Decimal `json:"current_stock,omitempty"`
	Mode              Mode             `json:"mode"`
}

// Package returns the attached package with the given id
func (l *LineItem) Package(id int) (Package, bool) {
	for _, p := range l.Packages {
		if p.ID == id {
			return p, true
		}
	}
	return Package{}, false
}

// HasPackage reports whether a package override is active
func (l *LineItem) HasPackage() bool {
	return l.SelectedPackageID != nil
}

// recompute refreshes the derived price and total
func (l *LineItem) recompute() {
	l.Price = EffectivePrice(*l)
	l.Total = l.Price.Mul(l.Quantity)
}

// clone returns a copy that shares no memory with l
func (l *LineItem) clone() LineItem {
	out := *l
	out.UnitID = copyInt(l.UnitID)
	out.SelectedPackageID = copyInt(l.SelectedPackageID)
	out.CurrentStock = copyDecimal(l.CurrentStock)
	out.Packages = clonePackages(l.Packages)
	return out
}

// newLine builds a fresh line for product under mode
func newLine(product Product, quantity decimal.Decimal, mode Mode) LineItem {
	line := LineItem{
		ID:           product.ID,
		ProductID:    product.ID,
		Name:         product.Name,
		Code:         product.Code,
		Quantity:     quantity,
		UnitID:       copyInt(product.UnitID),
		UnitFamily:   product.UnitFamily,
		UnitPrice:    BaseUnitPrice(product, mode),
		CurrentStock: copyDecimal(product.CurrentStock),
		Mode:         mode,
	}
	line.Packages = clonePackages(product.Packages)
	if line.Packages == nil {
		line.Packages = []Package{}
	}
	line.recompute()
	return line
}

// SubmissionLine is what the persistence side receives when a transaction is finalized
type SubmissionLine struct {
	ProductID int             `json:"product_id"`
	Quantity  decimal.Decimal `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	UnitID    *int            `json:"unit_id,omitempty"`
	PackageID *int            `json:"package_id,omitempty"`
}

// Totals represents calculated cart totals
type Totals struct {
	LineCount int             `json:"line_count"` // Number of distinct lines
	ItemCount decimal.Decimal `json:"item_count"` // Sum of all quantities
	Total     decimal.Decimal `json:"total"`
}

func clonePackages(in []Package) []Package {
	if in == nil {
		return nil
	}
	out := make([]Package, len(in))
	for i, p := range in {
		p.AvailableStock = copyDecimal(p.AvailableStock)
		out[i] = p
	}
	return out
}

func copyInt(v *int) *int {
	if v == nil {
		return nil
	}
	out := *v
	return &out
}

func copyDecimal(v *decimal.Decimal) *decimal.Decimal {
	if v == nil {
		return nil
	}
	out := *v
	return &out
}
