// internal/domain/cart/catalog.go
package cart

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// Validate rejects malformed product descriptors before they reach the store
func (p Product) Validate() error {
	if err := validate.Struct(p); err != nil {
		return fmt.Errorf("%w: %v", ErrMalformedProduct, err)
	}

	if p.SalePrice.IsNegative() || p.PurchasePrice.IsNegative() {
		return fmt.Errorf("%w: product %d has a negative price", ErrMalformedProduct, p.ID)
	}

	seen := make(map[int]struct{}, len(p.Packages))
	for _, pkg := range p.Packages {
		if _, dup := seen[pkg.ID]; dup {
			return fmt.Errorf("%w: product %d lists package %d twice", ErrMalformedProduct, p.ID, pkg.ID)
		}
		seen[pkg.ID] = struct{}{}

		if pkg.SalePrice.IsNegative() || pkg.PurchasePrice.IsNegative() {
			return fmt.Errorf("%w: package %d has a negative price", ErrMalformedProduct, pkg.ID)
		}
		if pkg.QuantityPerPackage.IsNegative() {
			return fmt.Errorf("%w: package %d has a negative quantity per package", ErrMalformedProduct, pkg.ID)
		}
	}

	return nil
}

// Validate checks every family of the catalog. Non-positive factors are
// always rejected when strict is set; otherwise only negative ones are,
// and zero factors are later read as 1 by Convert.
func (c UnitCatalog) Validate(strict bool) error {
	for family, units := range c {
		if strings.TrimSpace(family) == "" {
			return fmt.Errorf("%w: empty family name", ErrMalformedUnitCatalog)
		}

		seen := make(map[int]struct{}, len(units))
		for _, u := range units {
			if err := validate.Struct(u); err != nil {
				return fmt.Errorf("%w: family %q: %v", ErrMalformedUnitCatalog, family, err)
			}
			if _, dup := seen[u.ID]; dup {
				return fmt.Errorf("%w: family %q lists unit %d twice", ErrMalformedUnitCatalog, family, u.ID)
			}
			seen[u.ID] = struct{}{}

			if u.FactorToBase.IsNegative() {
				return fmt.Errorf("%w: unit %d has a negative factor", ErrMalformedUnitCatalog, u.ID)
			}
			if strict && u.FactorToBase.IsZero() {
				return fmt.Errorf("%w: unit %d has no conversion factor", ErrMalformedUnitCatalog, u.ID)
			}
		}
	}
	return nil
}

// flexInt accepts both 12 and "12" on the wire
type flexInt int

func (f *flexInt) UnmarshalJSON(data []byte) error {
	raw := strings.Trim(strings.TrimSpace(string(data)), `"`)
	if raw == "" || raw == "null" {
		*f = 0
		return nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return fmt.Errorf("invalid integer %s: %w", string(data), err)
	}
	*f = flexInt(n)
	return nil
}

func (f *flexInt) optional() *int {
	if f == nil || *f == 0 {
		return nil
	}
	v := int(*f)
	return &v
}

// UnmarshalJSON coerces string-typed ids coming from upstream drafts
func (l *LineItem) UnmarshalJSON(data []byte) error {
	type plain LineItem
	aux := struct {
		*plain
		ID                flexInt  `json:"id"`
		ProductID         flexInt  `json:"product_id"`
		UnitID            *flexInt `json:"unit_id"`
		SelectedPackageID *flexInt `json:"selected_package_id"`
	}{plain: (*plain)(l)}

	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}

	l.ID = int(aux.ID)
	l.ProductID = int(aux.ProductID)
	if l.ID == 0 {
		l.ID = l.ProductID
	}
	l.UnitID = aux.UnitID.optional()
	l.SelectedPackageID = aux.SelectedPackageID.optional()
	return nil
}

// UnmarshalJSON coerces a string-typed package id
func (p *Package) UnmarshalJSON(data []byte) error {
	type plain Package
	aux := struct {
		*plain
		ID flexInt `json:"id"`
	}{plain: (*plain)(p)}

	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	p.ID = int(aux.ID)
	return nil
}
