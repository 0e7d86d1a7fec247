// internal/domain/cart/pricing.go
package cart

import "github.com/shopspring/decimal"

var one = decimal.NewFromInt(1)

// BaseUnitPrice picks the price that seeds a new line for mode
func BaseUnitPrice(product Product, mode Mode) decimal.Decimal {
	if mode == ModeSales {
		return product.SalePrice
	}
	return product.PurchasePrice
}

// PackagePrice picks the package price matching mode
func PackagePrice(pkg Package, mode Mode) decimal.Decimal {
	if mode == ModeSales {
		return pkg.SalePrice
	}
	return pkg.PurchasePrice
}

// Convert re-expresses a per-unit price from one unit into another of the same family:
// (price / from.FactorToBase) * to.FactorToBase.
// A non-positive factor is read as 1; defaulted reports that this happened.
func Convert(price decimal.Decimal, from, to Unit) (converted decimal.Decimal, defaulted bool) {
	fromFactor, fromDefaulted := factorOf(from)
	toFactor, toDefaulted := factorOf(to)

	// multiply first so exact ratios survive the division
	converted = price.Mul(toFactor).Div(fromFactor)
	return converted, fromDefaulted || toDefaulted
}

func factorOf(u Unit) (decimal.Decimal, bool) {
	if !u.FactorToBase.IsPositive() {
		return one, true
	}
	return u.FactorToBase, false
}

// EffectivePrice is the price actually billed per line quantity
func EffectivePrice(line LineItem) decimal.Decimal {
	if line.SelectedPackageID != nil {
		if pkg, ok := line.Package(*line.SelectedPackageID); ok {
			return PackagePrice(pkg, line.Mode)
		}
	}
	return line.UnitPrice
}

// LineTotal is EffectivePrice times quantity
func LineTotal(line LineItem) decimal.Decimal {
	return EffectivePrice(line).Mul(line.Quantity)
}
