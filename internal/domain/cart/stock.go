// internal/domain/cart/stock.go
package cart

import "github.com/shopspring/decimal"

// StockPolicy decides whether a line may grow to a requested quantity.
// It is only consulted for quantity-increasing mutations.
type StockPolicy interface {
	Validate(line LineItem, requested decimal.Decimal) error
}

// PolicyFor returns the policy bound to mode
func PolicyFor(mode Mode) StockPolicy {
	if mode == ModeSales {
		return salesPolicy{}
	}
	return purchasesPolicy{}
}

// salesPolicy caps quantity at the stock snapshot taken when the line was added
type salesPolicy struct{}

func (salesPolicy) Validate(line LineItem, requested decimal.Decimal) error {
	if line.CurrentStock == nil {
		return nil
	}
	if requested.GreaterThan(*line.CurrentStock) {
		snapshot := line.clone()
		return &DomainError{
			Err:       ErrInsufficientStock,
			ProductID: line.ID,
			Line:      &snapshot,
			Available: copyDecimal(line.CurrentStock),
		}
	}
	return nil
}

// purchasesPolicy never constrains quantity
type purchasesPolicy struct{}

func (purchasesPolicy) Validate(LineItem, decimal.Decimal) error {
	return nil
}
