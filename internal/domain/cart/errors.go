// internal/domain/cart/errors.go
package cart

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// ErrorKind classifies a rejected cart operation
type ErrorKind string

const (
	KindInvalidQuantity   ErrorKind = "InvalidQuantity"
	KindInsufficientStock ErrorKind = "InsufficientStock"
	KindIncompatibleUnit  ErrorKind = "IncompatibleUnit"
	KindUnknownLine       ErrorKind = "UnknownLine"
	KindUnknownPackage    ErrorKind = "UnknownPackage"
	KindMalformedInput    ErrorKind = "MalformedInput"
)

var (
	ErrInvalidQuantity   = errors.New("quantity must be greater than zero")
	ErrInsufficientStock = errors.New("insufficient stock")
	ErrIncompatibleUnit  = errors.New("incompatible unit")
	ErrUnknownLine       = errors.New("line not found in cart")
	ErrUnknownPackage    = errors.New("package not attached to line")

	// Contract violations by the caller rather than recoverable domain outcomes.
	ErrMalformedProduct     = errors.New("malformed product descriptor")
	ErrMalformedUnitCatalog = errors.New("malformed unit catalog")
	ErrMalformedLine        = errors.New("malformed line item")
)

// DomainError describes why a mutation was rejected
type DomainError struct {
	Err       error
	ProductID int
	Line      *LineItem
	Available *decimal.Decimal
	Detail    string
}

func (e *DomainError) Error() string {
	msg := fmt.Sprintf("product %d: %s", e.ProductID, e.Err.Error())
	if e.Available != nil {
		msg = fmt.Sprintf("%s (available: %s)", msg, e.Available.String())
	}
	if e.Detail != "" {
		msg = msg + ": " + e.Detail
	}
	return msg
}

func (e *DomainError) Unwrap() error {
	return e.Err
}

// KindOf maps an error returned by the cart to its ErrorKind.
// Unrecognized errors are reported as MalformedInput.
func KindOf(err error) ErrorKind {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrInvalidQuantity):
		return KindInvalidQuantity
	case errors.Is(err, ErrInsufficientStock):
		return KindInsufficientStock
	case errors.Is(err, ErrIncompatibleUnit):
		return KindIncompatibleUnit
	case errors.Is(err, ErrUnknownLine):
		return KindUnknownLine
	case errors.Is(err, ErrUnknownPackage):
		return KindUnknownPackage
	default:
		return KindMalformedInput
	}
}

func newDomainError(err error, productID int, detail string) *DomainError {
	return &DomainError{Err: err, ProductID: productID, Detail: detail}
}
