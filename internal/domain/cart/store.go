// internal/domain/cart/store.go
package cart

import (
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

// Store owns the line collection of one cart. Every method either commits a
// complete new state and publishes exactly one event, or returns an error and
// leaves the collection untouched.
type Store struct {
	mode     Mode
	units    UnitCatalog
	policy   StockPolicy
	notifier *Notifier
	logger   logrus.FieldLogger
	lines    []LineItem
}

// NewStore creates an empty store bound to mode
func NewStore(mode Mode, units UnitCatalog, policy StockPolicy, notifier *Notifier, logger logrus.FieldLogger) *Store {
	return &Store{
		mode:     mode,
		units:    units,
		policy:   policy,
		notifier: notifier,
		logger:   logger,
		lines:    []LineItem{},
	}
}

// AddItem adds quantity of product, merging into the existing line if there is one
func (s *Store) AddItem(product Product, quantity decimal.Decimal) (LineItem, error) {
	if quantity.IsZero() {
		return LineItem{}, newDomainError(ErrInvalidQuantity, product.ID, "cannot add zero")
	}

	idx := s.indexOf(product.ID)
	if idx < 0 {
		if !quantity.IsPositive() {
			return LineItem{}, newDomainError(ErrInvalidQuantity, product.ID, quantity.String())
		}

		line := newLine(product, quantity, s.mode)
		if err := s.policy.Validate(line, quantity); err != nil {
			return LineItem{}, err
		}

		s.lines = append(s.lines, line)
		s.publish(EventAdd, line)
		return line.clone(), nil
	}

	next := s.lines[idx].clone()
	requested := next.Quantity.Add(quantity)
	if !requested.IsPositive() {
		return LineItem{}, newDomainError(ErrInvalidQuantity, product.ID, requested.String())
	}
	if quantity.IsPositive() {
		if err := s.policy.Validate(next, requested); err != nil {
			return LineItem{}, err
		}
	}

	next.Quantity = requested
	next.recompute()
	s.lines[idx] = next
	if quantity.IsPositive() {
		s.publish(EventAdd, next)
	} else {
		s.publish(EventUpdate, next)
	}
	return next.clone(), nil
}

// RemoveItem deletes the line for productID. Removing an absent line is a
// no-op and reports false.
func (s *Store) RemoveItem(productID int) bool {
	idx := s.indexOf(productID)
	if idx < 0 {
		return false
	}

	removed := s.lines[idx]
	s.lines = append(s.lines[:idx:idx], s.lines[idx+1:]...)
	s.publish(EventRemove, removed)
	return true
}

// SetQuantity replaces the quantity of an existing line
func (s *Store) SetQuantity(productID int, quantity decimal.Decimal) (LineItem, error) {
	if !quantity.IsPositive() {
		return LineItem{}, newDomainError(ErrInvalidQuantity, productID, quantity.String())
	}

	idx := s.indexOf(productID)
	if idx < 0 {
		return LineItem{}, newDomainError(ErrUnknownLine, productID, "")
	}

	next := s.lines[idx].clone()
	if quantity.GreaterThan(next.Quantity) {
		if err := s.policy.Validate(next, quantity); err != nil {
			return LineItem{}, err
		}
	}

	next.Quantity = quantity
	next.recompute()
	s.lines[idx] = next
	s.publish(EventUpdate, next)
	return next.clone(), nil
}

// ChangeUnit moves a line to another unit of its family and reprices it
func (s *Store) ChangeUnit(productID, unitID int) (LineItem, error) {
	idx := s.indexOf(productID)
	if idx < 0 {
		return LineItem{}, newDomainError(ErrUnknownLine, productID, "")
	}

	next := s.lines[idx].clone()
	if next.HasPackage() {
		return LineItem{}, newDomainError(ErrIncompatibleUnit, productID, "a package is selected")
	}
	if next.UnitFamily == "" || next.UnitID == nil {
		return LineItem{}, newDomainError(ErrIncompatibleUnit, productID, "line has no unit family")
	}

	target, ok := s.units.Lookup(next.UnitFamily, unitID)
	if !ok {
		return LineItem{}, newDomainError(ErrIncompatibleUnit, productID,
			fmt.Sprintf("unit %d is not in family %q", unitID, next.UnitFamily))
	}

	current, ok := s.units.Lookup(next.UnitFamily, *next.UnitID)
	if !ok {
		s.logger.WithFields(logrus.Fields{
			"product_id":  productID,
			"unit_id":     *next.UnitID,
			"unit_family": next.UnitFamily,
		}).Warn("Current unit missing from unit catalog, assuming factor 1")
		current = Unit{ID: *next.UnitID}
	}

	price, defaulted := Convert(next.UnitPrice, current, target)
	if defaulted {
		s.logger.WithFields(logrus.Fields{
			"product_id":     productID,
			"from_unit":      current.ID,
			"to_unit":        target.ID,
			"unit_family":    next.UnitFamily,
			"from_factor":    current.FactorToBase.String(),
			"to_factor":      target.FactorToBase.String(),
			"original_price": next.UnitPrice.String(),
		}).Warn("Unit conversion used a defaulted factor of 1")
	}

	next.UnitPrice = price
	next.UnitID = &target.ID
	next.recompute()
	s.lines[idx] = next
	s.publish(EventChangeUnit, next)
	return next.clone(), nil
}

// SelectPackage overrides the line price with a package price, or restores the
// per-unit price when packageID is nil
func (s *Store) SelectPackage(productID int, packageID *int) (LineItem, error) {
	idx := s.indexOf(productID)
	if idx < 0 {
		return LineItem{}, newDomainError(ErrUnknownLine, productID, "")
	}

	next := s.lines[idx].clone()
	if packageID == nil {
		next.SelectedPackageID = nil
	} else {
		if _, ok := next.Package(*packageID); !ok {
			return LineItem{}, newDomainError(ErrUnknownPackage, productID, fmt.Sprintf("package %d", *packageID))
		}
		next.SelectedPackageID = copyInt(packageID)
	}

	next.recompute()
	s.lines[idx] = next
	s.publish(EventUpdate, next)
	return next.clone(), nil
}

// Clear empties the cart
func (s *Store) Clear() {
	s.lines = []LineItem{}
	s.publish(EventClear, LineItem{})
}

// Initialize replaces the collection with previously built lines, typically
// a resumed draft. Lines are normalized but stock is not re-checked.
func (s *Store) Initialize(items []LineItem) error {
	lines := make([]LineItem, 0, len(items))
	seen := make(map[int]struct{}, len(items))

	for _, item := range items {
		line, err := s.normalize(item)
		if err != nil {
			return err
		}
		if _, dup := seen[line.ID]; dup {
			return newDomainError(ErrMalformedLine, line.ID, "duplicate line")
		}
		seen[line.ID] = struct{}{}
		lines = append(lines, line)
	}

	s.lines = lines
	s.publish(EventInitialize, LineItem{})
	return nil
}

// Items returns a deep copy of the lines in insertion order
func (s *Store) Items() []LineItem {
	out := make([]LineItem, len(s.lines))
	for i := range s.lines {
		out[i] = s.lines[i].clone()
	}
	return out
}

// Line returns a copy of the line for productID
func (s *Store) Line(productID int) (LineItem, bool) {
	idx := s.indexOf(productID)
	if idx < 0 {
		return LineItem{}, false
	}
	return s.lines[idx].clone(), true
}

// Len returns the number of lines
func (s *Store) Len() int {
	return len(s.lines)
}

func (s *Store) normalize(item LineItem) (LineItem, error) {
	line := item.clone()
	if line.ID == 0 {
		line.ID = line.ProductID
	}
	if line.ID <= 0 {
		return LineItem{}, newDomainError(ErrMalformedLine, line.ID, "missing product id")
	}
	line.ProductID = line.ID
	line.Mode = s.mode

	if !line.Quantity.IsPositive() {
		return LineItem{}, newDomainError(ErrInvalidQuantity, line.ID, line.Quantity.String())
	}
	if line.SelectedPackageID != nil {
		if _, ok := line.Package(*line.SelectedPackageID); !ok {
			return LineItem{}, newDomainError(ErrUnknownPackage, line.ID, fmt.Sprintf("package %d", *line.SelectedPackageID))
		}
	}
	if line.Packages == nil {
		line.Packages = []Package{}
	}

	line.recompute()
	return line, nil
}

func (s *Store) indexOf(productID int) int {
	for i := range s.lines {
		if s.lines[i].ID == productID {
			return i
		}
	}
	return -1
}

func (s *Store) publish(kind EventKind, line LineItem) {
	event := Event{Kind: kind}
	if line.ID != 0 {
		event.ProductID = line.ID
		event.Line = &line
	}
	s.notifier.Publish(event)
}
