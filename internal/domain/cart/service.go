// internal/domain/cart/service.go
package cart

import (
	"errors"
	"fmt"
	"io"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

// Result is the single return shape of every cart mutation
type Result struct {
	OK        bool             `json:"ok"`
	Kind      ErrorKind        `json:"kind,omitempty"`
	Reason    string           `json:"reason,omitempty"`
	Available *decimal.Decimal `json:"available,omitempty"`
	Line      *LineItem        `json:"line,omitempty"`
	Err       error            `json:"-"`
}

// Option configures a Service
type Option func(*options)

type options struct {
	logger      logrus.FieldLogger
	strictUnits bool
}

// WithLogger sets the logger used for defaulted conversions and listener failures
func WithLogger(logger logrus.FieldLogger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithStrictUnits rejects unit catalogs containing zero conversion factors
func WithStrictUnits(strict bool) Option {
	return func(o *options) {
		o.strictUnits = strict
	}
}

// Service is the entry point for driving one cart. It is not safe for
// concurrent use; its owner serializes calls.
type Service struct {
	mode     Mode
	store    *Store
	notifier *Notifier
	logger   logrus.FieldLogger
}

// NewService creates an empty cart bound to mode for its whole lifetime
func NewService(mode Mode, units UnitCatalog, opts ...Option) (*Service, error) {
	if _, err := ParseMode(string(mode)); err != nil {
		return nil, err
	}

	o := options{}
	for _, opt := range opts {
		opt(&o)
	}
	if o.logger == nil {
		discard := logrus.New()
		discard.SetOutput(io.Discard)
		o.logger = discard
	}

	if units == nil {
		units = UnitCatalog{}
	}
	if err := units.Validate(o.strictUnits); err != nil {
		return nil, err
	}

	logger := o.logger.WithField("cart_mode", string(mode))
	notifier := NewNotifier(logger)

	return &Service{
		mode:     mode,
		store:    NewStore(mode, units, PolicyFor(mode), notifier, logger),
		notifier: notifier,
		logger:   logger,
	}, nil
}

// Mode returns the mode the cart was created with
func (s *Service) Mode() Mode {
	return s.mode
}

// AddItem adds quantity of product to the cart
func (s *Service) AddItem(product Product, quantity decimal.Decimal) Result {
	if err := product.Validate(); err != nil {
		return failure(err)
	}
	return lineResult(s.store.AddItem(product, quantity))
}

// AddOne adds a single unit of product
func (s *Service) AddOne(product Product) Result {
	return s.AddItem(product, one)
}

// RemoveItem deletes the line for productID; absent lines are not an error
func (s *Service) RemoveItem(productID int) Result {
	s.store.RemoveItem(productID)
	return Result{OK: true}
}

// SetQuantity replaces the quantity of a line
func (s *Service) SetQuantity(productID int, quantity decimal.Decimal) Result {
	return lineResult(s.store.SetQuantity(productID, quantity))
}

// ChangeUnit switches a line to another unit of the same family
func (s *Service) ChangeUnit(productID, unitID int) Result {
	return lineResult(s.store.ChangeUnit(productID, unitID))
}

// SelectPackage applies a package override, or clears it when packageID is nil
func (s *Service) SelectPackage(productID int, packageID *int) Result {
	return lineResult(s.store.SelectPackage(productID, packageID))
}

// Clear empties the cart
func (s *Service) Clear() Result {
	s.store.Clear()
	return Result{OK: true}
}

// Initialize replaces the cart contents with already-built lines
func (s *Service) Initialize(items []LineItem) Result {
	if err := s.store.Initialize(items); err != nil {
		return failure(err)
	}
	return Result{OK: true}
}

// Subscribe registers a change listener and returns its unsubscribe func
func (s *Service) Subscribe(listener Listener) func() {
	return s.notifier.Subscribe(listener)
}

// Items returns a snapshot of the lines
func (s *Service) Items() []LineItem {
	return s.store.Items()
}

// Line returns a snapshot of one line
func (s *Service) Line(productID int) (LineItem, bool) {
	return s.store.Line(productID)
}

// GetTotal sums every line total
func (s *Service) GetTotal() decimal.Decimal {
	total := decimal.Zero
	for _, line := range s.store.lines {
		total = total.Add(line.Total)
	}
	return total
}

// GetItemCount sums every line quantity
func (s *Service) GetItemCount() decimal.Decimal {
	count := decimal.Zero
	for _, line := range s.store.lines {
		count = count.Add(line.Quantity)
	}
	return count
}

// Totals bundles the readers for display
func (s *Service) Totals() Totals {
	return Totals{
		LineCount: s.store.Len(),
		ItemCount: s.GetItemCount(),
		Total:     s.GetTotal(),
	}
}

// Submission returns the lines in the shape the persistence side expects.
// UnitPrice is the price actually billed per quantity.
func (s *Service) Submission() []SubmissionLine {
	lines := make([]SubmissionLine, 0, s.store.Len())
	for _, line := range s.store.lines {
		lines = append(lines, SubmissionLine{
			ProductID: line.ProductID,
			Quantity:  line.Quantity,
			UnitPrice: line.Price,
			UnitID:    copyInt(line.UnitID),
			PackageID: copyInt(line.SelectedPackageID),
		})
	}
	return lines
}

func lineResult(line LineItem, err error) Result {
	if err != nil {
		return failure(err)
	}
	return Result{OK: true, Line: &line}
}

func failure(err error) Result {
	res := Result{
		Kind:   KindOf(err),
		Reason: err.Error(),
		Err:    err,
	}

	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		res.Available = copyDecimal(domainErr.Available)
		res.Line = domainErr.Line
	}
	return res
}

// AsError turns a failed Result back into an error, or nil on success
func (r Result) AsError() error {
	if r.OK {
		return nil
	}
	if r.Err != nil {
		return r.Err
	}
	return fmt.Errorf("cart operation failed: %s", r.Kind)
}
