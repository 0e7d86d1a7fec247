// internal/domain/transaction/service.go
package transaction

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/your-org/pos-backend/internal/domain/cart"
	"github.com/your-org/pos-backend/internal/domain/inventory"
	"gorm.io/gorm"
)

var (
	// ErrEmptySubmission is returned when checkout is attempted on an empty cart
	ErrEmptySubmission = errors.New("cannot finalize an empty cart")
	// ErrTransactionNotFound is returned when no transaction has the requested id
	ErrTransactionNotFound = errors.New("transaction not found")
)

// Service persists finalized carts
type Service struct {
	db        *gorm.DB
	inventory *inventory.Service
	logger    logrus.FieldLogger
}

// NewService creates a new transaction service
func NewService(db *gorm.DB, inventoryService *inventory.Service, logger logrus.FieldLogger) *Service {
	return &Service{
		db:        db,
		inventory: inventoryService,
		logger:    logger,
	}
}

// SubmitRequest carries a cart submission to persistence
type SubmitRequest struct {
	Mode      cart.Mode
	CashierID uint
	SessionID string
	Lines     []cart.SubmissionLine
}

// ListRequest filters transactions for reporting
type ListRequest struct {
	Mode  cart.Mode `form:"mode"`
	From  time.Time `form:"from" time_format:"2006-01-02" time_utc:"1"`
	To    time.Time `form:"to" time_format:"2006-01-02" time_utc:"1"`
	Limit int       `form:"limit"`
}

// Submit stores the transaction and moves stock in one database transaction
func (s *Service) Submit(ctx context.Context, req *SubmitRequest) (*Transaction, error) {
	txn, err := Build(req)
	if err != nil {
		return nil, err
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(txn).Error; err != nil {
			return fmt.Errorf("failed to create transaction: %w", err)
		}

		changes := make([]inventory.StockChange, 0, len(req.Lines))
		for _, line := range req.Lines {
			changes = append(changes, StockChange(line))
		}

		_, err := s.inventory.Apply(tx, &inventory.ApplyRequest{
			Mode:        req.Mode,
			ReferenceID: txn.ID,
			CashierID:   req.CashierID,
			Changes:     changes,
		})
		return err
	})
	if err != nil {
		return nil, err
	}

	s.logger.WithFields(logrus.Fields{
		"transaction_id": txn.ID,
		"number":         txn.Number,
		"mode":           txn.Mode,
		"cashier_id":     txn.CashierID,
		"session_id":     txn.SessionID,
		"total":          txn.Total.String(),
	}).Info("Transaction finalized")

	return txn, nil
}

// GetByID retrieves a transaction with its lines and products
func (s *Service) GetByID(ctx context.Context, id uint) (*Transaction, error) {
	var txn Transaction
	err := s.db.WithContext(ctx).
		Preload("Lines", func(db *gorm.DB) *gorm.DB { return db.Order("id ASC") }).
		Preload("Lines.Product").
		First(&txn, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrTransactionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve transaction: %w", err)
	}
	return &txn, nil
}

// List returns transactions matching req, newest first
func (s *Service) List(ctx context.Context, req *ListRequest) ([]Transaction, error) {
	query := s.db.WithContext(ctx).Model(&Transaction{})
	if req.Mode != "" {
		query = query.Where("mode = ?", string(req.Mode))
	}
	if !req.From.IsZero() {
		query = query.Where("created_at >= ?", req.From)
	}
	if !req.To.IsZero() {
		query = query.Where("created_at < ?", req.To.AddDate(0, 0, 1))
	}

	limit := req.Limit
	if limit <= 0 || limit > 5000 {
		limit = 1000
	}

	var txns []Transaction
	if err := query.Order("created_at DESC").Limit(limit).Find(&txns).Error; err != nil {
		return nil, fmt.Errorf("failed to list transactions: %w", err)
	}
	return txns, nil
}

// Build turns a submission into an unsaved transaction
func Build(req *SubmitRequest) (*Transaction, error) {
	if len(req.Lines) == 0 {
		return nil, ErrEmptySubmission
	}
	if _, err := cart.ParseMode(string(req.Mode)); err != nil {
		return nil, err
	}

	txn := &Transaction{
		Number:    NewNumber(req.Mode),
		Mode:      string(req.Mode),
		CashierID: req.CashierID,
		SessionID: req.SessionID,
		LineCount: len(req.Lines),
		ItemCount: decimal.Zero,
		Total:     decimal.Zero,
		Lines:     make([]TransactionLine, 0, len(req.Lines)),
	}

	for _, line := range req.Lines {
		if line.ProductID <= 0 || !line.Quantity.IsPositive() {
			return nil, fmt.Errorf("invalid submission line for product %d", line.ProductID)
		}

		lineTotal := line.UnitPrice.Mul(line.Quantity)
		txn.Lines = append(txn.Lines, TransactionLine{
			ProductID: uint(line.ProductID),
			Quantity:  line.Quantity,
			UnitPrice: line.UnitPrice,
			UnitID:    toUint(line.UnitID),
			PackageID: toUint(line.PackageID),
			LineTotal: lineTotal,
		})
		txn.ItemCount = txn.ItemCount.Add(line.Quantity)
		txn.Total = txn.Total.Add(lineTotal)
	}

	return txn, nil
}

// StockChange describes the stock effect of one submitted line
func StockChange(line cart.SubmissionLine) inventory.StockChange {
	return inventory.StockChange{
		ProductID: line.ProductID,
		Quantity:  line.Quantity,
		UnitID:    line.UnitID,
		PackageID: line.PackageID,
	}
}

// NewNumber generates a human-readable transaction number
func NewNumber(mode cart.Mode) string {
	prefix := "SAL"
	if mode == cart.ModePurchases {
		prefix = "PUR"
	}
	id := strings.ReplaceAll(uuid.NewString(), "-", "")
	return fmt.Sprintf("%s-%s", prefix, strings.ToUpper(id[:10]))
}

func toUint(v *int) *uint {
	if v == nil {
		return nil
	}
	out := uint(*v)
	return &out
}
