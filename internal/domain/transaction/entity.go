// internal/domain/transaction/entity.go
package transaction

import (
	"strconv"
	"time"

	"github.com/shopspring/decimal"
	"github.com/your-org/pos-backend/internal/domain/catalog"
)

// Transaction represents a finalized sale or purchase
type Transaction struct {
	ID        uint            `gorm:"primaryKey" json:"id"`
	Number    string          `gorm:"uniqueIndex;not null;size:20" json:"number"`
	Mode      string          `gorm:"not null;size:20;index" json:"mode"`
	CashierID uint            `gorm:"not null;index" json:"cashier_id"`
	SessionID string          `gorm:"size:36;index" json:"session_id"`
	LineCount int             `gorm:"not null" json:"line_count"`
	ItemCount decimal.Decimal `gorm:"type:decimal(20,4);not null" json:"item_count"`
	Total     decimal.Decimal `gorm:"type:decimal(20,4);not null" json:"total"`
	CreatedAt time.Time       `gorm:"index" json:"created_at"`

	// Relationships
	Lines []TransactionLine `gorm:"foreignKey:TransactionID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"lines"`
}

// TransactionLine is one billed product line
type TransactionLine struct {
	ID            uint            `gorm:"primaryKey" json:"id"`
	TransactionID uint            `gorm:"not null;index" json:"transaction_id"`
	ProductID     uint            `gorm:"not null;index" json:"product_id"`
	Quantity      decimal.Decimal `gorm:"type:decimal(20,4);not null" json:"quantity"`
	UnitPrice     decimal.Decimal `gorm:"type:decimal(20,4);not null" json:"unit_price"`
	UnitID        *uint           `json:"unit_id,omitempty"`
	PackageID     *uint           `json:"package_id,omitempty"`
	LineTotal     decimal.Decimal `gorm:"type:decimal(20,4);not null" json:"line_total"`

	// Relationships
	Product *catalog.Product `gorm:"foreignKey:ProductID" json:"product,omitempty"`
}

// TableName overrides the table name for Transaction
func (Transaction) TableName() string {
	return "transactions"
}

// TableName overrides the table name for TransactionLine
func (TransactionLine) TableName() string {
	return "transaction_lines"
}

// ProductName returns the preloaded product name, falling back to its id
func (l *TransactionLine) ProductName() string {
	if l.Product != nil && l.Product.Name != "" {
		return l.Product.Name
	}
	return "#" + strconv.FormatUint(uint64(l.ProductID), 10)
}
