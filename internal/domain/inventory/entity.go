// internal/domain/inventory/entity.go
package inventory

import (
	"time"

	"github.com/shopspring/decimal"
)

// MovementType represents the direction of a stock movement
type MovementType string

const (
	MovementTypeInbound  MovementType = "inbound"  // Purchase, adjustment increase
	MovementTypeOutbound MovementType = "outbound" // Sale, adjustment decrease
)

// MovementReason represents the reason for a stock movement
type MovementReason string

const (
	ReasonSale       MovementReason = "sale"
	ReasonPurchase   MovementReason = "purchase"
	ReasonAdjustment MovementReason = "adjustment"
)

// Movement is an append-only record of a product stock change
type Movement struct {
	ID               uint            `gorm:"primaryKey" json:"id"`
	ProductID        uint            `gorm:"not null;index" json:"product_id"`
	MovementType     MovementType    `gorm:"not null;size:20" json:"movement_type"`
	Reason           MovementReason  `gorm:"not null;size:20" json:"reason"`
	Quantity         decimal.Decimal `gorm:"type:decimal(20,4);not null" json:"quantity"`
	PreviousQuantity decimal.Decimal `gorm:"type:decimal(20,4);not null" json:"previous_quantity"`
	NewQuantity      decimal.Decimal `gorm:"type:decimal(20,4);not null" json:"new_quantity"`
	ReferenceType    string          `gorm:"size:50" json:"reference_type"` // "transaction"
	ReferenceID      uint            `gorm:"index" json:"reference_id"`
	CashierID        uint            `gorm:"index" json:"cashier_id"`
	CreatedAt        time.Time       `json:"created_at"`
}

// TableName overrides the table name for Movement
func (Movement) TableName() string {
	return "inventory_movements"
}
