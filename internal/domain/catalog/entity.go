// internal/domain/catalog/entity.go
package catalog

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Unit represents a unit of measure. Units sharing a Family are interchangeable.
type Unit struct {
	ID           uint            `gorm:"primaryKey" json:"id"`
	Name         string          `gorm:"size:50;not null" json:"name"`
	Abbreviation string          `gorm:"size:10;not null" json:"abbreviation"`
	Family       string          `gorm:"size:50;not null;index" json:"family"`
	FactorToBase decimal.Decimal `gorm:"type:decimal(20,6);not null;default:1" json:"factor_to_base"`
	IsActive     bool            `gorm:"default:true" json:"is_active"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
}

// Product represents a sellable and purchasable catalog item
type Product struct {
	ID            uint            `gorm:"primaryKey" json:"id"`
	Code          string          `gorm:"uniqueIndex;not null;size:100" json:"code"`
	Name          string          `gorm:"not null;size:255" json:"name"`
	SalePrice     decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"sale_price"`
	PurchasePrice decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"purchase_price"`
	StockQuantity decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"stock_quantity"`
	TrackStock    bool            `gorm:"default:true" json:"track_stock"`
	UnitID        *uint           `gorm:"index" json:"unit_id"`
	IsActive      bool            `gorm:"default:true" json:"is_active"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
	DeletedAt     gorm.DeletedAt  `gorm:"index" json:"-"`

	// Relationships
	Unit     *Unit            `gorm:"foreignKey:UnitID" json:"unit,omitempty"`
	Packages []ProductPackage `gorm:"foreignKey:ProductID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"packages,omitempty"`
}

// ProductPackage represents a fixed-price bundle of a product
type ProductPackage struct {
	ID                 uint             `gorm:"primaryKey" json:"id"`
	ProductID          uint             `gorm:"not null;index" json:"product_id"`
	Name               string           `gorm:"not null;size:100" json:"name"`
	QuantityPerPackage decimal.Decimal  `gorm:"type:decimal(20,4);not null" json:"quantity_per_package"`
	SalePrice          decimal.Decimal  `gorm:"type:decimal(20,4);default:0" json:"sale_price"`
	PurchasePrice      decimal.Decimal  `gorm:"type:decimal(20,4);default:0" json:"purchase_price"`
	StockQuantity      *decimal.Decimal `gorm:"type:decimal(20,4)" json:"stock_quantity,omitempty"`
	IsActive           bool             `gorm:"default:true" json:"is_active"`
	CreatedAt          time.Time        `json:"created_at"`
	UpdatedAt          time.Time        `json:"updated_at"`
}

// TableName overrides the table name for Unit
func (Unit) TableName() string {
	return "units"
}

// TableName overrides the table name for Product
func (Product) TableName() string {
	return "products"
}

// TableName overrides the table name for ProductPackage
func (ProductPackage) TableName() string {
	return "product_packages"
}
