// internal/domain/cashier/entity.go
package cashier

import (
	"time"

	"gorm.io/gorm"
)

// Role controls what a cashier may do at the till
type Role string

const (
	RoleCashier Role = "cashier"
	RoleManager Role = "manager"
)

// Cashier represents a till operator who signs in with a code and PIN
type Cashier struct {
	ID          uint           `gorm:"primaryKey" json:"id"`
	Code        string         `gorm:"uniqueIndex;not null;size:20" json:"code"`
	Name        string         `gorm:"not null;size:100" json:"name"`
	PINHash     string         `gorm:"not null;size:255" json:"-"`
	Role        Role           `gorm:"size:20;default:'cashier'" json:"role"`
	IsActive    bool           `gorm:"default:true" json:"is_active"`
	LastLoginAt *time.Time     `json:"last_login_at"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`
}

// TableName overrides the table name for Cashier
func (Cashier) TableName() string {
	return "cashiers"
}

// CanPurchase reports whether the cashier may open purchase carts
func (c *Cashier) CanPurchase() bool {
	return c.Role == RoleManager
}
