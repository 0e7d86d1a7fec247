// internal/infrastructure/database/postgres/migration.go
package postgres

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/your-org/pos-backend/internal/domain/cashier"
	"github.com/your-org/pos-backend/internal/domain/catalog"
	"github.com/your-org/pos-backend/internal/domain/inventory"
	"github.com/your-org/pos-backend/internal/domain/transaction"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// Migration handles database migrations
type Migration struct {
	db     *gorm.DB
	logger logrus.FieldLogger
}

// NewMigration creates a new migration instance
func NewMigration(db *gorm.DB, logger logrus.FieldLogger) *Migration {
	return &Migration{
		db:     db,
		logger: logger,
	}
}

// Models lists every persisted model in dependency order
func Models() []interface{} {
	return []interface{}{
		// Catalog
		&catalog.Unit{},
		&catalog.Product{},
		&catalog.ProductPackage{},

		// Operators
		&cashier.Cashier{},

		// Finalized carts
		&transaction.Transaction{},
		&transaction.TransactionLine{},

		// Stock history
		&inventory.Movement{},
	}
}

// RunAutoMigrations runs GORM auto-migrations for all models
func (m *Migration) RunAutoMigrations() error {
	m.logger.Info("Running database auto-migrations")

	for _, model := range Models() {
		m.logger.Debugf("Migrating model: %T", model)
		if err := m.db.AutoMigrate(model); err != nil {
			return fmt.Errorf("failed to migrate model %T: %w", model, err)
		}
	}

	m.logger.Info("Database auto-migrations completed")
	return nil
}

// CreateIndexes creates additional indexes for till lookups and reporting
func (m *Migration) CreateIndexes() error {
	m.logger.Info("Creating additional database indexes")

	indexes := []string{
		// Catalog indexes
		"CREATE INDEX IF NOT EXISTS idx_products_active_name ON products(is_active, name)",
		"CREATE INDEX IF NOT EXISTS idx_product_packages_product_active ON product_packages(product_id, is_active)",
		"CREATE INDEX IF NOT EXISTS idx_units_family_active ON units(family, is_active)",

		// Transaction indexes
		"CREATE INDEX IF NOT EXISTS idx_transactions_mode_created ON transactions(mode, created_at DESC)",
		"CREATE INDEX IF NOT EXISTS idx_transactions_cashier_created ON transactions(cashier_id, created_at DESC)",

		// Movement indexes
		"CREATE INDEX IF NOT EXISTS idx_inventory_movements_product_created ON inventory_movements(product_id, created_at DESC)",
		"CREATE INDEX IF NOT EXISTS idx_inventory_movements_reference ON inventory_movements(reference_type, reference_id)",
	}

	for _, indexSQL := range indexes {
		if err := m.db.Exec(indexSQL).Error; err != nil {
			m.logger.WithError(err).WithField("sql", indexSQL).Warn("Failed to create index")
		}
	}

	m.logger.Info("Database indexes created")
	return nil
}

// SeedInitialData loads units, a few products and two cashiers for development
func (m *Migration) SeedInitialData(bcryptCost int) error {
	m.logger.Info("Seeding initial data")

	units, err := m.seedUnits()
	if err != nil {
		return err
	}
	if err := m.seedProducts(units); err != nil {
		return err
	}
	if err := m.seedCashiers(bcryptCost); err != nil {
		return err
	}

	m.logger.Info("Initial data seeded")
	return nil
}

func (m *Migration) seedUnits() (map[string]uint, error) {
	units := []catalog.Unit{
		{Name: "Piece", Abbreviation: "pc", Family: "count", FactorToBase: decimal.NewFromInt(1), IsActive: true},
		{Name: "Dozen", Abbreviation: "dz", Family: "count", FactorToBase: decimal.NewFromInt(12), IsActive: true},
		{Name: "Gram", Abbreviation: "g", Family: "weight", FactorToBase: decimal.NewFromInt(1), IsActive: true},
		{Name: "Kilogram", Abbreviation: "kg", Family: "weight", FactorToBase: decimal.NewFromInt(1000), IsActive: true},
	}

	ids := make(map[string]uint, len(units))
	for _, unit := range units {
		var existing catalog.Unit
		err := m.db.Where("abbreviation = ? AND family = ?", unit.Abbreviation, unit.Family).First(&existing).Error
		if err == nil {
			ids[unit.Abbreviation] = existing.ID
			continue
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("failed to look up unit %s: %w", unit.Name, err)
		}

		if err := m.db.Create(&unit).Error; err != nil {
			return nil, fmt.Errorf("failed to create unit %s: %w", unit.Name, err)
		}
		ids[unit.Abbreviation] = unit.ID
		m.logger.WithField("unit", unit.Name).Info("Created unit")
	}
	return ids, nil
}

func (m *Migration) seedProducts(units map[string]uint) error {
	unit := func(abbreviation string) *uint {
		id := units[abbreviation]
		return &id
	}

	products := []catalog.Product{
		{
			Code:          "EGG-001",
			Name:          "Free Range Eggs",
			SalePrice:     decimal.RequireFromString("0.50"),
			PurchasePrice: decimal.RequireFromString("0.30"),
			StockQuantity: decimal.NewFromInt(360),
			TrackStock:    true,
			UnitID:        unit("pc"),
			IsActive:      true,
			Packages: []catalog.ProductPackage{
				{
					Name:               "Tray of 30",
					QuantityPerPackage: decimal.NewFromInt(30),
					SalePrice:          decimal.RequireFromString("13.50"),
					PurchasePrice:      decimal.RequireFromString("8.00"),
					IsActive:           true,
				},
			},
		},
		{
			Code:          "RICE-5KG",
			Name:          "Basmati Rice",
			SalePrice:     decimal.RequireFromString("2.40"),
			PurchasePrice: decimal.RequireFromString("1.60"),
			StockQuantity: decimal.NewFromInt(500),
			TrackStock:    true,
			UnitID:        unit("kg"),
			IsActive:      true,
		},
		{
			Code:          "WTR-500",
			Name:          "Still Water 500ml",
			SalePrice:     decimal.RequireFromString("0.80"),
			PurchasePrice: decimal.RequireFromString("0.35"),
			StockQuantity: decimal.NewFromInt(240),
			TrackStock:    true,
			UnitID:        unit("pc"),
			IsActive:      true,
			Packages: []catalog.ProductPackage{
				{
					Name:               "Case of 24",
					QuantityPerPackage: decimal.NewFromInt(24),
					SalePrice:          decimal.RequireFromString("16.00"),
					PurchasePrice:      decimal.RequireFromString("7.50"),
					IsActive:           true,
				},
			},
		},
		{
			Code:       "BAG-001",
			Name:       "Carrier Bag",
			SalePrice:  decimal.RequireFromString("0.10"),
			TrackStock: false,
			IsActive:   true,
		},
	}

	for _, product := range products {
		var existing catalog.Product
		err := m.db.Where("code = ?", product.Code).First(&existing).Error
		if err == nil {
			m.logger.WithField("code", product.Code).Debug("Product already exists")
			continue
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("failed to look up product %s: %w", product.Code, err)
		}

		if err := m.db.Create(&product).Error; err != nil {
			return fmt.Errorf("failed to create product %s: %w", product.Code, err)
		}
		m.logger.WithFields(logrus.Fields{
			"code": product.Code,
			"id":   product.ID,
		}).Info("Created product")
	}
	return nil
}

func (m *Migration) seedCashiers(bcryptCost int) error {
	cashiers := []struct {
		code string
		name string
		pin  string
		role cashier.Role
	}{
		{code: "M001", name: "Store Manager", pin: "2580", role: cashier.RoleManager},
		{code: "C001", name: "Front Till", pin: "1470", role: cashier.RoleCashier},
	}

	for _, seed := range cashiers {
		var existing cashier.Cashier
		err := m.db.Where("code = ?", seed.code).First(&existing).Error
		if err == nil {
			continue
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("failed to look up cashier %s: %w", seed.code, err)
		}

		hash, err := bcrypt.GenerateFromPassword([]byte(seed.pin), bcryptCost)
		if err != nil {
			return fmt.Errorf("failed to hash pin: %w", err)
		}

		record := cashier.Cashier{
			Code:     seed.code,
			Name:     seed.name,
			PINHash:  string(hash),
			Role:     seed.role,
			IsActive: true,
		}
		if err := m.db.Create(&record).Error; err != nil {
			return fmt.Errorf("failed to create cashier %s: %w", seed.code, err)
		}

		m.logger.WithFields(logrus.Fields{
			"code": seed.code,
			"role": seed.role,
		}).Infof("Created cashier (pin: %s)", seed.pin)
	}
	return nil
}

// DropAllTables drops all tables (use with extreme caution)
func (m *Migration) DropAllTables() error {
	m.logger.Warn("Dropping all database tables")

	models := Models()
	for i := len(models) - 1; i >= 0; i-- {
		if err := m.db.Migrator().DropTable(models[i]); err != nil {
			m.logger.WithError(err).Warnf("Failed to drop table for %T", models[i])
		}
	}

	m.logger.Info("All tables dropped")
	return nil
}

// GetTableInfo logs the record count of every public table
func (m *Migration) GetTableInfo() error {
	var tables []string
	if err := m.db.Raw("SELECT tablename FROM pg_tables WHERE schemaname = 'public' ORDER BY tablename").Scan(&tables).Error; err != nil {
		return err
	}

	totalRecords := int64(0)
	for _, table := range tables {
		var count int64
		m.db.Table(table).Count(&count)
		totalRecords += count

		m.logger.WithFields(logrus.Fields{
			"table":   table,
			"records": count,
		}).Info("Table info")
	}

	m.logger.WithFields(logrus.Fields{
		"tables":  len(tables),
		"records": totalRecords,
	}).Info("Database summary")
	return nil
}
