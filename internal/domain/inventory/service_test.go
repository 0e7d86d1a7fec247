package inventory

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/your-org/pos-backend/internal/domain/cart"
	"github.com/your-org/pos-backend/internal/domain/catalog"
)

func TestDirectionFor(t *testing.T) {
	movementType, reason := DirectionFor(cart.ModeSales)
	assert.Equal(t, MovementTypeOutbound, movementType)
	assert.Equal(t, ReasonSale, reason)

	movementType, reason = DirectionFor(cart.ModePurchases)
	assert.Equal(t, MovementTypeInbound, movementType)
	assert.Equal(t, ReasonPurchase, reason)
}

func TestNextQuantity(t *testing.T) {
	tests := []struct {
		name     string
		kind     MovementType
		previous string
		quantity string
		want     string
		wantErr  error
	}{
		{name: "inbound adds", kind: MovementTypeInbound, previous: "10", quantity: "2.5", want: "12.5"},
		{name: "outbound subtracts", kind: MovementTypeOutbound, previous: "10", quantity: "4", want: "6"},
		{name: "outbound to zero", kind: MovementTypeOutbound, previous: "3", quantity: "3", want: "0"},
		{name: "outbound beyond stock", kind: MovementTypeOutbound, previous: "3", quantity: "3.01", wantErr: ErrInsufficientStock},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NextQuantity(tt.kind, decimal.RequireFromString(tt.previous), decimal.RequireFromString(tt.quantity))
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.True(t, got.Equal(decimal.RequireFromString(tt.want)), "got %s", got)
		})
	}
}

func TestNextQuantity_UnknownType(t *testing.T) {
	_, err := NextQuantity("sideways", decimal.Zero, decimal.NewFromInt(1))
	assert.Error(t, err)
}

var (
	piece    = catalog.Unit{ID: 1, Abbreviation: "pc", Family: "count", FactorToBase: decimal.NewFromInt(1)}
	dozen    = catalog.Unit{ID: 2, Abbreviation: "dz", Family: "count", FactorToBase: decimal.NewFromInt(12)}
	gram     = catalog.Unit{ID: 3, Abbreviation: "g", Family: "weight", FactorToBase: decimal.NewFromInt(1)}
	kilogram = catalog.Unit{ID: 4, Abbreviation: "kg", Family: "weight", FactorToBase: decimal.NewFromInt(1000)}
	tray     = catalog.ProductPackage{ID: 9, ProductID: 1, Name: "Tray of 30", QuantityPerPackage: decimal.NewFromInt(30)}
)

func TestStockQuantity(t *testing.T) {
	broken := catalog.Unit{ID: 5, Abbreviation: "bx", Family: "count"}
	emptyTray := catalog.ProductPackage{ID: 10, ProductID: 1, Name: "Loose"}

	tests := []struct {
		name      string
		quantity  string
		pkg       *catalog.ProductPackage
		lineUnit  *catalog.Unit
		stockUnit *catalog.Unit
		want      string
		wantErr   error
	}{
		{name: "stock unit unchanged", quantity: "3", lineUnit: &kilogram, stockUnit: &kilogram, want: "3"},
		{name: "no units", quantity: "3", want: "3"},
		{name: "grams from kilogram stock", quantity: "250", lineUnit: &gram, stockUnit: &kilogram, want: "0.25"},
		{name: "kilograms from gram stock", quantity: "1.5", lineUnit: &kilogram, stockUnit: &gram, want: "1500"},
		{name: "dozens from piece stock", quantity: "2", lineUnit: &dozen, stockUnit: &piece, want: "24"},
		{name: "packages count their contents", quantity: "2", pkg: &tray, lineUnit: &dozen, stockUnit: &piece, want: "60"},
		{name: "zero package size counts as one", quantity: "2", pkg: &emptyTray, want: "2"},
		{name: "zero factor counts as one", quantity: "24", lineUnit: &broken, stockUnit: &dozen, want: "2"},
		{name: "families differ", quantity: "1", lineUnit: &gram, stockUnit: &piece, wantErr: ErrUnitMismatch},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := StockQuantity(decimal.RequireFromString(tt.quantity), tt.pkg, tt.lineUnit, tt.stockUnit)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.True(t, got.Equal(decimal.RequireFromString(tt.want)), "got %s", got)
		})
	}
}

func TestStockQuantity_FromCartSubmission(t *testing.T) {
	units := cart.UnitCatalog{
		"count":  {{ID: 1, Name: "Piece", FactorToBase: decimal.NewFromInt(1)}, {ID: 2, Name: "Dozen", FactorToBase: decimal.NewFromInt(12)}},
		"weight": {{ID: 3, Name: "Gram", FactorToBase: decimal.NewFromInt(1)}, {ID: 4, Name: "Kilogram", FactorToBase: decimal.NewFromInt(1000)}},
	}
	eggStock := decimal.NewFromInt(360)
	riceStock := decimal.NewFromInt(500)
	pieceID, kgID, trayID := 1, 4, 9

	eggs := cart.Product{
		ID: 1, Name: "Free Range Eggs", SalePrice: decimal.RequireFromString("0.50"),
		CurrentStock: &eggStock, UnitID: &pieceID, UnitFamily: "count",
		Packages: []cart.Package{{ID: trayID, DisplayName: "Tray of 30", QuantityPerPackage: decimal.NewFromInt(30), SalePrice: decimal.RequireFromString("13.50")}},
	}
	rice := cart.Product{
		ID: 2, Name: "Basmati Rice", SalePrice: decimal.RequireFromString("2.40"),
		CurrentStock: &riceStock, UnitID: &kgID, UnitFamily: "weight",
	}

	svc, err := cart.NewService(cart.ModeSales, units)
	require.NoError(t, err)
	require.True(t, svc.AddItem(rice, decimal.NewFromInt(1)).OK)
	require.True(t, svc.ChangeUnit(rice.ID, 3).OK)
	require.True(t, svc.SetQuantity(rice.ID, decimal.NewFromInt(250)).OK)
	require.True(t, svc.AddItem(eggs, decimal.NewFromInt(1)).OK)
	require.True(t, svc.SelectPackage(eggs.ID, &trayID).OK)
	require.True(t, svc.SetQuantity(eggs.ID, decimal.NewFromInt(2)).OK)

	stockUnits := map[int]*catalog.Unit{eggs.ID: &piece, rice.ID: &kilogram}
	lineUnits := map[int]*catalog.Unit{1: &piece, 2: &dozen, 3: &gram, 4: &kilogram}
	stock := map[int]decimal.Decimal{eggs.ID: eggStock, rice.ID: riceStock}
	want := map[int]string{eggs.ID: "300", rice.ID: "499.75"}

	lines := svc.Submission()
	require.Len(t, lines, 2)
	for _, line := range lines {
		var pkg *catalog.ProductPackage
		if line.PackageID != nil {
			require.Equal(t, trayID, *line.PackageID)
			pkg = &tray
		}
		require.NotNil(t, line.UnitID)

		quantity, err := StockQuantity(line.Quantity, pkg, lineUnits[*line.UnitID], stockUnits[line.ProductID])
		require.NoError(t, err)

		next, err := NextQuantity(MovementTypeOutbound, stock[line.ProductID], quantity)
		require.NoError(t, err)
		assert.True(t, next.Equal(decimal.RequireFromString(want[line.ProductID])), "product %d: got %s", line.ProductID, next)
	}
}
