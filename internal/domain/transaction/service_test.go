package transaction

import (
	"regexp"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/your-org/pos-backend/internal/domain/cart"
	"github.com/your-org/pos-backend/internal/domain/catalog"
)

func intPtr(v int) *int { return &v }

func TestBuild(t *testing.T) {
	req := &SubmitRequest{
		Mode:      cart.ModeSales,
		CashierID: 4,
		SessionID: "sess-1",
		Lines: []cart.SubmissionLine{
			{ProductID: 7, Quantity: decimal.NewFromInt(2), UnitPrice: decimal.NewFromInt(12), UnitID: intPtr(1), PackageID: intPtr(70)},
			{ProductID: 1, Quantity: decimal.RequireFromString("1.5"), UnitPrice: decimal.NewFromInt(10)},
		},
	}

	txn, err := Build(req)
	require.NoError(t, err)

	assert.Equal(t, "sales", txn.Mode)
	assert.Equal(t, uint(4), txn.CashierID)
	assert.Equal(t, 2, txn.LineCount)
	assert.True(t, txn.ItemCount.Equal(decimal.RequireFromString("3.5")))
	assert.True(t, txn.Total.Equal(decimal.NewFromInt(39)), "total %s", txn.Total)

	require.Len(t, txn.Lines, 2)
	first := txn.Lines[0]
	assert.Equal(t, uint(7), first.ProductID)
	assert.True(t, first.LineTotal.Equal(decimal.NewFromInt(24)))
	require.NotNil(t, first.PackageID)
	assert.Equal(t, uint(70), *first.PackageID)
	assert.Nil(t, txn.Lines[1].UnitID)
}

func TestBuild_RejectsEmpty(t *testing.T) {
	_, err := Build(&SubmitRequest{Mode: cart.ModeSales})
	assert.ErrorIs(t, err, ErrEmptySubmission)
}

func TestBuild_RejectsInvalidLines(t *testing.T) {
	tests := []struct {
		name string
		line cart.SubmissionLine
	}{
		{name: "missing product", line: cart.SubmissionLine{Quantity: decimal.NewFromInt(1)}},
		{name: "zero quantity", line: cart.SubmissionLine{ProductID: 1}},
		{name: "negative quantity", line: cart.SubmissionLine{ProductID: 1, Quantity: decimal.NewFromInt(-1)}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Build(&SubmitRequest{Mode: cart.ModeSales, Lines: []cart.SubmissionLine{tt.line}})
			assert.Error(t, err)
		})
	}
}

func TestBuild_RejectsUnknownMode(t *testing.T) {
	_, err := Build(&SubmitRequest{Mode: "returns", Lines: []cart.SubmissionLine{{ProductID: 1, Quantity: decimal.NewFromInt(1)}}})
	assert.Error(t, err)
}

func TestNewNumber(t *testing.T) {
	sale := NewNumber(cart.ModeSales)
	purchase := NewNumber(cart.ModePurchases)

	assert.Regexp(t, regexp.MustCompile(`^SAL-[0-9A-F]{10}$`), sale)
	assert.Regexp(t, regexp.MustCompile(`^PUR-[0-9A-F]{10}$`), purchase)
	assert.NotEqual(t, sale, NewNumber(cart.ModeSales))
}

func TestBuild_FromCartSubmission(t *testing.T) {
	svc, err := cart.NewService(cart.ModePurchases, cart.UnitCatalog{})
	require.NoError(t, err)
	res := svc.AddItem(cart.Product{ID: 5, Name: "Flour", PurchasePrice: decimal.RequireFromString("1.25")}, decimal.NewFromInt(8))
	require.True(t, res.OK, res.Reason)

	txn, err := Build(&SubmitRequest{Mode: svc.Mode(), Lines: svc.Submission()})
	require.NoError(t, err)

	assert.Equal(t, "purchases", txn.Mode)
	assert.True(t, txn.Total.Equal(svc.GetTotal()))
}

func TestProductName(t *testing.T) {
	line := TransactionLine{ProductID: 12}
	assert.Equal(t, "#12", line.ProductName())

	line.Product = &catalog.Product{Name: "Eggs"}
	assert.Equal(t, "Eggs", line.ProductName())
}

func TestStockChange_CarriesUnitAndPackage(t *testing.T) {
	grams := cart.SubmissionLine{ProductID: 2, Quantity: decimal.NewFromInt(250), UnitPrice: decimal.RequireFromString("0.0024"), UnitID: intPtr(3)}
	trays := cart.SubmissionLine{ProductID: 1, Quantity: decimal.NewFromInt(2), UnitPrice: decimal.RequireFromString("13.50"), UnitID: intPtr(1), PackageID: intPtr(9)}

	change := StockChange(grams)
	assert.Equal(t, 2, change.ProductID)
	assert.True(t, change.Quantity.Equal(decimal.NewFromInt(250)))
	require.NotNil(t, change.UnitID)
	assert.Equal(t, 3, *change.UnitID)
	assert.Nil(t, change.PackageID)

	change = StockChange(trays)
	require.NotNil(t, change.PackageID)
	assert.Equal(t, 9, *change.PackageID)
	assert.Equal(t, 1, *change.UnitID)
}
