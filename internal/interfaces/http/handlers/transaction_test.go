package handlers_test

import (
	"bytes"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
	"github.com/your-org/pos-backend/internal/domain/cart"
	"github.com/your-org/pos-backend/internal/domain/cashier"
	"github.com/your-org/pos-backend/internal/domain/transaction"
	"github.com/your-org/pos-backend/internal/interfaces/http/handlers"
	"github.com/your-org/pos-backend/internal/interfaces/http/routes"
)

type stubReceipts struct {
	err error
}

func (s stubReceipts) GenerateReceipt(txn *transaction.Transaction) (*bytes.Buffer, error) {
	if s.err != nil {
		return nil, s.err
	}
	return bytes.NewBufferString("%PDF-1.4 " + txn.Number), nil
}

func newTransactionRouter(t *testing.T, receipts handlers.ReceiptRenderer) (*gin.Engine, *MockTransactions) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	txns := new(MockTransactions)
	router := gin.New()
	routes.SetupTransactionRoutes(router.Group("/api/v1"), handlers.NewTransactionHandler(txns, receipts), testConfig())

	t.Cleanup(func() { txns.AssertExpectations(t) })
	return router, txns
}

func sampleTransaction() *transaction.Transaction {
	return &transaction.Transaction{
		ID:        5,
		Number:    "SAL-00AB12CD34",
		Mode:      string(cart.ModeSales),
		CashierID: cashierID,
		LineCount: 1,
		ItemCount: decimal.NewFromInt(3),
		Total:     decimal.RequireFromString("1.5"),
		CreatedAt: time.Date(2026, 3, 2, 10, 30, 0, 0, time.UTC),
	}
}

func TestTransactionHandler_Get(t *testing.T) {
	router, txns := newTransactionRouter(t, stubReceipts{})
	token := bearer(t, testConfig(), cashierID, cashier.RoleCashier)
	txns.On("GetByID", mock.Anything, uint(5)).Return(sampleTransaction(), nil).Once()
	txns.On("GetByID", mock.Anything, uint(6)).Return(nil, transaction.ErrTransactionNotFound).Once()

	w := perform(router, http.MethodGet, "/api/v1/transactions/5", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "1.5", decode(t, w)["data"].(map[string]interface{})["total"])

	w = perform(router, http.MethodGet, "/api/v1/transactions/6", token, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestTransactionHandler_Receipt(t *testing.T) {
	router, txns := newTransactionRouter(t, stubReceipts{})
	token := bearer(t, testConfig(), cashierID, cashier.RoleCashier)
	txns.On("GetByID", mock.Anything, uint(5)).Return(sampleTransaction(), nil).Once()

	w := perform(router, http.MethodGet, "/api/v1/transactions/5/receipt", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/pdf", w.Header().Get("Content-Type"))
	assert.Contains(t, w.Header().Get("Content-Disposition"), "receipt-SAL-00AB12CD34.pdf")
	assert.Contains(t, w.Body.String(), "SAL-00AB12CD34")
}

func TestTransactionHandler_ReceiptRenderFailure(t *testing.T) {
	router, txns := newTransactionRouter(t, stubReceipts{err: errors.New("wkhtmltopdf not found")})
	token := bearer(t, testConfig(), cashierID, cashier.RoleCashier)
	txns.On("GetByID", mock.Anything, uint(5)).Return(sampleTransaction(), nil).Once()

	w := perform(router, http.MethodGet, "/api/v1/transactions/5/receipt", token, nil)
	require.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, "Failed to generate receipt", decode(t, w)["error"])
}

func TestTransactionHandler_Export(t *testing.T) {
	router, txns := newTransactionRouter(t, stubReceipts{})
	cfg := testConfig()

	w := perform(router, http.MethodGet, "/api/v1/transactions/export", bearer(t, cfg, cashierID, cashier.RoleCashier), nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	txns.On("List", mock.Anything, mock.MatchedBy(func(req *transaction.ListRequest) bool {
		return req.Mode == cart.ModeSales && req.From.Equal(time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC))
	})).Return([]transaction.Transaction{*sampleTransaction()}, nil).Once()

	w = perform(router, http.MethodGet, "/api/v1/transactions/export?mode=sales&from=2026-03-01",
		bearer(t, cfg, cashierID, cashier.RoleManager), nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Contains(t, w.Header().Get("Content-Disposition"), ".xlsx")

	book, err := excelize.OpenReader(bytes.NewReader(w.Body.Bytes()))
	require.NoError(t, err)
	defer book.Close()

	rows, err := book.GetRows("Transactions")
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "SAL-00AB12CD34", rows[1][0])
}

func TestTransactionHandler_ExportRejectsBadDate(t *testing.T) {
	router, _ := newTransactionRouter(t, stubReceipts{})
	token := bearer(t, testConfig(), cashierID, cashier.RoleManager)

	w := perform(router, http.MethodGet, "/api/v1/transactions/export?from=yesterday", token, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
