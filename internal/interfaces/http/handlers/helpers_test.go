package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/your-org/pos-backend/internal/config"
	"github.com/your-org/pos-backend/internal/domain/cart"
	"github.com/your-org/pos-backend/internal/domain/cashier"
	"github.com/your-org/pos-backend/internal/domain/draft"
	"github.com/your-org/pos-backend/internal/domain/inventory"
	"github.com/your-org/pos-backend/internal/domain/transaction"
	"github.com/your-org/pos-backend/internal/interfaces/http/handlers"
	"github.com/your-org/pos-backend/internal/pkg/auth"
)

func testConfig() *config.Config {
	return &config.Config{
		App: config.AppConfig{Name: "POS Backend"},
		JWT: config.JWTConfig{
			Secret:            "0123456789abcdef0123456789abcdef",
			AccessTokenExpiry: time.Hour,
		},
		Cart: config.CartConfig{
			DraftTTL:       time.Hour,
			SessionIdleTTL: time.Hour,
			SweepInterval:  time.Minute,
		},
	}
}

func bearer(t *testing.T, cfg *config.Config, cashierID uint, role cashier.Role) string {
	t.Helper()
	token, err := auth.NewJWTManager(cfg).GenerateAccessToken(cashierID, "C001", string(role))
	require.NoError(t, err)
	return "Bearer " + token
}

func perform(router *gin.Engine, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	var reader *bytes.Reader
	if body != nil {
		raw, _ := json.Marshal(body)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", token)
	}

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}

type staticUnits struct{}

func (staticUnits) UnitCatalog(context.Context) (cart.UnitCatalog, error) {
	return cart.UnitCatalog{
		"count": {
			{ID: 1, Name: "Piece", FactorToBase: decimal.NewFromInt(1)},
			{ID: 2, Name: "Dozen", FactorToBase: decimal.NewFromInt(12)},
		},
	}, nil
}

func eggs() cart.Product {
	unitID := 1
	stock := decimal.NewFromInt(10)
	return cart.Product{
		ID:           1,
		Name:         "Free Range Eggs",
		Code:         "EGG-001",
		SalePrice:    decimal.RequireFromString("0.50"),
		CurrentStock: &stock,
		UnitID:       &unitID,
		UnitFamily:   "count",
		Packages: []cart.Package{
			{ID: 3, DisplayName: "Tray of 6", QuantityPerPackage: decimal.NewFromInt(6), SalePrice: decimal.RequireFromString("2.70")},
		},
	}
}

// --- Mocks ---

type MockCatalog struct {
	mock.Mock
}

func (m *MockCatalog) GetProduct(ctx context.Context, id int) (cart.Product, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(cart.Product), args.Error(1)
}

func (m *MockCatalog) GetProductByCode(ctx context.Context, code string) (cart.Product, error) {
	args := m.Called(ctx, code)
	return args.Get(0).(cart.Product), args.Error(1)
}

func (m *MockCatalog) Search(ctx context.Context, query string, limit int) ([]cart.Product, error) {
	args := m.Called(ctx, query, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]cart.Product), args.Error(1)
}

func (m *MockCatalog) UnitCatalog(ctx context.Context) (cart.UnitCatalog, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(cart.UnitCatalog), args.Error(1)
}

var _ handlers.CatalogReader = (*MockCatalog)(nil)

type MockMovements struct {
	mock.Mock
}

func (m *MockMovements) History(ctx context.Context, productID uint, limit int) ([]inventory.Movement, error) {
	args := m.Called(ctx, productID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]inventory.Movement), args.Error(1)
}

type MockDrafts struct {
	mock.Mock
}

func (m *MockDrafts) Save(ctx context.Context, d *draft.Draft) error {
	return m.Called(ctx, d).Error(0)
}

func (m *MockDrafts) Load(ctx context.Context, sessionID string) (*draft.Draft, error) {
	args := m.Called(ctx, sessionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*draft.Draft), args.Error(1)
}

func (m *MockDrafts) Delete(ctx context.Context, sessionID string) error {
	return m.Called(ctx, sessionID).Error(0)
}

var _ handlers.DraftStore = (*MockDrafts)(nil)

type MockTransactions struct {
	mock.Mock
}

func (m *MockTransactions) Submit(ctx context.Context, req *transaction.SubmitRequest) (*transaction.Transaction, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*transaction.Transaction), args.Error(1)
}

func (m *MockTransactions) GetByID(ctx context.Context, id uint) (*transaction.Transaction, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*transaction.Transaction), args.Error(1)
}

func (m *MockTransactions) List(ctx context.Context, req *transaction.ListRequest) ([]transaction.Transaction, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]transaction.Transaction), args.Error(1)
}

var (
	_ handlers.TransactionRecorder = (*MockTransactions)(nil)
	_ handlers.TransactionReader   = (*MockTransactions)(nil)
)

// inlineLocker runs the critical section directly, or fails with err
type inlineLocker struct {
	err  error
	keys []string
}

func (l *inlineLocker) WithLock(_ context.Context, key string, _ time.Duration, fn func() error) error {
	l.keys = append(l.keys, key)
	if l.err != nil {
		return l.err
	}
	return fn()
}
