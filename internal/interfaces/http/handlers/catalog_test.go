package handlers_test

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/your-org/pos-backend/internal/domain/cart"
	"github.com/your-org/pos-backend/internal/domain/cashier"
	"github.com/your-org/pos-backend/internal/domain/catalog"
	"github.com/your-org/pos-backend/internal/domain/inventory"
	"github.com/your-org/pos-backend/internal/interfaces/http/handlers"
	"github.com/your-org/pos-backend/internal/interfaces/http/routes"
)

func newCatalogRouter(t *testing.T) (*gin.Engine, *MockCatalog, *MockMovements) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	catalogMock := new(MockCatalog)
	movements := new(MockMovements)
	router := gin.New()
	routes.SetupCatalogRoutes(router.Group("/api/v1"), handlers.NewCatalogHandler(catalogMock, movements), testConfig())

	t.Cleanup(func() {
		catalogMock.AssertExpectations(t)
		movements.AssertExpectations(t)
	})
	return router, catalogMock, movements
}

func TestCatalogHandler_Search(t *testing.T) {
	router, catalogMock, _ := newCatalogRouter(t)
	token := bearer(t, testConfig(), cashierID, cashier.RoleCashier)
	catalogMock.On("Search", mock.Anything, "egg", 5).Return([]cart.Product{eggs()}, nil).Once()

	w := perform(router, http.MethodGet, "/api/v1/products/search?q=egg&limit=5", token, nil)
	require.Equal(t, http.StatusOK, w.Code)

	data := decode(t, w)["data"].([]interface{})
	require.Len(t, data, 1)
	assert.Equal(t, "EGG-001", data[0].(map[string]interface{})["code"])
}

func TestCatalogHandler_SearchNeedsQuery(t *testing.T) {
	router, _, _ := newCatalogRouter(t)
	token := bearer(t, testConfig(), cashierID, cashier.RoleCashier)

	w := perform(router, http.MethodGet, "/api/v1/products/search", token, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCatalogHandler_GetProductByCode(t *testing.T) {
	router, catalogMock, _ := newCatalogRouter(t)
	token := bearer(t, testConfig(), cashierID, cashier.RoleCashier)
	catalogMock.On("GetProductByCode", mock.Anything, "EGG-001").Return(eggs(), nil).Once()
	catalogMock.On("GetProductByCode", mock.Anything, "NOPE").Return(cart.Product{}, catalog.ErrProductNotFound).Once()

	w := perform(router, http.MethodGet, "/api/v1/products/code/EGG-001", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Free Range Eggs", decode(t, w)["data"].(map[string]interface{})["name"])

	w = perform(router, http.MethodGet, "/api/v1/products/code/NOPE", token, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestCatalogHandler_GetProduct(t *testing.T) {
	router, catalogMock, _ := newCatalogRouter(t)
	token := bearer(t, testConfig(), cashierID, cashier.RoleCashier)
	catalogMock.On("GetProduct", mock.Anything, 1).Return(eggs(), nil).Once()

	w := perform(router, http.MethodGet, "/api/v1/products/1", token, nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w = perform(router, http.MethodGet, "/api/v1/products/zero", token, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCatalogHandler_GetUnits(t *testing.T) {
	router, catalogMock, _ := newCatalogRouter(t)
	token := bearer(t, testConfig(), cashierID, cashier.RoleCashier)
	units, _ := staticUnits{}.UnitCatalog(context.Background())
	catalogMock.On("UnitCatalog", mock.Anything).Return(units, nil).Once()

	w := perform(router, http.MethodGet, "/api/v1/units", token, nil)
	require.Equal(t, http.StatusOK, w.Code)

	data := decode(t, w)["data"].(map[string]interface{})
	assert.Len(t, data["count"], 2)
}

func TestCatalogHandler_UnitsFailure(t *testing.T) {
	router, catalogMock, _ := newCatalogRouter(t)
	token := bearer(t, testConfig(), cashierID, cashier.RoleCashier)
	catalogMock.On("UnitCatalog", mock.Anything).Return(nil, errors.New("connection reset")).Once()

	w := perform(router, http.MethodGet, "/api/v1/units", token, nil)
	require.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, "Failed to retrieve units", decode(t, w)["error"])
}

func TestCatalogHandler_MovementsNeedManager(t *testing.T) {
	router, _, movements := newCatalogRouter(t)
	cfg := testConfig()

	w := perform(router, http.MethodGet, "/api/v1/products/1/movements", bearer(t, cfg, cashierID, cashier.RoleCashier), nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	movements.On("History", mock.Anything, uint(1), 50).Return([]inventory.Movement{
		{
			ProductID:        1,
			MovementType:     inventory.MovementTypeOutbound,
			Reason:           inventory.ReasonSale,
			Quantity:         decimal.NewFromInt(3),
			PreviousQuantity: decimal.NewFromInt(10),
			NewQuantity:      decimal.NewFromInt(7),
		},
	}, nil).Once()

	w = perform(router, http.MethodGet, "/api/v1/products/1/movements", bearer(t, cfg, cashierID, cashier.RoleManager), nil)
	require.Equal(t, http.StatusOK, w.Code)

	data := decode(t, w)["data"].([]interface{})
	require.Len(t, data, 1)
	assert.Equal(t, "7", data[0].(map[string]interface{})["new_quantity"])
}
