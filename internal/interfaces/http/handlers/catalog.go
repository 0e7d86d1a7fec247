// internal/interfaces/http/handlers/catalog.go
package handlers

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/your-org/pos-backend/internal/domain/cart"
	"github.com/your-org/pos-backend/internal/domain/inventory"
)

// CatalogReader is the read side of the product catalog used at the till
type CatalogReader interface {
	ProductLookup
	Search(ctx context.Context, query string, limit int) ([]cart.Product, error)
	UnitCatalog(ctx context.Context) (cart.UnitCatalog, error)
}

// MovementReader lists stock movements of a product
type MovementReader interface {
	History(ctx context.Context, productID uint, limit int) ([]inventory.Movement, error)
}

// CatalogHandler handles product lookup endpoints
type CatalogHandler struct {
	catalog   CatalogReader
	movements MovementReader
}

// NewCatalogHandler creates a new catalog handler
func NewCatalogHandler(catalog CatalogReader, movements MovementReader) *CatalogHandler {
	return &CatalogHandler{
		catalog:   catalog,
		movements: movements,
	}
}

// SearchProducts handles GET /products/search?q=
func (h *CatalogHandler) SearchProducts(c *gin.Context) {
	query := c.Query("q")
	if query == "" {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Search query is required",
		})
		return
	}

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))

	products, err := h.catalog.Search(c.Request.Context(), query, limit)
	if err != nil {
		respondError(c, err, "Failed to search products")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Products retrieved successfully",
		"data":    products,
	})
}

// GetProduct handles GET /products/:id
func (h *CatalogHandler) GetProduct(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid product ID",
		})
		return
	}

	product, err := h.catalog.GetProduct(c.Request.Context(), id)
	if err != nil {
		respondError(c, err, "Failed to retrieve product")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Product retrieved successfully",
		"data":    product,
	})
}

// GetProductByCode handles GET /products/code/:code
func (h *CatalogHandler) GetProductByCode(c *gin.Context) {
	product, err := h.catalog.GetProductByCode(c.Request.Context(), c.Param("code"))
	if err != nil {
		respondError(c, err, "Failed to retrieve product")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Product retrieved successfully",
		"data":    product,
	})
}

// GetUnits handles GET /units
func (h *CatalogHandler) GetUnits(c *gin.Context) {
	units, err := h.catalog.UnitCatalog(c.Request.Context())
	if err != nil {
		respondError(c, err, "Failed to retrieve units")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Units retrieved successfully",
		"data":    units,
	})
}

// GetMovements handles GET /products/:id/movements
func (h *CatalogHandler) GetMovements(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil || id == 0 {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid product ID",
		})
		return
	}

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))

	movements, err := h.movements.History(c.Request.Context(), uint(id), limit)
	if err != nil {
		respondError(c, err, "Failed to retrieve stock movements")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Stock movements retrieved successfully",
		"data":    movements,
	})
}
