// internal/interfaces/http/handlers/errors.go
package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/your-org/pos-backend/internal/domain/cart"
	"github.com/your-org/pos-backend/internal/domain/cashier"
	"github.com/your-org/pos-backend/internal/domain/catalog"
	"github.com/your-org/pos-backend/internal/domain/draft"
	"github.com/your-org/pos-backend/internal/domain/inventory"
	"github.com/your-org/pos-backend/internal/domain/pos"
	"github.com/your-org/pos-backend/internal/domain/transaction"
	redisinfra "github.com/your-org/pos-backend/internal/infrastructure/database/redis"
)

// cartStatus maps a failed cart mutation to an HTTP status
func cartStatus(kind cart.ErrorKind) int {
	switch kind {
	case cart.KindInsufficientStock:
		return http.StatusConflict
	case cart.KindUnknownLine:
		return http.StatusNotFound
	default:
		return http.StatusUnprocessableEntity
	}
}

// respondCartFailure writes the structured rejection of a cart mutation
func respondCartFailure(c *gin.Context, res cart.Result) {
	body := gin.H{
		"error": res.Reason,
		"kind":  res.Kind,
	}
	if res.Available != nil {
		body["available"] = res.Available
	}
	if res.Line != nil {
		body["line"] = res.Line
	}
	c.JSON(cartStatus(res.Kind), body)
}

// errorStatus maps service errors to an HTTP status
func errorStatus(err error) int {
	switch {
	case errors.Is(err, pos.ErrSessionNotFound),
		errors.Is(err, draft.ErrDraftNotFound),
		errors.Is(err, catalog.ErrProductNotFound),
		errors.Is(err, transaction.ErrTransactionNotFound),
		errors.Is(err, cashier.ErrCashierNotFound):
		return http.StatusNotFound
	case errors.Is(err, pos.ErrSessionNotOwned):
		return http.StatusForbidden
	case errors.Is(err, transaction.ErrEmptySubmission):
		return http.StatusUnprocessableEntity
	case errors.Is(err, inventory.ErrInsufficientStock),
		errors.Is(err, redisinfra.ErrLockNotObtained):
		return http.StatusConflict
	case errors.Is(err, cart.ErrMalformedProduct),
		errors.Is(err, cart.ErrMalformedLine),
		errors.Is(err, cart.ErrMalformedUnitCatalog),
		errors.Is(err, inventory.ErrProductMissing),
		errors.Is(err, inventory.ErrPackageMissing),
		errors.Is(err, inventory.ErrUnitMismatch):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

// respondError writes err with its mapped status. Internal failures are
// logged with detail but reported generically.
func respondError(c *gin.Context, err error, fallback string) {
	status := errorStatus(err)
	if status == http.StatusInternalServerError {
		_ = c.Error(err)
		c.JSON(status, gin.H{
			"error": fallback,
		})
		return
	}

	c.JSON(status, gin.H{
		"error": err.Error(),
	})
}
