// internal/interfaces/http/handlers/transaction.go
package handlers

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/your-org/pos-backend/internal/domain/transaction"
	"github.com/your-org/pos-backend/internal/pkg/report"
)

// TransactionReader loads finalized transactions
type TransactionReader interface {
	GetByID(ctx context.Context, id uint) (*transaction.Transaction, error)
	List(ctx context.Context, req *transaction.ListRequest) ([]transaction.Transaction, error)
}

// ReceiptRenderer renders a transaction receipt
type ReceiptRenderer interface {
	GenerateReceipt(txn *transaction.Transaction) (*bytes.Buffer, error)
}

// TransactionHandler handles finalized transaction endpoints
type TransactionHandler struct {
	transactions TransactionReader
	receipts     ReceiptRenderer
}

// NewTransactionHandler creates a new transaction handler
func NewTransactionHandler(transactions TransactionReader, receipts ReceiptRenderer) *TransactionHandler {
	return &TransactionHandler{
		transactions: transactions,
		receipts:     receipts,
	}
}

// GetTransaction handles GET /transactions/:id
func (h *TransactionHandler) GetTransaction(c *gin.Context) {
	txn, ok := h.load(c)
	if !ok {
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Transaction retrieved successfully",
		"data":    txn,
	})
}

// GetReceipt handles GET /transactions/:id/receipt
func (h *TransactionHandler) GetReceipt(c *gin.Context) {
	txn, ok := h.load(c)
	if !ok {
		return
	}

	pdf, err := h.receipts.GenerateReceipt(txn)
	if err != nil {
		_ = c.Error(err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to generate receipt",
		})
		return
	}

	filename := fmt.Sprintf("receipt-%s.pdf", txn.Number)
	c.Header("Content-Disposition", fmt.Sprintf("inline; filename=%s", filename))
	c.Data(http.StatusOK, "application/pdf", pdf.Bytes())
}

// ExportTransactions handles GET /transactions/export
func (h *TransactionHandler) ExportTransactions(c *gin.Context) {
	var req transaction.ListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid query parameters",
			"details": err.Error(),
		})
		return
	}

	txns, err := h.transactions.List(c.Request.Context(), &req)
	if err != nil {
		respondError(c, err, "Failed to list transactions")
		return
	}

	var buf bytes.Buffer
	if err := report.WriteTransactions(&buf, txns); err != nil {
		_ = c.Error(err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to build export",
		})
		return
	}

	filename := fmt.Sprintf("transactions-%s.xlsx", time.Now().UTC().Format("20060102"))
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%s", filename))
	c.Data(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", buf.Bytes())
}

func (h *TransactionHandler) load(c *gin.Context) (*transaction.Transaction, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil || id == 0 {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid transaction ID",
		})
		return nil, false
	}

	txn, err := h.transactions.GetByID(c.Request.Context(), uint(id))
	if err != nil {
		respondError(c, err, "Failed to retrieve transaction")
		return nil, false
	}
	return txn, true
}
