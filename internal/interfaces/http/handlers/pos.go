// internal/interfaces/http/handlers/pos.go
package handlers

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/your-org/pos-backend/internal/domain/cart"
	"github.com/your-org/pos-backend/internal/domain/cashier"
	"github.com/your-org/pos-backend/internal/domain/draft"
	"github.com/your-org/pos-backend/internal/domain/pos"
	"github.com/your-org/pos-backend/internal/domain/transaction"
	"github.com/your-org/pos-backend/internal/interfaces/http/middleware"
)

const checkoutLockTTL = 30 * time.Second

// ProductLookup resolves catalog products into cart descriptors
type ProductLookup interface {
	GetProduct(ctx context.Context, id int) (cart.Product, error)
	GetProductByCode(ctx context.Context, code string) (cart.Product, error)
}

// DraftStore parks carts between sessions
type DraftStore interface {
	Save(ctx context.Context, d *draft.Draft) error
	Load(ctx context.Context, sessionID string) (*draft.Draft, error)
	Delete(ctx context.Context, sessionID string) error
}

// TransactionRecorder persists finalized carts
type TransactionRecorder interface {
	Submit(ctx context.Context, req *transaction.SubmitRequest) (*transaction.Transaction, error)
}

// CheckoutLocker serializes checkouts of one session across instances
type CheckoutLocker interface {
	WithLock(ctx context.Context, key string, ttl time.Duration, fn func() error) error
}

// POSHandler handles till session endpoints
type POSHandler struct {
	registry     *pos.Registry
	products     ProductLookup
	drafts       DraftStore
	transactions TransactionRecorder
	locker       CheckoutLocker
	logger       logrus.FieldLogger
}

// NewPOSHandler creates a new POS handler
func NewPOSHandler(
	registry *pos.Registry,
	products ProductLookup,
	drafts DraftStore,
	transactions TransactionRecorder,
	locker CheckoutLocker,
	logger logrus.FieldLogger,
) *POSHandler {
	return &POSHandler{
		registry:     registry,
		products:     products,
		drafts:       drafts,
		transactions: transactions,
		locker:       locker,
		logger:       logger,
	}
}

// OpenSessionRequest selects the mode of a new till session
type OpenSessionRequest struct {
	Mode string `json:"mode" binding:"required"`
}

// AddItemRequest adds a product to the cart. Quantity defaults to one.
type AddItemRequest struct {
	ProductID int              `json:"product_id" binding:"required,gt=0"`
	Quantity  *decimal.Decimal `json:"quantity"`
}

// ScanRequest adds one of the product with the given code
type ScanRequest struct {
	Code string `json:"code" binding:"required,max=100"`
}

// SetQuantityRequest replaces a line quantity
type SetQuantityRequest struct {
	Quantity *decimal.Decimal `json:"quantity" binding:"required"`
}

// ChangeUnitRequest switches a line to another unit of its family
type ChangeUnitRequest struct {
	UnitID int `json:"unit_id" binding:"required,gt=0"`
}

// SelectPackageRequest selects a package, or clears the selection when null
type SelectPackageRequest struct {
	PackageID *int `json:"package_id"`
}

// OpenSession handles POST /pos/sessions
func (h *POSHandler) OpenSession(c *gin.Context) {
	cashierID, ok := h.cashierID(c)
	if !ok {
		return
	}

	var req OpenSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request data",
			"details": err.Error(),
		})
		return
	}

	mode, err := cart.ParseMode(req.Mode)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": err.Error(),
		})
		return
	}

	if mode == cart.ModePurchases {
		operator := cashier.Cashier{Role: cashier.Role(middleware.GetRoleFromContext(c))}
		if !operator.CanPurchase() {
			c.JSON(http.StatusForbidden, gin.H{
				"error": "Manager access required for purchases",
			})
			return
		}
	}

	session, err := h.registry.Open(c.Request.Context(), mode, cashierID)
	if err != nil {
		respondError(c, err, "Failed to open session")
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Session opened successfully",
		"data":    session.Snapshot(),
	})
}

// GetSession handles GET /pos/sessions/:id
func (h *POSHandler) GetSession(c *gin.Context) {
	session, ok := h.session(c)
	if !ok {
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Session retrieved successfully",
		"data":    session.Snapshot(),
	})
}

// CloseSession handles DELETE /pos/sessions/:id
func (h *POSHandler) CloseSession(c *gin.Context) {
	cashierID, ok := h.cashierID(c)
	if !ok {
		return
	}

	if err := h.registry.Close(c.Param("id"), cashierID); err != nil {
		respondError(c, err, "Failed to close session")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Session closed successfully",
	})
}

// AddItem handles POST /pos/sessions/:id/items
func (h *POSHandler) AddItem(c *gin.Context) {
	session, ok := h.session(c)
	if !ok {
		return
	}

	var req AddItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request data",
			"details": err.Error(),
		})
		return
	}

	product, err := h.products.GetProduct(c.Request.Context(), req.ProductID)
	if err != nil {
		respondError(c, err, "Failed to load product")
		return
	}

	quantity := decimal.NewFromInt(1)
	if req.Quantity != nil {
		quantity = *req.Quantity
	}

	h.mutate(c, session, "Item added to cart successfully", func(svc *cart.Service) cart.Result {
		return svc.AddItem(product, quantity)
	})
}

// ScanItem handles POST /pos/sessions/:id/scan
func (h *POSHandler) ScanItem(c *gin.Context) {
	session, ok := h.session(c)
	if !ok {
		return
	}

	var req ScanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request data",
			"details": err.Error(),
		})
		return
	}

	product, err := h.products.GetProductByCode(c.Request.Context(), req.Code)
	if err != nil {
		respondError(c, err, "Failed to load product")
		return
	}

	h.mutate(c, session, "Item scanned successfully", func(svc *cart.Service) cart.Result {
		return svc.AddOne(product)
	})
}

// SetQuantity handles PUT /pos/sessions/:id/items/:productId
func (h *POSHandler) SetQuantity(c *gin.Context) {
	session, ok := h.session(c)
	if !ok {
		return
	}
	productID, ok := productIDParam(c)
	if !ok {
		return
	}

	var req SetQuantityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request data",
			"details": err.Error(),
		})
		return
	}

	h.mutate(c, session, "Quantity updated successfully", func(svc *cart.Service) cart.Result {
		return svc.SetQuantity(productID, *req.Quantity)
	})
}

// ChangeUnit handles PUT /pos/sessions/:id/items/:productId/unit
func (h *POSHandler) ChangeUnit(c *gin.Context) {
	session, ok := h.session(c)
	if !ok {
		return
	}
	productID, ok := productIDParam(c)
	if !ok {
		return
	}

	var req ChangeUnitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request data",
			"details": err.Error(),
		})
		return
	}

	h.mutate(c, session, "Unit changed successfully", func(svc *cart.Service) cart.Result {
		return svc.ChangeUnit(productID, req.UnitID)
	})
}

// SelectPackage handles PUT /pos/sessions/:id/items/:productId/package
func (h *POSHandler) SelectPackage(c *gin.Context) {
	session, ok := h.session(c)
	if !ok {
		return
	}
	productID, ok := productIDParam(c)
	if !ok {
		return
	}

	var req SelectPackageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request data",
			"details": err.Error(),
		})
		return
	}

	h.mutate(c, session, "Package selection updated successfully", func(svc *cart.Service) cart.Result {
		return svc.SelectPackage(productID, req.PackageID)
	})
}

// RemoveItem handles DELETE /pos/sessions/:id/items/:productId
func (h *POSHandler) RemoveItem(c *gin.Context) {
	session, ok := h.session(c)
	if !ok {
		return
	}
	productID, ok := productIDParam(c)
	if !ok {
		return
	}

	h.mutate(c, session, "Item removed from cart successfully", func(svc *cart.Service) cart.Result {
		return svc.RemoveItem(productID)
	})
}

// ClearCart handles DELETE /pos/sessions/:id/items
func (h *POSHandler) ClearCart(c *gin.Context) {
	session, ok := h.session(c)
	if !ok {
		return
	}

	h.mutate(c, session, "Cart cleared successfully", func(svc *cart.Service) cart.Result {
		return svc.Clear()
	})
}

// SaveDraft handles POST /pos/sessions/:id/draft
func (h *POSHandler) SaveDraft(c *gin.Context) {
	session, ok := h.session(c)
	if !ok {
		return
	}

	snapshot := session.Snapshot()
	d := &draft.Draft{
		SessionID: snapshot.ID,
		Mode:      snapshot.Mode,
		CashierID: snapshot.CashierID,
		Items:     snapshot.Items,
	}

	if err := h.drafts.Save(c.Request.Context(), d); err != nil {
		respondError(c, err, "Failed to save draft")
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Draft saved successfully",
		"data":    d,
	})
}

// ResumeDraft handles POST /pos/drafts/:id/resume. The session is recreated
// under its original id when it expired in the meantime.
func (h *POSHandler) ResumeDraft(c *gin.Context) {
	cashierID, ok := h.cashierID(c)
	if !ok {
		return
	}

	ctx := c.Request.Context()
	d, err := h.drafts.Load(ctx, c.Param("id"))
	if err != nil {
		respondError(c, err, "Failed to load draft")
		return
	}
	if d.CashierID != cashierID {
		respondError(c, pos.ErrSessionNotOwned, "")
		return
	}

	session, err := h.registry.Restore(ctx, d.SessionID, d.Mode, cashierID)
	if err != nil {
		respondError(c, err, "Failed to restore session")
		return
	}
	if session.Mode != d.Mode {
		c.JSON(http.StatusConflict, gin.H{
			"error": "Draft mode does not match the open session",
		})
		return
	}

	var res cart.Result
	_ = session.Do(func(svc *cart.Service) error {
		res = svc.Initialize(d.Items)
		return nil
	})
	if !res.OK {
		respondCartFailure(c, res)
		return
	}

	if err := h.drafts.Delete(ctx, d.SessionID); err != nil {
		h.logger.WithError(err).WithField("session_id", d.SessionID).Warn("Failed to discard resumed draft")
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Draft resumed successfully",
		"data":    session.Snapshot(),
	})
}

// Checkout handles POST /pos/sessions/:id/checkout
func (h *POSHandler) Checkout(c *gin.Context) {
	session, ok := h.session(c)
	if !ok {
		return
	}

	ctx := c.Request.Context()
	var txn *transaction.Transaction
	err := h.locker.WithLock(ctx, "pos:checkout:"+session.ID, checkoutLockTTL, func() error {
		return session.Do(func(svc *cart.Service) error {
			lines := svc.Submission()
			if len(lines) == 0 {
				return transaction.ErrEmptySubmission
			}

			recorded, err := h.transactions.Submit(ctx, &transaction.SubmitRequest{
				Mode:      svc.Mode(),
				CashierID: session.CashierID,
				SessionID: session.ID,
				Lines:     lines,
			})
			if err != nil {
				return err
			}

			txn = recorded
			svc.Clear()
			return nil
		})
	})
	if err != nil {
		respondError(c, err, "Failed to complete checkout")
		return
	}

	if err := h.drafts.Delete(ctx, session.ID); err != nil {
		h.logger.WithError(err).WithField("session_id", session.ID).Warn("Failed to discard draft after checkout")
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Checkout completed successfully",
		"data":    txn,
	})
}

// mutate runs fn on the session cart and writes either the changed line
// with fresh totals or the structured rejection
func (h *POSHandler) mutate(c *gin.Context, session *pos.Session, message string, fn func(*cart.Service) cart.Result) {
	var res cart.Result
	var totals cart.Totals
	_ = session.Do(func(svc *cart.Service) error {
		res = fn(svc)
		totals = svc.Totals()
		return nil
	})

	if !res.OK {
		respondCartFailure(c, res)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": message,
		"data": gin.H{
			"line":   res.Line,
			"totals": totals,
		},
	})
}

func (h *POSHandler) cashierID(c *gin.Context) (uint, bool) {
	cashierID, ok := middleware.GetCashierIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{
			"error": "Authentication required",
		})
		return 0, false
	}
	return cashierID, true
}

func (h *POSHandler) session(c *gin.Context) (*pos.Session, bool) {
	cashierID, ok := h.cashierID(c)
	if !ok {
		return nil, false
	}

	session, err := h.registry.Get(c.Param("id"), cashierID)
	if err != nil {
		respondError(c, err, "Failed to load session")
		return nil, false
	}
	return session, true
}

func productIDParam(c *gin.Context) (int, bool) {
	productID, err := strconv.Atoi(c.Param("productId"))
	if err != nil || productID <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid product ID",
		})
		return 0, false
	}
	return productID, true
}
