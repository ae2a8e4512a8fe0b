package httpapi

import (
	"net/http"
	"strconv"
	"time"

	"matrimony-platform/internal/audit"
	"matrimony-platform/internal/auth"
	"matrimony-platform/internal/budget"
	"matrimony-platform/internal/calls"
	"matrimony-platform/internal/ledger"
	"matrimony-platform/internal/payments"

	"github.com/gin-gonic/gin"
)

// Handlers groups HTTP handlers for dependency injection.
// Keep these thin: parse/validate input, call internal services, return JSON.

type Handlers struct {
	Auth     *auth.Manager
	Calls    *calls.Service
	Ledger   *ledger.Service
	Payments *payments.Service
	Budget   *budget.Service
	Audit    *audit.Service
}

// --- Auth ---

type loginRequest struct {
	UserID string `json:"user_id"`
	Role   string `json:"role"`
}

// Login issues a JWT token pair.
//
// NOTE: This is a skeleton-only endpoint. Real systems must validate credentials.
func (h Handlers) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}
	if req.UserID == "" || req.Role == "" {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "user_id, role required"})
		return
	}
	pair, err := h.Auth.IssuePair(time.Now(), req.UserID, req.Role)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "token issuance failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"access_token": pair.AccessToken, "refresh_token": pair.RefreshToken})
}

// --- Call sessions ---

type initiateCallRequest struct {
	ReceiverID     string `json:"receiver_id"`
	ExternalCallID string `json:"external_call_id,omitempty"`
}

func (h Handlers) InitiateCall(c *gin.Context) {
	callerID, err := auth.UserID(c.Request.Context())
	if err != nil {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthenticated"})
		return
	}
	var req initiateCallRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}
	snap, err := h.Calls.Initiate(c.Request.Context(), callerID, req.ReceiverID, req.ExternalCallID)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, snap)
}

func (h Handlers) GetCallSession(c *gin.Context) {
	principalID, err := auth.UserID(c.Request.Context())
	if err != nil {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthenticated"})
		return
	}
	snap, err := h.Calls.Get(c.Request.Context(), c.Param("session_id"), principalID)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, snap)
}

// SyncCallSession refreshes one session from the provider before returning it.
func (h Handlers) SyncCallSession(c *gin.Context) {
	principalID, err := auth.UserID(c.Request.Context())
	if err != nil {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthenticated"})
		return
	}
	snap, err := h.Calls.Reconcile(c.Request.Context(), c.Param("session_id"), principalID)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, snap)
}

// SyncCallByExternalID is the polling endpoint clients hit while a call is
// live; it looks the session up by the provider's call id.
func (h Handlers) SyncCallByExternalID(c *gin.Context) {
	principalID, err := auth.UserID(c.Request.Context())
	if err != nil {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthenticated"})
		return
	}
	snap, err := h.Calls.ReconcileByExternalID(c.Request.Context(), c.Param("external_call_id"), principalID)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, snap)
}

// --- Credits ---

type creditsResponse struct {
	CanMakeCalls   bool                      `json:"canMakeCalls"`
	TotalRemaining int                       `json:"totalRemaining"`
	TotalPurchased int                       `json:"totalPurchased"`
	CreditsUsed    int                       `json:"creditsUsed"`
	NextExpiryDate *time.Time                `json:"nextExpiryDate,omitempty"`
	Allocations    []ledger.CreditAllocation `json:"allocations"`
}

func (h Handlers) GetMyCredits(c *gin.Context) {
	userID, err := auth.UserID(c.Request.Context())
	if err != nil {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthenticated"})
		return
	}
	bal, err := h.Ledger.TotalActiveBalance(c.Request.Context(), userID)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, creditsResponse{
		CanMakeCalls:   bal.CanMakeCalls(),
		TotalRemaining: bal.TotalRemaining,
		TotalPurchased: bal.TotalPurchased,
		CreditsUsed:    bal.CreditsUsed,
		NextExpiryDate: bal.NextExpiry,
		Allocations:    bal.Allocations,
	})
}

// --- Admin ---

type verifyPaymentRequest struct {
	Action string `json:"action"`
	Notes  string `json:"notes,omitempty"`
}

// AdminVerifyPayment flips a pending payment and, on verify, mints the
// plan's call credits. RBAC: admin or super_admin.
func (h Handlers) AdminVerifyPayment(c *gin.Context) {
	adminID, _ := auth.UserID(c.Request.Context())
	adminRole, _ := auth.Role(c.Request.Context())

	var req verifyPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}

	p, err := h.Payments.Verify(c.Request.Context(), payments.VerifyRequest{
		PaymentID: c.Param("payment_id"),
		Action:    payments.Action(req.Action),
		AdminID:   adminID,
		AdminRole: adminRole,
		Notes:     req.Notes,
	})
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": p.Status})
}

type grantCreditsRequest struct {
	UserID       string `json:"user_id"`
	Credits      int    `json:"credits"`
	ValidityDays int    `json:"validity_days"`
	Notes        string `json:"notes,omitempty"`
}

// AdminGrantCredits mints a manual allocation outside the payment flow.
func (h Handlers) AdminGrantCredits(c *gin.Context) {
	adminID, _ := auth.UserID(c.Request.Context())
	adminRole, _ := auth.Role(c.Request.Context())

	var req grantCreditsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}

	alloc, err := h.Ledger.Allocate(c.Request.Context(), ledger.AllocateRequest{
		UserID:         req.UserID,
		Credits:        req.Credits,
		Validity:       time.Duration(req.ValidityDays) * 24 * time.Hour,
		AdminAllocated: true,
		Notes:          req.Notes,
		ActorID:        adminID,
		ActorRole:      adminRole,
	})
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, alloc)
}

func (h Handlers) AdminGetBudget(c *gin.Context) {
	usage, err := h.Budget.Usage(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, usage)
}

// AdminListAudit returns the newest audit entries, optionally scoped to one
// member via ?user_id=.
func (h Handlers) AdminListAudit(c *gin.Context) {
	limit, _ := strconv.Atoi(c.Query("limit"))
	entries, err := h.Audit.Recent(c.Request.Context(), c.Query("user_id"), limit)
	if err != nil {
		writeError(c, err)
		return
	}
	if entries == nil {
		entries = []audit.Entry{}
	}
	c.JSON(http.StatusOK, gin.H{"entries": entries})
}

type budgetSettingsRequest struct {
	CostPerMinuteMinor int64 `json:"cost_per_minute_minor"`
	TotalBudgetMinor   int64 `json:"total_budget_minor"`
	MonthlyLimitMinor  int64 `json:"monthly_limit_minor"`
}

func (h Handlers) AdminUpdateBudgetSettings(c *gin.Context) {
	adminID, _ := auth.UserID(c.Request.Context())
	adminRole, _ := auth.Role(c.Request.Context())

	var req budgetSettingsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}

	set, err := h.Budget.UpdateSettings(c.Request.Context(), budget.UpdateRequest{
		CostPerMinuteMinor: req.CostPerMinuteMinor,
		TotalBudgetMinor:   req.TotalBudgetMinor,
		MonthlyLimitMinor:  req.MonthlyLimitMinor,
		ActorID:            adminID,
		ActorRole:          adminRole,
	})
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, set)
}
