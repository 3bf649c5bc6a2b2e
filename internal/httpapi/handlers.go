package httpapi

import (
	"crypto/subtle"
	"net/http"
	"time"

	"voice-reservations/internal/auth"
	"voice-reservations/internal/calllog"
	"voice-reservations/internal/reporting"
	"voice-reservations/pkg/logger"

	"github.com/gin-gonic/gin"
)

// Handlers groups staff HTTP handlers for dependency injection.
// Keep these thin: parse/validate input, call internal services, return JSON.
type Handlers struct {
	Auth    *auth.Manager
	Reports *reporting.Service
	Calls   *calllog.Service

	// StaffPassword gates login; one shared credential for the front desk.
	StaffPassword string
}

// --- Auth ---

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

func (h Handlers) Login(c *gin.Context) {
	if h.Auth == nil || h.StaffPassword == "" {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "auth not configured"})
		return
	}
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}
	if req.Username == "" || req.Password == "" {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "username, password required"})
		return
	}
	if subtle.ConstantTimeCompare([]byte(req.Password), []byte(h.StaffPassword)) != 1 {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid credentials"})
		return
	}
	tok, err := h.Auth.IssueToken(time.Now(), req.Username)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "token issuance failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"access_token": tok})
}

// --- Reservations ---

func (h Handlers) Customers(c *gin.Context) {
	if h.Reports == nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "reporting not configured"})
		return
	}
	out, err := h.Reports.Customers(c.Request.Context())
	if err != nil {
		logger.FromGin(c).Error("customer listing failed", "err", err)
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "listing failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"customers": out})
}

func (h Handlers) Reservations(c *gin.Context) {
	if h.Reports == nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "reporting not configured"})
		return
	}
	out, err := h.Reports.Reservations(c.Request.Context())
	if err != nil {
		logger.FromGin(c).Error("reservation listing failed", "err", err)
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "listing failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"reservations": out})
}

func (h Handlers) TodaysReservations(c *gin.Context) {
	if h.Reports == nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "reporting not configured"})
		return
	}
	out, err := h.Reports.TodaysReservations(c.Request.Context())
	if err != nil {
		logger.FromGin(c).Error("today listing failed", "err", err)
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "listing failed"})
		return
	}
	c.JSON(http.StatusOK, out)
}

// --- Call stats ---

func (h Handlers) CallStats(c *gin.Context) {
	if h.Calls == nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "call log not configured"})
		return
	}
	out, err := h.Calls.Stats(c.Request.Context())
	if err != nil {
		logger.FromGin(c).Error("call stats failed", "err", err)
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "stats failed"})
		return
	}
	c.JSON(http.StatusOK, out)
}
