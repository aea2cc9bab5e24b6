package http

import (
	"crypto/subtle"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/pricelens/backend/config"
	"github.com/pricelens/backend/internal/domain"
	"github.com/pricelens/backend/internal/usecase"
)

// Handler holds dependencies for HTTP handlers
type Handler struct {
	comparisons *usecase.ComparisonService
	sessions    domain.SessionStore
	auth        config.AuthConfig
	cookieName  string
	sessionTTL  time.Duration
}

// NewHandler creates a new HTTP handler
func NewHandler(comparisons *usecase.ComparisonService, sessions domain.SessionStore, cfg *config.Config) *Handler {
	return &Handler{
		comparisons: comparisons,
		sessions:    sessions,
		auth:        cfg.Auth,
		cookieName:  cfg.Session.CookieName,
		sessionTTL:  cfg.Session.TTL,
	}
}

// HealthCheck returns the health status of the API
func (h *Handler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": "pricelens-backend",
		"version": "1.0.0",
	})
}

// loginRequest carries the static credential challenge
type loginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// Login validates the static credentials and issues a session cookie
func (h *Handler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "username and password are required"})
		return
	}

	userOK := subtle.ConstantTimeCompare([]byte(req.Username), []byte(h.auth.Username)) == 1
	passOK := subtle.ConstantTimeCompare([]byte(req.Password), []byte(h.auth.Password)) == 1
	if !userOK || !passOK {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid username or password"})
		return
	}

	session, err := h.sessions.Create(c.Request.Context())
	if err != nil {
		log.Printf("[HTTP] Session create failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not create session"})
		return
	}

	session.Authenticated = true
	if err := h.sessions.Save(c.Request.Context(), session); err != nil {
		log.Printf("[HTTP] Session save failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not create session"})
		return
	}

	c.SetCookie(h.cookieName, session.ID, int(h.sessionTTL.Seconds()), "/", "", false, true)
	c.JSON(http.StatusOK, gin.H{"message": "login successful"})
}

// Search runs a price comparison and seeds the session's table with the result
func (h *Handler) Search(c *gin.Context) {
	session, ok := sessionFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "login required"})
		return
	}

	var req domain.CompareRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "query is required"})
		return
	}

	response, err := h.comparisons.Compare(c.Request.Context(), req.Query, req.Normalize)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidRequest) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "query is required"})
			return
		}
		log.Printf("[HTTP] Compare failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "comparison failed"})
		return
	}

	// A new search supersedes any prior table unconditionally
	reconciler := usecase.NewReconciler()
	reconciler.Seed(response.Rows)
	session.Table = reconciler.Records()
	if err := h.sessions.Save(c.Request.Context(), session); err != nil {
		log.Printf("[HTTP] Session save failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not store results"})
		return
	}

	c.JSON(http.StatusOK, response)
}

// EditRow applies a user edit to one table row and returns the updated record
func (h *Handler) EditRow(c *gin.Context) {
	session, ok := sessionFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "login required"})
		return
	}

	index, err := strconv.Atoi(c.Param("index"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "row index must be an integer"})
		return
	}

	var req domain.EditRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid edit payload"})
		return
	}

	reconciler := usecase.NewReconcilerFrom(session.Table)
	updated, err := reconciler.Edit(index, req)
	if err != nil {
		if errors.Is(err, domain.ErrRowOutOfRange) {
			c.JSON(http.StatusNotFound, gin.H{"error": fmt.Sprintf("no row at index %d", index)})
			return
		}
		log.Printf("[HTTP] Edit failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "edit failed"})
		return
	}

	session.Table = reconciler.Records()
	if err := h.sessions.Save(c.Request.Context(), session); err != nil {
		log.Printf("[HTTP] Session save failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not store edit"})
		return
	}

	c.JSON(http.StatusOK, updated)
}

// Export streams the current table as a timestamped CSV download
func (h *Handler) Export(c *gin.Context) {
	session, ok := sessionFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "login required"})
		return
	}

	reconciler := usecase.NewReconcilerFrom(session.Table)
	filename, data, err := reconciler.Export()
	if err != nil {
		if errors.Is(err, domain.ErrEmptyTable) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "nothing to export, run a search first"})
			return
		}
		log.Printf("[HTTP] Export failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "export failed"})
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, "text/csv; charset=utf-8", data)
}

// Reset clears the session's comparison table
func (h *Handler) Reset(c *gin.Context) {
	session, ok := sessionFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "login required"})
		return
	}

	reconciler := usecase.NewReconcilerFrom(session.Table)
	reconciler.Reset()
	session.Table = reconciler.Records()
	if err := h.sessions.Save(c.Request.Context(), session); err != nil {
		log.Printf("[HTTP] Session save failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not reset table"})
		return
	}

	c.Status(http.StatusNoContent)
}
