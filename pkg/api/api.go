// Package api exposes the intent records over HTTP. It is a thin layer over
// the store; all lifecycle decisions stay in the coordinator.
package api

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/gin-gonic/gin"

	"github.com/syndicate-hq/coordinator/pkg/coordinator"
	"github.com/syndicate-hq/coordinator/pkg/logger"
	"github.com/syndicate-hq/coordinator/pkg/models"
	"github.com/syndicate-hq/coordinator/pkg/store"
)

// ResolutionTrigger submits a manual on-chain resolution for an intent
type ResolutionTrigger interface {
	ResolveIntent(ctx context.Context, intentID string, signature []byte) error
}

// Server serves the intent API
type Server struct {
	store      store.Store
	engine     ResolutionTrigger
	adminKey   string
	logger     logger.Logger
	httpServer *http.Server
}

// NewServer creates the API server. Admin endpoints are disabled when adminKey
// is empty.
func NewServer(st store.Store, engine ResolutionTrigger, adminKey string, log logger.Logger) *Server {
	if log == nil {
		log = &logger.EmptyLogger{}
	}
	return &Server{
		store:    st,
		engine:   engine,
		adminKey: adminKey,
		logger:   log,
	}
}

// Router builds the gin router for the API
func (s *Server) Router() *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery())

	v1 := router.Group("/api/v1")
	v1.POST("/intents", s.handleSubmitIntent)
	v1.GET("/intents/:id", s.handleGetIntent)
	v1.GET("/users/:address/intents", s.handleUserIntents)

	admin := v1.Group("", s.adminAuth)
	admin.PATCH("/intents/:id/status", s.handleUpdateStatus)
	admin.POST("/intents/:id/resolve", s.handleResolve)

	return router
}

// Start serves the API on the given port. It blocks until the server exits.
func (s *Server) Start(port string) {
	s.httpServer = &http.Server{Addr: ":" + port, Handler: s.Router()}

	s.logger.Info("Starting intent API server on port %s", port)
	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		s.logger.Error("API server error: %v", err)
	}
}

// Shutdown stops the server gracefully
func (s *Server) Shutdown(ctx context.Context) error {
	if s.httpServer == nil {
		return nil
	}
	return s.httpServer.Shutdown(ctx)
}

// adminAuth guards the privileged endpoints with a bearer token
func (s *Server) adminAuth(c *gin.Context) {
	if s.adminKey == "" {
		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "admin endpoints disabled"})
		return
	}

	parts := strings.Split(c.GetHeader("Authorization"), " ")
	if len(parts) != 2 || parts[0] != "Bearer" || parts[1] != s.adminKey {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid credentials"})
		return
	}

	c.Next()
}

type submitIntentRequest struct {
	IntentID         string `json:"intent_id" binding:"required"`
	User             string `json:"user" binding:"required"`
	IntentType       string `json:"intent_type" binding:"required"`
	SyndicateAddress string `json:"syndicate_address"`
	Amount           string `json:"amount" binding:"required"`
	TokenAddress     string `json:"token_address"`
	SourceChain      int    `json:"source_chain" binding:"required"`
	DestinationChain int    `json:"destination_chain" binding:"required"`
	UseOptimalRoute  bool   `json:"use_optimal_route"`
	MaxFeePercentage string `json:"max_fee_percentage"`
	Deadline         int64  `json:"deadline"`
	Metadata         string `json:"metadata"`
}

func (s *Server) handleSubmitIntent(c *gin.Context) {
	var req submitIntentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	intent := &models.Intent{
		ID:               req.IntentID,
		User:             req.User,
		IntentType:       models.IntentType(req.IntentType),
		SyndicateAddress: req.SyndicateAddress,
		Amount:           req.Amount,
		TokenAddress:     req.TokenAddress,
		SourceChain:      req.SourceChain,
		DestinationChain: req.DestinationChain,
		UseOptimalRoute:  req.UseOptimalRoute,
		MaxFeePercentage: req.MaxFeePercentage,
		Deadline:         req.Deadline,
		Status:           models.IntentStatusPending,
		Metadata:         req.Metadata,
	}

	if err := s.store.CreateIntent(c.Request.Context(), intent); err != nil {
		if errors.Is(err, store.ErrDuplicateIntent) {
			c.JSON(http.StatusConflict, gin.H{"error": "intent already exists"})
			return
		}
		s.logger.Error("Failed to create intent %s: %v", req.IntentID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create intent"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"intent_id":  intent.ID,
		"status":     intent.Status,
		"created_at": intent.CreatedAt,
	})
}

func (s *Server) handleGetIntent(c *gin.Context) {
	intentID := c.Param("id")

	intent, err := s.store.GetIntent(c.Request.Context(), intentID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "intent not found"})
			return
		}
		s.logger.Error("Failed to load intent %s: %v", intentID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load intent"})
		return
	}

	txs, err := s.store.ListTransactionsByIntent(c.Request.Context(), intentID)
	if err != nil {
		s.logger.Error("Failed to load transactions for intent %s: %v", intentID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load transactions"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"intent":       intent,
		"transactions": txs,
	})
}

func (s *Server) handleUserIntents(c *gin.Context) {
	address := c.Param("address")

	page, err := strconv.Atoi(c.DefaultQuery("page", "1"))
	if err != nil || page < 1 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid page"})
		return
	}
	limit, err := strconv.Atoi(c.DefaultQuery("limit", "20"))
	if err != nil || limit < 1 || limit > 100 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid limit"})
		return
	}

	result, err := s.store.ListIntentsByUser(c.Request.Context(), address, page, limit)
	if err != nil {
		s.logger.Error("Failed to list intents for user %s: %v", address, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list intents"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"intents":     result.Intents,
		"count":       result.TotalCount,
		"page":        result.Page,
		"total_pages": result.TotalPages,
	})
}

type updateStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

func (s *Server) handleUpdateStatus(c *gin.Context) {
	intentID := c.Param("id")

	var req updateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	status := models.IntentStatus(req.Status)
	switch status {
	case models.IntentStatusPending, models.IntentStatusExecuting, models.IntentStatusCompleted, models.IntentStatusFailed:
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid status"})
		return
	}

	if err := s.store.UpdateIntentStatus(c.Request.Context(), intentID, status); err != nil {
		switch {
		case errors.Is(err, store.ErrNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "intent not found"})
		case errors.Is(err, store.ErrIntentTerminal):
			c.JSON(http.StatusConflict, gin.H{"error": "intent is terminal"})
		case errors.Is(err, store.ErrNoBridgeTransaction):
			c.JSON(http.StatusConflict, gin.H{"error": "cross-chain intent has no bridge transaction"})
		default:
			s.logger.Error("Failed to update intent %s: %v", intentID, err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update intent"})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"intent_id": intentID, "status": status})
}

type resolveRequest struct {
	Signature string `json:"signature" binding:"required"`
}

func (s *Server) handleResolve(c *gin.Context) {
	if s.engine == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "resolution not configured"})
		return
	}

	intentID := c.Param("id")

	var req resolveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	signature := common.FromHex(req.Signature)
	if len(signature) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid signature"})
		return
	}

	if err := s.engine.ResolveIntent(c.Request.Context(), intentID, signature); err != nil {
		switch {
		case errors.Is(err, store.ErrNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "intent not found"})
		case errors.Is(err, store.ErrIntentTerminal):
			c.JSON(http.StatusConflict, gin.H{"error": "intent is terminal"})
		case errors.Is(err, coordinator.ErrCircuitOpen):
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "resolution temporarily unavailable"})
		default:
			s.logger.Error("Failed to resolve intent %s: %v", intentID, err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to resolve intent"})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"intent_id": intentID, "resolved": true})
}
