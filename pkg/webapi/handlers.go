package webapi

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/tinyland-inc/wordclaw/pkg/broadcast"
	"github.com/tinyland-inc/wordclaw/pkg/logger"
	"github.com/tinyland-inc/wordclaw/pkg/session"
	"github.com/tinyland-inc/wordclaw/pkg/token"
	"github.com/tinyland-inc/wordclaw/pkg/vocab"
)

type threadsRequest struct {
	Token token.SessionToken `json:"token" binding:"required"`
}

type sendRequest struct {
	Token      token.SessionToken `json:"token" binding:"required"`
	TargetID   string             `json:"targetId" binding:"required"`
	Vocabulary vocab.Record       `json:"vocabulary" binding:"required"`
}

type broadcastRequest struct {
	Token      token.SessionToken   `json:"token" binding:"required"`
	Definition broadcast.Definition `json:"definition" binding:"required"`
}

type apiError struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (s *Server) handleMetrics(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"targets": s.meters.Snapshot()})
}

func (s *Server) handleGetThreads(c *gin.Context) {
	var req threadsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, apiError{Error: "invalid request: " + err.Error()})
		return
	}
	if !s.deviceAllowed(c, req.Token.IMEI) {
		return
	}

	list, err := s.orch.ListThreads(c.Request.Context(), req.Token)
	if err != nil {
		s.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "threads": list})
}

func (s *Server) handleSendVocabulary(c *gin.Context) {
	var req sendRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, apiError{Error: "missing required fields: token, targetId, or vocabulary"})
		return
	}
	if !s.deviceAllowed(c, req.Token.IMEI) {
		return
	}

	outcome, err := s.orch.SendVocabulary(c.Request.Context(), req.Token, req.TargetID, req.Vocabulary)
	if err != nil {
		s.writeError(c, err)
		return
	}

	s.meters.Record(req.TargetID, outcome)

	c.JSON(http.StatusOK, gin.H{"success": true, "logs": outcome})
}

func (s *Server) handleBroadcastStart(c *gin.Context) {
	var req broadcastRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, apiError{Error: "invalid request: " + err.Error()})
		return
	}
	if !s.deviceAllowed(c, req.Token.IMEI) {
		return
	}

	// Detach from the request context: the run outlives this request.
	exec, err := s.runner.Start(context.Background(), req.Token, req.Definition)
	if err != nil {
		c.JSON(http.StatusBadRequest, apiError{Error: err.Error()})
		return
	}

	c.JSON(http.StatusAccepted, gin.H{"success": true, "id": exec.ID})
}

func (s *Server) handleBroadcastStatus(c *gin.Context) {
	exec, err := s.runner.GetStatus(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, apiError{Error: err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "execution": exec})
}

func (s *Server) handleBroadcastStop(c *gin.Context) {
	if err := s.runner.Stop(c.Param("id")); err != nil {
		c.JSON(http.StatusNotFound, apiError{Error: err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// deviceAllowed enforces the instance allow-list. Writes the refusal itself
// so handlers can bail with a bare return.
func (s *Server) deviceAllowed(c *gin.Context, imei string) bool {
	if s.cfg.IsDeviceAllowed(imei) {
		return true
	}
	logger.WarnCF("webapi", "Device refused by allow-list", map[string]any{"imei": imei})
	c.JSON(http.StatusForbidden, apiError{Error: "device not allowed"})
	return false
}

// writeError maps orchestrator errors onto HTTP statuses: the caller's
// malformed token is 400, a platform rejection is 401, everything else 500.
func (s *Server) writeError(c *gin.Context, err error) {
	var authErr *session.AuthError
	switch {
	case errors.Is(err, token.ErrInvalidToken):
		c.JSON(http.StatusBadRequest, apiError{Error: err.Error()})
	case errors.As(err, &authErr):
		c.JSON(http.StatusUnauthorized, apiError{Error: err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, apiError{Error: err.Error()})
	}
}
