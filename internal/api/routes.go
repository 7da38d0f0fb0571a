package api

import (
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/rasoomlabs/rasoom/domain/entities"
	"github.com/rasoomlabs/rasoom/internal/auth"
	"github.com/rasoomlabs/rasoom/internal/legacy"
	"github.com/rasoomlabs/rasoom/internal/websocket"
	"github.com/rasoomlabs/rasoom/usecase"
)

// InitRoutes initializes all API routes
func InitRoutes(e *echo.Echo, hub *websocket.Hub, service *usecase.MessageService, logger *zap.Logger) {
	// Health check
	e.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{
			"status":  "ok",
			"service": "rasoom-hub",
		})
	})

	// API v1 routes
	v1 := e.Group("/api/v1")

	// Agent APIs
	v1.POST("/agents/auth", func(c echo.Context) error {
		return agentAuth(c, logger)
	})

	// Message APIs
	v1.POST("/messages", func(c echo.Context) error {
		return submitMessage(c, service, logger)
	})
	v1.POST("/messages/decode", func(c echo.Context) error {
		return decodeFrame(c, service, logger)
	})

	// Performance stats
	v1.GET("/stats", func(c echo.Context) error {
		return c.JSON(http.StatusOK, service.Stats())
	})

	// Legacy roster APIs
	v1.GET("/legacy", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string][]string{"agents": legacy.Names()})
	})
	v1.GET("/legacy/:name", getLegacyAgent)

	// WebSocket endpoint with JWT validation
	e.GET("/ws", func(c echo.Context) error {
		return websocketWithAuth(hub, c, logger)
	})
}

// agentAuth issues a JWT for an agent. A legacy roster name resolves the
// tier from the roster; otherwise an explicit agent ID and tier are
// required.
func agentAuth(c echo.Context, logger *zap.Logger) error {
	var req AgentAuthRequest

	if err := c.Bind(&req); err != nil {
		logger.Error("Failed to bind agent auth request", zap.Error(err))
		return c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "invalid_request",
			Message: "Invalid request format",
		})
	}

	agentID := req.AgentID
	var tier entities.Tier

	if req.LegacyName != "" {
		profile, ok := legacy.Lookup(req.LegacyName)
		if !ok {
			logger.Warn("Agent authentication failed: unknown legacy agent",
				zap.String("legacy_name", req.LegacyName))
			return c.JSON(http.StatusUnauthorized, ErrorResponse{
				Error:   "unknown_agent",
				Message: "Legacy agent name is not in the roster",
			})
		}
		if agentID == "" {
			agentID = req.LegacyName
		}
		tier = profile.Tier
	} else {
		if agentID == "" || req.Tier == "" {
			return c.JSON(http.StatusBadRequest, ErrorResponse{
				Error:   "missing_fields",
				Message: "Agent ID and tier are required",
			})
		}
		tier = entities.Tier(req.Tier)
		if entities.TierIndex(tier) < 0 {
			return c.JSON(http.StatusBadRequest, ErrorResponse{
				Error:   "invalid_tier",
				Message: "Tier must be one of prime, domain, micro",
			})
		}
	}

	token, err := auth.GenerateAgentToken(agentID, tier)
	if err != nil {
		logger.Error("Failed to generate agent token",
			zap.String("agent_id", agentID),
			zap.Error(err))
		return c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error:   "token_generation_failed",
			Message: "Failed to generate authentication token",
		})
	}

	logger.Info("Agent authenticated",
		zap.String("agent_id", agentID),
		zap.String("tier", string(tier)))

	return c.JSON(http.StatusOK, AgentAuthResponse{
		Token:     token,
		ExpiresAt: time.Now().Add(24 * time.Hour),
		AgentID:   agentID,
		Tier:      tier,
	})
}

// submitMessage encodes a gesture/affect submission into a frame, archives
// it, and dispatches it to tier subscribers.
func submitMessage(c echo.Context, service *usecase.MessageService, logger *zap.Logger) error {
	var req EncodeRequest

	if err := c.Bind(&req); err != nil {
		logger.Error("Failed to bind message request", zap.Error(err))
		return c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "invalid_request",
			Message: "Invalid request format",
		})
	}

	if req.SenderID == "" {
		return c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "missing_fields",
			Message: "Sender ID is required",
		})
	}

	tier := entities.Tier(req.Tier)
	if req.Tier != "" && entities.TierIndex(tier) < 0 {
		return c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "invalid_tier",
			Message: "Tier must be one of prime, domain, micro",
		})
	}

	message, err := service.Submit(c.Request().Context(), req.SenderID, tier, req.Gesture, req.Affect)
	if err != nil {
		logger.Error("Failed to submit message",
			zap.String("sender_id", req.SenderID),
			zap.Error(err))
		return c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error:   "encode_failed",
			Message: "Failed to encode and archive the message",
		})
	}

	return c.JSON(http.StatusOK, EncodeResponse{
		MessageID:  message.ID,
		Tier:       message.Tier,
		FrameBytes: len(message.Frame),
		Frame:      message.Frame,
	})
}

// decodeFrame decodes a received frame back into an intent. Frames that
// cannot be decoded yield 422, matching the drop semantics of the
// websocket path.
func decodeFrame(c echo.Context, service *usecase.MessageService, logger *zap.Logger) error {
	var req DecodeRequest

	if err := c.Bind(&req); err != nil {
		logger.Error("Failed to bind decode request", zap.Error(err))
		return c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "invalid_request",
			Message: "Invalid request format",
		})
	}

	if len(req.Frame) == 0 {
		return c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "missing_fields",
			Message: "Frame is required",
		})
	}

	intent, err := service.Receive(c.Request().Context(), req.SenderID, req.Frame)
	if err != nil {
		if errors.Is(err, usecase.ErrUndecodable) {
			return c.JSON(http.StatusUnprocessableEntity, ErrorResponse{
				Error:   "undecodable_frame",
				Message: "Frame could not be decoded",
			})
		}
		logger.Error("Failed to decode frame", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error:   "decode_failed",
			Message: "Failed to decode the frame",
		})
	}

	return c.JSON(http.StatusOK, DecodeResponse{Intent: intent})
}

// getLegacyAgent looks up a legacy agent profile by roster name.
func getLegacyAgent(c echo.Context) error {
	name := c.Param("name")
	profile, ok := legacy.Lookup(name)
	if !ok {
		return c.JSON(http.StatusNotFound, ErrorResponse{
			Error:   "unknown_agent",
			Message: "Legacy agent name is not in the roster",
		})
	}
	return c.JSON(http.StatusOK, LegacyAgentResponse{
		Name:      name,
		Tier:      profile.Tier,
		Functions: profile.Functions,
	})
}

// websocketWithAuth handles WebSocket connections with JWT authentication
func websocketWithAuth(hub *websocket.Hub, c echo.Context, logger *zap.Logger) error {
	// Extract JWT token from Authorization header only
	var token string
	authHeader := c.Request().Header.Get("Authorization")
	if authHeader != "" && len(authHeader) > 7 && authHeader[:7] == "Bearer " {
		token = authHeader[7:]
	}

	if token == "" {
		logger.Warn("WebSocket connection rejected: missing token")
		return c.JSON(http.StatusUnauthorized, ErrorResponse{
			Error:   "missing_token",
			Message: "JWT token is required in Authorization header",
		})
	}

	claims, err := auth.ValidateToken(token)
	if err != nil {
		logger.Warn("WebSocket connection rejected: invalid token", zap.Error(err))
		return c.JSON(http.StatusUnauthorized, ErrorResponse{
			Error:   "invalid_token",
			Message: "Invalid or expired JWT token",
		})
	}

	if claims.Role != "agent" {
		logger.Warn("WebSocket connection rejected: invalid role",
			zap.String("role", claims.Role))
		return c.JSON(http.StatusForbidden, ErrorResponse{
			Error:   "invalid_role",
			Message: "Only agent tokens are allowed for WebSocket connections",
		})
	}

	if claims.AgentID == "" || entities.TierIndex(claims.Tier) < 0 {
		logger.Warn("WebSocket connection rejected: malformed claims")
		return c.JSON(http.StatusUnauthorized, ErrorResponse{
			Error:   "invalid_token",
			Message: "Token claims are missing agent ID or tier",
		})
	}

	return websocket.HandleWebSocketWithAuth(hub, c, claims.AgentID, claims.Tier, logger)
}
