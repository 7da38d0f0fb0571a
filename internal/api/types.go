package api

import (
	"time"

	"github.com/rasoomlabs/rasoom/domain/entities"
)

// AgentAuthRequest authenticates an agent for websocket access: either a
// legacy roster name, or an explicit agent ID plus tier subscription.
type AgentAuthRequest struct {
	AgentID    string `json:"agent_id,omitempty"`
	Tier       string `json:"tier,omitempty"`
	LegacyName string `json:"legacy_name,omitempty"`
}

// AgentAuthResponse carries the issued token.
type AgentAuthResponse struct {
	Token     string        `json:"token"`
	ExpiresAt time.Time     `json:"expires_at"`
	AgentID   string        `json:"agent_id"`
	Tier      entities.Tier `json:"tier"`
}

// EncodeRequest is a submission from the MCP hub boundary.
type EncodeRequest struct {
	SenderID string                   `json:"sender_id"`
	Tier     string                   `json:"tier,omitempty"` // empty: derive from octave
	Gesture  entities.GestureFeatures `json:"gesture"`
	Affect   entities.AffectiveState  `json:"affect,omitempty"`
}

// EncodeResponse reports the stored and dispatched message. Frame is
// base64 in transit (encoding/json's []byte behavior).
type EncodeResponse struct {
	MessageID  string        `json:"message_id"`
	Tier       entities.Tier `json:"tier"`
	FrameBytes int           `json:"frame_bytes"`
	Frame      []byte        `json:"frame"`
}

// DecodeRequest carries a frame to decode, base64 encoded.
type DecodeRequest struct {
	SenderID string `json:"sender_id,omitempty"`
	Frame    []byte `json:"frame"`
}

// DecodeResponse carries the recovered intent.
type DecodeResponse struct {
	Intent *entities.DecodedIntent `json:"intent"`
}

// LegacyAgentResponse is a roster lookup result.
type LegacyAgentResponse struct {
	Name      string        `json:"name"`
	Tier      entities.Tier `json:"tier"`
	Functions []string      `json:"functions"`
}

// ErrorResponse is the uniform error envelope.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}
