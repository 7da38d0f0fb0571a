package websocket

import (
	"encoding/json"
	"fmt"

	"github.com/rasoomlabs/rasoom/domain/entities"
	"github.com/rasoomlabs/rasoom/internal/perf"
)

// Control message type tags exchanged as JSON text frames. Binary frames
// are always raw Rasoom messages and carry no JSON envelope.
const (
	ControlTypeStatus  = "status"
	ControlTypeIntent  = "intent_decoded"
	ControlTypeDropped = "message_dropped"
)

// ParseControlType extracts the type tag of a JSON control message.
func ParseControlType(message []byte) (string, error) {
	var envelope struct {
		Type string `json:"type"`
	}
	if err := json.Unmarshal(message, &envelope); err != nil {
		return "", fmt.Errorf("malformed control message: %w", err)
	}
	if envelope.Type == "" {
		return "", fmt.Errorf("control message missing type field")
	}
	return envelope.Type, nil
}

// IntentNotice tells an agent what a frame it sent decoded to.
type IntentNotice struct {
	Type    string                  `json:"type"`
	AgentID string                  `json:"agent_id"`
	Intent  *entities.DecodedIntent `json:"intent"`
}

// DropNotice tells an agent its frame was undecodable and dropped.
type DropNotice struct {
	Type   string `json:"type"`
	Reason string `json:"reason"`
}

// StatusNotice reports an agent's subscription plus hub-wide codec stats.
type StatusNotice struct {
	Type        string        `json:"type"`
	AgentID     string        `json:"agent_id"`
	Tier        entities.Tier `json:"tier"`
	Subscribers int           `json:"subscribers"`
	Stats       perf.Snapshot `json:"stats"`
}
