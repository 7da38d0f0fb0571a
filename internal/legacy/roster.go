// Package legacy maps the fixed roster of pre-Rasoom agents onto the tier
// hierarchy so old agent identifiers keep routing correctly.
package legacy

import (
	"github.com/rasoomlabs/rasoom/domain/entities"
)

// AgentProfile is the tier placement and capability list of a legacy agent.
type AgentProfile struct {
	Tier      entities.Tier `json:"tier"`
	Functions []string      `json:"functions"`
}

// roster is the static compatibility table. It is data, not behavior: new
// agents register through the hub and never appear here.
var roster = map[string]AgentProfile{
	"orchestrator-prime": {
		Tier:      entities.TierPrime,
		Functions: []string{"coordination", "delegation", "escalation"},
	},
	"planner-core": {
		Tier:      entities.TierPrime,
		Functions: []string{"planning", "scheduling"},
	},
	"vision-domain": {
		Tier:      entities.TierDomain,
		Functions: []string{"gesture_analysis", "trajectory_tracking"},
	},
	"affect-domain": {
		Tier:      entities.TierDomain,
		Functions: []string{"affect_estimation", "intent_scoring"},
	},
	"comms-domain": {
		Tier:      entities.TierDomain,
		Functions: []string{"message_relay", "translation"},
	},
	"sensor-micro-01": {
		Tier:      entities.TierMicro,
		Functions: []string{"capture"},
	},
	"sensor-micro-02": {
		Tier:      entities.TierMicro,
		Functions: []string{"capture"},
	},
	"actuator-micro-01": {
		Tier:      entities.TierMicro,
		Functions: []string{"haptic_feedback"},
	},
}

// Lookup resolves a legacy agent name to its profile.
func Lookup(name string) (AgentProfile, bool) {
	profile, ok := roster[name]
	return profile, ok
}

// Names returns every legacy agent name. Mostly useful for diagnostics.
func Names() []string {
	names := make([]string, 0, len(roster))
	for name := range roster {
		names = append(names, name)
	}
	return names
}
