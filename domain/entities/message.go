package entities

import (
	"errors"
	"time"
)

// Tier identifies one level of the three-level agent hierarchy that messages
// are addressed to.
type Tier string

const (
	TierPrime  Tier = "prime"
	TierDomain Tier = "domain"
	TierMicro  Tier = "micro"
)

// Tiers lists the tiers in wire order (index = wire encoding).
var Tiers = []Tier{TierMicro, TierDomain, TierPrime}

// TierIndex returns the wire index of t, or -1 for unknown tiers.
func TierIndex(t Tier) int {
	for i, tt := range Tiers {
		if tt == t {
			return i
		}
	}
	return -1
}

// TierAt returns the tier for a wire index, domain for out of range.
func TierAt(i int) Tier {
	if i < 0 || i >= len(Tiers) {
		return TierDomain
	}
	return Tiers[i]
}

// MessageType tags the kind of payload a message carries.
type MessageType uint8

const (
	MessageTypeIntent  MessageType = 1 // encoded gesture/affect intent
	MessageTypeControl MessageType = 2 // hub control traffic
)

// RasoomMessage is the wire-level unit produced by the encoder: a routed
// tier, a type tag, and the final binary frame (stage-7 output including
// Reed-Solomon parity). Immutable once created; only transmitted or stored.
type RasoomMessage struct {
	ID        string      `json:"id"`
	SenderID  string      `json:"sender_id"`
	Tier      Tier        `json:"tier"`
	Type      MessageType `json:"type"`
	Frame     []byte      `json:"frame"`
	CreatedAt time.Time   `json:"created_at"`
}

// Validate checks the structural requirements for storing or dispatching
// a message.
func (m *RasoomMessage) Validate() error {
	if TierIndex(m.Tier) < 0 {
		return errors.New("tier is required")
	}
	if len(m.Frame) == 0 {
		return errors.New("frame is required")
	}
	return nil
}

// DecodedIntent is the semantic recovery target of decoding: not the exact
// floats that went in, but the discretized gesture intent, the dequantized
// affect, and the routing decision.
type DecodedIntent struct {
	Direction      Direction      `json:"direction"`
	VelocityBucket int            `json:"velocity_bucket"` // 0..2
	PressureBucket int            `json:"pressure_bucket"` // 0..2
	MotionClass    int            `json:"motion_class"`    // 0..3
	Swaras         []Swara        `json:"swaras"`
	Gamaka         float64        `json:"gamaka"`
	Octave         Octave         `json:"octave"`
	Affect         AffectiveState `json:"affect"`
	Tier           Tier           `json:"tier"`
	Type           MessageType    `json:"type"`
	TierExplicit   bool           `json:"tier_explicit"`
}
