package auth

import (
	"os"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/rasoomlabs/rasoom/domain/entities"
)

// JWTClaims represents the claims in our JWT token
type JWTClaims struct {
	AgentID string        `json:"agent_id"`
	Tier    entities.Tier `json:"tier,omitempty"`
	Role    string        `json:"role"` // "agent" or "hub"
	jwt.RegisteredClaims
}

var jwtSecret = func() []byte {
	if s := os.Getenv("RASOOM_JWT_SECRET"); s != "" {
		return []byte(s)
	}
	return []byte("rasoom-dev-secret")
}()

// GenerateAgentToken generates a JWT token for an agent subscribed to a tier
func GenerateAgentToken(agentID string, tier entities.Tier) (string, error) {
	claims := &JWTClaims{
		AgentID: agentID,
		Tier:    tier,
		Role:    "agent",
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(24 * time.Hour)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(jwtSecret)
}

// GenerateHubToken generates a JWT token for the external MCP hub
func GenerateHubToken(hubID string) (string, error) {
	claims := &JWTClaims{
		AgentID: hubID,
		Role:    "hub",
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(7 * 24 * time.Hour)), // 7 days
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(jwtSecret)
}

// ValidateToken validates a JWT token and returns the claims
func ValidateToken(tokenString string) (*JWTClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &JWTClaims{}, func(token *jwt.Token) (interface{}, error) {
		return jwtSecret, nil
	})

	if err != nil {
		return nil, err
	}

	if claims, ok := token.Claims.(*JWTClaims); ok && token.Valid {
		return claims, nil
	}

	return nil, jwt.ErrInvalidKey
}
