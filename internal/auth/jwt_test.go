package auth

import (
	"testing"

	"github.com/rasoomlabs/rasoom/domain/entities"
)

func TestAgentTokenRoundTrip(t *testing.T) {
	token, err := GenerateAgentToken("agent-42", entities.TierDomain)
	if err != nil {
		t.Fatalf("generate failed: %v", err)
	}

	claims, err := ValidateToken(token)
	if err != nil {
		t.Fatalf("validate failed: %v", err)
	}
	if claims.AgentID != "agent-42" {
		t.Errorf("agent ID %q", claims.AgentID)
	}
	if claims.Tier != entities.TierDomain {
		t.Errorf("tier %q", claims.Tier)
	}
	if claims.Role != "agent" {
		t.Errorf("role %q", claims.Role)
	}
}

func TestHubTokenRole(t *testing.T) {
	token, err := GenerateHubToken("mcp-hub-1")
	if err != nil {
		t.Fatalf("generate failed: %v", err)
	}
	claims, err := ValidateToken(token)
	if err != nil {
		t.Fatalf("validate failed: %v", err)
	}
	if claims.Role != "hub" || claims.AgentID != "mcp-hub-1" {
		t.Errorf("unexpected claims %+v", claims)
	}
}

func TestValidateRejectsGarbage(t *testing.T) {
	if _, err := ValidateToken("not.a.token"); err == nil {
		t.Error("garbage token validated")
	}
	if _, err := ValidateToken(""); err == nil {
		t.Error("empty token validated")
	}
}
