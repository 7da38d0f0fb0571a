package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap/zaptest"

	"github.com/rasoomlabs/rasoom/domain/entities"
	"github.com/rasoomlabs/rasoom/internal/perf"
	"github.com/rasoomlabs/rasoom/internal/websocket"
	"github.com/rasoomlabs/rasoom/repository"
	"github.com/rasoomlabs/rasoom/usecase"
)

func setupTestServer(t *testing.T) *echo.Echo {
	t.Helper()
	logger := zaptest.NewLogger(t)
	codec := usecase.NewCodec(logger)
	repo := repository.NewMemoryMessageRepository()
	service := usecase.NewMessageService(codec, repo, nil, perf.NewMonitor(), logger)
	hub := websocket.NewHub(service, logger)

	e := echo.New()
	InitRoutes(e, hub, service, logger)
	return e
}

func postJSON(e *echo.Echo, path string, body interface{}) *httptest.ResponseRecorder {
	payload, _ := json.Marshal(body)
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(payload))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestHealthEndpoint(t *testing.T) {
	e := setupTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestSubmitMessageEndpoint(t *testing.T) {
	e := setupTestServer(t)

	rec := postJSON(e, "/api/v1/messages", EncodeRequest{
		SenderID: "vision-domain",
		Tier:     "prime",
		Gesture: entities.GestureFeatures{
			Velocity:  0.8,
			Pressure:  0.6,
			Direction: entities.DirectionUp,
		},
		Affect: entities.AffectiveState{"confidence": 0.9},
	})

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var resp EncodeResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal response: %v", err)
	}
	if resp.MessageID == "" {
		t.Error("expected a message ID")
	}
	if resp.Tier != entities.TierPrime {
		t.Errorf("expected tier prime, got %q", resp.Tier)
	}
	if resp.FrameBytes == 0 || len(resp.Frame) != resp.FrameBytes {
		t.Errorf("frame length %d does not match reported size %d", len(resp.Frame), resp.FrameBytes)
	}
}

func TestSubmitMessageValidation(t *testing.T) {
	e := setupTestServer(t)

	rec := postJSON(e, "/api/v1/messages", EncodeRequest{
		Gesture: entities.GestureFeatures{Direction: entities.DirectionCenter},
	})
	if rec.Code != http.StatusBadRequest {
		t.Errorf("missing sender: expected 400, got %d", rec.Code)
	}

	rec = postJSON(e, "/api/v1/messages", EncodeRequest{
		SenderID: "sensor-micro-01",
		Tier:     "galactic",
		Gesture:  entities.GestureFeatures{Direction: entities.DirectionCenter},
	})
	if rec.Code != http.StatusBadRequest {
		t.Errorf("bad tier: expected 400, got %d", rec.Code)
	}
}

func TestDecodeFrameEndpoint(t *testing.T) {
	e := setupTestServer(t)

	rec := postJSON(e, "/api/v1/messages", EncodeRequest{
		SenderID: "comms-domain",
		Gesture: entities.GestureFeatures{
			Velocity:  0.2,
			Pressure:  0.5,
			Direction: entities.DirectionLeft,
		},
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("submit failed: %d", rec.Code)
	}
	var submitted EncodeResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &submitted); err != nil {
		t.Fatalf("unmarshal submit response: %v", err)
	}

	rec = postJSON(e, "/api/v1/messages/decode", DecodeRequest{
		SenderID: "planner-core",
		Frame:    submitted.Frame,
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("decode: expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var decoded DecodeResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &decoded); err != nil {
		t.Fatalf("unmarshal decode response: %v", err)
	}
	if decoded.Intent == nil {
		t.Fatal("expected a decoded intent")
	}
	if decoded.Intent.Direction != entities.DirectionLeft {
		t.Errorf("expected direction left, got %q", decoded.Intent.Direction)
	}
}

func TestDecodeFrameRejectsGarbage(t *testing.T) {
	e := setupTestServer(t)

	rec := postJSON(e, "/api/v1/messages/decode", DecodeRequest{
		Frame: []byte("this is not a rasoom frame at all, just some text bytes"),
	})
	if rec.Code != http.StatusUnprocessableEntity {
		t.Errorf("expected 422, got %d", rec.Code)
	}
}

func TestAgentAuthWithLegacyName(t *testing.T) {
	e := setupTestServer(t)

	rec := postJSON(e, "/api/v1/agents/auth", AgentAuthRequest{LegacyName: "orchestrator-prime"})
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var resp AgentAuthResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal response: %v", err)
	}
	if resp.Token == "" {
		t.Error("expected a token")
	}
	if resp.Tier != entities.TierPrime {
		t.Errorf("expected tier prime from roster, got %q", resp.Tier)
	}

	rec = postJSON(e, "/api/v1/agents/auth", AgentAuthRequest{LegacyName: "nonexistent-agent"})
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("unknown legacy name: expected 401, got %d", rec.Code)
	}
}

func TestAgentAuthExplicitTier(t *testing.T) {
	e := setupTestServer(t)

	rec := postJSON(e, "/api/v1/agents/auth", AgentAuthRequest{AgentID: "agent-x", Tier: "micro"})
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	rec = postJSON(e, "/api/v1/agents/auth", AgentAuthRequest{AgentID: "agent-x"})
	if rec.Code != http.StatusBadRequest {
		t.Errorf("missing tier: expected 400, got %d", rec.Code)
	}
}

func TestLegacyRosterEndpoints(t *testing.T) {
	e := setupTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/legacy/vision-domain", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var profile LegacyAgentResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &profile); err != nil {
		t.Fatalf("unmarshal profile: %v", err)
	}
	if profile.Tier != entities.TierDomain {
		t.Errorf("expected tier domain, got %q", profile.Tier)
	}

	req = httptest.NewRequest(http.MethodGet, "/api/v1/legacy/no-such-agent", nil)
	rec = httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	if rec.Code != http.StatusNotFound {
		t.Errorf("expected 404, got %d", rec.Code)
	}
}

func TestStatsEndpoint(t *testing.T) {
	e := setupTestServer(t)

	postJSON(e, "/api/v1/messages", EncodeRequest{
		SenderID: "sensor-micro-01",
		Gesture:  entities.GestureFeatures{Velocity: 0.5, Pressure: 0.5, Direction: entities.DirectionCenter},
	})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/stats", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var snap perf.Snapshot
	if err := json.Unmarshal(rec.Body.Bytes(), &snap); err != nil {
		t.Fatalf("unmarshal snapshot: %v", err)
	}
	if snap.Trials != 1 {
		t.Errorf("expected 1 recorded trial, got %d", snap.Trials)
	}
}

func TestWebSocketRequiresToken(t *testing.T) {
	e := setupTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/ws", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("expected 401 without token, got %d", rec.Code)
	}

	req = httptest.NewRequest(http.MethodGet, "/ws", nil)
	req.Header.Set("Authorization", "Bearer not-a-real-token")
	rec = httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("expected 401 with bad token, got %d", rec.Code)
	}
}
