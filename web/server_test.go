package web

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"tippspiel-service/auth"
	"tippspiel-service/config"
	"tippspiel-service/database"
	"tippspiel-service/services"
)

// fakeAuthenticator 测试用身份解析器
type fakeAuthenticator struct {
	identity *auth.Identity
}

func (f *fakeAuthenticator) Authenticate(r *http.Request) (*auth.Identity, error) {
	if f.identity == nil {
		return nil, auth.ErrUnauthenticated
	}
	return f.identity, nil
}

func testServer(identity *auth.Identity) *Server {
	return NewServer(
		&config.Config{Port: "0"},
		nil,
		&fakeAuthenticator{identity: identity},
		services.NewEventPublisher("", "tippspiel.events"),
		services.NewWebhookNotifier(""),
	)
}

func errorReason(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()

	var body struct {
		Error string `json:"error"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("Failed to decode error body: %v", err)
	}
	return body.Error
}

func TestHealth(t *testing.T) {
	s := testServer(nil)

	req := httptest.NewRequest("GET", "/api/health", nil)
	rec := httptest.NewRecorder()
	s.handler().ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Errorf("Expected status 200, got %d", rec.Code)
	}
}

func TestUnauthenticatedRequest(t *testing.T) {
	s := testServer(nil)

	req := httptest.NewRequest("GET", "/api/matches", nil)
	rec := httptest.NewRecorder()
	s.handler().ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("Expected status 401, got %d", rec.Code)
	}
	if reason := errorReason(t, rec); reason != "unauthorized" {
		t.Errorf("Expected reason 'unauthorized', got '%s'", reason)
	}
}

func TestRoleMismatch(t *testing.T) {
	// tipper 不能创建比赛
	s := testServer(&auth.Identity{UserID: 1, Name: "anna", Role: database.RoleTipper})

	req := httptest.NewRequest("POST", "/api/matches", strings.NewReader(`{}`))
	rec := httptest.NewRecorder()
	s.handler().ServeHTTP(rec, req)

	if rec.Code != http.StatusForbidden {
		t.Errorf("Expected status 403, got %d", rec.Code)
	}
	if reason := errorReason(t, rec); reason != "forbidden" {
		t.Errorf("Expected reason 'forbidden', got '%s'", reason)
	}
}

func TestAdminCannotSubmitPredictions(t *testing.T) {
	s := testServer(&auth.Identity{UserID: 1, Name: "boss", Role: database.RoleAdmin})

	req := httptest.NewRequest("POST", "/api/predictions", strings.NewReader(`{"match_id":1,"home_tip":1,"away_tip":0}`))
	rec := httptest.NewRecorder()
	s.handler().ServeHTTP(rec, req)

	if rec.Code != http.StatusForbidden {
		t.Errorf("Expected status 403, got %d", rec.Code)
	}
}

func TestCreateMatchInvalidBody(t *testing.T) {
	s := testServer(&auth.Identity{UserID: 1, Name: "boss", Role: database.RoleAdmin})

	req := httptest.NewRequest("POST", "/api/matches", strings.NewReader(`{"home_team":"FC Hom"}`))
	rec := httptest.NewRecorder()
	s.handler().ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("Expected status 400, got %d", rec.Code)
	}
	if reason := errorReason(t, rec); reason != "invalid_request" {
		t.Errorf("Expected reason 'invalid_request', got '%s'", reason)
	}
}

func TestRecordResultInvalidID(t *testing.T) {
	s := testServer(&auth.Identity{UserID: 1, Name: "boss", Role: database.RoleAdmin})

	req := httptest.NewRequest("PATCH", "/api/matches/abc/result", strings.NewReader(`{"home_goals":1,"away_goals":0}`))
	rec := httptest.NewRecorder()
	s.handler().ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("Expected status 400, got %d", rec.Code)
	}
}

func TestRecordResultMissingGoals(t *testing.T) {
	s := testServer(&auth.Identity{UserID: 1, Name: "boss", Role: database.RoleAdmin})

	req := httptest.NewRequest("PATCH", "/api/matches/1/result", strings.NewReader(`{"home_goals":2}`))
	rec := httptest.NewRecorder()
	s.handler().ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("Expected status 400, got %d", rec.Code)
	}
}

func TestSubmitPredictionNegativeTip(t *testing.T) {
	s := testServer(&auth.Identity{UserID: 1, Name: "anna", Role: database.RoleTipper})

	req := httptest.NewRequest("POST", "/api/predictions", strings.NewReader(`{"match_id":1,"home_tip":-1,"away_tip":0}`))
	rec := httptest.NewRecorder()
	s.handler().ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("Expected status 400, got %d", rec.Code)
	}
}
