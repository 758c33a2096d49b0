package services

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestWebhookNotifierDisabled(t *testing.T) {
	n := NewWebhookNotifier("")

	if n.enabled {
		t.Error("Expected notifier to be disabled without webhook URL")
	}

	// 未配置时所有通知都是无操作
	if err := n.NotifyServiceStart("test"); err != nil {
		t.Errorf("Expected disabled notifier to be a no-op, got %v", err)
	}
	if err := n.NotifyMatchScored(1, 2, 1, 5); err != nil {
		t.Errorf("Expected disabled notifier to be a no-op, got %v", err)
	}
}

func TestWebhookNotifierSend(t *testing.T) {
	var received webhookMessage

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := json.NewDecoder(r.Body).Decode(&received); err != nil {
			t.Errorf("Failed to decode webhook body: %v", err)
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	n := NewWebhookNotifier(server.URL)

	if err := n.NotifyMatchScored(7, 2, 1, 3); err != nil {
		t.Fatalf("Expected notification to succeed, got %v", err)
	}

	if received.Event != "match_scored" {
		t.Errorf("Expected event 'match_scored', got '%s'", received.Event)
	}
	if !strings.Contains(received.Message, "Match 7") {
		t.Errorf("Expected message to mention match id, got '%s'", received.Message)
	}
	if !strings.Contains(received.Message, "3 predictions") {
		t.Errorf("Expected message to mention recomputed count, got '%s'", received.Message)
	}
}

func TestWebhookNotifierErrorStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	n := NewWebhookNotifier(server.URL)

	if err := n.NotifyError("Test", "boom"); err == nil {
		t.Error("Expected error for non-2xx webhook response")
	}
}
