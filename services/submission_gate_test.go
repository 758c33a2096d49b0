package services

import (
	"errors"
	"testing"
	"time"

	"tippspiel-service/database"
)

func testMatch(state string, kickoff time.Time) *database.Match {
	return &database.Match{
		ID:       1,
		Kickoff:  kickoff,
		HomeTeam: "FC Hom",
		AwayTeam: "SV Gast",
		State:    state,
	}
}

func TestCanSubmitAllowed(t *testing.T) {
	gate := NewSubmissionGate()
	kickoff := time.Date(2024, 1, 1, 15, 0, 0, 0, time.UTC)

	match := testMatch(database.StateScheduled, kickoff)
	now := kickoff.Add(-1 * time.Hour)

	if err := gate.CanSubmit(match, now); err != nil {
		t.Errorf("Expected submission to be allowed before kickoff, got %v", err)
	}
}

func TestCanSubmitMissingMatch(t *testing.T) {
	gate := NewSubmissionGate()

	err := gate.CanSubmit(nil, time.Now())
	if !errors.Is(err, ErrMatchNotFound) {
		t.Errorf("Expected ErrMatchNotFound, got %v", err)
	}
}

func TestCanSubmitClosedStates(t *testing.T) {
	gate := NewSubmissionGate()
	kickoff := time.Now().Add(1 * time.Hour)

	// 即使开球时间还在未来，非 scheduled 状态一律拒绝
	for _, state := range []string{database.StateLive, database.StateFinished, database.StateScored} {
		err := gate.CanSubmit(testMatch(state, kickoff), time.Now())
		if !errors.Is(err, ErrSubmissionClosed) {
			t.Errorf("Expected ErrSubmissionClosed for state %s, got %v", state, err)
		}
	}
}

func TestCanSubmitWindowExpired(t *testing.T) {
	gate := NewSubmissionGate()
	kickoff := time.Date(2024, 1, 1, 15, 0, 0, 0, time.UTC)
	match := testMatch(database.StateScheduled, kickoff)

	// 开球后一秒：扫描还没跑，状态仍是 scheduled，但窗口已经关了
	err := gate.CanSubmit(match, kickoff.Add(1*time.Second))
	if !errors.Is(err, ErrWindowExpired) {
		t.Errorf("Expected ErrWindowExpired one second after kickoff, got %v", err)
	}

	// 正好开球时刻也算过期（要求严格早于）
	err = gate.CanSubmit(match, kickoff)
	if !errors.Is(err, ErrWindowExpired) {
		t.Errorf("Expected ErrWindowExpired at exact kickoff, got %v", err)
	}

	// 开球前一秒还开着
	if err := gate.CanSubmit(match, kickoff.Add(-1*time.Second)); err != nil {
		t.Errorf("Expected submission allowed one second before kickoff, got %v", err)
	}
}

func TestCanSubmitCheckOrder(t *testing.T) {
	gate := NewSubmissionGate()
	kickoff := time.Date(2024, 1, 1, 15, 0, 0, 0, time.UTC)

	// 状态和窗口同时不满足时，状态检查优先
	match := testMatch(database.StateLive, kickoff)
	err := gate.CanSubmit(match, kickoff.Add(10*time.Minute))
	if !errors.Is(err, ErrSubmissionClosed) {
		t.Errorf("Expected state check before window check, got %v", err)
	}
}
