package services

import (
	"database/sql"
	"testing"
	"time"

	_ "github.com/lib/pq"
)

func TestFinishCutoff(t *testing.T) {
	s := NewLifecycleScheduler(nil, time.Minute, 3*time.Minute, 2*time.Minute, nil)

	kickoff := time.Date(2024, 1, 1, 15, 0, 0, 0, time.UTC)

	// 开球 + 3 分钟常规 + 2 分钟补时 = 15:05 结束
	now := time.Date(2024, 1, 1, 15, 5, 0, 0, time.UTC)
	if cutoff := s.FinishCutoff(now); kickoff.After(cutoff) {
		t.Errorf("Expected match kicked off at %v to be finishable at %v (cutoff %v)", kickoff, now, cutoff)
	}

	// 15:04 还没到
	now = time.Date(2024, 1, 1, 15, 4, 0, 0, time.UTC)
	if cutoff := s.FinishCutoff(now); !kickoff.After(cutoff) {
		t.Errorf("Expected match kicked off at %v not to be finishable at %v (cutoff %v)", kickoff, now, cutoff)
	}
}

func TestSchedulerStartStop(t *testing.T) {
	// 数据库不可达也能启动和停止；第一次扫描会失败并被记日志，
	// 这正是「失败不致命、下个周期重试」的行为
	db, err := sql.Open("postgres", "postgres://localhost:1/unreachable?sslmode=disable")
	if err != nil {
		t.Fatalf("Failed to open database handle: %v", err)
	}
	defer db.Close()

	s := NewLifecycleScheduler(db, time.Hour, 90*time.Minute, 5*time.Minute, nil)

	if s.IsRunning() {
		t.Fatal("Expected scheduler not to be running before Start")
	}

	s.Start()
	if !s.IsRunning() {
		t.Error("Expected scheduler to be running after Start")
	}

	s.Stop()
	if s.IsRunning() {
		t.Error("Expected scheduler to be stopped after Stop")
	}
}
