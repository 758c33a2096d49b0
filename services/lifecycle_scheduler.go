package services

import (
	"database/sql"
	"fmt"
	"time"

	"tippspiel-service/database"
	"tippspiel-service/logger"
)

// LifecycleScheduler 定时扫描，按墙上时钟推进比赛状态：
// scheduled -> live（到达开球时间），live -> finished（常规时长+补时已过）。
// 两次转移都是批量条件更新，只影响仍处于预期前置状态的行，
// 所以和并发的人工录入比分互不冲突；已被录入推到 scored 的比赛会被跳过。
// 扫描从不触碰比分和积分，也从不把状态往回退。
type LifecycleScheduler struct {
	db            *sql.DB
	interval      time.Duration
	matchDuration time.Duration
	extraTime     time.Duration
	publisher     *EventPublisher
	stopChan      chan struct{}
	running       bool
}

// NewLifecycleScheduler 创建生命周期调度器
func NewLifecycleScheduler(db *sql.DB, interval, matchDuration, extraTime time.Duration, publisher *EventPublisher) *LifecycleScheduler {
	return &LifecycleScheduler{
		db:            db,
		interval:      interval,
		matchDuration: matchDuration,
		extraTime:     extraTime,
		publisher:     publisher,
		stopChan:      make(chan struct{}),
		running:       false,
	}
}

// Start 启动调度器
func (s *LifecycleScheduler) Start() {
	if s.running {
		logger.Println("[LifecycleScheduler] Already running")
		return
	}

	s.running = true
	logger.Printf("[LifecycleScheduler] 🚀 Started with interval: %v", s.interval)

	// 立即执行一次
	go s.runSweep()

	// 定期执行
	go func() {
		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				s.runSweep()
			case <-s.stopChan:
				logger.Println("[LifecycleScheduler] 🛑 Stopped")
				return
			}
		}
	}()
}

// Stop 停止调度器
func (s *LifecycleScheduler) Stop() {
	if !s.running {
		return
	}

	s.running = false
	close(s.stopChan)
	logger.Println("[LifecycleScheduler] 🛑 Stopping...")
}

// IsRunning 检查是否正在运行
func (s *LifecycleScheduler) IsRunning() bool {
	return s.running
}

// runSweep 执行一次扫描。失败只记日志，下个周期自动重试；
// 每次扫描都基于当前全量状态，不排队、不积压。
func (s *LifecycleScheduler) runSweep() {
	started, finished, err := s.Sweep(time.Now())
	if err != nil {
		logger.Errorf("[LifecycleScheduler] ❌ Sweep failed: %v", err)
		return
	}

	if len(started)+len(finished) > 0 {
		logger.Printf("[LifecycleScheduler] ✅ Sweep completed: %d live, %d finished", len(started), len(finished))
	} else {
		logger.Debugf("[LifecycleScheduler] Sweep completed, no transitions")
	}

	for _, id := range started {
		s.publisher.PublishMatchEvent(EventMatchLive, map[string]interface{}{"match_id": id})
	}
	for _, id := range finished {
		s.publisher.PublishMatchEvent(EventMatchFinished, map[string]interface{}{"match_id": id})
	}
}

// Sweep 执行两次批量条件状态转移，返回本次被推进的比赛 id
func (s *LifecycleScheduler) Sweep(now time.Time) (started, finished []int64, err error) {
	started, err = s.transition(database.StateScheduled, database.StateLive, now)
	if err != nil {
		return nil, nil, fmt.Errorf("scheduled->live transition failed: %w", err)
	}

	finished, err = s.transition(database.StateLive, database.StateFinished, s.FinishCutoff(now))
	if err != nil {
		return started, nil, fmt.Errorf("live->finished transition failed: %w", err)
	}

	return started, finished, nil
}

// transition 把所有 kickoff <= cutoff 且仍处于 fromState 的比赛推进到 toState
func (s *LifecycleScheduler) transition(fromState, toState string, cutoff time.Time) ([]int64, error) {
	rows, err := s.db.Query(`
		UPDATE matches
		SET state = $1, updated_at = NOW()
		WHERE state = $2
		  AND kickoff <= $3
		RETURNING id
	`, toState, fromState, cutoff)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	ids := []int64{}
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}

	return ids, rows.Err()
}

// FinishCutoff 把「kickoff + 时长 + 补时 <= now」改写成对 kickoff 的上界
func (s *LifecycleScheduler) FinishCutoff(now time.Time) time.Time {
	return now.Add(-s.matchDuration - s.extraTime)
}
