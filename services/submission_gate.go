package services

import (
	"time"

	"tippspiel-service/database"
)

// SubmissionGate 判断某场比赛当前是否还接受预测。
// 纯策略，不访问数据库；调用方传入已加载的比赛和当前时间。
type SubmissionGate struct{}

// NewSubmissionGate 创建提交闸门
func NewSubmissionGate() *SubmissionGate {
	return &SubmissionGate{}
}

// CanSubmit 按固定顺序检查：
// 1. 比赛必须存在
// 2. 状态必须还是 scheduled
// 3. 当前时间必须严格早于开球时间（即使扫描还没把状态推到 live）
// 任何一条不满足，该比赛的预测窗口即永久关闭。
func (g *SubmissionGate) CanSubmit(match *database.Match, now time.Time) error {
	if match == nil {
		return ErrMatchNotFound
	}

	if match.State != database.StateScheduled {
		return ErrSubmissionClosed
	}

	if !now.Before(match.Kickoff) {
		return ErrWindowExpired
	}

	return nil
}
