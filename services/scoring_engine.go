package services

import (
	"database/sql"
	"fmt"

	"tippspiel-service/database"
)

// ScoringEngine 录入比分并重算该场比赛所有预测的积分。
// 是 points 字段唯一的写入方。
type ScoringEngine struct {
	db *sql.DB
}

// NewScoringEngine 创建积分引擎
func NewScoringEngine(db *sql.DB) *ScoringEngine {
	return &ScoringEngine{db: db}
}

// RecordResult 录入（或修正）最终比分，整个操作在一个事务里：
// 1. 锁定比赛行，不存在则失败
// 2. 准入检查：scheduled 状态的比赛还没开球，拒绝录入；
//    live / finished / scored 都允许，重复调用即修正
// 3. 写入比分，状态置为 scored
// 4. 先把该场全部预测的积分清零（修正时不能叠加旧值）
// 5. 逐条重算并写回
// 6. 提交；中途任何失败整体回滚，不会出现只更新了一半的状态
// 返回重算的预测条数。同样的比分调用两次结果一致（幂等）。
func (e *ScoringEngine) RecordResult(matchID int64, homeGoals, awayGoals int) (int, *database.Match, error) {
	tx, err := e.db.Begin()
	if err != nil {
		return 0, nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	// 1. 锁定比赛行，和并发的录入/扫描串行化
	var m database.Match
	err = tx.QueryRow(`
		SELECT id, kickoff, home_team, away_team, home_goals, away_goals, state, created_at, updated_at
		FROM matches
		WHERE id = $1
		FOR UPDATE
	`, matchID).Scan(
		&m.ID, &m.Kickoff, &m.HomeTeam, &m.AwayTeam,
		&m.HomeGoals, &m.AwayGoals, &m.State, &m.CreatedAt, &m.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return 0, nil, ErrMatchNotFound
	}
	if err != nil {
		return 0, nil, fmt.Errorf("failed to load match: %w", err)
	}

	// 2. 准入检查
	if m.State == database.StateScheduled {
		return 0, nil, ErrMatchNotStarted
	}

	// 3. 写入比分，状态置为 scored
	if _, err := tx.Exec(`
		UPDATE matches
		SET home_goals = $1,
		    away_goals = $2,
		    state = $3,
		    updated_at = NOW()
		WHERE id = $4
	`, homeGoals, awayGoals, database.StateScored, matchID); err != nil {
		return 0, nil, fmt.Errorf("failed to update match result: %w", err)
	}

	// 4. 清零旧积分
	if _, err := tx.Exec(`
		UPDATE predictions
		SET points = 0
		WHERE match_id = $1
	`, matchID); err != nil {
		return 0, nil, fmt.Errorf("failed to reset points: %w", err)
	}

	// 5. 加载预测并重算
	rows, err := tx.Query(`
		SELECT id, home_tip, away_tip
		FROM predictions
		WHERE match_id = $1
	`, matchID)
	if err != nil {
		return 0, nil, fmt.Errorf("failed to load predictions: %w", err)
	}

	type tip struct {
		id               int64
		homeTip, awayTip int
	}
	tips := []tip{}
	for rows.Next() {
		var t tip
		if err := rows.Scan(&t.id, &t.homeTip, &t.awayTip); err != nil {
			rows.Close()
			return 0, nil, fmt.Errorf("failed to scan prediction: %w", err)
		}
		tips = append(tips, t)
	}
	if err := rows.Close(); err != nil {
		return 0, nil, fmt.Errorf("failed to read predictions: %w", err)
	}

	for _, t := range tips {
		points := PredictionPoints(t.homeTip, t.awayTip, homeGoals, awayGoals)
		if _, err := tx.Exec(`
			UPDATE predictions
			SET points = $1
			WHERE id = $2
		`, points, t.id); err != nil {
			return 0, nil, fmt.Errorf("failed to write points: %w", err)
		}
	}

	// 6. 提交
	if err := tx.Commit(); err != nil {
		return 0, nil, fmt.Errorf("failed to commit scoring: %w", err)
	}

	m.HomeGoals = &homeGoals
	m.AwayGoals = &awayGoals
	m.State = database.StateScored

	return len(tips), &m, nil
}

// PredictionPoints 单条预测的积分：
// 比分完全正确 3 分，只有方向正确 1 分，否则 0 分。
// 方向用净胜球符号比较，sign(0) == sign(0)，
// 所以任意比分的平局预测对上任意比分的实际平局也算方向正确。
func PredictionPoints(homeTip, awayTip, homeGoals, awayGoals int) int {
	if homeTip == homeGoals && awayTip == awayGoals {
		return database.PointsExact
	}

	if sign(homeTip-awayTip) == sign(homeGoals-awayGoals) {
		return database.PointsTendency
	}

	return database.PointsNone
}

func sign(n int) int {
	switch {
	case n > 0:
		return 1
	case n < 0:
		return -1
	default:
		return 0
	}
}
