package database

import (
	"time"
)

// 比赛状态。状态只向前推进：
// scheduled -> live -> finished（由定时扫描驱动），
// 录入比分时允许 live/finished/scored -> scored（重复录入即修正）。
const (
	StateScheduled = "scheduled"
	StateLive      = "live"
	StateFinished  = "finished"
	StateScored    = "scored"
)

// 积分规则
const (
	PointsExact    = 3 // 比分完全正确
	PointsTendency = 1 // 只有胜负（或平局）方向正确
	PointsNone     = 0
)

// 用户角色
const (
	RoleAdmin  = "admin"
	RoleTipper = "tipper"
)

// User 参赛用户
type User struct {
	ID        int64     `db:"id" json:"id"`
	Name      string    `db:"name" json:"name"`
	Role      string    `db:"role" json:"role"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// Match 一场可供预测的比赛
type Match struct {
	ID        int64     `db:"id" json:"id"`
	Kickoff   time.Time `db:"kickoff" json:"kickoff"`
	HomeTeam  string    `db:"home_team" json:"home_team"`
	AwayTeam  string    `db:"away_team" json:"away_team"`
	HomeGoals *int      `db:"home_goals" json:"home_goals"`
	AwayGoals *int      `db:"away_goals" json:"away_goals"`
	State     string    `db:"state" json:"state"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// Prediction 用户对一场比赛的比分预测
type Prediction struct {
	ID        int64     `db:"id" json:"id"`
	UserID    int64     `db:"user_id" json:"user_id"`
	MatchID   int64     `db:"match_id" json:"match_id"`
	HomeTip   int       `db:"home_tip" json:"home_tip"`
	AwayTip   int       `db:"away_tip" json:"away_tip"`
	Points    *int      `db:"points" json:"points"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// PredictionRow 带用户名和比赛信息的预测记录（总览页用）
type PredictionRow struct {
	ID       int64     `json:"id"`
	MatchID  int64     `json:"match_id"`
	UserName string    `json:"user_name"`
	HomeTip  int       `json:"home_tip"`
	AwayTip  int       `json:"away_tip"`
	Points   *int      `json:"points"`
	HomeTeam string    `json:"home_team"`
	AwayTeam string    `json:"away_team"`
	Kickoff  time.Time `json:"kickoff"`
	State    string    `json:"state"`
}

// StandingsEntry 排行榜中的一行
type StandingsEntry struct {
	Name   string `json:"name"`
	Points int64  `json:"points"`
}
