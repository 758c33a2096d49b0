package services

import (
	"database/sql"
	"fmt"
	"time"

	"tippspiel-service/database"
)

// MatchRegistry 比赛数据访问层，只管存取，不做状态策略
type MatchRegistry struct {
	db *sql.DB
}

// NewMatchRegistry 创建比赛注册表
func NewMatchRegistry(db *sql.DB) *MatchRegistry {
	return &MatchRegistry{db: db}
}

// CreateMatch 创建比赛，初始状态固定为 scheduled
func (r *MatchRegistry) CreateMatch(kickoff time.Time, homeTeam, awayTeam string) (*database.Match, error) {
	query := `
		INSERT INTO matches (kickoff, home_team, away_team, state)
		VALUES ($1, $2, $3, $4)
		RETURNING id, kickoff, home_team, away_team, home_goals, away_goals, state, created_at, updated_at
	`

	var m database.Match
	err := r.db.QueryRow(query, kickoff, homeTeam, awayTeam, database.StateScheduled).Scan(
		&m.ID, &m.Kickoff, &m.HomeTeam, &m.AwayTeam,
		&m.HomeGoals, &m.AwayGoals, &m.State, &m.CreatedAt, &m.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create match: %w", err)
	}

	return &m, nil
}

// ListMatches 获取所有比赛，按开球时间升序
func (r *MatchRegistry) ListMatches() ([]database.Match, error) {
	query := `
		SELECT id, kickoff, home_team, away_team, home_goals, away_goals, state, created_at, updated_at
		FROM matches
		ORDER BY kickoff ASC
	`

	rows, err := r.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to list matches: %w", err)
	}
	defer rows.Close()

	matches := []database.Match{}
	for rows.Next() {
		var m database.Match
		if err := rows.Scan(
			&m.ID, &m.Kickoff, &m.HomeTeam, &m.AwayTeam,
			&m.HomeGoals, &m.AwayGoals, &m.State, &m.CreatedAt, &m.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan match: %w", err)
		}
		matches = append(matches, m)
	}

	return matches, rows.Err()
}

// GetMatch 按 id 获取单场比赛
func (r *MatchRegistry) GetMatch(id int64) (*database.Match, error) {
	query := `
		SELECT id, kickoff, home_team, away_team, home_goals, away_goals, state, created_at, updated_at
		FROM matches
		WHERE id = $1
	`

	var m database.Match
	err := r.db.QueryRow(query, id).Scan(
		&m.ID, &m.Kickoff, &m.HomeTeam, &m.AwayTeam,
		&m.HomeGoals, &m.AwayGoals, &m.State, &m.CreatedAt, &m.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, ErrMatchNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get match: %w", err)
	}

	return &m, nil
}

// DeleteMatch 删除比赛及其全部预测，在同一个事务中完成
func (r *MatchRegistry) DeleteMatch(id int64) error {
	tx, err := r.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	// 先删预测（外键依赖），再删比赛
	if _, err := tx.Exec("DELETE FROM predictions WHERE match_id = $1", id); err != nil {
		return fmt.Errorf("failed to delete predictions: %w", err)
	}

	res, err := tx.Exec("DELETE FROM matches WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("failed to delete match: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if affected == 0 {
		return ErrMatchNotFound
	}

	return tx.Commit()
}
