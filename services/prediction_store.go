package services

import (
	"database/sql"
	"fmt"

	"tippspiel-service/database"
)

// PredictionStore 预测数据访问层
type PredictionStore struct {
	db *sql.DB
}

// NewPredictionStore 创建预测存储
func NewPredictionStore(db *sql.DB) *PredictionStore {
	return &PredictionStore{db: db}
}

// Upsert 写入或覆盖预测，(user_id, match_id) 唯一。
// 必须是单条原子语句：同一用户并发提交不会产生重复行，后写覆盖先写。
// 这里从不触碰 points。
func (s *PredictionStore) Upsert(userID, matchID int64, homeTip, awayTip int) (*database.Prediction, error) {
	query := `
		INSERT INTO predictions (user_id, match_id, home_tip, away_tip)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (user_id, match_id)
		DO UPDATE SET
			home_tip = $3,
			away_tip = $4,
			updated_at = NOW()
		RETURNING id, user_id, match_id, home_tip, away_tip, points, updated_at
	`

	var p database.Prediction
	err := s.db.QueryRow(query, userID, matchID, homeTip, awayTip).Scan(
		&p.ID, &p.UserID, &p.MatchID, &p.HomeTip, &p.AwayTip, &p.Points, &p.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to upsert prediction: %w", err)
	}

	return &p, nil
}

// ListAll 获取全部预测，带用户名和比赛信息，总览页用
func (s *PredictionStore) ListAll() ([]database.PredictionRow, error) {
	query := `
		SELECT p.id, p.match_id, u.name, p.home_tip, p.away_tip, p.points,
		       m.home_team, m.away_team, m.kickoff, m.state
		FROM predictions p
		JOIN users u ON u.id = p.user_id
		JOIN matches m ON m.id = p.match_id
		ORDER BY m.kickoff ASC, u.name ASC
	`

	rows, err := s.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to list predictions: %w", err)
	}
	defer rows.Close()

	predictions := []database.PredictionRow{}
	for rows.Next() {
		var p database.PredictionRow
		if err := rows.Scan(
			&p.ID, &p.MatchID, &p.UserName, &p.HomeTip, &p.AwayTip, &p.Points,
			&p.HomeTeam, &p.AwayTeam, &p.Kickoff, &p.State,
		); err != nil {
			return nil, fmt.Errorf("failed to scan prediction: %w", err)
		}
		predictions = append(predictions, p)
	}

	return predictions, rows.Err()
}

// Standings 排行榜：tipper 按总积分降序，同分按名字升序
func (s *PredictionStore) Standings() ([]database.StandingsEntry, error) {
	query := `
		SELECT u.name, COALESCE(SUM(p.points), 0) AS points
		FROM users u
		LEFT JOIN predictions p ON p.user_id = u.id
		WHERE u.role = 'tipper'
		GROUP BY u.id
		ORDER BY points DESC, u.name ASC
	`

	rows, err := s.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to query standings: %w", err)
	}
	defer rows.Close()

	standings := []database.StandingsEntry{}
	for rows.Next() {
		var e database.StandingsEntry
		if err := rows.Scan(&e.Name, &e.Points); err != nil {
			return nil, fmt.Errorf("failed to scan standings row: %w", err)
		}
		standings = append(standings, e)
	}

	return standings, rows.Err()
}
