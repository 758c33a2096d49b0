package database

import (
	"database/sql"
	"fmt"

	_ "github.com/lib/pq"
)

// Connect 连接到数据库
func Connect(databaseURL string) (*sql.DB, error) {
	db, err := sql.Open("postgres", databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// 测试连接
	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	// 设置连接池
	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)

	return db, nil
}

// Migrate 运行数据库迁移
func Migrate(db *sql.DB) error {
	migrations := []string{
		// 用户表（凭证校验和发放在外部系统，这里只保存身份和角色）
		`CREATE TABLE IF NOT EXISTS users (
			id BIGSERIAL PRIMARY KEY,
			name VARCHAR(100) UNIQUE NOT NULL,
			role VARCHAR(20) NOT NULL DEFAULT 'tipper',
			api_token VARCHAR(100) UNIQUE,
			created_at TIMESTAMPTZ DEFAULT CURRENT_TIMESTAMP
		)`,
		`CREATE INDEX IF NOT EXISTS idx_users_api_token ON users(api_token)`,

		// 比赛表
		`CREATE TABLE IF NOT EXISTS matches (
			id BIGSERIAL PRIMARY KEY,
			kickoff TIMESTAMPTZ NOT NULL,
			home_team VARCHAR(100) NOT NULL,
			away_team VARCHAR(100) NOT NULL,
			home_goals INTEGER,
			away_goals INTEGER,
			state VARCHAR(20) NOT NULL DEFAULT 'scheduled',
			created_at TIMESTAMPTZ DEFAULT CURRENT_TIMESTAMP,
			updated_at TIMESTAMPTZ DEFAULT CURRENT_TIMESTAMP
		)`,
		`CREATE INDEX IF NOT EXISTS idx_matches_state ON matches(state)`,
		`CREATE INDEX IF NOT EXISTS idx_matches_kickoff ON matches(kickoff)`,

		// 预测表：每个用户对每场比赛最多一条记录
		`CREATE TABLE IF NOT EXISTS predictions (
			id BIGSERIAL PRIMARY KEY,
			user_id BIGINT NOT NULL REFERENCES users(id),
			match_id BIGINT NOT NULL REFERENCES matches(id),
			home_tip INTEGER NOT NULL,
			away_tip INTEGER NOT NULL,
			points INTEGER,
			updated_at TIMESTAMPTZ DEFAULT CURRENT_TIMESTAMP,
			UNIQUE (user_id, match_id)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_predictions_match_id ON predictions(match_id)`,
		`CREATE INDEX IF NOT EXISTS idx_predictions_user_id ON predictions(user_id)`,
	}

	for _, migration := range migrations {
		if _, err := db.Exec(migration); err != nil {
			return fmt.Errorf("migration failed: %w", err)
		}
	}

	return nil
}
