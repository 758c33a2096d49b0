package auth

import (
	"database/sql"
	"fmt"
	"net/http"
)

// TokenStore 用 users 表里的 api_token 做身份解析。
// token 由外部系统签发写入，这里只做查表。
type TokenStore struct {
	db *sql.DB
}

// NewTokenStore 创建 token 身份解析器
func NewTokenStore(db *sql.DB) *TokenStore {
	return &TokenStore{db: db}
}

// Authenticate 把 bearer token 解析为用户身份
func (s *TokenStore) Authenticate(r *http.Request) (*Identity, error) {
	token := BearerToken(r)
	if token == "" {
		return nil, ErrUnauthenticated
	}

	var identity Identity
	err := s.db.QueryRow(`
		SELECT id, name, role
		FROM users
		WHERE api_token = $1
	`, token).Scan(&identity.UserID, &identity.Name, &identity.Role)
	if err == sql.ErrNoRows {
		return nil, ErrUnauthenticated
	}
	if err != nil {
		return nil, fmt.Errorf("failed to look up token: %w", err)
	}

	return &identity, nil
}
