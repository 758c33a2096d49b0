package auth

import (
	"errors"
	"net/http"
	"strings"
)

// 身份解析错误
var (
	// ErrUnauthenticated 请求没有携带有效凭证
	ErrUnauthenticated = errors.New("not authenticated")
)

// Identity 已认证的调用方
type Identity struct {
	UserID int64
	Name   string
	Role   string
}

// Authenticator 把 HTTP 请求携带的凭证解析为身份。
// 凭证的签发与校验（登录、密码散列、会话管理）属于外部系统，
// 本服务只依赖这个边界接口。
type Authenticator interface {
	Authenticate(r *http.Request) (*Identity, error)
}

// BearerToken 从 Authorization 头提取 bearer token，没有则返回空串
func BearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	if header == "" {
		return ""
	}

	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}

	return strings.TrimSpace(parts[1])
}
