package web

import (
	"context"
	"errors"
	"net/http"

	"tippspiel-service/auth"
	"tippspiel-service/logger"
)

type contextKey string

const identityKey contextKey = "identity"

// requireUser 要求请求携带有效身份，解析结果放进 context
func (s *Server) requireUser(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		identity, err := s.authenticator.Authenticate(r)
		if err != nil {
			if !errors.Is(err, auth.ErrUnauthenticated) {
				logger.Errorf("[Auth] Failed to authenticate request: %v", err)
				writeError(w, http.StatusInternalServerError, "storage_failure", "Authentication lookup failed")
				return
			}
			writeError(w, http.StatusUnauthorized, "unauthorized", "Login required")
			return
		}

		ctx := context.WithValue(r.Context(), identityKey, identity)
		next(w, r.WithContext(ctx))
	}
}

// requireRole 在 requireUser 基础上额外要求指定角色
func (s *Server) requireRole(role string, next http.HandlerFunc) http.HandlerFunc {
	return s.requireUser(func(w http.ResponseWriter, r *http.Request) {
		identity := identityFrom(r)
		if identity == nil || identity.Role != role {
			writeError(w, http.StatusForbidden, "forbidden", "Insufficient role")
			return
		}
		next(w, r)
	})
}

// identityFrom 从 context 取出已认证身份
func identityFrom(r *http.Request) *auth.Identity {
	identity, _ := r.Context().Value(identityKey).(*auth.Identity)
	return identity
}
