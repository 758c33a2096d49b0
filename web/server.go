package web

import (
	"context"
	"database/sql"
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/rs/cors"

	"tippspiel-service/auth"
	"tippspiel-service/config"
	"tippspiel-service/database"
	"tippspiel-service/logger"
	"tippspiel-service/services"
)

type Server struct {
	config        *config.Config
	db            *sql.DB
	authenticator auth.Authenticator
	registry      *services.MatchRegistry
	predictions   *services.PredictionStore
	gate          *services.SubmissionGate
	engine        *services.ScoringEngine
	publisher     *services.EventPublisher
	notifier      *services.WebhookNotifier
	httpServer    *http.Server
}

func NewServer(cfg *config.Config, db *sql.DB, authenticator auth.Authenticator, publisher *services.EventPublisher, notifier *services.WebhookNotifier) *Server {
	return &Server{
		config:        cfg,
		db:            db,
		authenticator: authenticator,
		registry:      services.NewMatchRegistry(db),
		predictions:   services.NewPredictionStore(db),
		gate:          services.NewSubmissionGate(),
		engine:        services.NewScoringEngine(db),
		publisher:     publisher,
		notifier:      notifier,
	}
}

func (s *Server) Start() error {
	s.httpServer = &http.Server{
		Addr:         ":" + s.config.Port,
		Handler:      s.handler(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return s.httpServer.ListenAndServe()
}

// handler 组装路由和中间件
func (s *Server) handler() http.Handler {
	router := mux.NewRouter()

	// API路由
	api := router.PathPrefix("/api").Subrouter()
	api.HandleFunc("/health", s.handleHealth).Methods("GET")

	api.HandleFunc("/matches", s.requireUser(s.handleListMatches)).Methods("GET")
	api.HandleFunc("/matches", s.requireRole(database.RoleAdmin, s.handleCreateMatch)).Methods("POST")
	api.HandleFunc("/matches/{id}", s.requireRole(database.RoleAdmin, s.handleDeleteMatch)).Methods("DELETE")
	api.HandleFunc("/matches/{id}/result", s.requireRole(database.RoleAdmin, s.handleRecordResult)).Methods("PATCH")

	api.HandleFunc("/predictions", s.requireRole(database.RoleTipper, s.handleSubmitPrediction)).Methods("POST")
	api.HandleFunc("/predictions", s.requireUser(s.handleListPredictions)).Methods("GET")

	api.HandleFunc("/standings", s.requireUser(s.handleStandings)).Methods("GET")

	// 静态文件
	router.PathPrefix("/").Handler(http.FileServer(http.Dir("./public")))

	// CORS配置
	c := cors.New(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"*"},
		AllowCredentials: true,
	})

	return c.Handler(router)
}

func (s *Server) Stop() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := s.httpServer.Shutdown(ctx); err != nil {
		logger.Errorf("Server shutdown error: %v", err)
	}
}

// handleHealth 健康检查
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"status": "ok",
		"time":   time.Now().Unix(),
	})
}

// decodeJSON 解析请求体
func decodeJSON(r *http.Request, dst interface{}) error {
	defer r.Body.Close()
	return json.NewDecoder(r.Body).Decode(dst)
}

// writeJSON 输出 JSON 响应
func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(payload)
}

// writeError 输出错误响应：机器可读的 reason + 人类可读的 message
func writeError(w http.ResponseWriter, status int, reason, message string) {
	writeJSON(w, status, map[string]interface{}{
		"error":   reason,
		"message": message,
	})
}
