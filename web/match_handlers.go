package web

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"tippspiel-service/logger"
	"tippspiel-service/services"
)

// handleListMatches 获取比赛列表，按开球时间升序
func (s *Server) handleListMatches(w http.ResponseWriter, r *http.Request) {
	matches, err := s.registry.ListMatches()
	if err != nil {
		logger.Errorf("[API] Failed to list matches: %v", err)
		writeError(w, http.StatusInternalServerError, "storage_failure", "Failed to load matches")
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"matches": matches,
	})
}

// handleCreateMatch 创建比赛，初始状态 scheduled
func (s *Server) handleCreateMatch(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Kickoff  time.Time `json:"kickoff"`
		HomeTeam string    `json:"home_team"`
		AwayTeam string    `json:"away_team"`
	}

	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "Invalid request body")
		return
	}

	if req.Kickoff.IsZero() || req.HomeTeam == "" || req.AwayTeam == "" {
		writeError(w, http.StatusBadRequest, "invalid_request", "kickoff, home_team and away_team are required")
		return
	}

	match, err := s.registry.CreateMatch(req.Kickoff, req.HomeTeam, req.AwayTeam)
	if err != nil {
		logger.Errorf("[API] Failed to create match: %v", err)
		writeError(w, http.StatusInternalServerError, "storage_failure", "Failed to create match")
		return
	}

	writeJSON(w, http.StatusCreated, map[string]interface{}{
		"match": match,
	})
}

// handleDeleteMatch 删除比赛及其全部预测
func (s *Server) handleDeleteMatch(w http.ResponseWriter, r *http.Request) {
	matchID, err := matchIDFrom(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "Invalid match id")
		return
	}

	if err := s.registry.DeleteMatch(matchID); err != nil {
		if errors.Is(err, services.ErrMatchNotFound) {
			writeError(w, http.StatusNotFound, "not_found", "Match not found")
			return
		}
		logger.Errorf("[API] Failed to delete match %d: %v", matchID, err)
		writeError(w, http.StatusInternalServerError, "storage_failure", "Failed to delete match")
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"ok": true,
		"id": matchID,
	})
}

// handleRecordResult 录入（或修正）最终比分并重算积分
func (s *Server) handleRecordResult(w http.ResponseWriter, r *http.Request) {
	matchID, err := matchIDFrom(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "Invalid match id")
		return
	}

	var req struct {
		HomeGoals *int `json:"home_goals"`
		AwayGoals *int `json:"away_goals"`
	}

	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "Invalid request body")
		return
	}

	if req.HomeGoals == nil || req.AwayGoals == nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "home_goals and away_goals are required")
		return
	}
	if *req.HomeGoals < 0 || *req.AwayGoals < 0 {
		writeError(w, http.StatusBadRequest, "invalid_request", "Goals must not be negative")
		return
	}

	recomputed, match, err := s.engine.RecordResult(matchID, *req.HomeGoals, *req.AwayGoals)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrMatchNotFound):
			writeError(w, http.StatusNotFound, "not_found", "Match not found")
		case errors.Is(err, services.ErrMatchNotStarted):
			writeError(w, http.StatusForbidden, "match_not_started", "Match has not started yet")
		default:
			logger.Errorf("[API] Scoring failed for match %d: %v", matchID, err)
			s.notifier.NotifyError("ScoringEngine", err.Error())
			writeError(w, http.StatusInternalServerError, "storage_failure", "Scoring failed, nothing was changed")
		}
		return
	}

	// 事务已提交，发布事件和通知不再影响结果
	s.publisher.PublishMatchEvent(services.EventMatchScored, map[string]interface{}{
		"match_id":   matchID,
		"home_goals": *req.HomeGoals,
		"away_goals": *req.AwayGoals,
		"recomputed": recomputed,
	})
	if err := s.notifier.NotifyMatchScored(matchID, *req.HomeGoals, *req.AwayGoals, recomputed); err != nil {
		logger.Errorf("[API] Failed to send scoring notification: %v", err)
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"message":    "Result saved, points recomputed",
		"recomputed": recomputed,
		"match":      match,
	})
}

// matchIDFrom 解析路径中的比赛 id
func matchIDFrom(r *http.Request) (int64, error) {
	vars := mux.Vars(r)
	return strconv.ParseInt(vars["id"], 10, 64)
}
