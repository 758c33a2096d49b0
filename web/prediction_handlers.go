package web

import (
	"errors"
	"net/http"
	"time"

	"tippspiel-service/logger"
	"tippspiel-service/services"
)

// handleSubmitPrediction 提交或覆盖预测。
// 闸门检查通过后走单条原子 upsert，(user, match) 最多一行。
func (s *Server) handleSubmitPrediction(w http.ResponseWriter, r *http.Request) {
	identity := identityFrom(r)

	var req struct {
		MatchID int64 `json:"match_id"`
		HomeTip *int  `json:"home_tip"`
		AwayTip *int  `json:"away_tip"`
	}

	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "Invalid request body")
		return
	}

	if req.HomeTip == nil || req.AwayTip == nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "match_id, home_tip and away_tip are required")
		return
	}
	if *req.HomeTip < 0 || *req.AwayTip < 0 {
		writeError(w, http.StatusBadRequest, "invalid_request", "Tips must not be negative")
		return
	}

	match, err := s.registry.GetMatch(req.MatchID)
	if err != nil && !errors.Is(err, services.ErrMatchNotFound) {
		logger.Errorf("[API] Failed to load match %d: %v", req.MatchID, err)
		writeError(w, http.StatusInternalServerError, "storage_failure", "Failed to load match")
		return
	}

	if err := s.gate.CanSubmit(match, time.Now()); err != nil {
		switch {
		case errors.Is(err, services.ErrMatchNotFound):
			writeError(w, http.StatusNotFound, "not_found", "Match not found")
		case errors.Is(err, services.ErrSubmissionClosed):
			writeError(w, http.StatusForbidden, "submission_closed", "Match is no longer open for predictions")
		case errors.Is(err, services.ErrWindowExpired):
			writeError(w, http.StatusForbidden, "window_expired", "Kickoff time has passed")
		default:
			writeError(w, http.StatusForbidden, "invalid_state", err.Error())
		}
		return
	}

	prediction, err := s.predictions.Upsert(identity.UserID, req.MatchID, *req.HomeTip, *req.AwayTip)
	if err != nil {
		logger.Errorf("[API] Failed to upsert prediction: %v", err)
		writeError(w, http.StatusInternalServerError, "storage_failure", "Failed to save prediction")
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"prediction": prediction,
	})
}

// handleListPredictions 获取全部预测（总览页）
func (s *Server) handleListPredictions(w http.ResponseWriter, r *http.Request) {
	predictions, err := s.predictions.ListAll()
	if err != nil {
		logger.Errorf("[API] Failed to list predictions: %v", err)
		writeError(w, http.StatusInternalServerError, "storage_failure", "Failed to load predictions")
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"predictions": predictions,
	})
}
