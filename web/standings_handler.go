package web

import (
	"net/http"

	"tippspiel-service/logger"
)

// handleStandings 排行榜：tipper 按总积分降序，同分按名字
func (s *Server) handleStandings(w http.ResponseWriter, r *http.Request) {
	standings, err := s.predictions.Standings()
	if err != nil {
		logger.Errorf("[API] Failed to load standings: %v", err)
		writeError(w, http.StatusInternalServerError, "storage_failure", "Failed to load standings")
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"standings": standings,
	})
}
