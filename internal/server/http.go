package server

import (
	"encoding/json"
	"net/http"

	"github.com/zeusync/voxelphys/internal/core/observability/log"
)

// handleFrame returns the latest frame pushed by the scene.
func (s *Server) handleFrame(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(s.scene.Latest()); err != nil {
		s.logger.Debug("Failed to write frame", log.Error(err))
	}
}
