package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/dexusno/NorTrans/internal/logging"
	"github.com/dexusno/NorTrans/internal/pipeline"
	"github.com/dexusno/NorTrans/internal/queue"
	"github.com/dexusno/NorTrans/internal/srt"
	"github.com/dexusno/NorTrans/internal/translate"
)

type errorResponse struct {
	Error string `json:"error"`
	Kind  string `json:"kind"`
	Block int    `json:"block,omitempty"`
}

type statusResponse struct {
	Running     bool                 `json:"running"`
	PID         int                  `json:"pid"`
	StartedAt   time.Time            `json:"started_at"`
	Mode        string               `json:"mode"`
	Bind        string               `json:"bind"`
	QueueDBPath string               `json:"queue_db_path,omitempty"`
	Jobs        *queue.HealthSummary `json:"jobs,omitempty"`
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		s.logger.Error("failed to encode response", logging.Error(err))
	}
}

func (s *Server) writeError(w http.ResponseWriter, status int, kind, message string) {
	s.writeJSON(w, status, errorResponse{Error: message, Kind: kind})
}

// writeTranslationError maps a pipeline or backend failure onto the
// HTTP contract: parse problems are the client's fault, a missing
// offline model without fallback means the service cannot serve the
// pair, and anything the backend could not do is a bad gateway.
func (s *Server) writeTranslationError(w http.ResponseWriter, err error) {
	var parseErr *srt.ParseError
	if errors.As(err, &parseErr) {
		s.writeJSON(w, http.StatusUnprocessableEntity, errorResponse{
			Error: parseErr.Error(),
			Kind:  "parse",
			Block: parseErr.Block,
		})
		return
	}

	switch pipeline.ErrorKindOf(err) {
	case pipeline.KindUnsupportedPair:
		s.writeError(w, http.StatusBadRequest, "unsupported-language-pair", err.Error())
		return
	}

	if translate.IsModelMissing(err) {
		s.writeError(w, http.StatusServiceUnavailable, "model-missing", err.Error())
		return
	}
	var backendErr *translate.BackendError
	if errors.As(err, &backendErr) {
		s.writeError(w, http.StatusBadGateway, "backend-unavailable", err.Error())
		return
	}
	s.writeError(w, http.StatusInternalServerError, "internal", err.Error())
}
