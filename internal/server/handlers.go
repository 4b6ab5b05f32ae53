package server

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/hyperjump/fakenews/internal/models"
	"github.com/hyperjump/fakenews/pkg/utils"
)

const maxRequestBytes = 4 << 20

// PredictRequest is the body of POST /api/v1/predict.
type PredictRequest struct {
	Text string `json:"text"`
	TopN int    `json:"top_n,omitempty"`
}

// ModelInfo describes the loaded artifacts.
type ModelInfo struct {
	RunID          string          `json:"run_id"`
	TrainedAt      time.Time       `json:"trained_at"`
	Classes        [2]models.Label `json:"classes"`
	VocabularySize int             `json:"vocabulary_size"`
	Rows           int             `json:"rows"`
}

func (s *Server) handlePredict(w http.ResponseWriter, r *http.Request) {
	var req PredictRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxRequestBytes)).Decode(&req); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if strings.TrimSpace(req.Text) == "" {
		s.respondError(w, http.StatusBadRequest, "text is required")
		return
	}
	if req.TopN < 0 {
		s.respondError(w, http.StatusBadRequest, "top_n must not be negative")
		return
	}
	topN := req.TopN
	if topN == 0 {
		topN = s.topN
	}
	pred, err := s.predictor.PredictWithExplanation(req.Text, topN)
	if err != nil {
		s.logger.Error("prediction failed", zap.Error(err))
		s.respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	pred.ID = s.newID()
	s.logger.Debug("predict request",
		zap.String("id", pred.ID),
		zap.String("text", utils.Truncate(req.Text, 80)),
		zap.String("label", pred.Label.String()))
	s.respondJSON(w, http.StatusOK, pred)
}

func (s *Server) handleModel(w http.ResponseWriter, r *http.Request) {
	meta := s.predictor.Meta()
	s.respondJSON(w, http.StatusOK, ModelInfo{
		RunID:          meta.RunID,
		TrainedAt:      meta.TrainedAt,
		Classes:        s.predictor.Classes(),
		VocabularySize: s.predictor.VocabularySize(),
		Rows:           meta.Rows,
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func (s *Server) respondError(w http.ResponseWriter, status int, message string) {
	s.respondJSON(w, status, map[string]string{"error": message})
}
