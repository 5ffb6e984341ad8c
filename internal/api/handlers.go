package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/newstrader/newstrader/internal/analysis"
	"github.com/newstrader/newstrader/internal/clients/kafka_client"
	"github.com/newstrader/newstrader/internal/models"
)

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleGetNews(w http.ResponseWriter, r *http.Request) {
	id, ok := newsUUID(w, r)
	if !ok {
		return
	}

	news, err := s.store.GetNewsByUUID(r.Context(), id)
	if err != nil {
		respondStoreError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, news)
}

// handleAnalyzeNews checks the item exists, enqueues one analysis job
// and answers 202. The job outcome is observed by polling the analysis
// endpoint.
func (s *Server) handleAnalyzeNews(w http.ResponseWriter, r *http.Request) {
	id, ok := newsUUID(w, r)
	if !ok {
		return
	}

	if _, err := s.store.GetNewsByUUID(r.Context(), id); err != nil {
		respondStoreError(w, err)
		return
	}

	job := models.NewsAnalysisJob{NewsUUID: id}
	if err := s.queue.Publish(kafka_client.KAFKA_TOPIC_NEWS_ANALYSIS, id, job); err != nil {
		slog.Error("[API] Failed to enqueue news analysis",
			slog.String("uuid", id),
			slog.String("error", err.Error()))
		writeJSON(w, http.StatusBadGateway, map[string]string{"detail": "failed to enqueue analysis"})
		return
	}

	writeJSON(w, http.StatusAccepted, map[string]string{
		"status": "enqueued",
		"news":   id,
	})
}

func (s *Server) handleGetNewsAnalysis(w http.ResponseWriter, r *http.Request) {
	id, ok := newsUUID(w, r)
	if !ok {
		return
	}

	result, err := s.store.GetNewsAnalysis(r.Context(), id)
	if err != nil {
		respondStoreError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, result)
}

func (s *Server) handleAnalyzeArticle(w http.ResponseWriter, r *http.Request) {
	id, ok := articleID(w, r)
	if !ok {
		return
	}

	if _, err := s.store.GetArticleByID(r.Context(), id); err != nil {
		respondStoreError(w, err)
		return
	}

	job := models.ArticleAnalysisJob{ArticleID: id}
	key := strconv.FormatInt(id, 10)
	if err := s.queue.Publish(kafka_client.KAFKA_TOPIC_ARTICLE_ANALYSIS, key, job); err != nil {
		slog.Error("[API] Failed to enqueue article analysis",
			slog.Int64("id", id),
			slog.String("error", err.Error()))
		writeJSON(w, http.StatusBadGateway, map[string]string{"detail": "failed to enqueue analysis"})
		return
	}

	writeJSON(w, http.StatusAccepted, map[string]string{
		"status":  "enqueued",
		"article": key,
	})
}

func (s *Server) handleGetArticleAnalysis(w http.ResponseWriter, r *http.Request) {
	id, ok := articleID(w, r)
	if !ok {
		return
	}

	result, err := s.store.GetArticleAnalysis(r.Context(), id)
	if err != nil {
		respondStoreError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, result)
}

func newsUUID(w http.ResponseWriter, r *http.Request) (string, bool) {
	raw := chi.URLParam(r, "uuid")
	if _, err := uuid.Parse(raw); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"detail": "invalid uuid"})
		return "", false
	}
	return raw, true
}

func articleID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"detail": "invalid article id"})
		return 0, false
	}
	return id, true
}

func respondStoreError(w http.ResponseWriter, err error) {
	if errors.Is(err, analysis.ErrNotFound) {
		writeJSON(w, http.StatusNotFound, map[string]string{"detail": "Not found"})
		return
	}
	slog.Error("[API] Store error", slog.String("error", err.Error()))
	writeJSON(w, http.StatusInternalServerError, map[string]string{"detail": "internal error"})
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		slog.Error("[API] Failed to encode response",
			slog.String("error", err.Error()))
	}
}
