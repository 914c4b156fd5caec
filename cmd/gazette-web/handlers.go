package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"strconv"
	"time"

	gazette "github.com/rcolvin/gazette"
)

// handlers holds dependencies for all HTTP handler methods.
type handlers struct {
	engine          *gazette.Engine
	ingestBatchSize int
}

// errorBody is the JSON shape of every non-2xx response.
type errorBody struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("gazette-web: encoding response: %v", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorBody{Error: msg})
}

// writeEngineError maps engine sentinels onto HTTP statuses.
func writeEngineError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, gazette.ErrInvalidFilter):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, gazette.ErrNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, gazette.ErrCorruptData):
		writeError(w, http.StatusInternalServerError, "content unavailable")
	default:
		log.Printf("gazette-web: %v", err)
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}

// filtersFromQuery builds engine filters from URL query parameters.
// Malformed numbers and dates are reported to the caller rather than
// silently dropped.
func filtersFromQuery(r *http.Request) (gazette.QueryFilters, error) {
	q := r.URL.Query()
	f := gazette.QueryFilters{
		Source: q.Get("source"),
		Search: q.Get("search"),
	}

	var err error
	if f.Page, err = intParam(q.Get("page")); err != nil {
		return f, fmt.Errorf("page: %w", err)
	}
	if f.PageSize, err = intParam(q.Get("page_size")); err != nil {
		return f, fmt.Errorf("page_size: %w", err)
	}

	if raw := q.Get("cluster_id"); raw != "" {
		cid, err := strconv.Atoi(raw)
		if err != nil {
			return f, fmt.Errorf("cluster_id: %w", err)
		}
		f.ClusterID = &cid
	}
	if raw := q.Get("from"); raw != "" {
		ts, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			return f, fmt.Errorf("from: %w", err)
		}
		f.From = &ts
	}
	if raw := q.Get("to"); raw != "" {
		ts, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			return f, fmt.Errorf("to: %w", err)
		}
		f.To = &ts
	}
	return f, nil
}

func intParam(raw string) (int, error) {
	if raw == "" {
		return 0, nil
	}
	return strconv.Atoi(raw)
}

func (h *handlers) handleArticleList(w http.ResponseWriter, r *http.Request) {
	filters, err := filtersFromQuery(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	result, err := h.engine.Query(filters)
	if err != nil {
		writeEngineError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (h *handlers) handleArticleGet(w http.ResponseWriter, r *http.Request) {
	article, err := h.engine.GetArticle(r.PathValue("articleID"))
	if err != nil {
		writeEngineError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, article)
}

func (h *handlers) handleArticleSummary(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("articleID")
	summary, err := h.engine.GetSummary(id)
	if err != nil {
		writeEngineError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{
		"article_id": id,
		"summary":    summary,
	})
}

func (h *handlers) handleClusters(w http.ResponseWriter, r *http.Request) {
	clusters, err := h.engine.Clusters()
	if err != nil {
		writeEngineError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"clusters": clusters})
}

func (h *handlers) handleClusterArticles(w http.ResponseWriter, r *http.Request) {
	clusterID, err := strconv.Atoi(r.PathValue("clusterID"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "cluster id must be an integer")
		return
	}

	page, err := intParam(r.URL.Query().Get("page"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "page must be an integer")
		return
	}
	pageSize, err := intParam(r.URL.Query().Get("page_size"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "page_size must be an integer")
		return
	}

	result, err := h.engine.ClusterArticles(clusterID, page, pageSize)
	if err != nil {
		writeEngineError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (h *handlers) handleStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.engine.Stats()
	if err != nil {
		writeEngineError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

func (h *handlers) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status": "healthy",
		"time":   time.Now().UTC().Format(time.RFC3339),
	})
}

// handleIngest triggers a fetch-and-process run. The optional count
// body field is bounded to [1, 100]; absent, the configured batch size
// applies.
func (h *handlers) handleIngest(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Count int `json:"count"`
	}
	if r.Body != nil {
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil && !errors.Is(err, io.EOF) {
			writeError(w, http.StatusBadRequest, "malformed request body")
			return
		}
	}

	count := body.Count
	if count == 0 {
		count = h.ingestBatchSize
	}
	if count < 1 || count > 100 {
		writeError(w, http.StatusBadRequest, "count must be between 1 and 100")
		return
	}

	result, err := h.engine.Ingest(r.Context(), count)
	if err != nil {
		writeEngineError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}
