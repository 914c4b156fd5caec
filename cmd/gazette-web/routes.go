package main

import (
	"net/http"

	gazette "github.com/rcolvin/gazette"
)

// newRouter sets up all routes using Go 1.22+ enhanced routing.
func newRouter(engine *gazette.Engine, ingestBatchSize int) http.Handler {
	mux := http.NewServeMux()

	h := &handlers{engine: engine, ingestBatchSize: ingestBatchSize}

	mux.HandleFunc("GET /articles", h.handleArticleList)
	mux.HandleFunc("GET /articles/{articleID}", h.handleArticleGet)
	mux.HandleFunc("GET /articles/{articleID}/summary", h.handleArticleSummary)
	mux.HandleFunc("GET /clusters", h.handleClusters)
	mux.HandleFunc("GET /clusters/{clusterID}/articles", h.handleClusterArticles)
	mux.HandleFunc("GET /stats", h.handleStats)
	mux.HandleFunc("GET /health", h.handleHealth)
	mux.HandleFunc("POST /ingest", h.handleIngest)

	return mux
}
