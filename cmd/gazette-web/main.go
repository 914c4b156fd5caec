package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	gazette "github.com/rcolvin/gazette"
	"github.com/rcolvin/gazette/internal/config"
)

func main() {
	configPath := flag.String("config", "", "path to YAML config (defaults apply when empty)")
	addr := flag.String("addr", ":8080", "listen address")
	flag.Parse()

	cfg := config.DefaultConfig()
	if *configPath != "" {
		loaded, err := config.Load(*configPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "gazette-web: %v\n", err)
			os.Exit(1)
		}
		cfg = loaded
	}

	engine := gazette.NewEngine(engineConfig(cfg))

	mux := newRouter(engine, cfg.Ingest.BatchSize)

	srv := &http.Server{
		Addr:         *addr,
		Handler:      logging(recovery(mux)),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown on SIGINT/SIGTERM
	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGTERM)

	go func() {
		log.Printf("gazette-web: listening on %s", *addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("gazette-web: %v", err)
		}
	}()

	<-done
	log.Println("gazette-web: shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("gazette-web: shutdown error: %v", err)
	}
	log.Println("gazette-web: stopped")
}

// engineConfig maps file-level settings onto the engine.
func engineConfig(cfg *config.Config) gazette.EngineConfig {
	ec := gazette.EngineConfig{
		FeedURLs:        cfg.Fetcher.FeedURLs,
		MinContentWords: cfg.Fetcher.MinContentWords,
		PerFeedLimit:    cfg.Fetcher.PerFeedLimit,
		SummaryMaxWords: cfg.Summarizer.MaxWords,
		QueryTTL:        time.Duration(cfg.Cache.QueryTTL) * time.Second,
		ArticleTTL:      time.Duration(cfg.Cache.ArticleTTL) * time.Second,
		ClustersTTL:     time.Duration(cfg.Cache.ClustersTTL) * time.Second,
		StatsTTL:        time.Duration(cfg.Cache.StatsTTL) * time.Second,
	}
	for _, c := range cfg.Clusters {
		ec.Taxonomy = append(ec.Taxonomy, gazette.TaxonomyEntry{
			ID:       c.ID,
			Label:    c.Label,
			Keywords: c.Keywords,
		})
	}
	return ec
}
