// Package config loads pipeline settings from a YAML file, filling in
// defaults for anything unset.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/rcolvin/gazette/internal/cluster"
)

type Config struct {
	Fetcher struct {
		FeedURLs        []string `yaml:"feed_urls"`
		MinContentWords int      `yaml:"min_content_words"`
		PerFeedLimit    int      `yaml:"per_feed_limit"`
	} `yaml:"fetcher"`

	Summarizer struct {
		MaxWords int `yaml:"max_words"`
	} `yaml:"summarizer"`

	Ingest struct {
		BatchSize int `yaml:"batch_size"`
	} `yaml:"ingest"`

	// TTLs are in seconds, matching what operators expect from cache
	// configuration elsewhere.
	Cache struct {
		QueryTTL    int `yaml:"query_ttl"`
		ArticleTTL  int `yaml:"article_ttl"`
		ClustersTTL int `yaml:"clusters_ttl"`
		StatsTTL    int `yaml:"stats_ttl"`
	} `yaml:"cache"`

	// Clusters overrides the built-in topic taxonomy when non-empty.
	Clusters []cluster.Entry `yaml:"clusters,omitempty"`
}

// DefaultConfig returns a config with sensible defaults
func DefaultConfig() *Config {
	cfg := &Config{}
	cfg.Fetcher.FeedURLs = []string{
		"https://feeds.bbci.co.uk/news/rss.xml",
		"https://rss.cnn.com/rss/edition.rss",
		"https://feeds.reuters.com/reuters/topNews",
	}
	cfg.Fetcher.MinContentWords = 100
	cfg.Fetcher.PerFeedLimit = 20
	cfg.Summarizer.MaxWords = 150
	cfg.Ingest.BatchSize = 50
	cfg.Cache.QueryTTL = 900
	cfg.Cache.ArticleTTL = 3600
	cfg.Cache.ClustersTTL = 1800
	cfg.Cache.StatsTTL = 300
	return cfg
}

// Load reads a YAML config from path, layered over DefaultConfig.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	return cfg, nil
}
