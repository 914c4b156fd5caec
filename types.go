// Package gazette is a news article processing pipeline: it fetches
// articles, deduplicates and compresses them, summarizes their content,
// assigns them to topic clusters, and serves filtered queries from an
// in-memory store fronted by a TTL cache.
package gazette

import "time"

// RawArticle is an unprocessed article handed to the pipeline.
type RawArticle struct {
	URL       string
	Title     string
	Content   string
	Source    string
	Author    string
	Published time.Time
}

// Article is a processed article as returned by queries. Content is
// only populated by single-article lookups; list queries leave it
// empty.
type Article struct {
	ID               string    `json:"id"`
	Title            string    `json:"title"`
	Content          string    `json:"content,omitempty"`
	Summary          string    `json:"summary"`
	Source           string    `json:"source"`
	Author           string    `json:"author,omitempty"`
	URL              string    `json:"url"`
	Published        time.Time `json:"published_date"`
	Fetched          time.Time `json:"fetched_date"`
	ClusterID        *int      `json:"cluster_id,omitempty"`
	CompressionRatio float64   `json:"compression_ratio"`
}

// ClusterInfo describes one topic cluster and its current population.
type ClusterInfo struct {
	ID           int    `json:"id"`
	Label        string `json:"label"`
	ArticleCount int    `json:"article_count"`
}

// QueryFilters narrows an article query. Zero-valued fields are
// inactive; paging defaults to the first page of twenty.
type QueryFilters struct {
	Source    string
	Search    string
	From      *time.Time
	To        *time.Time
	ClusterID *int
	Page      int
	PageSize  int
}

// QueryResult is one page of matching articles plus paging metadata.
type QueryResult struct {
	Articles   []Article `json:"articles"`
	Total      int       `json:"total"`
	Page       int       `json:"page"`
	PageSize   int       `json:"page_size"`
	TotalPages int       `json:"total_pages"`
}

// IngestResult counts what happened to one batch of articles.
type IngestResult struct {
	Fetched    int      `json:"fetched"`
	Stored     int      `json:"stored"`
	Deduped    int      `json:"deduplicated_out"`
	Summarized int      `json:"summarized"`
	Clustered  int      `json:"clustered"`
	Errors     []string `json:"errors,omitempty"`
}

// Stats is a point-in-time snapshot of the pipeline's state.
type Stats struct {
	TotalArticles int      `json:"total_articles"`
	TotalClusters int      `json:"total_clusters"`
	CacheEntries  int      `json:"cache_entries"`
	Sources       []string `json:"sources"`
}

// EngineConfig configures the Gazette engine. Zero values take
// defaults.
type EngineConfig struct {
	FeedURLs        []string
	MinContentWords int
	PerFeedLimit    int
	SummaryMaxWords int
	QueryTTL        time.Duration
	ArticleTTL      time.Duration
	ClustersTTL     time.Duration
	StatsTTL        time.Duration
	Taxonomy        []TaxonomyEntry
}

// TaxonomyEntry defines one topic for the clusterer.
type TaxonomyEntry struct {
	ID       int
	Label    string
	Keywords []string
}
