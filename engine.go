package gazette

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/rcolvin/gazette/internal/cache"
	"github.com/rcolvin/gazette/internal/cluster"
	"github.com/rcolvin/gazette/internal/compress"
	"github.com/rcolvin/gazette/internal/feeds"
	"github.com/rcolvin/gazette/internal/store"
	"github.com/rcolvin/gazette/internal/summarize"
)

// Engine is the public API for the gazette pipeline. It wraps the
// internal fetcher, store, summarizer, classifier, and cache.
type Engine struct {
	store      *store.Store
	cache      *cache.Cache[any]
	summarizer *summarize.Summarizer
	classifier *cluster.Classifier
	fetcher    *feeds.Fetcher

	queryTTL    time.Duration
	articleTTL  time.Duration
	clustersTTL time.Duration
	statsTTL    time.Duration
}

// NewEngine creates a gazette engine. Zero-valued config fields take
// defaults, so EngineConfig{} yields a working engine with the built-in
// taxonomy and no feeds.
func NewEngine(cfg EngineConfig) *Engine {
	if cfg.QueryTTL == 0 {
		cfg.QueryTTL = 15 * time.Minute
	}
	if cfg.ArticleTTL == 0 {
		cfg.ArticleTTL = time.Hour
	}
	if cfg.ClustersTTL == 0 {
		cfg.ClustersTTL = 30 * time.Minute
	}
	if cfg.StatsTTL == 0 {
		cfg.StatsTTL = 5 * time.Minute
	}

	var taxonomy []cluster.Entry
	for _, e := range cfg.Taxonomy {
		taxonomy = append(taxonomy, cluster.Entry{ID: e.ID, Label: e.Label, Keywords: e.Keywords})
	}

	return &Engine{
		store:       store.New(),
		cache:       cache.New[any](),
		summarizer:  summarize.New(cfg.SummaryMaxWords),
		classifier:  cluster.NewClassifier(taxonomy),
		fetcher:     feeds.NewFetcher(cfg.FeedURLs, cfg.MinContentWords, cfg.PerFeedLimit),
		queryTTL:    cfg.QueryTTL,
		articleTTL:  cfg.ArticleTTL,
		clustersTTL: cfg.ClustersTTL,
		statsTTL:    cfg.StatsTTL,
	}
}

// Ingest fetches up to count articles from the configured feeds and
// runs them through the pipeline. Feed failures are reported in the
// result's Errors, not returned.
func (e *Engine) Ingest(ctx context.Context, count int) (*IngestResult, error) {
	raw, problems := e.fetcher.FetchArticles(ctx, count)

	batch := make([]RawArticle, len(raw))
	for i, r := range raw {
		batch[i] = RawArticle{
			URL:       r.URL,
			Title:     r.Title,
			Content:   r.Content,
			Source:    r.Source,
			Author:    r.Author,
			Published: r.Published,
		}
	}

	result := e.IngestBatch(batch)
	result.Errors = append(problems, result.Errors...)
	return result, nil
}

// IngestBatch runs the processing pipeline over a batch of raw
// articles: dedup, compress, store, summarize, cluster. A failing
// article is counted in Errors and skipped; the rest of the batch
// continues. Any stored article invalidates the whole cache.
func (e *Engine) IngestBatch(batch []RawArticle) *IngestResult {
	result := &IngestResult{Fetched: len(batch)}
	seen := make(map[string]bool, len(batch))

	for _, raw := range batch {
		if strings.TrimSpace(raw.Content) == "" {
			result.Errors = append(result.Errors, fmt.Sprintf("article %q: empty content", raw.Title))
			continue
		}

		hash := store.ContentHash(raw.Title, raw.Content)
		if seen[hash] {
			result.Deduped++
			continue
		}
		seen[hash] = true

		comp, err := compress.Compress(raw.Content)
		if err != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("article %q: %v", raw.Title, err))
			continue
		}

		id, err := e.store.Insert(store.Article{
			ContentHash: hash,
			Title:       raw.Title,
			Blob:        comp.Blob,
			Compressed:  comp.Compressed,
			Ratio:       comp.Ratio,
			Source:      raw.Source,
			Author:      raw.Author,
			URL:         raw.URL,
			Published:   raw.Published,
			Fetched:     time.Now().UTC(),
		})
		if err != nil {
			if errors.Is(err, store.ErrDuplicateContent) {
				result.Deduped++
			} else {
				result.Errors = append(result.Errors, fmt.Sprintf("article %q: %v", raw.Title, err))
			}
			continue
		}
		result.Stored++

		summary := e.summarizer.Summarize(raw.Content)
		if err := e.store.UpdateSummary(id, summary); err != nil {
			log.Printf("gazette: summary update failed for %s: %v", id, err)
		} else {
			result.Summarized++
		}

		if clusterID, ok := e.classifier.Classify(raw.Title, raw.Content); ok {
			if err := e.store.UpdateCluster(id, clusterID); err != nil {
				log.Printf("gazette: cluster update failed for %s: %v", id, err)
			} else {
				result.Clustered++
			}
		}
	}

	if result.Stored > 0 {
		e.cache.Clear()
	}
	return result
}

// Query returns one page of articles matching the filters, newest
// first. Results are cached per filter combination.
func (e *Engine) Query(f QueryFilters) (*QueryResult, error) {
	key := queryKey(f)
	v, err := e.cache.GetOrCompute(key, e.queryTTL, func() (any, error) {
		return e.queryStore(f)
	})
	if err != nil {
		return nil, err
	}
	return v.(*QueryResult), nil
}

func (e *Engine) queryStore(f QueryFilters) (*QueryResult, error) {
	items, total, err := e.store.Query(store.QueryFilters{
		Source:    f.Source,
		Search:    f.Search,
		From:      f.From,
		To:        f.To,
		ClusterID: f.ClusterID,
		Page:      f.Page,
		PageSize:  f.PageSize,
	})
	if err != nil {
		return nil, err
	}

	page := f.Page
	if page == 0 {
		page = 1
	}
	pageSize := f.PageSize
	if pageSize == 0 {
		pageSize = store.DefaultPageSize
	}

	return &QueryResult{
		Articles:   articlesFromInternal(items),
		Total:      total,
		Page:       page,
		PageSize:   pageSize,
		TotalPages: (total + pageSize - 1) / pageSize,
	}, nil
}

// GetArticle returns a single article with its content expanded. A
// blob that fails to decompress is reported as ErrCorruptData.
func (e *Engine) GetArticle(id string) (*Article, error) {
	v, err := e.cache.GetOrCompute("article:"+id, e.articleTTL, func() (any, error) {
		internal, err := e.store.Get(id)
		if err != nil {
			return nil, err
		}
		content, err := compress.Decompress(internal.Blob, internal.Compressed)
		if err != nil {
			return nil, fmt.Errorf("article %s: %w", id, err)
		}
		a := articleFromInternal(internal)
		a.Content = content
		return &a, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*Article), nil
}

// GetSummary returns an article's summary, generating and persisting
// one from the stored content if the article has none yet.
func (e *Engine) GetSummary(id string) (string, error) {
	v, err := e.cache.GetOrCompute("summary:"+id, e.articleTTL, func() (any, error) {
		internal, err := e.store.Get(id)
		if err != nil {
			return nil, err
		}
		if internal.Summary != "" {
			return internal.Summary, nil
		}
		content, err := compress.Decompress(internal.Blob, internal.Compressed)
		if err != nil {
			return nil, fmt.Errorf("article %s: %w", id, err)
		}
		summary := e.summarizer.Summarize(content)
		if err := e.store.UpdateSummary(id, summary); err != nil {
			return nil, err
		}
		return summary, nil
	})
	if err != nil {
		return "", err
	}
	return v.(string), nil
}

// Clusters lists every taxonomy topic with its live article count,
// including empty topics.
func (e *Engine) Clusters() ([]ClusterInfo, error) {
	v, err := e.cache.GetOrCompute("clusters", e.clustersTTL, func() (any, error) {
		taxonomy := e.classifier.Taxonomy()
		infos := make([]ClusterInfo, len(taxonomy))
		for i, entry := range taxonomy {
			infos[i] = ClusterInfo{
				ID:           entry.ID,
				Label:        entry.Label,
				ArticleCount: e.store.CountByCluster(entry.ID),
			}
		}
		return infos, nil
	})
	if err != nil {
		return nil, err
	}
	return v.([]ClusterInfo), nil
}

// ClusterArticles pages through the members of one topic, newest
// first. An ID outside the taxonomy is ErrNotFound.
func (e *Engine) ClusterArticles(clusterID, page, pageSize int) (*QueryResult, error) {
	if _, ok := e.classifier.Lookup(clusterID); !ok {
		return nil, fmt.Errorf("%w: cluster %d", ErrNotFound, clusterID)
	}
	cid := clusterID
	return e.Query(QueryFilters{ClusterID: &cid, Page: page, PageSize: pageSize})
}

// Stats reports pipeline-wide counts.
func (e *Engine) Stats() (*Stats, error) {
	v, err := e.cache.GetOrCompute("stats", e.statsTTL, func() (any, error) {
		populated := 0
		for _, entry := range e.classifier.Taxonomy() {
			if e.store.CountByCluster(entry.ID) > 0 {
				populated++
			}
		}
		return &Stats{
			TotalArticles: e.store.Count(),
			TotalClusters: populated,
			CacheEntries:  e.cache.Len(),
			Sources:       e.store.Sources(),
		}, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*Stats), nil
}

// queryKey fingerprints a filter combination for the cache.
func queryKey(f QueryFilters) string {
	from, to, cid := "", "", ""
	if f.From != nil {
		from = f.From.UTC().Format(time.RFC3339)
	}
	if f.To != nil {
		to = f.To.UTC().Format(time.RFC3339)
	}
	if f.ClusterID != nil {
		cid = fmt.Sprintf("%d", *f.ClusterID)
	}
	return fmt.Sprintf("query:%s|%s|%s|%s|%s|%d|%d",
		f.Source, strings.ToLower(f.Search), from, to, cid, f.Page, f.PageSize)
}

func articleFromInternal(a store.Article) Article {
	return Article{
		ID:               a.ID,
		Title:            a.Title,
		Summary:          a.Summary,
		Source:           a.Source,
		Author:           a.Author,
		URL:              a.URL,
		Published:        a.Published,
		Fetched:          a.Fetched,
		ClusterID:        a.ClusterID,
		CompressionRatio: a.Ratio,
	}
}

func articlesFromInternal(items []store.Article) []Article {
	out := make([]Article, len(items))
	for i, a := range items {
		out[i] = articleFromInternal(a)
	}
	return out
}
