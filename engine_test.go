package gazette

import (
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"
)

func newTestEngine(t *testing.T) *Engine {
	t.Helper()
	return NewEngine(EngineConfig{})
}

func longContent(lead string) string {
	return lead + " " + strings.TrimSpace(strings.Repeat("filler ", 40))
}

func rawArticle(title, source, content string) RawArticle {
	return RawArticle{
		URL:       "https://example.com/" + strings.ReplaceAll(title, " ", "-"),
		Title:     title,
		Content:   content,
		Source:    source,
		Published: time.Date(2026, 8, 20, 9, 0, 0, 0, time.UTC),
	}
}

func TestIngestBatchCounts(t *testing.T) {
	e := newTestEngine(t)

	result := e.IngestBatch([]RawArticle{
		rawArticle("AI software rollout", "wire", longContent("New technology ships.")),
		rawArticle("Cup final tonight", "sports", longContent("The team seeks a win in the big game.")),
	})

	if result.Fetched != 2 || result.Stored != 2 {
		t.Errorf("fetched=%d stored=%d, want 2 and 2", result.Fetched, result.Stored)
	}
	if result.Summarized != 2 {
		t.Errorf("summarized=%d, want 2", result.Summarized)
	}
	if result.Clustered != 2 {
		t.Errorf("clustered=%d, want 2", result.Clustered)
	}
	if result.Deduped != 0 || len(result.Errors) != 0 {
		t.Errorf("deduped=%d errors=%v", result.Deduped, result.Errors)
	}
}

func TestIngestBatchDeduplicates(t *testing.T) {
	e := newTestEngine(t)
	content := longContent("The council met on Tuesday.")

	first := e.IngestBatch([]RawArticle{rawArticle("Council Meets", "wire", content)})
	if first.Stored != 1 {
		t.Fatalf("stored=%d, want 1", first.Stored)
	}

	// Same story republished with different casing and spacing.
	second := e.IngestBatch([]RawArticle{{
		URL:       "https://mirror.example.com/council",
		Title:     "COUNCIL   meets",
		Content:   content,
		Source:    "mirror",
		Published: time.Now(),
	}})
	if second.Stored != 0 {
		t.Errorf("stored=%d, want 0 for duplicate", second.Stored)
	}
	if second.Deduped != 1 {
		t.Errorf("deduped=%d, want 1", second.Deduped)
	}

	stats, err := e.Stats()
	if err != nil {
		t.Fatalf("Stats failed: %v", err)
	}
	if stats.TotalArticles != 1 {
		t.Errorf("total articles=%d, want 1", stats.TotalArticles)
	}
}

func TestIngestBatchDeduplicatesWithinBatch(t *testing.T) {
	e := newTestEngine(t)
	content := longContent("Identical body in one batch.")

	result := e.IngestBatch([]RawArticle{
		rawArticle("Same Story", "wire", content),
		rawArticle("same story", "other-wire", content),
	})
	if result.Stored != 1 || result.Deduped != 1 {
		t.Errorf("stored=%d deduped=%d, want 1 and 1", result.Stored, result.Deduped)
	}
}

func TestIngestBatchEmptyContent(t *testing.T) {
	e := newTestEngine(t)

	result := e.IngestBatch([]RawArticle{
		rawArticle("Blank", "wire", "   "),
		rawArticle("Fine", "wire", longContent("Something happened.")),
	})
	if result.Stored != 1 {
		t.Errorf("stored=%d, want 1", result.Stored)
	}
	if len(result.Errors) != 1 || !strings.Contains(result.Errors[0], "empty content") {
		t.Errorf("errors=%v", result.Errors)
	}
}

func TestIngestLeavesUnmatchedArticlesUnclustered(t *testing.T) {
	e := newTestEngine(t)

	result := e.IngestBatch([]RawArticle{
		rawArticle("Bake sale draws crowd", "local", longContent("Cookies and pies sold briskly.")),
	})
	if result.Stored != 1 {
		t.Fatalf("stored=%d, want 1", result.Stored)
	}
	if result.Clustered != 0 {
		t.Errorf("clustered=%d, want 0", result.Clustered)
	}

	page, err := e.Query(QueryFilters{})
	if err != nil {
		t.Fatalf("Query failed: %v", err)
	}
	if page.Articles[0].ClusterID != nil {
		t.Errorf("cluster id=%v, want nil", page.Articles[0].ClusterID)
	}
}

func TestQueryPaginationMetadata(t *testing.T) {
	e := newTestEngine(t)

	batch := make([]RawArticle, 25)
	for i := range batch {
		a := rawArticle(fmt.Sprintf("Story %02d", i), "wire", longContent(fmt.Sprintf("Unique body %d.", i)))
		a.Published = a.Published.Add(time.Duration(i) * time.Minute)
		batch[i] = a
	}
	if got := e.IngestBatch(batch); got.Stored != 25 {
		t.Fatalf("stored=%d, want 25", got.Stored)
	}

	page, err := e.Query(QueryFilters{Page: 3, PageSize: 10})
	if err != nil {
		t.Fatalf("Query failed: %v", err)
	}
	if page.Total != 25 || page.TotalPages != 3 {
		t.Errorf("total=%d totalPages=%d, want 25 and 3", page.Total, page.TotalPages)
	}
	if len(page.Articles) != 5 {
		t.Errorf("page len=%d, want 5", len(page.Articles))
	}
	if page.Articles[0].Content != "" {
		t.Error("list queries must not expand content")
	}
}

func TestQueryInvalidFilters(t *testing.T) {
	e := newTestEngine(t)

	if _, err := e.Query(QueryFilters{PageSize: 500}); !errors.Is(err, ErrInvalidFilter) {
		t.Errorf("expected ErrInvalidFilter, got %v", err)
	}
}

func TestQueryCacheInvalidatedByIngest(t *testing.T) {
	e := newTestEngine(t)
	e.IngestBatch([]RawArticle{rawArticle("First", "wire", longContent("Body one."))})

	before, err := e.Query(QueryFilters{})
	if err != nil {
		t.Fatalf("Query failed: %v", err)
	}
	if before.Total != 1 {
		t.Fatalf("total=%d, want 1", before.Total)
	}

	e.IngestBatch([]RawArticle{rawArticle("Second", "wire", longContent("Body two."))})

	after, err := e.Query(QueryFilters{})
	if err != nil {
		t.Fatalf("Query failed: %v", err)
	}
	if after.Total != 2 {
		t.Errorf("total=%d after ingest, want 2 (stale cache?)", after.Total)
	}
}

func TestGetArticleExpandsContent(t *testing.T) {
	e := newTestEngine(t)
	content := longContent("Full body restored on lookup.")
	e.IngestBatch([]RawArticle{rawArticle("Lookup", "wire", content)})

	page, err := e.Query(QueryFilters{})
	if err != nil {
		t.Fatalf("Query failed: %v", err)
	}
	id := page.Articles[0].ID

	a, err := e.GetArticle(id)
	if err != nil {
		t.Fatalf("GetArticle failed: %v", err)
	}
	if a.Content != content {
		t.Error("content did not round-trip through storage")
	}
	if a.CompressionRatio <= 0 {
		t.Errorf("compression ratio = %f", a.CompressionRatio)
	}
}

func TestGetArticleNotFound(t *testing.T) {
	e := newTestEngine(t)
	if _, err := e.GetArticle("no-such-id"); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestGetSummaryTrimsAtSentence(t *testing.T) {
	e := NewEngine(EngineConfig{SummaryMaxWords: 10})
	content := "The markets rallied sharply today. Analysts were surprised by the move and its size across sectors. " +
		strings.TrimSpace(strings.Repeat("filler ", 100))
	e.IngestBatch([]RawArticle{rawArticle("Markets", "wire", content)})

	page, err := e.Query(QueryFilters{})
	if err != nil {
		t.Fatalf("Query failed: %v", err)
	}

	summary, err := e.GetSummary(page.Articles[0].ID)
	if err != nil {
		t.Fatalf("GetSummary failed: %v", err)
	}
	if summary != "The markets rallied sharply today." {
		t.Errorf("summary = %q", summary)
	}
}

func TestClustersIncludeEmptyTopics(t *testing.T) {
	e := newTestEngine(t)
	e.IngestBatch([]RawArticle{
		rawArticle("AI software update", "wire", longContent("The technology shipped.")),
	})

	clusters, err := e.Clusters()
	if err != nil {
		t.Fatalf("Clusters failed: %v", err)
	}
	if len(clusters) != 7 {
		t.Fatalf("expected 7 topics, got %d", len(clusters))
	}

	counts := make(map[int]int)
	for _, c := range clusters {
		counts[c.ID] = c.ArticleCount
	}
	if counts[1] != 1 {
		t.Errorf("Technology & AI count = %d, want 1", counts[1])
	}
	for id, n := range counts {
		if id != 1 && n != 0 {
			t.Errorf("topic %d count = %d, want 0", id, n)
		}
	}
}

func TestClusterArticles(t *testing.T) {
	e := newTestEngine(t)
	e.IngestBatch([]RawArticle{
		rawArticle("Election results", "wire", longContent("Votes were counted overnight.")),
	})

	page, err := e.ClusterArticles(3, 1, 10)
	if err != nil {
		t.Fatalf("ClusterArticles failed: %v", err)
	}
	if page.Total != 1 {
		t.Errorf("total=%d, want 1", page.Total)
	}

	if _, err := e.ClusterArticles(99, 1, 10); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound for unknown cluster, got %v", err)
	}
}

func TestStats(t *testing.T) {
	e := newTestEngine(t)
	e.IngestBatch([]RawArticle{
		rawArticle("AI update", "tech-wire", longContent("The software shipped.")),
		rawArticle("Election night", "politics-desk", longContent("Votes were counted.")),
	})

	stats, err := e.Stats()
	if err != nil {
		t.Fatalf("Stats failed: %v", err)
	}
	if stats.TotalArticles != 2 {
		t.Errorf("total articles=%d, want 2", stats.TotalArticles)
	}
	if stats.TotalClusters != 2 {
		t.Errorf("total clusters=%d, want 2 populated topics", stats.TotalClusters)
	}
	if len(stats.Sources) != 2 {
		t.Errorf("sources=%v", stats.Sources)
	}
}
