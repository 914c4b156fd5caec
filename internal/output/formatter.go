package output

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	gazette "github.com/rcolvin/gazette"
)

type Format string

const (
	FormatJSON  Format = "json"
	FormatText  Format = "text"
	FormatHuman Format = "human"
)

type Formatter struct {
	format Format
	out    io.Writer
	err    io.Writer
}

// NewFormatter creates a new output formatter
func NewFormatter(format Format) *Formatter {
	return &Formatter{
		format: format,
		out:    os.Stdout,
		err:    os.Stderr,
	}
}

// NewFormatterWithWriters creates a formatter with custom output writers for testability
func NewFormatterWithWriters(format Format, out, errW io.Writer) *Formatter {
	return &Formatter{
		format: format,
		out:    out,
		err:    errW,
	}
}

// OutputIngestResult outputs the result of an ingest run in the configured format
func (f *Formatter) OutputIngestResult(result *gazette.IngestResult) error {
	switch f.format {
	case FormatJSON:
		return json.NewEncoder(f.out).Encode(result)
	case FormatText:
		fmt.Fprintf(f.out, "fetched=%d\n", result.Fetched)
		fmt.Fprintf(f.out, "stored=%d\n", result.Stored)
		fmt.Fprintf(f.out, "deduped=%d\n", result.Deduped)
		fmt.Fprintf(f.out, "summarized=%d\n", result.Summarized)
		fmt.Fprintf(f.out, "clustered=%d\n", result.Clustered)
		fmt.Fprintf(f.out, "errors=%d\n", len(result.Errors))
		return nil
	case FormatHuman:
		fmt.Fprintf(f.out, "Fetched %d articles, stored %d new\n", result.Fetched, result.Stored)
		if result.Deduped > 0 {
			fmt.Fprintf(f.out, "Skipped %d duplicates\n", result.Deduped)
		}
		if result.Clustered > 0 {
			fmt.Fprintf(f.out, "Assigned %d articles to topics\n", result.Clustered)
		}
		for _, e := range result.Errors {
			fmt.Fprintf(f.out, "⚠️  %s\n", e)
		}
		return nil
	}
	return fmt.Errorf("unknown format: %s", f.format)
}

// OutputArticlePage outputs one page of query results
func (f *Formatter) OutputArticlePage(page *gazette.QueryResult) error {
	switch f.format {
	case FormatJSON:
		return json.NewEncoder(f.out).Encode(page)
	case FormatText:
		for _, a := range page.Articles {
			fmt.Fprintf(f.out, "id=%s\ttitle=%s\tsource=%s\tpublished=%s\n",
				a.ID, a.Title, a.Source, a.Published.Format(time.RFC3339))
		}
		return nil
	case FormatHuman:
		if page.Total == 0 {
			fmt.Fprintln(f.out, "No articles")
			return nil
		}
		fmt.Fprintf(f.out, "Articles (page %d of %d, %d total):\n\n", page.Page, page.TotalPages, page.Total)
		for _, a := range page.Articles {
			fmt.Fprintf(f.out, "ID: %s\n", a.ID)
			fmt.Fprintf(f.out, "Title: %s\n", a.Title)
			fmt.Fprintf(f.out, "Source: %s\n", a.Source)
			fmt.Fprintf(f.out, "Published: %s\n", a.Published.Format("2006-01-02 15:04"))
			if a.Summary != "" {
				fmt.Fprintf(f.out, "Summary: %s\n", truncate(a.Summary, 200))
			}
			fmt.Fprintln(f.out, "---")
		}
		return nil
	}
	return fmt.Errorf("unknown format: %s", f.format)
}

// OutputArticle outputs a single article with its full content
func (f *Formatter) OutputArticle(a *gazette.Article) error {
	switch f.format {
	case FormatJSON:
		return json.NewEncoder(f.out).Encode(a)
	case FormatText:
		fmt.Fprintf(f.out, "id=%s\ttitle=%s\tsource=%s\turl=%s\n", a.ID, a.Title, a.Source, a.URL)
		fmt.Fprintln(f.out, a.Content)
		return nil
	case FormatHuman:
		fmt.Fprintf(f.out, "📰 %s\n", a.Title)
		fmt.Fprintln(f.out, strings.Repeat("=", 70))
		fmt.Fprintf(f.out, "Source: %s", a.Source)
		if a.Author != "" {
			fmt.Fprintf(f.out, " — %s", a.Author)
		}
		fmt.Fprintln(f.out)
		fmt.Fprintf(f.out, "Published: %s\n", a.Published.Format("2006-01-02 15:04"))
		fmt.Fprintf(f.out, "URL: %s\n\n", a.URL)
		fmt.Fprintln(f.out, a.Content)
		return nil
	}
	return fmt.Errorf("unknown format: %s", f.format)
}

// OutputClusters outputs the topic list with article counts
func (f *Formatter) OutputClusters(clusters []gazette.ClusterInfo) error {
	switch f.format {
	case FormatJSON:
		return json.NewEncoder(f.out).Encode(clusters)
	case FormatText:
		for _, c := range clusters {
			fmt.Fprintf(f.out, "id=%d\tlabel=%s\tarticles=%d\n", c.ID, c.Label, c.ArticleCount)
		}
		return nil
	case FormatHuman:
		fmt.Fprintln(f.out, "Topics:")
		for _, c := range clusters {
			fmt.Fprintf(f.out, "  %d. %s (%d articles)\n", c.ID, c.Label, c.ArticleCount)
		}
		return nil
	}
	return fmt.Errorf("unknown format: %s", f.format)
}

// OutputStats outputs pipeline statistics
func (f *Formatter) OutputStats(stats *gazette.Stats) error {
	switch f.format {
	case FormatJSON:
		return json.NewEncoder(f.out).Encode(stats)
	case FormatText:
		fmt.Fprintf(f.out, "articles=%d\n", stats.TotalArticles)
		fmt.Fprintf(f.out, "clusters=%d\n", stats.TotalClusters)
		fmt.Fprintf(f.out, "cache_entries=%d\n", stats.CacheEntries)
		fmt.Fprintf(f.out, "sources=%s\n", strings.Join(stats.Sources, ","))
		return nil
	case FormatHuman:
		fmt.Fprintf(f.out, "Articles: %d\n", stats.TotalArticles)
		fmt.Fprintf(f.out, "Populated topics: %d\n", stats.TotalClusters)
		fmt.Fprintf(f.out, "Cache entries: %d\n", stats.CacheEntries)
		if len(stats.Sources) > 0 {
			fmt.Fprintf(f.out, "Sources: %s\n", strings.Join(stats.Sources, ", "))
		}
		return nil
	}
	return fmt.Errorf("unknown format: %s", f.format)
}

// Error outputs an error message to stderr
func (f *Formatter) Error(format string, args ...interface{}) {
	fmt.Fprintf(f.err, format+"\n", args...)
}

// Warning outputs a warning message to stderr
func (f *Formatter) Warning(format string, args ...interface{}) {
	fmt.Fprintf(f.err, "Warning: "+format+"\n", args...)
}

// truncate truncates a string to maxLen characters
func truncate(s string, maxLen int) string {
	s = strings.TrimSpace(s)
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen] + "..."
}
