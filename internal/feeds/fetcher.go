// Package feeds pulls raw articles from RSS and Atom sources, stripping
// markup and filtering out entries too thin to process.
package feeds

import (
	"context"
	"fmt"
	"html"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/microcosm-cc/bluemonday"
	"github.com/mmcdole/gofeed"
)

const (
	// DefaultMinContentWords drops stub entries whose body is shorter
	// than a usable article.
	DefaultMinContentWords = 100

	// DefaultPerFeedLimit caps how many entries one feed may contribute
	// to a single fetch.
	DefaultPerFeedLimit = 20

	feedTimeout = 30 * time.Second
	userAgent   = "Gazette/1.0"
)

// RawArticle is a fetched article before processing: plain-text fields
// with markup removed.
type RawArticle struct {
	URL       string
	Title     string
	Content   string
	Source    string
	Author    string
	Published time.Time
}

// Fetcher retrieves articles from a configured list of feed URLs.
type Fetcher struct {
	parser   *gofeed.Parser
	client   *http.Client
	policy   *bluemonday.Policy
	urls     []string
	minWords int
	perFeed  int
}

// NewFetcher builds a fetcher over the given feed URLs. Non-positive
// minWords or perFeed fall back to the package defaults.
func NewFetcher(urls []string, minWords, perFeed int) *Fetcher {
	if minWords <= 0 {
		minWords = DefaultMinContentWords
	}
	if perFeed <= 0 {
		perFeed = DefaultPerFeedLimit
	}
	parser := gofeed.NewParser()
	parser.UserAgent = userAgent
	return &Fetcher{
		parser:   parser,
		client:   &http.Client{},
		policy:   bluemonday.StrictPolicy(),
		urls:     urls,
		minWords: minWords,
		perFeed:  perFeed,
	}
}

// FetchArticles pulls up to count articles across all configured feeds,
// visiting them in order. A failing feed is skipped and reported in the
// returned problem list rather than aborting the run.
func (f *Fetcher) FetchArticles(ctx context.Context, count int) ([]RawArticle, []string) {
	var articles []RawArticle
	var problems []string

	for _, url := range f.urls {
		if len(articles) >= count {
			break
		}

		feedCtx, cancel := context.WithTimeout(ctx, feedTimeout)
		feed, err := f.fetchFeed(feedCtx, url)
		cancel()
		if err != nil {
			problems = append(problems, fmt.Sprintf("feed %s: %v", url, err))
			continue
		}

		taken := 0
		for _, item := range feed.Items {
			if taken >= f.perFeed || len(articles) >= count {
				break
			}
			raw, ok := f.itemToArticle(feed, item)
			if !ok {
				continue
			}
			articles = append(articles, raw)
			taken++
		}
	}
	return articles, problems
}

func (f *Fetcher) fetchFeed(ctx context.Context, url string) (*gofeed.Feed, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading body: %w", err)
	}

	feed, err := f.parser.ParseString(string(body))
	if err != nil {
		return nil, fmt.Errorf("parsing: %w", err)
	}
	return feed, nil
}

// itemToArticle converts one feed entry, returning false when the entry
// is unusable: missing title or link, or a body below the word floor.
func (f *Fetcher) itemToArticle(feed *gofeed.Feed, item *gofeed.Item) (RawArticle, bool) {
	if item.Title == "" || item.Link == "" {
		return RawArticle{}, false
	}

	body := item.Content
	if body == "" {
		body = item.Description
	}
	content := f.stripMarkup(body)
	if len(strings.Fields(content)) < f.minWords {
		return RawArticle{}, false
	}

	var author string
	if item.Author != nil {
		author = item.Author.Name
	}

	var published time.Time
	if item.PublishedParsed != nil {
		published = *item.PublishedParsed
	} else if item.UpdatedParsed != nil {
		published = *item.UpdatedParsed
	} else {
		published = time.Now().UTC()
	}

	return RawArticle{
		URL:       item.Link,
		Title:     f.stripMarkup(item.Title),
		Content:   content,
		Source:    feed.Title,
		Author:    author,
		Published: published,
	}, true
}

// stripMarkup removes all HTML and collapses whitespace runs.
func (f *Fetcher) stripMarkup(s string) string {
	text := html.UnescapeString(f.policy.Sanitize(s))
	return strings.Join(strings.Fields(text), " ")
}
