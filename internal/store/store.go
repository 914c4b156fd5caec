// Package store holds processed articles in memory with secondary
// indexes for source, cluster, and content-hash lookups.
package store

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

var (
	// ErrDuplicateContent rejects an insert whose content hash matches
	// an article already in the store.
	ErrDuplicateContent = errors.New("duplicate article content")

	// ErrNotFound reports a lookup for an absent article or cluster.
	ErrNotFound = errors.New("article not found")

	// ErrInvalidFilter reports query parameters outside their allowed
	// ranges.
	ErrInvalidFilter = errors.New("invalid query filter")
)

// DefaultPageSize is applied when a query names no page size.
const DefaultPageSize = 20

// MaxPageSize bounds how many articles a single page may return.
const MaxPageSize = 100

// ContentHash derives the dedup key for an article: title and content
// are lowercased with whitespace runs collapsed, then hashed together.
// Retitled or reformatted copies of the same story hash identically.
func ContentHash(title, content string) string {
	normalize := func(s string) string {
		return strings.Join(strings.Fields(strings.ToLower(s)), " ")
	}
	sum := sha256.Sum256([]byte(normalize(title) + "\n" + normalize(content)))
	return hex.EncodeToString(sum[:])
}

// Article is the stored form of a processed article. Content lives in
// Blob, compressed when that saved space.
type Article struct {
	ID          string
	ContentHash string
	Title       string
	Blob        []byte
	Compressed  bool
	Ratio       float64
	Summary     string
	Source      string
	Author      string
	URL         string
	Published   time.Time
	Fetched     time.Time
	ClusterID   *int

	seq int
}

// QueryFilters narrows and pages a store query. Zero-valued fields are
// inactive; Page and PageSize default to 1 and DefaultPageSize.
type QueryFilters struct {
	Source    string
	Search    string
	From      *time.Time
	To        *time.Time
	ClusterID *int
	Page      int
	PageSize  int
}

// normalize applies paging defaults and validates ranges.
func (f *QueryFilters) normalize() error {
	if f.Page == 0 {
		f.Page = 1
	}
	if f.PageSize == 0 {
		f.PageSize = DefaultPageSize
	}
	if f.Page < 1 {
		return fmt.Errorf("%w: page %d", ErrInvalidFilter, f.Page)
	}
	if f.PageSize < 1 || f.PageSize > MaxPageSize {
		return fmt.Errorf("%w: page size %d", ErrInvalidFilter, f.PageSize)
	}
	if f.From != nil && f.To != nil && f.From.After(*f.To) {
		return fmt.Errorf("%w: date range starts after it ends", ErrInvalidFilter)
	}
	return nil
}

// Store is an in-memory article collection. A single RWMutex covers the
// primary map and every index, so readers see a consistent snapshot.
type Store struct {
	mu        sync.RWMutex
	articles  map[string]*Article
	byHash    map[string]string
	bySource  map[string][]string
	byCluster map[int][]string
	nextSeq   int
}

// New returns an empty store.
func New() *Store {
	return &Store{
		articles:  make(map[string]*Article),
		byHash:    make(map[string]string),
		bySource:  make(map[string][]string),
		byCluster: make(map[int][]string),
	}
}

// Insert adds a new article, assigning it a fresh ID, and returns that
// ID. An article whose ContentHash is already present is rejected with
// ErrDuplicateContent.
func (s *Store) Insert(a Article) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if existing, ok := s.byHash[a.ContentHash]; ok {
		return "", fmt.Errorf("%w: matches article %s", ErrDuplicateContent, existing)
	}

	a.ID = uuid.NewString()
	a.seq = s.nextSeq
	s.nextSeq++

	s.articles[a.ID] = &a
	s.byHash[a.ContentHash] = a.ID
	if a.Source != "" {
		s.bySource[a.Source] = append(s.bySource[a.Source], a.ID)
	}
	if a.ClusterID != nil {
		s.byCluster[*a.ClusterID] = append(s.byCluster[*a.ClusterID], a.ID)
	}
	return a.ID, nil
}

// Get returns a copy of the article with the given ID.
func (s *Store) Get(id string) (Article, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	a, ok := s.articles[id]
	if !ok {
		return Article{}, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return *a, nil
}

// UpdateSummary stores a summary on an existing article.
func (s *Store) UpdateSummary(id, summary string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	a, ok := s.articles[id]
	if !ok {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	a.Summary = summary
	return nil
}

// UpdateCluster moves an article into clusterID, removing it from any
// cluster it was in before. An article belongs to at most one cluster.
func (s *Store) UpdateCluster(id string, clusterID int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	a, ok := s.articles[id]
	if !ok {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	if a.ClusterID != nil {
		if *a.ClusterID == clusterID {
			return nil
		}
		s.byCluster[*a.ClusterID] = removeID(s.byCluster[*a.ClusterID], id)
	}
	cid := clusterID
	a.ClusterID = &cid
	s.byCluster[clusterID] = append(s.byCluster[clusterID], id)
	return nil
}

func removeID(ids []string, id string) []string {
	for i, v := range ids {
		if v == id {
			return append(ids[:i], ids[i+1:]...)
		}
	}
	return ids
}

// Query returns one page of articles matching the filters, newest
// first, along with the total match count before paging. A page beyond
// the last yields an empty slice with the true total.
func (s *Store) Query(f QueryFilters) ([]Article, int, error) {
	if err := f.normalize(); err != nil {
		return nil, 0, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	candidates := s.candidates(f)
	search := strings.ToLower(f.Search)

	matched := make([]*Article, 0, len(candidates))
	for _, a := range candidates {
		if f.Source != "" && a.Source != f.Source {
			continue
		}
		if search != "" && !strings.Contains(strings.ToLower(a.Title), search) {
			continue
		}
		if f.From != nil && a.Published.Before(*f.From) {
			continue
		}
		if f.To != nil && a.Published.After(*f.To) {
			continue
		}
		if f.ClusterID != nil && (a.ClusterID == nil || *a.ClusterID != *f.ClusterID) {
			continue
		}
		matched = append(matched, a)
	}

	sortNewestFirst(matched)

	total := len(matched)
	start := (f.Page - 1) * f.PageSize
	if start >= total {
		return []Article{}, total, nil
	}
	end := start + f.PageSize
	if end > total {
		end = total
	}

	page := make([]Article, 0, end-start)
	for _, a := range matched[start:end] {
		page = append(page, *a)
	}
	return page, total, nil
}

// candidates narrows the scan using the most selective available index.
func (s *Store) candidates(f QueryFilters) []*Article {
	if f.ClusterID != nil {
		return s.collect(s.byCluster[*f.ClusterID])
	}
	if f.Source != "" {
		return s.collect(s.bySource[f.Source])
	}
	all := make([]*Article, 0, len(s.articles))
	for _, a := range s.articles {
		all = append(all, a)
	}
	return all
}

func (s *Store) collect(ids []string) []*Article {
	out := make([]*Article, 0, len(ids))
	for _, id := range ids {
		if a, ok := s.articles[id]; ok {
			out = append(out, a)
		}
	}
	return out
}

// sortNewestFirst orders by published date descending; articles sharing
// a timestamp keep insertion order.
func sortNewestFirst(articles []*Article) {
	sort.Slice(articles, func(i, j int) bool {
		if !articles[i].Published.Equal(articles[j].Published) {
			return articles[i].Published.After(articles[j].Published)
		}
		return articles[i].seq < articles[j].seq
	})
}

// ArticlesInCluster pages through the members of one cluster, newest
// first.
func (s *Store) ArticlesInCluster(clusterID, page, pageSize int) ([]Article, int, error) {
	cid := clusterID
	return s.Query(QueryFilters{ClusterID: &cid, Page: page, PageSize: pageSize})
}

// Count reports the number of stored articles.
func (s *Store) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.articles)
}

// CountByCluster reports how many articles belong to clusterID.
func (s *Store) CountByCluster(clusterID int) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.byCluster[clusterID])
}

// Sources returns the distinct source names present, sorted.
func (s *Store) Sources() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]string, 0, len(s.bySource))
	for src := range s.bySource {
		out = append(out, src)
	}
	sort.Strings(out)
	return out
}
