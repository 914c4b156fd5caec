// Package cluster assigns articles to fixed topic clusters by keyword
// matching against a configurable taxonomy.
package cluster

import "strings"

// Entry is one topic in the taxonomy: a stable ID, a display label,
// and the keywords that pull articles into it.
type Entry struct {
	ID       int      `yaml:"id"`
	Label    string   `yaml:"label"`
	Keywords []string `yaml:"keywords"`
}

// DefaultTaxonomy returns the built-in topic set.
func DefaultTaxonomy() []Entry {
	return []Entry{
		{ID: 1, Label: "Technology & AI", Keywords: []string{"ai", "artificial", "technology", "tech", "software", "digital", "computer", "robot", "machine"}},
		{ID: 2, Label: "Climate & Environment", Keywords: []string{"climate", "environment", "green", "energy", "carbon", "warming", "pollution", "weather"}},
		{ID: 3, Label: "Politics & Policy", Keywords: []string{"politics", "policy", "government", "election", "president", "congress", "vote", "party"}},
		{ID: 4, Label: "Health & Science", Keywords: []string{"health", "science", "research", "medical", "disease", "vaccine", "hospital", "study"}},
		{ID: 5, Label: "Business & Economy", Keywords: []string{"business", "economy", "market", "finance", "stock", "trade", "company", "revenue"}},
		{ID: 6, Label: "Sports & Entertainment", Keywords: []string{"sports", "entertainment", "game", "movie", "music", "team", "player", "win"}},
		{ID: 7, Label: "World News", Keywords: []string{"world", "international", "war", "peace", "crisis", "nation", "country", "global"}},
	}
}

// Classifier scores articles against a taxonomy.
type Classifier struct {
	taxonomy []Entry
}

// NewClassifier builds a classifier over the given taxonomy, lowercasing
// every keyword. A nil or empty taxonomy falls back to the default.
func NewClassifier(taxonomy []Entry) *Classifier {
	if len(taxonomy) == 0 {
		taxonomy = DefaultTaxonomy()
	}
	owned := make([]Entry, len(taxonomy))
	for i, e := range taxonomy {
		kws := make([]string, len(e.Keywords))
		for j, kw := range e.Keywords {
			kws[j] = strings.ToLower(kw)
		}
		owned[i] = Entry{ID: e.ID, Label: e.Label, Keywords: kws}
	}
	return &Classifier{taxonomy: owned}
}

// Classify scores each taxonomy entry by the number of its distinct
// keywords appearing as substrings of the lowercased title and content,
// and returns the ID of the highest-scoring entry. Ties keep the entry
// listed first in the taxonomy. When no keyword matches at all, the
// article stays unclustered and ok is false.
func (c *Classifier) Classify(title, content string) (id int, ok bool) {
	text := strings.ToLower(title + " " + content)

	bestScore := 0
	for _, e := range c.taxonomy {
		score := 0
		for _, kw := range e.Keywords {
			if strings.Contains(text, kw) {
				score++
			}
		}
		if score > bestScore {
			bestScore = score
			id = e.ID
			ok = true
		}
	}
	return id, ok
}

// Taxonomy returns a copy of the classifier's entries in scoring order.
func (c *Classifier) Taxonomy() []Entry {
	out := make([]Entry, len(c.taxonomy))
	copy(out, c.taxonomy)
	return out
}

// Lookup returns the entry for id, or false if the taxonomy has no
// such topic.
func (c *Classifier) Lookup(id int) (Entry, bool) {
	for _, e := range c.taxonomy {
		if e.ID == id {
			return e, true
		}
	}
	return Entry{}, false
}
