package cluster

import "testing"

func TestClassifyPicksHighestScore(t *testing.T) {
	c := NewClassifier(nil)

	// Two technology keywords against one business keyword.
	id, ok := c.Classify(
		"New AI software reshapes the market",
		"The technology rollout begins next quarter.",
	)
	if !ok {
		t.Fatal("expected a cluster assignment")
	}
	if id != 1 {
		t.Errorf("got cluster %d, want 1 (Technology & AI)", id)
	}
}

func TestClassifyCountsDistinctKeywordsOnce(t *testing.T) {
	c := NewClassifier(nil)

	// "market" repeated three times still scores 1 for Business; two
	// distinct health keywords must win.
	id, ok := c.Classify(
		"Market market market",
		"A medical study was published.",
	)
	if !ok {
		t.Fatal("expected a cluster assignment")
	}
	if id != 4 {
		t.Errorf("got cluster %d, want 4 (Health & Science)", id)
	}
}

func TestClassifyTieKeepsEarlierEntry(t *testing.T) {
	c := NewClassifier(nil)

	// One technology keyword, one climate keyword: first entry wins.
	id, ok := c.Classify("Software and solar energy", "")
	if !ok {
		t.Fatal("expected a cluster assignment")
	}
	if id != 1 {
		t.Errorf("got cluster %d, want 1 on a tie", id)
	}
}

func TestClassifyNoMatchLeavesUnclustered(t *testing.T) {
	c := NewClassifier(nil)

	if id, ok := c.Classify("Local bake sale draws crowd", "Cookies sold out by noon."); ok {
		t.Errorf("expected no assignment, got cluster %d", id)
	}
}

func TestClassifyIsCaseInsensitive(t *testing.T) {
	c := NewClassifier(nil)

	id, ok := c.Classify("ELECTION Results Are In", "")
	if !ok || id != 3 {
		t.Errorf("got (%d, %v), want (3, true)", id, ok)
	}
}

func TestClassifyDeterministic(t *testing.T) {
	c := NewClassifier(nil)
	title := "Global markets react to election"
	content := "Trade policy shifts as votes are counted worldwide."

	first, ok := c.Classify(title, content)
	if !ok {
		t.Fatal("expected a cluster assignment")
	}
	for i := 0; i < 10; i++ {
		got, ok := c.Classify(title, content)
		if !ok || got != first {
			t.Fatalf("run %d: got (%d, %v), want (%d, true)", i, got, ok, first)
		}
	}
}

func TestCustomTaxonomy(t *testing.T) {
	c := NewClassifier([]Entry{
		{ID: 42, Label: "Cooking", Keywords: []string{"Recipe", "OVEN"}},
	})

	// Keywords are lowercased at construction.
	id, ok := c.Classify("A new recipe for the oven", "")
	if !ok || id != 42 {
		t.Errorf("got (%d, %v), want (42, true)", id, ok)
	}

	if e, ok := c.Lookup(42); !ok || e.Label != "Cooking" {
		t.Errorf("Lookup(42) = (%+v, %v)", e, ok)
	}
	if _, ok := c.Lookup(1); ok {
		t.Error("Lookup(1) should miss in a custom taxonomy")
	}
}

func TestDefaultTaxonomyShape(t *testing.T) {
	tax := DefaultTaxonomy()
	if len(tax) != 7 {
		t.Fatalf("expected 7 topics, got %d", len(tax))
	}
	seen := make(map[int]bool)
	for _, e := range tax {
		if seen[e.ID] {
			t.Errorf("duplicate topic id %d", e.ID)
		}
		seen[e.ID] = true
		if e.Label == "" || len(e.Keywords) == 0 {
			t.Errorf("topic %d missing label or keywords", e.ID)
		}
	}
}
