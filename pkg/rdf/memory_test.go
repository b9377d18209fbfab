package rdf

import (
	"testing"
)

func TestMemGraphFind(t *testing.T) {
	g := newMemGraph()
	triples := []Triple{
		{Subject: "s1", Predicate: "p1", Object: "o1"},
		{Subject: "s1", Predicate: "p2", Object: "o2"},
		{Subject: "s2", Predicate: "p1", Object: "o1"},
	}
	for _, tr := range triples {
		if err := g.Add(tr); err != nil {
			t.Fatalf("Add: %v", err)
		}
	}

	tests := []struct {
		name    string
		s, p, o string
		want    int
	}{
		{"all wildcards", "", "", "", 3},
		{"by subject", "s1", "", "", 2},
		{"by predicate", "", "p1", "", 2},
		{"exact", "s2", "p1", "o1", 1},
		{"no match", "s3", "", "", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := len(g.Find(tt.s, tt.p, tt.o)); got != tt.want {
				t.Errorf("Find(%q,%q,%q) = %d triples, want %d", tt.s, tt.p, tt.o, got, tt.want)
			}
		})
	}
}

func TestMemGraphAddRemove(t *testing.T) {
	g := newMemGraph()
	tr := Triple{Subject: "s", Predicate: "p", Object: "o"}

	if err := g.Add(tr); err != nil {
		t.Fatalf("Add: %v", err)
	}
	if !g.Contains(tr) {
		t.Error("expected graph to contain added triple")
	}
	if g.Len() != 1 {
		t.Errorf("Len() = %d, want 1", g.Len())
	}

	// Adding the same triple twice is a no-op.
	if err := g.Add(tr); err != nil {
		t.Fatalf("Add: %v", err)
	}
	if g.Len() != 1 {
		t.Errorf("Len() after duplicate Add = %d, want 1", g.Len())
	}

	if err := g.Remove(tr); err != nil {
		t.Fatalf("Remove: %v", err)
	}
	if g.Contains(tr) {
		t.Error("expected triple to be removed")
	}

	// Removing an absent triple is not an error.
	if err := g.Remove(tr); err != nil {
		t.Errorf("Remove absent: %v", err)
	}
}

func TestMemoryNamedGraphs(t *testing.T) {
	m := NewMemory()

	if m.ContainsGraph("g") {
		t.Error("fresh dataset should have no named graphs")
	}
	if _, ok := m.Graph("g"); ok {
		t.Error("Graph on absent name should report false")
	}

	g := m.AddGraph("g")
	if g == nil {
		t.Fatal("AddGraph returned nil")
	}
	if !m.ContainsGraph("g") {
		t.Error("expected graph to exist after AddGraph")
	}

	// AddGraph on an existing name returns the same graph.
	if m.AddGraph("g") != g {
		t.Error("AddGraph should be idempotent")
	}

	m.RemoveGraph("g")
	if m.ContainsGraph("g") {
		t.Error("expected graph to be gone after RemoveGraph")
	}
}

func TestMemoryClose(t *testing.T) {
	m := NewMemory()
	if err := m.Begin(TxnRead); err != nil {
		t.Fatalf("Begin on open dataset: %v", err)
	}
	m.End()

	if err := m.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if err := m.Close(); err != nil {
		t.Errorf("Close should be idempotent, got %v", err)
	}
	if err := m.Begin(TxnRead); err == nil {
		t.Error("Begin after Close should fail")
	}
}
