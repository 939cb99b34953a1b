package commands

import (
	"context"
	"testing"

	"flowbuilder/internal/domain"
)

func TestFuzzyScore(t *testing.T) {
	tests := []struct {
		name      string
		target    string
		query     string
		wantScore int
		wantMin   int // use this for relative comparisons
	}{
		{
			name:      "exact match",
			target:    "Welcome",
			query:     "Welcome",
			wantScore: 150, // 100 for contains + 50 for prefix
		},
		{
			name:      "prefix match",
			target:    "Welcome aboard",
			query:     "Welcome",
			wantScore: 150,
		},
		{
			name:      "substring match",
			target:    "A warm welcome",
			query:     "welcome",
			wantScore: 100, // contains only
		},
		{
			name:    "fuzzy match in order",
			target:  "node_ab12",
			query:   "nab",
			wantMin: 1,
		},
		{
			name:      "no match",
			target:    "Welcome",
			query:     "xyz",
			wantScore: 0,
		},
		{
			name:      "empty query",
			target:    "Welcome",
			query:     "",
			wantScore: 0,
		},
		{
			name:    "case insensitive",
			target:  "WELCOME",
			query:   "welcome",
			wantMin: 100,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			score := FuzzyScore(tt.target, tt.query)

			if tt.wantScore > 0 {
				if score != tt.wantScore {
					t.Errorf("expected score %d, got %d", tt.wantScore, score)
				}
			} else if tt.wantMin > 0 {
				if score < tt.wantMin {
					t.Errorf("expected score >= %d, got %d", tt.wantMin, score)
				}
			} else {
				if score != 0 {
					t.Errorf("expected score 0, got %d", score)
				}
			}
		})
	}
}

func TestFuzzySort(t *testing.T) {
	nodes := []domain.Node{
		{ID: "1", Type: domain.NodeTypeText, Data: domain.TextData{Text: "Goodbye"}},
		{ID: "2", Type: domain.NodeTypeText, Data: domain.TextData{Text: "A warm welcome"}},
		{ID: "3", Type: domain.NodeTypeText, Data: domain.TextData{Text: "Welcome aboard"}},
	}

	sorted := FuzzySort(nodes, "welcome")

	if len(sorted) != 2 {
		t.Fatalf("expected 2 results, got %d", len(sorted))
	}
	if sorted[0].Node.ID != "3" || sorted[1].Node.ID != "2" {
		t.Errorf("unexpected order: %s, %s", sorted[0].Node.ID, sorted[1].Node.ID)
	}
}

func TestSearchMessagesCommand(t *testing.T) {
	store := newMemStore(domain.DemoFlow("main"))

	got, err := NewSearchMessagesCommand(store, "main", "message 2").Execute(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) == 0 || got[0].Node.ID != "2" {
		t.Errorf("unexpected matches: %+v", got)
	}

	got, err = NewSearchMessagesCommand(store, "main", "m").Execute(context.Background())
	if err != nil || got != nil {
		t.Errorf("short queries return nothing, got %+v %v", got, err)
	}
}
