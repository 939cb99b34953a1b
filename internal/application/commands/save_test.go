package commands

import (
	"context"
	"errors"
	"testing"
	"time"

	"flowbuilder/internal/application"
	"flowbuilder/internal/domain"
)

func TestSaveFlowCommand_Execute(t *testing.T) {
	a, b, c := textNode("a", 0, 0), textNode("b", 300, 0), textNode("c", 600, 0)

	tests := []struct {
		name      string
		flow      domain.Flow
		wantErr   bool
		wantRoots []string
	}{
		{
			name: "empty flow",
			flow: domain.Flow{Name: "main"},
		},
		{
			name: "single node",
			flow: domain.Flow{Name: "main", Nodes: []domain.Node{a}},
		},
		{
			name: "linear chain",
			flow: domain.Flow{
				Name:  "main",
				Nodes: []domain.Node{a, b, c},
				Edges: []domain.Edge{{ID: "ea-b", Source: "a", Target: "b"}, {ID: "eb-c", Source: "b", Target: "c"}},
			},
		},
		{
			name: "fan in and cycle-free root",
			flow: domain.Flow{
				Name:  "main",
				Nodes: []domain.Node{a, b, c},
				Edges: []domain.Edge{{ID: "ea-c", Source: "a", Target: "c"}, {ID: "eb-a", Source: "b", Target: "a"}},
			},
		},
		{
			name:      "two roots",
			flow:      domain.Flow{Name: "main", Nodes: []domain.Node{a, b}},
			wantErr:   true,
			wantRoots: []string{"a", "b"},
		},
		{
			name: "three nodes one edge",
			flow: domain.Flow{
				Name:  "main",
				Nodes: []domain.Node{a, b, c},
				Edges: []domain.Edge{{ID: "ea-b", Source: "a", Target: "b"}},
			},
			wantErr:   true,
			wantRoots: []string{"a", "c"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := newMemStore()
			cmd := NewSaveFlowCommand(store, nil, tt.flow)
			cmd.now = func() time.Time { return time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC) }

			res, err := cmd.Execute(context.Background())

			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error")
				}
				if err.Error() != "Cannot save Flow" {
					t.Errorf("unexpected message: %q", err.Error())
				}
				if !errors.Is(err, application.ErrCannotSave) {
					t.Errorf("expected ErrCannotSave, got %v", err)
				}
				var rejected *application.SaveRejectedError
				if !errors.As(err, &rejected) {
					t.Fatalf("expected SaveRejectedError, got %T", err)
				}
				if len(rejected.Roots) != len(tt.wantRoots) {
					t.Fatalf("expected roots %v, got %v", tt.wantRoots, rejected.Roots)
				}
				for i, r := range tt.wantRoots {
					if rejected.Roots[i] != r {
						t.Errorf("expected roots %v, got %v", tt.wantRoots, rejected.Roots)
					}
				}
				if store.saves != 0 {
					t.Errorf("rejected flow was stored")
				}
				return
			}

			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if res.Message != "Flow saved successfully!" {
				t.Errorf("unexpected message: %q", res.Message)
			}
			saved := store.flow(t, "main")
			if !saved.SavedAt.Equal(time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)) {
				t.Errorf("unexpected saved time: %v", saved.SavedAt)
			}
			if len(saved.Nodes) != len(tt.flow.Nodes) || len(saved.Edges) != len(tt.flow.Edges) {
				t.Errorf("stored flow differs: %+v", saved)
			}
		})
	}
}

func TestSaveFlowCommand_Validate(t *testing.T) {
	tests := []struct {
		name    string
		flow    domain.Flow
		errMsg  string
		wantErr bool
	}{
		{
			name:    "missing name",
			flow:    domain.Flow{Nodes: []domain.Node{textNode("a", 0, 0)}},
			wantErr: true,
			errMsg:  "flow name is required",
		},
		{
			name:    "duplicate node",
			flow:    domain.Flow{Name: "main", Nodes: []domain.Node{textNode("a", 0, 0), textNode("a", 1, 1)}},
			wantErr: true,
			errMsg:  "duplicate node ID",
		},
		{
			name: "demo flow",
			flow: domain.DemoFlow("main"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := NewSaveFlowCommand(newMemStore(), nil, tt.flow).Validate()
			if (err != nil) != tt.wantErr {
				t.Fatalf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr && !contains(err.Error(), tt.errMsg) {
				t.Errorf("expected error containing %q, got %q", tt.errMsg, err.Error())
			}
		})
	}
}
