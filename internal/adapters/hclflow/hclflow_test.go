package hclflow

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"flowbuilder/internal/domain"
)

const demoHCL = `
flow "main" {
  message "1" {
    text = "test message 1"
    x    = 100
    y    = 100
    next = "2"
  }

  message "2" {
    text = "test message 2"
    x    = 400
    y    = 100
  }
}
`

func TestDecode_Demo(t *testing.T) {
	flows, err := Decode([]byte(demoHCL), "demo.hcl")
	require.NoError(t, err)
	require.Len(t, flows, 1)

	if diff := cmp.Diff(domain.DemoFlow("main"), flows[0]); diff != "" {
		t.Errorf("flow mismatch (-want +got):\n%s", diff)
	}
}

func TestDecode_Defaults(t *testing.T) {
	flows, err := Decode([]byte(`
flow "a" {
  message "only" {}
}
flow "b" {
  message "neg" {
    text = ""
    x    = -50
    y    = 20
  }
}
`), "defaults.hcl")
	require.NoError(t, err)
	require.Len(t, flows, 2)

	only := flows[0].Nodes[0]
	assert.Equal(t, domain.DefaultText, only.Text())
	assert.Equal(t, domain.Point{}, only.Position)

	neg := flows[1].Nodes[0]
	assert.Equal(t, "", neg.Text())
	assert.Equal(t, domain.Point{X: 0, Y: 20}, neg.Position)
}

func TestDecode_Errors(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want string
	}{
		{
			name: "syntax",
			src:  `flow "main" {`,
			want: "failed to parse",
		},
		{
			name: "unknown next",
			src: `flow "main" {
  message "a" {
    next = "b"
  }
}`,
			want: `next refers to unknown message "b"`,
		},
		{
			name: "self loop",
			src: `flow "main" {
  message "a" {
    next = "a"
  }
}`,
			want: "cannot follow itself",
		},
		{
			name: "duplicate message",
			src: `flow "main" {
  message "a" {}
  message "a" {}
}`,
			want: `duplicate message "a"`,
		},
		{
			name: "duplicate flow",
			src:  "flow \"main\" {}\nflow \"main\" {}\n",
			want: `duplicate flow "main"`,
		},
		{
			name: "unknown attribute",
			src: `flow "main" {
  message "a" {
    colour = "red"
  }
}`,
			want: "failed to decode",
		},
		{
			name: "stray top level attribute",
			src:  `name = "x"`,
			want: "only flow blocks",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decode([]byte(tt.src), "bad.hcl")
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestEncode_RoundTrip(t *testing.T) {
	flow := domain.DemoFlow("main")
	flow.Nodes = append(flow.Nodes, domain.Node{
		ID:       "node_3",
		Type:     domain.NodeTypeText,
		Position: domain.Point{X: 12.5, Y: 300},
		Data:     domain.TextData{Text: "multi\nline \"quoted\""},
	})
	flow.Edges = append(flow.Edges,
		domain.Edge{ID: "e2-node_3", Source: "2", Target: "node_3"},
		domain.Edge{ID: "enode_3-ghost", Source: "node_3", Target: "ghost"},
	)
	other := domain.Flow{Name: "empty"}

	src := Encode(flow, other)

	flows, err := Decode(src, "roundtrip.hcl")
	require.NoError(t, err, string(src))
	require.Len(t, flows, 2)

	flow.Edges = flow.Edges[:2]
	if diff := cmp.Diff([]domain.Flow{flow, other}, flows); diff != "" {
		t.Errorf("flow mismatch (-want +got):\n%s", diff)
	}
}

func TestEncode_Layout(t *testing.T) {
	src := string(Encode(domain.DemoFlow("main")))

	assert.Contains(t, src, `flow "main" {`)
	assert.Contains(t, src, `message "1" {`)
	assert.Contains(t, src, `next = "2"`)
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "seed.hcl")
	require.NoError(t, os.WriteFile(path, []byte(demoHCL), 0o600))

	flows, err := LoadFile(path)
	require.NoError(t, err)

	f, ok := Find(flows, "main")
	require.True(t, ok)
	assert.Len(t, f.Nodes, 2)

	_, ok = Find(flows, "other")
	assert.False(t, ok)

	_, err = LoadFile(filepath.Join(t.TempDir(), "missing.hcl"))
	assert.Error(t, err)
}
