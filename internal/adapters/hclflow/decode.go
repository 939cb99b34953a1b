// Package hclflow reads and writes flow definition files.
//
// A file holds one or more flow blocks. Each message block is a text node;
// its optional next attribute is the node's single outgoing edge.
//
//	flow "main" {
//	  message "1" {
//	    text = "test message 1"
//	    x    = 100
//	    y    = 100
//	    next = "2"
//	  }
//	}
package hclflow

import (
	"fmt"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"

	"flowbuilder/internal/domain"
)

type fileRoot struct {
	Flows  []*flowBlock `hcl:"flow,block"`
	Remain hcl.Body     `hcl:",remain"`
}

type flowBlock struct {
	Name     string          `hcl:"name,label"`
	Messages []*messageBlock `hcl:"message,block"`
}

type messageBlock struct {
	ID   string   `hcl:"id,label"`
	Text *string  `hcl:"text,optional"`
	X    *float64 `hcl:"x,optional"`
	Y    *float64 `hcl:"y,optional"`
	Next *string  `hcl:"next,optional"`
}

// LoadFile parses the flows defined in an HCL file
func LoadFile(path string) ([]domain.Flow, error) {
	parser := hclparse.NewParser()
	file, diags := parser.ParseHCLFile(path)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse HCL file %s: %w", path, diags)
	}
	return decodeBody(file.Body, path)
}

// Decode parses flows from HCL source. filename is used in error messages.
func Decode(src []byte, filename string) ([]domain.Flow, error) {
	parser := hclparse.NewParser()
	file, diags := parser.ParseHCL(src, filename)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse HCL file %s: %w", filename, diags)
	}
	return decodeBody(file.Body, filename)
}

func decodeBody(body hcl.Body, filename string) ([]domain.Flow, error) {
	var root fileRoot
	if diags := gohcl.DecodeBody(body, nil, &root); diags.HasErrors() {
		return nil, fmt.Errorf("failed to decode HCL file %s: %w", filename, diags)
	}

	// Anything besides flow blocks is a mistake
	if attrs, diags := root.Remain.JustAttributes(); diags.HasErrors() || len(attrs) > 0 {
		return nil, fmt.Errorf("%s: only flow blocks are allowed at the top level", filename)
	}

	flows := make([]domain.Flow, 0, len(root.Flows))
	seen := make(map[string]bool, len(root.Flows))
	for _, fb := range root.Flows {
		if seen[fb.Name] {
			return nil, fmt.Errorf("%s: duplicate flow %q", filename, fb.Name)
		}
		seen[fb.Name] = true

		f, err := fb.toFlow()
		if err != nil {
			return nil, fmt.Errorf("%s: %w", filename, err)
		}
		flows = append(flows, f)
	}
	return flows, nil
}

func (fb *flowBlock) toFlow() (domain.Flow, error) {
	f := domain.Flow{Name: fb.Name}

	ids := make(map[string]bool, len(fb.Messages))
	for _, m := range fb.Messages {
		if m.ID == "" {
			return domain.Flow{}, fmt.Errorf("flow %q: message with empty ID", fb.Name)
		}
		if ids[m.ID] {
			return domain.Flow{}, fmt.Errorf("flow %q: duplicate message %q", fb.Name, m.ID)
		}
		ids[m.ID] = true

		text := domain.DefaultText
		if m.Text != nil {
			text = *m.Text
		}
		var pos domain.Point
		if m.X != nil {
			pos.X = *m.X
		}
		if m.Y != nil {
			pos.Y = *m.Y
		}

		f.Nodes = append(f.Nodes, domain.Node{
			ID:       m.ID,
			Type:     domain.NodeTypeText,
			Position: pos.ClampNonNegative(),
			Data:     domain.TextData{Text: text},
		})
	}

	for _, m := range fb.Messages {
		if m.Next == nil {
			continue
		}
		next := *m.Next
		switch {
		case next == m.ID:
			return domain.Flow{}, fmt.Errorf("flow %q: message %q cannot follow itself", fb.Name, m.ID)
		case !ids[next]:
			return domain.Flow{}, fmt.Errorf("flow %q: message %q: next refers to unknown message %q", fb.Name, m.ID, next)
		}
		f.Edges = append(f.Edges, domain.Edge{ID: domain.EdgeID(m.ID, next), Source: m.ID, Target: next})
	}

	return f, nil
}

// Find returns the flow with the given name
func Find(flows []domain.Flow, name string) (domain.Flow, bool) {
	for _, f := range flows {
		if f.Name == name {
			return f, true
		}
	}
	return domain.Flow{}, false
}
