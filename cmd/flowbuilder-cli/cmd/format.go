package cmd

import (
	"encoding/json"
	"fmt"
	"html"
	"strings"

	"flowbuilder/internal/adapters/hclflow"
	"flowbuilder/internal/domain"
)

// formatFlow renders a flow as text, JSON, HCL or SVG
func formatFlow(f domain.Flow, format string) (string, error) {
	switch format {
	case "text", "":
		return flowText(f), nil
	case "json":
		b, err := json.MarshalIndent(f, "", "  ")
		if err != nil {
			return "", err
		}
		return string(b) + "\n", nil
	case "hcl":
		return string(hclflow.Encode(f)), nil
	case "svg":
		return flowSVG(f), nil
	default:
		return "", fmt.Errorf("unknown format %q (expected text, json, hcl or svg)", format)
	}
}

func flowText(f domain.Flow) string {
	next := make(map[string]string, len(f.Edges))
	for _, e := range f.Edges {
		next[e.Source] = e.Target
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "%s: %d messages, %d connections\n", f.Name, len(f.Nodes), len(f.Edges))
	for _, n := range f.Nodes {
		fmt.Fprintf(&sb, "  %-12s (%4.0f, %4.0f)  %q", n.ID, n.Position.X, n.Position.Y, n.Text())
		if t, ok := next[n.ID]; ok {
			fmt.Fprintf(&sb, " -> %s", t)
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}

// flowSVG draws the flow the way the canvas lays it out: a card per message
// and a cubic curve per connection.
func flowSVG(f domain.Flow) string {
	l := domain.DefaultLayout()
	nodes := make(map[string]domain.Node, len(f.Nodes))
	var width, height float64
	for _, n := range f.Nodes {
		nodes[n.ID] = n
		b := l.Bounds(n)
		width = max(width, b.Max.X+l.HandleSize)
		height = max(height, b.Max.Y+l.HandleSize)
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "<svg xmlns=\"http://www.w3.org/2000/svg\" width=\"%.0f\" height=\"%.0f\">\n", width, height)
	for _, e := range f.Edges {
		src, ok1 := nodes[e.Source]
		dst, ok2 := nodes[e.Target]
		if !ok1 || !ok2 {
			continue
		}
		fmt.Fprintf(&sb, "  <path id=\"%s\" d=\"%s\" fill=\"none\" stroke=\"#888\"/>\n",
			html.EscapeString(e.ID), l.EdgeCurve(src, dst).Path())
	}
	for _, n := range f.Nodes {
		b := l.Bounds(n)
		fmt.Fprintf(&sb, "  <g id=\"%s\">\n", html.EscapeString(n.ID))
		fmt.Fprintf(&sb, "    <rect x=\"%g\" y=\"%g\" width=\"%g\" height=\"%g\" rx=\"8\" fill=\"white\" stroke=\"#333\"/>\n",
			b.Min.X, b.Min.Y, b.Max.X-b.Min.X, b.Max.Y-b.Min.Y)
		fmt.Fprintf(&sb, "    <text x=\"%g\" y=\"%g\">%s</text>\n", b.Min.X+10, b.Min.Y+30, html.EscapeString(n.Text()))
		sb.WriteString("  </g>\n")
	}
	sb.WriteString("</svg>\n")
	return sb.String()
}
