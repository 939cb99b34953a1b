package hclflow

import (
	"github.com/hashicorp/hcl/v2/hclwrite"
	"github.com/zclconf/go-cty/cty"

	"flowbuilder/internal/domain"
)

// Encode renders flows in the file format read by Decode.
// Edges with an endpoint outside the flow are left out.
func Encode(flows ...domain.Flow) []byte {
	file := hclwrite.NewEmptyFile()
	body := file.Body()

	for i, f := range flows {
		if i > 0 {
			body.AppendNewline()
		}
		fb := body.AppendNewBlock("flow", []string{f.Name}).Body()

		known := make(map[string]bool, len(f.Nodes))
		for _, n := range f.Nodes {
			known[n.ID] = true
		}
		next := make(map[string]string, len(f.Edges))
		for _, e := range f.Edges {
			if known[e.Source] && known[e.Target] {
				next[e.Source] = e.Target
			}
		}

		for j, n := range f.Nodes {
			if j > 0 {
				fb.AppendNewline()
			}
			mb := fb.AppendNewBlock("message", []string{n.ID}).Body()
			mb.SetAttributeValue("text", cty.StringVal(n.Text()))
			mb.SetAttributeValue("x", cty.NumberFloatVal(n.Position.X))
			mb.SetAttributeValue("y", cty.NumberFloatVal(n.Position.Y))
			if target, ok := next[n.ID]; ok {
				mb.SetAttributeValue("next", cty.StringVal(target))
			}
		}
	}

	return hclwrite.Format(file.Bytes())
}
