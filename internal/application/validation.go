package application

import (
	"fmt"
	"strings"

	"flowbuilder/internal/domain"
)

// ValidateRequired checks if a string field is non-empty (after trimming whitespace).
// Returns a ValidationError if the field is empty.
func ValidateRequired(fieldName, value string) error {
	if strings.TrimSpace(value) == "" {
		displayName := formatFieldName(fieldName)
		return &ValidationError{
			Field:   fieldName,
			Message: fmt.Sprintf("%s is required", displayName),
		}
	}
	return nil
}

// formatFieldName converts camelCase field names to space-separated words
// for more readable error messages (e.g., "nodeID" -> "node ID")
func formatFieldName(fieldName string) string {
	replacements := map[string]string{
		"flow":     "flow name",
		"nodeID":   "node ID",
		"sourceID": "source ID",
		"targetID": "target ID",
		"afterID":  "after ID",
		"beforeID": "before ID",
		"nodeType": "node type",
		"text":     "text",
	}

	if formatted, ok := replacements[fieldName]; ok {
		return formatted
	}

	return fieldName
}

// ValidateFlowName checks that a flow name is usable as a storage key
func ValidateFlowName(name string) error {
	if err := ValidateRequired("flow", name); err != nil {
		return err
	}
	if strings.TrimSpace(name) != name {
		return &ValidationError{
			Field:   "flow",
			Message: "flow name must not start or end with whitespace",
		}
	}
	if strings.ContainsAny(name, "/\\\n\t") {
		return &ValidationError{
			Field:   "flow",
			Message: fmt.Sprintf("invalid flow name: %q", name),
		}
	}
	return nil
}

// ValidateNodeType checks that t names a node kind this build can create
func ValidateNodeType(fieldName string, t domain.NodeType) error {
	if !t.Known() {
		return &ValidationError{
			Field:   fieldName,
			Message: fmt.Sprintf("unknown %s: %s", formatFieldName(fieldName), t),
		}
	}
	return nil
}

// ValidateFlow checks node types and IDs before a flow is stored
func ValidateFlow(f domain.Flow) error {
	if err := ValidateFlowName(f.Name); err != nil {
		return err
	}
	seen := make(map[string]bool, len(f.Nodes))
	for _, n := range f.Nodes {
		if err := ValidateRequired("nodeID", n.ID); err != nil {
			return err
		}
		if seen[n.ID] {
			return &ValidationError{
				Field:   "nodeID",
				Message: fmt.Sprintf("duplicate node ID: %s", n.ID),
			}
		}
		seen[n.ID] = true
		if err := ValidateNodeType("nodeType", n.Type); err != nil {
			return err
		}
	}
	return nil
}
