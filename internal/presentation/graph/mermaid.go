package graph

import (
	"fmt"
	"strings"

	"github.com/aretw0/testbench/pkg/node"
)

// GenerateMermaid produces a Mermaid flowchart of the tree rooted at root.
// Node IDs are the sanitized node paths. Shapes follow the node's role:
// - Root: ((Circle))
// - Connectable (has a Connect override): [[Subroutine]]
// - Default: [Rectangle]
// Inactive nodes get the "inactive" class.
func GenerateMermaid(root node.Component) string {
	var sb strings.Builder
	sb.WriteString("graph TD\n")

	var inactive []string
	node.WalkPaths(root, func(c node.Component, path string, depth int) bool {
		n := c.Base()
		id := sanitizeMermaidID(path)

		opener, closer := "[", "]"
		switch {
		case depth == 0:
			opener, closer = "((", "))"
		case n.Capabilities().Connect.Present():
			opener, closer = "[[", "]]"
		}

		label := n.Name()
		if n.Info() != n.Name() {
			label += "<br/>" + n.Info()
		}
		// Escape double quotes for the Mermaid label
		label = strings.ReplaceAll(label, "\"", "'")
		sb.WriteString(fmt.Sprintf("    %s%s\"%s\"%s\n", id, opener, label, closer))

		if i := strings.LastIndex(path, "/"); i >= 0 {
			sb.WriteString(fmt.Sprintf("    %s --> %s\n", sanitizeMermaidID(path[:i]), id))
		}
		if !n.Active() {
			inactive = append(inactive, id)
		}
		return true
	})

	sb.WriteString("\n    classDef inactive fill:#eeeeee,stroke:#9e9e9e,stroke-dasharray:4 4,color:#616161;\n")
	for _, id := range inactive {
		sb.WriteString(fmt.Sprintf("    class %s inactive;\n", id))
	}

	return sb.String()
}

func sanitizeMermaidID(id string) string {
	s := strings.ReplaceAll(id, ".", "_")
	s = strings.ReplaceAll(s, "-", "_")
	s = strings.ReplaceAll(s, " ", "_")
	s = strings.ReplaceAll(s, "/", "_")
	s = strings.ReplaceAll(s, "\\", "_")
	return s
}
