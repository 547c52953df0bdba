// Package tui renders bench state for terminals.
package tui

import (
	"fmt"
	"io"
	"os"

	"github.com/aretw0/testbench/pkg/node"
	"github.com/muesli/termenv"
	"golang.org/x/term"
)

// ProfileFor picks the color profile for f: plain ASCII unless f is a terminal.
func ProfileFor(f *os.File) termenv.Profile {
	if !term.IsTerminal(int(f.Fd())) {
		return termenv.Ascii
	}
	return termenv.EnvColorProfile()
}

// RenderTree writes the tree rooted at root, one node per line, with an
// activation marker and the node's info when it differs from its name.
func RenderTree(w io.Writer, root node.Component, p termenv.Profile) {
	renderNode(w, root.Base(), "", "", p)
}

func renderNode(w io.Writer, n *node.Node, lead, branch string, p termenv.Profile) {
	marker := p.String("○").Foreground(p.Color("#9ca3af"))
	if n.Active() {
		marker = p.String("●").Foreground(p.Color("#22c55e"))
	}
	line := fmt.Sprintf("%s%s%s %s", lead, branch, marker, n.Name())
	if n.Info() != n.Name() {
		line += "  " + p.String(n.Info()).Faint().String()
	}
	fmt.Fprintln(w, line)

	children := n.Children()
	childLead := lead
	switch branch {
	case "├── ":
		childLead += "│   "
	case "└── ":
		childLead += "    "
	}
	for i, c := range children {
		next := "├── "
		if i == len(children)-1 {
			next = "└── "
		}
		renderNode(w, c.Base(), childLead, next, p)
	}
}

// Row is one line of a readings table.
type Row struct {
	Name  string
	Value string
	Units string
	Valid bool
}

// RenderReadings writes an aligned name/value table, flagging invalid rows.
func RenderReadings(w io.Writer, rows []Row, p termenv.Profile) {
	width := 0
	for _, r := range rows {
		width = max(width, len(r.Name))
	}
	for _, r := range rows {
		value := r.Value
		if r.Units != "" {
			value += " " + r.Units
		}
		status := p.String("ok").Foreground(p.Color("#22c55e"))
		if !r.Valid {
			status = p.String("out of range").Foreground(p.Color("#ef4444")).Bold()
		}
		fmt.Fprintf(w, "%-*s  %s  %s\n", width, r.Name, value, status)
	}
}
