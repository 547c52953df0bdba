package tui

import (
	"fmt"
	"io"

	"github.com/muesli/termenv"
)

// PrintBanner writes the testbench ASCII art banner.
func PrintBanner(w io.Writer, p termenv.Profile) {
	// Using a subtle gradient-like color scheme (Teal/Cyan)
	lines := []struct{ text, color string }{
		{" _            _   _                     _     ", "#2dd4bf"},
		{"| |_ ___  ___| |_| |__   ___ _ __   ___| |__  ", "#22d3ee"},
		{"| __/ _ \\/ __| __| '_ \\ / _ \\ '_ \\ / __| '_ \\ ", "#38bdf8"},
		{"| ||  __/\\__ \\ |_| |_) |  __/ | | | (__| | | |", "#60a5fa"},
		{" \\__\\___||___/\\__|_.__/ \\___|_| |_|\\___|_| |_|", "#818cf8"},
	}

	fmt.Fprintln(w)
	for _, l := range lines {
		fmt.Fprintln(w, p.String(l.text).Foreground(p.Color(l.color)))
	}
	fmt.Fprintln(w)
}
