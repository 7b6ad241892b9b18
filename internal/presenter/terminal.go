package presenter

import (
	"fmt"
	"io"
	"strings"
)

type terminalSurface struct {
	w io.Writer
}

// NewTerminalSurface renders notifications as plain text blocks.
func NewTerminalSurface(w io.Writer) Surface {
	return &terminalSurface{w: w}
}

func (s *terminalSurface) Show(title, message, icon string, buttons []Button) {
	labels := make([]string, len(buttons))
	for i, b := range buttons {
		labels[i] = "[" + b.Label + "]"
	}

	fmt.Fprintf(s.w, "(%s) %s\n", icon, title)
	if message != "" {
		fmt.Fprintf(s.w, "    %s\n", message)
	}
	fmt.Fprintf(s.w, "    %s\n", strings.Join(labels, " "))
}

type terminalNavigator struct {
	w io.Writer
}

func NewTerminalNavigator(w io.Writer) Navigator {
	return &terminalNavigator{w: w}
}

func (n *terminalNavigator) Navigate(route Route) {
	fmt.Fprintf(n.w, "-> %s\n", route)
}
