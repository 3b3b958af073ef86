package generator

import (
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/pmezard/go-difflib/difflib"
	"golang.org/x/term"
)

// Lipgloss styles for diff output
var (
	headerStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	hunkStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("cyan")).Bold(true)
	addedStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("green"))
	removedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("red"))
)

// UnifiedDiff returns a unified diff between old and newer with three lines
// of context. Identical inputs yield an empty string.
func UnifiedDiff(path string, old, newer []byte) string {
	diff, err := difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
		A:        splitLines(old),
		B:        splitLines(newer),
		FromFile: "a/" + path,
		ToFile:   "b/" + path,
		Context:  3,
	})
	if err != nil {
		return ""
	}
	return diff
}

func splitLines(content []byte) []string {
	if len(content) == 0 {
		return nil
	}
	return difflib.SplitLines(string(content))
}

// ColorizeDiff styles the lines of a unified diff.
func ColorizeDiff(diff string) string {
	lines := strings.SplitAfter(diff, "\n")
	var sb strings.Builder
	for _, line := range lines {
		body := strings.TrimSuffix(line, "\n")
		nl := line[len(body):]

		switch {
		case strings.HasPrefix(body, "---"), strings.HasPrefix(body, "+++"):
			sb.WriteString(headerStyle.Render(body))
		case strings.HasPrefix(body, "@@"):
			sb.WriteString(hunkStyle.Render(body))
		case strings.HasPrefix(body, "+"):
			sb.WriteString(addedStyle.Render(body))
		case strings.HasPrefix(body, "-"):
			sb.WriteString(removedStyle.Render(body))
		default:
			sb.WriteString(body)
		}
		sb.WriteString(nl)
	}
	return sb.String()
}

// WriteDiff prints diff to w, colored when w is a terminal.
func WriteDiff(w io.Writer, diff string) error {
	if IsTerminal(w) {
		diff = ColorizeDiff(diff)
	}
	_, err := io.WriteString(w, diff)
	return err
}

// IsTerminal reports whether v is a file attached to a terminal, e.g.
// os.Stdin or a cobra output writer.
func IsTerminal(v any) bool {
	f, ok := v.(interface{ Fd() uintptr })
	return ok && term.IsTerminal(int(f.Fd()))
}
