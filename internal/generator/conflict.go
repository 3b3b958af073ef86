package generator

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// ConflictResolution represents what to do with a file heron did not
// generate.
type ConflictResolution int

const (
	Skip ConflictResolution = iota
	Overwrite
	ShowDiff
	Cancel
)

func (r ConflictResolution) String() string {
	switch r {
	case Skip:
		return "skip"
	case Overwrite:
		return "overwrite"
	case ShowDiff:
		return "diff"
	default:
		return "cancel"
	}
}

// ConflictStrategy decides the fate of one conflicting file.
type ConflictStrategy interface {
	Resolve(conflict *ConflictError) (ConflictResolution, error)
}

// Resolver handles file conflicts found while validating operations.
type Resolver struct {
	strategy ConflictStrategy
}

// ResolverOptions selects a strategy. Force and Skip are exclusive; the
// menu is only used when Interactive is set and neither flag is.
type ResolverOptions struct {
	Force       bool
	Skip        bool
	Interactive bool
	In          io.Reader // menu input (defaults to os.Stdin)
	Out         io.Writer // menu output (defaults to os.Stdout)
}

// NewResolver creates a conflict resolver for the given flags.
// Returns error if --force is combined with --skip.
func NewResolver(opts ResolverOptions) (*Resolver, error) {
	if opts.Force && opts.Skip {
		return nil, fmt.Errorf("--force cannot be combined with --skip")
	}
	return NewResolverWithStrategy(selectStrategy(opts)), nil
}

// NewResolverWithStrategy wraps a custom strategy.
func NewResolverWithStrategy(s ConflictStrategy) *Resolver {
	return &Resolver{strategy: s}
}

// ResolveConflict returns the decision for conflict.
func (r *Resolver) ResolveConflict(conflict *ConflictError) (ConflictResolution, error) {
	return r.strategy.Resolve(conflict)
}

func selectStrategy(opts ResolverOptions) ConflictStrategy {
	switch {
	case opts.Force:
		return &ForceStrategy{}
	case opts.Skip:
		return &SkipStrategy{}
	case opts.Interactive:
		in, out := opts.In, opts.Out
		if in == nil {
			in = os.Stdin
		}
		if out == nil {
			out = os.Stdout
		}
		return &InteractiveStrategy{In: in, Out: out}
	default:
		return &RefuseStrategy{}
	}
}

// ForceStrategy always returns Overwrite (no prompts)
type ForceStrategy struct{}

func (s *ForceStrategy) Resolve(*ConflictError) (ConflictResolution, error) {
	return Overwrite, nil
}

// SkipStrategy always returns Skip (no prompts)
type SkipStrategy struct{}

func (s *SkipStrategy) Resolve(*ConflictError) (ConflictResolution, error) {
	return Skip, nil
}

// RefuseStrategy cancels on every conflict; the run fails with the
// ConflictError. Used when nobody can be asked.
type RefuseStrategy struct{}

func (s *RefuseStrategy) Resolve(*ConflictError) (ConflictResolution, error) {
	return Cancel, nil
}

// InteractiveStrategy shows a menu with keyboard navigation. Choosing the
// diff shows it and returns to the menu.
type InteractiveStrategy struct {
	In  io.Reader
	Out io.Writer
}

func (s *InteractiveStrategy) Resolve(conflict *ConflictError) (ConflictResolution, error) {
	info, err := os.Stat(conflict.Path)
	if err != nil && !os.IsNotExist(err) {
		return Cancel, fmt.Errorf("failed to stat file: %w", err)
	}

	for {
		p := tea.NewProgram(newConflictMenuModel(conflict.Path, info), tea.WithInput(s.In), tea.WithOutput(s.Out))
		final, err := p.Run()
		if err != nil {
			return Cancel, fmt.Errorf("failed to show menu: %w", err)
		}

		result := final.(conflictMenuModel)
		if result.selected == nil {
			return Cancel, nil
		}
		if *result.selected != ShowDiff {
			return *result.selected, nil
		}

		if err := s.showDiff(conflict); err != nil {
			return Cancel, err
		}
	}
}

// showDiff prints short diffs inline and pages long ones.
func (s *InteractiveStrategy) showDiff(conflict *ConflictError) error {
	diff := UnifiedDiff(conflict.Path, conflict.Existing, conflict.Generated)
	if strings.Count(diff, "\n") <= 20 {
		return WriteDiff(s.Out, diff)
	}

	p := tea.NewProgram(newDiffViewerModel(conflict.Path, ColorizeDiff(diff)),
		tea.WithAltScreen(), tea.WithInput(s.In), tea.WithOutput(s.Out))
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("failed to show diff: %w", err)
	}
	return nil
}

var (
	warningStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("yellow")).Bold(true)
	selectedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("cyan")).Bold(true)
	mutedStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	borderStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	titleStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("white")).Bold(true)
)

var menuChoices = []struct {
	label      string
	resolution ConflictResolution
}{
	{"Show diff and decide", ShowDiff},
	{"Skip (keep existing file)", Skip},
	{"Overwrite (replace with generated code)", Overwrite},
	{"Cancel generation", Cancel},
}

type conflictMenuModel struct {
	path     string
	fileInfo os.FileInfo
	cursor   int
	selected *ConflictResolution
}

func newConflictMenuModel(path string, info os.FileInfo) conflictMenuModel {
	return conflictMenuModel{path: path, fileInfo: info}
}

func (m conflictMenuModel) Init() tea.Cmd {
	return nil
}

func (m conflictMenuModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch key.String() {
	case "ctrl+c", "q", "esc":
		return m, tea.Quit
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(menuChoices)-1 {
			m.cursor++
		}
	case "enter":
		resolution := menuChoices[m.cursor].resolution
		m.selected = &resolution
		return m, tea.Quit
	}
	return m, nil
}

func (m conflictMenuModel) View() string {
	var b strings.Builder

	b.WriteString(warningStyle.Render("! Not a generated file: ") + titleStyle.Render(m.path) + "\n")
	if m.fileInfo != nil {
		b.WriteString(mutedStyle.Render("    Last modified: ") + formatRelativeTime(m.fileInfo.ModTime()) + "\n")
		b.WriteString(mutedStyle.Render("    Size: ") + formatFileSize(m.fileInfo.Size()) + "\n")
	}
	b.WriteString("\n")
	b.WriteString(mutedStyle.Render("    [↑/↓] Navigate    [Enter] Select    [q] Cancel") + "\n\n")

	for i, choice := range menuChoices {
		if m.cursor == i {
			b.WriteString("    " + selectedStyle.Render("> "+choice.label) + "\n")
		} else {
			b.WriteString("      " + choice.label + "\n")
		}
	}
	return b.String()
}

type diffViewerModel struct {
	path     string
	diff     string
	viewport viewport.Model
	ready    bool
}

func newDiffViewerModel(path, diff string) diffViewerModel {
	return diffViewerModel{path: path, diff: diff}
}

func (m diffViewerModel) Init() tea.Cmd {
	return nil
}

func (m diffViewerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q", "esc":
			return m, tea.Quit
		}

	case tea.WindowSizeMsg:
		// header and footer lines
		const chrome = 2
		if !m.ready {
			m.viewport = viewport.New(msg.Width, max(1, msg.Height-chrome))
			m.viewport.SetContent(m.diff)
			m.ready = true
		} else {
			m.viewport.Width = msg.Width
			m.viewport.Height = max(1, msg.Height-chrome)
		}
	}

	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

func (m diffViewerModel) View() string {
	if !m.ready {
		return "Initializing..."
	}
	header := borderStyle.Render(fmt.Sprintf("── Diff: %s (%3.0f%%)", m.path, m.viewport.ScrollPercent()*100))
	footer := borderStyle.Render("── [↑/↓/PgUp/PgDn] Scroll    [q] Back to menu")
	return header + "\n" + m.viewport.View() + "\n" + footer
}

// formatRelativeTime formats a time as relative (e.g., "2 hours ago")
func formatRelativeTime(t time.Time) string {
	d := time.Since(t)
	plural := func(n int, unit string) string {
		if n == 1 {
			return "1 " + unit + " ago"
		}
		return fmt.Sprintf("%d %ss ago", n, unit)
	}

	switch {
	case d < time.Minute:
		return "just now"
	case d < time.Hour:
		return plural(int(d.Minutes()), "minute")
	case d < 24*time.Hour:
		return plural(int(d.Hours()), "hour")
	case d < 7*24*time.Hour:
		return plural(int(d.Hours()/24), "day")
	case d < 30*24*time.Hour:
		return plural(int(d.Hours()/24/7), "week")
	case d < 365*24*time.Hour:
		return plural(int(d.Hours()/24/30), "month")
	default:
		return plural(int(d.Hours()/24/365), "year")
	}
}

// formatFileSize formats file size in human-readable format
func formatFileSize(size int64) string {
	const unit = 1024
	if size < unit {
		return fmt.Sprintf("%d B", size)
	}

	div, exp := int64(unit), 0
	for n := size / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %cB", float64(size)/float64(div), "KMGTPE"[exp])
}
