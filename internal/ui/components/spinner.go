package components

import (
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/j-veylop/handwash-dashboard-tui/internal/ui/styles"
)

var spinnerLabelStyle = lipgloss.NewStyle().Foreground(styles.TextSecondary)

// Spinner is a labelled dot spinner shown while data is being loaded.
type Spinner struct {
	model spinner.Model
	label string
}

// NewSpinner creates a spinner showing label next to its frame.
func NewSpinner(label string) Spinner {
	return Spinner{
		model: spinner.New(
			spinner.WithSpinner(spinner.Dot),
			spinner.WithStyle(lipgloss.NewStyle().Foreground(styles.Primary)),
		),
		label: label,
	}
}

// Init starts the animation.
func (s Spinner) Init() tea.Cmd {
	return s.model.Tick
}

// Update advances the frame on tick messages.
func (s Spinner) Update(msg tea.Msg) (Spinner, tea.Cmd) {
	var cmd tea.Cmd
	s.model, cmd = s.model.Update(msg)
	return s, cmd
}

// Frame renders the current frame alone.
func (s Spinner) Frame() string {
	return s.model.View()
}

// View renders the frame followed by the label.
func (s Spinner) View() string {
	if s.label == "" {
		return s.Frame()
	}
	return s.Frame() + " " + spinnerLabelStyle.Render(s.label)
}

// Label returns the text shown next to the frame.
func (s Spinner) Label() string {
	return s.label
}

// SetLabel replaces the text shown next to the frame.
func (s *Spinner) SetLabel(label string) {
	s.label = label
}

// Centered renders the spinner in the middle of a width by height area.
func (s Spinner) Centered(width, height int) string {
	return styles.CenterBoth(s.View(), width, height)
}
