package app

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"github.com/j-veylop/handwash-dashboard-tui/internal/ui/styles"
)

// toastTop is the first screen row toasts may cover, below the tab bar.
const toastTop = 2

var toastKinds = map[NotificationType]struct {
	prefix string
	style  lipgloss.Style
}{
	NotificationSuccess: {"[OK]", styles.SuccessTextStyle.Padding(0, 1)},
	NotificationError:   {"[ERR]", styles.ErrorTextStyle.Bold(true).Padding(0, 1)},
	NotificationWarning: {"[WARN]", styles.WarningTextStyle.Padding(0, 1)},
	NotificationInfo:    {"[INFO]", styles.InfoTextStyle.Padding(0, 1)},
	NotificationLoading: {"", styles.InfoTextStyle.Padding(0, 1)},
}

// View renders the tab bar, the active tab, the status line and any
// overlays.
func (m *Model) View() string {
	var b strings.Builder

	if m.width > 0 {
		b.WriteString(m.renderNavbar())
		b.WriteString("\n")
	}

	if !m.ready {
		b.WriteString(lipgloss.NewStyle().Padding(1, 2).Render(m.spinner.View() + " Loading..."))
		return b.String()
	}

	if tab := m.currentTab(); tab != nil {
		b.WriteString(tab.View())
	}
	b.WriteString("\n")
	b.WriteString(m.renderStatusBar())

	screen := b.String()

	if m.showHelp {
		help := m.renderHelp()
		x := (m.width - lipgloss.Width(help)) / 2
		y := (m.height - lipgloss.Height(help)) / 2
		screen = overlay(screen, help, x, y)
	}

	if toasts := m.renderNotifications(); len(toasts) > 0 {
		stack := lipgloss.JoinVertical(lipgloss.Right, toasts...)
		screen = overlay(screen, stack, m.width-lipgloss.Width(stack)-2, toastTop)
	}

	return screen
}

// overlay draws top over base with its top-left corner at (x, y). Rows of
// top that fall below base are dropped.
func overlay(base, top string, x, y int) string {
	x, y = max(x, 0), max(y, 0)
	rows := strings.Split(base, "\n")
	width := lipgloss.Width(top)

	for i, line := range strings.Split(top, "\n") {
		row := y + i
		if row >= len(rows) {
			break
		}
		left := ansi.Truncate(rows[row], x, "")
		if pad := x - lipgloss.Width(left); pad > 0 {
			left += strings.Repeat(" ", pad)
		}
		rows[row] = left + line + ansi.TruncateLeft(rows[row], x+width, "")
	}

	return strings.Join(rows, "\n")
}

func (m *Model) renderNavbar() string {
	tabs := make([]string, len(m.tabNames))
	for i, name := range m.tabNames {
		if TabID(i) == m.activeTab {
			tabs[i] = styles.NavActiveStyle.Render(fmt.Sprintf("[%d] %s", i+1, name))
		} else {
			tabs[i] = styles.NavInactiveStyle.Render(fmt.Sprintf(" %d  %s", i+1, name))
		}
	}

	return styles.NavBarStyle.Width(m.width).Render(lipgloss.JoinHorizontal(lipgloss.Top, tabs...))
}

// renderStatusBar shows the store, the session and the age of the last pass.
func (m *Model) renderStatusBar() string {
	var parts []string

	if cfg := m.cfg(); cfg != nil {
		parts = append(parts, fmt.Sprintf("%s: %s", cfg.StoreBackend, cfg.StoreLocation()))
	}
	if m.services != nil {
		parts = append(parts, "session "+shortID(m.services.SessionID()))
	}

	switch {
	case m.state.IsPassRunning():
		parts = append(parts, m.spinner.View()+" refreshing")
	case !m.state.GetLastUpdated().IsZero():
		parts = append(parts, "updated "+m.state.GetLastUpdated().Format("15:04:05"))
	}

	if m.state.PassError() != nil {
		parts = append(parts, styles.ErrorTextStyle.Render("last pass failed"))
	}
	if len(parts) == 0 {
		parts = append(parts, m.help.ShortHelpView(m.keymap.ShortHelp()))
	}

	return styles.StatusBarStyle.Width(m.width).Render(strings.Join(parts, "  •  "))
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

func (m *Model) renderNotifications() []string {
	notifications := m.state.GetNotifications()
	toasts := make([]string, 0, len(notifications))

	for _, n := range notifications {
		kind := toastKinds[n.Type]
		prefix := kind.prefix
		if n.Type == NotificationLoading {
			prefix = m.spinner.View()
		}
		toasts = append(toasts, styles.ToastStyle.Render(kind.style.Render(prefix+" "+n.Message)))
	}

	return toasts
}

// renderHelp lists the global bindings followed by the active tab's.
func (m *Model) renderHelp() string {
	sections := []string{
		styles.TitleStyle.Render("Keyboard Shortcuts"),
		styles.HelpHeadingStyle.Render("Global"),
		m.help.FullHelpView(m.keymap.FullHelp()),
	}

	if tab := m.currentTab(); tab != nil {
		if groups := tab.FullHelp(); len(groups) > 0 {
			sections = append(sections,
				"",
				styles.HelpHeadingStyle.Render(m.tabNames[m.activeTab]+" Tab"),
				m.help.FullHelpView(groups),
			)
		}
	}

	sections = append(sections, "", styles.HelpStyle.Render("Press ? or Esc to close"))

	return styles.HelpPanelStyle.Render(lipgloss.JoinVertical(lipgloss.Left, sections...))
}
