package info

import (
	"fmt"
	"maps"
	"runtime"
	"slices"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/j-veylop/handwash-dashboard-tui/internal/models"
	"github.com/j-veylop/handwash-dashboard-tui/internal/ui/styles"
	"github.com/j-veylop/handwash-dashboard-tui/internal/version"
)

const auditTimeLayout = "2006-01-02 15:04:05"

// View renders the info tab.
func (m *Model) View() string {
	sections := []string{
		m.renderTitle(),
		m.renderConfigCard(),
		m.renderPassesCard(),
		m.renderTogglesCard(),
		m.renderAboutCard(),
	}

	m.viewport.SetContent(lipgloss.JoinVertical(lipgloss.Left, sections...))

	return styles.DocStyle.
		Width(m.width).
		Height(m.height).
		Render(m.viewport.View())
}

func (m *Model) cardWidth() int {
	return min(max(m.width-6, 50), 100)
}

// renderTitle renders the info tab title.
func (m *Model) renderTitle() string {
	title := styles.TitleStyle.Render("Info")
	subtitle := styles.HelpStyle.Render("Configuration, audit history and build information")

	return lipgloss.JoinVertical(lipgloss.Left, title, subtitle, "")
}

func (m *Model) renderCard(title string, rows ...string) string {
	rows = append([]string{styles.CardTitleStyle.Render(title), ""}, rows...)
	return styles.CardStyle.Width(m.cardWidth()).Render(
		lipgloss.JoinVertical(lipgloss.Left, rows...),
	)
}

// renderConfigCard renders the effective configuration.
func (m *Model) renderConfigCard() string {
	cfg := m.config
	if cfg == nil {
		return m.renderCard("Configuration", styles.HelpStyle.Render("Configuration not loaded"))
	}

	return m.renderCard("Configuration",
		renderConfigRow("Store Backend", cfg.StoreBackend),
		renderConfigRow("Store", cfg.StoreLocation()),
		renderConfigRow("Events Path", cfg.EventsPath),
		renderConfigRow("Device Path", cfg.DevicePath),
		renderConfigRow("Units", strings.Join(cfg.DeviceUnits, ", ")),
		renderConfigRow("Remote Timeout", cfg.RemoteTimeout.String()),
		renderConfigRow("Auto Refresh", refreshLabel(cfg.RefreshInterval)),
		renderConfigRow("Histogram Bins", fmt.Sprintf("%gs wide up to %gs", cfg.HistogramBinWidth, cfg.HistogramBinMax)),
		renderConfigRow("Export Dir", cfg.ExportDir),
		renderConfigRow("Database", cfg.DatabasePath),
		renderConfigRow("Audit Retention", cfg.AuditRetention.String()),
		renderConfigRow("Log File", cfg.LogPath),
		"",
		styles.HelpStyle.Render("Press 'c' to copy the store location"),
	)
}

func refreshLabel(d time.Duration) string {
	if d <= 0 {
		return "off"
	}
	return "every " + d.String()
}

// renderConfigRow renders a configuration key-value row.
func renderConfigRow(label, value string) string {
	labelStyle := lipgloss.NewStyle().
		Width(18).
		Foreground(styles.TextMuted)

	valueStyle := lipgloss.NewStyle().
		Foreground(styles.TextPrimary)

	if value == "" {
		valueStyle = styles.MissingValueStyle
		value = "not set"
	}

	return labelStyle.Render(label+":") + " " + valueStyle.Render(value)
}

// renderPassesCard lists the most recent refresh passes.
func (m *Model) renderPassesCard() string {
	if m.auditErr != nil {
		return m.renderCard("Recent Refreshes",
			styles.ErrorTextStyle.Render(fmt.Sprintf("Audit history unavailable: %v", m.auditErr)))
	}
	if len(m.passes) == 0 {
		return m.renderCard("Recent Refreshes", styles.HelpStyle.Render("No refreshes recorded"))
	}

	rows := make([]string, 0, len(m.passes))
	for _, p := range m.passes {
		line := fmt.Sprintf("%s  %5d ms  %d records",
			p.Timestamp.Local().Format(auditTimeLayout), p.DurationMs, p.RecordCount)
		if p.Error != "" {
			rows = append(rows, styles.ErrorTextStyle.Render("✗ "+line+"  "+p.Error))
		} else {
			rows = append(rows, styles.SuccessTextStyle.Render("✓ ")+line)
		}
	}
	return m.renderCard("Recent Refreshes", rows...)
}

// renderTogglesCard lists recent toggle writes and failure counts per unit.
func (m *Model) renderTogglesCard() string {
	if m.auditErr != nil {
		return m.renderCard("Recent Toggles", styles.HelpStyle.Render("Audit history unavailable"))
	}
	if len(m.toggles) == 0 {
		return m.renderCard("Recent Toggles", styles.HelpStyle.Render("No toggles recorded"))
	}

	rows := make([]string, 0, len(m.toggles)+3)
	for _, e := range m.toggles {
		line := fmt.Sprintf("%s  unit %-6s → %s",
			e.Timestamp.Local().Format(auditTimeLayout), e.Unit, models.StateOf(e.Desired))
		if e.Success {
			rows = append(rows, styles.SuccessTextStyle.Render("✓ ")+line)
		} else {
			rows = append(rows, styles.ErrorTextStyle.Render("✗ "+line+"  "+e.Error))
		}
	}

	if len(m.failures) > 0 {
		units := slices.SortedFunc(maps.Keys(m.failures), models.CompareKeys)
		parts := make([]string, len(units))
		for i, u := range units {
			parts[i] = fmt.Sprintf("unit %s: %d", u, m.failures[u])
		}
		rows = append(rows, "", styles.WarningTextStyle.Render("Failed writes: "+strings.Join(parts, ", ")))
	}

	return m.renderCard("Recent Toggles", rows...)
}

// renderAboutCard renders the about/version information card.
func (m *Model) renderAboutCard() string {
	return m.renderCard("About Handwashing Dashboard",
		renderConfigRow("Version", version.GetVersion()),
		renderConfigRow("Build Date", version.GetDate()),
		renderConfigRow("Git Commit", version.GetCommit()),
		renderConfigRow("Go Version", runtime.Version()),
		renderConfigRow("Platform", fmt.Sprintf("%s/%s", runtime.GOOS, runtime.GOARCH)),
	)
}
