package devices

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"

	"github.com/j-veylop/handwash-dashboard-tui/internal/app"
	"github.com/j-veylop/handwash-dashboard-tui/internal/models"
	"github.com/j-veylop/handwash-dashboard-tui/internal/ui/styles"
)

// View renders the devices tab.
func (m *Model) View() string {
	devices := m.state.GetDevices()

	sections := []string{m.renderTitle(devices)}
	if len(devices) == 0 {
		sections = append(sections, m.renderEmptyState())
	} else {
		sections = append(sections, m.renderTable(), m.renderSelected(devices))
		if problems := m.renderProblems(devices); problems != "" {
			sections = append(sections, problems)
		}
	}

	return styles.DocStyle.
		Width(m.width).
		Height(m.height).
		Render(lipgloss.JoinVertical(lipgloss.Left, sections...))
}

func (m *Model) cardWidth() int {
	return max(m.width-6, 50)
}

// renderTitle renders the tab title with an on/off tally.
func (m *Model) renderTitle(devices []models.DeviceStatus) string {
	title := styles.TitleStyle.Render("LED Toggles")

	on := 0
	for _, d := range devices {
		if d.State == models.DeviceOn {
			on++
		}
	}
	subtitle := styles.HelpStyle.Render(fmt.Sprintf("%d units, %d with LEDs on", len(devices), on))
	if m.state.IsDeviceUpdating() {
		subtitle += "  " + styles.InfoTextStyle.Render("⟳ updating...")
	}

	return lipgloss.JoinVertical(lipgloss.Left, title, subtitle, "")
}

func (m *Model) renderEmptyState() string {
	content := lipgloss.JoinVertical(lipgloss.Center,
		"",
		styles.SubTitleStyle.Render("No Units Configured"),
		"",
		styles.HelpStyle.Render("Set DEVICE_UNITS to control LED toggles."),
		"",
	)
	return styles.CardStyle.Width(m.cardWidth()).Render(content)
}

func (m *Model) renderTable() string {
	return styles.CardStyle.Width(m.cardWidth()).Render(m.table.View())
}

// renderSelected shows the highlighted unit's state in its own color.
func (m *Model) renderSelected(devices []models.DeviceStatus) string {
	unit := m.selectedUnit()
	for _, d := range devices {
		if d.Unit != unit {
			continue
		}
		state := styles.DeviceStyle(d.State).Render("● " + d.State.String())
		return fmt.Sprintf("Unit %s LEDs: %s", d.Unit, state)
	}
	return ""
}

// renderProblems lists read and write failures separately for every unit.
func (m *Model) renderProblems(devices []models.DeviceStatus) string {
	var rows []string
	for _, d := range devices {
		if d.ReadError != nil {
			rows = append(rows, styles.WarningTextStyle.Render(
				fmt.Sprintf("⚠ read:  %s", app.DescribeError(d.ReadError))))
		}
		if d.WriteError != nil {
			rows = append(rows, styles.ErrorTextStyle.Render(
				fmt.Sprintf("✗ write: %s", app.DescribeError(d.WriteError))))
		}
	}
	if len(rows) == 0 {
		return ""
	}

	title := styles.CardTitleStyle.Render("Problems")
	rows = append([]string{title}, rows...)
	return styles.CardStyle.Width(m.cardWidth()).Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
}
