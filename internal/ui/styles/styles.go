// Package styles holds the lipgloss palette and shared styles of the
// dashboard.
package styles

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/j-veylop/handwash-dashboard-tui/internal/models"
)

// Palette (ANSI 256).
var (
	Primary   = lipgloss.Color("37")  // teal
	Secondary = lipgloss.Color("69")  // blue
	Subtle    = lipgloss.Color("240") // gray

	LEDOn  = lipgloss.Color("48")
	LEDOff = lipgloss.Color("244")

	Success = lipgloss.Color("42")
	Error   = lipgloss.Color("196")
	Warning = lipgloss.Color("220")
	Info    = lipgloss.Color("39")

	BgDark   = lipgloss.Color("235")
	BgAccent = lipgloss.Color("236")

	TextPrimary   = lipgloss.Color("252")
	TextSecondary = lipgloss.Color("245")
	TextMuted     = lipgloss.Color("240")
)

// Chrome colors adapt to light terminals.
var (
	chromeSubtle    = lipgloss.AdaptiveColor{Light: "#9B9B9B", Dark: "#5C5C5C"}
	chromeHighlight = lipgloss.AdaptiveColor{Light: "#0F766E", Dark: "#2DD4BF"}
)

// Headings and page layout.
var (
	TitleStyle     = lipgloss.NewStyle().Bold(true).Foreground(Primary).MarginBottom(1)
	SubTitleStyle  = lipgloss.NewStyle().Bold(true).Foreground(Secondary).MarginBottom(1)
	DocStyle       = lipgloss.NewStyle().Margin(1, 2).Padding(0, 1)
	CardTitleStyle = lipgloss.NewStyle().Bold(true).Foreground(Primary).MarginBottom(1)

	CardStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(Subtle).
			Padding(1, 2).
			MarginBottom(1)

	// FocusedStyle marks the selected entry of an inline selector.
	FocusedStyle = lipgloss.NewStyle().Foreground(Primary).Bold(true)

	ProgressLabelStyle = lipgloss.NewStyle().Foreground(TextSecondary).Width(20)
	HelpStyle          = lipgloss.NewStyle().Foreground(TextMuted)
	MissingValueStyle  = lipgloss.NewStyle().Foreground(TextMuted).Italic(true)
)

// Tables.
var (
	TableCellStyle     = lipgloss.NewStyle().Padding(0, 1)
	TableSelectedStyle = lipgloss.NewStyle().Background(BgAccent).Foreground(TextPrimary).Bold(true)
)

// Message text.
var (
	ErrorTextStyle   = lipgloss.NewStyle().Foreground(Error)
	SuccessTextStyle = lipgloss.NewStyle().Foreground(Success)
	WarningTextStyle = lipgloss.NewStyle().Foreground(Warning)
	InfoTextStyle    = lipgloss.NewStyle().Foreground(Info)
)

// Application chrome: tab bar, status line, toasts and the help overlay.
var (
	NavBarStyle = lipgloss.NewStyle().
			Padding(0, 1).
			BorderStyle(lipgloss.NormalBorder()).
			BorderBottom(true).
			BorderForeground(chromeSubtle)
	NavActiveStyle   = lipgloss.NewStyle().Bold(true).Foreground(chromeHighlight).Padding(0, 2)
	NavInactiveStyle = lipgloss.NewStyle().Foreground(chromeSubtle).Padding(0, 2)

	StatusBarStyle = lipgloss.NewStyle().Foreground(chromeSubtle).Padding(0, 1)

	ToastStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(Primary).
			Padding(0, 1).
			MarginBottom(1)

	HelpPanelStyle = lipgloss.NewStyle().
			Border(lipgloss.DoubleBorder()).
			BorderForeground(Primary).
			Padding(1, 3).
			Background(BgDark)
	HelpHeadingStyle = lipgloss.NewStyle().Foreground(chromeHighlight).Bold(true)
)

var (
	deviceStyles = map[models.DeviceState]lipgloss.Style{
		models.DeviceOn:  lipgloss.NewStyle().Foreground(LEDOn).Bold(true),
		models.DeviceOff: lipgloss.NewStyle().Foreground(LEDOff),
	}
	deviceUnknownStyle = lipgloss.NewStyle().Foreground(Subtle)
)

// DeviceStyle returns the style for a cached LED state.
func DeviceStyle(s models.DeviceState) lipgloss.Style {
	if st, ok := deviceStyles[s]; ok {
		return st
	}
	return deviceUnknownStyle
}

// GetShareStyle returns the style for an LED-on share given in percent:
// green above 50, yellow above 20, red otherwise.
func GetShareStyle(percent float64) lipgloss.Style {
	switch {
	case percent > 50:
		return SuccessTextStyle
	case percent > 20:
		return WarningTextStyle
	default:
		return ErrorTextStyle
	}
}

// CenterBoth centers content both horizontally and vertically.
func CenterBoth(content string, width, height int) string {
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, content)
}
