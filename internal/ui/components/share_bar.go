package components

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/j-veylop/handwash-dashboard-tui/internal/logger"
	"github.com/j-veylop/handwash-dashboard-tui/internal/ui/styles"
)

const (
	shareLowColor  = "#ff6b6b"
	shareHighColor = "#51cf66"
)

// AnimationTickMsg drives ShareBar animations.
type AnimationTickMsg time.Time

func animationTick() tea.Cmd {
	return tea.Tick(time.Millisecond*50, func(t time.Time) tea.Msg {
		return AnimationTickMsg(t)
	})
}

// ShareBar renders the share of LED-on sessions as a progress bar with a
// label and percentage.
type ShareBar struct {
	progress       progress.Model
	label          string
	percent        float64
	isAnimating    bool
	targetPercent  float64
	currentPercent float64
}

// NewShareBar creates a share bar with a red-to-green gradient.
func NewShareBar(width int) ShareBar {
	p := progress.New(
		progress.WithScaledGradient(shareLowColor, shareHighColor),
		progress.WithWidth(width),
		progress.WithoutPercentage(),
	)
	return ShareBar{progress: p}
}

// Update advances the animation towards the target percentage.
func (b ShareBar) Update(msg tea.Msg) (ShareBar, tea.Cmd) {
	var cmds []tea.Cmd

	if _, ok := msg.(AnimationTickMsg); ok && b.isAnimating {
		diff := b.targetPercent - b.currentPercent
		switch {
		case diff == 0:
			b.isAnimating = false
		case diff > 0:
			b.currentPercent = min(b.currentPercent+max(diff/10, 0.5), b.targetPercent)
			cmds = append(cmds, animationTick())
		default:
			b.currentPercent = max(b.currentPercent+min(diff/10, -0.5), b.targetPercent)
			cmds = append(cmds, animationTick())
		}
	}

	model, cmd := b.progress.Update(msg)
	b.progress = model.(progress.Model)
	cmds = append(cmds, cmd)

	return b, tea.Batch(cmds...)
}

// SetPercent sets the target percentage and starts animating towards it.
func (b *ShareBar) SetPercent(percent float64) tea.Cmd {
	b.percent = percent
	b.targetPercent = percent

	if !b.isAnimating {
		b.isAnimating = true
		return tea.Batch(b.progress.SetPercent(percent/100), animationTick())
	}
	return b.progress.SetPercent(percent / 100)
}

// Percent returns the percentage the bar is currently drawn at.
func (b ShareBar) Percent() float64 {
	return b.currentPercent
}

// SetLabel sets the bar label.
func (b *ShareBar) SetLabel(label string) {
	b.label = label
}

// SetWidth sets the progress bar width.
func (b *ShareBar) SetWidth(width int) {
	b.progress.Width = width
}

// View renders the bar at percent with its label.
func (b ShareBar) View(percent float64, label string, width int) string {
	b.progress.Width = max(width-30, 10)

	bar := b.progress.ViewAs(percent / 100)
	percentStr := styles.GetShareStyle(percent).
		Width(6).
		Align(lipgloss.Right).
		Render(fmt.Sprintf("%.0f%%", percent))
	labelStr := styles.ProgressLabelStyle.Width(15).Render(label)

	return lipgloss.JoinHorizontal(lipgloss.Center, labelStr, bar, " ", percentStr)
}

// ViewCompact renders the bar without a label.
func (b ShareBar) ViewCompact(percent float64, width int) string {
	b.progress.Width = max(width-8, 5)

	bar := b.progress.ViewAs(percent / 100)
	percentStr := styles.GetShareStyle(percent).Render(fmt.Sprintf("%.0f%%", percent))

	return lipgloss.JoinHorizontal(lipgloss.Center, bar, " ", percentStr)
}

// RenderGradientBar renders just the bar characters with gradient colors.
func RenderGradientBar(percent float64, width int) string {
	if width < 1 {
		return ""
	}

	filled := min(max(int(float64(width)*percent/100), 0), width)

	var barChars []string
	for i := range width {
		if i < filled {
			t := float64(i) / float64(max(1, width-1))
			color := interpolateColor(shareLowColor, shareHighColor, t)
			barChars = append(barChars, lipgloss.NewStyle().Foreground(lipgloss.Color(color)).Render("█"))
		} else {
			barChars = append(barChars, lipgloss.NewStyle().Foreground(styles.Subtle).Render("░"))
		}
	}

	return strings.Join(barChars, "")
}

// SimpleShareBar renders a static labelled share bar.
func SimpleShareBar(percent float64, label string, width int) string {
	const percentWidth = 6
	barWidth := max(width-len(label)-1-percentWidth-4, 5)

	labelStr := lipgloss.NewStyle().Foreground(styles.TextSecondary).Render(label)
	percentStr := styles.GetShareStyle(percent).
		Width(percentWidth).
		Align(lipgloss.Right).
		Render(fmt.Sprintf("%.0f%%", percent))

	return fmt.Sprintf("%s [%s] %s", labelStr, RenderGradientBar(percent, barWidth), percentStr)
}

func interpolateColor(fromHex, toHex string, t float64) string {
	from := hexToRGB(fromHex)
	to := hexToRGB(toHex)

	r := int(float64(from[0]) + t*(float64(to[0])-float64(from[0])))
	g := int(float64(from[1]) + t*(float64(to[1])-float64(from[1])))
	b := int(float64(from[2]) + t*(float64(to[2])-float64(from[2])))

	return fmt.Sprintf("#%02x%02x%02x", r, g, b)
}

func hexToRGB(hex string) [3]int {
	hex = strings.TrimPrefix(hex, "#")
	var r, g, b int
	if _, err := fmt.Sscanf(hex, "%02x%02x%02x", &r, &g, &b); err != nil {
		logger.Error("failed to parse hex color", "hex", hex, "error", err)
		return [3]int{0, 0, 0}
	}
	return [3]int{r, g, b}
}
