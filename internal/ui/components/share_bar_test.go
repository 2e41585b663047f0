package components

import (
	"strings"
	"testing"
	"time"
)

func TestShareBar_Setters(t *testing.T) {
	bar := NewShareBar(30)
	if bar.SetPercent(75.5) == nil {
		t.Error("SetPercent should start an animation")
	}
	if bar.percent != 75.5 || bar.targetPercent != 75.5 {
		t.Errorf("percent = %f, want 75.5", bar.percent)
	}

	bar.SetLabel("Test")
	if bar.label != "Test" {
		t.Errorf("label = %s, want Test", bar.label)
	}

	bar.SetWidth(20)
	if bar.progress.Width != 20 {
		t.Errorf("width = %d, want 20", bar.progress.Width)
	}
}

func TestShareBar_Animation(t *testing.T) {
	bar := NewShareBar(30)
	bar.SetPercent(10)

	for range 100 {
		bar, _ = bar.Update(AnimationTickMsg(time.Now()))
	}
	if bar.Percent() != 10 {
		t.Errorf("Percent = %f, want 10 after animating", bar.Percent())
	}

	bar, _ = bar.Update(AnimationTickMsg(time.Now()))
	if bar.isAnimating {
		t.Error("animation should stop at the target")
	}

	bar.SetPercent(0)
	for range 100 {
		bar, _ = bar.Update(AnimationTickMsg(time.Now()))
	}
	if bar.Percent() != 0 {
		t.Errorf("Percent = %f, want 0 after animating down", bar.Percent())
	}
}

func TestShareBar_View(t *testing.T) {
	bar := NewShareBar(30)
	if view := bar.View(50, "Unit 1", 60); !strings.Contains(view, "Unit 1") || !strings.Contains(view, "50%") {
		t.Errorf("View() = %q", view)
	}
	if view := bar.ViewCompact(50, 20); !strings.Contains(view, "50%") {
		t.Error("ViewCompact() should contain percentage")
	}
}

func TestRenderGradientBar(t *testing.T) {
	if RenderGradientBar(50, 0) != "" {
		t.Error("zero width should render nothing")
	}

	bar := RenderGradientBar(50, 10)
	if got := strings.Count(bar, "█"); got != 5 {
		t.Errorf("filled cells = %d, want 5", got)
	}
	if got := strings.Count(bar, "░"); got != 5 {
		t.Errorf("empty cells = %d, want 5", got)
	}
}

func TestSimpleShareBar(t *testing.T) {
	s := SimpleShareBar(25, "LED on", 40)
	if !strings.Contains(s, "LED on") || !strings.Contains(s, "25%") {
		t.Errorf("SimpleShareBar = %q", s)
	}
}

func TestInterpolateColor(t *testing.T) {
	if got := interpolateColor("#000000", "#ffffff", 0); got != "#000000" {
		t.Errorf("start = %s", got)
	}
	if got := interpolateColor("#000000", "#ffffff", 1); got != "#ffffff" {
		t.Errorf("end = %s", got)
	}
	if got := hexToRGB("zz"); got != [3]int{0, 0, 0} {
		t.Errorf("invalid hex = %v", got)
	}
}
