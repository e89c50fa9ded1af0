// Package ui renders engine snapshots for the terminal host. It consumes
// only the read-only snapshot; nothing here touches the timer.
package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/lipgloss"

	"github.com/commons-systems/pomo/internal/config"
	"github.com/commons-systems/pomo/internal/engine"
	"github.com/commons-systems/pomo/internal/timer"
)

const (
	defaultWidth = 40

	dotFilled = "●"
	dotEmpty  = "○"

	// Work iterations shown as dots per session.
	dotsPerSession = 4
)

// Styles are the lipgloss styles derived from the colour config.
type Styles struct {
	Clock  lipgloss.Style
	Work   lipgloss.Style
	Break  lipgloss.Style
	Paused lipgloss.Style
	Dots   lipgloss.Style
	Meta   lipgloss.Style
	Banner lipgloss.Style
}

// colourOr parses a configured hex colour, falling back when invalid so a
// bad config never blanks the display.
func colourOr(s, fallback string) lipgloss.Color {
	if c, ok := config.ParseColour(s); ok {
		return lipgloss.Color(c.Hex())
	}
	c, _ := config.ParseColour(fallback)
	return lipgloss.Color(c.Hex())
}

// NewStyles builds the style set from config colours.
func NewStyles(cfg config.Config) Styles {
	fg := colourOr(cfg.FGColor, "#ffffff")
	workBG := colourOr(cfg.WorkBG, "#c0392b")
	breakBG := colourOr(cfg.BreakBG, "#27ae60")
	pausedBG := colourOr(cfg.PausedBG, "#7f8c8d")

	badge := lipgloss.NewStyle().Foreground(fg).Bold(true).Padding(0, 1)

	return Styles{
		Clock:  lipgloss.NewStyle().Foreground(fg).Bold(true),
		Work:   badge.Background(workBG),
		Break:  badge.Background(breakBG),
		Paused: badge.Background(pausedBG),
		Dots:   lipgloss.NewStyle().Foreground(workBG),
		Meta:   lipgloss.NewStyle().Faint(true),
		Banner: lipgloss.NewStyle().Foreground(lipgloss.Color("11")),
	}
}

// Renderer turns snapshots into the terminal view.
type Renderer struct {
	styles Styles
	bar    progress.Model
	width  int
}

// NewRenderer builds a renderer with styles and progress fill from config.
func NewRenderer(cfg config.Config) *Renderer {
	r := &Renderer{width: defaultWidth}
	r.SetConfig(cfg)
	return r
}

// SetConfig rebuilds styles and the progress bar. Used at startup and on
// config hot reload.
func (r *Renderer) SetConfig(cfg config.Config) {
	r.styles = NewStyles(cfg)

	fill := cfg.WorkBG
	if _, ok := config.ParseColour(fill); !ok {
		fill = "#c0392b"
	}
	r.bar = progress.New(
		progress.WithSolidFill(fill),
		progress.WithoutPercentage(),
		progress.WithWidth(r.width),
	)
}

// SetWidth adjusts the render width.
func (r *Renderer) SetWidth(w int) {
	if w < 10 {
		w = 10
	}
	r.width = w
	r.bar.Width = w
}

// PhaseTitle returns the human label for a phase.
func PhaseTitle(p timer.Phase) string {
	switch p {
	case timer.PhaseShortBreak:
		return "Short Break"
	case timer.PhaseLongBreak:
		return "Long Break"
	default:
		return "Work"
	}
}

// badge picks the phase badge style: paused grey wins over phase colour.
func (r *Renderer) badge(snap engine.Snapshot) string {
	label := PhaseTitle(snap.Phase)
	switch {
	case !snap.Running:
		return r.styles.Paused.Render(label + " · paused")
	case snap.Phase.IsBreak():
		return r.styles.Break.Render(label)
	default:
		return r.styles.Work.Render(label)
	}
}

// dots renders iteration progress within the current session.
func (r *Renderer) dots(iterations int) string {
	var b strings.Builder
	for i := 0; i < dotsPerSession; i++ {
		if i < iterations {
			b.WriteString(dotFilled)
		} else {
			b.WriteString(dotEmpty)
		}
		if i < dotsPerSession-1 {
			b.WriteByte(' ')
		}
	}
	return r.styles.Dots.Render(b.String())
}

// Render produces the full view for one snapshot.
func (r *Renderer) Render(snap engine.Snapshot) string {
	lines := []string{
		r.badge(snap),
		"",
		r.styles.Clock.Render(snap.Remaining),
		r.bar.ViewAs(snap.Progress),
		r.dots(snap.Iterations),
		r.styles.Meta.Render(fmt.Sprintf("sessions completed: %d", snap.SessionsCompleted)),
		"",
		r.styles.Meta.Render("space toggle · s skip · r reset · q quit"),
	}
	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

// RenderBanner renders a warning line, used when the control channel is
// down.
func (r *Renderer) RenderBanner(text string) string {
	return r.styles.Banner.Render(text)
}
