// Package ui implements the terminal interface for browsing and
// editing scoring trees.
package ui

import (
	"github.com/charmbracelet/lipgloss"

	"scoretree/pkg/model"
)

// Color palette shared across themes.
var (
	colorText      = lipgloss.Color("#F8F8F2")
	colorMutedDark = lipgloss.Color("#6272A4")
	colorPrimary   = lipgloss.Color("#BD93F9")
	colorSecondary = lipgloss.Color("#8BE9FD")
	colorHighlight = lipgloss.Color("#FF79C6")
	colorSuccess   = lipgloss.Color("#50FA7B")
	colorDanger    = lipgloss.Color("#FF5555")
	colorSelected  = lipgloss.Color("#44475A")

	colorTextLight  = lipgloss.Color("#282A36")
	colorMutedLight = lipgloss.Color("#999999")
)

// Theme bundles the renderer and semantic colors so every component
// draws with the same vocabulary.
type Theme struct {
	Renderer *lipgloss.Renderer

	Text      lipgloss.Color
	Muted     lipgloss.Color
	Primary   lipgloss.Color
	Secondary lipgloss.Color
	Highlight lipgloss.Color
	Success   lipgloss.Color
	Danger    lipgloss.Color

	Selected lipgloss.Style
	Header   lipgloss.Style
	Footer   lipgloss.Style
}

// DarkTheme builds the default theme against a renderer.
func DarkTheme(r *lipgloss.Renderer) Theme {
	return Theme{
		Renderer:  r,
		Text:      colorText,
		Muted:     colorMutedDark,
		Primary:   colorPrimary,
		Secondary: colorSecondary,
		Highlight: colorHighlight,
		Success:   colorSuccess,
		Danger:    colorDanger,
		Selected:  r.NewStyle().Background(colorSelected),
		Header:    r.NewStyle().Foreground(colorPrimary).Bold(true),
		Footer:    r.NewStyle().Foreground(colorMutedDark),
	}
}

// LightTheme builds a light-background variant.
func LightTheme(r *lipgloss.Renderer) Theme {
	t := DarkTheme(r)
	t.Text = colorTextLight
	t.Muted = colorMutedLight
	t.Selected = r.NewStyle().Background(lipgloss.Color("#E0E0E0"))
	t.Footer = r.NewStyle().Foreground(colorMutedLight)
	return t
}

// ThemeByName resolves a configured theme name, defaulting to dark.
func ThemeByName(name string, r *lipgloss.Renderer) Theme {
	if name == "light" {
		return LightTheme(r)
	}
	return DarkTheme(r)
}

// IconGlyph maps a node decoration token to its terminal glyph.
func (t Theme) IconGlyph(icon model.Icon) string {
	switch icon {
	case model.IconDimension:
		return "◆"
	case model.IconFactor:
		return "◇"
	case model.IconIndicator:
		return "·"
	}
	return " "
}

// FontStyle maps a text treatment token to a lipgloss style.
func (t Theme) FontStyle(hint model.FontHint) lipgloss.Style {
	switch hint {
	case model.FontBold:
		return t.Renderer.NewStyle().Bold(true)
	case model.FontItalic:
		return t.Renderer.NewStyle().Italic(true)
	}
	return t.Renderer.NewStyle()
}

// WeightStyle maps a weighting consistency flag to a colored style.
func (t Theme) WeightStyle(c model.WeightColor) lipgloss.Style {
	switch c {
	case model.WeightOK:
		return t.Renderer.NewStyle().Foreground(t.Success)
	case model.WeightBad:
		return t.Renderer.NewStyle().Foreground(t.Danger)
	}
	return t.Renderer.NewStyle().Foreground(t.Muted)
}

// StatusStyle colors the workflow glyph.
func (t Theme) StatusStyle(status string) lipgloss.Style {
	if status == model.StatusDone {
		return t.Renderer.NewStyle().Foreground(t.Success)
	}
	return t.Renderer.NewStyle().Foreground(t.Muted)
}
