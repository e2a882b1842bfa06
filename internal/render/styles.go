package render

import "github.com/charmbracelet/lipgloss"

// Terminal palette
var (
	colorPrimary = lipgloss.Color("#00D4AA")
	colorText    = lipgloss.Color("#FAFAFA")
	colorMuted   = lipgloss.Color("#6B7280")
	colorSuccess = lipgloss.Color("#00D26A")
	colorWarning = lipgloss.Color("#FFB800")
	colorError   = lipgloss.Color("#FF3838")
)

// styles holds the lipgloss styles bound to a single renderer
type styles struct {
	title   lipgloss.Style
	key     lipgloss.Style
	punct   lipgloss.Style
	str     lipgloss.Style
	number  lipgloss.Style
	boolean lipgloss.Style
	null    lipgloss.Style
	primary lipgloss.Style
	muted   lipgloss.Style
	success lipgloss.Style
	failure lipgloss.Style
}

// newStyles builds the style set for r
func newStyles(r *lipgloss.Renderer) styles {
	return styles{
		title:   r.NewStyle().Foreground(colorMuted).Bold(true),
		key:     r.NewStyle().Foreground(colorPrimary),
		punct:   r.NewStyle().Foreground(colorMuted),
		str:     r.NewStyle().Foreground(colorText),
		number:  r.NewStyle().Foreground(colorWarning),
		boolean: r.NewStyle().Foreground(colorSuccess),
		null:    r.NewStyle().Foreground(colorMuted).Italic(true),
		primary: r.NewStyle().Foreground(colorPrimary),
		muted:   r.NewStyle().Foreground(colorMuted),
		success: r.NewStyle().Foreground(colorSuccess).Bold(true),
		failure: r.NewStyle().Foreground(colorError).Bold(true),
	}
}
