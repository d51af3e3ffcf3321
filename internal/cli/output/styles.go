package output

import "github.com/charmbracelet/lipgloss"

// Palette colors.
var (
	colorPrimary = lipgloss.AdaptiveColor{Light: "#5A56E0", Dark: "#7C3AED"}
	colorAccent  = lipgloss.AdaptiveColor{Light: "#0284C7", Dark: "#06B6D4"}
	colorSuccess = lipgloss.AdaptiveColor{Light: "#02BA84", Dark: "#10B981"}
	colorWarning = lipgloss.AdaptiveColor{Light: "#FF8C00", Dark: "#F59E0B"}
	colorError   = lipgloss.AdaptiveColor{Light: "#FF5F56", Dark: "#EF4444"}
	colorMuted   = lipgloss.AdaptiveColor{Light: "#9B9B9B", Dark: "#94A3B8"}
	colorString  = lipgloss.AdaptiveColor{Light: "#15803D", Dark: "#A3E635"}
	colorNumber  = lipgloss.AdaptiveColor{Light: "#B45309", Dark: "#FBBF24"}
)

// Styles holds the lipgloss styles used by commands.
type Styles struct {
	Header1 lipgloss.Style
	Header2 lipgloss.Style
	Bold    lipgloss.Style
	Muted   lipgloss.Style
	Success lipgloss.Style
	Warning lipgloss.Style
	Error   lipgloss.Style
	Info    lipgloss.Style
	Path    lipgloss.Style

	// Query syntax
	Keyword  lipgloss.Style
	Function lipgloss.Style
	String   lipgloss.Style
	Number   lipgloss.Style
	Param    lipgloss.Style
	Operator lipgloss.Style
	Comment  lipgloss.Style

	// Tree output
	NodeType lipgloss.Style
	Field    lipgloss.Style

	Caret lipgloss.Style
}

// NewStyles builds styles bound to the given renderer.
func NewStyles(r *lipgloss.Renderer) *Styles {
	// Query text keeps its tabs.
	syntax := r.NewStyle().TabWidth(lipgloss.NoTabConversion)

	return &Styles{
		Header1: r.NewStyle().Bold(true).Foreground(colorPrimary),
		Header2: r.NewStyle().Bold(true).Underline(true),
		Bold:    r.NewStyle().Bold(true),
		Muted:   r.NewStyle().Foreground(colorMuted),
		Success: r.NewStyle().Foreground(colorSuccess),
		Warning: r.NewStyle().Foreground(colorWarning),
		Error:   r.NewStyle().Bold(true).Foreground(colorError),
		Info:    r.NewStyle().Foreground(colorAccent),
		Path:    r.NewStyle().Bold(true).Foreground(colorAccent),

		Keyword:  syntax.Bold(true).Foreground(colorPrimary),
		Function: syntax.Foreground(colorAccent),
		String:   syntax.Foreground(colorString),
		Number:   syntax.Foreground(colorNumber),
		Param:    syntax.Italic(true).Foreground(colorWarning),
		Operator: syntax.Foreground(colorMuted),
		Comment:  syntax.Italic(true).Foreground(colorMuted),

		NodeType: r.NewStyle().Bold(true).Foreground(colorPrimary),
		Field:    r.NewStyle().Foreground(colorMuted),

		Caret: r.NewStyle().Bold(true).Foreground(colorError),
	}
}
