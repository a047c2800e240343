package output

import "github.com/charmbracelet/lipgloss"

// Palette
var (
	colorRed    = lipgloss.AdaptiveColor{Light: "#C62828", Dark: "#EF5350"}
	colorGreen  = lipgloss.AdaptiveColor{Light: "#2E7D32", Dark: "#66BB6A"}
	colorYellow = lipgloss.AdaptiveColor{Light: "#F57F17", Dark: "#FFCA28"}
	colorBlue   = lipgloss.AdaptiveColor{Light: "#1565C0", Dark: "#42A5F5"}
	colorGray   = lipgloss.AdaptiveColor{Light: "#757575", Dark: "#9E9E9E"}
)

// Styles holds the lipgloss styles used by commands.
type Styles struct {
	Header   lipgloss.Style
	Bold     lipgloss.Style
	Muted    lipgloss.Style
	Success  lipgloss.Style
	Warning  lipgloss.Style
	Error    lipgloss.Style
	Info     lipgloss.Style
	FilePath lipgloss.Style
	Keyword  lipgloss.Style
	Literal  lipgloss.Style
}

// NewStyles builds styles for the given lipgloss renderer.
func NewStyles(r *lipgloss.Renderer) *Styles {
	return &Styles{
		Header:   r.NewStyle().Bold(true).Underline(true),
		Bold:     r.NewStyle().Bold(true),
		Muted:    r.NewStyle().Foreground(colorGray),
		Success:  r.NewStyle().Foreground(colorGreen),
		Warning:  r.NewStyle().Foreground(colorYellow),
		Error:    r.NewStyle().Foreground(colorRed).Bold(true),
		Info:     r.NewStyle().Foreground(colorBlue),
		FilePath: r.NewStyle().Foreground(colorBlue).Bold(true),
		Keyword:  r.NewStyle().Foreground(colorBlue),
		Literal:  r.NewStyle().Foreground(colorGreen),
	}
}
