// Package theme maps the persisted light/dark preference to terminal styles.
package theme

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/julianstephens/habitlit/internal/models"
)

type Palette struct {
	Name      models.Theme
	Text      lipgloss.Style
	Muted     lipgloss.Style
	Accent    lipgloss.Style
	Done      lipgloss.Style
	Partial   lipgloss.Style
	Empty     lipgloss.Style
	Danger    lipgloss.Style
	Warning   lipgloss.Style
	ActiveTab lipgloss.Style
	Tab       lipgloss.Style
	Card      lipgloss.Style
}

func For(t models.Theme) Palette {
	if t == models.ThemeLight {
		return light()
	}
	return dark()
}

func dark() Palette {
	return Palette{
		Name:    models.ThemeDark,
		Text:    lipgloss.NewStyle().Foreground(lipgloss.Color("252")),
		Muted:   lipgloss.NewStyle().Foreground(lipgloss.Color("240")),
		Accent:  lipgloss.NewStyle().Foreground(lipgloss.Color("205")).Bold(true),
		Done:    lipgloss.NewStyle().Foreground(lipgloss.Color("42")),
		Partial: lipgloss.NewStyle().Foreground(lipgloss.Color("214")),
		Empty:   lipgloss.NewStyle().Foreground(lipgloss.Color("238")),
		Danger:  lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true),
		Warning: lipgloss.NewStyle().Foreground(lipgloss.Color("214")).Italic(true),
		ActiveTab: lipgloss.NewStyle().
			Foreground(lipgloss.Color("205")).
			Background(lipgloss.Color("236")).
			Padding(0, 1).
			Bold(true),
		Tab: lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")).
			Padding(0, 1),
		Card: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("238")).
			Padding(0, 1),
	}
}

func light() Palette {
	return Palette{
		Name:    models.ThemeLight,
		Text:    lipgloss.NewStyle().Foreground(lipgloss.Color("235")),
		Muted:   lipgloss.NewStyle().Foreground(lipgloss.Color("245")),
		Accent:  lipgloss.NewStyle().Foreground(lipgloss.Color("125")).Bold(true),
		Done:    lipgloss.NewStyle().Foreground(lipgloss.Color("28")),
		Partial: lipgloss.NewStyle().Foreground(lipgloss.Color("166")),
		Empty:   lipgloss.NewStyle().Foreground(lipgloss.Color("252")),
		Danger:  lipgloss.NewStyle().Foreground(lipgloss.Color("160")).Bold(true),
		Warning: lipgloss.NewStyle().Foreground(lipgloss.Color("166")).Italic(true),
		ActiveTab: lipgloss.NewStyle().
			Foreground(lipgloss.Color("125")).
			Background(lipgloss.Color("254")).
			Padding(0, 1).
			Bold(true),
		Tab: lipgloss.NewStyle().
			Foreground(lipgloss.Color("245")).
			Padding(0, 1),
		Card: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("250")).
			Padding(0, 1),
	}
}
