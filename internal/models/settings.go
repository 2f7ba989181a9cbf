package models

import "fmt"

// Theme is the persisted appearance preference
type Theme string

const (
	ThemeLight Theme = "light"
	ThemeDark  Theme = "dark"
)

func (t Theme) IsValid() bool {
	return t == ThemeLight || t == ThemeDark
}

// Toggle returns the opposite theme. Unknown values toggle to light, matching a dark default.
func (t Theme) Toggle() Theme {
	if t == ThemeLight {
		return ThemeDark
	}
	return ThemeLight
}

func ParseTheme(s string) (Theme, error) {
	t := Theme(s)
	if !t.IsValid() {
		return "", fmt.Errorf("invalid theme: %q (expected light or dark)", s)
	}
	return t, nil
}

// Settings holds per-store user preferences
type Settings struct {
	Theme Theme `json:"theme"`
}
