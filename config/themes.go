package config

// ThemeOption describes an available UI theme.
type ThemeOption struct {
	Name  string
	Label string
}

// ThemeOptions lists the available theme names. The selected name is
// stored in Config.Theme, which glwin does not read; the character
// palette itself is fixed (screen.PaletteColor), since spec.md doesn't
// model themeable cell colors.
func ThemeOptions() []ThemeOption {
	return []ThemeOption{
		{Name: "driftwood-dark", Label: "Driftwood Dark"},
		{Name: "driftwood-light", Label: "Driftwood Light"},
		{Name: "high-contrast", Label: "High Contrast"},
	}
}

// ThemeLabel returns the display label for a theme name.
func ThemeLabel(name string) string {
	for _, opt := range ThemeOptions() {
		if opt.Name == name {
			return opt.Label
		}
	}
	if name == "" {
		return "Driftwood Dark"
	}
	return name
}
