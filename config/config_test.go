package config

import "testing"

func TestDefaultConfigIsUsable(t *testing.T) {
	cfg := DefaultConfig()
	if !cfg.Shell.SourceRC {
		t.Fatalf("expected default config to source rc files")
	}
	if cfg.Atlas.GlyphPixelSize <= 0 {
		t.Fatalf("expected a positive glyph pixel size")
	}
	if ThemeLabel(cfg.Theme) == "" {
		t.Fatalf("expected default theme to have a label")
	}
}

func TestThemeLabelFallsBackToName(t *testing.T) {
	if got := ThemeLabel("nonexistent-theme"); got != "nonexistent-theme" {
		t.Fatalf("expected unknown theme name to pass through, got %q", got)
	}
}
