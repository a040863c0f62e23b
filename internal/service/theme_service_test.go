package service

import (
	"strings"
	"testing"

	"github.com/storeflow/storeflow/internal/models"
)

func TestMergeThemeSettingsOverlaysNestedMaps(t *testing.T) {
	defaults := models.JSON{
		"colors": models.JSON{
			"primary":    "#111111",
			"background": "#ffffff",
		},
		"layout": "wide",
	}
	overrides := models.JSON{
		"colors": models.JSON{
			"primary": "#ff0000",
		},
		"layout": "boxed",
	}

	merged := MergeThemeSettings(defaults, overrides)

	colors, ok := merged["colors"].(models.JSON)
	if !ok {
		t.Fatalf("colors section lost in merge: %#v", merged["colors"])
	}
	if colors["primary"] != "#ff0000" {
		t.Fatalf("expected override to win, got %v", colors["primary"])
	}
	if colors["background"] != "#ffffff" {
		t.Fatalf("expected default to survive, got %v", colors["background"])
	}
	if merged["layout"] != "boxed" {
		t.Fatalf("expected scalar override, got %v", merged["layout"])
	}
	if defaults["layout"] != "wide" {
		t.Fatalf("merge mutated the defaults map")
	}
}

func TestMergeThemeSettingsHandlesDecodedJSONMaps(t *testing.T) {
	defaults := models.JSON{
		"colors": map[string]interface{}{"primary": "#111111"},
	}
	overrides := models.JSON{
		"colors": map[string]interface{}{"accent": "#00ff00"},
	}

	merged := MergeThemeSettings(defaults, overrides)
	colors, ok := asSettingsMap(merged["colors"])
	if !ok {
		t.Fatalf("colors section lost in merge: %#v", merged["colors"])
	}
	if colors["primary"] != "#111111" || colors["accent"] != "#00ff00" {
		t.Fatalf("unexpected merged colors: %#v", colors)
	}
}

func TestCompileThemeCSSVars(t *testing.T) {
	settings := models.JSON{
		"colors": models.JSON{
			"primary":    "#ff0000",
			"Background": "#fff",
			"empty":      "",
		},
		"fonts": models.JSON{
			"heading_family": "Inter",
		},
		"layout": "boxed",
	}

	css := CompileThemeCSSVars(settings)
	if !strings.HasPrefix(css, ":root{") || !strings.HasSuffix(css, "}") {
		t.Fatalf("unexpected css envelope: %s", css)
	}
	for _, want := range []string{
		"--color-primary:#ff0000;",
		"--color-background:#fff;",
		"--font-heading-family:Inter;",
	} {
		if !strings.Contains(css, want) {
			t.Fatalf("css missing %q: %s", want, css)
		}
	}
	if strings.Contains(css, "--color-empty") {
		t.Fatalf("blank values must be dropped: %s", css)
	}
	if strings.Contains(css, "layout") {
		t.Fatalf("non-section settings must not leak into css: %s", css)
	}
}

func TestCompileThemeCSSVarsEmpty(t *testing.T) {
	if css := CompileThemeCSSVars(models.JSON{}); css != "" {
		t.Fatalf("expected empty css, got %q", css)
	}
	if css := CompileThemeCSSVars(models.JSON{"colors": "not-a-map"}); css != "" {
		t.Fatalf("expected empty css for malformed section, got %q", css)
	}
}

func TestMergeClassNames(t *testing.T) {
	merged := MergeClassNames("btn btn-primary", "  btn   large ", "", "large outline")
	if merged != "btn btn-primary large outline" {
		t.Fatalf("unexpected class merge: %q", merged)
	}
	if MergeClassNames("", "   ") != "" {
		t.Fatalf("expected empty merge for blank inputs")
	}
}
