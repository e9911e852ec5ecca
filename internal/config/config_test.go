package config

import (
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/1broseidon/winplace/internal/placement"
)

func writeFile(t *testing.T, path, data string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(path, []byte(data), 0644); err != nil {
		t.Fatalf("write: %v", err)
	}
}

func TestDefaultConfig_ValidAndMatchesEngineDefaults(t *testing.T) {
	cfg := DefaultConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("expected defaults to validate, got %v", err)
	}
	params, err := cfg.Params()
	if err != nil {
		t.Fatalf("params: %v", err)
	}
	if params != placement.DefaultParams() {
		t.Fatalf("expected default params %+v, got %+v", placement.DefaultParams(), params)
	}
}

func TestLoadFromPath_MissingFileUsesDefaults(t *testing.T) {
	dir := t.TempDir()
	res, err := LoadFromPath(filepath.Join(dir, "config.yaml"))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if res.Config.PlacementMode != "center" {
		t.Fatalf("expected placement_mode center, got %q", res.Config.PlacementMode)
	}
	if len(res.Files) != 0 {
		t.Fatalf("expected no files loaded, got %v", res.Files)
	}
}

func TestLoadFromPath_EmptyFileUsesDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	writeFile(t, path, "# empty\n")

	res, err := LoadFromPath(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if res.Config.PlacementRatio != 20 {
		t.Fatalf("expected placement_ratio 20, got %d", res.Config.PlacementRatio)
	}
	if res.Config.NudgeStep != 32 {
		t.Fatalf("expected nudge_step 32, got %d", res.Config.NudgeStep)
	}
}

func TestLoadFromPath_PlacementKeys(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	data := strings.Join([]string{
		"placement_mode: Smart",
		"placement_ratio: 35",
		"snap_to_border: true",
		"min_visible: 40",
		"margins:",
		"  top: 10",
		"  left: 5",
		"hotkeys:",
		"  fill: Mod4-f",
		"log_level: warn",
		"",
	}, "\n")
	writeFile(t, path, data)

	res, err := LoadFromPath(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	cfg := res.Config
	if cfg.PlacementMode != "smart" {
		t.Fatalf("expected normalised mode smart, got %q", cfg.PlacementMode)
	}
	if cfg.LogLevel != "warning" {
		t.Fatalf("expected log_level warning, got %q", cfg.LogLevel)
	}
	if cfg.SlogLevel() != slog.LevelWarn {
		t.Fatalf("expected slog warn level, got %v", cfg.SlogLevel())
	}
	if cfg.Hotkeys.Fill != "Mod4-f" {
		t.Fatalf("expected fill hotkey override, got %q", cfg.Hotkeys.Fill)
	}
	if cfg.Hotkeys.Place != "Mod4-Mod1-p" {
		t.Fatalf("expected untouched hotkeys to keep defaults, got %q", cfg.Hotkeys.Place)
	}

	params, err := cfg.Params()
	if err != nil {
		t.Fatalf("params: %v", err)
	}
	want := placement.Params{
		Margins:      placement.Margins{Top: 10, Left: 5},
		Mode:         placement.ModeSmart,
		Ratio:        35,
		SnapToBorder: true,
		MinVisible:   40,
	}
	if params != want {
		t.Fatalf("expected params %+v, got %+v", want, params)
	}
}

func TestLoadFromPath_DisplayAndXAuthority(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	writeFile(t, path, "display: \":1\"\nxauthority: \"/tmp/test-xauth\"\n")

	res, err := LoadFromPath(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if res.Config.Display != ":1" {
		t.Fatalf("expected display :1, got %q", res.Config.Display)
	}
	if res.Config.XAuthority != "/tmp/test-xauth" {
		t.Fatalf("expected xauthority /tmp/test-xauth, got %q", res.Config.XAuthority)
	}

	val, src, err := Explain(res, "display")
	if err != nil {
		t.Fatalf("explain display: %v", err)
	}
	if val != ":1" {
		t.Fatalf("expected explain display :1, got %#v", val)
	}
	if src.Kind != SourceFile || src.Line != 1 {
		t.Fatalf("expected display from file line 1, got %#v", src)
	}
}

func TestLoadFromPath_StrictUnknownKeyErrors(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	writeFile(t, path, "unknown_key: 1\n")

	_, err := LoadFromPath(path)
	if err == nil {
		t.Fatalf("expected error for unknown key")
	}
	if !strings.Contains(err.Error(), "unknown_key") {
		t.Fatalf("expected unknown field error, got %v", err)
	}
	if !strings.Contains(err.Error(), path) {
		t.Fatalf("expected error to include file path, got %v", err)
	}
}

func TestLoadFromPath_ValidationErrorHasSourceContext(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	writeFile(t, path, "nudge_step: 16\nmargins:\n  right: -4\n")

	_, err := LoadFromPath(path)
	if err == nil {
		t.Fatalf("expected validation error")
	}
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected *ValidationError, got %T: %v", err, err)
	}
	if verr.Path != "margins.right" {
		t.Fatalf("expected path margins.right, got %q", verr.Path)
	}
	if verr.Source.Line != 3 {
		t.Fatalf("expected source line 3, got %d", verr.Source.Line)
	}
	if !strings.HasPrefix(err.Error(), path+":3:") {
		t.Fatalf("expected file:line prefix, got %v", err)
	}
}

func TestLoadFromPath_InvalidPlacementMode(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	writeFile(t, path, "placement_mode: cascade\n")

	_, err := LoadFromPath(path)
	var verr *ValidationError
	if !errors.As(err, &verr) || verr.Path != "placement_mode" {
		t.Fatalf("expected placement_mode validation error, got %v", err)
	}
}

func TestLoadFromPath_DropInsLoadBeforeMain(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "config.d", "10-base.yaml"), "placement_ratio: 5\nnudge_step: 8\n")
	writeFile(t, filepath.Join(dir, "config.d", "20-override.yaml"), "placement_ratio: 6\n")
	writeFile(t, filepath.Join(dir, "config.d", "notes.txt"), "placement_ratio: 99\n")

	path := filepath.Join(dir, "config.yaml")
	writeFile(t, path, "placement_ratio: 7\n")

	res, err := LoadFromPath(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if res.Config.PlacementRatio != 7 {
		t.Fatalf("expected main file to win, got %d", res.Config.PlacementRatio)
	}
	if res.Config.NudgeStep != 8 {
		t.Fatalf("expected nudge_step from drop-in, got %d", res.Config.NudgeStep)
	}
	if len(res.Files) != 3 {
		t.Fatalf("expected 3 files loaded, got %v", res.Files)
	}
	if filepath.Base(res.Files[0]) != "10-base.yaml" || filepath.Base(res.Files[2]) != "config.yaml" {
		t.Fatalf("unexpected load order %v", res.Files)
	}

	_, src, err := Explain(res, "nudge_step")
	if err != nil {
		t.Fatalf("explain: %v", err)
	}
	if filepath.Base(src.File) != "10-base.yaml" {
		t.Fatalf("expected nudge_step source 10-base.yaml, got %#v", src)
	}
}

func TestLoadFromPath_IncludeDirectoryOrderAndMainOverrides(t *testing.T) {
	dir := t.TempDir()
	extra := filepath.Join(dir, "extra")
	writeFile(t, filepath.Join(extra, "10-base.yaml"), "min_visible: 5\n")
	writeFile(t, filepath.Join(extra, "20-override.yaml"), "min_visible: 6\nsnap_to_border: true\n")

	path := filepath.Join(dir, "config.yaml")
	main := strings.Join([]string{
		"include:",
		"  - extra",
		"min_visible: 7",
		"",
	}, "\n")
	writeFile(t, path, main)

	res, err := LoadFromPath(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if res.Config.MinVisible != 7 {
		t.Fatalf("expected min_visible to be 7, got %d", res.Config.MinVisible)
	}
	if !res.Config.SnapToBorder {
		t.Fatalf("expected snap_to_border from include")
	}
}

func TestLoadFromPath_IncludeMissingPathHasContext(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	writeFile(t, path, "include:\n  - missing.yaml\n")

	_, err := LoadFromPath(path)
	if err == nil {
		t.Fatalf("expected error")
	}
	if !strings.Contains(err.Error(), "include") || !strings.Contains(err.Error(), "missing.yaml") {
		t.Fatalf("expected include error, got %v", err)
	}
	if !strings.Contains(err.Error(), path+":") {
		t.Fatalf("expected error to include file:line:col prefix, got %v", err)
	}
}

func TestLoadFromPath_IncludeCycleDetection(t *testing.T) {
	dir := t.TempDir()
	a := filepath.Join(dir, "a.yaml")
	writeFile(t, a, "include: b.yaml\n")
	writeFile(t, filepath.Join(dir, "b.yaml"), "include: a.yaml\n")

	_, err := LoadFromPath(a)
	if err == nil {
		t.Fatalf("expected cycle error")
	}
	if !strings.Contains(err.Error(), "include cycle") {
		t.Fatalf("expected cycle error, got %v", err)
	}
}

func TestExplain_DefaultsAndUnknownPaths(t *testing.T) {
	res := &LoadResult{Config: DefaultConfig(), Sources: map[string]Source{}}

	val, src, err := Explain(res, "hotkeys.nudge_down")
	if err != nil {
		t.Fatalf("explain: %v", err)
	}
	if val != "Mod4-Mod1-Down" {
		t.Fatalf("unexpected value %#v", val)
	}
	if src.Kind != SourceDefault {
		t.Fatalf("expected default source, got %#v", src)
	}

	for _, path := range []string{"", "margins.middle", "placement_mode.extra", "nope"} {
		if _, _, err := Explain(res, path); err == nil {
			t.Fatalf("expected error for path %q", path)
		}
	}
}

func TestConfig_WarnsOnDuplicateHotkeys(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Hotkeys.Place = cfg.Hotkeys.Fill
	warnings := cfg.Warnings()
	if len(warnings) != 1 || !strings.Contains(warnings[0], "fill, place") {
		t.Fatalf("expected duplicate hotkey warning, got %v", warnings)
	}
}

func TestConfig_SaveToRoundTrips(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "nested", "config.yaml")

	cfg := DefaultConfig()
	cfg.PlacementMode = "mouse"
	cfg.Margins.Bottom = 30
	if err := cfg.SaveTo(path); err != nil {
		t.Fatalf("save: %v", err)
	}

	res, err := LoadFromPath(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if *res.Config != *cfg {
		t.Fatalf("expected %+v after round trip, got %+v", cfg, res.Config)
	}
}

func TestConfig_SaveRejectsInvalid(t *testing.T) {
	cfg := DefaultConfig()
	cfg.NudgeStep = 0
	if err := cfg.SaveTo(filepath.Join(t.TempDir(), "config.yaml")); err == nil {
		t.Fatalf("expected validation error")
	}
}

func TestDefaultConfigPath_UsesHome(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	path, err := DefaultConfigPath()
	if err != nil {
		t.Fatalf("path: %v", err)
	}
	if path != filepath.Join(home, ".config", "winplace", "config.yaml") {
		t.Fatalf("unexpected path %q", path)
	}
}
