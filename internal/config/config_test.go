package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestParse(t *testing.T) {
	input := `
theme = my_custom_theme
color = neon-green
prompt = "Fix the highlighted area."
history_limit = 50
save_dir = /tmp/screens

[notify]
save = false
copy = true

[log]
level = debug
file = /tmp/annotator.log

[theme.my_custom_theme]
Background = #111111
CropMask = #00000080
`
	r := strings.NewReader(input)
	cfg, err := Parse(r)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	if cfg.Theme != "my_custom_theme" {
		t.Errorf("Expected theme 'my_custom_theme', got '%s'", cfg.Theme)
	}
	if cfg.Color != "neon-green" {
		t.Errorf("Expected color 'neon-green', got '%s'", cfg.Color)
	}
	if cfg.Prompt != "Fix the highlighted area." || !cfg.SendPrompt {
		t.Errorf("Unexpected prompt %q send=%v", cfg.Prompt, cfg.SendPrompt)
	}
	if cfg.HistoryLimit != 50 {
		t.Errorf("Expected history_limit 50, got %d", cfg.HistoryLimit)
	}
	if cfg.SaveDir != "/tmp/screens" {
		t.Errorf("Expected save_dir '/tmp/screens', got '%s'", cfg.SaveDir)
	}
	if cfg.Notify.Save {
		t.Error("Expected notify.save to be false")
	}
	if !cfg.Notify.Copy {
		t.Error("Expected notify.copy to be true")
	}
	if opts := cfg.LogOptions(); opts.Level != "debug" || opts.File != "/tmp/annotator.log" || opts.Format != "" {
		t.Errorf("Unexpected log options %+v", opts)
	}

	theme, ok := cfg.Themes["my_custom_theme"]
	if !ok {
		t.Fatal("Expected theme 'my_custom_theme' to be loaded")
	}
	if theme.Background.R != 0x11 || theme.Background.G != 0x11 || theme.Background.B != 0x11 {
		t.Errorf("Unexpected Background color: %+v", theme.Background)
	}
	if theme.CropMask.A != 0x80 {
		t.Errorf("Unexpected CropMask: %+v", theme.CropMask)
	}
}

func TestParseErrors(t *testing.T) {
	tests := []string{
		"color = nope\n",
		"history_limit = 1\n",
		"send_prompt = maybe\n",
		"[notify]\nsave = perhaps\n",
		"[theme.x]\nBackground = #12\n",
	}
	for _, in := range tests {
		if _, err := Parse(strings.NewReader(in)); err == nil {
			t.Errorf("expected error for %q", in)
		}
	}
}

func TestCircular(t *testing.T) {
	input := `theme = dark
color = #39FF14
prompt = "Say \"hi\""
send_prompt = false
history_limit = 12
save_dir = /home/user/shots

[notify]
save = true
copy = false

[log]
format = json

[theme.custom]
Name = custom
Background = #000000
Foreground = #FFFFFF
`
	cfg, err := Parse(strings.NewReader(input))
	if err != nil {
		t.Fatalf("Initial parse failed: %v", err)
	}

	generated := cfg.String()

	cfg2, err := Parse(strings.NewReader(generated))
	if err != nil {
		t.Fatalf("Circular parse failed: %v\n%s", err, generated)
	}

	if cfg.Theme != cfg2.Theme || cfg.Color != cfg2.Color || cfg.SaveDir != cfg2.SaveDir {
		t.Errorf("Root mismatch: %+v vs %+v", cfg, cfg2)
	}
	if cfg2.Prompt != `Say "hi"` || cfg2.SendPrompt || cfg2.HistoryLimit != 12 {
		t.Errorf("Prompt settings lost: %q %v %d", cfg2.Prompt, cfg2.SendPrompt, cfg2.HistoryLimit)
	}
	if cfg.Notify != cfg2.Notify {
		t.Errorf("Notify mismatch: %+v vs %+v", cfg.Notify, cfg2.Notify)
	}
	if cfg.Log != cfg2.Log {
		t.Errorf("Log mismatch: %+v vs %+v", cfg.Log, cfg2.Log)
	}

	t1 := cfg.Themes["custom"]
	t2 := cfg2.Themes["custom"]
	if t1 == nil || t2 == nil {
		t.Fatalf("Custom theme missing in one config")
	}
	if *t1 != *t2 {
		t.Errorf("Theme mismatch: %+v vs %+v", t1, t2)
	}
}

func TestLoaderOverridePath(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "custom.rc")
	if err := os.WriteFile(path, []byte("color = cyan\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("HOME", dir)
	l := NewLoader("v1.0.0", path)
	if got := l.GetConfigPath(); got != path {
		t.Fatalf("GetConfigPath = %q, want %q", got, path)
	}
	cfg, err := l.Load()
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Color != "cyan" {
		t.Fatalf("color = %q", cfg.Color)
	}
}

func TestLoaderXDGFallback(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	l := NewLoader("v1.0.0", "")
	if got := l.GetConfigPath(); got != "" {
		t.Fatalf("expected no config, got %q", got)
	}
	dir := filepath.Join(home, ".config", "annotator")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatal(err)
	}
	alt := filepath.Join(dir, "annotator.rc")
	if err := os.WriteFile(alt, []byte("theme = dark\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if got := l.GetConfigPath(); got != alt {
		t.Fatalf("GetConfigPath = %q, want %q", got, alt)
	}
}
