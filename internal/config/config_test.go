package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/hpungsan/urlcopy/internal/shortcut"
)

func writeConfig(t *testing.T, dir, body string) {
	t.Helper()
	if err := os.MkdirAll(dir, 0755); err != nil {
		t.Fatalf("MkdirAll() error = %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, "config.json"), []byte(body), 0600); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}
}

func TestLoad_DefaultWhenMissing(t *testing.T) {
	cfg, err := Load(t.TempDir())
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Bind != "127.0.0.1" || cfg.Port != 7878 {
		t.Fatalf("Addr() = %q, want 127.0.0.1:7878", cfg.Addr())
	}
	if len(cfg.Commands) != 1 || cfg.Commands[0].Name != "_execute_action" {
		t.Fatalf("Commands = %+v, want default catalog", cfg.Commands)
	}
	if !cfg.ShouldOpenOptions() {
		t.Fatalf("ShouldOpenOptions() = false, want true")
	}
}

func TestLoad_OverridesFromFile(t *testing.T) {
	tmpDir := t.TempDir()
	writeConfig(t, tmpDir, `{"port": 9000, "open_options_on_conflict": false}`)

	cfg, err := Load(tmpDir)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Port != 9000 {
		t.Fatalf("Port = %d, want 9000", cfg.Port)
	}
	if cfg.Bind != "127.0.0.1" {
		t.Fatalf("Bind = %q, want default", cfg.Bind)
	}
	if cfg.ShouldOpenOptions() {
		t.Fatalf("ShouldOpenOptions() = true, want false")
	}
}

func TestLoad_InvalidJSON(t *testing.T) {
	tmpDir := t.TempDir()
	writeConfig(t, tmpDir, `{not json}`)

	if _, err := Load(tmpDir); err == nil {
		t.Fatalf("Load() expected error, got nil")
	}
}

func TestLoad_Commands(t *testing.T) {
	tmpDir := t.TempDir()
	writeConfig(t, tmpDir, `{"commands": [
		{"name": "_execute_action", "shortcut": "Alt+Shift+C"},
		{"name": "copy-markdown", "shortcut": ""}
	]}`)

	cfg, err := Load(tmpDir)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if len(cfg.Commands) != 2 {
		t.Fatalf("Commands length = %d, want 2", len(cfg.Commands))
	}
	if cfg.Commands[1].Name != "copy-markdown" || cfg.Commands[1].Shortcut != "" {
		t.Errorf("Commands[1] = %+v", cfg.Commands[1])
	}
}

func TestLoad_Logging(t *testing.T) {
	tmpDir := t.TempDir()
	writeConfig(t, tmpDir, `{"logging": {"level": "debug", "max_backups": 9}}`)

	cfg, err := Load(tmpDir)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Logging.Level == nil || *cfg.Logging.Level != "debug" {
		t.Fatalf("Logging.Level = %v, want debug", cfg.Logging.Level)
	}
	if cfg.Logging.MaxBackups == nil || *cfg.Logging.MaxBackups != 9 {
		t.Fatalf("Logging.MaxBackups = %v, want 9", cfg.Logging.MaxBackups)
	}
}

func TestLoad_DisabledTools(t *testing.T) {
	tmpDir := t.TempDir()
	writeConfig(t, tmpDir, `{"disabled_tools": ["url_copy", "menu_click"]}`)

	cfg, err := Load(tmpDir)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if len(cfg.DisabledTools) != 2 {
		t.Fatalf("DisabledTools length = %d, want 2", len(cfg.DisabledTools))
	}
	if cfg.DisabledTools[0] != "url_copy" || cfg.DisabledTools[1] != "menu_click" {
		t.Errorf("DisabledTools = %v", cfg.DisabledTools)
	}
}

func TestLoadWithRepo_BothPresent(t *testing.T) {
	globalDir := t.TempDir()
	repoRoot := t.TempDir()

	writeConfig(t, globalDir, `{"port": 8000, "disabled_tools": ["url_copy"]}`)
	writeConfig(t, filepath.Join(repoRoot, DirName), `{"port": 8100, "disabled_tools": ["menu_click"]}`)

	cfg, err := LoadWithRepo(globalDir, repoRoot)
	if err != nil {
		t.Fatalf("LoadWithRepo() error = %v", err)
	}
	if cfg.Port != 8100 {
		t.Errorf("Port = %d, want 8100 (repo override)", cfg.Port)
	}
	if len(cfg.DisabledTools) != 2 {
		t.Errorf("DisabledTools length = %d, want 2", len(cfg.DisabledTools))
	}
}

func TestLoadWithRepo_OnlyGlobal(t *testing.T) {
	globalDir := t.TempDir()
	writeConfig(t, globalDir, `{"port": 8000}`)

	cfg, err := LoadWithRepo(globalDir, t.TempDir())
	if err != nil {
		t.Fatalf("LoadWithRepo() error = %v", err)
	}
	if cfg.Port != 8000 {
		t.Errorf("Port = %d, want 8000", cfg.Port)
	}
}

func TestLoadWithRepo_NestedStartDir(t *testing.T) {
	repoRoot := t.TempDir()
	writeConfig(t, filepath.Join(repoRoot, DirName), `{"bind": "0.0.0.0"}`)

	nested := filepath.Join(repoRoot, "a", "b")
	if err := os.MkdirAll(nested, 0755); err != nil {
		t.Fatalf("MkdirAll() error = %v", err)
	}

	cfg, err := LoadWithRepo(t.TempDir(), nested)
	if err != nil {
		t.Fatalf("LoadWithRepo() error = %v", err)
	}
	if cfg.Bind != "0.0.0.0" {
		t.Errorf("Bind = %q, want 0.0.0.0", cfg.Bind)
	}
}

func TestLoadWithRepo_RepoInvalidJSON(t *testing.T) {
	repoRoot := t.TempDir()
	writeConfig(t, filepath.Join(repoRoot, DirName), `{`)

	if _, err := LoadWithRepo(t.TempDir(), repoRoot); err == nil {
		t.Fatalf("LoadWithRepo() expected error, got nil")
	}
}

func TestMerge_DBPool(t *testing.T) {
	base := &Config{DBMaxOpenConns: 1, DBMaxIdleConns: 1}
	overlay := &Config{DBMaxOpenConns: 4}

	got := Merge(base, overlay)
	if got.DBMaxOpenConns != 4 {
		t.Errorf("DBMaxOpenConns = %d, want 4", got.DBMaxOpenConns)
	}
	if got.DBMaxIdleConns != 1 {
		t.Errorf("DBMaxIdleConns = %d, want 1", got.DBMaxIdleConns)
	}
}

func TestMergeStringSlice(t *testing.T) {
	tests := []struct {
		name string
		a, b []string
		want []string
	}{
		{"both nil", nil, nil, nil},
		{"dedupe", []string{"x", "y"}, []string{"y", "z"}, []string{"x", "y", "z"}},
		{"trim and drop empty", []string{" x ", ""}, []string{"x", "  "}, []string{"x"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := mergeStringSlice(tt.a, tt.b)
			if len(got) != len(tt.want) {
				t.Fatalf("mergeStringSlice() = %v, want %v", got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("mergeStringSlice()[%d] = %q, want %q", i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestValidate(t *testing.T) {
	level := "loud"
	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr bool
	}{
		{"defaults", func(*Config) {}, false},
		{"port zero", func(c *Config) { c.Port = 0 }, true},
		{"port too large", func(c *Config) { c.Port = 70000 }, true},
		{"unnamed command", func(c *Config) { c.Commands = append(c.Commands, shortcut.Command{Shortcut: "Alt+X"}) }, true},
		{"bad log level", func(c *Config) { c.Logging.Level = &level }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestLoadWithRepo_Invalid(t *testing.T) {
	globalDir := t.TempDir()
	writeConfig(t, globalDir, `{"port": 99999}`)

	if _, err := LoadWithRepo(globalDir, t.TempDir()); err == nil {
		t.Fatal("expected error for out-of-range port")
	}
}
