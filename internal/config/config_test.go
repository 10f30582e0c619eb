package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	// Test graphics defaults
	if cfg.Graphics.Width != 1280 {
		t.Errorf("expected width 1280, got %d", cfg.Graphics.Width)
	}
	if cfg.Graphics.Height != 720 {
		t.Errorf("expected height 720, got %d", cfg.Graphics.Height)
	}
	if cfg.Graphics.Fullscreen {
		t.Error("expected fullscreen to be false by default")
	}
	if !cfg.Graphics.VSync {
		t.Error("expected vsync to be true by default")
	}

	// Test mesh defaults
	if cfg.Mesh.IndexPolicy != "fail" {
		t.Errorf("expected index policy 'fail', got %s", cfg.Mesh.IndexPolicy)
	}
	if cfg.Mesh.LoadTimeout != 10*time.Second {
		t.Errorf("expected load timeout 10s, got %v", cfg.Mesh.LoadTimeout)
	}
	if cfg.Mesh.Spin != [3]float64{0, 30, 0} {
		t.Errorf("expected spin [0 30 0], got %v", cfg.Mesh.Spin)
	}

	// Test camera defaults
	if cfg.Camera.Position != [3]float64{0, 0, 5} {
		t.Errorf("expected camera at [0 0 5], got %v", cfg.Camera.Position)
	}

	// Test screenshot defaults
	if cfg.Screenshot.Format != "png" {
		t.Errorf("expected screenshot format 'png', got %s", cfg.Screenshot.Format)
	}

	// Test logging defaults
	if cfg.Logging.Level != "info" {
		t.Errorf("expected log level 'info', got %s", cfg.Logging.Level)
	}
	if cfg.Logging.LogFile != "" {
		t.Errorf("expected empty log file, got %s", cfg.Logging.LogFile)
	}
}

func TestLoadFromFile(t *testing.T) {
	// Create temporary config file
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")

	yamlContent := `
graphics:
  width: 1920
  height: 1080
  fullscreen: true
  vsync: false
  fps_limit: 144

mesh:
  source: "https://example.com/cube.obj"
  index_policy: skip
  load_timeout: 5s
  base_dir: "/srv/meshes"
  position: [1, 2, 3]
  spin: [0, 0, 90]

camera:
  position: [0, 1, 10]
  rotation: [-15, 0, 0]

screenshot:
  dir: "/tmp/shots"
  format: bmp

logging:
  level: "debug"
  log_file: "meshview.log"
`

	if err := os.WriteFile(configPath, []byte(yamlContent), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	// Load config
	cfg := Default()
	if err := loadFromFile(cfg, configPath); err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	// Verify values were loaded
	if cfg.Graphics.Width != 1920 {
		t.Errorf("expected width 1920, got %d", cfg.Graphics.Width)
	}
	if cfg.Graphics.Height != 1080 {
		t.Errorf("expected height 1080, got %d", cfg.Graphics.Height)
	}
	if !cfg.Graphics.Fullscreen {
		t.Error("expected fullscreen to be true")
	}
	if cfg.Graphics.VSync {
		t.Error("expected vsync to be false")
	}
	if cfg.Graphics.FPSLimit != 144 {
		t.Errorf("expected fps limit 144, got %d", cfg.Graphics.FPSLimit)
	}

	if cfg.Mesh.Source != "https://example.com/cube.obj" {
		t.Errorf("expected mesh source URL, got %s", cfg.Mesh.Source)
	}
	if cfg.Mesh.IndexPolicy != "skip" {
		t.Errorf("expected index policy 'skip', got %s", cfg.Mesh.IndexPolicy)
	}
	if cfg.Mesh.LoadTimeout != 5*time.Second {
		t.Errorf("expected load timeout 5s, got %v", cfg.Mesh.LoadTimeout)
	}
	if cfg.Mesh.BaseDir != "/srv/meshes" {
		t.Errorf("expected base dir /srv/meshes, got %s", cfg.Mesh.BaseDir)
	}
	if cfg.Mesh.Position != [3]float64{1, 2, 3} {
		t.Errorf("expected mesh position [1 2 3], got %v", cfg.Mesh.Position)
	}
	if cfg.Mesh.Spin != [3]float64{0, 0, 90} {
		t.Errorf("expected spin [0 0 90], got %v", cfg.Mesh.Spin)
	}
	if cfg.Mesh.HTTPTimeout != 30*time.Second {
		t.Errorf("expected untouched http timeout 30s, got %v", cfg.Mesh.HTTPTimeout)
	}

	if cfg.Camera.Rotation != [3]float64{-15, 0, 0} {
		t.Errorf("expected camera rotation [-15 0 0], got %v", cfg.Camera.Rotation)
	}

	if cfg.Screenshot.Format != "bmp" {
		t.Errorf("expected screenshot format 'bmp', got %s", cfg.Screenshot.Format)
	}

	if cfg.Logging.Level != "debug" {
		t.Errorf("expected log level 'debug', got %s", cfg.Logging.Level)
	}
	if cfg.Logging.LogFile != "meshview.log" {
		t.Errorf("expected log file 'meshview.log', got %s", cfg.Logging.LogFile)
	}
}

func TestLoadFromFileInvalid(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"bad syntax", "graphics:\n  width: not a number\n  invalid syntax here\n"},
		{"unknown key", "graphics:\n  widht: 800\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			configPath := filepath.Join(t.TempDir(), "invalid.yaml")
			if err := os.WriteFile(configPath, []byte(tt.content), 0644); err != nil {
				t.Fatalf("failed to write test config: %v", err)
			}

			cfg := Default()
			if err := loadFromFile(cfg, configPath); err == nil {
				t.Error("expected error loading invalid YAML, got nil")
			}
		})
	}
}

func TestLoadFromFileEmpty(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "empty.yaml")
	if err := os.WriteFile(configPath, nil, 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	cfg := Default()
	if err := loadFromFile(cfg, configPath); err != nil {
		t.Fatalf("empty file should load, got %v", err)
	}
	if cfg.Graphics.Width != 1280 {
		t.Errorf("expected defaults to survive, got width %d", cfg.Graphics.Width)
	}
}

func TestLoadFromFileMissing(t *testing.T) {
	cfg := Default()
	err := loadFromFile(cfg, "/nonexistent/path/config.yaml")
	if err == nil {
		t.Error("expected error loading missing file, got nil")
	}
}

func TestConfigDir(t *testing.T) {
	dir := ConfigDir()

	// Just verify it returns a non-empty path
	// Actual path depends on OS
	if dir == "" {
		t.Error("ConfigDir returned empty string")
	}

	// Verify path is absolute
	if !filepath.IsAbs(dir) {
		t.Errorf("ConfigDir should return absolute path, got %s", dir)
	}
}

func TestFindConfigFile(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Chdir(t.TempDir())

	// No config file exists - should return empty
	path := findConfigFile()
	if path != "" {
		t.Errorf("expected empty path when no config exists, got %s", path)
	}

	// Create config.yaml in current directory
	if err := os.WriteFile("config.yaml", []byte("graphics:\n  width: 800\n"), 0644); err != nil {
		t.Fatalf("failed to create test config: %v", err)
	}

	// Should find it now
	path = findConfigFile()
	if path == "" {
		t.Error("expected to find config.yaml in current directory")
	}
}

func TestApplyFlags(t *testing.T) {
	tests := []struct {
		name     string
		setup    func()
		verify   func(*testing.T, *Config)
		teardown func()
	}{
		{
			name: "debug flag",
			setup: func() {
				*flagDebug = true
			},
			verify: func(t *testing.T, cfg *Config) {
				if cfg.Logging.Level != "debug" {
					t.Errorf("expected log level 'debug', got %s", cfg.Logging.Level)
				}
			},
			teardown: func() {
				*flagDebug = false
			},
		},
		{
			name: "mesh flag",
			setup: func() {
				*flagMesh = "http://localhost:8080/cube.obj"
			},
			verify: func(t *testing.T, cfg *Config) {
				if cfg.Mesh.Source != "http://localhost:8080/cube.obj" {
					t.Errorf("expected mesh source from flag, got %s", cfg.Mesh.Source)
				}
			},
			teardown: func() {
				*flagMesh = ""
			},
		},
		{
			name: "windowed flag",
			setup: func() {
				*flagWindowed = true
			},
			verify: func(t *testing.T, cfg *Config) {
				if cfg.Graphics.Fullscreen {
					t.Error("expected fullscreen to be false with windowed flag")
				}
			},
			teardown: func() {
				*flagWindowed = false
			},
		},
		{
			name: "fullscreen flag",
			setup: func() {
				*flagFullscreen = true
			},
			verify: func(t *testing.T, cfg *Config) {
				if !cfg.Graphics.Fullscreen {
					t.Error("expected fullscreen to be true with fullscreen flag")
				}
			},
			teardown: func() {
				*flagFullscreen = false
			},
		},
		{
			name: "width and height flags",
			setup: func() {
				*flagWidth = 2560
				*flagHeight = 1440
			},
			verify: func(t *testing.T, cfg *Config) {
				if cfg.Graphics.Width != 2560 {
					t.Errorf("expected width 2560, got %d", cfg.Graphics.Width)
				}
				if cfg.Graphics.Height != 1440 {
					t.Errorf("expected height 1440, got %d", cfg.Graphics.Height)
				}
			},
			teardown: func() {
				*flagWidth = 0
				*flagHeight = 0
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.setup()
			defer tt.teardown()

			cfg := Default()
			applyFlags(cfg)

			tt.verify(t, cfg)
		})
	}
}

func TestLoadPriority(t *testing.T) {
	// Create temporary config file
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")

	yamlContent := `
graphics:
  width: 1600
  height: 900
mesh:
  source: file.obj
`

	if err := os.WriteFile(configPath, []byte(yamlContent), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	// Set flag to override config file
	*flagConfig = configPath
	*flagWidth = 1920
	*flagMesh = "flag.obj"
	defer func() {
		*flagConfig = ""
		*flagWidth = 0
		*flagMesh = ""
	}()

	// Load config
	cfg, err := Load()
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	// Width should be from flag (1920), not file (1600)
	if cfg.Graphics.Width != 1920 {
		t.Errorf("expected width 1920 from flag, got %d", cfg.Graphics.Width)
	}

	// Height should be from file (900) since no flag override
	if cfg.Graphics.Height != 900 {
		t.Errorf("expected height 900 from file, got %d", cfg.Graphics.Height)
	}

	if cfg.Mesh.Source != "flag.obj" {
		t.Errorf("expected mesh source from flag, got %s", cfg.Mesh.Source)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"valid", func(c *Config) {}, ""},
		{"missing source", func(c *Config) { c.Mesh.Source = "" }, "source is required"},
		{"zero width", func(c *Config) { c.Graphics.Width = 0 }, "invalid size"},
		{"bad policy", func(c *Config) { c.Mesh.IndexPolicy = "wrap" }, "index_policy"},
		{"upper-case policy", func(c *Config) { c.Mesh.IndexPolicy = "SKIP" }, ""},
		{"negative timeout", func(c *Config) { c.Mesh.LoadTimeout = -time.Second }, "load_timeout"},
		{"bad format", func(c *Config) { c.Screenshot.Format = "gif" }, "format"},
		{"bmp format", func(c *Config) { c.Screenshot.Format = "bmp" }, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			cfg.Mesh.Source = "cube.obj"
			tt.mutate(cfg)

			err := cfg.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Errorf("unexpected error: %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("expected error containing %q, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestSaveTo(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")

	cfg := Default()
	cfg.Mesh.Source = "saved.obj"
	cfg.Mesh.LoadTimeout = 3 * time.Second
	if err := cfg.SaveTo(path); err != nil {
		t.Fatalf("SaveTo: %v", err)
	}

	loaded := Default()
	if err := loadFromFile(loaded, path); err != nil {
		t.Fatalf("loading saved config: %v", err)
	}
	if loaded.Mesh.Source != "saved.obj" {
		t.Errorf("expected source 'saved.obj', got %s", loaded.Mesh.Source)
	}
	if loaded.Mesh.LoadTimeout != 3*time.Second {
		t.Errorf("expected load timeout 3s, got %v", loaded.Mesh.LoadTimeout)
	}
}
