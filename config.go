package main

import (
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

type Config struct {
	BoardPath    string  `yaml:"board_path"`
	AssetsDir    string  `yaml:"assets_dir"`
	HistoryDepth int     `yaml:"history_depth"`
	ZoomMin      float64 `yaml:"zoom_min"`
	ZoomMax      float64 `yaml:"zoom_max"`
	LogPath      string  `yaml:"log_path"`
}

func defaultConfig() *Config {
	return &Config{
		BoardPath:    "board.json",
		HistoryDepth: defaultHistoryDepth,
		ZoomMin:      defaultZoomMin,
		ZoomMax:      defaultZoomMax,
	}
}

// loadConfig reads ~/.config/driftpad/config.yaml when present. A missing or
// unreadable file just means defaults.
func loadConfig() *Config {
	cfg := defaultConfig()

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return cfg.normalize(homeDir)
	}

	data, err := os.ReadFile(filepath.Join(homeDir, ".config", "driftpad", "config.yaml"))
	if err != nil {
		return cfg.normalize(homeDir)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return defaultConfig().normalize(homeDir)
	}
	return cfg.normalize(homeDir)
}

func (c *Config) normalize(homeDir string) *Config {
	c.BoardPath = expandHome(c.BoardPath, homeDir)
	c.AssetsDir = expandHome(c.AssetsDir, homeDir)
	c.LogPath = expandHome(c.LogPath, homeDir)

	if c.BoardPath == "" {
		c.BoardPath = "board.json"
	}
	if abs, err := filepath.Abs(c.BoardPath); err == nil {
		c.BoardPath = abs
	}
	if c.AssetsDir == "" {
		c.AssetsDir = filepath.Join(filepath.Dir(c.BoardPath), "assets")
	}
	if c.HistoryDepth < 0 {
		c.HistoryDepth = 0
	}
	if c.ZoomMin <= 0 {
		c.ZoomMin = defaultZoomMin
	}
	if c.ZoomMax < c.ZoomMin {
		c.ZoomMax = defaultZoomMax
	}
	return c
}

func expandHome(path, homeDir string) string {
	if homeDir == "" || len(path) == 0 || path[0] != '~' {
		return path
	}
	return filepath.Join(homeDir, path[1:])
}
