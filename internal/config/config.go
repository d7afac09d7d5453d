package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"forager/internal/domain/game"

	"gopkg.in/yaml.v3"
)

const (
	DefaultAddr   = ":8080"
	DefaultWSAddr = ":8081"
	DefaultTickHz = 30
	MaxTickHz     = 120

	// WSAddrOff as FORAGER_WS_ADDR disables the websocket listener.
	WSAddrOff = "off"
)

type Config struct {
	Addr       string
	WSAddr     string
	DBDSN      string
	SQLitePath string
	TuningFile string
	TickHz     int
	CORSOrigin string
	Game       game.Config
}

// Tuning overrides parts of the game configuration. Zero fields keep the default.
type Tuning struct {
	CanvasWidth           float64 `yaml:"canvas_width"`
	CanvasHeight          float64 `yaml:"canvas_height"`
	ResourceCap           int     `yaml:"resource_cap"`
	ResourceSpawnInterval float64 `yaml:"resource_spawn_interval_ms"`
	InitialResources      int     `yaml:"initial_resources"`
	WaveTransitionDelay   float64 `yaml:"wave_transition_delay_ms"`
	Seed                  int64   `yaml:"seed"`
}

// FromEnv reads the FORAGER_* variables and applies the tuning file when one is named.
func FromEnv() (Config, error) {
	cfg := Config{
		Addr:       stringEnv("FORAGER_ADDR", DefaultAddr),
		WSAddr:     stringEnv("FORAGER_WS_ADDR", DefaultWSAddr),
		DBDSN:      stringEnv("FORAGER_DB_DSN", ""),
		SQLitePath: stringEnv("FORAGER_SQLITE_PATH", ""),
		TuningFile: stringEnv("FORAGER_TUNING_FILE", ""),
		TickHz:     intEnv("FORAGER_TICK_HZ", DefaultTickHz),
		CORSOrigin: stringEnv("FORAGER_CORS_ORIGIN", "*"),
		Game:       game.DefaultConfig(),
	}
	if strings.EqualFold(cfg.WSAddr, WSAddrOff) {
		cfg.WSAddr = ""
	}
	if cfg.TickHz <= 0 || cfg.TickHz > MaxTickHz {
		return Config{}, fmt.Errorf("FORAGER_TICK_HZ must be in 1..%d, got %d", MaxTickHz, cfg.TickHz)
	}
	if cfg.TuningFile != "" {
		t, err := LoadTuning(cfg.TuningFile)
		if err != nil {
			return Config{}, err
		}
		cfg.Game = t.Apply(cfg.Game)
	}
	return cfg, nil
}

func LoadTuning(path string) (Tuning, error) {
	var t Tuning
	raw, err := os.ReadFile(path)
	if err != nil {
		return t, err
	}
	if err := yaml.Unmarshal(raw, &t); err != nil {
		return t, fmt.Errorf("tuning file %s: %w", path, err)
	}
	if t.CanvasWidth < 0 || t.CanvasHeight < 0 || t.ResourceCap < 0 || t.InitialResources < 0 {
		return t, fmt.Errorf("tuning file %s: negative values are not allowed", path)
	}
	return t, nil
}

func (t Tuning) Apply(base game.Config) game.Config {
	if t.CanvasWidth > 0 && t.CanvasHeight > 0 {
		base.Bounds = game.Bounds{Width: t.CanvasWidth, Height: t.CanvasHeight}
	}
	if t.ResourceCap > 0 {
		base.ResourceCap = t.ResourceCap
	}
	if t.ResourceSpawnInterval > 0 {
		base.ResourceSpawnInterval = t.ResourceSpawnInterval
	}
	if t.InitialResources > 0 {
		base.InitialResources = t.InitialResources
	}
	if t.WaveTransitionDelay > 0 {
		base.WaveTransitionDelay = t.WaveTransitionDelay
	}
	if t.Seed != 0 {
		base.Seed = t.Seed
	}
	return base
}

func stringEnv(key, fallback string) string {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback
	}
	return v
}

func intEnv(key string, fallback int) int {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}
