package game

import (
	"strings"

	"github.com/JeremyLoy/config"
	"github.com/rotisserie/eris"
)

// Config holds runtime settings. Every field can be set from a GE_* env var.
type Config struct {
	// Scene is a file loaded on start and on reset. Level names an embedded
	// level used when Scene is empty. With neither, Prefabs are spawned.
	Scene     string  `config:"GE_SCENE"`
	Level     string  `config:"GE_LEVEL"`
	Prefabs   string  `config:"GE_PREFABS"`
	PrefabDir string  `config:"GE_PREFAB_DIR"`
	Capacity  int     `config:"GE_CAPACITY"`
	TickRate  float64 `config:"GE_TICK_RATE"`
	Frames    int     `config:"GE_FRAMES"`
	Gravity   float64 `config:"GE_GRAVITY"`
	HotReload bool    `config:"GE_HOT_RELOAD"`
	SavePath  string  `config:"GE_SAVE"`
	LogLevel  string  `config:"GE_LOG_LEVEL"`
	LogPretty bool    `config:"GE_LOG_PRETTY"`
}

func DefaultConfig() Config {
	return Config{
		Prefabs:   "ground,crate,walker,bobber",
		PrefabDir: "prefabs",
		Capacity:  10000,
		TickRate:  60,
		Gravity:   -9.8,
		LogLevel:  "info",
		LogPretty: true,
	}
}

// LoadConfig applies GE_* env vars over the defaults.
func LoadConfig() (Config, error) {
	cfg := DefaultConfig()
	if err := config.FromEnv().To(&cfg); err != nil {
		return cfg, eris.Wrap(err, "load config from env")
	}
	return cfg, cfg.Validate()
}

func (c Config) Validate() error {
	if c.Capacity <= 0 {
		return eris.Errorf("capacity must be positive, got %d", c.Capacity)
	}
	if c.TickRate <= 0 {
		return eris.Errorf("tick rate must be positive, got %g", c.TickRate)
	}
	if c.Frames < 0 {
		return eris.Errorf("frames must not be negative, got %d", c.Frames)
	}
	return nil
}

// PrefabList splits Prefabs on commas.
func (c Config) PrefabList() []string {
	var out []string
	for _, p := range strings.Split(c.Prefabs, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// Step is the fixed update interval in seconds.
func (c Config) Step() float64 {
	return 1 / c.TickRate
}
