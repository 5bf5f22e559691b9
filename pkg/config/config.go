package config

import (
	"fmt"
	"os"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/matst80/moment-finder/pkg/types"
	"gopkg.in/yaml.v3"
)

// Config is the finder service configuration. The YAML file describes the
// filtering scopes, environment variables override addresses and secrets.
type Config struct {
	Listen          string                 `yaml:"listen"`
	DataDir         string                 `yaml:"data_dir"`
	PresetNamespace string                 `yaml:"preset_namespace"`
	PresetStore     StoreConfig            `yaml:"preset_store"`
	Rabbit          RabbitConfig           `yaml:"rabbit"`
	WnbaTeams       []string               `yaml:"wnba_teams"`
	Scopes          map[string]ScopeConfig `yaml:"scopes"`
	Timeouts        TimeoutConfig          `yaml:"-"`
}

// StoreConfig selects the preset key value backend.
type StoreConfig struct {
	// Kind is one of memory, file, redis or badger.
	Kind          string `yaml:"kind"`
	Path          string `yaml:"path"`
	RedisAddr     string `yaml:"redis_addr"`
	RedisPassword string `yaml:"-"`
	RedisDB       int    `yaml:"redis_db"`
	Prefix        string `yaml:"prefix"`
}

type RabbitConfig struct {
	Url    string `yaml:"-"`
	Prefix string `yaml:"prefix"`
}

// ScopeConfig holds the inputs of one filtering context that users cannot
// change.
type ScopeConfig struct {
	ShowLocked      bool            `yaml:"show_locked"`
	AllowAllTiers   bool            `yaml:"allow_all_tiers"`
	SafetyOverrides []int           `yaml:"safety_overrides"`
	ForceSort       types.SortOrder `yaml:"force_sort"`
	PageSize        int             `yaml:"page_size"`
	ForcedSeries    []int           `yaml:"forced_series"`
}

// TimeoutConfig holds server and shutdown related timeouts.
type TimeoutConfig struct {
	ReadHeader time.Duration
	Read       time.Duration
	Write      time.Duration
	Idle       time.Duration
	Shutdown   time.Duration
	Hook       time.Duration
}

const (
	StoreMemory = "memory"
	StoreFile   = "file"
	StoreRedis  = "redis"
	StoreBadger = "badger"
)

func Default() *Config {
	return &Config{
		Listen:          ":8080",
		DataDir:         "data",
		PresetNamespace: "momentSelectionFilterPrefs",
		PresetStore: StoreConfig{
			Kind: StoreFile,
			Path: "data/presets",
		},
		Rabbit: RabbitConfig{Prefix: "moments"},
		Scopes: map[string]ScopeConfig{
			"swap": {},
			"collection": {
				ShowLocked:    true,
				AllowAllTiers: true,
			},
		},
		Timeouts: TimeoutConfig{
			ReadHeader: 5 * time.Second,
			Read:       15 * time.Second,
			Write:      30 * time.Second,
			Idle:       60 * time.Second,
			Shutdown:   15 * time.Second,
			Hook:       5 * time.Second,
		},
	}
}

// Load reads the YAML file over the defaults and applies the environment.
// An empty filename only applies the environment.
func Load(filename string) (*Config, error) {
	cfg := Default()
	if filename != "" {
		data, err := os.ReadFile(filename)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		scopes := cfg.Scopes
		cfg.Scopes = nil
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
		if cfg.Scopes == nil {
			cfg.Scopes = scopes
		}
	}
	cfg.ApplyEnv()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// ApplyEnv overrides settings from the environment:
//
//	LISTEN_ADDR, DATA_DIR, PRESET_STORE, PRESET_PATH, REDIS_ADDR,
//	REDIS_PASSWORD, RABBIT_HOST and the *_TIMEOUT seconds.
func (c *Config) ApplyEnv() {
	str := func(curr *string, env string) {
		if v, ok := os.LookupEnv(env); ok && v != "" {
			*curr = v
		}
	}
	str(&c.Listen, "LISTEN_ADDR")
	str(&c.DataDir, "DATA_DIR")
	str(&c.PresetStore.Kind, "PRESET_STORE")
	str(&c.PresetStore.Path, "PRESET_PATH")
	str(&c.PresetStore.RedisAddr, "REDIS_ADDR")
	str(&c.PresetStore.RedisPassword, "REDIS_PASSWORD")
	str(&c.Rabbit.Url, "RABBIT_HOST")

	seconds := func(curr *time.Duration, env string) {
		if v := os.Getenv(env); v != "" {
			if n, err := strconv.Atoi(v); err == nil && n > 0 {
				*curr = time.Duration(n) * time.Second
			}
		}
	}
	seconds(&c.Timeouts.ReadHeader, "READ_HEADER_TIMEOUT")
	seconds(&c.Timeouts.Read, "READ_TIMEOUT")
	seconds(&c.Timeouts.Write, "WRITE_TIMEOUT")
	seconds(&c.Timeouts.Idle, "IDLE_TIMEOUT")
	seconds(&c.Timeouts.Shutdown, "SHUTDOWN_TIMEOUT")
	seconds(&c.Timeouts.Hook, "HOOK_TIMEOUT")
}

func (c *Config) Validate() error {
	switch c.PresetStore.Kind {
	case StoreMemory, StoreFile, StoreBadger:
	case StoreRedis:
		if c.PresetStore.RedisAddr == "" {
			return fmt.Errorf("preset store redis needs an address")
		}
	default:
		return fmt.Errorf("unknown preset store %q", c.PresetStore.Kind)
	}
	if len(c.Scopes) == 0 {
		return fmt.Errorf("at least one scope is required")
	}
	for name, s := range c.Scopes {
		if s.ForceSort != "" && s.ForceSort != types.SortLowestSerial && s.ForceSort != types.SortHighestSerial {
			return fmt.Errorf("scope %s: unknown sort %q", name, s.ForceSort)
		}
		if s.PageSize < 0 {
			return fmt.Errorf("scope %s: negative page size", name)
		}
	}
	return nil
}

func (c *Config) Scope(name string) (ScopeConfig, bool) {
	s, ok := c.Scopes[name]
	return s, ok
}

func (c *Config) ScopeNames() []string {
	ret := make([]string, 0, len(c.Scopes))
	for name := range c.Scopes {
		ret = append(ret, name)
	}
	slices.Sort(ret)
	return ret
}

// FilterContext builds the evaluation context of a scope. Exclusions are
// per request and added by the caller.
func (c *Config) FilterContext(scope ScopeConfig) *types.FilterContext {
	fc := &types.FilterContext{
		ShowLocked:      scope.ShowLocked,
		AllowAllTiers:   scope.AllowAllTiers,
		SafetyOverrides: types.IdSet(scope.SafetyOverrides...),
		ForceSortOrder:  scope.ForceSort,
		PageSize:        scope.PageSize,
		ForcedSeries:    slices.Clone(scope.ForcedSeries),
	}
	if len(c.WnbaTeams) > 0 {
		fc.LeagueRoster = types.IdSet(c.WnbaTeams...)
	}
	return fc
}

// Print displays the configuration
func (c *Config) Print() {
	fmt.Printf("Listen: %s, data: %s\n", c.Listen, c.DataDir)
	fmt.Printf("Preset store: %s (namespace %s)\n", c.PresetStore.Kind, c.PresetNamespace)
	if c.Rabbit.Url != "" {
		fmt.Printf("Rabbit prefix: %s\n", c.Rabbit.Prefix)
	}
	for _, name := range c.ScopeNames() {
		s := c.Scopes[name]
		fmt.Printf("Scope %s: locked=%t allTiers=%t overrides=%s\n", name, s.ShowLocked, s.AllowAllTiers, joinInts(s.SafetyOverrides))
	}
}

func joinInts(values []int) string {
	parts := make([]string, len(values))
	for i, v := range values {
		parts[i] = strconv.Itoa(v)
	}
	return "[" + strings.Join(parts, ",") + "]"
}
