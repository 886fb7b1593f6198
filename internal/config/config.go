// Package config loads and validates the kiosk configuration file.
// Operators describe the menu and server settings in cupcake.yaml; prices
// are written as dollar strings and converted to cents on the way in.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"gopkg.in/yaml.v3"

	cupcake "github.com/ranjanproject/composenavigation"
)

// Config is the kiosk configuration.
type Config struct {
	Title    string         `yaml:"title"`
	Server   ServerConfig   `yaml:"server"`
	Features FeaturesConfig `yaml:"features"`
	Menu     MenuConfig     `yaml:"menu"`
}

// ServerConfig holds server-related configuration.
type ServerConfig struct {
	Port  int    `yaml:"port"`
	Host  string `yaml:"host"`
	Debug bool   `yaml:"debug"`
}

// FeaturesConfig holds feature flags.
type FeaturesConfig struct {
	// HotReload reloads the menu when the config file changes on disk.
	HotReload bool             `yaml:"hot_reload"`
	RateLimit *RateLimitConfig `yaml:"rate_limit,omitempty"`
}

// RateLimitConfig bounds how fast a single session may fire events.
type RateLimitConfig struct {
	RequestsPerSecond float64 `yaml:"requests_per_second,omitempty"`
	Burst             int     `yaml:"burst,omitempty"`
}

// MenuConfig is the menu as operators write it. Prices are dollar strings
// ("2.00", "$2.50"); Build converts them to cents.
type MenuConfig struct {
	Quantities       []int          `yaml:"quantities"`
	Flavors          []FlavorConfig `yaml:"flavors"`
	UnitPrice        string         `yaml:"unit_price"`
	SameDaySurcharge string         `yaml:"same_day_surcharge"`
	PickupDays       int            `yaml:"pickup_days"`
}

// FlavorConfig is one flavor entry. Description may carry Markdown.
type FlavorConfig struct {
	Name        string `yaml:"name"`
	Description string `yaml:"description,omitempty"`
}

// GetRateLimitRPS returns the per-session event rate limit (default: 10).
func (f *FeaturesConfig) GetRateLimitRPS() float64 {
	if f == nil || f.RateLimit == nil || f.RateLimit.RequestsPerSecond <= 0 {
		return 10
	}
	return f.RateLimit.RequestsPerSecond
}

// GetRateLimitBurst returns the burst size (default: 20).
func (f *FeaturesConfig) GetRateLimitBurst() int {
	if f == nil || f.RateLimit == nil || f.RateLimit.Burst <= 0 {
		return 20
	}
	return f.RateLimit.Burst
}

// Build converts the menu section into the core menu type, parsing prices
// and validating the result.
func (m MenuConfig) Build() (*cupcake.Menu, error) {
	unit, err := cupcake.ParsePrice(m.UnitPrice)
	if err != nil {
		return nil, fmt.Errorf("menu unit_price: %w", err)
	}
	surcharge, err := cupcake.ParsePrice(m.SameDaySurcharge)
	if err != nil {
		return nil, fmt.Errorf("menu same_day_surcharge: %w", err)
	}

	flavors := make([]cupcake.Flavor, len(m.Flavors))
	for i, f := range m.Flavors {
		flavors[i] = cupcake.Flavor{Name: f.Name, Description: f.Description}
	}

	menu := &cupcake.Menu{
		Quantities:       append([]int(nil), m.Quantities...),
		Flavors:          flavors,
		UnitPrice:        unit,
		SameDaySurcharge: surcharge,
		PickupDays:       m.PickupDays,
	}
	if err := menu.Validate(); err != nil {
		return nil, fmt.Errorf("menu: %w", err)
	}
	return menu, nil
}

// Validate reports the first problem that would keep the kiosk from
// starting with this configuration.
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("server port %d out of range", c.Server.Port)
	}
	if c.Server.Host == "" {
		return fmt.Errorf("server host is empty")
	}
	if _, err := c.Menu.Build(); err != nil {
		return err
	}
	return nil
}

// DefaultConfig returns the configuration the kiosk ships with: the default
// menu on localhost:8080 with hot reload on.
func DefaultConfig() *Config {
	menu := cupcake.DefaultMenu()
	flavors := make([]FlavorConfig, len(menu.Flavors))
	for i, f := range menu.Flavors {
		flavors[i] = FlavorConfig{Name: f.Name, Description: f.Description}
	}
	return &Config{
		Title: "Cupcake Corner",
		Server: ServerConfig{
			Port:  8080,
			Host:  "localhost",
			Debug: false,
		},
		Features: FeaturesConfig{
			HotReload: true,
		},
		Menu: MenuConfig{
			Quantities:       append([]int(nil), menu.Quantities...),
			Flavors:          flavors,
			UnitPrice:        menu.UnitPrice.String(),
			SameDaySurcharge: menu.SameDaySurcharge.String(),
			PickupDays:       menu.PickupDays,
		},
	}
}

// Load loads configuration from a YAML file. A missing file is not an
// error: the defaults apply, so a bare directory is immediately servable.
func Load(configPath string) (*Config, error) {
	if configPath == "" {
		return DefaultConfig(), nil
	}

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return DefaultConfig(), nil
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	// Start with defaults so a partial file only overrides what it names.
	config := DefaultConfig()
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	return config, nil
}

// LoadFromDir looks for cupcake.yaml, then cupcake.yml, in the given
// directory. If neither is found, the defaults apply.
func LoadFromDir(dir string) (*Config, error) {
	yamlPath := filepath.Join(dir, "cupcake.yaml")
	if _, err := os.Stat(yamlPath); err == nil {
		return Load(yamlPath)
	}

	ymlPath := filepath.Join(dir, "cupcake.yml")
	if _, err := os.Stat(ymlPath); err == nil {
		return Load(ymlPath)
	}

	return Load(yamlPath)
}

// FindConfigFile returns the config file path LoadFromDir would use, or ""
// when the directory has none. The watcher uses it to know what to watch.
func FindConfigFile(dir string) string {
	for _, name := range []string{"cupcake.yaml", "cupcake.yml"} {
		path := filepath.Join(dir, name)
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}

// Save writes the configuration to a YAML file.
func (c *Config) Save(configPath string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(configPath, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// ApplyEnv overrides server settings from CUPCAKE_* environment variables.
// The serve command loads .env first, so a deployment can pin host and port
// without editing the config file.
func (c *Config) ApplyEnv() {
	if host := os.Getenv("CUPCAKE_HOST"); host != "" {
		c.Server.Host = host
	}
	if port := os.Getenv("CUPCAKE_PORT"); port != "" {
		if p, err := strconv.Atoi(port); err == nil {
			c.Server.Port = p
		}
	}
	if debug := os.Getenv("CUPCAKE_DEBUG"); debug != "" {
		c.Server.Debug = debug == "1" || debug == "true"
	}
}
