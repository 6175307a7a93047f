package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds application configuration.
type Config struct {
	Database   DatabaseConfig   `mapstructure:"database"`
	Extraction ExtractionConfig `mapstructure:"extraction"`
	Booking    BookingConfig    `mapstructure:"booking"`
	Export     ExportConfig     `mapstructure:"export"`
	UI         UIConfig         `mapstructure:"ui"`
	Log        LogConfig        `mapstructure:"log"`
}

// DatabaseConfig holds sqlite settings.
type DatabaseConfig struct {
	Path string `mapstructure:"path"`
}

// ExtractionConfig points at the trade extraction backend.
type ExtractionConfig struct {
	FXURL    string        `mapstructure:"fx_url"`
	SwapURL  string        `mapstructure:"swap_url"`
	Timeout  time.Duration `mapstructure:"timeout"`
	CacheTTL time.Duration `mapstructure:"cache_ttl"`
}

// BookingConfig controls the simulated hand-off to the booking system.
type BookingConfig struct {
	Target string        `mapstructure:"target"`
	Delay  time.Duration `mapstructure:"delay"`
}

// ExportConfig controls where exported trades land.
type ExportConfig struct {
	Dir      string `mapstructure:"dir"`
	Filename string `mapstructure:"filename"`
}

// UIConfig holds presentation settings.
type UIConfig struct {
	Currencies []string `mapstructure:"currencies"`
}

type LogConfig struct {
	Level string `mapstructure:"level"`
	Path  string `mapstructure:"path"`
}

const envPrefix = "TRADESNIPPER"

func dataDir() string {
	return filepath.Join(os.Getenv("HOME"), ".local", "share", "tradesnipper")
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("database.path", filepath.Join(dataDir(), "tradesnipper.db"))
	v.SetDefault("extraction.fx_url", "http://localhost:5008/api/process-fx")
	v.SetDefault("extraction.swap_url", "http://localhost:5001/api/process-swap")
	v.SetDefault("extraction.timeout", 60*time.Second)
	v.SetDefault("extraction.cache_ttl", 10*time.Minute)
	v.SetDefault("booking.target", "Murex")
	v.SetDefault("booking.delay", 2*time.Second)
	v.SetDefault("export.dir", filepath.Join(os.Getenv("HOME"), "Downloads"))
	v.SetDefault("export.filename", "detected_trade.json")
	v.SetDefault("ui.currencies", []string{"CLP", "CLF", "USD", "EUR", "CHF"})
	v.SetDefault("log.level", "info")
	v.SetDefault("log.path", filepath.Join(dataDir(), "tradesnipper.log"))
}

// Path is the config file location. TRADESNIPPER_CONFIG overrides it.
func Path() string {
	if p := os.Getenv(envPrefix + "_CONFIG"); p != "" {
		return p
	}
	return filepath.Join(os.Getenv("HOME"), ".config", "tradesnipper", "config.toml")
}

// Load reads configuration from file and env. Env var overrides use prefix TRADESNIPPER_.
func Load() (Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetConfigType("toml")
	v.SetConfigFile(Path())

	v.SetEnvPrefix(envPrefix)
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// a missing file is fine; a broken one is not
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.Is(err, fs.ErrNotExist) && !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	}

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}
	if len(c.UI.Currencies) == 0 {
		c.UI.Currencies = []string{"CLP", "CLF", "USD", "EUR", "CHF"}
	}
	return c, nil
}

// Save writes the provided config to disk, creating the config directory if needed.
func Save(cfg Config) error {
	path := Path()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("mkdir config dir: %w", err)
	}

	v := viper.New()
	v.SetConfigType("toml")
	v.Set("database.path", cfg.Database.Path)
	v.Set("extraction.fx_url", cfg.Extraction.FXURL)
	v.Set("extraction.swap_url", cfg.Extraction.SwapURL)
	v.Set("extraction.timeout", cfg.Extraction.Timeout.String())
	v.Set("extraction.cache_ttl", cfg.Extraction.CacheTTL.String())
	v.Set("booking.target", cfg.Booking.Target)
	v.Set("booking.delay", cfg.Booking.Delay.String())
	v.Set("export.dir", cfg.Export.Dir)
	v.Set("export.filename", cfg.Export.Filename)
	v.Set("ui.currencies", cfg.UI.Currencies)
	v.Set("log.level", cfg.Log.Level)
	v.Set("log.path", cfg.Log.Path)

	if err := v.WriteConfigAs(path); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}
