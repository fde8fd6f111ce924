package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/go-viper/mapstructure/v2"
	"github.com/spf13/viper"

	"github.com/rafau/kiwi-rates/internal/logging"
)

// Config materialises application configuration.
type Config struct {
	App     AppConfig      `mapstructure:"app"`
	Logging logging.Config `mapstructure:"logging"`
	HTTP    HTTPConfig     `mapstructure:"http"`
	DataDir string         `mapstructure:"data_dir"`
	Report  ReportConfig   `mapstructure:"report"`
	Notify  NotifyConfig   `mapstructure:"notify"`
	Watch   WatchConfig    `mapstructure:"watch"`
	Export  ExportConfig   `mapstructure:"export"`
	Sources []SourceConfig `mapstructure:"sources"`
}

// AppConfig general metadata.
type AppConfig struct {
	Name        string `mapstructure:"name"`
	Environment string `mapstructure:"environment"`
}

// HTTPConfig governs fetch retry behaviour.
type HTTPConfig struct {
	MaxRetries int           `mapstructure:"max_retries"`
	Backoff    time.Duration `mapstructure:"backoff"`
	Timeout    time.Duration `mapstructure:"timeout"`
	UserAgent  string        `mapstructure:"user_agent"`
}

// ReportConfig sets static report output.
type ReportConfig struct {
	Output string `mapstructure:"output"`
	Title  string `mapstructure:"title"`
}

// NotifyConfig captures ntfy.sh push settings.
type NotifyConfig struct {
	Enabled bool          `mapstructure:"enabled"`
	Topic   string        `mapstructure:"topic"`
	BaseURL string        `mapstructure:"base_url"`
	Tags    string        `mapstructure:"tags"`
	Timeout time.Duration `mapstructure:"timeout"`
}

// WatchConfig governs the periodic scrape loop.
type WatchConfig struct {
	Interval        time.Duration `mapstructure:"interval"`
	AlignToInterval bool          `mapstructure:"align_to_interval"`
	StartupDelay    time.Duration `mapstructure:"startup_delay"`
}

// ExportConfig sets CLI export behaviour.
type ExportConfig struct {
	MaxDataPoints int `mapstructure:"max_data_points"`
}

// SourceConfig identifies one bank source. URLs default per source kind.
type SourceConfig struct {
	Name    string `mapstructure:"name"`
	PageURL string `mapstructure:"page_url"`
	FeedURL string `mapstructure:"feed_url"`
}

// Load builds configuration from file, environment, and defaults.
func Load(path string) (*Config, error) {
	v := viper.New()
	v.SetEnvPrefix("KIWIRATES")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
	}

	if err := readConfig(v); err != nil {
		return nil, err
	}

	var cfg Config
	if err := v.Unmarshal(&cfg, decodeHook()); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func readConfig(v *viper.Viper) error {
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			return nil
		}
		return fmt.Errorf("read config: %w", err)
	}
	return nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("app.name", "kiwirates")
	v.SetDefault("app.environment", "development")

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")

	v.SetDefault("http.max_retries", 5)
	v.SetDefault("http.backoff", "2s")
	v.SetDefault("http.timeout", "60s")

	v.SetDefault("data_dir", "data")

	v.SetDefault("report.output", "docs/index.html")
	v.SetDefault("report.title", "Kiwi Rates")

	v.SetDefault("notify.enabled", false)
	// An explicit default makes the key visible to Unmarshal, which is what
	// lets KIWIRATES_NOTIFY_TOPIC supply the topic via AutomaticEnv.
	v.SetDefault("notify.topic", "")
	v.SetDefault("notify.base_url", "https://ntfy.sh")
	v.SetDefault("notify.tags", "chart_with_upwards_trend")
	v.SetDefault("notify.timeout", "10s")

	v.SetDefault("watch.interval", "6h")
	v.SetDefault("watch.align_to_interval", true)
	v.SetDefault("watch.startup_delay", "0s")

	v.SetDefault("export.max_data_points", 100000)

	v.SetDefault("sources", []map[string]any{{"name": "bnz"}})
}

func decodeHook() viper.DecoderConfigOption {
	return func(dc *mapstructure.DecoderConfig) {
		dc.TagName = "mapstructure"
		dc.DecodeHook = mapstructure.ComposeDecodeHookFunc(
			mapstructure.StringToTimeDurationHookFunc(),
			mapstructure.StringToSliceHookFunc(","),
		)
	}
}

// Validate performs basic sanity checks on the configuration values.
func (c *Config) Validate() error {
	if c.HTTP.MaxRetries <= 0 {
		return fmt.Errorf("http.max_retries must be greater than zero")
	}
	if c.HTTP.Backoff <= 0 {
		return fmt.Errorf("http.backoff must be greater than zero")
	}
	if c.HTTP.Timeout <= 0 {
		return fmt.Errorf("http.timeout must be greater than zero")
	}
	if c.DataDir == "" {
		return fmt.Errorf("data_dir must not be empty")
	}
	if c.Report.Output == "" {
		return fmt.Errorf("report.output must not be empty")
	}
	if c.Watch.Interval <= 0 {
		return fmt.Errorf("watch.interval must be greater than zero")
	}
	if c.Export.MaxDataPoints <= 0 {
		return fmt.Errorf("export.max_data_points must be greater than zero")
	}
	if c.Notify.Enabled && c.Notify.Topic == "" {
		return fmt.Errorf("notify.topic must be set when notify.enabled is true")
	}
	if len(c.Sources) == 0 {
		return fmt.Errorf("at least one source must be configured")
	}
	for i, src := range c.Sources {
		if src.Name == "" {
			return fmt.Errorf("sources[%d].name must not be empty", i)
		}
	}
	return nil
}

// ResolveMaxPoints returns either the CLI override or config default.
func (c *Config) ResolveMaxPoints(override int) int {
	if override > 0 {
		return override
	}
	return c.Export.MaxDataPoints
}
