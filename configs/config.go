package configs

import (
	"fmt"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// Client is an API consumer allowed to request tokens (the cron runner,
// internal dashboards, ...).
type Client struct {
	Secret  string   `koanf:"secret"`
	Perms   []string `koanf:"perms"`
	Enabled bool     `koanf:"enabled"`
}

type Config struct {
	App struct {
		Name     string `koanf:"name"`
		HTTPAddr string `koanf:"http_addr"`
		LogLevel string `koanf:"log_level"`
		LogFile  string `koanf:"log_file"`
	} `koanf:"app"`

	HTTP struct {
		ReadTimeout  time.Duration `koanf:"read_timeout"`
		WriteTimeout time.Duration `koanf:"write_timeout"`
		IdleTimeout  time.Duration `koanf:"idle_timeout"`
	} `koanf:"http"`

	MySQL struct {
		DSN             string        `koanf:"dsn"`
		MaxOpenConns    int           `koanf:"max_open_conns"`
		MaxIdleConns    int           `koanf:"max_idle_conns"`
		ConnMaxLifetime time.Duration `koanf:"conn_max_lifetime"`
	} `koanf:"mysql"`

	Redis struct {
		Addr     string        `koanf:"addr"`
		Password string        `koanf:"password"`
		LockTTL  time.Duration `koanf:"lock_ttl"`
	} `koanf:"redis"`

	Rabbit struct {
		URL      string `koanf:"url"`
		Exchange string `koanf:"exchange"`
	} `koanf:"rabbitmq"`

	Security struct {
		JWTSecret string            `koanf:"jwt_secret"`
		Issuer    string            `koanf:"issuer"`
		Audience  string            `koanf:"audience"`
		TTL       time.Duration     `koanf:"ttl"`
		Clients   map[string]Client `koanf:"clients"`
	} `koanf:"security"`

	Catalog struct {
		LowStockThreshold int `koanf:"low_stock_threshold"`
		RestockIncrement  int `koanf:"restock_increment"`
	} `koanf:"catalog"`

	Jobs struct {
		APIBaseURL     string        `koanf:"api_base_url"`
		ClientID       string        `koanf:"client_id"`
		ClientSecret   string        `koanf:"client_secret"`
		CallTimeout    time.Duration `koanf:"call_timeout"`
		Attempts       int           `koanf:"attempts"`
		ReminderWindow time.Duration `koanf:"reminder_window"`
		MetricsAddr    string        `koanf:"metrics_addr"`

		HeartbeatSpec string `koanf:"heartbeat_spec"`
		LowStockSpec  string `koanf:"low_stock_spec"`
		RemindersSpec string `koanf:"reminders_spec"`
		ReportSpec    string `koanf:"report_spec"`

		HeartbeatLog string `koanf:"heartbeat_log"`
		LowStockLog  string `koanf:"low_stock_log"`
		RemindersLog string `koanf:"reminders_log"`
		ReportLog    string `koanf:"report_log"`
	} `koanf:"jobs"`
}

// Load layers base.yaml, an optional <envName>.yaml, and CRMAPI_ environment
// variables (nested keys with __, e.g. CRMAPI_MYSQL__DSN).
func Load(pathDir, envName string) (Config, error) {
	k := koanf.New(".")
	if err := k.Load(file.Provider(fmt.Sprintf("%s/base.yaml", pathDir)), yaml.Parser()); err != nil {
		return Config{}, fmt.Errorf("load base: %w", err)
	}

	// env-specific overlay is optional for local runs
	_ = k.Load(file.Provider(fmt.Sprintf("%s/%s.yaml", pathDir, envName)), yaml.Parser())

	if err := k.Load(env.Provider("CRMAPI_", ".", func(s string) string {
		s = strings.TrimPrefix(s, "CRMAPI_")
		s = strings.ReplaceAll(s, "__", ".")
		return strings.ToLower(s)
	}), nil); err != nil {
		return Config{}, fmt.Errorf("env overlay: %w", err)
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshal: %w", err)
	}
	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c *Config) applyDefaults() {
	if c.App.LogFile == "" {
		c.App.LogFile = "./logs/app.log"
	}
	if c.Redis.LockTTL <= 0 {
		c.Redis.LockTTL = 10 * time.Minute
	}
	if c.Security.TTL <= 0 {
		c.Security.TTL = 15 * time.Minute
	}
	if c.Catalog.LowStockThreshold <= 0 {
		c.Catalog.LowStockThreshold = 10
	}
	if c.Catalog.RestockIncrement <= 0 {
		c.Catalog.RestockIncrement = 10
	}
	if c.Jobs.CallTimeout <= 0 {
		c.Jobs.CallTimeout = 10 * time.Second
	}
	if c.Jobs.Attempts <= 0 {
		c.Jobs.Attempts = 3
	}
	if c.Jobs.ReminderWindow <= 0 {
		c.Jobs.ReminderWindow = 7 * 24 * time.Hour
	}
	if c.Jobs.MetricsAddr == "" {
		c.Jobs.MetricsAddr = ":9091"
	}
}

func (c Config) Validate() error {
	if c.App.HTTPAddr == "" {
		return fmt.Errorf("app.http_addr required")
	}
	if c.MySQL.DSN == "" {
		return fmt.Errorf("mysql.dsn required")
	}
	if c.Security.JWTSecret == "" {
		return fmt.Errorf("security.jwt_secret required")
	}
	return nil
}
