package config

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Database DatabaseConfig `yaml:"database"`
	Log      LogConfig      `yaml:"log"`
	Report   ReportConfig   `yaml:"report"`
	Branding BrandingConfig `yaml:"branding"`
	Redis    RedisConfig    `yaml:"redis"`
	SMTP     SMTPConfig     `yaml:"smtp"`
	Dispatch DispatchConfig `yaml:"dispatch"`
}

type ServerConfig struct {
	Host string `yaml:"host"`
	Port string `yaml:"port"`
	Mode string `yaml:"mode"` // debug, release, test
	// CORSOrigins lists the browser origins allowed to call the API.
	// Empty allows any origin without credentials.
	CORSOrigins []string `yaml:"cors_origins"`
}

type DatabaseConfig struct {
	Driver string `yaml:"driver"` // sqlite, mysql, postgres
	DSN    string `yaml:"dsn"`
}

type LogConfig struct {
	Level string `yaml:"level"`
}

type ReportConfig struct {
	// OutputDir receives a copy of every export when Archive is set, and is
	// the default target of the CLI.
	OutputDir string `yaml:"output_dir"`
	Archive   bool   `yaml:"archive"`
	Timezone  string `yaml:"timezone"`
	// GenerateRPS and GenerateBurst throttle the generate endpoint per client IP.
	GenerateRPS   float64 `yaml:"generate_rps"`
	GenerateBurst int     `yaml:"generate_burst"`
}

// Location resolves Timezone, falling back to time.Local.
func (r ReportConfig) Location() *time.Location {
	if r.Timezone == "" || strings.EqualFold(r.Timezone, "local") {
		return time.Local
	}
	loc, err := time.LoadLocation(r.Timezone)
	if err != nil {
		return time.Local
	}
	return loc
}

type BrandingConfig struct {
	ShortName string `yaml:"short_name"`
	// Logo is an http(s) URL or a local file path. Empty disables the logo.
	Logo            string      `yaml:"logo"`
	LogoTimeoutMS   int         `yaml:"logo_timeout_ms"`
	LogoCacheTTLMin int         `yaml:"logo_cache_ttl_min"`
	Colors          ColorConfig `yaml:"colors"`
}

func (b BrandingConfig) LogoTimeout() time.Duration {
	return time.Duration(b.LogoTimeoutMS) * time.Millisecond
}

func (b BrandingConfig) LogoCacheTTL() time.Duration {
	return time.Duration(b.LogoCacheTTLMin) * time.Minute
}

type ColorConfig struct {
	Primary   string `yaml:"primary"`
	Secondary string `yaml:"secondary"`
}

// RedisConfig enables the asynq delivery queue.
type RedisConfig struct {
	Enabled  bool   `yaml:"enabled"`
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

type SMTPConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Username string `yaml:"username"`
	Password string `yaml:"password"`
	From     string `yaml:"from"`
	UseTLS   bool   `yaml:"use_tls"`
}

// Configured reports whether enough is set to attempt a delivery.
func (s SMTPConfig) Configured() bool {
	return s.Host != "" && (s.From != "" || s.Username != "")
}

// DispatchConfig turns schedules from plain records into cron-driven deliveries.
type DispatchConfig struct {
	Enabled bool `yaml:"enabled"`
}

var GlobalConfig *Config

func Load(configPath string) (*Config, error) {
	if configPath == "" {
		configPath = "config.yaml"
	}

	cfg := DefaultConfig()

	if _, err := os.Stat(configPath); err == nil {
		data, err := os.ReadFile(configPath)
		if err != nil {
			return nil, err
		}
		// Unmarshal over the defaults so partial files keep sane values.
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, err
		}
	} else if !os.IsNotExist(err) {
		return nil, err
	}

	cfg.overrideFromEnv()
	GlobalConfig = cfg
	return cfg, nil
}

func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Host: "0.0.0.0",
			Port: "8080",
			Mode: "debug",
		},
		Database: DatabaseConfig{
			Driver: "sqlite",
			DSN:    "file::memory:?cache=shared",
		},
		Log: LogConfig{
			Level: "info",
		},
		Report: ReportConfig{
			OutputDir:     "exports",
			Timezone:      "Local",
			GenerateRPS:   2,
			GenerateBurst: 5,
		},
		Branding: BrandingConfig{
			ShortName:       "CW",
			LogoTimeoutMS:   1500,
			LogoCacheTTLMin: 10,
			Colors: ColorConfig{
				Primary:   "#FACC15",
				Secondary: "#0B2545",
			},
		},
		Redis: RedisConfig{
			Enabled: false,
			Addr:    "localhost:6379",
			DB:      0,
		},
		SMTP: SMTPConfig{
			Port: 587,
		},
	}
}

func (c *Config) overrideFromEnv() {
	if host := os.Getenv("SERVER_HOST"); host != "" {
		c.Server.Host = host
	}
	if port := os.Getenv("SERVER_PORT"); port != "" {
		c.Server.Port = port
	}
	if mode := os.Getenv("SERVER_MODE"); mode != "" {
		c.Server.Mode = mode
	}
	if origins := os.Getenv("CORS_ORIGINS"); origins != "" {
		c.Server.CORSOrigins = nil
		for _, o := range strings.Split(origins, ",") {
			if o = strings.TrimSpace(o); o != "" {
				c.Server.CORSOrigins = append(c.Server.CORSOrigins, o)
			}
		}
	}
	if driver := os.Getenv("DB_DRIVER"); driver != "" {
		c.Database.Driver = driver
	}
	if dsn := os.Getenv("DB_DSN"); dsn != "" {
		c.Database.DSN = dsn
	}
	if level := os.Getenv("LOG_LEVEL"); level != "" {
		c.Log.Level = level
	}
	if dir := os.Getenv("REPORT_OUTPUT_DIR"); dir != "" {
		c.Report.OutputDir = dir
	}
	if tz := os.Getenv("REPORT_TIMEZONE"); tz != "" {
		c.Report.Timezone = tz
	}
	if logo := os.Getenv("BRANDING_LOGO"); logo != "" {
		c.Branding.Logo = logo
	}
	if host := os.Getenv("SMTP_HOST"); host != "" {
		c.SMTP.Host = host
	}
	if port := os.Getenv("SMTP_PORT"); port != "" {
		if p, err := strconv.Atoi(port); err == nil {
			c.SMTP.Port = p
		}
	}
	if user := os.Getenv("SMTP_USERNAME"); user != "" {
		c.SMTP.Username = user
	}
	if pass := os.Getenv("SMTP_PASSWORD"); pass != "" {
		c.SMTP.Password = pass
	}
	if from := os.Getenv("SMTP_FROM"); from != "" {
		c.SMTP.From = from
	}
	if enabled := os.Getenv("DISPATCH_ENABLED"); enabled != "" {
		c.Dispatch.Enabled = enabled == "true" || enabled == "1"
	}
	// Format: redis://:password@host:port/db
	if redisURL := os.Getenv("REDIS_URL"); redisURL != "" {
		c.Redis.Enabled = true
		c.parseRedisURL(redisURL)
	}
}

func (c *Config) parseRedisURL(redisURL string) {
	url := strings.TrimPrefix(redisURL, "redis://")

	if atIdx := strings.Index(url, "@"); atIdx != -1 {
		authPart := url[:atIdx]
		url = url[atIdx+1:]
		if colonIdx := strings.Index(authPart, ":"); colonIdx != -1 {
			c.Redis.Password = authPart[colonIdx+1:]
		}
	}

	if slashIdx := strings.LastIndex(url, "/"); slashIdx != -1 {
		dbStr := url[slashIdx+1:]
		url = url[:slashIdx]
		if db, err := strconv.Atoi(dbStr); err == nil {
			c.Redis.DB = db
		}
	}

	c.Redis.Addr = url
}

func (c *Config) Save(configPath string) error {
	if configPath == "" {
		configPath = "config.yaml"
	}

	if err := os.MkdirAll(filepath.Dir(configPath), 0755); err != nil {
		return err
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return err
	}

	return os.WriteFile(configPath, data, 0644)
}
