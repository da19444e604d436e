package config

import (
	"fmt"
	"time"
)

type ServerConfig struct {
	Host           string   `mapstructure:"host"`
	Port           int      `mapstructure:"port"`
	Mode           string   `mapstructure:"mode"`
	BaseURL        string   `mapstructure:"base_url"`
	AllowedOrigins []string `mapstructure:"allowed_origins"`
	ReadTimeout    int      `mapstructure:"read_timeout"`
	WriteTimeout   int      `mapstructure:"write_timeout"`
}

func (s *ServerConfig) GetAddr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// IsDebug reports whether the server runs in gin debug mode.
func (s *ServerConfig) IsDebug() bool {
	return s.Mode == "debug"
}

type DatabaseConfig struct {
	// Driver selects the gorm dialect: mysql, postgres or sqlite.
	Driver          string `mapstructure:"driver"`
	Host            string `mapstructure:"host"`
	Port            int    `mapstructure:"port"`
	Username        string `mapstructure:"username"`
	Password        string `mapstructure:"password"`
	Database        string `mapstructure:"database"`
	MaxIdleConns    int    `mapstructure:"max_idle_conns"`
	MaxOpenConns    int    `mapstructure:"max_open_conns"`
	ConnMaxLifetime int    `mapstructure:"conn_max_lifetime"`
}

func (d *DatabaseConfig) GetDSN() string {
	switch d.Driver {
	case "postgres":
		return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=disable TimeZone=UTC",
			d.Host, d.Port, d.Username, d.Password, d.Database)
	case "sqlite":
		return d.Database
	default:
		return fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=utf8mb4&parseTime=True&loc=UTC",
			d.Username, d.Password, d.Host, d.Port, d.Database)
	}
}

type LoggerConfig struct {
	Level      string `mapstructure:"level"`
	Format     string `mapstructure:"format"`
	OutputPath string `mapstructure:"output_path"`
}

type JWTConfig struct {
	Secret           string `mapstructure:"secret"`
	AccessExpMinutes int    `mapstructure:"access_exp_minutes"`
}

type AuthConfig struct {
	JWT JWTConfig `mapstructure:"jwt"`
	// CookieSecure marks the access_token and csrf_token cookies as Secure.
	CookieSecure bool `mapstructure:"cookie_secure"`
}

type EmailConfig struct {
	SMTPHost     string `mapstructure:"smtp_host"`
	SMTPPort     int    `mapstructure:"smtp_port"`
	SMTPUser     string `mapstructure:"smtp_user"`
	SMTPPassword string `mapstructure:"smtp_password"`
	FromAddress  string `mapstructure:"from_address"`
	FromName     string `mapstructure:"from_name"`
	// MessageIDDomain is the right-hand side of generated Message-ID headers.
	MessageIDDomain string `mapstructure:"message_id_domain"`
	MaxRetries      uint   `mapstructure:"max_retries"`
}

// Enabled reports whether outbound mail is configured.
func (e *EmailConfig) Enabled() bool {
	return e.SMTPHost != ""
}

type IMAPConfig struct {
	Host                string   `mapstructure:"host"`
	Port                int      `mapstructure:"port"`
	Username            string   `mapstructure:"username"`
	Password            string   `mapstructure:"password"`
	Encryption          string   `mapstructure:"encryption"` // tls, starttls or none
	Mailbox             string   `mapstructure:"mailbox"`
	ProcessedFolder     string   `mapstructure:"processed_folder"`
	FailedFolder        string   `mapstructure:"failed_folder"`
	BatchLimit          int      `mapstructure:"batch_limit"`
	TimeoutSeconds      int      `mapstructure:"timeout"`
	AllowUnknownSenders bool     `mapstructure:"allow_unknown_senders"`
	AllowedDomains      []string `mapstructure:"allowed_domains"`
}

// Enabled reports whether the ingest gate is open: host, username and password must all be set.
func (c *IMAPConfig) Enabled() bool {
	return c.Host != "" && c.Username != "" && c.Password != ""
}

func (c *IMAPConfig) GetAddr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

func (c *IMAPConfig) Timeout() time.Duration {
	if c.TimeoutSeconds <= 0 {
		return 5 * time.Second
	}
	return time.Duration(c.TimeoutSeconds) * time.Second
}

type RedisConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

func (r *RedisConfig) GetAddr() string {
	return fmt.Sprintf("%s:%d", r.Host, r.Port)
}

// Enabled reports whether a redis host is configured.
func (r *RedisConfig) Enabled() bool {
	return r.Host != ""
}

type StorageConfig struct {
	// Driver is local or s3.
	Driver    string `mapstructure:"driver"`
	LocalPath string `mapstructure:"local_path"`
	Bucket    string `mapstructure:"bucket"`
	Region    string `mapstructure:"region"`
	Endpoint  string `mapstructure:"endpoint"`
	AccessKey string `mapstructure:"access_key"`
	SecretKey string `mapstructure:"secret_key"`
}

type TimeTrackingConfig struct {
	DefaultBillableRate float64 `mapstructure:"default_billable_rate"`
	DefaultCostRate     float64 `mapstructure:"default_cost_rate"`
}

type MaintenanceConfig struct {
	IngestInterval      string `mapstructure:"ingest_interval"`
	RecurringInterval   string `mapstructure:"recurring_interval"`
	UpdateCheckInterval string `mapstructure:"update_check_interval"`
	GitHubRepo          string `mapstructure:"github_repo"`
	GitHubToken         string `mapstructure:"github_token"`
}
