package config

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/spf13/viper"

	sharedConfig "github.com/orris-inc/helpdesk/internal/shared/config"
)

type Config struct {
	Server       sharedConfig.ServerConfig       `mapstructure:"server"`
	Database     sharedConfig.DatabaseConfig     `mapstructure:"database"`
	Logger       sharedConfig.LoggerConfig       `mapstructure:"logger"`
	Auth         sharedConfig.AuthConfig         `mapstructure:"auth"`
	Email        sharedConfig.EmailConfig        `mapstructure:"email"`
	IMAP         sharedConfig.IMAPConfig         `mapstructure:"imap"`
	Redis        sharedConfig.RedisConfig        `mapstructure:"redis"`
	Storage      sharedConfig.StorageConfig      `mapstructure:"storage"`
	TimeTracking sharedConfig.TimeTrackingConfig `mapstructure:"time_tracking"`
	Maintenance  sharedConfig.MaintenanceConfig  `mapstructure:"maintenance"`
}

var (
	appConfig   *Config
	appConfigMu sync.RWMutex
)

// Load loads configuration from file and environment variables.
// configFile overrides the default search path when non-empty. A missing
// config file is not an error: defaults and HELPDESK_* variables still apply.
func Load(env, configFile string) (*Config, error) {
	if configFile != "" {
		viper.SetConfigFile(configFile)
	} else {
		viper.SetConfigName("config")
		viper.SetConfigType("yaml")
		viper.AddConfigPath("./configs")
		viper.AddConfigPath("../configs")
		viper.AddConfigPath("../../configs")
	}

	viper.SetEnvPrefix("HELPDESK")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	setDefaults()

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if configFile != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	if env != "" && env != "default" {
		viper.Set("server.mode", env)
	}

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	appConfigMu.Lock()
	appConfig = &config
	appConfigMu.Unlock()

	return &config, nil
}

// Get returns the loaded configuration
func Get() *Config {
	appConfigMu.RLock()
	defer appConfigMu.RUnlock()
	return appConfig
}

func setDefaults() {
	viper.SetDefault("server.host", "0.0.0.0")
	viper.SetDefault("server.port", 8080)
	viper.SetDefault("server.mode", "debug")
	viper.SetDefault("server.read_timeout", 15)
	viper.SetDefault("server.write_timeout", 30)
	viper.SetDefault("server.base_url", "http://localhost:8080")

	viper.SetDefault("database.driver", "mysql")
	viper.SetDefault("database.host", "localhost")
	viper.SetDefault("database.port", 3306)
	viper.SetDefault("database.username", "root")
	viper.SetDefault("database.password", "password")
	viper.SetDefault("database.database", "helpdesk_dev")
	viper.SetDefault("database.max_idle_conns", 10)
	viper.SetDefault("database.max_open_conns", 100)
	viper.SetDefault("database.conn_max_lifetime", 60)

	viper.SetDefault("logger.level", "info")
	viper.SetDefault("logger.format", "console")
	viper.SetDefault("logger.output_path", "stdout")

	viper.SetDefault("auth.jwt.secret", "change-me-in-production")
	viper.SetDefault("auth.jwt.access_exp_minutes", 60)
	viper.SetDefault("auth.cookie_secure", false)

	// Empty smtp_host disables outbound mail.
	viper.SetDefault("email.smtp_host", "")
	viper.SetDefault("email.smtp_port", 587)
	viper.SetDefault("email.smtp_user", "")
	viper.SetDefault("email.smtp_password", "")
	viper.SetDefault("email.from_address", "support@helpdesk.local")
	viper.SetDefault("email.from_name", "Helpdesk")
	viper.SetDefault("email.message_id_domain", "helpdesk.local")
	viper.SetDefault("email.max_retries", 3)

	// Every key needs a default so HELPDESK_* variables reach Unmarshal.
	viper.SetDefault("imap.host", "")
	viper.SetDefault("imap.username", "")
	viper.SetDefault("imap.password", "")
	viper.SetDefault("imap.port", 993)
	viper.SetDefault("imap.encryption", "tls")
	viper.SetDefault("imap.mailbox", "INBOX")
	viper.SetDefault("imap.processed_folder", "Processed")
	viper.SetDefault("imap.failed_folder", "Failed")
	viper.SetDefault("imap.batch_limit", 50)
	viper.SetDefault("imap.timeout", 5)
	viper.SetDefault("imap.allow_unknown_senders", true)

	viper.SetDefault("redis.host", "")
	viper.SetDefault("redis.port", 6379)
	viper.SetDefault("redis.password", "")
	viper.SetDefault("redis.db", 0)

	viper.SetDefault("storage.driver", "local")
	viper.SetDefault("storage.local_path", "./data/attachments")
	viper.SetDefault("storage.bucket", "")
	viper.SetDefault("storage.region", "")
	viper.SetDefault("storage.endpoint", "")
	viper.SetDefault("storage.access_key", "")
	viper.SetDefault("storage.secret_key", "")

	viper.SetDefault("time_tracking.default_billable_rate", 0)
	viper.SetDefault("time_tracking.default_cost_rate", 0)

	viper.SetDefault("maintenance.ingest_interval", "5m")
	viper.SetDefault("maintenance.recurring_interval", "1h")
	viper.SetDefault("maintenance.update_check_interval", "24h")
	viper.SetDefault("maintenance.github_repo", "orris-inc/helpdesk")
	viper.SetDefault("maintenance.github_token", "")
}
