package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type ServerConfig struct {
	Address string `mapstructure:"address"`
	Port    int    `mapstructure:"port"`
	Mode    string `mapstructure:"mode"`
}

type DatabaseConfig struct {
	Path    string `mapstructure:"path"`
	LogMode bool   `mapstructure:"log_mode"`
}

// JWTConfig signs the cookie/bearer envelope around session tokens.
type JWTConfig struct {
	Secret      string `mapstructure:"secret"`
	ExpireHours int    `mapstructure:"expire_hours"`
}

type Argon2Config struct {
	MemoryKiB   uint32 `mapstructure:"memory_kib"`
	Iterations  uint32 `mapstructure:"iterations"`
	Parallelism uint8  `mapstructure:"parallelism"`
}

type SecurityConfig struct {
	EncryptionKey string       `mapstructure:"encryption_key"` // backup archives; empty disables encryption
	Argon2        Argon2Config `mapstructure:"argon2"`
}

type LogConfig struct {
	Level       string `mapstructure:"level"`
	Environment string `mapstructure:"environment"`
}

type BackupConfig struct {
	Dir string `mapstructure:"dir"`
}

// BootstrapConfig seeds the first administrator when no users exist.
type BootstrapConfig struct {
	AdminPassword string `mapstructure:"admin_password"`
	AdminEmail    string `mapstructure:"admin_email"`
}

type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Database  DatabaseConfig  `mapstructure:"database"`
	JWT       JWTConfig       `mapstructure:"jwt"`
	Security  SecurityConfig  `mapstructure:"security"`
	Log       LogConfig       `mapstructure:"log"`
	Backup    BackupConfig    `mapstructure:"backup"`
	Bootstrap BootstrapConfig `mapstructure:"bootstrap"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.address", "127.0.0.1")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.mode", "release")
	v.SetDefault("database.path", "data/sociodash.db")
	v.SetDefault("database.log_mode", false)
	v.SetDefault("jwt.secret", "")
	v.SetDefault("jwt.expire_hours", 12)
	v.SetDefault("security.encryption_key", "")
	v.SetDefault("security.argon2.memory_kib", 64*1024)
	v.SetDefault("security.argon2.iterations", 3)
	v.SetDefault("security.argon2.parallelism", 2)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.environment", "development")
	v.SetDefault("backup.dir", "backups")
	v.SetDefault("bootstrap.admin_password", "")
	v.SetDefault("bootstrap.admin_email", "admin@sociodash.com")
}

// Load reads configuration from path (default "config.yaml"). A missing file
// is not an error: defaults plus SD_* environment variables apply. A .env file
// in the working directory is loaded first when present.
func Load(path string) (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	setDefaults(v)

	if path == "" {
		path = "config.yaml"
	}
	if _, err := os.Stat(path); err == nil {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config: %w", err)
		}
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("stat config: %w", err)
	}

	// environment overrides, e.g. SD_SERVER_PORT=9000
	v.SetEnvPrefix("SD")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	if c.JWT.Secret == "" {
		return nil, fmt.Errorf("jwt.secret must be set (SD_JWT_SECRET)")
	}
	return &c, nil
}
