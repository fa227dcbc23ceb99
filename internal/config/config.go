package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// ConfigPathEnvVar は設定ファイルのパスを指定する環境変数名。
const ConfigPathEnvVar = "CONFIG_PATH"

// DefaultConfigPath はCONFIG_PATH未指定時に探索する設定ファイル。
const DefaultConfigPath = "config.yaml"

// Config はアプリケーション全体の設定を保持する。
// 起動時に1回読み込み、イミュータブルとして扱う。
type Config struct {
	// Database
	DatabaseURL       string        `koanf:"database_url"`
	DBMaxOpenConns    int           `koanf:"db_max_open_conns"`
	DBMaxIdleConns    int           `koanf:"db_max_idle_conns"`
	DBConnMaxLifetime time.Duration `koanf:"db_conn_max_lifetime"`
	DBConnectAttempts int           `koanf:"db_connect_attempts"`

	// Server
	ServerPort string `koanf:"server_port"`

	// CORS
	CORSAllowedOrigins []string `koanf:"cors_allowed_origins"`

	// Rate Limit（1IPあたりの毎分リクエスト数）
	RateLimitGeneral  int `koanf:"rate_limit_general"`
	RateLimitFavorite int `koanf:"rate_limit_favorite"`

	// Logging
	LogLevel string `koanf:"log_level"`
}

func defaultConfig() Config {
	return Config{
		DBMaxOpenConns:     10,
		DBMaxIdleConns:     5,
		DBConnMaxLifetime:  30 * time.Minute,
		DBConnectAttempts:  6,
		ServerPort:         "8080",
		CORSAllowedOrigins: []string{"http://localhost:3000"},
		RateLimitGeneral:   120,
		RateLimitFavorite:  30,
		LogLevel:           "info",
	}
}

// envKeys は環境変数から読み込むキーの一覧。
// 環境変数名は大文字、koanfのキーは小文字で対応する。
var envKeys = map[string]bool{
	"database_url":         true,
	"db_max_open_conns":    true,
	"db_max_idle_conns":    true,
	"db_conn_max_lifetime": true,
	"db_connect_attempts":  true,
	"server_port":          true,
	"cors_allowed_origins": true,
	"rate_limit_general":   true,
	"rate_limit_favorite":  true,
	"log_level":            true,
}

// sliceKeys はカンマ区切り文字列をスライスとして扱うキー。
var sliceKeys = []string{"cors_allowed_origins"}

// Load は設定を読み込む。
// 優先順位: 環境変数 > 設定ファイル（任意） > デフォルト値
// 必須項目が未設定の場合はエラーを返す。
func Load() (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(structs.Provider(defaultConfig(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	if path := findConfigFile(); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", path, err)
		}
	}

	if err := k.Load(env.Provider("", ".", envTransformFunc), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	if err := splitSliceKeys(k); err != nil {
		return nil, err
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate は必須項目と値の範囲を検証する。
func (c *Config) Validate() error {
	var missing []string
	if c.DatabaseURL == "" {
		missing = append(missing, "DATABASE_URL")
	}
	if len(missing) > 0 {
		return fmt.Errorf("required environment variables are not set: %v", missing)
	}

	if c.RateLimitGeneral <= 0 {
		return fmt.Errorf("RATE_LIMIT_GENERAL must be positive, got %d", c.RateLimitGeneral)
	}
	if c.RateLimitFavorite <= 0 {
		return fmt.Errorf("RATE_LIMIT_FAVORITE must be positive, got %d", c.RateLimitFavorite)
	}
	if c.DBMaxOpenConns <= 0 {
		return fmt.Errorf("DB_MAX_OPEN_CONNS must be positive, got %d", c.DBMaxOpenConns)
	}
	if c.DBConnectAttempts <= 0 {
		return fmt.Errorf("DB_CONNECT_ATTEMPTS must be positive, got %d", c.DBConnectAttempts)
	}
	if c.DBMaxIdleConns < 0 {
		return fmt.Errorf("DB_MAX_IDLE_CONNS must not be negative, got %d", c.DBMaxIdleConns)
	}
	return nil
}

// findConfigFile は読み込む設定ファイルのパスを返す。見つからない場合は空文字列。
func findConfigFile() string {
	if p := os.Getenv(ConfigPathEnvVar); p != "" {
		if _, err := os.Stat(p); err == nil {
			return p
		}
		return ""
	}
	if _, err := os.Stat(DefaultConfigPath); err == nil {
		return DefaultConfigPath
	}
	return ""
}

// envTransformFunc は環境変数名をkoanfのキーに変換する。
// 対象外の環境変数は空文字列を返して読み飛ばす。
func envTransformFunc(key string) string {
	key = strings.ToLower(key)
	if !envKeys[key] {
		return ""
	}
	return key
}

// splitSliceKeys は環境変数由来のカンマ区切り文字列をスライスに変換する。
// YAMLで配列として指定された値はそのまま使う。
func splitSliceKeys(k *koanf.Koanf) error {
	for _, key := range sliceKeys {
		s, ok := k.Get(key).(string)
		if !ok {
			continue
		}
		parts := strings.Split(s, ",")
		values := make([]string, 0, len(parts))
		for _, p := range parts {
			if p = strings.TrimSpace(p); p != "" {
				values = append(values, p)
			}
		}
		if err := k.Set(key, values); err != nil {
			return fmt.Errorf("failed to set %s: %w", key, err)
		}
	}
	return nil
}
