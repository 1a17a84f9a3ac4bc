package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Configはアプリ全体の設定
type Config struct {
	Port     string // サーバーポート（8080）
	GoEnv    string // dev/prod
	LogLevel string // zerolog のレベル（info）

	DBDriver   string // sqlite / postgres
	SQLitePath string // sqlite のファイル（restobill.db）

	DatabaseURL      string // あれば POSTGRES_* より優先
	PostgresUser     string // DBユーザー
	PostgresPassword string // DBパスワード
	PostgresDB       string // DB名
	PostgresHost     string // DBホスト（localhost）
	PostgresPort     int    // DBポート（5432）
	PostgresSSLMode  string // disable

	JWTSecret    string // JWT署名シークレット（空なら認証なし）
	BootstrapPIN string // PIN未設定のマネージャーに入れる初期PIN

	GeminiAPIKey   string
	GeminiModel    string
	InsightTimeout time.Duration

	RabbitMQURL string // 空なら注文イベントは送らない
}

// 認証が有効か
func (c Config) AuthEnabled() bool {
	return c.JWTSecret != ""
}

func (c Config) IsDev() bool {
	return c.GoEnv == "dev"
}

// Loadは環境変数（.env があればそれも）から読む
func Load() (Config, error) {
	// .env は無くてもよい
	_ = godotenv.Load()

	pgPort, err := atoiDefault("POSTGRES_PORT", 5432)
	if err != nil {
		return Config{}, err
	}
	timeout, err := durationDefault("INSIGHT_TIMEOUT", 20*time.Second)
	if err != nil {
		return Config{}, err
	}

	cfg := Config{
		Port:     getenv("PORT", "8080"),
		GoEnv:    getenv("GO_ENV", "dev"),
		LogLevel: getenv("LOG_LEVEL", "info"),

		DBDriver:   strings.ToLower(getenv("DB_DRIVER", "sqlite")),
		SQLitePath: getenv("SQLITE_PATH", "restobill.db"),

		DatabaseURL:      os.Getenv("DATABASE_URL"),
		PostgresUser:     getenv("POSTGRES_USER", "postgres"),
		PostgresPassword: getenv("POSTGRES_PASSWORD", "postgres"),
		PostgresDB:       getenv("POSTGRES_DB", "restobill"),
		PostgresHost:     getenv("POSTGRES_HOST", "localhost"),
		PostgresPort:     pgPort,
		PostgresSSLMode:  getenv("POSTGRES_SSLMODE", "disable"),

		JWTSecret:    os.Getenv("JWT_SECRET"),
		BootstrapPIN: os.Getenv("BOOTSTRAP_PIN"),

		GeminiAPIKey:   getenv("GEMINI_API_KEY", os.Getenv("API_KEY")),
		GeminiModel:    getenv("GEMINI_MODEL", "gemini-2.5-flash"),
		InsightTimeout: timeout,

		RabbitMQURL: os.Getenv("RABBITMQ_URL"),
	}

	//チェック
	switch cfg.DBDriver {
	case "sqlite", "postgres":
	default:
		return Config{}, fmt.Errorf("DB_DRIVER must be sqlite or postgres: %q", cfg.DBDriver)
	}
	if cfg.DBDriver == "sqlite" && cfg.SQLitePath == "" {
		return Config{}, fmt.Errorf("SQLITE_PATH is required")
	}
	if cfg.BootstrapPIN != "" && len(cfg.BootstrapPIN) < 4 {
		return Config{}, fmt.Errorf("BOOTSTRAP_PIN must be at least 4 digits")
	}

	return cfg, nil
}

// PostgresDSN は DATABASE_URL か POSTGRES_* から組み立てる。
func (c Config) PostgresDSN() string {
	if c.DatabaseURL != "" {
		return c.DatabaseURL
	}
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.PostgresHost, c.PostgresPort, c.PostgresUser, c.PostgresPassword, c.PostgresDB, c.PostgresSSLMode,
	)
}

func getenv(key string, def string) string {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	return v
}

func atoiDefault(key string, def int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("%s must be number: %w", key, err)
	}
	return i, nil
}

func durationDefault(key string, def time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("%s must be duration (e.g. 20s): %w", key, err)
	}
	return d, nil
}
