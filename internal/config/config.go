package config

import (
	"errors"
	"io/fs"
	"strings"
	"time"

	"github.com/spf13/viper"
	"github.com/subosito/gotenv"
)

type Config struct {
	App struct {
		Env      string
		Timezone string
	} `mapstructure:"app"`

	Telegram struct {
		Token       string
		AdminChatID int64 `mapstructure:"admin_chat_id"`
		Timeout     int   // long-poll seconds
	} `mapstructure:"telegram"`

	HTTP struct {
		Addr string
	} `mapstructure:"http"`

	Postgres struct {
		DSN string
	} `mapstructure:"postgres"`

	Redis struct {
		URL string
	} `mapstructure:"redis"`

	Metrics struct {
		Enabled bool
	} `mapstructure:"metrics"`

	LLM struct {
		APIKey        string        `mapstructure:"api_key"`
		Model         string        `mapstructure:"model"`
		Temperature   float32       `mapstructure:"temperature"`
		MaxTokens     int32         `mapstructure:"max_tokens"`
		Timeout       time.Duration `mapstructure:"timeout"`
		RatePerSecond float64       `mapstructure:"rate_per_second"`
		Burst         int           `mapstructure:"burst"`
	} `mapstructure:"llm"`

	Assistant struct {
		Store                string        `mapstructure:"store"` // postgres | redis | memory
		SessionTTL           time.Duration `mapstructure:"session_ttl"`
		HistoryDepth         int           `mapstructure:"history_depth"`
		ExtractFallbackMin   int           `mapstructure:"extract_fallback_min_length"`
		IntentFallbackMinLen int           `mapstructure:"intent_fallback_min_length"`
	} `mapstructure:"assistant"`

	Materials struct {
		SectionsSheet string `mapstructure:"sections_sheet"`
	} `mapstructure:"materials"`

	Rates struct {
		Sheet    string             `mapstructure:"sheet"`
		Families map[string]float64 `mapstructure:"families"`
	} `mapstructure:"rates"`
}

// Load reads the YAML file at path. A .env file next to the binary is loaded
// first; APP_* variables override file values (APP_POSTGRES_DSN for postgres.dsn).
func Load(path string) (Config, error) {
	if err := gotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, err
	}

	v := viper.New()
	v.SetConfigFile(path)
	v.SetEnvPrefix("APP")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("app.env", "prod")
	v.SetDefault("http.addr", ":8080")
	v.SetDefault("telegram.timeout", 30)
	v.SetDefault("llm.model", "gemini-2.0-flash")
	v.SetDefault("llm.api_key", "")
	v.SetDefault("llm.temperature", 0.1)
	v.SetDefault("llm.max_tokens", 1024)
	v.SetDefault("llm.timeout", "8s")
	v.SetDefault("llm.rate_per_second", 2)
	v.SetDefault("llm.burst", 4)
	v.SetDefault("assistant.store", "postgres")
	v.SetDefault("assistant.session_ttl", "24h")
	v.SetDefault("assistant.history_depth", 10)
	v.SetDefault("assistant.extract_fallback_min_length", 20)
	v.SetDefault("assistant.intent_fallback_min_length", 10)

	var c Config
	if err := v.ReadInConfig(); err != nil {
		return c, err
	}
	if err := v.Unmarshal(&c); err != nil {
		return c, err
	}
	return c, nil
}
