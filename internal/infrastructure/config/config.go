package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config 應用配置
type Config struct {
	App         AppConfig        `mapstructure:"app"`
	Server      ServerConfig     `mapstructure:"server"`
	Menu        MenuSourceConfig `mapstructure:"menu"`
	AI          AIConfig         `mapstructure:"ai"`
	RateLimit   RateLimitConfig  `mapstructure:"rate_limit"`
	Redis       RedisConfig      `mapstructure:"redis"`
	DedupWindow time.Duration    `mapstructure:"dedup_window"`
	LogLevel    string           `mapstructure:"log_level"`
}

// AppConfig 應用程式設定
type AppConfig struct {
	Env     string `mapstructure:"env"`
	Debug   bool   `mapstructure:"debug"`
	Version string `mapstructure:"version"`
	Name    string `mapstructure:"name"`
}

// ServerConfig 服務器配置
type ServerConfig struct {
	Port           int           `mapstructure:"port"`
	ReadTimeout    time.Duration `mapstructure:"read_timeout"`
	WriteTimeout   time.Duration `mapstructure:"write_timeout"`
	IdleTimeout    time.Duration `mapstructure:"idle_timeout"`
	RequestTimeout time.Duration `mapstructure:"request_timeout"` // 單一請求處理上限，需小於 WriteTimeout
}

// MenuSourceConfig 週菜單 API 設定
type MenuSourceConfig struct {
	BaseURL        string        `mapstructure:"base_url"`
	StoreIdx       string        `mapstructure:"store_idx"`
	WeekType       string        `mapstructure:"week_type"`
	Timeout        time.Duration `mapstructure:"timeout"`
	UserAgent      string        `mapstructure:"user_agent"`
	Origin         string        `mapstructure:"origin"`
	UTCOffsetHours int           `mapstructure:"utc_offset_hours"`
}

// AIConfig 營養分析模型設定（OpenAI 相容 chat/completions）
type AIConfig struct {
	Enabled     bool          `mapstructure:"enabled"`
	BaseURL     string        `mapstructure:"base_url"`
	APIKey      string        `mapstructure:"api_key"`
	Model       string        `mapstructure:"model"`
	MaxTokens   int           `mapstructure:"max_tokens"`
	Temperature float64       `mapstructure:"temperature"`
	Timeout     time.Duration `mapstructure:"timeout"`
}

// Active 是否具備呼叫模型的條件
func (c AIConfig) Active() bool {
	return c.Enabled && strings.TrimSpace(c.APIKey) != ""
}

// RateLimitConfig 速率限制配置
type RateLimitConfig struct {
	Enabled  bool          `mapstructure:"enabled"`
	Requests int           `mapstructure:"requests"`
	Window   time.Duration `mapstructure:"window"`
	Backend  string        `mapstructure:"backend"` // memory | redis
}

// RedisConfig Redis 連線設定
type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// LoadConfig 載入設定
func LoadConfig() (*Config, error) {
	// .env 不存在時直接使用環境變數
	_ = godotenv.Load()

	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix("APP")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// 綁定環境變量
	v.BindEnv("server.port", "PORT")
	v.BindEnv("menu.base_url", "MENU_API_BASE_URL")
	v.BindEnv("menu.store_idx", "MENU_STORE_IDX")
	v.BindEnv("ai.api_key", "GROQ_API_KEY")
	v.BindEnv("ai.model", "AI_MODEL")
	v.BindEnv("ai.base_url", "AI_BASE_URL")
	v.BindEnv("redis.addr", "REDIS_ADDR")
	v.BindEnv("rate_limit.enabled", "RATE_LIMIT_ENABLED")
	v.BindEnv("rate_limit.requests", "RATE_LIMIT_REQUESTS")
	v.BindEnv("rate_limit.window", "RATE_LIMIT_WINDOW")
	v.BindEnv("rate_limit.backend", "RATE_LIMIT_BACKEND")
	v.BindEnv("dedup_window", "DEDUP_WINDOW")
	v.BindEnv("log_level", "LOG_LEVEL")

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	// logger 尚未初始化，直接寫到 stderr
	fmt.Fprintln(os.Stderr, "Loading configuration", "ai_api_key:", maskAPIKey(v.GetString("ai.api_key")), "ai_model:", v.GetString("ai.model"), "store_idx:", v.GetString("menu.store_idx"))

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := validateConfig(&config); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &config, nil
}

// maskAPIKey 遮罩 API Key，只顯示前後各 4 個字符
func maskAPIKey(key string) string {
	if len(key) <= 8 {
		return "****"
	}
	return key[:4] + "..." + key[len(key)-4:]
}

// setDefaults 設定預設值
func setDefaults(v *viper.Viper) {
	v.SetDefault("app.env", "development")
	v.SetDefault("app.debug", true)
	v.SetDefault("app.version", "1.0.0")
	v.SetDefault("app.name", "freshmeal-bot")

	v.SetDefault("server.port", 7753)
	v.SetDefault("server.read_timeout", "30s")
	// 週菜單逐日分析可能需要數次模型呼叫
	v.SetDefault("server.request_timeout", "180s")
	v.SetDefault("server.write_timeout", "190s")
	v.SetDefault("server.idle_timeout", "120s")

	// 菜單來源
	v.SetDefault("menu.base_url", "https://front.cjfreshmeal.co.kr/meal/v1")
	v.SetDefault("menu.store_idx", "5978")
	v.SetDefault("menu.week_type", "1")
	v.SetDefault("menu.timeout", "5s")
	v.SetDefault("menu.user_agent", "Mozilla/5.0")
	v.SetDefault("menu.origin", "https://front.cjfreshmeal.co.kr")
	v.SetDefault("menu.utc_offset_hours", 9)

	// 營養分析
	v.SetDefault("ai.enabled", true)
	v.SetDefault("ai.base_url", "https://api.groq.com/openai/v1")
	v.SetDefault("ai.model", "llama-3.1-8b-instant")
	v.SetDefault("ai.max_tokens", 2048)
	v.SetDefault("ai.temperature", 0.1)
	v.SetDefault("ai.timeout", "60s")

	// 限流設定
	v.SetDefault("rate_limit.enabled", true)
	v.SetDefault("rate_limit.requests", 60)
	v.SetDefault("rate_limit.window", "1m")
	v.SetDefault("rate_limit.backend", "memory")

	v.SetDefault("redis.addr", "localhost:6379")
	v.SetDefault("redis.db", 0)

	v.SetDefault("dedup_window", "1s")
	v.SetDefault("log_level", "info")
}

// validateConfig 驗證設定
func validateConfig(config *Config) error {
	if config.Server.Port == 0 {
		return fmt.Errorf("server port is required")
	}

	if config.Server.RequestTimeout <= 0 {
		return fmt.Errorf("invalid request timeout")
	}
	if config.Server.WriteTimeout > 0 && config.Server.WriteTimeout <= config.Server.RequestTimeout {
		return fmt.Errorf("write timeout %s must exceed request timeout %s",
			config.Server.WriteTimeout, config.Server.RequestTimeout)
	}

	if strings.TrimSpace(config.Menu.BaseURL) == "" {
		return fmt.Errorf("menu base url is required")
	}
	if strings.TrimSpace(config.Menu.StoreIdx) == "" {
		return fmt.Errorf("menu store idx is required")
	}
	if config.Menu.Timeout <= 0 {
		return fmt.Errorf("invalid menu timeout")
	}

	if config.AI.Timeout <= 0 {
		return fmt.Errorf("invalid ai timeout")
	}

	if config.RateLimit.Enabled {
		if config.RateLimit.Requests <= 0 {
			return fmt.Errorf("invalid rate limit requests")
		}
		if config.RateLimit.Window <= 0 {
			return fmt.Errorf("invalid rate limit window")
		}
		switch config.RateLimit.Backend {
		case "memory":
		case "redis":
			if strings.TrimSpace(config.Redis.Addr) == "" {
				return fmt.Errorf("redis addr is required for redis rate limit backend")
			}
		default:
			return fmt.Errorf("unknown rate limit backend %q", config.RateLimit.Backend)
		}
	}

	return nil
}
