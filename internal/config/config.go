package config

import (
	"github.com/kelseyhightower/envconfig"
)

var singleConfig *Config = nil

type Config struct {
	Database  *dbConfig
	Service   *svcConfig
	AI        *aiConfig
	Crawler   *crawlerConfig
	Telegram  *telegramConfig
	Scheduler *schedulerConfig
}

type dbConfig struct {
	Type     string `envconfig:"DB_TYPE" default:"pgsql"`
	Hostname string `envconfig:"DB_HOST" default:"localhost"`
	Port     string `envconfig:"DB_PORT" default:"5432"`
	Name     string `envconfig:"DB_NAME" default:"assistant"`
	User     string `envconfig:"DB_USER" default:"admin"`
	Password string `envconfig:"DB_PASS" default:"adminpass"`
}

type svcConfig struct {
	Address         string `envconfig:"CAREER_ASSISTANT_ADDRESS" default:":8080"`
	MetricsAddress  string `envconfig:"CAREER_ASSISTANT_METRICS_ADDRESS" default:":8081"`
	BaseUrl         string `envconfig:"CAREER_ASSISTANT_BASE_URL" default:"http://localhost:8080"`
	LogLevel        string `envconfig:"CAREER_ASSISTANT_LOG_LEVEL" default:"info"`
	MigrationFolder string `envconfig:"CAREER_ASSISTANT_MIGRATIONS_FOLDER" default:"deploy/migrations"`
}

type aiConfig struct {
	APIKey         string `envconfig:"CAREER_ASSISTANT_AI_API_KEY" default:""`
	HighTierModel  string `envconfig:"CAREER_ASSISTANT_AI_HIGH_TIER_MODEL" default:"claude-sonnet-4-20250514"`
	FastTierModel  string `envconfig:"CAREER_ASSISTANT_AI_FAST_TIER_MODEL" default:"claude-3-5-haiku-20241022"`
	BaseURL        string `envconfig:"CAREER_ASSISTANT_AI_BASE_URL" default:"https://api.anthropic.com/v1/messages"`
	TimeoutSeconds int    `envconfig:"CAREER_ASSISTANT_AI_TIMEOUT_SECONDS" default:"120"`
	MaxTokens      int    `envconfig:"CAREER_ASSISTANT_AI_MAX_TOKENS" default:"4096"`
}

type crawlerConfig struct {
	UserAgent      string `envconfig:"CAREER_ASSISTANT_CRAWLER_USER_AGENT" default:"Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36"`
	TimeoutSeconds int    `envconfig:"CAREER_ASSISTANT_CRAWLER_TIMEOUT_SECONDS" default:"10"`
}

type telegramConfig struct {
	BotToken string `envconfig:"CAREER_ASSISTANT_TELEGRAM_BOT_TOKEN" default:""`
	ChatID   int64  `envconfig:"CAREER_ASSISTANT_TELEGRAM_CHAT_ID" default:"0"`
}

type schedulerConfig struct {
	Enabled         bool     `envconfig:"CAREER_ASSISTANT_SCHEDULER_ENABLED" default:"false"`
	IntervalMinutes int      `envconfig:"CAREER_ASSISTANT_SCHEDULER_INTERVAL_MINUTES" default:"60"`
	WatchURLs       []string `envconfig:"CAREER_ASSISTANT_SCHEDULER_WATCH_URLS" default:""`
}

func New() (*Config, error) {
	if singleConfig == nil {
		singleConfig = new(Config)
		if err := envconfig.Process("", singleConfig); err != nil {
			return nil, err
		}
	}
	return singleConfig, nil
}
