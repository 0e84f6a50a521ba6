package config

import (
	"log"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

type Config struct {
	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`
	API      API
	Redis    Redis
	Cache    Cache
	Scraper  Scraper
}

type API struct {
	Debug    bool          `env:"API_DEBUG" envDefault:"false"`
	Timeout  time.Duration `env:"API_TIMEOUT" envDefault:"30s"`
	YahooApi YahooApi
}

type YahooApi struct {
	Url          string `env:"YAHOO_API_URL" envDefault:"https://query1.finance.yahoo.com"`
	TickerSuffix string `env:"TICKER_SUFFIX" envDefault:".SA"`
}

type Redis struct {
	Host     string `env:"REDIS_HOST" envDefault:"localhost"`
	Port     int    `env:"REDIS_PORT" envDefault:"6379"`
	Password string `env:"REDIS_PASSWORD" envDefault:""`
	DB       int    `env:"REDIS_DB" envDefault:"0"`
}

type Cache struct {
	Enabled           bool          `env:"CACHE_ENABLED" envDefault:"false"`
	HistoryExpiration time.Duration `env:"CACHE_HISTORY_EXPIRATION" envDefault:"24h"`
}

type Scraper struct {
	FundamentusUrl    string `env:"FUNDAMENTUS_URL" envDefault:"https://www.fundamentus.com.br"`
	FundsExplorerUrl  string `env:"FUNDSEXPLORER_URL" envDefault:"https://www.fundsexplorer.com.br/ranking"`
	RequestsUserAgent string `env:"SCRAPER_USER_AGENT" envDefault:"Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/50.0.2661.75 Safari/537.36"`
}

func MustLoad() *Config {
	_ = godotenv.Load(".env")

	cfg := &Config{}

	if err := env.Parse(cfg); err != nil {
		log.Fatalf("parse config error: %s", err)
	}

	return cfg
}
