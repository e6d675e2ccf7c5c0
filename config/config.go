package config

import (
	"log"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

type Config struct {
	LogLevel    string `env:"LOG_LEVEL"`
	Postgres    Postgres
	Redis       Redis
	API         API
	Cache       Cache
	Jobs        Jobs
	GoogleDrive GoogleDrive
}

type Postgres struct {
	Host            string `env:"PG_HOST"`
	Port            int    `env:"PG_PORT"`
	DbName          string `env:"PG_DB_NAME"`
	Password        string `env:"PG_PASSWORD"`
	User            string `env:"PG_USER"`
	MaxOpenConns    int    `env:"PG_MAX_OPEN_CONNS"`
	ConnMaxLifetime int    `env:"PG_CONN_MAX_LIFETIME"`
	MaxIdleConns    int    `env:"PG_MAX_IDLE_CONNS"`
	ConnMaxIdleTime int    `env:"PG_CONN_MAX_IDLE_TIME"`
	MigrationDir    string `env:"PG_MIGRATION_DIR"`
}

type Redis struct {
	Host     string `env:"REDIS_HOST"`
	Port     int    `env:"REDIS_PORT"`
	Password string `env:"REDIS_PASSWORD"`
	DB       int    `env:"REDIS_DB"`
}

type API struct {
	Debug   bool          `env:"API_DEBUG"`
	Timeout time.Duration `env:"API_TIMEOUT"`
	Finnhub Finnhub
	Upbit   Upbit
	Naver   Naver
}

type Finnhub struct {
	Url   string `env:"FINNHUB_API_URL"`
	Token string `env:"FINNHUB_API_KEY"`
}

type Upbit struct {
	Url string `env:"UPBIT_API_URL"`
}

type Naver struct {
	Url string `env:"NAVER_FINANCE_API_URL"`
}

type Cache struct {
	QuotesExpiration time.Duration `env:"CACHE_QUOTES_EXPIRATION"`
	FxExpiration     time.Duration `env:"CACHE_FX_EXPIRATION"`
}

type Jobs struct {
	AssetSnapshotCrontab string        `env:"ASSET_SNAPSHOT_JOB_CRONTAB"`
	QuoteRefreshInterval time.Duration `env:"QUOTE_REFRESH_JOB_INTERVAL" envDefault:"10m"`
}

type GoogleDrive struct {
	CredentialsFile string        `env:"GOOGLE_DRIVE_CREDENTIALS_FILE" envDefault:""`
	FileTTL         time.Duration `env:"GOOGLE_DRIVE_FILE_TTL" envDefault:"720h"`
}

func MustLoad() *Config {
	_ = godotenv.Load(".env")

	cfg := &Config{}

	opts := env.Options{RequiredIfNoDef: true}

	if err := env.ParseWithOptions(cfg, opts); err != nil {
		log.Fatalf("parse config error: %s", err)
	}

	return cfg
}
