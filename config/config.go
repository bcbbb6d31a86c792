package config

import (
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

const (
	RunModeOnce   = "once"
	RunModeDaemon = "daemon"
)

type Config struct {
	LogLevel     string `env:"LOG_LEVEL" envDefault:"info"`
	RunMode      string `env:"RUN_MODE" envDefault:"once"`
	Feed         Feed
	API          API
	Ozon         Ozon
	YandexMarket YandexMarket
	Jobs         Jobs
	Telegram     Telegram
	GoogleDrive  GoogleDrive
}

type Feed struct {
	Url       string `env:"FEED_URL" envDefault:"https://timeworld.ru/upload/files/ostatki.zip"`
	FileName  string `env:"FEED_FILE_NAME" envDefault:""`
	HeaderRow int    `env:"FEED_HEADER_ROW" envDefault:"17"`
}

type API struct {
	Debug     bool          `env:"API_DEBUG" envDefault:"false"`
	Timeout   time.Duration `env:"API_TIMEOUT" envDefault:"0s"`
	RateLimit float64       `env:"API_RATE_LIMIT" envDefault:"0"` // запросов в секунду на клиент, 0 без ограничения
}

type Ozon struct {
	Url            string `env:"OZON_API_URL" envDefault:"https://api-seller.ozon.ru"`
	ClientID       string `env:"OZON_CLIENT_ID" envDefault:""`
	SellerToken    string `env:"OZON_SELLER_TOKEN" envDefault:""`
	StockBatchSize int    `env:"OZON_STOCK_BATCH_SIZE" envDefault:"100"`
	PriceBatchSize int    `env:"OZON_PRICE_BATCH_SIZE" envDefault:"900"`
}

func (o Ozon) Enabled() bool {
	return o.ClientID != "" && o.SellerToken != ""
}

type YandexMarket struct {
	Url            string `env:"YANDEX_MARKET_API_URL" envDefault:"https://api.partner.market.yandex.ru"`
	Token          string `env:"YANDEX_MARKET_TOKEN" envDefault:""`
	FbsCampaignID  string `env:"YANDEX_MARKET_FBS_CAMPAIGN_ID" envDefault:""`
	FbsWarehouseID int64  `env:"YANDEX_MARKET_FBS_WAREHOUSE_ID" envDefault:"0"`
	DbsCampaignID  string `env:"YANDEX_MARKET_DBS_CAMPAIGN_ID" envDefault:""`
	DbsWarehouseID int64  `env:"YANDEX_MARKET_DBS_WAREHOUSE_ID" envDefault:"0"`
	StockBatchSize int    `env:"YANDEX_MARKET_STOCK_BATCH_SIZE" envDefault:"2000"`
	PriceBatchSize int    `env:"YANDEX_MARKET_PRICE_BATCH_SIZE" envDefault:"500"`
}

type Jobs struct {
	SyncInterval       time.Duration `env:"SYNC_JOB_INTERVAL" envDefault:"1h"`
	CleanupReportsCron string        `env:"CLEANUP_REPORTS_JOB_CRON" envDefault:"0 4 * * *"`
}

type Telegram struct {
	Token        string        `env:"TELEGRAM_TOKEN" envDefault:""`
	UpdTimeout   time.Duration `env:"TELEGRAM_UPD_TIMEOUT" envDefault:"10s"`
	AdminChatIDs []int64       `env:"TELEGRAM_ADMIN_CHAT_IDS" envDefault:""`
}

func (t Telegram) Enabled() bool {
	return t.Token != ""
}

type GoogleDrive struct {
	CredentialsFile string        `env:"GOOGLE_DRIVE_CREDENTIALS_FILE" envDefault:""`
	FileTTL         time.Duration `env:"GOOGLE_DRIVE_FILE_TTL" envDefault:"168h"`
}

func (g GoogleDrive) Enabled() bool {
	return g.CredentialsFile != ""
}

func Load() (*Config, error) {
	_ = godotenv.Load(".env")

	cfg := &Config{}

	opts := env.Options{RequiredIfNoDef: true}

	if err := env.ParseWithOptions(cfg, opts); err != nil {
		return nil, fmt.Errorf("parse config error: %w", err)
	}

	if cfg.RunMode != RunModeOnce && cfg.RunMode != RunModeDaemon {
		return nil, fmt.Errorf("unknown RUN_MODE %q", cfg.RunMode)
	}

	if cfg.Feed.HeaderRow < 0 {
		return nil, fmt.Errorf("FEED_HEADER_ROW must not be negative, got %d", cfg.Feed.HeaderRow)
	}

	// остатки без склада уходят в warehouseId 0
	if cfg.YandexMarket.FbsCampaignID != "" && cfg.YandexMarket.FbsWarehouseID == 0 {
		return nil, errors.New("YANDEX_MARKET_FBS_WAREHOUSE_ID is required when YANDEX_MARKET_FBS_CAMPAIGN_ID is set")
	}

	if cfg.YandexMarket.DbsCampaignID != "" && cfg.YandexMarket.DbsWarehouseID == 0 {
		return nil, errors.New("YANDEX_MARKET_DBS_WAREHOUSE_ID is required when YANDEX_MARKET_DBS_CAMPAIGN_ID is set")
	}

	return cfg, nil
}

func MustLoad() *Config {
	cfg, err := Load()
	if err != nil {
		log.Fatalf("load config: %s", err)
	}

	return cfg
}
