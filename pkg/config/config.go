package config

import (
	"errors"
	"os"
	"slices"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

type Config struct {
	HTTP      HTTP
	Logger    Logger
	Store     Store
	Postgres  Postgres
	Redis     Redis
	Kafka     Kafka
	Click     Click
	Telegram  Telegram
	Mailer    Mailer
	Admin     Admin
	RateLimit RateLimit
	Jobs      Jobs
}

type HTTP struct {
	Port int `env:"HTTP_PORT" envDefault:"8080"`
}

type Logger struct {
	Level  string `env:"LOG_LEVEL" envDefault:"info"`
	Format string `env:"LOG_FORMAT" envDefault:"json"`
}

type StoreKind string

const (
	StorePostgres StoreKind = "postgres"
	StoreRedis    StoreKind = "redis"
	StoreMemory   StoreKind = "memory"
)

type Store struct {
	Kind StoreKind `env:"ORDER_STORE" envDefault:"postgres"`
}

type Postgres struct {
	DSN            string        `env:"POSTGRES_DSN" envDefault:""`
	MaxConn        int32         `env:"POSTGRES_MAX_CONNS" envDefault:"10"`
	ConnectRetries uint64        `env:"POSTGRES_CONNECT_RETRIES" envDefault:"5"`
	ConnectBackoff time.Duration `env:"POSTGRES_CONNECT_BACKOFF" envDefault:"500ms"`
}

type Redis struct {
	URL string `env:"REDIS_URL" envDefault:""`
}

type Kafka struct {
	Brokers          []string `env:"KAFKA_BROKERS" envDefault:""`
	OrderEventsTopic string   `env:"KAFKA_ORDER_EVENTS_TOPIC" envDefault:"hadiya.order-events"`
}

// Click holds merchant credentials. They default to empty so that the service can
// start and answer with a configuration error instead of crashing.
type Click struct {
	ServiceID      string   `env:"CLICK_SERVICE_ID" envDefault:""`
	MerchantID     string   `env:"CLICK_MERCHANT_ID" envDefault:""`
	MerchantUserID string   `env:"CLICK_MERCHANT_USER_ID" envDefault:""`
	SecretKey      string   `env:"CLICK_SECRET_KEY" envDefault:""`
	SPICCode       string   `env:"CLICK_SPIC_CODE" envDefault:""`
	PackageCode    string   `env:"CLICK_PACKAGE_CODE" envDefault:""`
	VATPercent     int      `env:"CLICK_VAT_PERCENT" envDefault:"15"`
	TIN            string   `env:"CLICK_TIN" envDefault:""`
	PINFL          string   `env:"CLICK_PINFL" envDefault:""`
	APIURL         string   `env:"CLICK_API_URL" envDefault:"https://api.click.uz/v2/merchant"`
	PayURL         string   `env:"CLICK_PAY_URL" envDefault:"https://my.click.uz/services/pay"`
	ReturnURL      string   `env:"CLICK_RETURN_URL" envDefault:""`
	CallbackIPWL   []string `env:"CLICK_CALLBACK_IP_WL" envDefault:""`
}

// Missing returns names of the variables required to accept payments that are not set.
func (c Click) Missing() []string {
	var missing []string

	for name, v := range map[string]string{
		"CLICK_SERVICE_ID":       c.ServiceID,
		"CLICK_MERCHANT_ID":      c.MerchantID,
		"CLICK_MERCHANT_USER_ID": c.MerchantUserID,
		"CLICK_SECRET_KEY":       c.SecretKey,
	} {
		if v == "" {
			missing = append(missing, name)
		}
	}

	slices.Sort(missing)

	return missing
}

// FiscalMissing returns names of the variables required to register receipts that are not set.
func (c Click) FiscalMissing() []string {
	missing := c.Missing()

	if c.SPICCode == "" {
		missing = append(missing, "CLICK_SPIC_CODE")
	}

	if c.PackageCode == "" {
		missing = append(missing, "CLICK_PACKAGE_CODE")
	}

	slices.Sort(missing)

	return missing
}

type Telegram struct {
	BotToken string `env:"TELEGRAM_BOT_TOKEN" envDefault:""`
	ChatID   string `env:"TELEGRAM_CHAT_ID" envDefault:""`
	APIURL   string `env:"TELEGRAM_API_URL" envDefault:"https://api.telegram.org"`
}

func (t Telegram) Enabled() bool {
	return t.BotToken != "" && t.ChatID != ""
}

type Mailer struct {
	Host     string   `env:"MAILER_HOST" envDefault:""`
	Port     int      `env:"MAILER_PORT" envDefault:"465"`
	User     string   `env:"MAILER_USER" envDefault:""`
	Password string   `env:"MAILER_PASSWORD" envDefault:""`
	From     string   `env:"MAILER_FROM" envDefault:""`
	ReportTo []string `env:"MAILER_REPORT_TO" envDefault:""`
}

func (m Mailer) Enabled() bool {
	return m.Host != "" && len(m.ReportTo) != 0
}

type Admin struct {
	JWTPublicKey string `env:"ADMIN_JWT_PUBLIC_KEY" envDefault:""` // PEM, optionally base64 encoded
}

type RateLimit struct {
	RequestsPerMinute int `env:"RATE_LIMIT_RPM" envDefault:"30"`
	Burst             int `env:"RATE_LIMIT_BURST" envDefault:"10"`
}

type Jobs struct {
	Enabled     bool          `env:"JOBS_ENABLED" envDefault:"true"`
	OrderTTL    time.Duration `env:"ORDER_TTL" envDefault:"168h"`
	FiscalGrace time.Duration `env:"FISCAL_GRACE" envDefault:"1h"`
	Interval    time.Duration `env:"JOBS_INTERVAL" envDefault:"1h"`
}

func New(envPath string) (Config, error) {
	err := godotenv.Load(envPath)
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return Config{}, err
	}

	c, err := env.ParseAsWithOptions[Config](env.Options{
		RequiredIfNoDef: true,
	})
	if err != nil {
		return Config{}, err
	}

	return c, nil
}
