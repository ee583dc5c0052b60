package config

import (
	"fmt"
	"time"

	"github.com/amirasaad/goldvault/pkg/domain/account"
	"github.com/amirasaad/goldvault/pkg/domain/money"
)

type DB struct {
	Url string `envconfig:"URL" default:"sqlite://goldvault.db"`
	// MigrationsPath is the golang-migrate source for postgres.
	MigrationsPath string `envconfig:"MIGRATIONS_PATH" default:"file://internal/migrations"`
}

type Jwt struct {
	Secret string        `envconfig:"SECRET" required:"true"`
	Expiry time.Duration `envconfig:"EXPIRY" default:"24h"`
}
type Auth struct {
	Strategy string `envconfig:"STRATEGY" default:"jwt"`
	Jwt      *Jwt   `envconfig:"JWT"`
}

type Redis struct {
	URL          string        `envconfig:"URL" default:"redis://localhost:6379/0"`
	KeyPrefix    string        `envconfig:"KEY_PREFIX" default:"goldvault:"`
	PoolSize     int           `envconfig:"POOL_SIZE" default:"10"`
	DialTimeout  time.Duration `envconfig:"DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"READ_TIMEOUT" default:"3s"`
	WriteTimeout time.Duration `envconfig:"WRITE_TIMEOUT" default:"3s"`
}

type RateLimit struct {
	MaxRequests int           `envconfig:"MAX_REQUESTS" default:"100"`
	Window      time.Duration `envconfig:"WINDOW" default:"1m"`
}

// Ledger holds the amount bounds and tuning of ledger operations. Amounts are
// decimal strings so no float ever touches them.
type Ledger struct {
	Currency      string `envconfig:"CURRENCY" default:"LKR"`
	MinInvestment string `envconfig:"MIN_INVESTMENT" default:"100"`
	MinSell       string `envconfig:"MIN_SELL_GRAMS" default:"0.001"`
	MaxDeposit    string `envconfig:"MAX_DEPOSIT" default:"1000000"`
	MaxRetries    int    `envconfig:"MAX_RETRIES" default:"3"`
	PageSize      int    `envconfig:"PAGE_SIZE" default:"50"`
}

// Limits parses the configured bounds.
func (l *Ledger) Limits() (account.Limits, error) {
	minInvest, err := money.NewMoney(l.MinInvestment)
	if err != nil {
		return account.Limits{}, fmt.Errorf("LEDGER_MIN_INVESTMENT: %w", err)
	}
	minSell, err := money.NewGrams(l.MinSell)
	if err != nil {
		return account.Limits{}, fmt.Errorf("LEDGER_MIN_SELL_GRAMS: %w", err)
	}
	maxDeposit, err := money.NewMoney(l.MaxDeposit)
	if err != nil {
		return account.Limits{}, fmt.Errorf("LEDGER_MAX_DEPOSIT: %w", err)
	}
	return account.Limits{
		MinInvestment: minInvest,
		MinSell:       minSell,
		MaxDeposit:    maxDeposit,
	}, nil
}

// Oracle selects and tunes the gold price source.
type Oracle struct {
	Kind        string        `envconfig:"KIND" default:"fixed"` // fixed | sheet | http
	URL         string        `envconfig:"URL"`
	ApiKey      string        `envconfig:"API_KEY"`
	HTTPTimeout time.Duration `envconfig:"HTTP_TIMEOUT" default:"5s"`
	FixedPrice  string        `envconfig:"FIXED_PRICE" default:"20000"`
	SheetPath   string        `envconfig:"SHEET_PATH" default:"prices.yaml"`
	CacheTTL    time.Duration `envconfig:"CACHE_TTL" default:"30s"`
	CacheKind   string        `envconfig:"CACHE_KIND" default:"memory"` // memory | redis
}

type EventBus struct {
	Kind        string `envconfig:"KIND" default:"memory"` // memory | redis | kafka
	Stream      string `envconfig:"STREAM" default:"goldvault.ledger"`
	Group       string `envconfig:"GROUP" default:"goldvault"`
	Brokers     string `envconfig:"BROKERS" default:"localhost:9092"`
	TopicPrefix string `envconfig:"TOPIC_PREFIX" default:"goldvault.events"`
	// Kafka SASL/PLAIN credentials; both empty disables SASL.
	SASLUsername string `envconfig:"SASL_USERNAME"`
	SASLPassword string `envconfig:"SASL_PASSWORD"`
	TLSEnabled   bool   `envconfig:"TLS_ENABLED" default:"false"`
}

type Log struct {
	Level      int    `envconfig:"LEVEL" default:"0"`
	Format     string `envconfig:"FORMAT" default:"json"`
	TimeFormat string `envconfig:"TIME_FORMAT" default:"2006-01-02 15:04:05"`
	Prefix     string `envconfig:"PREFIX" default:"[goldvault]"`
}

type Server struct {
	Scheme string `envconfig:"SCHEME" default:"http"`
	Host   string `envconfig:"HOST" default:"localhost"`
	Port   int    `envconfig:"PORT" default:"3000"`
}

type App struct {
	Env       string     `envconfig:"APP_ENV" default:"development"`
	Server    *Server    `envconfig:"SERVER"`
	Log       *Log       `envconfig:"LOG"`
	DB        *DB        `envconfig:"DATABASE"`
	Auth      *Auth      `envconfig:"AUTH"`
	Redis     *Redis     `envconfig:"REDIS"`
	RateLimit *RateLimit `envconfig:"RATE_LIMIT"`
	Ledger    *Ledger    `envconfig:"LEDGER"`
	Oracle    *Oracle    `envconfig:"ORACLE"`
	EventBus  *EventBus  `envconfig:"EVENT_BUS"`
}
