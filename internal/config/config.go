package config

import (
	"errors"
	"fmt"
	"net"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"github.com/shopspring/decimal"
)

type Config struct {
	AppPort string `envconfig:"APP_PORT" default:"8080"`

	MySQLHost string `envconfig:"MYSQL_HOST" default:"mysql"`
	MySQLPort string `envconfig:"MYSQL_PORT" default:"3306"`
	MySQLDB   string `envconfig:"MYSQL_DB" default:"sacco"`
	MySQLUser string `envconfig:"MYSQL_USER" default:"sacco"`
	MySQLPass string `envconfig:"MYSQL_PASS" default:"sacco"`

	RedisAddr string `envconfig:"REDIS_ADDR" default:"redis:6379"`
	RedisDB   int    `envconfig:"REDIS_DB" default:"0"`

	IdempTTLSecs      int `envconfig:"IDEMPOTENCY_TTL_SECONDS" default:"300"`
	StatsCacheTTLSecs int `envconfig:"STATS_CACHE_TTL_SECONDS" default:"60"`

	JWTSecret string `envconfig:"JWT_SECRET"`
	JWTIssuer string `envconfig:"JWT_ISSUER"`

	// LoanAnnualRate is the percentage applied to new loan requests.
	LoanAnnualRate decimal.Decimal `envconfig:"LOAN_ANNUAL_RATE_PERCENT" default:"12"`

	PaystackSecretKey string `envconfig:"PAYSTACK_SECRET_KEY"`
	PaystackBaseURL   string `envconfig:"PAYSTACK_BASE_URL" default:"https://api.paystack.co"`

	EventsDriver string   `envconfig:"EVENTS_DRIVER" default:"log"`
	KafkaBrokers []string `envconfig:"KAFKA_BROKERS"`
	KafkaTopic   string   `envconfig:"KAFKA_TOPIC" default:"sacco.events"`
	AMQPURL      string   `envconfig:"AMQP_URL"`
	AMQPExchange string   `envconfig:"AMQP_EXCHANGE" default:"sacco.events"`

	LogLevel  string `envconfig:"LOG_LEVEL" default:"info"`
	LogFormat string `envconfig:"LOG_FORMAT" default:"json"`
	LogFile   string `envconfig:"LOG_FILE"`
}

// Load reads .env when present, then the process environment, which wins.
func Load() (*Config, error) {
	_ = godotenv.Load()

	var c Config
	if err := envconfig.Process("", &c); err != nil {
		return nil, fmt.Errorf("failed to process config: %w", err)
	}
	return &c, nil
}

func (c *Config) Validate() error {
	if c.MySQLHost == "" || c.MySQLPort == "" || c.MySQLDB == "" || c.MySQLUser == "" {
		return errors.New("missing MySQL config (MYSQL_HOST/PORT/DB/USER)")
	}
	// ensure port is valid
	if _, err := net.LookupPort("tcp", c.MySQLPort); err != nil {
		return fmt.Errorf("invalid MYSQL_PORT %q: %w", c.MySQLPort, err)
	}
	if c.AppPort == "" {
		return errors.New("missing APP_PORT")
	}
	if len(c.JWTSecret) < 32 {
		return errors.New("JWT_SECRET must be at least 32 bytes")
	}
	if c.LoanAnnualRate.IsNegative() {
		return fmt.Errorf("invalid LOAN_ANNUAL_RATE_PERCENT %s", c.LoanAnnualRate)
	}
	if c.PaystackSecretKey == "" {
		return errors.New("missing PAYSTACK_SECRET_KEY")
	}
	switch c.EventsDriver {
	case "log":
	case "kafka":
		if len(c.KafkaBrokers) == 0 {
			return errors.New("EVENTS_DRIVER=kafka needs KAFKA_BROKERS")
		}
	case "amqp":
		if c.AMQPURL == "" {
			return errors.New("EVENTS_DRIVER=amqp needs AMQP_URL")
		}
	default:
		return fmt.Errorf("invalid EVENTS_DRIVER %q", c.EventsDriver)
	}
	return nil
}

func (c *Config) IdempotencyTTL() time.Duration {
	return time.Duration(c.IdempTTLSecs) * time.Second
}

func (c *Config) StatsCacheTTL() time.Duration {
	return time.Duration(c.StatsCacheTTLSecs) * time.Second
}

func (c *Config) mysqlAddr() string { return net.JoinHostPort(c.MySQLHost, c.MySQLPort) }

func (c *Config) MySQLDSN() string {
	// parseTime needed for DATETIME; loc=UTC keeps accrual arithmetic in one zone
	return fmt.Sprintf("%s:%s@tcp(%s)/%s?parseTime=true&loc=UTC&charset=utf8mb4",
		c.MySQLUser, c.MySQLPass, c.mysqlAddr(), c.MySQLDB)
}
