package config

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type ServerConfig struct {
	Port            string        `envconfig:"PORT" default:"8080"`
	ShutdownTimeout time.Duration `envconfig:"SHUTDOWN_TIMEOUT" default:"10s"`
}

type StoreConfig struct {
	BaseURL string        `envconfig:"STORE_BASE_URL" required:"true"`
	APIKey  string        `envconfig:"STORE_API_KEY"`
	Timeout time.Duration `envconfig:"STORE_TIMEOUT" default:"10s"`
}

type KafkaConfig struct {
	Brokers []string `envconfig:"KAFKA_BROKERS"`
	GroupID string   `envconfig:"KAFKA_GROUP_ID" default:"floor-service"`
}

type NotifyConfig struct {
	BaseURL   string        `envconfig:"NOTIFY_BASE_URL"`
	APIKey    string        `envconfig:"NOTIFY_API_KEY"`
	EmailFrom string        `envconfig:"NOTIFY_EMAIL_FROM" default:"reservations@salleya.fr"`
	SMSSender string        `envconfig:"NOTIFY_SMS_SENDER" default:"SalleYa"`
	Timeout   time.Duration `envconfig:"NOTIFY_TIMEOUT" default:"10s"`
}

type LoggingConfig struct {
	Level     string `envconfig:"LOG_LEVEL" default:"info"`
	Format    string `envconfig:"LOG_FORMAT" default:"text"`
	Directory string `envconfig:"LOG_DIR" default:"./logs"`
}

type SecurityConfig struct {
	JWTSecret     string        `envconfig:"JWT_SECRET" required:"true"`
	StaffPassword string        `envconfig:"STAFF_PASSWORD" required:"true"`
	TokenTTL      time.Duration `envconfig:"TOKEN_TTL" default:"12h"`
}

type WebsocketConfig struct {
	SendBuffer int `envconfig:"WS_SEND_BUFFER" default:"8"`
}

type PollConfig struct {
	Interval time.Duration `envconfig:"POLL_INTERVAL" default:"20s"`
}

type Config struct {
	Server    ServerConfig
	Store     StoreConfig
	Kafka     KafkaConfig
	Notify    NotifyConfig
	Logging   LoggingConfig
	Security  SecurityConfig
	Websocket WebsocketConfig
	Poll      PollConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("process environment: %w", err)
	}
	return &cfg, nil
}
