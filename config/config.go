package config

import (
	"fmt"
	"os"

	"go.yaml.in/yaml/v4"
)

type Config struct {
	Database    DatabaseConfig    `yaml:"database"`
	Kafka       KafkaConfig       `yaml:"kafka"`
	Redis       RedisConfig       `yaml:"redis"`
	Fulfillment FulfillmentConfig `yaml:"fulfillment"`
}

type DatabaseConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Username string `yaml:"username"`
	Password string `yaml:"password"`
	DBName   string `yaml:"name"`
	SSLMode  string `yaml:"ssl_mode"`
}

type KafkaConfig struct {
	Host                        string `yaml:"host"`
	Port                        int    `yaml:"port"`
	OrderPlacedTopicName        string `yaml:"order_placed_topic_name"`
	OrderStatusChangedTopicName string `yaml:"order_status_changed_topic_name"`
	ConsumerGroup               string `yaml:"consumer_group"`
}

type RedisConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

type FulfillmentConfig struct {
	HTTPAddr    string `yaml:"http_addr"`
	SwaggerPath string `yaml:"swagger_path"`

	// Carrier credentials. The base URL is overridable so staging can point
	// at a sandbox; empty mode falls back to the in-memory fake.
	CarrierBaseURL  string `yaml:"carrier_base_url"`
	CarrierAPIToken string `yaml:"carrier_api_token"`
	CarrierUserGUID string `yaml:"carrier_user_guid"`
	CarrierMode     string `yaml:"carrier_mode"` // "noest" | "fake"

	TrackStatusTTLSeconds    int `yaml:"track_status_ttl_seconds"`
	CreateRateLimitPerMinute int `yaml:"create_rate_limit_per_minute"`

	WebhookURL string `yaml:"webhook_url"`
}

func LoadConfig(filename string) (*Config, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var config Config
	err = yaml.Unmarshal(data, &config)
	if err != nil {
		return nil, fmt.Errorf("failed to unmarshal YAML: %w", err)
	}

	return &config, nil
}
