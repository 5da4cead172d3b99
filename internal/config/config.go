package config

import (
	"flag"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

type Config struct {
	Env      string         `yaml:"env" env:"ENV" env-default:"local"`
	HTTP     HTTPConfig     `yaml:"http"`
	Postgres PostgresConfig `yaml:"postgres"`
	Kafka    KafkaConfig    `yaml:"kafka"`
	Cache    CacheConfig    `yaml:"cache"`
}

type HTTPConfig struct {
	Port int `yaml:"port" env:"HTTP_PORT" env-default:"8080"`
}

type PostgresConfig struct {
	Host    string `yaml:"host" env:"POSTGRES_HOST"`
	Port    string `yaml:"port" env:"POSTGRES_PORT"`
	DbName  string `yaml:"db_name" env:"POSTGRES_DB"`
	User    string `yaml:"user" env:"POSTGRES_USER"`
	Pwd     string `yaml:"password" env:"POSTGRES_PASSWORD"`
	SslMode string `yaml:"sslmode" env:"POSTGRES_SSLMODE" env-default:"disable"`
}

type KafkaConfig struct {
	BrokerList      []string `yaml:"broker_list" env:"KAFKA_BROKERS"`
	OrderEventTopic string   `yaml:"order_event_topic" env-default:"snacks.order.created"`
	DeadLetterTopic string   `yaml:"dead_letter_topic" env-default:"snacks.order.created.dlq"`
	ConsumerGroup   string   `yaml:"consumer_group" env-default:"order-processor"`

	// MaxAttempts bounds redelivery of a failing message before it lands
	// in the dead-letter topic.
	MaxAttempts int `yaml:"max_attempts" env-default:"3"`
}

type CacheConfig struct {
	Size int           `yaml:"size" env-default:"128"`
	TTL  time.Duration `yaml:"ttl" env-default:"10m"`
}

func InitConfig() Config {
	configPath := getConfigPath()

	if configPath == "" {
		panic("config path is not set")
	}

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		panic("config file does not exist: " + configPath)
	}

	var cfg Config
	if err := cleanenv.ReadConfig(configPath, &cfg); err != nil {
		panic("failed to read config: " + err.Error())
	}

	return cfg
}

func getConfigPath() string {
	var path string

	flag.StringVar(&path, "config", "", "path to config file")
	flag.Parse()

	if path == "" {
		path = os.Getenv("CONFIG_PATH")
	}

	return path
}
