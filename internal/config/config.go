package config

import (
	"time"

	"github.com/spf13/viper"
)

type CacheBackend string

const (
	MemoryCache CacheBackend = "MEMORY"
	RedisCache  CacheBackend = "REDIS"
)

const (
	TransportNone  = "NONE"
	TransportKafka = "KAFKA"
)

type Config struct {
	BackendBaseURL string `mapstructure:"BACKEND_BASE_URL"`
	LogLevel       string `mapstructure:"LOG_LEVEL"`
	MetricsPort    int    `mapstructure:"METRICS_PORT"`

	PreviewDebounce     time.Duration `mapstructure:"PREVIEW_DEBOUNCE"`
	StatusBannerTTL     time.Duration `mapstructure:"STATUS_BANNER_TTL"`
	AutoRefreshInterval time.Duration `mapstructure:"AUTO_REFRESH_INTERVAL"`

	CacheBackend  CacheBackend  `mapstructure:"CACHE_BACKEND"`
	RedisURL      string        `mapstructure:"REDIS_URL"`
	RedisPassword string        `mapstructure:"REDIS_PASSWORD"`
	RedisDB       int           `mapstructure:"REDIS_DB"`
	RedisCacheTTL time.Duration `mapstructure:"REDIS_CACHE_TTL"`

	MessageTransport     string `mapstructure:"MESSAGE_TRANSPORT"`
	KafkaBrokers         string `mapstructure:"KAFKA_BROKERS"`
	KafkaGroupID         string `mapstructure:"KAFKA_GROUP_ID"`
	TopicResync          string `mapstructure:"TOPIC_RESYNC"`
	TopicDeadLetterQueue string `mapstructure:"TOPIC_DEAD_LETTER_QUEUE"`

	// Limite de espera por resposta do backend; requisição travada vira erro de rede.
	HTTPRequestTimeout time.Duration `mapstructure:"HTTP_REQUEST_TIMEOUT"`

	RateLimitRequests int           `mapstructure:"RATE_LIMIT_REQUESTS"`
	RateLimitWindow   time.Duration `mapstructure:"RATE_LIMIT_WINDOW"`

	// Apenas GETs são repetidos; mutações nunca são repetidas automaticamente.
	RetryCount           int           `mapstructure:"RETRY_COUNT"`
	RetryBackoff         time.Duration `mapstructure:"RETRY_BACKOFF"`
	RetryableStatusCodes []int         `mapstructure:"RETRYABLE_STATUS_CODES"`

	CBSlidingWindowSize        int           `mapstructure:"CB_SLIDING_WINDOW_SIZE"`
	CBMinimumRequiredCalls     int           `mapstructure:"CB_MINIMUM_REQUIRED_CALLS"`
	CBFailureRateThreshold     int           `mapstructure:"CB_FAILURE_RATE_THRESHOLD"`
	CBPermittedCallsInHalfOpen int           `mapstructure:"CB_PERMITTED_CALLS_IN_HALF_OPEN"`
	CBWaitDurationInOpenState  time.Duration `mapstructure:"CB_WAIT_DURATION_IN_OPEN_STATE"`
}

func LoadConfig() *Config {
	setDefaults()

	viper.SetConfigName(".env")
	viper.SetConfigType("env")
	viper.AddConfigPath(".")

	viper.AutomaticEnv()

	_ = viper.ReadInConfig()

	config := &Config{}

	if err := viper.Unmarshal(config); err != nil {
		return getDefaultConfig()
	}

	return config
}

func setDefaults() {
	viper.SetDefault("BACKEND_BASE_URL", "http://localhost:5000")
	viper.SetDefault("LOG_LEVEL", "info")
	viper.SetDefault("METRICS_PORT", 9096)

	viper.SetDefault("PREVIEW_DEBOUNCE", "500ms")
	viper.SetDefault("STATUS_BANNER_TTL", "5s")
	viper.SetDefault("AUTO_REFRESH_INTERVAL", "0s")

	viper.SetDefault("CACHE_BACKEND", string(MemoryCache))
	viper.SetDefault("REDIS_URL", "localhost:6379")
	viper.SetDefault("REDIS_PASSWORD", "")
	viper.SetDefault("REDIS_DB", 0)
	viper.SetDefault("REDIS_CACHE_TTL", "30m")

	viper.SetDefault("MESSAGE_TRANSPORT", TransportNone)
	viper.SetDefault("KAFKA_BROKERS", "kafka:9092")
	viper.SetDefault("KAFKA_GROUP_ID", "editais-console")
	viper.SetDefault("TOPIC_RESYNC", "editais-resync")
	viper.SetDefault("TOPIC_DEAD_LETTER_QUEUE", "editais-resync-dlq")

	viper.SetDefault("HTTP_REQUEST_TIMEOUT", "10s")

	viper.SetDefault("RATE_LIMIT_REQUESTS", 20)
	viper.SetDefault("RATE_LIMIT_WINDOW", "1s")

	viper.SetDefault("RETRY_COUNT", 0)
	viper.SetDefault("RETRY_BACKOFF", "1s")
	viper.SetDefault("RETRYABLE_STATUS_CODES", []int{408, 429, 502, 503, 504})

	viper.SetDefault("CB_SLIDING_WINDOW_SIZE", 10)
	viper.SetDefault("CB_MINIMUM_REQUIRED_CALLS", 5)
	viper.SetDefault("CB_FAILURE_RATE_THRESHOLD", 50)
	viper.SetDefault("CB_PERMITTED_CALLS_IN_HALF_OPEN", 2)
	viper.SetDefault("CB_WAIT_DURATION_IN_OPEN_STATE", "10s")
}

func getDefaultConfig() *Config {
	return &Config{
		BackendBaseURL: "http://localhost:5000",
		LogLevel:       "info",
		MetricsPort:    9096,

		PreviewDebounce:     500 * time.Millisecond,
		StatusBannerTTL:     5 * time.Second,
		AutoRefreshInterval: 0,

		CacheBackend:  MemoryCache,
		RedisURL:      "localhost:6379",
		RedisPassword: "",
		RedisDB:       0,
		RedisCacheTTL: 30 * time.Minute,

		MessageTransport:     TransportNone,
		KafkaBrokers:         "kafka:9092",
		KafkaGroupID:         "editais-console",
		TopicResync:          "editais-resync",
		TopicDeadLetterQueue: "editais-resync-dlq",

		HTTPRequestTimeout: 10 * time.Second,

		RateLimitRequests: 20,
		RateLimitWindow:   1 * time.Second,

		RetryCount:           0,
		RetryBackoff:         1 * time.Second,
		RetryableStatusCodes: []int{408, 429, 502, 503, 504},

		CBSlidingWindowSize:        10,
		CBMinimumRequiredCalls:     5,
		CBFailureRateThreshold:     50,
		CBPermittedCallsInHalfOpen: 2,
		CBWaitDurationInOpenState:  10 * time.Second,
	}
}
