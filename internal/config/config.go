// Package config предоставляет структуры и функцию для парсинга и загрузки конфига
package config

import (
	"log"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

// Config общая структура для хранения настроек
type Config struct {
	Env                     string `yaml:"env" env-default:"local"`
	StorageConnectionString string `yaml:"storage_connection_string"`
	MigrationsPath          string `yaml:"migrations_path" env-default:"./migrations"`
	FrontendURL             string `yaml:"frontend_url"`
	UploadDir               string `yaml:"upload_dir" env-default:"./uploads"`
	RedisConnection         `yaml:"redis_connection"`
	HTTPServer              `yaml:"http_server"`
	JWTToken                `yaml:"jwttoken"`
	SMTP                    `yaml:"smtp"`
	Media                   `yaml:"media"`
	Payment                 `yaml:"payment"`
	RabbitMQ                `yaml:"rabbitmq"`
}

// HTTPServer структура для настройки сервера
type HTTPServer struct {
	AddressHTTP string        `yaml:"addresshttp" env-default:":8080"`
	TimeoutHTTP time.Duration `yaml:"timeouthttp" env-default:"4s"`
	IdleTimeout time.Duration `yaml:"idle_timeout" env-default:"60s"`
}

// RedisConnection структура для настройки подключения к redis
type RedisConnection struct {
	AddressRedis string        `yaml:"addressredis"`
	Password     string        `yaml:"password"`
	User         string        `yaml:"user"`
	DB           int           `yaml:"db"`
	MaxRetries   int           `yaml:"max_retries"`
	DialTimeout  time.Duration `yaml:"dial_timeout"`
	TimeoutRedis time.Duration `yaml:"timeoutredis"`
}

// JWTToken структура для работы с jwt-токеном
type JWTToken struct {
	JWTSecretKey string        `yaml:"jwt_secret_key" env:"JWT_SECRET_KEY"`
	TokenTTL     time.Duration `yaml:"token_ttl" env-default:"168h"`
}

// SMTP структура для настройки отправки почты
type SMTP struct {
	SMTPHost string `yaml:"smtp_host"`
	SMTPPort string `yaml:"smtp_port"`
	SMTPUser string `yaml:"smtp_user"`
	SMTPPass string `yaml:"smtp_pass" env:"SMTP_PASS"`
}

// Media структура для подключения к медиа-хостингу, где хранятся
// аватары пользователей, обложки курсов и видео лекций
type Media struct {
	MediaAPIURL    string `yaml:"media_api_url"`
	MediaCloudName string `yaml:"media_cloud_name"`
	MediaAPIKey    string `yaml:"media_api_key" env:"MEDIA_API_KEY"`
	MediaAPISecret string `yaml:"media_api_secret" env:"MEDIA_API_SECRET"`
	MediaFolder    string `yaml:"media_folder" env-default:"lms"`
}

// Payment структура для подключения к платёжному провайдеру
type Payment struct {
	PaymentAPIURL string `yaml:"payment_api_url"`
	PaymentKeyID  string `yaml:"payment_key_id" env:"PAYMENT_KEY_ID"`
	PaymentSecret string `yaml:"payment_secret" env:"PAYMENT_SECRET"`
	PaymentPlanID string `yaml:"payment_plan_id"`
	WebhookSecret string `yaml:"webhook_secret" env:"PAYMENT_WEBHOOK_SECRET"`
}

// RabbitMQ структура для подключения к брокеру сообщений
type RabbitMQ struct {
	RabbitURL        string        `yaml:"rabbit_url"`
	RabbitMaxRetries int           `yaml:"rabbit_max_retries" env-default:"5"`
	RabbitRetryDelay time.Duration `yaml:"rabbit_retry_delay" env-default:"3s"`
}

// MustLoad загружает конфиг по пути из CONFIG_PATH, при ошибке завершает процесс.
func MustLoad() *Config {
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		log.Fatal("CONFIG_PATH is not set")
	}
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		log.Fatalf("file: %s - does not exist", configPath)
	}
	var cfg Config

	if err := cleanenv.ReadConfig(configPath, &cfg); err != nil {
		log.Fatalf("cannot read config: %s", err)
	}
	return &cfg
}
