package config

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
)

// Store backends.
const (
	StoreBackendPostgres = "postgres"
	StoreBackendLocal    = "local"
)

// Optional backend selectors. Empty disables the subsystem.
const (
	StorageBackendMinio = "minio"
	StorageBackendGCS   = "gcs"
	EventsBackendRabbit = "rabbitmq"
	EventsBackendPubSub = "pubsub"
)

type Config struct {
	ServerPort int
	Store      StoreConfig
	Admin      AdminConfig
	Database   DatabaseConfig
	Storage    StorageConfig
	Minio      MinioConfig
	GCS        GCSConfig
	Events     EventsConfig
	RabbitMQ   RabbitMQConfig
	PubSub     PubSubConfig
}

// StoreConfig selects the persistence backend for users, items and
// comments: a Postgres database, or the local file-backed store.
type StoreConfig struct {
	Backend   string
	LocalPath string
}

// AdminConfig describes the seed admin account. Exactly one admin is
// created on first initialization of a fresh store.
type AdminConfig struct {
	Email    string
	Password string
	Name     string
}

type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	DBName   string
	UseSSL   bool
}

// StorageConfig selects the object storage backend for item images.
type StorageConfig struct {
	Backend string
}

type MinioConfig struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	UseSSL    bool
}

type GCSConfig struct {
	Bucket          string
	ProjectID       string
	CredentialsFile string
}

// EventsConfig selects the broker for domain events.
type EventsConfig struct {
	Backend string
	Topic   string
}

type RabbitMQConfig struct {
	URL             string
	QueueDurable    bool
	QueueAutoDelete bool
}

type PubSubConfig struct {
	ProjectID       string
	CredentialsFile string
}

func LoadConfig() Config {
	if os.Getenv("ENV") == "dev" {
		godotenv.Load()
	}

	dbConfig := DatabaseConfig{
		Host:     getEnv("DB_HOST", "localhost"),
		Port:     getEnvInt("DB_PORT", 5432),
		User:     getEnv("DB_USER", "supergamer"),
		Password: getEnv("DB_PASSWORD", "password"),
		DBName:   getEnv("DB_NAME", "supergamer_db"),
		UseSSL:   getEnvBool("DB_USE_SSL", false),
	}

	return Config{
		ServerPort: getEnvInt("SERVER_PORT", 8080),
		Store: StoreConfig{
			Backend:   getEnv("STORE_BACKEND", StoreBackendPostgres),
			LocalPath: getEnv("STORE_LOCAL_PATH", "supergamer-data"),
		},
		Admin: AdminConfig{
			Email:    getEnv("ADMIN_EMAIL", "admin@supergamer.com"),
			Password: getEnv("ADMIN_PASSWORD", "admin"),
			Name:     getEnv("ADMIN_NAME", "Administrator"),
		},
		Database: dbConfig,
		Storage: StorageConfig{
			Backend: getEnv("STORAGE_BACKEND", ""),
		},
		Minio: MinioConfig{
			Endpoint:  getEnv("MINIO_ENDPOINT", ""),
			AccessKey: getEnv("MINIO_ACCESS_KEY", ""),
			SecretKey: getEnv("MINIO_SECRET_KEY", ""),
			Bucket:    getEnv("MINIO_BUCKET", "supergamer-images"),
			UseSSL:    getEnvBool("MINIO_USE_SSL", false),
		},
		GCS: GCSConfig{
			Bucket:          getEnv("GCS_BUCKET", ""),
			ProjectID:       getEnv("GCS_PROJECT_ID", ""),
			CredentialsFile: getEnv("GCS_CREDENTIALS_FILE", ""),
		},
		Events: EventsConfig{
			Backend: getEnv("EVENTS_BACKEND", ""),
			Topic:   getEnv("EVENTS_TOPIC", "supergamer-events"),
		},
		RabbitMQ: RabbitMQConfig{
			URL:             getEnv("RABBITMQ_URL", ""),
			QueueDurable:    getEnvBool("RABBITMQ_QUEUE_DURABLE", true),
			QueueAutoDelete: getEnvBool("RABBITMQ_QUEUE_AUTO_DELETE", false),
		},
		PubSub: PubSubConfig{
			ProjectID:       getEnv("PUBSUB_PROJECT_ID", ""),
			CredentialsFile: getEnv("PUBSUB_CREDENTIALS_FILE", ""),
		},
	}
}

func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if valueStr, exists := os.LookupEnv(key); exists {
		var value int
		fmt.Sscanf(valueStr, "%d", &value)
		return value
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if valueStr, exists := os.LookupEnv(key); exists {
		return valueStr == "1" || valueStr == "true" || valueStr == "yes"
	}
	return defaultValue
}
