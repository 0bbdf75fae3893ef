package config

import (
	"errors"
	"fmt"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Cfg global config instance
var Cfg *Config

// envBindings maps deployment env vars onto config keys
var envBindings = map[string]string{
	"server.port":                  "PORT",
	"server.client_url":            "CLIENT_URL",
	"server.public_url":            "PUBLIC_URL",
	"server.expose_errors":         "EXPOSE_ERRORS",
	"server.max_upload_mb":         "MAX_UPLOAD_MB",
	"logging.level":                "LOG_LEVEL",
	"logging.remote_addr":          "LOG_REMOTE_ADDR",
	"mongo.uri":                    "MONGODB_URI",
	"mongo.database":               "MONGODB_DATABASE",
	"redis.addr":                   "REDIS_ADDR",
	"redis.password":               "REDIS_PASSWORD",
	"jwt.secret":                   "JWT_SECRET",
	"storage.type":                 "STORAGE_TYPE",
	"storage.local_path":           "UPLOAD_DIR",
	"storage.s3.region":            "AWS_REGION",
	"storage.s3.bucket":            "AWS_BUCKET_NAME",
	"storage.s3.access_key_id":     "AWS_ACCESS_KEY_ID",
	"storage.s3.secret_access_key": "AWS_SECRET_ACCESS_KEY",
	"storage.s3.endpoint":          "AWS_ENDPOINT",
	"storage.minio.endpoint":       "MINIO_ENDPOINT",
	"storage.minio.access_key":     "MINIO_ACCESS_KEY",
	"storage.minio.secret_key":     "MINIO_SECRET_KEY",
	"storage.minio.bucket":         "MINIO_BUCKET",
	"kafka.enabled":                "KAFKA_ENABLED",
	"kafka.brokers":                "KAFKA_BROKERS",
	"email.host":                   "EMAIL_HOST",
	"email.port":                   "EMAIL_PORT",
	"email.user":                   "EMAIL_USER",
	"email.password":               "EMAIL_PASSWORD",
	"email.from":                   "EMAIL_FROM",
	"email.admin_email":            "ADMIN_EMAIL",
	"supabase.url":                 "SUPABASE_URL",
	"supabase.anon_key":            "SUPABASE_ANON_KEY",
}

// LoadConfig loads ./configs/config.yaml (optional), .env and environment overrides into Cfg
func LoadConfig() error {
	_ = godotenv.Load()

	cfg, err := Load("./configs")
	if err != nil {
		return err
	}
	Cfg = cfg
	return nil
}

// Load reads config.yaml from dir, applies defaults and env overrides and validates the result
func Load(dir string) (*Config, error) {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(dir)

	setDefaults(v)
	for key, env := range envBindings {
		if err := v.BindEnv(key, env); err != nil {
			return nil, fmt.Errorf("failed to bind env %s: %w", env, err)
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var configFileNotFoundError viper.ConfigFileNotFoundError
		if !errors.As(err, &configFileNotFoundError) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 5000)
	v.SetDefault("server.client_url", "http://localhost:3000")
	v.SetDefault("server.public_url", "http://localhost:5000")
	v.SetDefault("server.max_upload_mb", 100)
	v.SetDefault("server.read_timeout", 60)
	v.SetDefault("server.write_timeout", 300)
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.index", "logstash-blips")
	v.SetDefault("mongo.uri", "mongodb://localhost:27017/?replicaSet=rs0")
	v.SetDefault("mongo.database", "blips")
	v.SetDefault("mongo.timeout", 10)
	v.SetDefault("redis.addr", "localhost:6379")
	v.SetDefault("redis.pool_size", 10)
	v.SetDefault("jwt.expire_hours", 24*7)
	v.SetDefault("storage.type", "local")
	v.SetDefault("storage.local_path", "uploads")
	v.SetDefault("storage.presign_minutes", 60)
	v.SetDefault("storage.s3.region", "us-east-1")
	v.SetDefault("kafka.topic", "blips-events")
	v.SetDefault("kafka.group_id", "blips-api")
	v.SetDefault("kafka.consumer.session_timeout", 10)
	v.SetDefault("kafka.consumer.heartbeat_interval", 3)
	v.SetDefault("kafka.consumer.rebalance_timeout", 60)
	v.SetDefault("kafka.consumer.max_processing_time", 5)
	v.SetDefault("email.port", 465)
	v.SetDefault("email.ssl", true)
	v.SetDefault("jobs.counter_reconcile", "0 0 * * * *")
	v.SetDefault("jobs.upload_cleanup", "0 */30 * * * *")
	v.SetDefault("jobs.upload_ttl_hours", 24)
}

// Validate rejects configurations the server cannot start with
func (c *Config) Validate() error {
	if c.JWT.Secret == "" {
		return errors.New("jwt secret is required (JWT_SECRET)")
	}
	switch c.Storage.Type {
	case StorageLocal, StorageS3, StorageMinIO:
	default:
		return fmt.Errorf("unknown storage type %q", c.Storage.Type)
	}
	if c.Storage.Type == StorageS3 && c.Storage.S3.Bucket == "" {
		return errors.New("s3 storage requires a bucket (AWS_BUCKET_NAME)")
	}
	if c.Storage.Type == StorageMinIO && c.Storage.MinIO.Bucket == "" {
		return errors.New("minio storage requires a bucket")
	}
	if c.Kafka.Enabled && len(c.Kafka.Brokers) == 0 {
		return errors.New("kafka is enabled but no brokers are configured")
	}
	return nil
}

const (
	StorageLocal = "local"
	StorageS3    = "s3"
	StorageMinIO = "minio"
)
