package config

import (
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration for the engine and the inference proxy.
// The values are read by Viper from a config file or environment variables.
type Config struct {
	Storage   StorageConfig   `mapstructure:"storage"`
	Inference InferenceConfig `mapstructure:"inference"`
	Progress  ProgressConfig  `mapstructure:"progress"`
	S3        S3Config        `mapstructure:"s3"`
	Telegram  TelegramConfig  `mapstructure:"telegram"`
	Log       LogConfig       `mapstructure:"log"`
	Proxy     ProxyConfig     `mapstructure:"proxy"`
}

// StorageConfig selects the persistence gateway backend.
// Driver is one of "memory", "sqlite" or "mongo".
type StorageConfig struct {
	Driver        string `mapstructure:"driver"`
	Namespace     string `mapstructure:"namespace"`
	SQLitePath    string `mapstructure:"sqlite_path"`
	MongoURI      string `mapstructure:"mongo_uri"`
	MongoDatabase string `mapstructure:"mongo_database"`
}

// InferenceConfig describes the remote plan-inference endpoint.
// Token is an opaque credential sent as-is. Behind the inference proxy, set
// ClientID and ClientSecret instead and tokens are requested from TokenURL
// (default: auth/token next to the endpoint) and renewed as they expire.
type InferenceConfig struct {
	Endpoint     string        `mapstructure:"endpoint"`
	Token        string        `mapstructure:"token"`
	ClientID     string        `mapstructure:"client_id"`
	ClientSecret string        `mapstructure:"client_secret"`
	TokenURL     string        `mapstructure:"token_url"`
	Timeout      time.Duration `mapstructure:"timeout"`
	MaxNewTokens int           `mapstructure:"max_new_tokens"`
	Temperature  float64       `mapstructure:"temperature"`
}

type ProgressConfig struct {
	// Timezone is an IANA name used to decide the calendar day of the ledger.
	Timezone string `mapstructure:"timezone"`
}

type S3Config struct {
	Endpoint        string `mapstructure:"endpoint"`
	Region          string `mapstructure:"region"`
	AccessKeyID     string `mapstructure:"access_key_id"`
	SecretAccessKey string `mapstructure:"secret_access_key"`
	BucketName      string `mapstructure:"bucket_name"`
	UseSSL          bool   `mapstructure:"use_ssl"`
}

type TelegramConfig struct {
	Token  string `mapstructure:"token"`
	ChatID int64  `mapstructure:"chat_id"`
}

type LogConfig struct {
	Level    string         `mapstructure:"level"`
	Logstash LogstashConfig `mapstructure:"logstash"`
	Elk      ElkConfig      `mapstructure:"elk"`
}

type LogstashConfig struct {
	Enable bool   `mapstructure:"enable"`
	URL    string `mapstructure:"url"`
}

type ElkConfig struct {
	Enable bool   `mapstructure:"enable"`
	URL    string `mapstructure:"url"`
	Index  string `mapstructure:"index"`
}

// ProxyConfig configures the inference proxy binary.
type ProxyConfig struct {
	Address          string    `mapstructure:"address"`
	ClientID         string    `mapstructure:"client_id"`
	ClientSecretHash string    `mapstructure:"client_secret_hash"` // bcrypt hash
	UpstreamURL      string    `mapstructure:"upstream_url"`
	UpstreamToken    string    `mapstructure:"upstream_token"`
	AllowedOrigins   []string  `mapstructure:"allowed_origins"`
	JWT              JWTConfig `mapstructure:"jwt"`
}

// JWTConfig defines JWT specific configuration
type JWTConfig struct {
	Secret     string        `mapstructure:"secret"`
	Expiration time.Duration `mapstructure:"expiration"`
}

// Defaults returns the configuration used when nothing is provided.
// Useful for embedding the engine without a config file.
func Defaults() Config {
	v := viper.New()
	setDefaults(v)
	var cfg Config
	_ = v.Unmarshal(&cfg)
	return cfg
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("storage.driver", "memory")
	v.SetDefault("storage.namespace", "nutriai")
	v.SetDefault("storage.sqlite_path", "nutriai.db")
	v.SetDefault("storage.mongo_uri", "mongodb://localhost:27017")
	v.SetDefault("storage.mongo_database", "nutriai")
	v.SetDefault("inference.timeout", "60s")
	v.SetDefault("inference.max_new_tokens", 2000)
	v.SetDefault("inference.temperature", 0.7)
	v.SetDefault("progress.timezone", "UTC")
	v.SetDefault("s3.use_ssl", true)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.elk.index", "nutriai-engine")
	v.SetDefault("proxy.address", ":8080")
	v.SetDefault("proxy.upstream_url", "https://api-inference.huggingface.co/models/meta-llama/Llama-2-70b-chat-hf")
	v.SetDefault("proxy.allowed_origins", []string{"*"})
	v.SetDefault("proxy.jwt.expiration", "1h")
}

// envOnlyKeys have no default, so AutomaticEnv alone would not surface them on Unmarshal.
var envOnlyKeys = []string{
	"inference.endpoint",
	"inference.token",
	"inference.client_id",
	"inference.client_secret",
	"inference.token_url",
	"s3.endpoint",
	"s3.region",
	"s3.access_key_id",
	"s3.secret_access_key",
	"s3.bucket_name",
	"telegram.token",
	"telegram.chat_id",
	"log.logstash.enable",
	"log.logstash.url",
	"log.elk.enable",
	"log.elk.url",
	"proxy.client_id",
	"proxy.client_secret_hash",
	"proxy.upstream_token",
	"proxy.jwt.secret",
}

// LoadConfig reads configuration from file or environment variables.
func LoadConfig(path string) (config Config, err error) {
	v := viper.New()
	v.AddConfigPath(path)
	v.SetConfigName("config")
	v.SetConfigType("yaml")

	// inference.endpoint -> INFERENCE_ENDPOINT
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(`.`, `_`))

	setDefaults(v)
	for _, key := range envOnlyKeys {
		_ = v.BindEnv(key)
	}

	err = v.ReadInConfig()
	if _, ok := err.(viper.ConfigFileNotFoundError); ok {
		// Running on defaults and env vars only.
		err = nil
	} else if err != nil {
		return
	}

	err = v.Unmarshal(&config)
	if err != nil {
		return
	}
	return config, nil
}
