package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Переменная окружения с путём к YAML-файлу конфигурации.
const EnvConfigPath = "STRIPE_CONFIG"

type Config struct {
	LogFormat string         `yaml:"log_format"` // json, text
	LogLevel  string         `yaml:"log_level"`  // debug, info, warn, error
	HTTPAddr  string         `yaml:"http_addr"`
	Output    OutputConfig   `yaml:"output"`
	Video     VideoConfig    `yaml:"video"`
	Telegram  TelegramConfig `yaml:"telegram"`
	MQTT      MQTTConfig     `yaml:"mqtt"`
}

// OutputConfig определяет, куда пишутся выходные видео.
type OutputConfig struct {
	Dir       string `yaml:"dir"`
	Namespace string `yaml:"namespace"` // fixed, run
}

// VideoConfig настраивает запись и перекодирование видео.
type VideoConfig struct {
	Codec      string `yaml:"codec"` // FourCC сырых выходов
	FFmpegPath string `yaml:"ffmpeg_path"`
}

type TelegramConfig struct {
	Token string `yaml:"token"`
}

// MQTTConfig брокер для вердиктов; пустой Broker отключает публикацию.
type MQTTConfig struct {
	Broker   string `yaml:"broker"` // host:port
	ClientID string `yaml:"client_id"`
	Topic    string `yaml:"topic"`
	QoS      byte   `yaml:"qos"`
}

// Default возвращает конфигурацию по умолчанию.
func Default() *Config {
	return &Config{
		LogFormat: "json",
		LogLevel:  "info",
		HTTPAddr:  ":8080",
		Output: OutputConfig{
			Dir:       ".",
			Namespace: "fixed",
		},
		Video: VideoConfig{
			Codec:      "mp4v",
			FFmpegPath: "ffmpeg",
		},
		MQTT: MQTTConfig{
			ClientID: "stripe-inspector",
			Topic:    "stripe-inspector",
		},
	}
}

// Load собирает конфигурацию: .env, затем YAML (path или STRIPE_CONFIG), затем переменные окружения.
func Load(path string) (*Config, error) {
	// Загружаем .env файл (игнорируем ошибку если файла нет)
	_ = godotenv.Load()

	cfg := Default()

	if path == "" {
		path = os.Getenv(EnvConfigPath)
	}
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config: %w", err)
		}
	}

	cfg.applyEnv()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

func (c *Config) applyEnv() {
	overrides := []struct {
		key string
		dst *string
	}{
		{"LOG_FORMAT", &c.LogFormat},
		{"LOG_LEVEL", &c.LogLevel},
		{"HTTP_ADDR", &c.HTTPAddr},
		{"OUTPUT_DIR", &c.Output.Dir},
		{"OUTPUT_NAMESPACE", &c.Output.Namespace},
		{"VIDEO_CODEC", &c.Video.Codec},
		{"FFMPEG_PATH", &c.Video.FFmpegPath},
		{"TELEGRAM_TOKEN", &c.Telegram.Token},
		{"MQTT_BROKER", &c.MQTT.Broker},
		{"MQTT_CLIENT_ID", &c.MQTT.ClientID},
		{"MQTT_TOPIC", &c.MQTT.Topic},
	}
	for _, o := range overrides {
		if v := os.Getenv(o.key); v != "" {
			*o.dst = v
		}
	}
}

// Validate проверяет значения, которые нельзя исправить молча.
func (c *Config) Validate() error {
	switch c.LogFormat {
	case "json", "text":
	default:
		return fmt.Errorf("unknown log format %q", c.LogFormat)
	}

	switch strings.ToLower(c.LogLevel) {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("unknown log level %q", c.LogLevel)
	}

	switch c.Output.Namespace {
	case "fixed", "run":
	default:
		return fmt.Errorf("unknown output namespace %q", c.Output.Namespace)
	}

	if c.Output.Dir == "" {
		return fmt.Errorf("output dir is required")
	}
	if len(c.Video.Codec) != 4 {
		return fmt.Errorf("video codec %q is not a FourCC", c.Video.Codec)
	}
	if c.MQTT.QoS > 2 {
		return fmt.Errorf("mqtt qos %d is out of range 0..2", c.MQTT.QoS)
	}
	return nil
}
