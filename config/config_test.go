package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

var envKeys = []string{
	EnvConfigPath, "LOG_FORMAT", "LOG_LEVEL", "HTTP_ADDR", "OUTPUT_DIR", "OUTPUT_NAMESPACE",
	"VIDEO_CODEC", "FFMPEG_PATH", "TELEGRAM_TOKEN", "MQTT_BROKER", "MQTT_CLIENT_ID", "MQTT_TOPIC",
}

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range envKeys {
		t.Setenv(k, "")
	}
}

func writeYAML(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load("")
	require.NoError(t, err)
	require.Equal(t, Default(), cfg)
	require.Equal(t, "mp4v", cfg.Video.Codec)
	require.Equal(t, "fixed", cfg.Output.Namespace)
	require.Empty(t, cfg.MQTT.Broker)
}

func TestLoad_YAMLAndEnv(t *testing.T) {
	clearEnv(t)
	path := writeYAML(t, `
log_format: text
http_addr: ":9000"
output:
  dir: /var/lib/stripes
  namespace: run
video:
  codec: MJPG
mqtt:
  broker: broker:1883
  topic: line-3
  qos: 1
`)
	t.Setenv("HTTP_ADDR", ":9100")
	t.Setenv("TELEGRAM_TOKEN", "token")

	cfg, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, "text", cfg.LogFormat)
	require.Equal(t, "info", cfg.LogLevel)
	require.Equal(t, ":9100", cfg.HTTPAddr)
	require.Equal(t, "/var/lib/stripes", cfg.Output.Dir)
	require.Equal(t, "run", cfg.Output.Namespace)
	require.Equal(t, "MJPG", cfg.Video.Codec)
	require.Equal(t, "ffmpeg", cfg.Video.FFmpegPath)
	require.Equal(t, "token", cfg.Telegram.Token)
	require.Equal(t, "broker:1883", cfg.MQTT.Broker)
	require.Equal(t, "line-3", cfg.MQTT.Topic)
	require.Equal(t, byte(1), cfg.MQTT.QoS)
}

func TestLoad_PathFromEnv(t *testing.T) {
	clearEnv(t)
	t.Setenv(EnvConfigPath, writeYAML(t, "log_level: debug\n"))

	cfg, err := Load("")
	require.NoError(t, err)
	require.Equal(t, "debug", cfg.LogLevel)
}

func TestLoad_Errors(t *testing.T) {
	clearEnv(t)

	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)

	_, err = Load(writeYAML(t, "output: [not, a, map]\n"))
	require.Error(t, err)

	t.Setenv("OUTPUT_NAMESPACE", "daily")
	_, err = Load("")
	require.ErrorContains(t, err, "namespace")
}

func TestValidate(t *testing.T) {
	cases := map[string]func(*Config){
		"log format": func(c *Config) { c.LogFormat = "xml" },
		"log level":  func(c *Config) { c.LogLevel = "trace" },
		"namespace":  func(c *Config) { c.Output.Namespace = "" },
		"output dir": func(c *Config) { c.Output.Dir = "" },
		"codec":      func(c *Config) { c.Video.Codec = "h264x" },
		"qos":        func(c *Config) { c.MQTT.QoS = 3 },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			cfg := Default()
			mutate(cfg)
			require.Error(t, cfg.Validate())
		})
	}

	require.NoError(t, Default().Validate())
}
