package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"stripe-inspector/config"
	telegram "stripe-inspector/internal/api"
	"stripe-inspector/internal/api/rest"
	"stripe-inspector/internal/container"
	"stripe-inspector/internal/domain/port"
	"stripe-inspector/internal/infrastructure/emitter"
	"stripe-inspector/internal/infrastructure/preview"
	"stripe-inspector/internal/infrastructure/report"
	"stripe-inspector/internal/infrastructure/storage"
	"stripe-inspector/internal/infrastructure/transcode"
	"stripe-inspector/internal/infrastructure/vision"
)

type options struct {
	Mode       string
	ConfigPath string
	Image      string
	Video      string
	Low        float64
	High       float64
}

func parseFlags(args []string) (*options, error) {
	fs := flag.NewFlagSet("stripe-inspector", flag.ContinueOnError)

	opts := &options{}
	fs.StringVar(&opts.Mode, "mode", "cli", "Run mode: cli, http, bot")
	fs.StringVar(&opts.ConfigPath, "config", "", "Path to YAML config (default $STRIPE_CONFIG)")
	fs.StringVar(&opts.Image, "image", "", "Image to inspect (cli mode)")
	fs.StringVar(&opts.Video, "video", "", "Video to inspect (cli mode)")
	fs.Float64Var(&opts.Low, "low", 20, "Lower Canny cutoff for images (0-255)")
	fs.Float64Var(&opts.High, "high", 150, "Upper Canny cutoff for images (0-255)")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	switch opts.Mode {
	case "cli":
		if (opts.Image == "") == (opts.Video == "") {
			return nil, errors.New("cli mode needs exactly one of -image or -video")
		}
	case "http", "bot":
	default:
		return nil, fmt.Errorf("unknown mode %q", opts.Mode)
	}
	return opts, nil
}

// setupLogger настраивает структурированный лог по формату и уровню из конфигурации.
func setupLogger(w io.Writer, format, level string) *slog.Logger {
	opts := &slog.HandlerOptions{Level: parseLevel(level)}

	var handler slog.Handler
	switch format {
	case "text":
		handler = slog.NewTextHandler(w, opts)
	default:
		handler = slog.NewJSONHandler(w, opts)
	}
	return slog.New(handler)
}

func parseLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	}
	return slog.LevelInfo
}

func main() {
	opts, err := parseFlags(os.Args[1:])
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error parsing flags: %v\n", err)
		os.Exit(2)
	}

	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	logger := setupLogger(os.Stderr, cfg.LogFormat, cfg.LogLevel)
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, opts, cfg, logger); err != nil {
		logger.Error("stripe-inspector failed", "mode", opts.Mode, "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, opts *options, cfg *config.Config, logger *slog.Logger) error {
	layout := storage.NewOutputLayout(cfg.Output.Dir, storage.Namespace(cfg.Output.Namespace))
	hub := preview.NewHub()
	analyzer := vision.NewAnalyzer(cfg.Video.Codec, hub, logger)
	transcoder := transcode.NewFFmpeg(cfg.Video.FFmpegPath, logger)

	var publisher port.VerdictPublisher
	var mqttPublisher *emitter.MQTTPublisher
	if cfg.MQTT.Broker != "" {
		mqttPublisher = emitter.NewMQTTPublisher(emitter.Options{
			Broker:   cfg.MQTT.Broker,
			ClientID: cfg.MQTT.ClientID,
			Topic:    cfg.MQTT.Topic,
			QoS:      cfg.MQTT.QoS,
		}, logger)
		if err := mqttPublisher.Connect(ctx); err != nil {
			return err
		}
		defer mqttPublisher.Disconnect()
		publisher = mqttPublisher
	}

	app := container.New(
		storage.NewMemoryUserRepository(),
		analyzer,
		transcoder,
		publisher,
		report.NewTextDescriber(),
		logger,
	)

	logger.Info("starting stripe-inspector",
		"mode", opts.Mode,
		"output_dir", cfg.Output.Dir,
		"namespace", cfg.Output.Namespace,
		"codec", cfg.Video.Codec,
		"mqtt", cfg.MQTT.Broker != "",
	)

	switch opts.Mode {
	case "http":
		srv := rest.NewServer(app.InspectionService, layout, hub, logger)
		if mqttPublisher != nil {
			srv.SetPublisher(mqttPublisher)
		}
		return srv.ListenAndServe(ctx, cfg.HTTPAddr)

	case "bot":
		if cfg.Telegram.Token == "" {
			return errors.New("TELEGRAM_TOKEN is required")
		}
		bot, err := telegram.NewBot(cfg.Telegram.Token, app, layout, logger)
		if err != nil {
			return fmt.Errorf("create bot: %w", err)
		}
		logger.Info("bot is running")
		return bot.Run(ctx)

	default:
		if opts.Image != "" {
			return inspectImage(ctx, app, layout, opts)
		}
		return inspectVideo(ctx, app, layout, opts.Video)
	}
}

// inspectImage пишет вырезанную область и контуры рядом с выходами и печатает вердикт.
func inspectImage(ctx context.Context, app *container.Container, layout *storage.OutputLayout, opts *options) error {
	data, err := os.ReadFile(opts.Image)
	if err != nil {
		return fmt.Errorf("read image: %w", err)
	}

	result, err := app.InspectionService.InspectImage(ctx, data, float32(opts.Low), float32(opts.High))
	if err != nil {
		return err
	}

	if err := os.MkdirAll(layout.Dir, 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}
	if err := os.WriteFile(filepath.Join(layout.Dir, "cropped.png"), result.Cropped, 0o644); err != nil {
		return fmt.Errorf("write cropped image: %w", err)
	}
	if err := os.WriteFile(filepath.Join(layout.Dir, "contours.png"), result.Annotated, 0o644); err != nil {
		return fmt.Errorf("write annotated image: %w", err)
	}

	fmt.Println(app.Describer.DescribeImage(result))
	return nil
}

func inspectVideo(ctx context.Context, app *container.Container, layout *storage.OutputLayout, path string) error {
	runID := storage.NewRunID()
	outputs, err := layout.Prepare(runID)
	if err != nil {
		return err
	}

	result, err := app.InspectionService.InspectVideo(ctx, runID, path, outputs)
	if err != nil {
		return err
	}

	fmt.Println(app.Describer.DescribeVideo(result))
	return nil
}
