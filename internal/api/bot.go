package telegram

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"stripe-inspector/internal/container"
	"stripe-inspector/internal/domain/entity"
	"stripe-inspector/internal/infrastructure/storage"
)

// Bot представляет Telegram-бота оператора
type Bot struct {
	api    *tgbotapi.BotAPI
	app    *container.Container
	layout *storage.OutputLayout
	logger *slog.Logger
}

// NewBot создаёт нового бота. Каждое видео пишется в свой каталог прогона.
func NewBot(token string, app *container.Container, layout *storage.OutputLayout, logger *slog.Logger) (*Bot, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, err
	}

	if logger == nil {
		logger = slog.Default()
	}
	logger.Info("authorized on account", "username", api.Self.UserName)

	return &Bot{
		api:    api,
		app:    app,
		layout: layout.PerRun(),
		logger: logger,
	}, nil
}

// Run запускает основной цикл обработки сообщений до отмены ctx
func (b *Bot) Run(ctx context.Context) error {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60

	updates := b.api.GetUpdatesChan(u)
	defer b.api.StopReceivingUpdates()

	for {
		select {
		case <-ctx.Done():
			return nil
		case update, ok := <-updates:
			if !ok {
				return nil
			}
			if update.Message == nil {
				continue
			}
			b.handleMessage(ctx, update.Message)
		}
	}
}

// handleMessage обрабатывает входящее сообщение
func (b *Bot) handleMessage(ctx context.Context, msg *tgbotapi.Message) {
	if msg.From == nil {
		return
	}

	user, err := b.app.UserService.Get(ctx, msg.From.ID, msg.Chat.ID)
	if err != nil {
		b.logger.Error("get user", "user_id", msg.From.ID, "error", err)
		return
	}

	if msg.IsCommand() {
		b.handleCommand(ctx, msg, user)
		return
	}

	switch kind, fileID, name := classifyMedia(msg, user.State); kind {
	case mediaImage:
		b.handleImage(ctx, msg, user, fileID)
	case mediaVideo:
		b.handleVideo(ctx, msg, user, fileID, name)
	default:
		b.sendMessage(msg.Chat.ID, prompt(user.State))
	}
}

// handleCommand обрабатывает команды бота
func (b *Bot) handleCommand(ctx context.Context, msg *tgbotapi.Message, user *entity.User) {
	reply, err := runCommand(ctx, b.app.UserService, user, msg.Command(), msg.CommandArguments())
	if err != nil {
		b.logger.Warn("command failed", "user_id", user.ID, "command", msg.Command(), "error", err)
	}
	b.sendMessage(msg.Chat.ID, reply)
}

// handleImage проверяет фото с порогами оператора
func (b *Bot) handleImage(ctx context.Context, msg *tgbotapi.Message, user *entity.User, fileID string) {
	chatID := msg.Chat.ID
	b.setState(ctx, user, entity.StateProcessing)
	defer b.setState(ctx, user, entity.StateMainMenu)

	b.sendMessage(chatID, msgProcessingImage)

	imageData, err := b.downloadFile(ctx, fileID)
	if err != nil {
		b.logger.Error("download photo", "user_id", user.ID, "error", err)
		b.sendMessage(chatID, msgDownloadError)
		return
	}

	result, err := b.app.InspectionService.InspectImage(ctx, imageData, user.EdgeLow, user.EdgeHigh)
	if err != nil {
		b.logger.Error("inspect image", "user_id", user.ID, "error", err)
		b.sendMessage(chatID, failureMessage(err))
		return
	}

	b.sendPhoto(chatID, "cropped.png", result.Cropped, "Cropped region")
	b.sendPhoto(chatID, "contours.png", result.Annotated, "Contours")
	b.sendMessage(chatID, b.app.Describer.DescribeImage(result))
}

// handleVideo прогоняет видео через конвейер и отправляет оба результата
func (b *Bot) handleVideo(ctx context.Context, msg *tgbotapi.Message, user *entity.User, fileID, name string) {
	chatID := msg.Chat.ID
	b.setState(ctx, user, entity.StateProcessing)
	defer b.setState(ctx, user, entity.StateMainMenu)

	b.sendMessage(chatID, msgProcessingVideo)

	inputPath, err := b.saveFile(ctx, fileID, name)
	if err != nil {
		b.logger.Error("download video", "user_id", user.ID, "error", err)
		b.sendMessage(chatID, msgDownloadError)
		return
	}
	defer os.Remove(inputPath)

	runID := storage.NewRunID()
	outputs, err := b.layout.Prepare(runID)
	if err != nil {
		b.logger.Error("prepare outputs", "run_id", runID, "error", err)
		b.sendMessage(chatID, msgProcessingError)
		return
	}

	report, err := b.app.InspectionService.InspectVideo(ctx, runID, inputPath, outputs)
	if err != nil {
		b.logger.Error("inspect video", "run_id", runID, "error", err)
		b.sendMessage(chatID, failureMessage(err))
		return
	}

	edges, binary := report.Outputs.EdgesPlayable, report.Outputs.ThresholdPlayable
	if !report.PlaybackReady {
		edges, binary = report.Outputs.EdgesRaw, report.Outputs.ThresholdRaw
	}
	b.sendVideo(chatID, edges, "Detections using the edges")
	b.sendVideo(chatID, binary, "Detections using the binary mask")
	b.sendMessage(chatID, b.app.Describer.DescribeVideo(report))
}

func (b *Bot) setState(ctx context.Context, user *entity.User, state entity.UserState) {
	if _, err := b.app.UserService.SetState(ctx, user.ID, user.ChatID, state); err != nil {
		b.logger.Warn("save user state", "user_id", user.ID, "state", state, "error", err)
	}
}

// openFile открывает поток файла из Telegram
func (b *Bot) openFile(ctx context.Context, fileID string) (io.ReadCloser, error) {
	file, err := b.api.GetFile(tgbotapi.FileConfig{FileID: fileID})
	if err != nil {
		return nil, fmt.Errorf("get file: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, file.Link(b.api.Token), nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("download file: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		return nil, fmt.Errorf("download file: status %s", resp.Status)
	}
	return resp.Body, nil
}

// downloadFile скачивает файл из Telegram в память
func (b *Bot) downloadFile(ctx context.Context, fileID string) ([]byte, error) {
	body, err := b.openFile(ctx, fileID)
	if err != nil {
		return nil, err
	}
	defer body.Close()

	data, err := io.ReadAll(body)
	if err != nil {
		return nil, fmt.Errorf("read file: %w", err)
	}
	return data, nil
}

// saveFile скачивает файл из Telegram в каталог загрузок
func (b *Bot) saveFile(ctx context.Context, fileID, name string) (string, error) {
	body, err := b.openFile(ctx, fileID)
	if err != nil {
		return "", err
	}
	defer body.Close()

	return b.layout.SaveUpload(body, name)
}

// sendMessage отправляет текстовое сообщение
func (b *Bot) sendMessage(chatID int64, text string) {
	msg := tgbotapi.NewMessage(chatID, text)
	if _, err := b.api.Send(msg); err != nil {
		b.logger.Error("send message", "chat_id", chatID, "error", err)
	}
}

func (b *Bot) sendPhoto(chatID int64, name string, data []byte, caption string) {
	photo := tgbotapi.NewPhoto(chatID, tgbotapi.FileBytes{Name: name, Bytes: data})
	photo.Caption = caption
	if _, err := b.api.Send(photo); err != nil {
		b.logger.Error("send photo", "chat_id", chatID, "name", name, "error", err)
	}
}

func (b *Bot) sendVideo(chatID int64, path, caption string) {
	video := tgbotapi.NewVideo(chatID, tgbotapi.FilePath(path))
	video.Caption = caption
	if _, err := b.api.Send(video); err != nil {
		b.logger.Error("send video", "chat_id", chatID, "path", path, "error", err)
	}
}
