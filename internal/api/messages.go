package telegram

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	app "stripe-inspector/internal/application"
	"stripe-inspector/internal/domain/entity"
)

const (
	msgStart = `👋 Привет! Я проверяю, видна ли светлая полоса в центре кадра.

📋 Команды:
/image — проверить фото
/video — проверить видео
/thresholds <low> <high> — пороги Canny для фото
/help — справка
/cancel — отменить текущую операцию`

	msgHelp = `ℹ️ Как пользоваться ботом:

1️⃣ Отправьте фото или видео сцены
2️⃣ Бот вырежет область анализа и найдёт контуры
3️⃣ Вы получите результат: вырезанная область, контуры и вердикт

📸 Фото: полоса найдена, если контуров больше 6.
🎬 Видео: вердикт по каждому кадру, полоса найдена при числе контуров больше 4.
   Придут два видео: по границам и по бинарной маске.

🎚 Пороги Canny для фото: /thresholds 20 150 (0–255).`

	msgAwaitingImage   = "📸 Отправьте фото. Пороги Canny: %.0f / %.0f."
	msgAwaitingVideo   = "🎬 Отправьте видео для покадровой проверки."
	msgCancelled       = "❌ Операция отменена."
	msgUnknownCommand  = "❓ Неизвестная команда. Используйте /help для справки."
	msgSendMedia       = "📎 Отправьте фото или видео, либо выберите /image или /video."
	msgProcessingImage = "⏳ Обрабатываю изображение..."
	msgProcessingVideo = "⏳ Обрабатываю видео, это может занять время..."
	msgThresholdsSet   = "🎚 Пороги Canny: %.0f / %.0f."
	msgThresholdsUsage = "⚠️ Использование: /thresholds <low> <high>, значения от 0 до 255."
	msgDownloadError   = "⚠️ Не удалось скачать файл. Попробуйте ещё раз."
	msgProcessingError = "⚠️ Не удалось обработать файл."
	msgSourceOpenError = "⚠️ Source could not be opened: файл не удалось прочитать."
	msgOutOfBounds     = "⚠️ Кадр меньше области анализа (нужно минимум %dx%d)."
)

type mediaKind int

const (
	mediaNone mediaKind = iota
	mediaImage
	mediaVideo
)

// classifyMedia определяет, что прислал оператор, и возвращает ID файла.
// Документ без понятного типа трактуется по текущему состоянию диалога.
func classifyMedia(msg *tgbotapi.Message, state entity.UserState) (mediaKind, string, string) {
	switch {
	case len(msg.Photo) > 0:
		return mediaImage, msg.Photo[len(msg.Photo)-1].FileID, "photo.jpg"
	case msg.Video != nil:
		return mediaVideo, msg.Video.FileID, "video.mp4"
	case msg.Document != nil:
		doc := msg.Document
		switch {
		case strings.HasPrefix(doc.MimeType, "image/"):
			return mediaImage, doc.FileID, doc.FileName
		case strings.HasPrefix(doc.MimeType, "video/"):
			return mediaVideo, doc.FileID, doc.FileName
		case state == entity.StateAwaitingImage:
			return mediaImage, doc.FileID, doc.FileName
		case state == entity.StateAwaitingVideo:
			return mediaVideo, doc.FileID, doc.FileName
		}
	}
	return mediaNone, "", ""
}

// prompt подсказывает, что ждёт бот в текущем состоянии.
func prompt(state entity.UserState) string {
	switch state {
	case entity.StateAwaitingImage:
		return "📸 Жду фото."
	case entity.StateAwaitingVideo:
		return "🎬 Жду видео."
	case entity.StateProcessing:
		return "⏳ Предыдущий файл ещё обрабатывается."
	}
	return msgSendMedia
}

// parseThresholds разбирает аргументы "/thresholds <low> <high>".
func parseThresholds(args string) (float32, float32, error) {
	fields := strings.Fields(args)
	if len(fields) != 2 {
		return 0, 0, fmt.Errorf("expected two values, got %d", len(fields))
	}

	low, err := strconv.ParseFloat(fields[0], 32)
	if err != nil {
		return 0, 0, fmt.Errorf("low: %w", err)
	}
	high, err := strconv.ParseFloat(fields[1], 32)
	if err != nil {
		return 0, 0, fmt.Errorf("high: %w", err)
	}
	return float32(low), float32(high), nil
}

// failureMessage переводит ошибку конвейера в ответ оператору.
func failureMessage(err error) string {
	var openErr *entity.SourceOpenError
	var boundsErr *entity.OutOfBoundsError
	switch {
	case errors.As(err, &openErr):
		return msgSourceOpenError
	case errors.As(err, &boundsErr):
		r := entity.RegionRect()
		return fmt.Sprintf(msgOutOfBounds, r.Max.X, r.Max.Y)
	case errors.Is(err, entity.ErrInvalidProfile):
		return msgThresholdsUsage
	}
	return msgProcessingError
}

// runCommand меняет сессию оператора по команде и возвращает ответ.
// Ответ есть и при ошибке, чтобы оператор не остался без реакции.
func runCommand(ctx context.Context, users *app.UserService, user *entity.User, command, args string) (string, error) {
	switch command {
	case "start":
		if _, err := users.Cancel(ctx, user.ID, user.ChatID); err != nil {
			return msgStart, err
		}
		return msgStart, nil

	case "help":
		return msgHelp, nil

	case "image":
		u, err := users.BeginImage(ctx, user.ID, user.ChatID)
		if err != nil {
			return msgProcessingError, err
		}
		return fmt.Sprintf(msgAwaitingImage, u.EdgeLow, u.EdgeHigh), nil

	case "video":
		if _, err := users.BeginVideo(ctx, user.ID, user.ChatID); err != nil {
			return msgProcessingError, err
		}
		return msgAwaitingVideo, nil

	case "thresholds":
		low, high, err := parseThresholds(args)
		if err != nil {
			return msgThresholdsUsage, nil
		}
		if _, err := users.SetThresholds(ctx, user.ID, user.ChatID, low, high); err != nil {
			if errors.Is(err, entity.ErrInvalidProfile) {
				return msgThresholdsUsage, nil
			}
			return msgProcessingError, err
		}
		return fmt.Sprintf(msgThresholdsSet, low, high), nil

	case "cancel":
		if _, err := users.Cancel(ctx, user.ID, user.ChatID); err != nil {
			return msgCancelled, err
		}
		return msgCancelled, nil
	}
	return msgUnknownCommand, nil
}
