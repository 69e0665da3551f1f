package telegram

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"
	"sync"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/sirupsen/logrus"

	app "vision-match/internal/application"
	"vision-match/internal/container"
	"vision-match/internal/domain/entity"
)

const (
	msgStart = `👋 Привет! Я ищу на кадрах из архива человека с вашего фото.

📸 Отправьте /find, затем фото человека, и я найду кадры, где он, скорее всего, есть.

📋 Команды:
/find — начать поиск
/threshold — порог сходства
/last — итог последнего поиска
/help — справка
/cancel — отменить текущую операцию`

	msgHelp = `ℹ️ Как пользоваться ботом:

1️⃣ Отправьте /find
2️⃣ Отправьте фото человека в полный рост
3️⃣ Получите список кадров с похожим человеком

💡 Сравнивается одежда по цвету, а не лицо:
• Человек должен быть виден целиком
• На фото лучше один человек
• Результат — оценка сходства, а не опознание

🎚 Порог сходства:
/threshold — показать текущий
/threshold 0.85 — задать свой
/threshold 0 — вернуть стандартный

📋 Команды:
/find — начать поиск
/last — итог последнего поиска
/cancel — отменить операцию`

	msgAwaitingPhoto  = "📸 Отправьте фото человека для поиска."
	msgCancelled      = "❌ Операция отменена. Отправьте /find для нового поиска."
	msgSendPhoto      = "📸 Пожалуйста, отправьте фото человека для поиска."
	msgUnknownCommand = "❓ Неизвестная команда. Используйте /help для справки."
	msgProcessing     = "⏳ Ищу похожих людей на кадрах..."
	msgNoMatches      = "🔍 Совпадений не найдено."
	msgNoPerson       = "🤷 Не удалось найти человека на фото. Попробуйте снимок в полный рост."
	msgSearchError    = "⚠️ Не удалось выполнить поиск. Попробуйте другое фото."
	msgBusy           = "⏳ Поиск ещё идёт, дождитесь результата."
	msgSendFind       = "🔎 Чтобы начать поиск, отправьте /find."
	msgBadThreshold   = "⚠️ Порог должен быть неотрицательным числом, например /threshold 0.85"
	msgNoHistory      = "📭 Вы ещё ничего не искали. Отправьте /find."

	maxListedMatches = 20
)

// Bot представляет Telegram-бота
type Bot struct {
	api      *tgbotapi.BotAPI
	sessions *app.SessionService
	search   *app.SearchService
	log      logrus.FieldLogger
	wg       sync.WaitGroup
}

// NewBot создаёт нового бота
func NewBot(token string, c *container.Container, log logrus.FieldLogger) (*Bot, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, err
	}

	log.Infof("Authorized on account %s", api.Self.UserName)

	return &Bot{
		api:      api,
		sessions: c.Sessions,
		search:   c.SearchService,
		log:      log,
	}, nil
}

// Run запускает основной цикл обработки сообщений до отмены ctx.
// Перед выходом дожидается завершения начатых поисков.
func (b *Bot) Run(ctx context.Context) error {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60

	updates := b.api.GetUpdatesChan(u)
	defer b.wg.Wait()
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
	session, err := b.sessions.Get(ctx, msg.From.ID, msg.Chat.ID)
	if err != nil {
		b.log.WithError(err).Error("Error getting session")
		return
	}

	// Обработка команд
	if msg.IsCommand() {
		b.handleCommand(ctx, msg)
		return
	}

	// Фото принимаем только после /find
	if len(msg.Photo) > 0 && !session.Awaiting() {
		b.sendMessage(msg.Chat.ID, photoRejection(session))
		return
	}

	// Обработка фото: поиск может идти долго, не держим очередь обновлений
	if len(msg.Photo) > 0 {
		b.wg.Add(1)
		go func() {
			defer b.wg.Done()
			b.handlePhoto(ctx, msg)
		}()
		return
	}

	// Текстовое сообщение (не команда)
	if session.Awaiting() {
		b.sendMessage(msg.Chat.ID, msgSendPhoto)
		return
	}
	b.sendMessage(msg.Chat.ID, msgSendFind)
}

// photoRejection объясняет, почему фото сейчас не принято
func photoRejection(session *entity.Session) string {
	if session.Busy() {
		return msgBusy
	}
	return msgSendFind
}

// handleCommand обрабатывает команды бота
func (b *Bot) handleCommand(ctx context.Context, msg *tgbotapi.Message) {
	userID, chatID := msg.From.ID, msg.Chat.ID

	switch msg.Command() {
	case "start":
		if _, err := b.sessions.Cancel(ctx, userID, chatID); err != nil {
			b.log.WithError(err).Error("Error updating session")
		}
		b.sendMessage(chatID, msgStart)

	case "help":
		b.sendMessage(chatID, msgHelp)

	case "find":
		_, err := b.sessions.BeginSearch(ctx, userID, chatID)
		switch {
		case errors.Is(err, entity.ErrSearchInProgress):
			b.sendMessage(chatID, msgBusy)
		case err != nil:
			b.log.WithError(err).Error("Error updating session")
			b.sendMessage(chatID, msgSearchError)
		default:
			b.sendMessage(chatID, msgAwaitingPhoto)
		}

	case "cancel":
		session, err := b.sessions.Cancel(ctx, userID, chatID)
		if err != nil {
			b.log.WithError(err).Error("Error updating session")
		}
		if session != nil && session.Busy() {
			b.sendMessage(chatID, msgBusy)
			return
		}
		b.sendMessage(chatID, msgCancelled)

	case "threshold":
		b.handleThreshold(ctx, msg)

	case "last":
		session, err := b.sessions.Get(ctx, userID, chatID)
		if err != nil {
			b.log.WithError(err).Error("Error getting session")
			return
		}
		b.sendMessage(chatID, formatLast(session))

	default:
		b.sendMessage(chatID, msgUnknownCommand)
	}
}

// handlePhoto скачивает фото и ищет похожих людей в каталоге
func (b *Bot) handlePhoto(ctx context.Context, msg *tgbotapi.Message) {
	b.sendMessage(msg.Chat.ID, msgProcessing)

	// Получаем файл с максимальным разрешением
	photo := msg.Photo[len(msg.Photo)-1]

	imageData, err := b.downloadFile(ctx, photo.FileID)
	if err != nil {
		b.log.WithError(err).Error("Error downloading photo")
		b.sendMessage(msg.Chat.ID, msgSearchError)
		return
	}

	log := b.log.WithFields(logrus.Fields{"user_id": msg.From.ID, "bytes": len(imageData)})
	log.Info("Received reference photo")

	result, err := b.search.Search(ctx, msg.From.ID, msg.Chat.ID, imageData)
	b.sendMessage(msg.Chat.ID, formatReport(result, err))
	if err != nil && !errors.Is(err, entity.ErrSearchInProgress) && !errors.Is(err, entity.ErrNotAwaitingReference) {
		log.WithError(err).Warn("Search failed")
	}
}

// handleThreshold показывает или меняет личный порог сходства
func (b *Bot) handleThreshold(ctx context.Context, msg *tgbotapi.Message) {
	userID, chatID := msg.From.ID, msg.Chat.ID

	arg := strings.TrimSpace(msg.CommandArguments())
	if arg == "" {
		session, err := b.sessions.Get(ctx, userID, chatID)
		if err != nil {
			b.log.WithError(err).Error("Error getting session")
			return
		}
		b.sendMessage(chatID, formatThreshold(session.ThresholdOr(b.search.DefaultThreshold())))
		return
	}

	value, err := strconv.ParseFloat(strings.ReplaceAll(arg, ",", "."), 64)
	if err != nil {
		b.sendMessage(chatID, msgBadThreshold)
		return
	}
	session, err := b.sessions.SetThreshold(ctx, userID, chatID, value)
	if err != nil {
		b.sendMessage(chatID, msgBadThreshold)
		return
	}
	b.sendMessage(chatID, formatThreshold(session.ThresholdOr(b.search.DefaultThreshold())))
}

// formatReport готовит текст ответа по результату поиска
func formatReport(result *entity.MatchResult, err error) string {
	if err != nil {
		if errors.Is(err, entity.ErrSearchInProgress) {
			return msgBusy
		}
		if errors.Is(err, entity.ErrNotAwaitingReference) {
			return msgSendFind
		}
		if errors.Is(err, entity.ErrNoRegion) || errors.Is(err, entity.ErrNoSignature) {
			return msgNoPerson
		}
		return msgSearchError
	}
	if !result.HasMatches() {
		return fmt.Sprintf("%s\nПроверено кадров: %d.", msgNoMatches, result.Scanned)
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "✅ Совпадений: %d из %d кадров.\n", len(result.Matches), result.Scanned)
	for i, m := range result.Matches {
		if i == maxListedMatches {
			fmt.Fprintf(&sb, "\n… и ещё %d", len(result.Matches)-maxListedMatches)
			break
		}
		fmt.Fprintf(&sb, "\n%d. %s — %.2f", i+1, filepath.Base(m.Path), m.Score)
	}
	return sb.String()
}

func formatThreshold(threshold float64) string {
	return fmt.Sprintf("🎚 Порог сходства: %.2f", threshold)
}

// formatLast описывает последний поиск пользователя
func formatLast(session *entity.Session) string {
	last := session.Last
	if last == nil {
		return msgNoHistory
	}
	return fmt.Sprintf("🕘 Последний поиск: %s\nПорог: %.2f\nПроверено кадров: %d\nСовпадений: %d\nПропущено: %d",
		last.At.Format("02.01.2006 15:04"), last.Threshold, last.Scanned, last.Matched, last.Skipped)
}

// downloadFile скачивает файл из Telegram
func (b *Bot) downloadFile(ctx context.Context, fileID string) ([]byte, error) {
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
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("download file: unexpected status %s", resp.Status)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read file: %w", err)
	}

	return data, nil
}

// sendMessage отправляет текстовое сообщение
func (b *Bot) sendMessage(chatID int64, text string) {
	msg := tgbotapi.NewMessage(chatID, text)
	if _, err := b.api.Send(msg); err != nil {
		b.log.WithError(err).Error("Error sending message")
	}
}
