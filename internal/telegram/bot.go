package telegram

import (
	"context"
	"fmt"
	"go-mostaql-watcher/internal/scraper"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

const (
	startReply    = "✅ البوت يعمل. سأرسل المشاريع الجديدة تلقائيًا."
	approveSuffix = "\n\n✅ تم اعتماد العرض."
	rejectSuffix  = "\n\n❌ تم رفض المشروع."
)

// botAPI is the subset of *tgbotapi.BotAPI the bot uses.
type botAPI interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error)
	GetUpdatesChan(config tgbotapi.UpdateConfig) tgbotapi.UpdatesChannel
	StopReceivingUpdates()
}

type Bot struct {
	api     botAPI
	chatID  int64
	limiter *rate.Limiter
	logger  *zap.Logger
}

// NewBot connects to the Bot API. Outbound sends and edits are throttled to
// perSecond messages per second.
func NewBot(token string, chatID int64, perSecond float64, logger *zap.Logger) (*Bot, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("failed to init telegram bot: %w", err)
	}
	logger.Info("telegram bot authorized", zap.String("username", api.Self.UserName))
	return newBot(api, chatID, newLimiter(perSecond), logger), nil
}

func newBot(api botAPI, chatID int64, limiter *rate.Limiter, logger *zap.Logger) *Bot {
	return &Bot{
		api:     api,
		chatID:  chatID,
		limiter: limiter,
		logger:  logger,
	}
}

func newLimiter(perSecond float64) *rate.Limiter {
	if perSecond <= 0 {
		return rate.NewLimiter(rate.Inf, 1)
	}
	return rate.NewLimiter(rate.Limit(perSecond), 1)
}

func (b *Bot) send(ctx context.Context, c tgbotapi.Chattable) error {
	if err := b.limiter.Wait(ctx); err != nil {
		return err
	}
	_, err := b.api.Send(c)
	return err
}

// SendProject posts a project with approve/reject/open controls to the configured chat.
func (b *Bot) SendProject(ctx context.Context, p scraper.Project) error {
	msg := tgbotapi.NewMessage(b.chatID, FormatProject(p))
	msg.ReplyMarkup = ProjectKeyboard(p)
	if err := b.send(ctx, msg); err != nil {
		return fmt.Errorf("failed to send project %s: %w", p.URL, err)
	}
	return nil
}

// SendError is the fallback report for a failed cycle.
func (b *Bot) SendError(ctx context.Context, errReq error) error {
	msg := tgbotapi.NewMessage(b.chatID, fmt.Sprintf("⚠️ watcher error: %v", errReq))
	return b.send(ctx, msg)
}

// Listen long-polls for updates until ctx is cancelled.
func (b *Bot) Listen(ctx context.Context) {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60
	updates := b.api.GetUpdatesChan(u)

	b.logger.Info("listening for telegram updates")
	for {
		select {
		case <-ctx.Done():
			b.api.StopReceivingUpdates()
			b.logger.Info("telegram listener stopping")
			return
		case update, ok := <-updates:
			if !ok {
				return
			}
			b.HandleUpdate(ctx, update)
		}
	}
}

// HandleUpdate reacts to /start and to approve/reject button presses.
// Button handling only edits the message text; it never touches the seen-set.
func (b *Bot) HandleUpdate(ctx context.Context, update tgbotapi.Update) {
	switch {
	case update.CallbackQuery != nil:
		b.handleCallback(ctx, update.CallbackQuery)
	case update.Message != nil && update.Message.IsCommand():
		b.handleCommand(ctx, update.Message)
	}
}

func (b *Bot) handleCommand(ctx context.Context, m *tgbotapi.Message) {
	if m.Command() != "start" {
		return
	}
	if err := b.send(ctx, tgbotapi.NewMessage(m.Chat.ID, startReply)); err != nil {
		b.logger.Warn("failed to answer /start", zap.Int64("chat_id", m.Chat.ID), zap.Error(err))
	}
}

func (b *Bot) handleCallback(ctx context.Context, q *tgbotapi.CallbackQuery) {
	if _, err := b.api.Request(tgbotapi.NewCallback(q.ID, "")); err != nil {
		b.logger.Warn("failed to answer callback", zap.String("query_id", q.ID), zap.Error(err))
	}

	if q.Message == nil {
		return
	}

	action, id := ParseCallback(q.Data)
	suffix := rejectSuffix
	if action == ActionApprove {
		suffix = approveSuffix
	}

	edit := tgbotapi.NewEditMessageText(q.Message.Chat.ID, q.Message.MessageID, q.Message.Text+suffix)
	if err := b.send(ctx, edit); err != nil {
		b.logger.Warn("failed to edit message",
			zap.String("action", action), zap.String("project", id), zap.Error(err))
		return
	}
	b.logger.Info("project action recorded on message", zap.String("action", action), zap.String("project", id))
}
