package alerts

import (
	"context"
	"fmt"
	"sync"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"michauchera/internal/logger"
)

// TelegramNotifier delivers alerts to a Telegram chat. Each (tag, id) slot
// maps to one Telegram message which is edited in place on repeat delivery,
// so back-to-back runs with unchanged data never stack duplicates.
type TelegramNotifier struct {
	bot    *tgbotapi.BotAPI
	chatID int64

	mu   sync.Mutex
	sent map[string]int
}

// NewTelegramNotifier connects the bot API. A bad token is reported once;
// the caller should fall back to another sink.
func NewTelegramNotifier(token string, chatID int64) (*TelegramNotifier, error) {
	bot, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("failed to connect Telegram bot: %w", err)
	}
	return &TelegramNotifier{
		bot:    bot,
		chatID: chatID,
		sent:   make(map[string]int),
	}, nil
}

// Notify sends or updates the Telegram message for the notification's slot.
// Delivery failures are logged and swallowed: the sink owns its own
// availability and the alert pipeline must not retry delivery errors.
func (t *TelegramNotifier) Notify(ctx context.Context, n Notification) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	text := fmt.Sprintf("%s\n%s", n.Title, n.Body)
	slot := fmt.Sprintf("%s/%d", n.Tag, n.ID)

	t.mu.Lock()
	messageID, exists := t.sent[slot]
	t.mu.Unlock()

	if exists {
		edit := tgbotapi.NewEditMessageText(t.chatID, messageID, text)
		if _, err := t.bot.Send(edit); err != nil {
			// "message is not modified" means the slot already shows this content.
			logger.Get().Debugw("telegram edit skipped", "slot", slot, "error", err)
		}
		return nil
	}

	msg := tgbotapi.NewMessage(t.chatID, text)
	if n.Priority == PriorityLow {
		msg.DisableNotification = true
	}
	sent, err := t.bot.Send(msg)
	if err != nil {
		logger.Get().Warnw("telegram delivery failed", "slot", slot, "error", err)
		return nil
	}

	t.mu.Lock()
	t.sent[slot] = sent.MessageID
	t.mu.Unlock()
	return nil
}
