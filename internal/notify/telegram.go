// Package notify pushes alerts to Telegram chats bound to parent/teacher
// accounts. The channel is optional: without a bot token every send is a no-op.
package notify

import (
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/edusuite/scolaris/internal/metrics"
	"github.com/edusuite/scolaris/internal/observability"
)

type Notifier struct {
	bot *tgbotapi.BotAPI
}

// New returns a disabled notifier when token is empty.
func New(token string) (*Notifier, error) {
	if token == "" {
		return &Notifier{}, nil
	}
	bot, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, err
	}
	return &Notifier{bot: bot}, nil
}

func (n *Notifier) Enabled() bool { return n != nil && n.bot != nil }

// Send delivers text to one chat. Only system-class failures (5xx, 429,
// timeouts) go to Sentry; chat-level validation noise does not.
func (n *Notifier) Send(chatID int64, text, kind string) error {
	if !n.Enabled() {
		return nil
	}
	_, err := n.bot.Send(tgbotapi.NewMessage(chatID, text))
	if err == nil {
		metrics.NotificationsSent.WithLabelValues(kind).Inc()
		return nil
	}
	if isSystemErr(err) {
		observability.CaptureErr(err)
	}
	return err
}

func isSystemErr(err error) bool {
	if err == nil {
		return false
	}
	s := err.Error()
	if strings.Contains(s, "429") || strings.Contains(s, "502") || strings.Contains(s, "503") || strings.Contains(s, "timeout") {
		return true
	}
	return false
}
