package notify

import (
	"fmt"
	"html"
	"strings"

	"lamx12/nutri-plan/internal/domain"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/sirupsen/logrus"
)

// TelegramSender posts reminders to one chat.
type TelegramSender struct {
	bot    *tgbotapi.BotAPI
	chatID int64
}

func NewTelegramSender(token string, chatID int64, log *logrus.Entry) (*TelegramSender, error) {
	bot, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("create telegram bot: %w", err)
	}
	log.WithField("bot", bot.Self.UserName).Info("telegram sender ready")
	return &TelegramSender{bot: bot, chatID: chatID}, nil
}

func (t *TelegramSender) SendReminder(r domain.Reminder) error {
	msg := tgbotapi.NewMessage(t.chatID, FormatReminder(r))
	msg.ParseMode = "HTML"
	_, err := t.bot.Send(msg)
	return err
}

// FormatReminder renders r as Telegram HTML.
func FormatReminder(r domain.Reminder) string {
	icon := "🍽"
	if r.Type == domain.ReminderWorkout {
		icon = "🏋"
	}
	var b strings.Builder
	fmt.Fprintf(&b, "%s <b>%s</b> (%s)", icon, html.EscapeString(r.Title), r.Time)
	if r.Message != "" {
		b.WriteString("\n")
		b.WriteString(html.EscapeString(r.Message))
	}
	return b.String()
}
