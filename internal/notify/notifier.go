// Package notify pushes trade and session events to a telegram chat.
package notify

import (
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/mwessel/papertrader/internal/config"
	"github.com/mwessel/papertrader/internal/ledger"
	"github.com/mwessel/papertrader/internal/logger"
)

type Notifier struct {
	bot     *tgbotapi.BotAPI
	chatID  int64
	enabled bool
	logger  *logger.Logger
}

// NewNotifier connects the telegram bot. A disabled or misconfigured
// notifier degrades to a no-op rather than failing startup.
func NewNotifier(cfg *config.Config, log *logger.Logger) *Notifier {
	if !cfg.Notify.Enabled {
		return &Notifier{enabled: false, logger: log}
	}

	bot, err := tgbotapi.NewBotAPI(cfg.Notify.BotToken)
	if err != nil {
		log.Error("failed to create telegram bot", "error", err)
		return &Notifier{enabled: false, logger: log}
	}

	log.Info("telegram bot connected", "username", bot.Self.UserName)

	return &Notifier{
		bot:     bot,
		chatID:  cfg.Notify.ChatID,
		enabled: true,
		logger:  log,
	}
}

func (n *Notifier) TradeExecuted(action, symbol string, quantity int64, price float64, reason string) {
	emoji := "🟢"
	if action == "SELL" {
		emoji = "🔴"
	}
	msg := fmt.Sprintf("%s *%s* %s\nQuantity: %d\nPrice: $%.2f\nReason: %s",
		emoji, action, symbol, quantity, price, reason)
	n.send(msg)
}

func (n *Notifier) SessionDone(state *ledger.PortfolioState, summary *ledger.SessionSummary) {
	msg := fmt.Sprintf("📊 *Session %s*\n%s\nTrades: %d\nValue: $%.2f (%.2f%%)\nCash: $%.2f",
		summary.Action, summary.Reason, summary.TradeCount,
		state.TotalValue, state.ReturnPct, state.Cash)
	n.send(msg)
}

func (n *Notifier) Error(context string, err error) {
	msg := fmt.Sprintf("⚠️ *Error* [%s]\n%v", context, err)
	n.send(msg)
}

func (n *Notifier) send(text string) {
	if !n.enabled {
		return
	}

	msg := tgbotapi.NewMessage(n.chatID, text)
	msg.ParseMode = tgbotapi.ModeMarkdown

	if _, err := n.bot.Send(msg); err != nil {
		n.logger.Error("send telegram message", "error", err)
	}
}
