package notify

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/pkg/errors"

	"github.com/16navigabraham/Tipjar/internal/domain"
)

type messageSender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

// TelegramAlerter posts reconciliation alerts to a Telegram chat.
type TelegramAlerter struct {
	bot    messageSender
	chatID int64
	logger *slog.Logger
}

func NewTelegramAlerter(token string, chatID int64, logger *slog.Logger) (*TelegramAlerter, error) {
	bot, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, errors.Wrap(err, "creating telegram bot")
	}
	return newTelegramAlerter(bot, chatID, logger), nil
}

func newTelegramAlerter(bot messageSender, chatID int64, logger *slog.Logger) *TelegramAlerter {
	if logger == nil {
		logger = slog.Default()
	}
	return &TelegramAlerter{bot: bot, chatID: chatID, logger: logger}
}

// TipNotRecorded reports a confirmed on-chain tip that is missing from the ledger.
func (a *TelegramAlerter) TipNotRecorded(ctx context.Context, rec *domain.TipRecord, cause error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	msg := tgbotapi.NewMessage(a.chatID, FormatUnrecorded(rec, cause))
	if _, err := a.bot.Send(msg); err != nil {
		a.logger.Error("telegram alert failed", "tx", rec.TxID, "err", err)
		return errors.Wrap(err, "sending telegram alert")
	}
	return nil
}

// LogAlerter writes alerts to the log when no chat is configured.
type LogAlerter struct {
	Logger *slog.Logger
}

func (a LogAlerter) TipNotRecorded(_ context.Context, rec *domain.TipRecord, cause error) error {
	logger := a.Logger
	if logger == nil {
		logger = slog.Default()
	}
	logger.Error("tip confirmed on chain but not recorded",
		"tx", rec.TxID,
		"chain_id", rec.ChainID,
		"sender", rec.Sender,
		"receiver", rec.Receiver,
		"token", rec.Token,
		"amount", rec.Amount,
		"err", cause,
	)
	return nil
}

// FormatUnrecorded renders the alert text.
func FormatUnrecorded(rec *domain.TipRecord, cause error) string {
	var b strings.Builder
	b.WriteString("⚠️ Tip confirmed but not recorded\n")
	fmt.Fprintf(&b, "Chain: %d\n", rec.ChainID)
	fmt.Fprintf(&b, "Tx: %s\n", rec.TxID)
	fmt.Fprintf(&b, "From: %s\n", rec.Sender)
	fmt.Fprintf(&b, "To: %s\n", rec.Receiver)
	fmt.Fprintf(&b, "Amount: %s %s\n", rec.Amount, rec.Token)
	if cause != nil {
		fmt.Fprintf(&b, "Error: %v", cause)
	}
	return b.String()
}
