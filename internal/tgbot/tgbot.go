package tgbot

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/KotFed0t/stock_sync/config"
	"github.com/KotFed0t/stock_sync/internal/model"
	"github.com/KotFed0t/stock_sync/internal/transport/telegram"
	customMW "github.com/KotFed0t/stock_sync/internal/transport/telegram/middleware"
	"github.com/KotFed0t/stock_sync/utils"
	tele "gopkg.in/telebot.v4"
	"gopkg.in/telebot.v4/middleware"
)

type TGBot struct {
	bot          *tele.Bot
	adminChatIDs []int64
}

func New(cfg *config.Config) (*TGBot, error) {
	settings := tele.Settings{
		Token:  cfg.Telegram.Token,
		Poller: &tele.LongPoller{Timeout: cfg.Telegram.UpdTimeout},
	}

	b, err := tele.NewBot(settings)
	if err != nil {
		slog.Error("error while tele.NewBot", slog.String("err", err.Error()))
		return nil, fmt.Errorf("tele.NewBot: %w", err)
	}

	if len(cfg.Telegram.AdminChatIDs) == 0 {
		slog.Warn("TELEGRAM_ADMIN_CHAT_IDS is empty, bot will ignore all chats")
	}

	return &TGBot{bot: b, adminChatIDs: cfg.Telegram.AdminChatIDs}, nil
}

func (b *TGBot) Start(ctrl *telegram.Controller) {
	b.bot.Use(middleware.Recover(), customMW.Logger(), customMW.AdminOnly(b.adminChatIDs))

	b.setupRoutes(ctrl)

	go b.bot.Start()
	slog.Info("tgbot started!")
}

func (b *TGBot) Stop() {
	slog.Info("start stopping tgbot")
	b.bot.Stop()
	slog.Info("tgbot stopped")
}

func (b *TGBot) setupRoutes(ctrl *telegram.Controller) {
	b.bot.Handle("/start", ctrl.Start)
	b.bot.Handle("/sync", ctrl.Sync)
	b.bot.Handle("/last", ctrl.Last)
}

// Notify sends text and optional file to every admin chat.
func (b *TGBot) Notify(ctx context.Context, text string, file *model.ReportFile) error {
	rqID := utils.GetRequestIDFromCtx(ctx)
	op := "TGBot.Notify"

	text = telegram.Truncate(text)

	var errs []error
	for _, chatID := range b.adminChatIDs {
		recipient := tele.ChatID(chatID)

		if _, err := b.bot.Send(recipient, text); err != nil {
			slog.Error("failed on sending message", slog.String("rqID", rqID), slog.String("op", op), slog.Int64("chatID", chatID), slog.String("err", err.Error()))
			errs = append(errs, fmt.Errorf("chat %d: %w", chatID, err))
			continue
		}

		if file == nil {
			continue
		}

		doc := &tele.Document{
			File:     tele.FromReader(bytes.NewReader(file.Content)),
			FileName: file.Name,
		}
		if _, err := b.bot.Send(recipient, doc); err != nil {
			slog.Error("failed on sending document", slog.String("rqID", rqID), slog.String("op", op), slog.Int64("chatID", chatID), slog.String("err", err.Error()))
			errs = append(errs, fmt.Errorf("chat %d: %w", chatID, err))
		}
	}

	return errors.Join(errs...)
}
