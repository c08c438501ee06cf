package handlers

import (
	"context"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"go.uber.org/zap"
)

// LogUpdates логирует входящие команды
func LogUpdates(logger *zap.Logger) bot.Middleware {
	return func(next bot.HandlerFunc) bot.HandlerFunc {
		return func(ctx context.Context, b *bot.Bot, update *models.Update) {
			if update.Message != nil {
				logger.Debug("Bot update",
					zap.Int64("chat_id", update.Message.Chat.ID),
					zap.String("text", update.Message.Text),
				)
			}
			next(ctx, b, update)
		}
	}
}
