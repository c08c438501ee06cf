package controller

import (
	"context"

	"github.com/Freeeeeet/slot_scheduler/internal/controller/handlers"
	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"go.uber.org/zap"
)

type BotController struct {
	bot      *bot.Bot
	handlers *handlers.Handlers
	logger   *zap.Logger
}

// NewBotController создаёт бота с командами планировщика
func NewBotController(token string, cmdHandlers *handlers.Handlers, logger *zap.Logger) (*BotController, error) {
	botInstance, err := bot.New(token,
		bot.WithMiddlewares(handlers.LogUpdates(logger)),
		bot.WithDefaultHandler(cmdHandlers.HandleHelp),
	)
	if err != nil {
		return nil, err
	}

	return &BotController{
		bot:      botInstance,
		handlers: cmdHandlers,
		logger:   logger,
	}, nil
}

// RegisterHandlers регистрирует все обработчики команд
func (c *BotController) RegisterHandlers(ctx context.Context) error {
	c.bot.RegisterHandler(bot.HandlerTypeMessageText, "/start", bot.MatchTypeExact, c.handlers.HandleHelp)
	c.bot.RegisterHandler(bot.HandlerTypeMessageText, "/help", bot.MatchTypeExact, c.handlers.HandleHelp)

	// Команды с аргументами
	c.bot.RegisterHandler(bot.HandlerTypeMessageText, "/opening", bot.MatchTypePrefix, c.handlers.HandleOpening)
	c.bot.RegisterHandler(bot.HandlerTypeMessageText, "/appointment", bot.MatchTypePrefix, c.handlers.HandleAppointment)
	c.bot.RegisterHandler(bot.HandlerTypeMessageText, "/availability", bot.MatchTypePrefix, c.handlers.HandleAvailability)

	// Устанавливаем меню команд
	return c.setCommands(ctx)
}

// setCommands устанавливает список команд в меню бота
func (c *BotController) setCommands(ctx context.Context) error {
	commands := []models.BotCommand{
		{Command: "opening", Description: "🗓 Открыть время"},
		{Command: "appointment", Description: "📌 Записаться"},
		{Command: "availability", Description: "🕐 Свободные слоты на неделю"},
		{Command: "help", Description: "❓ Справка по командам"},
	}

	_, err := c.bot.SetMyCommands(ctx, &bot.SetMyCommandsParams{
		Commands: commands,
	})

	if err != nil {
		c.logger.Error("Failed to set bot commands", zap.Error(err))
		return err
	}

	c.logger.Info("✅ Bot commands menu set")
	return nil
}

// Start запускает бота, блокируется до отмены ctx
func (c *BotController) Start(ctx context.Context) error {
	c.logger.Info("Starting bot...")
	c.bot.Start(ctx)
	return nil
}
