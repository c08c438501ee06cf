package handlers

import (
	"bytes"
	"context"
	"errors"

	"github.com/Freeeeeet/slot_scheduler/internal/controller/weekimage"
	"github.com/Freeeeeet/slot_scheduler/internal/model"
	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"go.uber.org/zap"
)

// HandleHelp обрабатывает команды /start и /help
func (h *Handlers) HandleHelp(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil {
		return
	}
	h.sendText(ctx, b, update.Message.Chat.ID, helpText)
}

// HandleOpening обрабатывает команду /opening
func (h *Handlers) HandleOpening(ctx context.Context, b *bot.Bot, update *models.Update) {
	h.handleCreate(ctx, b, update, model.EventKindOpening)
}

// HandleAppointment обрабатывает команду /appointment
func (h *Handlers) HandleAppointment(ctx context.Context, b *bot.Bot, update *models.Update) {
	h.handleCreate(ctx, b, update, model.EventKindAppointment)
}

func (h *Handlers) handleCreate(ctx context.Context, b *bot.Bot, update *models.Update, kind model.EventKind) {
	if update.Message == nil {
		return
	}
	chatID := update.Message.Chat.ID

	req, err := ParseEventArgs(kind, commandArgs(update.Message.Text), h.loc)
	if err != nil {
		h.sendError(ctx, b, chatID, "❌ "+err.Error()+"\n\n"+helpText)
		return
	}

	event, err := h.events.Create(ctx, req)
	if err != nil {
		var verrs model.ValidationErrors
		switch {
		case errors.As(err, &verrs):
			h.sendError(ctx, b, chatID, FormatValidationErrors(verrs))
		case errors.Is(err, model.ErrSlotAlreadyBooked):
			h.sendError(ctx, b, chatID, "❌ Слоты только что заняли. Выберите другое время.")
		default:
			h.logger.Error("Failed to create event",
				zap.Int64("chat_id", chatID),
				zap.String("kind", string(kind)),
				zap.Error(err),
			)
			h.sendError(ctx, b, chatID, "❌ Произошла ошибка. Попробуйте позже.")
		}
		return
	}

	h.sendText(ctx, b, chatID, "✅ Создано\n\n"+FormatEvent(event))
}

// HandleAvailability обрабатывает команду /availability
func (h *Handlers) HandleAvailability(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil {
		return
	}
	chatID := update.Message.Chat.ID

	startsAt, err := ParseDate(commandArgs(update.Message.Text), h.loc)
	if err != nil {
		h.sendError(ctx, b, chatID, "❌ "+err.Error()+"\n\n"+helpText)
		return
	}

	days, err := h.availability.Availabilities(ctx, startsAt)
	if err != nil {
		h.logger.Error("Failed to get availability", zap.Int64("chat_id", chatID), zap.Error(err))
		h.sendError(ctx, b, chatID, "❌ Произошла ошибка. Попробуйте позже.")
		return
	}

	if len(days) > 0 {
		h.sendAvailabilityImage(ctx, b, chatID, days)
	}
	h.sendText(ctx, b, chatID, FormatAvailability(days))
}

// sendAvailabilityImage отправляет неделю картинкой. Ошибка не мешает текстовому ответу
func (h *Handlers) sendAvailabilityImage(ctx context.Context, b *bot.Bot, chatID int64, days []model.DayAvailability) {
	image, err := weekimage.RenderAvailability(days, h.loc)
	if err != nil {
		h.logger.Error("Failed to render availability image", zap.Int64("chat_id", chatID), zap.Error(err))
		return
	}

	_, err = b.SendPhoto(ctx, &bot.SendPhotoParams{
		ChatID: chatID,
		Photo: &models.InputFileUpload{
			Filename: "availability.png",
			Data:     bytes.NewReader(image),
		},
	})
	if err != nil {
		h.logger.Error("Failed to send availability image", zap.Int64("chat_id", chatID), zap.Error(err))
	}
}

func (h *Handlers) sendText(ctx context.Context, b *bot.Bot, chatID int64, text string) {
	_, err := b.SendMessage(ctx, &bot.SendMessageParams{
		ChatID: chatID,
		Text:   text,
	})
	if err != nil {
		h.logger.Error("Failed to send message", zap.Int64("chat_id", chatID), zap.Error(err))
	}
}

// sendError отправляет сообщение об ошибке и логирует если не удалось
func (h *Handlers) sendError(ctx context.Context, b *bot.Bot, chatID int64, text string) {
	_, err := b.SendMessage(ctx, &bot.SendMessageParams{
		ChatID: chatID,
		Text:   text,
	})
	if err != nil {
		h.logger.Error("Failed to send error message",
			zap.Int64("chat_id", chatID),
			zap.String("text", text),
			zap.Error(err),
		)
	}
}
