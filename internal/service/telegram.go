package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/Mansurxan1/hadiya/internal/entity"
	"github.com/Mansurxan1/hadiya/pkg/logger"
)

const telegramTestMessage = "✅ Тестовое сообщение от Hadiya Travel. Бот настроен и работает корректно!"

// TelegramSetup shows operators which chats the bot can write to. When a chat is
// already configured a test message is sent there. Only a failing getMe fails the
// call: a bad token makes everything else meaningless.
func (s *Service) TelegramSetup(ctx context.Context) (entity.TelegramSetup, error) {
	op, err := entity.OperatorFromCtx(ctx)
	if err != nil {
		return entity.TelegramSetup{}, err
	}

	ctx = logger.WithOperator(ctx, op.Name)

	if s.bot == nil {
		return entity.TelegramSetup{}, fmt.Errorf("%w: TELEGRAM_BOT_TOKEN not set", entity.ErrConfig)
	}

	me, err := s.bot.GetMe(ctx)
	if err != nil {
		return entity.TelegramSetup{}, fmt.Errorf("get bot info: %w", err)
	}

	setup := entity.TelegramSetup{
		Bot:            me,
		Chats:          []entity.TelegramChat{},
		ChatConfigured: s.bot.ChatConfigured(),
	}

	chats, err := s.bot.GetUpdates(ctx)
	if err != nil {
		slog.WarnContext(ctx, "telegram updates are not available", "error", err)

		setup.UpdatesErr = err.Error()
	} else {
		setup.Chats = chats
	}

	if !setup.ChatConfigured {
		return setup, nil
	}

	err = s.bot.SendMessage(ctx, telegramTestMessage)
	if err != nil {
		slog.WarnContext(ctx, "telegram test message is not sent", "error", err)

		setup.TestMessageErr = err.Error()
	} else {
		setup.TestMessageSent = true
	}

	return setup, nil
}
