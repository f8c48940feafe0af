package service_test

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/Mansurxan1/hadiya/internal/entity"
	"github.com/Mansurxan1/hadiya/internal/mocks"
	"github.com/Mansurxan1/hadiya/internal/repository"
	"github.com/Mansurxan1/hadiya/internal/service"
)

func newBotService(t *testing.T) (*service.Service, *mocks.MockTelegramBot) {
	t.Helper()

	ctrl := gomock.NewController(t)
	bot := mocks.NewMockTelegramBot(ctrl)

	s := service.New(repository.NewMemory(), mocks.NewMockClickClient(ctrl), mocks.NewMockNotifier(ctrl), clickConfig(),
		service.WithTelegram(bot))
	t.Cleanup(s.Wait)

	return s, bot
}

func TestService_TelegramSetup(t *testing.T) {
	t.Parallel()

	s, bot := newBotService(t)

	chats := []entity.TelegramChat{{ID: -1001, Type: "supergroup", Title: "Заказы", UserName: "operator"}}

	bot.EXPECT().GetMe(gomock.Any()).Return(entity.TelegramBot{ID: 777, Username: "hadiya_pay_bot"}, nil)
	bot.EXPECT().GetUpdates(gomock.Any()).Return(chats, nil)
	bot.EXPECT().ChatConfigured().Return(true)
	bot.EXPECT().SendMessage(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, text string) error {
			if text == "" {
				return errors.New("empty message")
			}

			return nil
		})

	_, err := s.TelegramSetup(context.Background())
	require.ErrorIs(t, err, entity.ErrUnauthenticated)

	setup, err := s.TelegramSetup(operatorCtx())
	require.NoError(t, err)
	require.Equal(t, entity.TelegramSetup{
		Bot:             entity.TelegramBot{ID: 777, Username: "hadiya_pay_bot"},
		Chats:           chats,
		ChatConfigured:  true,
		TestMessageSent: true,
	}, setup)
}

func TestService_TelegramSetup_NoChat(t *testing.T) {
	t.Parallel()

	s, bot := newBotService(t)

	bot.EXPECT().GetMe(gomock.Any()).Return(entity.TelegramBot{ID: 777, Username: "hadiya_pay_bot"}, nil)
	bot.EXPECT().GetUpdates(gomock.Any()).Return(nil, fmt.Errorf("%w: telegram answered 409 Conflict", entity.ErrOperationFailed))
	bot.EXPECT().ChatConfigured().Return(false)

	setup, err := s.TelegramSetup(operatorCtx())
	require.NoError(t, err)
	require.Empty(t, setup.Chats)
	require.NotNil(t, setup.Chats)
	require.False(t, setup.TestMessageSent)
	require.Contains(t, setup.UpdatesErr, "409 Conflict")
}

func TestService_TelegramSetup_Errors(t *testing.T) {
	t.Parallel()

	s, bot := newBotService(t)

	bot.EXPECT().GetMe(gomock.Any()).Return(entity.TelegramBot{}, fmt.Errorf("%w: telegram answered 401 Unauthorized", entity.ErrOperationFailed))

	_, err := s.TelegramSetup(operatorCtx())
	require.ErrorIs(t, err, entity.ErrOperationFailed)

	d := newDeps(t, clickConfig())

	_, err = d.svc.TelegramSetup(operatorCtx())
	require.ErrorIs(t, err, entity.ErrConfig)
}
