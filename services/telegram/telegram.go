package telegram

import (
	"context"
	"errors"
	"fmt"
	"pso2-news/models/constants"
	"pso2-news/models/entities"
	"pso2-news/pkg/observer"
	"pso2-news/services/registry"
	"time"

	"github.com/PaulSonOfLars/gotgbot/v2"
	"github.com/PaulSonOfLars/gotgbot/v2/ext"
	"github.com/PaulSonOfLars/gotgbot/v2/ext/handlers"
	"github.com/rs/zerolog/log"
)

const (
	defaultRequestTimeout = 10 * time.Second
)

func New(token, commandPrefix string, adminChatID int64, registry registry.Service) (*Impl, error) {
	if token == "" {
		return &Impl{}, ErrTokenIsMissing
	}

	b, err := gotgbot.NewBot(token, nil)
	if err != nil {
		return &Impl{}, ErrBotNotInitialized
	}

	dispatcher := ext.NewDispatcher(&ext.DispatcherOpts{
		Error: func(b *gotgbot.Bot, ctx *ext.Context, err error) ext.DispatcherAction {
			log.Warn().Err(err).Msg("an error occurred while handling update")
			return ext.DispatcherActionNoop
		},
		MaxRoutines: ext.DefaultMaxRoutines,
	})

	service := &Impl{
		bot:         b,
		registry:    registry,
		adminChatID: adminChatID,
		observers:   map[observer.Observer]struct{}{},
	}

	commands := []struct {
		name     string
		response handlers.Response
	}{
		{name: "start", response: service.startCmd},
		{name: "help", response: service.helpCmd},
		{name: "alert", response: service.alertCmd},
		{name: "unalert", response: service.unalertCmd},
		{name: "status", response: service.statusCmd},
	}
	for _, command := range commands {
		handler := handlers.NewCommand(command.name, command.response)
		if commandPrefix != "" {
			handler.Triggers = []rune(commandPrefix)
		}
		dispatcher.AddHandler(handler)
	}
	dispatcher.AddHandler(handlers.NewMyChatMember(nil, service.membershipCmd))

	service.updater = ext.NewUpdater(dispatcher, nil)

	return service, nil
}

func (service *Impl) RegisterObserver(o observer.Observer) {
	service.observers[o] = struct{}{}
}

func (service *Impl) notify(e observer.Event) {
	for o := range service.observers {
		o.OnNotify(e)
	}
}

func (service *Impl) ListenAndDispatch() error {
	err := service.updater.StartPolling(service.bot, &ext.PollingOpts{
		DropPendingUpdates: true,
		GetUpdatesOpts: &gotgbot.GetUpdatesOpts{
			Timeout:        9,
			AllowedUpdates: []string{"message", "my_chat_member"},
			RequestOpts: &gotgbot.RequestOpts{
				Timeout: time.Second * 10,
			},
		},
	})
	if err != nil {
		return ErrFailedToStartListening
	}

	log.Info().Str(constants.LogUsername, service.bot.Username).Msg("Telegram bot is listening")
	service.updater.Idle()
	return nil
}

func (service *Impl) Shutdown() {
	if service.updater == nil {
		return
	}
	if err := service.updater.Stop(); err != nil {
		log.Error().Err(err).Msg("Cannot stop telegram updater, continuing...")
	}
}

// Deliver posts a news notification to a chat.
func (service *Impl) Deliver(ctx context.Context, chatID int64, notification entities.Notification) error {
	timeout := defaultRequestTimeout
	if deadline, ok := ctx.Deadline(); ok {
		timeout = time.Until(deadline)
		if timeout <= 0 {
			return ctx.Err()
		}
	}

	preview := notification.ImageURL
	if preview == "" {
		preview = notification.URL
	}

	_, err := service.bot.SendMessage(chatID, FormatNotification(notification), &gotgbot.SendMessageOpts{
		ParseMode: parseModeHTML,
		LinkPreviewOptions: &gotgbot.LinkPreviewOptions{
			Url:              preview,
			PreferLargeMedia: true,
			ShowAboveText:    true,
		},
		RequestOpts: &gotgbot.RequestOpts{Timeout: timeout},
	})

	return classify(err)
}

func classify(err error) error {
	if err == nil {
		return nil
	}

	var tgErr *gotgbot.TelegramError
	if errors.As(err, &tgErr) {
		switch tgErr.Code {
		case 403:
			return fmt.Errorf("%w: %w", ErrForbidden, err)
		case 429:
			return fmt.Errorf("%w: %w", ErrRateLimited, err)
		}
	}
	return err
}

func (service *Impl) startCmd(b *gotgbot.Bot, ctx *ext.Context) error {
	log.Info().Str(constants.LogCommand, "start").Int64(constants.LogChatID, ctx.EffectiveChat.Id).Msg("command received")
	service.registerChat(ctx.EffectiveChat)
	return service.reply(ctx, getMessageFromMessageType(MessageTypeWelcome))
}

func (service *Impl) helpCmd(b *gotgbot.Bot, ctx *ext.Context) error {
	log.Info().Str(constants.LogCommand, "help").Int64(constants.LogChatID, ctx.EffectiveChat.Id).Msg("command received")
	return service.reply(ctx, getMessageFromMessageType(MessageTypeHelp))
}

func (service *Impl) alertCmd(b *gotgbot.Bot, ctx *ext.Context) error {
	return service.setAlertChat(ctx, "alert", ctx.EffectiveChat.Id, MessageTypeAlertSet)
}

func (service *Impl) unalertCmd(b *gotgbot.Bot, ctx *ext.Context) error {
	return service.setAlertChat(ctx, "unalert", 0, MessageTypeAlertUnset)
}

func (service *Impl) setAlertChat(ctx *ext.Context, cmd string, alertChatID int64, success MessageType) error {
	chat := ctx.EffectiveChat
	logger := log.With().Str(constants.LogCommand, cmd).Int64(constants.LogChatID, chat.Id).Logger()
	logger.Info().Msg("command received")

	if !service.isAdmin(ctx) {
		logger.Warn().Msg("forbidden usage")
		return service.reply(ctx, getMessageFromMessageType(MessageTypeForbidden))
	}

	service.registerChat(chat)
	if err := service.registry.UpdateAlertChat(chat.Id, alertChatID); err != nil {
		logger.Error().Err(err).Msg("error on saved")
		return service.reply(ctx, getMessageFromMessageType(MessageTypeGenericFail))
	}

	return service.reply(ctx, getMessageFromMessageType(success))
}

func (service *Impl) statusCmd(b *gotgbot.Bot, ctx *ext.Context) error {
	log.Info().Str(constants.LogCommand, "status").Int64(constants.LogChatID, ctx.EffectiveChat.Id).Msg("command received")
	service.registerChat(ctx.EffectiveChat)

	subscriber, found := service.registry.Get(ctx.EffectiveChat.Id)
	if !found {
		return service.reply(ctx, getMessageFromMessageType(MessageTypeGenericFail))
	}

	return service.reply(ctx, getStatusMessage(subscriber, service.registry.Count()))
}

func (service *Impl) membershipCmd(b *gotgbot.Bot, ctx *ext.Context) error {
	update := ctx.MyChatMember
	chat := update.Chat
	status := update.NewChatMember.GetStatus()
	log.Info().Int64(constants.LogChatID, chat.Id).Str(constants.LogMemberStatus, status).Msg("membership changed")

	switch status {
	case statusMember, statusAdministrator, statusCreator, statusRestricted:
		service.registerChat(&chat)
		service.notifyAdmin(fmt.Sprintf("🆕 *New chat!* 🎉\n\nThe bot joined `%s` (`%d`).", chatName(&chat), chat.Id))
	case statusLeft, statusKicked:
		service.notify(observer.NewSubscriberLeftEvent(chat.Id))
		service.notifyAdmin(fmt.Sprintf("👋 *Chat left*\n\nThe bot no longer relays news to `%s` (`%d`).", chatName(&chat), chat.Id))
	}

	return nil
}

func (service *Impl) registerChat(chat *gotgbot.Chat) {
	service.notify(observer.NewSubscriberJoinedEvent(chat.Id, chatName(chat)))
}

func (service *Impl) isAdmin(ctx *ext.Context) bool {
	if ctx.EffectiveChat.Type == chatTypePrivate {
		return true
	}
	if ctx.EffectiveUser == nil {
		return false
	}

	member, err := service.bot.GetChatMember(ctx.EffectiveChat.Id, ctx.EffectiveUser.Id, nil)
	if err != nil {
		log.Warn().Err(err).Int64(constants.LogChatID, ctx.EffectiveChat.Id).Msg("cannot read chat member")
		return false
	}

	status := member.GetStatus()
	return status == statusCreator || status == statusAdministrator
}

func (service *Impl) notifyAdmin(msg string) {
	if service.adminChatID == 0 {
		return
	}

	_, err := service.bot.SendMessage(service.adminChatID, msg, &gotgbot.SendMessageOpts{ParseMode: parseModeMarkdown})
	if err != nil {
		log.Warn().Err(err).Int64(constants.LogChatID, service.adminChatID).Msg("cannot notify admin")
	}
}

func (service *Impl) reply(ctx *ext.Context, msg string) error {
	_, err := service.bot.SendMessage(ctx.EffectiveChat.Id, msg, &gotgbot.SendMessageOpts{ParseMode: parseModeMarkdown})
	return err
}

func chatName(chat *gotgbot.Chat) string {
	switch {
	case chat.Title != "":
		return chat.Title
	case chat.Username != "":
		return chat.Username
	default:
		return chat.FirstName
	}
}
