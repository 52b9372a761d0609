package telegram

import (
	"errors"
	"pso2-news/pkg/observer"
	"pso2-news/services/registry"

	"github.com/PaulSonOfLars/gotgbot/v2"
	"github.com/PaulSonOfLars/gotgbot/v2/ext"
)

type MessageType int

const (
	MessageTypeUnknown     MessageType = -1
	MessageTypeWelcome     MessageType = 1
	MessageTypeHelp        MessageType = 2
	MessageTypeAlertSet    MessageType = 3
	MessageTypeAlertUnset  MessageType = 4
	MessageTypeForbidden   MessageType = 5
	MessageTypeGenericFail MessageType = 6

	parseModeHTML     = "HTML"
	parseModeMarkdown = "Markdown"

	maxDescriptionLength = 700
)

const (
	statusCreator       = "creator"
	statusAdministrator = "administrator"
	statusMember        = "member"
	statusRestricted    = "restricted"
	statusLeft          = "left"
	statusKicked        = "kicked"

	chatTypePrivate = "private"
)

var (
	ErrTokenIsMissing         = errors.New("telegram token is missing")
	ErrBotNotInitialized      = errors.New("telegram bot  is not ready yet")
	ErrFailedToStartListening = errors.New("telegram bot can't start to listen command")
	ErrForbidden              = errors.New("telegram chat is not reachable by the bot")
	ErrRateLimited            = errors.New("telegram rate limit reached")
)

type Service interface {
	observer.Notifier
	ListenAndDispatch() error
	Shutdown()
}

type Impl struct {
	bot         *gotgbot.Bot
	updater     *ext.Updater
	registry    registry.Service
	adminChatID int64
	observers   map[observer.Observer]struct{}
}
