package telegram

import (
	"fmt"
	"html"
	"pso2-news/models/constants"
	"pso2-news/models/entities"
	"strings"
	"unicode/utf8"

	"github.com/dustin/go-humanize"
)

// FormatNotification renders a notification as Telegram HTML.
func FormatNotification(notification entities.Notification) string {
	style := notification.Category.Style()

	var builder strings.Builder
	builder.WriteString(fmt.Sprintf("%s <b>%s</b>\n\n", notification.Emoji, html.EscapeString(style.Label)))
	if notification.URL != "" {
		builder.WriteString(fmt.Sprintf("<a href=\"%s\"><b>%s</b></a>\n", html.EscapeString(notification.URL), html.EscapeString(notification.Title)))
	} else {
		builder.WriteString(fmt.Sprintf("<b>%s</b>\n", html.EscapeString(notification.Title)))
	}

	if notification.Description != "" {
		builder.WriteString("\n")
		builder.WriteString(html.EscapeString(truncate(notification.Description, maxDescriptionLength)))
		builder.WriteString("\n")
	}

	if notification.Footer != "" {
		builder.WriteString(fmt.Sprintf("\n<i>%s</i>", html.EscapeString(notification.Footer)))
	}

	return strings.TrimRight(builder.String(), "\n")
}

func truncate(value string, limit int) string {
	if utf8.RuneCountInString(value) <= limit {
		return value
	}

	runes := []rune(value)
	return strings.TrimSpace(string(runes[:limit])) + "…"
}

func getStatusMessage(subscriber entities.Subscriber, subscriberNumber int) string {
	msg := "📊 *PSO2 News* – Status\n\n"
	if subscriber.HasAlertChat() {
		msg += "🔔 Alerts are *enabled* in this chat.\n\n"
	} else {
		msg += "🔕 Alerts are *disabled*. An admin can type `/alert` to enable them.\n\n"
	}

	for _, category := range constants.GetNewsCategories() {
		delivered, watched := subscriber.Delivered[category]
		if !watched {
			continue
		}
		style := category.Style()
		state := "⏳ pending"
		if delivered {
			state = "✅ up to date"
		}
		msg += fmt.Sprintf("%s %s: %s\n", style.Emoji, style.Label, state)
	}

	msg += fmt.Sprintf("\n👥 Relaying to %s %s.", humanize.Comma(int64(subscriberNumber)), plural(subscriberNumber, "chat", "chats"))
	return msg
}

func plural(count int, singular, several string) string {
	if count == 1 {
		return singular
	}
	return several
}

func getMessageFromMessageType(messageType MessageType) string {
	switch messageType {
	case MessageTypeHelp:
		msg := "🤖 *PSO2 News* – Help Guide 📢\n\n"
		msg += "This bot relays the latest PSO2 news as soon as they are published 📰.\n\n"
		msg += "📝 *Commands available:*\n"
		msg += "🔔 `/alert` – Relay news to this chat (admins only).\n"
		msg += "🔕 `/unalert` – Stop relaying news to this chat (admins only).\n"
		msg += "📊 `/status` – Show what has been relayed here.\n"
		msg += "💡 `/help` – Show this help message.\n"

		return msg

	case MessageTypeAlertSet:
		msg := "🎉 *Alerts Enabled!* ✅\n\n"
		msg += "Announcements, server info, urgent quests and blogs will be posted here.\n"
		msg += "Type `/unalert` at any time to stop them.\n"

		return msg

	case MessageTypeAlertUnset:
		msg := "👋 *Alerts Disabled* ❌\n\n"
		msg += "News will no longer be posted here. Type `/alert` to enable them again! 🚀\n"

		return msg

	case MessageTypeForbidden:
		return "⛔ Only chat administrators can change where news are posted."

	case MessageTypeGenericFail:
		msg := "😔 *Oops! Something Went Wrong*\n\n"
		msg += "I couldn't complete your request. Wait a moment and try again.\n"

		return msg

	default:
		msg := "👋 Hi! I'm *PSO2 News* 🤖\n\n"
		msg += "I watch the official PSO2 news pages and relay every new post 📨.\n\n"
		msg += "✅ *Want the news here?* An admin can type `/alert`.\n"
		msg += "💬 *Need help?* Type `/help` for a list of commands."

		return msg
	}
}
