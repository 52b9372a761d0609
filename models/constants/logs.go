package constants

import "github.com/rs/zerolog"

const (
	LogFileName      = "fileName"
	LogCategory      = "category"
	LogExternalID    = "externalID"
	LogPreviousID    = "previousID"
	LogTickID        = "tickID"
	LogURL           = "url"
	LogStatusCode    = "statusCode"
	LogBodySize      = "bodySize"
	LogChatID        = "chatID"
	LogChatName      = "chatName"
	LogAlertChatID   = "alertChatID"
	LogCommand       = "cmd"
	LogUsername      = "username"
	LogSubscriberNb  = "subscriberNumber"
	LogDeliveredNb   = "deliveredNumber"
	LogFailedNb      = "failedNumber"
	LogSkippedNb     = "skippedNumber"
	LogIsNew         = "isNew"
	LogDuration      = "duration"
	LogMemberStatus  = "memberStatus"
	LogDriver        = "driver"
	LogAddress       = "address"
	LogPanic         = "panic"
	LogStep          = "step"
	LogLevelFallback = zerolog.InfoLevel
)
