package constants

import (
	"time"

	"github.com/rs/zerolog"
)

const (
	ConfigFileName = ".env"

	// TELEGRAM BOT
	TelegramBotToken = "TELEGRAM_BOT_TOKEN"

	// Chat notified when the bot joins or leaves a chat; 0 disables it.
	TelegramAdminChatID = "TELEGRAM_ADMIN_CHAT_ID"

	// Characters triggering a bot command.
	CommandPrefix = "COMMAND_PREFIX"

	// One of [sqlite, postgres].
	DatabaseDriver = "DATABASE_DRIVER"

	// SQLITE_URL URL.
	SqliteURL = "SQLITE_URL"

	// Postgres DSN, used when DATABASE_DRIVER is postgres.
	PostgresURL = "POSTGRES_URL"

	// Zerolog values from [trace, debug, info, warn, error, fatal, panic].
	LogLevel = "LOG_LEVEL"

	// Probe port.
	ProbePort = "PROBE_PORT"

	// Location used by the scheduler.
	Timezone = "TIMEZONE"

	// Cron tab to health.
	HealthCronTab = "HEALTH_CRON_TAB"

	// Period between two news polls. Duration type.
	PollInterval = "POLL_INTERVAL"

	// Upper bound of one poll. Duration type.
	PollTickTimeout = "POLL_TICK_TIMEOUT"

	// Boolean; lets a poll start while the previous one is still running.
	PollAllowOverlap = "POLL_ALLOW_OVERLAP"

	// Timeout of one news page fetch. Duration type.
	FetchTimeout = "FETCH_TIMEOUT"

	// User agent sent to the news website.
	UserAgent = "USER_AGENT"

	// News website root, pages are read from <root>/<category>?page=1.
	NewsBaseURL = "NEWS_BASE_URL"

	// Comma separated list of watched categories.
	NewsCategories = "NEWS_CATEGORIES"

	// Boolean; relays the current item of a category never crawled before.
	DeliverOnFirstSighting = "DELIVER_ON_FIRST_SIGHTING"

	// Maximum number of notifications sent at the same time.
	DeliveryConcurrency = "DELIVERY_CONCURRENCY"

	defaultTelegramBotToken       = ""
	defaultTelegramAdminChatID    = 0
	defaultCommandPrefix          = "/"
	defaultDatabaseDriver         = DriverSqlite
	defaultSqliteURL              = "pso2-news.db"
	defaultPostgresURL            = ""
	defaultLogLevel               = zerolog.InfoLevel
	defaultProbePort              = 9090
	defaultTimezone               = "UTC"
	defaultHealthCrontab          = "*/5 * * * *"
	defaultPollInterval           = 15 * time.Second
	defaultPollTickTimeout        = 2 * time.Minute
	defaultPollAllowOverlap       = false
	defaultFetchTimeout           = 10 * time.Second
	defaultUserAgent              = "pso2-news-bot/" + Version
	defaultNewsBaseURL            = "https://pso2.com/news"
	defaultDeliverOnFirstSighting = true
	defaultDeliveryConcurrency    = 8
)

const (
	DriverSqlite   = "sqlite"
	DriverPostgres = "postgres"
)

func GetDefaultConfigValues() map[string]any {
	return map[string]any{
		TelegramBotToken:       defaultTelegramBotToken,
		TelegramAdminChatID:    defaultTelegramAdminChatID,
		CommandPrefix:          defaultCommandPrefix,
		DatabaseDriver:         defaultDatabaseDriver,
		SqliteURL:              defaultSqliteURL,
		PostgresURL:            defaultPostgresURL,
		LogLevel:               defaultLogLevel.String(),
		ProbePort:              defaultProbePort,
		Timezone:               defaultTimezone,
		HealthCronTab:          defaultHealthCrontab,
		PollInterval:           defaultPollInterval,
		PollTickTimeout:        defaultPollTickTimeout,
		PollAllowOverlap:       defaultPollAllowOverlap,
		FetchTimeout:           defaultFetchTimeout,
		UserAgent:              defaultUserAgent,
		NewsBaseURL:            defaultNewsBaseURL,
		NewsCategories:         JoinNewsCategories(GetNewsCategories()),
		DeliverOnFirstSighting: defaultDeliverOnFirstSighting,
		DeliveryConcurrency:    defaultDeliveryConcurrency,
	}
}
