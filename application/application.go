package application

import (
	"pso2-news/models/constants"
	"pso2-news/models/entities"
	"pso2-news/repositories/feedstates"
	"pso2-news/repositories/subscribers"
	"pso2-news/services/crawler"
	"pso2-news/services/detector"
	"pso2-news/services/dispatcher"
	"pso2-news/services/extractor"
	"pso2-news/services/health"
	"pso2-news/services/news"
	"pso2-news/services/registry"
	"pso2-news/services/telegram"
	databases "pso2-news/utils/databases"
	"pso2-news/utils/insights"
	"time"

	"github.com/go-co-op/gocron/v2"
	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
)

func New() (*Impl, error) {
	categories, err := constants.ParseNewsCategories(viper.GetString(constants.NewsCategories))
	if err != nil {
		return nil, err
	}

	db, err := databases.New(viper.GetString(constants.DatabaseDriver),
		viper.GetString(constants.SqliteURL), viper.GetString(constants.PostgresURL))
	if err != nil {
		return nil, err
	}
	if errDB := db.Run(); errDB != nil {
		return nil, errDB
	}

	errMigration := db.GetDB().AutoMigrate(&entities.FeedState{}, &entities.Subscriber{}, &entities.Delivery{})
	if errMigration != nil {
		return nil, errMigration
	}

	probes := insights.NewProbes(viper.GetInt(constants.ProbePort), db.IsConnected)
	location, err := time.LoadLocation(viper.GetString(constants.Timezone))
	if err != nil {
		return nil, err
	}

	scheduler, errScheduler := gocron.NewScheduler(gocron.WithLocation(location))
	if errScheduler != nil {
		return nil, errScheduler
	}

	// Repositories
	feedStateRepo := feedstates.New(db)
	subscriberRepo := subscribers.New(db)

	registryService := registry.New(subscriberRepo, categories)
	if errLoad := registryService.LoadAll(); errLoad != nil {
		return nil, errLoad
	}

	telegramService, errTg := telegram.New(viper.GetString(constants.TelegramBotToken),
		viper.GetString(constants.CommandPrefix), viper.GetInt64(constants.TelegramAdminChatID), registryService)
	if errTg != nil {
		return nil, errTg
	}
	telegramService.RegisterObserver(registryService)

	extractorService, errExtractor := extractor.New(viper.GetString(constants.NewsBaseURL))
	if errExtractor != nil {
		return nil, errExtractor
	}

	newsService, errNews := news.New(
		scheduler,
		crawler.New(viper.GetString(constants.UserAgent), viper.GetDuration(constants.FetchTimeout)),
		extractorService,
		detector.New(feedStateRepo, registryService, viper.GetBool(constants.DeliverOnFirstSighting)),
		dispatcher.New(registryService, telegramService, viper.GetInt(constants.DeliveryConcurrency)),
		categories,
		viper.GetString(constants.NewsBaseURL),
		viper.GetDuration(constants.PollInterval),
		viper.GetDuration(constants.PollTickTimeout),
		viper.GetBool(constants.PollAllowOverlap),
	)
	if errNews != nil {
		return nil, errNews
	}

	healthService, errHealth := health.New(scheduler, viper.GetString(constants.HealthCronTab), registryService.Count)
	if errHealth != nil {
		return nil, errHealth
	}

	return &Impl{
		scheduler:       scheduler,
		healthService:   healthService,
		newsService:     newsService,
		registry:        registryService,
		telegramService: telegramService,
		db:              db,
		probes:          probes,
	}, nil
}

func (app *Impl) Run() {
	app.scheduler.Start()
	go func() {
		if err := app.telegramService.ListenAndDispatch(); err != nil {
			log.Error().Err(err).Msg("Telegram bot stopped listening")
		}
	}()
	for _, job := range app.scheduler.Jobs() {
		scheduledTime, err := job.NextRun()
		if err == nil {
			log.Info().Msgf("%v scheduled at %v", job.Name(), scheduledTime)
		}
	}

	log.Info().Int(constants.LogSubscriberNb, app.registry.Count()).Msg("Subscribers loaded")
	app.probes.ListenAndServe()
}

func (app *Impl) Shutdown() {
	if err := app.scheduler.Shutdown(); err != nil {
		log.Error().Err(err).Msg("Cannot shutdown scheduler, continuing...")
	}
	app.telegramService.Shutdown()
	app.probes.Shutdown()
	app.db.Shutdown()
	log.Info().Msgf("Application is no longer running")
}
