package health

import (
	"pso2-news/models/constants"

	"github.com/go-co-op/gocron/v2"
	"github.com/rs/zerolog/log"
)

func New(scheduler gocron.Scheduler, cronTab string, subscriberCount func() int) (*Impl, error) {
	service := Impl{subscriberCount: subscriberCount}

	_, errJob := scheduler.NewJob(
		gocron.CronJob(cronTab, false),
		gocron.NewTask(func() { service.Echo() }),
		gocron.WithName("Check app running"),
	)
	if errJob != nil {
		return nil, errJob
	}

	return &service, nil
}

func (service *Impl) Echo() {
	log.Info().Int(constants.LogSubscriberNb, service.subscriberCount()).Msgf("Application is running")
}
