package application

import (
	"pso2-news/services/health"
	"pso2-news/services/news"
	"pso2-news/services/registry"
	"pso2-news/services/telegram"
	databases "pso2-news/utils/databases"
	"pso2-news/utils/insights"

	"github.com/go-co-op/gocron/v2"
)

type Application interface {
	Run()
	Shutdown()
}

type Impl struct {
	scheduler       gocron.Scheduler
	healthService   health.Service
	newsService     news.Service
	registry        registry.Service
	telegramService telegram.Service
	db              databases.SqlConnection
	probes          insights.Probes
}
