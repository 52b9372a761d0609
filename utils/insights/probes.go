package insights

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"pso2-news/models/constants"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"
)

func NewProbes(port int, isDBConnected func() bool) Probes {
	probes := &probesImpl{isDBConnected: isDBConnected}

	mux := http.NewServeMux()
	mux.HandleFunc(healthPath, probes.health)
	mux.HandleFunc(readyPath, probes.ready)
	mux.Handle(metricsPath, promhttp.Handler())

	probes.server = &http.Server{
		Addr:              fmt.Sprintf(":%d", port),
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	return probes
}

// ListenAndServe serves the probes in background.
func (probes *probesImpl) ListenAndServe() {
	go func() {
		log.Info().Str(constants.LogAddress, probes.server.Addr).Msg("Probes listening")
		if err := probes.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error().Err(err).Msg("Probes stopped")
		}
	}()
}

func (probes *probesImpl) Shutdown() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := probes.server.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("Cannot shutdown probes, continuing...")
	}
}

func (probes *probesImpl) health(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("OK"))
}

func (probes *probesImpl) ready(w http.ResponseWriter, _ *http.Request) {
	if !probes.isDBConnected() {
		w.WriteHeader(http.StatusServiceUnavailable)
		w.Write([]byte("database unreachable"))
		return
	}

	w.WriteHeader(http.StatusOK)
	w.Write([]byte("OK"))
}
