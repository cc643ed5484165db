package main

import (
	"fmt"
	"net/http"
	"os"
	"strconv"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/joeshaw/envdecode"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/stackport/activity-agent/api/server/config"
	activitylogHandlers "github.com/stackport/activity-agent/api/server/handlers/activitylog"
	healthcheckHandlers "github.com/stackport/activity-agent/api/server/handlers/healthcheck"
	"github.com/stackport/activity-agent/api/server/shared"
	"github.com/stackport/activity-agent/internal/envconf"
	"github.com/stackport/activity-agent/internal/logger"
	"github.com/stackport/activity-agent/pkg/logstore"
	"github.com/stackport/activity-agent/pkg/logstore/lokistore"
	"github.com/stackport/activity-agent/pkg/logstore/memorystore"
)

func main() {
	var envDecoderConf envconf.EnvDecoderConf = envconf.EnvDecoderConf{}

	if err := envdecode.StrictDecode(&envDecoderConf); err != nil {
		logger.NewErrorConsole(true).Fatal().Caller().Msgf("could not decode env conf: %v", err)

		os.Exit(1)
	}

	l := logger.NewConsole(envDecoderConf.Debug)

	var logStore logstore.LogStore
	var err error

	logStoreKind := envDecoderConf.LogStoreConf.LogStoreKind

	if logStoreKind == "memory" {
		logStore, err = memorystore.New("activity", memorystore.Options{})
	} else {
		logStoreKind = "loki"
		lokistore.SetupLokiStatus(envDecoderConf.LogStoreConf.LokiAddress)
		logStore = lokistore.NewClient(lokistore.Config{
			Address:     envDecoderConf.LogStoreConf.LokiAddress,
			BearerToken: envDecoderConf.LogStoreConf.LokiBearerToken,
			Timeout:     config.QueryTimeout(&envDecoderConf),
		}, l)
	}

	if err != nil {
		l.Fatal().Caller().Msgf("%s-based log store setup failed: %v", logStoreKind, err)
	}

	conf := config.GetConfig(&envDecoderConf, logStore)

	r := chi.NewRouter()

	r.Use(shared.RequestID)
	r.Use(middleware.Recoverer)

	r.Method("GET", "/livez", healthcheckHandlers.NewLivezHandler(conf))
	r.Method("GET", "/readyz", healthcheckHandlers.NewReadyzHandler(conf))
	r.Method("GET", "/metrics", promhttp.Handler())

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(render.SetContentType(render.ContentTypeJSON))

		r.Method("GET", "/activity-logs", activitylogHandlers.NewListActivityLogsHandler(conf))
	})

	addr := fmt.Sprintf(":%s", strconv.FormatUint(uint64(envDecoderConf.ServerPort), 10))

	l.Info().Msgf("serving activity log API on %s with %s log store", addr, logStoreKind)

	if err := http.ListenAndServe(addr, r); err != nil {
		l.Fatal().Caller().Msgf("server shut down: %v", err)
	}
}
