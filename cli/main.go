package main

import (
	"context"
	"fmt"
	"os"

	"github.com/joeshaw/envdecode"
	flag "github.com/spf13/pflag"

	apiconfig "github.com/stackport/activity-agent/api/server/config"
	"github.com/stackport/activity-agent/api/server/types"
	"github.com/stackport/activity-agent/internal/envconf"
	"github.com/stackport/activity-agent/internal/logger"
	"github.com/stackport/activity-agent/pkg/activity"
	"github.com/stackport/activity-agent/pkg/logstore/lokistore"
)

func main() {
	envDecoderConf := &envconf.EnvDecoderConf{}

	if err := envdecode.StrictDecode(envDecoderConf); err != nil {
		logger.NewErrorConsole(true).Fatal().Caller().Msgf("could not decode env conf: %v", err)
		os.Exit(1)
	}

	l := logger.NewConsole(envDecoderConf.Debug)

	var start, end, limit string
	var project, user, status, actions, search string

	flag.StringVar(&start, "start", "", "start of the query range (now, relative like 24h, RFC3339, or unix)")
	flag.StringVar(&end, "end", "", "end of the query range")
	flag.StringVar(&limit, "limit", "", "maximum number of entries to fetch")
	flag.StringVar(&project, "project", "", "filter by project name")
	flag.StringVar(&user, "user", "", "filter by username")
	flag.StringVar(&status, "status", "", "filter by status: success, error, or a status code")
	flag.StringVar(&actions, "actions", "", "comma-separated list of verbs to match")
	flag.StringVar(&search, "search", "", "free-text filter applied to the fetched entries")

	flag.Parse()

	client := lokistore.NewClient(lokistore.Config{
		Address:     envDecoderConf.LogStoreConf.LokiAddress,
		BearerToken: envDecoderConf.LogStoreConf.LokiBearerToken,
		Timeout:     apiconfig.QueryTimeout(envDecoderConf),
	}, l)

	service := activity.NewService(client, activity.Config{
		BaseSelector: envDecoderConf.ActivityConf.BaseSelector,
		DefaultLimit: envDecoderConf.ActivityConf.DefaultLimit,
		MaxLimit:     envDecoderConf.ActivityConf.MaxLimit,
		DefaultStart: envDecoderConf.ActivityConf.DefaultStart,
		DefaultEnd:   envDecoderConf.ActivityConf.DefaultEnd,
	}, l)

	res, err := service.GetActivityLogs(context.Background(), types.ActivityLogQueryParams{
		Limit:   limit,
		Start:   start,
		End:     end,
		Project: project,
		User:    user,
		Status:  status,
		Actions: actions,
		Q:       search,
	})

	if err != nil {
		l.Fatal().Caller().Msgf("query failed: %v", err)
	}

	fmt.Printf("query: %s\n", res.Query)
	fmt.Printf("range: %s to %s\n\n", res.TimeRange.Start, res.TimeRange.End)

	for _, entry := range res.Logs {
		fmt.Printf("%s [%s] %s\n", entry.Timestamp, entry.Level, entry.Message)
	}
}
