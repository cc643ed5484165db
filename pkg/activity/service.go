package activity

import (
	"context"
	"errors"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/stackport/activity-agent/api/server/types"
	"github.com/stackport/activity-agent/internal/logger"
	"github.com/stackport/activity-agent/internal/metrics"
	"github.com/stackport/activity-agent/internal/timeutil"
	"github.com/stackport/activity-agent/pkg/logstore"
)

const (
	defaultBaseSelector = `{app="audit-logs"}`
	defaultLimit        = 100
	defaultMaxLimit     = 1000
	defaultStartParam   = "1h"
	defaultEndParam     = "now"
)

// Config holds the service defaults. Zero values adopt the package
// defaults, so an empty Config is usable.
type Config struct {
	BaseSelector string
	DefaultLimit int
	MaxLimit     int
	DefaultStart string
	DefaultEnd   string
}

// Service orchestrates the activity log pipeline: validate, build, execute,
// parse, filter, sort. It holds no mutable state, so one instance serves
// concurrent requests.
type Service struct {
	store  logstore.LogStore
	config Config
	logger *logger.Logger
	clock  func() time.Time
}

func NewService(store logstore.LogStore, config Config, l *logger.Logger) *Service {
	if config.BaseSelector == "" {
		config.BaseSelector = defaultBaseSelector
	}

	if config.DefaultLimit <= 0 {
		config.DefaultLimit = defaultLimit
	}

	if config.MaxLimit <= 0 {
		config.MaxLimit = defaultMaxLimit
	}

	if config.DefaultStart == "" {
		config.DefaultStart = defaultStartParam
	}

	if config.DefaultEnd == "" {
		config.DefaultEnd = defaultEndParam
	}

	return &Service{
		store:  store,
		config: config,
		logger: l,
		clock:  time.Now,
	}
}

type validatedQueryParams struct {
	limit int
	start string
	end   string
}

func (s *Service) validateQueryParams(params types.ActivityLogQueryParams, now time.Time) validatedQueryParams {
	limit := s.config.DefaultLimit

	if params.Limit != "" {
		parsed, err := strconv.Atoi(params.Limit)

		if err != nil {
			s.logger.Warn().Str("limit", params.Limit).Msg("malformed limit parameter, using default")
		} else {
			limit = parsed
		}
	}

	if limit < 1 {
		limit = 1
	}

	if limit > s.config.MaxLimit {
		limit = s.config.MaxLimit
	}

	return validatedQueryParams{
		limit: limit,
		start: timeutil.ValidateTimeParam(params.Start, s.config.DefaultStart, now),
		end:   timeutil.ValidateTimeParam(params.End, s.config.DefaultEnd, now),
	}
}

// GetActivityLogs runs one query end to end and returns the normalized
// response envelope.
//
// The free-text q filter applies only to the page fetched from the backend
// (up to limit lines), so matches beyond that page are not surfaced.
func (s *Service) GetActivityLogs(ctx context.Context, params types.ActivityLogQueryParams) (*types.ActivityLogsResponse, error) {
	now := s.clock()

	validated := s.validateQueryParams(params, now)

	query := BuildLogQLQuery(QueryBuilderOptions{
		BaseSelector: s.config.BaseSelector,
		ProjectName:  params.Project,
		Actions:      params.Actions,
		User:         params.User,
		Resource:     params.ResourceType,
		Status:       params.Status,
	})

	s.logger.Debug().
		Str("query", query).
		Str("start", validated.start).
		Str("end", validated.end).
		Int("limit", validated.limit).
		Msg("fetching activity logs")

	// filters with no query-language clause stay client-side in the UI
	if params.Organization != "" || params.ResourceID != "" || params.ResponseCode != "" ||
		params.APIGroup != "" || params.Namespace != "" || params.SourceIP != "" {
		s.logger.Debug().Msg("request carries filters not compiled into the backend query")
	}

	timer := prometheus.NewTimer(metrics.QueryDuration)

	result, err := s.store.QueryRange(ctx, query, logstore.QueryRangeOptions{
		Start: validated.start,
		End:   validated.end,
		Limit: validated.limit,
	})

	timer.ObserveDuration()

	if err != nil {
		metrics.QueriesTotal.WithLabelValues("error").Inc()

		var authErr *logstore.AuthenticationError

		if errors.As(err, &authErr) {
			s.logger.Warn().Int("status", authErr.StatusCode).Msg("log backend rejected credentials")
		} else {
			s.logger.Error().Err(err).Str("query", query).Msg("activity log query failed")
		}

		return nil, err
	}

	metrics.QueriesTotal.WithLabelValues("success").Inc()

	entries := ProcessLogEntries(result.Entries, now)

	if params.Q != "" {
		entries = filterEntries(entries, params.Q)
	}

	sortEntriesByTimestamp(entries)

	metrics.QueryResults.Observe(float64(len(entries)))

	return &types.ActivityLogsResponse{
		Logs:  entries,
		Query: query,
		TimeRange: types.TimeRange{
			Start: timeutil.ConvertTimeToUserFriendly(validated.start, now),
			End:   timeutil.ConvertTimeToUserFriendly(validated.end, now),
		},
	}, nil
}

// filterEntries keeps entries whose searchable text contains the term,
// case-insensitively.
func filterEntries(entries []types.ActivityLogEntry, term string) []types.ActivityLogEntry {
	term = strings.ToLower(term)

	filtered := make([]types.ActivityLogEntry, 0, len(entries))

	for _, entry := range entries {
		if strings.Contains(searchableText(entry), term) {
			filtered = append(filtered, entry)
		}
	}

	return filtered
}

func searchableText(entry types.ActivityLogEntry) string {
	parts := []string{
		entry.Verb,
		entry.Message,
		entry.RequestURI,
		entry.UserAgent,
	}

	if entry.User != nil {
		parts = append(parts, entry.User.Username)
	}

	if entry.Resource != nil {
		parts = append(parts, entry.Resource.Resource, entry.Resource.Name, entry.Resource.APIGroup)
	}

	if entry.ResponseStatus != nil {
		parts = append(parts, strconv.Itoa(int(entry.ResponseStatus.Code)), entry.ResponseStatus.Reason)
	}

	return strings.ToLower(strings.Join(parts, " "))
}

// sortEntriesByTimestamp orders entries newest first. The sort is stable so
// entries sharing a timestamp keep their backend order.
func sortEntriesByTimestamp(entries []types.ActivityLogEntry) {
	sort.SliceStable(entries, func(i, j int) bool {
		return parseEntryTime(entries[i].Timestamp).After(parseEntryTime(entries[j].Timestamp))
	})
}

func parseEntryTime(timestamp string) time.Time {
	t, err := time.Parse(time.RFC3339Nano, timestamp)

	if err != nil {
		return time.Time{}
	}

	return t
}
