package lokistore

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"golang.org/x/oauth2"

	"github.com/stackport/activity-agent/internal/logger"
	"github.com/stackport/activity-agent/internal/timeutil"
	"github.com/stackport/activity-agent/pkg/logstore"
)

const queryRangePath = "/loki/api/v1/query_range"

type Config struct {
	Address     string
	BearerToken string
	Timeout     time.Duration
}

// Client queries a Loki-compatible backend over its HTTP range-query API.
type Client struct {
	client  *http.Client
	address string
	logger  *logger.Logger
}

func NewClient(conf Config, l *logger.Logger) *Client {
	timeout := conf.Timeout

	if timeout == 0 {
		timeout = 10 * time.Second
	}

	httpClient := &http.Client{
		Timeout: timeout,
	}

	if conf.BearerToken != "" {
		src := oauth2.StaticTokenSource(&oauth2.Token{
			AccessToken: conf.BearerToken,
			TokenType:   "Bearer",
		})

		ctx := context.WithValue(context.Background(), oauth2.HTTPClient, httpClient)
		httpClient = oauth2.NewClient(ctx, src)
		httpClient.Timeout = timeout
	}

	return &Client{
		client:  httpClient,
		address: strings.TrimSuffix(conf.Address, "/"),
		logger:  l,
	}
}

type queryRangeResponse struct {
	Status string         `json:"status"`
	Data   queryRangeData `json:"data"`
}

type queryRangeData struct {
	ResultType string                 `json:"resultType"`
	Result     []queryRangeStreamItem `json:"result"`
}

type queryRangeStreamItem struct {
	Stream map[string]string `json:"stream"`
	Values [][]string        `json:"values"`
}

// QueryRange executes a LogQL query over the bounded time range and returns
// the raw log lines with their receipt timestamps. Authentication rejections
// and other failures surface as the typed errors in package logstore.
func (c *Client) QueryRange(ctx context.Context, query string, opts logstore.QueryRangeOptions) (*logstore.QueryRangeResult, error) {
	params := url.Values{}
	params.Set("query", query)
	params.Set("limit", strconv.Itoa(opts.Limit))
	params.Set("start", opts.Start)
	params.Set("end", opts.End)
	params.Set("direction", "backward")

	c.logger.Debug().
		Str("query", query).
		Str("start", opts.Start).
		Str("end", opts.End).
		Int("limit", opts.Limit).
		Msg("executing range query against log backend")

	req, err := http.NewRequestWithContext(
		ctx,
		http.MethodGet,
		fmt.Sprintf("%s%s?%s", c.address, queryRangePath, params.Encode()),
		nil,
	)

	if err != nil {
		return nil, &logstore.QueryError{Message: "could not build range query request", Err: err}
	}

	res, err := c.client.Do(req)

	if err != nil {
		c.logger.Error().Err(err).Str("query", query).Msg("range query request failed")

		return nil, &logstore.QueryError{Message: "range query request failed", Err: err}
	}

	defer res.Body.Close()

	body, err := io.ReadAll(res.Body)

	if err != nil {
		return nil, &logstore.QueryError{Message: "could not read range query response", Err: err}
	}

	if res.StatusCode == http.StatusUnauthorized || res.StatusCode == http.StatusForbidden {
		c.logger.Error().Int("status", res.StatusCode).Msg("log backend rejected credentials")

		return nil, &logstore.AuthenticationError{
			StatusCode: res.StatusCode,
			Message:    strings.TrimSpace(string(body)),
		}
	}

	if res.StatusCode != http.StatusOK {
		c.logger.Error().Int("status", res.StatusCode).Str("query", query).Msg("range query returned an error")

		return nil, &logstore.QueryError{
			Message: fmt.Sprintf("backend returned status %d: %s", res.StatusCode, strings.TrimSpace(string(body))),
		}
	}

	queryRes := &queryRangeResponse{}

	if err := json.Unmarshal(body, queryRes); err != nil {
		return nil, &logstore.QueryError{Message: "could not decode range query response", Err: err}
	}

	entries := make([]logstore.LogLine, 0)

	for _, item := range queryRes.Data.Result {
		for _, value := range item.Values {
			if len(value) < 2 {
				continue
			}

			entries = append(entries, logstore.LogLine{
				Timestamp: value[0],
				Line:      value[1],
			})
		}
	}

	c.logger.Debug().Int("entries", len(entries)).Msg("range query returned")

	now := time.Now()

	return &logstore.QueryRangeResult{
		Entries: entries,
		Timerange: [2]int64{
			timeutil.TokenToUnixSeconds(opts.Start, now),
			timeutil.TokenToUnixSeconds(opts.End, now),
		},
	}, nil
}
