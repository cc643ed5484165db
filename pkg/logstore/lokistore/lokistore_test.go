package lokistore

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stackport/activity-agent/internal/logger"
	"github.com/stackport/activity-agent/pkg/logstore"
)

const queryRangeBody = `{
	"status": "success",
	"data": {
		"resultType": "streams",
		"result": [
			{
				"stream": {"app": "audit-logs"},
				"values": [
					["1788088500000000000", "{\"message\": \"newest\"}"],
					["1788088400000000000", "{\"message\": \"older\"}"]
				]
			},
			{
				"stream": {"app": "audit-logs", "pod": "b"},
				"values": [
					["1788088300000000000", "{\"message\": \"oldest\"}"]
				]
			}
		]
	}
}`

func newTestClient(t *testing.T, handler http.HandlerFunc) (*Client, *httptest.Server) {
	t.Helper()

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	return NewClient(Config{Address: srv.URL}, logger.NewConsole(false)), srv
}

func TestQueryRange_FlattensStreams(t *testing.T) {
	var gotPath string
	var gotParams map[string][]string

	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotParams = r.URL.Query()

		w.Write([]byte(queryRangeBody))
	})

	result, err := client.QueryRange(context.Background(), `{app="audit-logs"} | json`, logstore.QueryRangeOptions{
		Start: "1788080000",
		End:   "now",
		Limit: 50,
	})

	require.NoError(t, err)

	assert.Equal(t, "/loki/api/v1/query_range", gotPath)
	assert.Equal(t, []string{`{app="audit-logs"} | json`}, gotParams["query"])
	assert.Equal(t, []string{"1788080000"}, gotParams["start"])
	assert.Equal(t, []string{"now"}, gotParams["end"])
	assert.Equal(t, []string{"50"}, gotParams["limit"])
	assert.Equal(t, []string{"backward"}, gotParams["direction"])

	require.Len(t, result.Entries, 3)
	assert.Equal(t, "1788088500000000000", result.Entries[0].Timestamp)
	assert.Equal(t, `{"message": "newest"}`, result.Entries[0].Line)
	assert.Equal(t, `{"message": "oldest"}`, result.Entries[2].Line)

	assert.Equal(t, int64(1788080000), result.Timerange[0])
}

func TestQueryRange_SendsBearerToken(t *testing.T) {
	var gotAuth string

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")

		w.Write([]byte(`{"status": "success", "data": {"resultType": "streams", "result": []}}`))
	}))
	defer srv.Close()

	client := NewClient(Config{Address: srv.URL, BearerToken: "s3cret"}, logger.NewConsole(false))

	_, err := client.QueryRange(context.Background(), `{app="audit-logs"}`, logstore.QueryRangeOptions{Start: "now", End: "now", Limit: 1})
	require.NoError(t, err)

	assert.Equal(t, "Bearer s3cret", gotAuth)
}

func TestQueryRange_AuthenticationErrors(t *testing.T) {
	for _, status := range []int{http.StatusUnauthorized, http.StatusForbidden} {
		client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(status)
			w.Write([]byte("no valid credentials"))
		})

		_, err := client.QueryRange(context.Background(), `{app="audit-logs"}`, logstore.QueryRangeOptions{Start: "now", End: "now", Limit: 1})
		require.Error(t, err)

		var authErr *logstore.AuthenticationError
		require.True(t, errors.As(err, &authErr))
		assert.Equal(t, status, authErr.StatusCode)
		assert.Equal(t, "no valid credentials", authErr.Message)
	}
}

func TestQueryRange_BackendErrorCarriesMessage(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte("parse error at line 1"))
	})

	_, err := client.QueryRange(context.Background(), "{bad", logstore.QueryRangeOptions{Start: "now", End: "now", Limit: 1})
	require.Error(t, err)

	var queryErr *logstore.QueryError
	require.True(t, errors.As(err, &queryErr))
	assert.Contains(t, queryErr.Error(), "400")
	assert.Contains(t, queryErr.Error(), "parse error at line 1")
}

func TestQueryRange_MalformedBody(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("not json"))
	})

	_, err := client.QueryRange(context.Background(), `{app="audit-logs"}`, logstore.QueryRangeOptions{Start: "now", End: "now", Limit: 1})
	require.Error(t, err)

	var queryErr *logstore.QueryError
	assert.True(t, errors.As(err, &queryErr))
}

func TestQueryRange_ContextCancellation(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(queryRangeBody))
	})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := client.QueryRange(ctx, `{app="audit-logs"}`, logstore.QueryRangeOptions{Start: "now", End: "now", Limit: 1})
	require.Error(t, err)

	var queryErr *logstore.QueryError
	assert.True(t, errors.As(err, &queryErr))
}
