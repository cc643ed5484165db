package activitylog

import (
	"errors"
	"net/http"

	"github.com/stackport/activity-agent/api/server/config"
	"github.com/stackport/activity-agent/api/server/shared"
	"github.com/stackport/activity-agent/api/server/types"
	"github.com/stackport/activity-agent/pkg/logstore"
)

type ListActivityLogsHandler struct {
	decoder      *shared.RequestDecoder
	resultWriter *shared.ResultWriter

	config *config.Config
}

func NewListActivityLogsHandler(config *config.Config) *ListActivityLogsHandler {
	return &ListActivityLogsHandler{
		decoder:      shared.NewRequestDecoder(config.Logger),
		resultWriter: shared.NewResultWriter(config.Logger),
		config:       config,
	}
}

func (h *ListActivityLogsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	req := &types.ActivityLogQueryParams{}

	if ok := h.decoder.DecodeQuery(w, r, req); !ok {
		return
	}

	res, err := h.config.ActivityService.GetActivityLogs(r.Context(), *req)

	if err != nil {
		requestID := shared.GetRequestID(r.Context())

		var authErr *logstore.AuthenticationError

		if errors.As(err, &authErr) {
			h.config.Logger.Warn().Str("request_id", requestID).Msg("activity log request needs re-authentication")

			h.resultWriter.WriteError(w, r, http.StatusUnauthorized, "authentication with the log backend failed")
			return
		}

		h.config.Logger.Error().Err(err).Str("request_id", requestID).Msg("could not fetch activity logs")

		h.resultWriter.WriteError(w, r, http.StatusInternalServerError, err.Error())
		return
	}

	h.resultWriter.WriteResult(w, r, res)
}
