package healthcheck

import (
	"net/http"

	"github.com/stackport/activity-agent/api/server/config"
	"github.com/stackport/activity-agent/pkg/logstore/lokistore"
)

type ReadyzHandler struct {
	config *config.Config
}

func NewReadyzHandler(config *config.Config) *ReadyzHandler {
	return &ReadyzHandler{
		config: config,
	}
}

func (h *ReadyzHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	// the memory store has no backend to probe
	if h.config.LogStoreKind == "memory" {
		writeHealthy(w)
		return
	}

	if lokistore.GetLokiStatus() != lokistore.ReachableStatus {
		w.Header().Set("Content-Type", "text/plain")
		w.WriteHeader(http.StatusServiceUnavailable)
		w.Write([]byte("log backend unreachable"))
		return
	}

	writeHealthy(w)
}
