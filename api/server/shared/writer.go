package shared

import (
	"net/http"

	"github.com/go-chi/render"

	"github.com/stackport/activity-agent/internal/logger"
)

// ProxyResponse is the envelope every API response is wrapped in.
type ProxyResponse struct {
	Code  int         `json:"code"`
	Data  interface{} `json:"data,omitempty"`
	Error string      `json:"error,omitempty"`
	Path  string      `json:"path"`
}

type ResultWriter struct {
	logger *logger.Logger
}

func NewResultWriter(l *logger.Logger) *ResultWriter {
	return &ResultWriter{logger: l}
}

func (rw *ResultWriter) WriteResult(w http.ResponseWriter, r *http.Request, data interface{}) {
	render.Status(r, http.StatusOK)
	render.JSON(w, r, &ProxyResponse{
		Code: http.StatusOK,
		Data: data,
		Path: r.URL.Path,
	})
}

func (rw *ResultWriter) WriteError(w http.ResponseWriter, r *http.Request, status int, message string) {
	render.Status(r, status)
	render.JSON(w, r, &ProxyResponse{
		Code:  status,
		Error: message,
		Path:  r.URL.Path,
	})
}
