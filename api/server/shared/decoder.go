package shared

import (
	"net/http"

	"github.com/gorilla/schema"

	"github.com/stackport/activity-agent/internal/logger"
)

// RequestDecoder decodes query-string parameters into schema-tagged
// request structs.
type RequestDecoder struct {
	decoder *schema.Decoder
	logger  *logger.Logger
}

func NewRequestDecoder(l *logger.Logger) *RequestDecoder {
	decoder := schema.NewDecoder()
	decoder.IgnoreUnknownKeys(true)

	return &RequestDecoder{
		decoder: decoder,
		logger:  l,
	}
}

// DecodeQuery populates v from the request's query string, writing a 400
// envelope and returning false on failure.
func (d *RequestDecoder) DecodeQuery(w http.ResponseWriter, r *http.Request, v interface{}) bool {
	if err := d.decoder.Decode(v, r.URL.Query()); err != nil {
		d.logger.Warn().Err(err).Str("path", r.URL.Path).Msg("could not decode query parameters")

		NewResultWriter(d.logger).WriteError(w, r, http.StatusBadRequest, "invalid query parameters")

		return false
	}

	return true
}
