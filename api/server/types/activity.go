package types

// ActivityLogQueryParams carries the raw query-string parameters of an
// activity log request. Every field is optional; absence means no filter.
type ActivityLogQueryParams struct {
	Limit        string `schema:"limit"`
	Start        string `schema:"start"`
	End          string `schema:"end"`
	Project      string `schema:"project"`
	Organization string `schema:"organization"`
	Q            string `schema:"q"`
	User         string `schema:"user"`
	Status       string `schema:"status"`
	Actions      string `schema:"actions"`
	ResourceType string `schema:"resourceType"`
	ResourceID   string `schema:"resourceId"`
	ResponseCode string `schema:"responseCode"`
	APIGroup     string `schema:"apiGroup"`
	Namespace    string `schema:"namespace"`
	SourceIP     string `schema:"sourceIP"`
}

type ActivityLogUser struct {
	Username string   `json:"username,omitempty"`
	UID      string   `json:"uid,omitempty"`
	Groups   []string `json:"groups,omitempty"`
}

type ActivityLogResource struct {
	APIGroup   string `json:"apiGroup,omitempty"`
	APIVersion string `json:"apiVersion,omitempty"`
	Resource   string `json:"resource,omitempty"`
	Namespace  string `json:"namespace,omitempty"`
	Name       string `json:"name,omitempty"`
}

type ActivityLogResponseStatus struct {
	Code    int32  `json:"code,omitempty"`
	Message string `json:"message,omitempty"`
	Reason  string `json:"reason,omitempty"`
}

// ActivityLogEntry is the normalized form of one backend log line. The
// audit-specific fields (formattedMessage, category, icon, and everything
// below level) are populated exactly when the source line was recognized
// as an audit record.
type ActivityLogEntry struct {
	Timestamp        string `json:"timestamp"`
	Message          string `json:"message"`
	FormattedMessage string `json:"formattedMessage,omitempty"`
	StatusMessage    string `json:"statusMessage,omitempty"`
	Level            string `json:"level,omitempty"`
	Category         string `json:"category,omitempty"`
	Icon             string `json:"icon,omitempty"`

	AuditID        string                     `json:"auditId,omitempty"`
	Verb           string                     `json:"verb,omitempty"`
	RequestURI     string                     `json:"requestUri,omitempty"`
	SourceIPs      []string                   `json:"sourceIPs,omitempty"`
	UserAgent      string                     `json:"userAgent,omitempty"`
	Stage          string                     `json:"stage,omitempty"`
	Annotations    map[string]string          `json:"annotations,omitempty"`
	User           *ActivityLogUser           `json:"user,omitempty"`
	Resource       *ActivityLogResource       `json:"resource,omitempty"`
	ResponseStatus *ActivityLogResponseStatus `json:"responseStatus,omitempty"`

	// Raw preserves the unparsed line on fallback entries.
	Raw string `json:"raw,omitempty"`
}

type TimeRange struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

type ActivityLogsResponse struct {
	Logs      []ActivityLogEntry `json:"logs"`
	Query     string             `json:"query"`
	TimeRange TimeRange          `json:"timeRange"`
}
