package activity

import (
	"fmt"
	"html"
	"net/http"
	"strings"
)

// Category is the coarse severity bucket of an audit entry.
type Category string

const (
	CategorySuccess Category = "success"
	CategoryError   Category = "error"
	CategoryWarning Category = "warning"
	CategoryInfo    Category = "info"
)

// verbCategories is the fallback classification when no response code is
// available. Unlisted verbs classify as info.
var verbCategories = map[string]Category{
	"create":           CategorySuccess,
	"update":           CategoryInfo,
	"patch":            CategoryInfo,
	"get":              CategoryInfo,
	"list":             CategoryInfo,
	"watch":            CategoryInfo,
	"delete":           CategoryWarning,
	"deletecollection": CategoryWarning,
}

var categoryIcons = map[Category]string{
	CategorySuccess: "check-circle",
	CategoryError:   "x-circle",
	CategoryWarning: "alert-triangle",
	CategoryInfo:    "info",
}

// verbPastTense maps known verbs to their human phrasing. Unknown verbs
// keep their capitalized form.
var verbPastTense = map[string]string{
	"create": "Created",
	"update": "Updated",
	"delete": "Deleted",
	"patch":  "Modified",
	"list":   "Listed",
	"get":    "Retrieved",
	"watch":  "Watched",
}

// auditLevelNames maps Kubernetes audit levels onto log levels. Anything
// unrecognized passes through lower-cased.
var auditLevelNames = map[string]string{
	"Metadata":        "info",
	"Request":         "debug",
	"RequestResponse": "debug",
}

// CategorizeAuditActivity derives the category and icon of an audit event.
// The response code takes priority over the verb: 2xx is success, 4xx
// warning, 5xx error.
func CategorizeAuditActivity(verb string, responseCode *int32) (Category, string) {
	if responseCode != nil {
		code := *responseCode

		switch {
		case code >= 500:
			return CategoryError, categoryIcons[CategoryError]
		case code >= 400:
			return CategoryWarning, categoryIcons[CategoryWarning]
		case code >= 200 && code < 300:
			return CategorySuccess, categoryIcons[CategorySuccess]
		}
	}

	category, ok := verbCategories[strings.ToLower(verb)]

	if !ok {
		category = CategoryInfo
	}

	return category, categoryIcons[category]
}

type FormatOptions struct {
	Truncate       bool
	MaxLength      int
	TruncateSuffix string
}

func DefaultFormatOptions() FormatOptions {
	return FormatOptions{
		Truncate:       true,
		MaxLength:      100,
		TruncateSuffix: "...",
	}
}

// FormatAuditMessage renders an audit record as a one-line human-readable
// summary: "<user> <action> <resource>[/<name>][ in namespace <ns>]", with
// the backend's error message appended for responses of 400 and above.
func FormatAuditMessage(record *AuditRecord, opts FormatOptions) string {
	user, action, resource, namespace := messageParts(record)

	message := fmt.Sprintf("%s %s %s", user, action, resource)

	if namespace != "" {
		message += fmt.Sprintf(" in namespace %s", namespace)
	}

	if errMessage := errorMessage(record, opts); errMessage != "" {
		message += " - " + errMessage
	}

	return message
}

// FormatAuditMessageHTML renders the same summary with each segment wrapped
// in a labeled span for downstream styling.
func FormatAuditMessageHTML(record *AuditRecord, opts FormatOptions) string {
	user, action, resource, namespace := messageParts(record)

	message := fmt.Sprintf(
		`<span class="activity-log-user">%s</span> <span class="activity-log-event">%s</span> <span class="activity-log-resource">%s</span>`,
		html.EscapeString(user),
		html.EscapeString(action),
		html.EscapeString(resource),
	)

	if namespace != "" {
		message += fmt.Sprintf(` in namespace <span class="activity-log-namespace">%s</span>`, html.EscapeString(namespace))
	}

	if errMessage := errorMessage(record, opts); errMessage != "" {
		message += fmt.Sprintf(` - <span class="activity-log-error-message">%s</span>`, html.EscapeString(errMessage))
	}

	return message
}

// FormatStatusMessage renders "<code> <description>" from the response
// status, or empty when the record carries no status code. Descriptions
// come from the standard HTTP status table; unknown codes have none.
func FormatStatusMessage(record *AuditRecord) string {
	if record.ResponseStatus == nil || record.ResponseStatus.Code == 0 {
		return ""
	}

	code := int(record.ResponseStatus.Code)

	return strings.TrimSpace(fmt.Sprintf("%d %s", code, http.StatusText(code)))
}

// MapAuditLogLevel maps a Kubernetes audit level onto a log level.
func MapAuditLogLevel(level string) string {
	if mapped, ok := auditLevelNames[level]; ok {
		return mapped
	}

	return strings.ToLower(level)
}

func messageParts(record *AuditRecord) (user, action, resource, namespace string) {
	user = record.Username()
	action = formatAction(record.Verb)
	resource = "resource"

	if target := record.Target(); target != nil {
		if target.Resource != "" {
			resource = target.Resource
		}

		if target.Name != "" {
			resource += "/" + target.Name
		}

		if target.Namespace != "" && target.Namespace != "default" {
			namespace = target.Namespace
		}
	}

	return user, action, resource, namespace
}

func formatAction(verb string) string {
	if past, ok := verbPastTense[strings.ToLower(verb)]; ok {
		return past
	}

	return capitalize(verb)
}

func capitalize(s string) string {
	if s == "" {
		return s
	}

	return strings.ToUpper(s[:1]) + s[1:]
}

func errorMessage(record *AuditRecord, opts FormatOptions) string {
	if record.ResponseStatus == nil || record.ResponseStatus.Code < 400 || record.ResponseStatus.Message == "" {
		return ""
	}

	message := record.ResponseStatus.Message

	maxLength := opts.MaxLength

	if maxLength <= 0 {
		maxLength = 100
	}

	suffix := opts.TruncateSuffix

	if suffix == "" {
		suffix = "..."
	}

	if opts.Truncate && len(message) > maxLength {
		message = message[:maxLength] + suffix
	}

	return message
}
