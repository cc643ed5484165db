package activity

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/stackport/activity-agent/api/server/types"
	"github.com/stackport/activity-agent/internal/metrics"
	"github.com/stackport/activity-agent/internal/timeutil"
	"github.com/stackport/activity-agent/pkg/logstore"
)

type AuditUser struct {
	Username string   `json:"username"`
	UID      string   `json:"uid"`
	Groups   []string `json:"groups"`
}

type AuditObjectRef struct {
	APIGroup   string `json:"apiGroup"`
	APIVersion string `json:"apiVersion"`
	Resource   string `json:"resource"`
	Namespace  string `json:"namespace"`
	Name       string `json:"name"`
}

type AuditResponseStatus struct {
	Code    int32  `json:"code"`
	Message string `json:"message"`
	Reason  string `json:"reason"`
}

// AuditRecord is one Kubernetes-style audit event. Two record shapes occur
// in the wild: apiserver events carry the target under objectRef, portal
// events under resource. Both decode; Target resolves the preference.
type AuditRecord struct {
	AuditID                  string               `json:"auditID"`
	Verb                     string               `json:"verb"`
	Level                    string               `json:"level"`
	Stage                    string               `json:"stage"`
	RequestURI               string               `json:"requestURI"`
	User                     *AuditUser           `json:"user"`
	ObjectRef                *AuditObjectRef      `json:"objectRef"`
	Resource                 *AuditObjectRef      `json:"resource"`
	ResponseStatus           *AuditResponseStatus `json:"responseStatus"`
	RequestReceivedTimestamp string               `json:"requestReceivedTimestamp"`
	StageTimestamp           string               `json:"stageTimestamp"`
	SourceIPs                []string             `json:"sourceIPs"`
	UserAgent                string               `json:"userAgent"`
	Annotations              map[string]string    `json:"annotations"`
}

// Target returns the object reference of the record, preferring the
// apiserver shape over the portal shape.
func (r *AuditRecord) Target() *AuditObjectRef {
	if r.ObjectRef != nil {
		return r.ObjectRef
	}

	return r.Resource
}

// Username returns the acting user, or "unknown" when the record carries
// none.
func (r *AuditRecord) Username() string {
	if r.User != nil && r.User.Username != "" {
		return r.User.Username
	}

	return "unknown"
}

// ParsedLogLine is the tagged union produced by ParseLogLine: Audit is nil
// exactly when the line is a freeform message.
type ParsedLogLine struct {
	Message string
	Level   string
	Audit   *AuditRecord
}

// ParseLogLine classifies one raw line. It never fails: lines that are not
// JSON objects come back as freeform messages carrying the raw text.
func ParseLogLine(line string) ParsedLogLine {
	fields := map[string]interface{}{}

	if err := json.Unmarshal([]byte(line), &fields); err != nil {
		return ParsedLogLine{
			Message: line,
			Level:   "info",
		}
	}

	if stringField(fields, "auditID") != "" && stringField(fields, "verb") != "" {
		record := &AuditRecord{}

		if err := json.Unmarshal([]byte(line), record); err == nil {
			level := record.Level

			if level == "" {
				level = "Metadata"
			}

			resource := "resource"

			if target := record.Target(); target != nil && target.Resource != "" {
				resource = target.Resource
			}

			return ParsedLogLine{
				Message: fmt.Sprintf("%s %s by %s", strings.ToUpper(record.Verb), resource, record.Username()),
				Level:   level,
				Audit:   record,
			}
		}
	}

	message := stringField(fields, "message")

	if message == "" {
		message = stringField(fields, "msg")
	}

	if message == "" {
		message = line
	}

	level := stringField(fields, "level")

	if level == "" {
		level = stringField(fields, "severity")
	}

	if level == "" {
		level = "info"
	}

	return ParsedLogLine{
		Message: message,
		Level:   level,
	}
}

// ProcessLogEntry normalizes one backend line into an activity log entry.
// The timestamp prefers the audit record's request-received or stage
// timestamp, then the backend receipt timestamp, then now.
func ProcessLogEntry(entry logstore.LogLine, now time.Time) types.ActivityLogEntry {
	parsed := ParseLogLine(entry.Line)

	timestamp := entryTimestamp(parsed.Audit, entry.Timestamp, now)

	if parsed.Audit == nil {
		return types.ActivityLogEntry{
			Timestamp: timestamp,
			Message:   parsed.Message,
			Level:     parsed.Level,
		}
	}

	record := parsed.Audit

	var responseCode *int32

	if record.ResponseStatus != nil && record.ResponseStatus.Code != 0 {
		responseCode = &record.ResponseStatus.Code
	}

	category, icon := CategorizeAuditActivity(record.Verb, responseCode)

	out := types.ActivityLogEntry{
		Timestamp:        timestamp,
		Message:          FormatAuditMessage(record, DefaultFormatOptions()),
		FormattedMessage: FormatAuditMessageHTML(record, DefaultFormatOptions()),
		StatusMessage:    FormatStatusMessage(record),
		Level:            MapAuditLogLevel(parsed.Level),
		Category:         string(category),
		Icon:             icon,
		AuditID:          record.AuditID,
		Verb:             record.Verb,
		RequestURI:       record.RequestURI,
		SourceIPs:        record.SourceIPs,
		UserAgent:        record.UserAgent,
		Stage:            record.Stage,
		Annotations:      record.Annotations,
	}

	if record.User != nil {
		out.User = &types.ActivityLogUser{
			Username: record.User.Username,
			UID:      record.User.UID,
			Groups:   record.User.Groups,
		}
	}

	if target := record.Target(); target != nil {
		out.Resource = &types.ActivityLogResource{
			APIGroup:   target.APIGroup,
			APIVersion: target.APIVersion,
			Resource:   target.Resource,
			Namespace:  target.Namespace,
			Name:       target.Name,
		}
	}

	if record.ResponseStatus != nil {
		out.ResponseStatus = &types.ActivityLogResponseStatus{
			Code:    record.ResponseStatus.Code,
			Message: record.ResponseStatus.Message,
			Reason:  record.ResponseStatus.Reason,
		}
	}

	return out
}

// ProcessLogEntries normalizes a batch. A line that cannot be processed is
// replaced in place by a minimal fallback entry, so the result always has
// the same length and order as the input.
func ProcessLogEntries(entries []logstore.LogLine, now time.Time) []types.ActivityLogEntry {
	out := make([]types.ActivityLogEntry, 0, len(entries))

	for _, entry := range entries {
		processed, err := processLogEntrySafe(entry, now)

		if err != nil {
			log.Error().Err(err).Str("line", entry.Line).Msg("could not process log entry, substituting fallback")
			metrics.ParseFailures.Inc()

			processed = types.ActivityLogEntry{
				Timestamp: now.UTC().Format(time.RFC3339),
				Message:   entry.Line,
				Level:     "unknown",
				Raw:       entry.Line,
			}
		}

		out = append(out, processed)
	}

	return out
}

func processLogEntrySafe(entry logstore.LogLine, now time.Time) (processed types.ActivityLogEntry, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic while processing log entry: %v", r)
		}
	}()

	// batch processing only accepts JSON lines; anything else becomes a
	// fallback entry rather than silently passing through as freeform
	if !json.Valid([]byte(entry.Line)) {
		return types.ActivityLogEntry{}, fmt.Errorf("log line is not valid JSON")
	}

	return ProcessLogEntry(entry, now), nil
}

func entryTimestamp(record *AuditRecord, receiptNS string, now time.Time) string {
	if record != nil {
		for _, raw := range []string{record.RequestReceivedTimestamp, record.StageTimestamp} {
			if raw == "" {
				continue
			}

			if t, err := time.Parse(time.RFC3339Nano, raw); err == nil {
				return t.UTC().Format(time.RFC3339Nano)
			}
		}
	}

	if receiptNS != "" {
		return timeutil.ParseLokiTimestamp(receiptNS, now).Format(time.RFC3339Nano)
	}

	return now.UTC().Format(time.RFC3339Nano)
}

func stringField(fields map[string]interface{}, key string) string {
	if value, ok := fields[key].(string); ok {
		return value
	}

	return ""
}
