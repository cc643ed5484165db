package activity

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func code(c int32) *int32 {
	return &c
}

func TestCategorizeAuditActivity_ResponseCodeWins(t *testing.T) {
	tests := []struct {
		name     string
		verb     string
		code     *int32
		category Category
		icon     string
	}{
		{"5xx beats verb default", "get", code(500), CategoryError, "x-circle"},
		{"4xx is warning", "create", code(404), CategoryWarning, "alert-triangle"},
		{"2xx is success", "delete", code(200), CategorySuccess, "check-circle"},
		{"create falls back to success", "create", nil, CategorySuccess, "check-circle"},
		{"delete falls back to warning", "delete", nil, CategoryWarning, "alert-triangle"},
		{"get falls back to info", "get", nil, CategoryInfo, "info"},
		{"unknown verb is info", "impersonate", nil, CategoryInfo, "info"},
		{"3xx falls back to the verb table", "create", code(302), CategorySuccess, "check-circle"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			category, icon := CategorizeAuditActivity(tt.verb, tt.code)

			assert.Equal(t, tt.category, category)
			assert.Equal(t, tt.icon, icon)
		})
	}
}

func TestFormatAuditMessage(t *testing.T) {
	tests := []struct {
		name     string
		record   *AuditRecord
		expected string
	}{
		{
			name: "known verb with name and namespace",
			record: &AuditRecord{
				Verb:      "create",
				User:      &AuditUser{Username: "alice@example.com"},
				ObjectRef: &AuditObjectRef{Resource: "workloads", Name: "web", Namespace: "prod"},
			},
			expected: "alice@example.com Created workloads/web in namespace prod",
		},
		{
			name: "default namespace omitted",
			record: &AuditRecord{
				Verb:      "delete",
				User:      &AuditUser{Username: "bob"},
				ObjectRef: &AuditObjectRef{Resource: "secrets", Name: "api-key", Namespace: "default"},
			},
			expected: "bob Deleted secrets/api-key",
		},
		{
			name: "patch reads as modified",
			record: &AuditRecord{
				Verb:      "patch",
				User:      &AuditUser{Username: "bob"},
				ObjectRef: &AuditObjectRef{Resource: "domains"},
			},
			expected: "bob Modified domains",
		},
		{
			name: "unknown verb keeps capitalized form",
			record: &AuditRecord{
				Verb:      "impersonate",
				User:      &AuditUser{Username: "bob"},
				ObjectRef: &AuditObjectRef{Resource: "users"},
			},
			expected: "bob Impersonate users",
		},
		{
			name: "portal record shape",
			record: &AuditRecord{
				Verb:     "get",
				User:     &AuditUser{Username: "carol"},
				Resource: &AuditObjectRef{Resource: "httpproxies", Name: "edge"},
			},
			expected: "carol Retrieved httpproxies/edge",
		},
		{
			name:     "missing user and target",
			record:   &AuditRecord{Verb: "list"},
			expected: "unknown Listed resource",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, FormatAuditMessage(tt.record, DefaultFormatOptions()))
		})
	}
}

func TestFormatAuditMessage_ErrorSuffixAndTruncation(t *testing.T) {
	record := &AuditRecord{
		Verb:      "create",
		User:      &AuditUser{Username: "alice"},
		ObjectRef: &AuditObjectRef{Resource: "projects"},
		ResponseStatus: &AuditResponseStatus{
			Code:    403,
			Message: "abcdefghijklmnopqrst", // 20 characters
		},
	}

	message := FormatAuditMessage(record, FormatOptions{
		Truncate:       true,
		MaxLength:      10,
		TruncateSuffix: "...",
	})

	assert.True(t, strings.HasSuffix(message, "..."), "message %q must end with the suffix", message)
	assert.True(t, strings.HasSuffix(message, " - abcdefghij..."), "pre-suffix portion must be exactly 10 characters: %q", message)
}

func TestFormatAuditMessage_NoSuffixBelowFourHundred(t *testing.T) {
	record := &AuditRecord{
		Verb:           "create",
		User:           &AuditUser{Username: "alice"},
		ObjectRef:      &AuditObjectRef{Resource: "projects"},
		ResponseStatus: &AuditResponseStatus{Code: 201, Message: "created"},
	}

	assert.Equal(t, "alice Created projects", FormatAuditMessage(record, DefaultFormatOptions()))
}

func TestFormatAuditMessageHTML(t *testing.T) {
	record := &AuditRecord{
		Verb:           "delete",
		User:           &AuditUser{Username: "alice"},
		ObjectRef:      &AuditObjectRef{Resource: "workloads", Name: "web", Namespace: "prod"},
		ResponseStatus: &AuditResponseStatus{Code: 404, Message: "workload not found"},
	}

	message := FormatAuditMessageHTML(record, DefaultFormatOptions())

	assert.Contains(t, message, `<span class="activity-log-user">alice</span>`)
	assert.Contains(t, message, `<span class="activity-log-event">Deleted</span>`)
	assert.Contains(t, message, `<span class="activity-log-resource">workloads/web</span>`)
	assert.Contains(t, message, `in namespace <span class="activity-log-namespace">prod</span>`)
	assert.Contains(t, message, `<span class="activity-log-error-message">workload not found</span>`)
}

func TestFormatAuditMessageHTML_EscapesValues(t *testing.T) {
	record := &AuditRecord{
		Verb:      "create",
		User:      &AuditUser{Username: `<script>alert(1)</script>`},
		ObjectRef: &AuditObjectRef{Resource: "projects"},
	}

	message := FormatAuditMessageHTML(record, DefaultFormatOptions())

	assert.NotContains(t, message, "<script>")
	assert.Contains(t, message, "&lt;script&gt;")
}

func TestFormatStatusMessage(t *testing.T) {
	tests := []struct {
		name     string
		record   *AuditRecord
		expected string
	}{
		{"no status", &AuditRecord{}, ""},
		{"known code", &AuditRecord{ResponseStatus: &AuditResponseStatus{Code: 404}}, "404 Not Found"},
		{"unknown code has no description", &AuditRecord{ResponseStatus: &AuditResponseStatus{Code: 499}}, "499"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, FormatStatusMessage(tt.record))
		})
	}
}

func TestMapAuditLogLevel(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"Metadata", "info"},
		{"Request", "debug"},
		{"RequestResponse", "debug"},
		{"Panic", "panic"},
		{"custom", "custom"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, MapAuditLogLevel(tt.input))
		})
	}
}
