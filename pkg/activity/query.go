package activity

import (
	"fmt"
	"strings"
)

// QueryBuilderOptions carries the structured filters that compile into the
// backend query string. Free-text search is deliberately absent: the query
// language cannot express OR-across-fields, so callers apply it as a
// post-filter on the parsed entries.
type QueryBuilderOptions struct {
	BaseSelector string
	ProjectName  string
	Actions      string
	User         string
	Resource     string
	Status       string
}

// BuildLogQLQuery assembles the query string sent to the log backend. The
// clause order is fixed (json stage, project, verbs, user, resource,
// status) and surfaces verbatim in the response's diagnostic query field.
func BuildLogQLQuery(opts QueryBuilderOptions) string {
	var b strings.Builder

	b.WriteString(opts.BaseSelector)
	b.WriteString(" | json")

	if opts.ProjectName != "" {
		fmt.Fprintf(&b, " | project_name=%q", opts.ProjectName)
	}

	if opts.Actions != "" {
		verbs := make([]string, 0)

		for _, action := range strings.Split(opts.Actions, ",") {
			action = strings.ToLower(strings.TrimSpace(action))

			if action != "" {
				verbs = append(verbs, action)
			}
		}

		if len(verbs) > 0 {
			fmt.Fprintf(&b, ` | verb=~"(?i)(%s)"`, strings.Join(verbs, "|"))
		}
	}

	if opts.User != "" {
		fmt.Fprintf(&b, " | user_username=%q", opts.User)
	}

	if opts.Resource != "" {
		fmt.Fprintf(&b, " | objectRef_resource=%q", opts.Resource)
	}

	switch opts.Status {
	case "":
	case "success":
		b.WriteString(" | responseStatus_code < 400")
	case "error":
		b.WriteString(" | responseStatus_code >= 400")
	default:
		fmt.Fprintf(&b, " | responseStatus_code=%q", opts.Status)
	}

	return b.String()
}
