// Package parser renders and reads the metadata header at the top of a note.
package parser

import (
	"bytes"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/starford/recall/internal/models"
)

// Delimiter opens and closes the metadata header.
const Delimiter = "---"

// TimestampLayout matches ISO-8601 with millisecond precision in UTC.
const TimestampLayout = "2006-01-02T15:04:05.000Z07:00"

var quoteEscaper = strings.NewReplacer(`\`, `\\`, `"`, `\"`)

// Quote wraps s in double quotes, escaping backslashes and quotes so the
// header stays valid YAML whatever the title or tag contains.
func Quote(s string) string {
	return `"` + quoteEscaper.Replace(s) + `"`
}

// NewHeader returns a header whose created and updated timestamps are both now.
func NewHeader(title string, tags []string, now time.Time) models.Header {
	ts := now.UTC().Format(TimestampLayout)
	return models.Header{Title: title, Created: ts, Updated: ts, Tags: tags}
}

// Render formats h followed by a blank line and body.
func Render(h models.Header, body string) string {
	var b strings.Builder
	b.WriteString(Delimiter + "\n")
	b.WriteString("title: " + Quote(h.Title) + "\n")
	b.WriteString("created: " + h.Created + "\n")
	b.WriteString("updated: " + h.Updated + "\n")
	if len(h.Tags) > 0 {
		quoted := make([]string, len(h.Tags))
		for i, t := range h.Tags {
			quoted[i] = Quote(t)
		}
		b.WriteString("tags: [" + strings.Join(quoted, ", ") + "]\n")
	}
	b.WriteString(Delimiter + "\n\n")
	b.WriteString(body)
	return b.String()
}

// Result holds the output of parsing a note.
type Result struct {
	Header *models.Header // nil when the note has no valid header
	Body   string
}

// Parse separates the metadata header from the body. Content without a
// header, or with one that is not valid YAML, is returned entirely as body.
func Parse(data []byte) *Result {
	trimmed := bytes.TrimLeft(data, "\n\r")
	if !bytes.HasPrefix(trimmed, []byte(Delimiter)) {
		return &Result{Body: string(data)}
	}

	rest := trimmed[len(Delimiter):]
	idx := bytes.Index(rest, []byte("\n"+Delimiter))
	if idx < 0 {
		return &Result{Body: string(data)}
	}

	block := rest[:idx]
	after := rest[idx+1+len(Delimiter):]
	body := strings.TrimLeft(string(after), "\n\r")

	var h models.Header
	if err := yaml.Unmarshal(block, &h); err != nil {
		return &Result{Body: string(data)}
	}
	return &Result{Header: &h, Body: body}
}

// Title returns the header title, falling back to the first H1 in the body.
func (r *Result) Title() string {
	if r.Header != nil && r.Header.Title != "" {
		return r.Header.Title
	}
	for _, line := range strings.Split(r.Body, "\n") {
		trimmed := strings.TrimSpace(line)
		if strings.HasPrefix(trimmed, "# ") {
			return strings.TrimSpace(trimmed[2:])
		}
	}
	return ""
}
