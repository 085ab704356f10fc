// Package components renders the UI's HTML fragments. Every fragment with
// an id can be sent alone as a Datastar element patch.
package components

import (
	"context"
	"io"
	"strings"

	"github.com/a-h/templ"
)

// Fragment ids.
const (
	ResultsPaneID  = "results-pane"
	TablesID       = "tables"
	HistoryPanelID = "history-panel"
)

// TableID returns the id of a table section.
func TableID(name string) string { return name + "-table" }

type builder struct {
	strings.Builder
}

func (b *builder) raw(parts ...string) {
	for _, p := range parts {
		b.WriteString(p)
	}
}

func (b *builder) text(s string) {
	b.WriteString(templ.EscapeString(s))
}

// open writes a start tag. attrs are name/value pairs; a pair with an
// empty value is skipped.
func (b *builder) open(tag string, attrs ...string) {
	b.WriteString("<" + tag)
	for i := 0; i+1 < len(attrs); i += 2 {
		name, value := attrs[i], attrs[i+1]
		if value == "" {
			continue
		}
		b.WriteString(" " + name + `="` + templ.EscapeString(value) + `"`)
	}
	b.WriteString(">")
}

func (b *builder) close(tag string) {
	b.WriteString("</" + tag + ">")
}

// element writes a complete element with escaped text content.
func (b *builder) element(tag, content string, attrs ...string) {
	b.open(tag, attrs...)
	b.text(content)
	b.close(tag)
}

func render(fn func(b *builder)) templ.Component {
	return templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		var b builder
		fn(&b)
		_, err := io.WriteString(w, b.String())
		return err
	})
}

// flag returns value when cond holds, else "".
func flag(cond bool, value string) string {
	if cond {
		return value
	}
	return ""
}

// post is a Datastar action posting to url.
func post(url string) string {
	return "@post('" + url + "')"
}
