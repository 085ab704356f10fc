package analyzer

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"unicode/utf8"

	htmltomarkdown "github.com/JohannesKaufmann/html-to-markdown/v2"

	"github.com/leapstack-labs/edilens/pkg/core"
)

const maxErrorRunes = 300

// ServiceError is a failed response from the analysis service.
type ServiceError struct {
	Status  int
	Message string
}

func (e *ServiceError) Error() string {
	return fmt.Sprintf("analysis service returned %d: %s", e.Status, e.Message)
}

// ErrorPayload builds the error-shaped payload shown for a failed call.
// Service errors keep the service's own message.
func ErrorPayload(err error, message string) *core.Payload {
	var svcErr *ServiceError
	if errors.As(err, &svcErr) {
		return core.NewErrorPayload(svcErr.Message, message)
	}
	return core.NewErrorPayload(err.Error(), message)
}

// bodyText turns a non-JSON response body into a short plain message.
// HTML error pages are converted to markdown text.
func bodyText(contentType string, body []byte, status int) string {
	text := strings.TrimSpace(string(body))
	if strings.Contains(contentType, "html") || strings.HasPrefix(text, "<") {
		if md, err := htmltomarkdown.ConvertString(text); err == nil {
			text = strings.TrimSpace(md)
		}
	}
	text = strings.Join(strings.Fields(text), " ")
	if text == "" {
		return http.StatusText(status)
	}
	return truncate(text, maxErrorRunes)
}

func truncate(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	r := []rune(s)
	return string(r[:n]) + "…"
}
