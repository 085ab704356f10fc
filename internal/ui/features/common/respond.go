package common

import (
	"encoding/json"

	"github.com/starfederation/datastar-go/datastar"
)

// Alert shows a browser alert.
func Alert(sse *datastar.ServerSentEventGenerator, msg string) error {
	return sse.ExecuteScript("alert(" + jsString(msg) + ")")
}

// Navigate points the browser at url.
func Navigate(sse *datastar.ServerSentEventGenerator, url string) error {
	return sse.ExecuteScript("window.location.href = " + jsString(url))
}

// ScrollIntoView smoothly scrolls the element with id into view.
func ScrollIntoView(sse *datastar.ServerSentEventGenerator, id string) error {
	return sse.ExecuteScript("document.getElementById(" + jsString(id) +
		")?.scrollIntoView({behavior: 'smooth', block: 'start'})")
}

// Reload reloads the page.
func Reload(sse *datastar.ServerSentEventGenerator) error {
	return sse.ExecuteScript("window.location.reload()")
}

func jsString(s string) string {
	data, _ := json.Marshal(s)
	return string(data)
}
